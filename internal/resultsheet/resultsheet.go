// Package resultsheet 维护共享的 CSV 结果表。
// 结果表是唯一的跨进程资源，每次追加都以文件建议锁保护。
package resultsheet

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/paiban/roster/pkg/errors"
	"github.com/paiban/roster/pkg/model"
)

// header 结果表列头
var header = []string{
	"Time", "ID", "Instance", "Algorithm", "RandSeed",
	"GenCount", "IterCount", "Duration", "Feasible",
	"Check-Obj", "ObjValue", "AccObjValue", "Solution",
}

// Row 一次求解的结果行
type Row struct {
	Time         time.Time
	RunID        string
	Instance     string
	Algorithm    string
	RandSeed     int64
	GenCount     int
	IterCount    int64
	Duration     time.Duration
	Feasible     bool
	CheckObjDiff float64
	ObjValue     float64
	AccObjValue  float64
	Solution     string
}

func (r *Row) fields() []string {
	return []string{
		r.Time.Format("2006-01-02 Mon 15:04:05"),
		r.RunID,
		r.Instance,
		r.Algorithm,
		strconv.FormatInt(r.RandSeed, 10),
		strconv.Itoa(r.GenCount),
		strconv.FormatInt(r.IterCount, 10),
		fmt.Sprintf("%.3fs", r.Duration.Seconds()),
		strconv.FormatBool(r.Feasible),
		fmt.Sprintf("%g", r.CheckObjDiff),
		fmt.Sprintf("%g", r.ObjValue),
		fmt.Sprintf("%g", r.AccObjValue),
		r.Solution,
	}
}

// SerializeAssign 把分配表序列化为 "班次 技能" 序列
func SerializeAssign(p *model.Problem, assign model.Assign) string {
	var b strings.Builder
	for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
		for weekday := model.WeekdayMon; weekday < model.WeekdaySize; weekday++ {
			if assign.IsWorking(nurse, weekday) {
				cell := assign[nurse][weekday]
				fmt.Fprintf(&b, "%d %d ", cell.Shift, cell.Skill)
			}
		}
	}
	return b.String()
}

// Append 在结果表末尾追加一行，文件为空时先写列头。
// 整个追加过程持有排他建议锁。
func Append(path string, row Row) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, errors.CodeSheetError, fmt.Sprintf("打开结果表 '%s' 失败", path))
	}
	defer f.Close()

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		return errors.Wrap(err, errors.CodeSheetError, "获取结果表文件锁失败")
	}
	defer unix.Flock(int(f.Fd()), unix.LOCK_UN)

	info, err := f.Stat()
	if err != nil {
		return errors.Wrap(err, errors.CodeSheetError, "读取结果表状态失败")
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			return errors.Wrap(err, errors.CodeSheetError, "写入结果表列头失败")
		}
	}
	if err := w.Write(row.fields()); err != nil {
		return errors.Wrap(err, errors.CodeSheetError, "写入结果行失败")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, errors.CodeSheetError, "刷新结果表失败")
	}
	return nil
}
