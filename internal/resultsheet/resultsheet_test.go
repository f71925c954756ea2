package resultsheet

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paiban/roster/pkg/model"
)

func testRow(instance string) Row {
	return Row{
		Time:      time.Date(2026, 8, 3, 10, 0, 0, 0, time.Local),
		RunID:     "run-1",
		Instance:  instance,
		Algorithm: "TabuSearchLoop",
		RandSeed:  42,
		GenCount:  3,
		IterCount: 1000,
		Duration:  1500 * time.Millisecond,
		Feasible:  true,
		ObjValue:  255,
		Solution:  "0 1 0 0 ",
	}
}

func TestAppend_列头只写一次(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")

	if err := Append(path, testRow("n005w4")); err != nil {
		t.Fatalf("第一次 Append() 失败: %v", err)
	}
	if err := Append(path, testRow("n012w8")); err != nil {
		t.Fatalf("第二次 Append() 失败: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	if len(records) != 3 {
		t.Fatalf("行数 = %d，期望列头加两行数据", len(records))
	}
	if records[0][0] != "Time" || records[0][len(records[0])-1] != "Solution" {
		t.Errorf("列头错误: %v", records[0])
	}
	if records[1][2] != "n005w4" || records[2][2] != "n012w8" {
		t.Error("数据行顺序或内容错误")
	}
}

func TestSerializeAssign(t *testing.T) {
	p := &model.Problem{
		Scenario: model.Scenario{NurseNum: 2, ShiftTypeNum: 2, SkillTypeNum: 2},
	}
	assign := model.NewAssign(2)
	assign[0][model.WeekdayMon] = model.SingleAssign{Shift: 1, Skill: 0}
	assign[1][model.WeekdaySun] = model.SingleAssign{Shift: 0, Skill: 1}

	if got := SerializeAssign(p, assign); got != "1 0 0 1 " {
		t.Errorf("SerializeAssign() = %q，期望 %q", got, "1 0 0 1 ")
	}
}
