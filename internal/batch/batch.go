// Package batch 提供批量测试工具：在工作池上对相互独立的算例
// 并行求解，单个算例内逐周串行并传递历史
package batch

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/paiban/roster/internal/config"
	"github.com/paiban/roster/internal/loader"
	"github.com/paiban/roster/internal/repository"
	"github.com/paiban/roster/internal/resultsheet"
	"github.com/paiban/roster/pkg/errors"
	"github.com/paiban/roster/pkg/logger"
	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/roster"
)

// Instance 标准算例
type Instance struct {
	Name     string
	NurseNum int
	WeekNum  int
}

// Instances 标准算例表
var Instances = []Instance{
	{"n005w4", 5, 4}, {"n012w8", 12, 8}, {"n021w4", 21, 4},
	{"n030w4", 30, 4}, {"n030w8", 30, 8},
	{"n035w4", 35, 4}, {"n035w8", 35, 8},
	{"n040w4", 40, 4}, {"n040w8", 40, 8},
	{"n050w4", 50, 4}, {"n050w8", 50, 8},
	{"n060w4", 60, 4}, {"n060w8", 60, 8},
	{"n070w4", 70, 4}, {"n070w8", 70, 8},
	{"n080w4", 80, 4}, {"n080w8", 80, 8},
	{"n100w4", 100, 4}, {"n100w8", 100, 8},
	{"n110w4", 110, 4}, {"n110w8", 110, 8},
	{"n120w4", 120, 4}, {"n120w8", 120, 8},
}

// InstanceByName 按名称查找算例
func InstanceByName(name string) (Instance, bool) {
	for _, inst := range Instances {
		if inst.Name == name {
			return inst, true
		}
	}
	return Instance{}, false
}

// defaultTimeouts 护士数到单周时限（秒）的默认表
var defaultTimeouts = map[int]float64{
	5: 20, 12: 28, 21: 36, 30: 45, 35: 50, 40: 55, 50: 65,
	60: 75, 70: 90, 80: 100, 100: 120, 110: 135, 120: 150,
}

// TimeoutTable 护士数到单周时限的映射
type TimeoutTable map[int]float64

// DefaultTimeoutTable 返回默认时限表的副本
func DefaultTimeoutTable() TimeoutTable {
	t := make(TimeoutTable, len(defaultTimeouts))
	for k, v := range defaultTimeouts {
		t[k] = v
	}
	return t
}

// LoadTimeoutTable 从文本文件读取时限表，每行 "护士数 秒数"
func LoadTimeoutTable(path string) (TimeoutTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput,
			fmt.Sprintf("打开时限表 '%s' 失败", path))
	}
	defer f.Close()

	table := make(TimeoutTable)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, errors.New(errors.CodeInvalidInput,
				fmt.Sprintf("时限表行 '%s' 格式错误", line))
		}
		nurses, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, errors.InvalidInput("nurse_num", fields[0])
		}
		seconds, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, errors.InvalidInput("timeout", fields[1])
		}
		table[nurses] = seconds
	}
	return table, scanner.Err()
}

// TimeoutFor 返回给定护士数的单周时限；无精确匹配时取不大于它的
// 最大档位，再不然取最小档位
func (t TimeoutTable) TimeoutFor(nurseNum int) time.Duration {
	if sec, ok := t[nurseNum]; ok {
		return time.Duration(sec * float64(time.Second))
	}
	keys := make([]int, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	if len(keys) == 0 {
		return time.Minute
	}
	chosen := keys[0]
	for _, k := range keys {
		if k <= nurseNum {
			chosen = k
		}
	}
	return time.Duration(t[chosen] * float64(time.Second))
}

// SolveProblem 完成一次单周求解并组装结果行。
// 求解器错误不中断流程：尽力而为的分配仍然被记录，
// feasible=false 写入结果行。
func SolveProblem(cfg *config.Config, runID string, p *model.Problem) (*roster.Solver, resultsheet.Row, error) {
	log := logger.NewSolverLogger(runID, p.Names.ScenarioName)
	solver := roster.NewSolver(p, cfg.Solver, log)

	initErr := solver.Init()
	if initErr == nil {
		initErr = solver.Solve()
	}

	optima := solver.Optima()
	feasible := roster.CheckFeasibility(p, optima.Assign)
	checkObj := roster.CheckObjValue(p, optima.Assign)
	obj := float64(optima.ObjValue) / float64(model.Amp)

	row := resultsheet.Row{
		Time:         time.Now(),
		RunID:        runID,
		Instance:     p.Names.ScenarioName,
		Algorithm:    cfg.Solver.Algorithm,
		RandSeed:     p.RandSeed,
		GenCount:     solver.GenerationCount(),
		IterCount:    solver.IterCount(),
		Duration:     solver.FindTimeOffset(),
		Feasible:     feasible,
		CheckObjDiff: float64(checkObj-optima.ObjValue) / float64(model.Amp),
		ObjValue:     obj,
		AccObjValue:  float64(p.History.AccObjValue)/float64(model.Amp) + obj,
		Solution:     resultsheet.SerializeAssign(p, optima.Assign),
	}
	return solver, row, initErr
}

// Task 批量测试中的一个算例任务
type Task struct {
	Instance Instance
	H0       int   // 初始历史文件编号
	WeekData []int // 每周使用的周数据文件编号
	Seed     int64
}

// Runner 批量测试执行器
type Runner struct {
	DataDir   string
	OutDir    string
	SheetPath string
	Cfg       *config.Config
	Timeouts  TimeoutTable
	Workers   int
	Repo      *repository.ResultRepository
}

// Run 在工作池上执行全部任务；每个求解独占自己的解结构
func (r *Runner) Run(ctx context.Context, tasks []Task) error {
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	taskCh := make(chan Task)
	errCh := make(chan error, len(tasks))
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskCh {
				if err := r.runTask(ctx, task); err != nil {
					logger.WithError(err).
						Str("instance", task.Instance.Name).
						Msg("算例执行失败")
					errCh <- err
				}
			}
		}()
	}

	for _, task := range tasks {
		select {
		case <-ctx.Done():
			close(taskCh)
			wg.Wait()
			return ctx.Err()
		case taskCh <- task:
		}
	}
	close(taskCh)
	wg.Wait()
	close(errCh)

	var firstErr error
	for err := range errCh {
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// runTask 逐周求解一个算例，周之间在内存中传递历史
func (r *Runner) runTask(ctx context.Context, task Task) error {
	inst := task.Instance
	scePath := filepath.Join(r.DataDir, inst.Name, fmt.Sprintf("Sc-%s.json", inst.Name))
	hisPath := filepath.Join(r.DataDir, inst.Name, fmt.Sprintf("H0-%s-%d.json", inst.Name, task.H0))

	sce, names, err := loader.LoadScenario(scePath)
	if err != nil {
		return err
	}
	history, err := loader.LoadHistory(hisPath, names, sce.NurseNum)
	if err != nil {
		return err
	}

	timeout := r.Timeouts.TimeoutFor(inst.NurseNum)
	for week, wd := range task.WeekData {
		if err := ctx.Err(); err != nil {
			return err
		}
		weekPath := filepath.Join(r.DataDir, inst.Name, fmt.Sprintf("WD-%s-%d.json", inst.Name, wd))
		weekData, err := loader.LoadWeekData(weekPath, sce, names)
		if err != nil {
			return err
		}

		p := &model.Problem{
			RandSeed:  task.Seed + int64(week),
			Timeout:   timeout,
			WeekCount: history.PastWeekCount,
			Scenario:  *sce,
			WeekData:  weekData,
			History:   history,
			Names:     names,
		}

		runID := uuid.New().String()
		solver, row, solveErr := SolveProblem(r.Cfg, runID, p)
		if r.SheetPath != "" {
			if err := resultsheet.Append(r.SheetPath, row); err != nil {
				return err
			}
		}
		if r.Repo != nil {
			if err := r.Repo.SaveResult(ctx, row); err != nil {
				return err
			}
		}
		if r.OutDir != "" {
			solPath := filepath.Join(r.OutDir,
				fmt.Sprintf("Sol-%s-%d-%d.json", inst.Name, task.H0, week))
			if err := loader.WriteSolution(solPath, p, solver.Optima().Assign); err != nil {
				return err
			}
		}
		if solveErr != nil {
			return solveErr
		}

		// 由本周最优解推进历史
		history = solver.BestSolution().GenHistory()
	}
	return nil
}
