package roster

import (
	"testing"
	"time"

	"github.com/paiban/roster/pkg/model"
)

func TestGreedy_满足最低需求(t *testing.T) {
	p := newTestProblem(4, 2, 1, withDemand(1, 1))
	solver := newTestSolver(p)
	if !solver.sln.GenInitAssign() {
		t.Fatal("贪心构造失败")
	}
	if !CheckFeasibility(p, solver.sln.assign) {
		t.Error("贪心构造的解违反硬约束")
	}
}

func TestGreedy_先排专才(t *testing.T) {
	// 护士0只有技能0，护士1两项技能都有；
	// 技能0每天需要1人，应优先消耗专才护士0
	p := newTestProblem(2, 1, 2)
	p.Scenario.Nurses[0].Skills = []model.SkillID{0}
	p.Scenario.Normalize()
	for day := model.WeekdayMon; day < model.WeekdaySize; day++ {
		p.WeekData.MinNurseNums[day][0][0] = 1
		p.WeekData.OptNurseNums[day][0][0] = 1
		p.WeekData.MinNurseNums[day][0][1] = 1
		p.WeekData.OptNurseNums[day][0][1] = 1
	}
	solver := newTestSolver(p)
	if !solver.sln.GenInitAssign() {
		t.Fatal("贪心构造失败")
	}
	if !CheckFeasibility(p, solver.sln.assign) {
		t.Fatal("构造的解违反硬约束")
	}
	// 唯一可行解：护士0做技能0，护士1做技能1
	for day := model.WeekdayMon; day < model.WeekdaySize; day++ {
		if solver.sln.assign[0][day].Skill != 0 || solver.sln.assign[1][day].Skill != 1 {
			t.Fatalf("第%d天分配 = %v/%v，期望专才在技能0",
				day, solver.sln.assign[0][day], solver.sln.assign[1][day])
		}
	}
}

func TestSolve_单护士连续工作上限(t *testing.T) {
	// 一名护士、一种班次、一项技能，每天 min=opt=1，
	// maxConsecWork=3：任何可行解都是整周连上，
	// 最优目标值 = ConsecutiveDay*(7−3)
	p := newTestProblem(1, 1, 1, withDemand(1, 1))
	p.Scenario.Contracts[0].MaxConsecutiveDayNum = 3
	p.Timeout = 500 * time.Millisecond

	cfg := DefaultConfig()
	cfg.Algorithm = AlgorithmTabuSearchLoop
	solver := NewSolver(p, cfg, nil)
	if err := solver.Init(); err != nil {
		t.Fatalf("Init() 失败: %v", err)
	}
	if err := solver.Solve(); err != nil {
		t.Fatalf("Solve() 失败: %v", err)
	}

	want := model.PenaltyConsecutiveDay * 4
	if solver.Optima().ObjValue != want {
		t.Errorf("最优目标值 = %d，期望 %d", solver.Optima().ObjValue, want)
	}
	if !solver.Check() {
		t.Error("最优解未通过独立校验")
	}
}

func TestSolve_不相交技能唯一解(t *testing.T) {
	// 两名护士技能不相交，各自每天恰需1人：唯一可行解，目标值 0
	p := newTestProblem(2, 1, 2)
	p.Scenario.TotalWeekNum = 1
	p.Scenario.Nurses[0].Skills = []model.SkillID{0}
	p.Scenario.Nurses[1].Skills = []model.SkillID{1}
	p.Scenario.Normalize()
	for day := model.WeekdayMon; day < model.WeekdaySize; day++ {
		for skill := 0; skill < 2; skill++ {
			p.WeekData.MinNurseNums[day][0][skill] = 1
			p.WeekData.OptNurseNums[day][0][skill] = 1
		}
	}
	p.Timeout = 500 * time.Millisecond

	cfg := DefaultConfig()
	solver := NewSolver(p, cfg, nil)
	if err := solver.Init(); err != nil {
		t.Fatalf("Init() 失败: %v", err)
	}
	if err := solver.Solve(); err != nil {
		t.Fatalf("Solve() 失败: %v", err)
	}

	optima := solver.Optima()
	if optima.ObjValue != 0 {
		t.Errorf("最优目标值 = %d，期望 0", optima.ObjValue)
	}
	for day := model.WeekdayMon; day < model.WeekdaySize; day++ {
		if optima.Assign[0][day].Skill != 0 || optima.Assign[1][day].Skill != 1 {
			t.Fatalf("第%d天不是唯一可行分配", day)
		}
	}
}

func TestSolve_强制不可行走修复(t *testing.T) {
	// 周一需要3人但只有2名护士：贪心必然失败，修复后仍不可行
	p := newTestProblem(2, 1, 1)
	p.WeekData.MinNurseNums[model.WeekdayMon][0][0] = 3
	p.WeekData.OptNurseNums[model.WeekdayMon][0][0] = 3
	p.Timeout = 500 * time.Millisecond

	cfg := DefaultConfig()
	solver := NewSolver(p, cfg, nil)
	err := solver.Init()
	if err == nil {
		t.Fatal("Init() 应返回不可行错误")
	}
	if CheckFeasibility(p, solver.Optima().Assign) {
		t.Error("强制不可行的算例不应产生可行解")
	}
}

func TestSolve_各算法均返回可行解(t *testing.T) {
	for _, algorithm := range SolveAlgorithmNames {
		t.Run(algorithm, func(t *testing.T) {
			p := newTestProblem(4, 2, 2, withDemand(1, 1))
			p.Timeout = 300 * time.Millisecond
			cfg := DefaultConfig()
			cfg.Algorithm = algorithm
			solver := NewSolver(p, cfg, nil)
			if err := solver.Init(); err != nil {
				t.Fatalf("Init() 失败: %v", err)
			}
			if err := solver.Solve(); err != nil {
				t.Fatalf("Solve() 失败: %v", err)
			}
			if !solver.Check() {
				t.Error("最优解未通过独立校验")
			}
			if solver.Optima().ObjValue < 0 {
				t.Errorf("首周目标值 %d 不应为负", solver.Optima().ObjValue)
			}
		})
	}
}

func TestSolve_相同种子结果可复现(t *testing.T) {
	run := func() Output {
		p := newTestProblem(3, 2, 1, withDemand(1, 2))
		p.RandSeed = 7
		p.Timeout = 200 * time.Millisecond
		cfg := DefaultConfig()
		cfg.Algorithm = AlgorithmRandomWalk
		solver := NewSolver(p, cfg, nil)
		if err := solver.Init(); err != nil {
			t.Fatalf("Init() 失败: %v", err)
		}
		return solver.Optima()
	}
	// 初始解只由种子决定，两次构造应逐格相同
	first := run()
	second := run()
	if !first.Assign.Equal(second.Assign) {
		t.Error("相同种子的初始解不一致")
	}
}

func TestModeSeqPatterns_完整性(t *testing.T) {
	tests := []struct {
		name  string
		first MoveMode
		size  int
	}{
		{"ACSR", ModeAdd, 4},
		{"ASCR", ModeAdd, 4},
		{"ARLCS", ModeARLoop, 3},
		{"ARRCS", ModeARRand, 3},
		{"ARBCS", ModeARBoth, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, ok := ModeSeqPatterns[tt.name]
			if !ok {
				t.Fatalf("缺少模式序列 %s", tt.name)
			}
			if len(seq) != tt.size || seq[0] != tt.first {
				t.Errorf("序列 = %v", seq)
			}
		})
	}
}
