package roster

import (
	"math/rand"
	"testing"

	"github.com/paiban/roster/pkg/model"
)

// applyRandomMoves 施加一串随机可行移动，返回实际执行的步数
func applyRandomMoves(t *testing.T, solver *Solver, rng *rand.Rand, steps int) int {
	t.Helper()
	p := solver.problem
	sln := solver.sln
	applied := 0
	for i := 0; i < steps; i++ {
		weekday := rng.Intn(model.WeekdayNum) + 1
		nurse := model.NurseID(rng.Intn(p.Scenario.NurseNum))
		shift := model.ShiftID(rng.Intn(p.Scenario.ShiftTypeNum))
		skill := model.SkillID(rng.Intn(p.Scenario.SkillTypeNum))
		switch rng.Intn(4) {
		case 0:
			if delta := sln.TryAddShift(weekday, nurse, shift, skill); delta < model.ForbiddenMove {
				sln.objValue += delta
				sln.AddShift(weekday, nurse, shift, skill)
				applied++
			}
		case 1:
			if delta := sln.TryChangeShift(weekday, nurse, shift, skill); delta < model.ForbiddenMove {
				sln.objValue += delta
				sln.ChangeShift(weekday, nurse, shift, skill)
				applied++
			}
		case 2:
			if delta := sln.TryRemoveShift(weekday, nurse); delta < model.ForbiddenMove {
				sln.objValue += delta
				sln.RemoveShift(weekday, nurse)
				applied++
			}
		default:
			nurse2 := model.NurseID(rng.Intn(p.Scenario.NurseNum))
			if delta := sln.ApplySwapNurse(weekday, nurse, nurse2); delta < model.ForbiddenMove {
				applied++
			}
		}
	}
	return applied
}

// checkMirrors 校验缺员表与累计班次数是分配表的纯镜像
func checkMirrors(t *testing.T, solver *Solver) {
	t.Helper()
	p := solver.problem
	sln := solver.sln

	nums := CountNurseNums(p, sln.assign)
	for day := model.WeekdayMon; day < model.WeekdaySize; day++ {
		for shift := 0; shift < p.Scenario.ShiftTypeNum; shift++ {
			for skill := 0; skill < p.Scenario.SkillTypeNum; skill++ {
				want := p.WeekData.OptNurseNums[day][shift][skill] - nums[day][shift][skill]
				if sln.missingNurseNums[day][shift][skill] != want {
					t.Fatalf("missingNurse[%d][%d][%d] = %d，期望 %d",
						day, shift, skill, sln.missingNurseNums[day][shift][skill], want)
				}
			}
		}
	}
	for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
		want := p.History.TotalAssignNums[nurse]
		for day := model.WeekdayMon; day < model.WeekdaySize; day++ {
			if sln.assign.IsWorking(nurse, day) {
				want++
			}
		}
		if sln.totalAssignNums[nurse] != want {
			t.Fatalf("totalAssign[%d] = %d，期望 %d", nurse, sln.totalAssignNums[nurse], want)
		}
	}
}

func TestSolution_增量目标值与重算一致(t *testing.T) {
	tests := []struct {
		name    string
		problem *model.Problem
		seed    int64
	}{
		{"宽松约束", newTestProblem(4, 3, 2, withDemand(0, 1)), 1},
		{"带历史", func() *model.Problem {
			p := newTestProblem(3, 2, 2, withDemand(0, 1))
			p.History.PastWeekCount = 1
			p.History.CurrentWeek = 2
			p.History.LastShifts[0] = 0
			p.History.ConsecutiveShiftNums[0] = 4
			p.History.ConsecutiveDayNums[0] = 4
			p.History.ConsecutiveDayoffNums[0] = 0 // 以工作结尾的历史没有连续休息
			p.History.TotalAssignNums[0] = 5
			p.History.TotalWorkingWeekendNums[0] = 1
			p.History.ConsecutiveDayoffNums[1] = 2
			p.History.ConsecutiveDayoffNums[2] = 1
			return p
		}(), 2},
		{"紧约束", func() *model.Problem {
			p := newTestProblem(4, 2, 1, withDemand(0, 2))
			p.Scenario.Shifts[0].MaxConsecutiveShiftNum = 2
			p.Scenario.Shifts[1].MinConsecutiveShiftNum = 2
			p.Scenario.Contracts[0].MaxConsecutiveDayNum = 3
			p.Scenario.Contracts[0].MinConsecutiveDayoffNum = 2
			p.Scenario.Contracts[0].CompleteWeekend = true
			p.Scenario.Contracts[0].MaxShiftNum = 3
			p.Scenario.Contracts[0].MaxWorkingWeekendNum = 1
			return p
		}(), 3},
		{"禁止衔接", func() *model.Problem {
			p := newTestProblem(3, 3, 1, withDemand(0, 1))
			p.Scenario.Shifts[2].LegalNextShifts[0] = false
			p.Scenario.Shifts[2].LegalNextShifts[1] = false
			return p
		}(), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			solver := newTestSolver(tt.problem)
			sln := solver.sln
			rng := rand.New(rand.NewSource(tt.seed))

			for round := 0; round < 40; round++ {
				applyRandomMoves(t, solver, rng, 25)

				incremental := sln.objValue
				if check := CheckObjValue(tt.problem, sln.assign); check != incremental {
					t.Fatalf("第%d轮：增量目标值 %d，独立重算 %d", round, incremental, check)
				}
				sln.EvaluateObjValue()
				if sln.objValue != incremental {
					t.Fatalf("第%d轮：增量目标值 %d，分项汇总 %d", round, incremental, sln.objValue)
				}
				checkMirrors(t, solver)
			}
		})
	}
}

func TestSolution_添加移除往返恢复(t *testing.T) {
	p := newTestProblem(3, 2, 2, withDemand(0, 1))
	solver := newTestSolver(p)
	sln := solver.sln
	rng := rand.New(rand.NewSource(11))
	applyRandomMoves(t, solver, rng, 60)

	before := captureState(sln)
	for weekday := model.WeekdayMon; weekday < model.WeekdaySize; weekday++ {
		for nurse := model.NurseID(0); nurse < 3; nurse++ {
			for shift := model.ShiftID(0); shift < 2; shift++ {
				for skill := model.SkillID(0); skill < 2; skill++ {
					delta := sln.TryAddShift(weekday, nurse, shift, skill)
					if delta >= model.ForbiddenMove {
						continue
					}
					sln.objValue += delta
					sln.AddShift(weekday, nurse, shift, skill)

					back := sln.tryRemoveShift(weekday, nurse, false)
					sln.objValue += back
					sln.RemoveShift(weekday, nurse)

					if !statesEqual(before, captureState(sln)) {
						t.Fatalf("Add(%d,%d,%d,%d) 后 Remove 未逐位恢复解",
							weekday, nurse, shift, skill)
					}
				}
			}
		}
	}
}

func TestSolution_交换两次恒等(t *testing.T) {
	p := newTestProblem(4, 2, 2, withDemand(0, 1))
	solver := newTestSolver(p)
	sln := solver.sln
	rng := rand.New(rand.NewSource(13))
	applyRandomMoves(t, solver, rng, 80)

	for weekday := model.WeekdayMon; weekday < model.WeekdaySize; weekday++ {
		for n1 := model.NurseID(0); n1 < 4; n1++ {
			for n2 := n1 + 1; n2 < 4; n2++ {
				before := captureState(sln)
				if sln.ApplySwapNurse(weekday, n1, n2) >= model.ForbiddenMove {
					continue
				}
				if sln.ApplySwapNurse(weekday, n1, n2) >= model.ForbiddenMove {
					t.Fatalf("(%d,%d,%d) 反向交换被拒绝", weekday, n1, n2)
				}
				if !statesEqual(before, captureState(sln)) {
					t.Fatalf("(%d,%d,%d) 交换两次未恢复原状", weekday, n1, n2)
				}
			}
		}
	}
}

func TestSolution_周一连续计数包含历史(t *testing.T) {
	p := newTestProblem(1, 1, 1)
	p.History.LastShifts[0] = 0
	p.History.ConsecutiveShiftNums[0] = 2
	p.History.ConsecutiveDayNums[0] = 2
	solver := newTestSolver(p)
	sln := solver.sln

	// 周一到周三与历史同班次，之后休息
	for day := model.WeekdayMon; day <= model.WeekdayWed; day++ {
		sln.AddShift(day, 0, 0, 0)
	}

	c := &sln.consecutives[0]
	blockLen := c.ShiftHigh[model.WeekdayMon] - c.ShiftLow[model.WeekdayMon] + 1
	if blockLen != 2+3 {
		t.Errorf("周一所在班次块长度 = %d，期望历史2天加本周3天", blockLen)
	}
	if c.DayHigh[model.WeekdayMon]-c.DayLow[model.WeekdayMon]+1 != 5 {
		t.Errorf("周一所在工作块长度 = %d，期望 5",
			c.DayHigh[model.WeekdayMon]-c.DayLow[model.WeekdayMon]+1)
	}
}

func TestSolution_完整周末惩罚(t *testing.T) {
	tests := []struct {
		name     string
		satWork  bool
		sunWork  bool
		expected model.ObjValue
	}{
		{"周末都休息", false, false, 0},
		{"只上周六", true, false, model.PenaltyCompleteWeekend},
		{"只上周日", false, true, model.PenaltyCompleteWeekend},
		{"周末都上班", true, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProblem(1, 1, 1)
			p.Scenario.Contracts[0].CompleteWeekend = true
			solver := newTestSolver(p)
			sln := solver.sln
			if tt.satWork {
				sln.AddShift(model.WeekdaySat, 0, 0, 0)
			}
			if tt.sunWork {
				sln.AddShift(model.WeekdaySun, 0, 0, 0)
			}
			sln.EvaluateObjValue()
			if sln.objCompleteWeekend != tt.expected {
				t.Errorf("objCompleteWeekend = %d，期望 %d", sln.objCompleteWeekend, tt.expected)
			}
		})
	}
}

func TestSolution_总班次按周折算(t *testing.T) {
	// 第 w 周的单次超排贡献 TotalAssign*(assignNum*W − max*w)/W
	p := newTestProblem(1, 1, 1)
	p.Scenario.TotalWeekNum = 4
	p.Scenario.Contracts[0].MaxShiftNum = 8
	p.History.PastWeekCount = 1
	p.History.CurrentWeek = 2
	p.History.TotalAssignNums[0] = 2
	solver := newTestSolver(p)
	sln := solver.sln

	// 本周排 3 天：总数 5，5*4 > 8*2 超出 4
	for day := model.WeekdayMon; day <= model.WeekdayWed; day++ {
		sln.AddShift(day, 0, 0, 0)
	}
	sln.EvaluateObjValue()

	want := model.PenaltyTotalAssign * model.ObjValue(5*4-8*2) / 4
	if sln.objTotalAssign != want {
		t.Errorf("objTotalAssign = %d，期望 %d", sln.objTotalAssign, want)
	}
}

func TestSolution_GenHistory(t *testing.T) {
	p := newTestProblem(2, 2, 1)
	p.History.LastShifts[0] = 0
	p.History.ConsecutiveShiftNums[0] = 2
	p.History.ConsecutiveDayNums[0] = 2
	solver := newTestSolver(p)
	sln := solver.sln

	// 护士0整周同班次，与历史合并；护士1整周休息
	for day := model.WeekdayMon; day < model.WeekdaySize; day++ {
		sln.AddShift(day, 0, 0, 0)
	}
	sln.EvaluateObjValue()

	h := sln.GenHistory()
	if h.CurrentWeek != 2 || h.PastWeekCount != 1 {
		t.Errorf("周计数 = (%d,%d)，期望 (2,1)", h.CurrentWeek, h.PastWeekCount)
	}
	if h.ConsecutiveShiftNums[0] != 7+2 {
		t.Errorf("护士0连续班次 = %d，期望 9（历史2天加本周7天）", h.ConsecutiveShiftNums[0])
	}
	if h.LastShifts[0] != 0 || h.LastShifts[1] != model.ShiftNone {
		t.Errorf("lastShifts = (%d,%d)", h.LastShifts[0], h.LastShifts[1])
	}
	if h.TotalWorkingWeekendNums[0] != 1 {
		t.Errorf("护士0工作周末 = %d，期望 1", h.TotalWorkingWeekendNums[0])
	}
	if h.ConsecutiveDayoffNums[1] != 7+1 {
		t.Errorf("护士1连续休息 = %d，期望 8（历史1天加本周7天）", h.ConsecutiveDayoffNums[1])
	}
}
