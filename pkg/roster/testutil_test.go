package roster

import (
	"time"

	"github.com/paiban/roster/pkg/model"
)

// testProblemOption 测试问题的调整项
type testProblemOption func(*model.Problem)

// newTestProblem 构造测试问题：nurseNum 名护士、shiftNum 种班次、
// skillNum 项技能，默认约束宽松、无需求、无偏好、空历史
func newTestProblem(nurseNum, shiftNum, skillNum int, opts ...testProblemOption) *model.Problem {
	sce := model.Scenario{
		TotalWeekNum: 4,
		SkillTypeNum: skillNum,
	}
	for i := 0; i < shiftNum; i++ {
		legal := make([]bool, shiftNum)
		for j := range legal {
			legal[j] = true
		}
		sce.Shifts = append(sce.Shifts, model.Shift{
			MinConsecutiveShiftNum: 1,
			MaxConsecutiveShiftNum: 7,
			LegalNextShifts:        legal,
		})
	}
	sce.Contracts = []model.Contract{{
		MinShiftNum:             0,
		MaxShiftNum:             100,
		MinConsecutiveDayNum:    1,
		MaxConsecutiveDayNum:    7,
		MinConsecutiveDayoffNum: 1,
		MaxConsecutiveDayoffNum: 7,
		MaxWorkingWeekendNum:    4,
		CompleteWeekend:         false,
	}}
	for i := 0; i < nurseNum; i++ {
		skills := make([]model.SkillID, skillNum)
		for k := range skills {
			skills[k] = model.SkillID(k)
		}
		sce.Nurses = append(sce.Nurses, model.Nurse{Contract: 0, Skills: skills})
	}
	sce.Normalize()

	names := model.NewNames()
	names.ScenarioName = "test"
	for i := 0; i < skillNum; i++ {
		names.SkillNames = append(names.SkillNames, string(rune('A'+i)))
	}
	for i := 0; i < shiftNum; i++ {
		names.ShiftNames = append(names.ShiftNames, string(rune('D'+i)))
	}
	for i := 0; i < nurseNum; i++ {
		names.NurseNames = append(names.NurseNames, string(rune('a'+i)))
	}

	history := model.NewHistory(nurseNum)
	// 默认历史：所有护士上周日休息一天，避免零长度历史块
	for i := range history.ConsecutiveDayoffNums {
		history.ConsecutiveDayoffNums[i] = 1
	}

	p := &model.Problem{
		RandSeed: 42,
		Timeout:  2 * time.Second,
		Scenario: sce,
		WeekData: model.NewWeekData(shiftNum, skillNum, nurseNum),
		History:  history,
		Names:    names,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// withDemand 设置每天每班次每技能的最低/最优需求
func withDemand(min, opt int) testProblemOption {
	return func(p *model.Problem) {
		for day := model.WeekdayMon; day < model.WeekdaySize; day++ {
			for shift := 0; shift < p.Scenario.ShiftTypeNum; shift++ {
				for skill := 0; skill < p.Scenario.SkillTypeNum; skill++ {
					p.WeekData.MinNurseNums[day][shift][skill] = min
					p.WeekData.OptNurseNums[day][shift][skill] = opt
				}
			}
		}
	}
}

// newTestSolver 构造已完成辅助数据初始化的求解器（不运行搜索）
func newTestSolver(p *model.Problem) *Solver {
	cfg := DefaultConfig()
	s := NewSolver(p, cfg, nil)
	s.startTime = time.Now()
	s.deadline = s.startTime.Add(p.Timeout)
	s.initAssistData()
	s.sln = NewSolution(s)
	s.sln.EvaluateObjValue()
	s.optima = s.sln.GenOutput()
	return s
}

// cloneSolutionState 抓取解的可观测状态，用于逐位比较
type solutionState struct {
	assign   model.Assign
	objValue model.ObjValue
	missing  model.NurseNums
	totals   []int
	consec   []Consecutive
}

func captureState(s *Solution) solutionState {
	return solutionState{
		assign:   s.assign.Clone(),
		objValue: s.objValue,
		missing:  s.missingNurseNums.Clone(),
		totals:   append([]int(nil), s.totalAssignNums...),
		consec:   append([]Consecutive(nil), s.consecutives...),
	}
}

func statesEqual(a, b solutionState) bool {
	if a.objValue != b.objValue || !a.assign.Equal(b.assign) {
		return false
	}
	for day := range a.missing {
		for shift := range a.missing[day] {
			for skill := range a.missing[day][shift] {
				if a.missing[day][shift][skill] != b.missing[day][shift][skill] {
					return false
				}
			}
		}
	}
	for i := range a.totals {
		if a.totals[i] != b.totals[i] {
			return false
		}
	}
	for i := range a.consec {
		if a.consec[i] != b.consec[i] {
			return false
		}
	}
	return true
}
