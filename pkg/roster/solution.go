package roster

import (
	"time"

	"github.com/paiban/roster/pkg/model"
)

// Output 最优解快照
type Output struct {
	ObjValue model.ObjValue
	Assign   model.Assign
	FindTime time.Time
}

// Solution 解的增量表示。分配表、目标值、缺员表、累计班次数
// 与连续块索引在每次 apply 中一起更新。
type Solution struct {
	solver  *Solver        // 只读回链
	problem *model.Problem // 只读借用

	assign   model.Assign
	objValue model.ObjValue

	// 分项目标值
	objInsufficientStaff   model.ObjValue
	objConsecutiveShift    model.ObjValue
	objConsecutiveDay      model.ObjValue
	objConsecutiveDayOff   model.ObjValue
	objPreference          model.ObjValue
	objCompleteWeekend     model.ObjValue
	objTotalAssign         model.ObjValue
	objTotalWorkingWeekend model.ObjValue

	// missingNurseNums[day][shift][skill] = opt − 实际人数，可为负
	missingNurseNums model.NurseNums
	totalAssignNums  []int
	consecutives     []Consecutive

	// 禁忌表
	iterCount     model.IterCount
	dayTabu       [][]model.IterCount
	shiftTabu     [][][]model.IterCount
	dayTabuBase   model.IterCount
	dayTabuAmp    model.IterCount
	shiftTabuBase model.IterCount
	shiftTabuAmp  model.IterCount
}

// NewSolution 创建空解（全休息）
func NewSolution(solver *Solver) *Solution {
	p := solver.problem
	s := &Solution{
		solver:           solver,
		problem:          p,
		assign:           model.NewAssign(p.Scenario.NurseNum),
		missingNurseNums: p.WeekData.OptNurseNums.Clone(),
		totalAssignNums:  append([]int(nil), p.History.TotalAssignNums...),
		consecutives:     make([]Consecutive, p.Scenario.NurseNum),
	}
	for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
		s.consecutives[nurse] = NewConsecutive(&p.History, nurse)
		s.assign[nurse][model.WeekdayHis] = model.SingleAssign{Shift: p.History.LastShifts[nurse]}
	}
	s.initTabu()
	return s
}

// ResetAssign 重置为全休息
func (s *Solution) ResetAssign() {
	p := s.problem
	s.assign = model.NewAssign(p.Scenario.NurseNum)
	s.missingNurseNums = p.WeekData.OptNurseNums.Clone()
	s.totalAssignNums = append([]int(nil), p.History.TotalAssignNums...)
	for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
		s.consecutives[nurse] = NewConsecutive(&p.History, nurse)
		s.assign[nurse][model.WeekdayHis] = model.SingleAssign{Shift: p.History.LastShifts[nurse]}
	}
}

// RebuildFrom 以给定分配表重建解（逐格执行 AddShift）
func (s *Solution) RebuildFrom(assign model.Assign) {
	s.ResetAssign()
	for nurse := model.NurseID(0); int(nurse) < s.problem.Scenario.NurseNum; nurse++ {
		for weekday := model.WeekdayMon; weekday < model.WeekdaySize; weekday++ {
			if assign.IsWorking(nurse, weekday) {
				s.AddShift(weekday, nurse, assign[nurse][weekday].Shift, assign[nurse][weekday].Skill)
			}
		}
	}
	s.EvaluateObjValue()
}

// ObjValue 当前目标值（已乘 Amp）
func (s *Solution) ObjValue() model.ObjValue {
	return s.objValue
}

// Assign 当前分配表（只读访问）
func (s *Solution) Assign() model.Assign {
	return s.assign
}

// GenOutput 生成最优解快照
func (s *Solution) GenOutput() Output {
	return Output{
		ObjValue: s.objValue,
		Assign:   s.assign.Clone(),
		FindTime: time.Now(),
	}
}

// AddShift 在休息格上添加工作班次并同步所有辅助结构
func (s *Solution) AddShift(weekday int, nurse model.NurseID, shift model.ShiftID, skill model.SkillID) {
	if !model.IsWorkingShift(shift) || shift == s.assign[nurse][weekday].Shift {
		return
	}

	s.updateConsecutive(weekday, nurse, shift)

	s.missingNurseNums[weekday][shift][skill]--
	s.totalAssignNums[nurse]++
	s.assign[nurse][weekday] = model.SingleAssign{Shift: shift, Skill: skill}
}

// ChangeShift 修改工作格的班次或技能
func (s *Solution) ChangeShift(weekday int, nurse model.NurseID, shift model.ShiftID, skill model.SkillID) {
	if !model.IsWorkingShift(shift) {
		return
	}

	if shift != s.assign[nurse][weekday].Shift {
		s.updateConsecutive(weekday, nurse, shift)
	}

	old := s.assign[nurse][weekday]
	s.missingNurseNums[weekday][shift][skill]--
	s.missingNurseNums[weekday][old.Shift][old.Skill]++
	s.assign[nurse][weekday] = model.SingleAssign{Shift: shift, Skill: skill}
}

// RemoveShift 将工作格改为休息
func (s *Solution) RemoveShift(weekday int, nurse model.NurseID) {
	if !s.assign.IsWorking(nurse, weekday) {
		return
	}

	s.updateConsecutive(weekday, nurse, model.ShiftNone)

	old := s.assign[nurse][weekday]
	s.missingNurseNums[weekday][old.Shift][old.Skill]++
	s.totalAssignNums[nurse]--
	s.assign[nurse][weekday] = model.SingleAssign{Shift: model.ShiftNone}
}

// updateConsecutive 按边界情况选择五种更新原语，
// 对班次区间和工作状态区间各执行一次
func (s *Solution) updateConsecutive(weekday int, nurse model.NurseID, shift model.ShiftID) {
	c := &s.consecutives[nurse]
	nextDay := weekday + 1
	prevDay := weekday - 1

	// 工作状态区间
	isDayHigh := weekday == c.DayHigh[weekday]
	isDayLow := weekday == c.DayLow[weekday]
	if s.assign.IsWorking(nurse, weekday) != model.IsWorkingShift(shift) {
		switch {
		case isDayHigh && isDayLow:
			assignSingle(weekday, &c.DayHigh, &c.DayLow, weekday != model.WeekdaySun, true)
		case isDayHigh:
			assignHigh(weekday, &c.DayHigh, &c.DayLow, weekday != model.WeekdaySun)
		case isDayLow:
			assignLow(weekday, &c.DayHigh, &c.DayLow, true)
		default:
			assignMiddle(weekday, &c.DayHigh, &c.DayLow)
		}
	}

	// 班次区间
	isShiftHigh := weekday == c.ShiftHigh[weekday]
	isShiftLow := weekday == c.ShiftLow[weekday]
	extendRight := nextDay <= model.WeekdaySun && shift == s.assign[nurse][nextDay].Shift
	extendLeft := shift == s.assign[nurse][prevDay].Shift
	switch {
	case isShiftHigh && isShiftLow:
		assignSingle(weekday, &c.ShiftHigh, &c.ShiftLow, extendRight, extendLeft)
	case isShiftHigh:
		assignHigh(weekday, &c.ShiftHigh, &c.ShiftLow, extendRight)
	case isShiftLow:
		assignLow(weekday, &c.ShiftHigh, &c.ShiftLow, extendLeft)
	default:
		assignMiddle(weekday, &c.ShiftHigh, &c.ShiftLow)
	}
}

// IsValidSuccession 判断 shift 接在 weekday-1 之后是否合法（shift 不可为休息）
func (s *Solution) IsValidSuccession(nurse model.NurseID, shift model.ShiftID, weekday int) bool {
	prev := s.assign[nurse][weekday-1].Shift
	return !model.IsWorkingShift(prev) || s.problem.Scenario.Shifts[prev].LegalNextShifts[shift]
}

// IsValidPrior 判断 shift 排在 weekday 时与 weekday+1 的衔接是否合法
func (s *Solution) IsValidPrior(nurse model.NurseID, shift model.ShiftID, weekday int) bool {
	if weekday >= model.WeekdaySun {
		return true
	}
	next := s.assign[nurse][weekday+1].Shift
	return !model.IsWorkingShift(next) || s.problem.Scenario.Shifts[shift].LegalNextShifts[next]
}

// GenHistory 由当前解生成下一周的历史。
// 与历史合并的块的下界为负值，块长已包含上周尾部。
func (s *Solution) GenHistory() model.History {
	p := s.problem
	h := model.NewHistory(p.Scenario.NurseNum)
	h.AccObjValue = p.History.AccObjValue + s.objValue
	h.PastWeekCount = p.History.CurrentWeek
	h.CurrentWeek = p.History.CurrentWeek + 1
	copy(h.TotalAssignNums, s.totalAssignNums)
	copy(h.TotalWorkingWeekendNums, p.History.TotalWorkingWeekendNums)

	for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
		if s.assign.IsWorking(nurse, model.WeekdaySat) || s.assign.IsWorking(nurse, model.WeekdaySun) {
			h.TotalWorkingWeekendNums[nurse]++
		}
		h.LastShifts[nurse] = s.assign[nurse][model.WeekdaySun].Shift
		c := &s.consecutives[nurse]
		if s.assign.IsWorking(nurse, model.WeekdaySun) {
			h.ConsecutiveShiftNums[nurse] = c.ShiftHigh[model.WeekdaySun] - c.ShiftLow[model.WeekdaySun] + 1
			h.ConsecutiveDayNums[nurse] = c.DayHigh[model.WeekdaySun] - c.DayLow[model.WeekdaySun] + 1
		} else {
			h.ConsecutiveDayoffNums[nurse] = c.DayHigh[model.WeekdaySun] - c.DayLow[model.WeekdaySun] + 1
		}
	}
	return h
}
