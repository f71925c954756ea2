package roster

import "github.com/paiban/roster/pkg/model"

// EvaluateObjValue 从头计算各分项目标值并汇总
func (s *Solution) EvaluateObjValue() {
	s.objInsufficientStaff = 0
	s.objConsecutiveShift = 0
	s.objConsecutiveDay = 0
	s.objConsecutiveDayOff = 0
	s.objPreference = 0
	s.objCompleteWeekend = 0
	s.objTotalAssign = 0
	s.objTotalWorkingWeekend = 0

	s.evaluateInsufficientStaff()
	s.evaluateConsecutiveShift()
	s.evaluateConsecutiveDay()
	s.evaluateConsecutiveDayOff()
	s.evaluatePreference()
	s.evaluateCompleteWeekend()
	s.evaluateTotalAssign()
	s.evaluateTotalWorkingWeekend()

	s.objValue = s.objInsufficientStaff + s.objConsecutiveShift + s.objConsecutiveDay +
		s.objConsecutiveDayOff + s.objPreference + s.objCompleteWeekend +
		s.objTotalAssign + s.objTotalWorkingWeekend
}

func (s *Solution) evaluateInsufficientStaff() {
	p := s.problem
	for weekday := model.WeekdayMon; weekday < model.WeekdaySize; weekday++ {
		for shift := 0; shift < p.Scenario.ShiftTypeNum; shift++ {
			for skill := 0; skill < p.Scenario.SkillTypeNum; skill++ {
				if missing := s.missingNurseNums[weekday][shift][skill]; missing > 0 {
					s.objInsufficientStaff += model.PenaltyInsufficientStaff * model.ObjValue(missing)
				}
			}
		}
	}
}

func (s *Solution) evaluateConsecutiveShift() {
	p := s.problem
	history := &p.History
	shifts := p.Scenario.Shifts
	for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
		c := &s.consecutives[nurse]

		nextday := c.ShiftHigh[model.WeekdayMon] + 1
		if nextday < model.WeekdaySize { // 整周不是一个块
			// 与历史衔接的首块
			if s.assign.IsWorking(nurse, model.WeekdayMon) {
				shift := &shifts[s.assign[nurse][model.WeekdayMon].Shift]
				if history.LastShifts[nurse] == s.assign[nurse][model.WeekdayMon].Shift {
					if history.ConsecutiveShiftNums[nurse] > shift.MaxConsecutiveShiftNum {
						// 上周超出部分已计，只罚本周延续的天数
						s.objConsecutiveShift += model.PenaltyConsecutiveShift *
							model.ObjValue(c.ShiftHigh[model.WeekdayMon]-model.WeekdayMon+1)
					} else {
						s.objConsecutiveShift += model.PenaltyConsecutiveShift * model.ObjValue(model.DistanceToRange(
							c.ShiftHigh[model.WeekdayMon]-c.ShiftLow[model.WeekdayMon]+1,
							shift.MinConsecutiveShiftNum, shift.MaxConsecutiveShiftNum))
					}
				} else {
					s.objConsecutiveShift += model.PenaltyConsecutiveShift * model.ObjValue(model.DistanceToRange(
						c.ShiftHigh[model.WeekdayMon]-model.WeekdayMon+1,
						shift.MinConsecutiveShiftNum, shift.MaxConsecutiveShiftNum))
					if model.IsWorkingShift(history.LastShifts[nurse]) {
						s.objConsecutiveShift += model.PenaltyConsecutiveShift * model.ObjValue(model.AbsentCount(
							history.ConsecutiveShiftNums[nurse],
							shifts[history.LastShifts[nurse]].MinConsecutiveShiftNum))
					}
				}
			} else if model.IsWorkingShift(history.LastShifts[nurse]) {
				s.objConsecutiveShift += model.PenaltyConsecutiveShift * model.ObjValue(model.AbsentCount(
					history.ConsecutiveShiftNums[nurse],
					shifts[history.LastShifts[nurse]].MinConsecutiveShiftNum))
			}
			// 周中的块
			for ; c.ShiftHigh[nextday] < model.WeekdaySun; nextday = c.ShiftHigh[nextday] + 1 {
				if s.assign.IsWorking(nurse, nextday) {
					shift := &shifts[s.assign[nurse][nextday].Shift]
					s.objConsecutiveShift += model.PenaltyConsecutiveShift * model.ObjValue(model.DistanceToRange(
						c.ShiftHigh[nextday]-c.ShiftLow[nextday]+1,
						shift.MinConsecutiveShiftNum, shift.MaxConsecutiveShiftNum))
				}
			}
		}
		// 收尾块：短块可能延伸到下周，不罚不足
		consecutiveShiftEntireWeek := history.ConsecutiveShiftNums[nurse] + model.WeekdayNum
		consecutiveShift := c.ShiftHigh[model.WeekdaySun] - c.ShiftLow[model.WeekdaySun] + 1
		if s.assign.IsWorking(nurse, model.WeekdaySun) {
			shift := &shifts[s.assign[nurse][model.WeekdaySun].Shift]
			if c.IsSingleConsecutiveShift() { // 整周为一个块
				if history.LastShifts[nurse] == s.assign[nurse][model.WeekdaySun].Shift {
					if history.ConsecutiveShiftNums[nurse] > shift.MaxConsecutiveShiftNum {
						s.objConsecutiveShift += model.PenaltyConsecutiveShift * model.WeekdayNum
					} else {
						s.objConsecutiveShift += model.PenaltyConsecutiveShift * model.ObjValue(model.ExceedCount(
							consecutiveShiftEntireWeek, shift.MaxConsecutiveShiftNum))
					}
				} else {
					if model.WeekdayNum > shift.MaxConsecutiveShiftNum {
						s.objConsecutiveShift += model.PenaltyConsecutiveShift *
							model.ObjValue(model.WeekdayNum-shift.MaxConsecutiveShiftNum)
					}
					if model.IsWorkingShift(history.LastShifts[nurse]) {
						s.objConsecutiveShift += model.PenaltyConsecutiveShift * model.ObjValue(model.AbsentCount(
							history.ConsecutiveShiftNums[nurse],
							shifts[history.LastShifts[nurse]].MinConsecutiveShiftNum))
					}
				}
			} else {
				s.objConsecutiveShift += model.PenaltyConsecutiveShift * model.ObjValue(model.ExceedCount(
					consecutiveShift, shift.MaxConsecutiveShiftNum))
			}
		} else if c.IsSingleConsecutiveShift() && model.IsWorkingShift(history.LastShifts[nurse]) {
			s.objConsecutiveShift += model.PenaltyConsecutiveShift * model.ObjValue(model.AbsentCount(
				history.ConsecutiveShiftNums[nurse],
				shifts[history.LastShifts[nurse]].MinConsecutiveShiftNum))
		}
	}
}

func (s *Solution) evaluateConsecutiveDay() {
	p := s.problem
	history := &p.History
	for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
		c := &s.consecutives[nurse]
		contract := p.Scenario.NurseContract(nurse)

		nextday := c.DayHigh[model.WeekdayMon] + 1
		if nextday < model.WeekdaySize { // 整周不是一个块
			if s.assign.IsWorking(nurse, model.WeekdayMon) {
				if history.ConsecutiveDayNums[nurse] > contract.MaxConsecutiveDayNum {
					s.objConsecutiveDay += model.PenaltyConsecutiveDay *
						model.ObjValue(c.DayHigh[model.WeekdayMon]-model.WeekdayMon+1)
				} else {
					s.objConsecutiveDay += model.PenaltyConsecutiveDay * model.ObjValue(model.DistanceToRange(
						c.DayHigh[model.WeekdayMon]-c.DayLow[model.WeekdayMon]+1,
						contract.MinConsecutiveDayNum, contract.MaxConsecutiveDayNum))
				}
			} else if model.IsWorkingShift(history.LastShifts[nurse]) {
				s.objConsecutiveDay += model.PenaltyConsecutiveDay * model.ObjValue(model.AbsentCount(
					history.ConsecutiveDayNums[nurse], contract.MinConsecutiveDayNum))
			}
			for ; c.DayHigh[nextday] < model.WeekdaySun; nextday = c.DayHigh[nextday] + 1 {
				if s.assign.IsWorking(nurse, nextday) {
					s.objConsecutiveDay += model.PenaltyConsecutiveDay * model.ObjValue(model.DistanceToRange(
						c.DayHigh[nextday]-c.DayLow[nextday]+1,
						contract.MinConsecutiveDayNum, contract.MaxConsecutiveDayNum))
				}
			}
		}
		consecutiveDay := c.DayHigh[model.WeekdaySun] - c.DayLow[model.WeekdaySun] + 1
		if s.assign.IsWorking(nurse, model.WeekdaySun) {
			if c.IsSingleConsecutiveDay() && history.ConsecutiveDayNums[nurse] > contract.MaxConsecutiveDayNum {
				s.objConsecutiveDay += model.PenaltyConsecutiveDay * model.WeekdayNum
			} else {
				s.objConsecutiveDay += model.PenaltyConsecutiveDay * model.ObjValue(model.ExceedCount(
					consecutiveDay, contract.MaxConsecutiveDayNum))
			}
		} else if c.IsSingleConsecutiveDay() && model.IsWorkingShift(history.LastShifts[nurse]) {
			s.objConsecutiveDay += model.PenaltyConsecutiveDay * model.ObjValue(model.AbsentCount(
				history.ConsecutiveDayNums[nurse], contract.MinConsecutiveDayNum))
		}
	}
}

func (s *Solution) evaluateConsecutiveDayOff() {
	p := s.problem
	history := &p.History
	for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
		c := &s.consecutives[nurse]
		contract := p.Scenario.NurseContract(nurse)

		nextday := c.DayHigh[model.WeekdayMon] + 1
		if nextday < model.WeekdaySize { // 整周不是一个块
			if !s.assign.IsWorking(nurse, model.WeekdayMon) {
				if history.ConsecutiveDayoffNums[nurse] > contract.MaxConsecutiveDayoffNum {
					s.objConsecutiveDayOff += model.PenaltyConsecutiveDayOff *
						model.ObjValue(c.DayHigh[model.WeekdayMon]-model.WeekdayMon+1)
				} else {
					s.objConsecutiveDayOff += model.PenaltyConsecutiveDayOff * model.ObjValue(model.DistanceToRange(
						c.DayHigh[model.WeekdayMon]-c.DayLow[model.WeekdayMon]+1,
						contract.MinConsecutiveDayoffNum, contract.MaxConsecutiveDayoffNum))
				}
			} else if !model.IsWorkingShift(history.LastShifts[nurse]) {
				s.objConsecutiveDayOff += model.PenaltyConsecutiveDayOff * model.ObjValue(model.AbsentCount(
					history.ConsecutiveDayoffNums[nurse], contract.MinConsecutiveDayoffNum))
			}
			for ; c.DayHigh[nextday] < model.WeekdaySun; nextday = c.DayHigh[nextday] + 1 {
				if !s.assign.IsWorking(nurse, nextday) {
					s.objConsecutiveDayOff += model.PenaltyConsecutiveDayOff * model.ObjValue(model.DistanceToRange(
						c.DayHigh[nextday]-c.DayLow[nextday]+1,
						contract.MinConsecutiveDayoffNum, contract.MaxConsecutiveDayoffNum))
				}
			}
		}
		consecutiveDay := c.DayHigh[model.WeekdaySun] - c.DayLow[model.WeekdaySun] + 1
		if !s.assign.IsWorking(nurse, model.WeekdaySun) {
			if c.IsSingleConsecutiveDay() && history.ConsecutiveDayoffNums[nurse] > contract.MaxConsecutiveDayoffNum {
				s.objConsecutiveDayOff += model.PenaltyConsecutiveDayOff * model.WeekdayNum
			} else {
				s.objConsecutiveDayOff += model.PenaltyConsecutiveDayOff * model.ObjValue(model.ExceedCount(
					consecutiveDay, contract.MaxConsecutiveDayoffNum))
			}
		} else if c.IsSingleConsecutiveDay() && !model.IsWorkingShift(history.LastShifts[nurse]) {
			s.objConsecutiveDayOff += model.PenaltyConsecutiveDayOff * model.ObjValue(model.AbsentCount(
				history.ConsecutiveDayoffNums[nurse], contract.MinConsecutiveDayoffNum))
		}
	}
}

func (s *Solution) evaluatePreference() {
	p := s.problem
	for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
		for weekday := model.WeekdayMon; weekday < model.WeekdaySize; weekday++ {
			shift := s.assign[nurse][weekday].Shift
			if model.IsWorkingShift(shift) && p.WeekData.ShiftOffs[weekday][shift][nurse] {
				s.objPreference += model.PenaltyPreference
			}
		}
	}
}

func (s *Solution) evaluateCompleteWeekend() {
	p := s.problem
	for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
		if p.Scenario.NurseContract(nurse).CompleteWeekend &&
			s.assign.IsWorking(nurse, model.WeekdaySat) != s.assign.IsWorking(nurse, model.WeekdaySun) {
			s.objCompleteWeekend += model.PenaltyCompleteWeekend
		}
	}
}

func (s *Solution) evaluateTotalAssign() {
	p := s.problem
	totalWeekNum := p.Scenario.TotalWeekNum
	currentWeek := p.History.CurrentWeek
	for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
		contract := p.Scenario.NurseContract(nurse)
		s.objTotalAssign += model.PenaltyTotalAssign * model.ObjValue(model.DistanceToRange(
			s.totalAssignNums[nurse]*totalWeekNum,
			contract.MinShiftNum*currentWeek,
			contract.MaxShiftNum*currentWeek)) / model.ObjValue(totalWeekNum)
		// 扣除历史部分已计的惩罚（首周除外）
		if p.History.PastWeekCount > 0 {
			s.objTotalAssign -= model.PenaltyTotalAssign * model.ObjValue(model.DistanceToRange(
				p.History.TotalAssignNums[nurse]*totalWeekNum,
				contract.MinShiftNum*p.History.PastWeekCount,
				contract.MaxShiftNum*p.History.PastWeekCount)) / model.ObjValue(totalWeekNum)
		}
	}
}

func (s *Solution) evaluateTotalWorkingWeekend() {
	p := s.problem
	totalWeekNum := p.Scenario.TotalWeekNum
	for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
		maxWeekend := p.Scenario.NurseContract(nurse).MaxWorkingWeekendNum
		historyWeekend := p.History.TotalWorkingWeekendNums[nurse] * totalWeekNum
		working := 0
		if s.assign.IsWorking(nurse, model.WeekdaySat) || s.assign.IsWorking(nurse, model.WeekdaySun) {
			working = 1
		}
		exceeding := historyWeekend - maxWeekend*p.History.CurrentWeek + working*totalWeekNum
		if exceeding > 0 {
			s.objTotalWorkingWeekend += model.PenaltyTotalWorkingWeekend *
				model.ObjValue(exceeding) / model.ObjValue(totalWeekNum)
		}
		if p.History.PastWeekCount > 0 {
			historyWeekend -= maxWeekend * p.History.PastWeekCount
			if historyWeekend > 0 {
				s.objTotalWorkingWeekend -= model.PenaltyTotalWorkingWeekend *
					model.ObjValue(historyWeekend) / model.ObjValue(totalWeekNum)
			}
		}
	}
}
