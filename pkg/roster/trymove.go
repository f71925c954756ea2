package roster

import "github.com/paiban/roster/pkg/model"

// TryAddShift 评估在休息格上添加班次的目标增量。
// 违反前置条件或硬约束时返回 ForbiddenMove，不修改任何状态。
func (s *Solution) TryAddShift(weekday int, nurse model.NurseID, shiftID model.ShiftID, skillID model.SkillID) model.ObjValue {
	oldShiftID := s.assign[nurse][weekday].Shift
	if !model.IsWorkingShift(shiftID) || shiftID == oldShiftID || model.IsWorkingShift(oldShiftID) {
		return model.ForbiddenMove
	}
	if !s.problem.Scenario.Nurses[nurse].HasSkill(skillID) {
		return model.ForbiddenMove
	}
	if !(s.IsValidSuccession(nurse, shiftID, weekday) && s.IsValidPrior(nurse, shiftID, weekday)) {
		return model.ForbiddenMove
	}

	p := s.problem
	prevDay := weekday - 1
	nextDay := weekday + 1
	var delta model.ObjValue
	contract := p.Scenario.NurseContract(nurse)
	totalWeekNum := p.Scenario.TotalWeekNum
	currentWeek := p.History.CurrentWeek
	c := &s.consecutives[nurse]

	// 人手不足
	if s.missingNurseNums[weekday][shiftID][skillID] > 0 {
		delta -= model.PenaltyInsufficientStaff
	}

	// 连续班次
	shifts := p.Scenario.Shifts
	shift := &shifts[shiftID]
	prevShiftID := s.assign[nurse][prevDay].Shift
	if weekday == model.WeekdaySun { // 右侧没有块
		// shiftHigh[Sun] 恒为 Sun
		if model.WeekdaySun == c.ShiftLow[weekday] && shiftID == prevShiftID {
			prevShift := &shifts[prevShiftID]
			delta -= model.PenaltyConsecutiveShift * model.ObjValue(model.DistanceToRange(
				model.WeekdaySun-c.ShiftLow[model.WeekdaySat],
				prevShift.MinConsecutiveShiftNum, prevShift.MaxConsecutiveShiftNum))
			delta += model.PenaltyConsecutiveShift * model.ObjValue(model.ExceedCount(
				model.WeekdaySun-c.ShiftLow[model.WeekdaySat]+1, shift.MaxConsecutiveShiftNum))
		} else { // 与前块无关；休息块的变化由日区间部分结算
			delta += model.PenaltyConsecutiveShift * model.ObjValue(model.ExceedCount(1, shift.MaxConsecutiveShiftNum))
		}
	} else {
		nextShiftID := s.assign[nurse][nextDay].Shift
		switch {
		case c.ShiftHigh[weekday] == c.ShiftLow[weekday]:
			high := weekday
			low := weekday
			if prevShiftID == shiftID {
				prevShift := &shifts[prevShiftID]
				low = c.ShiftLow[prevDay]
				delta -= model.PenaltyConsecutiveShift * model.ObjValue(model.DistanceToRange(
					weekday-c.ShiftLow[prevDay],
					prevShift.MinConsecutiveShiftNum, prevShift.MaxConsecutiveShiftNum))
			}
			if nextShiftID == shiftID {
				nextShift := &shifts[nextShiftID]
				high = c.ShiftHigh[nextDay]
				delta -= model.PenaltyConsecutiveShift * model.ObjValue(model.PenaltyDayNum(
					c.ShiftHigh[nextDay]-weekday, c.ShiftHigh[nextDay],
					nextShift.MinConsecutiveShiftNum, nextShift.MaxConsecutiveShiftNum))
			}
			delta += model.PenaltyConsecutiveShift * model.ObjValue(model.PenaltyDayNum(
				high-low+1, high, shift.MinConsecutiveShiftNum, shift.MaxConsecutiveShiftNum))
		case weekday == c.ShiftHigh[weekday]:
			if shiftID == nextShiftID {
				nextShift := &shifts[nextShiftID]
				consecutiveShiftOfNextBlock := c.ShiftHigh[nextDay] - weekday
				if consecutiveShiftOfNextBlock >= nextShift.MaxConsecutiveShiftNum {
					delta += model.PenaltyConsecutiveShift
				} else if c.ShiftHigh[nextDay] < model.WeekdaySun &&
					consecutiveShiftOfNextBlock < nextShift.MinConsecutiveShiftNum {
					delta -= model.PenaltyConsecutiveShift
				}
			} else {
				delta += model.PenaltyConsecutiveShift * model.ObjValue(model.DistanceToRange(
					1, shift.MinConsecutiveShiftNum, shift.MaxConsecutiveShiftNum))
			}
		case weekday == c.ShiftLow[weekday]:
			if shiftID == prevShiftID {
				prevShift := &shifts[prevShiftID]
				consecutiveShiftOfPrevBlock := weekday - c.ShiftLow[prevDay]
				if consecutiveShiftOfPrevBlock >= prevShift.MaxConsecutiveShiftNum {
					delta += model.PenaltyConsecutiveShift
				} else if consecutiveShiftOfPrevBlock < prevShift.MinConsecutiveShiftNum {
					delta -= model.PenaltyConsecutiveShift
				}
			} else {
				delta += model.PenaltyConsecutiveShift * model.ObjValue(model.DistanceToRange(
					1, shift.MinConsecutiveShiftNum, shift.MaxConsecutiveShiftNum))
			}
		default:
			delta += model.PenaltyConsecutiveShift * model.ObjValue(model.DistanceToRange(
				1, shift.MinConsecutiveShiftNum, shift.MaxConsecutiveShiftNum))
		}
	}

	// 连续工作日与连续休息日
	if weekday == model.WeekdaySun { // 右侧没有块
		if model.WeekdaySun == c.DayLow[weekday] {
			delta -= model.PenaltyConsecutiveDay * model.ObjValue(model.DistanceToRange(
				model.WeekdaySun-c.DayLow[model.WeekdaySat],
				contract.MinConsecutiveDayNum, contract.MaxConsecutiveDayNum))
			delta -= model.PenaltyConsecutiveDayOff * model.ObjValue(model.ExceedCount(
				1, contract.MaxConsecutiveDayoffNum))
			delta += model.PenaltyConsecutiveDay * model.ObjValue(model.ExceedCount(
				model.WeekdaySun-c.DayLow[model.WeekdaySat]+1, contract.MaxConsecutiveDayNum))
		} else { // 休息块长度大于1
			delta -= model.PenaltyConsecutiveDayOff * model.ObjValue(model.ExceedCount(
				model.WeekdaySun-c.DayLow[model.WeekdaySun]+1, contract.MaxConsecutiveDayoffNum))
			delta += model.PenaltyConsecutiveDayOff * model.ObjValue(model.DistanceToRange(
				model.WeekdaySun-c.DayLow[model.WeekdaySun],
				contract.MinConsecutiveDayoffNum, contract.MaxConsecutiveDayoffNum))
			delta += model.PenaltyConsecutiveDay * model.ObjValue(model.ExceedCount(1, contract.MaxConsecutiveDayNum))
		}
	} else {
		switch {
		case c.DayHigh[weekday] == c.DayLow[weekday]:
			delta -= model.PenaltyConsecutiveDay * model.ObjValue(model.DistanceToRange(
				weekday-c.DayLow[prevDay],
				contract.MinConsecutiveDayNum, contract.MaxConsecutiveDayNum))
			delta -= model.PenaltyConsecutiveDayOff * model.ObjValue(model.DistanceToRange(
				1, contract.MinConsecutiveDayoffNum, contract.MaxConsecutiveDayoffNum))
			delta -= model.PenaltyConsecutiveDay * model.ObjValue(model.PenaltyDayNum(
				c.DayHigh[nextDay]-weekday, c.DayHigh[nextDay],
				contract.MinConsecutiveDayNum, contract.MaxConsecutiveDayNum))
			delta += model.PenaltyConsecutiveDay * model.ObjValue(model.PenaltyDayNum(
				c.DayHigh[nextDay]-c.DayLow[prevDay]+1, c.DayHigh[nextDay],
				contract.MinConsecutiveDayNum, contract.MaxConsecutiveDayNum))
		case weekday == c.DayHigh[weekday]:
			consecutiveDayOfNextBlock := c.DayHigh[nextDay] - weekday
			if consecutiveDayOfNextBlock >= contract.MaxConsecutiveDayNum {
				delta += model.PenaltyConsecutiveDay
			} else if c.DayHigh[nextDay] < model.WeekdaySun &&
				consecutiveDayOfNextBlock < contract.MinConsecutiveDayNum {
				delta -= model.PenaltyConsecutiveDay
			}
			consecutiveDayOfThisBlock := weekday - c.DayLow[weekday] + 1
			if consecutiveDayOfThisBlock > contract.MaxConsecutiveDayoffNum {
				delta -= model.PenaltyConsecutiveDayOff
			} else if consecutiveDayOfThisBlock <= contract.MinConsecutiveDayoffNum {
				delta += model.PenaltyConsecutiveDayOff
			}
		case weekday == c.DayLow[weekday]:
			consecutiveDayOfPrevBlock := weekday - c.DayLow[prevDay]
			if consecutiveDayOfPrevBlock >= contract.MaxConsecutiveDayNum {
				delta += model.PenaltyConsecutiveDay
			} else if consecutiveDayOfPrevBlock < contract.MinConsecutiveDayNum {
				delta -= model.PenaltyConsecutiveDay
			}
			consecutiveDayOfThisBlock := c.DayHigh[weekday] - weekday + 1
			if consecutiveDayOfThisBlock > contract.MaxConsecutiveDayoffNum {
				delta -= model.PenaltyConsecutiveDayOff
			} else if c.DayHigh[weekday] < model.WeekdaySun &&
				consecutiveDayOfThisBlock <= contract.MinConsecutiveDayoffNum {
				delta += model.PenaltyConsecutiveDayOff
			}
		default:
			delta -= model.PenaltyConsecutiveDayOff * model.ObjValue(model.PenaltyDayNum(
				c.DayHigh[weekday]-c.DayLow[weekday]+1, c.DayHigh[weekday],
				contract.MinConsecutiveDayoffNum, contract.MaxConsecutiveDayoffNum))
			delta += model.PenaltyConsecutiveDayOff * model.ObjValue(model.DistanceToRange(
				weekday-c.DayLow[weekday],
				contract.MinConsecutiveDayoffNum, contract.MaxConsecutiveDayoffNum))
			delta += model.PenaltyConsecutiveDay * model.ObjValue(model.DistanceToRange(
				1, contract.MinConsecutiveDayNum, contract.MaxConsecutiveDayNum))
			delta += model.PenaltyConsecutiveDayOff * model.ObjValue(model.PenaltyDayNum(
				c.DayHigh[weekday]-weekday, c.DayHigh[weekday],
				contract.MinConsecutiveDayoffNum, contract.MaxConsecutiveDayoffNum))
		}
	}

	// 偏好
	if p.WeekData.ShiftOffs[weekday][shiftID][nurse] {
		delta += model.PenaltyPreference
	}

	if weekday > model.WeekdayFri {
		theOtherDay := model.WeekdaySat
		if weekday == model.WeekdaySat {
			theOtherDay = model.WeekdaySun
		}
		// 完整周末
		if contract.CompleteWeekend {
			if s.assign.IsWorking(nurse, theOtherDay) {
				delta -= model.PenaltyCompleteWeekend
			} else {
				delta += model.PenaltyCompleteWeekend
			}
		}
		// 总工作周末
		if !s.assign.IsWorking(nurse, theOtherDay) {
			history := &p.History
			delta -= model.PenaltyTotalWorkingWeekend * model.ObjValue(model.ExceedCount(
				history.TotalWorkingWeekendNums[nurse]*totalWeekNum,
				contract.MaxWorkingWeekendNum*currentWeek)) / model.ObjValue(totalWeekNum)
			delta += model.PenaltyTotalWorkingWeekend * model.ObjValue(model.ExceedCount(
				(history.TotalWorkingWeekendNums[nurse]+1)*totalWeekNum,
				contract.MaxWorkingWeekendNum*currentWeek)) / model.ObjValue(totalWeekNum)
		}
	}

	// 总班次
	delta -= model.PenaltyTotalAssign * model.ObjValue(model.DistanceToRange(
		s.totalAssignNums[nurse]*totalWeekNum,
		contract.MinShiftNum*currentWeek, contract.MaxShiftNum*currentWeek)) / model.ObjValue(totalWeekNum)
	delta += model.PenaltyTotalAssign * model.ObjValue(model.DistanceToRange(
		(s.totalAssignNums[nurse]+1)*totalWeekNum,
		contract.MinShiftNum*currentWeek, contract.MaxShiftNum*currentWeek)) / model.ObjValue(totalWeekNum)

	return delta
}

// TryChangeShift 评估修改工作格班次或技能的目标增量
func (s *Solution) TryChangeShift(weekday int, nurse model.NurseID, shiftID model.ShiftID, skillID model.SkillID) model.ObjValue {
	return s.tryChangeShift(weekday, nurse, shiftID, skillID, true)
}

func (s *Solution) tryChangeShift(weekday int, nurse model.NurseID, shiftID model.ShiftID, skillID model.SkillID, checkStaff bool) model.ObjValue {
	oldShiftID := s.assign[nurse][weekday].Shift
	oldSkillID := s.assign[nurse][weekday].Skill
	if !model.IsWorkingShift(shiftID) || !model.IsWorkingShift(oldShiftID) ||
		(shiftID == oldShiftID && skillID == oldSkillID) {
		return model.ForbiddenMove
	}
	if !s.problem.Scenario.Nurses[nurse].HasSkill(skillID) {
		return model.ForbiddenMove
	}
	if !(s.IsValidSuccession(nurse, shiftID, weekday) && s.IsValidPrior(nurse, shiftID, weekday)) {
		return model.ForbiddenMove
	}

	p := s.problem
	weekData := &p.WeekData
	if checkStaff &&
		weekData.OptNurseNums[weekday][oldShiftID][oldSkillID]-s.missingNurseNums[weekday][oldShiftID][oldSkillID] <=
			weekData.MinNurseNums[weekday][oldShiftID][oldSkillID] {
		return model.ForbiddenMove
	}

	prevDay := weekday - 1
	nextDay := weekday + 1
	var delta model.ObjValue
	c := &s.consecutives[nurse]

	// 人手不足
	if s.missingNurseNums[weekday][oldShiftID][oldSkillID] >= 0 {
		delta += model.PenaltyInsufficientStaff
	}
	if s.missingNurseNums[weekday][shiftID][skillID] > 0 {
		delta -= model.PenaltyInsufficientStaff
	}

	if shiftID != oldShiftID {
		// 连续班次
		shifts := p.Scenario.Shifts
		shift := &shifts[shiftID]
		oldShift := &shifts[oldShiftID]
		prevShiftID := s.assign[nurse][prevDay].Shift
		if weekday == model.WeekdaySun { // 右侧没有块
			if model.WeekdaySun == c.ShiftLow[weekday] {
				if shiftID == prevShiftID {
					prevShift := &shifts[prevShiftID]
					delta -= model.PenaltyConsecutiveShift * model.ObjValue(model.DistanceToRange(
						model.WeekdaySun-c.ShiftLow[model.WeekdaySat],
						prevShift.MinConsecutiveShiftNum, prevShift.MaxConsecutiveShiftNum))
					delta -= model.PenaltyConsecutiveShift * model.ObjValue(model.ExceedCount(
						1, oldShift.MaxConsecutiveShiftNum))
					delta += model.PenaltyConsecutiveShift * model.ObjValue(model.ExceedCount(
						model.WeekdaySun-c.ShiftLow[model.WeekdaySat]+1, shift.MaxConsecutiveShiftNum))
				} else {
					delta -= model.PenaltyConsecutiveShift * model.ObjValue(model.ExceedCount(
						1, oldShift.MaxConsecutiveShiftNum))
					delta += model.PenaltyConsecutiveShift * model.ObjValue(model.ExceedCount(
						1, shift.MaxConsecutiveShiftNum))
				}
			} else { // 块长度大于1
				consecutiveShiftOfThisBlock := model.WeekdaySun - c.ShiftLow[model.WeekdaySun] + 1
				if consecutiveShiftOfThisBlock > oldShift.MaxConsecutiveShiftNum {
					delta -= model.PenaltyConsecutiveShift
				} else if consecutiveShiftOfThisBlock <= oldShift.MinConsecutiveShiftNum {
					delta += model.PenaltyConsecutiveShift
				}
				delta += model.PenaltyConsecutiveShift * model.ObjValue(model.ExceedCount(
					1, shift.MaxConsecutiveShiftNum))
			}
		} else {
			nextShiftID := s.assign[nurse][nextDay].Shift
			switch {
			case c.ShiftHigh[weekday] == c.ShiftLow[weekday]:
				high := weekday
				low := weekday
				if prevShiftID == shiftID {
					prevShift := &shifts[prevShiftID]
					low = c.ShiftLow[prevDay]
					delta -= model.PenaltyConsecutiveShift * model.ObjValue(model.DistanceToRange(
						weekday-c.ShiftLow[prevDay],
						prevShift.MinConsecutiveShiftNum, prevShift.MaxConsecutiveShiftNum))
				}
				if nextShiftID == shiftID {
					nextShift := &shifts[nextShiftID]
					high = c.ShiftHigh[nextDay]
					delta -= model.PenaltyConsecutiveShift * model.ObjValue(model.PenaltyDayNum(
						c.ShiftHigh[nextDay]-weekday, c.ShiftHigh[nextDay],
						nextShift.MinConsecutiveShiftNum, nextShift.MaxConsecutiveShiftNum))
				}
				delta -= model.PenaltyConsecutiveShift * model.ObjValue(model.DistanceToRange(
					1, oldShift.MinConsecutiveShiftNum, oldShift.MaxConsecutiveShiftNum))
				delta += model.PenaltyConsecutiveShift * model.ObjValue(model.PenaltyDayNum(
					high-low+1, high, shift.MinConsecutiveShiftNum, shift.MaxConsecutiveShiftNum))
			case weekday == c.ShiftHigh[weekday]:
				if nextShiftID == shiftID {
					nextShift := &shifts[nextShiftID]
					consecutiveShiftOfNextBlock := c.ShiftHigh[nextDay] - weekday
					if consecutiveShiftOfNextBlock >= nextShift.MaxConsecutiveShiftNum {
						delta += model.PenaltyConsecutiveShift
					} else if c.ShiftHigh[nextDay] < model.WeekdaySun &&
						consecutiveShiftOfNextBlock < nextShift.MinConsecutiveShiftNum {
						delta -= model.PenaltyConsecutiveShift
					}
				} else {
					delta += model.PenaltyConsecutiveShift * model.ObjValue(model.DistanceToRange(
						1, shift.MinConsecutiveShiftNum, shift.MaxConsecutiveShiftNum))
				}
				consecutiveShiftOfThisBlock := weekday - c.ShiftLow[weekday] + 1
				if consecutiveShiftOfThisBlock > oldShift.MaxConsecutiveShiftNum {
					delta -= model.PenaltyConsecutiveShift
				} else if consecutiveShiftOfThisBlock <= oldShift.MinConsecutiveShiftNum {
					delta += model.PenaltyConsecutiveShift
				}
			case weekday == c.ShiftLow[weekday]:
				if prevShiftID == shiftID {
					prevShift := &shifts[prevShiftID]
					consecutiveShiftOfPrevBlock := weekday - c.ShiftLow[prevDay]
					if consecutiveShiftOfPrevBlock >= prevShift.MaxConsecutiveShiftNum {
						delta += model.PenaltyConsecutiveShift
					} else if consecutiveShiftOfPrevBlock < prevShift.MinConsecutiveShiftNum {
						delta -= model.PenaltyConsecutiveShift
					}
				} else {
					delta += model.PenaltyConsecutiveShift * model.ObjValue(model.DistanceToRange(
						1, shift.MinConsecutiveShiftNum, shift.MaxConsecutiveShiftNum))
				}
				consecutiveShiftOfThisBlock := c.ShiftHigh[weekday] - weekday + 1
				if consecutiveShiftOfThisBlock > oldShift.MaxConsecutiveShiftNum {
					delta -= model.PenaltyConsecutiveShift
				} else if c.ShiftHigh[weekday] < model.WeekdaySun &&
					consecutiveShiftOfThisBlock <= oldShift.MinConsecutiveShiftNum {
					delta += model.PenaltyConsecutiveShift
				}
			default:
				delta -= model.PenaltyConsecutiveShift * model.ObjValue(model.PenaltyDayNum(
					c.ShiftHigh[weekday]-c.ShiftLow[weekday]+1, c.ShiftHigh[weekday],
					oldShift.MinConsecutiveShiftNum, oldShift.MaxConsecutiveShiftNum))
				delta += model.PenaltyConsecutiveShift * model.ObjValue(model.DistanceToRange(
					weekday-c.ShiftLow[weekday],
					oldShift.MinConsecutiveShiftNum, oldShift.MaxConsecutiveShiftNum))
				delta += model.PenaltyConsecutiveShift * model.ObjValue(model.DistanceToRange(
					1, shift.MinConsecutiveShiftNum, shift.MaxConsecutiveShiftNum))
				delta += model.PenaltyConsecutiveShift * model.ObjValue(model.PenaltyDayNum(
					c.ShiftHigh[weekday]-weekday, c.ShiftHigh[weekday],
					oldShift.MinConsecutiveShiftNum, oldShift.MaxConsecutiveShiftNum))
			}
		}

		// 偏好
		if weekData.ShiftOffs[weekday][shiftID][nurse] {
			delta += model.PenaltyPreference
		}
		if weekData.ShiftOffs[weekday][oldShiftID][nurse] {
			delta -= model.PenaltyPreference
		}
	}

	return delta
}

// TryRemoveShift 评估将工作格改为休息的目标增量
func (s *Solution) TryRemoveShift(weekday int, nurse model.NurseID) model.ObjValue {
	return s.tryRemoveShift(weekday, nurse, true)
}

func (s *Solution) tryRemoveShift(weekday int, nurse model.NurseID, checkStaff bool) model.ObjValue {
	oldShiftID := s.assign[nurse][weekday].Shift
	oldSkillID := s.assign[nurse][weekday].Skill
	if !model.IsWorkingShift(oldShiftID) {
		return model.ForbiddenMove
	}

	p := s.problem
	weekData := &p.WeekData
	if checkStaff &&
		weekData.OptNurseNums[weekday][oldShiftID][oldSkillID]-s.missingNurseNums[weekday][oldShiftID][oldSkillID] <=
			weekData.MinNurseNums[weekday][oldShiftID][oldSkillID] {
		return model.ForbiddenMove
	}

	prevDay := weekday - 1
	nextDay := weekday + 1
	var delta model.ObjValue
	contract := p.Scenario.NurseContract(nurse)
	totalWeekNum := p.Scenario.TotalWeekNum
	currentWeek := p.History.CurrentWeek
	c := &s.consecutives[nurse]

	// 人手不足
	if s.missingNurseNums[weekday][oldShiftID][oldSkillID] >= 0 {
		delta += model.PenaltyInsufficientStaff
	}

	// 连续班次
	shifts := p.Scenario.Shifts
	oldShift := &shifts[oldShiftID]
	if weekday == model.WeekdaySun { // 右侧没有块
		if model.WeekdaySun == c.ShiftLow[weekday] {
			delta -= model.PenaltyConsecutiveShift * model.ObjValue(model.ExceedCount(
				1, oldShift.MaxConsecutiveShiftNum))
		} else {
			delta -= model.PenaltyConsecutiveShift * model.ObjValue(model.ExceedCount(
				model.WeekdaySun-c.ShiftLow[weekday]+1, oldShift.MaxConsecutiveShiftNum))
			delta += model.PenaltyConsecutiveShift * model.ObjValue(model.DistanceToRange(
				model.WeekdaySun-c.ShiftLow[weekday],
				oldShift.MinConsecutiveShiftNum, oldShift.MaxConsecutiveShiftNum))
		}
	} else {
		switch {
		case c.ShiftHigh[weekday] == c.ShiftLow[weekday]:
			delta -= model.PenaltyConsecutiveShift * model.ObjValue(model.DistanceToRange(
				1, oldShift.MinConsecutiveShiftNum, oldShift.MaxConsecutiveShiftNum))
		case weekday == c.ShiftHigh[weekday]:
			consecutiveShiftOfThisBlock := weekday - c.ShiftLow[weekday] + 1
			if consecutiveShiftOfThisBlock > oldShift.MaxConsecutiveShiftNum {
				delta -= model.PenaltyConsecutiveShift
			} else if consecutiveShiftOfThisBlock <= oldShift.MinConsecutiveShiftNum {
				delta += model.PenaltyConsecutiveShift
			}
		case weekday == c.ShiftLow[weekday]:
			consecutiveShiftOfThisBlock := c.ShiftHigh[weekday] - weekday + 1
			if consecutiveShiftOfThisBlock > oldShift.MaxConsecutiveShiftNum {
				delta -= model.PenaltyConsecutiveShift
			} else if c.ShiftHigh[weekday] < model.WeekdaySun &&
				consecutiveShiftOfThisBlock <= oldShift.MinConsecutiveShiftNum {
				delta += model.PenaltyConsecutiveShift
			}
		default:
			delta -= model.PenaltyConsecutiveShift * model.ObjValue(model.PenaltyDayNum(
				c.ShiftHigh[weekday]-c.ShiftLow[weekday]+1, c.ShiftHigh[weekday],
				oldShift.MinConsecutiveShiftNum, oldShift.MaxConsecutiveShiftNum))
			delta += model.PenaltyConsecutiveShift * model.ObjValue(model.DistanceToRange(
				weekday-c.ShiftLow[weekday],
				oldShift.MinConsecutiveShiftNum, oldShift.MaxConsecutiveShiftNum))
			delta += model.PenaltyConsecutiveShift * model.ObjValue(model.PenaltyDayNum(
				c.ShiftHigh[weekday]-weekday, c.ShiftHigh[weekday],
				oldShift.MinConsecutiveShiftNum, oldShift.MaxConsecutiveShiftNum))
		}
	}

	// 连续工作日与连续休息日
	if weekday == model.WeekdaySun { // 右侧没有块
		if model.WeekdaySun == c.DayLow[weekday] {
			delta -= model.PenaltyConsecutiveDayOff * model.ObjValue(model.DistanceToRange(
				model.WeekdaySun-c.DayLow[model.WeekdaySat],
				contract.MinConsecutiveDayoffNum, contract.MaxConsecutiveDayoffNum))
			delta -= model.PenaltyConsecutiveDay * model.ObjValue(model.ExceedCount(
				1, contract.MaxConsecutiveDayNum))
			delta += model.PenaltyConsecutiveDayOff * model.ObjValue(model.ExceedCount(
				model.WeekdaySun-c.DayLow[model.WeekdaySat]+1, contract.MaxConsecutiveDayoffNum))
		} else { // 工作块长度大于1
			delta -= model.PenaltyConsecutiveDay * model.ObjValue(model.ExceedCount(
				model.WeekdaySun-c.DayLow[model.WeekdaySun]+1, contract.MaxConsecutiveDayNum))
			delta += model.PenaltyConsecutiveDay * model.ObjValue(model.DistanceToRange(
				model.WeekdaySun-c.DayLow[model.WeekdaySun],
				contract.MinConsecutiveDayNum, contract.MaxConsecutiveDayNum))
			delta += model.PenaltyConsecutiveDayOff * model.ObjValue(model.ExceedCount(
				1, contract.MaxConsecutiveDayoffNum))
		}
	} else {
		switch {
		case c.DayHigh[weekday] == c.DayLow[weekday]:
			delta -= model.PenaltyConsecutiveDayOff * model.ObjValue(model.DistanceToRange(
				weekday-c.DayLow[prevDay],
				contract.MinConsecutiveDayoffNum, contract.MaxConsecutiveDayoffNum))
			delta -= model.PenaltyConsecutiveDay * model.ObjValue(model.DistanceToRange(
				1, contract.MinConsecutiveDayNum, contract.MaxConsecutiveDayNum))
			delta -= model.PenaltyConsecutiveDayOff * model.ObjValue(model.PenaltyDayNum(
				c.DayHigh[nextDay]-weekday, c.DayHigh[nextDay],
				contract.MinConsecutiveDayoffNum, contract.MaxConsecutiveDayoffNum))
			delta += model.PenaltyConsecutiveDayOff * model.ObjValue(model.PenaltyDayNum(
				c.DayHigh[nextDay]-c.DayLow[prevDay]+1, c.DayHigh[nextDay],
				contract.MinConsecutiveDayoffNum, contract.MaxConsecutiveDayoffNum))
		case weekday == c.DayHigh[weekday]:
			consecutiveDayOfNextBlock := c.DayHigh[nextDay] - weekday
			if consecutiveDayOfNextBlock >= contract.MaxConsecutiveDayoffNum {
				delta += model.PenaltyConsecutiveDayOff
			} else if c.DayHigh[nextDay] < model.WeekdaySun &&
				consecutiveDayOfNextBlock < contract.MinConsecutiveDayoffNum {
				delta -= model.PenaltyConsecutiveDayOff
			}
			consecutiveDayOfThisBlock := weekday - c.DayLow[weekday] + 1
			if consecutiveDayOfThisBlock > contract.MaxConsecutiveDayNum {
				delta -= model.PenaltyConsecutiveDay
			} else if consecutiveDayOfThisBlock <= contract.MinConsecutiveDayNum {
				delta += model.PenaltyConsecutiveDay
			}
		case weekday == c.DayLow[weekday]:
			consecutiveDayOfPrevBlock := weekday - c.DayLow[prevDay]
			if consecutiveDayOfPrevBlock >= contract.MaxConsecutiveDayoffNum {
				delta += model.PenaltyConsecutiveDayOff
			} else if consecutiveDayOfPrevBlock < contract.MinConsecutiveDayoffNum {
				delta -= model.PenaltyConsecutiveDayOff
			}
			consecutiveDayOfThisBlock := c.DayHigh[weekday] - weekday + 1
			if consecutiveDayOfThisBlock > contract.MaxConsecutiveDayNum {
				delta -= model.PenaltyConsecutiveDay
			} else if c.DayHigh[weekday] < model.WeekdaySun &&
				consecutiveDayOfThisBlock <= contract.MinConsecutiveDayNum {
				delta += model.PenaltyConsecutiveDay
			}
		default:
			delta -= model.PenaltyConsecutiveDay * model.ObjValue(model.PenaltyDayNum(
				c.DayHigh[weekday]-c.DayLow[weekday]+1, c.DayHigh[weekday],
				contract.MinConsecutiveDayNum, contract.MaxConsecutiveDayNum))
			delta += model.PenaltyConsecutiveDay * model.ObjValue(model.DistanceToRange(
				weekday-c.DayLow[weekday],
				contract.MinConsecutiveDayNum, contract.MaxConsecutiveDayNum))
			delta += model.PenaltyConsecutiveDayOff * model.ObjValue(model.DistanceToRange(
				1, contract.MinConsecutiveDayoffNum, contract.MaxConsecutiveDayoffNum))
			delta += model.PenaltyConsecutiveDay * model.ObjValue(model.PenaltyDayNum(
				c.DayHigh[weekday]-weekday, c.DayHigh[weekday],
				contract.MinConsecutiveDayNum, contract.MaxConsecutiveDayNum))
		}
	}

	// 偏好
	if p.WeekData.ShiftOffs[weekday][oldShiftID][nurse] {
		delta -= model.PenaltyPreference
	}

	if weekday > model.WeekdayFri {
		theOtherDay := model.WeekdaySat
		if weekday == model.WeekdaySat {
			theOtherDay = model.WeekdaySun
		}
		// 完整周末
		if contract.CompleteWeekend {
			if s.assign.IsWorking(nurse, theOtherDay) {
				delta += model.PenaltyCompleteWeekend
			} else {
				delta -= model.PenaltyCompleteWeekend
			}
		}
		// 总工作周末
		if !s.assign.IsWorking(nurse, theOtherDay) {
			history := &p.History
			delta -= model.PenaltyTotalWorkingWeekend * model.ObjValue(model.ExceedCount(
				(history.TotalWorkingWeekendNums[nurse]+1)*totalWeekNum,
				contract.MaxWorkingWeekendNum*currentWeek)) / model.ObjValue(totalWeekNum)
			delta += model.PenaltyTotalWorkingWeekend * model.ObjValue(model.ExceedCount(
				history.TotalWorkingWeekendNums[nurse]*totalWeekNum,
				contract.MaxWorkingWeekendNum*currentWeek)) / model.ObjValue(totalWeekNum)
		}
	}

	// 总班次
	delta -= model.PenaltyTotalAssign * model.ObjValue(model.DistanceToRange(
		s.totalAssignNums[nurse]*totalWeekNum,
		contract.MinShiftNum*currentWeek, contract.MaxShiftNum*currentWeek)) / model.ObjValue(totalWeekNum)
	delta += model.PenaltyTotalAssign * model.ObjValue(model.DistanceToRange(
		(s.totalAssignNums[nurse]-1)*totalWeekNum,
		contract.MinShiftNum*currentWeek, contract.MaxShiftNum*currentWeek)) / model.ObjValue(totalWeekNum)

	return delta
}
