package roster

import "github.com/paiban/roster/pkg/model"

// CountNurseNums 统计分配表中每个 (日,班次,技能) 的实际人数
func CountNurseNums(p *model.Problem, assign model.Assign) model.NurseNums {
	nums := model.NewNurseNums(p.Scenario.ShiftTypeNum, p.Scenario.SkillTypeNum)
	for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
		for weekday := model.WeekdayMon; weekday < model.WeekdaySize; weekday++ {
			if assign.IsWorking(nurse, weekday) {
				cell := assign[nurse][weekday]
				nums[weekday][cell.Shift][cell.Skill]++
			}
		}
	}
	return nums
}

// CheckFeasibility 校验硬约束 H1..H4。
// H1（单日单分配）由分配表结构保证，恒为真。
func CheckFeasibility(p *model.Problem, assign model.Assign) bool {
	nurseNums := CountNurseNums(p, assign)

	// H2: 最低人数
	for weekday := model.WeekdayMon; weekday < model.WeekdaySize; weekday++ {
		for shift := 0; shift < p.Scenario.ShiftTypeNum; shift++ {
			for skill := 0; skill < p.Scenario.SkillTypeNum; skill++ {
				if nurseNums[weekday][shift][skill] < p.WeekData.MinNurseNums[weekday][shift][skill] {
					return false
				}
			}
		}
	}

	// H3: 班次衔接，周一与历史衔接
	for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
		last := p.History.LastShifts[nurse]
		if assign.IsWorking(nurse, model.WeekdayMon) && model.IsWorkingShift(last) {
			if !p.Scenario.Shifts[last].LegalNextShifts[assign[nurse][model.WeekdayMon].Shift] {
				return false
			}
		}
	}
	for weekday := model.WeekdayTue; weekday < model.WeekdaySize; weekday++ {
		for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
			if assign.IsWorking(nurse, weekday) && assign.IsWorking(nurse, weekday-1) {
				if !p.Scenario.Shifts[assign[nurse][weekday-1].Shift].LegalNextShifts[assign[nurse][weekday].Shift] {
					return false
				}
			}
		}
	}

	// H4: 技能归属
	for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
		for weekday := model.WeekdayMon; weekday < model.WeekdaySize; weekday++ {
			if assign.IsWorking(nurse, weekday) &&
				!p.Scenario.Nurses[nurse].HasSkill(assign[nurse][weekday].Skill) {
				return false
			}
		}
	}

	return true
}

// CheckObjValue 用原始输入而非辅助结构从头计算目标值，
// 作为增量维护的独立对照
func CheckObjValue(p *model.Problem, assign model.Assign) model.ObjValue {
	var objValue model.ObjValue
	nurseNums := CountNurseNums(p, assign)

	// S1: 人手不足
	for weekday := model.WeekdayMon; weekday < model.WeekdaySize; weekday++ {
		for shift := 0; shift < p.Scenario.ShiftTypeNum; shift++ {
			for skill := 0; skill < p.Scenario.SkillTypeNum; skill++ {
				missing := p.WeekData.OptNurseNums[weekday][shift][skill] - nurseNums[weekday][shift][skill]
				if missing > 0 {
					objValue += model.PenaltyInsufficientStaff * model.ObjValue(missing)
				}
			}
		}
	}

	// S2/S3: 连续班次、连续工作日与连续休息日
	for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
		consecutiveShift := p.History.ConsecutiveShiftNums[nurse]
		consecutiveDay := p.History.ConsecutiveDayNums[nurse]
		consecutiveDayOff := p.History.ConsecutiveDayoffNums[nurse]
		shiftBegin := consecutiveShift != 0
		dayBegin := consecutiveDay != 0
		dayoffBegin := consecutiveDayOff != 0

		checkConsecutiveViolation(p, &objValue, assign, nurse, model.WeekdayMon, p.History.LastShifts[nurse],
			&consecutiveShift, &consecutiveDay, &consecutiveDayOff, &shiftBegin, &dayBegin, &dayoffBegin)
		for weekday := model.WeekdayTue; weekday < model.WeekdaySize; weekday++ {
			checkConsecutiveViolation(p, &objValue, assign, nurse, weekday, assign[nurse][weekday-1].Shift,
				&consecutiveShift, &consecutiveDay, &consecutiveDayOff, &shiftBegin, &dayBegin, &dayoffBegin)
		}
		// 扫描在状态切换时计罚，收尾块在此处结算
		contract := p.Scenario.NurseContract(nurse)
		if consecutiveDayOff > 0 {
			if dayoffBegin && p.History.ConsecutiveDayoffNums[nurse] > contract.MaxConsecutiveDayoffNum {
				objValue += model.PenaltyConsecutiveDayOff * model.WeekdayNum
			} else if consecutiveDayOff > contract.MaxConsecutiveDayoffNum {
				objValue += model.PenaltyConsecutiveDayOff *
					model.ObjValue(consecutiveDayOff-contract.MaxConsecutiveDayoffNum)
			}
		} else { // 以工作日收尾
			sunShift := &p.Scenario.Shifts[assign[nurse][model.WeekdaySun].Shift]
			if shiftBegin && p.History.ConsecutiveShiftNums[nurse] > sunShift.MaxConsecutiveShiftNum {
				objValue += model.PenaltyConsecutiveShift * model.WeekdayNum
			} else if consecutiveShift > sunShift.MaxConsecutiveShiftNum {
				objValue += model.PenaltyConsecutiveShift *
					model.ObjValue(consecutiveShift-sunShift.MaxConsecutiveShiftNum)
			}
			if dayBegin && p.History.ConsecutiveDayNums[nurse] > contract.MaxConsecutiveDayNum {
				objValue += model.PenaltyConsecutiveDay * model.WeekdayNum
			} else if consecutiveDay > contract.MaxConsecutiveDayNum {
				objValue += model.PenaltyConsecutiveDay *
					model.ObjValue(consecutiveDay-contract.MaxConsecutiveDayNum)
			}
		}
	}

	// S4: 偏好
	for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
		for weekday := model.WeekdayMon; weekday < model.WeekdaySize; weekday++ {
			shift := assign[nurse][weekday].Shift
			if model.IsWorkingShift(shift) && p.WeekData.ShiftOffs[weekday][shift][nurse] {
				objValue += model.PenaltyPreference
			}
		}
	}

	// S5: 完整周末
	for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
		if p.Scenario.NurseContract(nurse).CompleteWeekend &&
			assign.IsWorking(nurse, model.WeekdaySat) != assign.IsWorking(nurse, model.WeekdaySun) {
			objValue += model.PenaltyCompleteWeekend
		}
	}

	// S6/S7: 总班次与总工作周末
	totalWeekNum := p.Scenario.TotalWeekNum
	for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
		contract := p.Scenario.NurseContract(nurse)
		assignNum := p.History.TotalAssignNums[nurse]
		for weekday := model.WeekdayMon; weekday < model.WeekdaySize; weekday++ {
			if assign.IsWorking(nurse, weekday) {
				assignNum++
			}
		}
		objValue += model.PenaltyTotalAssign * model.ObjValue(model.DistanceToRange(
			assignNum*totalWeekNum,
			contract.MinShiftNum*p.History.CurrentWeek,
			contract.MaxShiftNum*p.History.CurrentWeek)) / model.ObjValue(totalWeekNum)

		historyWeekend := p.History.TotalWorkingWeekendNums[nurse] * totalWeekNum
		working := 0
		if assign.IsWorking(nurse, model.WeekdaySat) || assign.IsWorking(nurse, model.WeekdaySun) {
			working = 1
		}
		exceeding := historyWeekend - contract.MaxWorkingWeekendNum*p.History.CurrentWeek + working*totalWeekNum
		if exceeding > 0 {
			objValue += model.PenaltyTotalWorkingWeekend * model.ObjValue(exceeding) / model.ObjValue(totalWeekNum)
		}

		// 扣除历史部分已计的惩罚（首周除外）
		if p.History.PastWeekCount > 0 {
			objValue -= model.PenaltyTotalAssign * model.ObjValue(model.DistanceToRange(
				p.History.TotalAssignNums[nurse]*totalWeekNum,
				contract.MinShiftNum*p.History.PastWeekCount,
				contract.MaxShiftNum*p.History.PastWeekCount)) / model.ObjValue(totalWeekNum)

			historyWeekend -= contract.MaxWorkingWeekendNum * p.History.PastWeekCount
			if historyWeekend > 0 {
				objValue -= model.PenaltyTotalWorkingWeekend * model.ObjValue(historyWeekend) / model.ObjValue(totalWeekNum)
			}
		}
	}

	return objValue
}

// checkConsecutiveViolation 按日推进连续计数，在状态切换时计罚
func checkConsecutiveViolation(p *model.Problem, objValue *model.ObjValue,
	assign model.Assign, nurse model.NurseID, weekday int, lastShiftID model.ShiftID,
	consecutiveShift, consecutiveDay, consecutiveDayOff *int,
	shiftBegin, dayBegin, dayoffBegin *bool) {

	contract := p.Scenario.NurseContract(nurse)
	shift := assign[nurse][weekday].Shift
	if model.IsWorkingShift(shift) { // 工作日
		if *consecutiveDay == 0 { // 从连续休息切换为工作
			if *dayoffBegin {
				if p.History.ConsecutiveDayoffNums[nurse] > contract.MaxConsecutiveDayoffNum {
					*objValue += model.PenaltyConsecutiveDayOff * model.ObjValue(weekday-model.WeekdayMon)
				} else {
					*objValue += model.PenaltyConsecutiveDayOff * model.ObjValue(model.DistanceToRange(
						*consecutiveDayOff, contract.MinConsecutiveDayoffNum, contract.MaxConsecutiveDayoffNum))
				}
				*dayoffBegin = false
			} else {
				*objValue += model.PenaltyConsecutiveDayOff * model.ObjValue(model.DistanceToRange(
					*consecutiveDayOff, contract.MinConsecutiveDayoffNum, contract.MaxConsecutiveDayoffNum))
			}
			*consecutiveDayOff = 0
			*consecutiveShift = 1
		} else { // 继续工作
			if shift == lastShiftID {
				*consecutiveShift++
			} else { // 换了班次
				lastShift := &p.Scenario.Shifts[lastShiftID]
				if *shiftBegin {
					if p.History.ConsecutiveShiftNums[nurse] > lastShift.MaxConsecutiveShiftNum {
						*objValue += model.PenaltyConsecutiveShift * model.ObjValue(weekday-model.WeekdayMon)
					} else {
						*objValue += model.PenaltyConsecutiveShift * model.ObjValue(model.DistanceToRange(
							*consecutiveShift, lastShift.MinConsecutiveShiftNum, lastShift.MaxConsecutiveShiftNum))
					}
					*shiftBegin = false
				} else {
					*objValue += model.PenaltyConsecutiveShift * model.ObjValue(model.DistanceToRange(
						*consecutiveShift, lastShift.MinConsecutiveShiftNum, lastShift.MaxConsecutiveShiftNum))
				}
				*consecutiveShift = 1
			}
		}
		*consecutiveDay++
	} else { // 休息日
		if *consecutiveDayOff == 0 && model.IsWorkingShift(lastShiftID) {
			// 从连续工作切换为休息
			lastShift := &p.Scenario.Shifts[lastShiftID]
			if *shiftBegin {
				if p.History.ConsecutiveShiftNums[nurse] > lastShift.MaxConsecutiveShiftNum {
					*objValue += model.PenaltyConsecutiveShift * model.ObjValue(weekday-model.WeekdayMon)
				} else {
					*objValue += model.PenaltyConsecutiveShift * model.ObjValue(model.DistanceToRange(
						*consecutiveShift, lastShift.MinConsecutiveShiftNum, lastShift.MaxConsecutiveShiftNum))
				}
				*shiftBegin = false
			} else {
				*objValue += model.PenaltyConsecutiveShift * model.ObjValue(model.DistanceToRange(
					*consecutiveShift, lastShift.MinConsecutiveShiftNum, lastShift.MaxConsecutiveShiftNum))
			}
			if *dayBegin {
				if p.History.ConsecutiveDayNums[nurse] > contract.MaxConsecutiveDayNum {
					*objValue += model.PenaltyConsecutiveDay * model.ObjValue(weekday-model.WeekdayMon)
				} else {
					*objValue += model.PenaltyConsecutiveDay * model.ObjValue(model.DistanceToRange(
						*consecutiveDay, contract.MinConsecutiveDayNum, contract.MaxConsecutiveDayNum))
				}
				*dayBegin = false
			} else {
				*objValue += model.PenaltyConsecutiveDay * model.ObjValue(model.DistanceToRange(
					*consecutiveDay, contract.MinConsecutiveDayNum, contract.MaxConsecutiveDayNum))
			}
			*consecutiveShift = 0
			*consecutiveDay = 0
		}
		*consecutiveDayOff++
	}
}
