package roster

import (
	"sort"
	"time"

	"github.com/paiban/roster/pkg/errors"
	"github.com/paiban/roster/pkg/model"
)

// availableNurses 贪心构造使用的候选护士集合。
// nurseWithSkill[skill][skillNum-1] 是掌握该技能且共有 skillNum 项技能
// 的护士集合，优先取技能数最少的（先排专才）。
type availableNurses struct {
	s              *Solution
	nurseWithSkill [][][]model.NurseID

	weekday int
	shift   model.ShiftID
	skill   model.SkillID

	minSkillNum           int
	validNurseNumCurShift []int
	validNurseNumCurDay   []int
}

func newAvailableNurses(s *Solution) *availableNurses {
	// 深拷贝，选取过程会打乱每个桶内的顺序
	src := s.solver.nurseWithSkill
	cp := make([][][]model.NurseID, len(src))
	for skill := range src {
		cp[skill] = make([][]model.NurseID, len(src[skill]))
		for i := range src[skill] {
			cp[skill][i] = append([]model.NurseID(nil), src[skill][i]...)
		}
	}
	return &availableNurses{s: s, nurseWithSkill: cp}
}

// setEnvironment 重置指定 (日,技能) 的可用标记，必须先于其他调用
func (a *availableNurses) setEnvironment(weekday int, skill model.SkillID) {
	a.weekday = weekday
	a.skill = skill
	a.minSkillNum = 0
	size := len(a.nurseWithSkill[skill])
	a.validNurseNumCurDay = make([]int, size)
	a.validNurseNumCurShift = make([]int, size)
	for i := 0; i < size; i++ {
		a.validNurseNumCurDay[i] = len(a.nurseWithSkill[skill][i])
		a.validNurseNumCurShift[i] = a.validNurseNumCurDay[i]
	}
}

// setShift 重置当前班次的可用计数，必须先于 getNurse
func (a *availableNurses) setShift(shift model.ShiftID) {
	a.shift = shift
	a.minSkillNum = 0
	a.validNurseNumCurShift = append(a.validNurseNumCurShift[:0], a.validNurseNumCurDay...)
}

// getNurse 从技能数最少的桶中均匀随机取一名可用护士，
// 无可用护士时返回 NurseNone
func (a *availableNurses) getNurse() model.NurseID {
	rng := a.s.solver.rng
	for {
		// 定位非空的最小技能数桶
		for a.minSkillNum < len(a.validNurseNumCurShift) && a.validNurseNumCurShift[a.minSkillNum] == 0 {
			a.minSkillNum++
		}
		if a.minSkillNum >= len(a.validNurseNumCurShift) {
			return model.NurseNone
		}

		nurseSet := a.nurseWithSkill[a.skill][a.minSkillNum]
		for {
			n := rng.Intn(a.validNurseNumCurShift[a.minSkillNum])
			nurse := nurseSet[n]
			if a.s.assign.IsWorking(nurse, a.weekday) {
				// 本日不可用
				a.validNurseNumCurShift[a.minSkillNum]--
				nurseSet[n], nurseSet[a.validNurseNumCurShift[a.minSkillNum]] =
					nurseSet[a.validNurseNumCurShift[a.minSkillNum]], nurseSet[n]
				a.validNurseNumCurDay[a.minSkillNum]--
				i, j := a.validNurseNumCurShift[a.minSkillNum], a.validNurseNumCurDay[a.minSkillNum]
				nurseSet[i], nurseSet[j] = nurseSet[j], nurseSet[i]
			} else if a.s.IsValidSuccession(nurse, a.shift, a.weekday) {
				a.validNurseNumCurShift[a.minSkillNum]--
				nurseSet[n], nurseSet[a.validNurseNumCurShift[a.minSkillNum]] =
					nurseSet[a.validNurseNumCurShift[a.minSkillNum]], nurseSet[n]
				a.validNurseNumCurDay[a.minSkillNum]--
				i, j := a.validNurseNumCurShift[a.minSkillNum], a.validNurseNumCurDay[a.minSkillNum]
				nurseSet[i], nurseSet[j] = nurseSet[j], nurseSet[i]
				return nurse
			} else {
				// 本班次不可用
				a.validNurseNumCurShift[a.minSkillNum]--
				nurseSet[n], nurseSet[a.validNurseNumCurShift[a.minSkillNum]] =
					nurseSet[a.validNurseNumCurShift[a.minSkillNum]], nurseSet[n]
			}
			if a.validNurseNumCurShift[a.minSkillNum] == 0 {
				break
			}
		}
	}
}

// GenInitAssign 贪心构造初始可行解。
// 逐日按 minNurseNums/技能持有人数 的降序安排技能，
// 再按班次编号填满最低需求；无人可用时返回 false。
func (s *Solution) GenInitAssign() bool {
	p := s.problem
	available := newAvailableNurses(s)

	for weekday := model.WeekdayMon; weekday < model.WeekdaySize; weekday++ {
		// 技能安排顺序：日负载高者在前，同负载按技能编号
		skillRank := make([]model.SkillID, p.Scenario.SkillTypeNum)
		dailyRequire := make([]float64, p.Scenario.SkillTypeNum)
		for skill := 0; skill < p.Scenario.SkillTypeNum; skill++ {
			skillRank[skill] = model.SkillID(skill)
			for shift := 0; shift < p.Scenario.ShiftTypeNum; shift++ {
				dailyRequire[skill] += float64(p.WeekData.MinNurseNums[weekday][shift][skill])
			}
			if n := s.solver.nurseNumOfSkill[skill]; n > 0 {
				dailyRequire[skill] /= float64(n)
			}
		}
		sort.SliceStable(skillRank, func(i, j int) bool {
			return dailyRequire[skillRank[i]] > dailyRequire[skillRank[j]]
		})

		for _, skill := range skillRank {
			available.setEnvironment(weekday, skill)
			for shift := model.ShiftID(0); int(shift) < p.Scenario.ShiftTypeNum; shift++ {
				available.setShift(shift)
				for i := 0; i < p.WeekData.MinNurseNums[weekday][shift][skill]; i++ {
					nurse := available.getNurse()
					if nurse == model.NurseNone {
						return false
					}
					s.AddShift(weekday, nurse, shift, skill)
				}
			}
		}
	}
	return true
}

// repairCost 修复目标：硬约束以大的有限权重计入
func (s *Solution) repairCost() model.ObjValue {
	p := s.problem
	var cost model.ObjValue
	for weekday := model.WeekdayMon; weekday < model.WeekdaySize; weekday++ {
		for shift := 0; shift < p.Scenario.ShiftTypeNum; shift++ {
			for skill := 0; skill < p.Scenario.SkillTypeNum; skill++ {
				if lack := s.lackAt(weekday, model.ShiftID(shift), model.SkillID(skill)); lack > 0 {
					cost += model.PenaltyUnderStaffRepair * model.ObjValue(lack)
				}
			}
		}
	}
	for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
		cost += model.PenaltySuccessionRepair * model.ObjValue(s.successionViolations(nurse))
	}
	return cost
}

// lackAt 指定槽位距最低人数的缺口
func (s *Solution) lackAt(weekday int, shift model.ShiftID, skill model.SkillID) int {
	p := s.problem
	actual := p.WeekData.OptNurseNums[weekday][shift][skill] - s.missingNurseNums[weekday][shift][skill]
	return p.WeekData.MinNurseNums[weekday][shift][skill] - actual
}

// successionViolations 统计一名护士整行的非法衔接数（含与历史的衔接）
func (s *Solution) successionViolations(nurse model.NurseID) int {
	violations := 0
	for weekday := model.WeekdayMon; weekday < model.WeekdaySize; weekday++ {
		prev := s.assign[nurse][weekday-1].Shift
		cur := s.assign[nurse][weekday].Shift
		if model.IsWorkingShift(prev) && model.IsWorkingShift(cur) &&
			!s.problem.Scenario.Shifts[prev].LegalNextShifts[cur] {
			violations++
		}
	}
	return violations
}

// Repair 修复流程：有限次贪心重启后，进入允许临时不可行状态的
// 松弛搜索，直到硬约束全部满足、步数用尽或超时
func (s *Solution) Repair(deadline time.Time) error {
	for attempt := 0; attempt < MaxInitAssignAttempts; attempt++ {
		if time.Now().After(deadline) {
			return errors.ErrTimeout
		}
		s.ResetAssign()
		if s.GenInitAssign() {
			s.EvaluateObjValue()
			return nil
		}
		s.solver.log.ConstructFailed(attempt + 1)
	}

	// 松弛阶段：先不顾衔接填满最低需求，再随机下降消除违规
	s.ResetAssign()
	s.relaxedFill()

	p := s.problem
	rng := s.solver.rng
	cost := s.repairCost()
	steps := 0
	maxSteps := 200000 + 20000*p.Scenario.NurseNum
	for cost > 0 && steps < maxSteps {
		if steps&CheckTimeIntervalMaskInIter == 0 && time.Now().After(deadline) {
			break
		}
		steps++

		weekday := rng.Intn(model.WeekdayNum) + 1
		nurse := model.NurseID(rng.Intn(p.Scenario.NurseNum))
		shift := model.ShiftID(rng.Intn(p.Scenario.ShiftTypeNum))
		skills := p.Scenario.Nurses[nurse].Skills
		skill := skills[rng.Intn(len(skills))]

		old := s.assign[nurse][weekday]
		switch {
		case !old.IsWorking():
			s.AddShift(weekday, nurse, shift, skill)
		case rng.Intn(2) == 0:
			if shift == old.Shift && skill == old.Skill {
				continue
			}
			s.ChangeShift(weekday, nurse, shift, skill)
		default:
			s.RemoveShift(weekday, nurse)
		}

		newCost := s.repairCost()
		if newCost < cost || (newCost == cost && rng.Intn(2) == 0) {
			cost = newCost
			continue
		}
		// 回退
		cur := s.assign[nurse][weekday]
		switch {
		case old.IsWorking() && cur.IsWorking():
			s.ChangeShift(weekday, nurse, old.Shift, old.Skill)
		case old.IsWorking():
			s.AddShift(weekday, nurse, old.Shift, old.Skill)
		case cur.IsWorking():
			s.RemoveShift(weekday, nurse)
		}
	}

	feasible := cost == 0
	s.solver.log.RepairDone(feasible, steps)
	s.EvaluateObjValue()
	if !feasible {
		return errors.Infeasible("修复搜索未能消除全部硬约束违规")
	}
	return nil
}

// relaxedFill 无视衔接约束，把每个槽位填到最低人数
func (s *Solution) relaxedFill() {
	p := s.problem
	rng := s.solver.rng
	for weekday := model.WeekdayMon; weekday < model.WeekdaySize; weekday++ {
		for shift := model.ShiftID(0); int(shift) < p.Scenario.ShiftTypeNum; shift++ {
			for skill := model.SkillID(0); int(skill) < p.Scenario.SkillTypeNum; skill++ {
				for s.lackAt(weekday, shift, skill) > 0 {
					// 随机起点扫描一名本日空闲且掌握该技能的护士
					start := rng.Intn(p.Scenario.NurseNum)
					assigned := false
					for i := 0; i < p.Scenario.NurseNum; i++ {
						nurse := model.NurseID((start + i) % p.Scenario.NurseNum)
						if !s.assign.IsWorking(nurse, weekday) && p.Scenario.Nurses[nurse].HasSkill(skill) {
							s.AddShift(weekday, nurse, shift, skill)
							assigned = true
							break
						}
					}
					if !assigned {
						// 该槽位无论如何都排不满
						break
					}
				}
			}
		}
	}
}
