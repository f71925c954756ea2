package roster

import "github.com/paiban/roster/pkg/model"

// arSlot 人手不足的槽位
type arSlot struct {
	weekday int
	shift   model.ShiftID
	skill   model.SkillID
}

// understaffedSlots 收集当前所有缺员槽位
func (s *Solution) understaffedSlots() []arSlot {
	p := s.problem
	var slots []arSlot
	for weekday := model.WeekdayMon; weekday < model.WeekdaySize; weekday++ {
		for shift := 0; shift < p.Scenario.ShiftTypeNum; shift++ {
			for skill := 0; skill < p.Scenario.SkillTypeNum; skill++ {
				if s.missingNurseNums[weekday][shift][skill] > 0 {
					slots = append(slots, arSlot{weekday, model.ShiftID(shift), model.SkillID(skill)})
				}
			}
		}
	}
	return slots
}

// overAssignedNurse 返回总班次超出合同上限最多的护士，无则 NurseNone
func (s *Solution) overAssignedNurse() model.NurseID {
	p := s.problem
	best := model.NurseNone
	worst := 0
	for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
		contract := p.Scenario.NurseContract(nurse)
		exceed := s.totalAssignNums[nurse]*p.Scenario.TotalWeekNum -
			contract.MaxShiftNum*p.History.CurrentWeek
		if exceed > worst {
			worst = exceed
			best = nurse
		}
	}
	return best
}

// arAddHead 链的 Add 头：把一名护士排进缺员槽位。
// pickRandom 为 true 时在可行护士中均匀随机取，否则取最优增量。
// 返回被排入的护士，失败返回 NurseNone。
func (t *trial) arAddHead(slot arSlot, pickRandom bool) model.NurseID {
	s := t.s
	p := s.problem
	rng := s.solver.rng
	best := model.NurseNone
	bestDelta := model.ForbiddenMove
	picked := 0
	for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
		delta := s.TryAddShift(slot.weekday, nurse, slot.shift, slot.skill)
		if delta >= model.ForbiddenMove {
			continue
		}
		if pickRandom {
			picked++
			if rng.Intn(picked) == 0 {
				best = nurse
				bestDelta = delta
			}
		} else if delta < bestDelta {
			best = nurse
			bestDelta = delta
		}
	}
	if best == model.NurseNone || !t.add(slot.weekday, best, slot.shift, slot.skill) {
		return model.NurseNone
	}
	return best
}

// arRemoveHead 链的 Remove 头：在指定护士的工作格中取最优移除。
// 返回腾出的槽位；没有可行移除时返回 false。
func (t *trial) arRemoveHead(nurse model.NurseID) (arSlot, bool) {
	s := t.s
	bestDay := -1
	bestDelta := model.ForbiddenMove
	for weekday := model.WeekdayMon; weekday < model.WeekdaySize; weekday++ {
		delta := s.TryRemoveShift(weekday, nurse)
		if delta < bestDelta {
			bestDelta = delta
			bestDay = weekday
		}
	}
	if bestDay < 0 {
		return arSlot{}, false
	}
	cell := s.assign[nurse][bestDay]
	if !t.remove(bestDay, nurse, true) {
		return arSlot{}, false
	}
	return arSlot{bestDay, cell.Shift, cell.Skill}, true
}

// growARChain 从一个缺员槽位出发交替执行 Add/Remove。
// quickRestart 为 true 时一旦累计增量变优即停止增长。
func (t *trial) growARChain(slot arSlot, budget int, pickRandom, quickRestart bool) {
	s := t.s
	p := s.problem
	for step := 0; step < budget; step++ {
		nurse := t.arAddHead(slot, pickRandom)
		if nurse == model.NurseNone {
			return
		}
		if quickRestart && t.delta < 0 {
			return
		}
		// 被排入的护士若未超出合同上限，链在此闭合
		contract := p.Scenario.NurseContract(nurse)
		if s.totalAssignNums[nurse]*p.Scenario.TotalWeekNum <=
			contract.MaxShiftNum*p.History.CurrentWeek {
			return
		}
		freed, ok := t.arRemoveHead(nurse)
		if !ok {
			return
		}
		if quickRestart && t.delta < 0 {
			return
		}
		// 腾出的槽位若不再缺员，链在此闭合
		if s.missingNurseNums[freed.weekday][freed.shift][freed.skill] <= 0 {
			return
		}
		slot = freed
	}
}

// ApplyARChain 执行一条 AR 链：从缺员槽位或超额护士出发，
// 交替 Add/Remove 直到链闭合或预算耗尽；累计增量变优才提交。
// 返回提交的增量，未提交返回 ForbiddenMove。
func (s *Solution) ApplyARChain(variant MoveMode) model.ObjValue {
	rng := s.solver.rng
	budget := s.solver.cfg.ARChainBudget
	t := newTrial(s)

	slots := s.understaffedSlots()
	if len(slots) == 0 {
		// 没有缺员时从超额护士的移除开始
		nurse := s.overAssignedNurse()
		if nurse == model.NurseNone {
			return model.ForbiddenMove
		}
		freed, ok := t.arRemoveHead(nurse)
		if !ok {
			t.rollback()
			return model.ForbiddenMove
		}
		if s.missingNurseNums[freed.weekday][freed.shift][freed.skill] > 0 {
			t.growARChain(freed, budget, variant == ModeARRand, variant == ModeARLoop)
		}
	} else {
		switch variant {
		case ModeARBoth:
			// 双头：两条链从不同槽位生长，不允许快速重启
			first := slots[rng.Intn(len(slots))]
			t.growARChain(first, budget/2, false, false)
			rest := s.understaffedSlots()
			if len(rest) > 0 {
				t.growARChain(rest[rng.Intn(len(rest))], budget/2, false, false)
			}
		case ModeARRand:
			t.growARChain(slots[rng.Intn(len(slots))], budget, true, true)
		default: // ModeARLoop 快速重启
			t.growARChain(slots[rng.Intn(len(slots))], budget, false, true)
		}
	}

	if t.delta < 0 {
		delta := t.delta
		s.objValue += delta
		return delta
	}
	t.rollback()
	return model.ForbiddenMove
}
