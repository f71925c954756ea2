package roster

import "github.com/paiban/roster/pkg/model"

// cellRecord 记录一个被改动格子的前像，用于回滚
type cellRecord struct {
	weekday int
	nurse   model.NurseID
	old     model.SingleAssign
}

// trial 作用域事务：基本移动依次执行并累计增量，
// 拒绝时按前像逆序回滚，而不是拷贝整个解
type trial struct {
	s       *Solution
	records []cellRecord
	delta   model.ObjValue
}

func newTrial(s *Solution) *trial {
	return &trial{s: s}
}

func (t *trial) snapshot(weekday int, nurse model.NurseID) {
	t.records = append(t.records, cellRecord{weekday, nurse, t.s.assign[nurse][weekday]})
}

// add 试探并执行添加，失败返回 false 且不改动状态
func (t *trial) add(weekday int, nurse model.NurseID, shift model.ShiftID, skill model.SkillID) bool {
	delta := t.s.TryAddShift(weekday, nurse, shift, skill)
	if delta >= model.ForbiddenMove {
		return false
	}
	t.snapshot(weekday, nurse)
	t.s.AddShift(weekday, nurse, shift, skill)
	t.delta += delta
	return true
}

// remove 试探并执行移除。checkStaff 为 false 时跳过最低人数前置检查，
// 供净人数不变的复合移动使用
func (t *trial) remove(weekday int, nurse model.NurseID, checkStaff bool) bool {
	delta := t.s.tryRemoveShift(weekday, nurse, checkStaff)
	if delta >= model.ForbiddenMove {
		return false
	}
	t.snapshot(weekday, nurse)
	t.s.RemoveShift(weekday, nurse)
	t.delta += delta
	return true
}

// change 试探并执行修改
func (t *trial) change(weekday int, nurse model.NurseID, shift model.ShiftID, skill model.SkillID, checkStaff bool) bool {
	delta := t.s.tryChangeShift(weekday, nurse, shift, skill, checkStaff)
	if delta >= model.ForbiddenMove {
		return false
	}
	t.snapshot(weekday, nurse)
	t.s.ChangeShift(weekday, nurse, shift, skill)
	t.delta += delta
	return true
}

// rollback 逆序恢复所有被改动的格子
func (t *trial) rollback() {
	for i := len(t.records) - 1; i >= 0; i-- {
		r := t.records[i]
		cur := t.s.assign[r.nurse][r.weekday]
		switch {
		case r.old.IsWorking() && cur.IsWorking():
			if r.old != cur {
				t.s.ChangeShift(r.weekday, r.nurse, r.old.Shift, r.old.Skill)
			}
		case r.old.IsWorking():
			t.s.AddShift(r.weekday, r.nurse, r.old.Shift, r.old.Skill)
		case cur.IsWorking():
			t.s.RemoveShift(r.weekday, r.nurse)
		}
	}
	t.records = t.records[:0]
	t.delta = 0
}

// swapChain 在事务内交换两名护士在单日的分配。
// 拆解为 Remove+Remove+Add+Add；净人数不变，
// 因此中间步骤跳过最低人数检查。
func (t *trial) swapChain(weekday int, nurse1, nurse2 model.NurseID) bool {
	cell1 := t.s.assign[nurse1][weekday]
	cell2 := t.s.assign[nurse2][weekday]
	if cell1 == cell2 {
		return false
	}

	switch {
	case cell1.IsWorking() && cell2.IsWorking():
		if !t.remove(weekday, nurse1, false) || !t.remove(weekday, nurse2, false) {
			return false
		}
		if !t.add(weekday, nurse1, cell2.Shift, cell2.Skill) || !t.add(weekday, nurse2, cell1.Shift, cell1.Skill) {
			return false
		}
	case cell1.IsWorking():
		if !t.remove(weekday, nurse1, false) || !t.add(weekday, nurse2, cell1.Shift, cell1.Skill) {
			return false
		}
	case cell2.IsWorking():
		if !t.remove(weekday, nurse2, false) || !t.add(weekday, nurse1, cell2.Shift, cell2.Skill) {
			return false
		}
	default:
		return false
	}
	return true
}

// TrySwapNurse 评估交换两名护士单日分配的目标增量，不改动状态
func (s *Solution) TrySwapNurse(weekday int, nurse1, nurse2 model.NurseID) model.ObjValue {
	if nurse1 == nurse2 {
		return model.ForbiddenMove
	}
	t := newTrial(s)
	if !t.swapChain(weekday, nurse1, nurse2) {
		t.rollback()
		return model.ForbiddenMove
	}
	delta := t.delta
	t.rollback()
	return delta
}

// ApplySwapNurse 执行交换并返回目标增量；失败返回 ForbiddenMove 且状态不变
func (s *Solution) ApplySwapNurse(weekday int, nurse1, nurse2 model.NurseID) model.ObjValue {
	if nurse1 == nurse2 {
		return model.ForbiddenMove
	}
	t := newTrial(s)
	if !t.swapChain(weekday, nurse1, nurse2) {
		t.rollback()
		return model.ForbiddenMove
	}
	s.objValue += t.delta
	return t.delta
}

// blockSwapChain 在事务内交换两名护士在 [low..high] 的连续分配。
// 逐日交换使每对相邻日都对照最终值通过衔接检查。
func (t *trial) blockSwapChain(nurse1, nurse2 model.NurseID, low, high int) bool {
	swapped := false
	for weekday := low; weekday <= high; weekday++ {
		if t.s.assign[nurse1][weekday] == t.s.assign[nurse2][weekday] {
			continue // 两格相同，交换是空操作
		}
		if !t.swapChain(weekday, nurse1, nurse2) {
			return false
		}
		swapped = true
	}
	return swapped
}

// TryBlockSwap 评估交换连续日区间的目标增量，不改动状态
func (s *Solution) TryBlockSwap(nurse1, nurse2 model.NurseID, low, high int) model.ObjValue {
	if nurse1 == nurse2 || low < model.WeekdayMon || high > model.WeekdaySun || low > high {
		return model.ForbiddenMove
	}
	t := newTrial(s)
	if !t.blockSwapChain(nurse1, nurse2, low, high) {
		t.rollback()
		return model.ForbiddenMove
	}
	delta := t.delta
	t.rollback()
	return delta
}

// ApplyBlockSwap 执行块交换并返回目标增量；失败回滚并返回 ForbiddenMove
func (s *Solution) ApplyBlockSwap(nurse1, nurse2 model.NurseID, low, high int) model.ObjValue {
	if nurse1 == nurse2 || low < model.WeekdayMon || high > model.WeekdaySun || low > high {
		return model.ForbiddenMove
	}
	t := newTrial(s)
	if !t.blockSwapChain(nurse1, nurse2, low, high) {
		t.rollback()
		return model.ForbiddenMove
	}
	s.objValue += t.delta
	return t.delta
}
