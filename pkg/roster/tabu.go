package roster

import "github.com/paiban/roster/pkg/model"

// initTabu 初始化禁忌表。禁忌期基数由系数乘以对应表大小得到，
// 下限 MinTabuBase，振幅 amp = 1 + base/TabuBaseToAmp。
func (s *Solution) initTabu() {
	p := s.problem
	cfg := &s.solver.cfg
	nurseNum := p.Scenario.NurseNum
	shiftNum := p.Scenario.ShiftTypeNum

	s.dayTabu = make([][]model.IterCount, nurseNum)
	s.shiftTabu = make([][][]model.IterCount, nurseNum)
	for nurse := range s.dayTabu {
		s.dayTabu[nurse] = make([]model.IterCount, model.WeekdaySize)
		s.shiftTabu[nurse] = make([][]model.IterCount, model.WeekdaySize)
		for day := range s.shiftTabu[nurse] {
			s.shiftTabu[nurse][day] = make([]model.IterCount, shiftNum)
		}
	}

	dayTableSize := nurseNum * model.WeekdayNum
	shiftTableSize := nurseNum * model.WeekdayNum * shiftNum
	s.dayTabuBase = model.IterCount(cfg.DayTabuCoefficient * float64(dayTableSize))
	if s.dayTabuBase < MinTabuBase {
		s.dayTabuBase = MinTabuBase
	}
	s.shiftTabuBase = model.IterCount(cfg.ShiftTabuCoefficient * float64(shiftTableSize))
	if s.shiftTabuBase < MinTabuBase {
		s.shiftTabuBase = MinTabuBase
	}
	s.dayTabuAmp = 1 + s.dayTabuBase/TabuBaseToAmp
	s.shiftTabuAmp = 1 + s.shiftTabuBase/TabuBaseToAmp
}

// resetTabu 清空禁忌表与迭代计数
func (s *Solution) resetTabu() {
	s.iterCount = 0
	for nurse := range s.dayTabu {
		for day := range s.dayTabu[nurse] {
			s.dayTabu[nurse][day] = 0
		}
		for day := range s.shiftTabu[nurse] {
			for shift := range s.shiftTabu[nurse][day] {
				s.shiftTabu[nurse][day][shift] = 0
			}
		}
	}
}

// isDayTabu 判断 (护士,日) 是否处于禁忌期
func (s *Solution) isDayTabu(nurse model.NurseID, weekday int) bool {
	return s.dayTabu[nurse][weekday] >= s.iterCount
}

// isShiftTabu 判断 (护士,日,班次) 是否处于禁忌期
func (s *Solution) isShiftTabu(nurse model.NurseID, weekday int, shift model.ShiftID) bool {
	return s.shiftTabu[nurse][weekday][shift] >= s.iterCount
}

// tabuDay 将移除/修改 (护士,日) 加入禁忌
func (s *Solution) tabuDay(nurse model.NurseID, weekday int) {
	s.dayTabu[nurse][weekday] = s.iterCount +
		tabuTenure(s.solver.rng, s.dayTabuBase, s.dayTabuAmp)
}

// tabuShift 将在 (护士,日) 重新排入 shift 加入禁忌
func (s *Solution) tabuShift(nurse model.NurseID, weekday int, shift model.ShiftID) {
	s.shiftTabu[nurse][weekday][shift] = s.iterCount +
		tabuTenure(s.solver.rng, s.shiftTabuBase, s.shiftTabuAmp)
}

// tabuAdd 登记 Add 的逆移动（移除该格）
func (s *Solution) tabuAdd(nurse model.NurseID, weekday int) {
	s.tabuDay(nurse, weekday)
}

// tabuRemove 登记 Remove 的逆移动（重新排入原班次）
func (s *Solution) tabuRemove(nurse model.NurseID, weekday int, oldShift model.ShiftID) {
	s.tabuShift(nurse, weekday, oldShift)
}

// tabuChange 登记 Change 的逆移动（换回原班次）
func (s *Solution) tabuChange(nurse model.NurseID, weekday int, oldShift model.ShiftID) {
	s.tabuShift(nurse, weekday, oldShift)
}

// tabuSwap 登记 Swap 的逆移动，两侧都按各自的旧格登记
func (s *Solution) tabuSwap(weekday int, nurse1, nurse2 model.NurseID,
	old1, old2 model.SingleAssign) {
	if old1.IsWorking() {
		s.tabuShift(nurse1, weekday, old1.Shift)
	} else {
		s.tabuDay(nurse1, weekday)
	}
	if old2.IsWorking() {
		s.tabuShift(nurse2, weekday, old2.Shift)
	} else {
		s.tabuDay(nurse2, weekday)
	}
}

// tabuBlockSwap 按配置的强度登记块交换的逆移动
func (s *Solution) tabuBlockSwap(nurse1, nurse2 model.NurseID, low, high int,
	old1, old2 []model.SingleAssign) {
	switch s.solver.cfg.BlockSwapTabu {
	case BlockSwapTabuNo:
		return
	case BlockSwapTabuWeak:
		// 只登记区间两端
		s.tabuSwap(low, nurse1, nurse2, old1[low], old2[low])
		if high != low {
			s.tabuSwap(high, nurse1, nurse2, old1[high], old2[high])
		}
	case BlockSwapTabuAvg:
		// 登记中间一天
		mid := (low + high) / 2
		s.tabuSwap(mid, nurse1, nurse2, old1[mid], old2[mid])
	case BlockSwapTabuStrong:
		for weekday := low; weekday <= high; weekday++ {
			s.tabuSwap(weekday, nurse1, nurse2, old1[weekday], old2[weekday])
		}
	}
}

// swapTabu 交换移动的禁忌判定：取四个分量中最严格者
func (s *Solution) swapTabu(weekday int, nurse1, nurse2 model.NurseID) bool {
	cell1 := s.assign[nurse1][weekday]
	cell2 := s.assign[nurse2][weekday]
	tabu := false
	if cell1.IsWorking() {
		tabu = tabu || s.isDayTabu(nurse1, weekday) || s.isShiftTabu(nurse2, weekday, cell1.Shift)
	}
	if cell2.IsWorking() {
		tabu = tabu || s.isDayTabu(nurse2, weekday) || s.isShiftTabu(nurse1, weekday, cell2.Shift)
	}
	return tabu
}
