package roster

import (
	"math/rand"
	"testing"

	"github.com/paiban/roster/pkg/model"
)

// bruteForceConsecutive 按定义重算一名护士的块索引（周内部分）
func bruteForceConsecutive(assign model.Assign, nurse model.NurseID, his Consecutive) Consecutive {
	var c Consecutive
	row := assign[nurse]
	for d := 0; d < model.WeekdaySize; d++ {
		lo, hi := d, d
		for lo > 0 && row[lo-1].Shift == row[d].Shift {
			lo--
		}
		for hi < model.WeekdaySun && row[hi+1].Shift == row[d].Shift {
			hi++
		}
		c.ShiftLow[d] = lo
		c.ShiftHigh[d] = hi
		// 首块与历史合并时下界吸收上周尾部
		if lo == 0 {
			c.ShiftLow[d] = his.ShiftLow[0]
		}

		lo, hi = d, d
		for lo > 0 && row[lo-1].IsWorking() == row[d].IsWorking() {
			lo--
		}
		for hi < model.WeekdaySun && row[hi+1].IsWorking() == row[d].IsWorking() {
			hi++
		}
		c.DayLow[d] = lo
		c.DayHigh[d] = hi
		if lo == 0 {
			c.DayLow[d] = his.DayLow[0]
		}
	}
	return c
}

func TestNewConsecutive_历史工作结尾(t *testing.T) {
	h := model.NewHistory(1)
	h.LastShifts[0] = 0
	h.ConsecutiveShiftNums[0] = 3
	h.ConsecutiveDayNums[0] = 5

	c := NewConsecutive(&h, 0)

	if c.ShiftLow[model.WeekdayHis] != 1-3 || c.ShiftHigh[model.WeekdayHis] != model.WeekdayHis {
		t.Errorf("历史班次块 = [%d,%d]，期望 [-2,0]",
			c.ShiftLow[model.WeekdayHis], c.ShiftHigh[model.WeekdayHis])
	}
	if c.DayLow[model.WeekdayHis] != 1-5 {
		t.Errorf("历史工作块下界 = %d，期望 -4", c.DayLow[model.WeekdayHis])
	}
	if c.ShiftLow[model.WeekdayMon] != model.WeekdayMon || c.ShiftHigh[model.WeekdayMon] != model.WeekdaySun {
		t.Errorf("整周休息块 = [%d,%d]，期望 [Mon,Sun]",
			c.ShiftLow[model.WeekdayMon], c.ShiftHigh[model.WeekdayMon])
	}
}

func TestNewConsecutive_历史休息结尾(t *testing.T) {
	h := model.NewHistory(1)
	h.ConsecutiveDayoffNums[0] = 2

	c := NewConsecutive(&h, 0)

	// 整周与历史合并为一块
	for d := 0; d < model.WeekdaySize; d++ {
		if c.DayLow[d] != -1 || c.DayHigh[d] != model.WeekdaySun {
			t.Fatalf("第%d天块 = [%d,%d]，期望 [-1,Sun]", d, c.DayLow[d], c.DayHigh[d])
		}
	}
}

func TestConsecutive_随机更新后块不变式(t *testing.T) {
	p := newTestProblem(3, 2, 1)
	p.History.LastShifts[0] = 1
	p.History.ConsecutiveShiftNums[0] = 2
	p.History.ConsecutiveDayNums[0] = 2
	p.History.ConsecutiveDayoffNums[1] = 3
	p.History.ConsecutiveDayoffNums[2] = 1
	solver := newTestSolver(p)
	sln := solver.sln

	his := make([]Consecutive, 3)
	for n := range his {
		his[n] = NewConsecutive(&p.History, model.NurseID(n))
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		weekday := rng.Intn(model.WeekdayNum) + 1
		nurse := model.NurseID(rng.Intn(3))
		shift := model.ShiftID(rng.Intn(2))
		switch rng.Intn(3) {
		case 0:
			if !sln.assign.IsWorking(nurse, weekday) {
				sln.AddShift(weekday, nurse, shift, 0)
			}
		case 1:
			if sln.assign.IsWorking(nurse, weekday) {
				sln.ChangeShift(weekday, nurse, shift, 0)
			}
		default:
			if sln.assign.IsWorking(nurse, weekday) {
				sln.RemoveShift(weekday, nurse)
			}
		}

		for n := model.NurseID(0); n < 3; n++ {
			want := bruteForceConsecutive(sln.assign, n, his[n])
			got := sln.consecutives[n]
			for d := model.WeekdayMon; d < model.WeekdaySize; d++ {
				if got.ShiftLow[d] != want.ShiftLow[d] || got.ShiftHigh[d] != want.ShiftHigh[d] {
					t.Fatalf("第%d步后护士%d第%d天班次块 = [%d,%d]，期望 [%d,%d]",
						i, n, d, got.ShiftLow[d], got.ShiftHigh[d], want.ShiftLow[d], want.ShiftHigh[d])
				}
				if got.DayLow[d] != want.DayLow[d] || got.DayHigh[d] != want.DayHigh[d] {
					t.Fatalf("第%d步后护士%d第%d天工作块 = [%d,%d]，期望 [%d,%d]",
						i, n, d, got.DayLow[d], got.DayHigh[d], want.DayLow[d], want.DayHigh[d])
				}
			}
		}
	}
}
