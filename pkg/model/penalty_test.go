package model

import "testing"

func TestDistanceToRange(t *testing.T) {
	tests := []struct {
		name     string
		x, lo, hi int
		expected int
	}{
		{"区间内", 3, 1, 5, 0},
		{"低于下界", 0, 2, 5, 2},
		{"高于上界", 8, 2, 5, 3},
		{"正好下界", 2, 2, 5, 0},
		{"正好上界", 5, 2, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DistanceToRange(tt.x, tt.lo, tt.hi); got != tt.expected {
				t.Errorf("DistanceToRange(%d,%d,%d) = %d，期望 %d",
					tt.x, tt.lo, tt.hi, got, tt.expected)
			}
		})
	}
}

func TestExceedCount(t *testing.T) {
	if ExceedCount(7, 3) != 4 {
		t.Error("ExceedCount(7,3) 应为 4")
	}
	if ExceedCount(3, 3) != 0 {
		t.Error("ExceedCount(3,3) 应为 0")
	}
	if ExceedCount(1, 3) != 0 {
		t.Error("ExceedCount(1,3) 应为 0")
	}
}

func TestAbsentCount(t *testing.T) {
	if AbsentCount(1, 3) != 2 {
		t.Error("AbsentCount(1,3) 应为 2")
	}
	if AbsentCount(3, 3) != 0 {
		t.Error("AbsentCount(3,3) 应为 0")
	}
}

func TestPenaltyDayNum(t *testing.T) {
	tests := []struct {
		name              string
		blockLen, blockHigh int
		minC, maxC        int
		expected          int
	}{
		{"周中短块计不足", 1, WeekdayWed, 2, 5, 1},
		{"周中长块计超出", 7, WeekdayFri, 2, 5, 2},
		{"周末短块不罚不足", 1, WeekdaySun, 2, 5, 0},
		{"周末长块仍罚超出", 7, WeekdaySun, 2, 5, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PenaltyDayNum(tt.blockLen, tt.blockHigh, tt.minC, tt.maxC); got != tt.expected {
				t.Errorf("PenaltyDayNum(%d,%d,%d,%d) = %d，期望 %d",
					tt.blockLen, tt.blockHigh, tt.minC, tt.maxC, got, tt.expected)
			}
		})
	}
}

func TestAssign_IsWorking(t *testing.T) {
	assign := NewAssign(2)
	if assign.IsWorking(0, WeekdayMon) {
		t.Error("空分配表不应有工作格")
	}
	assign[0][WeekdayMon] = SingleAssign{Shift: 0, Skill: 1}
	if !assign.IsWorking(0, WeekdayMon) {
		t.Error("已分配的格子应为工作")
	}
	if !IsWorkingShift(0) || IsWorkingShift(ShiftNone) || IsWorkingShift(ShiftAny) {
		t.Error("班次哨兵判定错误")
	}
}

func TestAssign_CloneEqual(t *testing.T) {
	assign := NewAssign(2)
	assign[1][WeekdayFri] = SingleAssign{Shift: 2, Skill: 0}
	clone := assign.Clone()
	if !assign.Equal(clone) {
		t.Fatal("克隆后应逐格相同")
	}
	clone[1][WeekdayFri] = SingleAssign{Shift: ShiftNone}
	if assign.Equal(clone) {
		t.Error("修改克隆不应影响原表")
	}
}

func TestWeekdayByName(t *testing.T) {
	if WeekdayByName("Mon") != WeekdayMon || WeekdayByName("Sun") != WeekdaySun {
		t.Error("星期名称映射错误")
	}
	if WeekdayByName("无效") != -1 {
		t.Error("未知名称应返回 -1")
	}
}

func TestScenario_Normalize(t *testing.T) {
	sce := Scenario{
		TotalWeekNum: 4,
		SkillTypeNum: 2,
		Shifts:       []Shift{{}, {}},
		Contracts:    []Contract{{}},
		Nurses: []Nurse{
			{Contract: 0, Skills: []SkillID{1}},
		},
	}
	sce.Normalize()
	if sce.NurseNum != 1 || sce.ShiftTypeNum != 2 || sce.MaxWeekCount != 3 {
		t.Errorf("派生数量错误: %+v", sce)
	}
	if sce.Nurses[0].HasSkill(0) || !sce.Nurses[0].HasSkill(1) {
		t.Error("技能归属表错误")
	}
}
