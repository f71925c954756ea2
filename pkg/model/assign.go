// Package model 定义排班求解器的核心数据模型
package model

// SingleAssign 单个护士在单日的分配
type SingleAssign struct {
	Shift ShiftID `json:"shift"`
	Skill SkillID `json:"skill"`
}

// IsWorking 判断分配是否为工作班次
func (a SingleAssign) IsWorking() bool {
	return IsWorkingShift(a.Shift)
}

// Assign 护士×日期的分配表，第0列为历史哨兵
type Assign [][]SingleAssign

// NewAssign 创建全休息的分配表
func NewAssign(nurseNum int) Assign {
	assign := make(Assign, nurseNum)
	for nurse := range assign {
		assign[nurse] = make([]SingleAssign, WeekdaySize)
		for day := range assign[nurse] {
			assign[nurse][day] = SingleAssign{Shift: ShiftNone}
		}
	}
	return assign
}

// IsWorking 判断护士在指定日是否工作
func (a Assign) IsWorking(nurse NurseID, weekday int) bool {
	return IsWorkingShift(a[nurse][weekday].Shift)
}

// Clone 深拷贝分配表
func (a Assign) Clone() Assign {
	clone := make(Assign, len(a))
	for nurse := range a {
		clone[nurse] = append([]SingleAssign(nil), a[nurse]...)
	}
	return clone
}

// Equal 判断两张分配表是否逐格相同
func (a Assign) Equal(other Assign) bool {
	if len(a) != len(other) {
		return false
	}
	for nurse := range a {
		for day := range a[nurse] {
			if a[nurse][day] != other[nurse][day] {
				return false
			}
		}
	}
	return true
}
