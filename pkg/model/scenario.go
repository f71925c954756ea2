// Package model 定义排班求解器的核心数据模型
package model

import "time"

// Shift 班次类型
type Shift struct {
	MinConsecutiveShiftNum int `json:"min_consecutive_shift_num"`
	MaxConsecutiveShiftNum int `json:"max_consecutive_shift_num"`
	// legalNextShifts[next] 为 true 表示 next 可以紧跟在本班次之后
	LegalNextShifts []bool `json:"legal_next_shifts"`
}

// Contract 合同条款
type Contract struct {
	MinShiftNum             int  `json:"min_shift_num"` // 整个规划期内的总班次下限
	MaxShiftNum             int  `json:"max_shift_num"`
	MinConsecutiveDayNum    int  `json:"min_consecutive_day_num"`
	MaxConsecutiveDayNum    int  `json:"max_consecutive_day_num"`
	MinConsecutiveDayoffNum int  `json:"min_consecutive_dayoff_num"`
	MaxConsecutiveDayoffNum int  `json:"max_consecutive_dayoff_num"`
	MaxWorkingWeekendNum    int  `json:"max_working_weekend_num"`
	CompleteWeekend         bool `json:"complete_weekend"`
}

// Nurse 护士
type Nurse struct {
	Contract ContractID `json:"contract"`
	Skills   []SkillID  `json:"skills"`
	// skillBelong[skill] 为 true 表示护士掌握该技能
	SkillBelong []bool `json:"-"`
}

// HasSkill 判断护士是否掌握指定技能
func (n *Nurse) HasSkill(skill SkillID) bool {
	return int(skill) < len(n.SkillBelong) && n.SkillBelong[skill]
}

// Scenario 场景数据（单次求解期间不可变）
type Scenario struct {
	TotalWeekNum int `json:"total_week_num"` // 规划期总周数
	MaxWeekCount int `json:"max_week_count"` // 从0计数，等于 TotalWeekNum-1
	ShiftTypeNum int `json:"shift_type_num"`
	SkillTypeNum int `json:"skill_type_num"`
	NurseNum     int `json:"nurse_num"`

	Shifts    []Shift    `json:"shifts"`
	Contracts []Contract `json:"contracts"`
	Nurses    []Nurse    `json:"nurses"`
}

// NurseContract 返回护士对应的合同
func (s *Scenario) NurseContract(nurse NurseID) *Contract {
	return &s.Contracts[s.Nurses[nurse].Contract]
}

// Normalize 填充派生字段（技能归属表、各类数量）
func (s *Scenario) Normalize() {
	s.ShiftTypeNum = len(s.Shifts)
	s.NurseNum = len(s.Nurses)
	s.MaxWeekCount = s.TotalWeekNum - 1
	for i := range s.Nurses {
		belong := make([]bool, s.SkillTypeNum)
		for _, skill := range s.Nurses[i].Skills {
			belong[skill] = true
		}
		s.Nurses[i].SkillBelong = belong
	}
}

// Names 名称与编号的映射
type Names struct {
	ScenarioName  string             `json:"scenario_name"`
	SkillNames    []string           `json:"skill_names"`
	SkillMap      map[string]SkillID `json:"-"`
	ShiftNames    []string           `json:"shift_names"`
	ShiftMap      map[string]ShiftID `json:"-"`
	ContractNames []string           `json:"contract_names"`
	ContractMap   map[string]ContractID `json:"-"`
	NurseNames    []string           `json:"nurse_names"`
	NurseMap      map[string]NurseID `json:"-"`
}

// NewNames 创建带哨兵班次的名称表
func NewNames() *Names {
	return &Names{
		SkillMap:    make(map[string]SkillID),
		ShiftMap:    map[string]ShiftID{ShiftNameNone: ShiftNone, ShiftNameAny: ShiftAny},
		ContractMap: make(map[string]ContractID),
		NurseMap:    make(map[string]NurseID),
	}
}

// ShiftName 返回班次名称（含哨兵）
func (n *Names) ShiftName(shift ShiftID) string {
	switch shift {
	case ShiftNone:
		return ShiftNameNone
	case ShiftAny:
		return ShiftNameAny
	default:
		return n.ShiftNames[shift]
	}
}

// Problem 一次求解的完整输入
type Problem struct {
	RandSeed  int64
	Timeout   time.Duration
	WeekCount int // 历史文件中的周编号（从0计数）

	Scenario Scenario
	WeekData WeekData
	History  History
	Names    *Names
}
