// Package model 定义排班求解器的核心数据模型
package model

// WeekData 单周的需求与偏好数据（求解期间不可变）
type WeekData struct {
	// shiftOffs[day][shift][nurse] 为 true 表示护士申请该日该班次休息
	ShiftOffs [][][]bool `json:"shift_offs"`
	// optNurseNums[day][shift][skill] 软性需求人数
	OptNurseNums NurseNums `json:"opt_nurse_nums"`
	// minNurseNums[day][shift][skill] 硬性最低人数
	MinNurseNums NurseNums `json:"min_nurse_nums"`
}

// NewWeekData 创建空的周数据
func NewWeekData(shiftTypeNum, skillTypeNum, nurseNum int) WeekData {
	offs := make([][][]bool, WeekdaySize)
	for day := range offs {
		offs[day] = make([][]bool, shiftTypeNum)
		for shift := range offs[day] {
			offs[day][shift] = make([]bool, nurseNum)
		}
	}
	return WeekData{
		ShiftOffs:    offs,
		OptNurseNums: NewNurseNums(shiftTypeNum, skillTypeNum),
		MinNurseNums: NewNurseNums(shiftTypeNum, skillTypeNum),
	}
}

// History 历史数据（跨周可变，单次求解期间不可变）
type History struct {
	// AccObjValue 此前各周累计的目标值
	AccObjValue ObjValue `json:"acc_obj_value"`
	// PastWeekCount 已经排完的周数；CurrentWeek = PastWeekCount + 1
	PastWeekCount int `json:"past_week_count"`
	CurrentWeek   int `json:"current_week"`

	TotalAssignNums         []int     `json:"total_assign_nums"`
	TotalWorkingWeekendNums []int     `json:"total_working_weekend_nums"`
	LastShifts              []ShiftID `json:"last_shifts"`
	ConsecutiveShiftNums    []int     `json:"consecutive_shift_nums"`
	ConsecutiveDayNums      []int     `json:"consecutive_day_nums"`
	ConsecutiveDayoffNums   []int     `json:"consecutive_dayoff_nums"`
}

// NewHistory 创建首周的空历史
func NewHistory(nurseNum int) History {
	h := History{
		PastWeekCount:           0,
		CurrentWeek:             1,
		TotalAssignNums:         make([]int, nurseNum),
		TotalWorkingWeekendNums: make([]int, nurseNum),
		LastShifts:              make([]ShiftID, nurseNum),
		ConsecutiveShiftNums:    make([]int, nurseNum),
		ConsecutiveDayNums:      make([]int, nurseNum),
		ConsecutiveDayoffNums:   make([]int, nurseNum),
	}
	for i := range h.LastShifts {
		h.LastShifts[i] = ShiftNone
	}
	return h
}
