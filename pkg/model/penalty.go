// Package model 定义排班求解器的核心数据模型
package model

// Amp 全局放大系数。权重统一乘以 Amp 后参与整数运算，
// TotalAssign 等按周折算的惩罚项除以总周数后仍保留亚单位精度。
const Amp ObjValue = 128

// 软约束权重（已乘 Amp）
const (
	PenaltyInsufficientStaff   ObjValue = 30 * Amp
	PenaltyConsecutiveShift    ObjValue = 15 * Amp
	PenaltyConsecutiveDay      ObjValue = 30 * Amp
	PenaltyConsecutiveDayOff   ObjValue = 30 * Amp
	PenaltyPreference          ObjValue = 10 * Amp
	PenaltyCompleteWeekend     ObjValue = 30 * Amp
	PenaltyTotalAssign         ObjValue = 20 * Amp
	PenaltyTotalWorkingWeekend ObjValue = 30 * Amp
)

// MaxObjValue 目标值上界，try_* 返回它表示移动被拒绝
const MaxObjValue ObjValue = 1 << 40

// ForbiddenMove try_* 的拒绝哨兵，与 MaxObjValue 同值
const ForbiddenMove = MaxObjValue

// 修复搜索使用的内部权重：以大的有限值暂时替代硬约束
const (
	PenaltyUnderStaffRepair ObjValue = 8000 * Amp
	PenaltySuccessionRepair ObjValue = 5000 * Amp
)

// DistanceToRange 返回 x 偏离 [lo, hi] 的距离
func DistanceToRange(x, lo, hi int) int {
	d := 0
	if x < lo {
		d += lo - x
	}
	if x > hi {
		d += x - hi
	}
	return d
}

// ExceedCount 返回 x 超出 hi 的数量
func ExceedCount(x, hi int) int {
	if x > hi {
		return x - hi
	}
	return 0
}

// AbsentCount 返回 x 不足 lo 的数量
func AbsentCount(x, lo int) int {
	if x < lo {
		return lo - x
	}
	return 0
}

// PenaltyDayNum 块长度惩罚：块在周日前结束时按区间距离计，
// 否则只罚超出部分（短块可能延伸到下一周，不罚不足）
func PenaltyDayNum(blockLen, blockHigh, minC, maxC int) int {
	if blockHigh < WeekdaySun {
		return DistanceToRange(blockLen, minC, maxC)
	}
	return ExceedCount(blockLen, maxC)
}
