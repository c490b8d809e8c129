// Package metric 绩效指标公式。全部为纯函数：输入退化（分母为0等）
// 一律映射到定义值，不返回错误。
package metric

import "math"

// NominalShiftHours 非加班人员单班标准工时
const NominalShiftHours = 7.66

// 综合得分档位
const (
	TierExcellent = "excellent"
	TierGood      = "good"
	TierAverage   = "average"
	TierPoor      = "poor"
)

// 运行状态（按计划达成率分档，供看板告警/着色）
const (
	StatusNormal   = "normal"
	StatusDegraded = "degraded"
	StatusCritical = "critical"
)

// UsedLaborHours 实际投入工时 = 非加班人数*标准工时 + 加班人数*加班时长
func UsedLaborHours(noOtMP, otMP, otHours float64) float64 {
	return noOtMP*NominalShiftHours + otMP*otHours
}

// Efficiency 效率(%) = 产出/投入工时*100，投入为0时为0
func Efficiency(output, usedHours float64) float64 {
	if usedHours > 0 {
		return output / usedHours * 100
	}
	return 0
}

// PlanCompletion 计划达成率(%)，计划为0时为0
func PlanCompletion(actual, plan float64) float64 {
	if plan > 0 {
		return actual / plan * 100
	}
	return 0
}

// ThroughputRate 加权产能（circuit/工时，CPH），投入为0时为0
func ThroughputRate(weightedOutput, usedHours float64) float64 {
	if usedHours > 0 {
		return weightedOutput / usedHours
	}
	return 0
}

// AbsentRateScore 缺勤率得分，满分30。
// 缺勤率超过5%走惩罚性分支，两段在 r=0.05 处不连续（沿用原口径，勿平滑）。
func AbsentRateScore(absentRatePct float64) float64 {
	r := absentRatePct / 100
	if r > 0.05 {
		return math.Max(0, (0.7-r)*30)
	}
	return (1 - r) * 30
}

// SeparationRateScore 离职率得分，满分30。离职率为0时恰为30。
func SeparationRateScore(separationRatePct float64) float64 {
	r := separationRatePct / 100
	if r > 0 {
		return math.Max(0, (0.5-r)*30)
	}
	return 30
}

// PlanCompletionScore 计划达成得分，满分20。
// 超产时不封顶，得分可超过20（沿用原口径）。
func PlanCompletionScore(planCompletionPct float64) float64 {
	return planCompletionPct / 100 * 20
}

// ThroughputScore 产能得分，满分20，按当日最高产能归一
func ThroughputScore(rate, maxObservedRate float64) float64 {
	if maxObservedRate > 0 {
		return rate / maxObservedRate * 20
	}
	return 0
}

// Tier 综合得分档位，名义满分100
func Tier(totalScore float64) string {
	switch {
	case totalScore >= 90:
		return TierExcellent
	case totalScore >= 80:
		return TierGood
	case totalScore >= 70:
		return TierAverage
	default:
		return TierPoor
	}
}

// Status 运行状态分档
func Status(planCompletionPct float64) string {
	switch {
	case planCompletionPct >= 95:
		return StatusNormal
	case planCompletionPct >= 70:
		return StatusDegraded
	default:
		return StatusCritical
	}
}
