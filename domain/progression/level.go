package progression

import "math"

// XP pacing: one hour of study is worth 100 XP, and each level costs 10%
// more than the last. Early levels come fast, later ones demand real
// accumulated hours.
const (
	xpPerHour        = 100.0
	initialThreshold = 100
	thresholdGrowth  = 1.1
)

// LevelStats is the derived level state for a cumulative study total.
// It is recomputed from total minutes, never stored as source of truth.
type LevelStats struct {
	Level           int     `json:"level"`
	CurrentXP       int     `json:"current_xp"`
	XPForNextLevel  int     `json:"xp_for_next_level"`
	ProgressPercent float64 `json:"progress_percent"`
	Title           string  `json:"title"`
}

// ComputeLevelStats derives level, residual XP and the next-level
// threshold from total cumulative study minutes.
//
// Guarantees: Level is non-decreasing in totalMinutes, XPForNextLevel
// strictly grows with level, and CurrentXP < XPForNextLevel always.
func ComputeLevelStats(totalMinutes int) LevelStats {
	if totalMinutes < 0 {
		totalMinutes = 0
	}

	xp := float64(totalMinutes) * (xpPerHour / 60.0)
	level := 1
	threshold := float64(initialThreshold)

	for xp >= threshold {
		xp -= threshold
		level++
		threshold = math.Floor(threshold * thresholdGrowth)
	}

	return LevelStats{
		Level:           level,
		CurrentXP:       int(math.Floor(xp)),
		XPForNextLevel:  int(math.Floor(threshold)),
		ProgressPercent: math.Min(100, xp/threshold*100),
		Title:           titleForLevel(level),
	}
}

// titleForLevel maps a level to its display title bracket.
func titleForLevel(level int) string {
	switch {
	case level <= 5:
		return "考研萌新"
	case level <= 10:
		return "自律学徒"
	case level <= 20:
		return "专注达人"
	case level <= 35:
		return "学术精英"
	case level <= 50:
		return "卷王之王"
	case level <= 70:
		return "准研究生"
	default:
		return "学术泰斗"
	}
}
