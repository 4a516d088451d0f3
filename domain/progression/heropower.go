package progression

import "math"

// Hero power accrues additively per subject: there is no decay and no
// decrement short of an explicit data reset. Overtime sessions feed a
// separate peak score that slowly amplifies later gains.
const (
	// powerPerMinute is the base rate before subject and peak scaling.
	powerPerMinute = 10.0
	// peakScorePerOvertimeMinute grows the peak counter on overtime
	// completions only.
	peakScorePerOvertimeMinute = 1
	// peakBonusDivisor controls how slowly the peak bonus ramps:
	// 1000 peak score = +100% power gain.
	peakBonusDivisor = 1000.0
)

// PowerGain is the hero-power credit computed for one committed session.
type PowerGain struct {
	Subject string  `json:"subject"`
	Points  int     `json:"points"`
	Bonus   float64 `json:"bonus"`
}

// PeakBonus converts the running peak score into a gain multiplier.
// Zero peak score means no bonus (factor 1.0).
func PeakBonus(peakScore int) float64 {
	if peakScore < 0 {
		peakScore = 0
	}
	return 1.0 + float64(peakScore)/peakBonusDivisor
}

// HeroPowerGain computes the power credited to a subject for a session
// of the given length. The subject multiplier weighs subjects against
// each other; the peak bonus amplifies everything equally.
func HeroPowerGain(minutes int, subject string, multiplier float64, peakScore int) PowerGain {
	if minutes < 0 {
		minutes = 0
	}
	if multiplier <= 0 {
		multiplier = 1.0
	}
	bonus := PeakBonus(peakScore)
	points := int(math.Floor(float64(minutes) * powerPerMinute * multiplier * bonus))
	return PowerGain{Subject: subject, Points: points, Bonus: bonus}
}

// OvertimePeakGain is the peak-score increment earned by a completed
// overtime stretch.
func OvertimePeakGain(minutes int) int {
	if minutes < 0 {
		return 0
	}
	return minutes * peakScorePerOvertimeMinute
}

// Badge is one row of a descending threshold table.
type Badge struct {
	MinScore int    `json:"min_score"`
	Label    string `json:"label"`
}

// DefaultBadges rates a subject's accumulated hero power.
var DefaultBadges = []Badge{
	{MinScore: 100000, Label: "荣耀典藏"},
	{MinScore: 50000, Label: "无双"},
	{MinScore: 20000, Label: "荣耀"},
	{MinScore: 5000, Label: "史诗"},
	{MinScore: 1000, Label: "精英"},
	{MinScore: 0, Label: "新秀"},
}

// BadgeForScore returns the first badge whose threshold the score meets.
// The table must be sorted by MinScore descending; the final zero-floor
// entry guarantees a match.
func BadgeForScore(score int, table []Badge) Badge {
	if len(table) == 0 {
		table = DefaultBadges
	}
	for _, b := range table {
		if score >= b.MinScore {
			return b
		}
	}
	return table[len(table)-1]
}
