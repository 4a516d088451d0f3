package progression

// DailyNetStars maps a day's studied minutes onto a star delta for the
// rank ladder. The step function is monotone non-decreasing and has a
// deliberate dead zone at 4-5 hours: a neutral baseline that neither
// penalizes nor rewards, kept distinct from the reward threshold at 6h.
func DailyNetStars(minutesStudied int) int {
	if minutesStudied < 0 {
		minutesStudied = 0
	}
	hours := minutesStudied / 60

	switch {
	case hours < 1:
		return -4
	case hours < 2:
		return -3
	case hours < 3:
		return -2
	case hours < 4:
		return -1
	case hours < 5:
		return 0
	case hours < 6:
		return 1
	default:
		// One extra star per hour past the 6h mark: 6h earns 1, 7h
		// earns 2, and so on with no cap.
		return hours - 5
	}
}

// Tier describes one rung of the rank ladder. The final tier has
// Unbounded set and absorbs every remaining star.
type Tier struct {
	Name        string `json:"name"`
	SubTiers    int    `json:"sub_tiers"`
	StarsPerSub int    `json:"stars_per_sub"`
	Unbounded   bool   `json:"unbounded"`
}

// Capacity is the number of stars a bounded tier holds in total.
func (t Tier) Capacity() int {
	return t.SubTiers * t.StarsPerSub
}

// DefaultLadder is the rank ladder, lowest tier first.
var DefaultLadder = []Tier{
	{Name: "倔强青铜", SubTiers: 3, StarsPerSub: 3},
	{Name: "秩序白银", SubTiers: 3, StarsPerSub: 3},
	{Name: "荣耀黄金", SubTiers: 4, StarsPerSub: 3},
	{Name: "尊贵铂金", SubTiers: 4, StarsPerSub: 4},
	{Name: "永恒钻石", SubTiers: 5, StarsPerSub: 4},
	{Name: "至尊星耀", SubTiers: 5, StarsPerSub: 5},
	{Name: "最强王者", SubTiers: 1, StarsPerSub: 0, Unbounded: true},
}

// Rank is a position on the ladder derived from the running star total.
type Rank struct {
	TierName string `json:"tier_name"`
	// TierIndex is the position of the tier in the ladder, lowest = 0.
	TierIndex int `json:"tier_index"`
	// SubTierLabel is the roman-style label; numbering is reversed so
	// I is the sub-tier closest to promotion.
	SubTierLabel string `json:"sub_tier_label"`
	// SubTierIndex counts upward within the tier, 0 = entry sub-tier.
	SubTierIndex int `json:"sub_tier_index"`
	// Stars held in the current sub-tier.
	Stars       int `json:"stars"`
	StarsPerSub int `json:"stars_per_sub"`
	TotalStars  int `json:"total_stars"`
	// PromotionMatch is set when the final sub-tier holds a full star
	// set: the next settlement's star grant is gated on a minimum of
	// studied minutes before the promotion star is awarded.
	PromotionMatch bool `json:"promotion_match"`
}

var romanNumerals = []string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X"}

// RankFromStars resolves a running star total against a ladder. Lower
// tiers are consumed sequentially; a tier is left only when the counter
// strictly exceeds its capacity, so a freshly-filled tier still renders
// as that tier, full, flagged as a promotion match. Within a tier an
// exact non-zero sub-tier multiple likewise displays as the lower
// sub-tier holding a full set.
func RankFromStars(totalStars int, ladder []Tier) Rank {
	if totalStars < 0 {
		totalStars = 0
	}
	if len(ladder) == 0 {
		ladder = DefaultLadder
	}

	remaining := totalStars
	for i, tier := range ladder {
		last := i == len(ladder)-1
		if !last && !tier.Unbounded && remaining > tier.Capacity() {
			remaining -= tier.Capacity()
			continue
		}

		if tier.Unbounded || tier.StarsPerSub == 0 {
			return Rank{
				TierName:     tier.Name,
				TierIndex:    i,
				SubTierLabel: romanLabel(0, 1),
				Stars:        remaining,
				TotalStars:   totalStars,
			}
		}

		subIdx := remaining / tier.StarsPerSub
		stars := remaining % tier.StarsPerSub
		if stars == 0 && subIdx > 0 {
			subIdx--
			stars = tier.StarsPerSub
		}

		return Rank{
			TierName:       tier.Name,
			TierIndex:      i,
			SubTierLabel:   romanLabel(subIdx, tier.SubTiers),
			SubTierIndex:   subIdx,
			Stars:          stars,
			StarsPerSub:    tier.StarsPerSub,
			TotalStars:     totalStars,
			PromotionMatch: subIdx == tier.SubTiers-1 && stars == tier.StarsPerSub,
		}
	}

	// Unreachable with a non-empty ladder.
	return Rank{TotalStars: totalStars}
}

// romanLabel renders the reversed sub-tier label: index 0 (entry) gets
// the highest numeral, the final sub-tier before promotion gets I.
func romanLabel(subIdx, subTiers int) string {
	n := subTiers - subIdx
	if n < 1 {
		n = 1
	}
	if n > len(romanNumerals) {
		return romanNumerals[len(romanNumerals)-1]
	}
	return romanNumerals[n-1]
}

// ApplyNetStars folds a settlement delta into a running star counter,
// floored at zero.
func ApplyNetStars(totalStars, delta int) int {
	next := totalStars + delta
	if next < 0 {
		return 0
	}
	return next
}
