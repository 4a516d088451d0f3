package ledger

import (
	"levelup/domain/core"
	"levelup/domain/progression"
)

// SettlementInput is everything the daily rollover reads. It is pure
// arithmetic over these values; idempotency (the "settle each day at
// most once" guard) is the caller's persisted-marker responsibility.
type SettlementInput struct {
	// PreviousDate is the day being settled.
	PreviousDate core.Date
	// PreviousMinutes is that day's studied minutes.
	PreviousMinutes int
	// TotalStars is the running star counter before settlement.
	TotalStars int
	// Ladder resolves promotion-match state; nil means the default.
	Ladder []progression.Tier
	// PromotionGateMinutes is the minimum studied minutes the settled
	// day must carry for a promotion star to be granted.
	PromotionGateMinutes int
}

// SettlementResult is what one rollover decided.
type SettlementResult struct {
	SettledDate core.Date `json:"settled_date"`
	RawDelta    int       `json:"raw_delta"`
	// AppliedDelta differs from RawDelta when the promotion gate
	// suppressed a star grant.
	AppliedDelta   int  `json:"applied_delta"`
	GateSuppressed bool `json:"gate_suppressed"`
	TotalStars     int  `json:"total_stars"`
}

// Settle computes the star adjustment for one day rollover. When the
// player sits at a promotion match, a positive delta is only honored if
// the settled day cleared the gate; otherwise the grant is suppressed
// to zero. Star losses always apply. The running total floors at zero.
func Settle(in SettlementInput) SettlementResult {
	raw := progression.DailyNetStars(in.PreviousMinutes)
	applied := raw
	suppressed := false

	if raw > 0 && in.PromotionGateMinutes > 0 {
		rank := progression.RankFromStars(in.TotalStars, in.Ladder)
		if rank.PromotionMatch && in.PreviousMinutes < in.PromotionGateMinutes {
			applied = 0
			suppressed = true
		}
	}

	return SettlementResult{
		SettledDate:    in.PreviousDate,
		RawDelta:       raw,
		AppliedDelta:   applied,
		GateSuppressed: suppressed,
		TotalStars:     progression.ApplyNetStars(in.TotalStars, applied),
	}
}
