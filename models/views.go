package models

import "levelup/domain/core"

// TimerState is the session as the API reports it.
type TimerState struct {
	Mode                 string `json:"mode"`
	Status               string `json:"status"`
	Remaining            int    `json:"remaining"`
	Elapsed              int    `json:"elapsed"`
	TargetSeconds        int    `json:"target_seconds"`
	Display              string `json:"display"`
	PendingSeconds       int    `json:"pending_seconds"`
	PendingMode          string `json:"pending_mode,omitempty"`
	RewardBalanceMinutes int    `json:"reward_balance_minutes"`
}

// CommitResult is what one committed session changed.
type CommitResult struct {
	Date            core.Date `json:"date"`
	Minutes         int       `json:"minutes"`
	StudyMinutes    int       `json:"study_minutes"`
	RewardBalance   int       `json:"reward_balance_minutes"`
	TotalStudyHours float64   `json:"total_study_hours"`
	Subject         string    `json:"subject,omitempty"`
	SubjectName     string    `json:"subject_name,omitempty"`
	PowerGain       int       `json:"power_gain,omitempty"`
	PeakGain        int       `json:"peak_gain,omitempty"`
}

// RankView is the star counter rendered onto the ladder.
type RankView struct {
	TierName       string `json:"tier_name"`
	SubTierLabel   string `json:"sub_tier_label"`
	Stars          int    `json:"stars"`
	StarsPerSub    int    `json:"stars_per_sub"`
	TotalStars     int    `json:"total_stars"`
	PromotionMatch bool   `json:"promotion_match"`
	Display        string `json:"display"`
}

// LevelView is the experience curve rendered for display.
type LevelView struct {
	Level            int     `json:"level"`
	Title            string  `json:"title"`
	TotalXP          int     `json:"total_xp"`
	XPIntoLevel      int     `json:"xp_into_level"`
	XPForNextLevel   int     `json:"xp_for_next_level"`
	ProgressFraction float64 `json:"progress_fraction"`
}

// HeroView is one subject's accumulated hero power.
type HeroView struct {
	Subject    string  `json:"subject"`
	Name       string  `json:"name"`
	LaneFactor float64 `json:"lane_factor"`
	Power      int     `json:"power"`
	Badge      string  `json:"badge"`
}

// ProgressionView bundles everything the progression panel shows.
type ProgressionView struct {
	Level        LevelView  `json:"level"`
	Rank         RankView   `json:"rank"`
	Heroes       []HeroView `json:"heroes"`
	PeakScore    int        `json:"peak_score"`
	PeakBonus    float64    `json:"peak_bonus"`
	TotalMinutes int        `json:"total_minutes"`
	TotalHours   float64    `json:"total_hours"`
	TodayMinutes int        `json:"today_minutes"`
}

// SettlementView reports what a daily rollover did.
type SettlementView struct {
	SettledDate    core.Date `json:"settled_date"`
	RawDelta       int       `json:"raw_delta"`
	AppliedDelta   int       `json:"applied_delta"`
	GateSuppressed bool      `json:"gate_suppressed"`
	TotalStars     int       `json:"total_stars"`
	AlreadySettled bool      `json:"already_settled"`
}

// InsightView is the statistical read over recent history.
type InsightView struct {
	Days           int     `json:"days"`
	TotalMinutes   int     `json:"total_minutes"`
	MeanMinutes    float64 `json:"mean_minutes"`
	MedianMinutes  float64 `json:"median_minutes"`
	StdDevMinutes  float64 `json:"std_dev_minutes"`
	BestDayMinutes int     `json:"best_day_minutes"`
	TrendSlope     float64 `json:"trend_slope"`
	TrendLabel     string  `json:"trend_label"`
	StreakDays     int     `json:"streak_days"`
	TargetHours    float64 `json:"target_hours,omitempty"`
	DaysOnTarget   int     `json:"days_on_target,omitempty"`
	StageName      string  `json:"stage_name"`
	StageAdvice    string  `json:"stage_advice"`
}
