// Package ledger aggregates completed sessions into per-day records.
// A day's record is the durable unit of study history: logs are
// append-only within the day, study minutes only grow, and the reward
// balance is floored at zero and never carries across days.
package ledger

import (
	"time"

	"levelup/domain/core"
)

// LogEntry is one committed study log. The log entry is the unit of
// record: elapsed time without a log is never written to a day.
type LogEntry struct {
	ID              core.ID `json:"id"`
	Time            string  `json:"time"`
	Content         string  `json:"content"`
	DurationMinutes int     `json:"duration_minutes"`
}

// DayRecord is the ledger entry for a single calendar day.
type DayRecord struct {
	Date                 core.Date  `json:"date"`
	StudyMinutes         int        `json:"study_minutes"`
	RewardBalanceMinutes int        `json:"reward_balance_minutes"`
	RewardUsedMinutes    int        `json:"reward_used_minutes"`
	Logs                 []LogEntry `json:"logs"`
}

// NewDayRecord returns an empty record for a day.
func NewDayRecord(date core.Date) *DayRecord {
	return &DayRecord{Date: date, Logs: []LogEntry{}}
}

// Commit folds a completed session into the day: appends the log entry,
// bumps study minutes and earns reward balance at the given conversion
// ratio (divisor study-minutes per reward-minute). Returns the whole
// minutes credited.
func (d *DayRecord) Commit(seconds int, content string, at time.Time, rewardDivisor int) int {
	if seconds < 0 {
		seconds = 0
	}
	if rewardDivisor <= 0 {
		rewardDivisor = 10
	}
	minutes := seconds / 60

	d.StudyMinutes += minutes
	d.RewardBalanceMinutes += minutes / rewardDivisor
	d.Logs = append(d.Logs, LogEntry{
		ID:              core.NewID(),
		Time:            core.FormatWallTime(at),
		Content:         content,
		DurationMinutes: minutes,
	})
	return minutes
}

// SpendReward deducts consumed reward time. The balance floors at zero:
// time genuinely spent past the balance is still recorded as used.
func (d *DayRecord) SpendReward(seconds int) int {
	if seconds < 0 {
		seconds = 0
	}
	minutes := seconds / 60
	d.RewardUsedMinutes += minutes
	d.RewardBalanceMinutes -= minutes
	if d.RewardBalanceMinutes < 0 {
		d.RewardBalanceMinutes = 0
	}
	return minutes
}

// History is the per-day ledger collection, most recent day first,
// unique by date.
type History []*DayRecord

// Find returns the record for a date, if present.
func (h History) Find(date core.Date) *DayRecord {
	for _, d := range h {
		if d.Date == date {
			return d
		}
	}
	return nil
}

// Upsert replaces any existing record with the same date and keeps the
// collection sorted most recent first. Saving today twice yields one
// entry with the later values.
func (h History) Upsert(rec *DayRecord) History {
	out := make(History, 0, len(h)+1)
	inserted := false
	for _, d := range h {
		if d.Date == rec.Date {
			continue
		}
		if !inserted && d.Date < rec.Date {
			out = append(out, rec)
			inserted = true
		}
		out = append(out, d)
	}
	if !inserted {
		out = append(out, rec)
	}
	return out
}

// TotalStudyMinutes sums study minutes across all days.
func (h History) TotalStudyMinutes() int {
	total := 0
	for _, d := range h {
		total += d.StudyMinutes
	}
	return total
}
