package ledger

import (
	"testing"
	"time"

	"levelup/domain/core"
)

var noon = time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC)

func TestDayRecordCommit(t *testing.T) {
	rec := NewDayRecord("2026-09-01")

	minutes := rec.Commit(45*60, "复习了数据结构链表", noon, 10)
	if minutes != 45 {
		t.Fatalf("Commit minutes = %d, want 45", minutes)
	}
	if rec.StudyMinutes != 45 {
		t.Errorf("StudyMinutes = %d, want 45", rec.StudyMinutes)
	}
	if rec.RewardBalanceMinutes != 4 {
		t.Errorf("RewardBalanceMinutes = %d, want 4", rec.RewardBalanceMinutes)
	}
	if len(rec.Logs) != 1 {
		t.Fatalf("len(Logs) = %d, want 1", len(rec.Logs))
	}
	if rec.Logs[0].Content != "复习了数据结构链表" {
		t.Errorf("log content = %q", rec.Logs[0].Content)
	}
	if rec.Logs[0].Time != "12:30" {
		t.Errorf("log time = %q, want 12:30", rec.Logs[0].Time)
	}
	if rec.Logs[0].ID.IsEmpty() {
		t.Error("log entry must carry an ID")
	}
}

func TestDayRecordCommit_PartialSecondsFloor(t *testing.T) {
	rec := NewDayRecord("2026-09-01")
	if got := rec.Commit(119, "单词", noon, 10); got != 1 {
		t.Errorf("Commit(119s) = %d minutes, want 1", got)
	}
	if got := rec.Commit(59, "单词", noon, 10); got != 0 {
		t.Errorf("Commit(59s) = %d minutes, want 0", got)
	}
}

func TestSpendRewardFloorsAtZero(t *testing.T) {
	rec := NewDayRecord("2026-09-01")
	rec.Commit(100*60, "数学", noon, 10) // earns 10 reward minutes

	if got := rec.SpendReward(6 * 60); got != 6 {
		t.Fatalf("SpendReward = %d, want 6", got)
	}
	if rec.RewardBalanceMinutes != 4 {
		t.Errorf("RewardBalanceMinutes = %d, want 4", rec.RewardBalanceMinutes)
	}

	// Spending past the balance floors it, but usage is still recorded.
	rec.SpendReward(10 * 60)
	if rec.RewardBalanceMinutes != 0 {
		t.Errorf("RewardBalanceMinutes = %d, want 0", rec.RewardBalanceMinutes)
	}
	if rec.RewardUsedMinutes != 16 {
		t.Errorf("RewardUsedMinutes = %d, want 16", rec.RewardUsedMinutes)
	}
}

func TestHistoryUpsertKeepsDatesUnique(t *testing.T) {
	h := History{}
	h = h.Upsert(&DayRecord{Date: "2026-08-30", StudyMinutes: 100})
	h = h.Upsert(&DayRecord{Date: "2026-09-01", StudyMinutes: 200})
	h = h.Upsert(&DayRecord{Date: "2026-08-31", StudyMinutes: 150})

	if len(h) != 3 {
		t.Fatalf("len = %d, want 3", len(h))
	}
	// Most recent first.
	if h[0].Date != "2026-09-01" || h[2].Date != "2026-08-30" {
		t.Errorf("order = %s, %s, %s", h[0].Date, h[1].Date, h[2].Date)
	}

	// Saving the same day again replaces, never duplicates.
	h = h.Upsert(&DayRecord{Date: "2026-09-01", StudyMinutes: 260})
	if len(h) != 3 {
		t.Fatalf("len after re-upsert = %d, want 3", len(h))
	}
	if h[0].StudyMinutes != 260 {
		t.Errorf("StudyMinutes = %d, want 260", h[0].StudyMinutes)
	}
}

func TestHistoryTotals(t *testing.T) {
	h := History{
		{Date: core.Date("2026-09-01"), StudyMinutes: 120},
		{Date: core.Date("2026-08-31"), StudyMinutes: 300},
	}
	if got := h.TotalStudyMinutes(); got != 420 {
		t.Errorf("TotalStudyMinutes = %d, want 420", got)
	}
	if h.Find("2026-08-31") == nil {
		t.Error("Find should locate an existing day")
	}
	if h.Find("2026-08-30") != nil {
		t.Error("Find should return nil for a missing day")
	}
}
