package timer

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

func TestSessionLifecycle(t *testing.T) {
	s := NewIdle(ModeFocus, 45*60)

	if err := s.Start(t0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.Status != StatusRunning {
		t.Fatalf("Status = %v, want running", s.Status)
	}

	// 10 minutes pass.
	now := t0.Add(10 * time.Minute)
	if got := s.Remaining(now); got != 35*60 {
		t.Errorf("Remaining = %d, want %d", got, 35*60)
	}
	if got := s.Elapsed(now); got != 10*60 {
		t.Errorf("Elapsed = %d, want %d", got, 10*60)
	}

	if err := s.Pause(now); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	// Time passing while paused changes nothing.
	if got := s.Remaining(now.Add(time.Hour)); got != 35*60 {
		t.Errorf("Remaining while paused = %d, want %d", got, 35*60)
	}

	resumeAt := now.Add(5 * time.Minute)
	if err := s.Resume(resumeAt); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if got := s.Remaining(resumeAt.Add(time.Minute)); got != 34*60 {
		t.Errorf("Remaining after resume = %d, want %d", got, 34*60)
	}
}

func TestSessionStartErrors(t *testing.T) {
	s := NewIdle(ModeFocus, 0)
	if err := s.Start(t0); err == nil {
		t.Error("Start with zero duration should fail")
	}

	s = NewIdle(ModeFocus, 60)
	if err := s.Start(t0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Start(t0); err == nil {
		t.Error("double Start should fail")
	}
}

func TestSessionTickCompletes(t *testing.T) {
	s := NewIdle(ModeBreak, 10)
	if err := s.Start(t0); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if s.Tick(t0.Add(9 * time.Second)) {
		t.Error("Tick before expiry should not complete")
	}
	if !s.Tick(t0.Add(10 * time.Second)) {
		t.Error("Tick at expiry should complete")
	}
	if s.Status != StatusCompleted {
		t.Errorf("Status = %v, want completed", s.Status)
	}
	// A completed session never completes twice.
	if s.Tick(t0.Add(time.Minute)) {
		t.Error("Tick after completion should be a no-op")
	}
}

func TestOvertimeCountsUp(t *testing.T) {
	s := NewIdle(ModeOvertime, 0)
	if err := s.Start(t0); err != nil {
		t.Fatalf("Start: %v", err)
	}

	now := t0.Add(25 * time.Minute)
	if got := s.Elapsed(now); got != 25*60 {
		t.Errorf("Elapsed = %d, want %d", got, 25*60)
	}
	// Overtime never completes by ticking.
	if s.Tick(t0.Add(10 * time.Hour)) {
		t.Error("overtime Tick should never complete")
	}

	elapsed, err := s.Stop(now)
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if elapsed != 25*60 {
		t.Errorf("Stop elapsed = %d, want %d", elapsed, 25*60)
	}
	if s.Status != StatusIdle {
		t.Errorf("Status = %v, want idle", s.Status)
	}
}

func TestStopWithoutSession(t *testing.T) {
	s := NewIdle(ModeFocus, 60)
	if _, err := s.Stop(t0); err == nil {
		t.Error("Stop on an idle session should fail")
	}
}
