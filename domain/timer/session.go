// Package timer holds the session state machine. A session is a pure
// function of its start value and the wall clock: the periodic tick is
// only a hint to re-check elapsed time, never the source of truth for
// how much time passed. That is what lets a session survive process
// suspension and restart without drifting.
package timer

import (
	"time"

	"levelup/internal/errors"
)

// Mode is the kind of session being timed.
type Mode string

const (
	ModeFocus    Mode = "focus"
	ModeBreak    Mode = "break"
	ModeReward   Mode = "reward"
	ModeOvertime Mode = "overtime"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeFocus, ModeBreak, ModeReward, ModeOvertime:
		return true
	}
	return false
}

// CountsUp reports whether the mode's clock runs upward without bound.
func (m Mode) CountsUp() bool {
	return m == ModeOvertime
}

// Status is the lifecycle state of the session.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// Session is the single active timing session. At most one exists at a
// time; switching modes tears down the previous session's clock state
// (accumulated minutes must already be committed to the ledger).
type Session struct {
	Mode   Mode
	Status Status

	// TargetSeconds is the duration selected for this session.
	// Irrelevant for overtime, which counts up without a target.
	TargetSeconds int

	// remainingAtAnchor is the countdown value (or elapsed value for
	// overtime) when the clock anchor was last set.
	remainingAtAnchor int

	// anchor is the wall-clock instant the session last transitioned
	// to Running. Recovery math measures from here, never from a tick
	// accumulator.
	anchor time.Time
}

// NewIdle returns an idle session primed with a mode and target.
func NewIdle(mode Mode, targetSeconds int) *Session {
	return &Session{
		Mode:              mode,
		Status:            StatusIdle,
		TargetSeconds:     targetSeconds,
		remainingAtAnchor: targetSeconds,
	}
}

// Start begins ticking from Idle or Paused. A reward session must
// already have had its duration capped by the caller; Start only
// enforces the non-positive duration boundary.
func (s *Session) Start(now time.Time) error {
	if s.Status == StatusRunning {
		return errors.InvalidInput("session already running")
	}
	if s.Status == StatusCompleted {
		return errors.InvalidInput("session already completed")
	}
	if !s.Mode.CountsUp() && s.remainingAtAnchor <= 0 {
		return errors.InvalidDuration("session duration must be positive")
	}
	s.Status = StatusRunning
	s.anchor = now
	return nil
}

// Pause freezes the clock, folding elapsed wall time into the stored
// remaining value so nothing is lost.
func (s *Session) Pause(now time.Time) error {
	if s.Status != StatusRunning {
		return errors.InvalidInput("session is not running")
	}
	s.remainingAtAnchor = s.valueAt(now)
	s.Status = StatusPaused
	return nil
}

// Resume restarts a paused session. The anchor resets to now so future
// recovery math measures only time since this resume.
func (s *Session) Resume(now time.Time) error {
	if s.Status != StatusPaused {
		return errors.InvalidInput("session is not paused")
	}
	s.Status = StatusRunning
	s.anchor = now
	return nil
}

// valueAt derives the current countdown/count-up value from the wall
// clock.
func (s *Session) valueAt(now time.Time) int {
	if s.Status != StatusRunning {
		return s.remainingAtAnchor
	}
	delta := int(now.Sub(s.anchor) / time.Second)
	if delta < 0 {
		delta = 0
	}
	if s.Mode.CountsUp() {
		return s.remainingAtAnchor + delta
	}
	v := s.remainingAtAnchor - delta
	if v < 0 {
		v = 0
	}
	return v
}

// Remaining is the seconds left on a countdown, or the seconds elapsed
// for overtime.
func (s *Session) Remaining(now time.Time) int {
	return s.valueAt(now)
}

// Elapsed is how much session time has been spent so far.
func (s *Session) Elapsed(now time.Time) int {
	if s.Mode.CountsUp() {
		return s.valueAt(now)
	}
	e := s.TargetSeconds - s.valueAt(now)
	if e < 0 {
		e = 0
	}
	return e
}

// Tick re-derives the clock and reports whether a countdown just hit
// zero. Overtime never completes by ticking; it ends only when stopped.
func (s *Session) Tick(now time.Time) (completed bool) {
	if s.Status != StatusRunning || s.Mode.CountsUp() {
		return false
	}
	if s.valueAt(now) > 0 {
		return false
	}
	s.remainingAtAnchor = 0
	s.Status = StatusCompleted
	return true
}

// Stop aborts the session from Running or Paused and returns the
// elapsed seconds at the moment of the stop. What the elapsed time is
// worth (nothing for focus/break, a balance deduction for reward, a
// ledger credit for overtime) is the caller's policy, not the
// machine's.
func (s *Session) Stop(now time.Time) (elapsedSeconds int, err error) {
	if s.Status != StatusRunning && s.Status != StatusPaused {
		return 0, errors.InvalidInput("no session in progress")
	}
	elapsed := s.Elapsed(now)
	s.remainingAtAnchor = 0
	s.Status = StatusIdle
	return elapsed, nil
}
