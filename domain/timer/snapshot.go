package timer

import "time"

// Snapshot is the persisted recovery image of a session. It is written
// on every mutation so a crash or reload can reconstruct the clock from
// wall time instead of trusting a tick counter that stopped with the
// process.
type Snapshot struct {
	Mode          Mode      `json:"mode"`
	Remaining     int       `json:"remaining"`
	TargetSeconds int       `json:"target_seconds"`
	Running       bool      `json:"running"`
	Paused        bool      `json:"paused"`
	PersistedAt   time.Time `json:"persisted_at"`
}

// Snapshot captures the session at the given instant.
func (s *Session) Snapshot(now time.Time) Snapshot {
	return Snapshot{
		Mode:          s.Mode,
		Remaining:     s.valueAt(now),
		TargetSeconds: s.TargetSeconds,
		Running:       s.Status == StatusRunning,
		Paused:        s.Status == StatusPaused,
		PersistedAt:   now,
	}
}

// staleThresholdSeconds: a recovered countdown at or below this value is
// treated as already expired. Resuming it would immediately fire a
// completion the user never saw happen.
const staleThresholdSeconds = 1

// RecoveryOutcome says how a persisted snapshot resolved on startup.
type RecoveryOutcome int

const (
	// RecoveredIdle: the snapshot was not running; clock state restored
	// without starting.
	RecoveredIdle RecoveryOutcome = iota
	// RecoveredRunning: wall-clock delta applied, session live again.
	RecoveredRunning
	// RecoveredStale: the countdown expired while the process was gone.
	// The session is surfaced as Completed, never silently kept running.
	RecoveredStale
)

// Recover rebuilds a session from a snapshot, reconciling elapsed wall
// time. For countdown modes the persisted remaining value is reduced by
// the real time that passed; at or below the stale threshold the
// session is already over. Count-up (overtime) has no ceiling: the
// delta is added unconditionally and the session resumes.
func Recover(snap Snapshot, now time.Time) (*Session, RecoveryOutcome) {
	s := &Session{
		Mode:              snap.Mode,
		TargetSeconds:     snap.TargetSeconds,
		remainingAtAnchor: snap.Remaining,
	}
	if !s.Mode.Valid() {
		s.Mode = ModeFocus
	}

	if !snap.Running {
		if snap.Paused {
			s.Status = StatusPaused
		} else {
			s.Status = StatusIdle
		}
		return s, RecoveredIdle
	}

	delta := int(now.Sub(snap.PersistedAt) / time.Second)
	if delta < 0 {
		delta = 0
	}

	if s.Mode.CountsUp() {
		s.remainingAtAnchor = snap.Remaining + delta
		s.Status = StatusRunning
		s.anchor = now
		return s, RecoveredRunning
	}

	recovered := snap.Remaining - delta
	if recovered <= staleThresholdSeconds {
		s.remainingAtAnchor = 0
		s.Status = StatusCompleted
		return s, RecoveredStale
	}

	s.remainingAtAnchor = recovered
	s.Status = StatusRunning
	s.anchor = now
	return s, RecoveredRunning
}
