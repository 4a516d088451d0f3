package models

import (
	"time"

	"levelup/domain/core"
)

// Settings is the mutable user-tunable document. Anything not set here
// falls back to the environment-derived config defaults.
type Settings struct {
	FocusMinutes  int     `json:"focus_minutes"`
	BreakMinutes  int     `json:"break_minutes"`
	TargetHours   float64 `json:"target_hours"`
	AIModel       string  `json:"ai_model,omitempty"`
	AIPersona     string  `json:"ai_persona,omitempty"`
	AIBackground  string  `json:"ai_background,omitempty"`
	SoundEnabled  bool    `json:"sound_enabled"`
	NotifyEnabled bool    `json:"notify_enabled"`
}

// SubjectProgress is one subject's entry on the learning progress
// board: free-form notes with timestamped check-in lines appended by
// committed sessions.
type SubjectProgress struct {
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatEntry is one persisted message of the coach transcript.
type ChatEntry struct {
	ID        core.ID   `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	HTML      string    `json:"html,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
