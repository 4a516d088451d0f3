package core

import (
	"fmt"
	"time"
)

// FormatClock renders a second count as MM:SS. Negative inputs clamp to
// 00:00 so a countdown can never render below zero. Minutes are not
// wrapped at 60: a 90-minute countdown reads 90:00.
func FormatClock(seconds int) string {
	if seconds < 0 {
		return "00:00"
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatWallTime renders an instant as the HH:MM string stamped onto
// ledger log entries.
func FormatWallTime(t time.Time) string {
	return t.Format("15:04")
}
