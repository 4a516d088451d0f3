package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Date is a calendar-day identifier in YYYY-MM-DD form.
// All day-keyed state (ledger entries, settlement markers) hangs off it.
type Date string

const dateLayout = "2006-01-02"

// DateOf returns the calendar day the given instant falls on, in the
// instant's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// String returns the string representation
func (d Date) String() string {
	return string(d)
}

// IsZero checks if the date is empty
func (d Date) IsZero() bool {
	return d == ""
}

// AddDays returns the date shifted by the given number of calendar days.
func (d Date) AddDays(days int) Date {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return d
	}
	return Date(t.AddDate(0, 0, days).Format(dateLayout))
}

// Prev returns the previous calendar day.
func (d Date) Prev() Date {
	return d.AddDays(-1)
}

// ParseDate validates and parses a YYYY-MM-DD string into a Date
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("date cannot be empty")
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return Date(s), nil
}
