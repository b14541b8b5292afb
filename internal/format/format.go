// Package format derives the display strings for task due dates.
package format

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Remaining-time text is only shown for due dates inside this window.
const window = 7 * 24 * time.Hour

const absoluteLayout = "2-Jan-2006 15:04"

// DueDate renders day and abbreviated month, e.g. "14-Mar".
func DueDate(t time.Time) string {
	return t.Format("2-Jan")
}

// WithinWindow reports whether due falls within 7 days of now. Due dates
// farther out show only the absolute date.
func WithinWindow(due, now time.Time) bool {
	return due.Sub(now) <= window
}

// TimeRemaining renders the time left until due, coarsest unit first:
// whole days, then whole hours, then whole minutes. Once due is under a
// minute away or already past, it falls back to the absolute date-time.
func TimeRemaining(due, now time.Time) string {
	left := due.Sub(now)
	switch {
	case left >= 24*time.Hour:
		return plural(int(left/(24*time.Hour)), "day")
	case left >= time.Hour:
		return plural(int(left/time.Hour), "hour")
	case left >= time.Minute:
		return plural(int(left/time.Minute), "minute")
	default:
		return due.Format(absoluteLayout)
	}
}

// Subtitle composes the task's second display line: description first,
// then the formatted due date with remaining-time text when the due date
// is close enough. Empty when the task has neither.
func Subtitle(description string, due sql.NullTime, now time.Time) string {
	var parts []string
	if description != "" {
		parts = append(parts, description)
	}
	if due.Valid {
		text := DueDate(due.Time)
		if WithinWindow(due.Time, now) {
			text += " · " + TimeRemaining(due.Time, now)
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " · ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s remaining", unit)
	}
	return fmt.Sprintf("%d %ss remaining", n, unit)
}
