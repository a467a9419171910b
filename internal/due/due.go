// Package due holds calendar-date helpers for todo due dates.
//
// Due dates are stored as plain YYYY-MM-DD strings with no time of day and
// no zone offset. All comparisons here happen on (year, month, day) triples
// so that a todo due today never flips to overdue because of the clock's
// hour or the machine's timezone.
package due

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the storage and input format for due dates.
const Layout = "2006-01-02"

// LongLayout renders a due date for display, e.g. "December 25, 2025".
const LongLayout = "January 2, 2006"

// Date is a calendar day without time-of-day or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Parse reads a YYYY-MM-DD string into a Date.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parsing due date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// Today returns the calendar day of now in now's own location.
func Today(now time.Time) Date {
	y, m, d := now.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Before reports whether d falls on an earlier calendar day than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// Equal reports whether d and o are the same calendar day.
func (d Date) Equal(o Date) bool {
	return d == o
}

// Time returns midnight of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// String formats d as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time(time.UTC).Format(Layout)
}

// IsOverdue reports whether a todo with the given due date and completion
// flag is overdue right now.
func IsOverdue(dueDate string, completed bool) bool {
	return IsOverdueAt(dueDate, completed, time.Now())
}

// IsOverdueAt reports whether a todo is overdue relative to now.
//
// A todo is overdue when it has a due date, is not completed, and the due
// day is strictly before today. A due date equal to today is not overdue.
// Unparseable dates are never overdue.
func IsOverdueAt(dueDate string, completed bool, now time.Time) bool {
	if strings.TrimSpace(dueDate) == "" || completed {
		return false
	}

	d, err := Parse(dueDate)
	if err != nil {
		return false
	}
	return d.Before(Today(now))
}

// FormatLong renders a YYYY-MM-DD due date in long form. It returns an
// empty string when dueDate is empty or malformed.
func FormatLong(dueDate string) string {
	if strings.TrimSpace(dueDate) == "" {
		return ""
	}
	d, err := Parse(dueDate)
	if err != nil {
		return ""
	}
	return d.Time(time.UTC).Format(LongLayout)
}
