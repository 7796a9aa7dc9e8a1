// Package dates holds calendar helpers for date-only values. A date is a
// time.Time at midnight UTC.
package dates

import (
	"time"
)

const Layout = "2006-01-02"

// Date builds a date-only value.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Of drops the clock part of t, keeping the calendar day as seen in t's location.
func Of(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// Parse reads a YYYY-MM-DD string.
func Parse(s string) (time.Time, error) {
	return time.ParseInLocation(Layout, s, time.UTC)
}

// ParseOptional returns nil for an empty string.
func ParseOptional(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths moves d forward (or back) by n calendar months. When the target
// month is shorter than d's day, the day is clamped to the month's last day,
// so Jan 31 + 1 month is Feb 28 (or Feb 29 in a leap year).
func AddMonths(d time.Time, n int) time.Time {
	year, month, day := d.Date()
	total := int(month) - 1 + n
	year += floorDiv(total, 12)
	month = time.Month(total - floorDiv(total, 12)*12 + 1)
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), d.Location())
}

// DaysBetween counts whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Of(b).Sub(Of(a)).Hours() / 24)
}

// Within reports whether d falls in [from, to]; a nil bound is open.
func Within(d time.Time, from, to *time.Time) bool {
	d = Of(d)
	if from != nil && d.Before(Of(*from)) {
		return false
	}
	if to != nil && d.After(Of(*to)) {
		return false
	}
	return true
}

// Min returns the earlier of a and b.
func Min(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
