// Package timeutil holds the wall-clock and interval arithmetic used by the
// booking rules. All comparisons happen on minutes since midnight.
package timeutil

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	DateFormat  = "2006-01-02"
	ClockFormat = "15:04"
)

var (
	ErrInvalidFormat = errors.New("invalid time format, expected HH:MM")
	ErrInvalidDate   = errors.New("invalid date format, expected YYYY-MM-DD or RFC3339")
)

var clockPattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

// Clock is a same-day wall-clock time.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock accepts "H:MM" or "HH:MM" in 24-hour notation.
func ParseClock(s string) (Clock, error) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	return Clock{Hour: hour, Minute: minute}, nil
}

// MustParseClock is ParseClock for constants; it panics on bad input.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Minutes returns the minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// String renders the zero-padded HH:MM form.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ClockFromMinutes is the inverse of Clock.Minutes for values within one day.
func ClockFromMinutes(m int) Clock {
	return Clock{Hour: m / 60, Minute: m % 60}
}

// DurationHours is (end - start) in hours. Callers must ensure end > start.
func DurationHours(start, end Clock) float64 {
	return float64(end.Minutes()-start.Minutes()) / 60
}

// IntervalsOverlap reports whether [aStart, aEnd) and [bStart, bEnd) share a point.
// Touching boundaries do not overlap.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// IsInRange is an inclusive containment test.
func IsInRange(t, lo, hi Clock) bool {
	m := t.Minutes()
	return m >= lo.Minutes() && m <= hi.Minutes()
}

// DateOnly truncates t to midnight in loc.
func DateOnly(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// ParseDate accepts a calendar date or an RFC3339 timestamp and returns the
// calendar date at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	if d, err := time.ParseInLocation(DateFormat, s, loc); err == nil {
		return d, nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOnly(ts, loc), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// SameDate reports whether a and b fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
