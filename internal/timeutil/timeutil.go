// Package timeutil provides utility functions and types for working with
// time-related operations.
package timeutil

import (
	"fmt"
	"math"
	"time"
)

const minutesInAnHour = 60

// DateLayout is the persisted calendar-date form of LastSessionDate.
const DateLayout = "2006-01-02"

// Round rounds a time value in seconds, minutes, or hours to the nearest integer.
func Round(t float64) int {
	return int(math.Round(t))
}

// MinsToHoursAndMins expresses a minutes value in hours and mins.
func MinsToHoursAndMins(val int) (hrs, mins int) {
	hrs = int(math.Floor(float64(val) / float64(minutesInAnHour)))
	mins = val % minutesInAnHour

	return
}

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		0,
		0,
		0,
		0,
		t.Location(),
	)
}

// RoundToEnd resets the given time to the end of the day.
func RoundToEnd(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		23,
		59,
		59,
		0,
		t.Location(),
	)
}

// DateKey formats a time as a local calendar date string.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// WeekKey identifies the ISO week a time falls in.
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()

	return fmt.Sprintf("%d-W%02d", year, week)
}

// DiffDays returns the number of calendar days between two DateKey
// strings, clamped to zero when `to` is not after `from` so that a
// backwards clock or timezone skew never counts as forward progress.
// Unparseable input counts as a gap large enough to break a streak.
func DiffDays(from, to string) int {
	f, err := time.Parse(DateLayout, from)
	if err != nil {
		return 2
	}

	t, err := time.Parse(DateLayout, to)
	if err != nil {
		return 2
	}

	days := int(t.Sub(f).Hours() / 24)
	if days < 0 {
		return 0
	}

	return days
}
