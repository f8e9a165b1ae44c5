// Package timewindow computes concrete dose instants from schedule times
// of day and evaluates notification windows around them.
package timewindow

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimeOfDay validates an "HH:mm" string and returns its components.
func ParseTimeOfDay(timeOfDay string) (hour, minute int, err error) {
	parts := strings.Split(timeOfDay, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time format %q, expected HH:mm", timeOfDay)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time format %q, expected HH:mm", timeOfDay)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time format %q, expected HH:mm", timeOfDay)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q out of range", timeOfDay)
	}
	return hour, minute, nil
}

// At returns the absolute instant at which timeOfDay falls on ref's calendar
// day in the given IANA timezone. The calendar day is taken from ref as seen
// in that timezone, so a sweep running just before midnight UTC still resolves
// against the user's local date.
func At(timeOfDay, timezone string, ref time.Time) (time.Time, error) {
	hour, minute, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	local := ref.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc), nil
}

// AtLocal is At using the process-local timezone. The client-style poller uses
// this, mirroring browser behavior where schedule times are resolved against
// the device clock rather than the schedule's stored timezone.
func AtLocal(timeOfDay string, ref time.Time) (time.Time, error) {
	hour, minute, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	local := ref.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, local.Location()), nil
}

// Within reports whether now falls in the closed interval
// [instant-before, instant+after].
func Within(instant, now time.Time, before, after time.Duration) bool {
	return !now.Before(instant.Add(-before)) && !now.After(instant.Add(after))
}

// DayBounds returns the start (inclusive) and end (exclusive) of ref's
// calendar day in loc.
func DayBounds(ref time.Time, loc *time.Location) (time.Time, time.Time) {
	local := ref.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// SameDate reports whether a and b fall on the same calendar day in loc.
func SameDate(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
