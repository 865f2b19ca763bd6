// internal/models/schedule.go
package models

import (
	"fmt"
	"time"
)

// WeekOrder lists weekdays in the order schedules are evaluated and rendered.
var WeekOrder = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// DayWindow is a single day's time window, expressed in minutes since
// midnight. When Enabled is true, Start < End must hold (no overnight
// wraparound); that invariant is the caller's to uphold.
type DayWindow struct {
	Enabled bool `json:"enabled"`
	Start   int  `json:"start"`
	End     int  `json:"end"`
}

// Minutes returns the window length, or 0 when the window is disabled.
func (w DayWindow) Minutes() int {
	if !w.Enabled || w.End <= w.Start {
		return 0
	}
	return w.End - w.Start
}

// WeeklySchedule maps weekdays to their time windows. A missing key means
// the day is unspecified, which callers treat the same as a disabled window.
type WeeklySchedule map[time.Weekday]DayWindow

// Day returns the window for d and whether it is present and enabled.
func (s WeeklySchedule) Day(d time.Weekday) (DayWindow, bool) {
	w, ok := s[d]
	return w, ok && w.Enabled
}

// ParseClock converts a "HH:MM" clock string to minutes since midnight.
func ParseClock(v string) (int, error) {
	var hh, mm int
	if _, err := fmt.Sscanf(v, "%d:%d", &hh, &mm); err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", v, err)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("clock value %q out of range", v)
	}
	return hh*60 + mm, nil
}

// MustClock is ParseClock for fixtures and config defaults.
func MustClock(v string) int {
	m, err := ParseClock(v)
	if err != nil {
		panic(err)
	}
	return m
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
