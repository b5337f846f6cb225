package model

import (
	"fmt"
	"time"
)

// Timestamp layouts. Records are stored in local time at second precision;
// users type day-first timestamps; the schedule uses bare clock times.
const (
	TimeLayout  = "2006-01-02 15:04:05"
	InputLayout = "02.01.2006 15:04"
	ClockLayout = "15:04"
)

// FormatTime renders t in the storage layout.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseTime parses a storage-layout timestamp in local time.
func ParseTime(s string) (time.Time, error) {
	return time.ParseInLocation(TimeLayout, s, time.Local)
}

// ParseInput parses a user-typed "DD.MM.YYYY HH:MM" timestamp.
func ParseInput(s string) (time.Time, error) {
	return time.ParseInLocation(InputLayout, s, time.Local)
}

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// MinuteOfDay returns t's minutes since local midnight.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// FormatDuration renders a minute count as "Xh Ym".
func FormatDuration(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
