// Package utils holds small helpers shared across sentitrack packages:
// calendar-day handling and artifact naming.
package utils

import (
	"fmt"
	"time"
)

// DayLayout is the calendar-day format used for every date key.
const DayLayout = "2006-01-02"

// FormatDay formats t as a calendar day in t's own location.
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay parses a "2006-01-02" string in UTC.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayLayout, s)
}

// DayFromTimestamp returns the calendar day of an ISO-8601 timestamp by
// taking its first 10 characters, e.g. "2024-01-01T13:45:00Z" → "2024-01-01".
// The prefix must itself be a valid calendar day.
func DayFromTimestamp(ts string) (string, error) {
	if len(ts) < len(DayLayout) {
		return "", fmt.Errorf("timestamp %q shorter than a calendar day", ts)
	}
	day := ts[:len(DayLayout)]
	if _, err := ParseDay(day); err != nil {
		return "", fmt.Errorf("timestamp %q: %w", ts, err)
	}
	return day, nil
}

// DayWindow is a single-day search window with calendar-day bounds.
type DayWindow struct {
	From time.Time
	To   time.Time
}

// FromDay returns the lower bound as a calendar-day string.
func (w DayWindow) FromDay() string { return FormatDay(w.From) }

// ToDay returns the upper bound as a calendar-day string.
func (w DayWindow) ToDay() string { return FormatDay(w.To) }

// DayWindows returns the days single-day windows ending at now and walking
// backward: window i spans [now-(i+1)d, now-i d]. Newest window first.
func DayWindows(now time.Time, days int) []DayWindow {
	if days <= 0 {
		return nil
	}
	windows := make([]DayWindow, 0, days)
	for i := 0; i < days; i++ {
		to := now.AddDate(0, 0, -i)
		windows = append(windows, DayWindow{From: to.AddDate(0, 0, -1), To: to})
	}
	return windows
}

// Lookback returns the [now-days, now] range used for price queries.
func Lookback(now time.Time, days int) (from, to time.Time) {
	return now.AddDate(0, 0, -days), now
}
