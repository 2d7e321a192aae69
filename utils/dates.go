// utils/dates.go
package utils

import (
	"errors"
	"strings"
	"time"
)

// WallClockLayout is how appointment and time-off instants travel on the wire.
const WallClockLayout = "2006-01-02 15:04:05"

const DateLayout = "2006-01-02"

var wallClockInputs = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

var ErrInvalidWallClock = errors.New("invalid date-time, expected YYYY-MM-DD HH:MM[:SS]")

// ParseWallClock reads a salon-local timestamp. Any zone suffix is dropped, the
// wall-clock fields are kept as-is and pinned to UTC so storage never shifts them.
func ParseWallClock(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidWallClock
	}
	for _, layout := range wallClockInputs {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return StripZone(t), nil
	}
	return time.Time{}, ErrInvalidWallClock
}

func FormatWallClock(t time.Time) string {
	return StripZone(t).Format(WallClockLayout)
}

// StripZone keeps the clock reading and discards the location.
func StripZone(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(value))
}

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	return BeginningOfDay(t).AddDate(0, 0, 1).Add(-time.Second)
}

func BeginningOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func EndOfMonth(t time.Time) time.Time {
	return BeginningOfMonth(t).AddDate(0, 1, 0).Add(-time.Second)
}

func DaysBetween(start, end time.Time) int {
	start = BeginningOfDay(start)
	end = BeginningOfDay(end)
	return int(end.Sub(start).Hours() / 24)
}

// ParseClock validates an "HH:MM" time of day and returns minutes since midnight.
func ParseClock(value string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
