package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWallClock(t *testing.T) {
	want := time.Date(2025, time.March, 4, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
	}{
		{"seconds", "2025-03-04 14:30:00"},
		{"minutes", "2025-03-04 14:30"},
		{"iso separator", "2025-03-04T14:30:00"},
		{"iso minutes", "2025-03-04T14:30"},
		{"padded", "  2025-03-04 14:30  "},
		{"zone is dropped", "2025-03-04T14:30:00+03:00"},
		{"utc suffix", "2025-03-04T14:30:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWallClock(tt.input)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	for _, bad := range []string{"", "tomorrow", "2025-03-04", "2025-13-01 10:00", "14:30"} {
		_, err := ParseWallClock(bad)
		assert.ErrorIs(t, err, ErrInvalidWallClock, bad)
	}
}

func TestStripZoneKeepsClockReading(t *testing.T) {
	istanbul := time.FixedZone("TRT", 3*60*60)
	local := time.Date(2025, time.March, 4, 23, 30, 15, 999, istanbul)

	got := StripZone(local)
	assert.Equal(t, "2025-03-04 23:30:15", FormatWallClock(got))
	assert.Equal(t, time.UTC, got.Location())
	assert.Zero(t, got.Nanosecond())
	assert.Equal(t, "2025-03-04 23:30:15", FormatWallClock(local))
}

func TestDayAndMonthBounds(t *testing.T) {
	moment := time.Date(2024, time.February, 10, 13, 45, 0, 0, time.UTC)

	assert.Equal(t, "2024-02-10 00:00:00", FormatWallClock(BeginningOfDay(moment)))
	assert.Equal(t, "2024-02-10 23:59:59", FormatWallClock(EndOfDay(moment)))
	assert.Equal(t, "2024-02-01 00:00:00", FormatWallClock(BeginningOfMonth(moment)))
	assert.Equal(t, "2024-02-29 23:59:59", FormatWallClock(EndOfMonth(moment)))

	december := time.Date(2024, time.December, 31, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-12-31 23:59:59", FormatWallClock(EndOfMonth(december)))
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2025, time.January, 1, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysBetween(start, start.Add(30*time.Minute)))
	assert.Equal(t, 1, DaysBetween(start, start.Add(2*time.Hour)))
	assert.Equal(t, 31, DaysBetween(start, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseClock(t *testing.T) {
	minutes, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, minutes)

	minutes, err = ParseClock(" 23:59 ")
	require.NoError(t, err)
	assert.Equal(t, 1439, minutes)

	for _, bad := range []string{"", "9", "24:00", "12:60", "noon"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-06-30")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-30 00:00:00", FormatWallClock(got))

	_, err = ParseDate("30/06/2025")
	assert.Error(t, err)
}
