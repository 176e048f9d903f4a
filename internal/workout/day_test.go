package workout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayClock_Today(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	clock := NewDayClock("America/New_York", "04:00")

	// 02:00 local is still yesterday's workout day
	clock.now = func() time.Time {
		return time.Date(2025, 3, 5, 2, 0, 0, 0, loc)
	}
	assert.Equal(t, "2025-03-04", clock.TodayISO())

	// past the day start it ticks over
	clock.now = func() time.Time {
		return time.Date(2025, 3, 5, 5, 0, 0, 0, loc)
	}
	assert.Equal(t, "2025-03-05", clock.TodayISO())

	// the boundary itself belongs to the new day
	clock.now = func() time.Time {
		return time.Date(2025, 3, 5, 4, 0, 0, 0, loc)
	}
	assert.Equal(t, "2025-03-05", clock.TodayISO())
}

func TestDayClock_MidnightStart(t *testing.T) {
	clock := NewDayClock("UTC", "00:00")
	clock.now = func() time.Time {
		return time.Date(2025, 3, 5, 0, 0, 1, 0, time.UTC)
	}
	assert.Equal(t, "2025-03-05", clock.TodayISO())
}

func TestNewDayClock_UnknownZoneFallsBack(t *testing.T) {
	clock := NewDayClock("Mars/Olympus_Mons", "00:00")
	require.NotNil(t, clock.loc)
	assert.Equal(t, FallbackTimeZone, clock.loc.String())
}

func TestParseDayStartMinutes(t *testing.T) {
	testCases := []struct {
		value    string
		expected int
	}{
		{"00:00", 0},
		{"04:00", 240},
		{"4:30", 270},
		{"23:59", 1439},
		{"0400", 240},
		{"400", 240},
		{"930", 570},
		{"", 0},
		{"  04:00  ", 240},
		{"25:00", 1380},   // hours clamp to 23
		{"04:75", 299},    // minutes clamp to 59
		{"abc", 0},
		{"12", 0},         // too short for compact form
		{"12345", 0},      // too long
		{"4h30", 0},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ParseDayStartMinutes(tc.value), "value: %q", tc.value)
	}
}
