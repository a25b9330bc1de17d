package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hemam-service/pkg/response"
)

func TestCalculateEndTime(t *testing.T) {
	cases := []struct {
		name      string
		start     string
		duration  int
		endTime   string
		dayOffset int
	}{
		{"within the hour", "09:30", 60, "10:30", 0},
		{"minute wrap", "09:45", 30, "10:15", 0},
		{"exact midnight", "23:00", 60, "00:00", 1},
		{"crosses midnight", "23:45", 30, "00:15", 1},
		{"long session", "10:00", 90, "11:30", 0},
		{"multi day", "08:00", 48 * 60, "08:00", 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			endTime, dayOffset, err := CalculateEndTime(tc.start, tc.duration)
			require.NoError(t, err)
			assert.Equal(t, tc.endTime, endTime)
			assert.Equal(t, tc.dayOffset, dayOffset)
		})
	}
}

func TestCalculateEndTimeRejectsBadInput(t *testing.T) {
	_, _, err := CalculateEndTime("25:00", 30)
	assert.ErrorIs(t, err, response.ErrInvalidInput)

	_, _, err = CalculateEndTime("0930", 30)
	assert.ErrorIs(t, err, response.ErrInvalidInput)

	_, _, err = CalculateEndTime("09:30", 0)
	assert.ErrorIs(t, err, response.ErrInvalidInput)

	_, _, err = CalculateEndTime("09:30", -15)
	assert.ErrorIs(t, err, response.ErrInvalidInput)
}

func TestParseClock(t *testing.T) {
	hh, mm, err := ParseClock("14:05")
	require.NoError(t, err)
	assert.Equal(t, 14, hh)
	assert.Equal(t, 5, mm)
}

func TestSameDate(t *testing.T) {
	morning := time.Date(2024, 1, 20, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 1, 20, 22, 30, 0, 0, time.UTC)
	nextDay := time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDate(morning, evening))
	assert.False(t, SameDate(morning, nextDay))
}

func TestTruncateToDate(t *testing.T) {
	at := time.Date(2024, 3, 15, 17, 45, 12, 999, time.UTC)
	got := TruncateToDate(at, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got)
}
