package timeutil

import (
	"fmt"
	"time"

	"hemam-service/pkg/response"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ParseClock validates an "HH:MM" clock string and returns its parts.
func ParseClock(s string) (hours, minutes int, err error) {
	const op = "timeutil.ParseClock"

	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %q: %w", op, s, response.ErrInvalidInput)
	}

	return t.Hour(), t.Minute(), nil
}

// CalculateEndTime adds durationMinutes to an "HH:MM" start time. The returned
// clock is wrapped to 24 hours; dayOffset counts midnights crossed, so callers
// that cannot represent a next-day end must reject dayOffset > 0. A raw "25:15"
// style value is never produced.
func CalculateEndTime(startTime string, durationMinutes int) (endTime string, dayOffset int, err error) {
	const op = "timeutil.CalculateEndTime"

	if durationMinutes <= 0 {
		return "", 0, fmt.Errorf("%s: duration %d: %w", op, durationMinutes, response.ErrInvalidInput)
	}

	hh, mm, err := ParseClock(startTime)
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}

	totalMinutes := hh*60 + mm + durationMinutes
	endHours := totalMinutes / 60
	endMinutes := totalMinutes % 60

	dayOffset = endHours / 24
	endHours = endHours % 24

	return fmt.Sprintf("%02d:%02d", endHours, endMinutes), dayOffset, nil
}

// TruncateToDate drops the time-of-day part in the given location.
func TruncateToDate(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}
