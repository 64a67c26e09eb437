// Package period canonicalizes the date strings that key diary days, weekly
// measurements and surveys. All keys are YYYY-MM-DD in UTC, which makes
// string comparison equivalent to date comparison.
package period

import (
	"errors"
	"time"
)

// DayFormat is the wire and storage format for all period keys.
const DayFormat = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// ParseDay parses a YYYY-MM-DD string into a UTC time at midnight.
func ParseDay(date string) (time.Time, error) {
	t, err := time.Parse(DayFormat, date)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t.UTC(), nil
}

// FormatDay renders the UTC calendar day of t.
func FormatDay(t time.Time) string {
	return t.UTC().Format(DayFormat)
}

// DayStart truncates t to its UTC day.
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the Monday of the ISO week containing t.
func WeekStart(t time.Time) time.Time {
	t = DayStart(t)
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return t.AddDate(0, 0, -offset)
}

// NormalizeDay validates a date string and returns it in canonical form.
func NormalizeDay(date string) (string, error) {
	t, err := ParseDay(date)
	if err != nil {
		return "", err
	}
	return FormatDay(t), nil
}

// NormalizeWeek maps any date to the Monday key of its week.
func NormalizeWeek(date string) (string, error) {
	t, err := ParseDay(date)
	if err != nil {
		return "", err
	}
	return FormatDay(WeekStart(t)), nil
}
