package utils

import (
	"errors"
	"strings"
	"time"
)

// DayLayout is the ISO calendar-day format used across the API and the client
const DayLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// Zone-less timestamps are read as UTC
var dateLayouts = []string{
	DayLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate accepts an ISO calendar day or an ISO timestamp and returns it in UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// StartOfDay truncates t to 00:00 UTC of its calendar day
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DayRange returns the half-open interval [day, day+1) containing t
func DayRange(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t)
	return start, start.AddDate(0, 0, 1)
}

// FormatDay renders the UTC calendar day of t
func FormatDay(t time.Time) string {
	return t.UTC().Format(DayLayout)
}
