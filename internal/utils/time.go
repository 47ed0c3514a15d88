package utils

import (
	"strings"
	"time"
)

const layoutDate = "2006-01-02"

// ParseDate parses YYYY-MM-DD in local timezone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), time.Local)
}

// FormatDate formats a calendar date as YYYY-MM-DD without shifting its zone.
func FormatDate(t time.Time) string {
	return t.Format(layoutDate)
}

// SameOrAfterDay reports whether day d is today or later relative to now.
func SameOrAfterDay(d, now time.Time) bool {
	y1, m1, d1 := d.Date()
	y2, m2, d2 := now.In(d.Location()).Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return !a.Before(b)
}
