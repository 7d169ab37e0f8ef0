package services

import (
	"strings"
	"time"
)

// Persisted date/time values arrive in several shapes: "2006-01-02",
// ISO datetimes with a T or space separator, "15:04" and "15:04:05" times,
// and times embedded in full datetimes. All comparisons in the scheduling
// core go through the normalizers below first.

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// NormalizeDate reduces any supported date representation to "YYYY-MM-DD".
// Returns "" when the value cannot be parsed.
func NormalizeDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// NormalizeTimeHM reduces any supported time representation to "HH:MM".
// Accepts bare times with or without seconds and full datetimes.
// Returns "" when the value cannot be parsed.
func NormalizeTimeHM(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("15:04")
		}
	}
	// Time embedded in a datetime.
	for _, layout := range dateLayouts[1:] {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("15:04")
		}
	}
	return ""
}

// NormalizeTimeHMS reduces any supported time representation to "HH:MM:SS",
// padding missing seconds with ":00". Returns "" when the value cannot be
// parsed.
func NormalizeTimeHMS(value string) string {
	hm := NormalizeTimeHM(value)
	if hm == "" {
		return ""
	}
	value = strings.TrimSpace(value)
	if t, err := time.Parse("15:04:05", value); err == nil {
		return t.Format("15:04:05")
	}
	return hm + ":00"
}

// ParseBookingDate parses a client-supplied booking date, tolerating both
// plain dates and ISO datetimes. The boolean reports success.
func ParseBookingDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
