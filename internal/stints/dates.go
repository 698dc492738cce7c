package stints

import (
	"strings"
	"time"
)

// currentMarkers are free-text end-date values meaning "still employed".
var currentMarkers = map[string]bool{
	"present": true,
	"current": true,
	"now":     true,
	"ongoing": true,
	"today":   true,
}

// dateLayouts are tried in order when coercing a raw date string.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006/01/02",
	"2006/01",
	"2006",
	"Jan 2006",
	"January 2006",
}

// CoerceDate parses a raw date string into the first day of its month.
// It accepts year-month strings, ISO dates, and bare years. Malformed input
// degrades to nil rather than raising; the second return reports whether the
// value was a "Present"/"Current" style marker.
func CoerceDate(raw string) (*time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, false
	}
	if currentMarkers[strings.ToLower(s)] {
		return nil, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			firstOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
			return &firstOfMonth, false
		}
	}
	return nil, false
}
