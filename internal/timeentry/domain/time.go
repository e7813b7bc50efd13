package domain

import (
	"strings"
	"time"
)

const civilLayout = "2006-01-02T15:04:05"

// ParseTimestamp accepts ISO-8601 input. Zone-qualified timestamps keep
// their instant; zone-naive ones are read as civil time in loc, matching how
// the practice records its day.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(civilLayout+".000", raw, loc); err == nil {
		return t, nil
	}
	return time.ParseInLocation(civilLayout, raw, loc)
}

// DurationHours is (end - start) in seconds / 3600.
func DurationHours(start, end time.Time) float64 {
	return end.Sub(start).Seconds() / 3600
}
