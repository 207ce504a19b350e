package repository

import (
	"fmt"
	"time"
)

// ParseTime parses a timestamp in RFC3339 or "2006-01-02" format.
// Transaction dates are user-settable and may be backdated, so both the full
// ISO form and a bare date are accepted.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse(time.RFC3339, str)
	if err != nil {
		returnTime, err = time.Parse("2006-01-02", str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// FormatTime renders a timestamp the way this schema stores it.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
