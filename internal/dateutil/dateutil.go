// internal/dateutil/dateutil.go
package dateutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayKey is the canonical YYYY-MM-DD identifier for a local calendar day.
// It is the join key between check-ins, journal entries and streak math,
// and sorts lexicographically in date order.

// ToDayKey formats t's local year/month/day as a zero-padded day key.
func ToDayKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// ParseDayKey is the inverse of ToDayKey. Parsing is permissive: a
// malformed month or day component falls back to 1 instead of failing, so
// corrupt persisted keys degrade to Jan-1 style dates rather than errors.
func ParseDayKey(key string) time.Time {
	parts := strings.SplitN(key, "-", 3)

	year := 0
	if len(parts) > 0 {
		year, _ = strconv.Atoi(parts[0])
	}

	month := 1
	if len(parts) > 1 {
		if m, err := strconv.Atoi(parts[1]); err == nil && m != 0 {
			month = m
		}
	}

	day := 1
	if len(parts) > 2 {
		if d, err := strconv.Atoi(parts[2]); err == nil && d != 0 {
			day = d
		}
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
}

// AddDays returns t shifted by n calendar days (n may be negative).
// Month and year rollover is handled by the time package.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}
