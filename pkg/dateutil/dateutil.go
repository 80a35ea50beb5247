package dateutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// Today returns today's date (start of day)
func Today() time.Time {
	return StartOfDay(time.Now())
}

// ResolvePeriod replaces a zero year or month with the one of now.
// Month must be 0 (current) or 1-12.
func ResolvePeriod(year, month int, now time.Time) (int, time.Month, error) {
	if month < 0 || month > 12 {
		return 0, 0, fmt.Errorf("month must be between 1 and 12 (0 for current), got %d", month)
	}
	if year < 0 {
		return 0, 0, fmt.Errorf("year cannot be negative, got %d", year)
	}

	if year == 0 {
		year = now.Year()
	}
	m := time.Month(month)
	if month == 0 {
		m = now.Month()
	}

	return year, m, nil
}

// ParseYearMonth parses a period in various formats
// Examples: "2026-06", "06/2026", "6/2026", "2026/06"
func ParseYearMonth(s string) (int, time.Month, error) {
	s = strings.TrimSpace(s)

	var first, second string
	switch {
	case strings.Contains(s, "-"):
		first, second, _ = strings.Cut(s, "-")
	case strings.Contains(s, "/"):
		first, second, _ = strings.Cut(s, "/")
	default:
		return 0, 0, fmt.Errorf("invalid period %q", s)
	}

	a, errA := strconv.Atoi(first)
	b, errB := strconv.Atoi(second)
	if errA != nil || errB != nil {
		return 0, 0, fmt.Errorf("invalid period %q", s)
	}

	year, month := a, b
	if len(first) <= 2 {
		year, month = b, a
	}
	if month < 1 || month > 12 || year < 1 {
		return 0, 0, fmt.Errorf("invalid period %q", s)
	}

	return year, time.Month(month), nil
}

// FormatPeriod formats year and month as MM/YYYY
func FormatPeriod(year int, month time.Month) string {
	return fmt.Sprintf("%02d/%d", int(month), year)
}
