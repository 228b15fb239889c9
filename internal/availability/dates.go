package availability

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ClockLayout is the wire format for times of day.
const ClockLayout = "15:04"

var (
	// ErrInvalidDateRange indicates a malformed or unparseable date input.
	ErrInvalidDateRange = errors.New("availability: invalid date")
	// ErrInvalidTimeRange indicates a time window whose start does not
	// precede its end, or a malformed HH:MM value.
	ErrInvalidTimeRange = errors.New("availability: invalid time range")
)

// ParseDate parses a YYYY-MM-DD string into a UTC midnight instant.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateRange, value)
	}
	return t, nil
}

// FormatDate renders an instant as its YYYY-MM-DD calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidateWindow checks that start and end are well formed HH:MM values with
// start strictly before end. Zero-padded HH:MM strings order lexicographically,
// so the comparison is a plain string compare once both parse.
func ValidateWindow(start, end string) error {
	if _, err := time.Parse(ClockLayout, start); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeRange, start)
	}
	if _, err := time.Parse(ClockLayout, end); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeRange, end)
	}
	if start >= end {
		return fmt.Errorf("%w: %s >= %s", ErrInvalidTimeRange, start, end)
	}
	return nil
}

// WindowsOverlap reports whether the half-open windows [aStart, aEnd) and
// [bStart, bEnd) intersect. Inputs are assumed to be validated HH:MM strings.
func WindowsOverlap(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}

// EnumerateDates lists every calendar date from start through end inclusive.
// The caller is responsible for normalizing start <= end.
func EnumerateDates(start, end time.Time) []string {
	if end.Before(start) {
		return nil
	}
	dates := make([]string, 0, int(end.Sub(start).Hours()/24)+1)
	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		dates = append(dates, FormatDate(current))
	}
	return dates
}
