// Package datetime provides date helpers for dated rate observations.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/refi-calculator/pkg/constants"
)

const (
	// DateLayout is the observation date format, used for both parsing and
	// output.
	DateLayout = constants.MarketDateLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses an observation date such as "2024-11-21".
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// FormatDate renders t in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// MonthsBefore returns the date the given number of calendar months before t.
func MonthsBefore(t time.Time, months int) time.Time {
	return t.AddDate(0, -months, 0)
}

// OnOrAfter reports whether t is not before cutoff.
func OnOrAfter(t, cutoff time.Time) bool {
	return !t.Before(cutoff)
}
