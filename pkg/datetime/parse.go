// Package datetime provides the calendar arithmetic behind schedule month labels.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/debt-roadmap/pkg/constants"
)

const (
	// DateTimeLayout is the year-month format accepted for anchors.
	DateTimeLayout = constants.DateTimeLayout
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

// OffsetDate returns the string-formatted date offset by the given number of
// months relative to the given date.
func OffsetDate(date, layout string, months int) (string, error) {
	t, err := time.Parse(layout, date)
	if err != nil {
		return date, err
	}
	return t.AddDate(0, months, 0).Format(layout), nil
}

// MonthStart truncates t to midnight UTC on the first day of its month. Adding
// months to a first-of-month never skips a month the way the 31st would.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ParseAnchor parses a "2006-01" string into a month start. An empty value
// yields the zero time so callers can fall back to the current month.
func ParseAnchor(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateTimeLayout, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid anchor month %q: %w", value, err)
	}
	return MonthStart(t), nil
}

// Month describes one calendar month reached by offsetting from an anchor.
type Month struct {
	Year  int
	Index int // 0 = January
	Label string
}

// MonthAt returns the calendar month that is offset months after anchor.
func MonthAt(anchor time.Time, offset int) Month {
	t := MonthStart(anchor).AddDate(0, offset, 0)
	return Month{
		Year:  t.Year(),
		Index: int(t.Month()) - 1,
		Label: fmt.Sprintf("%s %d", t.Month().String(), t.Year()),
	}
}

// MonthsBetween counts whole calendar months from start to end; negative when
// end is before start.
func MonthsBetween(start, end time.Time) int {
	return (end.Year()-start.Year())*constants.MonthsPerYear + int(end.Month()) - int(start.Month())
}
