package helpers

import (
	"fmt"
	"time"
)

// DateLayout is the format of date-only values in paths, query strings and bodies.
const DateLayout = time.DateOnly

// ParseDate parses a YYYY-MM-DD value as midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

// ParseCalendarDate accepts YYYY-MM-DD or an RFC 3339 timestamp, the form meetings
// are returned in, and yields midnight in loc of the calendar date as written.
// The timestamp's own offset decides the date; it is not converted to loc first.
func ParseCalendarDate(value string, loc *time.Location) (time.Time, error) {
	if t, err := ParseDate(value, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}
