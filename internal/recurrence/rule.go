package recurrence

import (
	"strings"
	"time"

	"github.com/samber/mo"

	"coachcrm/internal/domain"
)

// Cadence is how often a recurring meeting repeats.
type Cadence int

const (
	Weekly Cadence = iota
	Biweekly
	Monthly
)

func (c Cadence) String() string {
	switch c {
	case Biweekly:
		return domain.PatternBiweekly
	case Monthly:
		return domain.PatternMonthly
	default:
		return domain.PatternWeekly
	}
}

// Rule is the resolved recurrence configuration of a meeting. Every field holds
// a known value, so generation never has to handle bad metadata.
type Rule struct {
	Cadence Cadence
	Day     time.Weekday
	// Until is the last calendar date an occurrence may fall on, as UTC midnight.
	Until time.Time
}

// Sunday=0 … Saturday=6, matching time.Weekday.
var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

var cadences = map[string]Cadence{
	domain.PatternWeekly:   Weekly,
	domain.PatternBiweekly: Biweekly,
	domain.PatternMonthly:  Monthly,
}

// ParseWeekday looks up a weekday by its English name, ignoring case and
// surrounding whitespace.
func ParseWeekday(name string) mo.Option[time.Weekday] {
	if d, ok := weekdays[strings.ToLower(strings.TrimSpace(name))]; ok {
		return mo.Some(d)
	}
	return mo.None[time.Weekday]()
}

// ParseCadence looks up a recurrence pattern (weekly, biweekly, monthly).
func ParseCadence(pattern string) mo.Option[Cadence] {
	if c, ok := cadences[strings.ToLower(strings.TrimSpace(pattern))]; ok {
		return mo.Some(c)
	}
	return mo.None[Cadence]()
}

// RuleFor resolves the recurrence metadata of m. It returns None unless the
// meeting is flagged recurring and has a pattern, a day and an end date.
// An unknown pattern resolves to Weekly and an unknown day to Monday.
func RuleFor(m domain.Meeting) mo.Option[Rule] {
	if !m.IsRecurring || blank(m.RecurrencePattern) || blank(m.RecurrenceDay) ||
		m.RecurrenceEndDate == nil || m.RecurrenceEndDate.IsZero() {
		return mo.None[Rule]()
	}
	return mo.Some(Rule{
		Cadence: ParseCadence(*m.RecurrencePattern).OrElse(Weekly),
		Day:     ParseWeekday(*m.RecurrenceDay).OrElse(time.Monday),
		Until:   civilDate(*m.RecurrenceEndDate),
	})
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// civilDate drops the clock and zone of t, keeping its calendar date.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
