package recurrence

import (
	"slices"
	"time"

	"github.com/teambition/rrule-go"

	"coachcrm/internal/domain"
)

// maxOccurrencesPerMeeting caps generation for end dates far in the future.
const maxOccurrencesPerMeeting = 5000

// Expand turns meetings into their concrete occurrences, sorted by
// OccurrenceDate. Occurrences sharing a timestamp keep input order.
//
// A meeting without complete recurrence metadata yields exactly one occurrence
// at ScheduledAt with IsOccurrence unset. A recurring meeting yields one
// occurrence per generated date, all with IsOccurrence set.
func Expand(meetings []domain.Meeting) []domain.Occurrence {
	out := make([]domain.Occurrence, 0, len(meetings))
	for _, m := range meetings {
		rule, ok := RuleFor(m).Get()
		if !ok {
			out = append(out, domain.Occurrence{
				Meeting:        m.Clone(),
				OccurrenceDate: m.ScheduledAt,
				IsOccurrence:   false,
				ParentID:       m.ID,
			})
			continue
		}
		for _, at := range Dates(m.ScheduledAt, rule) {
			out = append(out, domain.Occurrence{
				Meeting:        m.Clone(),
				OccurrenceDate: at,
				IsOccurrence:   true,
				ParentID:       m.ID,
			})
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Occurrence) int {
		return a.OccurrenceDate.Compare(b.OccurrenceDate)
	})
	return out
}

// Dates generates the occurrence timestamps of a recurring meeting anchored at
// anchor. The first date is the first rule.Day on or after the anchor's
// calendar date; generation stops once the date passes rule.Until. Every
// timestamp reuses the anchor's hour and minute in the anchor's location.
func Dates(anchor time.Time, rule Rule) []time.Time {
	start := alignForward(civilDate(anchor), rule.Day)

	var days []time.Time
	switch rule.Cadence {
	case Monthly:
		days = monthlyDays(start, rule)
	case Biweekly:
		days = weeklyDays(start, rule.Until, 2)
	default:
		days = weeklyDays(start, rule.Until, 1)
	}

	hour, minute := anchor.Hour(), anchor.Minute()
	out := make([]time.Time, 0, len(days))
	for _, d := range days {
		out = append(out, time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, anchor.Location()))
	}
	return out
}

// weeklyDays steps every interval weeks from start through until, inclusive.
func weeklyDays(start, until time.Time, interval int) []time.Time {
	if start.After(until) {
		return nil
	}
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:     rrule.WEEKLY,
		Interval: interval,
		Dtstart:  start,
		Until:    until,
	})
	if err != nil {
		return []time.Time{start}
	}
	var days []time.Time
	next := r.Iterator()
	for len(days) < maxOccurrencesPerMeeting {
		d, ok := next()
		if !ok {
			break
		}
		days = append(days, d)
	}
	return days
}

// monthlyDays adds one calendar month per step and then moves forward to the
// next rule.Day, so consecutive occurrences are not a fixed number of days
// apart.
func monthlyDays(start time.Time, rule Rule) []time.Time {
	var days []time.Time
	for cur := start; !cur.After(rule.Until) && len(days) < maxOccurrencesPerMeeting; {
		days = append(days, cur)
		cur = alignForward(cur.AddDate(0, 1, 0), rule.Day)
	}
	return days
}

func alignForward(d time.Time, day time.Weekday) time.Time {
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
