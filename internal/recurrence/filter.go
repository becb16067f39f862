package recurrence

import (
	"time"

	"coachcrm/internal/domain"
)

// FilterByDateRange keeps occurrences with start <= OccurrenceDate <= end.
func FilterByDateRange(occurrences []domain.Occurrence, start, end time.Time) []domain.Occurrence {
	return keep(occurrences, func(at time.Time) bool {
		return !at.Before(start) && !at.After(end)
	})
}

// FilterUpcoming keeps occurrences from the start of now's day onwards, so
// earlier occurrences today still count as upcoming.
func FilterUpcoming(occurrences []domain.Occurrence, now time.Time) []domain.Occurrence {
	today := StartOfDay(now)
	return keep(occurrences, func(at time.Time) bool {
		return !at.Before(today)
	})
}

// OccurrencesOnDate keeps occurrences within [start of date, start of next day).
func OccurrencesOnDate(occurrences []domain.Occurrence, date time.Time) []domain.Occurrence {
	from := StartOfDay(date)
	to := from.AddDate(0, 0, 1)
	return keep(occurrences, func(at time.Time) bool {
		return !at.Before(from) && at.Before(to)
	})
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func keep(occurrences []domain.Occurrence, match func(time.Time) bool) []domain.Occurrence {
	out := make([]domain.Occurrence, 0, len(occurrences))
	for _, o := range occurrences {
		if match(o.OccurrenceDate) {
			out = append(out, o)
		}
	}
	return out
}
