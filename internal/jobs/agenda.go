package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"coachcrm/internal/domain"
	"coachcrm/internal/recurrence"
)

// DayLister returns the occurrences falling on a calendar day.
type DayLister interface {
	ListOnDate(ctx context.Context, date time.Time) ([]domain.Occurrence, error)
}

// AgendaJob logs the day's meeting occurrences. It implements cron.Job.
type AgendaJob struct {
	Logger   *slog.Logger
	Meetings DayLister
	Location *time.Location
	Timeout  time.Duration
	Now      func() time.Time
}

func NewAgendaJob(logger *slog.Logger, meetings DayLister, loc *time.Location, timeout time.Duration) *AgendaJob {
	if loc == nil {
		loc = time.Local
	}
	return &AgendaJob{
		Logger:   logger,
		Meetings: meetings,
		Location: loc,
		Timeout:  timeout,
		Now:      time.Now,
	}
}

// Run fetches today's occurrences and logs one line each plus a summary.
// Failures are logged; the next scheduled run tries again.
func (j *AgendaJob) Run() {
	ctx := context.Background()
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	today := j.Now().In(j.Location)
	day := today.Format(time.DateOnly)
	occurrences, err := j.Meetings.ListOnDate(ctx, today)
	if err != nil {
		j.Logger.ErrorContext(ctx, "agenda failed", "date", day, "err", err)
		return
	}
	for _, o := range occurrences {
		j.Logger.InfoContext(ctx, "agenda item",
			"date", day,
			"meeting_id", o.ID,
			"title", o.Title,
			"at", o.OccurrenceDate.In(j.Location).Format("15:04"),
			"recurring", o.IsOccurrence,
			"cadence", cadence(o),
		)
	}
	j.Logger.InfoContext(ctx, "agenda ready", "date", day, "count", len(occurrences))
}

// NewScheduler returns a cron scheduler running job on spec (standard five-field
// syntax or descriptors such as @daily) in loc. The scheduler is not started.
func NewScheduler(spec string, loc *time.Location, job cron.Job) (*cron.Cron, error) {
	if loc == nil {
		loc = time.Local
	}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddJob(spec, job); err != nil {
		return nil, fmt.Errorf("schedule agenda %q: %w", spec, err)
	}
	return c, nil
}

// cadence names how often o repeats, or "once".
func cadence(o domain.Occurrence) string {
	if rule, ok := recurrence.RuleFor(o.Meeting).Get(); ok {
		return rule.Cadence.String()
	}
	return "once"
}
