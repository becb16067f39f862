package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"coachcrm/internal/domain"
	"coachcrm/internal/recurrence"
)

type meetingService struct {
	meetingRepo    domain.MeetingRepository
	contextTimeout time.Duration
	// calendar is the zone meetings are authored in. Occurrences are generated
	// from the wall-clock time of scheduled_at in this zone.
	calendar *time.Location
}

// NewMeetingService returns a MeetingService. A nil calendar means time.Local.
func NewMeetingService(meetingRepo domain.MeetingRepository, timeout time.Duration, calendar *time.Location) domain.MeetingService {
	if calendar == nil {
		calendar = time.Local
	}
	return &meetingService{
		meetingRepo:    meetingRepo,
		contextTimeout: timeout,
		calendar:       calendar,
	}
}

// validateMeeting checks the fields an admin must supply. Recurrence metadata is
// checked strictly here even though expansion tolerates bad values.
func validateMeeting(m *domain.Meeting) error {
	var errs []string
	if strings.TrimSpace(m.Title) == "" {
		errs = append(errs, "title is required")
	}
	if m.ScheduledAt.IsZero() {
		errs = append(errs, "scheduled_at is required")
	}
	if m.IsRecurring {
		if m.RecurrencePattern == nil || recurrence.ParseCadence(*m.RecurrencePattern).IsAbsent() {
			errs = append(errs, "recurrence_pattern must be one of weekly, biweekly, monthly")
		}
		if m.RecurrenceDay == nil || recurrence.ParseWeekday(*m.RecurrenceDay).IsAbsent() {
			errs = append(errs, "recurrence_day must be a weekday name")
		}
		if m.RecurrenceEndDate == nil || m.RecurrenceEndDate.IsZero() {
			errs = append(errs, "recurrence_end_date is required")
		} else if !m.ScheduledAt.IsZero() && dateOnly(*m.RecurrenceEndDate).Before(dateOnly(m.ScheduledAt)) {
			errs = append(errs, "recurrence_end_date must not be before scheduled_at")
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(errs, "; "))
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *meetingService) CreateMeeting(ctx context.Context, meeting *domain.Meeting) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateMeeting(meeting); err != nil {
		return err
	}
	if !meeting.IsRecurring {
		meeting.ClearRecurrence()
	}

	meeting.CreatedAt = time.Now()
	meeting.UpdatedAt = meeting.CreatedAt

	if err := s.meetingRepo.Create(ctx, meeting); err != nil {
		return fmt.Errorf("create meeting: %w", err)
	}
	return nil
}

func (s *meetingService) GetMeeting(ctx context.Context, id string) (*domain.Meeting, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	meeting, err := s.meetingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get meeting: %w", err)
	}
	return meeting, nil
}

func (s *meetingService) ListMeetings(ctx context.Context, params domain.PaginationParams) ([]*domain.Meeting, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	meetings, total, err := s.meetingRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list meetings: %w", err)
	}
	if meetings == nil {
		meetings = []*domain.Meeting{}
	}
	return meetings, total, nil
}

func (s *meetingService) UpdateMeeting(ctx context.Context, meeting *domain.Meeting) (*domain.Meeting, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateMeeting(meeting); err != nil {
		return nil, err
	}
	if !meeting.IsRecurring {
		meeting.ClearRecurrence()
	}
	meeting.UpdatedAt = time.Now()

	if err := s.meetingRepo.Update(ctx, meeting); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update meeting: %w", err)
	}
	return meeting, nil
}

func (s *meetingService) DeleteMeeting(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.meetingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete meeting: %w", err)
	}
	return nil
}

// expandAll loads every meeting and expands it in the calendar zone. The driver
// may hand back scheduled_at in any zone (usually UTC), which would move the
// anchor date of evening meetings. Occurrences are recomputed on each call.
func (s *meetingService) expandAll(ctx context.Context) ([]domain.Occurrence, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	stored, err := s.meetingRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	meetings := make([]domain.Meeting, 0, len(stored))
	for _, m := range stored {
		if m == nil {
			continue
		}
		local := *m
		local.ScheduledAt = m.ScheduledAt.In(s.calendar)
		meetings = append(meetings, local)
	}
	return recurrence.Expand(meetings), nil
}

func (s *meetingService) ListOccurrences(ctx context.Context, from, to *time.Time) ([]domain.Occurrence, error) {
	occurrences, err := s.expandAll(ctx)
	if err != nil {
		return nil, err
	}
	if from != nil && to != nil {
		occurrences = recurrence.FilterByDateRange(occurrences, *from, *to)
	}
	return occurrences, nil
}

func (s *meetingService) ListUpcoming(ctx context.Context, now time.Time) ([]domain.Occurrence, error) {
	occurrences, err := s.expandAll(ctx)
	if err != nil {
		return nil, err
	}
	return recurrence.FilterUpcoming(occurrences, now), nil
}

func (s *meetingService) ListOnDate(ctx context.Context, date time.Time) ([]domain.Occurrence, error) {
	occurrences, err := s.expandAll(ctx)
	if err != nil {
		return nil, err
	}
	return recurrence.OccurrencesOnDate(occurrences, date), nil
}
