package domain

import (
	"context"
	"time"
)

// Recurrence pattern values accepted on write.
const (
	PatternWeekly   = "weekly"
	PatternBiweekly = "biweekly"
	PatternMonthly  = "monthly"
)

// Meeting represents a scheduled coaching meeting or group call.
// Recurrence fields are only meaningful when IsRecurring is set.
// swagger:model Meeting
type Meeting struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Description       *string    `json:"description"`
	MeetingLink       *string    `json:"meeting_link"`
	Location          *string    `json:"location"`
	ScheduledAt       time.Time  `json:"scheduled_at"`
	IsRecurring       bool       `json:"is_recurring"`
	RecurrencePattern *string    `json:"recurrence_pattern"`
	RecurrenceDay     *string    `json:"recurrence_day"`
	RecurrenceEndDate *time.Time `json:"recurrence_end_date"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NewMeeting returns a new non-recurring Meeting. ID is typically set by the repository on create.
func NewMeeting(title string, scheduledAt, createdAt, updatedAt time.Time) *Meeting {
	return &Meeting{
		Title:       title,
		ScheduledAt: scheduledAt,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// ClearRecurrence drops all recurrence metadata.
func (m *Meeting) ClearRecurrence() {
	m.IsRecurring = false
	m.RecurrencePattern = nil
	m.RecurrenceDay = nil
	m.RecurrenceEndDate = nil
}

// Clone returns a copy of m that shares no pointers with it.
func (m Meeting) Clone() Meeting {
	c := m
	c.Description = clonePtr(m.Description)
	c.MeetingLink = clonePtr(m.MeetingLink)
	c.Location = clonePtr(m.Location)
	c.RecurrencePattern = clonePtr(m.RecurrencePattern)
	c.RecurrenceDay = clonePtr(m.RecurrenceDay)
	c.RecurrenceEndDate = clonePtr(m.RecurrenceEndDate)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// MeetingRepository defines the interface for meeting storage
type MeetingRepository interface {
	Create(ctx context.Context, meeting *Meeting) error
	GetByID(ctx context.Context, id string) (*Meeting, error)
	List(ctx context.Context, params PaginationParams) ([]*Meeting, int, error)
	ListAll(ctx context.Context) ([]*Meeting, error)
	Update(ctx context.Context, meeting *Meeting) error
	Delete(ctx context.Context, id string) error
}

// MeetingService defines the business logic for meetings and their calendar occurrences.
type MeetingService interface {
	CreateMeeting(ctx context.Context, meeting *Meeting) error
	GetMeeting(ctx context.Context, id string) (*Meeting, error)
	ListMeetings(ctx context.Context, params PaginationParams) ([]*Meeting, int, error)
	UpdateMeeting(ctx context.Context, meeting *Meeting) (*Meeting, error)
	DeleteMeeting(ctx context.Context, id string) error

	// ListOccurrences expands every meeting. When both from and to are set the
	// result is limited to occurrences in [from, to].
	ListOccurrences(ctx context.Context, from, to *time.Time) ([]Occurrence, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]Occurrence, error)
	ListOnDate(ctx context.Context, date time.Time) ([]Occurrence, error)
}
