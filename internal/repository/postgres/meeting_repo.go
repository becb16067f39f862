package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"coachcrm/internal/domain"
)

const meetingColumns = `id, title, description, meeting_link, location, scheduled_at,
		is_recurring, recurrence_pattern, recurrence_day, recurrence_end_date, created_at, updated_at`

type meetingRepository struct {
	DB *sql.DB
}

func NewMeetingRepository(db *sql.DB) domain.MeetingRepository {
	return &meetingRepository{
		DB: db,
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeeting(row rowScanner) (*domain.Meeting, error) {
	m := &domain.Meeting{}
	var descNull, linkNull, locNull, patternNull, dayNull sql.NullString
	var endNull sql.NullTime
	err := row.Scan(
		&m.ID, &m.Title, &descNull, &linkNull, &locNull, &m.ScheduledAt,
		&m.IsRecurring, &patternNull, &dayNull, &endNull, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Description = stringPtr(descNull)
	m.MeetingLink = stringPtr(linkNull)
	m.Location = stringPtr(locNull)
	m.RecurrencePattern = stringPtr(patternNull)
	m.RecurrenceDay = stringPtr(dayNull)
	if endNull.Valid {
		m.RecurrenceEndDate = &endNull.Time
	}
	return m, nil
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func (r *meetingRepository) Create(ctx context.Context, m *domain.Meeting) error {
	query := `
		INSERT INTO meetings (title, description, meeting_link, location, scheduled_at,
			is_recurring, recurrence_pattern, recurrence_day, recurrence_end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		m.Title, nullString(m.Description), nullString(m.MeetingLink), nullString(m.Location), m.ScheduledAt,
		m.IsRecurring, nullString(m.RecurrencePattern), nullString(m.RecurrenceDay), nullTime(m.RecurrenceEndDate),
		m.CreatedAt, m.UpdatedAt,
	).Scan(&m.ID)
}

func (r *meetingRepository) GetByID(ctx context.Context, id string) (*domain.Meeting, error) {
	query := `SELECT ` + meetingColumns + `
		FROM meetings
		WHERE id = $1
	`
	m, err := scanMeeting(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *meetingRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Meeting, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM meetings`).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + meetingColumns + `
		FROM meetings
		ORDER BY scheduled_at, id
		LIMIT $1 OFFSET $2
	`
	meetings, err := r.query(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	return meetings, total, nil
}

func (r *meetingRepository) ListAll(ctx context.Context) ([]*domain.Meeting, error) {
	query := `SELECT ` + meetingColumns + `
		FROM meetings
		ORDER BY scheduled_at, id
	`
	return r.query(ctx, query)
}

func (r *meetingRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Meeting, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	meetings := make([]*domain.Meeting, 0)
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

// Update replaces every editable column of the meeting and refreshes m from the stored row.
func (r *meetingRepository) Update(ctx context.Context, m *domain.Meeting) error {
	query := `
		UPDATE meetings SET title = $1, description = $2, meeting_link = $3, location = $4, scheduled_at = $5,
			is_recurring = $6, recurrence_pattern = $7, recurrence_day = $8, recurrence_end_date = $9, updated_at = $10
		WHERE id = $11
		RETURNING ` + meetingColumns
	updated, err := scanMeeting(r.DB.QueryRowContext(ctx, query,
		m.Title, nullString(m.Description), nullString(m.MeetingLink), nullString(m.Location), m.ScheduledAt,
		m.IsRecurring, nullString(m.RecurrencePattern), nullString(m.RecurrenceDay), nullTime(m.RecurrenceEndDate),
		m.UpdatedAt, m.ID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	*m = *updated
	return nil
}

func (r *meetingRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM meetings WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
