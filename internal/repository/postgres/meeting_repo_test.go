package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"coachcrm/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var meetingColumnNames = []string{
	"id", "title", "description", "meeting_link", "location", "scheduled_at",
	"is_recurring", "recurrence_pattern", "recurrence_day", "recurrence_end_date", "created_at", "updated_at",
}

func strPtr(s string) *string { return &s }

func TestMeetingRepository_Create(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	until := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		meeting *domain.Meeting
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "recurring meeting",
			meeting: &domain.Meeting{
				Title:             "Monday mastermind",
				MeetingLink:       strPtr("https://zoom.us/j/123"),
				ScheduledAt:       at,
				IsRecurring:       true,
				RecurrencePattern: strPtr("weekly"),
				RecurrenceDay:     strPtr("Monday"),
				RecurrenceEndDate: &until,
				CreatedAt:         now,
				UpdatedAt:         now,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO meetings \(title, description, meeting_link, location, scheduled_at,`).
					WithArgs("Monday mastermind", nil, "https://zoom.us/j/123", nil, at, true, "weekly", "Monday", until, now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("mt-uuid-1"))
			},
			wantID: "mt-uuid-1",
		},
		{
			name:    "db error",
			meeting: &domain.Meeting{Title: "Intro call", ScheduledAt: at, CreatedAt: now, UpdatedAt: now},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO meetings`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewMeetingRepository(db)
			err = repo.Create(ctx, tt.meeting)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.meeting.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMeetingRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	until := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.Meeting
		wantErr error
	}{
		{
			name: "recurring meeting",
			id:   "mt-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, description, meeting_link, location, scheduled_at`).
					WithArgs("mt-1").
					WillReturnRows(sqlmock.NewRows(meetingColumnNames).
						AddRow("mt-1", "Monday mastermind", "Weekly group call", nil, nil, at, true, "weekly", "Monday", until, created, created))
			},
			want: &domain.Meeting{
				ID:                "mt-1",
				Title:             "Monday mastermind",
				Description:       strPtr("Weekly group call"),
				ScheduledAt:       at,
				IsRecurring:       true,
				RecurrencePattern: strPtr("weekly"),
				RecurrenceDay:     strPtr("Monday"),
				RecurrenceEndDate: &until,
				CreatedAt:         created,
				UpdatedAt:         created,
			},
		},
		{
			name: "single meeting with null columns",
			id:   "mt-2",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title`).
					WithArgs("mt-2").
					WillReturnRows(sqlmock.NewRows(meetingColumnNames).
						AddRow("mt-2", "Intro call", nil, nil, "Cafe Central", at, false, nil, nil, nil, created, created))
			},
			want: &domain.Meeting{
				ID:          "mt-2",
				Title:       "Intro call",
				Location:    strPtr("Cafe Central"),
				ScheduledAt: at,
				CreatedAt:   created,
				UpdatedAt:   created,
			},
		},
		{
			name: "not found",
			id:   "mt-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title`).
					WithArgs("mt-missing").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewMeetingRepository(db)
			got, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMeetingRepository_List(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM meetings`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT id, title`).
		WithArgs(2, 2).
		WillReturnRows(sqlmock.NewRows(meetingColumnNames).
			AddRow("mt-3", "Follow-up", nil, nil, nil, at, false, nil, nil, nil, at, at))

	repo := NewMeetingRepository(db)
	got, total, err := repo.List(ctx, domain.PaginationParams{Page: 2, PageSize: 2})

	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, got, 1)
	require.Equal(t, "mt-3", got[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMeetingRepository_ListAll(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

	t.Run("rows", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, title`).
			WillReturnRows(sqlmock.NewRows(meetingColumnNames).
				AddRow("mt-1", "A", nil, nil, nil, at, false, nil, nil, nil, at, at).
				AddRow("mt-2", "B", nil, nil, nil, at.Add(time.Hour), false, nil, nil, nil, at, at))

		got, err := NewMeetingRepository(db).ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "mt-2", got[1].ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, title`).
			WillReturnRows(sqlmock.NewRows(meetingColumnNames))

		got, err := NewMeetingRepository(db).ListAll(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Empty(t, got)
	})

	t.Run("query error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, title`).WillReturnError(sql.ErrConnDone)

		_, err = NewMeetingRepository(db).ListAll(ctx)
		require.ErrorIs(t, err, sql.ErrConnDone)
	})
}

func TestMeetingRepository_Update(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 2, 3, 18, 0, 0, 0, time.UTC)
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE meetings SET title = \$1`).
					WithArgs("Evening Q&A", nil, nil, nil, at, false, nil, nil, nil, updated, "mt-1").
					WillReturnRows(sqlmock.NewRows(meetingColumnNames).
						AddRow("mt-1", "Evening Q&A", nil, nil, nil, at, false, nil, nil, nil, created, updated))
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE meetings SET`).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			m := &domain.Meeting{ID: "mt-1", Title: "Evening Q&A", ScheduledAt: at, UpdatedAt: updated}
			err = NewMeetingRepository(db).Update(ctx, m)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, created, m.CreatedAt)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMeetingRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM meetings WHERE id = \$1`).
					WithArgs("mt-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM meetings`).
					WithArgs("mt-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewMeetingRepository(db).Delete(ctx, "mt-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
