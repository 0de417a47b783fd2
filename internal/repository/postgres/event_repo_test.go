package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"eventify/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func eventRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "description", "start_date", "end_date", "capacity", "registered_count",
		"image_url", "status", "organizer_id", "category_id", "location_id", "created_at", "updated_at",
	})
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 1, 17, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.Event
		wantErr error
	}{
		{
			name: "success",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, description, start_date`).
					WithArgs("ev-1").
					WillReturnRows(eventRows().
						AddRow("ev-1", "GopherCon", "Go conference", start, end, 100, 42,
							nil, "Published", "org-1", "cat-1", "loc-1", created, created))
			},
			want: &domain.Event{
				ID: "ev-1", Title: "GopherCon", Description: "Go conference",
				StartDate: start, EndDate: end, Capacity: 100, RegisteredCount: 42,
				Status: domain.EventStatusPublished, OrganizerID: "org-1",
				CategoryID: "cat-1", LocationID: "loc-1", CreatedAt: created, UpdatedAt: created,
			},
		},
		{
			name: "not found",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, description, start_date`).
					WithArgs("ev-missing").
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
			repo := NewEventRepository(db)
			got, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr))
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

func TestEventRepository_Update_capacity_guard(t *testing.T) {
	ctx := context.Background()
	e := &domain.Event{
		ID: "ev-1", Title: "GopherCon", Description: "Go conference",
		StartDate: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 1, 17, 0, 0, 0, time.UTC),
		Capacity:  10, CategoryID: "cat-1", LocationID: "loc-1",
	}

	t.Run("capacity below registered count", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE events`).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		repo := NewEventRepository(db)
		got, err := repo.Update(ctx, e)
		require.True(t, errors.Is(err, domain.ErrCapacityTooSmall))
		require.Nil(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("event gone", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE events`).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		repo := NewEventRepository(db)
		got, err := repo.Update(ctx, e)
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.Nil(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT registered_count FROM events`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows([]string{"registered_count"}).AddRow(0))
				mock.ExpectExec(`DELETE FROM registrations`).
					WithArgs("ev-1").
					WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectExec(`DELETE FROM events`).
					WithArgs("ev-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "has registrations",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT registered_count FROM events`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows([]string{"registered_count"}).AddRow(3))
				mock.ExpectRollback()
			},
			wantErr: domain.ErrEventHasRegistrations,
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT registered_count FROM events`).
					WithArgs("ev-1").
					WillReturnError(sql.ErrNoRows)
				mock.ExpectRollback()
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
			repo := NewEventRepository(db)
			err = repo.Delete(ctx, "ev-1")
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr))
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_CountByStatus(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT status, COUNT`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("Published", 5).
			AddRow("Draft", 2))

	repo := NewEventRepository(db)
	got, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"Published": 5, "Draft": 2}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}
