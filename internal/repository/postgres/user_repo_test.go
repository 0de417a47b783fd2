package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"eventify/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "salt", "first_name", "last_name",
		"role", "is_active", "avatar_url", "created_at", "updated_at",
	})
}

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs("u@example.com", "hash", "salt", "Ada", "Lovelace", domain.RoleUser, true, created, created).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-1"))
			},
			wantID: "user-1",
		},
		{
			name: "duplicate email",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: domain.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewUserRepository(db)
			u := domain.NewUser("u@example.com", "hash", "salt", "Ada", "Lovelace", domain.RoleUser, created)
			err = repo.Create(ctx, u)
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr))
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, u.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, email, password_hash, salt`).
			WithArgs("u@example.com").
			WillReturnRows(userRows().
				AddRow("user-1", "u@example.com", "hash", "salt", "Ada", "Lovelace", "User", true, nil, created, created))

		repo := NewUserRepository(db)
		got, err := repo.GetByEmail(ctx, "u@example.com")
		require.NoError(t, err)
		require.Equal(t, "user-1", got.ID)
		require.Equal(t, domain.RoleUser, got.Role)
		require.True(t, got.IsActive)
		require.Nil(t, got.AvatarURL)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, email, password_hash, salt`).
			WithArgs("missing@example.com").
			WillReturnError(sql.ErrNoRows)

		repo := NewUserRepository(db)
		got, err := repo.GetByEmail(ctx, "missing@example.com")
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.Nil(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_SetRole(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`UPDATE users`).
		WithArgs(domain.RoleOrganizer, "user-1").
		WillReturnRows(userRows().
			AddRow("user-1", "u@example.com", "hash", "salt", "Ada", "Lovelace", "Organizer", true, nil, created, created))

	repo := NewUserRepository(db)
	got, err := repo.SetRole(ctx, "user-1", domain.RoleOrganizer)
	require.NoError(t, err)
	require.Equal(t, domain.RoleOrganizer, got.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WithArgs("%ada%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT id, email, password_hash, salt`).
		WithArgs("%ada%", 20, 0).
		WillReturnRows(userRows().
			AddRow("user-1", "ada@example.com", "hash", "salt", "Ada", "Lovelace", "User", true, nil, created, created))

	repo := NewUserRepository(db)
	users, total, err := repo.List(ctx, "ada", domain.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, users, 1)
	require.Equal(t, "ada@example.com", users[0].Email)
	require.NoError(t, mock.ExpectationsWereMet())
}
