package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"eventify/internal/domain"
)

const userColumns = `id, email, password_hash, salt, first_name, last_name, role, is_active, avatar_url, created_at, updated_at`

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	u := &domain.User{}
	var avatarNull sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Salt, &u.FirstName, &u.LastName,
		&u.Role, &u.IsActive, &avatarNull, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if avatarNull.Valid {
		u.AvatarURL = &avatarNull.String
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (email, password_hash, salt, first_name, last_name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		u.Email, u.PasswordHash, u.Salt, u.FirstName, u.LastName, u.Role, u.IsActive, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.DB.QueryRowContext(ctx, query, email))
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.DB.QueryRowContext(ctx, query, id))
}

func (r *userRepository) List(ctx context.Context, search string, params domain.PaginationParams) ([]*domain.User, int, error) {
	where := ""
	args := []any{}
	if search != "" {
		where = `WHERE email ILIKE $1 OR first_name ILIKE $1 OR last_name ILIKE $1`
		args = append(args, "%"+strings.TrimSpace(search)+"%")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM users ` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := fmt.Sprintf(`
		SELECT %s FROM users %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, userColumns, where, n+1, n+2)
	args = append(args, params.PageSize, params.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, avatar_url = $3, updated_at = NOW()
		WHERE id = $4
	`
	result, err := r.DB.ExecContext(ctx, query, u.FirstName, u.LastName, u.AvatarURL, u.ID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash, salt string) error {
	query := `
		UPDATE users
		SET password_hash = $1, salt = $2, updated_at = NOW()
		WHERE id = $3
	`
	result, err := r.DB.ExecContext(ctx, query, passwordHash, salt, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) SetRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	query := `
		UPDATE users
		SET role = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + userColumns
	return scanUser(r.DB.QueryRowContext(ctx, query, role, id))
}

func (r *userRepository) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	query := `
		UPDATE users
		SET is_active = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + userColumns
	return scanUser(r.DB.QueryRowContext(ctx, query, active, id))
}
