package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"eventify/internal/domain"
)

const registrationColumns = `id, event_id, user_id, status, registration_date, notes`

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{DB: db}
}

func scanRegistration(row interface{ Scan(...any) error }) (*domain.Registration, error) {
	reg := &domain.Registration{}
	var notesNull sql.NullString
	err := row.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.Status, &reg.RegistrationDate, &notesNull)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if notesNull.Valid {
		reg.Notes = &notesNull.String
	}
	return reg, nil
}

// Create claims a seat and inserts the registration row in one transaction.
// The increment only applies while registered_count < capacity, so of two
// racing registrations for the last seat exactly one commits; the other sees
// ErrEventFull. A duplicate (user, event) insert trips the unique index and
// maps to ErrAlreadyRegistered.
func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE events
		SET registered_count = registered_count + 1, updated_at = NOW()
		WHERE id = $1 AND registered_count < capacity
	`, reg.EventID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		var exists bool
		if checkErr := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, reg.EventID).Scan(&exists); checkErr != nil {
			return checkErr
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrEventFull
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO registrations (event_id, user_id, status, registration_date, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, reg.EventID, reg.UserID, reg.Status, reg.RegistrationDate, reg.Notes).Scan(&reg.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrAlreadyRegistered
		}
		return err
	}
	return tx.Commit()
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	return scanRegistration(r.DB.QueryRowContext(ctx, query, id))
}

func (r *registrationRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id = $1 AND user_id = $2`
	return scanRegistration(r.DB.QueryRowContext(ctx, query, eventID, userID))
}

func (r *registrationRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE user_id = $1
		ORDER BY registration_date DESC
	`
	return r.list(ctx, query, userID)
}

func (r *registrationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE event_id = $1
		ORDER BY registration_date ASC
	`
	return r.list(ctx, query, eventID)
}

func (r *registrationRepository) list(ctx context.Context, query string, arg any) ([]*domain.Registration, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

// Cancel releases the seat and marks the registration Cancelled in one
// transaction. The decrement is floored at zero.
func (r *registrationRepository) Cancel(ctx context.Context, id, eventID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE registrations SET status = $1 WHERE id = $2
	`, domain.RegistrationStatusCancelled, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE events
		SET registered_count = GREATEST(registered_count - 1, 0), updated_at = NOW()
		WHERE id = $1
	`, eventID); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateStatus writes the new status and applies countDelta to the parent
// event in the same transaction. A +1 delta is capacity-guarded the same way
// Create is.
func (r *registrationRepository) UpdateStatus(ctx context.Context, id, eventID string, status domain.RegistrationStatus, countDelta int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	switch {
	case countDelta > 0:
		result, err := tx.ExecContext(ctx, `
			UPDATE events
			SET registered_count = registered_count + 1, updated_at = NOW()
			WHERE id = $1 AND registered_count < capacity
		`, eventID)
		if err != nil {
			return err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return domain.ErrEventFull
		}
	case countDelta < 0:
		if _, err := tx.ExecContext(ctx, `
			UPDATE events
			SET registered_count = GREATEST(registered_count - 1, 0), updated_at = NOW()
			WHERE id = $1
		`, eventID); err != nil {
			return err
		}
	}

	result, err := tx.ExecContext(ctx, `UPDATE registrations SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit()
}

func (r *registrationRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations`).Scan(&count)
	return count, err
}

func (r *registrationRepository) CountByMonth(ctx context.Context, since time.Time) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT to_char(registration_date, 'YYYY-MM') AS month, COUNT(*)
		FROM registrations
		WHERE registration_date >= $1
		GROUP BY month
		ORDER BY month
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var month string
		var count int
		if err := rows.Scan(&month, &count); err != nil {
			return nil, err
		}
		counts[month] = count
	}
	return counts, rows.Err()
}
