package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventify/internal/domain"
)

const eventColumns = `id, title, description, start_date, end_date, capacity, registered_count, image_url, status, organizer_id, category_id, location_id, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var imageNull sql.NullString
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate,
		&e.Capacity, &e.RegisteredCount, &imageNull, &e.Status,
		&e.OrganizerID, &e.CategoryID, &e.LocationID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if imageNull.Valid {
		e.ImageURL = &imageNull.String
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, start_date, end_date, capacity, registered_count, image_url, status, organizer_id, category_id, location_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.StartDate, e.EndDate, e.Capacity, e.RegisteredCount,
		e.ImageURL, e.Status, e.OrganizerID, e.CategoryID, e.LocationID, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return scanEvent(r.DB.QueryRowContext(ctx, query, id))
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	whereClauses := []string{}
	args := []any{}
	n := 1
	if filter.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
		args = append(args, "%"+strings.TrimSpace(filter.Search)+"%")
		n++
	}
	if filter.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", n))
		args = append(args, *filter.Status)
		n++
	}
	if filter.CategoryID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("category_id = $%d", n))
		args = append(args, filter.CategoryID)
		n++
	}
	if filter.LocationID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("location_id = $%d", n))
		args = append(args, filter.LocationID)
		n++
	}
	if filter.From != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("start_date >= $%d", n))
		args = append(args, *filter.From)
		n++
	}
	if filter.To != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("start_date <= $%d", n))
		args = append(args, *filter.To)
		n++
	}
	where := ""
	if len(whereClauses) > 0 {
		where = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM events ` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderCol := "start_date"
	switch filter.SortBy {
	case "title":
		orderCol = "title"
	case "created_at":
		orderCol = "created_at"
	case "capacity":
		orderCol = "capacity"
	case "end_date":
		orderCol = "end_date"
	case "registered_count":
		orderCol = "registered_count"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s FROM events %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, eventColumns, where, orderCol, direction, n, n+1)
	args = append(args, params.PageSize, params.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

func (r *eventRepository) ListByOrganizerID(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE organizer_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Update writes the patched row. The capacity precondition sits in the WHERE
// clause so a concurrent registration cannot slip the count above the new
// capacity between a read and this write.
func (r *eventRepository) Update(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	query := `
		UPDATE events
		SET title = $1, description = $2, start_date = $3, end_date = $4, capacity = $5,
			image_url = $6, category_id = $7, location_id = $8, updated_at = NOW()
		WHERE id = $9 AND registered_count <= $5
		RETURNING ` + eventColumns
	updated, err := scanEvent(r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.StartDate, e.EndDate, e.Capacity,
		e.ImageURL, e.CategoryID, e.LocationID, e.ID,
	))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	// Zero rows: either the event is gone or the capacity guard rejected it.
	var exists bool
	if checkErr := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, e.ID).Scan(&exists); checkErr != nil {
		return nil, checkErr
	}
	if exists {
		return nil, domain.ErrCapacityTooSmall
	}
	return nil, domain.ErrNotFound
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) (*domain.Event, error) {
	query := `
		UPDATE events
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + eventColumns
	return scanEvent(r.DB.QueryRowContext(ctx, query, status, id))
}

// Delete removes an event and any leftover cancelled registration rows in one
// transaction. The row lock keeps a racing registration from confirming a seat
// while the event is being removed.
func (r *eventRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var registeredCount int
	err = tx.QueryRowContext(ctx, `SELECT registered_count FROM events WHERE id = $1 FOR UPDATE`, id).Scan(&registeredCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if registeredCount > 0 {
		return domain.ErrEventHasRegistrations
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM registrations WHERE event_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *eventRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count)
	return count, err
}

func (r *eventRepository) CountActive(ctx context.Context, now time.Time) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events WHERE status = 'Published' AND end_date >= $1`, now,
	).Scan(&count)
	return count, err
}

func (r *eventRepository) AverageOccupancy(ctx context.Context) (float64, error) {
	var avg float64
	err := r.DB.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(registered_count::float / capacity * 100), 0)
		FROM events
		WHERE capacity > 0
	`).Scan(&avg)
	return avg, err
}

func (r *eventRepository) CountByCategory(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT c.name, COUNT(e.id)
		FROM events e
		JOIN categories c ON c.id = e.category_id
		GROUP BY c.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, err
		}
		counts[name] = count
	}
	return counts, rows.Err()
}

func (r *eventRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT status, COUNT(*)
		FROM events
		GROUP BY status
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
