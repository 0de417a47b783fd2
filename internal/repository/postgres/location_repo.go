package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventify/internal/domain"
)

const locationColumns = `id, name, address, capacity, description, image_url, is_active, latitude, longitude, contact_email, contact_phone, created_at, updated_at`

type locationRepository struct {
	DB *sql.DB
}

func NewLocationRepository(db *sql.DB) domain.LocationRepository {
	return &locationRepository{DB: db}
}

func scanLocation(row interface{ Scan(...any) error }) (*domain.Location, error) {
	loc := &domain.Location{}
	var descNull, imageNull, emailNull, phoneNull sql.NullString
	var latNull, lngNull sql.NullFloat64
	err := row.Scan(&loc.ID, &loc.Name, &loc.Address, &loc.Capacity,
		&descNull, &imageNull, &loc.IsActive, &latNull, &lngNull,
		&emailNull, &phoneNull, &loc.CreatedAt, &loc.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if descNull.Valid {
		loc.Description = &descNull.String
	}
	if imageNull.Valid {
		loc.ImageURL = &imageNull.String
	}
	if latNull.Valid {
		loc.Latitude = &latNull.Float64
	}
	if lngNull.Valid {
		loc.Longitude = &lngNull.Float64
	}
	if emailNull.Valid {
		loc.ContactEmail = &emailNull.String
	}
	if phoneNull.Valid {
		loc.ContactPhone = &phoneNull.String
	}
	return loc, nil
}

func (r *locationRepository) Create(ctx context.Context, loc *domain.Location) error {
	query := `
		INSERT INTO locations (name, address, capacity, description, image_url, is_active, latitude, longitude, contact_email, contact_phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		loc.Name, loc.Address, loc.Capacity, loc.Description, loc.ImageURL, loc.IsActive,
		loc.Latitude, loc.Longitude, loc.ContactEmail, loc.ContactPhone, loc.CreatedAt, loc.UpdatedAt,
	).Scan(&loc.ID)
}

func (r *locationRepository) GetByID(ctx context.Context, id string) (*domain.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`
	return scanLocation(r.DB.QueryRowContext(ctx, query, id))
}

func (r *locationRepository) List(ctx context.Context, search string, isActive *bool, params domain.PaginationParams) ([]*domain.Location, int, error) {
	whereClauses := []string{}
	args := []any{}
	n := 1
	if search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(name ILIKE $%d OR address ILIKE $%d)", n, n))
		args = append(args, "%"+strings.TrimSpace(search)+"%")
		n++
	}
	if isActive != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("is_active = $%d", n))
		args = append(args, *isActive)
		n++
	}
	where := ""
	if len(whereClauses) > 0 {
		where = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM locations ` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM locations %s
		ORDER BY name ASC
		LIMIT $%d OFFSET $%d
	`, locationColumns, where, n, n+1)
	args = append(args, params.PageSize, params.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	locations := make([]*domain.Location, 0)
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, 0, err
		}
		locations = append(locations, loc)
	}
	return locations, total, rows.Err()
}

func (r *locationRepository) ListActive(ctx context.Context) ([]*domain.Location, error) {
	query := `
		SELECT ` + locationColumns + `
		FROM locations
		WHERE is_active = TRUE
		ORDER BY name ASC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	locations := make([]*domain.Location, 0)
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

func (r *locationRepository) Update(ctx context.Context, loc *domain.Location) error {
	query := `
		UPDATE locations
		SET name = $1, address = $2, capacity = $3, description = $4, image_url = $5,
			is_active = $6, latitude = $7, longitude = $8, contact_email = $9, contact_phone = $10,
			updated_at = NOW()
		WHERE id = $11
	`
	result, err := r.DB.ExecContext(ctx, query,
		loc.Name, loc.Address, loc.Capacity, loc.Description, loc.ImageURL,
		loc.IsActive, loc.Latitude, loc.Longitude, loc.ContactEmail, loc.ContactPhone, loc.ID,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *locationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *locationRepository) CountEvents(ctx context.Context, id string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE location_id = $1`, id).Scan(&count)
	return count, err
}
