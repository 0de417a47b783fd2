package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventify/internal/domain"
)

type categoryRepository struct {
	DB *sql.DB
}

func NewCategoryRepository(db *sql.DB) domain.CategoryRepository {
	return &categoryRepository{DB: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	query := `
		SELECT id, name, color, icon, description
		FROM categories
		ORDER BY name ASC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	categories := make([]*domain.Category, 0)
	for rows.Next() {
		c := &domain.Category{}
		var descNull sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.Icon, &descNull); err != nil {
			return nil, err
		}
		if descNull.Valid {
			c.Description = &descNull.String
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	query := `
		SELECT id, name, color, icon, description
		FROM categories
		WHERE id = $1
	`
	c := &domain.Category{}
	var descNull sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Color, &c.Icon, &descNull)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if descNull.Valid {
		c.Description = &descNull.String
	}
	return c, nil
}
