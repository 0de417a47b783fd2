package domain

import "context"

// Category classifies events for browsing and statistics.
// swagger:model Category
type Category struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	Icon        string  `json:"icon"`
	Description *string `json:"description,omitempty"`
}

// CategoryRepository defines the interface for category storage. Categories are
// seeded reference data; there is no mutation path through the API.
type CategoryRepository interface {
	List(ctx context.Context) ([]*Category, error)
	GetByID(ctx context.Context, id string) (*Category, error)
}

// CategoryService exposes category lookups.
type CategoryService interface {
	List(ctx context.Context) ([]*Category, error)
	GetByID(ctx context.Context, id string) (*Category, error)
}
