package domain

import (
	"context"
	"time"
)

// Location represents a venue where events take place.
// swagger:model Location
type Location struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Capacity     int       `json:"capacity"`
	Description  *string   `json:"description,omitempty"`
	ImageURL     *string   `json:"image_url,omitempty"`
	IsActive     bool      `json:"is_active"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	ContactEmail *string   `json:"contact_email,omitempty"`
	ContactPhone *string   `json:"contact_phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LocationRepository defines the interface for location storage.
type LocationRepository interface {
	Create(ctx context.Context, loc *Location) error
	GetByID(ctx context.Context, id string) (*Location, error)
	List(ctx context.Context, search string, isActive *bool, params PaginationParams) ([]*Location, int, error)
	ListActive(ctx context.Context) ([]*Location, error)
	Update(ctx context.Context, loc *Location) error
	Delete(ctx context.Context, id string) error
	CountEvents(ctx context.Context, id string) (int, error)
}

// LocationService defines location management. Mutations require the admin role.
type LocationService interface {
	List(ctx context.Context, search string, isActive *bool, params PaginationParams, requesterRole Role) ([]*Location, int, error)
	ListActive(ctx context.Context) ([]*Location, error)
	GetByID(ctx context.Context, id string) (*Location, error)
	Create(ctx context.Context, loc *Location, requesterRole Role) (*Location, error)
	Update(ctx context.Context, loc *Location, requesterRole Role) (*Location, error)
	Delete(ctx context.Context, id string, requesterRole Role) error
}
