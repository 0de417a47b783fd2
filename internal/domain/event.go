package domain

import (
	"context"
	"time"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "Draft"
	EventStatusPublished EventStatus = "Published"
	EventStatusCancelled EventStatus = "Cancelled"
	EventStatusCompleted EventStatus = "Completed"
)

// Valid reports whether s is one of the known statuses.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusCancelled, EventStatusCompleted:
		return true
	}
	return false
}

// Event represents a scheduled activity with a capacity and lifecycle status.
// RegisteredCount is maintained incrementally and always satisfies
// 0 <= RegisteredCount <= Capacity after a committed mutation.
// swagger:model Event
type Event struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	StartDate       time.Time   `json:"start_date"`
	EndDate         time.Time   `json:"end_date"`
	Capacity        int         `json:"capacity"`
	RegisteredCount int         `json:"registered_count"`
	ImageURL        *string     `json:"image_url,omitempty"`
	Status          EventStatus `json:"status"`
	OrganizerID     string      `json:"organizer_id"`
	CategoryID      string      `json:"category_id"`
	LocationID      string      `json:"location_id"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// NewEvent returns a new Draft event with zero registrations.
// ID is typically set by the repository on create.
func NewEvent(title, description string, start, end time.Time, capacity int, organizerID, categoryID, locationID string, createdAt time.Time) *Event {
	return &Event{
		Title:       title,
		Description: description,
		StartDate:   start,
		EndDate:     end,
		Capacity:    capacity,
		Status:      EventStatusDraft,
		OrganizerID: organizerID,
		CategoryID:  categoryID,
		LocationID:  locationID,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

// EventDetail bundles an event with its related reference entities.
type EventDetail struct {
	Event     *Event       `json:"event"`
	Location  *Location    `json:"location,omitempty"`
	Category  *Category    `json:"category,omitempty"`
	Organizer *UserSummary `json:"organizer,omitempty"`
}

// EventFilter holds the optional list filters for events.
type EventFilter struct {
	Search     string
	Status     *EventStatus
	CategoryID string
	LocationID string
	From       *time.Time
	To         *time.Time
	SortBy     string
	SortDesc   bool
}

// EventPatch holds the updatable event fields. Nil pointer means unchanged.
type EventPatch struct {
	Title       *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Capacity    *int
	ImageURL    *string
	CategoryID  *string
	LocationID  *string
}

// EventStats is the aggregate statistics payload for the admin dashboard.
// swagger:model EventStats
type EventStats struct {
	TotalEvents          int            `json:"total_events"`
	ActiveEvents         int            `json:"active_events"`
	TotalRegistrations   int            `json:"total_registrations"`
	AverageOccupancy     float64        `json:"average_occupancy"`
	EventsByCategory     map[string]int `json:"events_by_category"`
	RegistrationsByMonth map[string]int `json:"registrations_by_month"`
	EventsByStatus       map[string]int `json:"events_by_status"`
}

// EventRepository defines the interface for event storage.
// Update and Delete carry their state preconditions into the WHERE clause so
// concurrent registrations cannot break the count/capacity invariant.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	ListByOrganizerID(ctx context.Context, organizerID string) ([]*Event, error)
	// Update persists the patched row. It fails with ErrCapacityTooSmall when the
	// new capacity is below the current registered count at commit time.
	Update(ctx context.Context, event *Event) (*Event, error)
	UpdateStatus(ctx context.Context, id string, status EventStatus) (*Event, error)
	// Delete removes the event only while it has no registrations; otherwise it
	// fails with ErrEventHasRegistrations.
	Delete(ctx context.Context, id string) error

	Count(ctx context.Context) (int, error)
	CountActive(ctx context.Context, now time.Time) (int, error)
	AverageOccupancy(ctx context.Context) (float64, error)
	CountByCategory(ctx context.Context) (map[string]int, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// EventService defines the business logic for event management.
type EventService interface {
	List(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	GetByID(ctx context.Context, id string) (*EventDetail, error)
	ListMyEvents(ctx context.Context, organizerID string) ([]*Event, error)
	Create(ctx context.Context, event *Event, requesterID string, requesterRole Role) (*EventDetail, error)
	Update(ctx context.Context, id string, patch EventPatch, requesterID string, requesterRole Role) (*EventDetail, error)
	Delete(ctx context.Context, id string, requesterID string, requesterRole Role) error
	Publish(ctx context.Context, id string, requesterID string, requesterRole Role) (*Event, error)
	Cancel(ctx context.Context, id string, requesterID string, requesterRole Role) (*Event, error)
	Stats(ctx context.Context, requesterRole Role) (*EventStats, error)
}
