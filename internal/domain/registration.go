package domain

import (
	"context"
	"time"
)

// RegistrationStatus is the state of a user's registration for an event.
type RegistrationStatus string

const (
	RegistrationStatusPending   RegistrationStatus = "Pending"
	RegistrationStatusConfirmed RegistrationStatus = "Confirmed"
	RegistrationStatusCancelled RegistrationStatus = "Cancelled"
	RegistrationStatusAttended  RegistrationStatus = "Attended"
	RegistrationStatusNoShow    RegistrationStatus = "NoShow"
)

// Valid reports whether s is one of the known statuses.
func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationStatusPending, RegistrationStatusConfirmed, RegistrationStatusCancelled,
		RegistrationStatusAttended, RegistrationStatusNoShow:
		return true
	}
	return false
}

// Registration represents a user's claim on one seat of an event.
// A (user, event) pair has at most one registration row regardless of status:
// a cancelled registration blocks re-registration for the same event.
// swagger:model Registration
type Registration struct {
	ID               string             `json:"id"`
	EventID          string             `json:"event_id"`
	UserID           string             `json:"user_id"`
	Status           RegistrationStatus `json:"status"`
	RegistrationDate time.Time          `json:"registration_date"`
	Notes            *string            `json:"notes,omitempty"`
}

// NewRegistration returns a Confirmed registration for the given event and user.
// ID is typically set by the repository on create.
func NewRegistration(eventID, userID string, notes *string, registeredAt time.Time) *Registration {
	return &Registration{
		EventID:          eventID,
		UserID:           userID,
		Status:           RegistrationStatusConfirmed,
		RegistrationDate: registeredAt,
		Notes:            notes,
	}
}

// CountDelta returns the change to the parent event's registered count when a
// registration moves from one status to another. Only transitions into and out
// of Cancelled affect the count.
func CountDelta(old, new RegistrationStatus) int {
	switch {
	case old == RegistrationStatusCancelled && new != RegistrationStatusCancelled:
		return 1
	case old != RegistrationStatusCancelled && new == RegistrationStatusCancelled:
		return -1
	}
	return 0
}

// RegistrationDetail bundles a registration with its event and user context.
type RegistrationDetail struct {
	Registration *Registration `json:"registration"`
	Event        *Event        `json:"event,omitempty"`
	User         *UserSummary  `json:"user,omitempty"`
}

// RegistrationWithEvent bundles a registration with its related event.
type RegistrationWithEvent struct {
	Registration *Registration `json:"registration"`
	Event        *Event        `json:"event"`
}

// RegistrationRepository defines storage operations for registrations.
//
// Create and UpdateStatus are the invariant-bearing writes: each runs the
// registration write and the event counter update in one transaction, with the
// increment conditional on registered_count < capacity so that of two racing
// registrations for the last seat exactly one commits. The loser observes
// ErrEventFull; a duplicate (user, event) insert observes ErrAlreadyRegistered.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	GetByID(ctx context.Context, id string) (*Registration, error)
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*Registration, error)
	ListByUserID(ctx context.Context, userID string) ([]*Registration, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Registration, error)
	// Cancel sets the registration status to Cancelled and decrements the parent
	// event's registered count, floored at zero.
	Cancel(ctx context.Context, id, eventID string) error
	// UpdateStatus sets the status and applies countDelta (-1, 0, or +1) to the
	// parent event's registered count in the same transaction.
	UpdateStatus(ctx context.Context, id, eventID string, status RegistrationStatus, countDelta int) error

	Count(ctx context.Context) (int, error)
	CountByMonth(ctx context.Context, since time.Time) (map[string]int, error)
}

// RegistrationService owns the registration lifecycle rules: who may create,
// cancel, or override a registration, and how the parent event's seat count
// tracks those changes.
type RegistrationService interface {
	Register(ctx context.Context, eventID, userID string, notes *string) (*RegistrationDetail, error)
	CancelRegistration(ctx context.Context, registrationID, requesterID string) error
	UpdateStatus(ctx context.Context, registrationID string, newStatus RegistrationStatus, requesterID string, requesterRole Role) (*RegistrationDetail, error)
	GetByID(ctx context.Context, registrationID, requesterID string, requesterRole Role) (*RegistrationDetail, error)
	ListMyRegistrations(ctx context.Context, userID string) ([]*RegistrationWithEvent, error)
	ListEventRegistrations(ctx context.Context, eventID, requesterID string, requesterRole Role) ([]*RegistrationDetail, error)
}
