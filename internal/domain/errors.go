package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the domain. Services return these (or errors
// wrapping them); the delivery layer maps them to transport status codes.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is the base for state conflicts: the request is valid but the
	// current state of the data does not permit it. Match specific conflicts with
	// errors.Is against the variables below, or any conflict with errors.Is(err, ErrConflict).
	ErrConflict = errors.New("conflict")
)

// Conflict variants. Each wraps ErrConflict so the delivery layer can map the
// whole family to a single status code.
var (
	ErrEventNotPublished     = fmt.Errorf("%w: only published events accept registrations", ErrConflict)
	ErrEventEnded            = fmt.Errorf("%w: event already ended", ErrConflict)
	ErrAlreadyRegistered     = fmt.Errorf("%w: already registered for this event", ErrConflict)
	ErrEventFull             = fmt.Errorf("%w: event full", ErrConflict)
	ErrAlreadyCancelled      = fmt.Errorf("%w: registration already cancelled", ErrConflict)
	ErrEventNotDraft         = fmt.Errorf("%w: only draft events can be published", ErrConflict)
	ErrEventNotCancelable    = fmt.Errorf("%w: cannot cancel a completed or already cancelled event", ErrConflict)
	ErrCapacityTooSmall      = fmt.Errorf("%w: cannot reduce capacity below current registrations", ErrConflict)
	ErrEventHasRegistrations = fmt.Errorf("%w: cannot delete an event with registrations", ErrConflict)
	ErrEmailTaken            = fmt.Errorf("%w: email already in use", ErrConflict)
	ErrLocationInUse         = fmt.Errorf("%w: location is referenced by existing events", ErrConflict)
)

// ErrInvalidCredentials covers both unknown email and wrong password so the two
// are indistinguishable to a caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUserInactive is returned when a deactivated account attempts to log in.
var ErrUserInactive = errors.New("user account is inactive")
