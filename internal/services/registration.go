package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventify/internal/domain"
)

type registrationService struct {
	regRepo        domain.RegistrationRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	locationRepo   domain.LocationRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewRegistrationService creates a RegistrationService with the given dependencies.
func NewRegistrationService(
	regRepo domain.RegistrationRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	locationRepo domain.LocationRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		regRepo:        regRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		locationRepo:   locationRepo,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// Register claims a seat on a published, not-yet-ended event. The precondition
// checks here give fast errors; the repository re-checks capacity and the
// one-row-per-(user, event) rule atomically, so racing requests cannot
// oversell the event.
func (s *registrationService) Register(ctx context.Context, eventID, userID string, notes *string) (*domain.RegistrationDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Status != domain.EventStatusPublished {
		return nil, domain.ErrEventNotPublished
	}
	if event.EndDate.Before(time.Now()) {
		return nil, domain.ErrEventEnded
	}

	// A cancelled registration also blocks: one row per (user, event).
	if _, err := s.regRepo.GetByEventAndUser(ctx, eventID, userID); err == nil {
		return nil, domain.ErrAlreadyRegistered
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get registration: %w", err)
	}

	if event.RegisteredCount >= event.Capacity {
		return nil, domain.ErrEventFull
	}

	reg := domain.NewRegistration(eventID, userID, notes, time.Now())
	if err := s.regRepo.Create(ctx, reg); err != nil {
		switch {
		case errors.Is(err, domain.ErrEventFull), errors.Is(err, domain.ErrAlreadyRegistered), errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}
	event.RegisteredCount++

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	s.sendConfirmation(ctx, user, event)

	return &domain.RegistrationDetail{
		Registration: reg,
		Event:        event,
		User:         user.Summary(),
	}, nil
}

func (s *registrationService) sendConfirmation(ctx context.Context, user *domain.User, event *domain.Event) {
	locationName := ""
	if loc, err := s.locationRepo.GetByID(ctx, event.LocationID); err == nil {
		locationName = loc.Name
	}
	err := s.emailService.SendRegistrationConfirmed(ctx, &domain.RegistrationConfirmedEmailData{
		Email:      user.Email,
		FirstName:  user.FirstName,
		EventTitle: event.Title,
		StartDate:  event.StartDate.Format("Monday, 2 January 2006 at 15:04"),
		Location:   locationName,
	})
	if err != nil {
		// The seat is already committed; the email is best effort.
		s.logger.Warn("failed to send registration confirmation", "email", user.Email, "event_id", event.ID, "error", err)
	}
}

// CancelRegistration is owner-only. Cancelling releases the seat; the
// registration row stays and keeps blocking re-registration.
func (s *registrationService) CancelRegistration(ctx context.Context, registrationID, requesterID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get registration: %w", err)
	}
	if reg.UserID != requesterID {
		return domain.ErrForbidden
	}
	if reg.Status == domain.RegistrationStatusCancelled {
		return domain.ErrAlreadyCancelled
	}

	event, err := s.eventRepo.GetByID(ctx, reg.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.EndDate.Before(time.Now()) {
		return domain.ErrEventEnded
	}

	return s.regRepo.Cancel(ctx, reg.ID, event.ID)
}

// UpdateStatus lets the event organizer or an admin override any registration
// status. The seat count only moves when the transition crosses the Cancelled
// boundary, and an un-cancel is capacity-guarded like a fresh registration.
func (s *registrationService) UpdateStatus(ctx context.Context, registrationID string, newStatus domain.RegistrationStatus, requesterID string, requesterRole domain.Role) (*domain.RegistrationDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !newStatus.Valid() {
		return nil, fmt.Errorf("%w: unknown registration status %q", domain.ErrInvalidInput, newStatus)
	}

	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	event, err := s.eventRepo.GetByID(ctx, reg.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !canManageEvent(event, requesterID, requesterRole) {
		return nil, domain.ErrForbidden
	}

	delta := domain.CountDelta(reg.Status, newStatus)
	if err := s.regRepo.UpdateStatus(ctx, reg.ID, event.ID, newStatus, delta); err != nil {
		switch {
		case errors.Is(err, domain.ErrEventFull), errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
		return nil, fmt.Errorf("update registration status: %w", err)
	}
	reg.Status = newStatus
	event.RegisteredCount += delta

	detail := &domain.RegistrationDetail{Registration: reg, Event: event}
	if user, err := s.userRepo.GetByID(ctx, reg.UserID); err == nil {
		detail.User = user.Summary()
	}
	return detail, nil
}

func (s *registrationService) GetByID(ctx context.Context, registrationID, requesterID string, requesterRole domain.Role) (*domain.RegistrationDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	event, err := s.eventRepo.GetByID(ctx, reg.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if reg.UserID != requesterID && !canManageEvent(event, requesterID, requesterRole) {
		return nil, domain.ErrForbidden
	}

	detail := &domain.RegistrationDetail{Registration: reg, Event: event}
	if user, err := s.userRepo.GetByID(ctx, reg.UserID); err == nil {
		detail.User = user.Summary()
	}
	return detail, nil
}

func (s *registrationService) ListMyRegistrations(ctx context.Context, userID string) ([]*domain.RegistrationWithEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	regs, err := s.regRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	out := make([]*domain.RegistrationWithEvent, 0, len(regs))
	for _, reg := range regs {
		event, err := s.eventRepo.GetByID(ctx, reg.EventID)
		if err != nil {
			return nil, fmt.Errorf("get event %s: %w", reg.EventID, err)
		}
		out = append(out, &domain.RegistrationWithEvent{Registration: reg, Event: event})
	}
	return out, nil
}

func (s *registrationService) ListEventRegistrations(ctx context.Context, eventID, requesterID string, requesterRole domain.Role) ([]*domain.RegistrationDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !canManageEvent(event, requesterID, requesterRole) {
		return nil, domain.ErrForbidden
	}

	regs, err := s.regRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	out := make([]*domain.RegistrationDetail, 0, len(regs))
	for _, reg := range regs {
		detail := &domain.RegistrationDetail{Registration: reg}
		if user, err := s.userRepo.GetByID(ctx, reg.UserID); err == nil {
			detail.User = user.Summary()
		}
		out = append(out, detail)
	}
	return out, nil
}

// canManageEvent reports whether the requester may administer the event: its
// organizer, or any admin.
func canManageEvent(event *domain.Event, requesterID string, requesterRole domain.Role) bool {
	if requesterRole == domain.RoleAdmin {
		return true
	}
	return requesterRole.CanManageEvents() && event.OrganizerID == requesterID
}
