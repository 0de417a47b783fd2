package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventify/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	regRepo        domain.RegistrationRepository
	locationRepo   domain.LocationRepository
	categoryRepo   domain.CategoryRepository
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

// NewEventService creates an EventService with the given repositories.
func NewEventService(
	eventRepo domain.EventRepository,
	regRepo domain.RegistrationRepository,
	locationRepo domain.LocationRepository,
	categoryRepo domain.CategoryRepository,
	userRepo domain.UserRepository,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		regRepo:        regRepo,
		locationRepo:   locationRepo,
		categoryRepo:   categoryRepo,
		userRepo:       userRepo,
		contextTimeout: timeout,
	}
}

func (s *eventService) List(ctx context.Context, filter domain.EventFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.List(ctx, filter, params)
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.EventDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return s.buildDetail(ctx, event)
}

func (s *eventService) ListMyEvents(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.ListByOrganizerID(ctx, organizerID)
}

// Create adds a new event. Events always start in Draft with zero
// registrations; the organizer is the requester, never caller-supplied.
func (s *eventService) Create(ctx context.Context, event *domain.Event, requesterID string, requesterRole domain.Role) (*domain.EventDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !requesterRole.CanManageEvents() {
		return nil, domain.ErrForbidden
	}
	if err := validateEventFields(event.Title, event.StartDate, event.EndDate, event.Capacity); err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.GetByID(ctx, event.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: category", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	if _, err := s.locationRepo.GetByID(ctx, event.LocationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: location", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get location: %w", err)
	}

	now := time.Now()
	event.Status = domain.EventStatusDraft
	event.RegisteredCount = 0
	event.OrganizerID = requesterID
	event.CreatedAt = now
	event.UpdatedAt = now

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return s.buildDetail(ctx, event)
}

// Update applies a partial update. Status and registered count never change
// through this path, and capacity cannot drop below the current registrations.
func (s *eventService) Update(ctx context.Context, id string, patch domain.EventPatch, requesterID string, requesterRole domain.Role) (*domain.EventDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !canManageEvent(event, requesterID, requesterRole) {
		return nil, domain.ErrForbidden
	}

	if patch.Title != nil {
		event.Title = *patch.Title
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.StartDate != nil {
		event.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		event.EndDate = *patch.EndDate
	}
	if patch.Capacity != nil {
		event.Capacity = *patch.Capacity
	}
	if patch.ImageURL != nil {
		event.ImageURL = patch.ImageURL
	}
	if patch.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *patch.CategoryID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: category", domain.ErrNotFound)
			}
			return nil, fmt.Errorf("get category: %w", err)
		}
		event.CategoryID = *patch.CategoryID
	}
	if patch.LocationID != nil {
		if _, err := s.locationRepo.GetByID(ctx, *patch.LocationID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: location", domain.ErrNotFound)
			}
			return nil, fmt.Errorf("get location: %w", err)
		}
		event.LocationID = *patch.LocationID
	}

	if err := validateEventFields(event.Title, event.StartDate, event.EndDate, event.Capacity); err != nil {
		return nil, err
	}
	if event.Capacity < event.RegisteredCount {
		return nil, domain.ErrCapacityTooSmall
	}

	updated, err := s.eventRepo.Update(ctx, event)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrCapacityTooSmall):
			return nil, err
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return s.buildDetail(ctx, updated)
}

func (s *eventService) Delete(ctx context.Context, id string, requesterID string, requesterRole domain.Role) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if !canManageEvent(event, requesterID, requesterRole) {
		return domain.ErrForbidden
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrEventHasRegistrations):
			return err
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// Publish moves a Draft event to Published, opening it for registrations.
func (s *eventService) Publish(ctx context.Context, id string, requesterID string, requesterRole domain.Role) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !canManageEvent(event, requesterID, requesterRole) {
		return nil, domain.ErrForbidden
	}
	if event.Status != domain.EventStatusDraft {
		return nil, domain.ErrEventNotDraft
	}
	updated, err := s.eventRepo.UpdateStatus(ctx, id, domain.EventStatusPublished)
	if err != nil {
		return nil, fmt.Errorf("publish event: %w", err)
	}
	return updated, nil
}

// Cancel moves an event to Cancelled. Existing registrations are untouched;
// attendees keep their rows and the event simply stops accepting new ones.
func (s *eventService) Cancel(ctx context.Context, id string, requesterID string, requesterRole domain.Role) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !canManageEvent(event, requesterID, requesterRole) {
		return nil, domain.ErrForbidden
	}
	if event.Status == domain.EventStatusCompleted || event.Status == domain.EventStatusCancelled {
		return nil, domain.ErrEventNotCancelable
	}
	updated, err := s.eventRepo.UpdateStatus(ctx, id, domain.EventStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("cancel event: %w", err)
	}
	return updated, nil
}

// Stats assembles the admin dashboard aggregates.
func (s *eventService) Stats(ctx context.Context, requesterRole domain.Role) (*domain.EventStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if requesterRole != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	total, err := s.eventRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	active, err := s.eventRepo.CountActive(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("count active events: %w", err)
	}
	totalRegs, err := s.regRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	avgOccupancy, err := s.eventRepo.AverageOccupancy(ctx)
	if err != nil {
		return nil, fmt.Errorf("average occupancy: %w", err)
	}
	byCategory, err := s.eventRepo.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("events by category: %w", err)
	}
	byStatus, err := s.eventRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("events by status: %w", err)
	}
	byMonth, err := s.regRepo.CountByMonth(ctx, now.AddDate(-1, 0, 0))
	if err != nil {
		return nil, fmt.Errorf("registrations by month: %w", err)
	}

	return &domain.EventStats{
		TotalEvents:          total,
		ActiveEvents:         active,
		TotalRegistrations:   totalRegs,
		AverageOccupancy:     avgOccupancy,
		EventsByCategory:     byCategory,
		RegistrationsByMonth: byMonth,
		EventsByStatus:       byStatus,
	}, nil
}

func (s *eventService) buildDetail(ctx context.Context, event *domain.Event) (*domain.EventDetail, error) {
	detail := &domain.EventDetail{Event: event}
	if loc, err := s.locationRepo.GetByID(ctx, event.LocationID); err == nil {
		detail.Location = loc
	}
	if cat, err := s.categoryRepo.GetByID(ctx, event.CategoryID); err == nil {
		detail.Category = cat
	}
	if organizer, err := s.userRepo.GetByID(ctx, event.OrganizerID); err == nil {
		detail.Organizer = organizer.Summary()
	}
	return detail, nil
}

func validateEventFields(title string, start, end time.Time, capacity int) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", domain.ErrInvalidInput)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end date must not be before start date", domain.ErrInvalidInput)
	}
	return nil
}
