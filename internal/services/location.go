package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventify/internal/domain"
)

type locationService struct {
	locationRepo   domain.LocationRepository
	contextTimeout time.Duration
}

// NewLocationService creates a LocationService backed by the given repository.
func NewLocationService(locationRepo domain.LocationRepository, timeout time.Duration) domain.LocationService {
	return &locationService{locationRepo: locationRepo, contextTimeout: timeout}
}

func (s *locationService) List(ctx context.Context, search string, isActive *bool, params domain.PaginationParams, requesterRole domain.Role) ([]*domain.Location, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if requesterRole != domain.RoleAdmin {
		return nil, 0, domain.ErrForbidden
	}
	return s.locationRepo.List(ctx, search, isActive, params)
}

func (s *locationService) ListActive(ctx context.Context) ([]*domain.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.locationRepo.ListActive(ctx)
}

func (s *locationService) GetByID(ctx context.Context, id string) (*domain.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.locationRepo.GetByID(ctx, id)
}

func (s *locationService) Create(ctx context.Context, loc *domain.Location, requesterRole domain.Role) (*domain.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if requesterRole != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if err := validateLocationFields(loc); err != nil {
		return nil, err
	}
	now := time.Now()
	loc.IsActive = true
	loc.CreatedAt = now
	loc.UpdatedAt = now
	if err := s.locationRepo.Create(ctx, loc); err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	return loc, nil
}

func (s *locationService) Update(ctx context.Context, loc *domain.Location, requesterRole domain.Role) (*domain.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if requesterRole != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if err := validateLocationFields(loc); err != nil {
		return nil, err
	}
	if err := s.locationRepo.Update(ctx, loc); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update location: %w", err)
	}
	return loc, nil
}

// Delete removes a venue. Venues referenced by any event, past or future,
// cannot be deleted; deactivate them instead.
func (s *locationService) Delete(ctx context.Context, id string, requesterRole domain.Role) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if requesterRole != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	count, err := s.locationRepo.CountEvents(ctx, id)
	if err != nil {
		return fmt.Errorf("count location events: %w", err)
	}
	if count > 0 {
		return domain.ErrLocationInUse
	}
	if err := s.locationRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}

func validateLocationFields(loc *domain.Location) error {
	if strings.TrimSpace(loc.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(loc.Address) == "" {
		return fmt.Errorf("%w: address is required", domain.ErrInvalidInput)
	}
	if loc.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", domain.ErrInvalidInput)
	}
	return nil
}
