package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventify/internal/domain"
)

type userService struct {
	userRepo       domain.UserRepository
	contextTimeout time.Duration
}

// NewUserService creates a UserService backed by the given repository.
func NewUserService(userRepo domain.UserRepository, timeout time.Duration) domain.UserService {
	return &userService{userRepo: userRepo, contextTimeout: timeout}
}

func (s *userService) List(ctx context.Context, search string, params domain.PaginationParams, requesterRole domain.Role) ([]*domain.User, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if requesterRole != domain.RoleAdmin {
		return nil, 0, domain.ErrForbidden
	}
	return s.userRepo.List(ctx, search, params)
}

func (s *userService) GetByID(ctx context.Context, id string, requesterID string, requesterRole domain.Role) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if id != requesterID && requesterRole != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) UpdateProfile(ctx context.Context, userID, firstName, lastName string, avatarURL *string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, fmt.Errorf("%w: first and last name are required", domain.ErrInvalidInput)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.FirstName = firstName
	user.LastName = lastName
	user.AvatarURL = avatarURL
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *userService) SetRole(ctx context.Context, id string, role domain.Role, requesterRole domain.Role) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if requesterRole != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}
	return s.userRepo.SetRole(ctx, id, role)
}

func (s *userService) SetActive(ctx context.Context, id string, active bool, requesterRole domain.Role) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if requesterRole != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return s.userRepo.SetActive(ctx, id, active)
}
