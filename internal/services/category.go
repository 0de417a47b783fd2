package services

import (
	"context"
	"time"

	"eventify/internal/domain"
)

type categoryService struct {
	categoryRepo   domain.CategoryRepository
	contextTimeout time.Duration
}

// NewCategoryService creates a CategoryService backed by the given repository.
func NewCategoryService(categoryRepo domain.CategoryRepository, timeout time.Duration) domain.CategoryService {
	return &categoryService{categoryRepo: categoryRepo, contextTimeout: timeout}
}

func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.categoryRepo.List(ctx)
}

func (s *categoryService) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.categoryRepo.GetByID(ctx, id)
}
