package service

import (
	"context"

	"github.com/fintrackhq/fintrack/internal/core/category/domain"
	"github.com/fintrackhq/fintrack/internal/core/category/repository"
	"github.com/fintrackhq/fintrack/pkg/logger"
)

// Cache is the read-through cache the service uses for listings. A nil
// cache disables caching entirely.
type Cache interface {
	GetCategories(ctx context.Context, dest any) (bool, error)
	SetCategories(ctx context.Context, categories any) error
	InvalidateCategories(ctx context.Context) error
}

// CategoryService handles category management with an optional listing cache.
type CategoryService struct {
	repo  repository.CategoryRepository
	cache Cache
	log   *logger.Logger
}

// NewCategoryService creates a new category service. cache may be nil.
func NewCategoryService(repo repository.CategoryRepository, cache Cache, log *logger.Logger) *CategoryService {
	return &CategoryService{repo: repo, cache: cache, log: log}
}

// Create validates and persists a new category.
func (s *CategoryService) Create(ctx context.Context, name, description, icon string) (*domain.Category, error) {
	category, err := domain.NewCategory(name, description, icon)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return category, nil
}

// GetByID retrieves a category by id.
func (s *CategoryService) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns every category, served from the cache when possible.
func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	if s.cache != nil {
		var cached []*domain.Category
		hit, err := s.cache.GetCategories(ctx, &cached)
		if err != nil {
			// A broken cache must not break reads.
			s.log.WithContext(ctx).WithError(err).Warn("category cache read failed")
		} else if hit {
			return cached, nil
		}
	}

	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetCategories(ctx, categories); err != nil {
			s.log.WithContext(ctx).WithError(err).Warn("category cache write failed")
		}
	}
	return categories, nil
}

// Update validates and rewrites a category.
func (s *CategoryService) Update(ctx context.Context, id int64, name, description, icon string) (*domain.Category, error) {
	category, err := domain.NewCategory(name, description, icon)
	if err != nil {
		return nil, err
	}
	category.ID = id

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return category, nil
}

// Delete removes a category. Referenced categories fail with Conflict.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCategories(ctx); err != nil {
		s.log.WithContext(ctx).WithError(err).Warn("category cache invalidation failed")
	}
}
