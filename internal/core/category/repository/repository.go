package repository

import (
	"context"

	"github.com/fintrackhq/fintrack/internal/core/category/domain"
)

// CategoryRepository is the persistence port for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	// Delete fails with Conflict while any transaction still references
	// the category.
	Delete(ctx context.Context, id int64) error
}
