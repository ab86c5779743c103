package repository

import (
	"context"

	"github.com/fintrackhq/fintrack/internal/core/group/domain"
)

// GroupRepository is the persistence port for transaction groups.
type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) error
	GetByID(ctx context.Context, ownerID, id int64) (*domain.Group, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Group, error)
	Update(ctx context.Context, group *domain.Group) error
	// Delete removes the group; transactions referencing it keep their
	// rows with group_id set to null.
	Delete(ctx context.Context, ownerID, id int64) error
}
