package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/core/owner/domain"
)

// OwnerRepository is the persistence port for owners.
type OwnerRepository interface {
	Create(ctx context.Context, owner *domain.Owner) error
	GetByID(ctx context.Context, id int64) (*domain.Owner, error)
	GetByEmail(ctx context.Context, email string) (*domain.Owner, error)
	Update(ctx context.Context, owner *domain.Owner) error
	UpdateInitialBalance(ctx context.Context, id int64, balance decimal.Decimal) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}
