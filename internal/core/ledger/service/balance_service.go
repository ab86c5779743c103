package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/core/ledger/repository"
	ownerrepo "github.com/fintrackhq/fintrack/internal/core/owner/repository"
	"github.com/fintrackhq/fintrack/internal/shared/apperr"
	"github.com/fintrackhq/fintrack/pkg/money"
)

// Balance is an owner's balance report. CurrentBalance is always
// InitialBalance plus the cumulative delta of the last ledger row.
type Balance struct {
	InitialBalance  decimal.Decimal
	CumulativeDelta decimal.Decimal
	CurrentBalance  decimal.Decimal
}

// BalanceService reports and adjusts owner balances. It never touches
// ledger rows: the current balance is derived, not stored.
type BalanceService struct {
	owners ownerrepo.OwnerRepository
	txRepo repository.TransactionRepository
}

// NewBalanceService creates a balance service.
func NewBalanceService(owners ownerrepo.OwnerRepository, txRepo repository.TransactionRepository) *BalanceService {
	return &BalanceService{owners: owners, txRepo: txRepo}
}

// GetBalance returns the owner's balance report. An empty ledger
// contributes a zero delta.
func (s *BalanceService) GetBalance(ctx context.Context, ownerID int64) (*Balance, error) {
	owner, err := s.owners.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	delta, err := s.txRepo.LastCumulativeDelta(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return &Balance{
		InitialBalance:  owner.InitialBalance,
		CumulativeDelta: delta,
		CurrentBalance:  owner.InitialBalance.Add(delta),
	}, nil
}

// SetInitialBalance updates the owner's starting balance. Cumulative
// deltas are untouched, so the current balance shifts uniformly.
func (s *BalanceService) SetInitialBalance(ctx context.Context, ownerID int64, value decimal.Decimal) error {
	if !money.HasValidScale(value) {
		return apperr.New(apperr.KindInvalidAmount, "initial balance must have at most two fractional digits")
	}
	return s.owners.UpdateInitialBalance(ctx, ownerID, value)
}
