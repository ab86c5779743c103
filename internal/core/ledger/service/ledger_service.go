package service

import (
	"context"
	"time"

	"github.com/fintrackhq/fintrack/internal/core/ledger/domain"
	"github.com/fintrackhq/fintrack/internal/core/ledger/repository"
	ownerrepo "github.com/fintrackhq/fintrack/internal/core/owner/repository"
	"github.com/fintrackhq/fintrack/internal/shared/apperr"
	"github.com/fintrackhq/fintrack/pkg/logger"
)

// UnitOfWork runs a mutation inside one serializable storage transaction,
// retrying serialization conflicts.
type UnitOfWork interface {
	RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Listing is the result of a read over the ledger: the matching rows plus
// the summary computed from them.
type Listing struct {
	Transactions []*domain.Transaction
	Summary      domain.Summary
}

// LedgerService orchestrates ledger mutations and reads. It validates
// through the domain constructors, pre-checks owner existence for friendly
// errors, and defers all delta bookkeeping to the repository inside a
// serializable unit-of-work.
type LedgerService struct {
	txRepo  repository.TransactionRepository
	owners  ownerrepo.OwnerRepository
	uow     UnitOfWork
	log     *logger.Logger
	timeout time.Duration
}

// NewLedgerService creates a ledger service. timeout bounds each storage
// operation and falls back to 30s when non-positive.
func NewLedgerService(txRepo repository.TransactionRepository, owners ownerrepo.OwnerRepository, uow UnitOfWork, log *logger.Logger, timeout time.Duration) *LedgerService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LedgerService{
		txRepo:  txRepo,
		owners:  owners,
		uow:     uow,
		log:     log,
		timeout: timeout,
	}
}

// Create validates params and inserts the transaction, repairing all
// subsequent cumulative deltas atomically.
func (s *LedgerService) Create(ctx context.Context, params domain.NewTransactionParams) (*domain.Transaction, error) {
	tx, err := domain.NewTransaction(params)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// The store enforces this authoritatively via the foreign key; checking
	// here gives the caller a clean error without burning a unit-of-work.
	exists, err := s.owners.Exists(ctx, tx.OwnerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.Newf(apperr.KindOwnerNotFound, "owner %d does not exist", tx.OwnerID)
	}

	err = s.uow.RunSerializable(ctx, func(ctx context.Context) error {
		return s.txRepo.Insert(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).Info("transaction created",
		"transaction_id", tx.ID,
		"owner_id", tx.OwnerID,
		"kind", string(tx.Kind),
	)
	return tx, nil
}

// Update validates params and rewrites the identified transaction,
// repairing cumulative deltas for whatever span the edit disturbed.
func (s *LedgerService) Update(ctx context.Context, id int64, params domain.NewTransactionParams) (*domain.Transaction, error) {
	tx, err := domain.NewTransaction(params)
	if err != nil {
		return nil, err
	}
	tx.ID = id

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err = s.uow.RunSerializable(ctx, func(ctx context.Context) error {
		return s.txRepo.Update(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).Info("transaction updated",
		"transaction_id", tx.ID,
		"owner_id", tx.OwnerID,
	)
	return tx, nil
}

// Delete removes the owner's transaction and repairs the suffix. Ownership
// authorization is the calling layer's concern.
func (s *LedgerService) Delete(ctx context.Context, ownerID, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.uow.RunSerializable(ctx, func(ctx context.Context) error {
		return s.txRepo.Delete(ctx, ownerID, id)
	})
	if err != nil {
		return err
	}

	s.log.WithContext(ctx).Info("transaction deleted",
		"transaction_id", id,
		"owner_id", ownerID,
	)
	return nil
}

// Get fetches a single transaction scoped to its owner.
func (s *LedgerService) Get(ctx context.Context, ownerID, id int64) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.txRepo.GetByID(ctx, ownerID, id)
}

// ListAll returns every transaction across owners with its summary.
func (s *LedgerService) ListAll(ctx context.Context) (*Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.listing(s.txRepo.ListAll(ctx))
}

// ListByOwner returns the owner's ledger with its summary.
func (s *LedgerService) ListByOwner(ctx context.Context, ownerID int64) (*Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.listing(s.txRepo.ListByOwner(ctx, ownerID))
}

// ListByOwnerFiltered applies the listing options.
func (s *LedgerService) ListByOwnerFiltered(ctx context.Context, ownerID int64, opts repository.ListOptions) (*Listing, error) {
	if opts.DateFrom != nil && opts.DateTo != nil && opts.DateFrom.After(*opts.DateTo) {
		return nil, apperr.New(apperr.KindInvalidDateRange, "date_from is after date_to")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.listing(s.txRepo.ListByOwnerFiltered(ctx, ownerID, opts))
}

// ListByOwnerAndKind returns the owner's transactions of one kind.
func (s *LedgerService) ListByOwnerAndKind(ctx context.Context, ownerID int64, kind domain.Kind) (*Listing, error) {
	if !kind.Valid() {
		return nil, apperr.Newf(apperr.KindInvalidKind, "unknown transaction kind %q", string(kind))
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.listing(s.txRepo.ListByOwnerAndKind(ctx, ownerID, kind))
}

// ListByOwnerAndDateRange returns the owner's transactions with dates in
// [from, to]. A from after to is rejected as InvalidDateRange.
func (s *LedgerService) ListByOwnerAndDateRange(ctx context.Context, ownerID int64, from, to time.Time) (*Listing, error) {
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if from.After(to) {
		return nil, apperr.New(apperr.KindInvalidDateRange, "range start is after range end")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.listing(s.txRepo.ListByOwnerAndDateRange(ctx, ownerID, from, to))
}

func (s *LedgerService) listing(txs []*domain.Transaction, err error) (*Listing, error) {
	if err != nil {
		return nil, err
	}
	return &Listing{
		Transactions: txs,
		Summary:      domain.Summarize(txs),
	}, nil
}
