package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/core/ledger/domain"
)

// SortField is the secondary sort key for filtered listings. The primary
// key is always the transaction date.
type SortField string

const (
	SortBySubject       SortField = "subject"
	SortByPaymentMethod SortField = "payment_method"
	SortByCategory      SortField = "category"
	SortByAmount        SortField = "amount"
)

// Valid reports whether f is a known sort field.
func (f SortField) Valid() bool {
	switch f {
	case SortBySubject, SortByPaymentMethod, SortByCategory, SortByAmount:
		return true
	}
	return false
}

// ListOptions narrows and orders a filtered listing. Zero-valued fields are
// ignored; Descending defaults to true when nil.
type ListOptions struct {
	Subject        string
	CategoryIDs    []int64
	PaymentMethods []domain.PaymentMethod
	Kind           *domain.Kind
	DateFrom       *time.Time
	DateTo         *time.Time
	SortBy         SortField
	Descending     *bool
}

// IsDescending resolves the sort direction, defaulting to newest-first.
func (o ListOptions) IsDescending() bool {
	if o.Descending == nil {
		return true
	}
	return *o.Descending
}

// TransactionRepository is the persistence port of the ledger. Every write
// keeps the owner's cumulative deltas consistent with the ordered prefix
// sum of signed amounts; implementations repair subsequent rows in the
// same atomic unit as the triggering change.
type TransactionRepository interface {
	Insert(ctx context.Context, tx *domain.Transaction) error
	Update(ctx context.Context, tx *domain.Transaction) error
	Delete(ctx context.Context, ownerID, id int64) error

	GetByID(ctx context.Context, ownerID, id int64) (*domain.Transaction, error)
	ListAll(ctx context.Context) ([]*domain.Transaction, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Transaction, error)
	ListByOwnerFiltered(ctx context.Context, ownerID int64, opts ListOptions) ([]*domain.Transaction, error)
	ListByOwnerAndKind(ctx context.Context, ownerID int64, kind domain.Kind) ([]*domain.Transaction, error)
	ListByOwnerAndDateRange(ctx context.Context, ownerID int64, from, to time.Time) ([]*domain.Transaction, error)

	// LastCumulativeDelta returns the cumulative delta of the owner's last
	// row under the ordering key, or zero when the ledger is empty.
	LastCumulativeDelta(ctx context.Context, ownerID int64) (decimal.Decimal, error)
}
