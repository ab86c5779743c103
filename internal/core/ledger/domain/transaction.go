package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack/internal/shared/apperr"
	"github.com/fintrackhq/fintrack/pkg/money"
)

// MinDate is the earliest calendar date a transaction may carry.
var MinDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

const maxSubjectLen = 255

// Transaction is a single row of an owner's ledger. SignedAmount is always
// derived from (Kind, Amount); CumulativeDelta is maintained by the store as
// the running sum of SignedAmount over the owner's rows in
// (date, created_at, id) order.
type Transaction struct {
	ID              int64
	OwnerID         int64
	Kind            Kind
	Amount          decimal.Decimal
	SignedAmount    decimal.Decimal
	CumulativeDelta decimal.Decimal
	Date            time.Time
	Subject         string
	Notes           *string
	PaymentMethod   PaymentMethod
	CategoryID      *int64
	GroupID         *int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewTransactionParams carries the caller-supplied fields of a transaction.
// Enum fields arrive already parsed; see ParseKind and ParsePaymentMethod.
type NewTransactionParams struct {
	OwnerID       int64
	Kind          Kind
	Amount        decimal.Decimal
	Date          time.Time
	Subject       string
	Notes         *string
	PaymentMethod PaymentMethod
	CategoryID    *int64
	GroupID       *int64
}

// NewTransaction validates and normalizes params into a Transaction. All
// invariant violations are reported together as apperr.ValidationErrors.
// CumulativeDelta starts at zero; the store overwrites it on insert.
func NewTransaction(p NewTransactionParams) (*Transaction, error) {
	var errs apperr.ValidationErrors

	if p.OwnerID <= 0 {
		errs = append(errs, apperr.New(apperr.KindInvalidOwnerID, "owner id must be positive"))
	}

	if !p.Kind.Valid() {
		errs = append(errs, apperr.Newf(apperr.KindInvalidKind, "unknown transaction kind %q", string(p.Kind)))
	}

	if !p.Amount.IsPositive() {
		errs = append(errs, apperr.New(apperr.KindInvalidAmount, "amount must be positive"))
	} else if !money.HasValidScale(p.Amount) {
		errs = append(errs, apperr.New(apperr.KindInvalidAmount, "amount must have at most two fractional digits"))
	}

	date := DateOnly(p.Date)
	if date.Before(MinDate) || date.After(MaxDate()) {
		errs = append(errs, apperr.Newf(apperr.KindInvalidDate, "date %s out of range", date.Format(time.DateOnly)))
	}

	subject := strings.TrimSpace(p.Subject)
	if subject == "" {
		errs = append(errs, apperr.New(apperr.KindInvalidSubject, "subject must not be empty"))
	} else if len(subject) > maxSubjectLen {
		errs = append(errs, apperr.Newf(apperr.KindInvalidSubject, "subject longer than %d characters", maxSubjectLen))
	}

	if !p.PaymentMethod.Valid() {
		errs = append(errs, apperr.Newf(apperr.KindInvalidPaymentMethod, "unknown payment method %q", string(p.PaymentMethod)))
	}

	if p.CategoryID != nil && *p.CategoryID <= 0 {
		errs = append(errs, apperr.New(apperr.KindInvalidCategoryID, "category id must be positive"))
	}

	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	return &Transaction{
		OwnerID:         p.OwnerID,
		Kind:            p.Kind,
		Amount:          p.Amount,
		SignedAmount:    signedAmount(p.Kind, p.Amount),
		CumulativeDelta: decimal.Zero,
		Date:            date,
		Subject:         subject,
		Notes:           normalizeNotes(p.Notes),
		PaymentMethod:   p.PaymentMethod,
		CategoryID:      p.CategoryID,
		GroupID:         p.GroupID,
	}, nil
}

// MaxDate is the latest admissible transaction date: one year from today.
func MaxDate() time.Time {
	return DateOnly(time.Now().UTC().AddDate(1, 0, 0))
}

// DateOnly strips the time-of-day component, normalizing to UTC midnight.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func signedAmount(kind Kind, amount decimal.Decimal) decimal.Decimal {
	if kind == KindExpense {
		return amount.Neg()
	}
	return amount
}

// normalizeNotes trims notes and turns whitespace-only notes into absent.
func normalizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// OrderedBefore reports whether t precedes other in the owner's ledger
// sequence: (date, created_at) ascending with id as the final tie-break.
func (t *Transaction) OrderedBefore(other *Transaction) bool {
	if !t.Date.Equal(other.Date) {
		return t.Date.Before(other.Date)
	}
	if !t.CreatedAt.Equal(other.CreatedAt) {
		return t.CreatedAt.Before(other.CreatedAt)
	}
	return t.ID < other.ID
}
