package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrackhq/fintrack/internal/core/ledger/domain"
	"github.com/fintrackhq/fintrack/internal/shared/apperr"
	"github.com/fintrackhq/fintrack/pkg/money"
)

func validParams() domain.NewTransactionParams {
	return domain.NewTransactionParams{
		OwnerID:       1,
		Kind:          domain.KindExpense,
		Amount:        money.MustParse("12.50"),
		Date:          time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Subject:       "Groceries",
		PaymentMethod: domain.PaymentDebitCard,
	}
}

func TestNewTransaction(t *testing.T) {
	t.Run("valid expense", func(t *testing.T) {
		tx, err := domain.NewTransaction(validParams())
		require.NoError(t, err)
		assert.Equal(t, "Groceries", tx.Subject)
		assert.True(t, tx.SignedAmount.Equal(money.MustParse("-12.50")))
		assert.True(t, tx.CumulativeDelta.IsZero())
		assert.Nil(t, tx.Notes)
	})

	t.Run("valid income keeps positive sign", func(t *testing.T) {
		p := validParams()
		p.Kind = domain.KindIncome
		p.Amount = money.MustParse("3000")

		tx, err := domain.NewTransaction(p)
		require.NoError(t, err)
		assert.True(t, tx.SignedAmount.Equal(money.MustParse("3000")))
	})

	t.Run("subject is trimmed", func(t *testing.T) {
		p := validParams()
		p.Subject = "  Rent  "

		tx, err := domain.NewTransaction(p)
		require.NoError(t, err)
		assert.Equal(t, "Rent", tx.Subject)
	})

	t.Run("date normalized to midnight utc", func(t *testing.T) {
		p := validParams()
		p.Date = time.Date(2026, 3, 15, 18, 42, 7, 0, time.FixedZone("CET", 3600))

		tx, err := domain.NewTransaction(p)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), tx.Date)
	})

	t.Run("whitespace notes become absent", func(t *testing.T) {
		p := validParams()
		notes := "   \t  "
		p.Notes = &notes

		tx, err := domain.NewTransaction(p)
		require.NoError(t, err)
		assert.Nil(t, tx.Notes)
	})

	t.Run("notes are trimmed", func(t *testing.T) {
		p := validParams()
		notes := "  paid in two installments  "
		p.Notes = &notes

		tx, err := domain.NewTransaction(p)
		require.NoError(t, err)
		require.NotNil(t, tx.Notes)
		assert.Equal(t, "paid in two installments", *tx.Notes)
	})
}

func TestNewTransactionValidation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*domain.NewTransactionParams)
		wantKind apperr.Kind
	}{
		{
			name:     "zero owner id",
			mutate:   func(p *domain.NewTransactionParams) { p.OwnerID = 0 },
			wantKind: apperr.KindInvalidOwnerID,
		},
		{
			name:     "unknown kind",
			mutate:   func(p *domain.NewTransactionParams) { p.Kind = "TRANSFER" },
			wantKind: apperr.KindInvalidKind,
		},
		{
			name:     "zero amount",
			mutate:   func(p *domain.NewTransactionParams) { p.Amount = money.MustParse("0") },
			wantKind: apperr.KindInvalidAmount,
		},
		{
			name:     "negative amount",
			mutate:   func(p *domain.NewTransactionParams) { p.Amount = money.MustParse("-5.00") },
			wantKind: apperr.KindInvalidAmount,
		},
		{
			name: "too many fractional digits",
			mutate: func(p *domain.NewTransactionParams) {
				p.Amount = p.Amount.Div(money.MustParse("3"))
			},
			wantKind: apperr.KindInvalidAmount,
		},
		{
			name: "date before 1900",
			mutate: func(p *domain.NewTransactionParams) {
				p.Date = time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)
			},
			wantKind: apperr.KindInvalidDate,
		},
		{
			name: "date more than a year ahead",
			mutate: func(p *domain.NewTransactionParams) {
				p.Date = time.Now().UTC().AddDate(1, 0, 1)
			},
			wantKind: apperr.KindInvalidDate,
		},
		{
			name:     "empty subject",
			mutate:   func(p *domain.NewTransactionParams) { p.Subject = "   " },
			wantKind: apperr.KindInvalidSubject,
		},
		{
			name:     "subject too long",
			mutate:   func(p *domain.NewTransactionParams) { p.Subject = strings.Repeat("x", 256) },
			wantKind: apperr.KindInvalidSubject,
		},
		{
			name:     "unknown payment method",
			mutate:   func(p *domain.NewTransactionParams) { p.PaymentMethod = "BARTER" },
			wantKind: apperr.KindInvalidPaymentMethod,
		},
		{
			name: "non-positive category id",
			mutate: func(p *domain.NewTransactionParams) {
				id := int64(0)
				p.CategoryID = &id
			},
			wantKind: apperr.KindInvalidCategoryID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)

			_, err := domain.NewTransaction(p)
			require.Error(t, err)
			assert.True(t, apperr.IsValidation(err))

			var list apperr.ValidationErrors
			require.ErrorAs(t, err, &list)
			assert.Contains(t, list.Kinds(), tt.wantKind)
		})
	}
}

func TestNewTransactionCollectsAllViolations(t *testing.T) {
	p := validParams()
	p.Subject = ""
	p.Amount = money.MustParse("0")
	p.PaymentMethod = "IOU"

	_, err := domain.NewTransaction(p)
	require.Error(t, err)

	var list apperr.ValidationErrors
	require.ErrorAs(t, err, &list)
	assert.Len(t, list, 3)
}

func TestParseKind(t *testing.T) {
	k, err := domain.ParseKind(" income ")
	require.NoError(t, err)
	assert.Equal(t, domain.KindIncome, k)

	_, err = domain.ParseKind("transfer")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidKind, apperr.KindOf(err))
}

func TestParsePaymentMethod(t *testing.T) {
	pm, err := domain.ParsePaymentMethod("debit_card")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentDebitCard, pm)

	_, err = domain.ParsePaymentMethod("check")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidPaymentMethod, apperr.KindOf(err))
}

func TestOrderedBefore(t *testing.T) {
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	a := &domain.Transaction{ID: 1, Date: base, CreatedAt: created}
	b := &domain.Transaction{ID: 2, Date: base.AddDate(0, 0, 1), CreatedAt: created}
	assert.True(t, a.OrderedBefore(b))
	assert.False(t, b.OrderedBefore(a))

	c := &domain.Transaction{ID: 3, Date: base, CreatedAt: created.Add(time.Second)}
	assert.True(t, a.OrderedBefore(c))

	d := &domain.Transaction{ID: 4, Date: base, CreatedAt: created}
	assert.True(t, a.OrderedBefore(d))
	assert.False(t, d.OrderedBefore(a))
}
