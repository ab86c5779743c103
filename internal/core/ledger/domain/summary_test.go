package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fintrackhq/fintrack/internal/core/ledger/domain"
	"github.com/fintrackhq/fintrack/pkg/money"
)

func TestSummarize(t *testing.T) {
	t.Run("empty slice", func(t *testing.T) {
		s := domain.Summarize(nil)
		assert.Zero(t, s.Count)
		assert.True(t, s.TotalIncome.IsZero())
		assert.True(t, s.TotalExpenses.IsZero())
		assert.True(t, s.NetChange.IsZero())
	})

	t.Run("mixed kinds", func(t *testing.T) {
		txs := []*domain.Transaction{
			{Kind: domain.KindIncome, Amount: money.MustParse("3000.00")},
			{Kind: domain.KindExpense, Amount: money.MustParse("120.50")},
			{Kind: domain.KindExpense, Amount: money.MustParse("79.50")},
		}

		s := domain.Summarize(txs)
		assert.Equal(t, 3, s.Count)
		assert.Equal(t, 1, s.IncomeCount)
		assert.Equal(t, 2, s.ExpenseCount)
		assert.True(t, s.TotalIncome.Equal(money.MustParse("3000.00")))
		assert.True(t, s.TotalExpenses.Equal(money.MustParse("200.00")))
		assert.True(t, s.NetChange.Equal(money.MustParse("2800.00")))
	})
}
