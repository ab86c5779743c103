package domain

import "github.com/shopspring/decimal"

// Summary aggregates the transactions returned by a listing. Totals cover
// the returned slice only, never the whole ledger.
type Summary struct {
	Count         int
	IncomeCount   int
	ExpenseCount  int
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	NetChange     decimal.Decimal
}

// Summarize computes the listing summary for txs.
func Summarize(txs []*Transaction) Summary {
	s := Summary{
		Count:         len(txs),
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, tx := range txs {
		switch tx.Kind {
		case KindIncome:
			s.IncomeCount++
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
		case KindExpense:
			s.ExpenseCount++
			s.TotalExpenses = s.TotalExpenses.Add(tx.Amount)
		}
	}
	s.NetChange = s.TotalIncome.Sub(s.TotalExpenses)
	return s
}
