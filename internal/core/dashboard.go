package core

import (
	"sort"
)

// RecentTransactionsLimit caps DashboardSummary.RecentTransactions.
const RecentTransactionsLimit = 10

type DashboardSummary struct {
	TotalIncome         Money
	TotalExpense        Money
	Balance             Money
	CategoryWiseExpense map[string]Money
	CategoryWiseIncome  map[string]Money
	RecentTransactions  []Transaction
}

// Summarize folds txs into a DashboardSummary. Transfers move money between
// accounts and do not count as income or expense. txs is not modified.
func Summarize(txs []Transaction, limit int) DashboardSummary {
	s := DashboardSummary{
		CategoryWiseExpense: make(map[string]Money),
		CategoryWiseIncome:  make(map[string]Money),
	}

	for _, t := range txs {
		switch t.Type {
		case Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
			s.CategoryWiseIncome[t.Category] = s.CategoryWiseIncome[t.Category].Add(t.Amount)
		case Expense:
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
			s.CategoryWiseExpense[t.Category] = s.CategoryWiseExpense[t.Category].Add(t.Amount)
		}
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpense)

	recent := make([]Transaction, len(txs))
	copy(recent, txs)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].TransactionDate.After(recent[j].TransactionDate)
	})
	if limit >= 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	s.RecentTransactions = recent

	return s
}
