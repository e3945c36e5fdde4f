package core

import (
	"testing"
	"time"
)

func tx(id int64, typ TransactionType, cents int64, category string, day int) Transaction {
	return Transaction{
		ID:              id,
		Type:            typ,
		Amount:          Money{Cents: cents},
		Category:        category,
		TransactionDate: time.Date(2024, 1, day, 12, 0, 0, 0, time.UTC),
	}
}

func TestSummarizeIncomeAndExpense(t *testing.T) {
	s := Summarize([]Transaction{
		tx(1, Income, 20000, "Salary", 1),
		tx(2, Expense, 5000, "Food", 2),
	}, RecentTransactionsLimit)

	if s.TotalIncome.Cents != 20000 || s.TotalExpense.Cents != 5000 || s.Balance.Cents != 15000 {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if s.CategoryWiseIncome["Salary"].Cents != 20000 || len(s.CategoryWiseIncome) != 1 {
		t.Fatalf("unexpected income map: %v", s.CategoryWiseIncome)
	}
	if s.CategoryWiseExpense["Food"].Cents != 5000 || len(s.CategoryWiseExpense) != 1 {
		t.Fatalf("unexpected expense map: %v", s.CategoryWiseExpense)
	}
	if len(s.RecentTransactions) != 2 || s.RecentTransactions[0].ID != 2 {
		t.Fatalf("expected newest first, got %+v", s.RecentTransactions)
	}
}

func TestSummarizeExcludesTransfers(t *testing.T) {
	s := Summarize([]Transaction{
		tx(1, Transfer, 100000, "Move", 1),
		tx(2, Expense, 1000, "Food", 2),
		tx(3, Expense, 500, "Food", 3),
	}, RecentTransactionsLimit)

	if s.TotalIncome.Cents != 0 || s.TotalExpense.Cents != 1500 || s.Balance.Cents != -1500 {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if _, ok := s.CategoryWiseExpense["Move"]; ok {
		t.Fatalf("transfer leaked into expense map")
	}
	if len(s.RecentTransactions) != 3 {
		t.Fatalf("transfers still belong in recent list, got %d", len(s.RecentTransactions))
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, RecentTransactionsLimit)
	if !s.Balance.IsZero() || s.CategoryWiseExpense == nil || s.CategoryWiseIncome == nil || s.RecentTransactions == nil {
		t.Fatalf("expected zero summary with non-nil collections, got %+v", s)
	}
}

func TestSummarizeRecentLimitAndStability(t *testing.T) {
	var txs []Transaction
	for i := 1; i <= 15; i++ {
		txs = append(txs, tx(int64(i), Expense, 100, "Food", i))
	}
	// same business date: input order is kept
	txs = append(txs, tx(16, Expense, 100, "Food", 15))

	s := Summarize(txs, RecentTransactionsLimit)
	if len(s.RecentTransactions) != RecentTransactionsLimit {
		t.Fatalf("expected %d recent, got %d", RecentTransactionsLimit, len(s.RecentTransactions))
	}
	if s.RecentTransactions[0].ID != 15 || s.RecentTransactions[1].ID != 16 {
		t.Fatalf("unexpected order: %d, %d", s.RecentTransactions[0].ID, s.RecentTransactions[1].ID)
	}
	if txs[0].ID != 1 {
		t.Fatalf("input slice was reordered")
	}
	if s.TotalExpense.Cents != 1600 {
		t.Fatalf("totals must cover all transactions, got %s", s.TotalExpense)
	}
}
