package http

import (
	"time"

	"moneymanager/internal/core"
)

type accountResponse struct {
	ID          int64            `json:"id"`
	AccountName string           `json:"accountName"`
	Balance     core.Money       `json:"balance"`
	AccountType core.AccountType `json:"accountType"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type transactionResponse struct {
	ID              int64                `json:"id"`
	Type            core.TransactionType `json:"type"`
	Amount          core.Money           `json:"amount"`
	Category        string               `json:"category"`
	Division        core.Division        `json:"division"`
	Description     string               `json:"description"`
	TransactionDate time.Time            `json:"transactionDate"`
	FromAccount     *string              `json:"fromAccount"`
	ToAccount       *string              `json:"toAccount"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
	IsEditable      bool                 `json:"isEditable"`
}

type dashboardResponse struct {
	TotalIncome         core.Money            `json:"totalIncome"`
	TotalExpense        core.Money            `json:"totalExpense"`
	Balance             core.Money            `json:"balance"`
	CategoryWiseExpense map[string]core.Money `json:"categoryWiseExpense"`
	CategoryWiseIncome  map[string]core.Money `json:"categoryWiseIncome"`
	RecentTransactions  []transactionResponse `json:"recentTransactions"`
}

func toAccountResponse(a core.Account) accountResponse {
	return accountResponse{
		ID:          a.ID,
		AccountName: a.Name,
		Balance:     a.Balance,
		AccountType: a.Type,
		CreatedAt:   a.CreatedAt.UTC(),
		UpdatedAt:   a.UpdatedAt.UTC(),
	}
}

func toAccountResponses(accounts []core.Account) []accountResponse {
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	return out
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:              t.ID,
		Type:            t.Type,
		Amount:          t.Amount,
		Category:        t.Category,
		Division:        t.Division,
		Description:     t.Description,
		TransactionDate: t.TransactionDate.UTC(),
		FromAccount:     optional(t.FromAccount),
		ToAccount:       optional(t.ToAccount),
		CreatedAt:       t.CreatedAt.UTC(),
		UpdatedAt:       t.UpdatedAt.UTC(),
		IsEditable:      t.Editable,
	}
}

func toTransactionResponses(txs []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionResponse(t))
	}
	return out
}

func toDashboardResponse(s core.DashboardSummary) dashboardResponse {
	return dashboardResponse{
		TotalIncome:         s.TotalIncome,
		TotalExpense:        s.TotalExpense,
		Balance:             s.Balance,
		CategoryWiseExpense: nonNil(s.CategoryWiseExpense),
		CategoryWiseIncome:  nonNil(s.CategoryWiseIncome),
		RecentTransactions:  toTransactionResponses(s.RecentTransactions),
	}
}

func optional(name string) *string {
	if name == "" {
		return nil
	}
	return &name
}

func nonNil(m map[string]core.Money) map[string]core.Money {
	if m == nil {
		return map[string]core.Money{}
	}
	return m
}
