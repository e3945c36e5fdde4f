package services

import (
	"context"
	"testing"

	"moneymanager/internal/core"
)

func TestAccountService_CreateAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a, err := f.accounts.CreateAccount(ctx, "  Cash  ", core.Money{Cents: 10000}, core.Cash)
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	if a.Name != "Cash" || a.Balance.Cents != 10000 || a.Type != core.Cash || !a.CreatedAt.Equal(f.clock.Now()) {
		t.Fatalf("CreateAccount() = %+v", a)
	}

	_, err = f.accounts.CreateAccount(ctx, "Cash", core.Money{}, core.Bank)
	assertIs(t, err, core.ErrDuplicateName)

	_, err = f.accounts.CreateAccount(ctx, "", core.Money{}, core.Bank)
	assertIs(t, err, core.ErrValidation)

	_, err = f.accounts.CreateAccount(ctx, "Savings", core.Money{}, "SAVINGS")
	assertIs(t, err, core.ErrValidation)

	accounts, err := f.accounts.ListAccounts(ctx)
	if err != nil || len(accounts) != 1 {
		t.Fatalf("ListAccounts() = %v, %v", accounts, err)
	}
}

func TestAccountService_NegativeBalanceAllowed(t *testing.T) {
	f := newFixture(t)
	f.account(t, "Card", -2500)
	if got := f.balance(t, "Card"); got != -2500 {
		t.Fatalf("balance = %d, want -2500", got)
	}
}

func TestAccountService_DeleteAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a, err := f.accounts.CreateAccount(ctx, "Cash", core.Money{}, core.Cash)
	if err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	if err := f.accounts.DeleteAccount(ctx, a.ID); err != nil {
		t.Fatalf("DeleteAccount() error = %v", err)
	}
	assertIs(t, f.accounts.DeleteAccount(ctx, a.ID), core.ErrNotFound)

	_, err = f.accounts.GetAccount(ctx, "Cash")
	assertIs(t, err, core.ErrNotFound)
}

func TestAccountService_AdjustBalance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.account(t, "Cash", 100)

	if err := f.accounts.AdjustBalance(ctx, "Cash", core.Money{Cents: -250}); err != nil {
		t.Fatalf("AdjustBalance() error = %v", err)
	}
	if got := f.balance(t, "Cash"); got != -150 {
		t.Fatalf("balance = %d, want -150", got)
	}
	assertIs(t, f.accounts.AdjustBalance(ctx, "Ghost", core.Money{Cents: 1}), core.ErrNotFound)
}
