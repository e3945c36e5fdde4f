package services

import (
	"context"
	"fmt"
	"strings"

	"moneymanager/internal/core"
	"moneymanager/internal/log"
	"moneymanager/internal/storage"
)

// AccountService manages accounts and their running balances.
type AccountService struct {
	storage *storage.SQLiteRepository
	opts    options
}

func NewAccountService(storage *storage.SQLiteRepository, opts ...Option) *AccountService {
	return &AccountService{
		storage: storage,
		opts:    buildOptions(log.ComponentAccount, opts),
	}
}

// CreateAccount opens an account whose balance starts at initialBalance.
// Names are unique; a second account with the same name fails with ErrDuplicateName.
func (s *AccountService) CreateAccount(ctx context.Context, name string, initialBalance core.Money, accountType core.AccountType) (core.Account, error) {
	name = strings.TrimSpace(name)
	if err := core.ValidateNewAccount(name, accountType); err != nil {
		return core.Account{}, err
	}

	now := s.opts.clock()
	var created core.Account
	err := s.storage.InTx(ctx, func(tx *storage.SQLiteRepository) error {
		var err error
		created, err = tx.CreateAccount(ctx, core.Account{
			Name:      name,
			Balance:   initialBalance,
			Type:      accountType,
			CreatedAt: now,
			UpdatedAt: now,
		})
		return err
	})
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}

	s.opts.logger.InfoContext(ctx, "Account created",
		log.FieldOperation, log.OpCreate,
		log.FieldAccountID, created.ID,
		log.FieldAccount, created.Name)
	return created, nil
}

func (s *AccountService) GetAccount(ctx context.Context, name string) (core.Account, error) {
	return s.storage.GetAccountByName(ctx, name)
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]core.Account, error) {
	return s.storage.ListAccounts(ctx)
}

// DeleteAccount removes the account. Transactions naming it are kept and
// are skipped by future balance updates.
func (s *AccountService) DeleteAccount(ctx context.Context, id int64) error {
	if err := s.storage.DeleteAccount(ctx, id); err != nil {
		return err
	}
	s.opts.logger.InfoContext(ctx, "Account deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldAccountID, id)
	return nil
}

// AdjustBalance adds delta to the named account's balance.
func (s *AccountService) AdjustBalance(ctx context.Context, name string, delta core.Money) error {
	if err := s.storage.AdjustBalance(ctx, name, delta, s.opts.clock()); err != nil {
		return err
	}
	s.opts.logger.DebugContext(ctx, "Balance adjusted",
		log.FieldOperation, log.OpAdjust,
		log.FieldAccount, name,
		log.FieldDeltaCents, delta.Cents)
	return nil
}
