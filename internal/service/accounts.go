package service

import (
	"context"

	"github.com/shopspring/decimal"

	"pocket-ledger/internal/auth"
	"pocket-ledger/internal/models"
	"pocket-ledger/internal/repository"
	"pocket-ledger/internal/util"
)

type AccountService struct {
	store           repository.Store
	defaultCurrency string
}

func NewAccountService(store repository.Store, defaultCurrency string) *AccountService {
	return &AccountService{store: store, defaultCurrency: defaultCurrency}
}

type AccountInput struct {
	Name     string           `json:"name"`
	Currency string           `json:"currency"`
	Balance  *decimal.Decimal `json:"balance"` // 初始余额，可以为负（信用卡）
}

// AccountUpdate 只修改传入的字段
// 手动修改 Balance 时同步调整初始余额，保证 余额 = 初始余额 + 收入 - 支出
type AccountUpdate struct {
	Name     *string          `json:"name"`
	Currency *string          `json:"currency"`
	Balance  *decimal.Decimal `json:"balance"`
}

func (s *AccountService) Create(ctx context.Context, owner auth.Owner, in AccountInput) (*models.Account, error) {
	name, err := util.ValidateName("name", in.Name, 64)
	if err != nil {
		return nil, err
	}
	currency, err := util.NormalizeCurrency(in.Currency, s.defaultCurrency)
	if err != nil {
		return nil, err
	}
	balance, err := signedCents("balance", in.Balance)
	if err != nil {
		return nil, err
	}

	a := &models.Account{
		Name:               name,
		Currency:           currency,
		BalanceCent:        balance,
		InitialBalanceCent: balance,
	}
	if err := s.store.Accounts().Create(ctx, owner, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AccountService) List(ctx context.Context, owner auth.Owner) ([]models.Account, error) {
	return s.store.Accounts().List(ctx, owner)
}

func (s *AccountService) Get(ctx context.Context, owner auth.Owner, id uint) (*models.Account, error) {
	return s.store.Accounts().Get(ctx, owner, id)
}

func (s *AccountService) Update(ctx context.Context, owner auth.Owner, id uint, in AccountUpdate) (*models.Account, error) {
	var next models.Account
	var columns []string

	if in.Name != nil {
		name, err := util.ValidateName("name", *in.Name, 64)
		if err != nil {
			return nil, err
		}
		next.Name = name
		columns = append(columns, "name")
	}
	if in.Currency != nil {
		currency, err := util.NormalizeCurrency(*in.Currency, s.defaultCurrency)
		if err != nil {
			return nil, err
		}
		next.Currency = currency
		columns = append(columns, "currency")
	}
	var balance int64
	if in.Balance != nil {
		b, err := signedCents("balance", in.Balance)
		if err != nil {
			return nil, err
		}
		balance = b
	}

	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		cur, err := tx.Accounts().Get(ctx, owner, id)
		if err != nil {
			return err
		}
		if in.Balance != nil {
			next.BalanceCent = balance
			next.InitialBalanceCent = cur.InitialBalanceCent + (balance - cur.BalanceCent)
			columns = append(columns, "balance_cent", "initial_balance_cent")
		}
		if len(columns) == 0 {
			return nil
		}
		return tx.Accounts().Update(ctx, owner, id, &next, columns...)
	})
	if err != nil {
		return nil, err
	}
	return s.store.Accounts().Get(ctx, owner, id)
}

// Delete 在同一事务里解除收支记录与账户的关联、停用相关周期规则，再删除账户
func (s *AccountService) Delete(ctx context.Context, owner auth.Owner, id uint) error {
	return s.store.Atomic(ctx, func(tx repository.Store) error {
		if _, err := tx.Accounts().Get(ctx, owner, id); err != nil {
			return err
		}
		if _, err := tx.Transactions().DetachAccount(ctx, owner, id); err != nil {
			return err
		}
		if _, err := tx.Recurring().DeactivateForAccount(ctx, owner, id); err != nil {
			return err
		}
		return tx.Accounts().Delete(ctx, owner, id)
	})
}

// TotalBalance 所有账户余额之和
func (s *AccountService) TotalBalance(ctx context.Context, owner auth.Owner) (int64, error) {
	return s.store.Accounts().TotalBalance(ctx, owner)
}
