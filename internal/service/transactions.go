package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"pocket-ledger/internal/apperr"
	"pocket-ledger/internal/auth"
	"pocket-ledger/internal/models"
	"pocket-ledger/internal/repository"
	"pocket-ledger/internal/util"
)

// TransactionService 每次写收支记录都同时更新账户余额
type TransactionService struct {
	store repository.Store
	now   func() time.Time
}

func NewTransactionService(store repository.Store) *TransactionService {
	return &TransactionService{store: store, now: time.Now}
}

type TransactionInput struct {
	AccountID   *uint            `json:"account_id"`
	CategoryID  uint             `json:"category_id"`
	Type        string           `json:"type"`
	Amount      *decimal.Decimal `json:"amount"`
	Date        string           `json:"date"` // YYYY-MM-DD 或 RFC 3339，默认为今天
	Description string           `json:"description"`
}

func (s *TransactionService) build(in TransactionInput) (*models.Transaction, error) {
	if in.CategoryID == 0 {
		return nil, apperr.Validation("category_id is required")
	}
	typ := normalizeType(in.Type)
	if !models.ValidType(typ) {
		return nil, apperr.Validation("type must be INCOME or EXPENSE")
	}
	amount, err := positiveCents("amount", in.Amount)
	if err != nil {
		return nil, err
	}

	date := util.TruncateDay(s.now(), time.UTC)
	if in.Date != "" {
		if date, err = util.ParseDateOrTime("date", in.Date); err != nil {
			return nil, err
		}
	}
	desc, err := optionalText("description", in.Description, 255)
	if err != nil {
		return nil, err
	}

	accountID := in.AccountID
	if accountID != nil && *accountID == 0 {
		accountID = nil
	}
	return &models.Transaction{
		AccountID:   accountID,
		CategoryID:  in.CategoryID,
		Type:        typ,
		AmountCent:  amount,
		Date:        date,
		Description: desc,
	}, nil
}

// Record 保存记录并更新账户余额
// store 是调用方开启的事务，出错时由调用方回滚
func (s *TransactionService) Record(ctx context.Context, store repository.Store, owner auth.Owner, t *models.Transaction) error {
	if !models.ValidType(t.Type) {
		return apperr.Validation("type must be INCOME or EXPENSE")
	}
	if t.AmountCent <= 0 {
		return apperr.Validation("amount must be greater than 0")
	}
	if _, err := store.Categories().Get(ctx, owner, t.CategoryID); err != nil {
		return err
	}
	if t.AccountID != nil {
		if _, err := store.Accounts().Get(ctx, owner, *t.AccountID); err != nil {
			return err
		}
	}

	if err := store.Transactions().Create(ctx, owner, t); err != nil {
		return err
	}
	if t.AccountID != nil {
		if _, err := store.Accounts().ApplyDelta(ctx, owner, *t.AccountID, t.SignedCent()); err != nil {
			return err
		}
	}
	return nil
}

func (s *TransactionService) Create(ctx context.Context, owner auth.Owner, in TransactionInput) (*models.Transaction, error) {
	t, err := s.build(in)
	if err != nil {
		return nil, err
	}
	err = s.store.Atomic(ctx, func(tx repository.Store) error {
		return s.Record(ctx, tx, owner, t)
	})
	if err != nil {
		return nil, err
	}
	return s.store.Transactions().Get(ctx, owner, t.ID)
}

// Update 在同一事务里撤销旧记录对余额的影响，再应用新记录
func (s *TransactionService) Update(ctx context.Context, owner auth.Owner, id uint, in TransactionInput) (*models.Transaction, error) {
	next, err := s.build(in)
	if err != nil {
		return nil, err
	}
	err = s.store.Atomic(ctx, func(tx repository.Store) error {
		old, err := tx.Transactions().Get(ctx, owner, id)
		if err != nil {
			return err
		}
		if _, err := tx.Categories().Get(ctx, owner, next.CategoryID); err != nil {
			return err
		}
		if old.AccountID != nil {
			if _, err := tx.Accounts().ApplyDelta(ctx, owner, *old.AccountID, -old.SignedCent()); err != nil {
				return err
			}
		}
		if next.AccountID != nil {
			if _, err := tx.Accounts().ApplyDelta(ctx, owner, *next.AccountID, next.SignedCent()); err != nil {
				return err
			}
		}
		return tx.Transactions().Update(ctx, owner, id, next,
			"account_id", "category_id", "type", "amount_cent", "date", "description")
	})
	if err != nil {
		return nil, err
	}
	return s.store.Transactions().Get(ctx, owner, id)
}

func (s *TransactionService) Delete(ctx context.Context, owner auth.Owner, id uint) error {
	return s.store.Atomic(ctx, func(tx repository.Store) error {
		old, err := tx.Transactions().Get(ctx, owner, id)
		if err != nil {
			return err
		}
		if err := tx.Transactions().Delete(ctx, owner, id); err != nil {
			return err
		}
		if old.AccountID == nil {
			return nil
		}
		_, err = tx.Accounts().ApplyDelta(ctx, owner, *old.AccountID, -old.SignedCent())
		return err
	})
}

func (s *TransactionService) Get(ctx context.Context, owner auth.Owner, id uint) (*models.Transaction, error) {
	return s.store.Transactions().Get(ctx, owner, id)
}

func (s *TransactionService) List(ctx context.Context, owner auth.Owner, f repository.TransactionFilter) ([]models.Transaction, int64, error) {
	if f.Type != "" {
		f.Type = normalizeType(f.Type)
		if !models.ValidType(f.Type) {
			return nil, 0, apperr.Validation("type must be INCOME or EXPENSE")
		}
	}
	switch f.Sort {
	case "", "date_desc", "date_asc", "amount_desc", "amount_asc":
	default:
		return nil, 0, apperr.Validation("unknown sort %q", f.Sort)
	}
	return s.store.Transactions().Find(ctx, owner, f)
}
