package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"pocket-ledger/internal/apperr"
	"pocket-ledger/internal/auth"
	"pocket-ledger/internal/models"
)

type accountRepo struct {
	ownedRepo[models.Account, *models.Account]
}

// ApplyDelta is a single UPDATE ... SET balance_cent = balance_cent + ?, so
// concurrent writers never lose each other's increments.
func (r *accountRepo) ApplyDelta(ctx context.Context, owner auth.Owner, id uint, deltaCent int64) (*models.Account, error) {
	q, err := r.scoped(ctx, owner)
	if err != nil {
		return nil, err
	}
	res := q.Where("id = ?", id).Update("balance_cent", gorm.Expr("balance_cent + ?", deltaCent))
	if res.Error != nil {
		return nil, fmt.Errorf("apply balance delta: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("account")
	}
	return r.Get(ctx, owner, id)
}

func (r *accountRepo) TotalBalance(ctx context.Context, owner auth.Owner) (int64, error) {
	q, err := r.scoped(ctx, owner)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := q.Select("COALESCE(SUM(balance_cent), 0)").Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("sum balances: %w", err)
	}
	return total, nil
}

type categoryRepo struct {
	ownedRepo[models.Category, *models.Category]
}

// InUse reports whether any transaction, rule or budget references the category.
func (r *categoryRepo) InUse(ctx context.Context, owner auth.Owner, id uint) (bool, error) {
	if err := owner.Check(); err != nil {
		return false, err
	}
	for _, m := range []any{&models.Transaction{}, &models.RecurringTransaction{}, &models.Budget{}} {
		var n int64
		err := r.db.WithContext(ctx).Model(m).
			Where(ownerClause(owner)).
			Where("category_id = ?", id).
			Count(&n).Error
		if err != nil {
			return false, fmt.Errorf("count category references: %w", err)
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}
