package repository

import (
	"context"
	"fmt"
	"time"

	"pocket-ledger/internal/auth"
	"pocket-ledger/internal/models"
)

type recurringRepo struct {
	ownedRepo[models.RecurringTransaction, *models.RecurringTransaction]
}

// FindDue returns active rules whose window contains q.Day and whose
// day_of_month matches it. Rules already executed on q.Day are included;
// the caller decides whether to skip them.
func (r *recurringRepo) FindDue(ctx context.Context, q DueQuery) ([]models.RecurringTransaction, error) {
	day := q.Day
	db := r.db.WithContext(ctx).Model(&models.RecurringTransaction{})
	if q.Owner != nil {
		if err := q.Owner.Check(); err != nil {
			return nil, err
		}
		db = db.Where(ownerClause(*q.Owner))
	}

	db = db.Where("is_active = ?", true).
		Where("start_date <= ?", day).
		Where("end_date IS NULL OR end_date >= ?", day)

	lastDay := day.AddDate(0, 1, -day.Day()).Day()
	if q.ClampMonthEnd && day.Day() == lastDay {
		db = db.Where("day_of_month >= ?", day.Day())
	} else {
		db = db.Where("day_of_month = ?", day.Day())
	}

	rows := make([]models.RecurringTransaction, 0)
	if err := db.Order("user_id ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find due rules: %w", err)
	}
	return rows, nil
}

func (r *recurringRepo) MarkExecuted(ctx context.Context, owner auth.Owner, id uint, at, dayStart time.Time) (bool, error) {
	q, err := r.scoped(ctx, owner)
	if err != nil {
		return false, err
	}
	res := q.Where("id = ?", id).
		Where("last_executed IS NULL OR last_executed < ?", dayStart).
		Update("last_executed", at)
	if res.Error != nil {
		return false, fmt.Errorf("mark rule executed: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *recurringRepo) DeactivateForAccount(ctx context.Context, owner auth.Owner, accountID uint) (int64, error) {
	q, err := r.scoped(ctx, owner)
	if err != nil {
		return 0, err
	}
	res := q.Where("account_id = ?", accountID).Update("is_active", false)
	if res.Error != nil {
		return 0, fmt.Errorf("deactivate rules: %w", res.Error)
	}
	return res.RowsAffected, nil
}
