package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"pocket-ledger/internal/auth"
	"pocket-ledger/internal/models"
)

type transactionRepo struct {
	ownedRepo[models.Transaction, *models.Transaction]
}

// Get returns the transaction with its account and category resolved for display.
func (r *transactionRepo) Get(ctx context.Context, owner auth.Owner, id uint) (*models.Transaction, error) {
	q, err := r.scoped(ctx, owner)
	if err != nil {
		return nil, err
	}
	var tx models.Transaction
	if err := q.Preload("Account").Preload("Category").Where("id = ?", id).First(&tx).Error; err != nil {
		return nil, notFound(err, r.entity)
	}
	return &tx, nil
}

func (r *transactionRepo) Find(ctx context.Context, owner auth.Owner, f TransactionFilter) ([]models.Transaction, int64, error) {
	base, err := r.scoped(ctx, owner)
	if err != nil {
		return nil, 0, err
	}
	if f.From != nil {
		base = base.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		base = base.Where("date < ?", *f.To)
	}
	if f.Type != "" {
		base = base.Where("type = ?", f.Type)
	}
	if f.CategoryID != nil {
		base = base.Where("category_id = ?", *f.CategoryID)
	}
	if f.AccountID != nil {
		base = base.Where("account_id = ?", *f.AccountID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	orderBy := "date DESC, id DESC"
	switch f.Sort {
	case "date_asc":
		orderBy = "date ASC, id ASC"
	case "amount_desc":
		orderBy = "amount_cent DESC, id DESC"
	case "amount_asc":
		orderBy = "amount_cent ASC, id ASC"
	}

	q := base.Session(&gorm.Session{}).Preload("Account").Preload("Category").Order(orderBy)
	if f.PageSize > 0 {
		page := f.Page
		if page <= 0 {
			page = 1
		}
		q = q.Limit(f.PageSize).Offset((page - 1) * f.PageSize)
	}

	rows := make([]models.Transaction, 0)
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	return rows, total, nil
}

func (r *transactionRepo) DetachAccount(ctx context.Context, owner auth.Owner, accountID uint) (int64, error) {
	q, err := r.scoped(ctx, owner)
	if err != nil {
		return 0, err
	}
	res := q.Where("account_id = ?", accountID).Update("account_id", nil)
	if res.Error != nil {
		return 0, fmt.Errorf("detach account: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *transactionRepo) Totals(ctx context.Context, owner auth.Owner, from, to time.Time) (int64, int64, error) {
	q, err := r.scoped(ctx, owner)
	if err != nil {
		return 0, 0, err
	}
	var rows []struct {
		Type  string
		Total int64
	}
	err = q.Select("type, COALESCE(SUM(amount_cent), 0) AS total").
		Where("date >= ? AND date < ?", from, to).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, fmt.Errorf("sum transactions: %w", err)
	}

	var income, expense int64
	for _, row := range rows {
		switch row.Type {
		case models.TypeIncome:
			income = row.Total
		case models.TypeExpense:
			expense = row.Total
		}
	}
	return income, expense, nil
}

func (r *transactionRepo) SumByCategory(ctx context.Context, owner auth.Owner, from, to time.Time, typ string) ([]CategoryTotal, error) {
	q, err := r.scoped(ctx, owner)
	if err != nil {
		return nil, err
	}
	q = q.Select("transactions.category_id AS category_id, COALESCE(categories.name, '') AS name, transactions.type AS type, SUM(transactions.amount_cent) AS total_cent").
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.date >= ? AND transactions.date < ?", from, to)
	if typ != "" {
		q = q.Where("transactions.type = ?", typ)
	}

	rows := make([]CategoryTotal, 0)
	err = q.Group("transactions.category_id, categories.name, transactions.type").
		Order("total_cent DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sum by category: %w", err)
	}
	return rows, nil
}

func (r *transactionRepo) Movements(ctx context.Context, owner auth.Owner, from, to time.Time) ([]Movement, error) {
	q, err := r.scoped(ctx, owner)
	if err != nil {
		return nil, err
	}
	rows := make([]Movement, 0)
	err = q.Select("date, type, amount_cent").
		Where("date >= ? AND date < ?", from, to).
		Order("date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return rows, nil
}
