package repository

import (
	"context"
	"fmt"

	"pocket-ledger/internal/apperr"
	"pocket-ledger/internal/auth"
	"pocket-ledger/internal/models"
)

type budgetRepo struct {
	ownedRepo[models.Budget, *models.Budget]
}

func (r *budgetRepo) ForMonth(ctx context.Context, owner auth.Owner, year, month int) ([]models.Budget, error) {
	q, err := r.scoped(ctx, owner)
	if err != nil {
		return nil, err
	}
	rows := make([]models.Budget, 0)
	err = q.Preload("Category").
		Where("year = ? AND month = ?", year, month).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return rows, nil
}

type notificationRepo struct {
	ownedRepo[models.Notification, *models.Notification]
}

func (r *notificationRepo) Unread(ctx context.Context, owner auth.Owner) ([]models.Notification, error) {
	q, err := r.scoped(ctx, owner)
	if err != nil {
		return nil, err
	}
	rows := make([]models.Notification, 0)
	if err := q.Where("is_read = ?", false).Order(r.order).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list unread notifications: %w", err)
	}
	return rows, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, owner auth.Owner, id uint) error {
	q, err := r.scoped(ctx, owner)
	if err != nil {
		return err
	}
	// already-read rows still match, so RowsAffected only misses on absence
	res := q.Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		return fmt.Errorf("mark notification read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(r.entity)
	}
	return nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, owner auth.Owner) (int64, error) {
	q, err := r.scoped(ctx, owner)
	if err != nil {
		return 0, err
	}
	res := q.Where("is_read = ?", false).Update("is_read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("mark notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}
