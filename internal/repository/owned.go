package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"pocket-ledger/internal/apperr"
	"pocket-ledger/internal/auth"
)

type ownedRow[T any] interface {
	*T
	SetUserID(uint)
}

type ownedRepo[T any, P ownedRow[T]] struct {
	db     *gorm.DB
	entity string
	order  string
}

func newOwned[T any, P ownedRow[T]](entity string, db *gorm.DB, order string) ownedRepo[T, P] {
	return ownedRepo[T, P]{db: db, entity: entity, order: order}
}

// scoped starts a fresh query restricted to owner's rows.
func (r ownedRepo[T, P]) scoped(ctx context.Context, owner auth.Owner) (*gorm.DB, error) {
	if err := owner.Check(); err != nil {
		return nil, err
	}
	return r.db.WithContext(ctx).Model(new(T)).Where(ownerClause(owner)), nil
}

func (r ownedRepo[T, P]) Create(ctx context.Context, owner auth.Owner, row *T) error {
	if err := owner.Check(); err != nil {
		return err
	}
	P(row).SetUserID(owner.UserID())
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("create %s: %w", r.entity, err)
	}
	return nil
}

func (r ownedRepo[T, P]) Get(ctx context.Context, owner auth.Owner, id uint) (*T, error) {
	q, err := r.scoped(ctx, owner)
	if err != nil {
		return nil, err
	}
	row := new(T)
	if err := q.Where("id = ?", id).First(row).Error; err != nil {
		return nil, notFound(err, r.entity)
	}
	return row, nil
}

func (r ownedRepo[T, P]) List(ctx context.Context, owner auth.Owner) ([]T, error) {
	q, err := r.scoped(ctx, owner)
	if err != nil {
		return nil, err
	}
	rows := make([]T, 0)
	if err := q.Order(r.order).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", r.entity, err)
	}
	return rows, nil
}

func (r ownedRepo[T, P]) Update(ctx context.Context, owner auth.Owner, id uint, row *T, columns ...string) error {
	if len(columns) == 0 {
		return fmt.Errorf("update %s: no columns", r.entity)
	}
	q, err := r.scoped(ctx, owner)
	if err != nil {
		return err
	}
	res := q.Where("id = ?", id).Select(columns).Updates(row)
	if res.Error != nil {
		return fmt.Errorf("update %s: %w", r.entity, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(r.entity)
	}
	return nil
}

func (r ownedRepo[T, P]) Delete(ctx context.Context, owner auth.Owner, id uint) error {
	q, err := r.scoped(ctx, owner)
	if err != nil {
		return err
	}
	res := q.Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", r.entity, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(r.entity)
	}
	return nil
}

func (r ownedRepo[T, P]) DeleteAll(ctx context.Context, owner auth.Owner) error {
	q, err := r.scoped(ctx, owner)
	if err != nil {
		return err
	}
	if err := q.Delete(new(T)).Error; err != nil {
		return fmt.Errorf("delete all %s: %w", r.entity, err)
	}
	return nil
}
