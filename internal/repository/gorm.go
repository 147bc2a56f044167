package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pocket-ledger/internal/apperr"
	"pocket-ledger/internal/auth"
	"pocket-ledger/internal/models"
)

// GormStore implements Store on top of a *gorm.DB (or an open gorm transaction).
type GormStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Users() Users       { return &userRepo{db: s.db} }
func (s *GormStore) Sessions() Sessions { return &sessionRepo{db: s.db} }

func (s *GormStore) Accounts() Accounts {
	return &accountRepo{newOwned[models.Account]("account", s.db, "created_at ASC, id ASC")}
}

func (s *GormStore) Categories() Categories {
	return &categoryRepo{newOwned[models.Category]("category", s.db, "type ASC, name ASC")}
}

func (s *GormStore) Transactions() Transactions {
	return &transactionRepo{newOwned[models.Transaction]("transaction", s.db, "date DESC, id DESC")}
}

func (s *GormStore) Recurring() RecurringRules {
	return &recurringRepo{newOwned[models.RecurringTransaction]("recurring transaction", s.db, "day_of_month ASC, id ASC")}
}

func (s *GormStore) Budgets() Budgets {
	return &budgetRepo{newOwned[models.Budget]("budget", s.db, "year DESC, month DESC, id ASC")}
}

func (s *GormStore) Assets() Owned[models.Asset] {
	return newOwned[models.Asset]("asset", s.db, "created_at DESC, id DESC")
}

func (s *GormStore) Notifications() Notifications {
	return &notificationRepo{newOwned[models.Notification]("notification", s.db, "created_at DESC, id DESC")}
}

func (s *GormStore) AuditLogs() AuditLogs { return &auditRepo{db: s.db} }

func (s *GormStore) Backups() Owned[models.Backup] {
	return newOwned[models.Backup]("backup", s.db, "created_at DESC, id DESC")
}

func (s *GormStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// ownerClause filters the current table by user_id; it stays unambiguous in joins.
func ownerClause(owner auth.Owner) clause.Expression {
	return clause.Eq{
		Column: clause.Column{Table: clause.CurrentTable, Name: "user_id"},
		Value:  owner.UserID(),
	}
}

func notFound(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity)
	}
	return fmt.Errorf("query %s: %w", entity, err)
}

var _ Store = (*GormStore)(nil)
