// Package repository defines storage-agnostic access to every entity and a
// gorm implementation of it. All reads and writes of user data take an
// auth.Owner and only ever touch that owner's rows.
package repository

import (
	"context"
	"time"

	"pocket-ledger/internal/auth"
	"pocket-ledger/internal/models"
)

// Owned is CRUD over one table whose rows belong to a single user.
type Owned[T any] interface {
	Create(ctx context.Context, owner auth.Owner, row *T) error
	Get(ctx context.Context, owner auth.Owner, id uint) (*T, error)
	List(ctx context.Context, owner auth.Owner) ([]T, error)
	// Update writes the listed columns of row to the record with id.
	Update(ctx context.Context, owner auth.Owner, id uint, row *T, columns ...string) error
	Delete(ctx context.Context, owner auth.Owner, id uint) error
	DeleteAll(ctx context.Context, owner auth.Owner) error
}

// Accounts is the account ledger.
type Accounts interface {
	Owned[models.Account]
	// ApplyDelta atomically adds deltaCent to the stored balance.
	ApplyDelta(ctx context.Context, owner auth.Owner, id uint, deltaCent int64) (*models.Account, error)
	TotalBalance(ctx context.Context, owner auth.Owner) (int64, error)
}

type Categories interface {
	Owned[models.Category]
	InUse(ctx context.Context, owner auth.Owner, id uint) (bool, error)
}

type TransactionFilter struct {
	From       *time.Time // inclusive
	To         *time.Time // exclusive
	Type       string
	CategoryID *uint
	AccountID  *uint
	Sort       string // date_desc (default), date_asc, amount_desc, amount_asc
	Page       int
	PageSize   int
}

type CategoryTotal struct {
	CategoryID uint
	Name       string
	Type       string
	TotalCent  int64
}

// Movement is the minimal projection used by trend aggregation.
type Movement struct {
	Date       time.Time
	Type       string
	AmountCent int64
}

type Transactions interface {
	Owned[models.Transaction]
	Find(ctx context.Context, owner auth.Owner, f TransactionFilter) ([]models.Transaction, int64, error)
	// DetachAccount makes every transaction of accountID unbanked.
	DetachAccount(ctx context.Context, owner auth.Owner, accountID uint) (int64, error)
	Totals(ctx context.Context, owner auth.Owner, from, to time.Time) (incomeCent, expenseCent int64, err error)
	SumByCategory(ctx context.Context, owner auth.Owner, from, to time.Time, typ string) ([]CategoryTotal, error)
	Movements(ctx context.Context, owner auth.Owner, from, to time.Time) ([]Movement, error)
}

// DueQuery selects rules that fire on Day (a calendar date at UTC midnight).
// A nil Owner searches every user's rules.
type DueQuery struct {
	Day           time.Time
	ClampMonthEnd bool
	Owner         *auth.Owner
}

type RecurringRules interface {
	Owned[models.RecurringTransaction]
	FindDue(ctx context.Context, q DueQuery) ([]models.RecurringTransaction, error)
	// MarkExecuted sets last_executed = at unless the rule already ran on or
	// after dayStart. It reports whether this call claimed the rule.
	MarkExecuted(ctx context.Context, owner auth.Owner, id uint, at, dayStart time.Time) (bool, error)
	DeactivateForAccount(ctx context.Context, owner auth.Owner, accountID uint) (int64, error)
}

type Budgets interface {
	Owned[models.Budget]
	ForMonth(ctx context.Context, owner auth.Owner, year, month int) ([]models.Budget, error)
}

type Notifications interface {
	Owned[models.Notification]
	Unread(ctx context.Context, owner auth.Owner) ([]models.Notification, error)
	MarkRead(ctx context.Context, owner auth.Owner, id uint) error
	MarkAllRead(ctx context.Context, owner auth.Owner) (int64, error)
}

type AuditFilter struct {
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

type AuditLogs interface {
	Record(ctx context.Context, owner auth.Owner, log *models.AuditLog) error
	Find(ctx context.Context, owner auth.Owner, f AuditFilter) ([]models.AuditLog, int64, error)
}

// Users is not owner-scoped: it serves registration and login.
type Users interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Save(ctx context.Context, u *models.User) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
	UpdateDisplayName(ctx context.Context, id uint, name string) error
}

type Sessions interface {
	Create(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Revoke(ctx context.Context, id string) error
	RevokeAll(ctx context.Context, userID uint) error
}

// Store groups the repositories and provides the unit of work.
type Store interface {
	Users() Users
	Sessions() Sessions
	Accounts() Accounts
	Categories() Categories
	Transactions() Transactions
	Recurring() RecurringRules
	Budgets() Budgets
	Assets() Owned[models.Asset]
	Notifications() Notifications
	AuditLogs() AuditLogs
	Backups() Owned[models.Backup]

	// Atomic runs fn in one database transaction. fn must use the Store it
	// is given; returning an error (or panicking) rolls everything back.
	Atomic(ctx context.Context, fn func(tx Store) error) error
}
