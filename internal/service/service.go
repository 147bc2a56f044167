// Package service holds the use cases behind the HTTP handlers and the CLI.
// Services receive an auth.Owner for every user-scoped call and pass it to
// the repositories unchanged.
package service

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"pocket-ledger/internal/apperr"
	"pocket-ledger/internal/config"
	"pocket-ledger/internal/money"
	"pocket-ledger/internal/repository"
	"pocket-ledger/internal/util"
)

// Services 汇总所有业务服务，共用一个 store
type Services struct {
	Auth          *AuthService
	Accounts      *AccountService
	Categories    *CategoryService
	Transactions  *TransactionService
	Rules         *RecurringRuleService
	Budgets       *BudgetService
	Assets        *AssetService
	Notifications *NotificationService
	Dashboard     *DashboardService
	Audit         *AuditService
	Backups       *BackupService
	Export        *ExportService
}

func New(store repository.Store, cfg *config.Config) (*Services, error) {
	sealer, err := util.NewSealer(cfg.Security.EncryptionKey)
	if err != nil {
		return nil, err
	}

	categories := NewCategoryService(store)
	transactions := NewTransactionService(store)
	return &Services{
		Auth: NewAuthService(store, categories, AuthOptions{
			Secret:          cfg.JWT.Secret,
			Issuer:          cfg.JWT.Issuer,
			TTL:             time.Duration(cfg.JWT.ExpireHours) * time.Hour,
			BcryptCost:      cfg.Security.BcryptCost,
			DefaultCurrency: cfg.App.DefaultCurrency,
		}),
		Accounts:      NewAccountService(store, cfg.App.DefaultCurrency),
		Categories:    categories,
		Transactions:  transactions,
		Rules:         NewRecurringRuleService(store),
		Budgets:       NewBudgetService(store),
		Assets:        NewAssetService(store, cfg.App.DefaultCurrency),
		Notifications: NewNotificationService(store),
		Dashboard:     NewDashboardService(store),
		Audit:         NewAuditService(store, sealer),
		Backups:       NewBackupService(store, sealer, cfg.Backup.Dir),
		Export:        NewExportService(store),
	}, nil
}

// positiveCents 必填金额，转换为分，必须大于 0
func positiveCents(field string, d *decimal.Decimal) (int64, error) {
	if d == nil {
		return 0, apperr.Validation("%s is required", field)
	}
	c, err := money.ToCents(*d)
	if err != nil {
		return 0, apperr.Validation("%s: %v", field, err)
	}
	if c <= 0 {
		return 0, apperr.Validation("%s must be greater than 0", field)
	}
	return c, nil
}

// signedCents 选填金额，可为负数，nil 视为 0
func signedCents(field string, d *decimal.Decimal) (int64, error) {
	if d == nil {
		return 0, nil
	}
	c, err := money.ToCents(*d)
	if err != nil {
		return 0, apperr.Validation("%s: %v", field, err)
	}
	return c, nil
}

func normalizeType(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}

func optionalText(field, s string, max int) (string, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > max {
		return "", apperr.Validation("%s must be at most %d characters", field, max)
	}
	return s, nil
}
