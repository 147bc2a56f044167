package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"pocket-ledger/internal/auth"
	"pocket-ledger/internal/config"
	"pocket-ledger/internal/database"
	"pocket-ledger/internal/models"
	"pocket-ledger/internal/repository"
)

func newTestServices(t *testing.T) (*Services, *repository.GormStore) {
	t.Helper()
	dir := t.TempDir()
	db, err := database.Init(config.DatabaseConfig{Path: filepath.Join(dir, "test.db")})
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	cfg := &config.Config{
		JWT:      config.JWTConfig{Secret: "test-secret", Issuer: "test", ExpireHours: 1},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost, EncryptionKey: "test-key"},
		Backup:   config.BackupConfig{Dir: filepath.Join(dir, "backups")},
		App:      config.AppSubConfig{DefaultCurrency: "CNY"},
	}
	store := repository.New(db)
	svc, err := New(store, cfg)
	if err != nil {
		t.Fatalf("new services: %v", err)
	}
	return svc, store
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func uintPtr(v uint) *uint { return &v }

// seed 创建一个账户（指定初始余额）以及收入、支出类别各一个
func seed(t *testing.T, svc *Services, owner auth.Owner, opening string) (*models.Account, *models.Category, *models.Category) {
	t.Helper()
	ctx := context.Background()
	acc, err := svc.Accounts.Create(ctx, owner, AccountInput{Name: "Bank", Balance: dec(opening)})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	income, err := svc.Categories.Create(ctx, owner, CategoryInput{Name: "Salary", Type: "income"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	expense, err := svc.Categories.Create(ctx, owner, CategoryInput{Name: "Food", Type: "EXPENSE"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	return acc, income, expense
}

func balanceOf(t *testing.T, svc *Services, owner auth.Owner, id uint) int64 {
	t.Helper()
	a, err := svc.Accounts.Get(context.Background(), owner, id)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	return a.BalanceCent
}
