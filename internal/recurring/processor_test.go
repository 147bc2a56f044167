package recurring

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"pocket-ledger/internal/auth"
	"pocket-ledger/internal/config"
	"pocket-ledger/internal/database"
	"pocket-ledger/internal/models"
	"pocket-ledger/internal/repository"
	"pocket-ledger/internal/service"
)

type fixture struct {
	store    *repository.GormStore
	owner    auth.Owner
	account  *models.Account
	category *models.Category
	recorder *service.TransactionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "job.db")})
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	store := repository.New(db)
	ctx := context.Background()
	owner := auth.NewOwner(1)
	acc := &models.Account{Name: "Bank", Currency: "CNY"}
	if err := store.Accounts().Create(ctx, owner, acc); err != nil {
		t.Fatalf("create account: %v", err)
	}
	cat := &models.Category{Name: "Salary", Type: models.TypeIncome}
	if err := store.Categories().Create(ctx, owner, cat); err != nil {
		t.Fatalf("create category: %v", err)
	}
	return &fixture{store: store, owner: owner, account: acc, category: cat, recorder: service.NewTransactionService(store)}
}

func (f *fixture) addRule(t *testing.T, mutate func(r *models.RecurringTransaction)) *models.RecurringTransaction {
	t.Helper()
	r := &models.RecurringTransaction{
		AccountID:  f.account.ID,
		CategoryID: f.category.ID,
		Name:       "Salary",
		AmountCent: 1200_00,
		Type:       models.TypeIncome,
		Frequency:  models.FrequencyMonthly,
		DayOfMonth: 1,
		StartDate:  date(2024, 1, 1),
		IsActive:   true,
	}
	if mutate != nil {
		mutate(r)
	}
	if err := f.store.Recurring().Create(context.Background(), f.owner, r); err != nil {
		t.Fatalf("create rule: %v", err)
	}
	return r
}

func (f *fixture) processor(opts Options) *Processor {
	opts.Logger = zerolog.Nop()
	return NewProcessor(f.store, f.recorder, opts)
}

func (f *fixture) transactions(t *testing.T) []models.Transaction {
	t.Helper()
	list, _, err := f.store.Transactions().Find(context.Background(), f.owner, repository.TransactionFilter{})
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	return list
}

func (f *fixture) balance(t *testing.T) int64 {
	t.Helper()
	a, err := f.store.Accounts().Get(context.Background(), f.owner, f.account.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	return a.BalanceCent
}

func TestRun_CreatesDueTransaction(t *testing.T) {
	f := newFixture(t)
	r := f.addRule(t, nil)
	now := date(2024, 2, 1).Add(9 * time.Hour)

	res, err := f.processor(Options{}).Run(context.Background(), now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Processed != 1 || res.Skipped != 0 || res.Failed != 0 {
		t.Fatalf("result = %+v, want 1 processed", res)
	}
	if res.Day.String() != "2024-02-01" {
		t.Errorf("day = %s", res.Day)
	}

	txs := f.transactions(t)
	if len(txs) != 1 {
		t.Fatalf("got %d transactions, want 1", len(txs))
	}
	tx := txs[0]
	if tx.AmountCent != 1200_00 || tx.Type != models.TypeIncome || tx.Description != "Salary (Recurring)" {
		t.Errorf("transaction = %+v", tx)
	}
	if tx.RecurringID == nil || *tx.RecurringID != r.ID {
		t.Errorf("recurring id = %v, want %d", tx.RecurringID, r.ID)
	}
	if !tx.Date.Equal(date(2024, 2, 1)) {
		t.Errorf("date = %v", tx.Date)
	}
	if got := f.balance(t); got != 1200_00 {
		t.Errorf("balance = %d, want 120000", got)
	}

	got, err := f.store.Recurring().Get(context.Background(), f.owner, r.ID)
	if err != nil {
		t.Fatalf("get rule: %v", err)
	}
	if got.LastExecuted == nil || !got.LastExecuted.Equal(now) {
		t.Errorf("last executed = %v, want %v", got.LastExecuted, now)
	}
}

func TestRun_SecondRunSameDayIsNoop(t *testing.T) {
	f := newFixture(t)
	f.addRule(t, nil)
	p := f.processor(Options{})
	ctx := context.Background()

	if _, err := p.Run(ctx, date(2024, 2, 1).Add(9*time.Hour)); err != nil {
		t.Fatalf("first run: %v", err)
	}
	res, err := p.Run(ctx, date(2024, 2, 1).Add(15*time.Hour))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if res.Processed != 0 || res.Skipped != 1 {
		t.Errorf("second run = %+v, want 0 processed 1 skipped", res)
	}
	if n := len(f.transactions(t)); n != 1 {
		t.Errorf("got %d transactions, want 1", n)
	}
	if got := f.balance(t); got != 1200_00 {
		t.Errorf("balance = %d, want 120000", got)
	}

	// next month fires again
	res, err = p.Run(ctx, date(2024, 3, 1).Add(time.Hour))
	if err != nil {
		t.Fatalf("march run: %v", err)
	}
	if res.Processed != 1 {
		t.Errorf("march run = %+v, want 1 processed", res)
	}
	if got := f.balance(t); got != 2400_00 {
		t.Errorf("balance = %d, want 240000", got)
	}
}

func TestRun_InactiveRuleIgnored(t *testing.T) {
	f := newFixture(t)
	f.addRule(t, func(r *models.RecurringTransaction) { r.IsActive = false })

	res, err := f.processor(Options{}).Run(context.Background(), date(2024, 2, 1))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Processed != 0 || res.Skipped != 0 {
		t.Errorf("result = %+v, want nothing", res)
	}
	if n := len(f.transactions(t)); n != 0 {
		t.Errorf("got %d transactions, want 0", n)
	}
}

func TestRun_MonthEndPolicy(t *testing.T) {
	for _, tt := range []struct {
		policy MonthEndPolicy
		want   int
	}{
		{PolicyExact, 0},
		{PolicyClamp, 1},
	} {
		t.Run(string(tt.policy), func(t *testing.T) {
			f := newFixture(t)
			f.addRule(t, func(r *models.RecurringTransaction) {
				r.DayOfMonth = 31
				r.Type = models.TypeExpense
				r.AmountCent = 3000_00
			})
			res, err := f.processor(Options{Policy: tt.policy}).Run(context.Background(), date(2024, 4, 30))
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if res.Processed != tt.want {
				t.Errorf("processed = %d, want %d", res.Processed, tt.want)
			}
			if got := f.balance(t); got != int64(-3000_00*tt.want) {
				t.Errorf("balance = %d", got)
			}
		})
	}
}

func TestRun_FailureIsIsolated(t *testing.T) {
	f := newFixture(t)
	bad := f.addRule(t, func(r *models.RecurringTransaction) {
		r.Name = "Orphan"
		r.AccountID = 9999
	})
	f.addRule(t, nil)

	res, err := f.processor(Options{NotifyFailures: true}).Run(context.Background(), date(2024, 2, 1))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Processed != 1 || res.Failed != 1 {
		t.Fatalf("result = %+v, want 1 processed 1 failed", res)
	}
	if len(res.Failures) != 1 || res.Failures[0].RuleID != bad.ID {
		t.Errorf("failures = %+v", res.Failures)
	}

	// the failed rule left nothing behind and can be retried
	got, _ := f.store.Recurring().Get(context.Background(), f.owner, bad.ID)
	if got.LastExecuted != nil {
		t.Errorf("failed rule marked executed at %v", got.LastExecuted)
	}
	if n := len(f.transactions(t)); n != 1 {
		t.Errorf("got %d transactions, want 1", n)
	}

	notes, err := f.store.Notifications().List(context.Background(), f.owner)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notes) != 1 || notes[0].Type != models.NotificationRecurringFailed {
		t.Errorf("notifications = %+v", notes)
	}
}

func TestRun_NoNotificationWhenDisabled(t *testing.T) {
	f := newFixture(t)
	f.addRule(t, func(r *models.RecurringTransaction) { r.AccountID = 9999 })

	if _, err := f.processor(Options{}).Run(context.Background(), date(2024, 2, 1)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	notes, _ := f.store.Notifications().List(context.Background(), f.owner)
	if len(notes) != 0 {
		t.Errorf("got %d notifications, want 0", len(notes))
	}
}

// racingRecorder marks the rule executed inside the same unit of work, as a
// concurrent run would have, before the processor claims it.
type racingRecorder struct {
	inner *service.TransactionService
	now   time.Time
}

func (r racingRecorder) Record(ctx context.Context, store repository.Store, owner auth.Owner, t *models.Transaction) error {
	if err := r.inner.Record(ctx, store, owner, t); err != nil {
		return err
	}
	_, err := store.Recurring().MarkExecuted(ctx, owner, *t.RecurringID, r.now, r.now.Add(-time.Hour))
	return err
}

func TestRun_LostClaimRollsBack(t *testing.T) {
	f := newFixture(t)
	f.addRule(t, nil)
	now := date(2024, 2, 1).Add(2 * time.Hour)

	p := NewProcessor(f.store, racingRecorder{inner: f.recorder, now: now}, Options{Logger: zerolog.Nop()})
	res, err := p.Run(context.Background(), now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Processed != 0 || res.Skipped != 1 {
		t.Errorf("result = %+v, want 1 skipped", res)
	}
	if n := len(f.transactions(t)); n != 0 {
		t.Errorf("got %d transactions, want 0", n)
	}
	if got := f.balance(t); got != 0 {
		t.Errorf("balance = %d, want 0", got)
	}
}

func TestRun_Timezone(t *testing.T) {
	f := newFixture(t)
	f.addRule(t, nil)

	// 18:00 UTC on Jan 31 is already Feb 1 at +08:00
	now := date(2024, 1, 31).Add(18 * time.Hour)
	res, err := f.processor(Options{Location: time.FixedZone("CST", 8*3600)}).Run(context.Background(), now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Processed != 1 || res.Day.String() != "2024-02-01" {
		t.Errorf("result = %+v", res)
	}

	res, err = f.processor(Options{}).Run(context.Background(), now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Processed != 0 || res.Day.String() != "2024-01-31" {
		t.Errorf("UTC result = %+v", res)
	}
}

func TestRunFor_ScopesToOwner(t *testing.T) {
	f := newFixture(t)
	f.addRule(t, nil)

	res, err := f.processor(Options{}).RunFor(context.Background(), auth.NewOwner(2), date(2024, 2, 1))
	if err != nil {
		t.Fatalf("RunFor: %v", err)
	}
	if res.Processed != 0 {
		t.Errorf("other owner processed %d rules", res.Processed)
	}

	res, err = f.processor(Options{}).RunFor(context.Background(), f.owner, date(2024, 2, 1))
	if err != nil {
		t.Fatalf("RunFor: %v", err)
	}
	if res.Processed != 1 {
		t.Errorf("owner processed %d rules, want 1", res.Processed)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	f := newFixture(t)
	f.addRule(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.processor(Options{}).Run(ctx, date(2024, 2, 1))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if n := len(f.transactions(t)); n != 0 {
		t.Errorf("got %d transactions, want 0", n)
	}
}
