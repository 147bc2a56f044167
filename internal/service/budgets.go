package service

import (
	"context"

	"github.com/shopspring/decimal"

	"pocket-ledger/internal/apperr"
	"pocket-ledger/internal/auth"
	"pocket-ledger/internal/models"
	"pocket-ledger/internal/repository"
)

type BudgetService struct {
	store repository.Store
}

func NewBudgetService(store repository.Store) *BudgetService {
	return &BudgetService{store: store}
}

type BudgetInput struct {
	CategoryID uint             `json:"category_id"`
	Amount     *decimal.Decimal `json:"amount"`
	Year       int              `json:"year"`
	Month      int              `json:"month"`
}

// BudgetStatus 预算及其已用金额
type BudgetStatus struct {
	Budget        models.Budget
	SpentCent     int64
	RemainingCent int64
	Percent       decimal.Decimal
	Exceeded      bool
}

func (s *BudgetService) build(in BudgetInput) (*models.Budget, error) {
	if in.CategoryID == 0 {
		return nil, apperr.Validation("category_id is required")
	}
	amount, err := positiveCents("amount", in.Amount)
	if err != nil {
		return nil, err
	}
	if in.Month < 1 || in.Month > 12 {
		return nil, apperr.Validation("month must be between 1 and 12")
	}
	if in.Year < 1970 || in.Year > 9999 {
		return nil, apperr.Validation("year is out of range")
	}
	return &models.Budget{CategoryID: in.CategoryID, AmountCent: amount, Year: in.Year, Month: in.Month}, nil
}

// checkPeriod 同一类别每月只能有一个预算
func checkPeriod(ctx context.Context, store repository.Store, owner auth.Owner, b *models.Budget, selfID uint) error {
	if _, err := store.Categories().Get(ctx, owner, b.CategoryID); err != nil {
		return err
	}
	existing, err := store.Budgets().ForMonth(ctx, owner, b.Year, b.Month)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e.CategoryID == b.CategoryID && e.ID != selfID {
			return apperr.Validation("a budget for this category and month already exists")
		}
	}
	return nil
}

func (s *BudgetService) Create(ctx context.Context, owner auth.Owner, in BudgetInput) (*models.Budget, error) {
	b, err := s.build(in)
	if err != nil {
		return nil, err
	}
	err = s.store.Atomic(ctx, func(tx repository.Store) error {
		if err := checkPeriod(ctx, tx, owner, b, 0); err != nil {
			return err
		}
		return tx.Budgets().Create(ctx, owner, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BudgetService) Update(ctx context.Context, owner auth.Owner, id uint, in BudgetInput) (*models.Budget, error) {
	b, err := s.build(in)
	if err != nil {
		return nil, err
	}
	err = s.store.Atomic(ctx, func(tx repository.Store) error {
		if _, err := tx.Budgets().Get(ctx, owner, id); err != nil {
			return err
		}
		if err := checkPeriod(ctx, tx, owner, b, id); err != nil {
			return err
		}
		return tx.Budgets().Update(ctx, owner, id, b, "category_id", "amount_cent", "year", "month")
	})
	if err != nil {
		return nil, err
	}
	return s.store.Budgets().Get(ctx, owner, id)
}

// List 返回指定月份的预算，year 为 0 时返回全部
func (s *BudgetService) List(ctx context.Context, owner auth.Owner, year, month int) ([]models.Budget, error) {
	if year == 0 {
		return s.store.Budgets().List(ctx, owner)
	}
	return s.store.Budgets().ForMonth(ctx, owner, year, month)
}

func (s *BudgetService) Get(ctx context.Context, owner auth.Owner, id uint) (*models.Budget, error) {
	return s.store.Budgets().Get(ctx, owner, id)
}

func (s *BudgetService) Delete(ctx context.Context, owner auth.Owner, id uint) error {
	return s.store.Budgets().Delete(ctx, owner, id)
}

// Status 对比当月每个预算和该类别的实际支出
func (s *BudgetService) Status(ctx context.Context, owner auth.Owner, year, month int) ([]BudgetStatus, error) {
	budgets, err := s.store.Budgets().ForMonth(ctx, owner, year, month)
	if err != nil {
		return nil, err
	}
	from, to := monthRange(year, month)
	totals, err := s.store.Transactions().SumByCategory(ctx, owner, from, to, models.TypeExpense)
	if err != nil {
		return nil, err
	}
	spent := make(map[uint]int64, len(totals))
	for _, t := range totals {
		spent[t.CategoryID] += t.TotalCent
	}

	out := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		used := spent[b.CategoryID]
		st := BudgetStatus{
			Budget:        b,
			SpentCent:     used,
			RemainingCent: b.AmountCent - used,
			Percent:       decimal.Zero,
			Exceeded:      used > b.AmountCent,
		}
		if b.AmountCent > 0 {
			st.Percent = decimal.NewFromInt(used * 100).Div(decimal.NewFromInt(b.AmountCent)).Round(1)
		}
		out = append(out, st)
	}
	return out, nil
}
