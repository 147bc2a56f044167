package service

import (
	"context"
	"time"

	"cloud.google.com/go/civil"

	"pocket-ledger/internal/apperr"
	"pocket-ledger/internal/auth"
	"pocket-ledger/internal/models"
	"pocket-ledger/internal/repository"
)

// DashboardService 统计收支数据供图表使用，只读
type DashboardService struct {
	store repository.Store
}

func NewDashboardService(store repository.Store) *DashboardService {
	return &DashboardService{store: store}
}

type DayPoint struct {
	Date        civil.Date
	IncomeCent  int64
	ExpenseCent int64
}

type MonthPoint struct {
	Year        int
	Month       time.Month
	IncomeCent  int64
	ExpenseCent int64
}

type Summary struct {
	Year             int
	Month            time.Month
	IncomeCent       int64
	ExpenseCent      int64
	NetCent          int64
	TotalBalanceCent int64
	Expenses         []repository.CategoryTotal
	Incomes          []repository.CategoryTotal
	Daily            []DayPoint
}

// monthRange 月初和下月初（UTC）
func monthRange(year, month int) (time.Time, time.Time) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func (s *DashboardService) Summary(ctx context.Context, owner auth.Owner, year int, month time.Month) (*Summary, error) {
	from, to := monthRange(year, int(month))
	income, expense, err := s.store.Transactions().Totals(ctx, owner, from, to)
	if err != nil {
		return nil, err
	}
	balance, err := s.store.Accounts().TotalBalance(ctx, owner)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.Transactions().SumByCategory(ctx, owner, from, to, models.TypeExpense)
	if err != nil {
		return nil, err
	}
	incomes, err := s.store.Transactions().SumByCategory(ctx, owner, from, to, models.TypeIncome)
	if err != nil {
		return nil, err
	}
	moves, err := s.store.Transactions().Movements(ctx, owner, from, to)
	if err != nil {
		return nil, err
	}

	first := civil.DateOf(from)
	days := civil.DateOf(to).DaysSince(first)
	daily := make([]DayPoint, days)
	for i := range daily {
		daily[i].Date = first.AddDays(i)
	}
	for _, m := range moves {
		i := civil.DateOf(m.Date.UTC()).DaysSince(first)
		if i < 0 || i >= days {
			continue
		}
		addMovement(&daily[i].IncomeCent, &daily[i].ExpenseCent, m)
	}

	return &Summary{
		Year:             year,
		Month:            month,
		IncomeCent:       income,
		ExpenseCent:      expense,
		NetCent:          income - expense,
		TotalBalanceCent: balance,
		Expenses:         expenses,
		Incomes:          incomes,
		Daily:            daily,
	}, nil
}

func (s *DashboardService) CategoryBreakdown(ctx context.Context, owner auth.Owner, from, to time.Time, typ string) ([]repository.CategoryTotal, error) {
	if !to.After(from) {
		return nil, apperr.Validation("end must be after start")
	}
	if typ != "" {
		typ = normalizeType(typ)
		if !models.ValidType(typ) {
			return nil, apperr.Validation("type must be INCOME or EXPENSE")
		}
	}
	return s.store.Transactions().SumByCategory(ctx, owner, from, to, typ)
}

// MonthlyTrend 返回截至 now 所在月的最近 months 个月收支，按时间正序
func (s *DashboardService) MonthlyTrend(ctx context.Context, owner auth.Owner, months int, now time.Time) ([]MonthPoint, error) {
	if months <= 0 {
		months = 6
	}
	if months > 24 {
		return nil, apperr.Validation("months must be at most 24")
	}
	now = now.UTC()
	last := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	from := last.AddDate(0, -(months - 1), 0)
	to := last.AddDate(0, 1, 0)

	moves, err := s.store.Transactions().Movements(ctx, owner, from, to)
	if err != nil {
		return nil, err
	}

	points := make([]MonthPoint, months)
	for i := range points {
		m := from.AddDate(0, i, 0)
		points[i].Year, points[i].Month = m.Year(), m.Month()
	}
	for _, mv := range moves {
		d := mv.Date.UTC()
		i := (d.Year()-from.Year())*12 + int(d.Month()) - int(from.Month())
		if i < 0 || i >= months {
			continue
		}
		addMovement(&points[i].IncomeCent, &points[i].ExpenseCent, mv)
	}
	return points, nil
}

func addMovement(income, expense *int64, m repository.Movement) {
	switch m.Type {
	case models.TypeIncome:
		*income += m.AmountCent
	case models.TypeExpense:
		*expense += m.AmountCent
	}
}
