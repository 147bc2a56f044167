package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pocket-ledger/internal/apperr"
	"pocket-ledger/internal/auth"
	"pocket-ledger/internal/models"
	"pocket-ledger/internal/repository"
	"pocket-ledger/internal/util"
)

// RecurringRuleService 负责周期规则的增删改查，不写 last_executed（只由周期任务写入）
type RecurringRuleService struct {
	store repository.Store
}

func NewRecurringRuleService(store repository.Store) *RecurringRuleService {
	return &RecurringRuleService{store: store}
}

type RuleInput struct {
	AccountID  uint             `json:"account_id"`
	CategoryID uint             `json:"category_id"`
	Name       string           `json:"name"`
	Amount     *decimal.Decimal `json:"amount"`
	Type       string           `json:"type"`
	Frequency  string           `json:"frequency"`
	DayOfMonth int              `json:"day_of_month"`
	StartDate  string           `json:"start_date"`
	EndDate    string           `json:"end_date"`
	IsActive   *bool            `json:"is_active"`
}

var ruleColumns = []string{
	"account_id", "category_id", "name", "amount_cent", "type",
	"frequency", "day_of_month", "start_date", "end_date", "is_active",
}

func (s *RecurringRuleService) build(in RuleInput) (*models.RecurringTransaction, error) {
	name, err := util.ValidateName("name", in.Name, 64)
	if err != nil {
		return nil, err
	}
	if in.AccountID == 0 {
		return nil, apperr.Validation("account_id is required")
	}
	if in.CategoryID == 0 {
		return nil, apperr.Validation("category_id is required")
	}
	amount, err := positiveCents("amount", in.Amount)
	if err != nil {
		return nil, err
	}
	typ := normalizeType(in.Type)
	if !models.ValidType(typ) {
		return nil, apperr.Validation("type must be INCOME or EXPENSE")
	}
	freq := strings.ToUpper(strings.TrimSpace(in.Frequency))
	if freq == "" {
		freq = models.FrequencyMonthly
	}
	if freq != models.FrequencyMonthly {
		return nil, apperr.Validation("frequency must be MONTHLY")
	}
	if in.DayOfMonth < 1 || in.DayOfMonth > 31 {
		return nil, apperr.Validation("day_of_month must be between 1 and 31")
	}
	start, err := util.ParseDate("start_date", in.StartDate)
	if err != nil {
		return nil, err
	}
	var end *time.Time
	if in.EndDate != "" {
		e, err := util.ParseDate("end_date", in.EndDate)
		if err != nil {
			return nil, err
		}
		if e.Before(start) {
			return nil, apperr.Validation("end_date must not be before start_date")
		}
		end = &e
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	return &models.RecurringTransaction{
		AccountID:  in.AccountID,
		CategoryID: in.CategoryID,
		Name:       name,
		AmountCent: amount,
		Type:       typ,
		Frequency:  freq,
		DayOfMonth: in.DayOfMonth,
		StartDate:  start,
		EndDate:    end,
		IsActive:   active,
	}, nil
}

func checkRefs(ctx context.Context, store repository.Store, owner auth.Owner, r *models.RecurringTransaction) error {
	if _, err := store.Accounts().Get(ctx, owner, r.AccountID); err != nil {
		return err
	}
	_, err := store.Categories().Get(ctx, owner, r.CategoryID)
	return err
}

func (s *RecurringRuleService) Create(ctx context.Context, owner auth.Owner, in RuleInput) (*models.RecurringTransaction, error) {
	r, err := s.build(in)
	if err != nil {
		return nil, err
	}
	err = s.store.Atomic(ctx, func(tx repository.Store) error {
		if err := checkRefs(ctx, tx, owner, r); err != nil {
			return err
		}
		return tx.Recurring().Create(ctx, owner, r)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RecurringRuleService) Update(ctx context.Context, owner auth.Owner, id uint, in RuleInput) (*models.RecurringTransaction, error) {
	r, err := s.build(in)
	if err != nil {
		return nil, err
	}
	err = s.store.Atomic(ctx, func(tx repository.Store) error {
		if _, err := tx.Recurring().Get(ctx, owner, id); err != nil {
			return err
		}
		if err := checkRefs(ctx, tx, owner, r); err != nil {
			return err
		}
		return tx.Recurring().Update(ctx, owner, id, r, ruleColumns...)
	})
	if err != nil {
		return nil, err
	}
	return s.store.Recurring().Get(ctx, owner, id)
}

// Toggle 切换启用状态，返回更新后的规则
// 账户或类别已被删除时不能重新启用
func (s *RecurringRuleService) Toggle(ctx context.Context, owner auth.Owner, id uint) (*models.RecurringTransaction, error) {
	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		cur, err := tx.Recurring().Get(ctx, owner, id)
		if err != nil {
			return err
		}
		if !cur.IsActive {
			if err := checkRefs(ctx, tx, owner, cur); err != nil {
				if apperr.IsNotFound(err) {
					return apperr.Validation("rule references a deleted account or category; update it before activating")
				}
				return err
			}
		}
		return tx.Recurring().Update(ctx, owner, id, &models.RecurringTransaction{IsActive: !cur.IsActive}, "is_active")
	})
	if err != nil {
		return nil, err
	}
	return s.store.Recurring().Get(ctx, owner, id)
}

func (s *RecurringRuleService) List(ctx context.Context, owner auth.Owner) ([]models.RecurringTransaction, error) {
	return s.store.Recurring().List(ctx, owner)
}

func (s *RecurringRuleService) Get(ctx context.Context, owner auth.Owner, id uint) (*models.RecurringTransaction, error) {
	return s.store.Recurring().Get(ctx, owner, id)
}

func (s *RecurringRuleService) Delete(ctx context.Context, owner auth.Owner, id uint) error {
	return s.store.Recurring().Delete(ctx, owner, id)
}
