package service

import (
	"context"

	"pocket-ledger/internal/apperr"
	"pocket-ledger/internal/auth"
	"pocket-ledger/internal/models"
	"pocket-ledger/internal/repository"
	"pocket-ledger/internal/util"
)

type CategoryService struct {
	store repository.Store
}

func NewCategoryService(store repository.Store) *CategoryService {
	return &CategoryService{store: store}
}

type CategoryInput struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// defaultCategories 新用户的默认类别
var defaultCategories = []CategoryInput{
	{Name: "Salary", Type: models.TypeIncome, Color: "#4caf50", Icon: "wallet"},
	{Name: "Bonus", Type: models.TypeIncome, Color: "#8bc34a", Icon: "gift"},
	{Name: "Investment", Type: models.TypeIncome, Color: "#009688", Icon: "trending-up"},
	{Name: "Food", Type: models.TypeExpense, Color: "#ff9800", Icon: "utensils"},
	{Name: "Transport", Type: models.TypeExpense, Color: "#2196f3", Icon: "bus"},
	{Name: "Shopping", Type: models.TypeExpense, Color: "#e91e63", Icon: "shopping-bag"},
	{Name: "Housing", Type: models.TypeExpense, Color: "#795548", Icon: "home"},
	{Name: "Entertainment", Type: models.TypeExpense, Color: "#9c27b0", Icon: "film"},
	{Name: "Health", Type: models.TypeExpense, Color: "#f44336", Icon: "heart"},
}

func (s *CategoryService) build(in CategoryInput) (*models.Category, error) {
	name, err := util.ValidateName("name", in.Name, 64)
	if err != nil {
		return nil, err
	}
	typ := normalizeType(in.Type)
	if !models.ValidType(typ) {
		return nil, apperr.Validation("type must be INCOME or EXPENSE")
	}
	color, err := optionalText("color", in.Color, 16)
	if err != nil {
		return nil, err
	}
	icon, err := optionalText("icon", in.Icon, 32)
	if err != nil {
		return nil, err
	}
	return &models.Category{Name: name, Type: typ, Color: color, Icon: icon}, nil
}

func (s *CategoryService) Create(ctx context.Context, owner auth.Owner, in CategoryInput) (*models.Category, error) {
	c, err := s.build(in)
	if err != nil {
		return nil, err
	}
	if err := s.store.Categories().Create(ctx, owner, c); err != nil {
		return nil, err
	}
	return c, nil
}

// EnsureDefaults 在调用方的事务里创建默认类别
func (s *CategoryService) EnsureDefaults(ctx context.Context, store repository.Store, owner auth.Owner) error {
	for _, in := range defaultCategories {
		c, err := s.build(in)
		if err != nil {
			return err
		}
		if err := store.Categories().Create(ctx, owner, c); err != nil {
			return err
		}
	}
	return nil
}

// List 返回全部类别，传 typ 时只返回该类型
func (s *CategoryService) List(ctx context.Context, owner auth.Owner, typ string) ([]models.Category, error) {
	all, err := s.store.Categories().List(ctx, owner)
	if err != nil {
		return nil, err
	}
	if typ == "" {
		return all, nil
	}
	typ = normalizeType(typ)
	out := make([]models.Category, 0, len(all))
	for _, c := range all {
		if c.Type == typ {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *CategoryService) Get(ctx context.Context, owner auth.Owner, id uint) (*models.Category, error) {
	return s.store.Categories().Get(ctx, owner, id)
}

func (s *CategoryService) Update(ctx context.Context, owner auth.Owner, id uint, in CategoryInput) (*models.Category, error) {
	c, err := s.build(in)
	if err != nil {
		return nil, err
	}
	if err := s.store.Categories().Update(ctx, owner, id, c, "name", "type", "color", "icon"); err != nil {
		return nil, err
	}
	return s.store.Categories().Get(ctx, owner, id)
}

// Delete 类别仍被收支记录、周期规则或预算使用时不允许删除
func (s *CategoryService) Delete(ctx context.Context, owner auth.Owner, id uint) error {
	return s.store.Atomic(ctx, func(tx repository.Store) error {
		if _, err := tx.Categories().Get(ctx, owner, id); err != nil {
			return err
		}
		used, err := tx.Categories().InUse(ctx, owner, id)
		if err != nil {
			return err
		}
		if used {
			return apperr.Validation("category is in use")
		}
		return tx.Categories().Delete(ctx, owner, id)
	})
}
