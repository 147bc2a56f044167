package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"pocket-ledger/internal/apperr"
	"pocket-ledger/internal/auth"
	"pocket-ledger/internal/models"
	"pocket-ledger/internal/repository"
	"pocket-ledger/internal/util"
)

type AssetService struct {
	store           repository.Store
	defaultCurrency string
}

func NewAssetService(store repository.Store, defaultCurrency string) *AssetService {
	return &AssetService{store: store, defaultCurrency: defaultCurrency}
}

type AssetInput struct {
	Name       string           `json:"name"`
	Type       string           `json:"type"`
	Value      *decimal.Decimal `json:"value"`
	Currency   string           `json:"currency"`
	AcquiredAt string           `json:"acquired_at"`
	Note       string           `json:"note"`
}

func (s *AssetService) build(in AssetInput) (*models.Asset, error) {
	name, err := util.ValidateName("name", in.Name, 64)
	if err != nil {
		return nil, err
	}
	typ, err := optionalText("type", in.Type, 32)
	if err != nil {
		return nil, err
	}
	if typ == "" {
		typ = "other"
	}
	if in.Value == nil {
		return nil, apperr.Validation("value is required")
	}
	value, err := signedCents("value", in.Value)
	if err != nil {
		return nil, err
	}
	if value < 0 {
		return nil, apperr.Validation("value must not be negative")
	}
	currency, err := util.NormalizeCurrency(in.Currency, s.defaultCurrency)
	if err != nil {
		return nil, err
	}
	note, err := optionalText("note", in.Note, 255)
	if err != nil {
		return nil, err
	}
	var acquired *time.Time
	if in.AcquiredAt != "" {
		d, err := util.ParseDate("acquired_at", in.AcquiredAt)
		if err != nil {
			return nil, err
		}
		acquired = &d
	}
	return &models.Asset{Name: name, Type: typ, ValueCent: value, Currency: currency, AcquiredAt: acquired, Note: note}, nil
}

func (s *AssetService) Create(ctx context.Context, owner auth.Owner, in AssetInput) (*models.Asset, error) {
	a, err := s.build(in)
	if err != nil {
		return nil, err
	}
	if err := s.store.Assets().Create(ctx, owner, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssetService) Update(ctx context.Context, owner auth.Owner, id uint, in AssetInput) (*models.Asset, error) {
	a, err := s.build(in)
	if err != nil {
		return nil, err
	}
	err = s.store.Assets().Update(ctx, owner, id, a, "name", "type", "value_cent", "currency", "acquired_at", "note")
	if err != nil {
		return nil, err
	}
	return s.store.Assets().Get(ctx, owner, id)
}

func (s *AssetService) List(ctx context.Context, owner auth.Owner) ([]models.Asset, error) {
	return s.store.Assets().List(ctx, owner)
}

func (s *AssetService) Get(ctx context.Context, owner auth.Owner, id uint) (*models.Asset, error) {
	return s.store.Assets().Get(ctx, owner, id)
}

func (s *AssetService) Delete(ctx context.Context, owner auth.Owner, id uint) error {
	return s.store.Assets().Delete(ctx, owner, id)
}
