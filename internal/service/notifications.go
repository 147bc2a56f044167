package service

import (
	"context"

	"pocket-ledger/internal/auth"
	"pocket-ledger/internal/models"
	"pocket-ledger/internal/repository"
)

type NotificationService struct {
	store repository.Store
}

func NewNotificationService(store repository.Store) *NotificationService {
	return &NotificationService{store: store}
}

func (s *NotificationService) List(ctx context.Context, owner auth.Owner, unreadOnly bool) ([]models.Notification, error) {
	if unreadOnly {
		return s.store.Notifications().Unread(ctx, owner)
	}
	return s.store.Notifications().List(ctx, owner)
}

func (s *NotificationService) Notify(ctx context.Context, owner auth.Owner, typ, title, message string) (*models.Notification, error) {
	n := &models.Notification{Type: typ, Title: title, Message: message}
	if err := s.store.Notifications().Create(ctx, owner, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, owner auth.Owner, id uint) error {
	return s.store.Notifications().MarkRead(ctx, owner, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, owner auth.Owner) (int64, error) {
	return s.store.Notifications().MarkAllRead(ctx, owner)
}

func (s *NotificationService) Delete(ctx context.Context, owner auth.Owner, id uint) error {
	return s.store.Notifications().Delete(ctx, owner, id)
}
