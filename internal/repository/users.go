package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"pocket-ledger/internal/apperr"
	"pocket-ledger/internal/auth"
	"pocket-ledger/internal/models"
)

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(username) = LOWER(?)", u.Username).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return apperr.Validation("username already exists")
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepo) Get(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

// FindByUsername matches case-insensitively.
func (r *userRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(username) = LOWER(?)", username).
		First(&u).Error
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}

func (r *userRepo) Save(ctx context.Context, u *models.User) error {
	if err := r.db.WithContext(ctx).Save(u).Error; err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return r.updateColumn(ctx, id, "password_hash", hash)
}

func (r *userRepo) UpdateDisplayName(ctx context.Context, id uint, name string) error {
	return r.updateColumn(ctx, id, "display_name", name)
}

func (r *userRepo) updateColumn(ctx context.Context, id uint, column string, value any) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return fmt.Errorf("update user %s: %w", column, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

type sessionRepo struct {
	db *gorm.DB
}

func (r *sessionRepo) Create(ctx context.Context, s *models.Session) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Get returns only live sessions; revoked or expired ones read as not found.
func (r *sessionRepo) Get(ctx context.Context, id string) (*models.Session, error) {
	var s models.Session
	err := r.db.WithContext(ctx).
		Where("id = ? AND revoked = ? AND expires_at > ?", id, false, time.Now().UTC()).
		First(&s).Error
	if err != nil {
		return nil, notFound(err, "session")
	}
	return &s, nil
}

func (r *sessionRepo) Revoke(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", id).
		Update("revoked", true).Error
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (r *sessionRepo) RevokeAll(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).Model(&models.Session{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true).Error
	if err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}

type auditRepo struct {
	db *gorm.DB
}

func (r *auditRepo) Record(ctx context.Context, owner auth.Owner, log *models.AuditLog) error {
	if err := owner.Check(); err != nil {
		return err
	}
	log.UserID = owner.UserID()
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("record audit log: %w", err)
	}
	return nil
}

func (r *auditRepo) Find(ctx context.Context, owner auth.Owner, f AuditFilter) ([]models.AuditLog, int64, error) {
	if err := owner.Check(); err != nil {
		return nil, 0, err
	}
	base := r.db.WithContext(ctx).Model(&models.AuditLog{}).Where(ownerClause(owner))
	if f.From != nil {
		base = base.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		base = base.Where("created_at < ?", *f.To)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	q := base.Session(&gorm.Session{}).Order("created_at DESC, id DESC")
	if f.PageSize > 0 {
		page := f.Page
		if page <= 0 {
			page = 1
		}
		q = q.Limit(f.PageSize).Offset((page - 1) * f.PageSize)
	}
	rows := make([]models.AuditLog, 0)
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	return rows, total, nil
}
