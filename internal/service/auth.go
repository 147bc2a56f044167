package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pocket-ledger/internal/apperr"
	"pocket-ledger/internal/auth"
	"pocket-ledger/internal/models"
	"pocket-ledger/internal/repository"
	"pocket-ledger/internal/util"
)

const (
	maxFailedLogins = 5
	lockDuration    = 10 * time.Minute
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

type AuthOptions struct {
	Secret          string
	Issuer          string
	TTL             time.Duration
	BcryptCost      int
	DefaultCurrency string
}

// AuthService 负责注册、登录会话和个人资料
type AuthService struct {
	store      repository.Store
	categories *CategoryService
	opts       AuthOptions
	now        func() time.Time
}

func NewAuthService(store repository.Store, categories *CategoryService, opts AuthOptions) *AuthService {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = 12
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "CNY"
	}
	return &AuthService{store: store, categories: categories, opts: opts, now: time.Now}
}

type RegisterInput struct {
	Username        string `json:"username" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	DisplayName     string `json:"display_name" binding:"max=64"`
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// isStrongPassword 检查密码强度：8-32 位，包含大小写字母和数字
func isStrongPassword(pwd string) bool {
	if len(pwd) < 8 || len(pwd) > 32 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, ch := range pwd {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

// Register 在同一事务里创建用户、现金账户和默认类别
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if !usernameRe.MatchString(username) {
		return nil, apperr.Validation("username must be 3-20 letters, digits or underscores")
	}
	if !isStrongPassword(in.Password) {
		return nil, apperr.Validation("password must be 8-32 characters with upper case, lower case and digits")
	}
	if in.Password != in.ConfirmPassword {
		return nil, apperr.Validation("passwords do not match")
	}
	display, err := optionalText("display_name", in.DisplayName, 64)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.opts.BcryptCost)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}

	u := &models.User{Username: username, PasswordHash: string(hash), DisplayName: display}
	err = s.store.Atomic(ctx, func(tx repository.Store) error {
		if err := tx.Users().Create(ctx, u); err != nil {
			return err
		}
		owner := auth.NewOwner(u.ID)
		cash := &models.Account{Name: "Cash", Currency: s.opts.DefaultCurrency}
		if err := tx.Accounts().Create(ctx, owner, cash); err != nil {
			return err
		}
		return s.categories.EnsureDefaults(ctx, tx, owner)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Login 校验密码，连续失败 5 次锁定 10 分钟，成功后创建会话
func (s *AuthService) Login(ctx context.Context, username, password, ip string) (*LoginResult, error) {
	badCredentials := apperr.Unauthenticated("invalid username or password")

	u, err := s.store.Users().FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, badCredentials
		}
		return nil, err
	}

	now := s.now().UTC()
	if u.LockedUntil != nil && now.Before(*u.LockedUntil) {
		return nil, apperr.Unauthenticated("account locked, try again later")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		u.FailedLoginAttempts++
		if u.FailedLoginAttempts >= maxFailedLogins {
			until := now.Add(lockDuration)
			u.LockedUntil = &until
			u.FailedLoginAttempts = 0
		}
		if err := s.store.Users().Save(ctx, u); err != nil {
			return nil, err
		}
		return nil, badCredentials
	}

	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	u.LastLoginAt = &now
	u.LastLoginIP = ip

	sessionID := uuid.NewString()
	token, exp, err := util.GenerateToken(s.opts.Secret, s.opts.Issuer, u.ID, sessionID, s.opts.TTL)
	if err != nil {
		return nil, apperr.Internal("issue token", err)
	}

	err = s.store.Atomic(ctx, func(tx repository.Store) error {
		if err := tx.Users().Save(ctx, u); err != nil {
			return err
		}
		return tx.Sessions().Create(ctx, &models.Session{
			ID:        sessionID,
			UserID:    u.ID,
			ExpiresAt: exp.UTC(),
			IP:        ip,
		})
	})
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: u}, nil
}

// Authenticate 校验 token 及其会话是否有效
func (s *AuthService) Authenticate(ctx context.Context, token string) (auth.Owner, *util.Claims, error) {
	expired := apperr.Unauthenticated("login expired, please sign in again")

	claims, err := util.ParseToken(s.opts.Secret, token)
	if err != nil {
		return auth.Owner{}, nil, expired
	}
	sess, err := s.store.Sessions().Get(ctx, claims.ID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return auth.Owner{}, nil, expired
		}
		return auth.Owner{}, nil, err
	}
	if sess.UserID != claims.UserID {
		return auth.Owner{}, nil, expired
	}
	return auth.NewOwner(claims.UserID), claims, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.store.Sessions().Revoke(ctx, sessionID)
}

func (s *AuthService) Me(ctx context.Context, owner auth.Owner) (*models.User, error) {
	if err := owner.Check(); err != nil {
		return nil, err
	}
	u, err := s.store.Users().Get(ctx, owner.UserID())
	if apperr.IsNotFound(err) {
		return nil, apperr.Unauthenticated("user no longer exists")
	}
	return u, err
}

func (s *AuthService) UpdateProfile(ctx context.Context, owner auth.Owner, displayName string) (*models.User, error) {
	if err := owner.Check(); err != nil {
		return nil, err
	}
	name, err := optionalText("display_name", displayName, 64)
	if err != nil {
		return nil, err
	}
	if err := s.store.Users().UpdateDisplayName(ctx, owner.UserID(), name); err != nil {
		return nil, err
	}
	return s.Me(ctx, owner)
}

// ChangePassword 修改密码并撤销所有会话
func (s *AuthService) ChangePassword(ctx context.Context, owner auth.Owner, oldPassword, newPassword string) error {
	u, err := s.Me(ctx, owner)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apperr.Validation("old password is incorrect")
		}
		return apperr.Internal("verify password", err)
	}
	if !isStrongPassword(newPassword) {
		return apperr.Validation("password must be 8-32 characters with upper case, lower case and digits")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.opts.BcryptCost)
	if err != nil {
		return apperr.Internal("hash password", err)
	}

	return s.store.Atomic(ctx, func(tx repository.Store) error {
		if err := tx.Users().UpdatePassword(ctx, u.ID, string(hash)); err != nil {
			return err
		}
		return tx.Sessions().RevokeAll(ctx, u.ID)
	})
}
