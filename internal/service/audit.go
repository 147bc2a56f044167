package service

import (
	"context"
	"time"

	"pocket-ledger/internal/auth"
	"pocket-ledger/internal/models"
	"pocket-ledger/internal/repository"
	"pocket-ledger/internal/util"
)

// AuditService 保存操作日志，path 和 action 加密存储
type AuditService struct {
	store  repository.Store
	sealer *util.Sealer
}

func NewAuditService(store repository.Store, sealer *util.Sealer) *AuditService {
	return &AuditService{store: store, sealer: sealer}
}

type AuditRecord struct {
	Method    string
	Path      string
	Action    string
	Status    int
	IP        string
	UserAgent string
}

type AuditEntry struct {
	ID        uint      `json:"id"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Action    string    `json:"action"`
	Status    int       `json:"status"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *AuditService) Record(ctx context.Context, owner auth.Owner, r AuditRecord) error {
	path, err := s.sealer.SealString(r.Path)
	if err != nil {
		return err
	}
	action, err := s.sealer.SealString(r.Action)
	if err != nil {
		return err
	}
	return s.store.AuditLogs().Record(ctx, owner, &models.AuditLog{
		Method:    r.Method,
		PathEnc:   path,
		ActionEnc: action,
		Status:    r.Status,
		IP:        r.IP,
		UserAgent: truncate(r.UserAgent, 255),
	})
}

// List 返回解密后的日志，解密失败则保留密文
func (s *AuditService) List(ctx context.Context, owner auth.Owner, f repository.AuditFilter) ([]AuditEntry, int64, error) {
	logs, total, err := s.store.AuditLogs().Find(ctx, owner, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]AuditEntry, 0, len(logs))
	for _, l := range logs {
		out = append(out, AuditEntry{
			ID:        l.ID,
			Method:    l.Method,
			Path:      s.open(l.PathEnc),
			Action:    s.open(l.ActionEnc),
			Status:    l.Status,
			IP:        l.IP,
			UserAgent: l.UserAgent,
			CreatedAt: l.CreatedAt,
		})
	}
	return out, total, nil
}

func (s *AuditService) open(sealed string) string {
	plain, err := s.sealer.OpenString(sealed)
	if err != nil {
		return sealed
	}
	return plain
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
