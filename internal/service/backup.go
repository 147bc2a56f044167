package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"pocket-ledger/internal/apperr"
	"pocket-ledger/internal/auth"
	"pocket-ledger/internal/models"
	"pocket-ledger/internal/repository"
	"pocket-ledger/internal/util"
)

const snapshotVersion = 1

// snapshot 是写入备份文件的内容结构（加密后落盘）
type snapshot struct {
	Version      int                           `json:"version"`
	UserID       uint                          `json:"user_id"`
	Created      time.Time                     `json:"created"`
	Accounts     []models.Account              `json:"accounts"`
	Categories   []models.Category             `json:"categories"`
	Rules        []models.RecurringTransaction `json:"recurring_transactions"`
	Transactions []models.Transaction          `json:"transactions"`
	Budgets      []models.Budget               `json:"budgets"`
	Assets       []models.Asset                `json:"assets"`
}

type RestoreResult struct {
	Accounts     int `json:"accounts"`
	Categories   int `json:"categories"`
	Rules        int `json:"recurring_transactions"`
	SkippedRules int `json:"skipped_recurring_transactions"`
	Transactions int `json:"transactions"`
	Budgets      int `json:"budgets"`
	Assets       int `json:"assets"`
}

// BackupService 生成当前用户的加密备份文件，并支持恢复
type BackupService struct {
	store  repository.Store
	sealer *util.Sealer
	dir    string
	now    func() time.Time
}

func NewBackupService(store repository.Store, sealer *util.Sealer, dir string) *BackupService {
	return &BackupService{store: store, sealer: sealer, dir: dir, now: time.Now}
}

func (s *BackupService) Create(ctx context.Context, owner auth.Owner) (*models.Backup, error) {
	snap, err := s.collect(ctx, owner)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, apperr.Internal("encode backup", err)
	}
	sealed, err := s.sealer.Seal(raw)
	if err != nil {
		return nil, apperr.Internal("seal backup", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, apperr.Internal("create backup dir", err)
	}
	fileName := fmt.Sprintf("backup-%d-%s.bin", owner.UserID(), uuid.NewString())
	filePath := filepath.Join(s.dir, fileName)
	if err := os.WriteFile(filePath, sealed, 0o600); err != nil {
		return nil, apperr.Internal("write backup", err)
	}

	b := &models.Backup{FileName: fileName, FilePath: filePath, Size: int64(len(sealed))}
	if err := s.store.Backups().Create(ctx, owner, b); err != nil {
		_ = os.Remove(filePath)
		return nil, err
	}
	return b, nil
}

func (s *BackupService) collect(ctx context.Context, owner auth.Owner) (*snapshot, error) {
	snap := &snapshot{Version: snapshotVersion, UserID: owner.UserID(), Created: s.now().UTC()}
	var err error
	if snap.Accounts, err = s.store.Accounts().List(ctx, owner); err != nil {
		return nil, err
	}
	if snap.Categories, err = s.store.Categories().List(ctx, owner); err != nil {
		return nil, err
	}
	if snap.Rules, err = s.store.Recurring().List(ctx, owner); err != nil {
		return nil, err
	}
	if snap.Transactions, _, err = s.store.Transactions().Find(ctx, owner, repository.TransactionFilter{Sort: "date_asc"}); err != nil {
		return nil, err
	}
	if snap.Budgets, err = s.store.Budgets().List(ctx, owner); err != nil {
		return nil, err
	}
	if snap.Assets, err = s.store.Assets().List(ctx, owner); err != nil {
		return nil, err
	}
	for i := range snap.Transactions {
		snap.Transactions[i].Account = nil
		snap.Transactions[i].Category = nil
	}
	return snap, nil
}

func (s *BackupService) List(ctx context.Context, owner auth.Owner) ([]models.Backup, error) {
	return s.store.Backups().List(ctx, owner)
}

func (s *BackupService) Get(ctx context.Context, owner auth.Owner, id uint) (*models.Backup, error) {
	return s.store.Backups().Get(ctx, owner, id)
}

// Delete 先删文件，再删记录
func (s *BackupService) Delete(ctx context.Context, owner auth.Owner, id uint) error {
	b, err := s.store.Backups().Get(ctx, owner, id)
	if err != nil {
		return err
	}
	if err := os.Remove(b.FilePath); err != nil && !os.IsNotExist(err) {
		return apperr.Internal("remove backup file", err)
	}
	return s.store.Backups().Delete(ctx, owner, id)
}

// Restore 用备份内容替换当前用户的账本数据
// 主键由数据库重新分配，所有引用都映射到新的 ID
func (s *BackupService) Restore(ctx context.Context, owner auth.Owner, id uint) (*RestoreResult, error) {
	b, err := s.store.Backups().Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	sealed, err := os.ReadFile(b.FilePath)
	if err != nil {
		return nil, apperr.Internal("read backup file", err)
	}
	raw, err := s.sealer.Open(sealed)
	if err != nil {
		return nil, apperr.Internal("open backup file", err)
	}
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, apperr.Internal("decode backup", err)
	}
	if snap.UserID != owner.UserID() {
		return nil, apperr.Forbidden("backup belongs to another user")
	}

	res := &RestoreResult{}
	err = s.store.Atomic(ctx, func(tx repository.Store) error {
		if err := wipe(ctx, tx, owner); err != nil {
			return err
		}

		catIDs := make(map[uint]uint, len(snap.Categories))
		for _, c := range snap.Categories {
			old := c.ID
			c.ID = 0
			if err := tx.Categories().Create(ctx, owner, &c); err != nil {
				return err
			}
			catIDs[old] = c.ID
		}
		accIDs := make(map[uint]uint, len(snap.Accounts))
		for _, a := range snap.Accounts {
			old := a.ID
			a.ID = 0
			if err := tx.Accounts().Create(ctx, owner, &a); err != nil {
				return err
			}
			accIDs[old] = a.ID
		}
		// 账户已被删除的周期规则不恢复，对应记录的 recurring_id 置空
		ruleIDs := make(map[uint]uint, len(snap.Rules))
		for _, r := range snap.Rules {
			old := r.ID
			r.ID = 0
			r.AccountID = accIDs[r.AccountID]
			r.CategoryID = catIDs[r.CategoryID]
			if r.AccountID == 0 || r.CategoryID == 0 {
				res.SkippedRules++
				continue
			}
			if err := tx.Recurring().Create(ctx, owner, &r); err != nil {
				return err
			}
			ruleIDs[old] = r.ID
			res.Rules++
		}
		for _, t := range snap.Transactions {
			t.ID = 0
			t.CategoryID = catIDs[t.CategoryID]
			if t.CategoryID == 0 {
				return apperr.Validation("backup is inconsistent: transaction has unknown category")
			}
			t.AccountID = remap(t.AccountID, accIDs)
			t.RecurringID = remap(t.RecurringID, ruleIDs)
			if err := tx.Transactions().Create(ctx, owner, &t); err != nil {
				return err
			}
		}
		for _, bg := range snap.Budgets {
			bg.ID = 0
			bg.Category = nil
			bg.CategoryID = catIDs[bg.CategoryID]
			if bg.CategoryID == 0 {
				continue
			}
			if err := tx.Budgets().Create(ctx, owner, &bg); err != nil {
				return err
			}
			res.Budgets++
		}
		for _, a := range snap.Assets {
			a.ID = 0
			if err := tx.Assets().Create(ctx, owner, &a); err != nil {
				return err
			}
		}

		res.Accounts = len(snap.Accounts)
		res.Categories = len(snap.Categories)
		res.Transactions = len(snap.Transactions)
		res.Assets = len(snap.Assets)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// wipe 删除当前用户的账本数据，先删子表再删父表
func wipe(ctx context.Context, tx repository.Store, owner auth.Owner) error {
	steps := []func(context.Context, auth.Owner) error{
		tx.Budgets().DeleteAll,
		tx.Transactions().DeleteAll,
		tx.Recurring().DeleteAll,
		tx.Categories().DeleteAll,
		tx.Accounts().DeleteAll,
		tx.Assets().DeleteAll,
	}
	for _, step := range steps {
		if err := step(ctx, owner); err != nil {
			return err
		}
	}
	return nil
}

func remap(id *uint, ids map[uint]uint) *uint {
	if id == nil {
		return nil
	}
	if n, ok := ids[*id]; ok {
		return &n
	}
	return nil
}
