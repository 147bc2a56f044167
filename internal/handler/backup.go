package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"pocket-ledger/internal/middleware"
	"pocket-ledger/internal/service"
	"pocket-ledger/internal/util"
)

// BackupHandler 负责备份相关接口
type BackupHandler struct {
	Backups *service.BackupService
}

func NewBackupHandler(svc *service.BackupService) *BackupHandler {
	return &BackupHandler{Backups: svc}
}

func (h *BackupHandler) CreateBackup(c *gin.Context) {
	b, err := h.Backups.Create(c.Request.Context(), middleware.CurrentOwner(c))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Created(c, toBackupView(b))
}

func (h *BackupHandler) ListBackups(c *gin.Context) {
	list, err := h.Backups.List(c.Request.Context(), middleware.CurrentOwner(c))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"items": mapSlice(list, toBackupView)})
}

// DownloadBackup 原样下载加密后的备份文件
func (h *BackupHandler) DownloadBackup(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	b, err := h.Backups.Get(c.Request.Context(), middleware.CurrentOwner(c), id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.Header("Content-Type", "application/octet-stream")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", b.FileName))
	c.File(b.FilePath)
}

func (h *BackupHandler) DeleteBackup(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	if err := h.Backups.Delete(c.Request.Context(), middleware.CurrentOwner(c), id); err != nil {
		util.Fail(c, err)
		return
	}
	deleted(c)
}

// RestoreBackup 用备份内容替换当前用户的账本数据
func (h *BackupHandler) RestoreBackup(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	res, err := h.Backups.Restore(c.Request.Context(), middleware.CurrentOwner(c), id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, res)
}
