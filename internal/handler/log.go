package handler

import (
	"github.com/gin-gonic/gin"

	"pocket-ledger/internal/middleware"
	"pocket-ledger/internal/repository"
	"pocket-ledger/internal/service"
	"pocket-ledger/internal/util"
)

// LogHandler 负责日志查询接口
type LogHandler struct {
	Audit *service.AuditService
}

func NewLogHandler(svc *service.AuditService) *LogHandler {
	return &LogHandler{Audit: svc}
}

// ListLogs 列出当前用户的操作日志（分页，按时间倒序）
// 时间筛选：start / end（格式 YYYY-MM-DD，包含当天）
func (h *LogHandler) ListLogs(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	page, size := pageParams(c)

	list, total, err := h.Audit.List(c.Request.Context(), middleware.CurrentOwner(c), repository.AuditFilter{
		From: from, To: to, Page: page, PageSize: size,
	})
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"items":     list,
		"total":     total,
		"page":      page,
		"page_size": size,
	})
}
