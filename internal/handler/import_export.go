package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pocket-ledger/internal/middleware"
	"pocket-ledger/internal/service"
	"pocket-ledger/internal/util"
)

type ExportHandler struct {
	Export *service.ExportService
}

func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{Export: svc}
}

// ExportCSV 导出收支记录为 CSV，筛选参数和列表接口一致
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	// 先写入缓冲区，出错时还能返回 JSON
	var buf bytes.Buffer
	if err := h.Export.CSV(c.Request.Context(), middleware.CurrentOwner(c), f, &buf); err != nil {
		util.Fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	var buf bytes.Buffer
	if err := h.Export.XLSX(c.Request.Context(), middleware.CurrentOwner(c), f, &buf); err != nil {
		util.Fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
