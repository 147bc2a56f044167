package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pocket-ledger/internal/apperr"
	"pocket-ledger/internal/middleware"
	"pocket-ledger/internal/service"
	"pocket-ledger/internal/util"
)

type DashboardHandler struct {
	Dashboard *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{Dashboard: svc}
}

// Summary 返回指定月份的统计（?month=YYYY-MM，默认当月）
func (h *DashboardHandler) Summary(c *gin.Context) {
	year, month, err := monthParam(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	s, err := h.Dashboard.Summary(c.Request.Context(), middleware.CurrentOwner(c), year, month)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, toSummaryView(s))
}

// Categories 按类别汇总 start 到 end（包含当天）之间的收支，未传时间范围则统计当月
func (h *DashboardHandler) Categories(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	if from == nil || to == nil {
		now := time.Now().UTC()
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		next := first.AddDate(0, 1, 0)
		if from == nil {
			from = &first
		}
		if to == nil {
			to = &next
		}
	}
	totals, err := h.Dashboard.CategoryBreakdown(c.Request.Context(), middleware.CurrentOwner(c), *from, *to, c.Query("type"))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"items": toCategoryTotals(totals)})
}

// Trend 返回截至当月的最近 ?months= 个月收支（默认 6 个月）
func (h *DashboardHandler) Trend(c *gin.Context) {
	months := 0
	if s := c.Query("months"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			util.Fail(c, apperr.Validation("months must be a positive number"))
			return
		}
		months = n
	}
	points, err := h.Dashboard.MonthlyTrend(c.Request.Context(), middleware.CurrentOwner(c), months, time.Now())
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"items": toTrendView(points)})
}
