package handler

import (
	"github.com/gin-gonic/gin"

	"pocket-ledger/internal/middleware"
	"pocket-ledger/internal/service"
	"pocket-ledger/internal/util"
)

type BudgetHandler struct {
	Budgets *service.BudgetService
}

func NewBudgetHandler(svc *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{Budgets: svc}
}

func (h *BudgetHandler) Create(c *gin.Context) {
	var req service.BudgetInput
	if err := bindJSON(c, &req); err != nil {
		util.Fail(c, err)
		return
	}
	b, err := h.Budgets.Create(c.Request.Context(), middleware.CurrentOwner(c), req)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Created(c, toBudgetView(b))
}

// List 返回 ?month=YYYY-MM 的预算，不传则返回全部
func (h *BudgetHandler) List(c *gin.Context) {
	var year, month int
	if c.Query("month") != "" {
		y, m, err := monthParam(c)
		if err != nil {
			util.Fail(c, err)
			return
		}
		year, month = y, int(m)
	}
	list, err := h.Budgets.List(c.Request.Context(), middleware.CurrentOwner(c), year, month)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"items": mapSlice(list, toBudgetView)})
}

func (h *BudgetHandler) Status(c *gin.Context) {
	year, month, err := monthParam(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	list, err := h.Budgets.Status(c.Request.Context(), middleware.CurrentOwner(c), year, int(month))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"items": mapSlice(list, toBudgetStatusView)})
}

func (h *BudgetHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	b, err := h.Budgets.Get(c.Request.Context(), middleware.CurrentOwner(c), id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, toBudgetView(b))
}

func (h *BudgetHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	var req service.BudgetInput
	if err := bindJSON(c, &req); err != nil {
		util.Fail(c, err)
		return
	}
	b, err := h.Budgets.Update(c.Request.Context(), middleware.CurrentOwner(c), id, req)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, toBudgetView(b))
}

func (h *BudgetHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	if err := h.Budgets.Delete(c.Request.Context(), middleware.CurrentOwner(c), id); err != nil {
		util.Fail(c, err)
		return
	}
	deleted(c)
}
