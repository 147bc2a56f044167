package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"pocket-ledger/internal/middleware"
	"pocket-ledger/internal/recurring"
	"pocket-ledger/internal/service"
	"pocket-ledger/internal/util"
)

type RecurringHandler struct {
	Rules     *service.RecurringRuleService
	Processor *recurring.Processor
}

func NewRecurringHandler(rules *service.RecurringRuleService, p *recurring.Processor) *RecurringHandler {
	return &RecurringHandler{Rules: rules, Processor: p}
}

func (h *RecurringHandler) Create(c *gin.Context) {
	var req service.RuleInput
	if err := bindJSON(c, &req); err != nil {
		util.Fail(c, err)
		return
	}
	r, err := h.Rules.Create(c.Request.Context(), middleware.CurrentOwner(c), req)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Created(c, toRuleView(r))
}

func (h *RecurringHandler) List(c *gin.Context) {
	list, err := h.Rules.List(c.Request.Context(), middleware.CurrentOwner(c))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"items": mapSlice(list, toRuleView)})
}

func (h *RecurringHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	r, err := h.Rules.Get(c.Request.Context(), middleware.CurrentOwner(c), id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, toRuleView(r))
}

func (h *RecurringHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	var req service.RuleInput
	if err := bindJSON(c, &req); err != nil {
		util.Fail(c, err)
		return
	}
	r, err := h.Rules.Update(c.Request.Context(), middleware.CurrentOwner(c), id, req)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, toRuleView(r))
}

func (h *RecurringHandler) Toggle(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	r, err := h.Rules.Toggle(c.Request.Context(), middleware.CurrentOwner(c), id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, toRuleView(r))
}

func (h *RecurringHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	if err := h.Rules.Delete(c.Request.Context(), middleware.CurrentOwner(c), id); err != nil {
		util.Fail(c, err)
		return
	}
	deleted(c)
}

// Process 执行当前用户今天到期的周期规则，同一天重复执行不会重复记账
func (h *RecurringHandler) Process(c *gin.Context) {
	res, err := h.Processor.RunFor(c.Request.Context(), middleware.CurrentOwner(c), time.Now())
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, res)
}
