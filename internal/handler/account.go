package handler

import (
	"github.com/gin-gonic/gin"

	"pocket-ledger/internal/middleware"
	"pocket-ledger/internal/money"
	"pocket-ledger/internal/service"
	"pocket-ledger/internal/util"
)

type AccountHandler struct {
	Accounts *service.AccountService
}

func NewAccountHandler(svc *service.AccountService) *AccountHandler {
	return &AccountHandler{Accounts: svc}
}

func (h *AccountHandler) Create(c *gin.Context) {
	var req service.AccountInput
	if err := bindJSON(c, &req); err != nil {
		util.Fail(c, err)
		return
	}
	a, err := h.Accounts.Create(c.Request.Context(), middleware.CurrentOwner(c), req)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Created(c, toAccountView(a))
}

// List 返回全部账户以及总余额
func (h *AccountHandler) List(c *gin.Context) {
	ctx, owner := c.Request.Context(), middleware.CurrentOwner(c)
	list, err := h.Accounts.List(ctx, owner)
	if err != nil {
		util.Fail(c, err)
		return
	}
	total, err := h.Accounts.TotalBalance(ctx, owner)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"items":         mapSlice(list, toAccountView),
		"total_balance": money.Format(total),
	})
}

func (h *AccountHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	a, err := h.Accounts.Get(c.Request.Context(), middleware.CurrentOwner(c), id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, toAccountView(a))
}

func (h *AccountHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	var req service.AccountUpdate
	if err := bindJSON(c, &req); err != nil {
		util.Fail(c, err)
		return
	}
	a, err := h.Accounts.Update(c.Request.Context(), middleware.CurrentOwner(c), id, req)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, toAccountView(a))
}

// Delete 保留该账户的收支记录（解除关联），并停用相关周期规则
func (h *AccountHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	if err := h.Accounts.Delete(c.Request.Context(), middleware.CurrentOwner(c), id); err != nil {
		util.Fail(c, err)
		return
	}
	deleted(c)
}
