package handler

import (
	"github.com/gin-gonic/gin"

	"pocket-ledger/internal/middleware"
	"pocket-ledger/internal/repository"
	"pocket-ledger/internal/service"
	"pocket-ledger/internal/util"
)

// TransactionHandler 负责收支记录接口，每次写入都在同一事务里更新账户余额
type TransactionHandler struct {
	Transactions *service.TransactionService
}

func NewTransactionHandler(svc *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{Transactions: svc}
}

func (h *TransactionHandler) Create(c *gin.Context) {
	var req service.TransactionInput
	if err := bindJSON(c, &req); err != nil {
		util.Fail(c, err)
		return
	}
	t, err := h.Transactions.Create(c.Request.Context(), middleware.CurrentOwner(c), req)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Created(c, toTransactionView(t))
}

// filterFromQuery 读取筛选参数：start、end、type、category_id、account_id、sort、page、page_size
func filterFromQuery(c *gin.Context) (repository.TransactionFilter, error) {
	var f repository.TransactionFilter
	var err error
	if f.From, f.To, err = dateRange(c); err != nil {
		return f, err
	}
	if f.CategoryID, err = optionalUint(c, "category_id"); err != nil {
		return f, err
	}
	if f.AccountID, err = optionalUint(c, "account_id"); err != nil {
		return f, err
	}
	f.Type = c.Query("type")
	f.Sort = c.Query("sort")
	return f, nil
}

func (h *TransactionHandler) List(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	f.Page, f.PageSize = pageParams(c)

	list, total, err := h.Transactions.List(c.Request.Context(), middleware.CurrentOwner(c), f)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"items":     mapSlice(list, toTransactionView),
		"total":     total,
		"page":      f.Page,
		"page_size": f.PageSize,
	})
}

func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	t, err := h.Transactions.Get(c.Request.Context(), middleware.CurrentOwner(c), id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, toTransactionView(t))
}

func (h *TransactionHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	var req service.TransactionInput
	if err := bindJSON(c, &req); err != nil {
		util.Fail(c, err)
		return
	}
	t, err := h.Transactions.Update(c.Request.Context(), middleware.CurrentOwner(c), id, req)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, toTransactionView(t))
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	if err := h.Transactions.Delete(c.Request.Context(), middleware.CurrentOwner(c), id); err != nil {
		util.Fail(c, err)
		return
	}
	deleted(c)
}
