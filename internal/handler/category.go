package handler

import (
	"github.com/gin-gonic/gin"

	"pocket-ledger/internal/middleware"
	"pocket-ledger/internal/service"
	"pocket-ledger/internal/util"
)

type CategoryHandler struct {
	Categories *service.CategoryService
}

func NewCategoryHandler(svc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{Categories: svc}
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req service.CategoryInput
	if err := bindJSON(c, &req); err != nil {
		util.Fail(c, err)
		return
	}
	cat, err := h.Categories.Create(c.Request.Context(), middleware.CurrentOwner(c), req)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Created(c, toCategoryView(cat))
}

// List 支持 ?type=INCOME|EXPENSE 筛选
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.Categories.List(c.Request.Context(), middleware.CurrentOwner(c), c.Query("type"))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"items": mapSlice(list, toCategoryView)})
}

func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	cat, err := h.Categories.Get(c.Request.Context(), middleware.CurrentOwner(c), id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, toCategoryView(cat))
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	var req service.CategoryInput
	if err := bindJSON(c, &req); err != nil {
		util.Fail(c, err)
		return
	}
	cat, err := h.Categories.Update(c.Request.Context(), middleware.CurrentOwner(c), id, req)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, toCategoryView(cat))
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	if err := h.Categories.Delete(c.Request.Context(), middleware.CurrentOwner(c), id); err != nil {
		util.Fail(c, err)
		return
	}
	deleted(c)
}
