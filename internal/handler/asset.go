package handler

import (
	"github.com/gin-gonic/gin"

	"pocket-ledger/internal/middleware"
	"pocket-ledger/internal/service"
	"pocket-ledger/internal/util"
)

type AssetHandler struct {
	Assets *service.AssetService
}

func NewAssetHandler(svc *service.AssetService) *AssetHandler {
	return &AssetHandler{Assets: svc}
}

func (h *AssetHandler) Create(c *gin.Context) {
	var req service.AssetInput
	if err := bindJSON(c, &req); err != nil {
		util.Fail(c, err)
		return
	}
	a, err := h.Assets.Create(c.Request.Context(), middleware.CurrentOwner(c), req)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Created(c, toAssetView(a))
}

func (h *AssetHandler) List(c *gin.Context) {
	list, err := h.Assets.List(c.Request.Context(), middleware.CurrentOwner(c))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"items": mapSlice(list, toAssetView)})
}

func (h *AssetHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	a, err := h.Assets.Get(c.Request.Context(), middleware.CurrentOwner(c), id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, toAssetView(a))
}

func (h *AssetHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	var req service.AssetInput
	if err := bindJSON(c, &req); err != nil {
		util.Fail(c, err)
		return
	}
	a, err := h.Assets.Update(c.Request.Context(), middleware.CurrentOwner(c), id, req)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, toAssetView(a))
}

func (h *AssetHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	if err := h.Assets.Delete(c.Request.Context(), middleware.CurrentOwner(c), id); err != nil {
		util.Fail(c, err)
		return
	}
	deleted(c)
}
