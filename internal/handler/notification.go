package handler

import (
	"github.com/gin-gonic/gin"

	"pocket-ledger/internal/middleware"
	"pocket-ledger/internal/service"
	"pocket-ledger/internal/util"
)

type NotificationHandler struct {
	Notifications *service.NotificationService
}

func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{Notifications: svc}
}

// List 支持 ?unread=true 只返回未读通知
func (h *NotificationHandler) List(c *gin.Context) {
	unread := c.Query("unread") == "true"
	list, err := h.Notifications.List(c.Request.Context(), middleware.CurrentOwner(c), unread)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"items": mapSlice(list, toNotificationView)})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	if err := h.Notifications.MarkRead(c.Request.Context(), middleware.CurrentOwner(c), id); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "ok"})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	n, err := h.Notifications.MarkAllRead(c.Request.Context(), middleware.CurrentOwner(c))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"updated": n})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	if err := h.Notifications.Delete(c.Request.Context(), middleware.CurrentOwner(c), id); err != nil {
		util.Fail(c, err)
		return
	}
	deleted(c)
}
