package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"pocket-ledger/internal/middleware"
	"pocket-ledger/internal/service"
	"pocket-ledger/internal/util"
)

// AuthHandler 负责登录/注册/退出相关接口
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: svc}
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register 注册用户，同时创建现金账户和默认类别
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterInput
	if err := bindJSON(c, &req); err != nil {
		util.Fail(c, err)
		return
	}
	u, err := h.Auth.Register(c.Request.Context(), req)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Created(c, util.Response{"user": toUserView(u)})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := bindJSON(c, &req); err != nil {
		util.Fail(c, err)
		return
	}
	res, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password, c.ClientIP())
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"token":      res.Token,
		"expires_at": res.ExpiresAt.UTC().Format(time.RFC3339),
		"user":       toUserView(res.User),
	})
}

// Logout 撤销当前请求所用的会话
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Auth.Logout(c.Request.Context(), middleware.SessionID(c)); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "logged out"})
}
