package handler

import (
	"github.com/gin-gonic/gin"

	"pocket-ledger/internal/middleware"
	"pocket-ledger/internal/service"
	"pocket-ledger/internal/util"
)

type updateProfileReq struct {
	DisplayName string `json:"display_name" binding:"max=64"`
}

type changePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// GetMe 返回当前登录用户信息
func GetMe(svc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := svc.Me(c.Request.Context(), middleware.CurrentOwner(c))
		if err != nil {
			util.Fail(c, err)
			return
		}
		util.Success(c, util.Response{"user": toUserView(u)})
	}
}

func UpdateProfile(svc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateProfileReq
		if err := bindJSON(c, &req); err != nil {
			util.Fail(c, err)
			return
		}
		u, err := svc.UpdateProfile(c.Request.Context(), middleware.CurrentOwner(c), req.DisplayName)
		if err != nil {
			util.Fail(c, err)
			return
		}
		util.Success(c, util.Response{"user": toUserView(u)})
	}
}

// ChangePassword 修改密码后所有会话（包括当前会话）都会失效
func ChangePassword(svc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req changePasswordReq
		if err := bindJSON(c, &req); err != nil {
			util.Fail(c, err)
			return
		}
		if err := svc.ChangePassword(c.Request.Context(), middleware.CurrentOwner(c), req.OldPassword, req.NewPassword); err != nil {
			util.Fail(c, err)
			return
		}
		util.Success(c, util.Response{"message": "password changed, please sign in again"})
	}
}
