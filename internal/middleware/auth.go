package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"pocket-ledger/internal/apperr"
	"pocket-ledger/internal/auth"
	"pocket-ledger/internal/logger"
	"pocket-ledger/internal/util"
)

const (
	ctxOwner   = "owner"
	ctxSession = "sessionID"
)

// Authenticator 根据 token 解析出当前用户
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Owner, *util.Claims, error)
}

// tokenFrom 依次从以下位置取 token：
// 1) Header: Authorization: Bearer xxx
// 2) URL 查询参数 ?token=xxx（用于下载等无法自定义 Header 的场景）
// 3) Cookie pl_token
func tokenFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if t := c.Query("token"); t != "" {
		return t
	}
	if cookie, err := c.Cookie("pl_token"); err == nil {
		return cookie
	}
	return ""
}

// AuthMiddleware 校验 JWT 和对应会话，并在 gin context 和 request context 里放入当前用户。
func AuthMiddleware(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFrom(c)
		if token == "" {
			util.Fail(c, apperr.Unauthenticated("login required"))
			c.Abort()
			return
		}

		owner, claims, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			util.Fail(c, err)
			c.Abort()
			return
		}

		ctx := auth.WithOwner(c.Request.Context(), owner)
		log := logger.FromContext(ctx).With().Uint("user_id", owner.UserID()).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(ctx, log))
		c.Set(ctxOwner, owner)
		c.Set(ctxSession, claims.ID)
		c.Next()
	}
}

// CurrentOwner 返回 AuthMiddleware 放入的用户（需要经过 AuthMiddleware）。
// 未登录时是零值 Owner，所有 repository 都会拒绝。
func CurrentOwner(c *gin.Context) auth.Owner {
	if v, ok := c.Get(ctxOwner); ok {
		if o, ok := v.(auth.Owner); ok {
			return o
		}
	}
	return auth.Owner{}
}

// SessionID 返回当前请求所用会话的 ID
func SessionID(c *gin.Context) string {
	return c.GetString(ctxSession)
}
