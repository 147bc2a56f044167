package middleware

import (
	"bytes"
	"context"
	"io"

	"github.com/gin-gonic/gin"

	"pocket-ledger/internal/auth"
	"pocket-ledger/internal/logger"
	"pocket-ledger/internal/service"
)

// 请求体达到这个大小就不写入 action
const maxAuditBody = 2000

// AuditRecorder 保存一条操作日志
type AuditRecorder interface {
	Record(ctx context.Context, owner auth.Owner, r service.AuditRecord) error
}

// AuditMiddleware 在请求处理完成后记录登录用户的操作，path 和 action 由 recorder 加密保存
func AuditMiddleware(rec AuditRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}

		c.Next()

		owner := CurrentOwner(c)
		if owner.Check() != nil {
			return
		}

		path := c.Request.URL.Path
		action := c.Request.Method + " " + path
		if len(body) > 0 && len(body) < maxAuditBody && !sensitivePath(path) {
			action += " " + string(body)
		}

		err := rec.Record(c.Request.Context(), owner, service.AuditRecord{
			Method:    c.Request.Method,
			Path:      path,
			Action:    action,
			Status:    c.Writer.Status(),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		if err != nil {
			log := logger.FromContext(c.Request.Context())
			log.Warn().Err(err).Str("path", path).Msg("audit record failed")
		}
	}
}

// 修改密码的请求体不记录
func sensitivePath(path string) bool {
	return path == "/api/profile/password"
}
