package util

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pocket-ledger/internal/apperr"
	"pocket-ledger/internal/logger"
)

// Response 通用返回结构里的 data
type Response map[string]interface{}

// 业务错误码，和 HTTP 状态码一起返回
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeForbidden    = 40301
	CodeNotFound     = 40401
	CodeServerErr    = 50001
)

// Success 统一成功返回
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Created 创建成功，状态码 201
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error 统一错误返回
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}

// Fail 按错误类型返回状态码和业务码；内部错误记录完整日志，只返回通用提示
func Fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status, code := StatusOf(kind)
	if kind == apperr.KindInternal {
		log := logger.FromContext(c.Request.Context())
		log.Error().
			Err(err).
			Str("path", c.FullPath()).
			Msg("request failed")
	}
	_ = c.Error(err)
	Error(c, status, code, apperr.PublicMessage(err))
}

// StatusOf 返回错误类型对应的 HTTP 状态码和业务码
func StatusOf(kind apperr.Kind) (int, int) {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest, CodeInvalidParam
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized, CodeAuth
	case apperr.KindForbidden:
		return http.StatusForbidden, CodeForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound, CodeNotFound
	default:
		return http.StatusInternalServerError, CodeServerErr
	}
}
