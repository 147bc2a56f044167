package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Healthz 存活检查，不访问数据库
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
