package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pocket-ledger/internal/apperr"
	"pocket-ledger/internal/util"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid id")
	}
	return uint(id), nil
}

// bindJSON 解析请求体，解析失败按参数错误返回
func bindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return apperr.Validation("invalid request: %v", err)
	}
	return nil
}

// pageParams 读取分页参数，超出范围时使用默认值
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}
	return page, size
}

// dateRange 读取 start / end（YYYY-MM-DD）
// 结束日期按“当天结束”处理：返回 end+1 天的 00:00
func dateRange(c *gin.Context) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if s := c.Query("start"); s != "" {
		t, err := util.ParseDate("start", s)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if s := c.Query("end"); s != "" {
		t, err := util.ParseDate("end", s)
		if err != nil {
			return nil, nil, err
		}
		t = t.AddDate(0, 0, 1)
		to = &t
	}
	if from != nil && to != nil && !to.After(*from) {
		return nil, nil, apperr.Validation("end must not be before start")
	}
	return from, to, nil
}

func optionalUint(c *gin.Context, key string) (*uint, error) {
	s := c.Query(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return nil, apperr.Validation("invalid %s", key)
	}
	u := uint(v)
	return &u, nil
}

// monthParam 读取 ?month=YYYY-MM，默认当月
func monthParam(c *gin.Context) (int, time.Month, error) {
	s := c.Query("month")
	if s == "" {
		now := time.Now().UTC()
		return now.Year(), now.Month(), nil
	}
	return util.ParseMonth(s)
}

func deleted(c *gin.Context) {
	util.Success(c, util.Response{"message": "deleted"})
}
