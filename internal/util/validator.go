package util

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/civil"

	"pocket-ledger/internal/apperr"
)

var currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)

// ParseDate 解析 YYYY-MM-DD，返回当天 UTC 00:00
func ParseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, apperr.Validation("%s is required", field)
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return time.Time{}, apperr.Validation("%s must be YYYY-MM-DD", field)
	}
	return d.In(time.UTC), nil
}

// ParseDateOrTime 支持以下格式，统一截断到 UTC 当天：
// 2025-12-03T00:00:00+08:00
// 2025-12-03
func ParseDateOrTime(field, s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return civil.DateOf(t.UTC()).In(time.UTC), nil
	}
	return ParseDate(field, s)
}

// TruncateDay 取 t 在 loc 时区的日期，返回该日 UTC 00:00
func TruncateDay(t time.Time, loc *time.Location) time.Time {
	return civil.DateOf(t.In(loc)).In(time.UTC)
}

// ParseMonth 解析 YYYY-MM
func ParseMonth(s string) (year int, month time.Month, err error) {
	t, perr := time.Parse("2006-01", s)
	if perr != nil {
		return 0, 0, apperr.Validation("month must be YYYY-MM")
	}
	return t.Year(), t.Month(), nil
}

// ValidateName 去掉首尾空格，校验不能为空且长度不超过 max
func ValidateName(field, s string, max int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperr.Validation("%s is required", field)
	}
	if utf8.RuneCountInString(s) > max {
		return "", apperr.Validation("%s must be at most %d characters", field, max)
	}
	return s, nil
}

// NormalizeCurrency 转成大写，为空时使用默认币种
func NormalizeCurrency(code, def string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = def
	}
	if !currencyRe.MatchString(code) {
		return "", apperr.Validation("currency must be a 3-letter code")
	}
	return code, nil
}
