package router

import (
	"strconv"
	"time"
)

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func todayUTC() time.Time { return time.Now().UTC() }
