package models

import "time"

type Asset struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     uint   `gorm:"index;not null"`
	Name       string `gorm:"size:64;not null"`
	Type       string `gorm:"size:32"` // 房产 / 车辆 / 投资 / 其他
	ValueCent  int64  `gorm:"not null"`
	Currency   string `gorm:"size:8;default:CNY"`
	AcquiredAt *time.Time
	Note       string `gorm:"size:255"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
