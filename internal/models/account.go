package models

import "time"

// Account is a place money lives in (cash, bank card, credit card).
// BalanceCent 随收支记录增量更新；InitialBalanceCent 是用户填写的初始余额
type Account struct {
	ID                 uint   `gorm:"primaryKey"`
	UserID             uint   `gorm:"index;not null"`
	Name               string `gorm:"size:64;not null"`
	BalanceCent        int64  `gorm:"not null;default:0"`
	InitialBalanceCent int64  `gorm:"not null;default:0"`
	Currency           string `gorm:"size:8;default:CNY"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
