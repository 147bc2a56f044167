package models

import "time"

const NotificationRecurringFailed = "RECURRING_FAILED"

type Notification struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Type      string `gorm:"size:32;not null"`
	Title     string `gorm:"size:128;not null"`
	Message   string `gorm:"size:512"`
	IsRead    bool   `gorm:"index;not null;default:false"`
	CreatedAt time.Time
}
