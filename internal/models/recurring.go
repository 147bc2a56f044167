package models

import "time"

const FrequencyMonthly = "MONTHLY"

// RecurringTransaction is a rule that produces one transaction on DayOfMonth
// of every month inside [StartDate, EndDate].
// LastExecuted 只由周期任务写入
type RecurringTransaction struct {
	ID           uint       `gorm:"primaryKey"`
	UserID       uint       `gorm:"index;not null"`
	AccountID    uint       `gorm:"index;not null"`
	CategoryID   uint       `gorm:"index;not null"`
	Name         string     `gorm:"size:64;not null"`
	AmountCent   int64      `gorm:"not null"`
	Type         string     `gorm:"size:16;not null"`
	Frequency    string     `gorm:"size:16;not null;default:MONTHLY"`
	DayOfMonth   int        `gorm:"index;not null"`
	StartDate    time.Time  `gorm:"index;not null"`
	EndDate      *time.Time `gorm:"index"`
	LastExecuted *time.Time
	IsActive     bool `gorm:"index;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
