package models

import "time"

// Budget caps the spending of one category in one calendar month.
type Budget struct {
	ID         uint  `gorm:"primaryKey"`
	UserID     uint  `gorm:"uniqueIndex:idx_budget_period;not null"`
	CategoryID uint  `gorm:"uniqueIndex:idx_budget_period;not null"`
	Year       int   `gorm:"uniqueIndex:idx_budget_period;not null"`
	Month      int   `gorm:"uniqueIndex:idx_budget_period;not null"`
	AmountCent int64 `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Category *Category `gorm:"constraint:OnDelete:CASCADE"`
}
