package models

import "time"

const (
	TypeIncome  = "INCOME"
	TypeExpense = "EXPENSE"
)

// ValidType reports whether t is INCOME or EXPENSE.
func ValidType(t string) bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction 表示一笔收支记录
// 金额用分存储，避免浮点误差，比如 12.34 元 = 1234 分
// AccountID 为 nil 表示不关联任何账户余额
type Transaction struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"index;not null"`
	AccountID   *uint     `gorm:"index"`
	CategoryID  uint      `gorm:"index;not null"`
	RecurringID *uint     `gorm:"index"`
	Type        string    `gorm:"size:16;index;not null"`
	AmountCent  int64     `gorm:"not null"` // 金额（分），始终为正
	Date        time.Time `gorm:"index;not null"`
	Description string    `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Account  *Account  `gorm:"constraint:OnDelete:SET NULL"`
	Category *Category `gorm:"constraint:OnDelete:RESTRICT"`
}

// SignedCent 返回这笔记录对账户余额的影响（收入为正，支出为负）
func (t *Transaction) SignedCent() int64 {
	if t.Type == TypeExpense {
		return -t.AmountCent
	}
	return t.AmountCent
}
