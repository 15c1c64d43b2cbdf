package models

import "time"

// TransactionType represents the type of bank transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a bank account movement. Amounts are positive
// BRL values; direction is carried by Type.
type Transaction struct {
	Base
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	AccountID   uint            `gorm:"not null;index" json:"account_id"`
	CategoryID  *uint           `json:"category_id,omitempty"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      float64         `gorm:"not null" json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `gorm:"not null;index" json:"date"`

	Account  BankAccount `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Category *Category   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
