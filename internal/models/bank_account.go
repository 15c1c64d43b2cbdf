package models

// BankAccount represents a cash account held at a bank.
// Balance is kept in BRL and feeds directly into net worth.
type BankAccount struct {
	Base
	UserID   uint    `gorm:"not null;index" json:"user_id"`
	BankName string  `gorm:"not null" json:"bank_name"`
	Balance  float64 `gorm:"not null;default:0" json:"balance"`
	IsActive bool    `gorm:"default:true" json:"is_active"`

	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}
