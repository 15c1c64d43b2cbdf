package models

import "time"

// CreditCard represents a credit card with a spending limit and a billing
// cycle. ClosingDay is the day of month the statement closes; the current
// bill covers purchases since the last closing date.
type CreditCard struct {
	Base
	UserID     uint    `gorm:"not null;index" json:"user_id"`
	Name       string  `gorm:"not null" json:"name"`
	Limit      float64 `gorm:"not null" json:"limit"`
	ClosingDay int     `gorm:"not null;default:1" json:"closing_day"`
	IsActive   bool    `gorm:"default:true" json:"is_active"`

	Transactions []CardTransaction `gorm:"foreignKey:CardID" json:"transactions,omitempty"`
}

// CardTransaction represents a purchase on a credit card. Card purchases
// are always outflows; amounts are positive BRL values.
type CardTransaction struct {
	Base
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	CardID      uint      `gorm:"not null;index" json:"card_id"`
	CategoryID  *uint     `json:"category_id,omitempty"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `gorm:"not null;index" json:"date"`

	Card     CreditCard `gorm:"foreignKey:CardID" json:"card,omitempty"`
	Category *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
