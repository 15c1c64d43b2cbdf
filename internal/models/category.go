package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category represents a transaction category. Categories flagged as
// investment categories mark outflows that are contributions rather than
// consumption; the health scorer treats those as transfers, not expenses.
type Category struct {
	Base
	UserID       uint         `gorm:"not null;index" json:"user_id"`
	Name         string       `gorm:"not null" json:"name"`
	Type         CategoryType `gorm:"not null" json:"type"`
	Description  string       `json:"description"`
	IsInvestment bool         `gorm:"default:false" json:"is_investment"`

	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
}
