package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Category represents a transaction category. A user may not own two
// categories with the same name and type.
type Category struct {
	Base
	UserID uint         `gorm:"not null;uniqueIndex:idx_categories_name_user_type" json:"user_id"`
	Name   string       `gorm:"size:100;not null;uniqueIndex:idx_categories_name_user_type" json:"name"`
	Type   CategoryType `gorm:"size:20;not null;uniqueIndex:idx_categories_name_user_type" json:"type"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
	Budgets      []Budget      `gorm:"foreignKey:CategoryID" json:"budgets,omitempty"`
}
