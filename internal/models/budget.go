package models

import "github.com/shopspring/decimal"

// Budget represents a planned spending amount for a category in a given
// calendar month. At most one budget exists per (month, year, category, user).
type Budget struct {
	Base
	UserID     uint            `gorm:"not null;uniqueIndex:idx_budgets_period_category_user" json:"user_id"`
	CategoryID uint            `gorm:"not null;uniqueIndex:idx_budgets_period_category_user" json:"category_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Month      int             `gorm:"not null;uniqueIndex:idx_budgets_period_category_user" json:"month"`
	Year       int             `gorm:"not null;uniqueIndex:idx_budgets_period_category_user" json:"year"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}
