package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a new budget for a category and calendar month.
func (s *budgetService) CreateBudget(userID, categoryID uint, amount decimal.Decimal, month, year int) (*models.Budget, error) {
	// Verify category exists and belongs to user
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Only one budget may exist per (month, year, category, user)
	var count int64
	if err := s.db.Model(&models.Budget{}).
		Where("user_id = ? AND category_id = ? AND month = ? AND year = ?", userID, categoryID, month, year).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateBudget
	}

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     amount,
		Month:      month,
		Year:       year,
	}

	if err := s.db.Create(budget).Error; err != nil {
		// Concurrent creators racing for the same period hit the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateBudget
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetUserBudgets returns the user's budgets joined with their category,
// optionally filtered by month and year, ordered by category name.
func (s *budgetService) GetUserBudgets(userID uint, month, year *int) ([]models.Budget, error) {
	base := s.db.Model(&models.Budget{}).
		Joins("JOIN categories ON categories.id = budgets.category_id").
		Where("budgets.user_id = ?", userID)
	if month != nil {
		base = base.Where("budgets.month = ?", *month)
	}
	if year != nil {
		base = base.Where("budgets.year = ?", *year)
	}

	var budgets []models.Budget
	if err := base.Preload("Category").Order("categories.name ASC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Category").Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget changes a budget's amount. Month, year and category are fixed
// once created.
func (s *budgetService) UpdateBudget(userID, budgetID uint, amount decimal.Decimal) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(budget).Update("amount", amount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// DeleteBudget deletes a budget. Deleting an already-deleted ID reports
// BudgetNotFound.
func (s *budgetService) DeleteBudget(userID, budgetID uint) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// BudgetComparison computes planned vs actual expense per category for one
// calendar month. It merges three lookups keyed by category: the user's
// expense categories, their budget amounts for the period, and their summed
// expense transactions for the period. A category missing a budget or
// transactions still yields a row with zeros, so the result always contains
// exactly one row per expense category, ordered by category name.
func (s *budgetService) BudgetComparison(userID uint, month, year int) ([]BudgetComparisonRow, error) {
	var categories []models.Category
	if err := s.db.Where("user_id = ? AND type = ?", userID, models.CategoryTypeExpense).
		Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := s.db.Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	budgeted := make(map[uint]decimal.Decimal, len(budgets))
	for _, b := range budgets {
		budgeted[b.CategoryID] = b.Amount
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var transactions []models.Transaction
	if err := s.db.Where("user_id = ? AND type = ? AND category_id IS NOT NULL AND date >= ? AND date < ?",
		userID, models.TransactionTypeExpense, monthStart, monthEnd).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	actuals := make(map[uint]decimal.Decimal)
	for _, tx := range transactions {
		actuals[*tx.CategoryID] = actuals[*tx.CategoryID].Add(tx.Amount)
	}

	rows := make([]BudgetComparisonRow, 0, len(categories))
	for _, c := range categories {
		budgetAmount := budgeted[c.ID]
		actualAmount := actuals[c.ID]
		rows = append(rows, BudgetComparisonRow{
			CategoryID:   c.ID,
			CategoryName: c.Name,
			BudgetAmount: budgetAmount,
			ActualAmount: actualAmount,
			Difference:   budgetAmount.Sub(actualAmount),
		})
	}
	return rows, nil
}
