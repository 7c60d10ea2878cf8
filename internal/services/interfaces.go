package services

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(name, email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID uint, name string, categoryType models.CategoryType) (*models.Category, error)
	GetUserCategories(userID uint, categoryType *models.CategoryType) ([]models.Category, error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	UpdateCategory(userID, categoryID uint, name string) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	Type       *models.TransactionType
	CategoryID *uint
	FromDate   *time.Time
	ToDate     *time.Time
}

// MonthlySummaryRow is the per-month, per-type sum of transaction amounts
// within a year.
type MonthlySummaryRow struct {
	Month int                    `json:"month"`
	Type  models.TransactionType `json:"type"`
	Total decimal.Decimal        `json:"total"`
}

// CategorySummaryRow is the summed amount of one transaction type for a
// single category within a date range.
type CategorySummaryRow struct {
	CategoryName string          `json:"category_name"`
	Total        decimal.Decimal `json:"total"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID uint, categoryID *uint, transactionType models.TransactionType, amount decimal.Decimal, description string, date time.Time) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetRecentTransactions(userID uint, limit int) ([]models.Transaction, error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, categoryID *uint, amount decimal.Decimal, description string, date time.Time) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
	MonthlySummary(userID uint, year int) ([]MonthlySummaryRow, error)
	CategorySummary(userID uint, transactionType models.TransactionType, startDate, endDate time.Time) ([]CategorySummaryRow, error)
}

// BudgetComparisonRow is the planned vs actual spending for one expense
// category in a calendar month.
type BudgetComparisonRow struct {
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name"`
	BudgetAmount decimal.Decimal `json:"budget_amount"`
	ActualAmount decimal.Decimal `json:"actual_amount"`
	Difference   decimal.Decimal `json:"difference"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID, categoryID uint, amount decimal.Decimal, month, year int) (*models.Budget, error)
	GetUserBudgets(userID uint, month, year *int) ([]models.Budget, error)
	GetBudgetByID(userID, budgetID uint) (*models.Budget, error)
	UpdateBudget(userID, budgetID uint, amount decimal.Decimal) (*models.Budget, error)
	DeleteBudget(userID, budgetID uint) error
	BudgetComparison(userID uint, month, year int) ([]BudgetComparisonRow, error)
}

// MonthlyTotals holds the current month's scalar totals.
type MonthlyTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Savings decimal.Decimal `json:"savings"`
}

// ChartSeries holds parallel income/expense series for January through the
// current month.
type ChartSeries struct {
	Labels  []string          `json:"labels"`
	Income  []decimal.Decimal `json:"income"`
	Expense []decimal.Decimal `json:"expense"`
}

// Dashboard is the assembled view-model for the dashboard page. When Error is
// non-empty the numeric fields are zero and the sequences empty; the page
// shell can still be rendered.
type Dashboard struct {
	RecentTransactions []models.Transaction  `json:"recent_transactions"`
	MonthlyTotals      MonthlyTotals         `json:"monthly_totals"`
	ChartSeries        ChartSeries           `json:"chart_series"`
	ExpenseBreakdown   []CategorySummaryRow  `json:"expense_breakdown"`
	IncomeBreakdown    []CategorySummaryRow  `json:"income_breakdown"`
	BudgetComparison   []BudgetComparisonRow `json:"budget_comparison"`
	CurrentMonth       int                   `json:"current_month"`
	CurrentYear        int                   `json:"current_year"`
	Error              string                `json:"error,omitempty"`
}

// DashboardServicer defines the contract for dashboard assembly.
type DashboardServicer interface {
	GetDashboard(userID uint) *Dashboard
}
