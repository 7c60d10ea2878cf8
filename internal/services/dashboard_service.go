package services

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/logger"
	"fintrack/internal/models"
)

// recentTransactionCount is how many transactions the dashboard previews.
const recentTransactionCount = 5

var monthLabels = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// dashboardService assembles the dashboard view-model from the transaction
// and budget stores.
type dashboardService struct {
	transactionService TransactionServicer
	budgetService      BudgetServicer

	// now is injectable for tests.
	now func() time.Time
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(transactionService TransactionServicer, budgetService BudgetServicer) DashboardServicer {
	return &dashboardService{
		transactionService: transactionService,
		budgetService:      budgetService,
		now:                time.Now,
	}
}

// GetDashboard builds the dashboard for the current calendar month. A storage
// failure during assembly does not fail the request: the view-model comes back
// zero-valued with Error set so the page shell still renders.
func (s *dashboardService) GetDashboard(userID uint) *Dashboard {
	now := s.now()
	currentMonth := int(now.Month())
	currentYear := now.Year()

	startDate := time.Date(currentYear, now.Month(), 1, 0, 0, 0, 0, time.UTC)
	// AddDate handles variable month lengths and leap years.
	endDate := startDate.AddDate(0, 1, -1)

	var (
		recent           []models.Transaction
		summary          []MonthlySummaryRow
		expenseBreakdown []CategorySummaryRow
		incomeBreakdown  []CategorySummaryRow
		comparison       []BudgetComparisonRow
	)

	// The five reads are independent of each other; run them concurrently
	// and join before assembly.
	var g errgroup.Group
	g.Go(func() error {
		var err error
		recent, err = s.transactionService.GetRecentTransactions(userID, recentTransactionCount)
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = s.transactionService.MonthlySummary(userID, currentYear)
		return err
	})
	g.Go(func() error {
		var err error
		expenseBreakdown, err = s.transactionService.CategorySummary(userID, models.TransactionTypeExpense, startDate, endDate)
		return err
	})
	g.Go(func() error {
		var err error
		incomeBreakdown, err = s.transactionService.CategorySummary(userID, models.TransactionTypeIncome, startDate, endDate)
		return err
	})
	g.Go(func() error {
		var err error
		comparison, err = s.budgetService.BudgetComparison(userID, currentMonth, currentYear)
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Get().Errorw("dashboard assembly failed",
			"user_id", userID,
			"error", err.Error(),
		)
		return degradedDashboard(currentMonth, currentYear)
	}

	dashboard := &Dashboard{
		RecentTransactions: recent,
		ChartSeries:        buildChartSeries(summary, currentMonth),
		ExpenseBreakdown:   expenseBreakdown,
		IncomeBreakdown:    incomeBreakdown,
		BudgetComparison:   comparison,
		CurrentMonth:       currentMonth,
		CurrentYear:        currentYear,
	}

	// Reduce the yearly summary to this month's scalar totals.
	for _, row := range summary {
		if row.Month != currentMonth {
			continue
		}
		switch row.Type {
		case models.TransactionTypeIncome:
			dashboard.MonthlyTotals.Income = dashboard.MonthlyTotals.Income.Add(row.Total)
		case models.TransactionTypeExpense:
			dashboard.MonthlyTotals.Expense = dashboard.MonthlyTotals.Expense.Add(row.Total)
		}
	}
	dashboard.MonthlyTotals.Savings = dashboard.MonthlyTotals.Income.Sub(dashboard.MonthlyTotals.Expense)

	if dashboard.RecentTransactions == nil {
		dashboard.RecentTransactions = []models.Transaction{}
	}
	return dashboard
}

// buildChartSeries turns the yearly monthly summary into two parallel series
// covering January through the current month, zero-filled for months with no
// activity.
func buildChartSeries(summary []MonthlySummaryRow, currentMonth int) ChartSeries {
	chart := ChartSeries{
		Labels:  monthLabels[:currentMonth],
		Income:  newZeroSeries(currentMonth),
		Expense: newZeroSeries(currentMonth),
	}
	for _, row := range summary {
		idx := row.Month - 1
		if idx < 0 || idx >= currentMonth {
			continue
		}
		switch row.Type {
		case models.TransactionTypeIncome:
			chart.Income[idx] = row.Total
		case models.TransactionTypeExpense:
			chart.Expense[idx] = row.Total
		}
	}
	return chart
}

func newZeroSeries(n int) []decimal.Decimal {
	series := make([]decimal.Decimal, n)
	for i := range series {
		series[i] = decimal.Zero
	}
	return series
}

func degradedDashboard(currentMonth, currentYear int) *Dashboard {
	return &Dashboard{
		RecentTransactions: []models.Transaction{},
		ChartSeries: ChartSeries{
			Labels:  monthLabels[:currentMonth],
			Income:  newZeroSeries(currentMonth),
			Expense: newZeroSeries(currentMonth),
		},
		ExpenseBreakdown: []CategorySummaryRow{},
		IncomeBreakdown:  []CategorySummaryRow{},
		BudgetComparison: []BudgetComparisonRow{},
		CurrentMonth:     currentMonth,
		CurrentYear:      currentYear,
		Error:            "Failed to load dashboard data",
	}
}
