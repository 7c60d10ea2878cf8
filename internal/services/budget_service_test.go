package services

import (
	"testing"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestCreateBudget(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewBudgetService(db)
	user := testutil.CreateTestUser(t, db)
	category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

	t.Run("creates budget", func(t *testing.T) {
		budget, err := service.CreateBudget(user.ID, category.ID, testutil.Amount(t, "200.00"), 1, 2024)
		testutil.AssertNoError(t, err)

		if budget.ID == 0 {
			t.Error("expected budget ID to be set")
		}
		testutil.AssertDecimalEqual(t, budget.Amount, "200.00")
	})

	t.Run("rejects second budget for same category and period", func(t *testing.T) {
		_, err := service.CreateBudget(user.ID, category.ID, testutil.Amount(t, "250.00"), 1, 2024)
		testutil.AssertAppError(t, err, "DUPLICATE_BUDGET")

		// The original budget is unaffected by the failed attempt.
		var count int64
		testutil.AssertNoError(t, db.Model(&models.Budget{}).
			Where("user_id = ? AND category_id = ? AND month = ? AND year = ?", user.ID, category.ID, 1, 2024).
			Count(&count).Error)
		if count != 1 {
			t.Fatalf("expected exactly 1 budget, found %d", count)
		}
		budgets, err := service.GetUserBudgets(user.ID, nil, nil)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, budgets[0].Amount, "200.00")
	})

	t.Run("allows same category in a different month", func(t *testing.T) {
		_, err := service.CreateBudget(user.ID, category.ID, testutil.Amount(t, "220.00"), 2, 2024)
		testutil.AssertNoError(t, err)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		_, err := service.CreateBudget(user.ID, 99999, testutil.Amount(t, "100.00"), 3, 2024)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("rejects other user's category", func(t *testing.T) {
		other := testutil.CreateTestUser(t, db)
		_, err := service.CreateBudget(other.ID, category.ID, testutil.Amount(t, "100.00"), 3, 2024)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestGetUserBudgets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewBudgetService(db)
	user := testutil.CreateTestUser(t, db)
	rent := testutil.CreateTestCategoryWithName(t, db, user.ID, "Rent", models.CategoryTypeExpense)
	food := testutil.CreateTestCategoryWithName(t, db, user.ID, "Food", models.CategoryTypeExpense)

	testutil.CreateTestBudget(t, db, user.ID, rent.ID, "800.00", 1, 2024)
	testutil.CreateTestBudget(t, db, user.ID, food.ID, "200.00", 1, 2024)
	testutil.CreateTestBudget(t, db, user.ID, food.ID, "210.00", 2, 2024)

	t.Run("orders by category name", func(t *testing.T) {
		budgets, err := service.GetUserBudgets(user.ID, nil, nil)
		testutil.AssertNoError(t, err)

		if len(budgets) != 3 {
			t.Fatalf("expected 3 budgets, got %d", len(budgets))
		}
		if budgets[0].Category.Name != "Food" {
			t.Error("expected Food budgets first with category preloaded")
		}
		if budgets[2].Category.Name != "Rent" {
			t.Error("expected Rent budget last with category preloaded")
		}
	})

	t.Run("filters by period", func(t *testing.T) {
		month, year := 2, 2024
		budgets, err := service.GetUserBudgets(user.ID, &month, &year)
		testutil.AssertNoError(t, err)

		if len(budgets) != 1 {
			t.Fatalf("expected 1 budget for February, got %d", len(budgets))
		}
		testutil.AssertDecimalEqual(t, budgets[0].Amount, "210.00")
	})

	t.Run("other user sees nothing", func(t *testing.T) {
		other := testutil.CreateTestUser(t, db)
		budgets, err := service.GetUserBudgets(other.ID, nil, nil)
		testutil.AssertNoError(t, err)
		if len(budgets) != 0 {
			t.Errorf("expected no budgets, got %d", len(budgets))
		}
	})
}

func TestUpdateBudget(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewBudgetService(db)
	user := testutil.CreateTestUser(t, db)
	category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
	budget := testutil.CreateTestBudget(t, db, user.ID, category.ID, "100.00", 5, 2024)

	t.Run("updates amount", func(t *testing.T) {
		updated, err := service.UpdateBudget(user.ID, budget.ID, testutil.Amount(t, "150.00"))
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, updated.Amount, "150.00")
	})

	t.Run("other user's budget reports not found", func(t *testing.T) {
		other := testutil.CreateTestUser(t, db)
		_, err := service.UpdateBudget(other.ID, budget.ID, testutil.Amount(t, "1.00"))
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestDeleteBudget(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewBudgetService(db)
	user := testutil.CreateTestUser(t, db)
	category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
	budget := testutil.CreateTestBudget(t, db, user.ID, category.ID, "100.00", 6, 2024)

	t.Run("deletes budget", func(t *testing.T) {
		testutil.AssertNoError(t, service.DeleteBudget(user.ID, budget.ID))
	})

	t.Run("deleting twice reports not found", func(t *testing.T) {
		testutil.AssertAppError(t, service.DeleteBudget(user.ID, budget.ID), "BUDGET_NOT_FOUND")
	})
}

func TestBudgetComparison(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewBudgetService(db)
	txService := NewTransactionService(db)
	user := testutil.CreateTestUser(t, db)

	food := testutil.CreateTestCategoryWithName(t, db, user.ID, "Food", models.CategoryTypeExpense)
	rent := testutil.CreateTestCategoryWithName(t, db, user.ID, "Rent", models.CategoryTypeExpense)
	salary := testutil.CreateTestCategoryWithName(t, db, user.ID, "Salary", models.CategoryTypeIncome)

	t.Run("budgeted category with spending", func(t *testing.T) {
		testutil.CreateTestBudget(t, db, user.ID, food.ID, "200.00", 1, 2024)
		testutil.CreateTestTransaction(t, db, user.ID, &food.ID, models.TransactionTypeExpense, "50.00", testutil.Date(2024, 1, 10))

		rows, err := service.BudgetComparison(user.ID, 1, 2024)
		testutil.AssertNoError(t, err)

		if len(rows) != 2 {
			t.Fatalf("expected one row per expense category, got %d: %+v", len(rows), rows)
		}

		foodRow := rows[0]
		if foodRow.CategoryName != "Food" {
			t.Fatalf("expected Food first by name order, got %s", foodRow.CategoryName)
		}
		testutil.AssertDecimalEqual(t, foodRow.BudgetAmount, "200.00")
		testutil.AssertDecimalEqual(t, foodRow.ActualAmount, "50.00")
		testutil.AssertDecimalEqual(t, foodRow.Difference, "150.00")
	})

	t.Run("category without budget or spending yields zeros", func(t *testing.T) {
		rows, err := service.BudgetComparison(user.ID, 1, 2024)
		testutil.AssertNoError(t, err)

		rentRow := rows[1]
		if rentRow.CategoryName != "Rent" {
			t.Fatalf("expected Rent second by name order, got %s", rentRow.CategoryName)
		}
		testutil.AssertDecimalEqual(t, rentRow.BudgetAmount, "0")
		testutil.AssertDecimalEqual(t, rentRow.ActualAmount, "0")
		testutil.AssertDecimalEqual(t, rentRow.Difference, "0")
	})

	t.Run("income categories are excluded", func(t *testing.T) {
		testutil.CreateTestTransaction(t, db, user.ID, &salary.ID, models.TransactionTypeIncome, "3000.00", testutil.Date(2024, 1, 1))

		rows, err := service.BudgetComparison(user.ID, 1, 2024)
		testutil.AssertNoError(t, err)

		for _, row := range rows {
			if row.CategoryName == "Salary" {
				t.Error("expected income category to be excluded from comparison")
			}
		}
	})

	t.Run("only the requested month counts", func(t *testing.T) {
		// February spending and budgets must not leak into January.
		testutil.CreateTestTransaction(t, db, user.ID, &food.ID, models.TransactionTypeExpense, "40.00", testutil.Date(2024, 2, 1))
		testutil.CreateTestBudget(t, db, user.ID, rent.ID, "900.00", 2, 2024)

		rows, err := service.BudgetComparison(user.ID, 1, 2024)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, rows[0].ActualAmount, "50.00")
		testutil.AssertDecimalEqual(t, rows[1].BudgetAmount, "0")
	})

	t.Run("spending on both month boundaries counts", func(t *testing.T) {
		_, err := txService.CreateTransaction(user.ID, &rent.ID, models.TransactionTypeExpense,
			testutil.Amount(t, "400.00"), "First", testutil.Date(2024, 3, 1))
		testutil.AssertNoError(t, err)
		_, err = txService.CreateTransaction(user.ID, &rent.ID, models.TransactionTypeExpense,
			testutil.Amount(t, "400.00"), "Last", testutil.Date(2024, 3, 31))
		testutil.AssertNoError(t, err)

		rows, err := service.BudgetComparison(user.ID, 3, 2024)
		testutil.AssertNoError(t, err)

		rentRow := rows[1]
		testutil.AssertDecimalEqual(t, rentRow.ActualAmount, "800.00")
		testutil.AssertDecimalEqual(t, rentRow.Difference, "-800.00")
	})

	t.Run("no expense categories yields empty result", func(t *testing.T) {
		lonely := testutil.CreateTestUser(t, db)
		rows, err := service.BudgetComparison(lonely.ID, 1, 2024)
		testutil.AssertNoError(t, err)
		if len(rows) != 0 {
			t.Errorf("expected no rows, got %d", len(rows))
		}
	})
}
