package services

import (
	"testing"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewCategoryService(db)
	user := testutil.CreateTestUser(t, db)

	t.Run("creates expense category", func(t *testing.T) {
		category, err := service.CreateCategory(user.ID, "Groceries", models.CategoryTypeExpense)
		testutil.AssertNoError(t, err)

		if category.ID == 0 {
			t.Error("expected category ID to be set")
		}
		if category.Type != models.CategoryTypeExpense {
			t.Errorf("expected type expense, got %s", category.Type)
		}
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := service.CreateCategory(user.ID, "", models.CategoryTypeExpense)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects duplicate name and type for same user", func(t *testing.T) {
		_, err := service.CreateCategory(user.ID, "Groceries", models.CategoryTypeExpense)
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("allows same name with different type", func(t *testing.T) {
		_, err := service.CreateCategory(user.ID, "Groceries", models.CategoryTypeIncome)
		testutil.AssertNoError(t, err)
	})

	t.Run("allows same name for different user", func(t *testing.T) {
		other := testutil.CreateTestUser(t, db)
		_, err := service.CreateCategory(other.ID, "Groceries", models.CategoryTypeExpense)
		testutil.AssertNoError(t, err)
	})
}

func TestGetUserCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewCategoryService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	testutil.CreateTestCategoryWithName(t, db, user.ID, "Rent", models.CategoryTypeExpense)
	testutil.CreateTestCategoryWithName(t, db, user.ID, "Food", models.CategoryTypeExpense)
	testutil.CreateTestCategoryWithName(t, db, user.ID, "Salary", models.CategoryTypeIncome)
	testutil.CreateTestCategoryWithName(t, db, other.ID, "Other Food", models.CategoryTypeExpense)

	t.Run("returns own categories ordered by name", func(t *testing.T) {
		categories, err := service.GetUserCategories(user.ID, nil)
		testutil.AssertNoError(t, err)

		if len(categories) != 3 {
			t.Fatalf("expected 3 categories, got %d", len(categories))
		}
		names := []string{categories[0].Name, categories[1].Name, categories[2].Name}
		expected := []string{"Food", "Rent", "Salary"}
		for i := range expected {
			if names[i] != expected[i] {
				t.Errorf("expected %v, got %v", expected, names)
				break
			}
		}
	})

	t.Run("filters by type", func(t *testing.T) {
		expenseType := models.CategoryTypeExpense
		categories, err := service.GetUserCategories(user.ID, &expenseType)
		testutil.AssertNoError(t, err)

		if len(categories) != 2 {
			t.Fatalf("expected 2 expense categories, got %d", len(categories))
		}
		for _, c := range categories {
			if c.Type != models.CategoryTypeExpense {
				t.Errorf("expected expense type, got %s", c.Type)
			}
		}
	})
}

func TestUpdateCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewCategoryService(db)
	user := testutil.CreateTestUser(t, db)
	category := testutil.CreateTestCategoryWithName(t, db, user.ID, "Groseries", models.CategoryTypeExpense)

	t.Run("renames category", func(t *testing.T) {
		updated, err := service.UpdateCategory(user.ID, category.ID, "Groceries")
		testutil.AssertNoError(t, err)
		if updated.Name != "Groceries" {
			t.Errorf("expected name Groceries, got %s", updated.Name)
		}
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := service.UpdateCategory(user.ID, category.ID, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("other user's category reports not found", func(t *testing.T) {
		other := testutil.CreateTestUser(t, db)
		_, err := service.UpdateCategory(other.ID, category.ID, "Theirs")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestDeleteCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	service := NewCategoryService(db)
	user := testutil.CreateTestUser(t, db)

	t.Run("clears transaction references and removes budgets", func(t *testing.T) {
		category := testutil.CreateTestCategoryWithName(t, db, user.ID, "Dining", models.CategoryTypeExpense)
		tx := testutil.CreateTestTransaction(t, db, user.ID, &category.ID, models.TransactionTypeExpense, "25.00", testutil.Date(2024, 3, 10))
		budget := testutil.CreateTestBudget(t, db, user.ID, category.ID, "300.00", 3, 2024)

		testutil.AssertNoError(t, service.DeleteCategory(user.ID, category.ID))

		// The transaction survives with its category reference cleared.
		var kept models.Transaction
		testutil.AssertNoError(t, db.First(&kept, tx.ID).Error)
		if kept.CategoryID != nil {
			t.Errorf("expected category_id to be nil, got %d", *kept.CategoryID)
		}

		// The budget is gone with the category.
		var budgetCount int64
		testutil.AssertNoError(t, db.Model(&models.Budget{}).Where("id = ?", budget.ID).Count(&budgetCount).Error)
		if budgetCount != 0 {
			t.Errorf("expected budget to be deleted, found %d", budgetCount)
		}

		var categoryCount int64
		testutil.AssertNoError(t, db.Model(&models.Category{}).Where("id = ?", category.ID).Count(&categoryCount).Error)
		if categoryCount != 0 {
			t.Errorf("expected category to be deleted, found %d", categoryCount)
		}
	})

	t.Run("does not touch other categories' transactions", func(t *testing.T) {
		doomed := testutil.CreateTestCategoryWithName(t, db, user.ID, "Doomed", models.CategoryTypeExpense)
		keeper := testutil.CreateTestCategoryWithName(t, db, user.ID, "Keeper", models.CategoryTypeExpense)
		tx := testutil.CreateTestTransaction(t, db, user.ID, &keeper.ID, models.TransactionTypeExpense, "10.00", testutil.Date(2024, 3, 11))

		testutil.AssertNoError(t, service.DeleteCategory(user.ID, doomed.ID))

		var kept models.Transaction
		testutil.AssertNoError(t, db.First(&kept, tx.ID).Error)
		if kept.CategoryID == nil || *kept.CategoryID != keeper.ID {
			t.Error("expected unrelated transaction to keep its category")
		}
	})

	t.Run("deleting twice reports not found", func(t *testing.T) {
		category := testutil.CreateTestCategoryWithName(t, db, user.ID, "Twice", models.CategoryTypeExpense)
		testutil.AssertNoError(t, service.DeleteCategory(user.ID, category.ID))
		testutil.AssertAppError(t, service.DeleteCategory(user.ID, category.ID), "CATEGORY_NOT_FOUND")
	})

	t.Run("other user's category reports not found", func(t *testing.T) {
		category := testutil.CreateTestCategoryWithName(t, db, user.ID, "Mine", models.CategoryTypeExpense)
		other := testutil.CreateTestUser(t, db)
		testutil.AssertAppError(t, service.DeleteCategory(other.ID, category.ID), "CATEGORY_NOT_FOUND")
	})
}
