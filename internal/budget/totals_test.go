package budget

import (
	"testing"

	"centsible/internal/models"
)

// taxonomy returns a small category tree used across the aggregation tests:
// INCOME (with child CUSTOM_SALARY), FOOD_AND_DRINK (with hidden child),
// a hidden root with a visible child, and the transfer pair.
func taxonomy() []models.Category {
	return []models.Category{
		{ID: "INCOME", Name: "Income", IsIncome: boolPtr(true)},
		{ID: "CUSTOM_SALARY", Name: "Salary", ParentID: strPtr("INCOME"), IsCustom: true},
		{ID: "FOOD_AND_DRINK", Name: "Food", IsIncome: boolPtr(false)},
		{ID: "FOOD_AND_DRINK_GROCERIES", Name: "Groceries", ParentID: strPtr("FOOD_AND_DRINK"), IsIncome: boolPtr(false)},
		{ID: "OLD_SUBSCRIPTIONS", Name: "Old Subscriptions", IsHidden: true, IsIncome: boolPtr(false)},
		{ID: "OLD_SUBSCRIPTIONS_STREAMING", Name: "Streaming", ParentID: strPtr("OLD_SUBSCRIPTIONS"), IsIncome: boolPtr(false)},
		{ID: "TRANSFER_IN", Name: "Transfer In"},
		{ID: "TRANSFER_OUT", Name: "Transfer Out"},
	}
}

func TestCalculateBudgetTotals(t *testing.T) {
	t.Run("empty_input_yields_zero_totals", func(t *testing.T) {
		got := CalculateBudgetTotals(nil, taxonomy(), Options{})
		if got != (Totals{}) {
			t.Errorf("expected zero totals, got %+v", got)
		}
	})

	t.Run("buckets_by_classification", func(t *testing.T) {
		budgets := []models.MonthlyBudget{
			{CategoryID: "INCOME", Month: "2025-06", Amount: 5000},
			{CategoryID: "CUSTOM_SALARY", Month: "2025-06", Amount: 3000},
			{CategoryID: "FOOD_AND_DRINK", Month: "2025-06", Amount: 800},
		}
		got := CalculateBudgetTotals(budgets, taxonomy(), Options{})
		want := Totals{Income: 8000, Expense: 800, Transfer: 0, Total: 8800}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("transfers_dropped_by_default", func(t *testing.T) {
		budgets := []models.MonthlyBudget{
			{CategoryID: "TRANSFER_IN", Month: "2025-06", Amount: 1000},
			{CategoryID: "FOOD_AND_DRINK", Month: "2025-06", Amount: 500},
		}
		got := CalculateBudgetTotals(budgets, taxonomy(), Options{})
		want := Totals{Expense: 500, Total: 500}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("transfers_bucketed_when_included", func(t *testing.T) {
		budgets := []models.MonthlyBudget{
			{CategoryID: "TRANSFER_IN", Month: "2025-06", Amount: 1000},
		}
		got := CalculateBudgetTotals(budgets, taxonomy(), Options{IncludeTransfers: true})
		want := Totals{Transfer: 1000, Total: 1000}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("exclude_hidden_drops_hidden_and_their_children", func(t *testing.T) {
		budgets := []models.MonthlyBudget{
			{CategoryID: "OLD_SUBSCRIPTIONS", Month: "2025-06", Amount: 100},
			{CategoryID: "OLD_SUBSCRIPTIONS_STREAMING", Month: "2025-06", Amount: 200},
			{CategoryID: "FOOD_AND_DRINK", Month: "2025-06", Amount: 300},
		}
		got := CalculateBudgetTotals(budgets, taxonomy(), Options{ExcludeHidden: true})
		want := Totals{Expense: 300, Total: 300}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("exclude_children_keeps_roots_only", func(t *testing.T) {
		budgets := []models.MonthlyBudget{
			{CategoryID: "INCOME", Month: "2025-06", Amount: 5000},
			{CategoryID: "CUSTOM_SALARY", Month: "2025-06", Amount: 3000},
		}
		got := CalculateBudgetTotals(budgets, taxonomy(), Options{ExcludeChildren: true})
		want := Totals{Income: 5000, Total: 5000}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("unknown_category_counts_as_expense", func(t *testing.T) {
		budgets := []models.MonthlyBudget{
			{CategoryID: "NOT_IN_TAXONOMY", Month: "2025-06", Amount: 250},
		}
		got := CalculateBudgetTotals(budgets, taxonomy(), Options{})
		want := Totals{Expense: 250, Total: 250}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})
}

func TestCalculateActualTotals(t *testing.T) {
	t.Run("absolute_amounts", func(t *testing.T) {
		// Outflows arrive negative from the bank feed; the sign must not
		// leak into the buckets.
		txns := []models.Transaction{
			{CategoryID: strPtr("FOOD_AND_DRINK"), Amount: -4500},
			{CategoryID: strPtr("INCOME"), Amount: 250000},
		}
		got := CalculateActualTotals(txns, taxonomy(), Options{})
		want := Totals{Income: 250000, Expense: 4500, Total: 254500}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("skips_uncategorized_and_hidden", func(t *testing.T) {
		txns := []models.Transaction{
			{CategoryID: nil, Amount: 9999},
			{CategoryID: strPtr("FOOD_AND_DRINK"), Amount: 100, IsHidden: true},
			{CategoryID: strPtr("FOOD_AND_DRINK"), Amount: 200},
		}
		got := CalculateActualTotals(txns, taxonomy(), Options{})
		want := Totals{Expense: 200, Total: 200}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("empty_input_yields_zero_totals", func(t *testing.T) {
		got := CalculateActualTotals(nil, nil, Options{})
		if got != (Totals{}) {
			t.Errorf("expected zero totals, got %+v", got)
		}
	})
}

func TestHiddenCategoryIDs(t *testing.T) {
	t.Run("one_hop_rule", func(t *testing.T) {
		categories := []models.Category{
			{ID: "ROOT", Name: "Root", IsHidden: true},
			{ID: "CHILD", Name: "Child", ParentID: strPtr("ROOT")},
			{ID: "GRANDCHILD", Name: "Grandchild", ParentID: strPtr("CHILD")},
			{ID: "VISIBLE", Name: "Visible"},
		}
		hidden := HiddenCategoryIDs(categories)

		if !hidden["ROOT"] {
			t.Error("directly hidden category must be in the set")
		}
		if !hidden["CHILD"] {
			t.Error("child of a hidden parent must be in the set")
		}
		if hidden["GRANDCHILD"] {
			t.Error("grandchild of a hidden grandparent must NOT be in the set (one hop only)")
		}
		if hidden["VISIBLE"] {
			t.Error("unrelated category must not be in the set")
		}
	})

	t.Run("orphaned_parent_reference", func(t *testing.T) {
		categories := []models.Category{
			{ID: "ORPHAN", Name: "Orphan", ParentID: strPtr("GONE")},
		}
		if HiddenCategoryIDs(categories)["ORPHAN"] {
			t.Error("a dangling parent reference must not hide the child")
		}
	})
}

func TestChildAndParentCategoryIDs(t *testing.T) {
	categories := taxonomy()

	children := ChildCategoryIDs(categories)
	for _, id := range []string{"CUSTOM_SALARY", "FOOD_AND_DRINK_GROCERIES", "OLD_SUBSCRIPTIONS_STREAMING"} {
		if !children[id] {
			t.Errorf("expected %s in child set", id)
		}
	}
	if children["INCOME"] {
		t.Error("root category must not be in child set")
	}

	parents := ParentCategoryIDs(categories)
	for _, id := range []string{"INCOME", "FOOD_AND_DRINK", "OLD_SUBSCRIPTIONS"} {
		if !parents[id] {
			t.Errorf("expected %s in parent set", id)
		}
	}
	if parents["TRANSFER_IN"] {
		t.Error("childless category must not be in parent set")
	}
}

func TestBudgetableTransactions(t *testing.T) {
	txns := []models.Transaction{
		{CategoryID: strPtr("FOOD_AND_DRINK"), Amount: 100},
		{CategoryID: nil, Amount: 200},
		{CategoryID: strPtr("FOOD_AND_DRINK"), Amount: 300, IsHidden: true},
		{CategoryID: strPtr("TRANSFER_OUT"), Amount: 400},
	}
	got := BudgetableTransactions(txns)
	if len(got) != 1 {
		t.Fatalf("expected 1 budgetable transaction, got %d", len(got))
	}
	if got[0].Amount != 100 {
		t.Errorf("expected the categorized, visible, non-transfer transaction, got amount %d", got[0].Amount)
	}
}

func TestActualsByCategory(t *testing.T) {
	txns := []models.Transaction{
		{CategoryID: strPtr("FOOD_AND_DRINK"), Amount: -250},
		{CategoryID: strPtr("FOOD_AND_DRINK"), Amount: -150},
		{CategoryID: strPtr("INCOME"), Amount: 1000},
		{CategoryID: strPtr("TRANSFER_IN"), Amount: 500},
		{CategoryID: nil, Amount: 999},
	}
	got := ActualsByCategory(txns, taxonomy(), Options{})

	if got["FOOD_AND_DRINK"] != 400 {
		t.Errorf("expected summed absolute actuals 400, got %d", got["FOOD_AND_DRINK"])
	}
	if got["INCOME"] != 1000 {
		t.Errorf("expected 1000, got %d", got["INCOME"])
	}
	if _, ok := got["TRANSFER_IN"]; ok {
		t.Error("transfers must be dropped by default")
	}

	withTransfers := ActualsByCategory(txns, taxonomy(), Options{IncludeTransfers: true})
	if withTransfers["TRANSFER_IN"] != 500 {
		t.Errorf("expected transfer actuals when included, got %d", withTransfers["TRANSFER_IN"])
	}
}
