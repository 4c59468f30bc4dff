package budget

import (
	"testing"

	"centsible/internal/models"
)

func rolloverFixtures() ([]models.MonthlyBudget, Lookup) {
	budgets := []models.MonthlyBudget{
		{CategoryID: "FOOD_AND_DRINK", Month: "2025-05", Amount: 800},
		{CategoryID: "ENTERTAINMENT", Month: "2025-05", Amount: 300},
	}
	lookup := NewLookup([]models.Category{
		{ID: "FOOD_AND_DRINK", Name: "Food", IsRollover: true},
		{ID: "ENTERTAINMENT", Name: "Entertainment", IsRollover: false},
	})
	return budgets, lookup
}

func TestCalculateRollover(t *testing.T) {
	budgets, lookup := rolloverFixtures()

	t.Run("unspent_budget_carries_forward", func(t *testing.T) {
		if got := CalculateRollover(budgets, lookup, "FOOD_AND_DRINK", "2025-05", 600); got != 200 {
			t.Errorf("expected 200, got %d", got)
		}
	})

	t.Run("over_budget_month_rolls_zero", func(t *testing.T) {
		// A negative difference is clamped, never carried as debt.
		if got := CalculateRollover(budgets, lookup, "FOOD_AND_DRINK", "2025-05", 900); got != 0 {
			t.Errorf("expected 0, got %d", got)
		}
	})

	t.Run("exactly_spent_rolls_zero", func(t *testing.T) {
		if got := CalculateRollover(budgets, lookup, "FOOD_AND_DRINK", "2025-05", 800); got != 0 {
			t.Errorf("expected 0, got %d", got)
		}
	})

	t.Run("non_rollover_category_rolls_zero", func(t *testing.T) {
		if got := CalculateRollover(budgets, lookup, "ENTERTAINMENT", "2025-05", 100); got != 0 {
			t.Errorf("expected 0 for non-rollover category, got %d", got)
		}
	})

	t.Run("unknown_category_rolls_zero", func(t *testing.T) {
		if got := CalculateRollover(budgets, lookup, "GONE", "2025-05", 0); got != 0 {
			t.Errorf("expected 0 for unknown category, got %d", got)
		}
	})

	t.Run("month_without_budget_rolls_zero", func(t *testing.T) {
		if got := CalculateRollover(budgets, lookup, "FOOD_AND_DRINK", "2025-04", 0); got != 0 {
			t.Errorf("expected 0 when nothing was budgeted, got %d", got)
		}
	})
}

func TestApplyRollover(t *testing.T) {
	t.Run("adds_to_existing_row", func(t *testing.T) {
		budgets := []models.MonthlyBudget{
			{CategoryID: "FOOD_AND_DRINK", Month: "2025-06", Amount: 800},
		}
		got := ApplyRollover(budgets, "FOOD_AND_DRINK", "2025-06", 200)
		if len(got) != 1 {
			t.Fatalf("expected 1 row, got %d", len(got))
		}
		if got[0].Amount != 1000 {
			t.Errorf("expected 1000, got %d", got[0].Amount)
		}
	})

	t.Run("creates_missing_row", func(t *testing.T) {
		got := ApplyRollover(nil, "FOOD_AND_DRINK", "2025-06", 200)
		if len(got) != 1 {
			t.Fatalf("expected 1 row, got %d", len(got))
		}
		if got[0].CategoryID != "FOOD_AND_DRINK" || got[0].Month != "2025-06" || got[0].Amount != 200 {
			t.Errorf("unexpected created row: %+v", got[0])
		}
	})

	t.Run("does_not_mutate_input", func(t *testing.T) {
		budgets := []models.MonthlyBudget{
			{CategoryID: "FOOD_AND_DRINK", Month: "2025-06", Amount: 800},
		}
		_ = ApplyRollover(budgets, "FOOD_AND_DRINK", "2025-06", 200)
		if budgets[0].Amount != 800 {
			t.Errorf("input slice was mutated: %d", budgets[0].Amount)
		}
	})
}

func TestMonthHelpers(t *testing.T) {
	t.Run("valid_month", func(t *testing.T) {
		valid := []string{"2025-01", "2025-12", "1999-06"}
		invalid := []string{"2025-13", "2025-00", "2025-1", "202506", "2025-06-01", ""}
		for _, m := range valid {
			if !ValidMonth(m) {
				t.Errorf("expected %q to be valid", m)
			}
		}
		for _, m := range invalid {
			if ValidMonth(m) {
				t.Errorf("expected %q to be invalid", m)
			}
		}
	})

	t.Run("next_month", func(t *testing.T) {
		cases := map[string]string{
			"2025-01": "2025-02",
			"2025-11": "2025-12",
			"2025-12": "2026-01",
			"bogus":   "bogus",
		}
		for in, want := range cases {
			if got := NextMonth(in); got != want {
				t.Errorf("NextMonth(%q) = %q, want %q", in, got, want)
			}
		}
	})
}
