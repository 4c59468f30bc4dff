package budget

import (
	"fmt"
	"regexp"
	"strconv"

	"centsible/internal/models"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidMonth reports whether s is a well-formed "YYYY-MM" month.
func ValidMonth(s string) bool {
	return monthPattern.MatchString(s)
}

// NextMonth returns the month following m ("2025-12" -> "2026-01").
// A malformed month is returned unchanged.
func NextMonth(m string) string {
	if !ValidMonth(m) {
		return m
	}
	year, _ := strconv.Atoi(m[:4])
	month, _ := strconv.Atoi(m[5:])
	month++
	if month > 12 {
		month = 1
		year++
	}
	return fmt.Sprintf("%04d-%02d", year, month)
}

// budgetedAmount finds the budgeted amount for a category in a month.
// Missing rows budget zero.
func budgetedAmount(budgets []models.MonthlyBudget, categoryID, month string) int64 {
	for _, b := range budgets {
		if b.CategoryID == categoryID && b.Month == month {
			return b.Amount
		}
	}
	return 0
}

// CalculateRollover returns the unspent budget to carry forward out of
// fromMonth for the given category: max(0, budgeted - actualSpent) when the
// category is flagged IsRollover, zero otherwise. An over-budget month rolls
// nothing forward — the shortfall is clamped, never carried as a debt.
func CalculateRollover(budgets []models.MonthlyBudget, lookup Lookup, categoryID, fromMonth string, actualSpent int64) int64 {
	c, ok := lookup[categoryID]
	if !ok || !c.IsRollover {
		return 0
	}
	remaining := budgetedAmount(budgets, categoryID, fromMonth) - actualSpent
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ApplyRollover adds amount to the destination month's budget for the
// category, appending a new row when none exists. The input slice is not
// mutated; callers persist the returned slice.
func ApplyRollover(budgets []models.MonthlyBudget, categoryID, toMonth string, amount int64) []models.MonthlyBudget {
	out := make([]models.MonthlyBudget, len(budgets))
	copy(out, budgets)

	for i := range out {
		if out[i].CategoryID == categoryID && out[i].Month == toMonth {
			out[i].Amount += amount
			return out
		}
	}
	return append(out, models.MonthlyBudget{
		CategoryID: categoryID,
		Month:      toMonth,
		Amount:     amount,
	})
}
