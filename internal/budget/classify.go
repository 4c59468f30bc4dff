// Package budget implements the pure aggregation core: category
// classification, budget/actual totals, budget-vs-actual comparison, parent
// rollups, and month-to-month rollover arithmetic.
//
// Every function in this package is total. Malformed input — unknown category
// IDs, circular parent chains, empty slices — degrades to a neutral default
// instead of returning an error, because this layer feeds dashboards that
// must render something even over incomplete legacy data.
package budget

import (
	"strings"

	"centsible/internal/models"
)

// maxHierarchyDepth caps the parent walk. Hierarchies are two levels deep by
// construction, but corrupt data must not recurse unboundedly.
const maxHierarchyDepth = 32

// Lookup is an ID-indexed category map. Duplicate IDs in the source slice
// silently overwrite, last wins.
type Lookup map[string]models.Category

// NewLookup builds a Lookup from a category slice. No validation is done.
func NewLookup(categories []models.Category) Lookup {
	l := make(Lookup, len(categories))
	for _, c := range categories {
		l[c.ID] = c
	}
	return l
}

// IsTransferCategory reports whether the category ID denotes a transfer
// between the user's own accounts. It is a pure string check on the
// TRANSFER_IN / TRANSFER_OUT prefixes and needs no category list.
func IsTransferCategory(categoryID string) bool {
	return strings.HasPrefix(categoryID, models.CategoryIDTransferIn) ||
		strings.HasPrefix(categoryID, models.CategoryIDTransferOut)
}

// IsIncome reports whether the category is an income category, resolving
// through the parent hierarchy:
//
//  1. An explicit IsIncome flag anywhere in the chain wins.
//  2. Otherwise the parent chain is walked (visited-set guarded; a cycle or
//     a chain deeper than maxHierarchyDepth resolves to false).
//  3. A chain with no flag at all falls back to the legacy INCOME ID prefix.
//
// Unknown category IDs are not income.
func (l Lookup) IsIncome(categoryID string) bool {
	visited := make(map[string]bool, 2)
	id := categoryID

	for depth := 0; depth < maxHierarchyDepth; depth++ {
		if visited[id] {
			// Circular parent chain: resolve to "not income" rather than loop.
			return false
		}
		visited[id] = true

		c, ok := l[id]
		if !ok {
			return false
		}
		if c.IsIncome != nil {
			return *c.IsIncome
		}
		if c.ParentID == nil {
			// Legacy records without the flag: ID prefix heuristic.
			return strings.HasPrefix(c.ID, models.CategoryIDIncome)
		}
		id = *c.ParentID
	}
	return false
}

// IsExpense reports whether the category is an expense category: anything
// that is neither a transfer nor income. Note the asymmetric default — an
// unknown category is not income, and therefore IS an expense.
func (l Lookup) IsExpense(categoryID string) bool {
	return !IsTransferCategory(categoryID) && !l.IsIncome(categoryID)
}

// IsIncomeInCategories builds a Lookup from the raw slice and delegates to
// IsIncome. O(n) per call; category lists are small, so this convenience
// form is fine outside tight loops.
func IsIncomeInCategories(categoryID string, categories []models.Category) bool {
	return NewLookup(categories).IsIncome(categoryID)
}

// IsExpenseInCategories is the expense counterpart of IsIncomeInCategories.
func IsExpenseInCategories(categoryID string, categories []models.Category) bool {
	return NewLookup(categories).IsExpense(categoryID)
}

// IsIncomeCategory is the legacy prefix-only income check.
//
// Deprecated: use Lookup.IsIncome, which honors the explicit flag and the
// hierarchy. Retained because existing callers depend on the exact
// prefix-only behavior.
func IsIncomeCategory(categoryID string) bool {
	return strings.HasPrefix(categoryID, models.CategoryIDIncome)
}

// IsExpenseCategory is the legacy prefix-only expense check.
//
// Deprecated: use Lookup.IsExpense.
func IsExpenseCategory(categoryID string) bool {
	return !IsTransferCategory(categoryID) && !IsIncomeCategory(categoryID)
}
