package budget

import "math"

// BucketComparison compares budgeted against actual for one bucket.
//
// Expense-like buckets: Remaining = Budgeted - Actual, OverBudget when
// spending exceeds the budget. The income bucket is inverted on purpose:
// Remaining = Actual - Budgeted (positive means the target was exceeded) and
// OverBudget flags a SHORTFALL against the income target. The inversion is a
// UX decision carried over from the dashboards, not a bug.
type BucketComparison struct {
	Budgeted    int64   `json:"budgeted"`
	Actual      int64   `json:"actual"`
	Remaining   int64   `json:"remaining"`
	PercentUsed float64 `json:"percent_used"`
	OverBudget  bool    `json:"is_over_budget"`
}

// Comparison holds the per-bucket budget-vs-actual result.
type Comparison struct {
	Income   BucketComparison `json:"income"`
	Expense  BucketComparison `json:"expense"`
	Transfer BucketComparison `json:"transfer"`
	Total    BucketComparison `json:"total"`
}

// percentUsed returns round(actual/budgeted*100), or 0 when nothing was
// budgeted.
func percentUsed(budgeted, actual int64) float64 {
	if budgeted == 0 {
		return 0
	}
	return math.Round(float64(actual) / float64(budgeted) * 100)
}

// compareExpense builds a bucket comparison with expense semantics.
func compareExpense(budgeted, actual int64) BucketComparison {
	return BucketComparison{
		Budgeted:    budgeted,
		Actual:      actual,
		Remaining:   budgeted - actual,
		PercentUsed: percentUsed(budgeted, actual),
		OverBudget:  actual > budgeted,
	}
}

// compareIncome builds a bucket comparison with the inverted income
// semantics described on BucketComparison.
func compareIncome(budgeted, actual int64) BucketComparison {
	return BucketComparison{
		Budgeted:    budgeted,
		Actual:      actual,
		Remaining:   actual - budgeted,
		PercentUsed: percentUsed(budgeted, actual),
		OverBudget:  actual < budgeted,
	}
}

// CompareTotals produces the per-bucket budget-vs-actual comparison for two
// aggregate snapshots.
func CompareTotals(budgeted, actual Totals) Comparison {
	return Comparison{
		Income:   compareIncome(budgeted.Income, actual.Income),
		Expense:  compareExpense(budgeted.Expense, actual.Expense),
		Transfer: compareExpense(budgeted.Transfer, actual.Transfer),
		Total:    compareExpense(budgeted.Total, actual.Total),
	}
}

// CategoryComparison is the per-category budget-vs-actual record, possibly
// aggregated from a parent's children.
type CategoryComparison struct {
	CategoryID  string  `json:"category_id"`
	Budgeted    int64   `json:"budgeted"`
	Actual      int64   `json:"actual"`
	Remaining   int64   `json:"remaining"`
	PercentUsed float64 `json:"percent_used"`
	OverBudget  bool    `json:"is_over_budget"`
	IsIncome    bool    `json:"is_income_category"`

	// Calculated is true when the entry aggregated child values rather than
	// merely passing through a standalone parent row.
	Calculated bool     `json:"is_calculated"`
	ChildIDs   []string `json:"children_ids,omitempty"`

	// OriginalBudget/OriginalActual preserve the parent's own direct values
	// before children were added, so callers can tell a direct budget apart
	// from the aggregated total. Nil when there was no direct parent entry.
	OriginalBudget *int64 `json:"original_budget,omitempty"`
	OriginalActual *int64 `json:"original_actual,omitempty"`
}

// NewCategoryComparison builds a non-aggregated comparison entry for a single
// category, classifying it through the lookup.
func NewCategoryComparison(categoryID string, budgeted, actual int64, lookup Lookup) CategoryComparison {
	isIncome := lookup.IsIncome(categoryID)
	bucket := compareExpense(budgeted, actual)
	if isIncome {
		bucket = compareIncome(budgeted, actual)
	}
	return CategoryComparison{
		CategoryID:  categoryID,
		Budgeted:    bucket.Budgeted,
		Actual:      bucket.Actual,
		Remaining:   bucket.Remaining,
		PercentUsed: bucket.PercentUsed,
		OverBudget:  bucket.OverBudget,
		IsIncome:    isIncome,
	}
}

// EnhancedParentTotals rolls a parent's children up into a single comparison
// entry. Child sums stack on top of any existing direct parent entry — the
// parent's own budget is additive, never overridden.
//
// The income flag resolution order: existing parent entry, then first child,
// then hierarchy classification of the parent ID. Calculated is set unless an
// existing parent entry was merely passed through with zero child budget.
func EnhancedParentTotals(parentID string, children []CategoryComparison, existing *CategoryComparison, lookup Lookup) CategoryComparison {
	var childBudget, childActual int64
	childIDs := make([]string, 0, len(children))
	for _, child := range children {
		childBudget += child.Budgeted
		childActual += child.Actual
		childIDs = append(childIDs, child.CategoryID)
	}

	var isIncome bool
	switch {
	case existing != nil:
		isIncome = existing.IsIncome
	case len(children) > 0:
		isIncome = children[0].IsIncome
	default:
		isIncome = lookup.IsIncome(parentID)
	}

	budgeted := childBudget
	actual := childActual
	var originalBudget, originalActual *int64
	if existing != nil {
		budgeted += existing.Budgeted
		actual += existing.Actual
		ob, oa := existing.Budgeted, existing.Actual
		originalBudget, originalActual = &ob, &oa
	}

	bucket := compareExpense(budgeted, actual)
	if isIncome {
		bucket = compareIncome(budgeted, actual)
	}

	return CategoryComparison{
		CategoryID:     parentID,
		Budgeted:       bucket.Budgeted,
		Actual:         bucket.Actual,
		Remaining:      bucket.Remaining,
		PercentUsed:    bucket.PercentUsed,
		OverBudget:     bucket.OverBudget,
		IsIncome:       isIncome,
		Calculated:     existing == nil || childBudget != 0,
		ChildIDs:       childIDs,
		OriginalBudget: originalBudget,
		OriginalActual: originalActual,
	}
}
