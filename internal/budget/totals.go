package budget

import "centsible/internal/models"

// Options controls which records participate in an aggregation pass.
//
// The zero value is the default everywhere: hidden and child categories are
// included, transfers are dropped. IncludeTransfers is deliberately inverted
// from the other two flags so that the zero value matches the default.
type Options struct {
	// ExcludeHidden drops records whose category is hidden, directly or via
	// its immediate parent.
	ExcludeHidden bool

	// ExcludeChildren drops records whose category has a parent, leaving
	// only root categories. Used when parent rollups are computed separately.
	ExcludeChildren bool

	// IncludeTransfers adds transfer-classified amounts to the Transfer
	// bucket. When false (the default) transfer amounts are dropped entirely.
	IncludeTransfers bool
}

// Totals is an aggregate snapshot in cents, bucketed by classification.
// It is produced once and never mutated.
type Totals struct {
	Income   int64 `json:"income"`
	Expense  int64 `json:"expense"`
	Transfer int64 `json:"transfer"`
	Total    int64 `json:"total"`
}

// HiddenCategoryIDs returns the set of category IDs excluded as hidden: a
// category is hidden if its own flag is set OR its immediate parent's flag
// is set. One hop only — a grandchild of a hidden grandparent is not hidden.
func HiddenCategoryIDs(categories []models.Category) map[string]bool {
	lookup := NewLookup(categories)
	hidden := make(map[string]bool)
	for _, c := range categories {
		if c.IsHidden {
			hidden[c.ID] = true
			continue
		}
		if c.ParentID != nil {
			if parent, ok := lookup[*c.ParentID]; ok && parent.IsHidden {
				hidden[c.ID] = true
			}
		}
	}
	return hidden
}

// ChildCategoryIDs returns the set of category IDs that have a parent.
func ChildCategoryIDs(categories []models.Category) map[string]bool {
	children := make(map[string]bool)
	for _, c := range categories {
		if c.ParentID != nil {
			children[c.ID] = true
		}
	}
	return children
}

// ParentCategoryIDs returns the set of category IDs that are the parent of
// at least one other category.
func ParentCategoryIDs(categories []models.Category) map[string]bool {
	parents := make(map[string]bool)
	for _, c := range categories {
		if c.ParentID != nil {
			parents[*c.ParentID] = true
		}
	}
	return parents
}

// exclusions holds the per-pass skip sets, built only for the flags that are
// actually set.
type exclusions struct {
	hidden   map[string]bool
	children map[string]bool
}

func buildExclusions(categories []models.Category, opts Options) exclusions {
	var ex exclusions
	if opts.ExcludeHidden {
		ex.hidden = HiddenCategoryIDs(categories)
	}
	if opts.ExcludeChildren {
		ex.children = ChildCategoryIDs(categories)
	}
	return ex
}

func (ex exclusions) skip(categoryID string) bool {
	return ex.hidden[categoryID] || ex.children[categoryID]
}

// accumulate classifies one amount and adds it to the right bucket.
// Transfer is checked first, then income; everything else is expense.
func accumulate(t *Totals, lookup Lookup, categoryID string, amount int64, opts Options) {
	switch {
	case IsTransferCategory(categoryID):
		if opts.IncludeTransfers {
			t.Transfer += amount
		}
	case lookup.IsIncome(categoryID):
		t.Income += amount
	default:
		t.Expense += amount
	}
}

// CalculateBudgetTotals sums budgeted amounts into income/expense/transfer
// buckets. Budget amounts contribute as-is (they are non-negative by the
// service contract). Empty input yields zero totals.
func CalculateBudgetTotals(budgets []models.MonthlyBudget, categories []models.Category, opts Options) Totals {
	lookup := NewLookup(categories)
	ex := buildExclusions(categories, opts)

	var t Totals
	for _, b := range budgets {
		if b.CategoryID == "" || ex.skip(b.CategoryID) {
			continue
		}
		accumulate(&t, lookup, b.CategoryID, b.Amount, opts)
	}
	t.Total = t.Income + t.Expense + t.Transfer
	return t
}

// CalculateActualTotals sums transaction amounts into income/expense/transfer
// buckets. Uncategorized and hidden transactions are skipped; amounts
// contribute their absolute value, since the sign convention of the source
// varies by origin and carries no meaning here.
func CalculateActualTotals(transactions []models.Transaction, categories []models.Category, opts Options) Totals {
	lookup := NewLookup(categories)
	ex := buildExclusions(categories, opts)

	var t Totals
	for _, txn := range transactions {
		if txn.CategoryID == nil || txn.IsHidden || ex.skip(*txn.CategoryID) {
			continue
		}
		accumulate(&t, lookup, *txn.CategoryID, abs(txn.Amount), opts)
	}
	t.Total = t.Income + t.Expense + t.Transfer
	return t
}

// BudgetableTransactions filters to transactions eligible for budget-vs-actual
// comparison: categorized, not hidden, and not transfers.
func BudgetableTransactions(transactions []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, 0, len(transactions))
	for _, txn := range transactions {
		if txn.CategoryID == nil || txn.IsHidden || IsTransferCategory(*txn.CategoryID) {
			continue
		}
		out = append(out, txn)
	}
	return out
}

// ActualsByCategory sums absolute transaction amounts per category, applying
// the same exclusion and transfer rules as CalculateActualTotals. The result
// feeds the per-category comparison step.
func ActualsByCategory(transactions []models.Transaction, categories []models.Category, opts Options) map[string]int64 {
	ex := buildExclusions(categories, opts)

	actuals := make(map[string]int64)
	for _, txn := range transactions {
		if txn.CategoryID == nil || txn.IsHidden || ex.skip(*txn.CategoryID) {
			continue
		}
		id := *txn.CategoryID
		if IsTransferCategory(id) && !opts.IncludeTransfers {
			continue
		}
		actuals[id] += abs(txn.Amount)
	}
	return actuals
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
