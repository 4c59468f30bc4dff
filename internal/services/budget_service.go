package services

import (
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"centsible/internal/budget"
	apperrors "centsible/internal/errors"
	"centsible/internal/models"
)

// budgetService handles budget-related business logic. The aggregation math
// itself lives in the budget package; this service loads the month's records
// and persists results.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// monthWindow returns the [start, end) time bounds of a "YYYY-MM" month in UTC.
func monthWindow(month string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 1, 0), nil
}

// SetBudget creates or replaces the budgeted amount for a category in a month.
func (s *budgetService) SetBudget(categoryID, month string, amount int64) (*models.MonthlyBudget, error) {
	if !budget.ValidMonth(month) {
		return nil, apperrors.ErrInvalidMonth
	}
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget amount must not be negative")
	}

	var category models.Category
	if err := s.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var row models.MonthlyBudget
	err := s.db.Where("category_id = ? AND month = ?", categoryID, month).First(&row).Error
	switch {
	case err == nil:
		if err := s.db.Model(&row).Update("amount", amount).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &row, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = models.MonthlyBudget{CategoryID: categoryID, Month: month, Amount: amount}
		if err := s.db.Create(&row).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &row, nil
	default:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
}

// GetMonthBudgets returns all budget rows for a month.
func (s *budgetService) GetMonthBudgets(month string) ([]models.MonthlyBudget, error) {
	if !budget.ValidMonth(month) {
		return nil, apperrors.ErrInvalidMonth
	}
	var rows []models.MonthlyBudget
	if err := s.db.Preload("Category").Where("month = ?", month).Order("category_id").Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return rows, nil
}

// DeleteBudget removes a budget row.
func (s *budgetService) DeleteBudget(budgetID string) error {
	var row models.MonthlyBudget
	if err := s.db.Where("id = ?", budgetID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrBudgetNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Delete(&row).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetMonthlySummary builds the month dashboard: bucketed totals for budgets
// and actuals, their comparison, and a per-category breakdown where parents
// with budgeted or active children appear as rolled-up entries.
func (s *budgetService) GetMonthlySummary(month string) (*MonthlySummary, error) {
	if !budget.ValidMonth(month) {
		return nil, apperrors.ErrInvalidMonth
	}
	start, end, err := monthWindow(month)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidMonth, err)
	}

	var categories []models.Category
	if err := s.db.Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var budgets []models.MonthlyBudget
	if err := s.db.Where("month = ?", month).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var transactions []models.Transaction
	if err := s.db.Where("date >= ? AND date < ?", start, end).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	opts := budget.Options{ExcludeHidden: true}
	budgeted := budget.CalculateBudgetTotals(budgets, categories, opts)
	actual := budget.CalculateActualTotals(transactions, categories, opts)

	return &MonthlySummary{
		Month:      month,
		Budgeted:   budgeted,
		Actual:     actual,
		Comparison: budget.CompareTotals(budgeted, actual),
		Categories: categoryBreakdown(budgets, transactions, categories, opts),
	}, nil
}

// categoryBreakdown builds the per-category comparison list. Every category
// with a budget row or actual spending gets an entry; parents whose children
// have entries are rolled up on top of their own direct values. Entries are
// sorted by category ID, children before their rolled-up parent.
func categoryBreakdown(budgets []models.MonthlyBudget, transactions []models.Transaction, categories []models.Category, opts budget.Options) []budget.CategoryComparison {
	lookup := budget.NewLookup(categories)
	ex := make(map[string]bool)
	if opts.ExcludeHidden {
		ex = budget.HiddenCategoryIDs(categories)
	}

	budgetedBy := make(map[string]int64)
	for _, b := range budgets {
		if b.CategoryID == "" || ex[b.CategoryID] {
			continue
		}
		if budget.IsTransferCategory(b.CategoryID) && !opts.IncludeTransfers {
			continue
		}
		budgetedBy[b.CategoryID] += b.Amount
	}
	actuals := budget.ActualsByCategory(transactions, categories, opts)

	ids := make([]string, 0, len(budgetedBy)+len(actuals))
	seen := make(map[string]bool)
	for id := range budgetedBy {
		ids = append(ids, id)
		seen[id] = true
	}
	for id := range actuals {
		if !seen[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	entries := make(map[string]budget.CategoryComparison, len(ids))
	for _, id := range ids {
		entries[id] = budget.NewCategoryComparison(id, budgetedBy[id], actuals[id], lookup)
	}

	// Group child entries under their parent, in sorted order.
	childEntries := make(map[string][]budget.CategoryComparison)
	for _, id := range ids {
		c, ok := lookup[id]
		if !ok || c.ParentID == nil {
			continue
		}
		childEntries[*c.ParentID] = append(childEntries[*c.ParentID], entries[id])
	}

	out := make([]budget.CategoryComparison, 0, len(ids)+len(childEntries))
	for _, id := range ids {
		out = append(out, entries[id])
	}
	for parentID, children := range childEntries {
		var existing *budget.CategoryComparison
		if e, ok := entries[parentID]; ok {
			existing = &e
			// The direct entry is replaced by the rollup.
			for i := range out {
				if out[i].CategoryID == parentID {
					out = append(out[:i], out[i+1:]...)
					break
				}
			}
		}
		out = append(out, budget.EnhancedParentTotals(parentID, children, existing, lookup))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CategoryID < out[j].CategoryID })
	return out
}

// ApplyRollover carries a rollover category's unspent budget from fromMonth
// into the next month, creating or topping up the destination row. The
// destination row is returned; an over-budget source month carries zero.
func (s *budgetService) ApplyRollover(categoryID, fromMonth string) (*models.MonthlyBudget, error) {
	if !budget.ValidMonth(fromMonth) {
		return nil, apperrors.ErrInvalidMonth
	}

	var category models.Category
	if err := s.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !category.IsRollover {
		return nil, apperrors.ErrNotRollover
	}

	toMonth := budget.NextMonth(fromMonth)
	var rows []models.MonthlyBudget
	if err := s.db.Where("category_id = ? AND month IN ?", categoryID, []string{fromMonth, toMonth}).Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	start, end, err := monthWindow(fromMonth)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidMonth, err)
	}
	var spent int64
	err = s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(ABS(amount)), 0)").
		Where("category_id = ? AND is_hidden = ? AND date >= ? AND date < ?", categoryID, false, start, end).
		Scan(&spent).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	lookup := budget.NewLookup([]models.Category{category})
	amount := budget.CalculateRollover(rows, lookup, categoryID, fromMonth, spent)
	updated := budget.ApplyRollover(rows, categoryID, toMonth, amount)

	for i := range updated {
		if updated[i].CategoryID != categoryID || updated[i].Month != toMonth {
			continue
		}
		row := updated[i]
		if row.ID == "" {
			if err := s.db.Create(&row).Error; err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		} else {
			if err := s.db.Model(&models.MonthlyBudget{}).Where("id = ?", row.ID).Update("amount", row.Amount).Error; err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return &row, nil
	}

	// Unreachable: ApplyRollover always yields a destination row.
	return nil, apperrors.ErrInternalServer
}
