package models

// MonthlyBudget is the budgeted amount for one category in one month.
// Month uses the "YYYY-MM" form throughout. Amount is in cents and is
// always >= 0 (enforced at the service boundary).
//
// The unique index gives one row per category and month; the aggregation
// code itself does not deduplicate.
type MonthlyBudget struct {
	Base
	CategoryID string `gorm:"size:128;not null;uniqueIndex:idx_budgets_category_month" json:"category_id"`
	Month      string `gorm:"size:7;not null;uniqueIndex:idx_budgets_category_month" json:"month"`
	Amount     int64  `gorm:"type:bigint;not null" json:"amount"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
