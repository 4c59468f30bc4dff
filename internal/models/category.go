package models

import (
	"time"

	"gorm.io/gorm"
)

// Category ID prefixes with special meaning. Transfer detection and the
// legacy income fallback in the budget package key off these.
const (
	CategoryIDIncome      = "INCOME"
	CategoryIDTransferIn  = "TRANSFER_IN"
	CategoryIDTransferOut = "TRANSFER_OUT"
	CustomCategoryPrefix  = "CUSTOM_"
)

// Category represents a spending or income category. Categories form a
// hierarchy at most two levels deep: a category with a non-nil ParentID may
// not itself be the parent of another category (enforced at creation time by
// the category service, not by the aggregation code).
//
// IDs are semantic, upper-snake strings ("FOOD_AND_DRINK", "CUSTOM_SALARY")
// rather than UUIDs, matching the bank-feed taxonomy they were seeded from.
type Category struct {
	ID         string  `gorm:"primaryKey;size:128" json:"id"`
	Name       string  `gorm:"not null" json:"name"`
	ParentID   *string `gorm:"size:128;index" json:"parent_id,omitempty"`
	IsCustom   bool    `gorm:"default:false" json:"is_custom"`
	IsHidden   bool    `gorm:"default:false" json:"is_hidden"`
	IsRollover bool    `gorm:"default:false" json:"is_rollover"`

	// IsIncome is nil on legacy records that predate the flag. Classification
	// then falls back to the parent chain and the INCOME ID prefix.
	IsIncome *bool `json:"is_income,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Relationships
	Parent   *Category  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

// DefaultCategories returns the seeded bank-feed taxonomy. The seed runs once
// at startup; custom categories are layered on top by the category service.
func DefaultCategories() []Category {
	income := true
	notIncome := false
	parent := func(id string) *string { return &id }

	return []Category{
		{ID: "INCOME", Name: "Income", IsIncome: &income},
		{ID: "INCOME_WAGES", Name: "Wages", ParentID: parent("INCOME"), IsIncome: &income},
		{ID: "INCOME_INTEREST", Name: "Interest", ParentID: parent("INCOME"), IsIncome: &income},
		{ID: "TRANSFER_IN", Name: "Transfer In", IsIncome: &notIncome},
		{ID: "TRANSFER_OUT", Name: "Transfer Out", IsIncome: &notIncome},
		{ID: "FOOD_AND_DRINK", Name: "Food & Drink", IsIncome: &notIncome},
		{ID: "FOOD_AND_DRINK_GROCERIES", Name: "Groceries", ParentID: parent("FOOD_AND_DRINK"), IsIncome: &notIncome},
		{ID: "FOOD_AND_DRINK_RESTAURANTS", Name: "Restaurants", ParentID: parent("FOOD_AND_DRINK"), IsIncome: &notIncome},
		{ID: "TRANSPORTATION", Name: "Transportation", IsIncome: &notIncome},
		{ID: "TRANSPORTATION_GAS", Name: "Gas", ParentID: parent("TRANSPORTATION"), IsIncome: &notIncome},
		{ID: "TRANSPORTATION_PUBLIC_TRANSIT", Name: "Public Transit", ParentID: parent("TRANSPORTATION"), IsIncome: &notIncome},
		{ID: "RENT_AND_UTILITIES", Name: "Rent & Utilities", IsIncome: &notIncome},
		{ID: "RENT_AND_UTILITIES_RENT", Name: "Rent", ParentID: parent("RENT_AND_UTILITIES"), IsIncome: &notIncome},
		{ID: "RENT_AND_UTILITIES_INTERNET", Name: "Internet", ParentID: parent("RENT_AND_UTILITIES"), IsIncome: &notIncome},
		{ID: "ENTERTAINMENT", Name: "Entertainment", IsIncome: &notIncome},
		{ID: "GENERAL_MERCHANDISE", Name: "General Merchandise", IsIncome: &notIncome},
		{ID: "MEDICAL", Name: "Medical", IsIncome: &notIncome},
		{ID: "PERSONAL_CARE", Name: "Personal Care", IsIncome: &notIncome},
		{ID: "TRAVEL", Name: "Travel", IsIncome: &notIncome},
		{ID: "GENERAL_SERVICES", Name: "General Services", IsIncome: &notIncome},
	}
}
