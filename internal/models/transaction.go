package models

import "time"

// Transaction represents a single bank or manual transaction.
//
// Amount is in cents and keeps whatever sign the source delivered (bank feeds
// report outflows negative, manual entry stores positives). The budget
// package takes the absolute value at the aggregation boundary, so the sign
// carries no business meaning downstream.
type Transaction struct {
	Base
	AccountID  string  `gorm:"type:uuid;not null;index" json:"account_id"`
	CategoryID *string `gorm:"size:128;index" json:"category_id,omitempty"`

	Name     string    `gorm:"not null" json:"name"`
	Merchant string    `json:"merchant,omitempty"`
	Amount   int64     `gorm:"type:bigint;not null" json:"amount"`
	Date     time.Time `gorm:"not null;index" json:"date"`
	Pending  bool      `gorm:"default:false" json:"pending"`
	IsHidden bool      `gorm:"default:false" json:"is_hidden"`

	// ExternalID is the bank-feed transaction ID, used to dedupe on sync.
	// Empty for manually entered transactions.
	ExternalID string `gorm:"size:128;uniqueIndex:idx_transactions_external_id,where:external_id <> ''" json:"external_id,omitempty"`

	// Relationships
	Account  Account   `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
