package models

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeDepository AccountType = "depository"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeManual     AccountType = "manual"
)

// Account represents a financial account, either linked through the bank
// feed or maintained by hand.
type Account struct {
	Base
	Name        string      `gorm:"not null" json:"name"`
	Type        AccountType `gorm:"not null" json:"type"`
	Institution string      `json:"institution,omitempty"`
	Mask        string      `gorm:"size:8" json:"mask,omitempty"`
	Balance     int64       `gorm:"type:bigint;not null;default:0" json:"balance"`
	Currency    string      `gorm:"not null;default:'USD'" json:"currency"`
	IsActive    bool        `gorm:"default:true" json:"is_active"`

	// Bank-feed linkage. AccessToken is never serialized.
	ExternalID  string `gorm:"size:128;index" json:"external_id,omitempty"`
	AccessToken string `json:"-"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}
