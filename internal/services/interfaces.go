package services

import (
	"context"

	"centsible/internal/budget"
	"centsible/internal/models"
	"centsible/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateManualAccount(name, currency string, balance int64) (*models.Account, error)
	GetAccounts(page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(accountID string) (*models.Account, error)
	UpdateAccount(accountID, name string, isActive *bool) (*models.Account, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	SeedDefaults() error
	GetCategories() ([]models.Category, error)
	GetCategoryByID(categoryID string) (*models.Category, error)
	CreateCategory(name string, parentID *string, isIncome *bool, isHidden, isRollover bool) (*models.Category, error)
	UpdateCategory(categoryID string, name string, parentID *string, isIncome, isHidden, isRollover *bool) (*models.Category, error)
	DeleteCategory(categoryID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	Month         string
	CategoryID    *string
	AccountID     *string
	IncludeHidden bool
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(accountID string, categoryID *string, name, merchant string, amount int64, date string) (*models.Transaction, error)
	GetTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(transactionID string) (*models.Transaction, error)
	SetCategory(transactionID string, categoryID *string) (*models.Transaction, error)
	SetHidden(transactionID string, hidden bool) (*models.Transaction, error)
	DeleteTransaction(transactionID string) error
}

// MonthlySummary is the month dashboard payload: aggregate buckets, their
// comparison, and the per-category breakdown with parent rollups.
type MonthlySummary struct {
	Month      string                      `json:"month"`
	Budgeted   budget.Totals               `json:"budgeted"`
	Actual     budget.Totals               `json:"actual"`
	Comparison budget.Comparison           `json:"comparison"`
	Categories []budget.CategoryComparison `json:"categories"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	SetBudget(categoryID, month string, amount int64) (*models.MonthlyBudget, error)
	GetMonthBudgets(month string) ([]models.MonthlyBudget, error)
	DeleteBudget(budgetID string) error
	GetMonthlySummary(month string) (*MonthlySummary, error)
	ApplyRollover(categoryID, fromMonth string) (*models.MonthlyBudget, error)
}

// SyncResult reports what a bank-feed sync changed.
type SyncResult struct {
	AccountID string `json:"account_id"`
	Added     int    `json:"added"`
	Skipped   int    `json:"skipped"`
}

// SyncServicer defines the contract for bank-feed synchronization.
type SyncServicer interface {
	LinkItem(ctx context.Context, publicToken string) ([]models.Account, error)
	SyncAccount(ctx context.Context, accountID string) (*SyncResult, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
