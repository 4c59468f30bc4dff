package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"centsible/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAccount creates a manual account with the given balance (in cents).
func CreateTestAccount(t *testing.T, db *gorm.DB, balance int64) *models.Account {
	t.Helper()

	account := &models.Account{
		Name:     fmt.Sprintf("Test Account %d", nextID()),
		Type:     models.AccountTypeManual,
		Balance:  balance,
		Currency: "USD",
		IsActive: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestLinkedAccount creates an account linked to a bank feed.
func CreateTestLinkedAccount(t *testing.T, db *gorm.DB) *models.Account {
	t.Helper()

	n := nextID()
	account := &models.Account{
		Name:        fmt.Sprintf("Test Linked Account %d", n),
		Type:        models.AccountTypeDepository,
		Currency:    "USD",
		IsActive:    true,
		ExternalID:  fmt.Sprintf("ext-acc-%d", n),
		AccessToken: "access-test-token",
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test linked account: %v", err)
	}
	return account
}

// CreateTestCategory creates a root category with the given ID.
func CreateTestCategory(t *testing.T, db *gorm.DB, id string) *models.Category {
	t.Helper()
	return createCategory(t, db, &models.Category{ID: id, Name: id})
}

// CreateTestChildCategory creates a category under the given parent.
func CreateTestChildCategory(t *testing.T, db *gorm.DB, id, parentID string) *models.Category {
	t.Helper()
	return createCategory(t, db, &models.Category{ID: id, Name: id, ParentID: &parentID})
}

// CreateTestIncomeCategory creates a root category explicitly flagged as income.
func CreateTestIncomeCategory(t *testing.T, db *gorm.DB, id string) *models.Category {
	t.Helper()
	income := true
	return createCategory(t, db, &models.Category{ID: id, Name: id, IsIncome: &income})
}

// CreateTestRolloverCategory creates a root category flagged for rollover.
func CreateTestRolloverCategory(t *testing.T, db *gorm.DB, id string) *models.Category {
	t.Helper()
	return createCategory(t, db, &models.Category{ID: id, Name: id, IsRollover: true})
}

func createCategory(t *testing.T, db *gorm.DB, category *models.Category) *models.Category {
	t.Helper()
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category %s: %v", category.ID, err)
	}
	return category
}

// CreateTestTransaction creates a categorized transaction with the given
// amount (in cents) on the given date.
func CreateTestTransaction(t *testing.T, db *gorm.DB, accountID, categoryID string, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		AccountID:  accountID,
		CategoryID: &categoryID,
		Name:       fmt.Sprintf("Test Transaction %d", nextID()),
		Amount:     amount,
		Date:       date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates a budget row for the given category and month.
func CreateTestBudget(t *testing.T, db *gorm.DB, categoryID, month string, amount int64) *models.MonthlyBudget {
	t.Helper()

	budget := &models.MonthlyBudget{
		CategoryID: categoryID,
		Month:      month,
		Amount:     amount,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// MidMonth returns a time in the middle of a "YYYY-MM" month, handy for
// placing transactions squarely inside a month window.
func MidMonth(t *testing.T, month string) time.Time {
	t.Helper()

	parsed, err := time.Parse("2006-01", month)
	if err != nil {
		t.Fatalf("invalid test month %q: %v", month, err)
	}
	return parsed.AddDate(0, 0, 14)
}
