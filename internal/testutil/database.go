// Package testutil provides in-memory database setup, fixtures, and
// assertion helpers shared by service and core tests.
package testutil

import (
	"testing"

	"centsible/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// allModels lists every table the app migrates, in FK order.
var allModels = []interface{}{
	&models.User{},
	&models.Account{},
	&models.Category{},
	&models.Transaction{},
	&models.MonthlyBudget{},
	&models.AuditLog{},
}

// SetupTestDB opens a shared-cache in-memory SQLite database and migrates
// the full schema. The database lives until its last connection closes, so
// pair every call with TeardownTestDB.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// TeardownTestDB closes the connection, destroying the in-memory database.
func TeardownTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("failed to get underlying DB for teardown: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}
