package services

import (
	"testing"

	"centsible/internal/models"
	"centsible/internal/pagination"
	"centsible/internal/testutil"
)

func TestCreateManualAccount(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		account, err := svc.CreateManualAccount("Cash Wallet", "", 12050)
		testutil.AssertNoError(t, err)

		if account.Type != models.AccountTypeManual {
			t.Errorf("expected manual account, got %s", account.Type)
		}
		if account.Currency != "USD" {
			t.Errorf("expected USD default, got %s", account.Currency)
		}
		if account.Balance != 12050 {
			t.Errorf("expected balance 12050, got %d", account.Balance)
		}
		if !account.IsActive {
			t.Error("expected new account to be active")
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		_, err := svc.CreateManualAccount("  ", "USD", 0)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetAccounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAccountService(db)

	for i := 0; i < 3; i++ {
		testutil.CreateTestAccount(t, db, 0)
	}

	page, err := svc.GetAccounts(pagination.PageRequest{Page: 1, PageSize: 2})
	testutil.AssertNoError(t, err)

	if page.TotalItems != 3 || page.TotalPages != 2 {
		t.Errorf("expected 3 items over 2 pages, got %d over %d", page.TotalItems, page.TotalPages)
	}
	if len(page.Data) != 2 {
		t.Errorf("expected 2 items on first page, got %d", len(page.Data))
	}
}

func TestUpdateAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAccountService(db)
	account := testutil.CreateTestAccount(t, db, 0)

	inactive := false
	updated, err := svc.UpdateAccount(account.ID, "Renamed", &inactive)
	testutil.AssertNoError(t, err)

	if updated.Name != "Renamed" {
		t.Errorf("expected name Renamed, got %s", updated.Name)
	}
	if updated.IsActive {
		t.Error("expected account deactivated")
	}

	_, err = svc.UpdateAccount("no-such-account", "Name", nil)
	testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
}
