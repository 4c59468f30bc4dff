package services

import (
	"testing"

	"centsible/internal/pagination"
	"centsible/internal/testutil"
)

func TestCreateTransaction(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		account := testutil.CreateTestAccount(t, db, 0)
		cat := testutil.CreateTestCategory(t, db, "GROCERIES")

		txn, err := svc.CreateTransaction(account.ID, &cat.ID, "Weekly shop", "Local Market", -4599, "2025-06-14")
		testutil.AssertNoError(t, err)

		if txn.ID == "" {
			t.Fatal("expected non-empty transaction ID")
		}
		if txn.Amount != -4599 {
			t.Errorf("expected amount -4599, got %d", txn.Amount)
		}
		if txn.CategoryID == nil || *txn.CategoryID != cat.ID {
			t.Errorf("expected category %s, got %v", cat.ID, txn.CategoryID)
		}
	})

	t.Run("uncategorized", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		account := testutil.CreateTestAccount(t, db, 0)

		txn, err := svc.CreateTransaction(account.ID, nil, "Mystery charge", "", -999, "2025-06-14")
		testutil.AssertNoError(t, err)
		if txn.CategoryID != nil {
			t.Errorf("expected nil category, got %v", txn.CategoryID)
		}
	})

	t.Run("bad_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		account := testutil.CreateTestAccount(t, db, 0)

		_, err := svc.CreateTransaction(account.ID, nil, "Weekly shop", "", -100, "14/06/2025")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("missing_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		_, err := svc.CreateTransaction("no-such-account", nil, "Weekly shop", "", -100, "2025-06-14")
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})

	t.Run("missing_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		account := testutil.CreateTestAccount(t, db, 0)

		bogus := "NO_SUCH_CATEGORY"
		_, err := svc.CreateTransaction(account.ID, &bogus, "Weekly shop", "", -100, "2025-06-14")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestGetTransactions(t *testing.T) {
	t.Run("month_filter", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		account := testutil.CreateTestAccount(t, db, 0)
		cat := testutil.CreateTestCategory(t, db, "GROCERIES")

		testutil.CreateTestTransaction(t, db, account.ID, cat.ID, -100, testutil.MidMonth(t, "2025-06"))
		testutil.CreateTestTransaction(t, db, account.ID, cat.ID, -200, testutil.MidMonth(t, "2025-07"))

		page, err := svc.GetTransactions(pagination.PageRequest{}, TransactionFilter{Month: "2025-06"})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 1 {
			t.Fatalf("expected 1 transaction in June, got %d", page.TotalItems)
		}
		if page.Data[0].Amount != -100 {
			t.Errorf("expected June transaction, got %+v", page.Data[0])
		}
	})

	t.Run("invalid_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		_, err := svc.GetTransactions(pagination.PageRequest{}, TransactionFilter{Month: "junk"})
		testutil.AssertAppError(t, err, "INVALID_MONTH")
	})

	t.Run("hidden_filter", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		account := testutil.CreateTestAccount(t, db, 0)
		cat := testutil.CreateTestCategory(t, db, "GROCERIES")

		testutil.CreateTestTransaction(t, db, account.ID, cat.ID, -100, testutil.MidMonth(t, "2025-06"))
		hidden := testutil.CreateTestTransaction(t, db, account.ID, cat.ID, -200, testutil.MidMonth(t, "2025-06"))
		db.Model(hidden).Update("is_hidden", true)

		page, err := svc.GetTransactions(pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 1 {
			t.Errorf("expected hidden transaction omitted, got %d items", page.TotalItems)
		}

		page, err = svc.GetTransactions(pagination.PageRequest{}, TransactionFilter{IncludeHidden: true})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 {
			t.Errorf("expected both transactions with IncludeHidden, got %d items", page.TotalItems)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		account := testutil.CreateTestAccount(t, db, 0)
		cat := testutil.CreateTestCategory(t, db, "GROCERIES")

		for i := 0; i < 5; i++ {
			testutil.CreateTestTransaction(t, db, account.ID, cat.ID, -100, testutil.MidMonth(t, "2025-06"))
		}

		page, err := svc.GetTransactions(pagination.PageRequest{Page: 2, PageSize: 2}, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 5 || page.TotalPages != 3 {
			t.Errorf("expected 5 items over 3 pages, got %d over %d", page.TotalItems, page.TotalPages)
		}
		if len(page.Data) != 2 {
			t.Errorf("expected 2 items on page 2, got %d", len(page.Data))
		}
	})
}

func TestSetCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db)
	account := testutil.CreateTestAccount(t, db, 0)
	groceries := testutil.CreateTestCategory(t, db, "GROCERIES")
	dining := testutil.CreateTestCategory(t, db, "DINING")

	txn := testutil.CreateTestTransaction(t, db, account.ID, groceries.ID, -100, testutil.MidMonth(t, "2025-06"))

	updated, err := svc.SetCategory(txn.ID, &dining.ID)
	testutil.AssertNoError(t, err)
	if updated.CategoryID == nil || *updated.CategoryID != dining.ID {
		t.Errorf("expected category DINING, got %v", updated.CategoryID)
	}

	// Clearing returns the transaction to the uncategorized pool.
	updated, err = svc.SetCategory(txn.ID, nil)
	testutil.AssertNoError(t, err)
	if updated.CategoryID != nil {
		t.Errorf("expected cleared category, got %v", updated.CategoryID)
	}

	bogus := "NO_SUCH_CATEGORY"
	_, err = svc.SetCategory(txn.ID, &bogus)
	testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
}

func TestSetHidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db)
	account := testutil.CreateTestAccount(t, db, 0)
	cat := testutil.CreateTestCategory(t, db, "GROCERIES")
	txn := testutil.CreateTestTransaction(t, db, account.ID, cat.ID, -100, testutil.MidMonth(t, "2025-06"))

	updated, err := svc.SetHidden(txn.ID, true)
	testutil.AssertNoError(t, err)
	if !updated.IsHidden {
		t.Error("expected transaction to be hidden")
	}

	updated, err = svc.SetHidden(txn.ID, false)
	testutil.AssertNoError(t, err)
	if updated.IsHidden {
		t.Error("expected transaction to be visible again")
	}
}

func TestDeleteTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db)
	account := testutil.CreateTestAccount(t, db, 0)
	cat := testutil.CreateTestCategory(t, db, "GROCERIES")
	txn := testutil.CreateTestTransaction(t, db, account.ID, cat.ID, -100, testutil.MidMonth(t, "2025-06"))

	testutil.AssertNoError(t, svc.DeleteTransaction(txn.ID))

	_, err := svc.GetTransactionByID(txn.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
}
