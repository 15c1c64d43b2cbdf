package services

import (
	"testing"

	"clario/internal/pagination"
	"clario/internal/testutil"
)

func TestCreateAccount(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)

		account, err := svc.CreateAccount(user.ID, "Nubank", 1500.50)
		testutil.AssertNoError(t, err)

		if account.ID == 0 {
			t.Fatal("expected non-zero account ID")
		}
		if account.BankName != "Nubank" {
			t.Errorf("expected bank Nubank, got %s", account.BankName)
		}
		if account.Balance != 1500.50 {
			t.Errorf("expected balance 1500.50, got %f", account.Balance)
		}
		if !account.IsActive {
			t.Error("expected account to be active")
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateAccount(user.ID, "", 0)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetAccountByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestAccount(t, db, user.ID, 100)

		account, err := svc.GetAccountByID(user.ID, created.ID)
		testutil.AssertNoError(t, err)
		if account.ID != created.ID {
			t.Errorf("expected account %d, got %d", created.ID, account.ID)
		}
	})

	t.Run("other_users_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		account := testutil.CreateTestAccount(t, db, owner.ID, 100)

		_, err := svc.GetAccountByID(intruder.ID, account.ID)
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestDeactivateAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAccountService(db)
	user := testutil.CreateTestUser(t, db)
	account := testutil.CreateTestAccount(t, db, user.ID, 100)

	testutil.AssertNoError(t, svc.DeactivateAccount(user.ID, account.ID))

	_, err := svc.GetAccountByID(user.ID, account.ID)
	testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")

	// Deactivated accounts stop counting toward the total.
	total, err := svc.TotalBalance(user.ID)
	testutil.AssertNoError(t, err)
	if total != 0 {
		t.Errorf("expected zero total balance, got %f", total)
	}
}

func TestTotalBalance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAccountService(db)
	user := testutil.CreateTestUser(t, db)
	testutil.CreateTestAccount(t, db, user.ID, 1000)
	testutil.CreateTestAccount(t, db, user.ID, 234.56)

	total, err := svc.TotalBalance(user.ID)
	testutil.AssertNoError(t, err)
	approxEqual(t, total, 1234.56, 1e-9)
}

func TestGetUserAccounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAccountService(db)
	user := testutil.CreateTestUser(t, db)
	for i := 0; i < 3; i++ {
		testutil.CreateTestAccount(t, db, user.ID, float64(i*100))
	}

	page, err := svc.GetUserAccounts(user.ID, pagination.PageRequest{Page: 1, PageSize: 2})
	testutil.AssertNoError(t, err)

	if page.TotalItems != 3 {
		t.Errorf("expected 3 total items, got %d", page.TotalItems)
	}
	if len(page.Data) != 2 {
		t.Errorf("expected 2 items on page, got %d", len(page.Data))
	}
	if page.TotalPages != 2 {
		t.Errorf("expected 2 pages, got %d", page.TotalPages)
	}
}
