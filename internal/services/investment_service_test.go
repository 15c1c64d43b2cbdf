package services

import (
	"testing"
	"time"

	"clario/internal/models"
	"clario/internal/pagination"
	"clario/internal/testutil"
)

func TestAddRecord(t *testing.T) {
	t.Run("market_buy", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewInvestmentService(db)
		user := testutil.CreateTestUser(t, db)

		record, err := svc.AddRecord(user.ID, time.Now(), "PETR4", models.AssetClassEquity, 10, 380, nil, nil)
		testutil.AssertNoError(t, err)
		if record.ID == 0 || record.Quantity != 10 {
			t.Errorf("unexpected record: %+v", record)
		}
	})

	t.Run("fixed_income_quantity_forced_to_unit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewInvestmentService(db)
		user := testutil.CreateTestUser(t, db)

		indexer := models.IndexerCDI
		record, err := svc.AddRecord(user.ID, time.Now(), "CDB Banco X", models.AssetClassFixedIncome, 42, 1000, ratePtr(110), &indexer)
		testutil.AssertNoError(t, err)
		if record.Quantity != 1 {
			t.Errorf("expected unit quantity, got %f", record.Quantity)
		}
	})

	t.Run("fixed_income_disposal_gets_negative_unit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewInvestmentService(db)
		user := testutil.CreateTestUser(t, db)

		record, err := svc.AddRecord(user.ID, time.Now(), "CDB Banco X", models.AssetClassFixedIncome, 0, -1000, nil, nil)
		testutil.AssertNoError(t, err)
		if record.Quantity != -1 {
			t.Errorf("expected negative unit quantity, got %f", record.Quantity)
		}
	})

	t.Run("rate_terms_rejected_for_market_assets", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewInvestmentService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.AddRecord(user.ID, time.Now(), "PETR4", models.AssetClassEquity, 10, 380, ratePtr(100), nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_class_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewInvestmentService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.AddRecord(user.ID, time.Now(), "GOLD", models.AssetClass("commodity"), 1, 100, nil, nil)
		testutil.AssertAppError(t, err, "INVALID_ASSET_CLASS")
	})

	t.Run("unknown_indexer_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewInvestmentService(db)
		user := testutil.CreateTestUser(t, db)

		bad := models.RateIndexer("libor")
		_, err := svc.AddRecord(user.ID, time.Now(), "CDB Banco X", models.AssetClassFixedIncome, 1, 1000, ratePtr(100), &bad)
		testutil.AssertAppError(t, err, "INVALID_RATE_INDEXER")
	})
}

func TestGetUserRecords(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewInvestmentService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	now := time.Now()
	testutil.CreateTestMarketRecord(t, db, user.ID, "PETR4", models.AssetClassEquity, 10, 380, now.AddDate(0, -1, 0))
	testutil.CreateTestMarketRecord(t, db, user.ID, "VALE3", models.AssetClassEquity, 5, 300, now)
	testutil.CreateTestMarketRecord(t, db, other.ID, "ITUB4", models.AssetClassEquity, 1, 30, now)

	page, err := svc.GetUserRecords(user.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)

	if page.TotalItems != 2 {
		t.Fatalf("expected 2 records, got %d", page.TotalItems)
	}
	if page.Data[0].Asset != "VALE3" {
		t.Errorf("expected newest record first, got %s", page.Data[0].Asset)
	}
}

func TestDeleteRecord(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewInvestmentService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	record := testutil.CreateTestMarketRecord(t, db, user.ID, "PETR4", models.AssetClassEquity, 10, 380, time.Now())

	testutil.AssertAppError(t, svc.DeleteRecord(other.ID, record.ID), "RECORD_NOT_FOUND")

	testutil.AssertNoError(t, svc.DeleteRecord(user.ID, record.ID))
	_, err := svc.GetRecordByID(user.ID, record.ID)
	testutil.AssertAppError(t, err, "RECORD_NOT_FOUND")
}
