package services

import (
	"testing"
	"time"

	"clario/internal/testutil"
)

func TestCreateCard(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCreditCardService(db)
		user := testutil.CreateTestUser(t, db)

		card, err := svc.CreateCard(user.ID, "Platinum", 8000, 10)
		testutil.AssertNoError(t, err)
		if card.ID == 0 || card.Limit != 8000 || card.ClosingDay != 10 {
			t.Errorf("unexpected card: %+v", card)
		}
	})

	t.Run("closing_day_out_of_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCreditCardService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCard(user.ID, "Broken", 1000, 31)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetCurrentBill(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCreditCardService(db)
	user := testutil.CreateTestUser(t, db)
	card := testutil.CreateTestCard(t, db, user.ID, 5000, 28)

	now := time.Now()
	// Inside the open cycle.
	testutil.CreateTestCardTransaction(t, db, user.ID, card.ID, 300, now)
	testutil.CreateTestCardTransaction(t, db, user.ID, card.ID, 200, now)
	// Long before the last closing date.
	testutil.CreateTestCardTransaction(t, db, user.ID, card.ID, 999, now.AddDate(0, -3, 0))

	bill, err := svc.GetCurrentBill(user.ID, card.ID)
	testutil.AssertNoError(t, err)

	if bill.Total != 500 {
		t.Errorf("expected open bill 500, got %f", bill.Total)
	}
	approxEqual(t, bill.LimitUsage, 500.0/5000*100, 1e-9)
	if !bill.CycleStart.Before(now) || !bill.CycleEnd.After(bill.CycleStart) {
		t.Errorf("unexpected cycle bounds: %v to %v", bill.CycleStart, bill.CycleEnd)
	}
}

func TestTotalOpenBills(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCreditCardService(db)
	user := testutil.CreateTestUser(t, db)
	first := testutil.CreateTestCard(t, db, user.ID, 5000, 28)
	second := testutil.CreateTestCard(t, db, user.ID, 3000, 28)

	now := time.Now()
	testutil.CreateTestCardTransaction(t, db, user.ID, first.ID, 100, now)
	testutil.CreateTestCardTransaction(t, db, user.ID, second.ID, 250, now)

	total, err := svc.TotalOpenBills(user.ID)
	testutil.AssertNoError(t, err)
	if total != 350 {
		t.Errorf("expected total 350, got %f", total)
	}
}

func TestBillingCycle(t *testing.T) {
	loc := time.UTC

	t.Run("after_closing_day", func(t *testing.T) {
		asOf := time.Date(2026, 8, 20, 10, 0, 0, 0, loc)
		start, end := billingCycle(10, asOf)
		if start.Month() != time.August || start.Day() != 10 {
			t.Errorf("expected cycle start Aug 10, got %v", start)
		}
		if end.Month() != time.September || end.Day() != 10 {
			t.Errorf("expected cycle end Sep 10, got %v", end)
		}
	})

	t.Run("on_or_before_closing_day", func(t *testing.T) {
		asOf := time.Date(2026, 8, 5, 10, 0, 0, 0, loc)
		start, end := billingCycle(10, asOf)
		if start.Month() != time.July || start.Day() != 10 {
			t.Errorf("expected cycle start Jul 10, got %v", start)
		}
		if end.Month() != time.August {
			t.Errorf("expected cycle end in August, got %v", end)
		}
	})
}

func TestDeactivateCard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCreditCardService(db)
	user := testutil.CreateTestUser(t, db)
	card := testutil.CreateTestCard(t, db, user.ID, 1000, 15)

	testutil.AssertNoError(t, svc.DeactivateCard(user.ID, card.ID))

	_, err := svc.GetCardByID(user.ID, card.ID)
	testutil.AssertAppError(t, err, "CARD_NOT_FOUND")
}
