package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"clario/internal/models"

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

// CreateTestAccount creates a bank account with the given balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID uint, balance float64) *models.BankAccount {
	t.Helper()

	account := &models.BankAccount{
		UserID:   userID,
		BankName: fmt.Sprintf("Test Bank %d", nextID()),
		Balance:  balance,
		IsActive: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint, categoryType models.CategoryType) *models.Category {
	t.Helper()
	return createCategory(t, db, userID, categoryType, false)
}

// CreateTestInvestmentCategory creates an expense category flagged as an
// investment contribution.
func CreateTestInvestmentCategory(t *testing.T, db *gorm.DB, userID uint) *models.Category {
	t.Helper()
	return createCategory(t, db, userID, models.CategoryTypeExpense, true)
}

func createCategory(t *testing.T, db *gorm.DB, userID uint, categoryType models.CategoryType, isInvestment bool) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Category %d", nextID()),
		Type:         categoryType,
		IsInvestment: isInvestment,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a bank transaction on the given date.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, accountID uint, categoryID *uint, txType models.TransactionType, amount float64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		AccountID:  accountID,
		CategoryID: categoryID,
		Type:       txType,
		Amount:     amount,
		Date:       date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestCard creates an active credit card.
func CreateTestCard(t *testing.T, db *gorm.DB, userID uint, limit float64, closingDay int) *models.CreditCard {
	t.Helper()

	card := &models.CreditCard{
		UserID:     userID,
		Name:       fmt.Sprintf("Test Card %d", nextID()),
		Limit:      limit,
		ClosingDay: closingDay,
		IsActive:   true,
	}
	if err := db.Create(card).Error; err != nil {
		t.Fatalf("failed to create test card: %v", err)
	}
	return card
}

// CreateTestCardTransaction creates a card purchase on the given date.
func CreateTestCardTransaction(t *testing.T, db *gorm.DB, userID, cardID uint, amount float64, date time.Time) *models.CardTransaction {
	t.Helper()

	tx := &models.CardTransaction{
		UserID: userID,
		CardID: cardID,
		Amount: amount,
		Date:   date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test card transaction: %v", err)
	}
	return tx
}

// CreateTestMarketRecord creates a ledger record for a market-priced asset.
func CreateTestMarketRecord(t *testing.T, db *gorm.DB, userID uint, asset string, class models.AssetClass, quantity, amount float64, date time.Time) *models.InvestmentRecord {
	t.Helper()

	record := &models.InvestmentRecord{
		UserID:   userID,
		Date:     date,
		Asset:    asset,
		Class:    class,
		Quantity: quantity,
		Amount:   amount,
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create test investment record: %v", err)
	}
	return record
}

// CreateTestFixedIncomeRecord creates a fixed-income contribution.
func CreateTestFixedIncomeRecord(t *testing.T, db *gorm.DB, userID uint, asset string, amount float64, rate float64, indexer models.RateIndexer, date time.Time) *models.InvestmentRecord {
	t.Helper()

	record := &models.InvestmentRecord{
		UserID:   userID,
		Date:     date,
		Asset:    asset,
		Class:    models.AssetClassFixedIncome,
		Quantity: 1,
		Amount:   amount,
		Rate:     &rate,
		Indexer:  &indexer,
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create test fixed income record: %v", err)
	}
	return record
}
