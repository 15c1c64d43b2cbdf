package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "clario/internal/errors"
	"clario/internal/models"
	"clario/internal/pagination"
)

// transactionService handles bank-transaction business logic.
type transactionService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer) TransactionServicer {
	return &transactionService{db: db, accountService: accountService}
}

// CreateTransaction records a movement and keeps the account balance in
// sync within one database transaction.
func (s *transactionService) CreateTransaction(userID, accountID uint, categoryID *uint, transactionType models.TransactionType, amount float64, description string, date time.Time) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
	}
	if transactionType != models.TransactionTypeIncome && transactionType != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}

	account, err := s.accountService.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	// Category, when given, must belong to the user and match direction.
	if categoryID != nil {
		var category models.Category
		if err := s.db.Where("id = ? AND user_id = ?", *categoryID, userID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if string(category.Type) != string(transactionType) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type does not match transaction type")
		}
	}

	transaction := &models.Transaction{
		UserID:      userID,
		AccountID:   accountID,
		CategoryID:  categoryID,
		Type:        transactionType,
		Amount:      amount,
		Description: description,
		Date:        date,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Create(transaction).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return applyTransactionToBalance(tx, account, transactionType, amount)
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// GetUserTransactions retrieves a filtered, paginated transaction list.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilter(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Category").Order("date DESC, id DESC").
		Scopes(pagination.Paginate(page)).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionByID retrieves a transaction by ID for a specific user.
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Category").Where("id = ? AND user_id = ?", transactionID, userID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// DeleteTransaction removes a transaction and reverses its balance effect.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	account, err := s.accountService.GetAccountByID(userID, transaction.AccountID)
	if err != nil {
		return err
	}

	reverse := models.TransactionTypeExpense
	if transaction.Type == models.TransactionTypeExpense {
		reverse = models.TransactionTypeIncome
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Delete(transaction).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return applyTransactionToBalance(tx, account, reverse, transaction.Amount)
	})
}

// applyTransactionFilter adds the optional filter clauses to a query.
func applyTransactionFilter(db *gorm.DB, filter TransactionFilter) *gorm.DB {
	if filter.FromDate != nil {
		db = db.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		db = db.Where("date <= ?", *filter.ToDate)
	}
	if filter.Type != nil {
		db = db.Where("type = ?", *filter.Type)
	}
	if filter.CategoryID != nil {
		db = db.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.AccountID != nil {
		db = db.Where("account_id = ?", *filter.AccountID)
	}
	return db
}
