package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "clario/internal/errors"
	"clario/internal/models"
	"clario/internal/pagination"
)

// accountService handles bank-account business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount creates a new bank account for a user.
func (s *accountService) CreateAccount(userID uint, bankName string, initialBalance float64) (*models.BankAccount, error) {
	if bankName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bank name is required")
	}

	account := &models.BankAccount{
		UserID:   userID,
		BankName: bankName,
		Balance:  initialBalance,
		IsActive: true,
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return account, nil
}

// GetUserAccounts retrieves a paginated list of active accounts for a user.
func (s *accountService) GetUserAccounts(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.BankAccount], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.BankAccount{}).Where("user_id = ? AND is_active = ?", userID, true)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.BankAccount
	if err := base.Scopes(pagination.Paginate(page)).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountByID retrieves an active account by ID for a specific user.
func (s *accountService) GetAccountByID(userID, accountID uint) (*models.BankAccount, error) {
	var account models.BankAccount
	if err := s.db.Where("id = ? AND user_id = ? AND is_active = ?", accountID, userID, true).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// UpdateAccount updates an account's name and, optionally, its balance.
func (s *accountService) UpdateAccount(userID, accountID uint, bankName string, balance *float64) (*models.BankAccount, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if bankName != "" {
		updates["bank_name"] = bankName
	}
	if balance != nil {
		updates["balance"] = *balance
	}

	if len(updates) > 0 {
		if err := s.db.Model(account).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.First(account, account.ID).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return account, nil
}

// DeactivateAccount soft-disables an account. Its history stays in place
// but it stops counting toward balances and net worth.
func (s *accountService) DeactivateAccount(userID, accountID uint) error {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return err
	}

	if err := s.db.Model(account).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// TotalBalance sums the balances of all active accounts for a user.
func (s *accountService) TotalBalance(userID uint) (float64, error) {
	var total float64
	if err := s.db.Model(&models.BankAccount{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Select("COALESCE(SUM(balance), 0)").Scan(&total).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

// applyTransactionToBalance adjusts an account balance inside a
// transaction scope. Income adds, expense subtracts.
func applyTransactionToBalance(tx *gorm.DB, account *models.BankAccount, transactionType models.TransactionType, amount float64) error {
	switch transactionType {
	case models.TransactionTypeIncome:
		account.Balance += amount
	case models.TransactionTypeExpense:
		account.Balance -= amount
	}

	if err := tx.Model(account).Update("balance", account.Balance).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
