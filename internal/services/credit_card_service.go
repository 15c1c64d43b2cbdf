package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "clario/internal/errors"
	"clario/internal/models"
	"clario/internal/pagination"
)

// creditCardService handles credit-card business logic.
type creditCardService struct {
	db *gorm.DB
}

// NewCreditCardService creates a new CreditCardServicer.
func NewCreditCardService(db *gorm.DB) CreditCardServicer {
	return &creditCardService{db: db}
}

// CreateCard registers a new credit card.
func (s *creditCardService) CreateCard(userID uint, name string, limit float64, closingDay int) (*models.CreditCard, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "card name is required")
	}
	if limit < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit cannot be negative")
	}
	if closingDay < 1 || closingDay > 28 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "closing day must be between 1 and 28")
	}

	card := &models.CreditCard{
		UserID:     userID,
		Name:       name,
		Limit:      limit,
		ClosingDay: closingDay,
		IsActive:   true,
	}

	if err := s.db.Create(card).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return card, nil
}

// GetUserCards retrieves a paginated list of active cards for a user.
func (s *creditCardService) GetUserCards(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.CreditCard], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.CreditCard{}).Where("user_id = ? AND is_active = ?", userID, true)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var cards []models.CreditCard
	if err := base.Scopes(pagination.Paginate(page)).Find(&cards).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(cards, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCardByID retrieves an active card by ID for a specific user.
func (s *creditCardService) GetCardByID(userID, cardID uint) (*models.CreditCard, error) {
	var card models.CreditCard
	if err := s.db.Where("id = ? AND user_id = ? AND is_active = ?", cardID, userID, true).
		First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCardNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &card, nil
}

// DeactivateCard soft-disables a card. Past purchases keep counting in
// history but the card stops accepting new ones.
func (s *creditCardService) DeactivateCard(userID, cardID uint) error {
	card, err := s.GetCardByID(userID, cardID)
	if err != nil {
		return err
	}

	if err := s.db.Model(card).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// AddCardTransaction records a purchase on a card.
func (s *creditCardService) AddCardTransaction(userID, cardID uint, categoryID *uint, amount float64, description string, date time.Time) (*models.CardTransaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
	}

	if _, err := s.GetCardByID(userID, cardID); err != nil {
		return nil, err
	}

	if categoryID != nil {
		var category models.Category
		if err := s.db.Where("id = ? AND user_id = ?", *categoryID, userID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	transaction := &models.CardTransaction{
		UserID:      userID,
		CardID:      cardID,
		CategoryID:  categoryID,
		Amount:      amount,
		Description: description,
		Date:        date,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// GetCardTransactions retrieves a paginated purchase list for a card.
func (s *creditCardService) GetCardTransactions(userID, cardID uint, page pagination.PageRequest) (*pagination.PageResponse[models.CardTransaction], error) {
	if _, err := s.GetCardByID(userID, cardID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.CardTransaction{}).Where("card_id = ?", cardID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.CardTransaction
	if err := base.Preload("Category").Order("date DESC, id DESC").
		Scopes(pagination.Paginate(page)).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// DeleteCardTransaction removes a purchase.
func (s *creditCardService) DeleteCardTransaction(userID, cardTransactionID uint) error {
	var transaction models.CardTransaction
	if err := s.db.Where("id = ? AND user_id = ?", cardTransactionID, userID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCardTransactionNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetCurrentBill computes the open statement of a card: purchases after
// the last closing date up to the next one.
func (s *creditCardService) GetCurrentBill(userID, cardID uint) (*CardBill, error) {
	card, err := s.GetCardByID(userID, cardID)
	if err != nil {
		return nil, err
	}

	cycleStart, cycleEnd := billingCycle(card.ClosingDay, time.Now())

	var total float64
	if err := s.db.Model(&models.CardTransaction{}).
		Where("card_id = ? AND date > ? AND date <= ?", cardID, cycleStart, cycleEnd).
		Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	bill := &CardBill{
		CardID:     cardID,
		CycleStart: cycleStart,
		CycleEnd:   cycleEnd,
		Total:      total,
	}
	if card.Limit > 0 {
		bill.LimitUsage = total / card.Limit * 100
	}
	return bill, nil
}

// TotalOpenBills sums the open statements of all active cards for a user.
func (s *creditCardService) TotalOpenBills(userID uint) (float64, error) {
	var cards []models.CreditCard
	if err := s.db.Where("user_id = ? AND is_active = ?", userID, true).Find(&cards).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	var total float64
	for _, card := range cards {
		cycleStart, cycleEnd := billingCycle(card.ClosingDay, now)

		var bill float64
		if err := s.db.Model(&models.CardTransaction{}).
			Where("card_id = ? AND date > ? AND date <= ?", card.ID, cycleStart, cycleEnd).
			Select("COALESCE(SUM(amount), 0)").Scan(&bill).Error; err != nil {
			return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		total += bill
	}
	return total, nil
}

// billingCycle returns the last and next closing dates around asOf.
// Closing days are capped at 28, so every month has the closing date.
func billingCycle(closingDay int, asOf time.Time) (time.Time, time.Time) {
	year, month, day := asOf.Date()
	lastClosing := time.Date(year, month, closingDay, 23, 59, 59, 0, asOf.Location())
	if day <= closingDay {
		lastClosing = lastClosing.AddDate(0, -1, 0)
	}
	return lastClosing, lastClosing.AddDate(0, 1, 0)
}
