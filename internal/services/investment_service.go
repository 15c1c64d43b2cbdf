package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "clario/internal/errors"
	"clario/internal/models"
	"clario/internal/pagination"
)

// investmentService maintains the append-only investment ledger.
type investmentService struct {
	db *gorm.DB
}

// NewInvestmentService creates a new InvestmentServicer.
func NewInvestmentService(db *gorm.DB) InvestmentServicer {
	return &investmentService{db: db}
}

// AddRecord appends one row to the ledger. Disposals are recorded as new
// rows with negative quantity and amount, never as updates.
func (s *investmentService) AddRecord(userID uint, date time.Time, asset string, class models.AssetClass, quantity, amount float64, rate *float64, indexer *models.RateIndexer) (*models.InvestmentRecord, error) {
	asset = strings.TrimSpace(asset)
	if asset == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "asset name is required")
	}

	switch class {
	case models.AssetClassEquity, models.AssetClassCrypto:
		if quantity == 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity is required for market assets")
		}
		if rate != nil || indexer != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "rate terms only apply to fixed income")
		}
	case models.AssetClassFixedIncome:
		if amount == 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount is required for fixed income")
		}
		// The unit stands for the whole contribution.
		quantity = 1
		if amount < 0 {
			quantity = -1
		}
		if indexer != nil && !validIndexer(*indexer) {
			return nil, apperrors.ErrInvalidRateIndexer
		}
	default:
		return nil, apperrors.ErrInvalidAssetClass
	}

	record := &models.InvestmentRecord{
		UserID:   userID,
		Date:     date,
		Asset:    asset,
		Class:    class,
		Quantity: quantity,
		Amount:   amount,
		Rate:     rate,
		Indexer:  indexer,
	}

	if err := s.db.Create(record).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return record, nil
}

// GetUserRecords retrieves the paginated ledger, newest first.
func (s *investmentService) GetUserRecords(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.InvestmentRecord], error) {
	page.Defaults()

	base := s.db.Model(&models.InvestmentRecord{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var records []models.InvestmentRecord
	if err := base.Order("date DESC, id DESC").Scopes(pagination.Paginate(page)).
		Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(records, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetRecordByID retrieves a ledger row by ID for a specific user.
func (s *investmentService) GetRecordByID(userID, recordID uint) (*models.InvestmentRecord, error) {
	var record models.InvestmentRecord
	if err := s.db.Where("id = ? AND user_id = ?", recordID, userID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecordNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &record, nil
}

// DeleteRecord removes a mistakenly entered ledger row.
func (s *investmentService) DeleteRecord(userID, recordID uint) error {
	record, err := s.GetRecordByID(userID, recordID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(record).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// validIndexer reports whether the indexer is a known reference rate.
func validIndexer(indexer models.RateIndexer) bool {
	switch indexer {
	case models.IndexerCDI, models.IndexerSelic, models.IndexerIPCA, models.IndexerFixed:
		return true
	}
	return false
}
