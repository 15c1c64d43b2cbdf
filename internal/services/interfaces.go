package services

import (
	"context"
	"time"

	"clario/internal/indicators"
	"clario/internal/marketdata"
	"clario/internal/models"
	"clario/internal/pagination"
)

// MarketDataClient is the quote gateway contract consumed by the pricing
// services. Satisfied by marketdata.YahooClient.
type MarketDataClient interface {
	BulkQuote(ctx context.Context, symbols []string) (map[string]float64, error)
	SingleQuote(ctx context.Context, symbol string) (float64, error)
	Search(ctx context.Context, query string) ([]marketdata.SearchResult, error)
}

// IndicatorClient is the reference-rate gateway contract consumed by the
// fixed-income valuer. Satisfied by indicators.BCBClient.
type IndicatorClient interface {
	CurrentRates(ctx context.Context) indicators.Rates
	DailyFactors(ctx context.Context, since time.Time) ([]indicators.DailyFactor, error)
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// AccountServicer defines the contract for bank-account business logic.
type AccountServicer interface {
	CreateAccount(userID uint, bankName string, initialBalance float64) (*models.BankAccount, error)
	GetUserAccounts(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.BankAccount], error)
	GetAccountByID(userID, accountID uint) (*models.BankAccount, error)
	UpdateAccount(userID, accountID uint, bankName string, balance *float64) (*models.BankAccount, error)
	DeactivateAccount(userID, accountID uint) error
	TotalBalance(userID uint) (float64, error)
}

// CategoryServicer defines the contract for category business logic.
type CategoryServicer interface {
	CreateCategory(userID uint, name string, categoryType models.CategoryType, description string, isInvestment bool) (*models.Category, error)
	GetUserCategories(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
	UpdateCategory(userID, categoryID uint, name, description string, isInvestment *bool) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *uint
	AccountID  *uint
}

// TransactionServicer defines the contract for bank-transaction business logic.
type TransactionServicer interface {
	CreateTransaction(userID, accountID uint, categoryID *uint, transactionType models.TransactionType, amount float64, description string, date time.Time) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// CardBill is the open statement of a credit card: purchases since the
// last closing date, plus how much of the limit they consume.
type CardBill struct {
	CardID     uint      `json:"card_id"`
	CycleStart time.Time `json:"cycle_start"`
	CycleEnd   time.Time `json:"cycle_end"`
	Total      float64   `json:"total"`
	LimitUsage float64   `json:"limit_usage_pct"`
}

// CreditCardServicer defines the contract for credit-card business logic.
type CreditCardServicer interface {
	CreateCard(userID uint, name string, limit float64, closingDay int) (*models.CreditCard, error)
	GetUserCards(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.CreditCard], error)
	GetCardByID(userID, cardID uint) (*models.CreditCard, error)
	DeactivateCard(userID, cardID uint) error
	AddCardTransaction(userID, cardID uint, categoryID *uint, amount float64, description string, date time.Time) (*models.CardTransaction, error)
	GetCardTransactions(userID, cardID uint, page pagination.PageRequest) (*pagination.PageResponse[models.CardTransaction], error)
	DeleteCardTransaction(userID, cardTransactionID uint) error
	GetCurrentBill(userID, cardID uint) (*CardBill, error)
	TotalOpenBills(userID uint) (float64, error)
}

// InvestmentServicer defines the contract for the investment ledger.
type InvestmentServicer interface {
	AddRecord(userID uint, date time.Time, asset string, class models.AssetClass, quantity, amount float64, rate *float64, indexer *models.RateIndexer) (*models.InvestmentRecord, error)
	GetUserRecords(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.InvestmentRecord], error)
	GetRecordByID(userID, recordID uint) (*models.InvestmentRecord, error)
	DeleteRecord(userID, recordID uint) error
}

// Position is one consolidated portfolio line: every ledger record for the
// same asset netted together and marked to market.
type Position struct {
	Asset        string            `json:"asset"`
	Class        models.AssetClass `json:"class"`
	Quantity     float64           `json:"quantity"`
	CostBasis    float64           `json:"cost_basis"`
	CurrentValue float64           `json:"current_value"`
	ProfitLoss   float64           `json:"profit_loss"`
	ReturnPct    float64           `json:"return_pct"`
}

// ClassSummary aggregates positions of one asset class.
type ClassSummary struct {
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// PortfolioSummary is the aggregate view over all open positions.
type PortfolioSummary struct {
	TotalValue     float64                            `json:"total_value"`
	TotalCostBasis float64                            `json:"total_cost_basis"`
	TotalGainLoss  float64                            `json:"total_gain_loss"`
	GainLossPct    float64                            `json:"gain_loss_pct"`
	TopAsset       string                             `json:"top_asset,omitempty"`
	ByClass        map[models.AssetClass]ClassSummary `json:"by_class"`
}

// ValuationServicer marks the investment ledger to market.
type ValuationServicer interface {
	GetPositions(ctx context.Context, userID uint) ([]Position, error)
	GetPortfolioSummary(ctx context.Context, userID uint) (*PortfolioSummary, error)
}

// ScoreResult is the financial-health assessment for a user: a 0 to 100
// score with the inputs that produced it.
type ScoreResult struct {
	Score            int     `json:"score"`
	Label            string  `json:"label"`
	SavingsRate      float64 `json:"savings_rate"`
	MonthsOfCoverage float64 `json:"months_of_coverage"`
	TrailingIncome   float64 `json:"trailing_income"`
	TrailingExpense  float64 `json:"trailing_expense"`
	NetWorth         float64 `json:"net_worth"`
}

// DashboardSummary is the front-page aggregate of a user's finances.
type DashboardSummary struct {
	TotalBalance   float64 `json:"total_balance"`
	OpenCardBills  float64 `json:"open_card_bills"`
	PortfolioValue float64 `json:"portfolio_value"`
	NetWorth       float64 `json:"net_worth"`
	MonthIncome    float64 `json:"month_income"`
	MonthExpense   float64 `json:"month_expense"`
}

// HealthServicer computes the financial-health score and the dashboard
// aggregates that depend on it.
type HealthServicer interface {
	GetScore(ctx context.Context, userID uint) (*ScoreResult, error)
	GetDashboardSummary(ctx context.Context, userID uint) (*DashboardSummary, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
