package services

import (
	"context"
	"math"
	"time"

	"gorm.io/gorm"

	"clario/internal/config"
	apperrors "clario/internal/errors"
	"clario/internal/models"
)

// Score labels, from best to worst.
const (
	LabelExcellent = "excellent"
	LabelVeryGood  = "very good"
	LabelGood      = "good"
	LabelFair      = "fair"
	LabelAttention = "attention"
	LabelCritical  = "critical"
)

// trailingWindowMonths is the lookback of the flow analysis.
const trailingWindowMonths = 12

// healthService computes the financial-health score from flows, balances
// and the marked-to-market portfolio.
type healthService struct {
	db        *gorm.DB
	accounts  AccountServicer
	cards     CreditCardServicer
	valuation ValuationServicer
	score     config.ScoreConfig
}

// NewHealthService creates a new HealthServicer.
func NewHealthService(db *gorm.DB, accounts AccountServicer, cards CreditCardServicer, valuation ValuationServicer, score config.ScoreConfig) HealthServicer {
	return &healthService{db: db, accounts: accounts, cards: cards, valuation: valuation, score: score}
}

// GetScore computes the 0 to 100 financial-health score.
//
// Income and expense are summed over the trailing twelve months. Outflows
// in investment-flagged categories are contributions, not consumption, so
// they are subtracted from expense (floored at zero). Net worth is cash
// plus portfolio value minus open card bills; when it is negative the
// score pins at the debt floor regardless of flows.
func (s *healthService) GetScore(ctx context.Context, userID uint) (*ScoreResult, error) {
	now := time.Now()
	from := now.AddDate(0, -trailingWindowMonths, 0)

	income, expense, err := s.trailingFlows(userID, from, now)
	if err != nil {
		return nil, err
	}

	netWorth, err := s.netWorth(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &ScoreResult{
		TrailingIncome:  income,
		TrailingExpense: expense,
		NetWorth:        netWorth,
	}

	if income > 0 {
		result.SavingsRate = (income - expense) / income
	}
	if netWorth > 0 {
		// A floor of one on the monthly expense keeps coverage finite
		// for users with reserves but no recorded spending.
		monthlyExpense := math.Max(1, expense/trailingWindowMonths)
		result.MonthsOfCoverage = netWorth / monthlyExpense
	}

	result.Score = s.computeScore(result)
	result.Label = scoreLabel(result.Score)
	return result, nil
}

// computeScore applies the banded scoring rules.
func (s *healthService) computeScore(r *ScoreResult) int {
	if r.NetWorth < 0 {
		return int(s.score.DebtScore)
	}

	score := s.score.BaseScore

	switch {
	case r.TrailingIncome <= 0:
		// No income in the window: neither bonus nor penalty.
	case r.SavingsRate >= s.score.SavingsRateHigh:
		score += s.score.SavingsBonusHigh
	case r.SavingsRate >= s.score.SavingsRateMid:
		score += s.score.SavingsBonusMid
	case r.SavingsRate > 0:
		score += s.score.SavingsBonusLow
	default:
		score -= s.score.SavingsPenalty
	}

	switch {
	case r.MonthsOfCoverage > 12:
		score += s.score.CoverageBonus12
	case r.MonthsOfCoverage > 6:
		score += s.score.CoverageBonus6
	case r.MonthsOfCoverage > 3:
		score += s.score.CoverageBonus3
	case r.MonthsOfCoverage > 0:
		score += s.score.CoverageBonus0
	}

	return int(math.Round(math.Min(100, math.Max(0, score))))
}

// scoreLabel maps a score to its human label.
func scoreLabel(score int) string {
	switch {
	case score >= 90:
		return LabelExcellent
	case score >= 75:
		return LabelVeryGood
	case score >= 60:
		return LabelGood
	case score >= 45:
		return LabelFair
	case score >= 30:
		return LabelAttention
	default:
		return LabelCritical
	}
}

// trailingFlows sums income and real expense over the window. Card
// purchases count as expense; investment-flagged outflows do not.
func (s *healthService) trailingFlows(userID uint, from, to time.Time) (income, expense float64, err error) {
	type flowRow struct {
		Type  models.TransactionType
		Total float64
	}
	var rows []flowRow
	if err := s.db.Model(&models.Transaction{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Group("type").Scan(&rows).Error; err != nil {
		return 0, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, row := range rows {
		switch row.Type {
		case models.TransactionTypeIncome:
			income = row.Total
		case models.TransactionTypeExpense:
			expense = row.Total
		}
	}

	var cardExpense float64
	if err := s.db.Model(&models.CardTransaction{}).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Select("COALESCE(SUM(amount), 0)").Scan(&cardExpense).Error; err != nil {
		return 0, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	expense += cardExpense

	contributions, err2 := s.investmentOutflows(userID, from, to)
	if err2 != nil {
		return 0, 0, err2
	}
	expense = math.Max(0, expense-contributions)

	return income, expense, nil
}

// investmentOutflows sums outflows tagged with investment categories,
// across both bank and card transactions.
func (s *healthService) investmentOutflows(userID uint, from, to time.Time) (float64, error) {
	var bank float64
	if err := s.db.Model(&models.Transaction{}).
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.date >= ? AND transactions.date <= ?", userID, from, to).
		Where("transactions.type = ? AND categories.is_investment = ?", models.TransactionTypeExpense, true).
		Select("COALESCE(SUM(transactions.amount), 0)").Scan(&bank).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var card float64
	if err := s.db.Model(&models.CardTransaction{}).
		Joins("JOIN categories ON categories.id = card_transactions.category_id").
		Where("card_transactions.user_id = ? AND card_transactions.date >= ? AND card_transactions.date <= ?", userID, from, to).
		Where("categories.is_investment = ?", true).
		Select("COALESCE(SUM(card_transactions.amount), 0)").Scan(&card).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return bank + card, nil
}

// netWorth returns cash plus portfolio minus open card bills.
func (s *healthService) netWorth(ctx context.Context, userID uint) (float64, error) {
	cash, err := s.accounts.TotalBalance(userID)
	if err != nil {
		return 0, err
	}

	summary, err := s.valuation.GetPortfolioSummary(ctx, userID)
	if err != nil {
		return 0, err
	}

	bills, err := s.cards.TotalOpenBills(userID)
	if err != nil {
		return 0, err
	}

	return cash + summary.TotalValue - bills, nil
}

// GetDashboardSummary aggregates the front-page numbers: balances, open
// bills, portfolio value, net worth and the current calendar month flows.
func (s *healthService) GetDashboardSummary(ctx context.Context, userID uint) (*DashboardSummary, error) {
	cash, err := s.accounts.TotalBalance(userID)
	if err != nil {
		return nil, err
	}

	summary, err := s.valuation.GetPortfolioSummary(ctx, userID)
	if err != nil {
		return nil, err
	}

	bills, err := s.cards.TotalOpenBills(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	monthIncome, monthExpense, err := s.trailingFlows(userID, monthStart, now)
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		TotalBalance:   cash,
		OpenCardBills:  bills,
		PortfolioValue: summary.TotalValue,
		NetWorth:       cash + summary.TotalValue - bills,
		MonthIncome:    monthIncome,
		MonthExpense:   monthExpense,
	}, nil
}
