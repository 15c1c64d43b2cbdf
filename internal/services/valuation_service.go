package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "clario/internal/errors"
	"clario/internal/marketdata"
	"clario/internal/models"
)

// positionEpsilon is the quantity below which a netted position counts as
// closed. Guards against float residue from buy/sell round trips.
const positionEpsilon = 1e-9

// valuationService marks the investment ledger to market.
type valuationService struct {
	db          *gorm.DB
	resolver    *SymbolResolver
	fetcher     *PriceFetcher
	currency    *CurrencyNormalizer
	fixedIncome *FixedIncomeValuer
}

// NewValuationService creates a new ValuationServicer.
func NewValuationService(db *gorm.DB, market MarketDataClient, indicators IndicatorClient, fxFallbackRate float64) ValuationServicer {
	return &valuationService{
		db:          db,
		resolver:    NewSymbolResolver(),
		fetcher:     NewPriceFetcher(market),
		currency:    NewCurrencyNormalizer(fxFallbackRate),
		fixedIncome: NewFixedIncomeValuer(indicators),
	}
}

// positionGroup accumulates ledger rows for one asset and class.
type positionGroup struct {
	asset   string
	class   models.AssetClass
	symbol  string
	records []*models.InvestmentRecord
}

// GetPositions consolidates the ledger into open positions and marks them
// to market. Positions whose net quantity is zero or negative are closed
// and dropped. The result is sorted by current value, largest first.
func (s *valuationService) GetPositions(ctx context.Context, userID uint) ([]Position, error) {
	var records []models.InvestmentRecord
	if err := s.db.Where("user_id = ?", userID).Order("date ASC, id ASC").Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	groups := groupRecords(records)

	// Resolve symbols for market-priced groups and fetch everything in
	// one pass, including the FX pair when any symbol quotes in dollars.
	fetchList := make([]string, 0, len(groups)+1)
	seen := make(map[string]struct{}, len(groups))
	needFX := false
	for _, g := range groups {
		if g.class == models.AssetClassFixedIncome {
			continue
		}
		g.symbol = s.resolver.Resolve(g.asset, g.class)
		if s.currency.IsForeign(g.symbol, g.class) {
			needFX = true
		}
		if _, ok := seen[g.symbol]; !ok {
			seen[g.symbol] = struct{}{}
			fetchList = append(fetchList, g.symbol)
		}
	}
	if needFX {
		fetchList = append(fetchList, FXSymbol)
	}

	quotes := s.fetcher.FetchQuotes(ctx, fetchList)
	fxRate := s.currency.Rate(quotes)
	now := time.Now()

	positions := make([]Position, 0, len(groups))
	for _, g := range groups {
		var pos Position
		if g.class == models.AssetClassFixedIncome {
			pos = s.fixedIncomePosition(ctx, g, now)
		} else {
			pos = s.marketPosition(g, quotes, fxRate)
		}
		if pos.Quantity <= positionEpsilon {
			continue
		}
		positions = append(positions, pos)
	}

	sort.Slice(positions, func(i, j int) bool {
		return positions[i].CurrentValue > positions[j].CurrentValue
	})
	return positions, nil
}

// marketPosition nets the group's quantity and marks it at the fetched
// quote. Without a usable quote the position is held at cost, so its
// return reads as zero rather than a fake total loss.
func (s *valuationService) marketPosition(g *positionGroup, quotes map[string]marketdata.Quote, fxRate float64) Position {
	var quantity, costBasis float64
	for _, r := range g.records {
		quantity += r.Quantity
		costBasis += r.Amount
	}

	pos := Position{
		Asset:     g.asset,
		Class:     g.class,
		Quantity:  quantity,
		CostBasis: costBasis,
	}
	if quantity <= positionEpsilon {
		return pos
	}

	quote := quotes[g.symbol]
	if quote.Available {
		price := s.currency.Normalize(quote.Price, g.symbol, g.class, fxRate)
		pos.CurrentValue = quantity * price
	} else {
		pos.CurrentValue = costBasis
	}

	pos.ProfitLoss = pos.CurrentValue - costBasis
	if costBasis > 0 {
		pos.ReturnPct = pos.ProfitLoss / costBasis * 100
	}
	return pos
}

// fixedIncomePosition projects every contribution in the group and sums
// them. Disposal rows carry negative amounts and project negatively, so a
// fully redeemed note nets out.
func (s *valuationService) fixedIncomePosition(ctx context.Context, g *positionGroup, now time.Time) Position {
	var costBasis, currentValue float64
	for _, r := range g.records {
		costBasis += r.Amount
		currentValue += s.fixedIncome.PresentValue(ctx, r, now)
	}

	pos := Position{
		Asset:        g.asset,
		Class:        g.class,
		Quantity:     1,
		CostBasis:    costBasis,
		CurrentValue: currentValue,
	}
	if math.Abs(costBasis) < positionEpsilon && math.Abs(currentValue) < positionEpsilon {
		pos.Quantity = 0
		return pos
	}

	pos.ProfitLoss = currentValue - costBasis
	if costBasis > 0 {
		pos.ReturnPct = pos.ProfitLoss / costBasis * 100
	}
	return pos
}

// GetPortfolioSummary aggregates open positions by class.
func (s *valuationService) GetPortfolioSummary(ctx context.Context, userID uint) (*PortfolioSummary, error) {
	positions, err := s.GetPositions(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &PortfolioSummary{
		ByClass: make(map[models.AssetClass]ClassSummary),
	}
	for _, pos := range positions {
		summary.TotalValue += pos.CurrentValue
		summary.TotalCostBasis += pos.CostBasis

		cs := summary.ByClass[pos.Class]
		cs.Value += pos.CurrentValue
		cs.Count++
		summary.ByClass[pos.Class] = cs
	}

	summary.TotalGainLoss = summary.TotalValue - summary.TotalCostBasis
	if summary.TotalCostBasis > 0 {
		summary.GainLossPct = summary.TotalGainLoss / summary.TotalCostBasis * 100
	}
	if len(positions) > 0 {
		summary.TopAsset = positions[0].Asset
	}
	return summary, nil
}

// groupKey identifies a position bucket. The same descriptor can be held
// under different classes, say a token and an equity sharing a ticker, and
// those are distinct positions.
type groupKey struct {
	name  string
	class models.AssetClass
}

// groupRecords buckets ledger rows by normalized asset name and class,
// preserving first-seen order.
func groupRecords(records []models.InvestmentRecord) []*positionGroup {
	index := make(map[groupKey]*positionGroup)
	order := make([]*positionGroup, 0)

	for i := range records {
		r := &records[i]
		key := groupKey{name: strings.ToUpper(strings.TrimSpace(r.Asset)), class: r.Class}
		g, ok := index[key]
		if !ok {
			g = &positionGroup{asset: strings.TrimSpace(r.Asset), class: r.Class}
			index[key] = g
			order = append(order, g)
		}
		g.records = append(g.records, r)
	}
	return order
}
