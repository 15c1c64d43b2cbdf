package services

import (
	"context"
	"math"
	"time"

	"clario/internal/logger"
	"clario/internal/models"
)

const (
	businessDaysPerYear = 252.0

	// Calendar-to-business-day ratios used when a contribution must be
	// compounded from an annual rate instead of the daily series.
	cdiBusinessDayRatio   = 0.69
	fixedBusinessDayRatio = 0.6849

	// Contract defaults for ledger rows missing rate terms.
	defaultIndexer        = models.IndexerCDI
	defaultRateMultiplier = 100.0
)

// FixedIncomeValuer projects the present value of fixed-income
// contributions from reference rates. Valuation never fails: any gateway
// or numeric problem degrades the contribution to its principal.
type FixedIncomeValuer struct {
	indicators IndicatorClient
}

// NewFixedIncomeValuer creates a valuer backed by the given rate gateway.
func NewFixedIncomeValuer(indicators IndicatorClient) *FixedIncomeValuer {
	return &FixedIncomeValuer{indicators: indicators}
}

// PresentValue projects one ledger contribution to asOf.
//
// Same-day and future-dated contributions are worth their principal. CDI
// and Selic trackers compound the published daily factor series scaled by
// the contract percentage (a "110% of CDI" note has rate 110). When the
// series is unavailable the annual reference rate is compounded over
// estimated business days instead. Prefixado notes compound their own
// nominal rate. Inflation-linked notes combine the inflation index with
// the contract spread over calendar days.
func (v *FixedIncomeValuer) PresentValue(ctx context.Context, record *models.InvestmentRecord, asOf time.Time) float64 {
	principal := record.Amount

	start := record.Date.Truncate(24 * time.Hour)
	end := asOf.Truncate(24 * time.Hour)
	if !end.After(start) {
		return principal
	}
	calendarDays := end.Sub(start).Hours() / 24

	indexer := defaultIndexer
	if record.Indexer != nil {
		indexer = *record.Indexer
	}
	multiplier := defaultRateMultiplier
	if record.Rate != nil {
		multiplier = *record.Rate
	}

	var value float64
	switch indexer {
	case models.IndexerCDI, models.IndexerSelic:
		value = v.postFixedValue(ctx, principal, indexer, multiplier, start, calendarDays)
	case models.IndexerFixed:
		value = compoundFixed(principal, multiplier, calendarDays)
	case models.IndexerIPCA:
		value = v.inflationLinkedValue(ctx, principal, multiplier, calendarDays)
	default:
		return principal
	}

	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return principal
	}
	return value
}

// postFixedValue compounds a CDI or Selic tracker. The daily factor
// series covers both indexers; they diverge by a fixed spread already
// reflected in the annual fallback rates.
func (v *FixedIncomeValuer) postFixedValue(ctx context.Context, principal float64, indexer models.RateIndexer, multiplier float64, start time.Time, calendarDays float64) float64 {
	factors, err := v.indicators.DailyFactors(ctx, start)
	if err == nil && len(factors) > 0 {
		value := principal
		scale := multiplier / 100
		for _, f := range factors {
			value *= 1 + f.Factor*scale
		}
		return value
	}
	if err != nil {
		logger.Get().Warnw("daily factor series unavailable, compounding annual rate", "error", err)
	}

	rates := v.indicators.CurrentRates(ctx)
	annual := rates.CDI
	if indexer == models.IndexerSelic {
		annual = rates.Selic
	}

	businessDays := calendarDays * cdiBusinessDayRatio
	return principal * math.Pow(1+annual*(multiplier/100), businessDays/businessDaysPerYear)
}

// compoundFixed compounds a prefixado note at its nominal annual rate.
func compoundFixed(principal, annualRatePct, calendarDays float64) float64 {
	businessDays := calendarDays * fixedBusinessDayRatio
	return principal * math.Pow(1+annualRatePct/100, businessDays/businessDaysPerYear)
}

// inflationLinkedValue compounds an IPCA+spread note over calendar days.
func (v *FixedIncomeValuer) inflationLinkedValue(ctx context.Context, principal, spreadPct, calendarDays float64) float64 {
	rates := v.indicators.CurrentRates(ctx)
	combined := (1+rates.IPCA)*(1+spreadPct/100) - 1
	return principal * math.Pow(1+combined, calendarDays/365)
}
