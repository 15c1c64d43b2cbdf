package services

import (
	"context"
	"errors"
	"time"

	"clario/internal/indicators"
	"clario/internal/marketdata"
)

// mockMarketClient is a fn-field mock of MarketDataClient. Unset fields
// behave as a gateway that knows nothing.
type mockMarketClient struct {
	bulkQuoteFn   func(ctx context.Context, symbols []string) (map[string]float64, error)
	singleQuoteFn func(ctx context.Context, symbol string) (float64, error)
	searchFn      func(ctx context.Context, query string) ([]marketdata.SearchResult, error)

	bulkCalls   int
	singleCalls map[string]int
}

func (m *mockMarketClient) BulkQuote(ctx context.Context, symbols []string) (map[string]float64, error) {
	m.bulkCalls++
	if m.bulkQuoteFn != nil {
		return m.bulkQuoteFn(ctx, symbols)
	}
	return map[string]float64{}, nil
}

func (m *mockMarketClient) SingleQuote(ctx context.Context, symbol string) (float64, error) {
	if m.singleCalls == nil {
		m.singleCalls = make(map[string]int)
	}
	m.singleCalls[symbol]++
	if m.singleQuoteFn != nil {
		return m.singleQuoteFn(ctx, symbol)
	}
	return 0, errors.New("no data")
}

func (m *mockMarketClient) Search(ctx context.Context, query string) ([]marketdata.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return nil, nil
}

// mockIndicatorClient is a fn-field mock of IndicatorClient. Unset fields
// serve the default rates and an empty factor series.
type mockIndicatorClient struct {
	currentRatesFn func(ctx context.Context) indicators.Rates
	dailyFactorsFn func(ctx context.Context, since time.Time) ([]indicators.DailyFactor, error)
}

func (m *mockIndicatorClient) CurrentRates(ctx context.Context) indicators.Rates {
	if m.currentRatesFn != nil {
		return m.currentRatesFn(ctx)
	}
	return indicators.DefaultRates()
}

func (m *mockIndicatorClient) DailyFactors(ctx context.Context, since time.Time) ([]indicators.DailyFactor, error) {
	if m.dailyFactorsFn != nil {
		return m.dailyFactorsFn(ctx, since)
	}
	return nil, nil
}
