package services

import (
	"context"

	"clario/internal/logger"
	"clario/internal/marketdata"
)

// singleQuoteAttempts bounds the per-symbol retry loop after a bulk miss.
const singleQuoteAttempts = 2

// defaultPriceOverrides pins prices for assets the gateway no longer
// quotes, such as tickers delisted after a buyout.
var defaultPriceOverrides = map[string]float64{
	"LINX3.SA": 33.50,
}

// PriceFetcher resolves current prices for a set of gateway symbols. It
// never fails as a whole: gateway errors degrade individual symbols to
// unavailable quotes and the valuation pass carries on.
type PriceFetcher struct {
	client    MarketDataClient
	overrides map[string]float64
}

// NewPriceFetcher creates a fetcher with the default price overrides.
func NewPriceFetcher(client MarketDataClient) *PriceFetcher {
	return &PriceFetcher{client: client, overrides: defaultPriceOverrides}
}

// NewPriceFetcherWithOverrides creates a fetcher with an explicit
// symbol-to-price override table.
func NewPriceFetcherWithOverrides(client MarketDataClient, overrides map[string]float64) *PriceFetcher {
	return &PriceFetcher{client: client, overrides: overrides}
}

// FetchQuotes returns a quote for every requested symbol. Overridden
// symbols are served from the pin table. The rest go through one bulk
// request; symbols the batch misses get a bounded number of per-symbol
// retries before being marked unavailable.
func (f *PriceFetcher) FetchQuotes(ctx context.Context, symbols []string) map[string]marketdata.Quote {
	quotes := make(map[string]marketdata.Quote, len(symbols))

	remaining := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		if price, ok := f.overrides[sym]; ok {
			quotes[sym] = marketdata.Available(price)
			continue
		}
		remaining = append(remaining, sym)
	}

	if len(remaining) == 0 {
		return quotes
	}

	prices, err := f.client.BulkQuote(ctx, remaining)
	if err != nil {
		logger.Get().Warnw("bulk quote failed, falling back to per-symbol fetch", "error", err)
		prices = map[string]float64{}
	}

	for _, sym := range remaining {
		if price, ok := prices[sym]; ok {
			quotes[sym] = marketdata.Available(price)
			continue
		}
		quotes[sym] = f.fetchSingle(ctx, sym)
	}

	return quotes
}

// fetchSingle retries the per-symbol endpoint a bounded number of times.
func (f *PriceFetcher) fetchSingle(ctx context.Context, symbol string) marketdata.Quote {
	var lastErr error
	for attempt := 0; attempt < singleQuoteAttempts; attempt++ {
		price, err := f.client.SingleQuote(ctx, symbol)
		if err == nil {
			return marketdata.Available(price)
		}
		lastErr = err
	}
	logger.Get().Warnw("price unavailable after retries", "symbol", symbol, "error", lastErr)
	return marketdata.Unavailable()
}
