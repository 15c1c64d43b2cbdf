package services

import (
	"strings"

	"clario/internal/marketdata"
	"clario/internal/models"
)

// FXSymbol is the gateway symbol of the dollar exchange-rate pair.
const FXSymbol = "USDBRL=X"

// CurrencyNormalizer converts foreign-denominated quotes into local
// currency. Crypto pairs and any listing without the local exchange
// suffix are treated as dollar-denominated.
type CurrencyNormalizer struct {
	fallbackRate float64
}

// NewCurrencyNormalizer creates a normalizer with the given fallback
// exchange rate, used when the FX pair itself cannot be quoted.
func NewCurrencyNormalizer(fallbackRate float64) *CurrencyNormalizer {
	return &CurrencyNormalizer{fallbackRate: fallbackRate}
}

// IsForeign reports whether a resolved symbol quotes in dollars.
func (n *CurrencyNormalizer) IsForeign(symbol string, class models.AssetClass) bool {
	switch class {
	case models.AssetClassCrypto:
		return true
	case models.AssetClassEquity:
		return !strings.HasSuffix(symbol, ".SA")
	default:
		return false
	}
}

// Rate extracts the exchange rate from a fetched quote set, falling back
// to the configured rate when the pair is unavailable.
func (n *CurrencyNormalizer) Rate(quotes map[string]marketdata.Quote) float64 {
	return quotes[FXSymbol].Or(n.fallbackRate)
}

// Normalize converts a quoted price into local currency.
func (n *CurrencyNormalizer) Normalize(price float64, symbol string, class models.AssetClass, rate float64) float64 {
	if n.IsForeign(symbol, class) {
		return price * rate
	}
	return price
}
