package services

import (
	"testing"

	"clario/internal/marketdata"
	"clario/internal/models"
)

func TestCurrencyNormalizer(t *testing.T) {
	n := NewCurrencyNormalizer(5.20)

	t.Run("local_listing_is_not_foreign", func(t *testing.T) {
		if n.IsForeign("PETR4.SA", models.AssetClassEquity) {
			t.Error("expected .SA listing to be local")
		}
	})

	t.Run("foreign_listing_is_foreign", func(t *testing.T) {
		if !n.IsForeign("AAPL", models.AssetClassEquity) {
			t.Error("expected unsuffixed equity to be foreign")
		}
	})

	t.Run("crypto_is_always_foreign", func(t *testing.T) {
		if !n.IsForeign("BTC-USD", models.AssetClassCrypto) {
			t.Error("expected crypto to be foreign")
		}
	})

	t.Run("fixed_income_is_local", func(t *testing.T) {
		if n.IsForeign("CDB Banco X", models.AssetClassFixedIncome) {
			t.Error("expected fixed income to be local")
		}
	})

	t.Run("rate_from_quotes", func(t *testing.T) {
		quotes := map[string]marketdata.Quote{FXSymbol: marketdata.Available(5.43)}
		if got := n.Rate(quotes); got != 5.43 {
			t.Errorf("expected 5.43, got %f", got)
		}
	})

	t.Run("rate_falls_back_when_pair_missing", func(t *testing.T) {
		if got := n.Rate(map[string]marketdata.Quote{}); got != 5.20 {
			t.Errorf("expected fallback 5.20, got %f", got)
		}
	})

	t.Run("normalize_converts_foreign_only", func(t *testing.T) {
		if got := n.Normalize(100, "AAPL", models.AssetClassEquity, 5.0); got != 500 {
			t.Errorf("expected 500, got %f", got)
		}
		if got := n.Normalize(100, "PETR4.SA", models.AssetClassEquity, 5.0); got != 100 {
			t.Errorf("expected 100, got %f", got)
		}
	})
}
