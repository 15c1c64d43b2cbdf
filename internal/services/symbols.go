package services

import (
	"strings"

	"clario/internal/models"
)

// defaultSymbolOverrides maps tickers that were renamed or restructured on
// the exchange to the symbol the quote gateway actually knows.
var defaultSymbolOverrides = map[string]string{
	"VVAR3":  "VIIA3.SA",
	"IGTA3":  "IGTI11.SA",
	"BIDI11": "INBR32.SA",
}

// SymbolResolver translates ledger asset names into quote-gateway symbols.
// Resolution is deterministic: the same asset and class always yield the
// same symbol.
type SymbolResolver struct {
	overrides map[string]string
}

// NewSymbolResolver creates a resolver with the default override table.
func NewSymbolResolver() *SymbolResolver {
	return &SymbolResolver{overrides: defaultSymbolOverrides}
}

// NewSymbolResolverWithOverrides creates a resolver with an explicit
// override table keyed by normalized asset name.
func NewSymbolResolverWithOverrides(overrides map[string]string) *SymbolResolver {
	return &SymbolResolver{overrides: overrides}
}

// Resolve maps an asset name to its gateway symbol.
//
// Overrides win outright. A name already carrying a suffix ("." or "-")
// passes through untouched. Crypto assets get the "-USD" pair suffix.
// Equity names matching the local exchange pattern (letters and digits
// with at least one digit, e.g. PETR4, HGLG11) get the ".SA" suffix.
// Anything else is assumed to already be a valid foreign symbol.
func (r *SymbolResolver) Resolve(asset string, class models.AssetClass) string {
	name := strings.ToUpper(strings.TrimSpace(asset))

	if override, ok := r.overrides[name]; ok {
		return override
	}
	if strings.ContainsAny(name, ".-") {
		return name
	}
	if class == models.AssetClassCrypto {
		return name + "-USD"
	}
	if isLocalEquityTicker(name) {
		return name + ".SA"
	}
	return name
}

// isLocalEquityTicker reports whether name looks like a B3 ticker: only
// letters and digits, with at least one digit (the type suffix).
func isLocalEquityTicker(name string) bool {
	if name == "" {
		return false
	}
	hasDigit := false
	for _, c := range name {
		switch {
		case c >= '0' && c <= '9':
			hasDigit = true
		case c >= 'A' && c <= 'Z':
		default:
			return false
		}
	}
	return hasDigit
}
