// Package marketdata provides the client for the external quote gateway
// (Yahoo Finance style endpoints). Price unavailability is an expected
// condition: callers receive a typed Quote and decide their own fallback.
package marketdata

// Quote is the result of a price lookup for one symbol. A zero Quote is
// unavailable; callers must check Available before using Price.
type Quote struct {
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
}

// Available wraps a usable price.
func Available(price float64) Quote {
	return Quote{Price: price, Available: true}
}

// Unavailable is the absent-price result.
func Unavailable() Quote {
	return Quote{}
}

// Or returns the quote's price when available, otherwise the fallback.
func (q Quote) Or(fallback float64) float64 {
	if q.Available {
		return q.Price
	}
	return fallback
}
