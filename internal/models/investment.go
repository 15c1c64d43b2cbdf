package models

import "time"

// AssetClass determines how a ledger record is priced: market assets are
// quoted through the market data gateway, fixed income is projected
// analytically from reference rates.
type AssetClass string

const (
	AssetClassEquity      AssetClass = "equity" // B3 or foreign stocks, funds and ETFs
	AssetClassCrypto      AssetClass = "crypto"
	AssetClassFixedIncome AssetClass = "fixed_income"
)

// RateIndexer is the reference rate a fixed-income instrument tracks.
type RateIndexer string

const (
	IndexerCDI   RateIndexer = "cdi"   // interbank deposit rate, daily factors
	IndexerSelic RateIndexer = "selic" // central bank policy rate
	IndexerIPCA  RateIndexer = "ipca"  // consumer inflation index, plus fixed spread
	IndexerFixed RateIndexer = "fixed" // prefixado, nominal rate only
)

// InvestmentRecord is one row of the append-only investment ledger: a buy,
// sell or fixed-income contribution. Records are never updated in place; a
// disposal is a new record with negative quantity and amount.
//
// Rate and Indexer are only meaningful for fixed-income records. A
// fixed-income record always has Quantity 1: the unit stands for the whole
// contribution, not a share count.
type InvestmentRecord struct {
	Base
	UserID   uint         `gorm:"not null;index" json:"user_id"`
	Date     time.Time    `gorm:"not null" json:"date"`
	Asset    string       `gorm:"not null" json:"asset"`
	Class    AssetClass   `gorm:"not null" json:"class"`
	Quantity float64      `gorm:"not null" json:"quantity"`
	Amount   float64      `gorm:"not null" json:"amount"`
	Rate     *float64     `json:"rate,omitempty"`
	Indexer  *RateIndexer `json:"indexer,omitempty"`
}
