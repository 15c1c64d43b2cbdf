// Package indicators provides the client for the central bank's SGS data
// API: current reference rates (Selic, CDI, IPCA) and the daily CDI
// accrual-factor series used to compound post-fixed instruments.
//
// Rate lookups never fail: when the provider is unreachable the client
// serves hard-coded reference defaults so that a valuation pass always
// completes.
package indicators

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"clario/internal/logger"
)

const (
	defaultBaseURL = "https://api.bcb.gov.br/dados/serie"

	// SGS series codes.
	seriesCDIDaily = 12    // CDI daily factor, % per day
	seriesSelic    = 432   // Selic target, % per year
	seriesIPCA     = 13522 // IPCA accumulated 12 months, % per year

	// Reference defaults when the provider is unavailable.
	defaultSelic = 0.1125
	defaultIPCA  = 0.0450
	// CDI trades a fixed 10bp under the Selic target.
	cdiSelicSpread = 0.0010

	// The daily factor series is fetched for a rolling five-year window
	// and cached for a day; the series only gains one point per business
	// day.
	factorWindowYears = 5
	factorCacheTTL    = 24 * time.Hour

	indicatorUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"
)

// Rates holds the current reference rates as annualized fractions.
type Rates struct {
	Selic float64 `json:"selic"`
	CDI   float64 `json:"cdi"`
	IPCA  float64 `json:"ipca"`
}

// DefaultRates returns the fallback reference rates.
func DefaultRates() Rates {
	return Rates{
		Selic: defaultSelic,
		CDI:   defaultSelic - cdiSelicSpread,
		IPCA:  defaultIPCA,
	}
}

// DailyFactor is one point of the CDI accrual series: the daily rate as a
// fraction (e.g. 0.000425 for 0.0425% a day).
type DailyFactor struct {
	Date   time.Time
	Factor float64
}

// sgsEntry is one row of an SGS JSON series. Values use a comma decimal
// separator and dates are dd/mm/yyyy.
type sgsEntry struct {
	Date  string `json:"data"`
	Value string `json:"valor"`
}

// BCBClient fetches SGS series over HTTP with an in-memory TTL cache.
// Safe for concurrent use; recomputation on expiry is idempotent.
type BCBClient struct {
	httpClient *http.Client
	baseURL    string
	ttl        time.Duration

	mu        sync.Mutex
	rates     Rates
	ratesAt   time.Time
	hasRates  bool
	factors   []DailyFactor
	factorsAt time.Time
}

// NewBCBClient creates a new SGS client. ttl bounds how long current
// rates are served from cache.
func NewBCBClient(httpClient *http.Client, ttl time.Duration) *BCBClient {
	return &BCBClient{httpClient: httpClient, baseURL: defaultBaseURL, ttl: ttl}
}

// NewBCBClientWithURL creates a client against an explicit endpoint.
func NewBCBClientWithURL(httpClient *http.Client, baseURL string, ttl time.Duration) *BCBClient {
	return &BCBClient{httpClient: httpClient, baseURL: baseURL, ttl: ttl}
}

// CurrentRates returns the current reference rates. Provider failures are
// logged and absorbed: any series that cannot be fetched keeps its
// default value.
func (c *BCBClient) CurrentRates(ctx context.Context) Rates {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hasRates && time.Since(c.ratesAt) < c.ttl {
		return c.rates
	}

	rates := DefaultRates()

	if selic, err := c.fetchLatest(ctx, seriesSelic); err != nil {
		logger.Get().Warnw("selic fetch failed, using default", "error", err)
	} else {
		rates.Selic = selic
		rates.CDI = selic - cdiSelicSpread
	}

	if ipca, err := c.fetchLatest(ctx, seriesIPCA); err != nil {
		logger.Get().Warnw("ipca fetch failed, using default", "error", err)
	} else {
		rates.IPCA = ipca
	}

	c.rates = rates
	c.ratesAt = time.Now()
	c.hasRates = true
	return rates
}

// DailyFactors returns the CDI daily accrual series from `since` to today.
// The full five-year window is cached; callers get the filtered slice.
// Returns an error when the series is unavailable and no cache exists, in
// which case the caller falls back to an annualized estimate.
func (c *BCBClient) DailyFactors(ctx context.Context, since time.Time) ([]DailyFactor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.factors == nil || time.Since(c.factorsAt) >= factorCacheTTL {
		factors, err := c.fetchFactorSeries(ctx)
		if err != nil {
			if c.factors == nil {
				return nil, err
			}
			// Stale cache beats an estimate.
			logger.Get().Warnw("cdi series refresh failed, serving stale cache", "error", err)
		} else {
			c.factors = factors
			c.factorsAt = time.Now()
		}
	}

	since = since.Truncate(24 * time.Hour)
	filtered := make([]DailyFactor, 0, len(c.factors))
	for _, f := range c.factors {
		if !f.Date.Before(since) {
			filtered = append(filtered, f)
		}
	}
	return filtered, nil
}

// fetchLatest fetches the most recent value of a series as a fraction.
func (c *BCBClient) fetchLatest(ctx context.Context, series int) (float64, error) {
	url := fmt.Sprintf("%s/bcdata.sgs.%d/dados/ultimos/1?formato=json", c.baseURL, series)

	entries, err := c.fetchSeries(ctx, url)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("series %d: empty response", series)
	}

	value, err := parseSGSValue(entries[0].Value)
	if err != nil {
		return 0, fmt.Errorf("series %d: %w", series, err)
	}
	return value, nil
}

// fetchFactorSeries fetches the rolling daily CDI window.
func (c *BCBClient) fetchFactorSeries(ctx context.Context) ([]DailyFactor, error) {
	end := time.Now()
	start := end.AddDate(-factorWindowYears, 0, 0)
	url := fmt.Sprintf("%s/bcdata.sgs.%d/dados?formato=json&dataInicial=%s&dataFinal=%s",
		c.baseURL, seriesCDIDaily, start.Format("02/01/2006"), end.Format("02/01/2006"))

	entries, err := c.fetchSeries(ctx, url)
	if err != nil {
		return nil, err
	}

	factors := make([]DailyFactor, 0, len(entries))
	for _, e := range entries {
		date, err := time.Parse("02/01/2006", e.Date)
		if err != nil {
			continue
		}
		factor, err := parseSGSValue(e.Value)
		if err != nil {
			continue
		}
		factors = append(factors, DailyFactor{Date: date, Factor: factor})
	}
	return factors, nil
}

// fetchSeries performs one SGS request and decodes the entry list.
func (c *BCBClient) fetchSeries(ctx context.Context, url string) ([]sgsEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building sgs request: %w", err)
	}
	req.Header.Set("User-Agent", indicatorUA)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sgs http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sgs request: unexpected status %d", resp.StatusCode)
	}

	var entries []sgsEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding sgs response: %w", err)
	}
	return entries, nil
}

// parseSGSValue converts an SGS percent string ("0,0425") to a fraction.
func parseSGSValue(raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing sgs value %q: %w", raw, err)
	}
	return value / 100, nil
}
