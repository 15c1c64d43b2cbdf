package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultQuoteURL  = "https://query1.finance.yahoo.com/v7/finance/quote"
	defaultChartURL  = "https://query1.finance.yahoo.com/v8/finance/chart"
	defaultSearchURL = "https://query1.finance.yahoo.com/v1/finance/search"

	yahooUA       = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"
	yahooBatchMax = 50
)

// yahooQuoteResponse is the top-level bulk quote API response.
type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []yahooQuoteResult `json:"result"`
		Error  *json.RawMessage   `json:"error"`
	} `json:"quoteResponse"`
}

// yahooQuoteResult is a single quote result.
type yahooQuoteResult struct {
	Symbol             string  `json:"symbol"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
}

// yahooChartResponse is the per-symbol chart API response.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// yahooSearchResponse is the autocomplete API response.
type yahooSearchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
	} `json:"quotes"`
}

// SearchResult is one autocomplete suggestion.
type SearchResult struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// YahooClient fetches quotes from Yahoo Finance. The base URLs are
// overridable for tests.
type YahooClient struct {
	httpClient *http.Client
	quoteURL   string
	chartURL   string
	searchURL  string
}

// NewYahooClient creates a new Yahoo Finance quote client.
func NewYahooClient(httpClient *http.Client) *YahooClient {
	return &YahooClient{
		httpClient: httpClient,
		quoteURL:   defaultQuoteURL,
		chartURL:   defaultChartURL,
		searchURL:  defaultSearchURL,
	}
}

// NewYahooClientWithURLs creates a client against explicit endpoints.
func NewYahooClientWithURLs(httpClient *http.Client, quoteURL, chartURL, searchURL string) *YahooClient {
	return &YahooClient{
		httpClient: httpClient,
		quoteURL:   quoteURL,
		chartURL:   chartURL,
		searchURL:  searchURL,
	}
}

// BulkQuote fetches latest prices for all symbols in one pass, batching
// requests when the symbol list exceeds the gateway's batch limit. Symbols
// the gateway does not know, or that come back with a zero or non-finite
// price, are simply absent from the result map.
func (c *YahooClient) BulkQuote(ctx context.Context, symbols []string) (map[string]float64, error) {
	prices := make(map[string]float64, len(symbols))

	for i := 0; i < len(symbols); i += yahooBatchMax {
		end := min(i+yahooBatchMax, len(symbols))
		if err := c.fetchBatch(ctx, symbols[i:end], prices); err != nil {
			return nil, err
		}
	}

	return prices, nil
}

// fetchBatch fetches one batch of symbols into prices.
func (c *YahooClient) fetchBatch(ctx context.Context, symbols []string, prices map[string]float64) error {
	reqURL := c.quoteURL + "?symbols=" + url.QueryEscape(strings.Join(symbols, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("building bulk quote request: %w", err)
	}
	req.Header.Set("User-Agent", yahooUA)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bulk quote http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bulk quote: unexpected status %d", resp.StatusCode)
	}

	var quoteResp yahooQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quoteResp); err != nil {
		return fmt.Errorf("decoding bulk quote response: %w", err)
	}

	for _, r := range quoteResp.QuoteResponse.Result {
		if r.RegularMarketPrice <= 0 || math.IsNaN(r.RegularMarketPrice) || math.IsInf(r.RegularMarketPrice, 0) {
			continue
		}
		prices[r.Symbol] = r.RegularMarketPrice
	}

	return nil
}

// SingleQuote fetches the latest price for one symbol via the chart
// endpoint. Used as the per-symbol retry path for symbols the bulk batch
// did not return.
func (c *YahooClient) SingleQuote(ctx context.Context, symbol string) (float64, error) {
	reqURL := c.chartURL + "/" + url.PathEscape(symbol) + "?interval=1d&range=1d"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("building chart request: %w", err)
	}
	req.Header.Set("User-Agent", yahooUA)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("chart http request for %s: %w", symbol, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("chart request for %s: unexpected status %d", symbol, resp.StatusCode)
	}

	var chartResp yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chartResp); err != nil {
		return 0, fmt.Errorf("decoding chart response for %s: %w", symbol, err)
	}

	if chartResp.Chart.Error != nil {
		return 0, fmt.Errorf("chart error for %s: %s: %s", symbol, chartResp.Chart.Error.Code, chartResp.Chart.Error.Description)
	}
	if len(chartResp.Chart.Result) == 0 {
		return 0, fmt.Errorf("no chart results for %s", symbol)
	}

	price := chartResp.Chart.Result[0].Meta.RegularMarketPrice
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("invalid price for %s: %f", symbol, price)
	}

	return price, nil
}

// Search queries the gateway's autocomplete for asset suggestions.
func (c *YahooClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return nil, nil
	}

	reqURL := fmt.Sprintf("%s?q=%s&quotesCount=5&newsCount=0", c.searchURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("User-Agent", yahooUA)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request: unexpected status %d", resp.StatusCode)
	}

	var searchResp yahooSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	results := make([]SearchResult, 0, len(searchResp.Quotes))
	for _, q := range searchResp.Quotes {
		name := q.ShortName
		if name == "" {
			name = q.LongName
		}
		results = append(results, SearchResult{Symbol: q.Symbol, Name: name})
	}

	return results, nil
}
