package tiingo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Client is a Tiingo API client covering daily prices, metadata, news,
// fundamentals and crypto prices.
type Client struct {
	client *resty.Client
	apiKey string
	log    zerolog.Logger
}

// NewClient creates a new Tiingo client
func NewClient(apiKey string, log zerolog.Logger) *Client {
	client := resty.New()
	client.SetBaseURL("https://api.tiingo.com")
	client.SetTimeout(30 * time.Second)
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Authorization", "Token "+apiKey)

	return &Client{
		client: client,
		apiKey: apiKey,
		log:    log.With().Str("client", "tiingo").Logger(),
	}
}

// Available reports whether an API key is configured
func (c *Client) Available() bool {
	return c.apiKey != ""
}

// PriceBar is one OHLCV record
type PriceBar struct {
	Date     string  `json:"date"`
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	Volume   int64   `json:"volume"`
	AdjClose float64 `json:"adjClose"`
}

// defaultDateRange fills missing start/end dates with the last 30 days
func defaultDateRange(startDate, endDate string) (string, string) {
	if endDate == "" {
		endDate = time.Now().Format("2006-01-02")
	}
	if startDate == "" {
		startDate = time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	}
	return startDate, endDate
}

// GetDailyPrices fetches daily (or resampled) price history for a symbol
func (c *Client) GetDailyPrices(ctx context.Context, symbol, startDate, endDate, frequency string) ([]PriceBar, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	startDate, endDate = defaultDateRange(startDate, endDate)
	if frequency == "" {
		frequency = "daily"
	}

	// Daily-class frequencies use the EOD endpoint, everything else is IEX intraday
	path := fmt.Sprintf("/tiingo/daily/%s/prices", symbol)
	switch frequency {
	case "daily", "weekly", "monthly", "annually":
	default:
		path = fmt.Sprintf("/iex/%s/prices", symbol)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"startDate":    startDate,
			"endDate":      endDate,
			"resampleFreq": frequency,
			"format":       "json",
		}).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices for %s: %w", symbol, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("tiingo API error %d: %s", resp.StatusCode(), resp.String())
	}

	var bars []PriceBar
	if err := json.Unmarshal(resp.Body(), &bars); err != nil {
		return nil, fmt.Errorf("failed to parse price response: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no price data found for %s", symbol)
	}

	return bars, nil
}

// Metadata describes a listed security
type Metadata struct {
	Ticker       string `json:"ticker"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ExchangeCode string `json:"exchangeCode"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
}

// GetMetadata fetches company metadata for a symbol
func (c *Client) GetMetadata(ctx context.Context, symbol string) (*Metadata, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	resp, err := c.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/tiingo/daily/%s", symbol))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata for %s: %w", symbol, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("tiingo API error %d: %s", resp.StatusCode(), resp.String())
	}

	var meta Metadata
	if err := json.Unmarshal(resp.Body(), &meta); err != nil {
		return nil, fmt.Errorf("failed to parse metadata response: %w", err)
	}

	return &meta, nil
}

// NewsArticle is one curated news item
type NewsArticle struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Description   string   `json:"description"`
	PublishedDate string   `json:"publishedDate"`
	Source        string   `json:"source"`
	Tickers       []string `json:"tickers"`
}

// GetNews fetches curated financial news for a set of symbols
func (c *Client) GetNews(ctx context.Context, symbols []string, limit int, startDate, endDate string) ([]NewsArticle, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	upper := make([]string, 0, len(symbols))
	for _, s := range symbols {
		upper = append(upper, strings.ToUpper(strings.TrimSpace(s)))
	}

	params := map[string]string{
		"tickers": strings.Join(upper, ","),
		"limit":   fmt.Sprintf("%d", limit),
	}
	if startDate != "" {
		params["startDate"] = startDate
	}
	if endDate != "" {
		params["endDate"] = endDate
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/tiingo/news")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("tiingo API error %d: %s", resp.StatusCode(), resp.String())
	}

	var articles []NewsArticle
	if err := json.Unmarshal(resp.Body(), &articles); err != nil {
		return nil, fmt.Errorf("failed to parse news response: %w", err)
	}

	return articles, nil
}

// FundamentalsRecord is one day of fundamental metrics
type FundamentalsRecord struct {
	Date          string  `json:"date"`
	MarketCap     float64 `json:"marketCap"`
	EnterpriseVal float64 `json:"enterpriseVal"`
	PERatio       float64 `json:"peRatio"`
	PBRatio       float64 `json:"pbRatio"`
	TrailingPEG   float64 `json:"trailingPEG1Y"`
}

// GetFundamentals fetches daily fundamental metrics for a symbol
func (c *Client) GetFundamentals(ctx context.Context, symbol, startDate, endDate string) ([]FundamentalsRecord, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	startDate, endDate = defaultDateRange(startDate, endDate)

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"startDate": startDate,
			"endDate":   endDate,
		}).
		Get(fmt.Sprintf("/tiingo/fundamentals/%s/daily", symbol))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fundamentals for %s: %w", symbol, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("tiingo API error %d: %s", resp.StatusCode(), resp.String())
	}

	var records []FundamentalsRecord
	if err := json.Unmarshal(resp.Body(), &records); err != nil {
		return nil, fmt.Errorf("failed to parse fundamentals response: %w", err)
	}

	return records, nil
}

// CryptoBar is one crypto OHLCV record
type CryptoBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// cryptoResponse wraps price data per requested ticker
type cryptoResponse []struct {
	Ticker    string      `json:"ticker"`
	PriceData []CryptoBar `json:"priceData"`
}

// GetCryptoPrices fetches crypto price history (symbol like BTCUSD)
func (c *Client) GetCryptoPrices(ctx context.Context, symbol, startDate, endDate, frequency string) ([]CryptoBar, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	startDate, endDate = defaultDateRange(startDate, endDate)
	if frequency == "" {
		frequency = "1day"
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"tickers":      symbol,
			"startDate":    startDate,
			"endDate":      endDate,
			"resampleFreq": frequency,
		}).
		Get("/tiingo/crypto/prices")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch crypto prices for %s: %w", symbol, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("tiingo API error %d: %s", resp.StatusCode(), resp.String())
	}

	var parsed cryptoResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse crypto response: %w", err)
	}
	if len(parsed) == 0 || len(parsed[0].PriceData) == 0 {
		return nil, fmt.Errorf("no crypto price data found for %s", symbol)
	}

	return parsed[0].PriceData, nil
}
