package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Client is a Yahoo Finance API client. Yahoo needs no API key, so this
// provider is always available.
type Client struct {
	client *resty.Client
	log    zerolog.Logger
}

// NewClient creates a new Yahoo Finance client
func NewClient(log zerolog.Logger) *Client {
	client := resty.New()
	client.SetBaseURL("https://query1.finance.yahoo.com")
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; advisor/1.0)")

	return &Client{
		client: client,
		log:    log.With().Str("client", "yahoo").Logger(),
	}
}

// quoteResponse is the envelope of the v7 quote endpoint
type quoteResponse struct {
	QuoteResponse struct {
		Result []map[string]interface{} `json:"result"`
		Error  interface{}              `json:"error"`
	} `json:"quoteResponse"`
}

// Quote holds the fields we consume from a Yahoo quote
type Quote struct {
	Symbol        string  `json:"ticker"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	CompanyName   string  `json:"company_name"`
	MarketCap     int64   `json:"market_cap"`
	Volume        int64   `json:"volume"`
	DayChange     float64 `json:"day_change"`
	DayChangePct  float64 `json:"day_change_percent"`
	PERatio       float64 `json:"pe_ratio"`
	DividendYield float64 `json:"dividend_yield"`
	Sector        string  `json:"sector"`
	Provider      string  `json:"provider"`
	Timestamp     string  `json:"timestamp"`
}

// GetQuote fetches the current quote for a single ticker
func (c *Client) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("ticker symbol is required")
	}

	quotes, err := c.GetQuotes(ctx, []string{symbol})
	if err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("no price data found for ticker: %s", symbol)
	}

	return &quotes[0], nil
}

// GetQuotes fetches quotes for several tickers in one call. Used both for
// single lookups and for the market-summary tool (index symbols).
func (c *Client) GetQuotes(ctx context.Context, symbols []string) ([]Quote, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("symbols", strings.Join(symbols, ",")).
		Get("/v7/finance/quote")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quotes: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("yahoo API error %d: %s", resp.StatusCode(), resp.String())
	}

	var parsed quoteResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse quote response: %w", err)
	}

	quotes := make([]Quote, 0, len(parsed.QuoteResponse.Result))
	for _, info := range parsed.QuoteResponse.Result {
		price := getFloat64(info, "regularMarketPrice")
		if price == 0 {
			price = getFloat64(info, "currentPrice")
		}

		quotes = append(quotes, Quote{
			Symbol:        getString(info, "symbol", ""),
			Price:         price,
			Currency:      getString(info, "currency", "USD"),
			CompanyName:   getString(info, "longName", getString(info, "shortName", "")),
			MarketCap:     getInt64(info, "marketCap"),
			Volume:        getInt64(info, "regularMarketVolume"),
			DayChange:     getFloat64(info, "regularMarketChange"),
			DayChangePct:  getFloat64(info, "regularMarketChangePercent"),
			PERatio:       getFloat64(info, "trailingPE"),
			DividendYield: getFloat64(info, "trailingAnnualDividendYield"),
			Sector:        getString(info, "sector", ""),
			Provider:      "yahoo_finance",
			Timestamp:     time.Now().Format(time.RFC3339),
		})
	}

	return quotes, nil
}

// NewsItem is one article from the Yahoo search endpoint
type NewsItem struct {
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
	Link      string `json:"link"`
	Published string `json:"published"`
}

// newsResponse is the envelope of the v1 search endpoint
type newsResponse struct {
	News []struct {
		Title               string `json:"title"`
		Publisher           string `json:"publisher"`
		Link                string `json:"link"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
	} `json:"news"`
}

// GetNews fetches recent news articles mentioning the symbol
func (c *Client) GetNews(ctx context.Context, symbol string, limit int) ([]NewsItem, error) {
	if limit <= 0 || limit > 10 {
		limit = 5
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":         strings.ToUpper(strings.TrimSpace(symbol)),
			"newsCount": fmt.Sprintf("%d", limit),
		}).
		Get("/v1/finance/search")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("yahoo API error %d: %s", resp.StatusCode(), resp.String())
	}

	var parsed newsResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse news response: %w", err)
	}

	items := make([]NewsItem, 0, len(parsed.News))
	for i, article := range parsed.News {
		if i >= limit {
			break
		}
		items = append(items, NewsItem{
			Title:     article.Title,
			Publisher: article.Publisher,
			Link:      article.Link,
			Published: time.Unix(article.ProviderPublishTime, 0).Format(time.RFC3339),
		})
	}

	return items, nil
}

// Field extraction helpers for the loosely typed quote maps

func getFloat64(info map[string]interface{}, key string) float64 {
	if v, ok := info[key].(float64); ok {
		return v
	}
	return 0
}

func getInt64(info map[string]interface{}, key string) int64 {
	if v, ok := info[key].(float64); ok {
		return int64(v)
	}
	return 0
}

func getString(info map[string]interface{}, key, fallback string) string {
	if v, ok := info[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
