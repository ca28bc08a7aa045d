package brave

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Client is a Brave Search API client (web, news, image, video search and
// the AI summarizer).
type Client struct {
	client *resty.Client
	apiKey string
	log    zerolog.Logger
}

// NewClient creates a new Brave Search client
func NewClient(apiKey string, log zerolog.Logger) *Client {
	client := resty.New()
	client.SetBaseURL("https://api.search.brave.com/res/v1")
	client.SetTimeout(30 * time.Second)
	client.SetHeader("Accept", "application/json")
	client.SetHeader("X-Subscription-Token", apiKey)

	return &Client{
		client: client,
		apiKey: apiKey,
		log:    log.With().Str("client", "brave").Logger(),
	}
}

// Available reports whether an API key is configured
func (c *Client) Available() bool {
	return c.apiKey != ""
}

// clampCount keeps the result count in the API's accepted 1..20 range
func clampCount(count int) int {
	if count < 1 {
		return 10
	}
	if count > 20 {
		return 20
	}
	return count
}

// WebResult is one web search hit
type WebResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Age         string `json:"age,omitempty"`
	Source      string `json:"source,omitempty"`
}

type webSearchResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
			Age         string `json:"age"`
			Profile     struct {
				Name string `json:"name"`
			} `json:"profile"`
		} `json:"results"`
	} `json:"web"`
	Summarizer struct {
		Key string `json:"key"`
	} `json:"summarizer"`
}

// WebSearch performs a web search
func (c *Client) WebSearch(ctx context.Context, query string, count int, country, searchLang, safesearch string) ([]WebResult, error) {
	parsed, err := c.webSearch(ctx, query, count, country, searchLang, safesearch, false)
	if err != nil {
		return nil, err
	}
	return flattenWebResults(parsed), nil
}

func (c *Client) webSearch(ctx context.Context, query string, count int, country, searchLang, safesearch string, summary bool) (*webSearchResponse, error) {
	params := map[string]string{
		"q":           query,
		"count":       fmt.Sprintf("%d", clampCount(count)),
		"country":     defaultString(country, "US"),
		"search_lang": defaultString(searchLang, "en"),
		"safesearch":  defaultString(safesearch, "moderate"),
		"spellcheck":  "1",
	}
	if summary {
		params["summary"] = "1"
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/web/search")
	if err != nil {
		return nil, fmt.Errorf("failed to perform web search: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("brave API error %d: %s", resp.StatusCode(), resp.String())
	}

	var parsed webSearchResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse web search response: %w", err)
	}

	return &parsed, nil
}

func flattenWebResults(parsed *webSearchResponse) []WebResult {
	results := make([]WebResult, 0, len(parsed.Web.Results))
	for _, r := range parsed.Web.Results {
		results = append(results, WebResult{
			Title:       r.Title,
			URL:         r.URL,
			Description: r.Description,
			Age:         r.Age,
			Source:      r.Profile.Name,
		})
	}
	return results
}

// NewsResult is one news search hit
type NewsResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Age         string `json:"age,omitempty"`
	Source      string `json:"source,omitempty"`
}

type newsSearchResponse struct {
	Results []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Description string `json:"description"`
		Age         string `json:"age"`
		Meta        struct {
			Hostname string `json:"hostname"`
		} `json:"meta_url"`
	} `json:"results"`
}

// NewsSearch performs a news search. freshness is pd/pw/pm/py or empty.
func (c *Client) NewsSearch(ctx context.Context, query string, count int, country, searchLang, freshness string) ([]NewsResult, error) {
	params := map[string]string{
		"q":           query,
		"count":       fmt.Sprintf("%d", clampCount(count)),
		"country":     defaultString(country, "US"),
		"search_lang": defaultString(searchLang, "en"),
	}
	if freshness != "" {
		params["freshness"] = freshness
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/news/search")
	if err != nil {
		return nil, fmt.Errorf("failed to perform news search: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("brave API error %d: %s", resp.StatusCode(), resp.String())
	}

	var parsed newsSearchResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse news search response: %w", err)
	}

	results := make([]NewsResult, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		results = append(results, NewsResult{
			Title:       r.Title,
			URL:         r.URL,
			Description: r.Description,
			Age:         r.Age,
			Source:      r.Meta.Hostname,
		})
	}

	return results, nil
}

// MediaResult is one image or video search hit
type MediaResult struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source,omitempty"`
}

type mediaSearchResponse struct {
	Results []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
		Meta  struct {
			Hostname string `json:"hostname"`
		} `json:"meta_url"`
	} `json:"results"`
}

// ImageSearch performs an image search
func (c *Client) ImageSearch(ctx context.Context, query string, count int, safesearch string) ([]MediaResult, error) {
	return c.mediaSearch(ctx, "/images/search", map[string]string{
		"q":          query,
		"count":      fmt.Sprintf("%d", clampCount(count)),
		"safesearch": defaultString(safesearch, "strict"),
	})
}

// VideoSearch performs a video search
func (c *Client) VideoSearch(ctx context.Context, query string, count int, country, searchLang string) ([]MediaResult, error) {
	return c.mediaSearch(ctx, "/videos/search", map[string]string{
		"q":           query,
		"count":       fmt.Sprintf("%d", clampCount(count)),
		"country":     defaultString(country, "US"),
		"search_lang": defaultString(searchLang, "en"),
	})
}

func (c *Client) mediaSearch(ctx context.Context, path string, params map[string]string) ([]MediaResult, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("failed to perform media search: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("brave API error %d: %s", resp.StatusCode(), resp.String())
	}

	var parsed mediaSearchResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse media search response: %w", err)
	}

	results := make([]MediaResult, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		results = append(results, MediaResult{Title: r.Title, URL: r.URL, Source: r.Meta.Hostname})
	}

	return results, nil
}

// Summary is the output of the AI summarizer
type Summary struct {
	Title       string `json:"summary_title"`
	Text        string `json:"summary_text"`
	Status      string `json:"status"`
	SourcesUsed int    `json:"sources_used"`
}

type summaryResponse struct {
	Title   string `json:"title"`
	Status  string `json:"status"`
	Summary []struct {
		Type string `json:"type"`
		Data string `json:"data"`
	} `json:"summary"`
}

// Summarize runs a web search with the summarizer enabled, then fetches the
// generated summary by key. Not every query is eligible for summarization.
func (c *Client) Summarize(ctx context.Context, query string, count int, country, searchLang string) (*Summary, error) {
	search, err := c.webSearch(ctx, query, count, country, searchLang, "moderate", true)
	if err != nil {
		return nil, err
	}
	if search.Summarizer.Key == "" {
		return nil, fmt.Errorf("AI summarizer not available for this query")
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("key", search.Summarizer.Key).
		Get("/summarizer/summary")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch summary: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("brave API error %d: %s", resp.StatusCode(), resp.String())
	}

	var parsed summaryResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse summary response: %w", err)
	}

	text := ""
	for _, token := range parsed.Summary {
		if token.Type == "token" {
			text += token.Data
		}
	}

	return &Summary{
		Title:       defaultString(parsed.Title, "Summary"),
		Text:        text,
		Status:      defaultString(parsed.Status, "unknown"),
		SourcesUsed: len(search.Web.Results),
	}, nil
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
