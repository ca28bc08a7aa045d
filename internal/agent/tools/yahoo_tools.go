package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/portfoliogenius/advisor/internal/clients/yahoo"
)

// marketIndices are the quotes behind get_market_summary
var marketIndices = []string{"^GSPC", "^DJI", "^IXIC", "^RUT", "^VIX"}

type symbolInput struct {
	Symbol string `json:"symbol"`
}

type quoteOutput struct {
	Quote *yahoo.Quote `json:"quote,omitempty"`
	Error string       `json:"error,omitempty"`
}

type stockNewsInput struct {
	Symbol string `json:"symbol"`
	Limit  int    `json:"limit"`
}

type stockNewsOutput struct {
	Articles []yahoo.NewsItem `json:"articles,omitempty"`
	Error    string           `json:"error,omitempty"`
}

type marketSummaryInput struct{}

type marketSummaryOutput struct {
	Indices []yahoo.Quote `json:"indices,omitempty"`
	Error   string        `json:"error,omitempty"`
}

func yahooTools(client *yahoo.Client) []tool.BaseTool {
	priceTool := t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_stock_price",
			Desc: "Get the current stock price and daily change from Yahoo Finance",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"symbol": {
					Type:     "string",
					Desc:     "The stock ticker symbol, e.g. AAPL",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, input symbolInput) (*quoteOutput, error) {
			quote, err := client.GetQuote(ctx, input.Symbol)
			if err != nil {
				return &quoteOutput{Error: fmt.Sprintf("Error fetching stock price: %v", err)}, nil
			}
			return &quoteOutput{Quote: quote}, nil
		},
	)

	infoTool := t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_stock_info",
			Desc: "Get comprehensive company information and financial metrics from Yahoo Finance",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"symbol": {
					Type:     "string",
					Desc:     "The stock ticker symbol, e.g. AAPL",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, input symbolInput) (*quoteOutput, error) {
			quote, err := client.GetQuote(ctx, input.Symbol)
			if err != nil {
				return &quoteOutput{Error: fmt.Sprintf("Error fetching stock info: %v", err)}, nil
			}
			return &quoteOutput{Quote: quote}, nil
		},
	)

	newsTool := t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_stock_news",
			Desc: "Get recent news articles for a company from Yahoo Finance",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"symbol": {
					Type:     "string",
					Desc:     "The stock ticker symbol, e.g. AAPL",
					Required: true,
				},
				"limit": {
					Type:     "integer",
					Desc:     "Number of articles to return (default 5, max 10)",
					Required: false,
				},
			}),
		},
		func(ctx context.Context, input stockNewsInput) (*stockNewsOutput, error) {
			articles, err := client.GetNews(ctx, input.Symbol, input.Limit)
			if err != nil {
				return &stockNewsOutput{Error: fmt.Sprintf("Error fetching stock news: %v", err)}, nil
			}
			return &stockNewsOutput{Articles: articles}, nil
		},
	)

	summaryTool := t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "get_market_summary",
			Desc:        "Get major market indices and overall market performance",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		func(ctx context.Context, input marketSummaryInput) (*marketSummaryOutput, error) {
			quotes, err := client.GetQuotes(ctx, marketIndices)
			if err != nil {
				return &marketSummaryOutput{Error: fmt.Sprintf("Error fetching market summary: %v", err)}, nil
			}
			return &marketSummaryOutput{Indices: quotes}, nil
		},
	)

	return []tool.BaseTool{priceTool, infoTool, newsTool, summaryTool}
}
