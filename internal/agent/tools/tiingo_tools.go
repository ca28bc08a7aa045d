package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/portfoliogenius/advisor/internal/clients/tiingo"
)

type tiingoPriceInput struct {
	Symbol    string `json:"symbol"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Frequency string `json:"frequency"`
}

type tiingoPriceOutput struct {
	Symbol string           `json:"symbol,omitempty"`
	Prices []tiingo.PriceBar `json:"prices,omitempty"`
	Error  string           `json:"error,omitempty"`
}

type tiingoMetadataOutput struct {
	Metadata *tiingo.Metadata `json:"metadata,omitempty"`
	Error    string           `json:"error,omitempty"`
}

type tiingoNewsInput struct {
	Symbols string `json:"symbols"`
	Limit   int    `json:"limit"`
}

type tiingoNewsOutput struct {
	Articles []tiingo.NewsArticle `json:"articles,omitempty"`
	Error    string               `json:"error,omitempty"`
}

type tiingoFundamentalsInput struct {
	Symbol    string `json:"symbol"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type tiingoFundamentalsOutput struct {
	Symbol  string                      `json:"symbol,omitempty"`
	Records []tiingo.FundamentalsRecord `json:"records,omitempty"`
	Error   string                      `json:"error,omitempty"`
}

type tiingoCryptoOutput struct {
	Symbol string            `json:"symbol,omitempty"`
	Prices []tiingo.CryptoBar `json:"prices,omitempty"`
	Error  string            `json:"error,omitempty"`
}

var dateParams = map[string]*schema.ParameterInfo{
	"start_date": {
		Type:     "string",
		Desc:     "Start date in YYYY-MM-DD format (default: 30 days ago)",
		Required: false,
	},
	"end_date": {
		Type:     "string",
		Desc:     "End date in YYYY-MM-DD format (default: today)",
		Required: false,
	},
}

func tiingoTools(client *tiingo.Client) []tool.BaseTool {
	priceTool := t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_tiingo_stock_price",
			Desc: "Get current and historical stock prices from Tiingo",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"symbol": {
					Type:     "string",
					Desc:     "The stock ticker symbol, e.g. AAPL",
					Required: true,
				},
				"start_date": dateParams["start_date"],
				"end_date":   dateParams["end_date"],
				"frequency": {
					Type:     "string",
					Desc:     "Price frequency: daily, weekly, or monthly (default daily)",
					Required: false,
				},
			}),
		},
		func(ctx context.Context, input tiingoPriceInput) (*tiingoPriceOutput, error) {
			prices, err := client.GetDailyPrices(ctx, input.Symbol, input.StartDate, input.EndDate, input.Frequency)
			if err != nil {
				return &tiingoPriceOutput{Error: fmt.Sprintf("Error fetching Tiingo prices: %v", err)}, nil
			}
			return &tiingoPriceOutput{Symbol: strings.ToUpper(input.Symbol), Prices: prices}, nil
		},
	)

	metadataTool := t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_tiingo_stock_metadata",
			Desc: "Get detailed stock metadata and company information from Tiingo",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"symbol": {
					Type:     "string",
					Desc:     "The stock ticker symbol, e.g. AAPL",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, input symbolInput) (*tiingoMetadataOutput, error) {
			metadata, err := client.GetMetadata(ctx, input.Symbol)
			if err != nil {
				return &tiingoMetadataOutput{Error: fmt.Sprintf("Error fetching Tiingo metadata: %v", err)}, nil
			}
			return &tiingoMetadataOutput{Metadata: metadata}, nil
		},
	)

	newsTool := t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_tiingo_stock_news",
			Desc: "Get curated financial news from Tiingo",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"symbols": {
					Type:     "string",
					Desc:     "Comma-separated ticker symbols, e.g. AAPL,MSFT",
					Required: false,
				},
				"limit": {
					Type:     "integer",
					Desc:     "Number of articles to return (default 10, max 100)",
					Required: false,
				},
			}),
		},
		func(ctx context.Context, input tiingoNewsInput) (*tiingoNewsOutput, error) {
			var symbols []string
			for _, s := range strings.Split(input.Symbols, ",") {
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					symbols = append(symbols, trimmed)
				}
			}

			articles, err := client.GetNews(ctx, symbols, input.Limit, "", "")
			if err != nil {
				return &tiingoNewsOutput{Error: fmt.Sprintf("Error fetching Tiingo news: %v", err)}, nil
			}
			return &tiingoNewsOutput{Articles: articles}, nil
		},
	)

	fundamentalsTool := t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_tiingo_fundamentals",
			Desc: "Get fundamental financial metrics and ratios from Tiingo",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"symbol": {
					Type:     "string",
					Desc:     "The stock ticker symbol, e.g. AAPL",
					Required: true,
				},
				"start_date": dateParams["start_date"],
				"end_date":   dateParams["end_date"],
			}),
		},
		func(ctx context.Context, input tiingoFundamentalsInput) (*tiingoFundamentalsOutput, error) {
			records, err := client.GetFundamentals(ctx, input.Symbol, input.StartDate, input.EndDate)
			if err != nil {
				return &tiingoFundamentalsOutput{Error: fmt.Sprintf("Error fetching Tiingo fundamentals: %v", err)}, nil
			}
			return &tiingoFundamentalsOutput{Symbol: strings.ToUpper(input.Symbol), Records: records}, nil
		},
	)

	cryptoTool := t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_tiingo_crypto_price",
			Desc: "Get cryptocurrency prices and historical data from Tiingo",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"symbol": {
					Type:     "string",
					Desc:     "The crypto pair symbol, e.g. btcusd",
					Required: true,
				},
				"start_date": dateParams["start_date"],
				"end_date":   dateParams["end_date"],
				"frequency": {
					Type:     "string",
					Desc:     "Bar frequency such as 1day or 1hour (default 1day)",
					Required: false,
				},
			}),
		},
		func(ctx context.Context, input tiingoPriceInput) (*tiingoCryptoOutput, error) {
			prices, err := client.GetCryptoPrices(ctx, input.Symbol, input.StartDate, input.EndDate, input.Frequency)
			if err != nil {
				return &tiingoCryptoOutput{Error: fmt.Sprintf("Error fetching Tiingo crypto prices: %v", err)}, nil
			}
			return &tiingoCryptoOutput{Symbol: strings.ToLower(input.Symbol), Prices: prices}, nil
		},
	)

	return []tool.BaseTool{priceTool, metadataTool, newsTool, fundamentalsTool, cryptoTool}
}
