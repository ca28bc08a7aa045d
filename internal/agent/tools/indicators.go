package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/markcheno/go-talib"

	"github.com/portfoliogenius/advisor/internal/clients/tiingo"
	"github.com/portfoliogenius/advisor/pkg/formulas"
)

// minBars is the fewest daily closes the indicator set needs; MACD with
// 12/26/9 periods dominates.
const minBars = 35

type indicatorInput struct {
	Symbol    string `json:"symbol"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type indicatorOutput struct {
	Symbol     string  `json:"symbol,omitempty"`
	Close      float64 `json:"close,omitempty"`
	SMA20      float64 `json:"sma_20,omitempty"`
	EMA12      float64 `json:"ema_12,omitempty"`
	RSI14      float64 `json:"rsi_14,omitempty"`
	MACD       float64 `json:"macd,omitempty"`
	MACDSignal float64 `json:"macd_signal,omitempty"`
	Bars       int     `json:"bars,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// indicatorTool computes common technical indicators over Tiingo daily
// closes so the agent does not have to do the math itself
func indicatorTool(client *tiingo.Client) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name: "get_technical_indicators",
			Desc: "Compute SMA, EMA, RSI and MACD over recent daily closing prices",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"symbol": {
					Type:     "string",
					Desc:     "The stock ticker symbol, e.g. AAPL",
					Required: true,
				},
				"start_date": {
					Type:     "string",
					Desc:     "Start date in YYYY-MM-DD format (default: 90 days ago)",
					Required: false,
				},
				"end_date": {
					Type:     "string",
					Desc:     "End date in YYYY-MM-DD format (default: today)",
					Required: false,
				},
			}),
		},
		func(ctx context.Context, input indicatorInput) (*indicatorOutput, error) {
			startDate := input.StartDate
			if startDate == "" {
				startDate = time.Now().AddDate(0, 0, -90).Format("2006-01-02")
			}

			bars, err := client.GetDailyPrices(ctx, input.Symbol, startDate, input.EndDate, "daily")
			if err != nil {
				return &indicatorOutput{Error: fmt.Sprintf("Error fetching prices: %v", err)}, nil
			}
			if len(bars) < minBars {
				return &indicatorOutput{
					Error: fmt.Sprintf("Not enough price history for %s: got %d bars, need %d", strings.ToUpper(input.Symbol), len(bars), minBars),
				}, nil
			}

			closes := make([]float64, len(bars))
			for i, b := range bars {
				closes[i] = b.Close
			}

			sma := talib.Sma(closes, 20)
			ema := talib.Ema(closes, 12)
			rsi := talib.Rsi(closes, 14)
			macd, signal, _ := talib.Macd(closes, 12, 26, 9)

			last := len(closes) - 1
			return &indicatorOutput{
				Symbol:     strings.ToUpper(strings.TrimSpace(input.Symbol)),
				Close:      closes[last],
				SMA20:      formulas.Round2(sma[last]),
				EMA12:      formulas.Round2(ema[last]),
				RSI14:      formulas.Round2(rsi[last]),
				MACD:       formulas.Round2(macd[last]),
				MACDSignal: formulas.Round2(signal[last]),
				Bars:       len(bars),
			}, nil
		},
	)
}
