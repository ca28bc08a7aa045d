// Package agent drives the LLM advisor. It wraps a react-style tool-calling
// agent over the financial data gateways and turns free-text model output
// into typed recommendation payloads.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"github.com/portfoliogenius/advisor/internal/apierr"
	"github.com/portfoliogenius/advisor/internal/agent/tools"
	"github.com/portfoliogenius/advisor/internal/config"
	"github.com/portfoliogenius/advisor/internal/modules/portfolio"
)

// maxAgentSteps bounds the tool-call loop of one generation
const maxAgentSteps = 40

const constructionSystemPrompt = `You are an expert financial advisor and portfolio manager with access to comprehensive financial data and research tools.

Your task is to construct a specific investment portfolio based on the user's requirements.

IMPORTANT: You MUST use the available tools to gather current market data and financial information. Do NOT rely on your training data for current prices, market conditions, or financial metrics.

For portfolio construction, you MUST follow these steps:
1. FIRST: Use get_market_summary to understand current market conditions
2. THEN: Use get_stock_info or get_tiingo_stock_metadata for each recommended stock/ETF to get current prices and fundamentals
3. Use get_tiingo_crypto_price for any cryptocurrency recommendations (if available)
4. Use brave_news_search or financial news tools to understand current market sentiment (if available)
5. ONLY AFTER gathering current data, construct your portfolio recommendations

CRITICAL: You must format your final portfolio recommendation as valid JSON with the following structure:

{
  "portfolio_summary": {
    "total_investment": "investment_amount",
    "risk_level": "risk_level",
    "time_horizon": "time_horizon",
    "date_created": "current_date"
  },
  "recommendations": [
    {
      "ticker_symbol": "AAPL",
      "allocation_percent": 15.0,
      "rationale": "Strong fundamentals, market leader in technology sector with consistent revenue growth",
      "notes": "Current price: $XXX.XX, P/E ratio: XX.X, recommended for long-term growth"
    }
  ],
  "portfolio_allocation": {
    "stocks": XX.X,
    "etfs": XX.X,
    "bonds": XX.X,
    "alternatives": XX.X
  },
  "risk_assessment": "Brief risk analysis",
  "expected_annual_return": "X-X%",
  "rebalancing_schedule": "Quarterly/Semi-annual/Annual"
}

Each recommendation must include:
- ticker_symbol: The stock/ETF ticker symbol
- allocation_percent: Percentage of total portfolio (must sum to 100%)
- rationale: Investment thesis and reasoning for inclusion
- notes: Additional details including ACTUAL CURRENT PRICES from tools, key metrics, and specific considerations

You MUST use tools to get current prices and market data. Return ONLY the JSON - do not include any additional text or explanation outside the JSON structure.`

const adviceSystemPrompt = `You are an experienced investment advisor. Use the available tools to fetch up to date stock prices and news before providing advice on a portfolio.`

// Advisor is the LLM-backed portfolio agent
type Advisor struct {
	agent   *react.Agent
	timeout time.Duration
	log     zerolog.Logger
}

// New builds the advisor from the configured OpenAI model and the tool
// registry. Fails when no OpenAI API key is configured; callers construct it
// lazily so the rest of the service runs without one.
func New(ctx context.Context, cfg *config.Config, registry *tools.Registry, log zerolog.Logger) (*Advisor, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not configured")
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.OpenAIBaseURL,
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	agent, err := react.NewAgent(ctx, &react.AgentConfig{
		ToolCallingModel: chatModel,
		ToolsConfig: compose.ToolsNodeConfig{
			Tools: registry.Tools(),
		},
		MaxStep: maxAgentSteps,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	return &Advisor{
		agent:   agent,
		timeout: cfg.AgentTimeout,
		log:     log.With().Str("component", "agent").Logger(),
	}, nil
}

// ConstructPortfolio asks the agent to research and build a portfolio for
// the goal, then parses the JSON recommendation out of its answer
func (a *Advisor) ConstructPortfolio(ctx context.Context, goal string) (*PortfolioRecommendation, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	request := fmt.Sprintf(`Today is %s.

%s

Please research current market conditions, analyze suitable investments, and provide a comprehensive portfolio recommendation in the specified JSON format.
Include current prices, fundamental analysis, and detailed rationale for each recommendation.`,
		time.Now().Format("January 2, 2006"), goal)

	started := time.Now()
	message, err := a.agent.Generate(ctx, []*schema.Message{
		schema.SystemMessage(constructionSystemPrompt),
		schema.UserMessage(request),
	})
	if err != nil {
		return nil, apierr.Wrap(apierr.UpstreamService, "portfolio construction failed", err)
	}

	a.log.Info().
		Dur("elapsed", time.Since(started)).
		Int("response_chars", len(message.Content)).
		Msg("Portfolio construction generated")

	rec, err := ParseRecommendation(message.Content)
	if err != nil {
		return nil, apierr.Wrap(apierr.UpstreamParse, "failed to parse portfolio recommendation as JSON", err)
	}

	return rec, nil
}

// GenerateAdvice asks the agent for a free-text portfolio review grounded in
// current prices and news
func (a *Advisor) GenerateAdvice(ctx context.Context, goal string, cashBalance float64, positions []portfolio.Position) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	positionsText := "None"
	if len(positions) > 0 {
		lines := make([]string, 0, len(positions))
		for _, p := range positions {
			lines = append(lines, fmt.Sprintf("- %s: %g shares at $%g (gain %+g, %+g%%)",
				strings.ToUpper(p.Symbol), p.Quantity, p.CurrentPrice, p.GainLoss, p.GainLossPercent))
		}
		positionsText = strings.Join(lines, "\n")
	}

	request := fmt.Sprintf(`Portfolio goal: %s
Cash balance: $%g
Positions:
%s

Discuss performance and how well this portfolio matches the goal. Mention relevant news or metrics for key holdings and end with a short recommendation.`,
		goal, cashBalance, positionsText)

	message, err := a.agent.Generate(ctx, []*schema.Message{
		schema.SystemMessage(adviceSystemPrompt),
		schema.UserMessage(request),
	})
	if err != nil {
		return "", apierr.Wrap(apierr.UpstreamService, "advice generation failed", err)
	}

	return strings.TrimSpace(message.Content), nil
}
