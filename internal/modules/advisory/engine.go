package advisory

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/portfoliogenius/advisor/internal/modules/portfolio"
	"github.com/portfoliogenius/advisor/internal/modules/suggestions"
	"github.com/portfoliogenius/advisor/internal/modules/trading"
	"github.com/portfoliogenius/advisor/pkg/formulas"
)

// positionTypeCount is the number of recognized asset types, used to scale
// the type-diversity term
const positionTypeCount = 5

var adviceTemplates = []string{
	"Your portfolio shows a balanced approach with good diversification across sectors. Consider rebalancing to maintain optimal risk levels.",
	"The current market conditions suggest a defensive stance. Your portfolio has strong fundamentals but may benefit from some profit-taking.",
	"Your portfolio demonstrates solid growth potential with moderate risk exposure. Consider adding some value stocks for better balance.",
	"The portfolio shows good sector diversification, but concentration risk in growth stocks is notable. Consider defensive positions.",
	"Your investment strategy aligns well with your moderate risk goals. Some tactical adjustments could enhance returns.",
}

var suggestionPool = []suggestions.SuggestedTrade{
	{
		Symbol:         "VTI",
		Action:         suggestions.ActionBuy,
		Quantity:       10,
		EstimatedPrice: 220.0,
		Reasoning:      "Add broad market exposure through low-cost ETF for better diversification",
		Priority:       suggestions.PriorityMedium,
		RiskLevel:      suggestions.RiskLow,
	},
	{
		Symbol:         "AAPL",
		Action:         suggestions.ActionReduce,
		Quantity:       5,
		EstimatedPrice: 175.0,
		Reasoning:      "Take partial profits on overweight tech position to reduce concentration risk",
		Priority:       suggestions.PriorityHigh,
		RiskLevel:      suggestions.RiskMedium,
	},
	{
		Symbol:         "JNJ",
		Action:         suggestions.ActionBuy,
		Quantity:       8,
		EstimatedPrice: 160.0,
		Reasoning:      "Add defensive healthcare position for portfolio stability",
		Priority:       suggestions.PriorityMedium,
		RiskLevel:      suggestions.RiskLow,
	},
	{
		Symbol:         "BRK.B",
		Action:         suggestions.ActionBuy,
		Quantity:       15,
		EstimatedPrice: 420.0,
		Reasoning:      "Add value exposure through diversified holding company",
		Priority:       suggestions.PriorityLow,
		RiskLevel:      suggestions.RiskLow,
	},
	{
		Symbol:         "TSLA",
		Action:         suggestions.ActionSell,
		Quantity:       0,
		EstimatedPrice: 200.0,
		Reasoning:      "Reduce exposure to volatile growth stock to improve risk-adjusted returns",
		Priority:       suggestions.PriorityHigh,
		RiskLevel:      suggestions.RiskHigh,
	},
}

// Engine is the heuristic advice generator. It performs no I/O and is
// deterministic for a fixed random source, which the constructor takes so
// tests can seed it.
type Engine struct {
	rng *rand.Rand
	now func() time.Time
}

// NewEngine creates an advice engine using the given random source
func NewEngine(rng *rand.Rand) *Engine {
	return &Engine{rng: rng, now: time.Now}
}

// Analyze scores a portfolio and produces advice text plus up to three
// suggested adjustments
func (e *Engine) Analyze(goal string, positions []portfolio.Position, recentTrades []trading.Trade) PortfolioAdvice {
	return PortfolioAdvice{
		Advice:               e.adviceText(goal),
		SuggestedTrades:      e.sampleSuggestions(positions),
		PortfolioScore:       PortfolioScore(positions),
		RiskAssessment:       RiskAssessment(positions),
		DiversificationScore: DiversificationScore(positions),
		GeneratedAt:          e.now(),
	}
}

func (e *Engine) adviceText(goal string) string {
	text := adviceTemplates[e.rng.Intn(len(adviceTemplates))]

	lowered := strings.ToLower(goal)
	switch {
	case strings.Contains(lowered, "moderate"):
		text += " Your moderate risk approach is appropriate for steady long-term growth."
	case strings.Contains(lowered, "aggressive"):
		text += " Your aggressive strategy shows potential for high returns but monitor risk carefully."
	case strings.Contains(lowered, "conservative"):
		text += " Your conservative approach prioritizes capital preservation, which is prudent."
	}

	return text
}

// PortfolioScore rates overall performance 0-100 from the average gain/loss
// percent across positions. No positions scores 0.
func PortfolioScore(positions []portfolio.Position) float64 {
	if len(positions) == 0 {
		return 0
	}

	perf := make([]float64, len(positions))
	for i, p := range positions {
		perf[i] = p.GainLossPercent
	}

	return formulas.Clamp(50+formulas.Mean(perf)/2, 0, 100)
}

// RiskAssessment classifies portfolio risk from the share of crypto
// positions. No positions yields "unknown".
func RiskAssessment(positions []portfolio.Position) string {
	if len(positions) == 0 {
		return "unknown"
	}

	highRisk := 0
	for _, p := range positions {
		if p.Type == portfolio.PositionTypeCrypto {
			highRisk++
		}
	}

	ratio := float64(highRisk) / float64(len(positions))
	switch {
	case ratio > 0.3:
		return "high"
	case ratio > 0.1:
		return "medium"
	default:
		return "low"
	}
}

// DiversificationScore rates 0-100 from distinct-type coverage minus a
// penalty for any single position above 30% of total value
func DiversificationScore(positions []portfolio.Position) float64 {
	if len(positions) == 0 {
		return 0
	}

	types := make(map[portfolio.PositionType]struct{})
	totalValue := 0.0
	for _, p := range positions {
		types[p.Type] = struct{}{}
		totalValue += p.TotalValue
	}
	typeDiversity := float64(len(types)) / positionTypeCount

	maxConcentration := 0.0
	if totalValue > 0 {
		for _, p := range positions {
			if frac := p.TotalValue / totalValue; frac > maxConcentration {
				maxConcentration = frac
			}
		}
	}
	concentrationPenalty := formulas.Clamp(maxConcentration-0.3, 0, 1) * 200

	return formulas.Clamp(typeDiversity*50+50-concentrationPenalty, 0, 100)
}

// sampleSuggestions draws up to three pool entries without replacement and
// adjusts any that reference a symbol the portfolio already holds
func (e *Engine) sampleSuggestions(positions []portfolio.Position) []suggestions.SuggestedTrade {
	k := 3
	if len(suggestionPool) < k {
		k = len(suggestionPool)
	}

	sampled := make([]suggestions.SuggestedTrade, 0, k)
	for _, i := range e.rng.Perm(len(suggestionPool))[:k] {
		sampled = append(sampled, suggestionPool[i])
	}

	held := make(map[string]struct{}, len(positions))
	for _, p := range positions {
		held[p.Symbol] = struct{}{}
	}

	for i := range sampled {
		if _, ok := held[sampled[i].Symbol]; !ok {
			continue
		}
		switch sampled[i].Action {
		case suggestions.ActionBuy:
			sampled[i].Action = suggestions.ActionHold
			sampled[i].Reasoning = fmt.Sprintf("You already hold %s. %s", sampled[i].Symbol, sampled[i].Reasoning)
		case suggestions.ActionSell:
			sampled[i].Reasoning = fmt.Sprintf("Consider reducing your %s position. %s", sampled[i].Symbol, sampled[i].Reasoning)
		}
	}

	return sampled
}
