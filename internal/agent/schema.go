package agent

import (
	"encoding/json"
	"strings"

	"github.com/portfoliogenius/advisor/internal/modules/suggestions"
)

// PortfolioSummary is the header block of an LLM portfolio recommendation.
// The figures are informational only; authoritative amounts always come
// from the stored portfolio.
type PortfolioSummary struct {
	TotalInvestment string `json:"total_investment"`
	RiskLevel       string `json:"risk_level"`
	TimeHorizon     string `json:"time_horizon"`
	DateCreated     string `json:"date_created"`
}

// PortfolioAllocation is the asset-class split of a recommendation
type PortfolioAllocation struct {
	Stocks       float64 `json:"stocks"`
	ETFs         float64 `json:"etfs"`
	Bonds        float64 `json:"bonds"`
	Alternatives float64 `json:"alternatives"`
}

// PortfolioRecommendation is the JSON payload the construction agent must
// return
type PortfolioRecommendation struct {
	PortfolioSummary     PortfolioSummary             `json:"portfolio_summary"`
	Recommendations      []suggestions.Recommendation `json:"recommendations"`
	PortfolioAllocation  PortfolioAllocation          `json:"portfolio_allocation"`
	RiskAssessment       string                       `json:"risk_assessment"`
	ExpectedAnnualReturn string                       `json:"expected_annual_return"`
	RebalancingSchedule  string                       `json:"rebalancing_schedule"`
}

// ExtractJSON strips Markdown code fences the model sometimes wraps around
// its JSON output
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)

	if start := strings.Index(text, "```json"); start >= 0 {
		fragment := text[start+len("```json"):]
		if end := strings.Index(fragment, "```"); end >= 0 {
			fragment = fragment[:end]
		}
		return strings.TrimSpace(fragment)
	}
	if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") && len(text) > 6 {
		return strings.TrimSpace(text[3 : len(text)-3])
	}

	return text
}

// ParseRecommendation parses an agent response into a recommendation payload
func ParseRecommendation(text string) (*PortfolioRecommendation, error) {
	var rec PortfolioRecommendation
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
