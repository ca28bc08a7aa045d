package advisory

import (
	"time"

	"github.com/portfoliogenius/advisor/internal/modules/suggestions"
)

// PortfolioAdvice is the result of one advisory analysis. It is merged into
// the portfolio's advisory fields on persist rather than stored as its own
// entity.
type PortfolioAdvice struct {
	Advice               string                       `json:"advice"`
	SuggestedTrades      []suggestions.SuggestedTrade `json:"suggested_trades"`
	PortfolioScore       float64                      `json:"portfolio_score"`
	RiskAssessment       string                       `json:"risk_assessment"`
	DiversificationScore float64                      `json:"diversification_score"`
	GeneratedAt          time.Time                    `json:"timestamp"`
}
