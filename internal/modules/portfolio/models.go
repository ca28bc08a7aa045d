package portfolio

import "time"

// PositionType classifies a held asset
type PositionType string

const (
	PositionTypeStock  PositionType = "stock"
	PositionTypeETF    PositionType = "etf"
	PositionTypeCrypto PositionType = "crypto"
	PositionTypeBond   PositionType = "bond"
	PositionTypeOther  PositionType = "other"
)

// Portfolio represents one user's investment portfolio. The advisory fields
// (advice, scores) are overwritten by each advisory run.
type Portfolio struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"user_id"`
	Goal                 string    `json:"goal"`
	CashBalance          float64   `json:"cash_balance"`
	Advice               string    `json:"advice"`
	PortfolioScore       float64   `json:"portfolio_score"`
	RiskAssessment       string    `json:"risk_assessment"`
	DiversificationScore float64   `json:"diversification_score"`
	LastAdvisoryDate     time.Time `json:"last_advisory_date,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Position represents a holding inside a portfolio. Positions are written by
// the external trade-execution flow; this service only reads them.
type Position struct {
	ID              string       `json:"id"`
	PortfolioID     string       `json:"portfolio_id"`
	Symbol          string       `json:"symbol"`
	Name            string       `json:"name"`
	Quantity        float64      `json:"quantity"`
	OpenPrice       float64      `json:"open_price"`
	CurrentPrice    float64      `json:"current_price"`
	Type            PositionType `json:"type"`
	Status          string       `json:"status"` // open, closed
	TotalValue      float64      `json:"total_value"`
	GainLoss        float64      `json:"gain_loss"`
	GainLossPercent float64      `json:"gain_loss_percent"`
}

// AdvisoryResult carries the fields an advisory run writes back onto the portfolio
type AdvisoryResult struct {
	Advice               string
	PortfolioScore       float64
	RiskAssessment       string
	DiversificationScore float64
}
