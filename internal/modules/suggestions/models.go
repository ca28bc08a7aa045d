package suggestions

import "time"

// Action is the proposed trade action
type Action string

const (
	ActionBuy    Action = "buy"
	ActionSell   Action = "sell"
	ActionHold   Action = "hold"
	ActionReduce Action = "reduce"
)

// Priority ranks how strongly a suggestion is weighted
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// RiskLevel classifies a suggestion's risk
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Status is the suggestion lifecycle state. A suggestion transitions out of
// pending exactly once.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConverted Status = "converted"
	StatusDismissed Status = "dismissed"
	StatusExpired   Status = "expired"
)

// Source tags for suggestion provenance
const (
	SourcePortfolioConstruction = "ai_portfolio_construction"
	SourceAdvisoryHeuristics    = "advisory_heuristics"
)

// DefaultReasoning is used when a recommendation carries no rationale or notes
const DefaultReasoning = "AI portfolio recommendation"

// SuggestionTTL is how long a suggestion stays actionable
const SuggestionTTL = 7 * 24 * time.Hour

// FallbackCashBalance is assumed when the portfolio cannot be resolved for
// the requesting user
const FallbackCashBalance = 10000.0

// SuggestedTrade is a system-proposed, not-yet-executed trade. Numeric fields
// are always concrete (0 when unknown) and string fields are never null.
type SuggestedTrade struct {
	ID                string    `json:"id"`
	PortfolioID       string    `json:"portfolio_id"`
	UserID            string    `json:"user_id"`
	Symbol            string    `json:"symbol"`
	Name              string    `json:"name"`
	Type              string    `json:"type"` // asset type, defaulted to "stock"
	Action            Action    `json:"action"`
	Quantity          float64   `json:"quantity"`
	EstimatedPrice    float64   `json:"estimated_price"`
	DollarAmount      float64   `json:"dollar_amount"`
	AllocationPercent float64   `json:"allocation_percent"`
	Reasoning         string    `json:"reasoning"`
	Priority          Priority  `json:"priority"`
	RiskLevel         RiskLevel `json:"risk_level"`
	Status            Status    `json:"status"`
	Source            string    `json:"source"`
	DismissalReason   string    `json:"dismissal_reason,omitempty"`
	ConvertedTradeID  string    `json:"converted_trade_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	ExpiresAt         time.Time `json:"expires_at"`
	ConvertedAt       time.Time `json:"converted_at,omitempty"`
	DismissedAt       time.Time `json:"dismissed_at,omitempty"`
}

// Recommendation is one entry of an LLM portfolio recommendation as consumed
// by the deriver
type Recommendation struct {
	TickerSymbol      string  `json:"ticker_symbol"`
	AllocationPercent float64 `json:"allocation_percent"`
	Rationale         string  `json:"rationale"`
	Notes             string  `json:"notes"`
}

// Outcome statuses for bulk derivation
const (
	OutcomeCreated = "created"
	OutcomeSkipped = "skipped"
)

// DerivationOutcome reports what happened to one recommendation entry during
// bulk derivation. Failures never abort the loop; they surface here.
type DerivationOutcome struct {
	Symbol           string `json:"symbol"`
	Status           string `json:"status"`
	Reason           string `json:"reason,omitempty"`
	SuggestedTradeID string `json:"suggested_trade_id,omitempty"`
}

// CreatedCount returns how many outcomes were persisted
func CreatedCount(outcomes []DerivationOutcome) int {
	count := 0
	for _, o := range outcomes {
		if o.Status == OutcomeCreated {
			count++
		}
	}
	return count
}

// ConvertOverrides are optional caller-supplied values for converting a
// suggestion into an executed trade. Nil fields fall back to the
// suggestion's own stored values.
type ConvertOverrides struct {
	Quantity *float64 `json:"quantity,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Fees     *float64 `json:"fees,omitempty"`
	Notes    string   `json:"notes,omitempty"`
}
