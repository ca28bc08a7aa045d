package trading

import (
	"fmt"
	"strings"
	"time"
)

// TradeType represents the trade direction
type TradeType string

const (
	TradeTypeBuy  TradeType = "buy"
	TradeTypeSell TradeType = "sell"
)

// TradeTypeFromString parses a trade type (case-insensitive)
func TradeTypeFromString(value string) (TradeType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "buy":
		return TradeTypeBuy, nil
	case "sell":
		return TradeTypeSell, nil
	default:
		return "", fmt.Errorf("invalid trade type: %q", value)
	}
}

// Trade represents an executed trade record. Trades originate either from
// the external trade-entry flow or from converting a suggested trade.
type Trade struct {
	ID               string    `json:"id"`
	PortfolioID      string    `json:"portfolio_id"`
	UserID           string    `json:"user_id"`
	Symbol           string    `json:"symbol"`
	Type             TradeType `json:"type"`
	Quantity         float64   `json:"quantity"`
	Price            float64   `json:"price"`
	Date             time.Time `json:"date"`
	Fees             float64   `json:"fees"`
	Notes            string    `json:"notes"`
	SuggestedTradeID string    `json:"suggested_trade_id,omitempty"`
	Source           string    `json:"source,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
