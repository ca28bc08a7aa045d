package trading

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// TradeRepository handles trade database operations
type TradeRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewTradeRepository creates a new trade repository
func NewTradeRepository(db *sql.DB, log zerolog.Logger) *TradeRepository {
	return &TradeRepository{
		db:  db,
		log: log.With().Str("repo", "trade").Logger(),
	}
}

// Create inserts a new trade record
func (r *TradeRepository) Create(trade Trade) error {
	now := time.Now().Format(time.RFC3339)

	query := `
		INSERT INTO trades
		(id, portfolio_id, user_id, symbol, type, quantity, price, date,
		 fees, notes, suggested_trade_id, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		trade.ID,
		trade.PortfolioID,
		trade.UserID,
		strings.ToUpper(strings.TrimSpace(trade.Symbol)),
		string(trade.Type),
		trade.Quantity,
		trade.Price,
		trade.Date.Format(time.RFC3339),
		trade.Fees,
		trade.Notes,
		trade.SuggestedTradeID,
		trade.Source,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}

	r.log.Info().
		Str("trade_id", trade.ID).
		Str("symbol", trade.Symbol).
		Str("type", string(trade.Type)).
		Float64("quantity", trade.Quantity).
		Msg("Trade created")

	return nil
}

// GetByID retrieves a trade by id, or nil when it does not exist
func (r *TradeRepository) GetByID(id string) (*Trade, error) {
	query := `
		SELECT id, portfolio_id, user_id, symbol, type, quantity, price,
		       date, fees, notes, suggested_trade_id, source, created_at
		FROM trades WHERE id = ?
	`

	row := r.db.QueryRow(query, id)
	trade, err := r.scanTrade(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}

	return &trade, nil
}

// ListRecent returns the most recent trades for a portfolio, newest first
func (r *TradeRepository) ListRecent(portfolioID string, limit int) ([]Trade, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, portfolio_id, user_id, symbol, type, quantity, price,
		       date, fees, notes, suggested_trade_id, source, created_at
		FROM trades
		WHERE portfolio_id = ?
		ORDER BY date DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, portfolioID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []Trade
	for rows.Next() {
		trade, err := r.scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}

	return trades, nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func (r *TradeRepository) scanTrade(row scanner) (Trade, error) {
	var trade Trade
	var tradeType, date, createdAt string

	err := row.Scan(
		&trade.ID,
		&trade.PortfolioID,
		&trade.UserID,
		&trade.Symbol,
		&tradeType,
		&trade.Quantity,
		&trade.Price,
		&date,
		&trade.Fees,
		&trade.Notes,
		&trade.SuggestedTradeID,
		&trade.Source,
		&createdAt,
	)
	if err != nil {
		return trade, err
	}

	trade.Type = TradeType(tradeType)
	trade.Date = parseTime(date)
	trade.CreatedAt = parseTime(createdAt)

	return trade, nil
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
