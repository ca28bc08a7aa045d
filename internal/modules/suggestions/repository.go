package suggestions

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const suggestionColumns = `id, portfolio_id, user_id, symbol, name, type, action,
	quantity, estimated_price, dollar_amount, allocation_percent, reasoning,
	priority, risk_level, status, source, dismissal_reason, converted_trade_id,
	created_at, expires_at, converted_at, dismissed_at`

// Repository handles suggested trade database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new suggested trade repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "suggestions").Logger(),
	}
}

// Insert persists a single suggested trade
func (r *Repository) Insert(s SuggestedTrade) error {
	if err := insertSuggestion(r.db, s); err != nil {
		return fmt.Errorf("failed to insert suggested trade: %w", err)
	}

	r.log.Info().
		Str("suggestion_id", s.ID).
		Str("symbol", s.Symbol).
		Str("portfolio_id", s.PortfolioID).
		Msg("Suggested trade created")

	return nil
}

// InsertBatch persists a set of suggested trades in one transaction. Either
// all records land or none do.
func (r *Repository) InsertBatch(batch []SuggestedTrade) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, s := range batch {
		if err := insertSuggestion(tx, s); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert suggested trade %s: %w", s.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit suggested trades: %w", err)
	}

	r.log.Info().Int("count", len(batch)).Msg("Suggested trades created")
	return nil
}

// execer covers both *sql.DB and *sql.Tx
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func insertSuggestion(e execer, s SuggestedTrade) error {
	query := `
		INSERT INTO suggested_trades (` + suggestionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := e.Exec(query,
		s.ID,
		s.PortfolioID,
		s.UserID,
		s.Symbol,
		s.Name,
		s.Type,
		string(s.Action),
		s.Quantity,
		s.EstimatedPrice,
		s.DollarAmount,
		s.AllocationPercent,
		s.Reasoning,
		string(s.Priority),
		string(s.RiskLevel),
		string(s.Status),
		s.Source,
		s.DismissalReason,
		s.ConvertedTradeID,
		formatTime(s.CreatedAt),
		formatTime(s.ExpiresAt),
		formatTime(s.ConvertedAt),
		formatTime(s.DismissedAt),
	)
	return err
}

// GetByID returns a suggested trade by id, or nil when it does not exist
func (r *Repository) GetByID(id string) (*SuggestedTrade, error) {
	query := `SELECT ` + suggestionColumns + ` FROM suggested_trades WHERE id = ?`

	row := r.db.QueryRow(query, id)
	s, err := scanSuggestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get suggested trade: %w", err)
	}

	return &s, nil
}

// ListFilter narrows a portfolio suggestion listing
type ListFilter struct {
	UserID string
	Status Status
}

// ListByPortfolio returns a portfolio's suggestions newest first. Pending
// suggestions whose expiry has passed are excluded even before the sweep job
// flips their status, and swept (expired) rows stay out unless the caller
// asks for them by status.
func (r *Repository) ListByPortfolio(portfolioID string, filter ListFilter, now time.Time) ([]SuggestedTrade, error) {
	query := `
		SELECT ` + suggestionColumns + `
		FROM suggested_trades
		WHERE portfolio_id = ?
		  AND NOT (status = 'pending' AND expires_at != '' AND expires_at <= ?)
	`
	args := []interface{}{portfolioID, formatTime(now.UTC())}

	if filter.Status != StatusExpired {
		query += " AND status != 'expired'"
	}
	if filter.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, filter.UserID)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggested trades: %w", err)
	}
	defer rows.Close()

	var suggestions []SuggestedTrade
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan suggested trade: %w", err)
		}
		suggestions = append(suggestions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suggested trades: %w", err)
	}

	return suggestions, nil
}

// MarkConverted flips a pending suggestion to converted and links the
// executed trade
func (r *Repository) MarkConverted(id, tradeID string, at time.Time) error {
	query := `
		UPDATE suggested_trades
		SET status = 'converted', converted_trade_id = ?, converted_at = ?
		WHERE id = ?
	`

	_, err := r.db.Exec(query, tradeID, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("failed to mark suggested trade converted: %w", err)
	}

	r.log.Info().Str("suggestion_id", id).Str("trade_id", tradeID).Msg("Suggested trade converted")
	return nil
}

// MarkDismissed flips a pending suggestion to dismissed
func (r *Repository) MarkDismissed(id, reason string, at time.Time) error {
	query := `
		UPDATE suggested_trades
		SET status = 'dismissed', dismissal_reason = ?, dismissed_at = ?
		WHERE id = ?
	`

	_, err := r.db.Exec(query, reason, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("failed to mark suggested trade dismissed: %w", err)
	}

	r.log.Info().Str("suggestion_id", id).Msg("Suggested trade dismissed")
	return nil
}

// ExpirePending flips all pending suggestions past their expiry to expired
// and returns how many were affected
func (r *Repository) ExpirePending(now time.Time) (int64, error) {
	query := `
		UPDATE suggested_trades
		SET status = 'expired'
		WHERE status = 'pending' AND expires_at != '' AND expires_at <= ?
	`

	result, err := r.db.Exec(query, formatTime(now.UTC()))
	if err != nil {
		return 0, fmt.Errorf("failed to expire suggested trades: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected > 0 {
		r.log.Info().Int64("count", affected).Msg("Expired stale suggested trades")
	}

	return affected, nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSuggestion(row scanner) (SuggestedTrade, error) {
	var s SuggestedTrade
	var action, priority, riskLevel, status string
	var createdAt, expiresAt, convertedAt, dismissedAt string

	err := row.Scan(
		&s.ID,
		&s.PortfolioID,
		&s.UserID,
		&s.Symbol,
		&s.Name,
		&s.Type,
		&action,
		&s.Quantity,
		&s.EstimatedPrice,
		&s.DollarAmount,
		&s.AllocationPercent,
		&s.Reasoning,
		&priority,
		&riskLevel,
		&status,
		&s.Source,
		&s.DismissalReason,
		&s.ConvertedTradeID,
		&createdAt,
		&expiresAt,
		&convertedAt,
		&dismissedAt,
	)
	if err != nil {
		return s, err
	}

	s.Action = Action(action)
	s.Priority = Priority(priority)
	s.RiskLevel = RiskLevel(riskLevel)
	s.Status = Status(status)
	s.CreatedAt = parseTime(createdAt)
	s.ExpiresAt = parseTime(expiresAt)
	s.ConvertedAt = parseTime(convertedAt)
	s.DismissedAt = parseTime(dismissedAt)

	return s, nil
}

// parseTime parses a stored RFC3339 string, returning the zero time for ''
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

// formatTime formats a time as RFC3339 UTC, returning '' for the zero time.
// Storing UTC keeps the strings lexicographically comparable in SQL.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
