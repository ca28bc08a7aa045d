package portfolio

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// PortfolioRepository handles portfolio database operations
type PortfolioRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewPortfolioRepository creates a new portfolio repository
func NewPortfolioRepository(db *sql.DB, log zerolog.Logger) *PortfolioRepository {
	return &PortfolioRepository{
		db:  db,
		log: log.With().Str("repo", "portfolio").Logger(),
	}
}

// Get returns a portfolio by id, or nil when it does not exist
func (r *PortfolioRepository) Get(id string) (*Portfolio, error) {
	query := `
		SELECT id, user_id, goal, cash_balance, advice, portfolio_score,
		       risk_assessment, diversification_score, last_advisory_date,
		       created_at, updated_at
		FROM portfolios WHERE id = ?
	`

	var p Portfolio
	var lastAdvisory, createdAt, updatedAt string
	err := r.db.QueryRow(query, id).Scan(
		&p.ID,
		&p.UserID,
		&p.Goal,
		&p.CashBalance,
		&p.Advice,
		&p.PortfolioScore,
		&p.RiskAssessment,
		&p.DiversificationScore,
		&lastAdvisory,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}

	p.LastAdvisoryDate = parseTime(lastAdvisory)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)

	return &p, nil
}

// Create inserts a new portfolio record
func (r *PortfolioRepository) Create(p Portfolio) error {
	now := time.Now().Format(time.RFC3339)

	query := `
		INSERT INTO portfolios
		(id, user_id, goal, cash_balance, advice, portfolio_score,
		 risk_assessment, diversification_score, last_advisory_date,
		 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		p.ID,
		p.UserID,
		p.Goal,
		p.CashBalance,
		p.Advice,
		p.PortfolioScore,
		p.RiskAssessment,
		p.DiversificationScore,
		formatTime(p.LastAdvisoryDate),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create portfolio: %w", err)
	}

	r.log.Info().Str("portfolio_id", p.ID).Msg("Portfolio created")
	return nil
}

// UpdateAdvisory writes the advisory fields back onto the portfolio
func (r *PortfolioRepository) UpdateAdvisory(id string, result AdvisoryResult) error {
	now := time.Now().Format(time.RFC3339)

	query := `
		UPDATE portfolios
		SET advice = ?, portfolio_score = ?, risk_assessment = ?,
		    diversification_score = ?, last_advisory_date = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := r.db.Exec(query,
		result.Advice,
		result.PortfolioScore,
		result.RiskAssessment,
		result.DiversificationScore,
		now,
		now,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update portfolio advisory fields: %w", err)
	}

	r.log.Info().Str("portfolio_id", id).Msg("Portfolio advisory updated")
	return nil
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

// formatTime formats a time as RFC3339, returning '' for the zero time
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
