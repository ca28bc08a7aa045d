package portfolio

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// PositionRepository handles position database operations. Positions are
// created by the external trade-execution flow, so this repository is
// read-mostly; Create exists for that flow and for test fixtures.
type PositionRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewPositionRepository creates a new position repository
func NewPositionRepository(db *sql.DB, log zerolog.Logger) *PositionRepository {
	return &PositionRepository{
		db:  db,
		log: log.With().Str("repo", "position").Logger(),
	}
}

// ListByPortfolio returns all positions for a portfolio
func (r *PositionRepository) ListByPortfolio(portfolioID string) ([]Position, error) {
	query := `
		SELECT id, portfolio_id, symbol, name, quantity, open_price,
		       current_price, type, status, total_value, gain_loss,
		       gain_loss_percent
		FROM positions WHERE portfolio_id = ?
	`

	rows, err := r.db.Query(query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var positions []Position
	for rows.Next() {
		var p Position
		err := rows.Scan(
			&p.ID,
			&p.PortfolioID,
			&p.Symbol,
			&p.Name,
			&p.Quantity,
			&p.OpenPrice,
			&p.CurrentPrice,
			&p.Type,
			&p.Status,
			&p.TotalValue,
			&p.GainLoss,
			&p.GainLossPercent,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}

	return positions, nil
}

// Create inserts a position record
func (r *PositionRepository) Create(p Position) error {
	query := `
		INSERT INTO positions
		(id, portfolio_id, symbol, name, quantity, open_price, current_price,
		 type, status, total_value, gain_loss, gain_loss_percent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		p.ID,
		p.PortfolioID,
		p.Symbol,
		p.Name,
		p.Quantity,
		p.OpenPrice,
		p.CurrentPrice,
		string(p.Type),
		p.Status,
		p.TotalValue,
		p.GainLoss,
		p.GainLossPercent,
	)
	if err != nil {
		return fmt.Errorf("failed to create position: %w", err)
	}

	return nil
}
