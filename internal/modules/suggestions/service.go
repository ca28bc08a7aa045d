package suggestions

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/portfoliogenius/advisor/internal/apierr"
	"github.com/portfoliogenius/advisor/internal/modules/portfolio"
	"github.com/portfoliogenius/advisor/internal/modules/trading"
)

// SourceConversion tags trades created by converting a suggestion
const SourceConversion = "suggested_trade_conversion"

// Service coordinates suggestion derivation and lifecycle transitions
type Service struct {
	repo          *Repository
	deriver       *Deriver
	tradeRepo     *trading.TradeRepository
	portfolioRepo *portfolio.PortfolioRepository
	log           zerolog.Logger
	now           func() time.Time
}

// NewService creates a suggestion service
func NewService(
	repo *Repository,
	deriver *Deriver,
	tradeRepo *trading.TradeRepository,
	portfolioRepo *portfolio.PortfolioRepository,
	log zerolog.Logger,
) *Service {
	return &Service{
		repo:          repo,
		deriver:       deriver,
		tradeRepo:     tradeRepo,
		portfolioRepo: portfolioRepo,
		log:           log.With().Str("service", "suggestions").Logger(),
		now:           time.Now,
	}
}

// DeriveForPortfolio resolves the portfolio's current cash balance and runs
// the deriver over the recommendation entries. The dollar amounts are always
// computed against the stored cash balance, never against figures the LLM
// reported about itself. A missing or foreign portfolio falls back to a
// fixed balance rather than failing the whole construction flow.
func (s *Service) DeriveForPortfolio(portfolioID, userID string, recs []Recommendation) ([]DerivationOutcome, error) {
	cashBalance := FallbackCashBalance

	p, err := s.portfolioRepo.Get(portfolioID)
	if err != nil {
		return nil, apierr.Wrap(apierr.Persistence, "failed to load portfolio", err)
	}
	if p != nil && p.UserID == userID {
		cashBalance = p.CashBalance
	} else {
		s.log.Warn().
			Str("portfolio_id", portfolioID).
			Msg("Portfolio not resolvable for user, using fallback cash balance")
	}

	return s.deriver.Derive(portfolioID, userID, cashBalance, recs), nil
}

// List returns a portfolio's suggestions for the requesting user, excluding
// expired ones, optionally narrowed by status
func (s *Service) List(portfolioID, userID, status string) ([]SuggestedTrade, error) {
	filter := ListFilter{UserID: userID}

	if status != "" {
		parsed, err := parseStatus(status)
		if err != nil {
			return nil, apierr.Wrap(apierr.Validation, "invalid status filter", err)
		}
		filter.Status = parsed
	}

	list, err := s.repo.ListByPortfolio(portfolioID, filter, s.now())
	if err != nil {
		return nil, apierr.Wrap(apierr.Persistence, "failed to list suggested trades", err)
	}
	return list, nil
}

// Convert executes a pending suggestion as a trade. Override fields fill in
// for the suggestion's own stored values when absent. A suggestion converts
// at most once.
func (s *Service) Convert(id, userID string, overrides ConvertOverrides) (*trading.Trade, error) {
	suggestion, err := s.lookupOwned(id, userID)
	if err != nil {
		return nil, err
	}
	if suggestion.Status != StatusPending {
		return nil, apierr.Newf(apierr.Validation,
			"suggested trade is %s and can no longer be converted", suggestion.Status)
	}

	quantity := suggestion.Quantity
	if overrides.Quantity != nil {
		quantity = *overrides.Quantity
	}
	price := suggestion.EstimatedPrice
	if overrides.Price != nil {
		price = *overrides.Price
	}
	fees := 0.0
	if overrides.Fees != nil {
		fees = *overrides.Fees
	}
	notes := strings.TrimSpace(overrides.Notes)
	if notes == "" {
		notes = fmt.Sprintf("Executed from suggested trade: %s", suggestion.Reasoning)
	}

	now := s.now()
	trade := trading.Trade{
		ID:               uuid.NewString(),
		PortfolioID:      suggestion.PortfolioID,
		UserID:           userID,
		Symbol:           suggestion.Symbol,
		Type:             tradeTypeFor(suggestion.Action),
		Quantity:         quantity,
		Price:            price,
		Date:             now,
		Fees:             fees,
		Notes:            notes,
		SuggestedTradeID: suggestion.ID,
		Source:           SourceConversion,
	}

	if err := s.tradeRepo.Create(trade); err != nil {
		return nil, apierr.Wrap(apierr.Persistence, "failed to record trade", err)
	}
	if err := s.repo.MarkConverted(suggestion.ID, trade.ID, now); err != nil {
		return nil, apierr.Wrap(apierr.Persistence, "failed to update suggested trade", err)
	}

	return &trade, nil
}

// Dismiss marks a pending suggestion dismissed. A blank reason is stored as
// the empty string, i.e. not stored at all.
func (s *Service) Dismiss(id, userID, reason string) (*SuggestedTrade, error) {
	suggestion, err := s.lookupOwned(id, userID)
	if err != nil {
		return nil, err
	}
	if suggestion.Status != StatusPending {
		return nil, apierr.Newf(apierr.Validation,
			"suggested trade is %s and can no longer be dismissed", suggestion.Status)
	}

	now := s.now()
	trimmed := strings.TrimSpace(reason)

	if err := s.repo.MarkDismissed(suggestion.ID, trimmed, now); err != nil {
		return nil, apierr.Wrap(apierr.Persistence, "failed to update suggested trade", err)
	}

	suggestion.Status = StatusDismissed
	suggestion.DismissalReason = trimmed
	suggestion.DismissedAt = now
	return suggestion, nil
}

// ExpireStale flips all pending suggestions past their expiry; used by the
// scheduled sweep
func (s *Service) ExpireStale() (int64, error) {
	return s.repo.ExpirePending(s.now())
}

// lookupOwned fetches a suggestion by its globally unique id and verifies
// ownership. Suggestion ids are UUIDs, so the id alone identifies the record
// without knowing the parent portfolio.
func (s *Service) lookupOwned(id, userID string) (*SuggestedTrade, error) {
	suggestion, err := s.repo.GetByID(id)
	if err != nil {
		return nil, apierr.Wrap(apierr.Persistence, "failed to load suggested trade", err)
	}
	if suggestion == nil {
		return nil, apierr.Newf(apierr.NotFound, "suggested trade %s not found", id)
	}
	if suggestion.UserID != userID {
		return nil, apierr.New(apierr.Authorization, "suggested trade belongs to another user")
	}
	return suggestion, nil
}

func tradeTypeFor(action Action) trading.TradeType {
	if action == ActionSell || action == ActionReduce {
		return trading.TradeTypeSell
	}
	return trading.TradeTypeBuy
}

func parseStatus(value string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case StatusPending:
		return StatusPending, nil
	case StatusConverted:
		return StatusConverted, nil
	case StatusDismissed:
		return StatusDismissed, nil
	case StatusExpired:
		return StatusExpired, nil
	default:
		return "", fmt.Errorf("unknown status: %q", value)
	}
}
