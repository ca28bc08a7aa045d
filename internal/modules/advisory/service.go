package advisory

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/portfoliogenius/advisor/internal/apierr"
	"github.com/portfoliogenius/advisor/internal/modules/portfolio"
	"github.com/portfoliogenius/advisor/internal/modules/suggestions"
	"github.com/portfoliogenius/advisor/internal/modules/trading"
)

// recentTradeWindow is how many recent trades feed one analysis
const recentTradeWindow = 10

// Service runs advisory analyses and persists their results
type Service struct {
	engine         *Engine
	portfolioRepo  *portfolio.PortfolioRepository
	positionRepo   *portfolio.PositionRepository
	tradeRepo      *trading.TradeRepository
	suggestionRepo *suggestions.Repository
	log            zerolog.Logger
	now            func() time.Time
}

// NewService creates an advisory service
func NewService(
	engine *Engine,
	portfolioRepo *portfolio.PortfolioRepository,
	positionRepo *portfolio.PositionRepository,
	tradeRepo *trading.TradeRepository,
	suggestionRepo *suggestions.Repository,
	log zerolog.Logger,
) *Service {
	return &Service{
		engine:         engine,
		portfolioRepo:  portfolioRepo,
		positionRepo:   positionRepo,
		tradeRepo:      tradeRepo,
		suggestionRepo: suggestionRepo,
		log:            log.With().Str("service", "advisory").Logger(),
		now:            time.Now,
	}
}

// Advise analyzes the portfolio, appends the sampled suggestions as pending
// suggested trades in one transaction, and writes the advisory fields back
// onto the portfolio
func (s *Service) Advise(portfolioID, userID string) (*PortfolioAdvice, error) {
	p, err := s.portfolioRepo.Get(portfolioID)
	if err != nil {
		return nil, apierr.Wrap(apierr.Persistence, "failed to load portfolio", err)
	}
	if p == nil {
		return nil, apierr.Newf(apierr.NotFound, "portfolio %s not found", portfolioID)
	}
	if p.UserID != userID {
		return nil, apierr.New(apierr.Authorization, "portfolio belongs to another user")
	}

	positions, err := s.positionRepo.ListByPortfolio(portfolioID)
	if err != nil {
		return nil, apierr.Wrap(apierr.Persistence, "failed to load positions", err)
	}
	recentTrades, err := s.tradeRepo.ListRecent(portfolioID, recentTradeWindow)
	if err != nil {
		return nil, apierr.Wrap(apierr.Persistence, "failed to load recent trades", err)
	}

	advice := s.engine.Analyze(p.Goal, positions, recentTrades)

	now := s.now()
	for i := range advice.SuggestedTrades {
		st := &advice.SuggestedTrades[i]
		st.ID = uuid.NewString()
		st.PortfolioID = portfolioID
		st.UserID = userID
		st.Name = st.Symbol
		st.Type = "stock"
		st.Status = suggestions.StatusPending
		st.Source = suggestions.SourceAdvisoryHeuristics
		st.CreatedAt = now
		st.ExpiresAt = now.Add(suggestions.SuggestionTTL)
	}

	if err := s.suggestionRepo.InsertBatch(advice.SuggestedTrades); err != nil {
		return nil, apierr.Wrap(apierr.Persistence, "failed to persist suggested trades", err)
	}

	result := portfolio.AdvisoryResult{
		Advice:               advice.Advice,
		PortfolioScore:       advice.PortfolioScore,
		RiskAssessment:       advice.RiskAssessment,
		DiversificationScore: advice.DiversificationScore,
	}
	if err := s.portfolioRepo.UpdateAdvisory(portfolioID, result); err != nil {
		return nil, apierr.Wrap(apierr.Persistence, "failed to update portfolio advisory fields", err)
	}

	s.log.Info().
		Str("portfolio_id", portfolioID).
		Float64("portfolio_score", advice.PortfolioScore).
		Str("risk_assessment", advice.RiskAssessment).
		Int("suggestions", len(advice.SuggestedTrades)).
		Msg("Advisory analysis completed")

	return &advice, nil
}
