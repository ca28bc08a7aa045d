package advisory

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfoliogenius/advisor/internal/apierr"
	"github.com/portfoliogenius/advisor/internal/database"
	"github.com/portfoliogenius/advisor/internal/modules/portfolio"
	"github.com/portfoliogenius/advisor/internal/modules/suggestions"
	"github.com/portfoliogenius/advisor/internal/modules/trading"
	"github.com/portfoliogenius/advisor/pkg/logger"
)

type advisoryFixture struct {
	service        *Service
	portfolioRepo  *portfolio.PortfolioRepository
	positionRepo   *portfolio.PositionRepository
	suggestionRepo *suggestions.Repository
	suggestionSvc  *suggestions.Service
}

func newAdvisoryFixture(t *testing.T) *advisoryFixture {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	log := logger.New(logger.Config{Level: "disabled"})
	portfolioRepo := portfolio.NewPortfolioRepository(db.Conn(), log)
	positionRepo := portfolio.NewPositionRepository(db.Conn(), log)
	tradeRepo := trading.NewTradeRepository(db.Conn(), log)
	suggestionRepo := suggestions.NewRepository(db.Conn(), log)

	deriver := suggestions.NewDeriver(suggestionRepo, log)
	suggestionSvc := suggestions.NewService(suggestionRepo, deriver, tradeRepo, portfolioRepo, log)

	engine := NewEngine(rand.New(rand.NewSource(11)))
	service := NewService(engine, portfolioRepo, positionRepo, tradeRepo, suggestionRepo, log)

	return &advisoryFixture{
		service:        service,
		portfolioRepo:  portfolioRepo,
		positionRepo:   positionRepo,
		suggestionRepo: suggestionRepo,
		suggestionSvc:  suggestionSvc,
	}
}

func TestService_Advise_PersistsAdviceAndSuggestions(t *testing.T) {
	f := newAdvisoryFixture(t)
	require.NoError(t, f.portfolioRepo.Create(portfolio.Portfolio{
		ID:          "port-1",
		UserID:      "user-1",
		Goal:        "moderate long-term growth",
		CashBalance: 10000,
	}))
	require.NoError(t, f.positionRepo.Create(portfolio.Position{
		ID:              "pos-1",
		PortfolioID:     "port-1",
		Symbol:          "AAPL",
		Type:            portfolio.PositionTypeStock,
		TotalValue:      1750,
		GainLossPercent: 16.67,
	}))

	advice, err := f.service.Advise("port-1", "user-1")
	require.NoError(t, err)
	require.NotNil(t, advice)

	assert.NotEmpty(t, advice.Advice)
	assert.Len(t, advice.SuggestedTrades, 3)
	assert.Equal(t, "low", advice.RiskAssessment)

	// Suggestions were appended as pending with full provenance
	list, err := f.suggestionSvc.List("port-1", "user-1", "pending")
	require.NoError(t, err)
	require.Len(t, list, 3)
	for _, st := range list {
		assert.Equal(t, suggestions.SourceAdvisoryHeuristics, st.Source)
		assert.NotEmpty(t, st.ID)
		assert.False(t, st.ExpiresAt.IsZero())
	}

	// Advisory fields landed on the portfolio
	p, err := f.portfolioRepo.Get("port-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, advice.Advice, p.Advice)
	assert.InDelta(t, advice.PortfolioScore, p.PortfolioScore, 1e-9)
	assert.Equal(t, advice.RiskAssessment, p.RiskAssessment)
	assert.False(t, p.LastAdvisoryDate.IsZero())
}

func TestService_Advise_ErrorKinds(t *testing.T) {
	f := newAdvisoryFixture(t)
	require.NoError(t, f.portfolioRepo.Create(portfolio.Portfolio{
		ID:     "port-1",
		UserID: "user-1",
		Goal:   "growth",
	}))

	tests := []struct {
		name        string
		portfolioID string
		userID      string
		want        apierr.Kind
	}{
		{"unknown portfolio", "ghost", "user-1", apierr.NotFound},
		{"foreign portfolio", "port-1", "intruder", apierr.Authorization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Advise(tt.portfolioID, tt.userID)
			require.Error(t, err)

			var apiErr *apierr.Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.want, apiErr.Kind)
		})
	}
}
