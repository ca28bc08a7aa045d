package suggestions

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfoliogenius/advisor/internal/apierr"
	"github.com/portfoliogenius/advisor/internal/database"
	"github.com/portfoliogenius/advisor/internal/modules/portfolio"
	"github.com/portfoliogenius/advisor/internal/modules/trading"
	"github.com/portfoliogenius/advisor/pkg/logger"
)

type serviceFixture struct {
	service       *Service
	repo          *Repository
	tradeRepo     *trading.TradeRepository
	portfolioRepo *portfolio.PortfolioRepository
	now           time.Time
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	log := logger.New(logger.Config{Level: "disabled"})
	repo := NewRepository(db.Conn(), log)
	tradeRepo := trading.NewTradeRepository(db.Conn(), log)
	portfolioRepo := portfolio.NewPortfolioRepository(db.Conn(), log)

	deriver := NewDeriver(repo, log)
	service := NewService(repo, deriver, tradeRepo, portfolioRepo, log)

	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	return &serviceFixture{
		service:       service,
		repo:          repo,
		tradeRepo:     tradeRepo,
		portfolioRepo: portfolioRepo,
		now:           now,
	}
}

func (f *serviceFixture) seedSuggestion(t *testing.T, s SuggestedTrade) SuggestedTrade {
	t.Helper()

	if s.ID == "" {
		s.ID = "sugg-1"
	}
	if s.PortfolioID == "" {
		s.PortfolioID = "port-1"
	}
	if s.UserID == "" {
		s.UserID = "user-1"
	}
	if s.Status == "" {
		s.Status = StatusPending
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = f.now.Add(-time.Hour)
	}
	if s.ExpiresAt.IsZero() {
		s.ExpiresAt = f.now.Add(6 * 24 * time.Hour)
	}

	require.NoError(t, f.repo.Insert(s))
	return s
}

func TestService_Convert_OverrideQuantityKeepsStoredPrice(t *testing.T) {
	f := newServiceFixture(t)
	f.seedSuggestion(t, SuggestedTrade{
		Symbol:         "AAPL",
		Action:         ActionBuy,
		Quantity:       7.67,
		EstimatedPrice: 195.50,
		Reasoning:      "Market leader",
	})

	quantity := 12.0
	trade, err := f.service.Convert("sugg-1", "user-1", ConvertOverrides{Quantity: &quantity})
	require.NoError(t, err)
	require.NotNil(t, trade)

	assert.Equal(t, 12.0, trade.Quantity)
	assert.Equal(t, 195.50, trade.Price)
	assert.Equal(t, 0.0, trade.Fees)
	assert.Equal(t, trading.TradeTypeBuy, trade.Type)
	assert.Equal(t, "Executed from suggested trade: Market leader", trade.Notes)
	assert.Equal(t, "sugg-1", trade.SuggestedTradeID)
	assert.Equal(t, SourceConversion, trade.Source)

	stored, err := f.repo.GetByID("sugg-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, StatusConverted, stored.Status)
	assert.Equal(t, trade.ID, stored.ConvertedTradeID)
	assert.False(t, stored.ConvertedAt.IsZero())

	persisted, err := f.tradeRepo.GetByID(trade.ID)
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, "AAPL", persisted.Symbol)
}

func TestService_Convert_OnlyOnce(t *testing.T) {
	f := newServiceFixture(t)
	f.seedSuggestion(t, SuggestedTrade{Symbol: "AAPL", Quantity: 1, EstimatedPrice: 100, Action: ActionBuy})

	_, err := f.service.Convert("sugg-1", "user-1", ConvertOverrides{})
	require.NoError(t, err)

	_, err = f.service.Convert("sugg-1", "user-1", ConvertOverrides{})
	require.Error(t, err)

	var apiErr *apierr.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apierr.Validation, apiErr.Kind)
}

func TestService_Convert_SellActionProducesSellTrade(t *testing.T) {
	f := newServiceFixture(t)
	f.seedSuggestion(t, SuggestedTrade{Symbol: "TSLA", Action: ActionSell, Quantity: 3, EstimatedPrice: 200})

	trade, err := f.service.Convert("sugg-1", "user-1", ConvertOverrides{})
	require.NoError(t, err)
	assert.Equal(t, trading.TradeTypeSell, trade.Type)
}

func TestService_Convert_ErrorKinds(t *testing.T) {
	f := newServiceFixture(t)
	f.seedSuggestion(t, SuggestedTrade{Symbol: "AAPL", Action: ActionBuy})

	tests := []struct {
		name   string
		id     string
		userID string
		want   apierr.Kind
	}{
		{"unknown id", "missing", "user-1", apierr.NotFound},
		{"foreign user", "sugg-1", "intruder", apierr.Authorization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Convert(tt.id, tt.userID, ConvertOverrides{})
			require.Error(t, err)

			var apiErr *apierr.Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.want, apiErr.Kind)
		})
	}
}

func TestService_Dismiss_BlankReasonStoresNothing(t *testing.T) {
	f := newServiceFixture(t)
	f.seedSuggestion(t, SuggestedTrade{Symbol: "AAPL", Action: ActionBuy})

	dismissed, err := f.service.Dismiss("sugg-1", "user-1", "   ")
	require.NoError(t, err)

	assert.Equal(t, StatusDismissed, dismissed.Status)
	assert.Empty(t, dismissed.DismissalReason)

	stored, err := f.repo.GetByID("sugg-1")
	require.NoError(t, err)
	assert.Equal(t, StatusDismissed, stored.Status)
	assert.Empty(t, stored.DismissalReason)
	assert.False(t, stored.DismissedAt.IsZero())
}

func TestService_Dismiss_TrimsReason(t *testing.T) {
	f := newServiceFixture(t)
	f.seedSuggestion(t, SuggestedTrade{Symbol: "AAPL", Action: ActionBuy})

	dismissed, err := f.service.Dismiss("sugg-1", "user-1", "  too risky  ")
	require.NoError(t, err)
	assert.Equal(t, "too risky", dismissed.DismissalReason)
}

func TestService_List_ExcludesExpired(t *testing.T) {
	f := newServiceFixture(t)
	f.seedSuggestion(t, SuggestedTrade{ID: "live", Symbol: "AAPL", ExpiresAt: f.now.Add(time.Hour)})
	f.seedSuggestion(t, SuggestedTrade{ID: "stale", Symbol: "VTI", ExpiresAt: f.now.Add(-time.Minute)})
	f.seedSuggestion(t, SuggestedTrade{ID: "boundary", Symbol: "JNJ", ExpiresAt: f.now})

	list, err := f.service.List("port-1", "user-1", "")
	require.NoError(t, err)

	require.Len(t, list, 1)
	assert.Equal(t, "live", list[0].ID)
}

func TestService_List_ExcludesSweptExpired(t *testing.T) {
	f := newServiceFixture(t)
	f.seedSuggestion(t, SuggestedTrade{ID: "stale", Symbol: "VTI", ExpiresAt: f.now.Add(-time.Hour)})
	f.seedSuggestion(t, SuggestedTrade{ID: "live", Symbol: "AAPL", ExpiresAt: f.now.Add(time.Hour)})

	swept, err := f.service.ExpireStale()
	require.NoError(t, err)
	require.Equal(t, int64(1), swept)

	// The swept row stays out of unfiltered and pending listings
	list, err := f.service.List("port-1", "user-1", "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "live", list[0].ID)

	pending, err := f.service.List("port-1", "user-1", "pending")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "live", pending[0].ID)

	// Asking for expired rows by status still surfaces them
	expired, err := f.service.List("port-1", "user-1", "expired")
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "stale", expired[0].ID)
}

func TestService_List_StatusFilterAndOrdering(t *testing.T) {
	f := newServiceFixture(t)
	f.seedSuggestion(t, SuggestedTrade{ID: "older", Symbol: "AAPL", CreatedAt: f.now.Add(-3 * time.Hour)})
	f.seedSuggestion(t, SuggestedTrade{ID: "newer", Symbol: "VTI", CreatedAt: f.now.Add(-1 * time.Hour)})
	f.seedSuggestion(t, SuggestedTrade{ID: "done", Symbol: "JNJ", Status: StatusConverted, CreatedAt: f.now.Add(-2 * time.Hour)})

	pending, err := f.service.List("port-1", "user-1", "pending")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "newer", pending[0].ID)
	assert.Equal(t, "older", pending[1].ID)

	converted, err := f.service.List("port-1", "user-1", "converted")
	require.NoError(t, err)
	require.Len(t, converted, 1)
	assert.Equal(t, "done", converted[0].ID)

	_, err = f.service.List("port-1", "user-1", "bogus")
	require.Error(t, err)

	var apiErr *apierr.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apierr.Validation, apiErr.Kind)
}

func TestService_List_ScopedToUser(t *testing.T) {
	f := newServiceFixture(t)
	f.seedSuggestion(t, SuggestedTrade{ID: "mine", Symbol: "AAPL"})
	f.seedSuggestion(t, SuggestedTrade{ID: "theirs", Symbol: "VTI", UserID: "user-2"})

	list, err := f.service.List("port-1", "user-1", "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "mine", list[0].ID)
}

func TestService_ExpireStale(t *testing.T) {
	f := newServiceFixture(t)
	f.seedSuggestion(t, SuggestedTrade{ID: "stale", Symbol: "AAPL", ExpiresAt: f.now.Add(-time.Hour)})
	f.seedSuggestion(t, SuggestedTrade{ID: "live", Symbol: "VTI", ExpiresAt: f.now.Add(time.Hour)})
	f.seedSuggestion(t, SuggestedTrade{ID: "done", Symbol: "JNJ", Status: StatusConverted, ExpiresAt: f.now.Add(-time.Hour)})

	expired, err := f.service.ExpireStale()
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	stale, err := f.repo.GetByID("stale")
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, stale.Status)

	done, err := f.repo.GetByID("done")
	require.NoError(t, err)
	assert.Equal(t, StatusConverted, done.Status)
}

func TestService_DeriveForPortfolio_CashFallback(t *testing.T) {
	f := newServiceFixture(t)

	// No portfolio on file: fall back to the fixed balance
	outcomes, err := f.service.DeriveForPortfolio("ghost", "user-1", []Recommendation{
		{TickerSymbol: "VTI", AllocationPercent: 10},
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	stored, err := f.repo.GetByID(outcomes[0].SuggestedTradeID)
	require.NoError(t, err)
	assert.InDelta(t, FallbackCashBalance*0.10, stored.DollarAmount, 1e-9)
}

func TestService_DeriveForPortfolio_UsesStoredCash(t *testing.T) {
	f := newServiceFixture(t)
	require.NoError(t, f.portfolioRepo.Create(portfolio.Portfolio{
		ID:          "port-1",
		UserID:      "user-1",
		Goal:        "steady growth",
		CashBalance: 25000,
	}))

	outcomes, err := f.service.DeriveForPortfolio("port-1", "user-1", []Recommendation{
		{TickerSymbol: "VTI", AllocationPercent: 20},
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	stored, err := f.repo.GetByID(outcomes[0].SuggestedTradeID)
	require.NoError(t, err)
	assert.InDelta(t, 5000.0, stored.DollarAmount, 1e-9)
}

func TestRepository_RoundTripNeverNull(t *testing.T) {
	f := newServiceFixture(t)

	// Insert with every optional field left at its zero value
	f.seedSuggestion(t, SuggestedTrade{ID: "bare", Symbol: "AAPL", Action: ActionBuy})

	stored, err := f.repo.GetByID("bare")
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Zero(t, stored.Quantity)
	assert.Zero(t, stored.EstimatedPrice)
	assert.Zero(t, stored.DollarAmount)
	assert.Zero(t, stored.AllocationPercent)
	assert.Equal(t, "", stored.Name)
	assert.Equal(t, "", stored.Reasoning)
	assert.Equal(t, "", stored.DismissalReason)
	assert.Equal(t, "", stored.ConvertedTradeID)
}
