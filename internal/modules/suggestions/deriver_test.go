package suggestions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfoliogenius/advisor/internal/database"
	"github.com/portfoliogenius/advisor/pkg/logger"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate())

	return NewRepository(db.Conn(), logger.New(logger.Config{Level: "disabled"}))
}

func newTestDeriver(t *testing.T, repo *Repository) *Deriver {
	t.Helper()

	log := logger.New(logger.Config{Level: "disabled"})
	d := NewDeriver(repo, log)
	d.now = func() time.Time {
		return time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	}
	return d
}

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		name  string
		notes string
		want  float64
	}{
		{
			name:  "dollar price before comma",
			notes: "Current price: $195.50, P/E ratio: 28.1",
			want:  195.50,
		},
		{
			name:  "no price substring",
			notes: "Strong fundamentals with consistent revenue growth",
			want:  0,
		},
		{
			name:  "price without currency symbol",
			notes: "price: 42.75, trading near support",
			want:  42.75,
		},
		{
			name:  "uppercase marker",
			notes: "Current PRICE: $12.00",
			want:  12.00,
		},
		{
			name:  "unparseable fragment",
			notes: "price: unknown, awaiting earnings",
			want:  0,
		},
		{
			name:  "empty notes",
			notes: "",
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPrice(tt.notes))
		})
	}
}

func TestPriorityFor_Boundaries(t *testing.T) {
	tests := []struct {
		allocation float64
		want       Priority
	}{
		{15.0, PriorityHigh},
		{14.999, PriorityMedium},
		{8.0, PriorityMedium},
		{7.999, PriorityLow},
		{50.0, PriorityHigh},
		{0.5, PriorityLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PriorityFor(tt.allocation), "allocation %v", tt.allocation)
	}
}

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		name      string
		rationale string
		notes     string
		want      RiskLevel
	}{
		{
			name:      "no keywords is medium",
			rationale: "Solid company",
			notes:     "trading sideways",
			want:      RiskMedium,
		},
		{
			name:      "high keywords win",
			rationale: "Volatile speculative growth play",
			notes:     "crypto adjacent",
			want:      RiskHigh,
		},
		{
			name:      "low keywords win",
			rationale: "Stable dividend payer",
			notes:     "conservative blue-chip utility holding",
			want:      RiskLow,
		},
		{
			name:      "equal nonzero counts tie to medium",
			rationale: "growth with stable cash flows",
			notes:     "",
			want:      RiskMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRisk(tt.rationale, tt.notes))
		})
	}
}

func TestDeriver_Derive_QuantityFromNotesPrice(t *testing.T) {
	repo := newTestRepo(t)
	d := newTestDeriver(t, repo)

	outcomes := d.Derive("port-1", "user-1", 10000, []Recommendation{
		{
			TickerSymbol:      "aapl ",
			AllocationPercent: 15.0,
			Rationale:         "Market leader in technology",
			Notes:             "Current price: $195.50, P/E ratio: 28.1",
		},
	})

	require.Len(t, outcomes, 1)
	assert.Equal(t, OutcomeCreated, outcomes[0].Status)
	assert.Equal(t, "AAPL", outcomes[0].Symbol)

	stored, err := repo.GetByID(outcomes[0].SuggestedTradeID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Equal(t, "AAPL", stored.Symbol)
	assert.Equal(t, ActionBuy, stored.Action)
	assert.Equal(t, "stock", stored.Type)
	assert.Equal(t, StatusPending, stored.Status)
	assert.Equal(t, SourcePortfolioConstruction, stored.Source)
	assert.InDelta(t, 1500.0, stored.DollarAmount, 1e-9)
	assert.Equal(t, 195.50, stored.EstimatedPrice)
	assert.Equal(t, 7.67, stored.Quantity)
	assert.Equal(t, PriorityHigh, stored.Priority)
	assert.Equal(t, "Market leader in technology. Current price: $195.50, P/E ratio: 28.1", stored.Reasoning)
	assert.Equal(t, stored.CreatedAt.Add(7*24*time.Hour), stored.ExpiresAt)
}

func TestDeriver_Derive_NoPriceMeansZeroQuantity(t *testing.T) {
	repo := newTestRepo(t)
	d := newTestDeriver(t, repo)

	outcomes := d.Derive("port-1", "user-1", 8000, []Recommendation{
		{
			TickerSymbol:      "VTI",
			AllocationPercent: 10,
			Rationale:         "Broad market exposure",
			Notes:             "Low expense ratio",
		},
	})

	require.Len(t, outcomes, 1)
	stored, err := repo.GetByID(outcomes[0].SuggestedTradeID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Zero(t, stored.Quantity)
	assert.Zero(t, stored.EstimatedPrice)
	assert.InDelta(t, 800.0, stored.DollarAmount, 1e-9)
}

func TestDeriver_Derive_SkipsInvalidEntries(t *testing.T) {
	repo := newTestRepo(t)
	d := newTestDeriver(t, repo)

	outcomes := d.Derive("port-1", "user-1", 10000, []Recommendation{
		{TickerSymbol: "   ", AllocationPercent: 20},
		{TickerSymbol: "MSFT", AllocationPercent: 0},
		{TickerSymbol: "TSLA", AllocationPercent: -5},
		{TickerSymbol: "JNJ", AllocationPercent: 12, Rationale: "Defensive healthcare"},
	})

	require.Len(t, outcomes, 4)
	assert.Equal(t, OutcomeSkipped, outcomes[0].Status)
	assert.Equal(t, "missing ticker symbol", outcomes[0].Reason)
	assert.Equal(t, OutcomeSkipped, outcomes[1].Status)
	assert.Equal(t, OutcomeSkipped, outcomes[2].Status)
	assert.Equal(t, OutcomeCreated, outcomes[3].Status)

	assert.Equal(t, 1, CreatedCount(outcomes))

	list, err := repo.ListByPortfolio("port-1", ListFilter{}, time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "JNJ", list[0].Symbol)
}

func TestDeriver_Derive_DollarAmountExact(t *testing.T) {
	repo := newTestRepo(t)
	d := newTestDeriver(t, repo)

	cash := 12345.67
	allocations := []float64{7.5, 15.0, 33.33}

	recs := make([]Recommendation, 0, len(allocations))
	for _, a := range allocations {
		recs = append(recs, Recommendation{TickerSymbol: "VTI", AllocationPercent: a})
	}

	outcomes := d.Derive("port-1", "user-1", cash, recs)
	require.Len(t, outcomes, len(allocations))

	for i, o := range outcomes {
		stored, err := repo.GetByID(o.SuggestedTradeID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.InDelta(t, cash*allocations[i]/100, stored.DollarAmount, 1e-9)
		assert.Equal(t, allocations[i], stored.AllocationPercent)
	}
}

func TestCombineReasoning(t *testing.T) {
	assert.Equal(t, "a. b", combineReasoning("a", "b"))
	assert.Equal(t, "a.", combineReasoning("a", ""))
	assert.Equal(t, ". b", combineReasoning("", "b"))
	assert.Equal(t, DefaultReasoning, combineReasoning("", ""))
}

func TestDeriver_Derive_PersistsWithoutPortfolioRecord(t *testing.T) {
	repo := newTestRepo(t)
	d := newTestDeriver(t, repo)

	// No portfolios row exists for this id; the suggestion must land anyway
	outcomes := d.Derive("never-created", "user-1", 10000, []Recommendation{
		{TickerSymbol: "VTI", AllocationPercent: 10},
	})

	require.Len(t, outcomes, 1)
	assert.Equal(t, OutcomeCreated, outcomes[0].Status)

	stored, err := repo.GetByID(outcomes[0].SuggestedTradeID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "never-created", stored.PortfolioID)
}
