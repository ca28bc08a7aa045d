package suggestions

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/portfoliogenius/advisor/pkg/formulas"
)

// Keyword sets for risk-level classification. Whichever set scores strictly
// more matches wins; a tie is medium.
var (
	highRiskKeywords = []string{"crypto", "volatile", "speculative", "growth", "emerging", "small-cap"}
	lowRiskKeywords  = []string{"stable", "dividend", "bond", "conservative", "blue-chip", "utility"}
)

// Deriver turns LLM portfolio recommendations into persisted suggested
// trades. Per-item failures are collected into outcomes, never propagated.
type Deriver struct {
	repo  *Repository
	log   zerolog.Logger
	now   func() time.Time
	newID func() string
}

// NewDeriver creates a deriver backed by the given repository
func NewDeriver(repo *Repository, log zerolog.Logger) *Deriver {
	return &Deriver{
		repo:  repo,
		log:   log.With().Str("component", "deriver").Logger(),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Derive builds and persists suggested trades for each recommendation entry,
// returning one outcome per entry in input order
func (d *Deriver) Derive(portfolioID, userID string, cashBalance float64, recs []Recommendation) []DerivationOutcome {
	outcomes := make([]DerivationOutcome, 0, len(recs))

	for _, rec := range recs {
		symbol := strings.ToUpper(strings.TrimSpace(rec.TickerSymbol))

		if symbol == "" {
			outcomes = append(outcomes, DerivationOutcome{
				Status: OutcomeSkipped,
				Reason: "missing ticker symbol",
			})
			continue
		}
		if rec.AllocationPercent <= 0 {
			outcomes = append(outcomes, DerivationOutcome{
				Symbol: symbol,
				Status: OutcomeSkipped,
				Reason: "allocation percent must be positive",
			})
			continue
		}

		suggestion := d.build(portfolioID, userID, symbol, cashBalance, rec)

		if err := d.repo.Insert(suggestion); err != nil {
			d.log.Error().Err(err).
				Str("symbol", symbol).
				Str("portfolio_id", portfolioID).
				Msg("Failed to persist suggested trade, skipping")
			outcomes = append(outcomes, DerivationOutcome{
				Symbol: symbol,
				Status: OutcomeSkipped,
				Reason: "persistence failure",
			})
			continue
		}

		outcomes = append(outcomes, DerivationOutcome{
			Symbol:           symbol,
			Status:           OutcomeCreated,
			SuggestedTradeID: suggestion.ID,
		})
	}

	return outcomes
}

func (d *Deriver) build(portfolioID, userID, symbol string, cashBalance float64, rec Recommendation) SuggestedTrade {
	rationale := strings.TrimSpace(rec.Rationale)
	notes := strings.TrimSpace(rec.Notes)

	dollarAmount := cashBalance * (rec.AllocationPercent / 100)

	price := ExtractPrice(notes)
	quantity := 0.0
	if price > 0 {
		quantity = formulas.Round2(dollarAmount / price)
	}

	now := d.now()

	return SuggestedTrade{
		ID:                d.newID(),
		PortfolioID:       portfolioID,
		UserID:            userID,
		Symbol:            symbol,
		Name:              symbol,
		Type:              "stock",
		Action:            ActionBuy,
		Quantity:          quantity,
		EstimatedPrice:    price,
		DollarAmount:      dollarAmount,
		AllocationPercent: rec.AllocationPercent,
		Reasoning:         combineReasoning(rationale, notes),
		Priority:          PriorityFor(rec.AllocationPercent),
		RiskLevel:         ClassifyRisk(rationale, notes),
		Status:            StatusPending,
		Source:            SourcePortfolioConstruction,
		CreatedAt:         now,
		ExpiresAt:         now.Add(SuggestionTTL),
	}
}

// ExtractPrice recovers a numeric price from free-text notes by locating the
// substring "price:" (case-insensitive), taking the text up to the next
// comma and stripping a leading currency symbol. Returns 0 when no price can
// be recovered.
func ExtractPrice(notes string) float64 {
	idx := strings.Index(strings.ToLower(notes), "price:")
	if idx < 0 {
		return 0
	}

	fragment := notes[idx+len("price:"):]
	if comma := strings.Index(fragment, ","); comma >= 0 {
		fragment = fragment[:comma]
	}
	fragment = strings.TrimSpace(fragment)
	fragment = strings.TrimLeft(fragment, "$€£¥")
	fragment = strings.TrimSpace(fragment)

	price, err := strconv.ParseFloat(fragment, 64)
	if err != nil {
		return 0
	}
	return price
}

// PriorityFor maps an allocation percent onto a priority bucket
func PriorityFor(allocationPercent float64) Priority {
	switch {
	case allocationPercent >= 15:
		return PriorityHigh
	case allocationPercent >= 8:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// ClassifyRisk scores the rationale and notes against the high- and low-risk
// keyword sets
func ClassifyRisk(rationale, notes string) RiskLevel {
	text := strings.ToLower(rationale + " " + notes)

	high := countMatches(text, highRiskKeywords)
	low := countMatches(text, lowRiskKeywords)

	switch {
	case high > low:
		return RiskHigh
	case low > high:
		return RiskLow
	default:
		return RiskMedium
	}
}

func countMatches(text string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			count++
		}
	}
	return count
}

// combineReasoning joins rationale and notes with ". " and trims the result,
// so a blank part leaves the separator behind ("thesis." / ". details")
func combineReasoning(rationale, notes string) string {
	if rationale == "" && notes == "" {
		return DefaultReasoning
	}
	return strings.TrimSpace(rationale + ". " + notes)
}
