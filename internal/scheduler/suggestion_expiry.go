package scheduler

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/portfoliogenius/advisor/internal/modules/suggestions"
)

// SuggestionExpiryJob sweeps pending suggested trades past their expiry.
// Listing queries already exclude expired suggestions, so the sweep only has
// to keep stored statuses honest.
type SuggestionExpiryJob struct {
	log     zerolog.Logger
	service *suggestions.Service
}

// NewSuggestionExpiryJob creates a new suggestion expiry job
func NewSuggestionExpiryJob(service *suggestions.Service, log zerolog.Logger) *SuggestionExpiryJob {
	return &SuggestionExpiryJob{
		log:     log.With().Str("job", "suggestion_expiry").Logger(),
		service: service,
	}
}

// Name returns the job name
func (j *SuggestionExpiryJob) Name() string {
	return "suggestion_expiry"
}

// Run executes the expiry sweep
func (j *SuggestionExpiryJob) Run() error {
	expired, err := j.service.ExpireStale()
	if err != nil {
		return fmt.Errorf("suggestion expiry sweep failed: %w", err)
	}

	if expired > 0 {
		j.log.Info().Int64("expired", expired).Msg("Suggestion expiry sweep completed")
	}

	return nil
}
