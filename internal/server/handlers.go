package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/portfoliogenius/advisor/internal/apierr"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"service": "portfolio-advisor",
	})
}

type stockPriceRequest struct {
	Ticker string `json:"ticker"`
}

// handleStockPrice handles direct stock price lookups
func (s *Server) handleStockPrice(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req stockPriceRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Ticker) == "" {
		s.writeError(w, apierr.New(apierr.Validation, "request body must contain 'ticker' field"))
		return
	}

	quote, err := s.yahoo.GetQuote(r.Context(), req.Ticker)
	if err != nil {
		s.writeError(w, apierr.Wrap(apierr.UpstreamService, "failed to fetch stock price", err))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"data":      quote,
		"user_id":   id.UserID,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleAgentTools reports available agent tools and API key status
func (s *Server) handleAgentTools(w http.ResponseWriter, r *http.Request) {
	if _, err := identity(r); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, s.tools.Describe(r.Context()))
}
