package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/portfoliogenius/advisor/internal/modules/suggestions"
)

// handleListSuggestions lists a portfolio's suggested trades for the
// requesting user, optionally filtered by status
func (s *Server) handleListSuggestions(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	portfolioID := chi.URLParam(r, "portfolioID")
	status := r.URL.Query().Get("status")

	list, err := s.suggestions.List(portfolioID, id.UserID, status)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if list == nil {
		list = []suggestions.SuggestedTrade{}
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"suggested_trades": list,
		"count":            len(list),
	})
}

// handleConvertSuggestion converts a pending suggestion into an executed trade
func (s *Server) handleConvertSuggestion(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var overrides suggestions.ConvertOverrides
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &overrides); err != nil {
			s.writeError(w, err)
			return
		}
	}

	trade, err := s.suggestions.Convert(chi.URLParam(r, "suggestionID"), id.UserID, overrides)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "Suggested trade converted successfully",
		"trade":     trade,
		"user_id":   id.UserID,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

type dismissRequest struct {
	Reason string `json:"reason"`
}

// handleDismissSuggestion dismisses a pending suggestion
func (s *Server) handleDismissSuggestion(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req dismissRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, err)
			return
		}
	}

	suggestion, err := s.suggestions.Dismiss(chi.URLParam(r, "suggestionID"), id.UserID, req.Reason)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"message":         "Suggested trade dismissed",
		"suggested_trade": suggestion,
		"user_id":         id.UserID,
		"timestamp":       time.Now().Format(time.RFC3339),
	})
}
