package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/portfoliogenius/advisor/internal/apierr"
	"github.com/portfoliogenius/advisor/internal/modules/suggestions"
)

// defaultGoal stands in when neither the request nor the portfolio carries one
const defaultGoal = "Moderate risk investment portfolio"

type constructRequest struct {
	PortfolioID string `json:"portfolio_id"`
	Goal        string `json:"goal"`
}

// handleConstructPortfolio runs the LLM portfolio construction flow and
// derives suggested trades from its recommendations
func (s *Server) handleConstructPortfolio(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req constructRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if strings.TrimSpace(req.PortfolioID) == "" {
		s.writeError(w, apierr.New(apierr.Validation, "request body must contain 'portfolio_id' field"))
		return
	}

	goal := strings.TrimSpace(req.Goal)
	if goal == "" {
		p, err := s.portfolios.Get(req.PortfolioID)
		if err != nil {
			s.writeError(w, apierr.Wrap(apierr.Persistence, "failed to load portfolio", err))
			return
		}
		if p != nil && p.UserID == id.UserID {
			goal = p.Goal
		}
	}
	if goal == "" {
		goal = defaultGoal
	}

	advisor, err := s.getAdvisor(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	rec, err := advisor.ConstructPortfolio(r.Context(), goal)
	if err != nil {
		s.writeError(w, err)
		return
	}

	outcomes, err := s.suggestions.DeriveForPortfolio(req.PortfolioID, id.UserID, rec.Recommendations)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"recommendation": rec,
		"suggested_trades_created": map[string]interface{}{
			"count":        suggestions.CreatedCount(outcomes),
			"outcomes":     outcomes,
			"portfolio_id": req.PortfolioID,
		},
		"user_id":   id.UserID,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

type advisoryRequest struct {
	PortfolioID string `json:"portfolio_id"`
}

// handleAdvise runs the heuristic advisory analysis over a portfolio
func (s *Server) handleAdvise(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req advisoryRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if strings.TrimSpace(req.PortfolioID) == "" {
		s.writeError(w, apierr.New(apierr.Validation, "request body must contain 'portfolio_id' field"))
		return
	}

	advice, err := s.advisory.Advise(req.PortfolioID, id.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Portfolio advisory generated successfully",
		"data": map[string]interface{}{
			"portfolio_id":           req.PortfolioID,
			"advice":                 advice.Advice,
			"portfolio_score":        advice.PortfolioScore,
			"risk_assessment":        advice.RiskAssessment,
			"diversification_score":  advice.DiversificationScore,
			"suggested_trades_count": len(advice.SuggestedTrades),
		},
		"user_id":   id.UserID,
		"timestamp": advice.GeneratedAt.Format(time.RFC3339),
	})
}

// handleAdviceText asks the LLM advisor for a free-text portfolio review
func (s *Server) handleAdviceText(w http.ResponseWriter, r *http.Request) {
	id, err := identity(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req advisoryRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if strings.TrimSpace(req.PortfolioID) == "" {
		s.writeError(w, apierr.New(apierr.Validation, "request body must contain 'portfolio_id' field"))
		return
	}

	p, err := s.portfolios.Get(req.PortfolioID)
	if err != nil {
		s.writeError(w, apierr.Wrap(apierr.Persistence, "failed to load portfolio", err))
		return
	}
	if p == nil {
		s.writeError(w, apierr.Newf(apierr.NotFound, "portfolio %s not found", req.PortfolioID))
		return
	}
	if p.UserID != id.UserID {
		s.writeError(w, apierr.New(apierr.Authorization, "portfolio belongs to another user"))
		return
	}

	positions, err := s.positions.ListByPortfolio(req.PortfolioID)
	if err != nil {
		s.writeError(w, apierr.Wrap(apierr.Persistence, "failed to load positions", err))
		return
	}

	advisor, err := s.getAdvisor(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	advice, err := advisor.GenerateAdvice(r.Context(), p.Goal, p.CashBalance, positions)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"advice":    advice,
		"user_id":   id.UserID,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
