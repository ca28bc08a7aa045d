package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/portfoliogenius/advisor/internal/agent"
	"github.com/portfoliogenius/advisor/internal/agent/tools"
	"github.com/portfoliogenius/advisor/internal/apierr"
	"github.com/portfoliogenius/advisor/internal/auth"
	"github.com/portfoliogenius/advisor/internal/clients/yahoo"
	"github.com/portfoliogenius/advisor/internal/config"
	"github.com/portfoliogenius/advisor/internal/modules/advisory"
	"github.com/portfoliogenius/advisor/internal/modules/portfolio"
	"github.com/portfoliogenius/advisor/internal/modules/suggestions"
)

// Config holds server dependencies
type Config struct {
	Cfg         *config.Config
	Log         zerolog.Logger
	Auth        *auth.Verifier
	Yahoo       *yahoo.Client
	Tools       *tools.Registry
	Suggestions *suggestions.Service
	Advisory    *advisory.Service
	Portfolios  *portfolio.PortfolioRepository
	Positions   *portfolio.PositionRepository

	// NewAdvisor builds the LLM advisor on first use so the service runs
	// without an OpenAI key until an agent endpoint is hit
	NewAdvisor func(ctx context.Context) (*agent.Advisor, error)
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	cfg    *config.Config

	auth        *auth.Verifier
	yahoo       *yahoo.Client
	tools       *tools.Registry
	suggestions *suggestions.Service
	advisory    *advisory.Service
	portfolios  *portfolio.PortfolioRepository
	positions   *portfolio.PositionRepository

	newAdvisor  func(ctx context.Context) (*agent.Advisor, error)
	advisorOnce sync.Once
	advisor     *agent.Advisor
	advisorErr  error
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		log:         cfg.Log.With().Str("component", "server").Logger(),
		cfg:         cfg.Cfg,
		auth:        cfg.Auth,
		yahoo:       cfg.Yahoo,
		tools:       cfg.Tools,
		suggestions: cfg.Suggestions,
		advisory:    cfg.Advisory,
		portfolios:  cfg.Portfolios,
		positions:   cfg.Positions,
		newAdvisor:  cfg.NewAdvisor,
	}

	s.setupMiddleware(cfg.Cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)

	// Agent-backed endpoints can legitimately run for minutes
	s.router.Use(middleware.Timeout(s.cfg.AgentTimeout + 30*time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.auth.Middleware)

		r.Post("/stocks/price", s.handleStockPrice)

		r.Route("/portfolios", func(r chi.Router) {
			r.Post("/construct", s.handleConstructPortfolio)
			r.Post("/advise", s.handleAdvise)
			r.Post("/advice-text", s.handleAdviceText)
			r.Get("/{portfolioID}/suggestions", s.handleListSuggestions)
		})

		r.Route("/suggestions", func(r chi.Router) {
			r.Post("/{suggestionID}/convert", s.handleConvertSuggestion)
			r.Post("/{suggestionID}/dismiss", s.handleDismissSuggestion)
		})

		r.Get("/agent/tools", s.handleAgentTools)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// getAdvisor constructs the LLM advisor on first use and memoizes the result
func (s *Server) getAdvisor(ctx context.Context) (*agent.Advisor, error) {
	s.advisorOnce.Do(func() {
		s.advisor, s.advisorErr = s.newAdvisor(ctx)
		if s.advisorErr != nil {
			s.log.Error().Err(s.advisorErr).Msg("Failed to initialize LLM advisor")
		}
	})

	if s.advisorErr != nil {
		return nil, apierr.Wrap(apierr.UpstreamService, "LLM advisor is not available", s.advisorErr)
	}
	return s.advisor, nil
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes a classified error envelope
func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.log.Warn().Err(err).Msg("Request failed")
	apierr.Write(w, err)
}

// decodeJSON decodes a request body, reporting malformed input as a
// validation failure
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierr.Wrap(apierr.Validation, "invalid JSON request body", err)
	}
	return nil
}

// identity pulls the authenticated identity set by the auth middleware
func identity(r *http.Request) (*auth.Identity, error) {
	id := auth.FromContext(r.Context())
	if id == nil {
		return nil, apierr.New(apierr.Authentication, "authentication required")
	}
	return id, nil
}
