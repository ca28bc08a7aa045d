package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/portfoliogenius/advisor/internal/agent"
	"github.com/portfoliogenius/advisor/internal/agent/tools"
	"github.com/portfoliogenius/advisor/internal/auth"
	"github.com/portfoliogenius/advisor/internal/clients/brave"
	"github.com/portfoliogenius/advisor/internal/clients/tiingo"
	"github.com/portfoliogenius/advisor/internal/clients/yahoo"
	"github.com/portfoliogenius/advisor/internal/config"
	"github.com/portfoliogenius/advisor/internal/database"
	"github.com/portfoliogenius/advisor/internal/modules/advisory"
	"github.com/portfoliogenius/advisor/internal/modules/portfolio"
	"github.com/portfoliogenius/advisor/internal/modules/suggestions"
	"github.com/portfoliogenius/advisor/internal/modules/trading"
	"github.com/portfoliogenius/advisor/internal/scheduler"
	"github.com/portfoliogenius/advisor/internal/server"
	"github.com/portfoliogenius/advisor/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Config{Level: "info"})
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting Portfolio Advisor")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// External data gateways
	yahooClient := yahoo.NewClient(log)
	tiingoClient := tiingo.NewClient(cfg.TiingoAPIKey, log)
	braveClient := brave.NewClient(cfg.BraveAPIKey, log)

	registry := tools.NewRegistry(yahooClient, tiingoClient, braveClient, cfg.OpenAIAPIKey != "", log)

	// Repositories
	portfolioRepo := portfolio.NewPortfolioRepository(db.Conn(), log)
	positionRepo := portfolio.NewPositionRepository(db.Conn(), log)
	tradeRepo := trading.NewTradeRepository(db.Conn(), log)
	suggestionRepo := suggestions.NewRepository(db.Conn(), log)

	// Services
	deriver := suggestions.NewDeriver(suggestionRepo, log)
	suggestionService := suggestions.NewService(suggestionRepo, deriver, tradeRepo, portfolioRepo, log)

	engine := advisory.NewEngine(rand.New(rand.NewSource(time.Now().UnixNano())))
	advisoryService := advisory.NewService(engine, portfolioRepo, positionRepo, tradeRepo, suggestionRepo, log)

	verifier := auth.NewVerifier(cfg.JWTSecret, log)

	// Background jobs
	sched := scheduler.New(log)
	if err := sched.AddJob("@hourly", scheduler.NewSuggestionExpiryJob(suggestionService, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register suggestion expiry job")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Cfg:         cfg,
		Log:         log,
		Auth:        verifier,
		Yahoo:       yahooClient,
		Tools:       registry,
		Suggestions: suggestionService,
		Advisory:    advisoryService,
		Portfolios:  portfolioRepo,
		Positions:   positionRepo,
		NewAdvisor: func(ctx context.Context) (*agent.Advisor, error) {
			return agent.New(ctx, cfg, registry, log)
		},
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
