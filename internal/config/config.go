package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port         int
	DevMode      bool
	LogLevel     string
	DatabasePath string

	// Auth
	JWTSecret string

	// LLM agent
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	AgentTimeout  time.Duration

	// Financial data providers
	TiingoAPIKey string
	BraveAPIKey  string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnvAsInt("PORT", 8080),
		DevMode:       getEnvAsBool("DEV_MODE", false),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabasePath:  getEnv("DATABASE_PATH", "./data/advisor.db"),
		JWTSecret:     getEnv("AUTH_JWT_SECRET", ""),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o"),
		AgentTimeout:  getEnvAsDuration("AGENT_TIMEOUT", 120*time.Second),
		TiingoAPIKey:  getEnv("TIINGO_API_KEY", ""),
		BraveAPIKey:   getEnv("BRAVE_API_KEY", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required")
	}

	// OPENAI_API_KEY is checked lazily by the agent so that data-only
	// endpoints keep working without it. Tiingo and Brave keys are optional;
	// their tools are simply not registered when absent.

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
