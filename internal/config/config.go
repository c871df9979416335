package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	RedisURL string
	DataDir  string

	LLMProvider     string // "anthropic" or "ollama"
	AnthropicAPIKey string
	ModelName       string
	OllamaURL       string

	ActionsPerCase int
	MaxEvidence    int
	// EvidenceBiasWeight is the per-action probability (0..1) that evidence
	// generation is framed toward the killer rather than red herrings.
	EvidenceBiasWeight float64
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),

		RedisURL: getEnv("REDIS_URL", "localhost:6379"),
		DataDir:  getEnv("DATA_DIR", "./data"),

		LLMProvider:     getEnv("LLM_PROVIDER", "anthropic"),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		ModelName:       getEnv("MODEL_NAME", "claude-3-5-haiku-20241022"),
		OllamaURL:       getEnv("OLLAMA_URL", "http://localhost:11434"),
	}

	var err error
	if cfg.ActionsPerCase, err = getEnvInt("ACTIONS_PER_CASE", 20); err != nil {
		return nil, err
	}
	if cfg.MaxEvidence, err = getEnvInt("MAX_EVIDENCE", 20); err != nil {
		return nil, err
	}
	if cfg.EvidenceBiasWeight, err = getEnvFloat("EVIDENCE_BIAS_WEIGHT", 0.3); err != nil {
		return nil, err
	}
	if cfg.EvidenceBiasWeight < 0 || cfg.EvidenceBiasWeight > 1 {
		return nil, fmt.Errorf("EVIDENCE_BIAS_WEIGHT must be between 0 and 1, got %v", cfg.EvidenceBiasWeight)
	}

	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return f, nil
}
