package veil

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadConfig.
const (
	EnvSecretKey      = "VEIL_SECRET_KEY"
	EnvModelPath      = "VEIL_MODEL_PATH"
	EnvTokenCacheSize = "VEIL_TOKEN_CACHE_SIZE"
)

// Config carries environment-supplied settings.
type Config struct {
	// SecretKey is the default tokenization key, substituting for an
	// explicit per-rule key. Empty means tokenizers generate a random
	// key per instance.
	SecretKey string

	// ModelPath points to a persisted learned model, if any.
	ModelPath string

	// TokenCacheSize bounds each tokenizer's value-memo cache.
	TokenCacheSize int
}

// LoadConfig loads configuration from the environment, reading an
// optional .env file first.
func LoadConfig() (*Config, error) {
	// A missing .env is fine; explicit environment still applies.
	_ = godotenv.Load()

	cfg := &Config{
		SecretKey:      getEnv(EnvSecretKey, ""),
		ModelPath:      getEnv(EnvModelPath, ""),
		TokenCacheSize: getEnvAsInt(EnvTokenCacheSize, defaultMemoCapacity),
	}

	if cfg.TokenCacheSize <= 0 {
		return nil, newConfigError(ErrInvalidConfig, EnvTokenCacheSize, "must be positive")
	}

	return cfg, nil
}

// getEnv reads an environment variable with a default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt reads an integer environment variable with a default
func getEnvAsInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
