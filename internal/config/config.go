// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"OBUILDER_DB_PATH" envDefault:"./data/obuilder.db"`
	SessionSecret string `env:"OBUILDER_SESSION_SECRET,required"`
	ServerHost    string `env:"OBUILDER_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"OBUILDER_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"OBUILDER_ENV" envDefault:"development"`
	LogLevel      string `env:"OBUILDER_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"OBUILDER_UPLOADS_DIR" envDefault:"./uploads"`

	// Editor authentication. The hash is argon2id-encoded; generate one
	// with the hash-password subcommand.
	EditorPasswordHash string `env:"OBUILDER_EDITOR_PASSWORD_HASH,required"`

	// Versioning behavior: "track" keeps the active version's snapshot in
	// sync with draft saves, "frozen" detaches the draft on first edit.
	VersionMode string `env:"OBUILDER_VERSION_MODE" envDefault:"track"`

	// Cache configuration
	RedisURL     string `env:"OBUILDER_REDIS_URL"`
	CachePrefix  string `env:"OBUILDER_CACHE_PREFIX" envDefault:"obuilder:"`
	CacheTTL     int    `env:"OBUILDER_CACHE_TTL" envDefault:"3600"` // seconds
	CacheMaxSize int    `env:"OBUILDER_CACHE_MAX_SIZE" envDefault:"10000"`

	// AI copy assistance, disabled when the key is empty.
	OpenAIAPIKey string `env:"OBUILDER_OPENAI_API_KEY"`
	OpenAIModel  string `env:"OBUILDER_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
}

// IsDevelopment returns true in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// AssistEnabled returns true if AI copy assistance is configured.
func (c Config) AssistEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// MinSessionSecretLength is the minimum length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("OBUILDER_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("OBUILDER_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("OBUILDER_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.VersionMode != "track" && cfg.VersionMode != "frozen" {
		return nil, fmt.Errorf("OBUILDER_VERSION_MODE must be track or frozen, got %q", cfg.VersionMode)
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character
// classes (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
