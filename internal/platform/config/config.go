// Copyright (c) 2026 DocSafe. All rights reserved.
// Author: dev@docsafe.app

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only. Secrets are loaded
    exactly once at process start and are never re-read per request.
  - DI-Friendly: Passed to core components (DB, Redis, codecs) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the DocSafe API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Cryptographic secrets. The three keys are independent: the session
	// signer, the selector deriver, and the capability signer must never
	// share material.
	SessionSecret  string `env:"SESSION_SECRET,required"`
	SelectorSecret string `env:"SELECTOR_SECRET,required"`
	DownloadSecret string `env:"DOWNLOAD_SECRET,required"`

	// SessionAlgorithm is the fixed signing algorithm identifier for session tokens.
	SessionAlgorithm string `env:"SESSION_ALGORITHM" envDefault:"HS256"`

	// SessionTTLMinutes is the session token lifetime.
	SessionTTLMinutes int `env:"SESSION_TTL_MINUTES" envDefault:"30"`

	// DownloadTokenTTLSeconds is the capability token lifetime.
	DownloadTokenTTLSeconds int `env:"DOWNLOAD_TOKEN_TTL_SECONDS" envDefault:"180"`

	// Object Storage (MinIO / S3-compatible)
	S3Endpoint  string `env:"S3_ENDPOINT,required"`
	S3AccessKey string `env:"S3_ACCESS_KEY,required"`
	S3SecretKey string `env:"S3_SECRET_KEY,required"`
	S3Bucket    string `env:"S3_BUCKET" envDefault:"docsafe-uploads"`
	S3UseSSL    bool   `env:"S3_USE_SSL" envDefault:"true"`

	// AI chat pass-through
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	// Key separation is a hard requirement, not an optimization. Refuse to
	// start if any two secrets carry the same material.
	if cfg.SessionSecret == cfg.SelectorSecret ||
		cfg.SessionSecret == cfg.DownloadSecret ||
		cfg.SelectorSecret == cfg.DownloadSecret {
		return nil, fmt.Errorf("config: SESSION_SECRET, SELECTOR_SECRET and DOWNLOAD_SECRET must be pairwise distinct")
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
