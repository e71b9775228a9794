// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

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

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the site.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// BaseURL is the public origin used for OAuth callbacks and absolute links.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// SessionSecret signs the OAuth state parameter.
	SessionSecret string `env:"SESSION_SECRET,required"`

	// Source-control OAuth (GitHub)
	GithubClientID     string `env:"GITHUB_CLIENT_ID"`
	GithubClientSecret string `env:"GITHUB_CLIENT_SECRET"`

	// Billing provider
	BillingBaseURL string `env:"BILLING_BASE_URL" envDefault:"https://billing.example.com/v2"`
	BillingAPIKey  string `env:"BILLING_API_KEY"`

	// Webhook basic-auth credentials. The password is stored as a bcrypt hash;
	// an empty hash disables the check.
	BillingWebhookUser         string `env:"BILLING_WEBHOOK_USER"`
	BillingWebhookPasswordHash string `env:"BILLING_WEBHOOK_PASSWORD_HASH"`

	// Video hosting provider
	VideoBaseURL  string `env:"VIDEO_BASE_URL" envDefault:"https://api.video.example.com"`
	VideoAPIToken string `env:"VIDEO_API_TOKEN"`

	// Static content
	CatalogPath string        `env:"CATALOG_PATH"  envDefault:"./data/catalog.yaml"`
	AssetPath   string        `env:"ASSET_PATH"    envDefault:"./assets"`
	AssetMaxAge time.Duration `env:"ASSET_MAX_AGE" envDefault:"8760h"`

	// AsyncTimeout bounds how long a request may stay open waiting for a
	// third-party result.
	AsyncTimeout time.Duration `env:"ASYNC_TIMEOUT" envDefault:"15s"`

	// MaxBodyBytes caps the request body read by form and webhook routes.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	// TrustProxyHeaders takes the client address from X-Real-IP and
	// X-Forwarded-For. Enable it only behind a reverse proxy.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
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

	return cfg, nil
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
