// Package config loads engine configuration from YAML and environment
// variables. Environment variables override YAML values.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the engine.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"3470"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // set at load time, not from config

	// WorkspaceRoot is the directory under which per-conversation
	// directories (registry and context documents) live.
	WorkspaceRoot string `yaml:"workspace_root" env:"WORKSPACE_ROOT" env-default:"./workspace"`

	// Engine configuration for the embedded analytical engine.
	Engine EngineConfig `yaml:"engine"`

	// Listing cache TTL.
	ListingCacheTTL time.Duration `yaml:"listing_cache_ttl" env:"LISTING_CACHE_TTL" env-default:"60s"`

	// FastPathBudget is the advisory latency budget for fast-path context
	// builds. Exceeding it is logged, not enforced.
	FastPathBudget time.Duration `yaml:"fast_path_budget" env:"FAST_PATH_BUDGET" env-default:"100ms"`
}

// EngineConfig holds the database/sql settings for the embedded engine.
type EngineConfig struct {
	Driver string `yaml:"driver" env:"ENGINE_DRIVER" env-default:"sqlite3"`
	DSN    string `yaml:"dsn" env:"ENGINE_DSN" env-default:"file:engine.db?cache=shared"`
}

// Load reads config.yaml (if present) and environment variables.
func Load(version string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("read environment config: %w", err)
		}
	}

	cfg.Version = version
	return cfg, nil
}
