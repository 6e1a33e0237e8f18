package config

import (
	"time"

	"github.com/manuphil/balldash/internal/infra/rediscache"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server    ServerConfig      `yaml:"server"`
	Backend   BackendConfig     `yaml:"backend"`
	Solana    SolanaConfig      `yaml:"solana"`
	Price     PriceConfig       `yaml:"price"`
	Dashboard DashboardConfig   `yaml:"dashboard"`
	Redis     rediscache.Config `yaml:"redis"`
	Logging   LoggingConfig     `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// BackendConfig holds settings for the lottery REST API.
type BackendConfig struct {
	BaseURL         string        `yaml:"base_url"`
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	Timeout         time.Duration `yaml:"timeout"`
	RefreshInterval time.Duration `yaml:"refresh_interval"` // token verify cadence
	TokenFile       string        `yaml:"token_file"`       // fallback store when redis is off
}

// SolanaConfig holds settings for the chain RPC endpoint.
type SolanaConfig struct {
	RPCURL    string        `yaml:"rpc_url"`
	TokenMint string        `yaml:"token_mint"`
	Threshold float64       `yaml:"eligibility_threshold"`
	Timeout   time.Duration `yaml:"timeout"`
}

// PriceConfig holds settings for the spot price feed.
type PriceConfig struct {
	URL             string        `yaml:"url"`
	Asset           string        `yaml:"asset"`
	Default         float64       `yaml:"default"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// DashboardConfig holds aggregation and display settings.
type DashboardConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	LeaderboardSize int           `yaml:"leaderboard_size"`
	TimeZone        string        `yaml:"time_zone"` // reference zone for draw schedules
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}
