package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults if necessary
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = 15 * time.Second
	}
	if cfg.Backend.RefreshInterval == 0 {
		cfg.Backend.RefreshInterval = 5 * time.Minute
	}
	if cfg.Backend.TokenFile == "" {
		cfg.Backend.TokenFile = ".balldash_tokens.json"
	}
	if cfg.Solana.Timeout == 0 {
		cfg.Solana.Timeout = 10 * time.Second
	}
	if cfg.Solana.Threshold == 0 {
		cfg.Solana.Threshold = 10000
	}
	if cfg.Price.URL == "" {
		cfg.Price.URL = "https://api.coingecko.com/api/v3/simple/price"
	}
	if cfg.Price.Asset == "" {
		cfg.Price.Asset = "solana"
	}
	if cfg.Price.Default == 0 {
		cfg.Price.Default = 100
	}
	if cfg.Price.RefreshInterval == 0 {
		cfg.Price.RefreshInterval = 5 * time.Minute
	}
	if cfg.Dashboard.RefreshInterval == 0 {
		cfg.Dashboard.RefreshInterval = 30 * time.Second
	}
	if cfg.Dashboard.LeaderboardSize == 0 {
		cfg.Dashboard.LeaderboardSize = 50
	}
	if cfg.Dashboard.TimeZone == "" {
		cfg.Dashboard.TimeZone = "America/New_York"
	}

	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("backend.base_url is required")
	}
	if cfg.Solana.RPCURL == "" {
		return nil, fmt.Errorf("solana.rpc_url is required")
	}
	if cfg.Solana.TokenMint == "" {
		return nil, fmt.Errorf("solana.token_mint is required")
	}

	return &cfg, nil
}
