package config

import (
	"os"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "config_*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	if _, err := tmpFile.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	tmpFile.Close()
	return tmpFile.Name()
}

func TestLoad_EnvSubstitution(t *testing.T) {
	os.Setenv("TEST_API_URL", "https://lottery.example.com")
	defer os.Unsetenv("TEST_API_URL")

	configContent := `
backend:
  base_url: ${TEST_API_URL}
solana:
  rpc_url: https://api.testnet.solana.com
  token_mint: 7qi1pPouJhaQiVoNmnAnGmTaJbs5rXRFZXbQAmPZYehd
`
	cfg, err := Load(writeTempConfig(t, configContent))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Backend.BaseURL != "https://lottery.example.com" {
		t.Errorf("Expected base URL https://lottery.example.com, got %s", cfg.Backend.BaseURL)
	}
}

func TestLoad_Defaults(t *testing.T) {
	configContent := `
backend:
  base_url: https://lottery.example.com
solana:
  rpc_url: https://api.testnet.solana.com
  token_mint: mint123
`
	cfg, err := Load(writeTempConfig(t, configContent))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Solana.Threshold != 10000 {
		t.Errorf("Expected default threshold 10000, got %f", cfg.Solana.Threshold)
	}
	if cfg.Backend.RefreshInterval != 5*time.Minute {
		t.Errorf("Expected default refresh interval 5m, got %v", cfg.Backend.RefreshInterval)
	}
	if cfg.Dashboard.RefreshInterval != 30*time.Second {
		t.Errorf("Expected default dashboard refresh 30s, got %v", cfg.Dashboard.RefreshInterval)
	}
	if cfg.Dashboard.TimeZone != "America/New_York" {
		t.Errorf("Expected default time zone America/New_York, got %s", cfg.Dashboard.TimeZone)
	}
	if cfg.Price.Default != 100 {
		t.Errorf("Expected default price 100, got %f", cfg.Price.Default)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	configContent := `
backend:
  base_url: https://lottery.example.com
`
	if _, err := Load(writeTempConfig(t, configContent)); err == nil {
		t.Fatal("Expected error for missing solana config, got nil")
	}
}
