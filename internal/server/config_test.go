package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/refi-calculator/pkg/constants"
)

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address == "" {
		t.Fatalf("expected default address, got empty")
	}
	if cfg.UploadSizeBytes() <= 0 {
		t.Fatalf("expected positive default max upload size, got %d", cfg.UploadSizeBytes())
	}
	if cfg.Logging.Level != "" || cfg.Logging.Format != "" || cfg.Logging.OutputFile != "" {
		t.Fatalf("expected empty logging defaults, got %+v", cfg.Logging)
	}
	if cfg.Market.CacheTTLSeconds != constants.DefaultMarketCacheTTLSeconds {
		t.Fatalf("expected default market TTL, got %d", cfg.Market.CacheTTLSeconds)
	}
	if cfg.Market.RefreshSchedule != constants.DefaultMarketRefreshSchedule {
		t.Fatalf("expected default refresh schedule, got %q", cfg.Market.RefreshSchedule)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server-config.yaml")

	contents := []byte(`address: 127.0.0.1:9000
maxUploadSize: 2M
logging:
  level: debug
  format: console
  outputFile: /tmp/server.log
market:
  apiKey: abc123
  refreshSchedule: "@every 1h"
  redisAddr: localhost:6379
`)
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != "127.0.0.1:9000" {
		t.Fatalf("expected address override, got %s", cfg.Address)
	}
	if cfg.UploadSizeBytes() != 2*1024*1024 {
		t.Fatalf("expected max upload override, got %d", cfg.UploadSizeBytes())
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected logging format console, got %s", cfg.Logging.Format)
	}
	if cfg.Logging.OutputFile != "/tmp/server.log" {
		t.Fatalf("expected logging outputFile /tmp/server.log, got %s", cfg.Logging.OutputFile)
	}
	if cfg.Market.APIKey != "abc123" || cfg.Market.RedisAddr != "localhost:6379" {
		t.Fatalf("expected market overrides, got %+v", cfg.Market)
	}
	if cfg.Market.RefreshSchedule != "@every 1h" {
		t.Fatalf("expected refresh schedule override, got %q", cfg.Market.RefreshSchedule)
	}
	if cfg.Market.TimeoutSeconds != constants.DefaultMarketTimeoutSeconds {
		t.Fatalf("expected default market timeout to survive, got %d", cfg.Market.TimeoutSeconds)
	}
}

func TestLoadConfigInvalidYaml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")

	if err := os.WriteFile(path, []byte("maxUploadSize: invalid"), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid YAML but got nil")
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		input     string
		want      int64
		expectErr bool
	}{
		{input: "", want: constants.DefaultMaxUploadSizeBytes},
		{input: "1024", want: 1024},
		{input: "512b", want: 512},
		{input: "256K", want: 256 * 1024},
		{input: "64kb", want: 64 * 1024},
		{input: "1m", want: 1024 * 1024},
		{input: " 2 MB ", want: 2 * 1024 * 1024},
		{input: "2G", expectErr: true},
		{input: "1TB", expectErr: true},
		{input: "abc", expectErr: true},
		{input: "-5K", expectErr: true},
		{input: "9999999999999999M", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if (err != nil) != tt.expectErr {
				t.Fatalf("ParseSize(%q) error = %v, expectErr %v", tt.input, err, tt.expectErr)
			}
			if !tt.expectErr && got != tt.want {
				t.Errorf("ParseSize(%q) = %d, expected %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadConfigZeroUploadSizeUsesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server-config.yaml")
	if err := os.WriteFile(path, []byte("maxUploadSize: \"0\"\n"), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.UploadSizeBytes() != constants.DefaultMaxUploadSizeBytes {
		t.Errorf("UploadSizeBytes() = %d, expected default %d", cfg.UploadSizeBytes(), constants.DefaultMaxUploadSizeBytes)
	}
}
