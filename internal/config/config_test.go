package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_key")
	t.Setenv("RAZORPAY_KEY_SECRET", "rzp_test_secret")
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "whsec_test")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, want default 8080", cfg.Server.Port)
	}
	if cfg.Razorpay.Currency != "INR" {
		t.Errorf("currency = %q, want INR", cfg.Razorpay.Currency)
	}
	if got := cfg.PendingOrderWindowDuration(); got != 15*time.Minute {
		t.Errorf("pending order window = %v, want 15m", got)
	}
	if got := cfg.AccessTokenExpirationDuration(); got != time.Hour {
		t.Errorf("token expiration = %v, want 1h", got)
	}
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "9090")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: "8081"
  mode: production
payment:
  pending_order_window: 10m
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	// Environment wins over the file.
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q, want env override 9090", cfg.Server.Port)
	}
	if cfg.Server.Mode != "production" {
		t.Errorf("mode = %q, want production from file", cfg.Server.Mode)
	}
	if got := cfg.PendingOrderWindowDuration(); got != 10*time.Minute {
		t.Errorf("pending order window = %v, want 10m from file", got)
	}
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "")

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing webhook secret")
	}
}
