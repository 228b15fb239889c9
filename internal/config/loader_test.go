package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"STUDIO_CONFIG_FILE",
			"STUDIO_HTTP_PORT",
			"STUDIO_SQLITE_DSN",
			"STUDIO_WEBHOOK_URL",
			"STUDIO_EMAIL_SIMULATION",
			"STUDIO_CONFLICT_CACHE_TTL",
			"STUDIO_CORS_ORIGINS",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:studio-scheduler.db" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if !cfg.EmailSimulation {
			t.Fatal("expected email simulation to default on")
		}
		if cfg.ConflictCacheTTL != 30*time.Second {
			t.Fatalf("expected default cache TTL 30s, got %s", cfg.ConflictCacheTTL)
		}
	})

	t.Run("parses duration, boolean and numeric fields", func(t *testing.T) {
		t.Setenv("STUDIO_HTTP_PORT", "9090")
		t.Setenv("STUDIO_SQLITE_DSN", "file:/tmp/studio.db")
		t.Setenv("STUDIO_WEBHOOK_URL", "https://hooks.example.com/studio")
		t.Setenv("STUDIO_EMAIL_SIMULATION", "false")
		t.Setenv("STUDIO_CONFLICT_CACHE_TTL", "2m")
		t.Setenv("STUDIO_CORS_ORIGINS", "https://app.example.com, https://staging.example.com")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:/tmp/studio.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.WebhookURL != "https://hooks.example.com/studio" {
			t.Fatalf("unexpected webhook URL: %q", cfg.WebhookURL)
		}
		if cfg.EmailSimulation {
			t.Fatal("expected email simulation off")
		}
		if cfg.ConflictCacheTTL != 2*time.Minute {
			t.Fatalf("expected cache TTL 2m, got %s", cfg.ConflictCacheTTL)
		}
		if len(cfg.CORSOrigins) != 2 {
			t.Fatalf("expected 2 CORS origins, got %v", cfg.CORSOrigins)
		}
	})

	t.Run("accumulates invalid values into one error", func(t *testing.T) {
		t.Setenv("STUDIO_HTTP_PORT", "not-a-port")
		t.Setenv("STUDIO_CONFLICT_CACHE_TTL", "-5s")

		_, err := Load()
		if err == nil {
			t.Fatal("expected an error for invalid values")
		}
		expected := "invalid environment variable values: STUDIO_HTTP_PORT, STUDIO_CONFLICT_CACHE_TTL"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("reads the YAML file before the environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "studio.yaml")
		content := "http_port: 7070\nwebhook_url: https://hooks.example.com/base\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		t.Setenv("STUDIO_CONFIG_FILE", path)
		t.Setenv("STUDIO_HTTP_PORT", "9191")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9191 {
			t.Fatalf("expected the environment to win, got port %d", cfg.HTTPPort)
		}
		if cfg.WebhookURL != "https://hooks.example.com/base" {
			t.Fatalf("expected the file value to survive, got %q", cfg.WebhookURL)
		}
	})
}
