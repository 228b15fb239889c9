// Package config loads service configuration from the environment, with an
// optional YAML file as a base layer.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures configuration values for the studio scheduler service.
type Config struct {
	HTTPPort         int           `yaml:"http_port"`
	SQLiteDSN        string        `yaml:"sqlite_dsn"`
	WebhookURL       string        `yaml:"webhook_url"`
	EmailSimulation  bool          `yaml:"email_simulation"`
	ConflictCacheTTL time.Duration `yaml:"conflict_cache_ttl"`
	CORSOrigins      []string      `yaml:"cors_origins"`
}

// Load parses configuration from an optional YAML file named by
// STUDIO_CONFIG_FILE, then overlays STUDIO_* environment variables.
//
// The loader applies defaults for every field and accumulates invalid
// entries into one error so operators see all problems at once.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:         8080,
		SQLiteDSN:        "file:studio-scheduler.db",
		EmailSimulation:  true,
		ConflictCacheTTL: 30 * time.Second,
	}

	if path := strings.TrimSpace(os.Getenv("STUDIO_CONFIG_FILE")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("STUDIO_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "STUDIO_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("STUDIO_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if url := strings.TrimSpace(os.Getenv("STUDIO_WEBHOOK_URL")); url != "" {
		cfg.WebhookURL = url
	}

	if simValue := strings.TrimSpace(os.Getenv("STUDIO_EMAIL_SIMULATION")); simValue != "" {
		sim, err := strconv.ParseBool(simValue)
		if err != nil {
			invalid = append(invalid, "STUDIO_EMAIL_SIMULATION")
		} else {
			cfg.EmailSimulation = sim
		}
	}

	if ttlValue := strings.TrimSpace(os.Getenv("STUDIO_CONFLICT_CACHE_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "STUDIO_CONFLICT_CACHE_TTL")
		} else {
			cfg.ConflictCacheTTL = ttl
		}
	}

	if origins := strings.TrimSpace(os.Getenv("STUDIO_CORS_ORIGINS")); origins != "" {
		cfg.CORSOrigins = splitCSV(origins)
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
