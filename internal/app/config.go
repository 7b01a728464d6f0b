package app

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lumenlearn/progression-backend/internal/pkg/env"
	"github.com/lumenlearn/progression-backend/internal/platform/logger"
)

// Config collects process-level settings. Environment variables win over
// the optional CONFIG_FILE yaml so deployments can override a shared file.
type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`

	JWTSecret string `yaml:"jwt_secret"`

	MetricsAddr     string `yaml:"metrics_addr"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:            "8080",
		Environment:     "development",
		CacheTTLSeconds: 300,
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadConfigFile(path, &cfg); err != nil {
			log.Warn("config file not loaded", "path", path, "error", err)
		} else {
			log.Info("config file loaded", "path", path)
		}
	}

	cfg.Port = env.Get("PORT", cfg.Port, log)
	cfg.Environment = env.Get("APP_ENV", cfg.Environment, log)
	cfg.Version = env.Get("APP_VERSION", cfg.Version, log)
	cfg.JWTSecret = env.Get("JWT_SECRET", cfg.JWTSecret, log)
	cfg.MetricsAddr = env.Get("METRICS_ADDR", cfg.MetricsAddr, log)
	cfg.CacheTTLSeconds = env.GetInt("CACHE_TTL_SECONDS", cfg.CacheTTLSeconds, log)
	return cfg
}

func loadConfigFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}
