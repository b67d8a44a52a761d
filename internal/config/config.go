package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/sydlexius/tonearm/internal/logging"
	"github.com/sydlexius/tonearm/internal/resolve"
)

// Config holds all application configuration.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Catalog      CatalogConfig      `yaml:"catalog"`
	Encyclopedia EncyclopediaConfig `yaml:"encyclopedia"`
	Reranker     RerankerConfig     `yaml:"reranker"`
	Resolver     resolve.Config     `yaml:"resolver"`
	Logging      logging.Config     `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig holds SQLite settings for the resolution cache.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CatalogConfig holds upstream catalog client settings.
type CatalogConfig struct {
	BaseURL           string  `yaml:"base_url"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// EncyclopediaConfig holds encyclopedia client settings.
type EncyclopediaConfig struct {
	BaseURL string `yaml:"base_url"`
}

// RerankerConfig holds external judgment service settings. The API key is
// environment-only; it never lives in the config file.
type RerankerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Database: DatabaseConfig{
			Path: "/data/tonearm.db",
		},
		Catalog: CatalogConfig{
			RequestsPerSecond: 1,
		},
		Reranker: RerankerConfig{
			Enabled: true,
			Model:   "gemini-1.5-flash",
		},
		Resolver: resolve.DefaultConfig(),
		Logging: logging.Config{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads config from a YAML file (if it exists) and overrides with
// environment variables. Environment variables take precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv("TA_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("TA_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("TA_CATALOG_URL"); v != "" {
		c.Catalog.BaseURL = v
	}
	if v := os.Getenv("TA_CATALOG_RPS"); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil {
			c.Catalog.RequestsPerSecond = rps
		}
	}
	if v := os.Getenv("TA_ENCYCLOPEDIA_URL"); v != "" {
		c.Encyclopedia.BaseURL = v
	}
	if v := os.Getenv("TA_RERANKER_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Reranker.Enabled = enabled
		}
	}
	if v := os.Getenv("TA_RERANKER_MODEL"); v != "" {
		c.Reranker.Model = v
	}
	if v := os.Getenv("TA_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TA_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("TA_LOG_FILE"); v != "" {
		c.Logging.FilePath = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Catalog.RequestsPerSecond <= 0 {
		return fmt.Errorf("catalog rate must be positive, got %v", c.Catalog.RequestsPerSecond)
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}
	if !logging.ValidFormat(c.Logging.Format) {
		return fmt.Errorf("invalid log format: %q", c.Logging.Format)
	}
	return nil
}
