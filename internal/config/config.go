package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Search    SearchConfig    `yaml:"search"`
	Ingest    IngestConfig    `yaml:"ingest"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging"`
	Timezone  string          `yaml:"timezone"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Type     string         `yaml:"type"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// MySQLConfig contains MySQL connection settings
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// PostgresConfig contains PostgreSQL connection settings for the
// read-only analytics replica
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// SearchConfig contains search engine settings
type SearchConfig struct {
	Meilisearch MeilisearchConfig `yaml:"meilisearch"`
}

// MeilisearchConfig contains Meilisearch connection settings
type MeilisearchConfig struct {
	Host   string `yaml:"host"`
	APIKey string `yaml:"api_key"`
}

// IngestConfig contains ingestion pipeline settings
type IngestConfig struct {
	// ChunkSize bounds every bulk store operation (membership queries,
	// bulk inserts, bulk updates). The store rejects longer lists.
	ChunkSize             int `yaml:"chunk_size"`
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
}

// RateLimitConfig contains rate limiting settings for the ingest API
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	RequestsPerHour   int  `yaml:"requests_per_hour"`
	RequestsPerDay    int  `yaml:"requests_per_day"`
}

// SchedulerConfig contains scheduled maintenance settings
type SchedulerConfig struct {
	DailyReindexEnabled bool   `yaml:"daily_reindex_enabled"`
	DailyReindexTime    string `yaml:"daily_reindex_time"`
	CleanupEnabled      bool   `yaml:"cleanup_enabled"`
	RetentionDays       int    `yaml:"retention_days"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Type: "mysql",
		},
		Ingest: IngestConfig{
			ChunkSize:             1000,
			RequestTimeoutSeconds: 300,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 30,
			RequestsPerHour:   600,
			RequestsPerDay:    5000,
		},
		Scheduler: SchedulerConfig{
			DailyReindexEnabled: false,
			DailyReindexTime:    "03:00",
			CleanupEnabled:      false,
			RetentionDays:       180,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Timezone: "Asia/Seoul",
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(filepath string) (*Config, error) {
	// Start with default config
	config := DefaultConfig()

	// If file doesn't exist, return default config
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.Ingest.ChunkSize <= 0 {
		config.Ingest.ChunkSize = 1000
	}

	return config, nil
}

// GetRequestTimeout returns the per-run ingestion timeout as a duration
func (c *IngestConfig) GetRequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
