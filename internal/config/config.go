// Package config provides configuration management for the win predictor.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Model    ModelConfig    `mapstructure:"model" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Database DatabaseConfig `mapstructure:"database"`
	History  HistoryConfig  `mapstructure:"history" validate:"required"`
	Training TrainingConfig `mapstructure:"training" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the HTTP API configuration
type ServerConfig struct {
	Host                string   `mapstructure:"host"`
	Port                int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int      `mapstructure:"read_timeout_seconds" validate:"gte=0"`
	WriteTimeoutSeconds int      `mapstructure:"write_timeout_seconds" validate:"gte=0"`
	IdleTimeoutSeconds  int      `mapstructure:"idle_timeout_seconds" validate:"gte=0"`
	AllowedOrigins      []string `mapstructure:"allowed_origins"`
}

// ModelConfig locates the fitted model artifact
type ModelConfig struct {
	Path    string `mapstructure:"path" validate:"required"`
	Name    string `mapstructure:"name" validate:"required"`
	Version string `mapstructure:"version"`
}

// CacheConfig represents prediction cache configuration
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLSeconds int  `mapstructure:"ttl_seconds" validate:"gte=0"`
	MaxSize    int  `mapstructure:"max_size" validate:"gte=0"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"gte=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"gte=0"`
}

// HistoryConfig controls the prediction history kept in the database
type HistoryConfig struct {
	Limit           int    `mapstructure:"limit" validate:"required,gt=0,lte=1000"`
	RetentionDays   int    `mapstructure:"retention_days" validate:"gte=0"`
	CleanupSchedule string `mapstructure:"cleanup_schedule"`
}

// TrainingConfig represents the offline training pipeline configuration
type TrainingConfig struct {
	Source             string  `mapstructure:"source" validate:"omitempty,oneof=file http"`
	MatchesPath        string  `mapstructure:"matches_path"`
	DeliveriesPath     string  `mapstructure:"deliveries_path"`
	MatchesURL         string  `mapstructure:"matches_url" validate:"omitempty,url"`
	DeliveriesURL      string  `mapstructure:"deliveries_url" validate:"omitempty,url"`
	HTTPTimeoutSeconds int     `mapstructure:"http_timeout_seconds" validate:"gte=0"`
	HTTPMaxRetries     int     `mapstructure:"http_max_retries" validate:"gte=0"`
	HTTPRateLimit      float64 `mapstructure:"http_rate_limit" validate:"gte=0"`
	ExportPath         string  `mapstructure:"export_path"`
	ValidationFraction float64 `mapstructure:"validation_fraction" validate:"gt=0,lt=1"`
	Seed               int64   `mapstructure:"seed"`
	Workers            int     `mapstructure:"workers" validate:"gte=0"`
	OverIndexBase      int     `mapstructure:"over_index_base" validate:"gte=0,lte=1"`
	LearningRate       float64 `mapstructure:"learning_rate" validate:"gt=0"`
	Iterations         int     `mapstructure:"iterations" validate:"gt=0"`
	L2                 float64 `mapstructure:"l2" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Address returns the host:port the API listens on
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CacheTTL returns the cache entry lifetime
func (c CacheConfig) CacheTTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
