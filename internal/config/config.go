// Package config provides configuration management for the Bracket Survivor application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Schedule ScheduleConfig `mapstructure:"schedule" validate:"required"`
	Odds     OddsConfig     `mapstructure:"odds"`
	Survivor SurvivorConfig `mapstructure:"survivor" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// ScheduleConfig represents the NCAA schedule data source configuration
type ScheduleConfig struct {
	BaseURL        string `mapstructure:"base_url" validate:"required,url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}

// OddsConfig represents The Odds API configuration. An empty API key leaves
// the odds source unconfigured; the decision workflow then runs on the seed
// baseline alone.
type OddsConfig struct {
	BaseURL         string `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey          string `mapstructure:"api_key"`
	Sport           string `mapstructure:"sport"`
	Regions         string `mapstructure:"regions"`
	CacheTTLMinutes int    `mapstructure:"cache_ttl_minutes" validate:"gte=0"`
}

// SurvivorConfig drives the daily decision scheduler. Disabled by default;
// when enabled it runs the workflow once at startup and then hourly for the
// configured user, tournament year, and risk mode.
type SurvivorConfig struct {
	SchedulerEnabled  bool   `mapstructure:"scheduler_enabled"`
	UserID            string `mapstructure:"user_id" validate:"required"`
	TournamentYear    int    `mapstructure:"tournament_year" validate:"required,gt=2000"`
	RiskMode          string `mapstructure:"risk_mode" validate:"required,riskmode"`
	RunTimeoutSeconds int    `mapstructure:"run_timeout_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and health endpoint configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
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

// OddsConfigured reports whether the odds collaborator has an API key.
func (c *Config) OddsConfigured() bool {
	return c.Odds.APIKey != ""
}
