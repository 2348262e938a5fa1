// Package config loads the service configuration from an optional YAML file
// and environment variables. Environment variables win; keys are upper-cased
// with dots replaced by underscores (e.g. database.host → DATABASE_HOST).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config carries all service configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Pricing  PricingConfig  `mapstructure:"pricing"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// AuthToken guards the API with a static bearer token; empty disables it
	AuthToken string `mapstructure:"auth_token"`
}

// DatabaseConfig configures the Postgres connection
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// PricingConfig configures the market data client
type PricingConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SnapshotConfig configures the daily snapshot trigger
type SnapshotConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Hour    int  `mapstructure:"hour"`
	Minute  int  `mapstructure:"minute"`
}

// LogConfig configures logging output
type LogConfig struct {
	// Level: debug, info, warn or error
	Level string `mapstructure:"level"`
}

// Load reads configuration with defaults suitable for local development.
// A config.yaml in the working directory or /etc/portfolio is honored when
// present; its absence is not an error.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.auth_token", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "portfolio")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("pricing.base_url", "http://marketdataservice:8010")
	v.SetDefault("pricing.timeout", 10*time.Second)
	v.SetDefault("snapshot.enabled", true)
	v.SetDefault("snapshot.hour", 1)
	v.SetDefault("snapshot.minute", 0)
	v.SetDefault("log.level", "info")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/portfolio")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// DSN builds the lib/pq connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}
