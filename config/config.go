package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Snapshot  SnapshotConfig
	Parser    ParserConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SnapshotConfig selects and configures the snapshot store
type SnapshotConfig struct {
	Store      string `mapstructure:"store"` // "csv" or "sqlite"
	Dir        string `mapstructure:"dir"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// ParserConfig holds extraction pipeline configuration
type ParserConfig struct {
	Workers            int  `mapstructure:"workers"`
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// CacheConfig holds snapshot cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// A local .env is optional; existing environment variables win.
	_ = godotenv.Load()

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/igomarket/")

	// Environment variable settings
	v.SetEnvPrefix("IGOMARKET")
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Snapshot defaults
	v.SetDefault("snapshot.store", "csv")
	v.SetDefault("snapshot.dir", "./data")
	v.SetDefault("snapshot.sqlite_path", "./data/snapshots.db")

	// Parser defaults
	v.SetDefault("parser.workers", 4)
	v.SetDefault("parser.enable_debug_logging", false)

	// Cache defaults
	v.SetDefault("cache.ttl", "1h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)

	// Log defaults
	v.SetDefault("log.level", "info")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Snapshot.Store != "csv" && config.Snapshot.Store != "sqlite" {
		return fmt.Errorf("snapshot store must be 'csv' or 'sqlite', got: %s", config.Snapshot.Store)
	}

	if config.Snapshot.Store == "csv" && config.Snapshot.Dir == "" {
		return fmt.Errorf("snapshot dir is required when store is 'csv'")
	}

	if config.Snapshot.Store == "sqlite" && config.Snapshot.SQLitePath == "" {
		return fmt.Errorf("sqlite path is required when store is 'sqlite'")
	}

	if config.Parser.Workers < 1 {
		return fmt.Errorf("parser workers must be at least 1, got: %d", config.Parser.Workers)
	}

	return nil
}
