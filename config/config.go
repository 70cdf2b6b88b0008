package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Feed     FeedConfig
	Catalog  CatalogConfig
	Matching MatchingConfig
	Ledger   LedgerConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// FeedConfig holds catalog feed configuration
type FeedConfig struct {
	URL string `mapstructure:"url"`
}

// CatalogConfig holds catalog snapshot configuration
type CatalogConfig struct {
	SnapshotPath    string        `mapstructure:"snapshot_path"`
	MaxAge          time.Duration `mapstructure:"max_age"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// MatchingConfig holds fuzzy matching and classification parameters.
// These are tunable, not algorithmic law.
type MatchingConfig struct {
	TokenOverlapWeight    float64 `mapstructure:"token_overlap_weight"`
	EditSimilarityWeight  float64 `mapstructure:"edit_similarity_weight"`
	ConfidenceFloor       float64 `mapstructure:"confidence_floor"`
	SignificanceThreshold int64   `mapstructure:"significance_threshold"` // euro cents
	EnableDebugLogging    bool    `mapstructure:"enable_debug_logging"`
}

// LedgerConfig holds feedback ledger configuration
type LedgerConfig struct {
	Path string `mapstructure:"path"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/prijsradar/")

	// Environment variable settings
	v.SetEnvPrefix("PRIJSRADAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
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
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Feed defaults: checkjebon.nl open data covering AH, Jumbo,
	// Hoogvliet, Lidl, Dirk, Plus and others
	v.SetDefault("feed.url", "https://raw.githubusercontent.com/supermarkt/checkjebon/refs/heads/main/data/supermarkets.json")

	// Catalog defaults
	v.SetDefault("catalog.snapshot_path", "data/supermarkets-cache.json")
	v.SetDefault("catalog.max_age", "24h")
	v.SetDefault("catalog.refresh_interval", "24h")

	// Matching defaults
	v.SetDefault("matching.token_overlap_weight", 0.7)
	v.SetDefault("matching.edit_similarity_weight", 0.3)
	v.SetDefault("matching.confidence_floor", 0.3)
	v.SetDefault("matching.significance_threshold", 5)

	// Ledger defaults
	v.SetDefault("ledger.path", "data/grocery-feedback.jsonl")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Feed.URL == "" {
		return fmt.Errorf("feed URL is required (set PRIJSRADAR_FEED_URL)")
	}

	if config.Matching.ConfidenceFloor < 0 || config.Matching.ConfidenceFloor > 1 {
		return fmt.Errorf("confidence floor must be within [0,1], got: %v", config.Matching.ConfidenceFloor)
	}

	weightSum := config.Matching.TokenOverlapWeight + config.Matching.EditSimilarityWeight
	if weightSum <= 0 || weightSum > 1.001 {
		return fmt.Errorf("matching weights must sum to at most 1, got: %v", weightSum)
	}

	if config.Matching.SignificanceThreshold < 0 {
		return fmt.Errorf("significance threshold must be non-negative, got: %d", config.Matching.SignificanceThreshold)
	}

	if config.Ledger.Path == "" {
		return fmt.Errorf("ledger path is required (set PRIJSRADAR_LEDGER_PATH)")
	}

	return nil
}
