package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Dedup       DedupConfig     `toml:"dedup"`
	Geo         GeoConfig       `toml:"geo"`
	Risk        RiskConfig      `toml:"risk"`
	Alerts      AlertsConfig    `toml:"alerts"`
	Claude      ClaudeConfig    `toml:"claude"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level" validate:"oneof=debug info warn error"`
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs
}

// DedupConfig controls exact and near-duplicate filtering at intake.
type DedupConfig struct {
	// Threshold is the maximum Hamming distance at which two fingerprints
	// count as near-duplicates.
	Threshold int `toml:"threshold" validate:"gte=0,lte=64"`
	// RecentWindow bounds how many recent signals a candidate is compared
	// against. Duplicates older than the window are not caught.
	RecentWindow int `toml:"recent_window" validate:"gt=0"`
}

// GeoConfig controls the territory resolver.
type GeoConfig struct {
	Country        string `toml:"country"`         // Monitored country name
	CountryTLD     string `toml:"country_tld"`     // Domestic source domain suffix
	MaxTerritories int    `toml:"max_territories"` // Cap on territories per signal
	// FuzzyThreshold is the minimum string similarity for a fuzzy gazetteer hit.
	FuzzyThreshold float64 `toml:"fuzzy_threshold" validate:"gte=0,lte=1"`
	// FallbackMinConfidence discards low-confidence fuzzy-matched
	// territories; the resolver prefers false negatives on geography.
	FallbackMinConfidence float64 `toml:"fallback_min_confidence" validate:"gte=0,lte=1"`
	// RequestTimeout bounds each outbound AI call, as a duration string.
	RequestTimeout string `toml:"request_timeout"`
}

// RiskConfig controls windowed aggregation.
type RiskConfig struct {
	WindowDays int `toml:"window_days" validate:"gt=0"`
}

// AlertsConfig controls the alert engine.
type AlertsConfig struct {
	WebhookURL    string `toml:"webhook_url"`
	EvidenceLimit int    `toml:"evidence_limit" validate:"gt=0"`
	// SummaryEnabled requests a short AI summary per alert when the LLM
	// service is configured. Failures never block the alert.
	SummaryEnabled bool `toml:"summary_enabled"`
}

// ClaudeConfig contains Anthropic Claude API configuration for AI services
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Model for AI operations
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between calls
	Temperature float32 `toml:"temperature"` // Completion temperature
}

// SchedulerConfig wires the three batch entry points to cron schedules.
type SchedulerConfig struct {
	Enabled        bool     `toml:"enabled"`
	Tenants        []string `toml:"tenants"`
	IngestSchedule string   `toml:"ingest_schedule"`
	RiskSchedule   string   `toml:"risk_schedule"`
	AlertsSchedule string   `toml:"alerts_schedule"`
	RunOnStartup   bool     `toml:"run_on_startup"`
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability; only
// user-facing settings should be exposed in vigia.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Dedup: DedupConfig{
			Threshold:    3,   // ~5% bit difference on a 64-bit fingerprint
			RecentWindow: 150, // bounded-cost tradeoff; older duplicates pass
		},
		Geo: GeoConfig{
			Country:               "Chile",
			CountryTLD:            ".cl",
			MaxTerritories:        3,
			FuzzyThreshold:        0.85,
			FallbackMinConfidence: 0.70,
			RequestTimeout:        "30s",
		},
		Risk: RiskConfig{
			WindowDays: 7,
		},
		Alerts: AlertsConfig{
			WebhookURL:     "",
			EvidenceLimit:  5,
			SummaryEnabled: true,
		},
		Claude: ClaudeConfig{
			APIKey:      "", // User must provide API key (ANTHROPIC_API_KEY or config)
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   1024,
			Timeout:     "30s",
			RateLimit:   "1s",
			Temperature: 0.1,
		},
		Scheduler: SchedulerConfig{
			Enabled:        true,
			Tenants:        []string{"default"},
			IngestSchedule: "@every 30m",
			RiskSchedule:   "@every 60m",
			AlertsSchedule: "@every 15m",
			RunOnStartup:   true,
		},
	}
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
// An empty path loads defaults and environment overrides only.
func LoadFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("VIGIA_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if level := os.Getenv("VIGIA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("VIGIA_STORAGE_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}

	// API key resolution order: VIGIA_CLAUDE_API_KEY > ANTHROPIC_API_KEY > config file
	if key := os.Getenv("VIGIA_CLAUDE_API_KEY"); key != "" {
		config.Claude.APIKey = key
	} else if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" && config.Claude.APIKey == "" {
		config.Claude.APIKey = key
	}

	if url := os.Getenv("VIGIA_WEBHOOK_URL"); url != "" {
		config.Alerts.WebhookURL = url
	}

	if tenants := os.Getenv("VIGIA_TENANTS"); tenants != "" {
		config.Scheduler.Tenants = splitAndTrim(tenants)
	}

	if v := os.Getenv("VIGIA_SCHEDULER_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			config.Scheduler.Enabled = enabled
		}
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func validate(config *Config) error {
	v := validator.New()
	if err := v.Struct(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
