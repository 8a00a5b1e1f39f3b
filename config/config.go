package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Fetch       FetchConfig       `mapstructure:"fetch"`
	LinkPreview LinkPreviewConfig `mapstructure:"linkpreview"`
	Holidays    HolidaysConfig    `mapstructure:"holidays"`
	Log         LogConfig         `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// FetchConfig controls how product pages are retrieved
type FetchConfig struct {
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"` // 0 keeps the transport default
}

// LinkPreviewConfig holds link-preview service configuration
type LinkPreviewConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	BaseURL         string `mapstructure:"base_url"`
	APIKey          string `mapstructure:"api_key"`
	RequestsPerHour int    `mapstructure:"requests_per_hour"`
}

// HolidaysConfig holds public holiday API configuration
type HolidaysConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	CountryCode string `mapstructure:"country_code"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/christmas-planner/")

	// PLANNER_LINKPREVIEW_API_KEY -> linkpreview.api_key
	v.SetEnvPrefix("PLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	config.Holidays.CountryCode = strings.ToUpper(strings.TrimSpace(config.Holidays.CountryCode))
	config.Log.Format = strings.ToLower(config.Log.Format)

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads a .env file from the working directory if one exists.
// Variables already set in the environment win.
func loadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// setDefaults sets default configuration values. Every key needs a default so
// AutomaticEnv can bind it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "chrome-extension://*"})

	// Fetch defaults
	v.SetDefault("fetch.user_agent", "ChristmasPlanner/1.0")
	v.SetDefault("fetch.timeout", "0s")

	// Link preview defaults (free tier allows 60 requests per hour)
	v.SetDefault("linkpreview.enabled", false)
	v.SetDefault("linkpreview.base_url", "https://api.linkpreview.net")
	v.SetDefault("linkpreview.api_key", "")
	v.SetDefault("linkpreview.requests_per_hour", 60)

	// Holiday defaults
	v.SetDefault("holidays.base_url", "https://date.nager.at")
	v.SetDefault("holidays.country_code", "US")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required (set PLANNER_SERVER_PORT)")
	}

	if strings.TrimSpace(config.Fetch.UserAgent) == "" {
		return fmt.Errorf("fetch user agent must not be empty")
	}

	if config.Fetch.Timeout < 0 {
		return fmt.Errorf("fetch timeout must not be negative, got: %s", config.Fetch.Timeout)
	}

	if config.LinkPreview.Enabled {
		if err := validateBaseURL(config.LinkPreview.BaseURL); err != nil {
			return fmt.Errorf("link preview base URL: %w", err)
		}
		if config.LinkPreview.RequestsPerHour < 0 {
			return fmt.Errorf("link preview requests per hour must not be negative, got: %d", config.LinkPreview.RequestsPerHour)
		}
	}

	if err := validateBaseURL(config.Holidays.BaseURL); err != nil {
		return fmt.Errorf("holidays base URL: %w", err)
	}

	if len(config.Holidays.CountryCode) != 2 {
		return fmt.Errorf("holidays country code must be two letters, got: %q", config.Holidays.CountryCode)
	}

	if _, err := zerolog.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", config.Log.Level, err)
	}

	if config.Log.Format != "console" && config.Log.Format != "json" {
		return fmt.Errorf("log format must be 'console' or 'json', got: %s", config.Log.Format)
	}

	return nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("must be an absolute http(s) URL, got: %q", raw)
	}
	return nil
}
