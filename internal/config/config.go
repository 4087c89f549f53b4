package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/cesargomez89/netflix-insights/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port            string
	DBPath          string
	DatasetPath     string
	DatasetURL      string
	RatingsPath     string
	HomeCountry     string
	LogLevel        string
	LogFormat       string
	DatasetCacheTTL time.Duration
	RefreshInterval time.Duration
	LagMinDays      int
	LagMaxDays      int
	TopN            int
	RollingWindow   int
	LagFilter       bool

	// problems found while parsing typed values, reported by Validate
	parseErrors []string
}

// LoadDotEnv loads variables from .env style files into the process
// environment. Variables already set are not overridden. A missing default
// .env file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
	}
	return godotenv.Load(files...)
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	c := &Config{
		Port:        getEnv("PORT", constants.DefaultPort),
		DBPath:      getEnv("DB_PATH", constants.DefaultDBPath),
		DatasetPath: getEnv("DATASET_PATH", constants.DefaultDatasetPath),
		DatasetURL:  getEnv("DATASET_URL", ""),
		RatingsPath: getEnv("RATINGS_PATH", ""),
		HomeCountry: getEnv("HOME_COUNTRY", constants.DefaultHomeCountry),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
	}
	c.DatasetCacheTTL = c.getDuration("DATASET_CACHE_TTL", constants.DefaultDatasetCacheTTL)
	c.RefreshInterval = c.getDuration("REFRESH_INTERVAL", 0)
	c.LagMinDays = c.getInt("LAG_MIN_DAYS", constants.DefaultLagMinDays)
	c.LagMaxDays = c.getInt("LAG_MAX_DAYS", constants.DefaultLagMaxDays)
	c.TopN = c.getInt("TOP_N", constants.DefaultTopN)
	c.RollingWindow = c.getInt("ROLLING_WINDOW", constants.DefaultRollingWindow)
	c.LagFilter = c.getBool("LAG_FILTER", true)
	return c
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	errors := append([]string(nil), c.parseErrors...)

	// Validate Port
	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty")
	}

	if c.DatasetPath == "" && c.DatasetURL == "" {
		errors = append(errors, "one of DATASET_PATH or DATASET_URL must be set")
	}

	if c.DatasetURL != "" {
		u, err := url.Parse(c.DatasetURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errors = append(errors, fmt.Sprintf("DATASET_URL is not a valid http(s) URL: %s", c.DatasetURL))
		}
	}

	if c.DatasetCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("DATASET_CACHE_TTL cannot be negative, got: %s", c.DatasetCacheTTL))
	}

	if c.RefreshInterval < 0 {
		errors = append(errors, fmt.Sprintf("REFRESH_INTERVAL cannot be negative, got: %s", c.RefreshInterval))
	}

	if strings.TrimSpace(c.HomeCountry) == "" {
		errors = append(errors, "HOME_COUNTRY cannot be empty")
	}

	if c.LagMinDays > c.LagMaxDays {
		errors = append(errors, fmt.Sprintf("LAG_MIN_DAYS (%d) cannot exceed LAG_MAX_DAYS (%d)", c.LagMinDays, c.LagMaxDays))
	}

	if c.TopN < 0 || c.TopN > constants.MaxTopN {
		errors = append(errors, fmt.Sprintf("TOP_N must be between 0 and %d, got: %d", constants.MaxTopN, c.TopN))
	}

	if c.RollingWindow < 1 || c.RollingWindow > constants.MaxRollingWindow {
		errors = append(errors, fmt.Sprintf("ROLLING_WINDOW must be between 1 and %d, got: %d", constants.MaxRollingWindow, c.RollingWindow))
	}

	// Validate LogLevel
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	// Validate LogFormat
	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func (c *Config) getInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		c.parseErrors = append(c.parseErrors, fmt.Sprintf("%s must be a whole number, got: %s", key, raw))
		return fallback
	}
	return n
}

func (c *Config) getDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		c.parseErrors = append(c.parseErrors, fmt.Sprintf("%s must be a duration such as 24h, got: %s", key, raw))
		return fallback
	}
	return d
}

// getBool accepts on/off in addition to the strconv spellings.
func (c *Config) getBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "yes":
		return true
	case "off", "no":
		return false
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		c.parseErrors = append(c.parseErrors, fmt.Sprintf("%s must be on or off, got: %s", key, raw))
		return fallback
	}
	return b
}
