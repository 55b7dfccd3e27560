package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
// Values come from an optional YAML file first, then environment variables.
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Catalog  CatalogConfig `yaml:"catalog"`
	Fetch    FetchConfig   `yaml:"fetch"`
	CORS     CORSConfig    `yaml:"cors"`
	LogLevel string        `yaml:"log_level"`
}

type ServerConfig struct {
	Port            string `yaml:"port"`
	Host            string `yaml:"host"`
	ReadTimeout     int    `yaml:"read_timeout"`
	WriteTimeout    int    `yaml:"write_timeout"`
	ShutdownTimeout int    `yaml:"shutdown_timeout"`
}

type CatalogConfig struct {
	// File overrides the embedded product document when set
	File string `yaml:"file"`
}

type FetchConfig struct {
	// BaseURL resolves the pages' relative resource locator. Defaults to
	// this server's own address.
	BaseURL string `yaml:"base_url"`
	// Timeout in seconds per request, 0 for none
	Timeout            int  `yaml:"timeout"`
	CancelOnDeactivate bool `yaml:"cancel_on_deactivate"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Host:            "0.0.0.0",
			ReadTimeout:     15,
			WriteTimeout:    15,
			ShutdownTimeout: 30,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		LogLevel: "info",
	}
}

// Load reads configuration from the file named by CONFIG_FILE (if any) and
// then from environment variables
func Load() (*Config, error) {
	return LoadFile(os.Getenv("CONFIG_FILE"))
}

// LoadFile is Load with an explicit file path. An empty path or a missing
// file yields defaults plus environment overrides.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if cfg.Fetch.BaseURL == "" {
		cfg.Fetch.BaseURL = cfg.selfURL()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.Host = getEnv("HOST", c.Server.Host)
	c.Server.ReadTimeout = getEnvAsInt("READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvAsInt("WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.ShutdownTimeout = getEnvAsInt("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Catalog.File = getEnv("CATALOG_FILE", c.Catalog.File)
	c.Fetch.BaseURL = getEnv("FETCH_BASE_URL", c.Fetch.BaseURL)
	c.Fetch.Timeout = getEnvAsInt("FETCH_TIMEOUT", c.Fetch.Timeout)
	c.Fetch.CancelOnDeactivate = getEnvAsBool("FETCH_CANCEL_ON_DEACTIVATE", c.Fetch.CancelOnDeactivate)
	c.CORS.AllowedOrigins = getEnvAsSlice("CORS_ALLOWED_ORIGINS", c.CORS.AllowedOrigins)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

// selfURL is the address pages use to reach this server's own catalog
func (c *Config) selfURL() string {
	host := c.Server.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, c.Server.Port)
}

// PageWait is how long a page request waits for its fetch. It stays one
// second under WriteTimeout (never below half of it) so the pending view is
// written before the connection deadline. Zero when WriteTimeout is unset.
func (c *Config) PageWait() time.Duration {
	write := time.Duration(c.Server.WriteTimeout) * time.Second
	if write <= 0 {
		return 0
	}
	wait := write - time.Second
	if wait < write/2 {
		wait = write / 2
	}
	return wait
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, c.Server.Port)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Fetch.Timeout < 0 {
		return fmt.Errorf("FETCH_TIMEOUT must not be negative")
	}

	u, err := url.Parse(c.Fetch.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid FETCH_BASE_URL: %q", c.Fetch.BaseURL)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
