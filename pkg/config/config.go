package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the resolution gateway
type Config struct {
	// HTTP boundary settings
	Server ServerConfig `yaml:"server" json:"server"`

	// Outbound rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Outbound fetch settings
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Resolution pipeline settings
	Resolver ResolverConfig `yaml:"resolver" json:"resolver"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	ListenAddr        string        `yaml:"listen_addr" json:"listen_addr"`
	AllowedOrigins    []string      `yaml:"allowed_origins" json:"allowed_origins"`
	ReadTimeout       time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout" json:"write_timeout"`
	KeepAliveEnabled  bool          `yaml:"keep_alive_enabled" json:"keep_alive_enabled"`
	KeepAliveSchedule string        `yaml:"keep_alive_schedule" json:"keep_alive_schedule"`
	KeepAliveURL      string        `yaml:"keep_alive_url" json:"keep_alive_url"`
}

// RateLimitConfig holds the process-wide outbound request budget
type RateLimitConfig struct {
	RequestsPerWindow int           `yaml:"requests_per_window" json:"requests_per_window"`
	Window            time.Duration `yaml:"window" json:"window"`
}

// FetchConfig holds outbound dispatch configuration
type FetchConfig struct {
	Timeout         time.Duration `yaml:"timeout" json:"timeout"`
	MaxAttempts     int           `yaml:"max_attempts" json:"max_attempts"`
	BackoffMin      time.Duration `yaml:"backoff_min" json:"backoff_min"`
	BackoffMax      time.Duration `yaml:"backoff_max" json:"backoff_max"`
	RateLimitedMin  time.Duration `yaml:"rate_limited_min" json:"rate_limited_min"`
	RateLimitedMax  time.Duration `yaml:"rate_limited_max" json:"rate_limited_max"`
	FollowRedirects bool          `yaml:"follow_redirects" json:"follow_redirects"`
}

// ResolverConfig holds resolution pipeline configuration
type ResolverConfig struct {
	MaxMediaURLs int `yaml:"max_media_urls" json:"max_media_urls"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr: ":8000",
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
				"http://localhost:3001",
				"http://127.0.0.1:3001",
			},
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      5 * time.Minute,
			KeepAliveEnabled:  false,
			KeepAliveSchedule: "@every 10m",
			KeepAliveURL:      "",
		},
		RateLimit: RateLimitConfig{
			RequestsPerWindow: 30,
			Window:            time.Minute,
		},
		Fetch: FetchConfig{
			Timeout:         30 * time.Second,
			MaxAttempts:     3,
			BackoffMin:      2 * time.Second,
			BackoffMax:      7 * time.Second,
			RateLimitedMin:  10 * time.Second,
			RateLimitedMax:  20 * time.Second,
			FollowRedirects: true,
		},
		Resolver: ResolverConfig{
			MaxMediaURLs: 10,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if addr := os.Getenv("IGRESOLVE_LISTEN_ADDR"); addr != "" {
		c.Server.ListenAddr = addr
	}
	if origins := os.Getenv("IGRESOLVE_ALLOWED_ORIGINS"); origins != "" {
		parts := strings.Split(origins, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		c.Server.AllowedOrigins = parts
	}
	if keepAlive := os.Getenv("IGRESOLVE_KEEP_ALIVE_URL"); keepAlive != "" {
		c.Server.KeepAliveEnabled = true
		c.Server.KeepAliveURL = keepAlive
	}

	if rpw := os.Getenv("IGRESOLVE_REQUESTS_PER_WINDOW"); rpw != "" {
		var val int
		fmt.Sscanf(rpw, "%d", &val)
		if val > 0 {
			c.RateLimit.RequestsPerWindow = val
		}
	}

	if timeout := os.Getenv("IGRESOLVE_FETCH_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			c.Fetch.Timeout = d
		}
	}
	if attempts := os.Getenv("IGRESOLVE_FETCH_ATTEMPTS"); attempts != "" {
		var val int
		fmt.Sscanf(attempts, "%d", &val)
		if val > 0 {
			c.Fetch.MaxAttempts = val
		}
	}

	if logLevel := os.Getenv("IGRESOLVE_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	// Check in order of precedence
	locations := []string{
		".igresolve.yaml",
		".igresolve.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "igresolve", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "igresolve", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".igresolve.yaml"),
		filepath.Join(os.Getenv("HOME"), ".igresolve.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Server.ListenAddr == "" {
		errs = append(errs, errors.New("listen address is required"))
	}

	if c.RateLimit.RequestsPerWindow <= 0 {
		errs = append(errs, errors.New("requests per window must be positive"))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("rate limit window must be positive"))
	}

	if c.Fetch.Timeout <= 0 {
		errs = append(errs, errors.New("fetch timeout must be positive"))
	}
	if c.Fetch.MaxAttempts <= 0 {
		errs = append(errs, errors.New("fetch attempts must be positive"))
	}
	if c.Fetch.BackoffMin > c.Fetch.BackoffMax {
		errs = append(errs, errors.New("fetch backoff minimum exceeds maximum"))
	}
	if c.Fetch.RateLimitedMin > c.Fetch.RateLimitedMax {
		errs = append(errs, errors.New("rate-limited backoff minimum exceeds maximum"))
	}

	if c.Resolver.MaxMediaURLs <= 0 {
		errs = append(errs, errors.New("max media URLs must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if c.Server.KeepAliveEnabled && c.Server.KeepAliveURL == "" {
		errs = append(errs, errors.New("keep-alive URL is required when keep-alive is enabled"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if addr, ok := flags["listen"].(string); ok && addr != "" {
		c.Server.ListenAddr = addr
	}
	if rpw, ok := flags["rate-limit"].(int); ok && rpw > 0 {
		c.RateLimit.RequestsPerWindow = rpw
	}
	if keepAlive, ok := flags["keep-alive-url"].(string); ok && keepAlive != "" {
		c.Server.KeepAliveEnabled = true
		c.Server.KeepAliveURL = keepAlive
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".env"))
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".igresolve.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
