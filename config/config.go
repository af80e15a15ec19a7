// Package config provides configuration management for summaryproxy.
// Configuration is assembled once at process start from built-in defaults,
// an optional YAML file and environment variables, and is never mutated
// afterwards. The upstream API key lives here and nowhere else.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultModel is the Gemini model every summary request is sent to unless
// the deployment pins another one.
const DefaultModel = "gemini-2.0-flash"

// Config represents the complete proxy configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Logging  LoggingConfig  `yaml:"logging"`
	CORS     CORSConfig     `yaml:"cors"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig holds settings for the standalone HTTP server. Serverless
// entry points ignore it; the platform owns the listener there.
type ServerConfig struct {
	// Port specifies the HTTP server port (default: 8080)
	Port int `yaml:"port" env:"PORT"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body (default: 15s)
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout bounds the whole response and must leave room for the
	// upstream call (default: 75s)
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header's keys and values (default: 1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// ShutdownTimeout specifies how long to wait for in-flight requests
	// during graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// UpstreamConfig holds the generation service settings.
type UpstreamConfig struct {
	// APIKey is the Gemini API credential. It is required and is never
	// logged or returned to callers.
	APIKey string `yaml:"api_key" env:"GEMINI_API_KEY"`

	// Model is the model identifier sent with every request
	Model string `yaml:"model" env:"SUMMARYPROXY_MODEL"`

	// BaseURL overrides the Gemini API endpoint (optional)
	BaseURL string `yaml:"base_url" env:"SUMMARYPROXY_UPSTREAM_BASE_URL"`

	// APIVersion overrides the Gemini API version (optional)
	APIVersion string `yaml:"api_version" env:"SUMMARYPROXY_UPSTREAM_API_VERSION"`

	// Timeout is the HTTP client timeout for the upstream call (default: 60s)
	Timeout time.Duration `yaml:"timeout" env:"SUMMARYPROXY_UPSTREAM_TIMEOUT"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	// Level sets logging verbosity: debug, info, warn, error
	Level string `yaml:"level" env:"LOG_LEVEL"`

	// Format specifies log output format: json or text
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

// CORSConfig tunes the preflight answer. Origins are always allowed.
type CORSConfig struct {
	AllowedMethods []string      `yaml:"allowed_methods"`
	AllowedHeaders []string      `yaml:"allowed_headers"`
	MaxAge         time.Duration `yaml:"max_age"`
}

// MetricsConfig controls the Prometheus endpoint of the standalone server.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"SUMMARYPROXY_METRICS_ENABLED"`
	Path    string `yaml:"path"`
}

// DefaultConfig returns the configuration used before any file or
// environment value is applied. It carries no API key.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    75 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
		},
		Upstream: UpstreamConfig{
			Model:   DefaultModel,
			Timeout: 60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		CORS: CORSConfig{
			AllowedMethods: []string{"GET", "HEAD", "PUT", "PATCH", "POST", "DELETE"},
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// LoadFile loads configuration from a YAML file
func LoadFile(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load reads YAML configuration from r. ${VAR} and ${VAR:-default}
// references are expanded before decoding, the result is layered over
// DefaultConfig, environment overrides are applied last and the final
// configuration is validated.
func Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	config := DefaultConfig()

	dec := yaml.NewDecoder(strings.NewReader(expandEnvVars(string(data))))
	if err := dec.Decode(config); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return config, nil
}

// FromEnv builds a configuration from defaults and environment variables
// only. Serverless entry points use it at cold start.
func FromEnv() (*Config, error) {
	config := DefaultConfig()
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return config, nil
}

// expandEnvVars resolves ${VAR} and ${VAR:-default} references. A variable
// that is unset or empty falls back to its default; without a default it
// expands to the empty string.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		if i := strings.Index(key, ":-"); i >= 0 {
			if val := os.Getenv(key[:i]); val != "" {
				return val
			}
			return key[i+2:]
		}
		return os.Getenv(key)
	})
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout < 0 {
		return fmt.Errorf("negative read timeout: %v", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout < 0 {
		return fmt.Errorf("negative write timeout: %v", c.Server.WriteTimeout)
	}
	if c.Server.MaxHeaderBytes < 0 {
		return fmt.Errorf("negative max header bytes: %d", c.Server.MaxHeaderBytes)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("negative shutdown timeout: %v", c.Server.ShutdownTimeout)
	}

	if c.Upstream.APIKey == "" {
		return fmt.Errorf("missing upstream API key: set GEMINI_API_KEY or upstream.api_key")
	}
	if c.Upstream.Model == "" {
		return fmt.Errorf("empty upstream model")
	}
	if c.Upstream.Timeout < 0 {
		return fmt.Errorf("negative upstream timeout: %v", c.Upstream.Timeout)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.CORS.MaxAge < 0 {
		return fmt.Errorf("negative CORS max age: %v", c.CORS.MaxAge)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics path must start with '/': %q", c.Metrics.Path)
	}

	return nil
}
