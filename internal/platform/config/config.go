// Package config loads quote board settings with koanf. Sources, lowest
// precedence first: built-in defaults, configs/base.yaml, the profile file,
// then APP_ environment variables (a .env file feeds those).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultQuoteStoreURL is where json-server listens by default.
	DefaultQuoteStoreURL = "http://localhost:3000"

	// DefaultSessionCookie names the cookie carrying the board session id.
	DefaultSessionCookie = "quoteboard_session"

	envPrefix = "APP_"
	configDir = "configs"
)

// Config is everything the board server and terminal client read at start.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Client    ClientConfig    `koanf:"client"    validate:"required"`
	Services  ServicesConfig  `koanf:"services"  validate:"required"`
	Board     BoardConfig     `koanf:"board"     validate:"required"`
	Health    HealthConfig    `koanf:"health"`
}

// AppConfig identifies the running build.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig tunes the board's http.Server.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig picks the log level, format and optional file.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig configures the lumberjack-rotated JSON log.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig points OTLP export at a collector.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	Protocol     string  `koanf:"protocol"      validate:"omitempty,oneof=grpc http"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// ClientConfig tunes calls to the quote store.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// RetryConfig controls per-call retries with jittered exponential backoff.
// One attempt means no retry.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig says when store calls stop being attempted:
// MaxFailures consecutive failures open it for Timeout, then up to
// HalfOpenLimit probes must succeed to close it.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig sizes the keep-alive pool to the store.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// ServicesConfig lists downstream services. The board has one.
type ServicesConfig struct {
	Quotes ServiceEndpointConfig `koanf:"quotes" validate:"required"`
}

// ServiceEndpointConfig locates a service. Name labels logs, metrics and
// the readiness check.
type ServiceEndpointConfig struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`
	Name    string `koanf:"name"     validate:"required"`
}

// BoardConfig configures per-browser board sessions.
type BoardConfig struct {
	SessionCookie string        `koanf:"session_cookie" validate:"required"`
	SessionTTL    time.Duration `koanf:"session_ttl"    validate:"required,min=1m"`
	SecureCookie  bool          `koanf:"secure_cookie"`
}

// HealthConfig bounds the readiness probe.
type HealthConfig struct {
	CheckTimeout time.Duration `koanf:"check_timeout" validate:"omitempty,min=100ms"`
}

// defaults is the lowest-precedence source.
func defaults() map[string]any {
	return map[string]any{
		"app": map[string]any{
			"name":        "quoteboard",
			"version":     "dev",
			"environment": "local",
		},
		"server": map[string]any{
			"host":             "0.0.0.0",
			"port":             8080,
			"read_timeout":     "30s",
			"write_timeout":    "30s",
			"idle_timeout":     "2m",
			"shutdown_timeout": "10s",
			"max_request_size": 1 << 20,
		},
		"log": map[string]any{
			"level":  "info",
			"format": "json",
			"file": map[string]any{
				"enabled":     false,
				"path":        "./logs/quoteboard.log",
				"max_size":    100,
				"max_backups": 3,
				"max_age":     28,
				"compress":    true,
			},
		},
		"telemetry": map[string]any{
			"enabled":       false,
			"protocol":      "grpc",
			"service_name":  "quoteboard",
			"sampling_rate": 1.0,
		},
		"client": map[string]any{
			"timeout": "30s",
			"retry": map[string]any{
				"max_attempts":     1,
				"initial_interval": "100ms",
				"max_interval":     "5s",
				"multiplier":       2.0,
				"jitter_factor":    0.25,
			},
			"circuit_breaker": map[string]any{
				"max_failures":    5,
				"timeout":         "30s",
				"half_open_limit": 3,
			},
			"transport": map[string]any{
				"max_idle_conns":          100,
				"max_idle_conns_per_host": 10,
				"idle_conn_timeout":       "90s",
			},
		},
		"services": map[string]any{
			"quotes": map[string]any{"base_url": DefaultQuoteStoreURL, "name": "quote-store"},
		},
		"board": map[string]any{
			"session_cookie": DefaultSessionCookie,
			"session_ttl":    "30m",
			"secure_cookie":  false,
		},
		"health": map[string]any{"check_timeout": "2s"},
	}
}

// Load reads every source for profile into a Config. An empty profile
// skips the profile file; missing files are skipped too. The result is not
// validated.
func Load(profile string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("defaults: %w", err)
	}

	files := []string{"base"}
	if profile != "" {
		files = append(files, profile)
	}

	for _, name := range files {
		path := fmt.Sprintf("%s/%s.yaml", configDir, name)
		if err := loadYAML(k, path); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	cfg := new(Config)
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return cfg, nil
}

// multiWordKeys lists config leaves whose names contain underscores.
// APP_SERVICES_QUOTES_BASE_URL cannot be split on every underscore, so these
// are restored after the naive mapping. Longer names come first.
var multiWordKeys = []string{
	"base_url", "read_timeout", "write_timeout", "idle_timeout", "shutdown_timeout",
	"max_request_size", "max_size", "max_backups", "max_age", "service_name",
	"sampling_rate", "max_attempts", "initial_interval", "max_interval", "jitter_factor",
	"circuit_breaker", "max_failures", "half_open_limit", "max_idle_conns_per_host",
	"max_idle_conns", "idle_conn_timeout", "session_cookie", "session_ttl",
	"secure_cookie", "check_timeout",
}

// envKey maps APP_CLIENT_RETRY_MAX_ATTEMPTS to client.retry.max_attempts.
func envKey(s string) string {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")

	for _, word := range multiWordKeys {
		key = strings.ReplaceAll(key, strings.ReplaceAll(word, "_", "."), word)
	}

	return key
}

func loadYAML(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
