package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrStorageDialectUnknown indicates an unsupported relational backend.
var ErrStorageDialectUnknown = errors.New("gallery config: storage dialect is invalid")

// ErrStorageDSNRequired ensures database-backed dialects carry a connection string.
var ErrStorageDSNRequired = errors.New("gallery config: storage DSN is required for database dialects")

// ErrCDNCredentialsIncomplete ensures the CDN binding carries all of base URL, key, and secret.
var ErrCDNCredentialsIncomplete = errors.New("gallery config: CDN base URL, api key, and api secret must be set together")

// ErrAuthSecretRequired indicates the token signing secret is missing.
var ErrAuthSecretRequired = errors.New("gallery config: auth secret is required")

var ErrAuthTokenTTLInvalid = errors.New("gallery config: auth token TTL must be zero or positive")
var ErrUploadTargetFractionInvalid = errors.New("gallery config: upload compression target fraction must be in (0, 1]")
var ErrAccessLogRetentionInvalid = errors.New("gallery config: access log retention must be zero or positive")
var ErrCommandsCronRequiresCommands = errors.New("gallery config: cron auto-registration requires commands to be enabled")
var ErrLoggingProviderRequired = errors.New("gallery config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("gallery config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("gallery config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("gallery config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the gallery module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled   bool
	Storage   StorageConfig
	CDN       CDNConfig
	Auth      AuthConfig
	Uploads   UploadConfig
	Cache     CacheConfig
	Retention RetentionConfig
	Features  Features
	Commands  CommandsConfig
	Logging   LoggingConfig
}

// StorageConfig selects the relational backend for repositories.
type StorageConfig struct {
	Dialect string
	DSN     string
}

// CDNConfig carries the credentials for the remote media store.
type CDNConfig struct {
	BaseURL   string
	APIKey    string
	APISecret string
	Timeout   time.Duration
}

// AuthConfig captures token issuing parameters.
type AuthConfig struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

// UploadConfig controls the admission flow's recompression rescue path.
type UploadConfig struct {
	CompressImages bool
	TargetFraction float64
}

// CacheConfig captures repository cache behaviour.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// RetentionConfig captures the access log retention window in days.
type RetentionConfig struct {
	AccessLogDays int
}

// Features toggles module functionality.
type Features struct {
	Logger bool
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled          bool
	AutoRegisterCron bool
	MediaCleanupCron string
	LogCleanupCron   string
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults suited to a single-node deployment.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Storage: StorageConfig{
			Dialect: "sqlite",
			DSN:     "file:gallery.db?cache=shared&_fk=1",
		},
		CDN: CDNConfig{
			Timeout: time.Minute,
		},
		Auth: AuthConfig{
			Issuer:   "go-gallery",
			TokenTTL: 7 * 24 * time.Hour,
		},
		Uploads: UploadConfig{
			CompressImages: true,
			TargetFraction: 0.8,
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Retention: RetentionConfig{
			AccessLogDays: 90,
		},
		Features: Features{},
		Commands: CommandsConfig{},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	dialect := strings.ToLower(strings.TrimSpace(cfg.Storage.Dialect))
	switch dialect {
	case "sqlite", "postgres":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	case "memory":
	default:
		return fmt.Errorf("%w: %s", ErrStorageDialectUnknown, cfg.Storage.Dialect)
	}

	if cfg.CDN.configured() && !cfg.CDN.complete() {
		return ErrCDNCredentialsIncomplete
	}

	if strings.TrimSpace(cfg.Auth.Secret) == "" {
		return ErrAuthSecretRequired
	}
	if cfg.Auth.TokenTTL < 0 {
		return ErrAuthTokenTTLInvalid
	}

	if fraction := cfg.Uploads.TargetFraction; fraction != 0 && (fraction <= 0 || fraction > 1) {
		return ErrUploadTargetFractionInvalid
	}

	if cfg.Retention.AccessLogDays < 0 {
		return ErrAccessLogRetentionInvalid
	}

	if cfg.Commands.AutoRegisterCron && !cfg.Commands.Enabled {
		return ErrCommandsCronRequiresCommands
	}

	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func (c CDNConfig) configured() bool {
	return strings.TrimSpace(c.BaseURL) != "" ||
		strings.TrimSpace(c.APIKey) != "" ||
		strings.TrimSpace(c.APISecret) != ""
}

func (c CDNConfig) complete() bool {
	return strings.TrimSpace(c.BaseURL) != "" &&
		strings.TrimSpace(c.APIKey) != "" &&
		strings.TrimSpace(c.APISecret) != ""
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
