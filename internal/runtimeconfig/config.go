package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

var (
	ErrStorageTypeUnknown      = errors.New("configurator config: storage type is invalid")
	ErrStorageDriverUnknown    = errors.New("configurator config: storage driver is invalid")
	ErrStorageDSNRequired      = errors.New("configurator config: storage dsn is required for durable storage")
	ErrDraftTTLInvalid         = errors.New("configurator config: draft ttl must be positive")
	ErrCleanupIntervalInvalid  = errors.New("configurator config: cleanup interval must be positive")
	ErrMaxFileSizeInvalid      = errors.New("configurator config: max upload size must be positive")
	ErrUploadDirRequired       = errors.New("configurator config: upload directory is required")
	ErrRendererURLRequired     = errors.New("configurator config: remote renderer url is required when remote rendering is enabled")
	ErrRendererURLInvalid      = errors.New("configurator config: remote renderer url is invalid")
	ErrRendererRetryInvalid    = errors.New("configurator config: remote renderer retry attempts must be zero or positive")
	ErrRendererTimeoutInvalid  = errors.New("configurator config: remote renderer timeout must be positive")
	ErrPublishDirRequired      = errors.New("configurator config: publish directory is required")
	ErrSitesAPIURLInvalid      = errors.New("configurator config: sites api url is invalid")
	ErrSitesAPITimeoutInvalid  = errors.New("configurator config: sites api timeout must be positive")
	ErrServerPortInvalid       = errors.New("configurator config: server port is invalid")
	ErrLoggingProviderRequired = errors.New("configurator config: logging provider is required")
	ErrLoggingProviderUnknown  = errors.New("configurator config: logging provider is invalid")
	ErrLoggingLevelInvalid     = errors.New("configurator config: logging level is invalid")
	ErrLoggingFormatInvalid    = errors.New("configurator config: logging format is invalid")
	ErrDispatcherNeedsCommands = errors.New("configurator config: command dispatcher registration requires commands to be enabled")
)

const (
	StorageDurable = "durable"
	StorageMemory  = "memory"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config aggregates every runtime setting of the configurator service.
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Uploads  UploadConfig
	Preview  PreviewConfig
	Renderer RendererConfig
	Publish  PublishConfig
	SitesAPI SitesAPIConfig
	Commands CommandsConfig
	Logging  LoggingConfig
}

// ServerConfig captures the HTTP listener.
type ServerConfig struct {
	Port            int
	Debug           bool
	ShutdownTimeout time.Duration
}

// StorageConfig selects the draft storage backend.
type StorageConfig struct {
	// Type is durable or memory. "redis" is accepted as an alias of durable.
	Type            string
	Driver          string
	DSN             string
	DraftTTL        time.Duration
	ExtendOnRead    bool
	CleanupInterval time.Duration
}

// UploadConfig captures logo upload limits and location.
type UploadConfig struct {
	Dir         string
	MaxFileSize int64
	PublicPath  string
}

// PreviewConfig captures preview URL and cache behaviour.
type PreviewConfig struct {
	BaseURL     string
	CacheMaxAge time.Duration
}

// RendererConfig configures the remote page builder adapter.
type RendererConfig struct {
	RemoteEnabled bool
	BaseURL       string
	Timeout       time.Duration
	RetryAttempts int
	HealthTimeout time.Duration
}

// PublishConfig configures static site export.
type PublishConfig struct {
	Dir       string
	BaseURL   string
	MinifyCSS bool
}

// SitesAPIConfig configures the external permanent sites API.
type SitesAPIConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// CommandsConfig toggles the go-command integration.
type CommandsConfig struct {
	Enabled                bool
	AutoRegisterDispatcher bool
}

// LoggingConfig captures provider specific logging options.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the defaults used when no environment overrides are set.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            3001,
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Type:            StorageDurable,
			Driver:          DriverSQLite,
			DSN:             "file:configurator.db?cache=shared",
			DraftTTL:        24 * time.Hour,
			ExtendOnRead:    true,
			CleanupInterval: 60 * time.Minute,
		},
		Uploads: UploadConfig{
			Dir:         "./uploads",
			MaxFileSize: 5 * 1024 * 1024,
			PublicPath:  "/uploads",
		},
		Preview: PreviewConfig{
			CacheMaxAge: 5 * time.Minute,
		},
		Renderer: RendererConfig{
			BaseURL:       "http://localhost:8000",
			Timeout:       5 * time.Second,
			RetryAttempts: 3,
			HealthTimeout: 2 * time.Second,
		},
		Publish: PublishConfig{
			Dir:       "./published",
			BaseURL:   "http://localhost:3001",
			MinifyCSS: true,
		},
		SitesAPI: SitesAPIConfig{
			Timeout: 5 * time.Second,
		},
		Commands: CommandsConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// NormalizedStorageType folds aliases onto durable or memory.
func (s StorageConfig) NormalizedStorageType() string {
	switch strings.ToLower(strings.TrimSpace(s.Type)) {
	case "", StorageDurable, "redis", "sql":
		return StorageDurable
	case StorageMemory:
		return StorageMemory
	default:
		return ""
	}
}

// Validate performs startup consistency checks. Any error is fatal.
func (cfg Config) Validate() error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrServerPortInvalid, cfg.Server.Port)
	}

	storageType := cfg.Storage.NormalizedStorageType()
	if storageType == "" {
		return fmt.Errorf("%w: %s", ErrStorageTypeUnknown, cfg.Storage.Type)
	}
	if storageType == StorageDurable {
		switch strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)) {
		case DriverSQLite, DriverPostgres:
		default:
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	}
	if cfg.Storage.DraftTTL <= 0 {
		return ErrDraftTTLInvalid
	}
	if cfg.Storage.CleanupInterval <= 0 {
		return ErrCleanupIntervalInvalid
	}

	if cfg.Uploads.MaxFileSize <= 0 {
		return ErrMaxFileSizeInvalid
	}
	if strings.TrimSpace(cfg.Uploads.Dir) == "" {
		return ErrUploadDirRequired
	}

	if cfg.Renderer.RemoteEnabled {
		base := strings.TrimSpace(cfg.Renderer.BaseURL)
		if base == "" {
			return ErrRendererURLRequired
		}
		if !isHTTPURL(base) {
			return fmt.Errorf("%w: %s", ErrRendererURLInvalid, base)
		}
		if cfg.Renderer.Timeout <= 0 {
			return ErrRendererTimeoutInvalid
		}
	}
	if cfg.Renderer.RetryAttempts < 0 {
		return ErrRendererRetryInvalid
	}

	if strings.TrimSpace(cfg.Publish.Dir) == "" {
		return ErrPublishDirRequired
	}

	if raw := strings.TrimSpace(cfg.SitesAPI.URL); raw != "" && !isHTTPURL(raw) {
		return fmt.Errorf("%w: %s", ErrSitesAPIURLInvalid, raw)
	}
	if cfg.SitesAPI.Timeout <= 0 {
		return ErrSitesAPITimeoutInvalid
	}

	if cfg.Commands.AutoRegisterDispatcher && !cfg.Commands.Enabled {
		return ErrDispatcherNeedsCommands
	}

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
	return nil
}

func isHTTPURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
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
