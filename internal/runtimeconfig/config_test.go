package runtimeconfig_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-site-configurator/internal/runtimeconfig"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_RejectsInvalidPort(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Server.Port = 0

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrServerPortInvalid) {
		t.Fatalf("expected ErrServerPortInvalid, got %v", err)
	}
}

func TestConfigValidate_StorageTypes(t *testing.T) {
	cases := []struct {
		name    string
		typ     string
		want    string
		wantErr error
	}{
		{name: "empty defaults to durable", typ: "", want: runtimeconfig.StorageDurable},
		{name: "redis alias", typ: "redis", want: runtimeconfig.StorageDurable},
		{name: "memory", typ: " Memory ", want: runtimeconfig.StorageMemory},
		{name: "unknown", typ: "s3", wantErr: runtimeconfig.ErrStorageTypeUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			cfg.Storage.Type = tc.typ

			if got := cfg.Storage.NormalizedStorageType(); tc.wantErr == nil && got != tc.want {
				t.Fatalf("expected normalized type %q, got %q", tc.want, got)
			}
			err := cfg.Validate()
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfigValidate_DurableRequiresDriverAndDSN(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = "oracle"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrStorageDriverUnknown) {
		t.Fatalf("expected ErrStorageDriverUnknown, got %v", err)
	}

	cfg = runtimeconfig.DefaultConfig()
	cfg.Storage.DSN = "  "
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}

	cfg.Storage.Type = runtimeconfig.StorageMemory
	if err := cfg.Validate(); err != nil {
		t.Fatalf("memory storage should not need a dsn, got %v", err)
	}
}

func TestConfigValidate_RemoteRendererRequiresURL(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Renderer.RemoteEnabled = true
	cfg.Renderer.BaseURL = ""
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrRendererURLRequired) {
		t.Fatalf("expected ErrRendererURLRequired, got %v", err)
	}

	cfg.Renderer.BaseURL = "ftp://builder"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrRendererURLInvalid) {
		t.Fatalf("expected ErrRendererURLInvalid, got %v", err)
	}

	cfg.Renderer.RemoteEnabled = false
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled renderer should skip url checks, got %v", err)
	}
}

func TestConfigValidate_DispatcherNeedsCommands(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Commands.Enabled = false
	cfg.Commands.AutoRegisterDispatcher = true

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrDispatcherNeedsCommands) {
		t.Fatalf("expected ErrDispatcherNeedsCommands, got %v", err)
	}
}

func TestConfigValidate_Logging(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = ""
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingProviderRequired) {
		t.Fatalf("expected ErrLoggingProviderRequired, got %v", err)
	}

	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}

	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}

	cfg.Logging.Format = "json"
	cfg.Logging.Level = "loud"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}
}

func mapLookup(values map[string]string) runtimeconfig.LookupFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestFromEnv_DefaultsWhenUnset(t *testing.T) {
	cfg, err := runtimeconfig.FromEnv(mapLookup(nil))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Server.Port != 3001 {
		t.Fatalf("expected default port 3001, got %d", cfg.Server.Port)
	}
	if cfg.Storage.DraftTTL != 24*time.Hour {
		t.Fatalf("expected default ttl 24h, got %s", cfg.Storage.DraftTTL)
	}
	if !cfg.Storage.ExtendOnRead {
		t.Fatalf("expected extend on read by default")
	}
	if cfg.Renderer.RemoteEnabled {
		t.Fatalf("expected remote renderer disabled by default")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := runtimeconfig.FromEnv(mapLookup(map[string]string{
		"PORT":                     "8080",
		"STORAGE_TYPE":             "memory",
		"SITE_TTL_HOURS":           "1.5",
		"REDIS_TTL_EXTEND_ON_READ": "false",
		"CLEANUP_INTERVAL_MINUTES": "5",
		"MAX_FILE_SIZE":            "1024",
		"FRAPPE_ENABLED":           "true",
		"FRAPPE_SERVICE_URL":       "http://builder:8000",
		"FRAPPE_TIMEOUT_MS":        "250",
		"FRAPPE_RETRY_ATTEMPTS":    "0",
		"SITES_API_URL":            "https://sites.example.com",
		"SITES_API_TOKEN":          "secret",
		"SITES_API_TIMEOUT":        "1000",
		"CSS_MINIFY":               "false",
		"LOG_LEVEL":                " debug ",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Storage.NormalizedStorageType() != runtimeconfig.StorageMemory {
		t.Fatalf("expected memory storage, got %q", cfg.Storage.Type)
	}
	if cfg.Storage.DraftTTL != 90*time.Minute {
		t.Fatalf("expected 90m ttl, got %s", cfg.Storage.DraftTTL)
	}
	if cfg.Storage.ExtendOnRead {
		t.Fatalf("expected extend on read disabled")
	}
	if cfg.Storage.CleanupInterval != 5*time.Minute {
		t.Fatalf("expected 5m cleanup, got %s", cfg.Storage.CleanupInterval)
	}
	if cfg.Uploads.MaxFileSize != 1024 {
		t.Fatalf("expected max file size 1024, got %d", cfg.Uploads.MaxFileSize)
	}
	if !cfg.Renderer.RemoteEnabled || cfg.Renderer.BaseURL != "http://builder:8000" {
		t.Fatalf("unexpected renderer config %+v", cfg.Renderer)
	}
	if cfg.Renderer.Timeout != 250*time.Millisecond || cfg.Renderer.RetryAttempts != 0 {
		t.Fatalf("unexpected renderer timing %+v", cfg.Renderer)
	}
	if cfg.SitesAPI.Token != "secret" || cfg.SitesAPI.Timeout != time.Second {
		t.Fatalf("unexpected sites api config %+v", cfg.SitesAPI)
	}
	if cfg.Publish.MinifyCSS {
		t.Fatalf("expected css minify disabled")
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected trimmed log level, got %q", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("overridden config should validate: %v", err)
	}
}

func TestFromEnv_ReportsMalformedValue(t *testing.T) {
	_, err := runtimeconfig.FromEnv(mapLookup(map[string]string{
		"PORT":           "eighty",
		"SITE_TTL_HOURS": "nope",
	}))
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if !strings.Contains(err.Error(), "PORT") {
		t.Fatalf("expected first failing key in error, got %v", err)
	}
}
