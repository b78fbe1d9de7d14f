package runtimeconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LookupFunc resolves an environment key. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// FromEnv overlays environment values on DefaultConfig. Malformed values are
// returned as errors naming the offending key; the result is not validated.
func FromEnv(lookup LookupFunc) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg := DefaultConfig()
	r := envReader{lookup: lookup}

	r.int("PORT", &cfg.Server.Port)
	r.bool("DEBUG", &cfg.Server.Debug)

	r.string("STORAGE_TYPE", &cfg.Storage.Type)
	r.string("STORAGE_DRIVER", &cfg.Storage.Driver)
	r.string("DATABASE_URL", &cfg.Storage.DSN)
	r.hours("SITE_TTL_HOURS", &cfg.Storage.DraftTTL)
	r.bool("REDIS_TTL_EXTEND_ON_READ", &cfg.Storage.ExtendOnRead)
	r.bool("TTL_EXTEND_ON_READ", &cfg.Storage.ExtendOnRead)
	r.minutes("CLEANUP_INTERVAL_MINUTES", &cfg.Storage.CleanupInterval)

	r.string("UPLOAD_DIR", &cfg.Uploads.Dir)
	r.int64("MAX_FILE_SIZE", &cfg.Uploads.MaxFileSize)

	r.string("PREVIEW_BASE_URL", &cfg.Preview.BaseURL)

	r.bool("FRAPPE_ENABLED", &cfg.Renderer.RemoteEnabled)
	r.string("FRAPPE_SERVICE_URL", &cfg.Renderer.BaseURL)
	r.millis("FRAPPE_TIMEOUT_MS", &cfg.Renderer.Timeout)
	r.int("FRAPPE_RETRY_ATTEMPTS", &cfg.Renderer.RetryAttempts)

	r.string("PUBLISH_DIR", &cfg.Publish.Dir)
	r.string("PUBLISH_BASE_URL", &cfg.Publish.BaseURL)
	r.bool("CSS_MINIFY", &cfg.Publish.MinifyCSS)

	r.string("SITES_API_URL", &cfg.SitesAPI.URL)
	r.string("SITES_API_TOKEN", &cfg.SitesAPI.Token)
	r.millis("SITES_API_TIMEOUT", &cfg.SitesAPI.Timeout)

	r.string("LOG_PROVIDER", &cfg.Logging.Provider)
	r.string("LOG_LEVEL", &cfg.Logging.Level)
	r.string("LOG_FORMAT", &cfg.Logging.Format)

	r.bool("COMMANDS_ENABLED", &cfg.Commands.Enabled)
	r.bool("COMMANDS_DISPATCHER", &cfg.Commands.AutoRegisterDispatcher)

	if r.err != nil {
		return Config{}, r.err
	}
	return cfg, nil
}

// envReader records the first parse failure and ignores later keys.
type envReader struct {
	lookup LookupFunc
	err    error
}

func (r *envReader) value(key string) (string, bool) {
	if r.err != nil {
		return "", false
	}
	raw, ok := r.lookup(key)
	if !ok {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

func (r *envReader) fail(key, raw string, err error) {
	r.err = fmt.Errorf("configurator config: %s=%q: %w", key, raw, err)
}

func (r *envReader) string(key string, target *string) {
	if raw, ok := r.value(key); ok {
		*target = raw
	}
}

func (r *envReader) bool(key string, target *bool) {
	raw, ok := r.value(key)
	if !ok {
		return
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		r.fail(key, raw, err)
		return
	}
	*target = parsed
}

func (r *envReader) int(key string, target *int) {
	raw, ok := r.value(key)
	if !ok {
		return
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		r.fail(key, raw, err)
		return
	}
	*target = parsed
}

func (r *envReader) int64(key string, target *int64) {
	raw, ok := r.value(key)
	if !ok {
		return
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		r.fail(key, raw, err)
		return
	}
	*target = parsed
}

func (r *envReader) duration(key string, unit time.Duration, target *time.Duration) {
	raw, ok := r.value(key)
	if !ok {
		return
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		r.fail(key, raw, err)
		return
	}
	*target = time.Duration(parsed * float64(unit))
}

func (r *envReader) hours(key string, target *time.Duration) {
	r.duration(key, time.Hour, target)
}

func (r *envReader) minutes(key string, target *time.Duration) {
	r.duration(key, time.Minute, target)
}

func (r *envReader) millis(key string, target *time.Duration) {
	r.duration(key, time.Millisecond, target)
}
