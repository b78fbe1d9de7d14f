package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-site-configurator/pkg/interfaces"
)

const (
	rootModule      = "configurator"
	draftsModule    = "configurator.drafts"
	adaptersModule  = "configurator.adapters"
	previewModule   = "configurator.preview"
	migrationModule = "configurator.migration"
	publishModule   = "configurator.publish"
	httpModule      = "configurator.http"
	mediaModule     = "configurator.media"
)

const (
	fieldDraftID = "draft_id"
	fieldSiteID  = "site_id"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// DraftsLogger returns the logger namespace reserved for draft storage.
func DraftsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, draftsModule)
}

// AdaptersLogger returns the logger namespace reserved for rendering adapters.
func AdaptersLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, adaptersModule)
}

// PreviewLogger returns the logger namespace reserved for previews.
func PreviewLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, previewModule)
}

// MigrationLogger returns the logger namespace reserved for draft migration.
func MigrationLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, migrationModule)
}

// PublishLogger returns the logger namespace reserved for static publishing.
func PublishLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, publishModule)
}

// HTTPLogger returns the logger namespace reserved for the HTTP surface.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// MediaLogger returns the logger namespace reserved for logo uploads.
func MediaLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, mediaModule)
}

// WithDraft enriches the logger with draft and site identifiers. Empty values
// are ignored.
func WithDraft(logger interfaces.Logger, draftID, siteID string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(draftID); trimmed != "" {
		fields[fieldDraftID] = trimmed
	}
	if trimmed := strings.TrimSpace(siteID); trimmed != "" {
		fields[fieldSiteID] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
