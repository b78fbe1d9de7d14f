package http

import (
	"github.com/goliatone/go-site-configurator/internal/di"
	"github.com/goliatone/go-site-configurator/internal/logging"
)

// NewContainerAPI builds an API backed by the container's services. Extra
// options are applied last.
func NewContainerAPI(container *di.Container, opts ...APIOption) *API {
	if container == nil {
		return NewAPI(opts...)
	}
	cfg := container.Config
	base := []APIOption{
		WithDraftService(container.DraftService()),
		WithBackendReporter(container.DraftManager()),
		WithPreviewService(container.PreviewService()),
		WithPublishService(container.PublishService()),
		WithMigrationService(container.MigrationService()),
		WithUploads(container.Uploads()),
		WithTemplates(container.Templates()),
		WithAdapter(container.Adapter()),
		WithLogger(logging.HTTPLogger(container.LoggerProvider())),
		WithDebug(cfg.Server.Debug),
		WithCacheMaxAge(cfg.Preview.CacheMaxAge),
	}
	return NewAPI(append(base, opts...)...)
}
