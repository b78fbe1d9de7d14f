package configurator

import (
	"context"
	"net/http"

	"github.com/goliatone/go-site-configurator/commands"
	"github.com/goliatone/go-site-configurator/internal/adapters"
	"github.com/goliatone/go-site-configurator/internal/di"
	"github.com/goliatone/go-site-configurator/internal/domain"
	"github.com/goliatone/go-site-configurator/internal/drafts"
	httpapi "github.com/goliatone/go-site-configurator/internal/http"
	"github.com/goliatone/go-site-configurator/internal/media"
	"github.com/goliatone/go-site-configurator/internal/migration"
	"github.com/goliatone/go-site-configurator/internal/preview"
	"github.com/goliatone/go-site-configurator/internal/publish"
	"github.com/goliatone/go-site-configurator/internal/templates"
)

// Draft exports the draft model.
type Draft = domain.Draft

// SiteConfig exports the generated site configuration.
type SiteConfig = domain.SiteConfig

// Logo exports uploaded logo metadata.
type Logo = domain.Logo

// CreateDraftInput exports the draft creation payload.
type CreateDraftInput = drafts.CreateDraftInput

// UpdateDraftInput exports the draft patch payload.
type UpdateDraftInput = drafts.UpdateDraftInput

// DraftService exports the draft lifecycle service.
type DraftService = *drafts.Service

// PreviewService exports the preview renderer.
type PreviewService = *preview.Service

// PublishService exports the static site publisher.
type PublishService = *publish.Service

// MigrationService exports the draft to permanent site migrator.
type MigrationService = *migration.Service

// MigrationResult exports the typed migration outcome.
type MigrationResult = migration.Result

// Adapter exports the rendering adapter contract.
type Adapter = adapters.Adapter

// Module represents the top level configurator runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI
// overrides. Drafts stay in memory unless a database is supplied; use Open to
// connect one from the config.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Open constructs a module, connecting and migrating the durable store when
// the config asks for one.
func Open(ctx context.Context, cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.Open(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Start selects the storage backend and starts background cleanup.
func (m *Module) Start(ctx context.Context) error {
	return m.container.Start(ctx)
}

// Close stops background work and releases owned resources.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

func (m *Module) Drafts() DraftService {
	return m.container.DraftService()
}

func (m *Module) Preview() PreviewService {
	return m.container.PreviewService()
}

func (m *Module) Publisher() PublishService {
	return m.container.PublishService()
}

func (m *Module) Migrator() MigrationService {
	return m.container.MigrationService()
}

// Templates returns the industry template registry.
func (m *Module) Templates() *templates.Registry {
	return m.container.Templates()
}

// Adapter returns the rendering adapter selected at startup.
func (m *Module) Adapter() Adapter {
	return m.container.Adapter()
}

// Uploads returns the logo file store.
func (m *Module) Uploads() *media.Store {
	return m.container.Uploads()
}

// GetPreview generates the draft's config and renders its preview document.
func (m *Module) GetPreview(ctx context.Context, draftID string) (string, error) {
	cfg, err := m.Drafts().GenerateSiteConfig(ctx, draftID)
	if err != nil {
		return "", err
	}
	return m.Preview().GeneratePreview(ctx, cfg)
}

// MigrateDraft hands the draft to the sites API on behalf of userID.
func (m *Module) MigrateDraft(ctx context.Context, draftID, userID string) MigrationResult {
	return m.Migrator().Migrate(ctx, draftID, migration.Input{UserID: userID})
}

// Handler builds the HTTP router for the module's services.
func (m *Module) Handler(opts ...httpapi.APIOption) (http.Handler, error) {
	return httpapi.NewContainerAPI(m.container, opts...).Handler()
}

// RegisterCommands hands the module's command handlers to the supplied
// integrations.
func (m *Module) RegisterCommands(opts commands.RegistrationOptions) (*commands.RegistrationResult, error) {
	return commands.RegisterContainerCommands(m.container, opts)
}
