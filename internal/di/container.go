package di

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-site-configurator/internal/adapters"
	"github.com/goliatone/go-site-configurator/internal/adapters/active"
	"github.com/goliatone/go-site-configurator/internal/drafts"
	"github.com/goliatone/go-site-configurator/internal/logging"
	"github.com/goliatone/go-site-configurator/internal/logging/console"
	"github.com/goliatone/go-site-configurator/internal/logging/gologger"
	"github.com/goliatone/go-site-configurator/internal/looks"
	"github.com/goliatone/go-site-configurator/internal/markdown"
	"github.com/goliatone/go-site-configurator/internal/media"
	"github.com/goliatone/go-site-configurator/internal/migration"
	"github.com/goliatone/go-site-configurator/internal/preview"
	"github.com/goliatone/go-site-configurator/internal/publish"
	"github.com/goliatone/go-site-configurator/internal/runtimeconfig"
	"github.com/goliatone/go-site-configurator/internal/templates"
	"github.com/goliatone/go-site-configurator/pkg/interfaces"
)

// Container wires the configurator services from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	httpClient     *http.Client
	now            func() time.Time

	bunDB   *bun.DB
	ownsDB  bool
	durable drafts.Store

	markdown  *markdown.Renderer
	looks     *looks.Registry
	templates *templates.Registry
	adapter   adapters.Adapter
	uploads   *media.Store

	draftManager *drafts.Manager
	draftSvc     *drafts.Service
	previewSvc   *preview.Service
	publishSvc   *publish.Service
	migrationSvc *migration.Service
}

// Option mutates the container before services are built.
type Option func(*Container)

// WithLoggerProvider overrides the provider derived from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithBunDB backs drafts with the given database. The container does not
// close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

func withOwnedBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
		c.ownsDB = db != nil
	}
}

// WithDraftStore overrides the durable draft store.
func WithDraftStore(store drafts.Store) Option {
	return func(c *Container) {
		c.durable = store
	}
}

// WithAdapter overrides the rendering adapter selected from the config.
func WithAdapter(adapter adapters.Adapter) Option {
	return func(c *Container) {
		c.adapter = adapter
	}
}

// WithHTTPClient sets the client used for the page builder and sites API.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		c.httpClient = client
	}
}

// WithClock overrides the time source of every service.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		if now != nil {
			c.now = now
		}
	}
}

// Open is NewContainer for durable storage: it connects and migrates the
// database first. A database that cannot be reached leaves drafts in memory.
func Open(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	probe := &Container{Config: cfg}
	for _, opt := range opts {
		opt(probe)
	}
	if probe.loggerProvider == nil {
		provider, err := NewLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
		probe.loggerProvider = provider
		opts = append(opts, WithLoggerProvider(provider))
	}

	durable := cfg.Storage.NormalizedStorageType() == runtimeconfig.StorageDurable
	if durable && probe.bunDB == nil && probe.durable == nil {
		logger := logging.DraftsLogger(probe.loggerProvider)
		db, err := OpenDatabase(ctx, cfg.Storage)
		if err != nil {
			logger.Warn("storage.database.unavailable", "driver", cfg.Storage.Driver, "error", err)
		} else {
			logger.Info("storage.database.ready", "driver", cfg.Storage.Driver)
			opts = append(opts, withOwnedBunDB(db))
		}
	}
	return NewContainer(cfg, opts...)
}

// NewContainer validates cfg and builds every service. Durable storage is
// only used when a database or store is supplied through options.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}

	if err := c.configureRendering(); err != nil {
		return nil, err
	}
	if err := c.configureDrafts(); err != nil {
		return nil, err
	}
	if err := c.configureOutputs(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewLoggerProvider builds the provider named by the logging config.
func NewLoggerProvider(cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, error) {
	if strings.EqualFold(strings.TrimSpace(cfg.Provider), "gologger") {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	}
	opts := console.Options{}
	if level, ok := console.ParseLevel(cfg.Level); ok {
		opts.MinLevel = &level
	}
	return console.NewProvider(opts), nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	provider, err := NewLoggerProvider(c.Config.Logging)
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureRendering() error {
	c.markdown = markdown.NewRenderer(markdown.Options{})
	registry, err := looks.NewRegistry(c.markdown, looks.WithLogger(logging.AdaptersLogger(c.loggerProvider)))
	if err != nil {
		return err
	}
	c.looks = registry
	c.templates = templates.NewRegistry(templates.WithClock(c.now))

	if c.adapter == nil {
		adapter, err := active.New(c.Config.Renderer, active.Deps{
			Logger:     logging.AdaptersLogger(c.loggerProvider),
			Looks:      c.looks,
			Markdown:   c.markdown,
			HTTPClient: c.httpClient,
		})
		if err != nil {
			return err
		}
		c.adapter = adapter
	}
	return nil
}

func (c *Container) configureDrafts() error {
	storeOpts := drafts.StoreOptions{
		TTL:          c.Config.Storage.DraftTTL,
		ExtendOnRead: c.Config.Storage.ExtendOnRead,
		Now:          c.now,
	}
	draftsLogger := logging.DraftsLogger(c.loggerProvider)

	durable := c.durable
	if durable == nil && c.bunDB != nil && c.Config.Storage.NormalizedStorageType() == runtimeconfig.StorageDurable {
		durable = drafts.NewBunStore(c.bunDB, storeOpts)
	}
	c.draftManager = drafts.NewManager(drafts.ManagerConfig{
		Durable: durable,
		Options: storeOpts,
		Logger:  draftsLogger,
	})

	uploads, err := media.NewStore(media.Config{
		Dir:         c.Config.Uploads.Dir,
		MaxFileSize: c.Config.Uploads.MaxFileSize,
		PublicPath:  c.Config.Uploads.PublicPath,
	}, media.WithLogger(logging.MediaLogger(c.loggerProvider)), media.WithClock(c.now))
	if err != nil {
		return err
	}
	c.uploads = uploads

	c.draftSvc = drafts.NewService(c.draftManager, c.templates,
		drafts.WithServiceClock(c.now),
		drafts.WithTTL(c.Config.Storage.DraftTTL),
		drafts.WithLogoFiles(c.uploads),
		drafts.WithMaxLogoSize(c.Config.Uploads.MaxFileSize),
		drafts.WithServiceLogger(draftsLogger),
	)
	return nil
}

func (c *Container) configureOutputs() error {
	previewSvc, err := preview.NewService(c.adapter, logging.PreviewLogger(c.loggerProvider))
	if err != nil {
		return err
	}
	c.previewSvc = previewSvc

	publishSvc, err := publish.NewService(c.draftSvc, c.adapter, publish.Config{
		Dir:       c.Config.Publish.Dir,
		BaseURL:   c.Config.Publish.BaseURL,
		MinifyCSS: c.Config.Publish.MinifyCSS,
	}, publish.WithClock(c.now), publish.WithLogger(logging.PublishLogger(c.loggerProvider)))
	if err != nil {
		return err
	}
	c.publishSvc = publishSvc

	c.migrationSvc = migration.NewService(c.draftSvc, migration.Config{
		URL:        c.Config.SitesAPI.URL,
		Token:      c.Config.SitesAPI.Token,
		Timeout:    c.Config.SitesAPI.Timeout,
		HTTPClient: c.httpClient,
	}, migration.WithClock(c.now), migration.WithLogger(logging.MigrationLogger(c.loggerProvider)))
	return nil
}

// Start selects the draft backend and, unless sweeps run as commands,
// schedules expired draft cleanup.
func (c *Container) Start(ctx context.Context) error {
	c.draftManager.Init(ctx)
	logging.DraftsLogger(c.loggerProvider).Info("storage.backend.selected", "backend", string(c.draftManager.Backend()))
	if c.Config.Commands.Enabled {
		return nil
	}
	return c.draftManager.StartCleanup(c.Config.Storage.CleanupInterval)
}

// Close stops background work and releases a database opened by Open.
func (c *Container) Close() error {
	c.draftManager.StopCleanup()
	if c.ownsDB && c.bunDB != nil {
		return c.bunDB.Close()
	}
	return nil
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// BunDB exposes the durable database, nil when drafts are memory-only.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

func (c *Container) Adapter() adapters.Adapter {
	return c.adapter
}

func (c *Container) Looks() *looks.Registry {
	return c.looks
}

func (c *Container) Templates() *templates.Registry {
	return c.templates
}

func (c *Container) Uploads() *media.Store {
	return c.uploads
}

// DraftManager exposes the backend-selecting draft store.
func (c *Container) DraftManager() *drafts.Manager {
	return c.draftManager
}

func (c *Container) DraftService() *drafts.Service {
	return c.draftSvc
}

func (c *Container) PreviewService() *preview.Service {
	return c.previewSvc
}

func (c *Container) PublishService() *publish.Service {
	return c.publishSvc
}

func (c *Container) MigrationService() *migration.Service {
	return c.migrationSvc
}
