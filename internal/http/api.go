package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-site-configurator/internal/adapters"
	"github.com/goliatone/go-site-configurator/internal/drafts"
	"github.com/goliatone/go-site-configurator/internal/logging"
	"github.com/goliatone/go-site-configurator/internal/media"
	"github.com/goliatone/go-site-configurator/internal/migration"
	"github.com/goliatone/go-site-configurator/internal/preview"
	"github.com/goliatone/go-site-configurator/internal/publish"
	"github.com/goliatone/go-site-configurator/internal/templates"
	"github.com/goliatone/go-site-configurator/pkg/interfaces"
)

const (
	defaultCacheMaxAge    = 5 * time.Minute
	defaultRequestTimeout = 60 * time.Second
	serviceName           = "configurator-site"
)

// BackendReporter reports which draft storage backend is serving requests.
type BackendReporter interface {
	Backend() drafts.Backend
}

// API registers the configurator endpoints.
type API struct {
	drafts    *drafts.Service
	backend   BackendReporter
	preview   *preview.Service
	publisher *publish.Service
	migrator  *migration.Service
	uploads   *media.Store
	templates *templates.Registry
	adapter   adapters.Adapter

	logger         interfaces.Logger
	debug          bool
	cacheMaxAge    time.Duration
	requestTimeout time.Duration
}

// APIOption mutates the API configuration.
type APIOption func(*API)

// NewAPI constructs an API instance.
func NewAPI(opts ...APIOption) *API {
	api := &API{
		logger:         logging.NoOp(),
		cacheMaxAge:    defaultCacheMaxAge,
		requestTimeout: defaultRequestTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithDraftService wires draft lifecycle operations.
func WithDraftService(service *drafts.Service) APIOption {
	return func(api *API) {
		api.drafts = service
	}
}

// WithBackendReporter wires the storage backend reported by /health.
func WithBackendReporter(reporter BackendReporter) APIOption {
	return func(api *API) {
		api.backend = reporter
	}
}

func WithPreviewService(service *preview.Service) APIOption {
	return func(api *API) {
		api.preview = service
	}
}

func WithPublishService(service *publish.Service) APIOption {
	return func(api *API) {
		api.publisher = service
	}
}

func WithMigrationService(service *migration.Service) APIOption {
	return func(api *API) {
		api.migrator = service
	}
}

// WithUploads wires logo uploads and /uploads serving.
func WithUploads(store *media.Store) APIOption {
	return func(api *API) {
		api.uploads = store
	}
}

func WithTemplates(registry *templates.Registry) APIOption {
	return func(api *API) {
		api.templates = registry
	}
}

func WithAdapter(adapter adapters.Adapter) APIOption {
	return func(api *API) {
		api.adapter = adapter
	}
}

func WithLogger(logger interfaces.Logger) APIOption {
	return func(api *API) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// WithDebug exposes /api/debug/drafts.
func WithDebug(enabled bool) APIOption {
	return func(api *API) {
		api.debug = enabled
	}
}

// WithCacheMaxAge sets the Cache-Control max-age of preview responses.
func WithCacheMaxAge(maxAge time.Duration) APIOption {
	return func(api *API) {
		if maxAge > 0 {
			api.cacheMaxAge = maxAge
		}
	}
}

// WithRequestTimeout bounds every request handled by Handler.
func WithRequestTimeout(timeout time.Duration) APIOption {
	return func(api *API) {
		if timeout > 0 {
			api.requestTimeout = timeout
		}
	}
}

// Handler returns a chi router with the standard middleware stack and every
// route registered.
func (api *API) Handler() (http.Handler, error) {
	if api == nil {
		return nil, fmt.Errorf("http: api is nil")
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(api.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(api.requestTimeout))

	if err := api.Register(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Register attaches the endpoints to the provided router.
func (api *API) Register(r chi.Router) error {
	if r == nil {
		return fmt.Errorf("http: router is required")
	}
	if api == nil {
		return fmt.Errorf("http: api is nil")
	}
	if api.drafts == nil {
		return fmt.Errorf("http: draft service is required")
	}

	r.Get("/health", api.health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/drafts", func(r chi.Router) {
			r.Post("/", api.createDraft)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", api.getDraft)
				r.Patch("/", api.updateDraft)
				r.Delete("/", api.deleteDraft)
				r.Get("/config", api.getConfig)
				r.Put("/config", api.customizeConfig)
				if api.preview != nil {
					r.Get("/preview", api.getPreview)
				}
				if api.uploads != nil {
					r.Post("/logo", api.uploadLogo)
				}
				if api.migrator != nil {
					r.Post("/migrate", api.migrateDraft)
				}
			})
		})
		if api.publisher != nil {
			r.Post("/sites/{siteId}/publish", api.publishSite)
		}
		r.Get("/templates", api.listTemplates)
		if api.debug {
			r.Get("/debug/drafts", api.debugDrafts)
		}
	})

	if api.publisher != nil {
		r.Get("/p/{siteId}", api.servePublishedHTML)
		r.Get("/p/{siteId}/styles.css", api.servePublishedCSS)
		r.Get("/p/{siteId}/assets/*", api.servePublishedAsset)
	}
	if api.uploads != nil {
		r.Get(strings.TrimRight(api.uploads.PublicPath(), "/")+"/{file}", api.serveUpload)
	}
	return nil
}

func requestLogger(logger interfaces.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
			}
			if id := middleware.GetReqID(r.Context()); id != "" {
				args = append(args, "request_id", id)
			}
			if status >= http.StatusInternalServerError {
				logger.Error("http.request", args...)
				return
			}
			logger.Debug("http.request", args...)
		})
	}
}
