// Package migration hands finished drafts to the external sites API as
// permanent sites.
package migration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-site-configurator/internal/apperrors"
	"github.com/goliatone/go-site-configurator/internal/domain"
	"github.com/goliatone/go-site-configurator/internal/identity"
	"github.com/goliatone/go-site-configurator/internal/logging"
	"github.com/goliatone/go-site-configurator/pkg/interfaces"
)

const (
	defaultTimeout   = 5 * time.Second
	maxResponseBytes = 1 << 20
)

const (
	MessageDraftNotFound   = "Draft not found"
	MessageDraftExpired    = "Draft has expired"
	MessageDraftIncomplete = "Draft is incomplete"
	MessageNotConfigured   = "SITES_API_URL is not configured"
)

// Drafts is the draft surface migration depends on.
type Drafts interface {
	Get(ctx context.Context, id string) (*domain.Draft, error)
	BuildConfig(draft *domain.Draft) domain.SiteConfig
	Discard(ctx context.Context, id string) error
}

// Config locates the sites API.
type Config struct {
	URL        string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Input carries the owner of the new site.
type Input struct {
	UserID string `json:"userId"`
}

func (in Input) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.UserID, validation.Required.Error("User ID is required"), validation.Length(1, 255)),
	)
}

// Result reports a migration attempt. Err classifies failures for
// transports and is never serialised.
type Result struct {
	Success    bool       `json:"success"`
	SiteID     string     `json:"siteId,omitempty"`
	DraftID    string     `json:"draftId"`
	MigratedAt *time.Time `json:"migratedAt,omitempty"`
	Error      string     `json:"error,omitempty"`
	Err        error      `json:"-"`
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the migration timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides permanent site id generation.
func WithIDGenerator(gen identity.Generator) Option {
	return func(s *Service) {
		if gen != nil {
			s.ids = gen
		}
	}
}

// WithLogger sets the migration logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service migrates drafts.
type Service struct {
	drafts Drafts
	cfg    Config
	client *http.Client
	now    func() time.Time
	ids    identity.Generator
	logger interfaces.Logger
}

func NewService(drafts Drafts, cfg Config, opts ...Option) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	s := &Service{
		drafts: drafts,
		cfg:    cfg,
		client: client,
		now:    time.Now,
		ids:    identity.Random,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Migrate validates the draft, posts it to the sites API and, on success,
// drops the draft. Failures are reported in the Result, never returned.
func (s *Service) Migrate(ctx context.Context, draftID string, in Input) Result {
	logger := logging.WithDraft(s.logger, draftID, "")
	if err := in.Validate(); err != nil {
		return failure(draftID, apperrors.FromOzzo(err, "User ID is required"))
	}

	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		if goerrors.IsCategory(err, goerrors.CategoryNotFound) {
			return failure(draftID, apperrors.NotFound(MessageDraftNotFound, "draft", draftID))
		}
		return failure(draftID, err)
	}
	if err := s.Check(draft); err != nil {
		return failure(draftID, err)
	}

	cfg := s.drafts.BuildConfig(draft)
	if draft.Config != nil {
		cfg = draft.Config.Clone()
	}
	site := s.permanentSite(draft, cfg, in.UserID)

	siteID, err := s.save(ctx, site)
	if err != nil {
		logger.Error("draft migration failed", "error", err)
		return failure(draftID, err)
	}

	if err := s.drafts.Discard(ctx, draftID); err != nil {
		logger.Error("failed to delete migrated draft", "error", err)
	}
	migratedAt := s.now().UTC()
	logging.WithDraft(s.logger, draftID, siteID).Info("draft migrated")
	return Result{
		Success:    true,
		SiteID:     siteID,
		DraftID:    draftID,
		MigratedAt: &migratedAt,
	}
}

// Check reports why a draft cannot be migrated.
func (s *Service) Check(draft *domain.Draft) error {
	if draft == nil {
		return apperrors.NotFound(MessageDraftNotFound, "draft", "")
	}
	if draft.Expired(s.now()) {
		return apperrors.Validation(MessageDraftExpired, goerrors.FieldError{Field: "expiresAt", Message: "draft has expired"})
	}
	var missing []goerrors.FieldError
	if strings.TrimSpace(draft.BrandName) == "" {
		missing = append(missing, goerrors.FieldError{Field: "brandName", Message: "brand name is required"})
	}
	if strings.TrimSpace(draft.Industry) == "" {
		missing = append(missing, goerrors.FieldError{Field: "industry", Message: "industry is required"})
	}
	if len(missing) > 0 {
		return apperrors.Validation(MessageDraftIncomplete, missing...)
	}
	return nil
}

func (s *Service) permanentSite(draft *domain.Draft, cfg domain.SiteConfig, userID string) domain.PermanentSite {
	now := s.now().UTC()
	site := domain.PermanentSite{
		ID:          s.ids(),
		UserID:      userID,
		DraftID:     draft.ID,
		BrandName:   draft.BrandName,
		Industry:    draft.Industry,
		Config:      cfg.Clone(),
		IsTemporary: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if draft.Logo != nil {
		site.Logo = &domain.PermanentLogo{
			ID:         draft.Logo.ID,
			Filename:   draft.Logo.Filename,
			URL:        draft.Logo.URL,
			MimeType:   draft.Logo.MimeType,
			Size:       draft.Logo.Size,
			UploadedAt: draft.Logo.UploadedAt,
		}
	}
	return site
}

type saveResponse struct {
	ID   string `json:"id"`
	Data *struct {
		ID string `json:"id"`
	} `json:"data"`
}

// save posts the site and returns the id assigned upstream, falling back to
// the id that was sent.
func (s *Service) save(ctx context.Context, site domain.PermanentSite) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(s.cfg.URL), "/")
	if base == "" {
		return "", apperrors.Operation(apperrors.CodeMigration, MessageNotConfigured)
	}

	body, err := json.Marshal(site)
	if err != nil {
		return "", apperrors.Wrap(err, goerrors.CategoryInternal, apperrors.CodeMigration, "Failed to encode site")
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, base+"/api/sites", bytes.NewReader(body))
	if err != nil {
		return "", apperrors.Wrap(err, goerrors.CategoryInternal, apperrors.CodeMigration, "Failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if token := strings.TrimSpace(s.cfg.Token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			msg := fmt.Sprintf("Request timeout after %dms", s.cfg.Timeout.Milliseconds())
			return "", goerrors.Wrap(err, goerrors.CategoryExternal, msg).WithTextCode(apperrors.CodeMigration)
		}
		return "", goerrors.Wrap(err, goerrors.CategoryExternal, "Failed to reach sites API").WithTextCode(apperrors.CodeMigration)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("Failed to save site to database: %d %s", resp.StatusCode, strings.TrimSpace(string(raw)))
		return "", goerrors.New(msg, goerrors.CategoryExternal).WithTextCode(apperrors.CodeMigration)
	}

	var decoded saveResponse
	if len(bytes.TrimSpace(raw)) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	switch {
	case decoded.Data != nil && decoded.Data.ID != "":
		return decoded.Data.ID, nil
	case decoded.ID != "":
		return decoded.ID, nil
	default:
		return site.ID, nil
	}
}

func failure(draftID string, err error) Result {
	return Result{
		Success: false,
		DraftID: draftID,
		Error:   apperrors.Message(err),
		Err:     err,
	}
}
