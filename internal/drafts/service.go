package drafts

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-site-configurator/internal/apperrors"
	"github.com/goliatone/go-site-configurator/internal/domain"
	"github.com/goliatone/go-site-configurator/internal/identity"
	"github.com/goliatone/go-site-configurator/internal/logging"
	"github.com/goliatone/go-site-configurator/internal/media"
	"github.com/goliatone/go-site-configurator/internal/templates"
	configvalidation "github.com/goliatone/go-site-configurator/internal/validation"
	"github.com/goliatone/go-site-configurator/pkg/interfaces"
)

const (
	// DefaultTTL bounds a draft's lifetime when none is configured.
	DefaultTTL = 24 * time.Hour
	// DefaultLook is stamped on generated configs when the draft names none.
	DefaultLook = "modern"

	maxBrandNameLength = 100
)

// LogoInput is logo metadata declared with a draft before the file arrives.
type LogoInput struct {
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// CreateDraftInput starts a draft. Missing brand or industry values are
// taken from completed wizard steps.
type CreateDraftInput struct {
	BrandName  string              `json:"brandName"`
	Industry   string              `json:"industry"`
	TemplateID string              `json:"templateId,omitempty"`
	Logo       *LogoInput          `json:"logo,omitempty"`
	Steps      []domain.WizardStep `json:"steps,omitempty"`
}

// UpdateDraftInput patches a draft. Nil fields are left untouched.
type UpdateDraftInput struct {
	BrandName  *string             `json:"brandName,omitempty"`
	Industry   *string             `json:"industry,omitempty"`
	TemplateID *string             `json:"templateId,omitempty"`
	Logo       *LogoInput          `json:"logo,omitempty"`
	Steps      []domain.WizardStep `json:"steps,omitempty"`
}

// LogoFiles removes uploaded logo files when their draft goes away.
type LogoFiles interface {
	Delete(filename string) error
}

// ServiceOption customises the draft service.
type ServiceOption func(*Service)

// WithServiceClock overrides the service clock.
func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTTL sets the draft lifetime.
func WithTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogoFiles wires logo file removal on delete.
func WithLogoFiles(files LogoFiles) ServiceOption {
	return func(s *Service) {
		s.logos = files
	}
}

// WithMaxLogoSize sets the limit checked against declared logo metadata.
func WithMaxLogoSize(size int64) ServiceOption {
	return func(s *Service) {
		s.maxLogoSize = size
	}
}

// WithServiceLogger sets the service logger.
func WithServiceLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator overrides draft id generation.
func WithIDGenerator(gen identity.Generator) ServiceOption {
	return func(s *Service) {
		if gen != nil {
			s.ids = gen
		}
	}
}

// Service owns the draft lifecycle and site config generation.
type Service struct {
	store       Store
	templates   *templates.Registry
	logos       LogoFiles
	ttl         time.Duration
	maxLogoSize int64
	now         func() time.Time
	ids         identity.Generator
	logger      interfaces.Logger
}

// NewService builds a draft service over store.
func NewService(store Store, registry *templates.Registry, opts ...ServiceOption) *Service {
	if registry == nil {
		registry = templates.NewRegistry()
	}
	s := &Service{
		store:       store,
		templates:   registry,
		ttl:         DefaultTTL,
		maxLogoSize: media.DefaultMaxFileSize,
		now:         time.Now,
		ids:         identity.Random,
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store exposes the underlying store.
func (s *Service) Store() Store { return s.store }

// Validate checks create input.
func (in CreateDraftInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.BrandName, validation.Required.Error("Brand name is required"),
			validation.RuneLength(1, maxBrandNameLength).Error("Brand name must not exceed 100 characters")),
		validation.Field(&in.Industry, validation.Required.Error("Industry is required")),
		validation.Field(&in.Steps, validation.Each(validation.By(validateStep))),
	)
}

// Validate checks update input.
func (in UpdateDraftInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.BrandName, validation.When(in.BrandName != nil,
			validation.By(notBlank("Brand name cannot be empty")),
			validation.RuneLength(1, maxBrandNameLength).Error("Brand name must not exceed 100 characters"))),
		validation.Field(&in.Industry, validation.When(in.Industry != nil,
			validation.By(notBlank("Industry cannot be empty")))),
		validation.Field(&in.Steps, validation.Each(validation.By(validateStep))),
	)
}

// Create stores a new draft expiring after the configured TTL.
func (s *Service) Create(ctx context.Context, in CreateDraftInput) (*domain.Draft, error) {
	fromSteps := ConfigFromSteps(in.Steps)
	if strings.TrimSpace(in.BrandName) == "" {
		in.BrandName = fromSteps.Brand.Name
	}
	if strings.TrimSpace(in.Industry) == "" {
		in.Industry = fromSteps.Brand.Industry
	}
	in.BrandName = strings.TrimSpace(in.BrandName)
	in.Industry = strings.TrimSpace(in.Industry)

	if err := in.Validate(); err != nil {
		return nil, apperrors.FromOzzo(err, "Invalid draft data")
	}
	if err := s.validateLogo(in.Logo); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	expires := now.Add(s.ttl)
	draft := &domain.Draft{
		ID:         s.ids(),
		BrandName:  in.BrandName,
		Industry:   in.Industry,
		TemplateID: strings.TrimSpace(in.TemplateID),
		Logo:       s.logoFromInput(in.Logo, nil, now),
		Steps:      normalizeSteps(in.Steps),
		ExpiresAt:  &expires,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.SaveDraft(ctx, draft); err != nil {
		return nil, apperrors.Wrap(err, goerrors.CategoryInternal, apperrors.CodeInternal, "Failed to save draft")
	}
	logging.WithDraft(s.logger, draft.ID, "").Info("draft created", "industry", draft.Industry)
	return draft, nil
}

// Get returns a live draft.
func (s *Service) Get(ctx context.Context, id string) (*domain.Draft, error) {
	draft, err := s.store.GetDraft(ctx, id)
	if err != nil {
		return nil, s.mapStoreError(err, id)
	}
	return draft, nil
}

// List returns every live draft. Intended for debugging.
func (s *Service) List(ctx context.Context) ([]*domain.Draft, error) {
	list, err := s.store.GetAllDrafts(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, goerrors.CategoryInternal, apperrors.CodeInternal, "Failed to list drafts")
	}
	return list, nil
}

// Update applies in and drops the cached config so it is regenerated.
func (s *Service) Update(ctx context.Context, id string, in UpdateDraftInput) (*domain.Draft, error) {
	if err := in.Validate(); err != nil {
		return nil, apperrors.FromOzzo(err, firstMessage(err, "Invalid draft data"))
	}
	if err := s.validateLogo(in.Logo); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateDraft(ctx, id, func(draft *domain.Draft) error {
		if in.BrandName != nil {
			draft.BrandName = strings.TrimSpace(*in.BrandName)
		}
		if in.Industry != nil {
			draft.Industry = strings.TrimSpace(*in.Industry)
		}
		if in.TemplateID != nil {
			draft.TemplateID = strings.TrimSpace(*in.TemplateID)
		}
		if in.Steps != nil {
			draft.Steps = normalizeSteps(in.Steps)
		}
		if in.Logo != nil {
			draft.Logo = s.logoFromInput(in.Logo, draft.Logo, s.now().UTC())
		}
		draft.Config = nil
		return nil
	})
	if err != nil {
		return nil, s.mapStoreError(err, id)
	}
	logging.WithDraft(s.logger, id, "").Debug("draft updated")
	return updated, nil
}

// SetLogo attaches an uploaded logo and drops the cached config. The file of
// a replaced logo is removed.
func (s *Service) SetLogo(ctx context.Context, id string, logo domain.Logo) (*domain.Draft, error) {
	var previous string
	updated, err := s.store.UpdateDraft(ctx, id, func(draft *domain.Draft) error {
		if draft.Logo != nil && draft.Logo.Filename != logo.Filename {
			previous = draft.Logo.Filename
		}
		next := logo
		draft.Logo = &next
		draft.Config = nil
		return nil
	})
	if err != nil {
		return nil, s.mapStoreError(err, id)
	}
	if previous != "" {
		s.removeLogo(id, previous)
	}
	return updated, nil
}

// Delete removes the draft and its logo file.
func (s *Service) Delete(ctx context.Context, id string) error {
	draft, err := s.store.GetDraft(ctx, id)
	if err != nil {
		return s.mapStoreError(err, id)
	}
	deleted, err := s.store.DeleteDraft(ctx, id)
	if err != nil {
		return apperrors.Wrap(err, goerrors.CategoryInternal, apperrors.CodeInternal, "Failed to delete draft")
	}
	if !deleted {
		return draftNotFound(id)
	}
	if draft.Logo != nil && draft.Logo.Filename != "" {
		s.removeLogo(id, draft.Logo.Filename)
	}
	logging.WithDraft(s.logger, id, "").Info("draft deleted")
	return nil
}

// Discard drops the draft record but keeps its logo file, which a migrated
// site still references.
func (s *Service) Discard(ctx context.Context, id string) error {
	if _, err := s.store.DeleteDraft(ctx, id); err != nil {
		return apperrors.Wrap(err, goerrors.CategoryInternal, apperrors.CodeInternal, "Failed to delete draft")
	}
	return nil
}

// GenerateSiteConfig returns the cached config, generating and caching it
// on first use.
func (s *Service) GenerateSiteConfig(ctx context.Context, id string) (domain.SiteConfig, error) {
	draft, err := s.Get(ctx, id)
	if err != nil {
		return domain.SiteConfig{}, err
	}
	if draft.Config != nil {
		return draft.Config.Clone(), nil
	}
	cfg := s.BuildConfig(draft)
	if err := s.cacheConfig(ctx, id, cfg); err != nil {
		return domain.SiteConfig{}, err
	}
	return cfg, nil
}

// CustomizeConfig merges override into the draft's config, validates the
// result and caches it. The customisation lasts until the next draft update.
func (s *Service) CustomizeConfig(ctx context.Context, id string, override domain.SiteConfig) (domain.SiteConfig, error) {
	base, err := s.GenerateSiteConfig(ctx, id)
	if err != nil {
		return domain.SiteConfig{}, err
	}
	merged := MergeConfigs(base, override)
	if issues := ValidateConfig(merged); len(issues) > 0 {
		return domain.SiteConfig{}, configIssuesError(issues)
	}
	if err := s.cacheConfig(ctx, id, merged); err != nil {
		return domain.SiteConfig{}, err
	}
	return merged, nil
}

// BuildConfig generates a config from the draft without touching storage.
// The look comes from the draft, then the template, then DefaultLook.
func (s *Service) BuildConfig(draft *domain.Draft) domain.SiteConfig {
	in := templates.TemplateInput{
		BrandName: draft.BrandName,
		Industry:  draft.Industry,
		Look:      draft.TemplateID,
	}
	if draft.Logo != nil {
		in.Logo = draft.Logo.URL
	}
	cfg := s.templates.Generate(in)
	if cfg.TemplateID == "" {
		cfg.TemplateID = DefaultLook
	}
	return cfg
}

func (s *Service) cacheConfig(ctx context.Context, id string, cfg domain.SiteConfig) error {
	_, err := s.store.UpdateDraft(ctx, id, func(draft *domain.Draft) error {
		cached := cfg.Clone()
		draft.Config = &cached
		return nil
	})
	if err != nil {
		return s.mapStoreError(err, id)
	}
	return nil
}

func (s *Service) validateLogo(logo *LogoInput) error {
	if logo == nil {
		return nil
	}
	return media.ValidateFile(logo.Filename, logo.MimeType, logo.Size, s.maxLogoSize)
}

// logoFromInput records declared metadata; path and url stay empty until the
// file is uploaded. Once a file is stored its name, type and size describe
// that file, so declared metadata only renames it for display.
func (s *Service) logoFromInput(in *LogoInput, existing *domain.Logo, now time.Time) *domain.Logo {
	if in == nil {
		return existing
	}
	if existing != nil && existing.Path != "" {
		logo := *existing
		logo.OriginalName = in.Filename
		return &logo
	}
	logo := &domain.Logo{
		ID:           s.ids(),
		Filename:     in.Filename,
		OriginalName: in.Filename,
		MimeType:     in.MimeType,
		Size:         in.Size,
		UploadedAt:   now,
	}
	if existing != nil {
		logo.ID = existing.ID
		logo.UploadedAt = existing.UploadedAt
	}
	return logo
}

func (s *Service) removeLogo(draftID, filename string) {
	if s.logos == nil {
		return
	}
	if err := s.logos.Delete(filename); err != nil {
		logging.WithDraft(s.logger, draftID, "").Warn("failed to remove logo file", "file", filename, "error", err)
	}
}

func (s *Service) mapStoreError(err error, id string) error {
	if IsNotFound(err) {
		return draftNotFound(id)
	}
	return apperrors.Wrap(err, goerrors.CategoryInternal, apperrors.CodeInternal, "Draft storage failure")
}

func draftNotFound(id string) error {
	return apperrors.NotFound("Draft not found", "draft", id)
}

func validateStep(value any) error {
	step, ok := value.(domain.WizardStep)
	if !ok {
		return nil
	}
	if step.StepNumber < 1 {
		return errors.New("step number must be at least 1")
	}
	return nil
}

func notBlank(message string) validation.RuleFunc {
	return func(value any) error {
		str, ok := value.(*string)
		if ok && str != nil && strings.TrimSpace(*str) == "" {
			return errors.New(message)
		}
		return nil
	}
}

func normalizeSteps(steps []domain.WizardStep) []domain.WizardStep {
	out := make([]domain.WizardStep, 0, len(steps))
	for _, step := range steps {
		step.StepType = domain.NormalizeStepType(string(step.StepType))
		step.Data = domain.CloneContent(step.Data)
		if step.Data == nil {
			step.Data = map[string]any{}
		}
		out = append(out, step)
	}
	return out
}

// firstMessage returns the message of the first field error so single field
// failures read naturally.
func firstMessage(err error, fallback string) string {
	var fields validation.Errors
	if errors.As(err, &fields) {
		for _, key := range []string{"BrandName", "brandName", "Industry", "industry"} {
			if fieldErr, ok := fields[key]; ok && fieldErr != nil {
				return fieldErr.Error()
			}
		}
	}
	return fallback
}

func configIssuesError(issues []configvalidation.ValidationIssue) error {
	fieldErrs := make([]goerrors.FieldError, 0, len(issues))
	for _, issue := range issues {
		fieldErrs = append(fieldErrs, goerrors.FieldError{Field: issue.Location, Message: issue.Message})
	}
	return apperrors.Validation("Site config is invalid", fieldErrs...)
}
