package drafts_test

import (
	"context"
	"strings"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-site-configurator/internal/apperrors"
	"github.com/goliatone/go-site-configurator/internal/domain"
	"github.com/goliatone/go-site-configurator/internal/drafts"
	"github.com/goliatone/go-site-configurator/internal/templates"
)

type recordingFiles struct {
	deleted []string
}

func (r *recordingFiles) Delete(filename string) error {
	r.deleted = append(r.deleted, filename)
	return nil
}

func newService(t *testing.T, clk *clock, files drafts.LogoFiles) *drafts.Service {
	t.Helper()
	store := drafts.NewMemoryStore(drafts.StoreOptions{TTL: time.Hour, Now: clk.Now})
	registry := templates.NewRegistry(templates.WithClock(clk.Now))
	return drafts.NewService(store, registry,
		drafts.WithServiceClock(clk.Now),
		drafts.WithTTL(time.Hour),
		drafts.WithLogoFiles(files),
	)
}

func TestServiceCreateAndGenerateConfig(t *testing.T) {
	ctx := context.Background()
	clk := newClock()
	svc := newService(t, clk, nil)

	draft, err := svc.Create(ctx, drafts.CreateDraftInput{BrandName: "  Acme ", Industry: "tech"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if draft.BrandName != "Acme" || draft.ExpiresAt == nil || !draft.ExpiresAt.Equal(clk.Now().Add(time.Hour)) {
		t.Fatalf("unexpected draft %+v", draft)
	}
	if len(draft.ID) != 36 {
		t.Fatalf("expected uuid id, got %q", draft.ID)
	}

	cfg, err := svc.GenerateSiteConfig(ctx, draft.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if cfg.Theme.PrimaryColor != "#3B82F6" || cfg.Brand.Name != "Acme" {
		t.Fatalf("unexpected config brand/theme %+v %+v", cfg.Brand, cfg.Theme)
	}
	if cfg.TemplateID != drafts.DefaultLook {
		t.Fatalf("expected default look, got %q", cfg.TemplateID)
	}

	stored, err := svc.Get(ctx, draft.ID)
	if err != nil || stored.Config == nil {
		t.Fatalf("expected cached config, got %+v %v", stored, err)
	}
	if stored.Config.Layout.Sections[0].ID != cfg.Layout.Sections[0].ID {
		t.Fatalf("expected cached config to match generated one")
	}
}

func TestServiceCreateValidation(t *testing.T) {
	svc := newService(t, newClock(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, drafts.CreateDraftInput{Industry: "tech"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) || apperrors.Code(err) != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.Create(ctx, drafts.CreateDraftInput{BrandName: strings.Repeat("a", 101), Industry: "tech"})
	if err == nil {
		t.Fatalf("expected long brand name to fail")
	}

	_, err = svc.Create(ctx, drafts.CreateDraftInput{
		BrandName: "Acme",
		Industry:  "tech",
		Logo:      &drafts.LogoInput{Filename: "logo.gif", MimeType: "image/gif", Size: 10},
	})
	if apperrors.Code(err) != apperrors.CodeUpload {
		t.Fatalf("expected upload error for gif logo, got %v", err)
	}
}

func TestServiceCreateFromSteps(t *testing.T) {
	svc := newService(t, newClock(), nil)

	draft, err := svc.Create(context.Background(), drafts.CreateDraftInput{
		Steps: []domain.WizardStep{
			{StepNumber: 1, StepType: domain.StepBrandName, Data: map[string]any{"brandName": "Bloom"}, Completed: true},
			{StepNumber: 2, StepType: "Industry", Data: map[string]any{"industry": "beauty"}, Completed: true},
			{StepNumber: 3, StepType: "palette", Data: map[string]any{}, Completed: false},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if draft.BrandName != "Bloom" || draft.Industry != "beauty" {
		t.Fatalf("expected values from steps, got %q %q", draft.BrandName, draft.Industry)
	}
	if draft.Steps[1].StepType != domain.StepIndustry || draft.Steps[2].StepType != domain.StepOther {
		t.Fatalf("expected normalised step types, got %+v", draft.Steps)
	}
}

func TestServiceUpdateClearsConfig(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, newClock(), nil)
	draft, _ := svc.Create(ctx, drafts.CreateDraftInput{BrandName: "Acme", Industry: "tech"})
	if _, err := svc.GenerateSiteConfig(ctx, draft.ID); err != nil {
		t.Fatalf("generate: %v", err)
	}

	name := "Acme Labs"
	updated, err := svc.Update(ctx, draft.ID, drafts.UpdateDraftInput{BrandName: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Config != nil {
		t.Fatalf("expected config cleared by update")
	}
	cfg, _ := svc.GenerateSiteConfig(ctx, draft.ID)
	if cfg.Brand.Name != "Acme Labs" {
		t.Fatalf("expected regenerated config to use new name, got %q", cfg.Brand.Name)
	}

	blank := "   "
	_, err = svc.Update(ctx, draft.ID, drafts.UpdateDraftInput{BrandName: &blank})
	if apperrors.Message(err) != "Brand name cannot be empty" {
		t.Fatalf("expected blank brand error, got %v", err)
	}

	_, err = svc.Update(ctx, "missing", drafts.UpdateDraftInput{BrandName: &name})
	if apperrors.HTTPStatus(err) != 404 || apperrors.Message(err) != "Draft not found" {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceLogoLifecycle(t *testing.T) {
	ctx := context.Background()
	files := &recordingFiles{}
	svc := newService(t, newClock(), files)
	draft, _ := svc.Create(ctx, drafts.CreateDraftInput{BrandName: "Acme", Industry: "tech"})

	first := domain.Logo{ID: "l1", Filename: "one.png", URL: "/uploads/one.png", MimeType: "image/png"}
	if _, err := svc.SetLogo(ctx, draft.ID, first); err != nil {
		t.Fatalf("set logo: %v", err)
	}
	cfg, _ := svc.GenerateSiteConfig(ctx, draft.ID)
	if cfg.Brand.Logo != "/uploads/one.png" {
		t.Fatalf("expected logo in config, got %q", cfg.Brand.Logo)
	}

	second := domain.Logo{ID: "l2", Filename: "two.png", URL: "/uploads/two.png", MimeType: "image/png"}
	updated, err := svc.SetLogo(ctx, draft.ID, second)
	if err != nil || updated.Config != nil {
		t.Fatalf("expected config cleared by logo change, got %+v %v", updated, err)
	}
	if len(files.deleted) != 1 || files.deleted[0] != "one.png" {
		t.Fatalf("expected replaced logo removed, got %v", files.deleted)
	}

	if err := svc.Delete(ctx, draft.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(files.deleted) != 2 || files.deleted[1] != "two.png" {
		t.Fatalf("expected logo removed with draft, got %v", files.deleted)
	}
	if err := svc.Delete(ctx, draft.ID); apperrors.HTTPStatus(err) != 404 {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestServiceLogoPatchKeepsStoredFile(t *testing.T) {
	ctx := context.Background()
	files := &recordingFiles{}
	svc := newService(t, newClock(), files)
	draft, _ := svc.Create(ctx, drafts.CreateDraftInput{BrandName: "Acme", Industry: "tech"})

	stored := domain.Logo{ID: "l1", Filename: "8f3a.png", OriginalName: "brand.png", Path: "/tmp/uploads/8f3a.png", URL: "/uploads/8f3a.png", MimeType: "image/png", Size: 12}
	if _, err := svc.SetLogo(ctx, draft.ID, stored); err != nil {
		t.Fatalf("set logo: %v", err)
	}

	updated, err := svc.Update(ctx, draft.ID, drafts.UpdateDraftInput{
		Logo: &drafts.LogoInput{Filename: "renamed.png", MimeType: "image/webp", Size: 99},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	logo := updated.Logo
	if logo == nil || logo.Filename != "8f3a.png" || logo.OriginalName != "renamed.png" {
		t.Fatalf("expected stored file kept with display rename, got %+v", logo)
	}
	if logo.MimeType != "image/png" || logo.Size != 12 || logo.URL != "/uploads/8f3a.png" {
		t.Fatalf("expected stored file metadata kept, got %+v", logo)
	}

	if err := svc.Delete(ctx, draft.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(files.deleted) != 1 || files.deleted[0] != "8f3a.png" {
		t.Fatalf("expected stored file removed with draft, got %v", files.deleted)
	}
}

func TestServiceCustomizeConfig(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, newClock(), nil)
	draft, _ := svc.Create(ctx, drafts.CreateDraftInput{BrandName: "Acme", Industry: "tech", TemplateID: "default"})

	cfg, err := svc.CustomizeConfig(ctx, draft.ID, domain.SiteConfig{Theme: domain.Theme{PrimaryColor: "#111111"}})
	if err != nil {
		t.Fatalf("customize: %v", err)
	}
	if cfg.Theme.PrimaryColor != "#111111" || cfg.Theme.SecondaryColor != "#60A5FA" || cfg.TemplateID != "default" {
		t.Fatalf("unexpected merged theme %+v %q", cfg.Theme, cfg.TemplateID)
	}

	bad := domain.SiteConfig{Layout: domain.Layout{Header: domain.HeaderConfig{
		Navigation: []domain.NavigationItem{{Label: "Home", Href: "#home", Order: 0}},
	}}}
	if _, err := svc.CustomizeConfig(ctx, draft.ID, bad); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error for zero order, got %v", err)
	}
}

func TestMergeConfigsReplacesLists(t *testing.T) {
	base := domain.SiteConfig{
		Brand: domain.Brand{Name: "Acme", Industry: "tech"},
		Layout: domain.Layout{Sections: []domain.SectionConfig{
			{ID: "hero-1", Type: domain.SectionHero, Order: 1, Visible: true},
			{ID: "contact-1", Type: domain.SectionContact, Order: 2, Visible: true},
		}},
	}
	override := domain.SiteConfig{
		Brand: domain.Brand{Name: "Acme Two"},
		Layout: domain.Layout{Sections: []domain.SectionConfig{
			{ID: "custom-1", Type: domain.SectionCustom, Order: 1, Visible: true},
		}},
	}

	merged := drafts.MergeConfigs(base, override)
	if merged.Brand.Name != "Acme Two" || merged.Brand.Industry != "tech" {
		t.Fatalf("unexpected brand %+v", merged.Brand)
	}
	if len(merged.Layout.Sections) != 1 || merged.Layout.Sections[0].ID != "custom-1" {
		t.Fatalf("expected sections replaced, got %+v", merged.Layout.Sections)
	}
	if len(base.Layout.Sections) != 2 {
		t.Fatalf("expected base untouched")
	}
}

func TestConfigFromStepsIgnoresIncompleteSteps(t *testing.T) {
	cfg := drafts.ConfigFromSteps([]domain.WizardStep{
		{StepNumber: 1, StepType: domain.StepBrandName, Data: map[string]any{"brandName": "Draft"}, Completed: false},
		{StepNumber: 2, StepType: domain.StepLogo, Data: map[string]any{"logoUrl": "/uploads/x.png"}, Completed: true},
	})
	if cfg.Brand.Name != "" || cfg.Brand.Logo != "/uploads/x.png" {
		t.Fatalf("unexpected brand %+v", cfg.Brand)
	}
}
