package validation_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/goliatone/go-site-configurator/internal/domain"
	"github.com/goliatone/go-site-configurator/internal/templates"
	"github.com/goliatone/go-site-configurator/internal/validation"
	"github.com/goliatone/go-site-configurator/pkg/testsupport"
)

func TestValidateJSONRenderResponse(t *testing.T) {
	if err := validation.ValidateJSON(validation.SchemaRenderResponse, testsupport.MustLoadFixture(t, "testdata/render_response.json")); err != nil {
		t.Fatalf("expected valid response, got %v", err)
	}
	err := validation.ValidateJSON(validation.SchemaRenderResponse, []byte(`{"css":"body{}"}`))
	if err == nil {
		t.Fatalf("expected missing html to fail")
	}
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	if len(validation.Issues(err)) == 0 {
		t.Fatalf("expected issues to be reported")
	}
}

func TestValidateJSONMalformed(t *testing.T) {
	err := validation.ValidateJSON(validation.SchemaHealthResponse, []byte(`{not json`))
	if err == nil || !strings.Contains(err.Error(), "malformed JSON") {
		t.Fatalf("expected malformed JSON error, got %v", err)
	}
}

func TestValidateTemplatesAndValidationResponses(t *testing.T) {
	if err := validation.ValidateJSON(validation.SchemaTemplatesResponse, testsupport.MustLoadFixture(t, "testdata/templates_response.json")); err != nil {
		t.Fatalf("expected valid templates, got %v", err)
	}
	if err := validation.ValidateJSON(validation.SchemaTemplatesResponse, []byte(`[{"name":"A"}]`)); err == nil {
		t.Fatalf("expected template without id to fail")
	}
	if err := validation.ValidateJSON(validation.SchemaValidationResponse, []byte(`{"valid":false,"errors":[{"path":"[0]","message":"bad"}]}`)); err != nil {
		t.Fatalf("expected valid validation response, got %v", err)
	}
}

func TestUnknownSchema(t *testing.T) {
	if err := validation.ValidateJSON(validation.Schema("missing"), []byte(`{}`)); !errors.Is(err, validation.ErrUnknownSchema) {
		t.Fatalf("expected ErrUnknownSchema, got %v", err)
	}
}

func TestSiteConfigFixtureIsValid(t *testing.T) {
	raw := testsupport.MustLoadFixture(t, "testdata/site_config.json")
	if err := validation.ValidateJSON(validation.SchemaSiteConfig, raw); err != nil {
		t.Fatalf("expected fixture to match schema, got %v", err)
	}

	var cfg domain.SiteConfig
	if err := testsupport.LoadGolden("testdata/site_config.json", &cfg); err != nil {
		t.Fatalf("load golden: %v", err)
	}
	if issues := validation.SiteConfig(cfg); issues != nil {
		t.Fatalf("expected fixture config to be valid, got %+v", issues)
	}

	cfg.Layout.Sections = append(cfg.Layout.Sections, cfg.Layout.Sections[0])
	if issues := validation.SiteConfig(cfg); len(issues) != 1 {
		t.Fatalf("expected duplicate section id issue, got %+v", issues)
	}
}

func TestSiteConfigGeneratedIsValid(t *testing.T) {
	registry := templates.NewRegistry()
	for _, tpl := range registry.GetAllTemplates() {
		cfg := registry.Generate(templates.TemplateInput{BrandName: "Acme", Industry: tpl.Industry()})
		if issues := validation.SiteConfig(cfg); issues != nil {
			t.Fatalf("expected %s config to be valid, got %+v", tpl.Industry(), issues)
		}
	}
}

func TestSiteConfigRules(t *testing.T) {
	registry := templates.NewRegistry()
	cfg := registry.Generate(templates.TemplateInput{BrandName: "Acme", Industry: "tech"})
	cfg.Brand.Name = ""
	cfg.Layout.Header.Navigation = append(cfg.Layout.Header.Navigation, domain.NavigationItem{Label: "x", Href: "/x", Order: 0})
	cfg.Layout.Sections = append(cfg.Layout.Sections, cfg.Layout.Sections[0])

	issues := validation.SiteConfig(cfg)
	locations := map[string]bool{}
	for _, issue := range issues {
		locations[issue.Location] = true
	}
	if !locations["/brand/name"] {
		t.Fatalf("expected brand name issue, got %+v", issues)
	}
	nav := len(cfg.Layout.Header.Navigation) - 1
	if !locations["/layout/header/navigation/"+strconv.Itoa(nav)+"/order"] {
		t.Fatalf("expected order issue, got %+v", issues)
	}
	dup := len(cfg.Layout.Sections) - 1
	if !locations["/layout/sections/"+strconv.Itoa(dup)+"/id"] {
		t.Fatalf("expected duplicate id issue, got %+v", issues)
	}
}
