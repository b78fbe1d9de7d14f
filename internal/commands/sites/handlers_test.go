package sitescmd

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-site-configurator/internal/apperrors"
	"github.com/goliatone/go-site-configurator/internal/logging"
	"github.com/goliatone/go-site-configurator/internal/migration"
	"github.com/goliatone/go-site-configurator/internal/publish"
)

type stubPublisher struct {
	published []string
	deleted   []string
	err       error
}

func (s *stubPublisher) Publish(_ context.Context, siteID string) (*publish.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.published = append(s.published, siteID)
	return &publish.Result{SiteID: siteID, URL: "http://localhost/p/" + siteID}, nil
}

func (s *stubPublisher) DeleteSite(siteID string) error {
	s.deleted = append(s.deleted, siteID)
	return s.err
}

type stubMigrator struct {
	result migration.Result
	input  migration.Input
}

func (s *stubMigrator) Migrate(_ context.Context, draftID string, in migration.Input) migration.Result {
	s.input = in
	out := s.result
	out.DraftID = draftID
	return out
}

func TestPublishSiteHandler(t *testing.T) {
	publisher := &stubPublisher{}
	handler := NewPublishSiteHandler(publisher, logging.NoOp())

	if err := handler.Execute(context.Background(), PublishSiteCommand{SiteID: " site-1 "}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(publisher.published) != 1 || publisher.published[0] != "site-1" {
		t.Fatalf("expected trimmed site id, got %v", publisher.published)
	}

	err := handler.Execute(context.Background(), PublishSiteCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error for missing id, got %v", err)
	}
	if got := handler.CLIOptions().Path; len(got) != 2 || got[1] != "publish" {
		t.Fatalf("unexpected cli path %v", got)
	}
}

func TestPublishSiteHandlerKeepsServiceError(t *testing.T) {
	notFound := apperrors.NotFound("Site not found", "site", "x")
	handler := NewPublishSiteHandler(&stubPublisher{err: notFound}, nil)

	err := handler.Execute(context.Background(), PublishSiteCommand{SiteID: "x"})
	if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found to survive wrapping, got %v", err)
	}
}

func TestUnpublishSiteHandler(t *testing.T) {
	publisher := &stubPublisher{}
	handler := NewUnpublishSiteHandler(publisher, nil)

	if err := handler.Execute(context.Background(), UnpublishSiteCommand{SiteID: "site-1"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(publisher.deleted) != 1 {
		t.Fatalf("expected delete call")
	}

	publisher.err = errors.New("disk")
	err := handler.Execute(context.Background(), UnpublishSiteCommand{SiteID: "site-1"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) || !errors.Is(err, publisher.err) {
		t.Fatalf("expected wrapped command error, got %v", err)
	}
}

func TestMigrateDraftHandler(t *testing.T) {
	migrator := &stubMigrator{result: migration.Result{Success: true, SiteID: "site-9"}}
	handler := NewMigrateDraftHandler(migrator, nil)

	if err := handler.Execute(context.Background(), MigrateDraftCommand{DraftID: "d1", UserID: "u1"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if migrator.input.UserID != "u1" {
		t.Fatalf("expected user id forwarded, got %+v", migrator.input)
	}

	migrator.result = migration.Result{Success: false, Error: "Draft is incomplete"}
	err := handler.Execute(context.Background(), MigrateDraftCommand{DraftID: "d1", UserID: "u1"})
	if err == nil || !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected failure surfaced as command error, got %v", err)
	}

	err = handler.Execute(context.Background(), MigrateDraftCommand{DraftID: "d1"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) || apperrors.Code(err) != apperrors.CodeValidation {
		t.Fatalf("expected validation error without user id, got %v", err)
	}
	issues := apperrors.Issues(err)
	if len(issues) != 1 || issues[0].Field != "user_id" {
		t.Fatalf("expected a single user id issue, got %+v", issues)
	}
}
