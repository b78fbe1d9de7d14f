package draftscmd

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-site-configurator/internal/domain"
	"github.com/goliatone/go-site-configurator/internal/drafts"
	"github.com/goliatone/go-site-configurator/internal/logging"
)

type stubCleaner struct {
	live         int
	removed      int
	err          error
	listCalls    int
	cleanupCalls int
}

func (s *stubCleaner) GetAllDrafts(context.Context) ([]*domain.Draft, error) {
	s.listCalls++
	return make([]*domain.Draft, s.live), s.err
}

func (s *stubCleaner) CleanupExpiredDrafts(context.Context) (int, error) {
	s.cleanupCalls++
	return s.removed, s.err
}

func TestCleanupHandlerRemovesExpired(t *testing.T) {
	cleaner := &stubCleaner{removed: 3}
	handler := NewCleanupExpiredDraftsHandler(cleaner, logging.NoOp())

	if err := handler.Execute(context.Background(), CleanupExpiredDraftsCommand{}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if cleaner.cleanupCalls != 1 || cleaner.listCalls != 0 {
		t.Fatalf("expected one sweep, got cleanup=%d list=%d", cleaner.cleanupCalls, cleaner.listCalls)
	}
}

func TestCleanupHandlerDryRunDoesNotDelete(t *testing.T) {
	cleaner := &stubCleaner{live: 2}
	handler := NewCleanupExpiredDraftsHandler(cleaner, nil)

	if err := handler.Execute(context.Background(), CleanupExpiredDraftsCommand{DryRun: true}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if cleaner.cleanupCalls != 0 || cleaner.listCalls != 1 {
		t.Fatalf("expected dry run to only list, got cleanup=%d list=%d", cleaner.cleanupCalls, cleaner.listCalls)
	}
}

func TestCleanupHandlerWrapsStoreError(t *testing.T) {
	cleaner := &stubCleaner{err: errors.New("db gone")}
	handler := NewCleanupExpiredDraftsHandler(cleaner, nil)

	err := handler.Execute(context.Background(), CleanupExpiredDraftsCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !errors.Is(err, cleaner.err) {
		t.Fatalf("expected store error preserved, got %v", err)
	}
}

func TestCleanupHandlerCronOptions(t *testing.T) {
	handler := NewCleanupExpiredDraftsHandler(&stubCleaner{}, nil)
	if handler.CronOptions().Expression != "@every 1h" {
		t.Fatalf("expected hourly default, got %q", handler.CronOptions().Expression)
	}

	handler = NewCleanupExpiredDraftsHandler(&stubCleaner{}, nil, CleanupWithInterval(15*time.Minute))
	if handler.CronOptions().Expression != "@every 15m0s" {
		t.Fatalf("expected interval expression, got %q", handler.CronOptions().Expression)
	}

	handler = NewCleanupExpiredDraftsHandler(&stubCleaner{}, nil, CleanupWithCronExpression(" @daily "))
	if handler.CronOptions().Expression != "@daily" {
		t.Fatalf("expected cron override, got %q", handler.CronOptions().Expression)
	}
	if got := handler.CLIOptions().Path; len(got) != 2 || got[0] != "drafts" || got[1] != "cleanup" {
		t.Fatalf("unexpected cli path %v", got)
	}
}

func TestCleanupHandlerAgainstMemoryStore(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := now
	store := drafts.NewMemoryStore(drafts.StoreOptions{TTL: time.Hour, Now: func() time.Time { return clock }})
	past := now.Add(-time.Minute)
	if err := store.SaveDraft(context.Background(), &domain.Draft{ID: "old", BrandName: "Old", ExpiresAt: &past}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveDraft(context.Background(), &domain.Draft{ID: "fresh", BrandName: "Fresh"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	handler := NewCleanupExpiredDraftsHandler(store, nil)
	if err := handler.CronHandler()(); err != nil {
		t.Fatalf("cron handler: %v", err)
	}
	all, _ := store.GetAllDrafts(context.Background())
	if len(all) != 1 || all[0].ID != "fresh" {
		t.Fatalf("expected only fresh draft, got %d", len(all))
	}
}
