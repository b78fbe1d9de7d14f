// Package draftscmd exposes draft maintenance as go-command handlers.
package draftscmd

import (
	"context"
	"strings"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-site-configurator/internal/commands"
	"github.com/goliatone/go-site-configurator/internal/domain"
	"github.com/goliatone/go-site-configurator/pkg/interfaces"
)

const cleanupDraftsMessageType = "configurator.drafts.cleanup"

// DraftCleaner is the store surface the sweep needs.
type DraftCleaner interface {
	GetAllDrafts(ctx context.Context) ([]*domain.Draft, error)
	CleanupExpiredDrafts(ctx context.Context) (int, error)
}

// CleanupExpiredDraftsCommand removes drafts past their expiry. DryRun only
// reports how many drafts are still live.
type CleanupExpiredDraftsCommand struct {
	DryRun bool `json:"dry_run,omitempty"`
}

func (CleanupExpiredDraftsCommand) Type() string { return cleanupDraftsMessageType }

func (CleanupExpiredDraftsCommand) Validate() error { return nil }

type cleanupHandlerConfig struct {
	cronConfig command.HandlerConfig
	timeout    time.Duration
}

// CleanupHandlerOption customises the cleanup handler.
type CleanupHandlerOption func(*cleanupHandlerConfig)

// CleanupWithCronExpression overrides the schedule, e.g. "@every 30m".
func CleanupWithCronExpression(expression string) CleanupHandlerOption {
	return func(cfg *cleanupHandlerConfig) {
		if trimmed := strings.TrimSpace(expression); trimmed != "" {
			cfg.cronConfig.Expression = trimmed
		}
	}
}

// CleanupWithInterval schedules the sweep every interval.
func CleanupWithInterval(interval time.Duration) CleanupHandlerOption {
	return func(cfg *cleanupHandlerConfig) {
		if interval > 0 {
			cfg.cronConfig.Expression = "@every " + interval.String()
		}
	}
}

// CleanupWithTimeout overrides the per-sweep timeout.
func CleanupWithTimeout(timeout time.Duration) CleanupHandlerOption {
	return func(cfg *cleanupHandlerConfig) {
		cfg.timeout = timeout
	}
}

// CleanupExpiredDraftsHandler sweeps expired drafts from the active store.
type CleanupExpiredDraftsHandler struct {
	*commands.Handler[CleanupExpiredDraftsCommand]
	cronConfig command.HandlerConfig
}

func NewCleanupExpiredDraftsHandler(cleaner DraftCleaner, logger interfaces.Logger, opts ...CleanupHandlerOption) *CleanupExpiredDraftsHandler {
	cfg := cleanupHandlerConfig{
		cronConfig: command.HandlerConfig{Expression: "@every 1h"},
		timeout:    commands.DefaultCommandTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	sweep := func(ctx context.Context, msg CleanupExpiredDraftsCommand) error {
		if msg.DryRun {
			live, err := cleaner.GetAllDrafts(ctx)
			if err != nil {
				return err
			}
			commands.Report(ctx, "dry_run", true)
			commands.Report(ctx, "live_count", len(live))
			return nil
		}
		removed, err := cleaner.CleanupExpiredDrafts(ctx)
		if err != nil {
			return err
		}
		commands.Report(ctx, "removed", removed)
		return nil
	}
	return &CleanupExpiredDraftsHandler{
		Handler: commands.NewHandler(sweep,
			commands.WithLogger[CleanupExpiredDraftsCommand](logger),
			commands.WithTimeout[CleanupExpiredDraftsCommand](cfg.timeout),
		),
		cronConfig: cfg.cronConfig,
	}
}

// CronHandler satisfies command.CronCommand.
func (h *CleanupExpiredDraftsHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), CleanupExpiredDraftsCommand{})
	}
}

// CronOptions satisfies command.CronCommand.
func (h *CleanupExpiredDraftsHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}

func (h *CleanupExpiredDraftsHandler) CLIHandler() any {
	return h
}

func (h *CleanupExpiredDraftsHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"drafts", "cleanup"},
		Group:       "drafts",
		Description: "Delete expired drafts; supports dry-run",
	}
}
