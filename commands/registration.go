// Package commands registers the configurator's go-command handlers with
// host registries, dispatchers and cron schedulers.
package commands

import (
	"errors"
	"strings"

	command "github.com/goliatone/go-command"

	internalcommands "github.com/goliatone/go-site-configurator/internal/commands"
	draftscmd "github.com/goliatone/go-site-configurator/internal/commands/drafts"
	sitescmd "github.com/goliatone/go-site-configurator/internal/commands/sites"
	"github.com/goliatone/go-site-configurator/internal/di"
	"github.com/goliatone/go-site-configurator/pkg/interfaces"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// CronRegistrar registers command handlers with a cron scheduler.
type CronRegistrar func(command.HandlerConfig, any) error

// RegistrationOptions configures how handlers are registered.
type RegistrationOptions struct {
	Registry       CommandRegistry
	Dispatcher     CommandDispatcher
	CronRegistrar  CronRegistrar
	LoggerProvider interfaces.LoggerProvider
	// CleanupCron overrides the schedule derived from the cleanup interval.
	CleanupCron string
}

// RegistrationResult captures the constructed handlers and dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// Unsubscribe releases every dispatcher subscription.
func (r *RegistrationResult) Unsubscribe() {
	if r == nil {
		return
	}
	for _, sub := range r.Subscriptions {
		sub.Unsubscribe()
	}
	r.Subscriptions = nil
}

// RegisterContainerCommands builds the handlers backed by the container's
// services and hands them to the supplied integrations.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	if container == nil {
		return &RegistrationResult{}, nil
	}
	cfg := container.Config

	provider := opts.LoggerProvider
	if provider == nil {
		provider = container.LoggerProvider()
	}

	result := &RegistrationResult{
		Handlers:      make([]any, 0),
		Subscriptions: make([]CommandSubscription, 0),
	}

	var errs error
	register := func(handler any) {
		if handler == nil {
			return
		}
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}

		if opts.CronRegistrar != nil {
			if cronCmd, ok := handler.(command.CronCommand); ok {
				if err := opts.CronRegistrar(cronCmd.CronOptions(), cronCmd.CronHandler()); err != nil {
					errs = errors.Join(errs, err)
				}
			}
		}
	}

	loggerFor := func(module string) interfaces.Logger {
		return internalcommands.CommandLogger(provider, module)
	}

	if manager := container.DraftManager(); manager != nil {
		cleanupOpts := []draftscmd.CleanupHandlerOption{
			draftscmd.CleanupWithInterval(cfg.Storage.CleanupInterval),
		}
		if expr := strings.TrimSpace(opts.CleanupCron); expr != "" {
			cleanupOpts = append(cleanupOpts, draftscmd.CleanupWithCronExpression(expr))
		}
		register(draftscmd.NewCleanupExpiredDraftsHandler(manager, loggerFor("drafts"), cleanupOpts...))
	}

	if publisher := container.PublishService(); publisher != nil {
		sitesLogger := loggerFor("sites")
		register(sitescmd.NewPublishSiteHandler(publisher, sitesLogger))
		register(sitescmd.NewUnpublishSiteHandler(publisher, sitesLogger))
	}

	if migrator := container.MigrationService(); migrator != nil {
		register(sitescmd.NewMigrateDraftHandler(migrator, loggerFor("drafts")))
	}

	if len(result.Handlers) == 0 {
		return result, errors.Join(errs, errors.New("no command handlers registered; ensure services are configured"))
	}
	return result, errs
}
