// Package sitescmd exposes publishing and migration as go-command handlers.
package sitescmd

import (
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-site-configurator/internal/commands"
	"github.com/goliatone/go-site-configurator/internal/migration"
	"github.com/goliatone/go-site-configurator/internal/publish"
	"github.com/goliatone/go-site-configurator/pkg/interfaces"
)

const (
	publishSiteMessageType   = "configurator.sites.publish"
	unpublishSiteMessageType = "configurator.sites.unpublish"
	migrateDraftMessageType  = "configurator.drafts.migrate"
)

// Publisher is the publish surface the handlers drive.
type Publisher interface {
	Publish(ctx context.Context, siteID string) (*publish.Result, error)
	DeleteSite(siteID string) error
}

// Migrator is the migration surface the handlers drive.
type Migrator interface {
	Migrate(ctx context.Context, draftID string, in migration.Input) migration.Result
}

// PublishSiteCommand exports the draft with SiteID as a static site.
type PublishSiteCommand struct {
	SiteID string `json:"site_id"`
}

func (PublishSiteCommand) Type() string { return publishSiteMessageType }

func (c PublishSiteCommand) CommandTarget() commands.Target {
	return commands.Target{SiteID: strings.TrimSpace(c.SiteID)}
}

func (c PublishSiteCommand) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SiteID, validation.Required, validation.Length(1, 128)),
	)
}

// UnpublishSiteCommand removes a published site.
type UnpublishSiteCommand struct {
	SiteID string `json:"site_id"`
}

func (UnpublishSiteCommand) Type() string { return unpublishSiteMessageType }

func (c UnpublishSiteCommand) CommandTarget() commands.Target {
	return commands.Target{SiteID: strings.TrimSpace(c.SiteID)}
}

func (c UnpublishSiteCommand) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SiteID, validation.Required, validation.Length(1, 128)),
	)
}

// MigrateDraftCommand hands a draft to the sites API on behalf of UserID.
type MigrateDraftCommand struct {
	DraftID string `json:"draft_id"`
	UserID  string `json:"user_id"`
}

func (MigrateDraftCommand) Type() string { return migrateDraftMessageType }

func (c MigrateDraftCommand) CommandTarget() commands.Target {
	return commands.Target{DraftID: strings.TrimSpace(c.DraftID)}
}

func (c MigrateDraftCommand) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DraftID, validation.Required),
		validation.Field(&c.UserID, validation.Required, validation.Length(1, 255)),
	)
}

// CLIHandler pairs a generic handler with CLI metadata.
type CLIHandler[T command.Message] struct {
	*commands.Handler[T]
	cli command.CLIConfig
}

func (h *CLIHandler[T]) CLIHandler() any { return h }

func (h *CLIHandler[T]) CLIOptions() command.CLIConfig { return h.cli }

func NewPublishSiteHandler(publisher Publisher, logger interfaces.Logger) *CLIHandler[PublishSiteCommand] {
	handler := commands.NewHandler(func(ctx context.Context, msg PublishSiteCommand) error {
		result, err := publisher.Publish(ctx, strings.TrimSpace(msg.SiteID))
		if err != nil {
			return err
		}
		commands.Report(ctx, "url", result.URL)
		return nil
	}, commands.WithLogger[PublishSiteCommand](logger))
	return &CLIHandler[PublishSiteCommand]{
		Handler: handler,
		cli: command.CLIConfig{
			Path:        []string{"sites", "publish"},
			Group:       "sites",
			Description: "Export a draft as a static site",
		},
	}
}

func NewUnpublishSiteHandler(publisher Publisher, logger interfaces.Logger) *CLIHandler[UnpublishSiteCommand] {
	handler := commands.NewHandler(func(_ context.Context, msg UnpublishSiteCommand) error {
		return publisher.DeleteSite(strings.TrimSpace(msg.SiteID))
	}, commands.WithLogger[UnpublishSiteCommand](logger))
	return &CLIHandler[UnpublishSiteCommand]{
		Handler: handler,
		cli: command.CLIConfig{
			Path:        []string{"sites", "unpublish"},
			Group:       "sites",
			Description: "Remove a published static site",
		},
	}
}

func NewMigrateDraftHandler(migrator Migrator, logger interfaces.Logger) *CLIHandler[MigrateDraftCommand] {
	handler := commands.NewHandler(func(ctx context.Context, msg MigrateDraftCommand) error {
		result := migrator.Migrate(ctx, strings.TrimSpace(msg.DraftID), migration.Input{UserID: msg.UserID})
		if result.Success {
			commands.Report(ctx, "site_id", result.SiteID)
			return nil
		}
		if result.Err != nil {
			return result.Err
		}
		return errors.New(result.Error)
	}, commands.WithLogger[MigrateDraftCommand](logger))
	return &CLIHandler[MigrateDraftCommand]{
		Handler: handler,
		cli: command.CLIConfig{
			Path:        []string{"drafts", "migrate"},
			Group:       "drafts",
			Description: "Move a draft to the permanent sites API",
		},
	}
}
