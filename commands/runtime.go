package commands

import (
	"fmt"
	"strings"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	"github.com/robfig/cron/v3"

	draftscmd "github.com/goliatone/go-site-configurator/internal/commands/drafts"
	sitescmd "github.com/goliatone/go-site-configurator/internal/commands/sites"
	"github.com/goliatone/go-site-configurator/internal/logging"
	"github.com/goliatone/go-site-configurator/pkg/interfaces"
)

// Dispatcher subscribes the configurator handlers to go-command's global
// dispatcher so messages can be sent with dispatcher.Dispatch.
type Dispatcher struct {
	opts []runner.Option
}

var _ CommandDispatcher = (*Dispatcher)(nil)

// NewDispatcher applies opts, such as runner.WithMaxRetries, to every subscription.
func NewDispatcher(opts ...runner.Option) *Dispatcher {
	return &Dispatcher{opts: opts}
}

func (d *Dispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	switch h := handler.(type) {
	case command.Commander[draftscmd.CleanupExpiredDraftsCommand]:
		return dispatcher.SubscribeCommand(h, d.opts...), nil
	case command.Commander[sitescmd.PublishSiteCommand]:
		return dispatcher.SubscribeCommand(h, d.opts...), nil
	case command.Commander[sitescmd.UnpublishSiteCommand]:
		return dispatcher.SubscribeCommand(h, d.opts...), nil
	case command.Commander[sitescmd.MigrateDraftCommand]:
		return dispatcher.SubscribeCommand(h, d.opts...), nil
	default:
		return nil, fmt.Errorf("commands: unsupported handler %T", handler)
	}
}

// CronScheduler runs cron-registered handlers on a robfig/cron scheduler.
type CronScheduler struct {
	cron   *cron.Cron
	logger interfaces.Logger
}

func NewCronScheduler(logger interfaces.Logger) *CronScheduler {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &CronScheduler{cron: cron.New(), logger: logger}
}

// Register satisfies CronRegistrar. handler must be a func() error.
func (s *CronScheduler) Register(cfg command.HandlerConfig, handler any) error {
	fn, ok := handler.(func() error)
	if !ok {
		return fmt.Errorf("commands: cron handler %T is not a func() error", handler)
	}
	expr := strings.TrimSpace(cfg.Expression)
	if expr == "" {
		return fmt.Errorf("commands: cron expression is required")
	}
	_, err := s.cron.AddFunc(expr, func() {
		if err := fn(); err != nil {
			s.logger.Error("command.cron.failed", "expression", expr, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("commands: schedule %q: %w", expr, err)
	}
	s.logger.Debug("command.cron.registered", "expression", expr)
	return nil
}

// Registrar adapts Register to a CronRegistrar.
func (s *CronScheduler) Registrar() CronRegistrar {
	return s.Register
}

// Entries reports how many jobs are scheduled.
func (s *CronScheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *CronScheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs.
func (s *CronScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
