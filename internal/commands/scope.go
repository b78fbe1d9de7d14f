package commands

import (
	"context"
	"maps"
	"strings"
	"sync"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-site-configurator/internal/logging"
	"github.com/goliatone/go-site-configurator/pkg/interfaces"
)

// DefaultCommandTimeout bounds a single command execution.
const DefaultCommandTimeout = 30 * time.Second

const (
	messagePrefix     = "configurator."
	commandModuleRoot = "configurator.commands"
	coreModule        = "core"
)

// Target is the draft or site a command acts on.
type Target struct {
	DraftID string
	SiteID  string
}

// Targeted is implemented by messages bound to one draft or site.
type Targeted interface {
	CommandTarget() Target
}

// Scope describes one execution: the module and action named by a
// "configurator.<module>.<action>" message type, its target, and the result
// fields the run reported.
type Scope struct {
	Command string
	Module  string
	Action  string
	Target  Target

	mu     sync.Mutex
	report map[string]any
}

type scopeKey struct{}

// NewScope derives the execution scope of msg.
func NewScope(msg command.Message) *Scope {
	name := command.GetMessageType(msg)
	scope := &Scope{Command: name, Module: coreModule, Action: name}
	if rest, ok := strings.CutPrefix(name, messagePrefix); ok {
		if module, action, found := strings.Cut(rest, "."); found && module != "" && action != "" {
			scope.Module = module
			scope.Action = action
		}
	}
	if targeted, ok := msg.(Targeted); ok {
		scope.Target = targeted.CommandTarget()
	}
	return scope
}

// Operation is the dotted module.action name used in log messages.
func (s *Scope) Operation() string {
	return s.Module + "." + s.Action
}

// Fields returns the identifying log fields of the execution.
func (s *Scope) Fields() map[string]any {
	fields := map[string]any{
		"command":        s.Command,
		"command_module": s.Module,
		"operation":      s.Operation(),
	}
	if s.Target.DraftID != "" {
		fields["draft_id"] = s.Target.DraftID
	}
	if s.Target.SiteID != "" {
		fields["site_id"] = s.Target.SiteID
	}
	return fields
}

// Logger scopes base to the execution.
func (s *Scope) Logger(base interfaces.Logger) interfaces.Logger {
	if base == nil {
		base = logging.NoOp()
	}
	return logging.WithFields(base, s.Fields())
}

// Bind attaches the scope and its log fields to ctx and applies timeout when
// it is positive.
func (s *Scope) Bind(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(logging.ContextWithFields(ctx, s.Fields()), scopeKey{}, s)
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// Reported returns a copy of the result fields recorded with Report.
func (s *Scope) Reported() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.report)
}

// Report records a result field, such as the number of drafts removed, for
// the running command's telemetry. Outside a command execution it is a no-op.
func Report(ctx context.Context, key string, value any) {
	if ctx == nil {
		return
	}
	scope, ok := ctx.Value(scopeKey{}).(*Scope)
	if !ok || scope == nil {
		return
	}
	scope.mu.Lock()
	defer scope.mu.Unlock()
	if scope.report == nil {
		scope.report = make(map[string]any)
	}
	scope.report[key] = value
}

// CommandLogger returns the logger command handlers of module are built with.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = coreModule
	}
	return logging.ModuleLogger(provider, commandModuleRoot+"."+name)
}
