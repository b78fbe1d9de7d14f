package commands

import (
	"context"
	"maps"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-site-configurator/internal/logging"
	"github.com/goliatone/go-site-configurator/pkg/interfaces"
)

// HandlerOption configures a Handler instance.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler wraps a configurator command function so it satisfies go-command's
// Commander interface. Every run is validated, bound to a Scope, bounded by a
// timeout, classified with domain error codes and reported to telemetry.
type Handler[T command.Message] struct {
	exec      command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	telemetry Telemetry[T]
	now       func() time.Time
}

func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		exec:      fn,
		logger:    logging.NoOp(),
		timeout:   DefaultCommandTimeout,
		telemetry: DefaultTelemetry[T](nil),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute validates msg, binds its scope to ctx and runs the wrapped function.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	scope := NewScope(msg)
	if err := validateMessage(msg); err != nil {
		return invalidMessage(scope, err)
	}

	ctx, cancel := scope.Bind(ctx, h.timeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return interrupted(scope, err)
	}

	logger := scope.Logger(h.logger)
	logger.Debug(scope.Operation() + ".start")

	started := h.now()
	err := h.exec(ctx, msg)
	status := TelemetryStatusSuccess
	switch {
	case err != nil && isInterruption(ctx, err):
		status = TelemetryStatusInterrupted
		err = interrupted(scope, err)
	case err != nil:
		status = TelemetryStatusFailed
		err = failed(scope, err)
	case ctx.Err() != nil:
		status = TelemetryStatusInterrupted
		err = interrupted(scope, ctx.Err())
	}

	if h.telemetry != nil {
		fields := scope.Fields()
		reported := scope.Reported()
		maps.Copy(fields, reported)
		h.telemetry(ctx, msg, TelemetryInfo{
			Command:   scope.Command,
			Operation: scope.Operation(),
			Target:    scope.Target,
			Fields:    fields,
			Duration:  h.now().Sub(started),
			Error:     err,
			Status:    status,
			Logger:    logging.WithFields(logger, reported),
		})
	}
	return err
}

// validateMessage calls the message's own Validate so ozzo field errors reach
// invalidMessage unwrapped. Other messages go through go-command.
func validateMessage[T command.Message](msg T) error {
	if v, ok := any(msg).(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return command.ValidateMessage(msg)
}

// WithTimeout overrides the default execution timeout. Zero disables it.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		if timeout <= 0 {
			h.timeout = 0
			return
		}
		h.timeout = timeout
	}
}

// WithLogger injects the logger used during execution.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithTelemetry replaces outcome logging with the supplied callback. Nil
// silences it.
func WithTelemetry[T command.Message](telemetry Telemetry[T]) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.telemetry = telemetry
	}
}
