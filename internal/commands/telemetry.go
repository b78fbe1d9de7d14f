package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-site-configurator/internal/apperrors"
	"github.com/goliatone/go-site-configurator/internal/logging"
	"github.com/goliatone/go-site-configurator/pkg/interfaces"
)

// TelemetryStatus is the outcome class of one execution.
type TelemetryStatus string

const (
	TelemetryStatusSuccess     TelemetryStatus = "success"
	TelemetryStatusFailed      TelemetryStatus = "failed"
	TelemetryStatusInterrupted TelemetryStatus = "interrupted"
)

// TelemetryInfo describes a finished execution. Fields holds the scope fields
// plus whatever the command reported.
type TelemetryInfo struct {
	Command   string
	Operation string
	Target    Target
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Telemetry is invoked once per execution after the wrapped function returns.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs "<module>.<action>.done|failed|interrupted" with the
// reported fields and the error code. A nil logger uses the execution's own.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	return func(_ context.Context, _ T, info TelemetryInfo) {
		entry := info.Logger
		if logger != nil {
			entry = logging.WithFields(logger, info.Fields)
		}
		if entry == nil {
			entry = logging.NoOp()
		}
		args := []any{"duration_ms", info.Duration.Milliseconds()}
		switch info.Status {
		case TelemetryStatusSuccess:
			entry.Info(info.Operation+".done", args...)
		case TelemetryStatusInterrupted:
			entry.Warn(info.Operation+".interrupted", append(args, "code", apperrors.Code(info.Error), "error", info.Error)...)
		default:
			entry.Error(info.Operation+".failed", append(args, "code", apperrors.Code(info.Error), "error", info.Error)...)
		}
	}
}
