package trail

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// OperationEvent describes a checkpoint operation or a rejected call.
type OperationEvent struct {
	Op       string
	Manager  uuid.UUID
	Depth    int
	TrailLen int
	Undone   int
	Duration time.Duration
	Err      error
}

// Logger records manager operations.
type Logger interface {
	LogOperation(OperationEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(OperationEvent)

// LogOperation implements Logger.
func (f LoggerFunc) LogOperation(event OperationEvent) {
	if f != nil {
		f(event)
	}
}

// WithLogger attaches an operation logger to the Manager. A nil logger
// disables logging, and the manager then skips timing its operations.
func WithLogger(logger Logger) Option {
	return func(cfg *managerConfig) {
		cfg.logger = logger
	}
}

// WithSlogLogger logs operations through a slog.Logger. Successful
// operations are logged at debug level, failures at warn level.
func WithSlogLogger(logger *slog.Logger) Option {
	return func(cfg *managerConfig) {
		if logger == nil {
			cfg.logger = nil
			return
		}
		cfg.logger = slogLogger{logger: logger}
	}
}

type slogLogger struct {
	logger *slog.Logger
}

func (l slogLogger) LogOperation(event OperationEvent) {
	args := []any{
		slog.String("op", event.Op),
		slog.String("manager", event.Manager.String()),
		slog.Int("depth", event.Depth),
		slog.Int("trail_len", event.TrailLen),
		slog.Int("undone", event.Undone),
		slog.Duration("duration", event.Duration),
	}
	if event.Err != nil {
		l.logger.Warn("trail operation failed", append(args, slog.String("error", event.Err.Error()))...)
		return
	}
	l.logger.Debug("trail operation", args...)
}
