package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-masthead/internal/logging"
	"github.com/goliatone/go-masthead/pkg/interfaces"
)

// DefaultTimeout bounds a command run when no WithTimeout option is given.
const DefaultTimeout = 30 * time.Second

// HandlerOption configures a Handler.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler wraps a cache maintenance function so every run is validated,
// bounded by a deadline and logged. It satisfies command.Commander[T], which
// lets callers subscribe it to the go-command dispatcher.
type Handler[T command.Message] struct {
	run       command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
}

func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: nil command function")
	}
	h := &Handler[T]{run: fn, logger: logging.NoOp(), timeout: DefaultTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Execute validates msg and runs the wrapped function.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if err := command.ValidateMessage(msg); err != nil {
		return wrapValidationError(err)
	}

	ctx, cancel := h.bound(ctx)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return wrapContextError(err)
	}

	logger := h.entryLogger(ctx, msg)
	logger.Debug("command.started")
	started := time.Now()

	err := h.run(ctx, msg)
	elapsed := time.Since(started).Milliseconds()
	if ctxErr := ctx.Err(); ctxErr != nil {
		logger.Error("command.interrupted", "error", ctxErr, "duration_ms", elapsed)
		return wrapContextError(ctxErr)
	}
	if err != nil {
		logger.Error("command.failed", "error", err, "duration_ms", elapsed)
		return wrapExecuteError(err)
	}
	logger.Info("command.completed", "duration_ms", elapsed)
	return nil
}

func (h *Handler[T]) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if h.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.timeout)
}

func (h *Handler[T]) entryLogger(ctx context.Context, msg T) interfaces.Logger {
	fields := map[string]any{"command": command.GetMessageType(msg)}
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	return logging.WithFields(logging.FromContext(ctx, h.logger), fields)
}

// WithTimeout overrides DefaultTimeout. Zero or less runs without a deadline.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.timeout = max(timeout, 0)
	}
}

func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithOperation tags every entry with operation.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}
