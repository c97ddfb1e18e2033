// Package correlation tags every log line written during one command run with the run's ID
// and command name.
package correlation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

type contextKey struct{}

// Run identifies one invocation of the command.
type Run struct {
	ID      string
	Command string
}

// NewID returns the first 8 hex characters of a random UUID.
func NewID() string {
	return uuid.NewString()[:8]
}

// Start returns a context carrying a fresh Run for command.
func Start(ctx context.Context, command string) context.Context {
	return WithRun(ctx, Run{ID: NewID(), Command: command})
}

func WithRun(ctx context.Context, run Run) context.Context {
	return context.WithValue(ctx, contextKey{}, run)
}

// FromContext returns the Run in ctx, if it has an ID.
func FromContext(ctx context.Context) (Run, bool) {
	run, ok := ctx.Value(contextKey{}).(Run)
	return run, ok && run.ID != ""
}

// Handler decorates records with correlation_id and, when set, command.
type Handler struct {
	inner slog.Handler
}

func NewHandler(inner slog.Handler) *Handler {
	return &Handler{inner: inner}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if run, ok := FromContext(ctx); ok {
		r.AddAttrs(slog.String("correlation_id", run.ID))
		if run.Command != "" {
			r.AddAttrs(slog.String("command", run.Command))
		}
	}
	if err := h.inner.Handle(ctx, r); err != nil {
		return fmt.Errorf("correlation handler: %w", err)
	}
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{inner: h.inner.WithAttrs(attrs)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name)}
}
