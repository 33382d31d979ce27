// Package logging provides the structured logger shared by the vibe pipeline.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with vibe-specific helpers so pipeline stages log
// with consistent field names.
type Logger struct {
	*slog.Logger
}

// New creates a Logger writing to w. format is "text" or "json".
func New(w io.Writer, level slog.Level, format string) (*Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}
	return &Logger{Logger: slog.New(h)}, nil
}

// Default returns an info-level text logger on stderr.
func Default() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))}
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

// WithComponent tags every record with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{Logger: l.Logger.With("component", name)}
}

// LogIteration logs the convergence diagnostic of one layout iteration.
func (l *Logger) LogIteration(ctx context.Context, iter int, totalForce, maxStep float64) {
	l.DebugContext(ctx, "layout iteration",
		"iteration", iter,
		"total_force", totalForce,
		"max_step", maxStep,
	)
}

// LogLayout logs the outcome of a layout run.
func (l *Logger) LogLayout(ctx context.Context, anchors, iterations int, finalForce float64, converged bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "layout failed",
			"anchors", anchors,
			"iterations", iterations,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "layout completed",
		"anchors", anchors,
		"iterations", iterations,
		"final_force", finalForce,
		"converged", converged,
	)
}

// LogBuild logs an index build; rejected points downgrade the record to a warning.
func (l *Logger) LogBuild(ctx context.Context, total, rejected int, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "index build failed",
			"points", total,
			"error", err,
		)
	case rejected > 0:
		l.WarnContext(ctx, "index build completed with rejected points",
			"points", total,
			"rejected", rejected,
			"indexed", total-rejected,
		)
	default:
		l.InfoContext(ctx, "index build completed",
			"points", total,
		)
	}
}

// LogRoute logs one routed query.
func (l *Logger) LogRoute(ctx context.Context, id string, distance float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "route failed",
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "route completed",
		"subvibe", id,
		"distance", distance,
	)
}
