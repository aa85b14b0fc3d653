// SPDX-License-Identifier: MIT

// Package logging builds the slog logger used by the ladder commands.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/katalvlaran/distladder/config"
)

type contextKey string

// runKey carries the label of a pipeline run.
const runKey contextKey = "run"

// WithRun returns ctx labelled with a run name. pipeline.Run tags its
// component loggers with the label.
func WithRun(ctx context.Context, run string) context.Context {
	return context.WithValue(ctx, runKey, run)
}

// Run returns the run label of ctx, if any.
func Run(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(runKey).(string)
	return s
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("logging: unknown level %q", s)
}

// New returns a logger writing to w in the configured format and level.
func New(cfg config.Logging, w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("logging: unknown format %q", cfg.Format)
	}
	return slog.New(h), nil
}
