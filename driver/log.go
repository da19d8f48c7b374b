// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package driver

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that discards all records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h nopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h nopHandler) WithGroup(string) slog.Handler           { return h }

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(nopHandler{}))
}

// SetLogger sets the logger used by drivers and by the
// packages built on top of them.
// Passing nil restores the default, which discards all
// output.
//
// Levels:
//   - Debug: binding and upload diagnostics
//   - Info: lifecycle events (open, close, swapchain creation, resize)
//   - Warn: misuse that is ignored rather than reported to the caller
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	logger.Store(l)
}

// Logger returns the current logger.
// It is safe for concurrent use.
func Logger() *slog.Logger {
	return logger.Load()
}
