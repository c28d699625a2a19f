// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shaderview

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/shaderview/diag"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with resolutions in flight.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for shaderview and its sub-packages.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Log levels used by shaderview:
//   - [slog.LevelDebug]: resolution attempts and successes
//   - [slog.LevelInfo]: lifecycle events (device opened, library compiled)
//   - [slog.LevelWarn]: non-fatal issues (a diagnostic sink panicked)
//   - [slog.LevelError]: failed resolutions
//
// Example:
//
//	shaderview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Sub-packages (device, view) call it to
// share the same configuration. Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSink is the default diagnostic sink. It reads the package logger on
// every record so that SetLogger applies to resolvers created earlier.
type loggerSink struct{}

func (loggerSink) Emit(r diag.Record) {
	diag.SlogSink{Logger: Logger()}.Emit(r)
}
