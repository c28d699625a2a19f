// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package diag

import (
	"context"
	"log/slog"
)

// SlogSink writes records to a slog.Logger: debug records at
// slog.LevelDebug, error records at slog.LevelError.
type SlogSink struct {
	Logger *slog.Logger
}

// NewSlogSink returns a sink writing to l. A nil l uses slog.Default().
func NewSlogSink(l *slog.Logger) SlogSink {
	if l == nil {
		l = slog.Default()
	}
	return SlogSink{Logger: l}
}

// Emit implements Sink.
func (s SlogSink) Emit(r Record) {
	l := s.Logger
	if l == nil {
		return
	}
	level := slog.LevelDebug
	if r.Severity == SeverityError {
		level = slog.LevelError
	}
	ctx := context.Background()
	if !l.Enabled(ctx, level) {
		return
	}

	attrs := []slog.Attr{
		slog.String("symbol", r.Symbol),
		slog.String("phase", r.Phase.String()),
	}
	if r.SourceHint != "" {
		attrs = append(attrs, slog.String("source", r.SourceHint))
	}
	if r.Err != nil {
		attrs = append(attrs, slog.Any("err", r.Err))
	}
	l.LogAttrs(ctx, level, "shader resolution", attrs...)
}
