// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package diag

import "go.uber.org/zap"

// ZapSink writes records to a zap.Logger, for hosts that log with zap.
type ZapSink struct {
	Logger *zap.Logger
}

// NewZapSink returns a sink writing to l. A nil l discards records.
func NewZapSink(l *zap.Logger) ZapSink {
	if l == nil {
		l = zap.NewNop()
	}
	return ZapSink{Logger: l}
}

// Emit implements Sink.
func (s ZapSink) Emit(r Record) {
	if s.Logger == nil {
		return
	}
	fields := []zap.Field{
		zap.String("symbol", r.Symbol),
		zap.Stringer("phase", r.Phase),
	}
	if r.SourceHint != "" {
		fields = append(fields, zap.String("source", r.SourceHint))
	}
	if r.Err != nil {
		fields = append(fields, zap.Error(r.Err))
	}

	if r.Severity == SeverityError {
		s.Logger.Error("shader resolution", fields...)
		return
	}
	s.Logger.Debug("shader resolution", fields...)
}
