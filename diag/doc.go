// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package diag carries shader-resolution diagnostics to a logging or
// telemetry backend.
//
// A resolution emits one attempt record before the library lookup and one
// success or failure record after it. Records are observability only: a
// sink cannot change the outcome of a resolution.
//
// Sinks are provided for log/slog (SlogSink), go.uber.org/zap (ZapSink),
// plain functions (Func), fan-out (Multi) and Discard.
package diag
