// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package diag

import "fmt"

// Phase is the point in a resolution a record was emitted at.
type Phase uint8

const (
	// PhaseAttempt is emitted before the library lookup.
	PhaseAttempt Phase = iota
	// PhaseSuccess is emitted after a lookup that found the entry point.
	PhaseSuccess
	// PhaseFailure is emitted after a lookup that found nothing.
	PhaseFailure
)

func (p Phase) String() string {
	switch p {
	case PhaseAttempt:
		return "attempt"
	case PhaseSuccess:
		return "success"
	case PhaseFailure:
		return "failure"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// Severity is the importance of a record.
type Severity uint8

const (
	// SeverityDebug marks attempts and successes.
	SeverityDebug Severity = iota
	// SeverityError marks failures.
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", uint8(s))
	}
}

// Record is one diagnostic about a shader resolution.
type Record struct {
	// Symbol is the entry point name that was requested.
	Symbol string
	// SourceHint names the shader source the caller expects the symbol in.
	// It is informational and may be empty.
	SourceHint string
	Phase      Phase
	Severity   Severity
	// Err is set on failure records.
	Err error
}

// Sink receives diagnostic records. Emit may be called from many goroutines
// at once and must not block for long: it runs on the resolution path.
type Sink interface {
	Emit(Record)
}

// Func adapts a function to a Sink.
type Func func(Record)

// Emit calls f(r).
func (f Func) Emit(r Record) { f(r) }

// Discard drops every record.
var Discard Sink = discard{}

type discard struct{}

func (discard) Emit(Record) {}

// Multi fans a record out to several sinks in order. Nil sinks are skipped.
func Multi(sinks ...Sink) Sink {
	out := make(multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

type multi []Sink

func (m multi) Emit(r Record) {
	for _, s := range m {
		s.Emit(r)
	}
}
