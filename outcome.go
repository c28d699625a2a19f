// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shaderview

import "github.com/gogpu/shaderview/library"

// Outcome is the result of one resolution. Exactly one of Function and Err
// is non-nil.
type Outcome struct {
	fn     *library.Function
	err    *CompilationError
	symbol string
	hint   string
}

func succeeded(fn *library.Function, symbol, hint string) Outcome {
	return Outcome{fn: fn, symbol: symbol, hint: hint}
}

func failed(err *CompilationError, hint string) Outcome {
	return Outcome{err: err, symbol: err.Symbol, hint: hint}
}

// OK reports whether the resolution succeeded.
func (o Outcome) OK() bool {
	return o.fn != nil
}

// Function returns the resolved function, or nil on failure.
func (o Outcome) Function() *library.Function {
	return o.fn
}

// Err returns the failure, or nil on success. The error is always a
// *CompilationError.
func (o Outcome) Err() error {
	if o.err == nil {
		return nil
	}
	return o.err
}

// Symbol returns the requested entry point name.
func (o Outcome) Symbol() string {
	return o.symbol
}

// SourceHint returns the source name hint passed with the request.
func (o Outcome) SourceHint() string {
	return o.hint
}
