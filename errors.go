// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shaderview

import (
	"errors"
	"fmt"
)

// ErrNilLibrary is returned by NewResolver when no library is given.
var ErrNilLibrary = errors.New("shaderview: nil library")

// ErrFunctionCreationFailed matches every *CompilationError of kind
// KindFunctionCreationFailed with errors.Is.
var ErrFunctionCreationFailed = errors.New("shaderview: function creation failed")

// ErrorKind classifies a resolution failure.
type ErrorKind uint8

const (
	// KindFunctionCreationFailed means the library has no entry point with
	// the requested name.
	KindFunctionCreationFailed ErrorKind = iota + 1
)

func (k ErrorKind) String() string {
	switch k {
	case KindFunctionCreationFailed:
		return "function creation failed"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

// CompilationError is the failure delivered in an Outcome.
// Symbol is the name exactly as the caller passed it.
type CompilationError struct {
	Kind   ErrorKind
	Symbol string
}

// FunctionCreationFailed returns the error for a symbol the library does
// not contain.
func FunctionCreationFailed(symbol string) *CompilationError {
	return &CompilationError{Kind: KindFunctionCreationFailed, Symbol: symbol}
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("shaderview: %s: %q", e.Kind, e.Symbol)
}

// Is reports whether target is the sentinel for e's kind, or a
// *CompilationError with the same kind and symbol.
func (e *CompilationError) Is(target error) bool {
	if target == ErrFunctionCreationFailed {
		return e.Kind == KindFunctionCreationFailed
	}
	var other *CompilationError
	if errors.As(target, &other) {
		return other.Kind == e.Kind && other.Symbol == e.Symbol
	}
	return false
}
