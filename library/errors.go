// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package library

import "fmt"

// Phase names the compilation stage that failed.
type Phase string

// Compilation phases, in pipeline order.
const (
	PhaseParse    Phase = "parse"
	PhaseLower    Phase = "lower"
	PhaseValidate Phase = "validate"
	PhaseSPIRV    Phase = "spirv"
	PhaseMSL      Phase = "msl"
	PhaseModule   Phase = "module"
)

// CompileError reports a failure to build a Library. Library load failures
// belong to the caller that loads the library, never to shader resolution.
type CompileError struct {
	Phase Phase
	Label string
	Err   error
}

func (e *CompileError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("library: %s: %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("library %q: %s: %v", e.Label, e.Phase, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
