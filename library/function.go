// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package library

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Function is one resolved shader entry point, ready to be bound into a
// pipeline stage by its owner.
//
// Every successful Lookup returns a new Function. Two Functions for the same
// name are equivalent (same stage, same module) but not the same value.
type Function struct {
	lib       *Library
	name      string
	stage     gputypes.ShaderStage
	workgroup [3]uint32
	mslName   string
}

// Name returns the entry point name as written in the source.
func (f *Function) Name() string {
	return f.name
}

// Stage returns the pipeline stage of the entry point.
func (f *Function) Stage() gputypes.ShaderStage {
	return f.stage
}

// WorkgroupSize returns the @workgroup_size of a compute entry point.
// It is zero for other stages.
func (f *Function) WorkgroupSize() [3]uint32 {
	return f.workgroup
}

// MSLName returns the Metal function name generated for this entry point,
// or "" if the library was compiled without MSL.
func (f *Function) MSLName() string {
	return f.mslName
}

// Module returns the GPU shader module containing this entry point, or nil
// if the library has no device or has been closed.
func (f *Function) Module() hal.ShaderModule {
	return f.lib.Module()
}

// Library returns the library the function was resolved from.
func (f *Function) Library() *Library {
	return f.lib
}

// ProgrammableStage describes the function as a pipeline stage. The module
// handle is left for the pipeline builder to fill in.
func (f *Function) ProgrammableStage() gputypes.ProgrammableStage {
	return gputypes.ProgrammableStage{EntryPoint: f.name}
}

// Equivalent reports whether f and g refer to the same entry point of the
// same library.
func (f *Function) Equivalent(g *Function) bool {
	if f == nil || g == nil {
		return f == g
	}
	return f.lib == g.lib && f.name == g.name
}
