// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package library

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/msl"
	"github.com/gogpu/naga/spirv"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shaderview/internal/cache"
)

// Library is a compiled collection of named shader entry points.
//
// A Library is immutable once constructed. Lookup only reads the entry-point
// index and hands out the shared GPU shader module, so any number of
// goroutines may call it concurrently without synchronization. The hal
// backends create shader modules as read-only objects after construction;
// a backend that breaks this must not be used with concurrent lookups.
//
// Close releases the GPU shader module. Functions already handed out keep
// their metadata but must not be bound to new pipelines afterwards.
type Library struct {
	label  string
	art    *artifacts
	device hal.Device
	module hal.ShaderModule

	closeOnce sync.Once
	closed    atomic.Bool
}

// artifacts is the device-independent compilation result. It is shared
// between libraries compiled from the same source and is never mutated.
type artifacts struct {
	entries  []entryPoint
	index    map[string]int
	spirv    []uint32
	msl      string
	mslNames map[string]string
}

type entryPoint struct {
	name      string
	stage     gputypes.ShaderStage
	workgroup [3]uint32
}

// Compile builds a Library from WGSL source.
//
// The pipeline is parse, lower, validate (unless disabled), then SPIR-V and
// MSL generation as requested by the options, and finally one GPU shader
// module when a device is attached. Errors are *CompileError.
func Compile(source string, opts ...Option) (*Library, error) {
	o := applyOptions(opts)

	build := func() (*artifacts, error) {
		ast, err := naga.Parse(source)
		if err != nil {
			return nil, &CompileError{Phase: PhaseParse, Label: o.label, Err: err}
		}
		module, err := naga.LowerWithSource(ast, source)
		if err != nil {
			return nil, &CompileError{Phase: PhaseLower, Label: o.label, Err: err}
		}
		return buildArtifacts(module, o)
	}

	var (
		art *artifacts
		err error
	)
	if o.cache != nil {
		key := cacheKey(source, o)
		art, err = o.cache.GetOrCompile(key, build)
	} else {
		art, err = build()
	}
	if err != nil {
		return nil, err
	}
	return newLibrary(art, o)
}

// FromModule builds a Library from an already lowered IR module.
// Results are not cached: the module may be mutated by its owner later.
func FromModule(module *ir.Module, opts ...Option) (*Library, error) {
	if module == nil {
		return nil, &CompileError{Phase: PhaseLower, Err: errors.New("nil module")}
	}
	o := applyOptions(opts)
	art, err := buildArtifacts(module, o)
	if err != nil {
		return nil, err
	}
	return newLibrary(art, o)
}

// Empty returns a library with no entry points. Every lookup fails; it
// stands in for a library that has not been loaded yet.
func Empty(label string) *Library {
	return &Library{
		label: label,
		art:   &artifacts{index: map[string]int{}},
	}
}

func buildArtifacts(module *ir.Module, o options) (*artifacts, error) {
	if o.validate {
		verrs, err := naga.Validate(module)
		if err != nil {
			return nil, &CompileError{Phase: PhaseValidate, Label: o.label, Err: err}
		}
		if len(verrs) > 0 {
			return nil, &CompileError{Phase: PhaseValidate, Label: o.label, Err: &verrs[0]}
		}
	}

	art := &artifacts{
		entries: make([]entryPoint, 0, len(module.EntryPoints)),
		index:   make(map[string]int, len(module.EntryPoints)),
	}
	for _, ep := range module.EntryPoints {
		if _, dup := art.index[ep.Name]; dup {
			return nil, &CompileError{
				Phase: PhaseValidate,
				Label: o.label,
				Err:   fmt.Errorf("duplicate entry point %q", ep.Name),
			}
		}
		art.index[ep.Name] = len(art.entries)
		art.entries = append(art.entries, entryPoint{
			name:      ep.Name,
			stage:     stageOf(ep.Stage),
			workgroup: ep.Workgroup,
		})
	}

	if o.spirv {
		words, err := generateSPIRV(module, o.debug)
		if err != nil {
			return nil, &CompileError{Phase: PhaseSPIRV, Label: o.label, Err: err}
		}
		art.spirv = words
	}

	if o.msl {
		src, info, err := msl.Compile(module, msl.DefaultOptions())
		if err != nil {
			return nil, &CompileError{Phase: PhaseMSL, Label: o.label, Err: err}
		}
		art.msl = src
		art.mslNames = info.EntryPointNames
	}

	return art, nil
}

// generateSPIRV compiles module to little-endian SPIR-V words, the layout
// hal.ShaderSource expects.
func generateSPIRV(module *ir.Module, debug bool) ([]uint32, error) {
	b, err := naga.GenerateSPIRV(module, spirv.Options{
		Version: spirv.Version1_3,
		Debug:   debug,
	})
	if err != nil {
		return nil, err
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("SPIR-V length %d is not a multiple of 4", len(b))
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words, nil
}

func newLibrary(art *artifacts, o options) (*Library, error) {
	lib := &Library{
		label:  o.label,
		art:    art,
		device: o.device,
	}
	if o.device == nil {
		return lib, nil
	}

	module, err := o.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  o.label,
		Source: hal.ShaderSource{SPIRV: art.spirv},
	})
	if err != nil {
		return nil, &CompileError{Phase: PhaseModule, Label: o.label, Err: err}
	}
	lib.module = module
	return lib, nil
}

func cacheKey(source string, o options) cache.Key {
	return cache.KeyOf(append([]string{source}, o.fingerprint()...)...)
}

func stageOf(s ir.ShaderStage) gputypes.ShaderStage {
	switch s {
	case ir.StageVertex:
		return gputypes.ShaderStageVertex
	case ir.StageFragment:
		return gputypes.ShaderStageFragment
	case ir.StageCompute:
		return gputypes.ShaderStageCompute
	default:
		// Task and mesh stages have no WebGPU stage flag.
		return gputypes.ShaderStageNone
	}
}

// Lookup resolves name to a new Function handle. It reports false if the
// library has no entry point with that exact name.
func (l *Library) Lookup(name string) (*Function, bool) {
	i, ok := l.art.index[name]
	if !ok {
		return nil, false
	}
	ep := l.art.entries[i]
	return &Function{
		lib:       l,
		name:      ep.name,
		stage:     ep.stage,
		workgroup: ep.workgroup,
		mslName:   l.art.mslNames[ep.name],
	}, true
}

// Has reports whether the library contains an entry point named name.
func (l *Library) Has(name string) bool {
	_, ok := l.art.index[name]
	return ok
}

// Names returns the entry point names in sorted order.
func (l *Library) Names() []string {
	names := make([]string, len(l.art.entries))
	for i, ep := range l.art.entries {
		names[i] = ep.name
	}
	sort.Strings(names)
	return names
}

// Len returns the number of entry points.
func (l *Library) Len() int {
	return len(l.art.entries)
}

// Label returns the debug label given at compile time.
func (l *Library) Label() string {
	return l.label
}

// SPIRV returns the compiled SPIR-V words, or nil if SPIR-V was not
// generated. The slice is shared and must not be modified.
func (l *Library) SPIRV() []uint32 {
	return l.art.spirv
}

// MSL returns the generated Metal Shading Language source, or "" if MSL
// generation was not requested.
func (l *Library) MSL() string {
	return l.art.msl
}

// Module returns the GPU shader module, or nil if no device was attached or
// the library is closed.
func (l *Library) Module() hal.ShaderModule {
	if l.closed.Load() {
		return nil
	}
	return l.module
}

// Closed reports whether Close has been called.
func (l *Library) Closed() bool {
	return l.closed.Load()
}

// Device returns the device the shader module was created on, or nil.
func (l *Library) Device() hal.Device {
	return l.device
}

// Close destroys the GPU shader module. Close is idempotent.
func (l *Library) Close() {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		if l.device != nil && l.module != nil {
			l.device.DestroyShaderModule(l.module)
		}
	})
}
