// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package library

import (
	"strconv"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shaderview/internal/cache"
)

// Option configures library compilation.
//
// Example:
//
//	lib, err := library.Compile(src,
//	    library.WithLabel("effects"),
//	    library.WithDevice(halDevice),
//	    library.WithMSL(true),
//	)
type Option func(*options)

type options struct {
	label    string
	device   hal.Device
	spirv    bool
	msl      bool
	validate bool
	debug    bool
	cache    *cache.Cache[*artifacts]
}

// defaultArtifacts is shared by every Compile call that does not opt out.
var defaultArtifacts = cache.New[*artifacts](64)

func defaultOptions() options {
	return options{
		validate: true,
		cache:    defaultArtifacts,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.device != nil {
		o.spirv = true
	}
	return o
}

// fingerprint lists every option that changes the compiled artifacts.
// The label and device do not: they only affect the hal shader module.
func (o options) fingerprint() []string {
	return []string{
		"spirv=" + strconv.FormatBool(o.spirv),
		"msl=" + strconv.FormatBool(o.msl),
		"validate=" + strconv.FormatBool(o.validate),
		"debug=" + strconv.FormatBool(o.debug),
	}
}

// WithLabel sets the debug label used in errors, diagnostics and the GPU
// shader module.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}

// WithDevice creates one GPU shader module for the whole library on device.
// SPIR-V generation is implied. The library does not own the device.
func WithDevice(device hal.Device) Option {
	return func(o *options) {
		o.device = device
	}
}

// WithSPIRV generates SPIR-V words even without a device.
func WithSPIRV(enabled bool) Option {
	return func(o *options) {
		o.spirv = enabled
	}
}

// WithMSL generates Metal Shading Language source and records the Metal
// name of every entry point.
func WithMSL(enabled bool) Option {
	return func(o *options) {
		o.msl = enabled
	}
}

// WithValidation toggles IR validation. Enabled by default.
func WithValidation(enabled bool) Option {
	return func(o *options) {
		o.validate = enabled
	}
}

// WithDebugInfo emits debug names into generated SPIR-V.
func WithDebugInfo(enabled bool) Option {
	return func(o *options) {
		o.debug = enabled
	}
}

// WithoutCache compiles from scratch instead of reusing artifacts from an
// earlier Compile of the same source.
func WithoutCache() Option {
	return func(o *options) {
		o.cache = nil
	}
}
