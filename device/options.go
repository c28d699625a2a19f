// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import "github.com/gogpu/gputypes"

// Option configures Open, OpenAuto, OpenHeadless and OpenNamed.
type Option func(*options)

type options struct {
	format   gputypes.TextureFormat
	features gputypes.Features
	limits   gputypes.Limits
	prefer   []gputypes.DeviceType
}

func defaultOptions() options {
	return options{
		format: gputypes.TextureFormatBGRA8Unorm,
		limits: gputypes.DefaultLimits(),
		prefer: []gputypes.DeviceType{
			gputypes.DeviceTypeDiscreteGPU,
			gputypes.DeviceTypeIntegratedGPU,
		},
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithSurfaceFormat sets the format reported by SurfaceFormat.
// The default is gputypes.TextureFormatBGRA8Unorm.
func WithSurfaceFormat(format gputypes.TextureFormat) Option {
	return func(o *options) {
		o.format = format
	}
}

// WithLimits sets the limits requested when opening the device.
func WithLimits(limits gputypes.Limits) Option {
	return func(o *options) {
		o.limits = limits
	}
}

// WithFeatures sets the optional features requested when opening the device.
func WithFeatures(features gputypes.Features) Option {
	return func(o *options) {
		o.features = features
	}
}

// WithPreferredTypes sets the adapter types tried first, in order. The
// first adapter is used when none matches.
func WithPreferredTypes(types ...gputypes.DeviceType) Option {
	return func(o *options) {
		o.prefer = types
	}
}
