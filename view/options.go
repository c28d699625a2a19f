// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package view

import "github.com/gogpu/shaderview"

// Option configures a View.
type Option func(*options)

type options struct {
	lib         shaderview.Library
	backend     Backend
	backendName string
}

// WithLibrary resolves entry points in lib instead of the resolver's bound
// library.
func WithLibrary(lib shaderview.Library) Option {
	return func(o *options) {
		o.lib = lib
	}
}

// WithBackend presents through backend. It takes precedence over
// WithBackendName.
func WithBackend(backend Backend) Option {
	return func(o *options) {
		o.backend = backend
	}
}

// WithBackendName presents through the registered backend called name.
func WithBackendName(name string) Option {
	return func(o *options) {
		o.backendName = name
	}
}
