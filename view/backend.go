// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package view

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/shaderview/library"
)

// ErrUnknownBackend is returned by NewBackend for an unregistered name.
var ErrUnknownBackend = errors.New("view: unknown backend")

// ErrNoBackend is returned by NewBestBackend when nothing is registered.
var ErrNoBackend = errors.New("view: no backend registered")

// Frame is the state a View presents.
type Frame struct {
	Size     Size
	Vertex   *library.Function
	Fragment *library.Function
	// Err is set when an entry point failed to resolve. The backend then
	// draws its fallback.
	Err error
}

// Complete reports whether both entry points are bound and nothing failed.
func (f Frame) Complete() bool {
	return f.Err == nil && f.Vertex != nil && f.Fragment != nil
}

// Backend presents frames for a View. Backends are used under the View's
// lock and need no synchronization of their own.
type Backend interface {
	// Resize sets the drawable size. Existing content may be kept and
	// rescaled until the next Present.
	Resize(Size) error

	// Present draws frame.
	Present(Frame) error

	// Snapshot returns a copy of the last presented content, or nil if the
	// backend cannot read back.
	Snapshot() *image.RGBA

	// Close releases backend resources. Close is idempotent.
	Close() error
}

// Backend names registered by this package.
const (
	BackendImage = "image"
)

// backends holds the factories of every registered Backend.
var backends = gpucontext.NewRegistry[Backend](
	gpucontext.WithPriority(BackendImage),
)

func init() {
	Register(BackendImage, func() Backend { return NewImageBackend() })
}

// Register adds a backend factory. Registering an existing name replaces
// the previous factory.
//
//	func init() {
//	    view.Register("vulkan", newVulkanBackend)
//	}
func Register(name string, factory func() Backend) {
	backends.Register(name, factory)
}

// Unregister removes a backend factory.
func Unregister(name string) {
	backends.Unregister(name)
}

// Backends returns the registered backend names in sorted order.
func Backends() []string {
	names := backends.Available()
	sort.Strings(names)
	return names
}

// NewBackend creates the backend registered as name.
func NewBackend(name string) (Backend, error) {
	if !backends.Has(name) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	b := backends.Get(name)
	if b == nil {
		return nil, fmt.Errorf("%w: %q returned nil", ErrUnknownBackend, name)
	}
	return b, nil
}

// NewBestBackend creates the highest-priority registered backend.
func NewBestBackend() (Backend, error) {
	b := backends.Best()
	if b == nil {
		return nil, ErrNoBackend
	}
	return b, nil
}
