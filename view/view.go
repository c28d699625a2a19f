// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package view

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/library"
)

// Common errors returned by View operations.
var (
	// ErrClosed is returned when operations are attempted on a closed view.
	ErrClosed = errors.New("view: view is closed")

	// ErrInvalidSize is returned when width or height is not positive.
	ErrInvalidSize = errors.New("view: invalid size")

	// ErrNilResolver is returned by New without a resolver.
	ErrNilResolver = errors.New("view: nil resolver")

	// ErrNotCreated is returned by Update, Resize and Draw before Create.
	ErrNotCreated = errors.New("view: not created")
)

// Size is a drawable size in pixels.
type Size struct {
	Width  int
	Height int
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

func (s Size) validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidSize, s.Width, s.Height)
	}
	return nil
}

// Config describes what a view draws.
type Config struct {
	// VertexEntry and FragmentEntry name the entry points to resolve.
	VertexEntry   string
	FragmentEntry string
	// SourceHint labels diagnostics; typically the shader file name.
	SourceHint string
	Size       Size
}

// Adapter is the contract between a host UI toolkit and an embedded render
// surface. The host calls Create once when the surface appears, Update when
// it wants the surface redrawn at a given size, and Resize when only the
// drawable size changed.
type Adapter interface {
	Create(Config) error
	Update(Size) error
	Resize(Size) error
}

// View is an Adapter that resolves its entry points through a shaderview
// Resolver and presents them through a Backend.
//
// Resolution outcomes arrive on resolver goroutines; View guards its state
// with a mutex so every method is safe for concurrent use. Each bound
// function or failure is announced on Redraws, and the host responds by
// calling Draw.
type View struct {
	resolver *shaderview.Resolver
	lib      shaderview.Library
	backend  Backend
	redraws  chan struct{}

	mu           sync.Mutex
	cfg          Config
	size         Size
	created      bool
	closed       bool
	generation   uint64
	vertex       *library.Function
	fragment     *library.Function
	errs         [2]error
	pending      int
	settled      chan struct{}
	needsDisplay bool
}

var _ Adapter = (*View)(nil)

// New creates a View. Entry points are looked up in the resolver's bound
// library unless WithLibrary is given. The default backend is the best one
// registered, normally "image".
func New(resolver *shaderview.Resolver, opts ...Option) (*View, error) {
	if resolver == nil {
		return nil, ErrNilResolver
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	backend := o.backend
	if backend == nil {
		name := o.backendName
		var err error
		if name == "" {
			backend, err = NewBestBackend()
		} else {
			backend, err = NewBackend(name)
		}
		if err != nil {
			return nil, err
		}
	}

	return &View{
		resolver: resolver,
		lib:      o.lib,
		backend:  backend,
		redraws:  make(chan struct{}, 1),
	}, nil
}

// Create sizes the backend and starts resolving the configured entry
// points. It returns as soon as both resolutions are queued. Calling Create
// again replaces the configuration; outcomes of the previous one are
// dropped.
func (v *View) Create(cfg Config) error {
	if err := cfg.Size.validate(); err != nil {
		return err
	}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	if err := v.backend.Resize(cfg.Size); err != nil {
		v.mu.Unlock()
		return fmt.Errorf("view: backend resize: %w", err)
	}
	v.releaseWaiters()
	v.generation++
	gen := v.generation
	v.cfg = cfg
	v.size = cfg.Size
	v.created = true
	v.vertex, v.fragment = nil, nil
	v.errs = [2]error{}
	v.pending = 2
	v.settled = make(chan struct{})
	v.needsDisplay = true
	v.mu.Unlock()

	shaderview.Logger().Debug("view: create",
		"vertex", cfg.VertexEntry,
		"fragment", cfg.FragmentEntry,
		"size", cfg.Size.String())

	v.resolver.ResolveAsync(cfg.SourceHint, cfg.VertexEntry, v.lib, v.bind(gen, stageVertex))
	v.resolver.ResolveAsync(cfg.SourceHint, cfg.FragmentEntry, v.lib, v.bind(gen, stageFragment))
	return nil
}

type stageSlot int

const (
	stageVertex stageSlot = iota
	stageFragment
)

// bind returns the completion callback for one entry point of generation gen.
func (v *View) bind(gen uint64, slot stageSlot) func(shaderview.Outcome) {
	return func(o shaderview.Outcome) {
		v.mu.Lock()
		if v.closed || gen != v.generation {
			v.mu.Unlock()
			return
		}
		if o.OK() {
			if slot == stageVertex {
				v.vertex = o.Function()
			} else {
				v.fragment = o.Function()
			}
		} else {
			v.errs[slot] = o.Err()
		}
		v.needsDisplay = true
		v.pending--
		if v.pending == 0 {
			close(v.settled)
		}
		v.mu.Unlock()

		if err := o.Err(); err != nil {
			shaderview.Logger().Warn("view: entry point unavailable, drawing fallback", "symbol", o.Symbol(), "err", err)
		} else {
			shaderview.Logger().Debug("view: bound", "symbol", o.Symbol())
		}
		v.requestRedraw()
	}
}

// releaseWaiters closes the settled channel of the current generation if
// its resolutions are still outstanding. Caller must hold v.mu.
func (v *View) releaseWaiters() {
	if v.pending > 0 {
		v.pending = 0
		close(v.settled)
	}
}

func (v *View) requestRedraw() {
	select {
	case v.redraws <- struct{}{}:
	default:
	}
}

// Update sets the drawable size and marks the view as needing display.
func (v *View) Update(size Size) error {
	if err := size.validate(); err != nil {
		return err
	}
	v.mu.Lock()
	if err := v.usable(); err != nil {
		v.mu.Unlock()
		return err
	}
	if size != v.size {
		if err := v.backend.Resize(size); err != nil {
			v.mu.Unlock()
			return fmt.Errorf("view: backend resize: %w", err)
		}
		v.size = size
	}
	v.needsDisplay = true
	v.mu.Unlock()

	v.requestRedraw()
	return nil
}

// Resize changes the drawable size without requesting a redraw. Resizing
// to the current size is a no-op.
func (v *View) Resize(size Size) error {
	if err := size.validate(); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.usable(); err != nil {
		return err
	}
	if size == v.size {
		return nil
	}
	if err := v.backend.Resize(size); err != nil {
		return fmt.Errorf("view: backend resize: %w", err)
	}
	v.size = size
	return nil
}

func (v *View) usable() error {
	if v.closed {
		return ErrClosed
	}
	if !v.created {
		return ErrNotCreated
	}
	return nil
}

// Redraws delivers a value whenever the view needs display. Signals
// coalesce: one pending value stands for any number of requests.
func (v *View) Redraws() <-chan struct{} {
	return v.redraws
}

// Draw presents the current state through the backend and clears the
// needs-display flag. A view with a missing entry point draws the
// backend's fallback.
func (v *View) Draw() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.usable(); err != nil {
		return err
	}
	frame := Frame{
		Size:     v.size,
		Vertex:   v.vertex,
		Fragment: v.fragment,
		Err:      errors.Join(v.errs[stageVertex], v.errs[stageFragment]),
	}
	if err := v.backend.Present(frame); err != nil {
		return fmt.Errorf("view: present: %w", err)
	}
	v.needsDisplay = false
	return nil
}

// Wait blocks until both entry points of the current configuration have
// resolved, or ctx ends. It returns the resolution failures, if any. A
// Create during the wait moves it to the new configuration; a Close ends it
// with ErrClosed.
func (v *View) Wait(ctx context.Context) error {
	for {
		v.mu.Lock()
		if err := v.usable(); err != nil {
			v.mu.Unlock()
			return err
		}
		settled, gen := v.settled, v.generation
		v.mu.Unlock()

		select {
		case <-settled:
		case <-ctx.Done():
			return ctx.Err()
		}

		v.mu.Lock()
		closed, current := v.closed, gen == v.generation
		err := errors.Join(v.errs[stageVertex], v.errs[stageFragment])
		v.mu.Unlock()
		if closed {
			return ErrClosed
		}
		if current {
			return err
		}
	}
}

// NeedsDisplay reports whether the view changed since the last Draw.
func (v *View) NeedsDisplay() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.needsDisplay
}

// Ready reports whether both entry points are bound.
func (v *View) Ready() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.vertex != nil && v.fragment != nil
}

// Functions returns the bound vertex and fragment functions. Either may be
// nil while pending or after a failure.
func (v *View) Functions() (vertex, fragment *library.Function) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.vertex, v.fragment
}

// Err returns the resolution failures of the current configuration.
func (v *View) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return errors.Join(v.errs[stageVertex], v.errs[stageFragment])
}

// Size returns the current drawable size.
func (v *View) Size() Size {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.size
}

// Config returns the configuration given to Create.
func (v *View) Config() Config {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cfg
}

// Snapshot returns a copy of the last presented frame, or nil if the
// backend cannot read back.
func (v *View) Snapshot() *image.RGBA {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.backend.Snapshot()
}

// Close releases the backend. Outcomes still in flight are dropped.
// Close is idempotent.
func (v *View) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil
	}
	v.closed = true
	v.releaseWaiters()
	return v.backend.Close()
}
