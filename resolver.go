// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shaderview

import (
	"context"
	"fmt"

	"github.com/gogpu/shaderview/diag"
	"github.com/gogpu/shaderview/internal/parallel"
	"github.com/gogpu/shaderview/library"
)

// Library is the lookup capability the resolver needs. *library.Library
// implements it. Lookup must be safe for concurrent use.
type Library interface {
	Lookup(name string) (*library.Function, bool)
}

// Resolver turns entry point names into GPU functions off the caller's
// goroutine.
//
// Every request produces exactly one Outcome. Requests are independent:
// outcomes of different requests arrive in no particular order and on
// goroutines other than the caller's. A Resolver is safe for concurrent
// use.
type Resolver struct {
	lib  Library
	pool *parallel.WorkerPool
	sink diag.Sink
}

// NewResolver creates a Resolver bound to lib. The bound library is used
// by requests that do not name one.
func NewResolver(lib Library, opts ...ResolverOption) (*Resolver, error) {
	if isNilLibrary(lib) {
		return nil, ErrNilLibrary
	}
	o := defaultResolverOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Resolver{
		lib:  lib,
		pool: parallel.NewWorkerPool(o.workers, o.queueSize),
		sink: o.sink,
	}, nil
}

func isNilLibrary(lib Library) bool {
	if lib == nil {
		return true
	}
	l, ok := lib.(*library.Library)
	return ok && l == nil
}

// ResolveAsync looks up symbolName in lib in the background and calls
// onComplete exactly once with the outcome. A nil lib means the library
// the Resolver was created with.
//
// ResolveAsync never blocks and never returns an error: failures arrive in
// the Outcome. onComplete runs after ResolveAsync has returned, on a
// goroutine owned by the resolver; it must synchronize any state it shares
// with the caller. A nil onComplete still runs the lookup and its
// diagnostics.
//
// sourceNameHint only labels diagnostics and the Outcome.
func (r *Resolver) ResolveAsync(sourceNameHint, symbolName string, lib Library, onComplete func(Outcome)) {
	if isNilLibrary(lib) {
		lib = r.lib
	}
	returned := make(chan struct{})
	defer close(returned)

	task := func() {
		out := r.resolve(sourceNameHint, symbolName, lib)
		<-returned
		if onComplete != nil {
			onComplete(out)
		}
	}
	if !r.pool.TrySubmit(task) {
		go task()
	}
}

// Resolve is ResolveAsync with the bound library, delivering the outcome on
// a channel. The channel receives exactly one value and is then closed.
func (r *Resolver) Resolve(sourceNameHint, symbolName string) <-chan Outcome {
	ch := make(chan Outcome, 1)
	r.ResolveAsync(sourceNameHint, symbolName, nil, func(o Outcome) {
		ch <- o
		close(ch)
	})
	return ch
}

// ResolveAll resolves every name concurrently against the bound library and
// returns the outcomes in the order of names. If ctx ends first it returns
// ctx.Err(); resolutions already started still run to completion.
func (r *Resolver) ResolveAll(ctx context.Context, sourceNameHint string, names ...string) ([]Outcome, error) {
	futures := make([]<-chan Outcome, len(names))
	for i, name := range names {
		futures[i] = r.Resolve(sourceNameHint, name)
	}
	outs := make([]Outcome, len(names))
	for i, f := range futures {
		select {
		case outs[i] = <-f:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return outs, nil
}

// Close stops the worker pool after queued resolutions finish. Requests made
// after Close still complete, each on its own goroutine. Close is
// idempotent. It must not be called from an onComplete callback, which runs
// on a pool worker.
func (r *Resolver) Close() {
	r.pool.Close()
}

func (r *Resolver) resolve(hint, symbol string, lib Library) Outcome {
	r.emit(diag.Record{Symbol: symbol, SourceHint: hint, Phase: diag.PhaseAttempt, Severity: diag.SeverityDebug})

	fn, ok := lib.Lookup(symbol)
	if !ok || fn == nil {
		err := FunctionCreationFailed(symbol)
		r.emit(diag.Record{Symbol: symbol, SourceHint: hint, Phase: diag.PhaseFailure, Severity: diag.SeverityError, Err: err})
		return failed(err, hint)
	}

	r.emit(diag.Record{Symbol: symbol, SourceHint: hint, Phase: diag.PhaseSuccess, Severity: diag.SeverityDebug})
	return succeeded(fn, symbol, hint)
}

// emit isolates the resolution from a misbehaving sink.
func (r *Resolver) emit(rec diag.Record) {
	defer func() {
		if p := recover(); p != nil {
			Logger().Warn("shaderview: diagnostic sink panicked",
				"symbol", rec.Symbol,
				"phase", rec.Phase.String(),
				"panic", fmt.Sprint(p))
		}
	}()
	r.sink.Emit(rec)
}
