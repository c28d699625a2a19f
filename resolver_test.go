// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shaderview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderview/diag"
	"github.com/gogpu/shaderview/library"
)

const testShader = `
@vertex
fn vertex_main(@builtin(vertex_index) i: u32) -> @builtin(position) vec4<f32> {
    let x = f32(i) - 1.0;
    return vec4<f32>(x, 0.0, 0.0, 1.0);
}

@fragment
fn fragment_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`

const waitTimeout = 5 * time.Second

func compileTestLibrary(t *testing.T) *library.Library {
	t.Helper()
	lib, err := library.Compile(testShader, library.WithLabel("test"))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return lib
}

func newTestResolver(t *testing.T, lib Library, opts ...ResolverOption) *Resolver {
	t.Helper()
	r, err := NewResolver(lib, opts...)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	t.Cleanup(r.Close)
	return r
}

func await(t *testing.T, ch <-chan Outcome) Outcome {
	t.Helper()
	select {
	case o := <-ch:
		return o
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for outcome")
		return Outcome{}
	}
}

// recordingSink collects every record it receives.
type recordingSink struct {
	mu      sync.Mutex
	records []diag.Record
}

func (s *recordingSink) Emit(r diag.Record) {
	s.mu.Lock()
	s.records = append(s.records, r)
	s.mu.Unlock()
}

func (s *recordingSink) forSymbol(symbol string) []diag.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []diag.Record
	for _, r := range s.records {
		if r.Symbol == symbol {
			out = append(out, r)
		}
	}
	return out
}

// countingLibrary wraps a Library and counts lookups.
type countingLibrary struct {
	Library
	lookups atomic.Int32
}

func (c *countingLibrary) Lookup(name string) (*library.Function, bool) {
	c.lookups.Add(1)
	return c.Library.Lookup(name)
}

func TestNewResolverNilLibrary(t *testing.T) {
	if _, err := NewResolver(nil); !errors.Is(err, ErrNilLibrary) {
		t.Errorf("NewResolver(nil) error = %v, want ErrNilLibrary", err)
	}
	var typed *library.Library
	if _, err := NewResolver(typed); !errors.Is(err, ErrNilLibrary) {
		t.Errorf("NewResolver(typed nil) error = %v, want ErrNilLibrary", err)
	}
}

func TestResolveScenarios(t *testing.T) {
	lib := compileTestLibrary(t)
	r := newTestResolver(t, lib, WithSink(diag.Discard))

	tests := []struct {
		symbol string
		ok     bool
		stage  gputypes.ShaderStage
	}{
		{"vertex_main", true, gputypes.ShaderStageVertex},
		{"fragment_main", true, gputypes.ShaderStageFragment},
		{"fragment_missing", false, gputypes.ShaderStageNone},
		{"", false, gputypes.ShaderStageNone},
		{"Vertex_Main", false, gputypes.ShaderStageNone},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.symbol), func(t *testing.T) {
			o := await(t, r.Resolve("test.wgsl", tt.symbol))

			if o.OK() != tt.ok {
				t.Fatalf("OK() = %v, want %v (err %v)", o.OK(), tt.ok, o.Err())
			}
			if o.Symbol() != tt.symbol {
				t.Errorf("Symbol() = %q, want %q", o.Symbol(), tt.symbol)
			}
			if o.SourceHint() != "test.wgsl" {
				t.Errorf("SourceHint() = %q, want test.wgsl", o.SourceHint())
			}

			if tt.ok {
				if o.Err() != nil {
					t.Errorf("Err() = %v on success", o.Err())
				}
				fn := o.Function()
				if fn.Name() != tt.symbol {
					t.Errorf("Name() = %q, want %q", fn.Name(), tt.symbol)
				}
				if fn.Stage() != tt.stage {
					t.Errorf("Stage() = %v, want %v", fn.Stage(), tt.stage)
				}
				return
			}

			if o.Function() != nil {
				t.Error("Function() non-nil on failure")
			}
			err := o.Err()
			if !errors.Is(err, ErrFunctionCreationFailed) {
				t.Errorf("Err() = %v, want ErrFunctionCreationFailed", err)
			}
			var ce *CompilationError
			if !errors.As(err, &ce) {
				t.Fatalf("Err() is %T, want *CompilationError", err)
			}
			if ce.Kind != KindFunctionCreationFailed {
				t.Errorf("Kind = %v", ce.Kind)
			}
			if ce.Symbol != tt.symbol {
				t.Errorf("error symbol = %q, want %q", ce.Symbol, tt.symbol)
			}
		})
	}
}

func TestResolveEmptyLibrary(t *testing.T) {
	r := newTestResolver(t, library.Empty("empty"), WithSink(diag.Discard))

	for _, name := range []string{"vertex_main", "fragment_main", "anything"} {
		o := await(t, r.Resolve("", name))
		if o.OK() {
			t.Errorf("%s resolved in empty library", name)
		}
		if !errors.Is(o.Err(), FunctionCreationFailed(name)) {
			t.Errorf("Err() = %v, want FunctionCreationFailed(%q)", o.Err(), name)
		}
	}
}

func TestResolveAsyncExactlyOnce(t *testing.T) {
	lib := compileTestLibrary(t)
	r := newTestResolver(t, lib, WithSink(diag.Discard))

	const n = 200
	var calls [n]atomic.Int32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		name := "vertex_main"
		if i%2 == 1 {
			name = "fragment_missing"
		}
		r.ResolveAsync("", name, nil, func(Outcome) {
			calls[i].Add(1)
			wg.Done()
		})
	}
	wg.Wait()

	// Give a duplicate delivery a chance to show up.
	time.Sleep(20 * time.Millisecond)
	for i := range n {
		if got := calls[i].Load(); got != 1 {
			t.Errorf("request %d completed %d times, want 1", i, got)
		}
	}
}

func TestResolveAsyncCallbackAfterReturn(t *testing.T) {
	lib := compileTestLibrary(t)
	r := newTestResolver(t, lib, WithSink(diag.Discard))

	for range 100 {
		var returned atomic.Bool
		done := make(chan bool, 1)
		r.ResolveAsync("", "vertex_main", nil, func(Outcome) {
			done <- returned.Load()
		})
		returned.Store(true)

		select {
		case after := <-done:
			if !after {
				t.Fatal("onComplete ran before ResolveAsync returned")
			}
		case <-time.After(waitTimeout):
			t.Fatal("timed out")
		}
	}
}

// blockingLibrary blocks every lookup until release is closed.
type blockingLibrary struct {
	release chan struct{}
}

func (b *blockingLibrary) Lookup(string) (*library.Function, bool) {
	<-b.release
	return nil, false
}

func TestResolveAsyncDoesNotBlock(t *testing.T) {
	lib := &blockingLibrary{release: make(chan struct{})}
	r := newTestResolver(t, lib, WithWorkers(1), WithQueueSize(1), WithSink(diag.Discard))

	var wg sync.WaitGroup
	const n = 16
	wg.Add(n)

	start := time.Now()
	for range n {
		r.ResolveAsync("", "x", nil, func(Outcome) { wg.Done() })
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("ResolveAsync blocked for %v with a saturated pool", elapsed)
	}

	close(lib.release)
	wg.Wait()
}

func TestResolveAsyncConcurrentNoCrossDelivery(t *testing.T) {
	src := ""
	const n = 32
	for i := range n {
		src += fmt.Sprintf("@compute @workgroup_size(1)\nfn entry_%d() {}\n", i)
	}
	lib, err := library.Compile(src, library.WithLabel("many"))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	r := newTestResolver(t, lib, WithSink(diag.Discard))

	var wg sync.WaitGroup
	errs := make(chan error, 2*n)
	for i := range 2 * n {
		name := fmt.Sprintf("entry_%d", i)
		wg.Add(1)
		go func() {
			r.ResolveAsync("many.wgsl", name, nil, func(o Outcome) {
				defer wg.Done()
				if o.Symbol() != name {
					errs <- fmt.Errorf("request %s got outcome for %s", name, o.Symbol())
					return
				}
				if i < n && (!o.OK() || o.Function().Name() != name) {
					errs <- fmt.Errorf("%s: want success, got %v", name, o.Err())
				}
				if i >= n && o.OK() {
					errs <- fmt.Errorf("%s: want failure", name)
				}
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestResolveIdempotentEquivalentHandles(t *testing.T) {
	lib := compileTestLibrary(t)
	counting := &countingLibrary{Library: lib}
	r := newTestResolver(t, counting, WithSink(diag.Discard))

	a := await(t, r.Resolve("", "fragment_main"))
	b := await(t, r.Resolve("", "fragment_main"))

	if !a.OK() || !b.OK() {
		t.Fatalf("resolutions failed: %v, %v", a.Err(), b.Err())
	}
	if a.Function() == b.Function() {
		t.Error("two resolutions returned the same handle, want fresh handles")
	}
	if !a.Function().Equivalent(b.Function()) {
		t.Error("handles for the same name are not equivalent")
	}
	if got := counting.lookups.Load(); got != 2 {
		t.Errorf("lookups = %d, want one per request", got)
	}
}

func TestResolveAsyncPerCallLibrary(t *testing.T) {
	bound := library.Empty("bound")
	r := newTestResolver(t, bound, WithSink(diag.Discard))
	other := compileTestLibrary(t)

	ch := make(chan Outcome, 1)
	r.ResolveAsync("", "vertex_main", other, func(o Outcome) { ch <- o })
	if o := await(t, ch); !o.OK() {
		t.Errorf("per-call library ignored: %v", o.Err())
	}

	var typed *library.Library
	r.ResolveAsync("", "vertex_main", typed, func(o Outcome) { ch <- o })
	if o := await(t, ch); o.OK() {
		t.Error("typed nil library did not fall back to the bound library")
	}
}

func TestResolveDiagnostics(t *testing.T) {
	lib := compileTestLibrary(t)
	sink := &recordingSink{}
	r := newTestResolver(t, lib, WithSink(sink))

	await(t, r.Resolve("hint.wgsl", "vertex_main"))
	await(t, r.Resolve("hint.wgsl", "fragment_missing"))

	tests := []struct {
		symbol string
		want   []diag.Phase
		sev    diag.Severity
	}{
		{"vertex_main", []diag.Phase{diag.PhaseAttempt, diag.PhaseSuccess}, diag.SeverityDebug},
		{"fragment_missing", []diag.Phase{diag.PhaseAttempt, diag.PhaseFailure}, diag.SeverityError},
	}
	for _, tt := range tests {
		recs := sink.forSymbol(tt.symbol)
		if len(recs) != len(tt.want) {
			t.Fatalf("%s: %d records, want %d", tt.symbol, len(recs), len(tt.want))
		}
		for i, rec := range recs {
			if rec.Phase != tt.want[i] {
				t.Errorf("%s record %d phase = %v, want %v", tt.symbol, i, rec.Phase, tt.want[i])
			}
			if rec.SourceHint != "hint.wgsl" {
				t.Errorf("%s record %d hint = %q", tt.symbol, i, rec.SourceHint)
			}
		}
		if recs[0].Severity != diag.SeverityDebug {
			t.Errorf("%s attempt severity = %v, want debug", tt.symbol, recs[0].Severity)
		}
		last := recs[len(recs)-1]
		if last.Severity != tt.sev {
			t.Errorf("%s final severity = %v, want %v", tt.symbol, last.Severity, tt.sev)
		}
		if tt.sev == diag.SeverityError && !errors.Is(last.Err, ErrFunctionCreationFailed) {
			t.Errorf("%s failure record err = %v", tt.symbol, last.Err)
		}
	}
}

func TestResolveSinkPanicDoesNotAffectOutcome(t *testing.T) {
	lib := compileTestLibrary(t)
	panicky := diag.Func(func(diag.Record) { panic("sink exploded") })
	r := newTestResolver(t, lib, WithSink(panicky))

	if o := await(t, r.Resolve("", "vertex_main")); !o.OK() {
		t.Errorf("success lost to sink panic: %v", o.Err())
	}
	if o := await(t, r.Resolve("", "fragment_missing")); !errors.Is(o.Err(), ErrFunctionCreationFailed) {
		t.Errorf("failure lost to sink panic: %v", o.Err())
	}
}

func TestResolveAsyncNilCallback(t *testing.T) {
	lib := compileTestLibrary(t)
	sink := &recordingSink{}
	r := newTestResolver(t, lib, WithSink(sink))

	r.ResolveAsync("", "vertex_main", nil, nil)

	deadline := time.Now().Add(waitTimeout)
	for len(sink.forSymbol("vertex_main")) < 2 {
		if time.Now().After(deadline) {
			t.Fatal("resolution with nil callback never ran")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestResolveAfterClose(t *testing.T) {
	lib := compileTestLibrary(t)
	r, err := NewResolver(lib, WithSink(diag.Discard))
	if err != nil {
		t.Fatal(err)
	}
	r.Close()
	r.Close()

	if o := await(t, r.Resolve("", "fragment_main")); !o.OK() {
		t.Errorf("resolution after Close failed: %v", o.Err())
	}
}

func TestResolveChannelClosedAfterValue(t *testing.T) {
	lib := compileTestLibrary(t)
	r := newTestResolver(t, lib, WithSink(diag.Discard))

	ch := r.Resolve("", "vertex_main")
	await(t, ch)
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("future delivered a second value")
		}
	case <-time.After(waitTimeout):
		t.Error("future not closed after its value")
	}
}

func TestResolveAll(t *testing.T) {
	lib := compileTestLibrary(t)
	r := newTestResolver(t, lib, WithSink(diag.Discard))

	names := []string{"fragment_main", "fragment_missing", "vertex_main"}
	outs, err := r.ResolveAll(context.Background(), "test.wgsl", names...)
	if err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}
	if len(outs) != len(names) {
		t.Fatalf("len = %d, want %d", len(outs), len(names))
	}
	for i, o := range outs {
		if o.Symbol() != names[i] {
			t.Errorf("outs[%d].Symbol() = %q, want %q", i, o.Symbol(), names[i])
		}
	}
	if !outs[0].OK() || outs[1].OK() || !outs[2].OK() {
		t.Errorf("unexpected results: %v %v %v", outs[0].Err(), outs[1].Err(), outs[2].Err())
	}
}

func TestResolveAllContextCanceled(t *testing.T) {
	lib := &blockingLibrary{release: make(chan struct{})}
	r := newTestResolver(t, lib, WithSink(diag.Discard))
	t.Cleanup(func() { close(lib.release) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.ResolveAll(ctx, "", "a", "b"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestCompilationErrorIs(t *testing.T) {
	err := FunctionCreationFailed("fragment_missing")

	if !errors.Is(err, ErrFunctionCreationFailed) {
		t.Error("not ErrFunctionCreationFailed")
	}
	if !errors.Is(err, FunctionCreationFailed("fragment_missing")) {
		t.Error("not equal to an error with the same symbol")
	}
	if errors.Is(err, FunctionCreationFailed("vertex_main")) {
		t.Error("matched an error with a different symbol")
	}
	if errors.Is(err, ErrNilLibrary) {
		t.Error("matched ErrNilLibrary")
	}
	if got := err.Error(); got != `shaderview: function creation failed: "fragment_missing"` {
		t.Errorf("Error() = %q", got)
	}
}
