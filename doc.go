// Package shaderview resolves shader entry points into GPU functions
// asynchronously.
//
// # Overview
//
// A shader library is compiled once (see package library) and then asked,
// many times and from many places, for individual entry points. Resolving an
// entry point must not stall the caller, which is usually a UI or render
// loop, so the Resolver performs each lookup on a shared worker pool and
// reports the result exactly once.
//
// # Quick Start
//
//	lib, err := library.Compile(src, library.WithLabel("effects"))
//	if err != nil {
//	    return err
//	}
//	r, err := shaderview.NewResolver(lib)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	r.ResolveAsync("effects.wgsl", "fragment_main", nil, func(o shaderview.Outcome) {
//	    if err := o.Err(); err != nil {
//	        log.Print(err)
//	        return
//	    }
//	    bind(o.Function())
//	})
//
// Resolve returns the same outcome on a channel, and ResolveAll gathers
// several names at once.
//
// # Outcomes
//
// An Outcome holds either a *library.Function or a *CompilationError. The
// only failure kind is KindFunctionCreationFailed: the library has no entry
// point with the requested name. The error carries the name exactly as
// requested and matches ErrFunctionCreationFailed with errors.Is.
//
// # Ordering
//
// Outcomes of separate requests arrive in no particular order. Within one
// request the attempt diagnostic precedes the lookup, the lookup precedes
// the result diagnostic, and the callback runs last, always after
// ResolveAsync has returned and never on the caller's goroutine.
//
// # Diagnostics
//
// Every request emits an attempt record, then a success or failure record,
// to a diag.Sink. The default sink writes through the logger configured
// with SetLogger, which is silent until set.
//
// # Related Packages
//
//   - library: WGSL compilation into shader libraries
//   - device: GPU device setup and library loading
//   - view: render surface adapter that binds resolved functions
//   - manifest: YAML and HCL configuration
package shaderview
