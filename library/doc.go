// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package library compiles WGSL into shader libraries: immutable, named
// collections of entry points that shader resolution looks up by name.
//
// Compilation runs through naga (parse, lower, validate) and can emit SPIR-V
// words, Metal Shading Language, and one GPU shader module per library on a
// wgpu/hal device:
//
//	lib, err := library.Compile(source,
//	    library.WithLabel("effects"),
//	    library.WithDevice(dev),
//	)
//	if err != nil {
//	    return err // *library.CompileError
//	}
//	defer lib.Close()
//
//	fn, ok := lib.Lookup("fragment_main")
//
// Device-independent artifacts are cached by source and options, so loading
// the same library twice compiles it once.
//
// # Thread Safety
//
// Library and Function are safe for concurrent use. Close must not race
// with binding functions into new pipelines.
package library
