// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package manifest loads shaderview configuration from YAML or HCL.
//
// A manifest names the WGSL sources of one library, the compilation
// targets, the GPU backend, the resolver pool size, logging, the entry
// points to prefetch and an optional preview view:
//
//	library:
//	  label: effects
//	  sources: [effects.wgsl]
//	  targets: [spirv, msl]
//	device:
//	  backend: auto
//	resolver:
//	  workers: 4
//	log:
//	  level: debug
//	  sink: zap
//	prefetch: [vertex_main, fragment_main]
//	view:
//	  vertex: vertex_main
//	  fragment: fragment_main
//	  width: 320
//	  height: 240
//
// The same manifest in HCL uses one block per section and
// prefetch = [...] at the top level.
package manifest
