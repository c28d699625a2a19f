// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package cache memoizes shader compilation results.
//
// Compiling WGSL through naga (parse, lower, validate, SPIR-V and MSL
// generation) is the expensive part of loading a shader library. Libraries
// built from the same source with the same options share one immutable
// artifact set through this cache.
//
//	c := cache.New[*artifacts](64)
//	key := cache.KeyOf(source, "msl")
//	a, err := c.GetOrCompile(key, func() (*artifacts, error) { return build(source) })
//
// # Thread Safety
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
