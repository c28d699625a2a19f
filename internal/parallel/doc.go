// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package parallel provides the work-stealing pool that runs shader
// resolutions off the caller's goroutine.
package parallel
