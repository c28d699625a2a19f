// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import "errors"

var (
	// ErrBackendUnavailable is returned when the requested hal backend is
	// not compiled in or not registered.
	ErrBackendUnavailable = errors.New("device: backend unavailable")

	// ErrUnknownBackend is returned by ParseBackend for unrecognized names.
	ErrUnknownBackend = errors.New("device: unknown backend")

	// ErrNoAdapter is returned when a backend reports no adapters.
	ErrNoAdapter = errors.New("device: no adapter")

	// ErrNilProvider is returned by FromProvider for a nil provider.
	ErrNilProvider = errors.New("device: nil provider")

	// ErrNoHAL is returned by FromProvider when the provider does not
	// expose hal.Device and hal.Queue.
	ErrNoHAL = errors.New("device: provider does not expose HAL types")

	// ErrClosed is returned when loading a library on a closed Device.
	ErrClosed = errors.New("device: closed")
)
