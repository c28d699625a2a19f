// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// Backend names accepted by ParseBackend and OpenNamed besides the
// gputypes.Backend names themselves.
const (
	// NameAuto picks the best registered backend.
	NameAuto = "auto"
	// NameHeadless opens the no-op device that never touches a GPU.
	NameHeadless = "headless"
)

// autoOrder is the preference used by OpenAuto.
var autoOrder = []gputypes.Backend{
	gputypes.BackendVulkan,
	gputypes.BackendMetal,
	gputypes.BackendDX12,
	gputypes.BackendGL,
	gputypes.BackendEmpty,
}

// ParseBackend maps a configuration name to a gputypes.Backend.
// Matching is case-insensitive. "software" and "empty" both mean
// gputypes.BackendEmpty, which the software and no-op hal backends
// register under.
func ParseBackend(name string) (gputypes.Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "vulkan", "vk":
		return gputypes.BackendVulkan, nil
	case "metal", "mtl":
		return gputypes.BackendMetal, nil
	case "dx12", "d3d12":
		return gputypes.BackendDX12, nil
	case "gl", "gles", "opengl":
		return gputypes.BackendGL, nil
	case "webgpu", "browser":
		return gputypes.BackendBrowserWebGPU, nil
	case "empty", "software":
		return gputypes.BackendEmpty, nil
	default:
		return gputypes.BackendEmpty, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}
