// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package device opens GPU devices and loads shader libraries on them.
//
// A Device is created explicitly and handed to whoever needs it; there is no
// process-wide default. Every constructor returns an error instead of
// panicking when no GPU is available.
//
//	import _ "github.com/gogpu/wgpu/hal/allbackends"
//
//	dev, err := device.OpenAuto()
//	if err != nil {
//	    return err
//	}
//	defer dev.Close()
//
//	lib, err := dev.LoadLibrary("effects", src)
//
// OpenHeadless needs no GPU at all. FromProvider adopts the device of a
// host application that implements gpucontext.DeviceProvider.
package device
