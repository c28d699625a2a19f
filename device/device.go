// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package device

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/library"
)

// Device is an open GPU device that shader libraries are compiled for.
//
// A Device either owns its hal instance and device (Open, OpenAuto,
// OpenHeadless) or borrows them from a host (FromProvider). Close destroys
// only what the Device owns.
//
// Device implements gpucontext.DeviceProvider and exposes HalDevice and
// HalQueue, so it can be handed to anything that accepts a gogpu provider.
type Device struct {
	info     gputypes.AdapterInfo
	format   gputypes.TextureFormat
	instance hal.Instance
	adapter  any
	device   hal.Device
	queue    hal.Queue
	owned    bool

	mu     sync.Mutex
	closed bool
	libs   []*library.Library
}

var _ gpucontext.DeviceProvider = (*Device)(nil)

// Open opens the preferred adapter of a registered hal backend. Backends
// register themselves on import, e.g. through
// github.com/gogpu/wgpu/hal/allbackends.
func Open(backend gputypes.Backend, opts ...Option) (*Device, error) {
	b, ok := hal.GetBackend(backend)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, backend)
	}
	return openBackend(b, applyOptions(opts))
}

// OpenAuto tries the registered backends in order Vulkan, Metal, DX12, GL,
// then the software or no-op backend, and returns the first device that
// opens. The error of the last attempt is returned if none does.
func OpenAuto(opts ...Option) (*Device, error) {
	o := applyOptions(opts)
	var lastErr error = ErrBackendUnavailable
	for _, backend := range autoOrder {
		b, ok := hal.GetBackend(backend)
		if !ok {
			continue
		}
		d, err := openBackend(b, o)
		if err == nil {
			return d, nil
		}
		shaderview.Logger().Debug("device: backend failed", "backend", backend.String(), "err", err)
		lastErr = err
	}
	return nil, lastErr
}

// OpenHeadless opens a device on the no-op hal backend. Shader modules are
// accepted and tracked but nothing reaches a GPU, which makes it suitable
// for tests and for validating libraries on machines without one.
func OpenHeadless(opts ...Option) (*Device, error) {
	return openBackend(noop.API{}, applyOptions(opts))
}

// OpenNamed opens a device from a configuration name: "auto" (or empty),
// "headless", or any name accepted by ParseBackend.
func OpenNamed(name string, opts ...Option) (*Device, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameAuto:
		return OpenAuto(opts...)
	case NameHeadless, "noop":
		return OpenHeadless(opts...)
	}
	backend, err := ParseBackend(name)
	if err != nil {
		return nil, err
	}
	return Open(backend, opts...)
}

func openBackend(b hal.Backend, o options) (*Device, error) {
	instance, err := b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("device: create %s instance: %w", b.Variant(), err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: %s", ErrNoAdapter, b.Variant())
	}
	selected := selectAdapter(adapters, o.prefer)

	openDev, err := selected.Adapter.Open(o.features, o.limits)
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("device: open %q: %w", selected.Info.Name, err)
	}

	info := selected.Info
	if info.Backend == gputypes.BackendEmpty {
		info.Backend = b.Variant()
	}
	d := &Device{
		info:     info,
		format:   o.format,
		instance: instance,
		adapter:  selected.Adapter,
		device:   openDev.Device,
		queue:    openDev.Queue,
		owned:    true,
	}
	shaderview.Logger().Info("device: opened",
		"adapter", info.Name,
		"backend", b.Variant().String(),
		"type", adapterType(info.DeviceType).String())
	return d, nil
}

// selectAdapter returns the first adapter whose type appears earliest in
// prefer, or the first adapter.
func selectAdapter(adapters []hal.ExposedAdapter, prefer []gputypes.DeviceType) *hal.ExposedAdapter {
	for _, want := range prefer {
		for i := range adapters {
			if adapters[i].Info.DeviceType == want {
				return &adapters[i]
			}
		}
	}
	return &adapters[0]
}

// FromProvider adopts the device of a host application. The provider must
// implement HalDevice() any and HalQueue() any returning hal.Device and
// hal.Queue. The returned Device never destroys the borrowed objects.
func FromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	dev, ok := hp.HalDevice().(hal.Device)
	if !ok || dev == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}

	pi := provider.AdapterInfo()
	d := &Device{
		info: gputypes.AdapterInfo{
			Name:       pi.Name,
			DeviceType: deviceType(pi.Type),
		},
		format:  provider.SurfaceFormat(),
		adapter: provider.Adapter(),
		device:  dev,
		queue:   queue,
	}
	shaderview.Logger().Info("device: adopted host device", "adapter", pi.Name, "type", pi.Type.String())
	return d, nil
}

// LoadLibrary compiles WGSL source into a library whose shader module lives
// on this device. The library is closed with the Device.
func (d *Device) LoadLibrary(label, source string, opts ...library.Option) (*library.Library, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrClosed
	}

	all := append([]library.Option{library.WithLabel(label)}, opts...)
	all = append(all, library.WithDevice(d.device))
	lib, err := library.Compile(source, all...)
	if err != nil {
		shaderview.Logger().Error("device: library failed", "label", label, "err", err)
		return nil, err
	}
	d.libs = append(d.libs, lib)
	shaderview.Logger().Info("device: library compiled", "label", label, "entries", lib.Len())
	return lib, nil
}

// Device returns the hal.Device as a gpucontext.Device.
func (d *Device) Device() gpucontext.Device { return d.device }

// Queue returns the hal.Queue as a gpucontext.Queue.
func (d *Device) Queue() gpucontext.Queue { return d.queue }

// Adapter returns the hal.Adapter, or the host's adapter for adopted devices.
func (d *Device) Adapter() gpucontext.Adapter { return d.adapter }

// SurfaceFormat returns the preferred texture format for presentation.
func (d *Device) SurfaceFormat() gputypes.TextureFormat { return d.format }

// AdapterInfo returns the adapter name and type.
func (d *Device) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{
		Name: d.info.Name,
		Type: adapterType(d.info.DeviceType),
	}
}

// Info returns the full hal adapter description.
func (d *Device) Info() gputypes.AdapterInfo { return d.info }

// HalDevice returns the underlying hal.Device.
func (d *Device) HalDevice() any { return d.device }

// HalQueue returns the underlying hal.Queue.
func (d *Device) HalQueue() any { return d.queue }

// Owned reports whether Close destroys the hal device.
func (d *Device) Owned() bool { return d.owned }

// Libraries returns the libraries loaded through LoadLibrary.
func (d *Device) Libraries() []*library.Library {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.libs)
}

// Close closes every library loaded on the device, then destroys the hal
// device and instance if the Device owns them. Close is idempotent.
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true

	for _, lib := range d.libs {
		lib.Close()
	}
	d.libs = nil

	if d.owned {
		d.device.Destroy()
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	shaderview.Logger().Info("device: closed", "adapter", d.info.Name)
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}

func deviceType(t gpucontext.AdapterType) gputypes.DeviceType {
	switch t {
	case gpucontext.AdapterTypeDiscrete:
		return gputypes.DeviceTypeDiscreteGPU
	case gpucontext.AdapterTypeIntegrated:
		return gputypes.DeviceTypeIntegratedGPU
	case gpucontext.AdapterTypeSoftware:
		return gputypes.DeviceTypeCPU
	default:
		return gputypes.DeviceTypeOther
	}
}
