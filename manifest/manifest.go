// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package manifest

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gogpu/shaderview/device"
	"github.com/gogpu/shaderview/library"
)

// Compilation targets accepted in LibraryConfig.Targets.
const (
	TargetSPIRV = "spirv"
	TargetMSL   = "msl"
)

// Log formats and sinks accepted in LogConfig.
const (
	FormatText = "text"
	FormatJSON = "json"

	SinkSlog = "slog"
	SinkZap  = "zap"
)

// Defaults applied by Normalized.
const (
	DefaultBackend     = device.NameAuto
	DefaultLogLevel    = "info"
	DefaultViewBackend = "image"
	DefaultViewSize    = 256
)

// Manifest describes a shader library and how to load, resolve and show it.
type Manifest struct {
	Library  LibraryConfig  `yaml:"library"`
	Device   DeviceConfig   `yaml:"device"`
	Resolver ResolverConfig `yaml:"resolver"`
	Log      LogConfig      `yaml:"log"`
	View     ViewConfig     `yaml:"view"`
	// Prefetch lists entry points to resolve right after loading.
	Prefetch []string `yaml:"prefetch,omitempty"`

	// BaseDir is the directory relative source paths are resolved against.
	// Load sets it to the manifest's directory.
	BaseDir string `yaml:"-"`
}

// LibraryConfig selects the WGSL sources of the library.
type LibraryConfig struct {
	Label string `yaml:"label,omitempty"`
	// Sources are WGSL files concatenated in order.
	Sources []string `yaml:"sources,omitempty"`
	// Inline is WGSL appended after Sources.
	Inline  string   `yaml:"inline,omitempty"`
	Targets []string `yaml:"targets,omitempty"`
	// SkipValidation disables IR validation.
	SkipValidation bool `yaml:"skip_validation,omitempty"`
}

// DeviceConfig selects the GPU backend: "auto", "headless" or a backend
// name such as "vulkan".
type DeviceConfig struct {
	Backend string `yaml:"backend,omitempty"`
}

// ResolverConfig sizes the resolver's worker pool. Zero means default.
type ResolverConfig struct {
	Workers   int `yaml:"workers,omitempty"`
	QueueSize int `yaml:"queue_size,omitempty"`
}

// LogConfig configures logging and diagnostics.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
	Sink   string `yaml:"sink,omitempty"`
}

// ViewConfig configures the preview view.
type ViewConfig struct {
	Vertex   string `yaml:"vertex,omitempty"`
	Fragment string `yaml:"fragment,omitempty"`
	Width    int    `yaml:"width,omitempty"`
	Height   int    `yaml:"height,omitempty"`
	Backend  string `yaml:"backend,omitempty"`
}

// Enabled reports whether a view is configured.
func (v ViewConfig) Enabled() bool {
	return v.Vertex != "" || v.Fragment != ""
}

// Clone returns a deep copy of m.
func (m Manifest) Clone() Manifest {
	clone := m
	clone.Library.Sources = slices.Clone(m.Library.Sources)
	clone.Library.Targets = slices.Clone(m.Library.Targets)
	clone.Prefetch = slices.Clone(m.Prefetch)
	return clone
}

// Normalized returns a copy of m with defaults filled in and names
// lower-cased, after validating it.
func (m Manifest) Normalized() (Manifest, error) {
	clone := m.Clone()

	if clone.Library.Label == "" && len(clone.Library.Sources) > 0 {
		base := filepath.Base(clone.Library.Sources[0])
		clone.Library.Label = strings.TrimSuffix(base, filepath.Ext(base))
	}
	for i, t := range clone.Library.Targets {
		clone.Library.Targets[i] = strings.ToLower(strings.TrimSpace(t))
	}
	clone.Library.Targets = compactSorted(clone.Library.Targets)

	clone.Device.Backend = lowerOr(clone.Device.Backend, DefaultBackend)
	clone.Log.Level = lowerOr(clone.Log.Level, DefaultLogLevel)
	clone.Log.Format = lowerOr(clone.Log.Format, FormatText)
	clone.Log.Sink = lowerOr(clone.Log.Sink, SinkSlog)
	clone.View.Backend = lowerOr(clone.View.Backend, DefaultViewBackend)
	if clone.View.Width == 0 {
		clone.View.Width = DefaultViewSize
	}
	if clone.View.Height == 0 {
		clone.View.Height = DefaultViewSize
	}

	if err := clone.Validate(); err != nil {
		return Manifest{}, err
	}
	return clone, nil
}

// Validate reports every problem in m. Empty optional fields are accepted;
// Normalized fills them in.
func (m Manifest) Validate() error {
	var errs []error
	if len(m.Library.Sources) == 0 && strings.TrimSpace(m.Library.Inline) == "" {
		errs = append(errs, errors.New("library: sources or inline WGSL required"))
	}
	for i, src := range m.Library.Sources {
		if strings.TrimSpace(src) == "" {
			errs = append(errs, fmt.Errorf("library: sources[%d] is empty", i))
		}
	}
	for _, t := range m.Library.Targets {
		switch strings.ToLower(t) {
		case TargetSPIRV, TargetMSL:
		default:
			errs = append(errs, fmt.Errorf("library: unknown target %q", t))
		}
	}

	switch b := strings.ToLower(m.Device.Backend); b {
	case "", device.NameAuto, device.NameHeadless, "noop":
	default:
		if _, err := device.ParseBackend(b); err != nil {
			errs = append(errs, err)
		}
	}

	if m.Resolver.Workers < 0 {
		errs = append(errs, fmt.Errorf("resolver: workers must be >= 0, got %d", m.Resolver.Workers))
	}
	if m.Resolver.QueueSize < 0 {
		errs = append(errs, fmt.Errorf("resolver: queue_size must be >= 0, got %d", m.Resolver.QueueSize))
	}

	if m.Log.Level != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(m.Log.Level)); err != nil {
			errs = append(errs, fmt.Errorf("log: level: %w", err))
		}
	}
	switch strings.ToLower(m.Log.Format) {
	case "", FormatText, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log: unknown format %q", m.Log.Format))
	}
	switch strings.ToLower(m.Log.Sink) {
	case "", SinkSlog, SinkZap:
	default:
		errs = append(errs, fmt.Errorf("log: unknown sink %q", m.Log.Sink))
	}

	if m.View.Width < 0 || m.View.Height < 0 {
		errs = append(errs, fmt.Errorf("view: size must be >= 0, got %dx%d", m.View.Width, m.View.Height))
	}
	if m.View.Enabled() && (m.View.Vertex == "" || m.View.Fragment == "") {
		errs = append(errs, errors.New("view: vertex and fragment are both required"))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("manifest: %w", errors.Join(errs...))
}

// SlogLevel returns the configured log level. Invalid or empty levels
// yield slog.LevelInfo.
func (m Manifest) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(m.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// LibraryOptions translates the library section into compile options.
func (m Manifest) LibraryOptions() []library.Option {
	opts := []library.Option{library.WithLabel(m.Library.Label)}
	if slices.Contains(m.Library.Targets, TargetSPIRV) {
		opts = append(opts, library.WithSPIRV(true))
	}
	if slices.Contains(m.Library.Targets, TargetMSL) {
		opts = append(opts, library.WithMSL(true))
	}
	if m.Library.SkipValidation {
		opts = append(opts, library.WithValidation(false))
	}
	return opts
}

// ReadSource reads and concatenates the library sources, then appends the
// inline WGSL. Relative paths are resolved against BaseDir.
func (m Manifest) ReadSource() (string, error) {
	var b strings.Builder
	for _, src := range m.Library.Sources {
		path := src
		if !filepath.IsAbs(path) && m.BaseDir != "" {
			path = filepath.Join(m.BaseDir, path)
		}
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return "", fmt.Errorf("manifest: read source %s: %w", src, err)
		}
		b.Write(data)
		b.WriteByte('\n')
	}
	if m.Library.Inline != "" {
		b.WriteString(m.Library.Inline)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func lowerOr(s, def string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return def
	}
	return s
}

func compactSorted(s []string) []string {
	if len(s) == 0 {
		return s
	}
	slices.Sort(s)
	return slices.Compact(s)
}
