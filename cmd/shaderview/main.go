// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command shaderview compiles a WGSL shader library, resolves its entry
// points and optionally renders a preview of a vertex/fragment pair.
//
// Usage:
//
//	shaderview -manifest shaders.yaml [entry ...]
//	shaderview -source effects.wgsl -backend headless -snapshot out.png vertex_main fragment_main
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	// Register every hal backend available on this platform.
	_ "github.com/gogpu/wgpu/hal/allbackends"

	"github.com/gogpu/shaderview"
	"github.com/gogpu/shaderview/device"
	"github.com/gogpu/shaderview/diag"
	"github.com/gogpu/shaderview/manifest"
	"github.com/gogpu/shaderview/view"
)

func main() {
	os.Exit(realMain())
}

// realMain returns the process exit code so deferred cleanup runs before
// main exits.
func realMain() int {
	var (
		manifestPath = flag.String("manifest", "", "manifest file (.yaml, .yml or .hcl)")
		sourcePath   = flag.String("source", "", "WGSL file, used when no manifest is given")
		backend      = flag.String("backend", "", "GPU backend override: auto, headless, vulkan, metal, dx12, gl")
		snapshot     = flag.String("snapshot", "", "write the preview view to this PNG file")
		vertex       = flag.String("vertex", "", "vertex entry point for the preview")
		fragment     = flag.String("fragment", "", "fragment entry point for the preview")
		sink         = flag.String("sink", "", "diagnostic sink override: slog or zap")
		verbose      = flag.Bool("v", false, "log at debug level")
		timeout      = flag.Duration("timeout", 10*time.Second, "give up waiting for resolutions after this long")
	)
	flag.Parse()

	m, err := loadManifest(*manifestPath, *sourcePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 2
	}
	if *backend != "" {
		m.Device.Backend = *backend
	}
	if *sink != "" {
		m.Log.Sink = *sink
	}
	if *verbose {
		m.Log.Level = "debug"
	}
	if *vertex != "" || *fragment != "" {
		m.View.Vertex, m.View.Fragment = *vertex, *fragment
	}
	if m, err = m.Normalized(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	failed, err := run(ctx, m, flag.Args(), *snapshot)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		return 1
	}
	if failed > 0 {
		return 1
	}
	return 0
}

func loadManifest(manifestPath, sourcePath string) (manifest.Manifest, error) {
	switch {
	case manifestPath != "":
		return manifest.Load(manifestPath)
	case sourcePath != "":
		return manifest.Manifest{
			Library: manifest.LibraryConfig{Sources: []string{sourcePath}},
		}, nil
	default:
		return manifest.Manifest{}, errors.New("shaderview: -manifest or -source is required")
	}
}

// run loads the library, resolves the requested entry points and renders
// the preview. It returns the number of entry points that failed.
func run(ctx context.Context, m manifest.Manifest, names []string, snapshotPath string) (int, error) {
	sink, closeSink, err := setupLogging(m)
	if err != nil {
		return 0, err
	}
	defer closeSink()

	dev, err := device.OpenNamed(m.Device.Backend)
	if err != nil {
		return 0, err
	}
	defer dev.Close()

	src, err := m.ReadSource()
	if err != nil {
		return 0, err
	}
	lib, err := dev.LoadLibrary(m.Library.Label, src, m.LibraryOptions()...)
	if err != nil {
		return 0, err
	}

	r, err := shaderview.NewResolver(lib,
		shaderview.WithWorkers(m.Resolver.Workers),
		shaderview.WithQueueSize(m.Resolver.QueueSize),
		shaderview.WithSink(sink),
	)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	if len(names) == 0 {
		names = m.Prefetch
	}
	if len(names) == 0 {
		names = lib.Names()
	}
	hint := sourceHint(m)

	outs, err := r.ResolveAll(ctx, hint, names...)
	if err != nil {
		return 0, fmt.Errorf("shaderview: resolve: %w", err)
	}
	fmt.Println(renderHeader(lib.Label(), dev))
	fmt.Println(renderOutcomes(outs))

	failed := 0
	for _, o := range outs {
		if !o.OK() {
			failed++
		}
	}

	if m.View.Enabled() {
		if err := preview(ctx, r, m, hint, snapshotPath); err != nil {
			return failed, err
		}
	}
	return failed, nil
}

func preview(ctx context.Context, r *shaderview.Resolver, m manifest.Manifest, hint, snapshotPath string) error {
	v, err := view.New(r, view.WithBackendName(m.View.Backend))
	if err != nil {
		return err
	}
	defer v.Close()

	err = v.Create(view.Config{
		VertexEntry:   m.View.Vertex,
		FragmentEntry: m.View.Fragment,
		SourceHint:    hint,
		Size:          view.Size{Width: m.View.Width, Height: m.View.Height},
	})
	if err != nil {
		return err
	}
	if err := v.Wait(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fmt.Errorf("shaderview: preview: %w", err)
		}
		fmt.Println(errorStyle.Render("preview: " + err.Error()))
	}
	if err := v.Draw(); err != nil {
		return err
	}
	fmt.Println(renderView(v))

	if snapshotPath == "" {
		return nil
	}
	img := v.Snapshot()
	if img == nil {
		return fmt.Errorf("shaderview: backend %q cannot take snapshots", m.View.Backend)
	}
	f, err := os.Create(filepath.Clean(snapshotPath))
	if err != nil {
		return fmt.Errorf("shaderview: snapshot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("shaderview: snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("shaderview: snapshot: %w", err)
	}
	fmt.Println(dimStyle.Render("snapshot written to " + snapshotPath))
	return nil
}

func sourceHint(m manifest.Manifest) string {
	if len(m.Library.Sources) > 0 {
		return m.Library.Sources[0]
	}
	return m.Library.Label
}

// setupLogging installs the package logger and returns the diagnostic sink
// the manifest asks for.
func setupLogging(m manifest.Manifest) (diag.Sink, func(), error) {
	opts := &slog.HandlerOptions{Level: m.SlogLevel()}
	var handler slog.Handler
	if m.Log.Format == manifest.FormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	shaderview.SetLogger(slog.New(handler))

	if m.Log.Sink != manifest.SinkZap {
		return diag.NewSlogSink(shaderview.Logger()), func() {}, nil
	}

	cfg := zap.NewProductionConfig()
	if m.Log.Format == manifest.FormatText {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel(m.SlogLevel()))
	zl, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("shaderview: zap: %w", err)
	}
	return diag.NewZapSink(zl), func() { _ = zl.Sync() }, nil
}

func zapLevel(l slog.Level) zapcore.Level {
	switch {
	case l < slog.LevelInfo:
		return zapcore.DebugLevel
	case l < slog.LevelWarn:
		return zapcore.InfoLevel
	case l < slog.LevelError:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}
