// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned by Load for unsupported file extensions.
var ErrUnknownFormat = errors.New("manifest: unknown format")

// Load reads a manifest file. The format follows the extension: .yaml and
// .yml are YAML, .hcl is HCL. The result is normalized and BaseDir is set
// to the file's directory.
func Load(path string) (Manifest, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Manifest{}, fmt.Errorf("manifest: read %s: %w", path, err)
	}

	var m Manifest
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		m, err = decodeYAML(content)
	case ".hcl":
		m, err = decodeHCL(content, path)
	default:
		return Manifest{}, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	if err != nil {
		return Manifest{}, fmt.Errorf("manifest: %s: %w", path, err)
	}

	m.BaseDir = filepath.Dir(path)
	m, err = m.Normalized()
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseYAML decodes and normalizes a YAML manifest. Unknown keys are
// rejected.
func ParseYAML(data []byte) (Manifest, error) {
	m, err := decodeYAML(data)
	if err != nil {
		return Manifest{}, fmt.Errorf("manifest: %w", err)
	}
	return m.Normalized()
}

// ParseHCL decodes and normalizes an HCL manifest. filename is used in
// diagnostics only.
func ParseHCL(data []byte, filename string) (Manifest, error) {
	m, err := decodeHCL(data, filename)
	if err != nil {
		return Manifest{}, fmt.Errorf("manifest: %w", err)
	}
	return m.Normalized()
}

func decodeYAML(data []byte) (Manifest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Manifest{}, errors.New("payload is empty")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return Manifest{}, fmt.Errorf("decode yaml: %w", err)
	}
	return m, nil
}

// hclManifest mirrors Manifest for gohcl, which needs pointer fields for
// optional blocks.
type hclManifest struct {
	Library  *hclLibrary  `hcl:"library,block"`
	Device   *hclDevice   `hcl:"device,block"`
	Resolver *hclResolver `hcl:"resolver,block"`
	Log      *hclLog      `hcl:"log,block"`
	View     *hclView     `hcl:"view,block"`
	Prefetch []string     `hcl:"prefetch,optional"`
}

type hclLibrary struct {
	Label          string   `hcl:"label,optional"`
	Sources        []string `hcl:"sources,optional"`
	Inline         string   `hcl:"inline,optional"`
	Targets        []string `hcl:"targets,optional"`
	SkipValidation bool     `hcl:"skip_validation,optional"`
}

type hclDevice struct {
	Backend string `hcl:"backend,optional"`
}

type hclResolver struct {
	Workers   int `hcl:"workers,optional"`
	QueueSize int `hcl:"queue_size,optional"`
}

type hclLog struct {
	Level  string `hcl:"level,optional"`
	Format string `hcl:"format,optional"`
	Sink   string `hcl:"sink,optional"`
}

type hclView struct {
	Vertex   string `hcl:"vertex,optional"`
	Fragment string `hcl:"fragment,optional"`
	Width    int    `hcl:"width,optional"`
	Height   int    `hcl:"height,optional"`
	Backend  string `hcl:"backend,optional"`
}

func decodeHCL(data []byte, filename string) (Manifest, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return Manifest{}, fmt.Errorf("parse hcl: %w", diags)
	}

	var hm hclManifest
	if diags := gohcl.DecodeBody(file.Body, nil, &hm); diags.HasErrors() {
		return Manifest{}, fmt.Errorf("decode hcl: %w", diags)
	}

	m := Manifest{Prefetch: hm.Prefetch}
	if l := hm.Library; l != nil {
		m.Library = LibraryConfig{
			Label:          l.Label,
			Sources:        l.Sources,
			Inline:         l.Inline,
			Targets:        l.Targets,
			SkipValidation: l.SkipValidation,
		}
	}
	if d := hm.Device; d != nil {
		m.Device = DeviceConfig{Backend: d.Backend}
	}
	if r := hm.Resolver; r != nil {
		m.Resolver = ResolverConfig{Workers: r.Workers, QueueSize: r.QueueSize}
	}
	if l := hm.Log; l != nil {
		m.Log = LogConfig{Level: l.Level, Format: l.Format, Sink: l.Sink}
	}
	if v := hm.View; v != nil {
		m.View = ViewConfig{
			Vertex:   v.Vertex,
			Fragment: v.Fragment,
			Width:    v.Width,
			Height:   v.Height,
			Backend:  v.Backend,
		}
	}
	return m, nil
}
