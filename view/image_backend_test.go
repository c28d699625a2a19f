// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package view

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestImageBackendResizeResamples(t *testing.T) {
	b := NewImageBackend()
	if err := b.Resize(Size{Width: 4, Height: 4}); err != nil {
		t.Fatal(err)
	}
	red := color.RGBA{R: 0xff, A: 0xff}
	for y := range 4 {
		for x := range 4 {
			b.img.SetRGBA(x, y, red)
		}
	}

	if err := b.Resize(Size{Width: 8, Height: 2}); err != nil {
		t.Fatal(err)
	}
	snap := b.Snapshot()
	if snap.Bounds() != image.Rect(0, 0, 8, 2) {
		t.Fatalf("bounds = %v", snap.Bounds())
	}
	if got := snap.RGBAAt(3, 1); got != red {
		t.Errorf("resampled pixel = %v, want %v", got, red)
	}
}

func TestImageBackendResizeInvalid(t *testing.T) {
	b := NewImageBackend()
	if err := b.Resize(Size{}); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Resize(0x0) error = %v, want ErrInvalidSize", err)
	}
}

func TestImageBackendSnapshotIsCopy(t *testing.T) {
	b := NewImageBackend()
	if err := b.Present(Frame{Size: Size{Width: 2, Height: 2}}); err != nil {
		t.Fatal(err)
	}
	snap := b.Snapshot()
	snap.SetRGBA(0, 0, color.RGBA{})
	if b.Snapshot().RGBAAt(0, 0) == (color.RGBA{}) {
		t.Error("modifying a snapshot changed the backend")
	}
}

func TestImageBackendIncompleteFrameIsChecker(t *testing.T) {
	b := NewImageBackend()
	if err := b.Present(Frame{Size: Size{Width: 2 * checkerCell, Height: 2 * checkerCell}}); err != nil {
		t.Fatal(err)
	}
	snap := b.Snapshot()
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, fallbackLight},
		{checkerCell, 0, fallbackDark},
		{0, checkerCell, fallbackDark},
		{checkerCell, checkerCell, fallbackLight},
	}
	for _, tt := range tests {
		if got := snap.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestImageBackendClosed(t *testing.T) {
	b := NewImageBackend()
	_ = b.Close()
	if err := b.Present(Frame{Size: Size{Width: 1, Height: 1}}); !errors.Is(err, ErrClosed) {
		t.Errorf("Present after Close error = %v, want ErrClosed", err)
	}
	if b.Snapshot() != nil {
		t.Error("Snapshot after Close should be nil")
	}
}

func TestNameColorDeterministic(t *testing.T) {
	if nameColor("a") != nameColor("a") {
		t.Error("nameColor not deterministic")
	}
	if nameColor("vertex_main") == nameColor("fragment_main") {
		t.Error("distinct names share a color")
	}
	if nameColor("x").A != 0xff {
		t.Error("nameColor not opaque")
	}
}

func TestLerp8(t *testing.T) {
	if lerp8(10, 200, 0) != 10 || lerp8(10, 200, 255) != 200 {
		t.Error("lerp8 endpoints wrong")
	}
}
