// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package view

import (
	"hash/fnv"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// checkerCell is the fallback pattern cell size in pixels.
const checkerCell = 8

// Fallback pattern colors.
var (
	fallbackDark  = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
	fallbackLight = color.RGBA{R: 0xff, G: 0x00, B: 0xff, A: 0xff}
)

// ImageBackend presents frames into a CPU *image.RGBA.
//
// A complete frame is drawn as a vertical gradient between two colors
// derived from the vertex and fragment entry point names, so distinct
// bindings produce distinct pictures. A frame with a failed or missing
// entry point is drawn as a magenta checkerboard. On Resize the last
// picture is resampled to the new size until the next Present.
type ImageBackend struct {
	img    *image.RGBA
	closed bool
}

// NewImageBackend creates an image backend with a 1x1 canvas.
func NewImageBackend() *ImageBackend {
	return &ImageBackend{img: image.NewRGBA(image.Rect(0, 0, 1, 1))}
}

// Resize implements Backend.
func (b *ImageBackend) Resize(size Size) error {
	if b.closed {
		return ErrClosed
	}
	if err := size.validate(); err != nil {
		return err
	}
	bounds := image.Rect(0, 0, size.Width, size.Height)
	if b.img.Bounds() == bounds {
		return nil
	}
	dst := image.NewRGBA(bounds)
	xdraw.ApproxBiLinear.Scale(dst, bounds, b.img, b.img.Bounds(), xdraw.Src, nil)
	b.img = dst
	return nil
}

// Present implements Backend.
func (b *ImageBackend) Present(f Frame) error {
	if b.closed {
		return ErrClosed
	}
	if err := b.Resize(f.Size); err != nil {
		return err
	}
	if !f.Complete() {
		drawChecker(b.img)
		return nil
	}
	drawGradient(b.img, nameColor(f.Vertex.Name()), nameColor(f.Fragment.Name()))
	return nil
}

// Snapshot implements Backend.
func (b *ImageBackend) Snapshot() *image.RGBA {
	if b.closed {
		return nil
	}
	out := image.NewRGBA(b.img.Bounds())
	copy(out.Pix, b.img.Pix)
	return out
}

// Close implements Backend.
func (b *ImageBackend) Close() error {
	b.closed = true
	return nil
}

func drawChecker(img *image.RGBA) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := fallbackDark
			if (x/checkerCell+y/checkerCell)%2 == 0 {
				c = fallbackLight
			}
			img.SetRGBA(x, y, c)
		}
	}
}

func drawGradient(img *image.RGBA, top, bottom color.RGBA) {
	bounds := img.Bounds()
	h := bounds.Dy()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		t := 0
		if h > 1 {
			t = (y - bounds.Min.Y) * 255 / (h - 1)
		}
		c := color.RGBA{
			R: lerp8(top.R, bottom.R, t),
			G: lerp8(top.G, bottom.G, t),
			B: lerp8(top.B, bottom.B, t),
			A: 0xff,
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// lerp8 interpolates a to b by t/255.
func lerp8(a, b uint8, t int) uint8 {
	return uint8((int(a)*(255-t) + int(b)*t) / 255)
}

// nameColor maps an entry point name to an opaque color.
func nameColor(name string) color.RGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	v := h.Sum32()
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
