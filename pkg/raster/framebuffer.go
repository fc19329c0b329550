// Package raster implements triangle setup and the tiled parallel
// rasterizer: the framebuffer, the per-fragment Phong shader, and the
// worker-pool sweep that ties them together.
package raster

import (
	"math"

	"github.com/rasterforge/pipeline/pkg/vecmath"
)

// Framebuffer owns the packed-ARGB color buffer and the float depth buffer
// for a render target. Both buffers are allocated once and share the
// framebuffer's lifetime.
type Framebuffer struct {
	Width, Height             int
	WindowWidth, WindowHeight int

	Pixels  []uint32
	ZBuffer []float64
}

// Create allocates a Framebuffer of width x height logical pixels,
// presented at windowWidth = width*scale, windowHeight = height*scale.
func Create(width, height, scale int) *Framebuffer {
	fb := &Framebuffer{
		Width:        width,
		Height:       height,
		WindowWidth:  width * scale,
		WindowHeight: height * scale,
		Pixels:       make([]uint32, width*height),
		ZBuffer:      make([]float64, width*height),
	}
	fb.Clear(vecmath.RGB(0, 0, 0))
	return fb
}

// Clear fills the color buffer with c and resets every depth cell to +Inf.
func (fb *Framebuffer) Clear(c vecmath.ColorRGBA) {
	packed := vecmath.PackARGB(c)
	for i := range fb.Pixels {
		fb.Pixels[i] = packed
	}
	for i := range fb.ZBuffer {
		fb.ZBuffer[i] = math.Inf(1)
	}
}

// SetPixel writes color at (x, y) if it is in bounds and z is closer than
// the current depth value there. Out-of-range writes are silently dropped.
// Reports whether the write happened.
func (fb *Framebuffer) SetPixel(x, y int, z float64, c vecmath.ColorRGBA) bool {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return false
	}
	i := y*fb.Width + x
	if z >= fb.ZBuffer[i] {
		return false
	}
	fb.ZBuffer[i] = z
	fb.Pixels[i] = vecmath.PackARGB(c)
	return true
}

// GetPixel returns the packed color at (x, y), or 0 if out of range.
func (fb *Framebuffer) GetPixel(x, y int) uint32 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return 0
	}
	return fb.Pixels[y*fb.Width+x]
}

// Depth returns the stored depth at (x, y), or +Inf if out of range.
func (fb *Framebuffer) Depth(x, y int) float64 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return math.Inf(1)
	}
	return fb.ZBuffer[y*fb.Width+x]
}
