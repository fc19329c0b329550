package raster

import (
	"math"
	"runtime"
	"testing"

	"github.com/rasterforge/pipeline/pkg/vecmath"
)

func TestFramebufferClear(t *testing.T) {
	fb := Create(8, 6, 1)
	fb.Clear(vecmath.RGB(17.0/255, 34.0/255, 51.0/255))
	want := vecmath.PackARGB(vecmath.RGB(17.0/255, 34.0/255, 51.0/255))
	for i, p := range fb.Pixels {
		if p != want {
			t.Fatalf("pixel %d = %x, want %x", i, p, want)
		}
	}
	for i, z := range fb.ZBuffer {
		if !math.IsInf(z, 1) {
			t.Fatalf("depth %d = %f, want +Inf", i, z)
		}
	}
}

func TestFramebufferWindowScale(t *testing.T) {
	fb := Create(10, 20, 3)
	if fb.WindowWidth != 30 || fb.WindowHeight != 60 {
		t.Errorf("window size = %dx%d, want 30x60", fb.WindowWidth, fb.WindowHeight)
	}
}

func TestSetPixelOutOfBounds(t *testing.T) {
	fb := Create(4, 4, 1)
	cases := [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 4}, {100, 100}}
	for _, c := range cases {
		if fb.SetPixel(c[0], c[1], 0, vecmath.RGB(1, 0, 0)) {
			t.Errorf("SetPixel(%d,%d) reported success, want dropped", c[0], c[1])
		}
	}
}

func TestSetPixelDepthMonotonic(t *testing.T) {
	fb := Create(4, 4, 1)
	fb.SetPixel(1, 1, 0.5, vecmath.RGB(1, 0, 0))
	if fb.Depth(1, 1) != 0.5 {
		t.Fatalf("depth = %f, want 0.5", fb.Depth(1, 1))
	}
	// a farther write must not overwrite a nearer one.
	if fb.SetPixel(1, 1, 0.9, vecmath.RGB(0, 1, 0)) {
		t.Error("farther SetPixel reported success, want rejected")
	}
	if fb.Depth(1, 1) != 0.5 {
		t.Errorf("depth after rejected write = %f, want unchanged 0.5", fb.Depth(1, 1))
	}
	// a nearer write must win.
	if !fb.SetPixel(1, 1, 0.1, vecmath.RGB(0, 0, 1)) {
		t.Error("nearer SetPixel reported failure, want accepted")
	}
	if fb.Depth(1, 1) != 0.1 {
		t.Errorf("depth after accepted write = %f, want 0.1", fb.Depth(1, 1))
	}
}

func quadVerts(z float64, c vecmath.ColorRGBA) []Vertex {
	n := vecmath.V3(0, 0, 1)
	return []Vertex{
		{Position: vecmath.V3(-1, -1, z), Normal: n, Color: c},
		{Position: vecmath.V3(1, -1, z), Normal: n, Color: c},
		{Position: vecmath.V3(1, 1, z), Normal: n, Color: c},

		{Position: vecmath.V3(-1, -1, z), Normal: n, Color: c},
		{Position: vecmath.V3(1, 1, z), Normal: n, Color: c},
		{Position: vecmath.V3(-1, 1, z), Normal: n, Color: c},
	}
}

func identityProj(width, height int) (model, view, proj vecmath.Mat4, camPos vecmath.Vec3) {
	camPos = vecmath.V3(0, 0, 3)
	view = vecmath.LookAt(camPos, vecmath.Zero3(), vecmath.Up())
	proj = vecmath.Perspective(vecmath.DegToRadians(60), float64(width)/float64(height), 0.1, 100)
	model = vecmath.Identity()
	return
}

func TestDrawTrianglesFillsCenter(t *testing.T) {
	fb := Create(100, 100, 1)
	r := New(fb)
	model, view, proj, camPos := identityProj(100, 100)
	r.DrawTriangles(quadVerts(0, vecmath.RGB(1, 1, 1)), model, view, proj, camPos)

	clear := fb.GetPixel(0, 0)
	if fb.GetPixel(50, 50) == clear {
		t.Errorf("center pixel unchanged after drawing a quad that covers it")
	}
	if fb.GetPixel(0, 0) != clear {
		t.Errorf("corner pixel changed, want untouched by a centered quad")
	}
}

func TestDrawTrianglesDepthOcclusion(t *testing.T) {
	fb := Create(100, 100, 1)
	r := New(fb)
	model, view, proj, camPos := identityProj(100, 100)

	red := vecmath.RGB(1, 0, 0)
	blue := vecmath.RGB(0, 0, 1)

	r.DrawTriangles(quadVerts(0, red), model, view, proj, camPos)
	r.DrawTriangles(quadVerts(-1, blue), model, view, proj, camPos) // farther from camera at z=3

	got := fb.GetPixel(50, 50)
	wantNotBlue := vecmath.PackARGB(blue)
	if got == wantNotBlue {
		t.Errorf("nearer red quad was occluded by farther blue quad: %x", got)
	}
}

func TestDrawTrianglesDegenerateIsNoOp(t *testing.T) {
	fb := Create(10, 10, 1)
	r := New(fb)
	model, view, proj, camPos := identityProj(10, 10)

	p := vecmath.V3(0, 0, 0)
	n := vecmath.V3(0, 0, 1)
	c := vecmath.RGB(1, 1, 1)
	verts := []Vertex{{p, n, c}, {p, n, c}, {p, n, c}}

	before := append([]uint32(nil), fb.Pixels...)
	r.DrawTriangles(verts, model, view, proj, camPos)
	for i := range fb.Pixels {
		if fb.Pixels[i] != before[i] {
			t.Fatalf("pixel %d changed after degenerate triangle draw", i)
		}
	}
}

func TestDrawTrianglesWorkerCountIndependence(t *testing.T) {
	model, view, proj, camPos := identityProj(64, 64)
	verts := quadVerts(0, vecmath.RGB(0.8, 0.3, 0.1))

	render := func() []uint32 {
		fb := Create(64, 64, 1)
		r := New(fb)
		r.DrawTriangles(verts, model, view, proj, camPos)
		return fb.Pixels
	}

	// drawTiles sizes its worker pool from GOMAXPROCS, so pinning it to 1
	// gives the single-worker render to compare against the default pool.
	prev := runtime.GOMAXPROCS(1)
	a := render()
	runtime.GOMAXPROCS(prev)
	b := render()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("output differs between 1 and %d workers at pixel %d: %x vs %x", prev, i, a[i], b[i])
		}
	}
}

func TestDrawTrianglesTwoSided(t *testing.T) {
	fb1 := Create(50, 50, 1)
	r1 := New(fb1)
	model, view, proj, camPos := identityProj(50, 50)
	r1.DrawTriangles(quadVerts(0, vecmath.RGB(1, 1, 1)), model, view, proj, camPos)

	// reverse the winding of every triangle.
	fwd := quadVerts(0, vecmath.RGB(1, 1, 1))
	reversed := make([]Vertex, 0, len(fwd))
	for i := 0; i+2 < len(fwd); i += 3 {
		reversed = append(reversed, fwd[i], fwd[i+2], fwd[i+1])
	}
	fb2 := Create(50, 50, 1)
	r2 := New(fb2)
	r2.DrawTriangles(reversed, model, view, proj, camPos)

	clear := vecmath.PackARGB(vecmath.RGB(0, 0, 0))
	covered1, covered2 := 0, 0
	for i := range fb1.Pixels {
		if fb1.Pixels[i] != clear {
			covered1++
		}
		if fb2.Pixels[i] != clear {
			covered2++
		}
	}
	if covered1 == 0 || covered2 == 0 {
		t.Fatalf("expected coverage in both windings, got %d and %d", covered1, covered2)
	}
}
