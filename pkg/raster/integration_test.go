package raster_test

import (
	"testing"

	"github.com/rasterforge/pipeline/pkg/mesh"
	"github.com/rasterforge/pipeline/pkg/raster"
	"github.com/rasterforge/pipeline/pkg/vecmath"
)

// TestCubeRoundTrip exercises every one of the cube's 12 triangles
// (including the reversed-winding back faces) through a full draw call and
// checks it completes without panicking and paints at least one pixel.
func TestCubeRoundTrip(t *testing.T) {
	buf := mesh.Cube(2)
	color := vecmath.RGB(1, 0.5, 0.2)

	verts := make([]raster.Vertex, 0, len(buf)/6)
	for i := 0; i+5 < len(buf); i += 6 {
		verts = append(verts, raster.Vertex{
			Position: vecmath.V3(float64(buf[i]), float64(buf[i+1]), float64(buf[i+2])),
			Normal:   vecmath.V3(float64(buf[i+3]), float64(buf[i+4]), float64(buf[i+5])),
			Color:    color,
		})
	}
	if len(verts)%3 != 0 || len(verts) != 36 {
		t.Fatalf("cube produced %d vertices, want 36", len(verts))
	}

	fb := raster.Create(80, 80, 1)
	r := raster.New(fb)

	camPos := vecmath.V3(3, 2, 5)
	view := vecmath.LookAt(camPos, vecmath.Zero3(), vecmath.Up())
	proj := vecmath.Perspective(vecmath.DegToRadians(60), 1, 0.1, 100)

	r.DrawTriangles(verts, vecmath.Identity(), view, proj, camPos)

	clear := fb.GetPixel(0, 0)
	painted := 0
	for _, p := range fb.Pixels {
		if p != clear {
			painted++
		}
	}
	if painted == 0 {
		t.Fatal("drawing a cube painted no pixels")
	}
}
