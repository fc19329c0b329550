package raster

import "github.com/rasterforge/pipeline/pkg/vecmath"

// Vertex is a model-space input vertex: position plus an object-space
// normal and a flat per-triangle color, the wire shape triangle setup
// consumes.
type Vertex struct {
	Position vecmath.Vec3
	Normal   vecmath.Vec3
	Color    vecmath.ColorRGBA
}

// screenVertex is a vertex after the full model/view/projection transform
// and viewport mapping: X/Y in pixels, Z in [0,1], W the clip-space w used
// for perspective-correct interpolation.
type screenVertex struct {
	X, Y, Z, W float64
	Normal     vecmath.Vec3
	Color      vecmath.ColorRGBA
}

// Triangle is a triangle after setup: three screen-space vertices, their
// screen AABB, and the signed edge-function area that encodes winding.
type Triangle struct {
	V                      [3]screenVertex
	MinX, MinY, MaxX, MaxY int
	Area                   float64
}

const degenerateAreaEpsilon = 1e-4

// edge evaluates the signed edge function for edge a->b at point p.
func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// transformToScreen runs a model-space vertex through model, view, and
// projection, performs the perspective divide, and maps the result into
// pixel coordinates.
func transformToScreen(v Vertex, model, view, proj vecmath.Mat4, width, height int) screenVertex {
	mvp := proj.Mul(view).Mul(model)
	clip := mvp.MulVec4(vecmath.V4FromV3(v.Position, 1))

	w := clip.W
	if w == 0 {
		w = 1e-9
	}
	ndc := vecmath.V3(clip.X/w, clip.Y/w, clip.Z/w)

	sx := float64(width) / 2 * (ndc.X + 1)
	sy := float64(height) / 2 * (1 - ndc.Y)
	sz := (ndc.Z + 1) / 2

	return screenVertex{
		X: sx, Y: sy, Z: sz, W: w,
		Normal: v.Normal,
		Color:  v.Color,
	}
}

// setupTriangle transforms three model-space vertices into a screen-space
// Triangle ready for rasterization. ok is false for degenerate triangles
// (near-zero signed area), which callers must skip.
func setupTriangle(v0, v1, v2 Vertex, model, view, proj vecmath.Mat4, width, height int) (tri Triangle, ok bool) {
	a := transformToScreen(v0, model, view, proj, width, height)
	b := transformToScreen(v1, model, view, proj, width, height)
	c := transformToScreen(v2, model, view, proj, width, height)

	area := edge(a.X, a.Y, b.X, b.Y, c.X, c.Y)
	if area > -degenerateAreaEpsilon && area < degenerateAreaEpsilon {
		return Triangle{}, false
	}

	minX := min3(a.X, b.X, c.X)
	maxX := max3(a.X, b.X, c.X)
	minY := min3(a.Y, b.Y, c.Y)
	maxY := max3(a.Y, b.Y, c.Y)

	tri = Triangle{
		V:    [3]screenVertex{a, b, c},
		Area: area,
	}
	tri.MinX = clampInt(int(minX), 0, width-1)
	tri.MaxX = clampInt(int(maxX)+1, 0, width-1)
	tri.MinY = clampInt(int(minY), 0, height-1)
	tri.MaxY = clampInt(int(maxY)+1, 0, height-1)
	return tri, true
}

func min3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
