package raster

import (
	"runtime"
	"sync"

	"github.com/rasterforge/pipeline/pkg/vecmath"
)

// TileSize is the fixed square tile edge used to partition the framebuffer
// for the parallel sweep.
const TileSize = 32

// Rasterizer ties a Framebuffer to the tiled triangle sweep. It holds no
// per-draw state: every field needed by a draw call is passed in, so a
// single Rasterizer can safely be reused across frames from one goroutine.
type Rasterizer struct {
	FB *Framebuffer
}

// New creates a Rasterizer targeting fb.
func New(fb *Framebuffer) *Rasterizer {
	return &Rasterizer{FB: fb}
}

// tile is one unit of parallel work: a rectangular pixel range.
type tile struct {
	x0, y0, x1, y1 int // x1, y1 exclusive
}

func (r *Rasterizer) tiles() []tile {
	w, h := r.FB.Width, r.FB.Height
	var out []tile
	for y := 0; y < h; y += TileSize {
		for x := 0; x < w; x += TileSize {
			x1 := x + TileSize
			if x1 > w {
				x1 = w
			}
			y1 := y + TileSize
			if y1 > h {
				y1 = h
			}
			out = append(out, tile{x, y, x1, y1})
		}
	}
	return out
}

// DrawTriangles transforms vertices (a flat list of vertices taken three at
// a time; a list whose length is not a multiple of three draws nothing)
// through model/view/proj, discards degenerate triangles, then
// rasterizes the survivors across a pool of worker goroutines, one
// goroutine per disjoint group of tiles. cameraPos is used by the shader
// for the specular view direction.
func (r *Rasterizer) DrawTriangles(vertices []Vertex, model, view, proj vecmath.Mat4, cameraPos vecmath.Vec3) {
	if len(vertices) < 3 || len(vertices)%3 != 0 || r.FB == nil {
		return
	}

	width, height := r.FB.Width, r.FB.Height

	tris := make([]Triangle, 0, len(vertices)/3)
	for i := 0; i+2 < len(vertices); i += 3 {
		tri, ok := setupTriangle(vertices[i], vertices[i+1], vertices[i+2], model, view, proj, width, height)
		if !ok {
			continue
		}
		tris = append(tris, tri)
	}
	if len(tris) == 0 {
		return
	}

	r.drawTiles(tris, cameraPos)
}

// drawTiles fans tile work out across GOMAXPROCS workers in a strided
// round-robin assignment: worker k handles tile indices k, k+N, k+2N, ...
// No two workers ever touch the same tile, so no locking is needed around
// the framebuffer's pixel or depth writes.
func (r *Rasterizer) drawTiles(tris []Triangle, cameraPos vecmath.Vec3) {
	allTiles := r.tiles()
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > len(allTiles) {
		numWorkers = len(allTiles)
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for k := 0; k < numWorkers; k++ {
		go func(start int) {
			defer wg.Done()
			for idx := start; idx < len(allTiles); idx += numWorkers {
				r.rasterizeTile(allTiles[idx], tris, cameraPos)
			}
		}(k)
	}
	wg.Wait()
}

func (r *Rasterizer) rasterizeTile(t tile, tris []Triangle, cameraPos vecmath.Vec3) {
	for ti := range tris {
		tri := &tris[ti]
		if tri.MaxX < t.x0 || tri.MinX >= t.x1 || tri.MaxY < t.y0 || tri.MinY >= t.y1 {
			continue
		}
		r.rasterizeTriangleInTile(tri, t, cameraPos)
	}
}

func (r *Rasterizer) rasterizeTriangleInTile(tri *Triangle, t tile, cameraPos vecmath.Vec3) {
	v0, v1, v2 := tri.V[0], tri.V[1], tri.V[2]

	xStart := max(t.x0, tri.MinX)
	xEnd := min(t.x1, tri.MaxX+1)
	yStart := max(t.y0, tri.MinY)
	yEnd := min(t.y1, tri.MaxY+1)
	if xStart >= xEnd || yStart >= yEnd {
		return
	}

	area := tri.Area
	invArea := 1 / area
	inside := func(w0, w1, w2 float64) bool {
		if area < 0 {
			return w0 <= 0 && w1 <= 0 && w2 <= 0
		}
		return w0 >= 0 && w1 >= 0 && w2 >= 0
	}

	invZ0, invZ1, invZ2 := 1/v0.W, 1/v1.W, 1/v2.W

	for y := yStart; y < yEnd; y++ {
		py := float64(y) + 0.5
		for x := xStart; x < xEnd; x++ {
			px := float64(x) + 0.5

			w0 := edge(v1.X, v1.Y, v2.X, v2.Y, px, py)
			w1 := edge(v2.X, v2.Y, v0.X, v0.Y, px, py)
			w2 := edge(v0.X, v0.Y, v1.X, v1.Y, px, py)
			if !inside(w0, w1, w2) {
				continue
			}

			b0, b1, b2 := w0*invArea, w1*invArea, w2*invArea

			invZ := b0*invZ0 + b1*invZ1 + b2*invZ2
			z := 1 / invZ

			depth := b0*v0.Z + b1*v1.Z + b2*v2.Z

			r0 := (b0*v0.Color.R*invZ0 + b1*v1.Color.R*invZ1 + b2*v2.Color.R*invZ2) * z
			g0 := (b0*v0.Color.G*invZ0 + b1*v1.Color.G*invZ1 + b2*v2.Color.G*invZ2) * z
			bl0 := (b0*v0.Color.B*invZ0 + b1*v1.Color.B*invZ1 + b2*v2.Color.B*invZ2) * z
			a0 := (b0*v0.Color.A*invZ0 + b1*v1.Color.A*invZ1 + b2*v2.Color.A*invZ2) * z
			interpColor := vecmath.ColorRGBA{R: r0, G: g0, B: bl0, A: a0}

			nx := (b0*v0.Normal.X*invZ0 + b1*v1.Normal.X*invZ1 + b2*v2.Normal.X*invZ2) * z
			ny := (b0*v0.Normal.Y*invZ0 + b1*v1.Normal.Y*invZ1 + b2*v2.Normal.Y*invZ2) * z
			nz := (b0*v0.Normal.Z*invZ0 + b1*v1.Normal.Z*invZ1 + b2*v2.Normal.Z*invZ2) * z
			normal := vecmath.V3(nx, ny, nz).Normalize()

			fragPos := vecmath.V3(px, py, depth)
			shaded := shadeFragment(fragPos, normal, cameraPos, interpColor)

			r.FB.SetPixel(x, y, depth, shaded)
		}
	}
}
