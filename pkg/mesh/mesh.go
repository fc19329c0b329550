// Package mesh provides the static vertex-buffer providers the rasterizer
// consumes (a procedural cube and quad) plus an optional GLTF import path
// used only by the demo host.
package mesh

// stride is the number of floats per vertex in the wire layout: position
// (3) then normal (3).
const stride = 6

type builder struct {
	buf []float32
}

func (b *builder) addVertex(px, py, pz, nx, ny, nz float32) {
	b.buf = append(b.buf, px, py, pz, nx, ny, nz)
}

// addFace appends two triangles (p0,p1,p2) and (p0,p2,p3) for a quad face,
// sharing one flat face normal; the winding follows the corner order given.
func (b *builder) addFace(n [3]float32, p0, p1, p2, p3 [3]float32) {
	b.addVertex(p0[0], p0[1], p0[2], n[0], n[1], n[2])
	b.addVertex(p1[0], p1[1], p1[2], n[0], n[1], n[2])
	b.addVertex(p2[0], p2[1], p2[2], n[0], n[1], n[2])

	b.addVertex(p0[0], p0[1], p0[2], n[0], n[1], n[2])
	b.addVertex(p2[0], p2[1], p2[2], n[0], n[1], n[2])
	b.addVertex(p3[0], p3[1], p3[2], n[0], n[1], n[2])
}

// Cube returns an interleaved [px,py,pz,nx,ny,nz] vertex buffer for a cube
// centered at the origin with the given edge length: 6 faces, 2 triangles
// each, flat per-face normals. Seen from outside the cube, the ±Z faces wind
// counter-clockwise and the ±X and ±Y faces wind clockwise.
func Cube(size float64) []float32 {
	s := float32(size) / 2
	var b builder

	// +X, -X
	b.addFace([3]float32{1, 0, 0}, [3]float32{s, -s, -s}, [3]float32{s, -s, s}, [3]float32{s, s, s}, [3]float32{s, s, -s})
	b.addFace([3]float32{-1, 0, 0}, [3]float32{-s, -s, s}, [3]float32{-s, -s, -s}, [3]float32{-s, s, -s}, [3]float32{-s, s, s})

	// +Y, -Y
	b.addFace([3]float32{0, 1, 0}, [3]float32{-s, s, -s}, [3]float32{s, s, -s}, [3]float32{s, s, s}, [3]float32{-s, s, s})
	b.addFace([3]float32{0, -1, 0}, [3]float32{-s, -s, s}, [3]float32{s, -s, s}, [3]float32{s, -s, -s}, [3]float32{-s, -s, -s})

	// +Z, -Z
	b.addFace([3]float32{0, 0, 1}, [3]float32{-s, -s, s}, [3]float32{s, -s, s}, [3]float32{s, s, s}, [3]float32{-s, s, s})
	b.addFace([3]float32{0, 0, -1}, [3]float32{s, -s, -s}, [3]float32{-s, -s, -s}, [3]float32{-s, s, -s}, [3]float32{s, s, -s})

	return b.buf
}

// Quad returns an interleaved vertex buffer for a single two-triangle quad
// centered at the origin in the XY plane, facing +Z.
func Quad(width, height float64) []float32 {
	hw, hh := float32(width)/2, float32(height)/2
	var b builder
	b.addFace([3]float32{0, 0, 1},
		[3]float32{-hw, -hh, 0}, [3]float32{hw, -hh, 0}, [3]float32{hw, hh, 0}, [3]float32{-hw, hh, 0})
	return b.buf
}

// Stride returns the number of floats per vertex in buffers this package
// produces (and that LoadGLTF produces).
func Stride() int {
	return stride
}
