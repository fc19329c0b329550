package mesh

import "testing"

func TestCubeShape(t *testing.T) {
	buf := Cube(2)
	if len(buf)%18 != 0 {
		t.Fatalf("Cube buffer length %d not a multiple of 18", len(buf))
	}
	if len(buf) != 6*6*stride {
		t.Fatalf("Cube buffer length %d, want %d (6 faces * 2 tris * 3 verts * 6 floats)", len(buf), 6*6*stride)
	}
}

func TestQuadShape(t *testing.T) {
	buf := Quad(1, 1)
	if len(buf) != 2*3*stride {
		t.Fatalf("Quad buffer length %d, want %d", len(buf), 2*3*stride)
	}
}

func TestCubeVerticesWithinBounds(t *testing.T) {
	buf := Cube(4)
	for i := 0; i+5 < len(buf); i += stride {
		for j := range 3 {
			v := buf[i+j]
			if v < -2.001 || v > 2.001 {
				t.Fatalf("cube vertex component %f out of bounds for size 4", v)
			}
		}
		nx, ny, nz := buf[i+3], buf[i+4], buf[i+5]
		lenSq := float64(nx*nx + ny*ny + nz*nz)
		if lenSq < 0.99 || lenSq > 1.01 {
			t.Fatalf("face normal (%f,%f,%f) not unit length", nx, ny, nz)
		}
	}
}
