package mesh

import (
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
)

// LoadGLTF reads a glTF file and flattens every mesh's triangle primitives
// into the package's interleaved [px,py,pz,nx,ny,nz] layout. Only buffer data
// embedded in a binary .glb is read; a buffer given by URI (external file or
// data URI) makes it return an error. It is used only by the demo host; the
// core raster/camera packages never import this file.
func LoadGLTF(path string) ([]float32, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf %q: %w", path, err)
	}
	if len(doc.Meshes) == 0 {
		return nil, fmt.Errorf("gltf %q contains no meshes", path)
	}

	var out []float32
	for _, m := range doc.Meshes {
		buf, err := flattenMesh(doc, m)
		if err != nil {
			return nil, fmt.Errorf("flatten mesh %q: %w", m.Name, err)
		}
		out = append(out, buf...)
	}
	return out, nil
}

func flattenMesh(doc *gltf.Document, m *gltf.Mesh) ([]float32, error) {
	var out []float32
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return nil, fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = readVec3Accessor(doc, normIdx)
			if err != nil {
				return nil, fmt.Errorf("read normals: %w", err)
			}
		}
		if len(normals) == 0 {
			normals = computeFlatNormals(doc, positions, prim)
		}

		indices, err := faceIndices(doc, prim, len(positions))
		if err != nil {
			return nil, err
		}
		for _, idx := range indices {
			p := positions[idx]
			n := [3]float32{0, 0, 1}
			if idx < len(normals) {
				n = normals[idx]
			}
			out = append(out, p[0], p[1], p[2], n[0], n[1], n[2])
		}
	}
	return out, nil
}

// faceIndices returns the triangle vertex indices for prim, reading the
// accessor's index buffer when present, or assuming sequential triples
// otherwise.
func faceIndices(doc *gltf.Document, prim *gltf.Primitive, vertexCount int) ([]int, error) {
	if prim.Indices != nil {
		return readIndices(doc, *prim.Indices)
	}
	out := make([]int, vertexCount)
	for i := range out {
		out[i] = i
	}
	return out, nil
}

// computeFlatNormals derives one normal per triangle and assigns it to all
// three of the triangle's vertices when the GLTF primitive carries no
// NORMAL attribute of its own.
func computeFlatNormals(doc *gltf.Document, positions [][3]float32, prim *gltf.Primitive) [][3]float32 {
	normals := make([][3]float32, len(positions))

	assign := func(i0, i1, i2 int) {
		if i0 >= len(positions) || i1 >= len(positions) || i2 >= len(positions) {
			return
		}
		p0, p1, p2 := positions[i0], positions[i1], positions[i2]
		ux, uy, uz := p1[0]-p0[0], p1[1]-p0[1], p1[2]-p0[2]
		vx, vy, vz := p2[0]-p0[0], p2[1]-p0[1], p2[2]-p0[2]
		n := [3]float32{uy*vz - uz*vy, uz*vx - ux*vz, ux*vy - uy*vx}
		normals[i0], normals[i1], normals[i2] = n, n, n
	}

	indices, err := faceIndices(doc, prim, len(positions))
	if err != nil {
		return normals
	}
	for i := 0; i+2 < len(indices); i += 3 {
		assign(indices[i], indices[i+1], indices[i+2])
	}
	return normals
}

// readVec3Accessor reads VEC3 float data directly out of the accessor's
// backing buffer view, matching the embedded-buffer (.glb) case this
// package supports.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([][3]float32, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, stride, err := accessorBytes(doc, accessor)
	if err != nil {
		return nil, err
	}
	if stride == 0 {
		stride = 12
	}

	out := make([][3]float32, accessor.Count)
	for i := range accessor.Count {
		offset := i * stride
		for j := range 3 {
			out[i][j] = readFloat32LE(data[offset+j*4:])
		}
	}
	return out, nil
}

// readIndices reads a SCALAR index accessor, whatever its component width.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]
	data, stride, err := accessorBytes(doc, accessor)
	if err != nil {
		return nil, err
	}

	out := make([]int, accessor.Count)
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		if stride == 0 {
			stride = 1
		}
		for i := range accessor.Count {
			out[i] = int(data[i*stride])
		}
	case gltf.ComponentUshort:
		if stride == 0 {
			stride = 2
		}
		for i := range accessor.Count {
			off := i * stride
			out[i] = int(uint16(data[off]) | uint16(data[off+1])<<8)
		}
	case gltf.ComponentUint:
		if stride == 0 {
			stride = 4
		}
		for i := range accessor.Count {
			off := i * stride
			out[i] = int(uint32(data[off]) | uint32(data[off+1])<<8 | uint32(data[off+2])<<16 | uint32(data[off+3])<<24)
		}
	default:
		return nil, fmt.Errorf("unsupported index component type %v", accessor.ComponentType)
	}
	return out, nil
}

// accessorBytes resolves an accessor to its backing byte slice and stride,
// starting at the accessor's own offset. Only embedded (.glb) buffers are
// supported, matching this loader's intended use from the demo host.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}
	bv := doc.BufferViews[*accessor.BufferView]
	buf := doc.Buffers[bv.Buffer]
	if buf.URI != "" {
		return nil, 0, fmt.Errorf("external buffers not supported")
	}
	if buf.Data == nil {
		return nil, 0, fmt.Errorf("buffer has no embedded data")
	}
	start := bv.ByteOffset + accessor.ByteOffset
	return buf.Data[start:], bv.ByteStride, nil
}

func readFloat32LE(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}
