package models

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/glyph3d/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
// All triangle primitives of all meshes in the document are merged.
type GLTFLoader struct {
	// Options
	Color  Color // Color assigned to every face
	Logger *slog.Logger
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		Color: Grey(1),
	}
}

// LoadGLTF loads a .gltf or binary .glb file with the default loader.
func LoadGLTF(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.Decode(doc, filepath.Base(path))
}

// Decode converts an already parsed document into a mesh.
func (l *GLTFLoader) Decode(doc *gltf.Document, name string) (*Mesh, error) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	g := Geometry{Name: name}
	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, &g, logger); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	return Build(g, l.Color)
}

// processMesh appends the geometry of every triangle primitive in m to g.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, g *Geometry, logger *slog.Logger) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			logger.Debug("skipping non-triangle primitive", "mesh", m.Name, "mode", prim.Mode)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals []math3d.Vec3
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = readVec3Accessor(doc, normIdx)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		base := len(g.Vertices)
		for _, p := range positions {
			g.Vertices = append(g.Vertices, math3d.V4FromV3(p, 1))
		}

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			tri := [3]int{indices[i], indices[i+1], indices[i+2]}
			face := RawFace{
				V:      [3]int{base + tri[0], base + tri[1], base + tri[2]},
				Normal: -1,
			}
			if n, ok := averageNormal(normals, tri); ok {
				face.Normal = len(g.Normals)
				g.Normals = append(g.Normals, math3d.V4FromV3(n, 0))
			}
			g.Faces = append(g.Faces, face)
		}
	}

	return nil
}

// averageNormal blends the vertex normals of a triangle into a face normal.
// It reports false when the primitive has no usable normals.
func averageNormal(normals []math3d.Vec3, tri [3]int) (math3d.Vec3, bool) {
	var sum math3d.Vec3
	for _, idx := range tri {
		if idx < 0 || idx >= len(normals) {
			return math3d.Vec3{}, false
		}
		sum = sum.Add(normals[idx])
	}
	if sum.Len() == 0 {
		return math3d.Vec3{}, false
	}
	return sum.Normalize(), true
}

// readVec3Accessor reads float VEC3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("%w: accessor %d out of range", ErrMalformedGeometry, accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("%w: expected float VEC3, got %v/%v",
			ErrMalformedGeometry, accessor.Type, accessor.ComponentType)
	}

	data, start, stride, err := accessorData(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, accessor.Count)
	for i := range accessor.Count {
		offset := start + i*stride
		result[i] = math3d.V3(
			readFloat32(data[offset:]),
			readFloat32(data[offset+4:]),
			readFloat32(data[offset+8:]),
		)
	}
	return result, nil
}

// readIndices reads unsigned scalar index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("%w: accessor %d out of range", ErrMalformedGeometry, accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("%w: expected SCALAR indices, got %v", ErrMalformedGeometry, accessor.Type)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("%w: unexpected index type %v", ErrMalformedGeometry, accessor.ComponentType)
	}

	data, start, stride, err := accessorData(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	result := make([]int, accessor.Count)
	for i := range accessor.Count {
		offset := start + i*stride
		switch size {
		case 1:
			result[i] = int(data[offset])
		case 2:
			result[i] = int(binary.LittleEndian.Uint16(data[offset:]))
		case 4:
			result[i] = int(binary.LittleEndian.Uint32(data[offset:]))
		}
	}
	return result, nil
}

// accessorData resolves the buffer behind an accessor and checks that
// Count elements of elemSize bytes fit inside it.
func accessorData(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) (data []byte, start, stride int, err error) {
	if accessor.BufferView == nil {
		return nil, 0, 0, fmt.Errorf("%w: accessor has no buffer view", ErrMalformedGeometry)
	}
	if *accessor.BufferView < 0 || *accessor.BufferView >= len(doc.BufferViews) {
		return nil, 0, 0, fmt.Errorf("%w: buffer view %d out of range", ErrMalformedGeometry, *accessor.BufferView)
	}
	view := doc.BufferViews[*accessor.BufferView]
	if view.Buffer < 0 || view.Buffer >= len(doc.Buffers) {
		return nil, 0, 0, fmt.Errorf("%w: buffer %d out of range", ErrMalformedGeometry, view.Buffer)
	}
	data = doc.Buffers[view.Buffer].Data
	if len(data) == 0 {
		return nil, 0, 0, fmt.Errorf("%w: buffer has no data", ErrMalformedGeometry)
	}

	start = view.ByteOffset + accessor.ByteOffset
	stride = view.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	if accessor.Count > 0 {
		end := start + (accessor.Count-1)*stride + elemSize
		if start < 0 || end > len(data) {
			return nil, 0, 0, fmt.Errorf("%w: accessor reads [%d,%d) of a %d byte buffer",
				ErrMalformedGeometry, start, end, len(data))
		}
	}
	return data, start, stride, nil
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
}
