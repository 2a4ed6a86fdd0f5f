// Package models provides the scene data model for glyph3d: colors, faces,
// meshes and the loaders that build them from geometry files.
package models

import (
	"fmt"

	"github.com/taigrr/glyph3d/pkg/math3d"
)

// Mesh is a triangle mesh plus its world-space pose.
// Vertices and Faces are not modified after construction; Pose may be
// updated once per frame by whatever drives the animation.
type Mesh struct {
	Name     string
	Vertices []math3d.Vec4 // Positions, W=1
	Faces    []Face
	Pose     Pose

	// Bounding box (calculated on construction)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Face is a triangle referencing three entries of its mesh's Vertices.
type Face struct {
	V      [3]int      // Indices into Mesh.Vertices
	Normal math3d.Vec4 // Face normal, W=0
	Color  Color
}

// Pose places a mesh in the world: a translation and an axis-angle rotation.
type Pose struct {
	Position math3d.Vec4 // W=1
	Axis     math3d.Vec4 // Rotation axis, W=0; need not be unit length
	Angle    float64     // Radians
}

// DefaultPose sits at the origin with no rotation around the Y axis.
func DefaultPose() Pose {
	return Pose{
		Position: math3d.Point(0, 0, 0),
		Axis:     math3d.Direction(0, 1, 0),
	}
}

// Geometry is raw, unvalidated mesh data as produced by a loader.
// Indices are 0-based.
type Geometry struct {
	Name     string
	Vertices []math3d.Vec4
	Normals  []math3d.Vec4
	Faces    []RawFace
}

// RawFace references vertices and an optional normal by index.
type RawFace struct {
	V      [3]int
	Normal int // Index into Geometry.Normals, -1 when absent
	Line   int // Source line, for error messages (0 if unknown)
}

// NewMesh creates a mesh from prebuilt faces after checking that every face
// references existing vertices.
func NewMesh(name string, vertices []math3d.Vec4, faces []Face) (*Mesh, error) {
	for i, f := range faces {
		if err := checkIndices(f.V, len(vertices)); err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
	}
	m := &Mesh{
		Name:     name,
		Vertices: vertices,
		Faces:    faces,
		Pose:     DefaultPose(),
	}
	m.CalculateBounds()
	return m, nil
}

// Build validates g and turns it into a mesh whose faces all carry color.
// Faces without a normal get one computed from their winding.
func Build(g Geometry, color Color) (*Mesh, error) {
	faces := make([]Face, 0, len(g.Faces))
	for i, rf := range g.Faces {
		where := fmt.Sprintf("face %d", i)
		if rf.Line > 0 {
			where = fmt.Sprintf("line %d", rf.Line)
		}
		if err := checkIndices(rf.V, len(g.Vertices)); err != nil {
			return nil, fmt.Errorf("%s: %w", where, err)
		}

		f := Face{V: rf.V, Color: color}
		switch {
		case rf.Normal >= len(g.Normals) || rf.Normal < -1:
			return nil, fmt.Errorf("%s: %w: normal index %d outside [0,%d)",
				where, ErrMalformedGeometry, rf.Normal, len(g.Normals))
		case rf.Normal >= 0:
			f.Normal = g.Normals[rf.Normal]
			f.Normal.W = 0
		default:
			f.Normal = faceNormal(g.Vertices, rf.V)
		}
		faces = append(faces, f)
	}

	m := &Mesh{
		Name:     g.Name,
		Vertices: g.Vertices,
		Faces:    faces,
		Pose:     DefaultPose(),
	}
	m.CalculateBounds()
	return m, nil
}

func checkIndices(v [3]int, n int) error {
	for _, idx := range v {
		if idx < 0 || idx >= n {
			return fmt.Errorf("%w: vertex index %d outside [0,%d)", ErrMalformedGeometry, idx, n)
		}
	}
	return nil
}

// faceNormal computes the normal implied by counter-clockwise winding.
// Degenerate faces get a zero normal.
func faceNormal(verts []math3d.Vec4, v [3]int) math3d.Vec4 {
	e1 := verts[v[1]].Sub(verts[v[0]])
	e2 := verts[v[2]].Sub(verts[v[0]])
	n, err := e1.Cross3(e2).Normalize()
	if err != nil {
		return math3d.Direction(0, 0, 0)
	}
	return n
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin = math3d.Vec3{}
		m.BoundsMax = math3d.Vec3{}
		return
	}

	m.BoundsMin = m.Vertices[0].Vec3()
	m.BoundsMax = m.Vertices[0].Vec3()

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Vec3())
		m.BoundsMax = m.BoundsMax.Max(v.Vec3())
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Fitted returns a copy of the mesh recentred on the origin and uniformly
// scaled so its largest dimension equals size. The pose is kept.
// A mesh with no extent is returned as a plain clone.
func (m *Mesh) Fitted(size float64) *Mesh {
	out := m.Clone()
	dims := m.Size()
	maxDim := max(dims.X, dims.Y, dims.Z)
	if maxDim <= 0 {
		return out
	}
	s := size / maxDim
	transform := math3d.Scale(math3d.V3(s, s, s)).Mul(math3d.Translate(m.Center().Scale(-1)))
	for i, v := range out.Vertices {
		out.Vertices[i] = transform.MulVec4(v)
	}
	out.CalculateBounds()
	return out
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]math3d.Vec4, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		Pose:      m.Pose,
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	return clone
}

// GetBounds returns the axis-aligned bounding box.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}
