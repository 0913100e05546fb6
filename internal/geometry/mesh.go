package geometry

import (
	"fmt"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/samber/lo"
)

// Mesh is an indexed triangle mesh in its own (identity) space.
type Mesh struct {
	Vertices []rl.Vector3
	Faces    [][3]int
}

func NewMesh(vertices []rl.Vector3, faces [][3]int) *Mesh {
	return &Mesh{Vertices: vertices, Faces: faces}
}

// FromRaylibMesh copies the geometry out of a raylib mesh. Both indexed and
// non-indexed meshes are supported; no transform is applied.
func FromRaylibMesh(mesh rl.Mesh) *Mesh {
	m := &Mesh{}
	if mesh.Vertices == nil || mesh.VertexCount == 0 {
		return m
	}

	raw := unsafe.Slice(mesh.Vertices, mesh.VertexCount*3)
	m.Vertices = make([]rl.Vector3, mesh.VertexCount)
	for i := range m.Vertices {
		m.Vertices[i] = rl.Vector3{X: raw[i*3+0], Y: raw[i*3+1], Z: raw[i*3+2]}
	}

	if mesh.Indices != nil {
		indices := unsafe.Slice(mesh.Indices, mesh.TriangleCount*3)
		m.Faces = make([][3]int, mesh.TriangleCount)
		for i := range m.Faces {
			m.Faces[i] = [3]int{int(indices[i*3+0]), int(indices[i*3+1]), int(indices[i*3+2])}
		}
		return m
	}

	// Non-indexed mesh (every 3 vertices = 1 triangle)
	triCount := int(mesh.VertexCount) / 3
	m.Faces = make([][3]int, triCount)
	for i := range m.Faces {
		m.Faces[i] = [3]int{i*3 + 0, i*3 + 1, i*3 + 2}
	}
	return m
}

func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// Triangle returns face id in identity space. An id outside the mesh is a
// programming error and panics.
func (m *Mesh) Triangle(id int) Triangle {
	if id < 0 || id >= len(m.Faces) {
		panic(fmt.Sprintf("geometry: triangle id %d out of range [0, %d)", id, len(m.Faces)))
	}
	f := m.Faces[id]
	return Triangle{V0: m.Vertices[f[0]], V1: m.Vertices[f[1]], V2: m.Vertices[f[2]]}
}

// IdentityFaceTriangles returns every face keyed by its index.
func (m *Mesh) IdentityFaceTriangles() map[int]Triangle {
	out := make(map[int]Triangle, len(m.Faces))
	for i := range m.Faces {
		out[i] = m.Triangle(i)
	}
	return out
}

// Points returns the distinct vertices referenced by at least one face.
func (m *Mesh) Points() []rl.Vector3 {
	used := make([]rl.Vector3, 0, len(m.Vertices))
	for _, f := range m.Faces {
		used = append(used, m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]])
	}
	return lo.Uniq(used)
}

// Clone returns a mesh that shares no memory with m.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Vertices: append([]rl.Vector3(nil), m.Vertices...),
		Faces:    append([][3]int(nil), m.Faces...),
	}
}
