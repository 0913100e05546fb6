package geometry

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// NewIcosahedron returns a regular icosahedron with all vertices at radius
// from the origin. Faces are wound outward.
func NewIcosahedron(radius float32) *Mesh {
	phi := (1 + math32.Sqrt(5)) / 2
	raw := []rl.Vector3{
		{X: -1, Y: phi}, {X: 1, Y: phi}, {X: -1, Y: -phi}, {X: 1, Y: -phi},
		{Y: -1, Z: phi}, {Y: 1, Z: phi}, {Y: -1, Z: -phi}, {Y: 1, Z: -phi},
		{X: phi, Z: -1}, {X: phi, Z: 1}, {X: -phi, Z: -1}, {X: -phi, Z: 1},
	}
	vertices := make([]rl.Vector3, len(raw))
	for i, v := range raw {
		vertices[i] = rl.Vector3Scale(rl.Vector3Normalize(v), radius)
	}
	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	m := NewMesh(vertices, faces)
	m.orientOutward()
	return m
}

// NewIcosphere subdivides an icosahedron, pushing every new vertex back onto
// the sphere. Zero subdivisions is the plain icosahedron.
func NewIcosphere(radius float32, subdivisions int) *Mesh {
	m := NewIcosahedron(radius)
	for s := 0; s < subdivisions; s++ {
		midpoints := make(map[[2]int]int)
		midpoint := func(a, b int) int {
			key := [2]int{min(a, b), max(a, b)}
			if idx, ok := midpoints[key]; ok {
				return idx
			}
			mid := rl.Vector3Scale(rl.Vector3Add(m.Vertices[a], m.Vertices[b]), 0.5)
			m.Vertices = append(m.Vertices, rl.Vector3Scale(rl.Vector3Normalize(mid), radius))
			idx := len(m.Vertices) - 1
			midpoints[key] = idx
			return idx
		}

		faces := make([][3]int, 0, len(m.Faces)*4)
		for _, f := range m.Faces {
			ab := midpoint(f[0], f[1])
			bc := midpoint(f[1], f[2])
			ca := midpoint(f[2], f[0])
			faces = append(faces,
				[3]int{f[0], ab, ca},
				[3]int{f[1], bc, ab},
				[3]int{f[2], ca, bc},
				[3]int{ab, bc, ca},
			)
		}
		m.Faces = faces
	}
	return m
}

// NewBoxMesh returns an axis-aligned box centered on the origin with the
// given full edge lengths, two triangles per side.
func NewBoxMesh(size rl.Vector3) *Mesh {
	h := rl.Vector3Scale(size, 0.5)
	vertices := make([]rl.Vector3, 0, 8)
	for i := 0; i < 8; i++ {
		v := h
		if i&1 == 0 {
			v.X = -v.X
		}
		if i&2 == 0 {
			v.Y = -v.Y
		}
		if i&4 == 0 {
			v.Z = -v.Z
		}
		vertices = append(vertices, v)
	}
	faces := [][3]int{
		{0, 2, 3}, {0, 3, 1}, // -z
		{4, 5, 7}, {4, 7, 6}, // +z
		{0, 1, 5}, {0, 5, 4}, // -y
		{2, 6, 7}, {2, 7, 3}, // +y
		{0, 4, 6}, {0, 6, 2}, // -x
		{1, 3, 7}, {1, 7, 5}, // +x
	}
	m := NewMesh(vertices, faces)
	m.orientOutward()
	return m
}

// orientOutward flips any face whose normal points toward the origin. Only
// meaningful for convex meshes centered on the origin.
func (m *Mesh) orientOutward() {
	for i, f := range m.Faces {
		t := m.Triangle(i)
		if rl.Vector3DotProduct(t.Normal(), t.Centroid()) < 0 {
			m.Faces[i] = [3]int{f[0], f[2], f[1]}
		}
	}
}
