package bvh

import (
	"slices"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/go-cmp/cmp"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collide3d/internal/geometry"
)

func TestDefaultMaxDepth(t *testing.T) {
	tests := map[int]int{0: 0, 1: 0, 2: 1, 8: 1, 9: 2, 64: 2, 65: 3, 320: 3}
	for n, want := range tests {
		assert.Equal(t, want, DefaultMaxDepth(n), "n=%d", n)
	}
}

func TestCandidateOctants(t *testing.T) {
	planes := splitPlanes(rl.Vector3{})
	tri := func(x, y, z float32) geometry.Triangle {
		// A small triangle whose vertices all share the signs of (x, y, z).
		// A zero coordinate makes it straddle that axis.
		return geometry.NewTriangle(
			rl.Vector3{X: x, Y: y, Z: z},
			rl.Vector3{X: x * 1.1, Y: y * 1.2, Z: z},
			rl.Vector3{X: x, Y: y * 1.1, Z: z * 1.3},
		)
	}
	strad := geometry.NewTriangle(rl.Vector3{X: -1, Y: -1, Z: -1}, rl.Vector3{X: 1, Y: 1, Z: 1}, rl.Vector3{X: 1, Y: -1, Z: 1})

	assert.Equal(t, uint8(1<<7), candidateOctants(planes, tri(1, 1, 1)))
	assert.Equal(t, 7, octantFor(planes, tri(1, 1, 1)))
	assert.Equal(t, 0, octantFor(planes, tri(-1, -1, -1)))
	assert.Equal(t, 6, octantFor(planes, tri(-1, 1, 1)))

	assert.Equal(t, uint8(0xFF), candidateOctants(planes, strad))
	assert.Equal(t, 0, octantFor(planes, strad), "straddling everywhere picks the lowest octant")

	// Positive X, negative Y, straddling Z leaves octants 1 and 5.
	mixed := geometry.NewTriangle(rl.Vector3{X: 1, Y: -1, Z: -1}, rl.Vector3{X: 2, Y: -1, Z: 1}, rl.Vector3{X: 1, Y: -2, Z: 1})
	assert.Equal(t, uint8(1<<1|1<<5), candidateOctants(planes, mixed))
	assert.Equal(t, 1, octantFor(planes, mixed))
}

func buildSphereTree(t *testing.T, mesh *geometry.Mesh, opts ...Option) *Tree[Sphere] {
	t.Helper()
	tree := BuildFromMesh[Sphere](mesh, opts...)
	require.NotNil(t, tree)
	require.Equal(t, mesh.TriangleCount(), tree.Len())
	return tree
}

func TestBuildPartitionsTriangles(t *testing.T) {
	mesh := geometry.NewIcosphere(1, 2)
	tree := buildSphereTree(t, mesh)

	assert.Equal(t, lo.Range(mesh.TriangleCount()), tree.Root().IDs)

	tree.Walk(func(n *Node[Sphere], depth int) {
		assert.True(t, slices.IsSorted(n.IDs), "ids must be sorted")
		if n.Leaf {
			for _, c := range n.Children {
				assert.Nil(t, c)
			}
			return
		}
		var union []int
		for _, c := range n.Children {
			if c != nil {
				require.NotEmpty(t, c.IDs, "empty octants have no child")
				union = append(union, c.IDs...)
			}
		}
		slices.Sort(union)
		assert.Equal(t, n.IDs, union, "children must partition the parent at depth %d", depth)
	})
}

func TestBuildRespectsDepthAndLeafThreshold(t *testing.T) {
	mesh := geometry.NewIcosphere(1, 2)

	for _, threshold := range []int{1, 4, 16} {
		tree := buildSphereTree(t, mesh, WithLeafThreshold(threshold))
		assert.Equal(t, DefaultMaxDepth(mesh.TriangleCount()), tree.MaxDepth())
		assert.LessOrEqual(t, tree.Depth(), tree.MaxDepth())

		tree.Walk(func(n *Node[Sphere], depth int) {
			if n.Leaf {
				assert.True(t, len(n.IDs) <= threshold || depth == tree.MaxDepth(),
					"leaf at depth %d holds %d ids", depth, len(n.IDs))
			} else {
				assert.Greater(t, len(n.IDs), threshold)
				assert.Less(t, depth, tree.MaxDepth())
			}
		})
	}

	clamped := buildSphereTree(t, mesh, WithMaxDepth(1))
	assert.LessOrEqual(t, clamped.Depth(), 1)
	assert.Len(t, clamped.Leaves(), clamped.Root().ChildCount())
}

func TestChildVolumesFitOwnSubset(t *testing.T) {
	mesh := geometry.NewIcosphere(2, 1)
	tris := mesh.IdentityFaceTriangles()
	tree := buildSphereTree(t, mesh)

	tree.Walk(func(n *Node[Sphere], _ int) {
		var points []rl.Vector3
		for _, id := range n.IDs {
			tr := tris[id]
			points = append(points, tr.V0, tr.V1, tr.V2)
		}
		assert.Equal(t, FitSphere(lo.Uniq(points)), n.Volume)
	})
}

func TestBuildEmptyAndTiny(t *testing.T) {
	empty := Build[Sphere](map[int]geometry.Triangle{})
	assert.True(t, empty.Root().Leaf)
	assert.True(t, empty.Root().Empty())
	assert.Equal(t, 0, empty.Depth())

	box := buildSphereTree(t, geometry.NewBoxMesh(rl.Vector3{X: 1, Y: 1, Z: 1}), WithLeafThreshold(12))
	assert.True(t, box.Root().Leaf, "12 triangles fit in one leaf")
}

func TestBuildWithFitter(t *testing.T) {
	mesh := geometry.NewIcosahedron(1)
	tree := BuildFromMesh[AABB](mesh, WithFitter(CubeAABB))
	half := tree.Root().Volume.HalfExtents()
	assert.InDelta(t, half.X, half.Y, 1e-5)
	assert.InDelta(t, half.X, half.Z, 1e-5)

	assert.Panics(t, func() {
		BuildFromMesh[Sphere](mesh, WithFitter(CubeAABB))
	})
}

func TestCloneIsDeep(t *testing.T) {
	tree := buildSphereTree(t, geometry.NewIcosphere(1, 1))
	clone := tree.Clone()

	require.Empty(t, cmp.Diff(tree.Root(), clone.Root()))
	assert.Equal(t, tree.Depth(), clone.Depth())

	originals := map[*Node[Sphere]]bool{}
	tree.Walk(func(n *Node[Sphere], _ int) { originals[n] = true })
	clone.Walk(func(n *Node[Sphere], _ int) {
		assert.False(t, originals[n], "node shared between trees")
	})

	// Mutating the copy leaves the original untouched.
	before := tree.Root().IDs[0]
	clone.Root().IDs[0] = -1
	clone.Root().Volume.Radius = 100
	leaf := clone.Leaves()[0]
	leaf.IDs = append(leaf.IDs, 999)

	assert.Equal(t, before, tree.Root().IDs[0])
	assert.NotEqual(t, float32(100), tree.Root().Volume.Radius)
	assert.NotContains(t, tree.Leaves()[0].IDs, 999)
}
