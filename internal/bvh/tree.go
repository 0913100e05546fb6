package bvh

import (
	"fmt"
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/samber/lo"

	"collide3d/internal/geometry"
)

// DefaultLeafThreshold is the largest triangle count a node keeps without
// trying to split.
const DefaultLeafThreshold = 4

// Tree is a bounding volume hierarchy over a triangle mesh. The geometry is
// stored in the mesh's own space; transforms are supplied at query time.
type Tree[V Volume[V]] struct {
	root          *Node[V]
	leafThreshold int
	maxDepth      int
}

type options struct {
	leafThreshold int
	maxDepth      int
	fitter        any
}

// Option configures Build.
type Option func(*options)

// WithLeafThreshold stops splitting nodes holding at most n triangles.
func WithLeafThreshold(n int) Option {
	return func(o *options) { o.leafThreshold = n }
}

// WithMaxDepth caps the depth of the tree. Zero or less keeps the default.
func WithMaxDepth(d int) Option {
	return func(o *options) { o.maxDepth = d }
}

// WithFitter replaces the volume type's own FromPoints, e.g. CubeAABB.
// The fitter must produce the tree's volume type.
func WithFitter[V any](fit func(points []rl.Vector3) V) Option {
	return func(o *options) { o.fitter = fit }
}

// DefaultMaxDepth is the smallest d with 8^d >= n.
func DefaultMaxDepth(n int) int {
	d := 0
	for capacity := 1; capacity < n; capacity *= 8 {
		d++
	}
	return d
}

type builder[V Volume[V]] struct {
	triangles     map[int]geometry.Triangle
	leafThreshold int
	maxDepth      int
	fit           func([]rl.Vector3) V
}

// Build creates a hierarchy over triangles, keyed by triangle id.
func Build[V Volume[V]](triangles map[int]geometry.Triangle, opts ...Option) *Tree[V] {
	o := options{leafThreshold: DefaultLeafThreshold}
	for _, opt := range opts {
		opt(&o)
	}
	if o.leafThreshold < 1 {
		o.leafThreshold = 1
	}
	if o.maxDepth <= 0 {
		o.maxDepth = DefaultMaxDepth(len(triangles))
	}

	var zero V
	fit := zero.FromPoints
	if o.fitter != nil {
		f, ok := o.fitter.(func([]rl.Vector3) V)
		if !ok {
			panic(fmt.Sprintf("bvh: fitter %T does not produce %T", o.fitter, zero))
		}
		fit = f
	}

	b := &builder[V]{
		triangles:     triangles,
		leafThreshold: o.leafThreshold,
		maxDepth:      o.maxDepth,
		fit:           fit,
	}
	ids := lo.Keys(triangles)
	slices.Sort(ids)

	return &Tree[V]{
		root:          b.buildNode(ids, 0),
		leafThreshold: o.leafThreshold,
		maxDepth:      o.maxDepth,
	}
}

// BuildFromMesh builds over every face of mesh; triangle ids are face indices.
func BuildFromMesh[V Volume[V]](mesh *geometry.Mesh, opts ...Option) *Tree[V] {
	return Build[V](mesh.IdentityFaceTriangles(), opts...)
}

func (b *builder[V]) buildNode(ids []int, depth int) *Node[V] {
	node := &Node[V]{Leaf: true}
	if len(ids) == 0 {
		node.Volume = b.fit(nil)
		return node
	}
	node.IDs = ids
	node.Volume = b.fit(b.uniquePoints(ids))

	if len(ids) <= b.leafThreshold || depth >= b.maxDepth {
		return node
	}
	node.Leaf = false

	planes := splitPlanes(node.Volume.Centroid())
	var octants [8][]int
	for _, id := range ids {
		o := octantFor(planes, b.triangles[id])
		octants[o] = append(octants[o], id)
	}
	for o, subset := range octants {
		if len(subset) > 0 {
			node.Children[o] = b.buildNode(subset, depth+1)
		}
	}
	return node
}

func (b *builder[V]) uniquePoints(ids []int) []rl.Vector3 {
	points := make([]rl.Vector3, 0, len(ids)*3)
	for _, id := range ids {
		t := b.triangles[id]
		points = append(points, t.V0, t.V1, t.V2)
	}
	return lo.Uniq(points)
}

// Root returns the root node. It is never nil.
func (t *Tree[V]) Root() *Node[V] {
	return t.root
}

func (t *Tree[V]) LeafThreshold() int {
	return t.leafThreshold
}

func (t *Tree[V]) MaxDepth() int {
	return t.maxDepth
}

// Len is the number of triangles in the tree.
func (t *Tree[V]) Len() int {
	return len(t.root.IDs)
}

// Depth is the depth of the deepest node, the root being 0.
func (t *Tree[V]) Depth() int {
	deepest := 0
	t.Walk(func(_ *Node[V], depth int) {
		deepest = max(deepest, depth)
	})
	return deepest
}

// Leaves returns every leaf in depth-first octant order.
func (t *Tree[V]) Leaves() []*Node[V] {
	var leaves []*Node[V]
	t.Walk(func(n *Node[V], _ int) {
		if n.Leaf {
			leaves = append(leaves, n)
		}
	})
	return leaves
}

// Walk visits every node depth first, parents before children.
func (t *Tree[V]) Walk(fn func(n *Node[V], depth int)) {
	t.root.walk(0, fn)
}

// Clone returns a deep copy sharing no nodes with t.
func (t *Tree[V]) Clone() *Tree[V] {
	return &Tree[V]{
		root:          t.root.clone(),
		leafThreshold: t.leafThreshold,
		maxDepth:      t.maxDepth,
	}
}
