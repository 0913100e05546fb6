package components

import (
	"fmt"
	"maps"

	"collide3d/internal/bvh"
	"collide3d/internal/engine"
	"collide3d/internal/geometry"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

func init() {
	engine.RegisterComponent("MeshCollider", func(props map[string]any) (engine.Component, error) {
		return NewMeshColliderFromProps(props)
	})
}

// MeshCollider gives an object exact triangle collision. The hierarchy is
// built once over the mesh in its own space; the object's world transform
// is applied at query time, so the object is free to move.
type MeshCollider struct {
	engine.BaseComponent
	Mesh *geometry.Mesh
	Tree *bvh.Tree[bvh.Sphere]

	LeafThreshold int // 0 = bvh.DefaultLeafThreshold
	MaxDepth      int // 0 = automatic

	// primitive holds the props a generated mesh came from, so it can be
	// written back to a scene file.
	primitive map[string]any
}

func NewMeshCollider(mesh *geometry.Mesh) *MeshCollider {
	return &MeshCollider{Mesh: mesh}
}

// NewMeshColliderFromProps generates a primitive mesh and builds its
// hierarchy. Recognized props: mesh (icosphere, icosahedron, box), size
// (radius, or [x, y, z] for a box), subdivisions, leafThreshold, maxDepth.
func NewMeshColliderFromProps(props map[string]any) (*MeshCollider, error) {
	kind, err := stringProp(props, "mesh", "icosphere")
	if err != nil {
		return nil, err
	}
	leaf, err := intProp(props, "leafThreshold", 0)
	if err != nil {
		return nil, err
	}
	depth, err := intProp(props, "maxDepth", 0)
	if err != nil {
		return nil, err
	}

	var mesh *geometry.Mesh
	switch kind {
	case "icosphere", "icosahedron":
		radius, err := floatProp(props, "size", 1)
		if err != nil {
			return nil, err
		}
		subdivisions := 0
		if kind == "icosphere" {
			if subdivisions, err = intProp(props, "subdivisions", 2); err != nil {
				return nil, err
			}
		}
		if radius <= 0 || subdivisions < 0 {
			return nil, errors.Errorf("invalid %s: size %v, subdivisions %d", kind, radius, subdivisions)
		}
		mesh = geometry.NewIcosphere(radius, subdivisions)
	case "box":
		size, err := boxSize(props)
		if err != nil {
			return nil, err
		}
		mesh = geometry.NewBoxMesh(size)
	default:
		return nil, errors.Errorf("unknown mesh %q", kind)
	}

	m := NewMeshCollider(mesh)
	m.LeafThreshold = leaf
	m.MaxDepth = depth
	m.primitive = map[string]any{"mesh": kind}
	maps.Copy(m.primitive, props)
	m.CreateBoundingVolumeHierarchy()
	return m, nil
}

// Serialize returns the props NewMeshColliderFromProps understands, or nil
// for a collider over an arbitrary mesh.
func (m *MeshCollider) Serialize() map[string]any {
	if m.primitive == nil {
		return nil
	}
	props := maps.Clone(m.primitive)
	delete(props, "leafThreshold")
	delete(props, "maxDepth")
	if m.LeafThreshold > 0 {
		props["leafThreshold"] = m.LeafThreshold
	}
	if m.MaxDepth > 0 {
		props["maxDepth"] = m.MaxDepth
	}
	return props
}

// boxSize accepts a single edge length or [x, y, z].
func boxSize(props map[string]any) (rl.Vector3, error) {
	if f, ok := toFloat(props["size"]); ok {
		return rl.Vector3{X: f, Y: f, Z: f}, nil
	}
	size, err := vec3Prop(props, "size", rl.Vector3{X: 1, Y: 1, Z: 1})
	if err != nil {
		return rl.Vector3{}, err
	}
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return rl.Vector3{}, errors.Errorf("invalid box size %v", size)
	}
	return size, nil
}

// CreateBoundingVolumeHierarchy (re)builds the tree over the current mesh.
// Extra options are applied after the collider's own settings.
func (m *MeshCollider) CreateBoundingVolumeHierarchy(opts ...bvh.Option) {
	var all []bvh.Option
	if m.LeafThreshold > 0 {
		all = append(all, bvh.WithLeafThreshold(m.LeafThreshold))
	}
	if m.MaxDepth > 0 {
		all = append(all, bvh.WithMaxDepth(m.MaxDepth))
	}
	all = append(all, opts...)
	m.Tree = bvh.BuildFromMesh[bvh.Sphere](m.Mesh, all...)
}

// Start builds the hierarchy if nobody has yet.
func (m *MeshCollider) Start() {
	if !m.IsBuilt() && m.Mesh != nil {
		m.CreateBoundingVolumeHierarchy()
	}
}

func (m *MeshCollider) IsBuilt() bool {
	return m.Tree != nil
}

func (m *MeshCollider) TriangleCount() int {
	if m.Mesh == nil {
		return 0
	}
	return m.Mesh.TriangleCount()
}

// Transform is the world placement of the owning object, or identity when
// the collider is detached.
func (m *MeshCollider) Transform() engine.Transform {
	if g := m.GetGameObject(); g != nil {
		return g.WorldTransform()
	}
	return engine.IdentityTransform()
}

// BoundingSphere returns the root volume in world space.
func (m *MeshCollider) BoundingSphere() bvh.Sphere {
	if !m.IsBuilt() {
		panic("components: MeshCollider.BoundingSphere before CreateBoundingVolumeHierarchy")
	}
	return m.Tree.Root().Volume.Placed(m.Transform())
}

// WorldTriangle returns triangle id in world space. An id outside the mesh
// panics.
func (m *MeshCollider) WorldTriangle(id int) geometry.Triangle {
	if m.Mesh == nil {
		panic(fmt.Sprintf("components: triangle %d requested from a collider without a mesh", id))
	}
	return m.Mesh.Triangle(id).Transform(m.Transform().Matrix())
}
