package physics

import (
	"collide3d/internal/bvh"
	"collide3d/internal/components"
	"collide3d/internal/engine"
	"collide3d/internal/geometry"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// rayThickness is the half width of the box wrapped around a ray when
// collecting candidate triangles.
const rayThickness = 1e-3

type RaycastHit struct {
	GameObject *engine.GameObject
	Triangle   int
	Point      rl.Vector3
	Normal     rl.Vector3 // faces back toward the ray origin
	Distance   float32
}

// Raycast returns the closest triangle hit along direction within maxDistance.
func (p *PhysicsWorld) Raycast(origin, direction rl.Vector3, maxDistance float32) (RaycastHit, bool) {
	if rl.Vector3Length(direction) == 0 || maxDistance <= 0 {
		return RaycastHit{}, false
	}
	direction = rl.Vector3Normalize(direction)
	query := segmentBox(origin, direction, maxDistance)

	var closestHit RaycastHit
	closestHit.Distance = maxDistance
	hit := false

	for _, obj := range p.Objects {
		collider := engine.GetComponent[*components.MeshCollider](obj)
		if collider == nil || !collider.IsBuilt() {
			continue
		}
		if hitInfo, ok := raycastMesh(origin, direction, collider, query, closestHit.Distance); ok {
			closestHit = hitInfo
			closestHit.GameObject = obj
			hit = true
		}
	}

	return closestHit, hit
}

// segmentBox is a thin world-space box around the segment from origin to
// origin + direction*length.
func segmentBox(origin, direction rl.Vector3, length float32) bvh.OBB {
	helper := rl.Vector3{X: 1}
	if math32.Abs(direction.X) > 0.9 {
		helper = rl.Vector3{Y: 1}
	}
	side := rl.Vector3Normalize(rl.Vector3CrossProduct(direction, helper))
	up := rl.Vector3CrossProduct(direction, side)

	return bvh.OBB{
		Center:   rl.Vector3Add(origin, rl.Vector3Scale(direction, length/2)),
		HalfSize: rl.Vector3{X: length/2 + rayThickness, Y: rayThickness, Z: rayThickness},
		Axes:     [3]rl.Vector3{direction, side, up},
	}
}

func raycastMesh(origin, direction rl.Vector3, collider *components.MeshCollider, query bvh.OBB, maxDistance float32) (RaycastHit, bool) {
	candidates := bvh.IntersectAgainstVolume(collider.Tree, collider.Transform(), query)

	var best RaycastHit
	best.Distance = maxDistance
	hit := false
	for _, id := range candidates.Sorted() {
		tri := collider.WorldTriangle(id)
		t, ok := rayTriangle(origin, direction, tri)
		if !ok || t >= best.Distance {
			continue
		}
		normal := tri.Normal()
		if rl.Vector3DotProduct(normal, direction) > 0 {
			normal = rl.Vector3Negate(normal)
		}
		best = RaycastHit{
			Triangle: id,
			Point:    rl.Vector3Add(origin, rl.Vector3Scale(direction, t)),
			Normal:   normal,
			Distance: t,
		}
		hit = true
	}
	return best, hit
}

// rayTriangle is the Möller–Trumbore test. It returns the distance along
// the unit direction to the hit.
func rayTriangle(origin, direction rl.Vector3, tri geometry.Triangle) (float32, bool) {
	const epsilon = 1e-7

	edge1 := rl.Vector3Subtract(tri.V1, tri.V0)
	edge2 := rl.Vector3Subtract(tri.V2, tri.V0)
	pvec := rl.Vector3CrossProduct(direction, edge2)
	det := rl.Vector3DotProduct(edge1, pvec)
	if math32.Abs(det) < epsilon {
		return 0, false
	}
	invDet := 1 / det

	tvec := rl.Vector3Subtract(origin, tri.V0)
	u := rl.Vector3DotProduct(tvec, pvec) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}
	qvec := rl.Vector3CrossProduct(tvec, edge1)
	v := rl.Vector3DotProduct(direction, qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := rl.Vector3DotProduct(edge2, qvec) * invDet
	return t, t >= 0
}
