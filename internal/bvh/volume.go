// Package bvh builds octant bounding volume hierarchies over triangle meshes
// and intersects two of them under independent transforms.
package bvh

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"collide3d/internal/engine"
)

// minExtent is the radius / half extent given to volumes fit around zero or
// one point.
const minExtent = 0.01

// Shape is a bounding volume. Values handed to Overlap must already be in
// world space.
type Shape interface {
	Centroid() rl.Vector3
}

// Volume is the capability set a bounding volume type needs to be stored in
// a Tree. Implementations are immutable values.
type Volume[V any] interface {
	Shape
	// FromPoints fits a new volume around points.
	FromPoints(points []rl.Vector3) V
	// Placed returns the volume moved into the space described by xf.
	Placed(xf engine.Transform) V
	// Intersects places both volumes and tests them for overlap.
	Intersects(xf engine.Transform, other V, otherXf engine.Transform) bool
}

// Overlap tests two world-space shapes of any supported kind.
func Overlap(a, b Shape) bool {
	switch sa := a.(type) {
	case Sphere:
		switch sb := b.(type) {
		case Sphere:
			return spheresOverlap(sa, sb)
		case AABB:
			return sphereAABBOverlap(sa, sb)
		case OBB:
			return sb.IntersectsSphere(sa.Center, sa.Radius)
		}
	case AABB:
		switch sb := b.(type) {
		case Sphere:
			return sphereAABBOverlap(sb, sa)
		case AABB:
			return aabbsOverlap(sa, sb)
		case OBB:
			return sa.AsOBB().IntersectsOBB(sb)
		}
	case OBB:
		switch sb := b.(type) {
		case Sphere:
			return sa.IntersectsSphere(sb.Center, sb.Radius)
		case AABB:
			return sa.IntersectsOBB(sb.AsOBB())
		case OBB:
			return sa.IntersectsOBB(sb)
		}
	}
	panic(fmt.Sprintf("bvh: no overlap test for %T and %T", a, b))
}

func component(v rl.Vector3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func centroidOf(points []rl.Vector3) rl.Vector3 {
	var sum rl.Vector3
	for _, p := range points {
		sum = rl.Vector3Add(sum, p)
	}
	return rl.Vector3Scale(sum, 1/float32(len(points)))
}
