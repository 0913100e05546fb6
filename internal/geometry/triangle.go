package geometry

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// parallelEpsilon is the squared length below which a cross product is
// treated as zero.
const parallelEpsilon = 1e-10

// Triangle is a single mesh face, wound counter-clockwise when seen from the
// side its normal points to.
type Triangle struct {
	V0, V1, V2 rl.Vector3
}

func NewTriangle(v0, v1, v2 rl.Vector3) Triangle {
	return Triangle{V0: v0, V1: v1, V2: v2}
}

// Points returns the three vertices in order.
func (t Triangle) Points() [3]rl.Vector3 {
	return [3]rl.Vector3{t.V0, t.V1, t.V2}
}

// Centroid is the average of the three vertices.
func (t Triangle) Centroid() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Add(rl.Vector3Add(t.V0, t.V1), t.V2), 1.0/3.0)
}

// Normal returns the unit face normal, or the zero vector for a degenerate triangle.
func (t Triangle) Normal() rl.Vector3 {
	n := t.rawNormal()
	length := rl.Vector3Length(n)
	if length < 1e-12 {
		return rl.Vector3{}
	}
	return rl.Vector3Scale(n, 1/length)
}

func (t Triangle) rawNormal() rl.Vector3 {
	return rl.Vector3CrossProduct(rl.Vector3Subtract(t.V1, t.V0), rl.Vector3Subtract(t.V2, t.V0))
}

// Area of the triangle.
func (t Triangle) Area() float32 {
	return rl.Vector3Length(t.rawNormal()) / 2
}

// Transform maps every vertex through m.
func (t Triangle) Transform(m rl.Matrix) Triangle {
	return Triangle{
		V0: rl.Vector3Transform(t.V0, m),
		V1: rl.Vector3Transform(t.V1, m),
		V2: rl.Vector3Transform(t.V2, m),
	}
}

func (t Triangle) edges() [3]rl.Vector3 {
	return [3]rl.Vector3{
		rl.Vector3Subtract(t.V1, t.V0),
		rl.Vector3Subtract(t.V2, t.V1),
		rl.Vector3Subtract(t.V0, t.V2),
	}
}

// project returns the interval covered by the triangle on axis.
func (t Triangle) project(axis rl.Vector3) (float32, float32) {
	a := rl.Vector3DotProduct(t.V0, axis)
	b := rl.Vector3DotProduct(t.V1, axis)
	c := rl.Vector3DotProduct(t.V2, axis)
	return math32.Min(a, math32.Min(b, c)), math32.Max(a, math32.Max(b, c))
}

// Intersects reports whether the two triangles share at least one point.
// Touching counts as intersecting.
//
// Separating axes: both face normals and the nine edge cross products. When
// the triangles are coplanar the in-plane edge normals are tested instead of
// the (degenerate) cross products.
func (t Triangle) Intersects(other Triangle) bool {
	nA := t.rawNormal()
	nB := other.rawNormal()

	if !overlapOnAxis(t, other, nA) || !overlapOnAxis(t, other, nB) {
		return false
	}

	edgesA := t.edges()
	edgesB := other.edges()

	coplanar := rl.Vector3DotProduct(rl.Vector3CrossProduct(nA, nB), rl.Vector3CrossProduct(nA, nB)) < parallelEpsilon*
		rl.Vector3DotProduct(nA, nA)*rl.Vector3DotProduct(nB, nB)
	if coplanar {
		for _, e := range edgesA {
			if !overlapOnAxis(t, other, rl.Vector3CrossProduct(nA, e)) {
				return false
			}
		}
		for _, e := range edgesB {
			if !overlapOnAxis(t, other, rl.Vector3CrossProduct(nA, e)) {
				return false
			}
		}
		return true
	}

	for _, ea := range edgesA {
		for _, eb := range edgesB {
			axis := rl.Vector3CrossProduct(ea, eb)
			if rl.Vector3DotProduct(axis, axis) < parallelEpsilon {
				continue
			}
			if !overlapOnAxis(t, other, axis) {
				return false
			}
		}
	}
	return true
}

// overlapOnAxis checks whether the projections of both triangles onto axis overlap.
// A zero axis never separates.
func overlapOnAxis(a, b Triangle, axis rl.Vector3) bool {
	if rl.Vector3DotProduct(axis, axis) < parallelEpsilon {
		return true
	}
	minA, maxA := a.project(axis)
	minB, maxB := b.project(axis)
	return minA <= maxB && minB <= maxA
}
