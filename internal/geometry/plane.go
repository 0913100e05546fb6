package geometry

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Classification says on which side of a plane a triangle lies.
type Classification int

const (
	Positive Classification = iota
	Negative
	Straddling
)

func (c Classification) String() string {
	switch c {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "straddling"
	}
}

// Plane is the set of points p with Normal·p == D.
type Plane struct {
	Normal rl.Vector3
	D      float32
}

// NewPlane builds the plane through point with the given normal.
func NewPlane(point, normal rl.Vector3) Plane {
	return Plane{Normal: normal, D: rl.Vector3DotProduct(normal, point)}
}

// SignedDistance is positive on the side the normal points to. It is scaled
// by the normal's length.
func (p Plane) SignedDistance(point rl.Vector3) float32 {
	return rl.Vector3DotProduct(p.Normal, point) - p.D
}

// TriangleIntersectionTest classifies t against the plane. A triangle is
// Positive or Negative only when all three vertices are strictly on that
// side; touching or crossing is Straddling.
func (p Plane) TriangleIntersectionTest(t Triangle) Classification {
	positive, negative := 0, 0
	for _, v := range t.Points() {
		d := p.SignedDistance(v)
		switch {
		case d > 0:
			positive++
		case d < 0:
			negative++
		}
	}
	switch {
	case positive == 3:
		return Positive
	case negative == 3:
		return Negative
	default:
		return Straddling
	}
}
