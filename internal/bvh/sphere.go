package bvh

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"collide3d/internal/engine"
)

type Sphere struct {
	Center rl.Vector3
	Radius float32
}

func NewSphere(center rl.Vector3, radius float32) Sphere {
	return Sphere{Center: center, Radius: radius}
}

// FitSphere centers the sphere on the centroid of points and reaches out to
// the farthest one.
func FitSphere(points []rl.Vector3) Sphere {
	switch len(points) {
	case 0:
		return Sphere{Radius: minExtent}
	case 1:
		return Sphere{Center: points[0], Radius: minExtent}
	}

	center := centroidOf(points)
	var radiusSq float32
	for _, p := range points {
		radiusSq = max(radiusSq, distanceSq(center, p))
	}
	return Sphere{Center: center, Radius: math32.Sqrt(radiusSq)}
}

func (Sphere) FromPoints(points []rl.Vector3) Sphere {
	return FitSphere(points)
}

func (s Sphere) Centroid() rl.Vector3 {
	return s.Center
}

// Placed transforms the center and scales the radius.
func (s Sphere) Placed(xf engine.Transform) Sphere {
	return Sphere{Center: xf.Apply(s.Center), Radius: s.Radius * xf.Scale}
}

func (s Sphere) Intersects(xf engine.Transform, other Sphere, otherXf engine.Transform) bool {
	return spheresOverlap(s.Placed(xf), other.Placed(otherXf))
}

func spheresOverlap(a, b Sphere) bool {
	r := a.Radius + b.Radius
	return distanceSq(a.Center, b.Center) <= r*r
}

// sphereAABBOverlap accumulates the squared distance from the sphere center
// to the box one axis at a time, bailing out as soon as it exceeds r².
func sphereAABBOverlap(s Sphere, b AABB) bool {
	rSq := s.Radius * s.Radius
	var d float32
	for axis := 0; axis < 3; axis++ {
		c := component(s.Center, axis)
		low, high := component(b.Min, axis), component(b.Max, axis)
		switch {
		case c < low:
			e := c - low
			d += e * e
		case c > high:
			e := c - high
			d += e * e
		}
		if d > rSq {
			return false
		}
	}
	return true
}

func distanceSq(a, b rl.Vector3) float32 {
	return rl.Vector3LengthSqr(rl.Vector3Subtract(a, b))
}
