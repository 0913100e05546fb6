package bvh

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"collide3d/internal/engine"
)

// AABB is an axis-aligned bounding box. Under a transform only its centroid
// moves with the rotation; the extents stay axis aligned and are scaled.
type AABB struct {
	Min, Max rl.Vector3
}

func NewAABB(lower, upper rl.Vector3) AABB {
	return AABB{Min: lower, Max: upper}
}

// FitAABB returns the tight box around points.
func FitAABB(points []rl.Vector3) AABB {
	switch len(points) {
	case 0:
		return aabbAround(rl.Vector3{}, minExtent)
	case 1:
		return aabbAround(points[0], minExtent)
	}

	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Min = rl.Vector3Min(box.Min, p)
		box.Max = rl.Vector3Max(box.Max, p)
	}
	return box
}

// CubeAABB returns the cube circumscribing the bounding sphere of points.
// Pass it to WithFitter to build looser but rotation-stable boxes.
func CubeAABB(points []rl.Vector3) AABB {
	s := FitSphere(points)
	return aabbAround(s.Center, s.Radius)
}

func aabbAround(center rl.Vector3, half float32) AABB {
	h := rl.Vector3{X: half, Y: half, Z: half}
	return AABB{Min: rl.Vector3Subtract(center, h), Max: rl.Vector3Add(center, h)}
}

func (AABB) FromPoints(points []rl.Vector3) AABB {
	return FitAABB(points)
}

func (b AABB) Centroid() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Add(b.Min, b.Max), 0.5)
}

func (b AABB) HalfExtents() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Subtract(b.Max, b.Min), 0.5)
}

func (b AABB) Placed(xf engine.Transform) AABB {
	center := xf.Apply(b.Centroid())
	half := rl.Vector3Scale(b.HalfExtents(), xf.Scale)
	return AABB{Min: rl.Vector3Subtract(center, half), Max: rl.Vector3Add(center, half)}
}

func (b AABB) Intersects(xf engine.Transform, other AABB, otherXf engine.Transform) bool {
	return aabbsOverlap(b.Placed(xf), other.Placed(otherXf))
}

// AsOBB views the box as an OBB with identity axes.
func (b AABB) AsOBB() OBB {
	return OBB{
		Center:   b.Centroid(),
		HalfSize: b.HalfExtents(),
		Axes:     identityAxes(),
	}
}

func aabbsOverlap(a, b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}
