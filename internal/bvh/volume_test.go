package bvh

import (
	"math"
	"slices"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collide3d/internal/engine"
)

func assertVecNear(t *testing.T, want, got rl.Vector3, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-4, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, 1e-4, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, 1e-4, msgAndArgs...)
}

func TestFitDegeneratePointSets(t *testing.T) {
	p := rl.Vector3{X: 3, Y: -1, Z: 2}

	assert.Equal(t, Sphere{Radius: minExtent}, FitSphere(nil))
	assert.Equal(t, Sphere{Center: p, Radius: minExtent}, FitSphere([]rl.Vector3{p}))

	box := FitAABB([]rl.Vector3{p})
	assertVecNear(t, p, box.Centroid())
	assertVecNear(t, rl.Vector3{X: minExtent, Y: minExtent, Z: minExtent}, box.HalfExtents())

	obb := FitOBB(nil)
	assertVecNear(t, rl.Vector3{}, obb.Center)
	assertVecNear(t, rl.Vector3{X: minExtent, Y: minExtent, Z: minExtent}, obb.HalfSize)
}

func TestFitSphereEnclosesPoints(t *testing.T) {
	points := []rl.Vector3{{X: 1}, {X: -1}, {Y: 2}, {Z: -0.5}, {X: 0.3, Y: 0.3, Z: 0.3}}
	s := FitSphere(points)
	for _, p := range points {
		assert.LessOrEqual(t, distanceSq(s.Center, p), s.Radius*s.Radius*1.0001)
	}
	assertVecNear(t, centroidOf(points), s.Center)
}

func TestSpherePlaced(t *testing.T) {
	s := NewSphere(rl.Vector3{X: 1}, 0.5)
	xf := engine.NewTransform(rl.Vector3{Y: 5}, rl.QuaternionIdentity(), 2)
	got := s.Placed(xf)
	assertVecNear(t, rl.Vector3{X: 2, Y: 5}, got.Center)
	assert.InDelta(t, 1.0, got.Radius, 1e-6)
}

func TestSphereIntersects(t *testing.T) {
	unit := NewSphere(rl.Vector3{}, 1)
	at := func(x float32) engine.Transform {
		return engine.NewTransform(rl.Vector3{X: x}, rl.QuaternionIdentity(), 1)
	}
	assert.True(t, unit.Intersects(at(0), unit, at(2)), "touching spheres overlap")
	assert.False(t, unit.Intersects(at(0), unit, at(2.01)))

	grown := engine.NewTransform(rl.Vector3{X: 3}, rl.QuaternionIdentity(), 2)
	assert.True(t, unit.Intersects(at(0), unit, grown), "scale grows the radius")
}

func TestAABBPlacedIgnoresRotation(t *testing.T) {
	box := NewAABB(rl.Vector3{X: 1, Y: -1, Z: -1}, rl.Vector3{X: 3, Y: 1, Z: 1})
	xf := engine.NewTransform(rl.Vector3{}, rl.QuaternionFromAxisAngle(rl.Vector3{Z: 1}, math.Pi/2), 2)

	got := box.Placed(xf)
	// Centroid (2,0,0) rotates onto +Y; extents are only scaled.
	assertVecNear(t, rl.Vector3{Y: 4}, got.Centroid())
	assertVecNear(t, rl.Vector3{X: 2, Y: 2, Z: 2}, got.HalfExtents())
}

func TestCubeAABB(t *testing.T) {
	points := []rl.Vector3{{X: -2}, {X: 2}, {Y: 0.5}}
	cube := CubeAABB(points)
	half := cube.HalfExtents()
	assert.InDelta(t, half.X, half.Y, 1e-6)
	assert.InDelta(t, half.X, half.Z, 1e-6)
	assert.GreaterOrEqual(t, half.X, float32(2))
}

func TestSphereAABBOverlap(t *testing.T) {
	box := NewAABB(rl.Vector3{}, rl.Vector3{X: 1, Y: 1, Z: 1})
	corner := rl.Vector3{X: 1.5, Y: 1.5, Z: 1.5} // sqrt(0.75) ~ 0.866 from the corner

	assert.False(t, Overlap(NewSphere(corner, 0.8), box))
	assert.True(t, Overlap(NewSphere(corner, 0.9), box))
	assert.True(t, Overlap(box, NewSphere(rl.Vector3{X: 0.5, Y: 0.5, Z: 0.5}, 0.1)), "contained sphere")
	assert.False(t, Overlap(box, NewSphere(rl.Vector3{X: -2}, 1)))
}

func TestOBBSeparatingAxis(t *testing.T) {
	a := NewOBB(rl.Vector3{}, rl.Vector3{X: 2, Y: 2, Z: 2}, rl.QuaternionIdentity())
	rot45 := rl.QuaternionFromAxisAngle(rl.Vector3{Z: 1}, math.Pi/4)

	// A box rotated 45 degrees reaches sqrt(2) along X.
	assert.True(t, a.IntersectsOBB(NewOBB(rl.Vector3{X: 2.3}, rl.Vector3{X: 2, Y: 2, Z: 2}, rot45)))
	assert.False(t, a.IntersectsOBB(NewOBB(rl.Vector3{X: 2.5}, rl.Vector3{X: 2, Y: 2, Z: 2}, rot45)))

	// Diagonal offset separated only by a rotated face axis.
	b := NewOBB(rl.Vector3{X: 2.3, Y: 2.3}, rl.Vector3{X: 2, Y: 2, Z: 2}, rot45)
	assert.False(t, a.IntersectsOBB(b))
	assert.False(t, Overlap(a, b))
}

func TestOBBMixedOverlap(t *testing.T) {
	rot45 := rl.QuaternionFromAxisAngle(rl.Vector3{Z: 1}, math.Pi/4)
	obb := NewOBB(rl.Vector3{}, rl.Vector3{X: 2, Y: 2, Z: 2}, rot45)

	assert.True(t, Overlap(obb, NewSphere(rl.Vector3{X: 2.2}, 0.8)))
	assert.False(t, Overlap(NewSphere(rl.Vector3{X: 2.2}, 0.7), obb))

	assert.True(t, Overlap(obb, NewAABB(rl.Vector3{X: 1.3, Y: -0.1, Z: -0.1}, rl.Vector3{X: 2, Y: 0.1, Z: 0.1})))
	assert.False(t, Overlap(NewAABB(rl.Vector3{X: 1.2, Y: 1.2, Z: -1}, rl.Vector3{X: 2, Y: 2, Z: 1}), obb))
}

func TestOBBPlaced(t *testing.T) {
	o := NewOBB(rl.Vector3{X: 1}, rl.Vector3{X: 2, Y: 4, Z: 6}, rl.QuaternionIdentity())
	xf := engine.NewTransform(rl.Vector3{Z: 1}, rl.QuaternionFromAxisAngle(rl.Vector3{Z: 1}, math.Pi/2), 3)
	got := o.Placed(xf)
	assertVecNear(t, rl.Vector3{Y: 3, Z: 1}, got.Center)
	assertVecNear(t, rl.Vector3{X: 3, Y: 6, Z: 9}, got.HalfSize)
	assertVecNear(t, rl.Vector3{Y: 1}, got.Axes[0])
}

func TestFitOBBFindsPrincipalAxes(t *testing.T) {
	truth := NewOBB(
		rl.Vector3{X: 1, Y: 2, Z: 3},
		rl.Vector3{X: 8, Y: 2, Z: 1},
		rl.QuaternionFromAxisAngle(rl.Vector3{X: 1, Y: 1, Z: 0.5}, 0.7),
	)
	corners := truth.Corners()
	fit := FitOBB(corners[:])

	got := []float32{fit.HalfSize.X, fit.HalfSize.Y, fit.HalfSize.Z}
	slices.Sort(got)
	assert.InDeltaSlice(t, []float32{0.5, 1, 4}, got, 1e-3)
	assertVecNear(t, truth.Center, fit.Center)

	for i, axis := range fit.Axes {
		assert.InDelta(t, 1, rl.Vector3Length(axis), 1e-4, "axis %d not unit", i)
	}
	for _, c := range corners {
		closest := fit.ClosestPoint(c)
		assert.Less(t, rl.Vector3Distance(closest, c), float32(1e-3))
	}
}

func TestOverlapUnsupportedShapePanics(t *testing.T) {
	type point struct{ Sphere }
	require.Panics(t, func() { Overlap(point{}, Sphere{}) })
}
