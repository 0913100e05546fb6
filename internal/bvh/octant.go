package bvh

import (
	"math/bits"

	rl "github.com/gen2brain/raylib-go/raylib"

	"collide3d/internal/geometry"
)

// Octant i has bit 0 set when it lies on the positive X side of the split
// point, bit 1 for Y and bit 2 for Z.

// eliminated[axis][classification] is the set of octants a triangle cannot
// belong to once it has been classified against that axis' plane.
var eliminated = [3][3]uint8{
	{geometry.Positive: 0x55, geometry.Negative: 0xAA, geometry.Straddling: 0x00},
	{geometry.Positive: 0x33, geometry.Negative: 0xCC, geometry.Straddling: 0x00},
	{geometry.Positive: 0x0F, geometry.Negative: 0xF0, geometry.Straddling: 0x00},
}

var axisNormals = [3]rl.Vector3{{X: 1}, {Y: 1}, {Z: 1}}

// splitPlanes returns the three axis-aligned planes through center.
func splitPlanes(center rl.Vector3) [3]geometry.Plane {
	var planes [3]geometry.Plane
	for i, n := range axisNormals {
		planes[i] = geometry.NewPlane(center, n)
	}
	return planes
}

// candidateOctants intersects the per-axis masks into the set of octants t
// may be assigned to.
func candidateOctants(planes [3]geometry.Plane, t geometry.Triangle) uint8 {
	var ruledOut uint8
	for axis, p := range planes {
		ruledOut |= eliminated[axis][p.TriangleIntersectionTest(t)]
	}
	return 0xFF &^ ruledOut
}

// octantFor assigns t to the lowest-indexed candidate octant. Straddling
// triangles therefore always land toward the negative side.
func octantFor(planes [3]geometry.Plane, t geometry.Triangle) int {
	return bits.TrailingZeros8(candidateOctants(planes, t))
}
