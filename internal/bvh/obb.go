package bvh

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/mat"

	"collide3d/internal/engine"
)

// OBB represents an oriented bounding box
type OBB struct {
	Center   rl.Vector3    // center in the box's space
	HalfSize rl.Vector3    // half extents along Axes
	Axes     [3]rl.Vector3 // unit local X, Y, Z axes
}

// NewOBB creates an OBB from center, full size and a rotation.
func NewOBB(center, size rl.Vector3, rotation rl.Quaternion) OBB {
	axes := identityAxes()
	for i := range axes {
		axes[i] = rl.Vector3RotateByQuaternion(axes[i], rotation)
	}
	return OBB{
		Center:   center,
		HalfSize: rl.Vector3Scale(size, 0.5),
		Axes:     axes,
	}
}

func identityAxes() [3]rl.Vector3 {
	return [3]rl.Vector3{{X: 1}, {Y: 1}, {Z: 1}}
}

// FitOBB aligns the box with the principal axes of the point cloud (the
// eigenvectors of its covariance matrix) and sizes it to the projected
// extents.
func FitOBB(points []rl.Vector3) OBB {
	switch len(points) {
	case 0:
		return aabbAround(rl.Vector3{}, minExtent).AsOBB()
	case 1:
		return aabbAround(points[0], minExtent).AsOBB()
	}

	mean := centroidOf(points)
	var cov [6]float64 // xx xy xz yy yz zz
	for _, p := range points {
		d := rl.Vector3Subtract(p, mean)
		x, y, z := float64(d.X), float64(d.Y), float64(d.Z)
		cov[0] += x * x
		cov[1] += x * y
		cov[2] += x * z
		cov[3] += y * y
		cov[4] += y * z
		cov[5] += z * z
	}
	n := float64(len(points))
	sym := mat.NewSymDense(3, []float64{
		cov[0] / n, cov[1] / n, cov[2] / n,
		cov[1] / n, cov[3] / n, cov[4] / n,
		cov[2] / n, cov[4] / n, cov[5] / n,
	})

	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		return FitAABB(points).AsOBB()
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	var axes [3]rl.Vector3
	for i := range axes {
		axes[i] = rl.Vector3Normalize(rl.Vector3{
			X: float32(vecs.At(0, i)),
			Y: float32(vecs.At(1, i)),
			Z: float32(vecs.At(2, i)),
		})
	}

	var low, high [3]float32
	for i := range axes {
		low[i], high[i] = math32.MaxFloat32, -math32.MaxFloat32
	}
	for _, p := range points {
		for i, axis := range axes {
			d := rl.Vector3DotProduct(p, axis)
			low[i] = min(low[i], d)
			high[i] = max(high[i], d)
		}
	}

	var center rl.Vector3
	var half [3]float32
	for i, axis := range axes {
		center = rl.Vector3Add(center, rl.Vector3Scale(axis, (low[i]+high[i])/2))
		half[i] = (high[i] - low[i]) / 2
	}
	return OBB{
		Center:   center,
		HalfSize: rl.Vector3{X: half[0], Y: half[1], Z: half[2]},
		Axes:     axes,
	}
}

func (OBB) FromPoints(points []rl.Vector3) OBB {
	return FitOBB(points)
}

func (o OBB) Centroid() rl.Vector3 {
	return o.Center
}

// Placed rotates the axes, scales the extents and moves the center.
func (o OBB) Placed(xf engine.Transform) OBB {
	var axes [3]rl.Vector3
	for i, a := range o.Axes {
		axes[i] = rl.Vector3Normalize(xf.Rotate(a))
	}
	return OBB{
		Center:   xf.Apply(o.Center),
		HalfSize: rl.Vector3Scale(o.HalfSize, xf.Scale),
		Axes:     axes,
	}
}

func (o OBB) Intersects(xf engine.Transform, other OBB, otherXf engine.Transform) bool {
	return o.Placed(xf).IntersectsOBB(other.Placed(otherXf))
}

// Corners returns the eight box corners.
func (o OBB) Corners() [8]rl.Vector3 {
	var out [8]rl.Vector3
	for i := range out {
		c := o.Center
		for axis := 0; axis < 3; axis++ {
			h := component(o.HalfSize, axis)
			if i&(1<<axis) == 0 {
				h = -h
			}
			c = rl.Vector3Add(c, rl.Vector3Scale(o.Axes[axis], h))
		}
		out[i] = c
	}
	return out
}

// IntersectsOBB tests if two OBBs intersect using the Separating Axis Theorem
func (o OBB) IntersectsOBB(other OBB) bool {
	t := rl.Vector3Subtract(other.Center, o.Center)

	// 3 face normals from each box, then the 9 edge cross products.
	for i := 0; i < 3; i++ {
		if !obbsOverlapOnAxis(o, other, o.Axes[i], t) {
			return false
		}
	}
	for i := 0; i < 3; i++ {
		if !obbsOverlapOnAxis(o, other, other.Axes[i], t) {
			return false
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			axis := rl.Vector3CrossProduct(o.Axes[i], other.Axes[j])
			// Skip near-zero axes (parallel edges)
			if rl.Vector3Length(axis) > 0.0001 {
				if !obbsOverlapOnAxis(o, other, rl.Vector3Normalize(axis), t) {
					return false
				}
			}
		}
	}
	return true
}

func (o OBB) projectedRadius(axis rl.Vector3) float32 {
	return o.HalfSize.X*math32.Abs(rl.Vector3DotProduct(o.Axes[0], axis)) +
		o.HalfSize.Y*math32.Abs(rl.Vector3DotProduct(o.Axes[1], axis)) +
		o.HalfSize.Z*math32.Abs(rl.Vector3DotProduct(o.Axes[2], axis))
}

func obbsOverlapOnAxis(a, b OBB, axis, t rl.Vector3) bool {
	distance := math32.Abs(rl.Vector3DotProduct(t, axis))
	return distance <= a.projectedRadius(axis)+b.projectedRadius(axis)
}

// IntersectsSphere tests if an OBB intersects with a sphere
func (o OBB) IntersectsSphere(center rl.Vector3, radius float32) bool {
	closest := o.ClosestPoint(center)
	return distanceSq(closest, center) <= radius*radius
}

// ClosestPoint returns the point of the box (surface or interior) nearest to p.
func (o OBB) ClosestPoint(p rl.Vector3) rl.Vector3 {
	local := rl.Vector3Subtract(p, o.Center)
	result := o.Center
	for axis := 0; axis < 3; axis++ {
		h := component(o.HalfSize, axis)
		d := rl.Clamp(rl.Vector3DotProduct(local, o.Axes[axis]), -h, h)
		result = rl.Vector3Add(result, rl.Vector3Scale(o.Axes[axis], d))
	}
	return result
}
