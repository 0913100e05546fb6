package engine

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Transform places an object in the world. Scale is uniform.
type Transform struct {
	Position rl.Vector3
	Rotation rl.Quaternion
	Scale    float32
}

// Moveable exposes the current placement of an object. Collision queries
// only read it.
type Moveable interface {
	CurrentTranslation() rl.Vector3
	CurrentRotation() rl.Quaternion
	CurrentScale() float32
	CurrentModelTransformation() rl.Matrix
}

// IdentityTransform returns a transform that leaves geometry untouched.
func IdentityTransform() Transform {
	return Transform{
		Rotation: rl.QuaternionIdentity(),
		Scale:    1,
	}
}

// NewTransform builds a transform from a position, a rotation and a uniform scale.
func NewTransform(position rl.Vector3, rotation rl.Quaternion, scale float32) Transform {
	return Transform{Position: position, Rotation: rotation, Scale: scale}
}

// Matrix composes scale, then rotation, then translation. Its columns are
// the rotated, scaled basis vectors, so rl.Vector3Transform with it agrees
// with Apply and Rotate.
func (t Transform) Matrix() rl.Matrix {
	x := t.Rotate(rl.Vector3{X: t.Scale})
	y := t.Rotate(rl.Vector3{Y: t.Scale})
	z := t.Rotate(rl.Vector3{Z: t.Scale})
	return rl.Matrix{
		M0: x.X, M1: x.Y, M2: x.Z,
		M4: y.X, M5: y.Y, M6: y.Z,
		M8: z.X, M9: z.Y, M10: z.Z,
		M12: t.Position.X, M13: t.Position.Y, M14: t.Position.Z,
		M15: 1,
	}
}

// Apply maps a point from identity space into world space.
func (t Transform) Apply(p rl.Vector3) rl.Vector3 {
	return rl.Vector3Add(t.Position, t.Rotate(rl.Vector3Scale(p, t.Scale)))
}

// Rotate maps a direction into world space. Scale and translation are ignored.
func (t Transform) Rotate(v rl.Vector3) rl.Vector3 {
	return rl.Vector3RotateByQuaternion(v, t.Rotation)
}

// RotateBy applies an additional world-space rotation of angle radians about axis.
func (t *Transform) RotateBy(axis rl.Vector3, angle float32) {
	if angle == 0 || rl.Vector3Length(axis) < 1e-6 {
		return
	}
	delta := rl.QuaternionFromAxisAngle(rl.Vector3Normalize(axis), angle)
	t.Rotation = rl.QuaternionNormalize(rl.QuaternionMultiply(delta, t.Rotation))
}

// Compose places child (expressed relative to t) into t's space.
func (t Transform) Compose(child Transform) Transform {
	scaled := rl.Vector3Scale(child.Position, t.Scale)
	return Transform{
		Position: rl.Vector3Add(t.Position, rl.Vector3RotateByQuaternion(scaled, t.Rotation)),
		Rotation: rl.QuaternionNormalize(rl.QuaternionMultiply(t.Rotation, child.Rotation)),
		Scale:    t.Scale * child.Scale,
	}
}

func (t Transform) CurrentTranslation() rl.Vector3 { return t.Position }

func (t Transform) CurrentRotation() rl.Quaternion { return t.Rotation }

func (t Transform) CurrentScale() float32 { return t.Scale }

func (t Transform) CurrentModelTransformation() rl.Matrix { return t.Matrix() }
