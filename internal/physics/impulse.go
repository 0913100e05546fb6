package physics

import (
	"collide3d/internal/bvh"
	"collide3d/internal/components"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

// SphereBody is the stand-in the solver uses for a mesh: a uniform solid
// sphere of density 1 with the mesh's world bounding sphere.
type SphereBody struct {
	Bounds bvh.Sphere
	Motion *components.MotionProperties
}

// Mass is the sphere's volume.
func (b SphereBody) Mass() float32 {
	r := b.Bounds.Radius
	return 4.0 / 3.0 * math32.Pi * r * r * r
}

// InverseInertia is the scalar inverse inertia of a solid sphere,
// 5 / (2 m r²); the tensor is this times identity.
func (b SphereBody) InverseInertia() float32 {
	r := b.Bounds.Radius
	return 5 / (2 * b.Mass() * r * r)
}

// pointVelocity is v + ω × r at world point p.
func (b SphereBody) pointVelocity(p rl.Vector3) rl.Vector3 {
	r := rl.Vector3Subtract(p, b.Bounds.Center)
	return rl.Vector3Add(b.Motion.Velocity(), rl.Vector3CrossProduct(b.Motion.AngularVelocity(), r))
}

// StabilizationPolicy adjusts the post-impulse motion of both bodies given
// their motion before the impulse.
type StabilizationPolicy func(beforeA, beforeB components.MotionProperties, a, b *components.MotionProperties)

// ClampToPreCollisionRange keeps each body's speed and angular speed inside
// the [min, max] range the pair had before the collision. It is an
// approximation, not derived from the collision physics.
func ClampToPreCollisionRange(beforeA, beforeB components.MotionProperties, a, b *components.MotionProperties) {
	minSpeed := math32.Min(beforeA.Speed, beforeB.Speed)
	maxSpeed := math32.Max(beforeA.Speed, beforeB.Speed)
	minSpin := math32.Min(beforeA.AngularSpeed, beforeB.AngularSpeed)
	maxSpin := math32.Max(beforeA.AngularSpeed, beforeB.AngularSpeed)
	for _, m := range []*components.MotionProperties{a, b} {
		m.Speed = rl.Clamp(m.Speed, minSpeed, maxSpeed)
		m.AngularSpeed = rl.Clamp(m.AngularSpeed, minSpin, maxSpin)
	}
}

// NoStabilization leaves the solver's result untouched.
func NoStabilization(_, _ components.MotionProperties, _, _ *components.MotionProperties) {}

// Stabilization names accepted by StabilizationByName.
const (
	StabilizationClamp = "clamp"
	StabilizationNone  = "none"
)

func StabilizationByName(name string) (StabilizationPolicy, error) {
	switch name {
	case StabilizationClamp, "":
		return ClampToPreCollisionRange, nil
	case StabilizationNone:
		return NoStabilization, nil
	}
	return nil, errors.Errorf("unknown stabilization policy %q", name)
}

// SolveImpulse applies a collision impulse along normal (unit, pointing from
// a toward b) at the world-space contact point and returns its magnitude.
// Bodies already separating along normal are left alone and 0 is returned.
func SolveImpulse(a, b SphereBody, contact, normal rl.Vector3, restitution float32, stabilize StabilizationPolicy) float32 {
	relative := rl.Vector3Subtract(b.pointVelocity(contact), a.pointVelocity(contact))
	approach := rl.Vector3DotProduct(relative, normal)
	if approach >= 0 {
		return 0
	}

	rA := rl.Vector3Subtract(contact, a.Bounds.Center)
	rB := rl.Vector3Subtract(contact, b.Bounds.Center)
	rAxN := rl.Vector3CrossProduct(rA, normal)
	rBxN := rl.Vector3CrossProduct(rB, normal)

	massA, massB := a.Mass(), b.Mass()
	invIA, invIB := a.InverseInertia(), b.InverseInertia()

	// ((I⁻¹(r×n))×r)·n reduces to I⁻¹|r×n|² for a scalar inertia.
	denominator := 1/massA + 1/massB +
		invIA*rl.Vector3DotProduct(rAxN, rAxN) +
		invIB*rl.Vector3DotProduct(rBxN, rBxN)
	j := -(1 + restitution) * approach / denominator

	beforeA, beforeB := *a.Motion, *b.Motion

	impulse := rl.Vector3Scale(normal, j)
	a.Motion.SetVelocity(rl.Vector3Subtract(a.Motion.Velocity(), rl.Vector3Scale(impulse, 1/massA)))
	b.Motion.SetVelocity(rl.Vector3Add(b.Motion.Velocity(), rl.Vector3Scale(impulse, 1/massB)))
	a.Motion.SetAngularVelocity(rl.Vector3Subtract(a.Motion.AngularVelocity(), rl.Vector3Scale(rAxN, j*invIA)))
	b.Motion.SetAngularVelocity(rl.Vector3Add(b.Motion.AngularVelocity(), rl.Vector3Scale(rBxN, j*invIB)))

	if stabilize != nil {
		stabilize(beforeA, beforeB, a.Motion, b.Motion)
	}
	return j
}
