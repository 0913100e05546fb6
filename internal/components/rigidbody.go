package components

import (
	"time"

	"collide3d/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("Rigidbody", func(props map[string]any) (engine.Component, error) {
		return NewRigidbodyFromProps(props)
	})
}

// DefaultRestitution makes collisions perfectly elastic.
const DefaultRestitution = 1.0

// Rigidbody carries the motion of a collidable object. It is moved by the
// physics world, never by its own Update.
type Rigidbody struct {
	engine.BaseComponent
	Motion      MotionProperties
	Restitution float32 // 0 = no bounce, 1 = perfect bounce

	// LastPartner is the most recent object this body collided with. It
	// resolves to nil once that object is destroyed.
	LastPartner   engine.GameObjectRef
	LastCollision time.Time
}

func NewRigidbody(motion MotionProperties) *Rigidbody {
	return &Rigidbody{
		Motion:      motion,
		Restitution: DefaultRestitution,
	}
}

// NewRigidbodyFromProps builds a Rigidbody from scene-file properties:
// direction, speed, rotation, angularSpeed and restitution.
func NewRigidbodyFromProps(props map[string]any) (*Rigidbody, error) {
	direction, err := vec3Prop(props, "direction", rl.Vector3{})
	if err != nil {
		return nil, err
	}
	speed, err := floatProp(props, "speed", 0)
	if err != nil {
		return nil, err
	}
	rotation, err := vec3Prop(props, "rotation", rl.Vector3{Y: 1})
	if err != nil {
		return nil, err
	}
	angularSpeed, err := floatProp(props, "angularSpeed", 0)
	if err != nil {
		return nil, err
	}
	restitution, err := floatProp(props, "restitution", DefaultRestitution)
	if err != nil {
		return nil, err
	}

	rb := NewRigidbody(NewMotion(direction, speed, rotation, angularSpeed))
	rb.Restitution = restitution
	return rb, nil
}

// Tick advances the owning object by dt seconds: position along the
// direction, orientation about the rotation axis.
func (r *Rigidbody) Tick(dt float32) {
	g := r.GetGameObject()
	if g == nil {
		return
	}
	g.Transform.Position = rl.Vector3Add(g.Transform.Position, rl.Vector3Scale(r.Motion.Velocity(), dt))
	g.Transform.RotateBy(r.Motion.Rotation, r.Motion.AngularSpeed*dt)
}

// RecordCollision remembers partner as the last object hit at time at.
func (r *Rigidbody) RecordCollision(partner *engine.GameObject, at time.Time) {
	r.LastPartner.Set(partner)
	r.LastCollision = at
}

// Serialize returns the props NewRigidbodyFromProps understands.
func (r *Rigidbody) Serialize() map[string]any {
	vec := func(v rl.Vector3) []any { return []any{float64(v.X), float64(v.Y), float64(v.Z)} }
	return map[string]any{
		"direction":    vec(r.Motion.Direction),
		"speed":        float64(r.Motion.Speed),
		"rotation":     vec(r.Motion.Rotation),
		"angularSpeed": float64(r.Motion.AngularSpeed),
		"restitution":  float64(r.Restitution),
	}
}
