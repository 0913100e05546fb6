package components

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// MotionProperties describes how a body moves. Direction and Rotation are
// unit vectors; the magnitudes live in Speed and AngularSpeed (radians per
// second).
type MotionProperties struct {
	Direction    rl.Vector3
	Speed        float32
	Rotation     rl.Vector3
	AngularSpeed float32
}

// NewMotion normalizes the given direction and rotation axis.
func NewMotion(direction rl.Vector3, speed float32, rotation rl.Vector3, angularSpeed float32) MotionProperties {
	m := MotionProperties{Speed: speed, AngularSpeed: angularSpeed}
	if rl.Vector3Length(direction) > 0 {
		m.Direction = rl.Vector3Normalize(direction)
	}
	if rl.Vector3Length(rotation) > 0 {
		m.Rotation = rl.Vector3Normalize(rotation)
	}
	return m
}

func (m MotionProperties) Velocity() rl.Vector3 {
	return rl.Vector3Scale(m.Direction, m.Speed)
}

func (m MotionProperties) AngularVelocity() rl.Vector3 {
	return rl.Vector3Scale(m.Rotation, m.AngularSpeed)
}

// SetVelocity splits v into direction and speed. A zero vector keeps the
// previous direction.
func (m *MotionProperties) SetVelocity(v rl.Vector3) {
	m.Direction, m.Speed = split(v, m.Direction)
}

// SetAngularVelocity splits w into axis and angular speed. A zero vector
// keeps the previous axis.
func (m *MotionProperties) SetAngularVelocity(w rl.Vector3) {
	m.Rotation, m.AngularSpeed = split(w, m.Rotation)
}

func split(v, fallback rl.Vector3) (rl.Vector3, float32) {
	length := rl.Vector3Length(v)
	if length < 1e-6 {
		return fallback, length
	}
	return rl.Vector3Scale(v, 1/length), length
}
