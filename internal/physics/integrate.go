package physics

import (
	"collide3d/internal/bvh"
	"collide3d/internal/components"
	"collide3d/internal/engine"
	"collide3d/internal/geometry"
)

// Tick advances obj by dt seconds with explicit Euler steps on position
// and orientation. Objects without a Rigidbody do not move.
func Tick(obj *engine.GameObject, dt float32) {
	rb := engine.GetComponent[*components.Rigidbody](obj)
	if rb == nil {
		return
	}
	rb.Tick(dt)
}

// NewCollidableMesh builds a game object carrying mesh with its hierarchy
// already built, placed at xf and moving with motion.
func NewCollidableMesh(name string, mesh *geometry.Mesh, motion components.MotionProperties, xf engine.Transform, opts ...bvh.Option) *engine.GameObject {
	obj := engine.NewGameObject(name)
	obj.Transform = xf

	collider := components.NewMeshCollider(mesh)
	collider.CreateBoundingVolumeHierarchy(opts...)
	obj.AddComponent(collider)
	obj.AddComponent(components.NewRigidbody(motion))
	return obj
}
