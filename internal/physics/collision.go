package physics

import (
	"collide3d/internal/bvh"
	"collide3d/internal/components"
	"collide3d/internal/engine"
	"collide3d/internal/geometry"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Contact describes one resolved collision between A and B.
type Contact struct {
	A, B      *engine.GameObject
	TriangleA int
	TriangleB int
	Point     rl.Vector3 // midpoint of the two triangle centroids
	Normal    rl.Vector3 // unit, from A toward B
	Impulse   float32
}

// collidable is the pair of components every physics object carries.
type collidable struct {
	obj      *engine.GameObject
	collider *components.MeshCollider
	body     *components.Rigidbody
}

func collidableOf(g *engine.GameObject) (collidable, bool) {
	c := collidable{
		obj:      g,
		collider: engine.GetComponent[*components.MeshCollider](g),
		body:     engine.GetComponent[*components.Rigidbody](g),
	}
	return c, c.collider != nil && c.collider.IsBuilt() && c.body != nil
}

func (c collidable) sphereBody() SphereBody {
	return SphereBody{Bounds: c.collider.BoundingSphere(), Motion: &c.body.Motion}
}

// ResolveCollision detects and responds to a collision between a and b.
// Within the cooldown window of a previous collision between the two it
// does nothing, so repeated calls while the meshes still overlap do not
// keep bouncing them. It reports a contact whenever the meshes intersect
// outside the cooldown; the impulse is zero if they were already separating.
func (p *PhysicsWorld) ResolveCollision(a, b *engine.GameObject) (Contact, bool) {
	ca, okA := collidableOf(a)
	cb, okB := collidableOf(b)
	if !okA || !okB || a == b {
		return Contact{}, false
	}

	now := p.clock.Now()
	if p.cooldowns.Active(a.UID, b.UID, now) {
		return Contact{}, false
	}

	xfA, xfB := a.WorldTransform(), b.WorldTransform()
	idsA, idsB := bvh.Intersect(ca.collider.Tree, xfA, cb.collider.Tree, xfB)
	if idsA.Len() == 0 || idsB.Len() == 0 {
		return Contact{}, false
	}

	triA, triB, ok := refine(ca.collider, idsA, cb.collider, idsB)
	if !ok {
		return Contact{}, false
	}

	contact := Contact{
		A:         a,
		B:         b,
		TriangleA: triA,
		TriangleB: triB,
	}
	worldA := ca.collider.WorldTriangle(triA)
	worldB := cb.collider.WorldTriangle(triB)
	contact.Point = rl.Vector3Scale(rl.Vector3Add(worldA.Centroid(), worldB.Centroid()), 0.5)

	bodyA, bodyB := ca.sphereBody(), cb.sphereBody()
	contact.Normal = contactNormal(worldA, bodyA.Bounds.Center, bodyB.Bounds.Center)

	restitution := (ca.body.Restitution + cb.body.Restitution) / 2
	contact.Impulse = SolveImpulse(bodyA, bodyB, contact.Point, contact.Normal, restitution, p.stabilize)

	p.cooldowns.Record(a.UID, b.UID, now)
	ca.body.RecordCollision(b, now)
	cb.body.RecordCollision(a, now)

	p.logger.Debugw("collision resolved",
		"a", a.Name, "b", b.Name,
		"triangleA", triA, "triangleB", triB,
		"impulse", contact.Impulse)
	return contact, true
}

// refine runs the exact triangle test over the candidates in ascending id
// order and returns the first intersecting pair.
func refine(a *components.MeshCollider, idsA bvh.IDSet, b *components.MeshCollider, idsB bvh.IDSet) (int, int, bool) {
	candidatesB := idsB.Sorted()
	worldB := make([]geometry.Triangle, len(candidatesB))
	for i, id := range candidatesB {
		worldB[i] = b.WorldTriangle(id)
	}

	for _, idA := range idsA.Sorted() {
		triA := a.WorldTriangle(idA)
		for i, triB := range worldB {
			if triA.Intersects(triB) {
				return idA, candidatesB[i], true
			}
		}
	}
	return 0, 0, false
}

// contactNormal is triA's face normal, flipped if needed so it points from
// A's center toward B's. Degenerate faces fall back to the center line.
func contactNormal(triA geometry.Triangle, centerA, centerB rl.Vector3) rl.Vector3 {
	between := rl.Vector3Subtract(centerB, centerA)
	n := triA.Normal()
	if rl.Vector3Length(n) == 0 {
		return rl.Vector3Normalize(between)
	}
	if rl.Vector3DotProduct(n, between) < 0 {
		n = rl.Vector3Negate(n)
	}
	return n
}
