package engine

// GameObjectRef refers to a GameObject by UID without keeping it alive.
// UIDs are never reused, so a ref to a destroyed object resolves to nil
// instead of to whatever took its place.
//
// Example:
//
//	var partner engine.GameObjectRef
//	partner.Set(other)
//	if g := partner.Get(scene); g != nil {
//	    // still alive
//	}
type GameObjectRef struct {
	UID uint64 // 0 = none
}

// RefTo returns a reference to g (the empty ref for nil).
func RefTo(g *GameObject) GameObjectRef {
	var r GameObjectRef
	r.Set(g)
	return r
}

// Get resolves the reference in scene. Returns nil for the empty ref, a nil
// scene, or an object that is no longer in the scene.
func (r GameObjectRef) Get(scene *Scene) *GameObject {
	if r.UID == 0 || scene == nil {
		return nil
	}
	return scene.FindByUID(r.UID)
}

// IsValid reports whether the ref points at something. It does not check
// that the object still exists.
func (r GameObjectRef) IsValid() bool {
	return r.UID != 0
}

// Refers reports whether the ref names g.
func (r GameObjectRef) Refers(g *GameObject) bool {
	return g != nil && r.UID != 0 && r.UID == g.UID
}

// Set points the reference at g. Pass nil to clear it.
func (r *GameObjectRef) Set(g *GameObject) {
	if g == nil {
		r.UID = 0
	} else {
		r.UID = g.UID
	}
}

func (r *GameObjectRef) Clear() {
	r.UID = 0
}
