package engine

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/atomic"
)

// uidCounter hands out UIDs. 0 is reserved for "no object", so the first UID is 1.
var uidCounter = atomic.NewUint64(0)

type GameObject struct {
	UID        uint64
	Name       string
	Tags       []string
	Transform  Transform
	Active     bool
	Scene      *Scene
	Parent     *GameObject
	Children   []*GameObject
	components []Component
	started    bool
}

func NewGameObject(name string) *GameObject {
	return &GameObject{
		UID:        uidCounter.Inc(),
		Name:       name,
		Active:     true,
		Transform:  IdentityTransform(),
		components: make([]Component, 0),
		Children:   make([]*GameObject, 0),
	}
}

func (g *GameObject) AddComponent(c Component) {
	c.SetGameObject(g)
	g.components = append(g.components, c)
}

// GetComponent returns the first component of type T, or the zero value.
func GetComponent[T Component](g *GameObject) T {
	var zero T
	if g == nil {
		return zero
	}
	for _, c := range g.components {
		if typed, ok := c.(T); ok {
			return typed
		}
	}
	return zero
}

func (g *GameObject) Start() {
	if g.started {
		return
	}
	for _, c := range g.components {
		c.Start()
	}
	g.started = true
}

func (g *GameObject) Update(deltaTime float32) {
	if !g.Active {
		return
	}
	for _, c := range g.components {
		c.Update(deltaTime)
	}
}

func (g *GameObject) Components() []Component {
	return g.components
}

func (g *GameObject) HasTag(tag string) bool {
	for _, t := range g.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (g *GameObject) AddChild(child *GameObject) {
	child.Parent = g
	g.Children = append(g.Children, child)
}

func (g *GameObject) RemoveChild(child *GameObject) {
	for i, c := range g.Children {
		if c == child {
			g.Children = append(g.Children[:i], g.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// WorldTransform composes the parent chain with the local transform.
func (g *GameObject) WorldTransform() Transform {
	if g.Parent == nil {
		return g.Transform
	}
	return g.Parent.WorldTransform().Compose(g.Transform)
}

func (g *GameObject) WorldPosition() rl.Vector3 {
	return g.WorldTransform().Position
}

func (g *GameObject) WorldRotation() rl.Quaternion {
	return g.WorldTransform().Rotation
}

func (g *GameObject) WorldScale() float32 {
	return g.WorldTransform().Scale
}

// The Moveable view of a GameObject is its world transform.

func (g *GameObject) CurrentTranslation() rl.Vector3 { return g.WorldPosition() }

func (g *GameObject) CurrentRotation() rl.Quaternion { return g.WorldRotation() }

func (g *GameObject) CurrentScale() float32 { return g.WorldScale() }

func (g *GameObject) CurrentModelTransformation() rl.Matrix {
	return g.WorldTransform().Matrix()
}
