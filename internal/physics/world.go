package physics

import (
	"time"

	"collide3d/internal/bvh"
	"collide3d/internal/components"
	"collide3d/internal/engine"

	"github.com/benbjohnson/clock"
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// minCellSize keeps the grid usable when every bounding sphere is tiny.
const minCellSize = 1.0

// CellKey addresses one cell of the broad-phase grid.
type CellKey struct {
	X, Y, Z int
}

func posToCell(pos rl.Vector3, size float32) CellKey {
	return CellKey{
		X: int(math32.Floor(pos.X / size)),
		Y: int(math32.Floor(pos.Y / size)),
		Z: int(math32.Floor(pos.Z / size)),
	}
}

// CollisionPair represents two objects that are colliding.
type CollisionPair struct {
	A, B *engine.GameObject
}

// makePair creates a consistent collision pair (smaller UID first).
func makePair(a, b *engine.GameObject) CollisionPair {
	if a.UID > b.UID {
		return CollisionPair{A: b, B: a}
	}
	return CollisionPair{A: a, B: b}
}

// PhysicsWorld moves collidable meshes and resolves collisions between them.
type PhysicsWorld struct {
	Objects []*engine.GameObject

	grid     map[CellKey][]*engine.GameObject
	cellSize float32

	// Collision tracking for callbacks
	activeCollisions  map[CollisionPair]bool // resolved last step
	currentCollisions map[CollisionPair]bool // resolved this step

	cooldowns   *Cooldowns
	clock       clock.Clock
	logger      *zap.SugaredLogger
	stabilize   StabilizationPolicy
	treeOptions []bvh.Option

	lastLoggedCount int

	// OnCollision fires once for every resolved contact.
	OnCollision engine.EventWithArg[Contact]
}

type Option func(*PhysicsWorld)

// WithClock sets the time source used for cooldowns.
func WithClock(c clock.Clock) Option {
	return func(p *PhysicsWorld) { p.clock = c }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(p *PhysicsWorld) { p.logger = l }
}

// WithCooldown sets how long a pair is ignored after it collides.
func WithCooldown(d time.Duration) Option {
	return func(p *PhysicsWorld) { p.cooldowns = NewCooldowns(d) }
}

func WithStabilization(policy StabilizationPolicy) Option {
	return func(p *PhysicsWorld) { p.stabilize = policy }
}

// WithTreeOptions sets the options used to build hierarchies for colliders
// added without one.
func WithTreeOptions(opts ...bvh.Option) Option {
	return func(p *PhysicsWorld) { p.treeOptions = opts }
}

func NewPhysicsWorld(opts ...Option) *PhysicsWorld {
	p := &PhysicsWorld{
		Objects:           make([]*engine.GameObject, 0),
		grid:              make(map[CellKey][]*engine.GameObject),
		cellSize:          minCellSize,
		activeCollisions:  make(map[CollisionPair]bool),
		currentCollisions: make(map[CollisionPair]bool),
		cooldowns:         NewCooldowns(DefaultCooldown),
		clock:             clock.New(),
		logger:            zap.NewNop().Sugar(),
		stabilize:         ClampToPreCollisionRange,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Cooldowns exposes the pair cooldown table.
func (p *PhysicsWorld) Cooldowns() *Cooldowns {
	return p.cooldowns
}

func (p *PhysicsWorld) Clock() clock.Clock {
	return p.clock
}

// AddObject registers g. It must carry a MeshCollider and a Rigidbody; a
// collider without a hierarchy gets one built with the world's tree options.
func (p *PhysicsWorld) AddObject(g *engine.GameObject) error {
	collider := engine.GetComponent[*components.MeshCollider](g)
	if collider == nil || collider.Mesh == nil {
		return errors.Errorf("object %q has no MeshCollider with a mesh", g.Name)
	}
	if engine.GetComponent[*components.Rigidbody](g) == nil {
		return errors.Errorf("object %q has no Rigidbody", g.Name)
	}
	if p.Contains(g) {
		return errors.Errorf("object %q is already registered", g.Name)
	}
	if !collider.IsBuilt() {
		collider.CreateBoundingVolumeHierarchy(p.treeOptions...)
	}
	p.Objects = append(p.Objects, g)
	return nil
}

// RemoveObject unregisters g and forgets its cooldowns and active pairs.
func (p *PhysicsWorld) RemoveObject(g *engine.GameObject) {
	for i, obj := range p.Objects {
		if obj == g {
			p.Objects = append(p.Objects[:i], p.Objects[i+1:]...)
			break
		}
	}
	p.cooldowns.Forget(g.UID)
	for pair := range p.activeCollisions {
		if pair.A == g || pair.B == g {
			delete(p.activeCollisions, pair)
		}
	}
}

func (p *PhysicsWorld) Contains(g *engine.GameObject) bool {
	for _, obj := range p.Objects {
		if obj == g {
			return true
		}
	}
	return false
}

// ObjectCount returns the number of registered objects.
func (p *PhysicsWorld) ObjectCount() int {
	return len(p.Objects)
}

// rebuildGrid sizes cells to the largest bounding sphere diameter, so two
// overlapping spheres always land in the same or neighboring cells.
func (p *PhysicsWorld) rebuildGrid() {
	for k := range p.grid {
		delete(p.grid, k)
	}

	centers := make([]rl.Vector3, len(p.Objects))
	p.cellSize = minCellSize
	for i, obj := range p.Objects {
		bounds := engine.GetComponent[*components.MeshCollider](obj).BoundingSphere()
		centers[i] = bounds.Center
		p.cellSize = math32.Max(p.cellSize, 2*bounds.Radius)
	}
	for i, obj := range p.Objects {
		cell := posToCell(centers[i], p.cellSize)
		p.grid[cell] = append(p.grid[cell], obj)
	}
}

// getNeighborObjects returns all objects in the same cell and the 26 around it.
func (p *PhysicsWorld) getNeighborObjects(obj *engine.GameObject) []*engine.GameObject {
	center := engine.GetComponent[*components.MeshCollider](obj).BoundingSphere().Center
	cell := posToCell(center, p.cellSize)
	var neighbors []*engine.GameObject

	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				key := CellKey{cell.X + dx, cell.Y + dy, cell.Z + dz}
				neighbors = append(neighbors, p.grid[key]...)
			}
		}
	}
	return neighbors
}

// Update advances every object by deltaTime seconds, then resolves each
// unordered pair at most once and dispatches collision callbacks.
func (p *PhysicsWorld) Update(deltaTime float32) []Contact {
	p.currentCollisions = make(map[CollisionPair]bool)

	for _, obj := range p.Objects {
		Tick(obj, deltaTime)
	}

	if n := len(p.Objects); n != p.lastLoggedCount {
		p.lastLoggedCount = n
		p.logger.Infow("physics objects changed", "count", n)
	}

	p.rebuildGrid()

	var contacts []Contact
	checked := make(map[CollisionPair]bool)
	for _, obj := range p.Objects {
		for _, other := range p.getNeighborObjects(obj) {
			if obj == other {
				continue
			}
			pair := makePair(obj, other)
			if checked[pair] {
				continue
			}
			checked[pair] = true

			contact, ok := p.ResolveCollision(pair.A, pair.B)
			if !ok {
				continue
			}
			p.currentCollisions[pair] = true
			contacts = append(contacts, contact)
			p.OnCollision.Invoke(contact)
		}
	}

	p.cooldowns.Prune(p.clock.Now())
	p.dispatchCollisionCallbacks()
	return contacts
}

// dispatchCollisionCallbacks sends OnCollisionEnter/Exit to handlers. A pair
// enters on the step it resolves and exits on the first step it does not.
func (p *PhysicsWorld) dispatchCollisionCallbacks() {
	for pair := range p.currentCollisions {
		if !p.activeCollisions[pair] {
			notifyCollisionEnter(pair.A, pair.B)
			notifyCollisionEnter(pair.B, pair.A)
		}
	}

	for pair := range p.activeCollisions {
		if !p.currentCollisions[pair] {
			notifyCollisionExit(pair.A, pair.B)
			notifyCollisionExit(pair.B, pair.A)
		}
	}

	p.activeCollisions = p.currentCollisions
}

func notifyCollisionEnter(obj, other *engine.GameObject) {
	for _, comp := range obj.Components() {
		if handler, ok := comp.(engine.CollisionHandler); ok {
			handler.OnCollisionEnter(other)
		}
	}
}

func notifyCollisionExit(obj, other *engine.GameObject) {
	for _, comp := range obj.Components() {
		if handler, ok := comp.(engine.CollisionHandler); ok {
			handler.OnCollisionExit(other)
		}
	}
}
