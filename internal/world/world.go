// Package world ties a Scene to a PhysicsWorld and loads both from scene
// files.
package world

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"collide3d/internal/bvh"
	"collide3d/internal/components"
	"collide3d/internal/config"
	"collide3d/internal/engine"
	"collide3d/internal/physics"
)

type World struct {
	Scene        *engine.Scene
	PhysicsWorld *physics.PhysicsWorld

	logger             *zap.SugaredLogger
	defaultRestitution float32
	treeOptions        []bvh.Option
}

// New builds an empty world from cfg. Extra physics options are applied
// after the ones derived from cfg.
func New(cfg config.Config, logger *zap.SugaredLogger, extra ...physics.Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := cfg.WorldOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, physics.WithLogger(logger.Named("physics")))
	opts = append(opts, extra...)

	w := &World{
		Scene:              engine.NewScene("Main"),
		PhysicsWorld:       physics.NewPhysicsWorld(opts...),
		logger:             logger,
		defaultRestitution: cfg.Physics.Restitution,
		treeOptions:        cfg.TreeOptions(),
	}
	// Destroyed objects leave the simulation with their cooldowns.
	w.Scene.OnDestroy.AddListener(w.PhysicsWorld.RemoveObject)
	return w, nil
}

// Spawn adds g to the scene and, when it is collidable, to the physics world.
func (w *World) Spawn(g *engine.GameObject) error {
	collidable := engine.GetComponent[*components.MeshCollider](g) != nil ||
		engine.GetComponent[*components.Rigidbody](g) != nil
	if collidable {
		if err := w.PhysicsWorld.AddObject(g); err != nil {
			return errors.Wrapf(err, "spawn %q", g.Name)
		}
	}
	w.Scene.AddGameObject(g)
	return nil
}

func (w *World) Destroy(g *engine.GameObject) {
	w.Scene.Destroy(g)
}

// Start runs every component's Start.
func (w *World) Start() {
	w.Scene.Start()
}

// Step advances the scene and physics by dt seconds.
func (w *World) Step(dt float32) []physics.Contact {
	w.Scene.Update(dt)
	return w.PhysicsWorld.Update(dt)
}
