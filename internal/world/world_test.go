package world

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collide3d/internal/components"
	"collide3d/internal/config"
	"collide3d/internal/engine"
	"collide3d/internal/logging"
	"collide3d/internal/physics"
)

const headOnScene = `
objects:
  - name: left
    tags: [ball]
    position: [-1.5, 0, 0]
    scale: 1
    components:
      - type: MeshCollider
        mesh: icosphere
        size: 1
        subdivisions: 1
      - type: Rigidbody
        direction: [1, 0, 0]
        speed: 1
  - name: right
    tags: [ball]
    position: [1.5, 0, 0]
    rotation: {axis: [0, 1, 0], angle: 90}
    components:
      - type: MeshCollider
        mesh: icosphere
        size: 2
        subdivisions: 1
      - type: Rigidbody
        direction: [-1, 0, 0]
        speed: 1
        restitution: 0.5
      - type: Sparkles
        color: gold
  - name: marker
    position: [0, 10, 0]
`

func newTestWorld(t *testing.T, mock *clock.Mock) *World {
	t.Helper()
	cfg := config.Default()
	cfg.Physics.Restitution = 0.8
	w, err := New(cfg, logging.NewTestLogger(t), physics.WithClock(mock))
	require.NoError(t, err)
	return w
}

func TestLoadSceneData(t *testing.T) {
	w := newTestWorld(t, clock.NewMock())
	require.NoError(t, w.LoadSceneData([]byte(headOnScene)))

	assert.Len(t, w.Scene.GameObjects, 3)
	assert.Equal(t, 2, w.PhysicsWorld.ObjectCount())
	assert.Len(t, w.Scene.FindByTag("ball"), 2)

	left := w.Scene.FindByName("left")
	require.NotNil(t, left)
	rb := engine.GetComponent[*components.Rigidbody](left)
	require.NotNil(t, rb)
	assert.Equal(t, float32(0.8), rb.Restitution, "config default")
	assert.Equal(t, float32(1), left.Transform.Scale)

	right := w.Scene.FindByName("right")
	assert.Equal(t, float32(0.5), engine.GetComponent[*components.Rigidbody](right).Restitution)
	mc := engine.GetComponent[*components.MeshCollider](right)
	require.True(t, mc.IsBuilt())
	assert.Equal(t, config.Default().Hierarchy.LeafThreshold, mc.Tree.LeafThreshold())
	assert.Len(t, right.Components(), 2, "unknown component skipped")
}

func TestLoadSceneErrors(t *testing.T) {
	for name, body := range map[string]string{
		"not yaml":         "objects: [",
		"missing type":     "objects:\n  - name: a\n    components:\n      - mesh: box\n",
		"bad mesh":         "objects:\n  - name: a\n    components:\n      - type: MeshCollider\n        mesh: teapot\n",
		"short position":   "objects:\n  - name: a\n    position: [1, 2]\n",
		"negative scale":   "objects:\n  - name: a\n    scale: -1\n",
		"no mesh for body": "objects:\n  - name: a\n    components:\n      - type: Rigidbody\n        speed: 1\n",
	} {
		w := newTestWorld(t, clock.NewMock())
		assert.Error(t, w.LoadSceneData([]byte(body)), name)
	}

	w := newTestWorld(t, clock.NewMock())
	assert.Error(t, w.LoadScene(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestStepResolvesCollision(t *testing.T) {
	mock := clock.NewMock()
	w := newTestWorld(t, mock)
	require.NoError(t, w.LoadSceneData([]byte(headOnScene)))
	w.Start()

	// radii 1 and 2 at 3 apart: touching shells overlap after a short step
	contacts := w.Step(0.25)
	require.Len(t, contacts, 1)

	left := w.Scene.FindByName("left")
	rb := engine.GetComponent[*components.Rigidbody](left)
	assert.True(t, rb.LastPartner.Refers(w.Scene.FindByName("right")))

	mock.Add(100 * time.Millisecond)
	assert.Empty(t, w.Step(0))
}

func TestDestroyForgetsPartner(t *testing.T) {
	mock := clock.NewMock()
	w := newTestWorld(t, mock)
	require.NoError(t, w.LoadSceneData([]byte(headOnScene)))
	require.Len(t, w.Step(0.25), 1)

	left := w.Scene.FindByName("left")
	right := w.Scene.FindByName("right")
	w.Destroy(right)

	assert.Equal(t, 1, w.PhysicsWorld.ObjectCount())
	assert.Zero(t, w.PhysicsWorld.Cooldowns().Len())
	rb := engine.GetComponent[*components.Rigidbody](left)
	assert.Nil(t, rb.LastPartner.Get(w.Scene))
}

func TestSaveSceneRoundTrip(t *testing.T) {
	w := newTestWorld(t, clock.NewMock())
	require.NoError(t, w.LoadSceneData([]byte(headOnScene)))

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, w.SaveScene(path))

	again := newTestWorld(t, clock.NewMock())
	require.NoError(t, again.LoadScene(path))
	assert.Len(t, again.Scene.GameObjects, 3)
	assert.Equal(t, 2, again.PhysicsWorld.ObjectCount())

	right := again.Scene.FindByName("right")
	assert.InDelta(t, 1.5, right.Transform.Position.X, 1e-6)
	assert.InDelta(t, 0.5, engine.GetComponent[*components.Rigidbody](right).Restitution, 1e-6)
	assert.Equal(t,
		engine.GetComponent[*components.MeshCollider](w.Scene.FindByName("right")).TriangleCount(),
		engine.GetComponent[*components.MeshCollider](right).TriangleCount())
}
