package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 500*time.Millisecond, cfg.Physics.Cooldown())
	assert.Equal(t, 4, cfg.Hierarchy.LeafThreshold)
	assert.Equal(t, "clamp", cfg.Physics.Stabilization)

	opts, err := cfg.WorldOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 3)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "sim.toml", `
[physics]
cooldown_ms = 250
stabilization = "none"

[hierarchy]
leaf_threshold = 8
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Physics.Cooldown())
	assert.Equal(t, "none", cfg.Physics.Stabilization)
	assert.Equal(t, 8, cfg.Hierarchy.LeafThreshold)
	// untouched keys keep their defaults
	assert.Equal(t, float32(1), cfg.Physics.Restitution)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "sim.yml", `
physics:
  restitution: 0.5
hierarchy:
  max_depth: 3
logging:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), cfg.Physics.Restitution)
	assert.Equal(t, 3, cfg.Hierarchy.MaxDepth)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "sim.json", `{}`))
	assert.ErrorContains(t, err, "unsupported extension")

	_, err = Load(writeFile(t, "sim.toml", `[physics`))
	assert.ErrorContains(t, err, "parse config")

	_, err = Load(writeFile(t, "sim.yaml", "physics:\n  restitution: 3\n"))
	assert.ErrorContains(t, err, "restitution")
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	// The collider tree type is fixed; a volume key is a stale setting, not
	// something to silently ignore.
	_, err := Load(writeFile(t, "sim.toml", "[hierarchy]\nleaf_threshold = 4\nvolume = \"obb\"\n"))
	assert.ErrorContains(t, err, "parse config")

	_, err = Load(writeFile(t, "sim.yml", "hierarchy:\n  volume: obb\n"))
	assert.ErrorContains(t, err, "volume")

	cfg, err := Load(writeFile(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestShippedSceneConfigLoads(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "scenes", "collide_sim.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Physics.Restitution = -1
	cfg.Physics.CooldownMS = -5
	cfg.Physics.Stabilization = "energy"
	cfg.Hierarchy.LeafThreshold = 0
	cfg.Hierarchy.MaxDepth = -1
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 6)

	_, err = cfg.WorldOptions()
	assert.Error(t, err)
}
