package main

import (
	"bytes"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collide3d/internal/config"
	"collide3d/internal/logging"
)

func repoFile(t *testing.T, parts ...string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(append([]string{filepath.Dir(file), "..", ".."}, parts...)...)
}

func TestSimulateHeadOnScene(t *testing.T) {
	cfg, err := config.Load(repoFile(t, "scenes", "collide_sim.toml"))
	require.NoError(t, err)

	var out bytes.Buffer
	err = simulate(&out, cfg, logging.NewTestLogger(t), repoFile(t, "scenes", "head_on.yaml"), 240, 1.0/60.0)
	require.NoError(t, err)

	table := out.String()
	for _, name := range []string{"left", "right", "crate"} {
		assert.Contains(t, table, name)
	}
}

func TestSimulateMissingScene(t *testing.T) {
	var out bytes.Buffer
	err := simulate(&out, config.Default(), logging.NewTestLogger(t), filepath.Join(t.TempDir(), "none.yaml"), 1, 0.1)
	assert.Error(t, err)
	assert.Zero(t, out.Len())
}
