package engine

import (
	"maps"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockComponent struct {
	BaseComponent
	Speed float32
}

func mockFactory(props map[string]any) (Component, error) {
	c := &mockComponent{}
	if v, ok := props["speed"].(float64); ok {
		c.Speed = float32(v)
	}
	if _, ok := props["broken"]; ok {
		return nil, errors.New("broken props")
	}
	return c, nil
}

// emptyRegistry swaps in a fresh registry for the duration of the test.
func emptyRegistry(t *testing.T) {
	saved := maps.Clone(componentRegistry)
	componentRegistry = map[string]ComponentFactory{}
	t.Cleanup(func() { componentRegistry = saved })
}

func TestRegisterComponent(t *testing.T) {
	emptyRegistry(t)
	RegisterComponent("Mock", mockFactory)
	assert.Contains(t, componentRegistry, "Mock")
	assert.Panics(t, func() { RegisterComponent("Mock", mockFactory) })
}

func TestCreateComponent(t *testing.T) {
	emptyRegistry(t)
	RegisterComponent("Mock", mockFactory)

	c, err := CreateComponent("Mock", map[string]any{"speed": 2.5})
	require.NoError(t, err)
	require.IsType(t, &mockComponent{}, c)
	assert.Equal(t, float32(2.5), c.(*mockComponent).Speed)

	_, err = CreateComponent("Missing", nil)
	assert.ErrorIs(t, err, ErrUnknownComponent)
	assert.ErrorContains(t, err, "Missing")

	_, err = CreateComponent("Mock", map[string]any{"broken": true})
	assert.ErrorContains(t, err, "component Mock: broken props")
	assert.NotErrorIs(t, err, ErrUnknownComponent)
}

func TestRegisteredComponentsSorted(t *testing.T) {
	emptyRegistry(t)
	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		RegisterComponent(name, mockFactory)
	}
	assert.Equal(t, []string{"Alpha", "Mid", "Zeta"}, RegisteredComponents())
}
