package engine

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// ErrUnknownComponent is returned by CreateComponent for unregistered names.
var ErrUnknownComponent = errors.New("unknown component type")

// ComponentFactory creates a Component from decoded scene-file props.
type ComponentFactory func(props map[string]any) (Component, error)

var componentRegistry = map[string]ComponentFactory{}

// RegisterComponent registers a named component factory. Components call this
// from init so scene files can refer to them by type name.
func RegisterComponent(name string, factory ComponentFactory) {
	if _, exists := componentRegistry[name]; exists {
		panic(fmt.Sprintf("component %q already registered", name))
	}
	componentRegistry[name] = factory
}

// CreateComponent looks up a registered component by name and builds it from props.
func CreateComponent(name string, props map[string]any) (Component, error) {
	factory, ok := componentRegistry[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownComponent, name)
	}
	c, err := factory(props)
	if err != nil {
		return nil, errors.Wrapf(err, "component %s", name)
	}
	return c, nil
}

// RegisteredComponents returns the sorted names of all registered components.
func RegisteredComponents() []string {
	names := lo.Keys(componentRegistry)
	slices.Sort(names)
	return names
}
