package components

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

// Scene files decode into loosely typed maps; these helpers pull typed
// values back out, falling back to def when the key is absent.

func floatProp(props map[string]any, key string, def float32) (float32, error) {
	v, ok := props[key]
	if !ok || v == nil {
		return def, nil
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, errors.Errorf("%s: expected a number, got %T", key, v)
	}
	return f, nil
}

func intProp(props map[string]any, key string, def int) (int, error) {
	v, ok := props[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
	}
	return 0, errors.Errorf("%s: expected an integer, got %v", key, v)
}

func stringProp(props map[string]any, key, def string) (string, error) {
	v, ok := props[key]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.Errorf("%s: expected a string, got %T", key, v)
	}
	return s, nil
}

// vec3Prop accepts a three element list [x, y, z].
func vec3Prop(props map[string]any, key string, def rl.Vector3) (rl.Vector3, error) {
	v, ok := props[key]
	if !ok || v == nil {
		return def, nil
	}
	list, ok := v.([]any)
	if !ok || len(list) != 3 {
		return rl.Vector3{}, errors.Errorf("%s: expected [x, y, z], got %v", key, v)
	}
	var xyz [3]float32
	for i, c := range list {
		f, ok := toFloat(c)
		if !ok {
			return rl.Vector3{}, errors.Errorf("%s[%d]: expected a number, got %T", key, i, c)
		}
		xyz[i] = f
	}
	return rl.Vector3{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

func toFloat(v any) (float32, bool) {
	switch n := v.(type) {
	case float64:
		return float32(n), true
	case float32:
		return n, true
	case int:
		return float32(n), true
	case int64:
		return float32(n), true
	}
	return 0, false
}
