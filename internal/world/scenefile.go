package world

import (
	"maps"
	"os"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"collide3d/internal/components"
	"collide3d/internal/engine"
)

// --- YAML types ---

type SceneFile struct {
	Objects []ObjectDef `yaml:"objects"`
}

type ObjectDef struct {
	Name       string           `yaml:"name"`
	Tags       []string         `yaml:"tags,omitempty"`
	Position   [3]float32       `yaml:"position"`
	Rotation   RotationDef      `yaml:"rotation,omitempty"`
	Scale      float32          `yaml:"scale,omitempty"`
	Components []map[string]any `yaml:"components"`
}

// RotationDef is an axis and an angle in degrees.
type RotationDef struct {
	Axis  [3]float32 `yaml:"axis"`
	Angle float32    `yaml:"angle"`
}

func (r RotationDef) quaternion() rl.Quaternion {
	axis := rl.Vector3{X: r.Axis[0], Y: r.Axis[1], Z: r.Axis[2]}
	if r.Angle == 0 || rl.Vector3Length(axis) == 0 {
		return rl.QuaternionIdentity()
	}
	return rl.QuaternionFromAxisAngle(rl.Vector3Normalize(axis), r.Angle*rl.Deg2rad)
}

func rotationDefOf(q rl.Quaternion) RotationDef {
	var axis rl.Vector3
	var angle float32
	rl.QuaternionToAxisAngle(q, &axis, &angle)
	if math32.Abs(angle) < 1e-6 {
		return RotationDef{}
	}
	return RotationDef{Axis: [3]float32{axis.X, axis.Y, axis.Z}, Angle: angle * rl.Rad2deg}
}

// --- Loading ---

func (w *World) LoadScene(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read scene")
	}
	return errors.Wrapf(w.LoadSceneData(data), "scene %s", path)
}

// LoadSceneData creates and spawns every object in a YAML scene. Unknown
// component types are skipped with a warning; malformed ones fail the load.
func (w *World) LoadSceneData(data []byte) error {
	var sf SceneFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return errors.Wrap(err, "parse scene")
	}

	for i, objDef := range sf.Objects {
		g, err := w.buildObject(objDef)
		if err != nil {
			return errors.Wrapf(err, "object %d (%s)", i, objDef.Name)
		}
		if err := w.Spawn(g); err != nil {
			return err
		}
	}
	w.logger.Infow("scene loaded", "objects", len(sf.Objects), "collidable", w.PhysicsWorld.ObjectCount())
	return nil
}

func (w *World) buildObject(objDef ObjectDef) (*engine.GameObject, error) {
	g := engine.NewGameObject(objDef.Name)
	g.Tags = objDef.Tags
	g.Transform.Position = rl.Vector3{X: objDef.Position[0], Y: objDef.Position[1], Z: objDef.Position[2]}
	g.Transform.Rotation = objDef.Rotation.quaternion()

	// Default scale to 1 if unset
	switch {
	case objDef.Scale == 0:
		g.Transform.Scale = 1
	case objDef.Scale < 0:
		return nil, errors.Errorf("negative scale %v", objDef.Scale)
	default:
		g.Transform.Scale = objDef.Scale
	}

	for j, raw := range objDef.Components {
		typ, ok := raw["type"].(string)
		if !ok {
			return nil, errors.Errorf("component %d has no type", j)
		}
		props := maps.Clone(raw)
		delete(props, "type")

		c, err := engine.CreateComponent(typ, props)
		if errors.Is(err, engine.ErrUnknownComponent) {
			w.logger.Warnw("skipping unknown component", "object", objDef.Name, "type", typ)
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "component %d", j)
		}
		w.configure(c, props)
		g.AddComponent(c)
	}
	return g, nil
}

// configure fills in world defaults the scene entry left unset.
func (w *World) configure(c engine.Component, props map[string]any) {
	switch comp := c.(type) {
	case *components.Rigidbody:
		if _, set := props["restitution"]; !set {
			comp.Restitution = w.defaultRestitution
		}
	case *components.MeshCollider:
		if comp.LeafThreshold == 0 && comp.MaxDepth == 0 {
			comp.CreateBoundingVolumeHierarchy(w.treeOptions...)
		}
	}
}

// --- Saving ---

type serializable interface {
	Serialize() map[string]any
}

func (w *World) SaveScene(path string) error {
	data, err := w.MarshalScene()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "write scene")
	}
	return nil
}

// MarshalScene writes every top-level object as YAML. Components without a
// scene representation are left out.
func (w *World) MarshalScene() ([]byte, error) {
	var sf SceneFile
	for _, g := range w.Scene.GameObjects {
		if g.Parent != nil {
			continue
		}
		objDef := ObjectDef{
			Name:     g.Name,
			Tags:     g.Tags,
			Position: [3]float32{g.Transform.Position.X, g.Transform.Position.Y, g.Transform.Position.Z},
			Rotation: rotationDefOf(g.Transform.Rotation),
			Scale:    g.Transform.Scale,
		}
		for _, c := range g.Components() {
			s, ok := c.(serializable)
			if !ok {
				continue
			}
			props := s.Serialize()
			if props == nil {
				continue
			}
			props["type"] = componentType(c)
			objDef.Components = append(objDef.Components, props)
		}
		sf.Objects = append(sf.Objects, objDef)
	}

	data, err := yaml.Marshal(sf)
	if err != nil {
		return nil, errors.Wrap(err, "marshal scene")
	}
	return data, nil
}

func componentType(c engine.Component) string {
	switch c.(type) {
	case *components.MeshCollider:
		return "MeshCollider"
	case *components.Rigidbody:
		return "Rigidbody"
	}
	return ""
}
