// Package config loads simulator settings from TOML or YAML files.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"collide3d/internal/bvh"
	"collide3d/internal/logging"
	"collide3d/internal/physics"
)

// Config is the root of a simulator configuration file.
type Config struct {
	Physics   Physics   `toml:"physics" yaml:"physics"`
	Hierarchy Hierarchy `toml:"hierarchy" yaml:"hierarchy"`
	Logging   Logging   `toml:"logging" yaml:"logging"`
}

// Physics configures collision response.
type Physics struct {
	// Restitution is given to rigidbodies whose scene entry sets none.
	Restitution   float32 `toml:"restitution" yaml:"restitution"`
	CooldownMS    int     `toml:"cooldown_ms" yaml:"cooldown_ms"`
	Stabilization string  `toml:"stabilization" yaml:"stabilization"`
}

// Hierarchy configures BVH construction for colliders.
type Hierarchy struct {
	LeafThreshold int `toml:"leaf_threshold" yaml:"leaf_threshold"`
	MaxDepth      int `toml:"max_depth" yaml:"max_depth"` // 0 = automatic
}

type Logging struct {
	Level string `toml:"level" yaml:"level"`
}

func Default() Config {
	return Config{
		Physics: Physics{
			Restitution:   1,
			CooldownMS:    int(physics.DefaultCooldown / time.Millisecond),
			Stabilization: physics.StabilizationClamp,
		},
		Hierarchy: Hierarchy{
			LeafThreshold: bvh.DefaultLeafThreshold,
		},
		Logging: Logging{Level: "info"},
	}
}

// Load reads path on top of Default. The format follows the extension:
// .toml, or .yaml / .yml. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&cfg); errors.Is(err, io.EOF) {
			err = nil // empty document
		}
	default:
		return cfg, errors.Errorf("config %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, errors.Wrapf(cfg.Validate(), "config %s", path)
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs error
	if c.Physics.Restitution < 0 || c.Physics.Restitution > 1 {
		errs = multierr.Append(errs, errors.Errorf("physics.restitution %v outside [0, 1]", c.Physics.Restitution))
	}
	if c.Physics.CooldownMS < 0 {
		errs = multierr.Append(errs, errors.Errorf("physics.cooldown_ms %d is negative", c.Physics.CooldownMS))
	}
	if _, err := physics.StabilizationByName(c.Physics.Stabilization); err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "physics.stabilization"))
	}
	if c.Hierarchy.LeafThreshold < 1 {
		errs = multierr.Append(errs, errors.Errorf("hierarchy.leaf_threshold %d must be at least 1", c.Hierarchy.LeafThreshold))
	}
	if c.Hierarchy.MaxDepth < 0 {
		errs = multierr.Append(errs, errors.Errorf("hierarchy.max_depth %d is negative", c.Hierarchy.MaxDepth))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "logging.level"))
	}
	return errs
}

func (p Physics) Cooldown() time.Duration {
	return time.Duration(p.CooldownMS) * time.Millisecond
}

// WorldOptions translates the config into physics world options.
func (c Config) WorldOptions() ([]physics.Option, error) {
	policy, err := physics.StabilizationByName(c.Physics.Stabilization)
	if err != nil {
		return nil, err
	}
	return []physics.Option{
		physics.WithCooldown(c.Physics.Cooldown()),
		physics.WithStabilization(policy),
		physics.WithTreeOptions(c.TreeOptions()...),
	}, nil
}

// TreeOptions translates the hierarchy section into builder options.
func (c Config) TreeOptions() []bvh.Option {
	return []bvh.Option{
		bvh.WithLeafThreshold(c.Hierarchy.LeafThreshold),
		bvh.WithMaxDepth(c.Hierarchy.MaxDepth),
	}
}
