package config

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/yzscodehub/RenderVerseX-sub004/internal/physics"
)

const (
	DefaultTimeStep = 1.0 / 60.0
	DefaultDuration = 10.0
	DefaultGravityY = -9.81
)

type Config struct {
	World WorldConfig `yaml:"world"`
	Scene SceneConfig `yaml:"scene"`
}

type WorldConfig struct {
	Gravity            [3]float32 `yaml:"gravity"`
	FixedTimeStep      float32    `yaml:"fixed_timestep"`
	MaxSubSteps        int        `yaml:"max_substeps"`
	VelocityIterations int        `yaml:"velocity_iterations"`
	PositionIterations int        `yaml:"position_iterations"`
	MaxContactPairs    int        `yaml:"max_contact_pairs"`

	SleepLinearThreshold  float32 `yaml:"sleep_linear_threshold"`
	SleepAngularThreshold float32 `yaml:"sleep_angular_threshold"`
	SleepTime             float32 `yaml:"sleep_time"`

	EnableSleeping bool `yaml:"enable_sleeping"`
	EnableCCD      bool `yaml:"enable_ccd"`

	// Fraction of a body's bounding radius traveled per substep before
	// continuous sweeping engages.
	CCDMotionThreshold float32 `yaml:"ccd_motion_threshold"`
}

type SceneConfig struct {
	Duration    float32 `yaml:"duration"` // seconds to simulate
	StackHeight int     `yaml:"stack_height"`
	Spheres     int     `yaml:"spheres"`
	SpawnHeight float32 `yaml:"spawn_height"`
	GroundSize  float32 `yaml:"ground_size"`
	Restitution float32 `yaml:"restitution"`
	Friction    float32 `yaml:"friction"`

	// SpinnerSpeed, when nonzero, adds a kinematic platform rotating at
	// this many degrees per second above the ground.
	SpinnerSpeed float32 `yaml:"spinner_speed"`
}

func DefaultConfig() *Config {
	return &Config{
		World: WorldConfig{
			Gravity:               [3]float32{0, DefaultGravityY, 0},
			FixedTimeStep:         DefaultTimeStep,
			MaxSubSteps:           8,
			VelocityIterations:    8,
			PositionIterations:    3,
			MaxContactPairs:       4096,
			SleepLinearThreshold:  physics.DefaultSleepLinearThreshold,
			SleepAngularThreshold: physics.DefaultSleepAngularThreshold,
			SleepTime:             physics.DefaultSleepTime,
			EnableSleeping:        true,
			EnableCCD:             true,
			CCDMotionThreshold:    1,
		},
		Scene: SceneConfig{
			Duration:    DefaultDuration,
			StackHeight: 5,
			Spheres:     10,
			SpawnHeight: 8,
			GroundSize:  40,
			Restitution: 0.3,
			Friction:    0.5,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ToWorldConfig converts the yaml representation into the simulation's
// config struct.
func (c *Config) ToWorldConfig() physics.WorldConfig {
	w := c.World
	return physics.WorldConfig{
		Gravity:               mgl32.Vec3{w.Gravity[0], w.Gravity[1], w.Gravity[2]},
		FixedTimeStep:         w.FixedTimeStep,
		MaxSubSteps:           w.MaxSubSteps,
		VelocityIterations:    w.VelocityIterations,
		PositionIterations:    w.PositionIterations,
		MaxContactPairs:       w.MaxContactPairs,
		SleepLinearThreshold:  w.SleepLinearThreshold,
		SleepAngularThreshold: w.SleepAngularThreshold,
		SleepTime:             w.SleepTime,
		EnableSleeping:        w.EnableSleeping,
		EnableCCD:             w.EnableCCD,
		CCDMotionThreshold:    w.CCDMotionThreshold,
	}
}
