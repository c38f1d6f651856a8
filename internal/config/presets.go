package config

// Presets are named ready-to-run configurations for the CLI.
var Presets = map[string]*Config{
	"stack": {
		World: DefaultConfig().World,
		Scene: SceneConfig{
			Duration: 10, StackHeight: 8, Spheres: 0,
			SpawnHeight: 0, GroundSize: 40, Restitution: 0.1, Friction: 0.6,
		},
	},
	"shower": {
		World: DefaultConfig().World,
		Scene: SceneConfig{
			Duration: 15, StackHeight: 0, Spheres: 50,
			SpawnHeight: 12, GroundSize: 40, Restitution: 0.4, Friction: 0.4,
		},
	},
	"bouncy": {
		World: DefaultConfig().World,
		Scene: SceneConfig{
			Duration: 20, StackHeight: 0, Spheres: 5,
			SpawnHeight: 10, GroundSize: 40, Restitution: 0.9, Friction: 0.2,
		},
	},
	"carousel": {
		World: DefaultConfig().World,
		Scene: SceneConfig{
			Duration: 20, StackHeight: 0, Spheres: 20,
			SpawnHeight: 8, GroundSize: 40, Restitution: 0.2, Friction: 0.7,
			SpinnerSpeed: 30,
		},
	},
	"moon": {
		World: func() WorldConfig {
			w := DefaultConfig().World
			w.Gravity = [3]float32{0, -1.62, 0}
			return w
		}(),
		Scene: SceneConfig{
			Duration: 20, StackHeight: 4, Spheres: 10,
			SpawnHeight: 10, GroundSize: 40, Restitution: 0.3, Friction: 0.5,
		},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
