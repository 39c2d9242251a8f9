package config

import (
	_ "embed"
)

//go:embed defaults/breach.yaml
var defaultYAML []byte

// Default returns the hard-coded configuration, matching defaults/breach.yaml.
func Default() Config {
	return Config{
		Physics: Physics{
			DT:          1.0 / 60.0,
			Gravity:     1.0,
			Friction:    true,
			FloorHeight: 0,
		},
		Player: Player{
			HalfSize:      0.5,
			MaxSpeed:      3.0,
			StrafeImpulse: 0.05,
			JumpImpulse:   0.15,
			SpinSpeed:     1.0,
		},
		Wall: Wall{
			HalfSize:        1.0,
			Width:           6,
			Height:          3,
			Spacing:         2.1,
			StartZ:          20,
			Speed:           1.5,
			ExplosionFactor: 2.0,
			PassDistance:    2.0,
		},
		Menu: Menu{
			HalfSize: 0.5,
			Offset:   3.0,
		},
		Broadphase: Broadphase{
			Enabled:  true,
			CellSize: 4.0,
			NumCells: 256,
		},
	}
}
