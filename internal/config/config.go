// Package config provides YAML-based configuration of the game physics and
// wall generation.
package config

import (
	"errors"
	"fmt"
)

var ErrInvalid = errors.New("config: invalid value")

// Config contains all the tunables of a game.
type Config struct {
	Physics    Physics    `yaml:"physics"`
	Player     Player     `yaml:"player"`
	Wall       Wall       `yaml:"wall"`
	Menu       Menu       `yaml:"menu"`
	Broadphase Broadphase `yaml:"broadphase"`
}

// Physics defines the simulation parameters.
type Physics struct {
	DT       float64 `yaml:"dt"`       // fixed timestep, seconds
	Gravity  float64 `yaml:"gravity"`  // downward acceleration, m/s²
	Friction bool    `yaml:"friction"` // damp the player sliding on the floor
	// FloorHeight is the distance of the floor plane from the origin along +Y
	FloorHeight float64 `yaml:"floor_height"`
}

// Player defines the player cube and its controls.
type Player struct {
	HalfSize      float64 `yaml:"half_size"`
	MaxSpeed      float64 `yaml:"max_speed"`
	StrafeImpulse float64 `yaml:"strafe_impulse"` // velocity added per frame with left/right held
	JumpImpulse   float64 `yaml:"jump_impulse"`   // velocity added per frame with jump held
	SpinSpeed     float64 `yaml:"spin_speed"`     // rad/s around Y
}

// Wall defines the incoming wall of boxes.
type Wall struct {
	HalfSize float64 `yaml:"half_size"` // half size of one wall box
	Width    int     `yaml:"width"`     // boxes per row
	Height   int     `yaml:"height"`    // boxes per column
	Spacing  float64 `yaml:"spacing"`   // horizontal distance between box centers, in half sizes
	StartZ   float64 `yaml:"start_z"`
	Speed    float64 `yaml:"speed"` // toward the player, along -Z
	// ExplosionFactor scales the push of every box away from the player on a hit
	ExplosionFactor float64 `yaml:"explosion_factor"`
	// PassDistance is how far behind the player the wall must be to score
	PassDistance float64 `yaml:"pass_distance"`
}

// Menu defines the menu boxes the player touches to pick an entry.
type Menu struct {
	HalfSize float64 `yaml:"half_size"`
	Offset   float64 `yaml:"offset"` // distance of the entries from the center along X
}

// Broadphase defines the spatial grid used for wall debris.
type Broadphase struct {
	Enabled  bool    `yaml:"enabled"`
	CellSize float64 `yaml:"cell_size"`
	NumCells int     `yaml:"num_cells"`
}

// Validate reports the first inconsistent value
func (c Config) Validate() error {
	switch {
	case c.Physics.DT <= 0:
		return fmt.Errorf("%w: physics.dt must be positive, got %v", ErrInvalid, c.Physics.DT)
	case c.Physics.Gravity < 0:
		return fmt.Errorf("%w: physics.gravity must not be negative, got %v", ErrInvalid, c.Physics.Gravity)
	case c.Player.HalfSize <= 0:
		return fmt.Errorf("%w: player.half_size must be positive, got %v", ErrInvalid, c.Player.HalfSize)
	case c.Player.MaxSpeed < 0:
		return fmt.Errorf("%w: player.max_speed must not be negative, got %v", ErrInvalid, c.Player.MaxSpeed)
	case c.Wall.HalfSize <= 0:
		return fmt.Errorf("%w: wall.half_size must be positive, got %v", ErrInvalid, c.Wall.HalfSize)
	case c.Wall.Width <= 0 || c.Wall.Height <= 0:
		return fmt.Errorf("%w: wall is %dx%d boxes", ErrInvalid, c.Wall.Width, c.Wall.Height)
	case c.Wall.Width*c.Wall.Height < 2:
		return fmt.Errorf("%w: wall needs at least 2 boxes to leave a hole", ErrInvalid)
	case c.Wall.Spacing < 2:
		return fmt.Errorf("%w: wall.spacing below 2 makes boxes overlap, got %v", ErrInvalid, c.Wall.Spacing)
	case c.Wall.Speed <= 0:
		return fmt.Errorf("%w: wall.speed must be positive, got %v", ErrInvalid, c.Wall.Speed)
	case c.Menu.HalfSize <= 0:
		return fmt.Errorf("%w: menu.half_size must be positive, got %v", ErrInvalid, c.Menu.HalfSize)
	case c.Broadphase.Enabled && (c.Broadphase.CellSize <= 0 || c.Broadphase.NumCells <= 0):
		return fmt.Errorf("%w: broadphase needs a positive cell_size and num_cells", ErrInvalid)
	}

	return nil
}
