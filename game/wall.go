package game

import (
	"math/rand"

	"github.com/akmonengine/breach/actor"
	"github.com/akmonengine/breach/internal/config"
	"github.com/go-gl/mathgl/mgl64"
)

const boundsTolerance = 1e-6

// Wall is a grid of boxes with a single missing slot, moving toward the player.
type Wall struct {
	Boxes      []actor.Box
	Velocities []mgl64.Vec3
	// Hole is the center of the missing slot when the wall was generated
	Hole mgl64.Vec3
}

// GenerateWall builds a Width×Height wall at cfg.Wall.StartZ, resting on the
// floor, centered on X, with one random slot left empty.
func GenerateWall(rng *rand.Rand, cfg config.Config) Wall {
	w := cfg.Wall
	missingX := rng.Intn(w.Width)
	missingY := rng.Intn(w.Height)

	n := w.Width*w.Height - 1
	wall := Wall{
		Boxes:      make([]actor.Box, 0, n),
		Velocities: make([]mgl64.Vec3, 0, n),
	}

	halfExtents := mgl64.Vec3{w.HalfSize, w.HalfSize, w.HalfSize}
	velocity := mgl64.Vec3{0, 0, -w.Speed}
	for x := 0; x < w.Width; x++ {
		for y := 0; y < w.Height; y++ {
			center := slotCenter(cfg, x, y)
			if x == missingX && y == missingY {
				wall.Hole = center
				continue
			}
			wall.Boxes = append(wall.Boxes, actor.NewBox(center, halfExtents))
			wall.Velocities = append(wall.Velocities, velocity)
		}
	}

	return wall
}

// slotCenter returns the center of the box at column x, row y.
// Columns are spread by Spacing half sizes, rows are stacked face to face.
func slotCenter(cfg config.Config, x, y int) mgl64.Vec3 {
	w := cfg.Wall
	offset := float64(x) - float64(w.Width-1)/2

	return mgl64.Vec3{
		offset * w.Spacing * w.HalfSize,
		cfg.Physics.FloorHeight + float64(y)*2*w.HalfSize + w.HalfSize,
		w.StartZ,
	}
}

// Bounds are the static planes enclosing the play area, normals pointing inward.
type Bounds struct {
	Floor actor.Plane
	Top   actor.Plane
	Left  actor.Plane
	Right actor.Plane
}

// All returns the planes, floor first
func (b Bounds) All() []actor.Plane {
	return []actor.Plane{b.Floor, b.Top, b.Left, b.Right}
}

// GenerateBounds returns the floor, and the top/left/right planes matching the
// extent of a wall: the player can reach every slot but never leave the wall front.
func GenerateBounds(cfg config.Config) Bounds {
	w := cfg.Wall
	floor := cfg.Physics.FloorHeight
	top := floor + float64(w.Height)*2*w.HalfSize
	side := float64(w.Width-1)/2*w.Spacing*w.HalfSize + w.HalfSize

	return Bounds{
		Floor: actor.Plane{Normal: mgl64.Vec3{0, 1, 0}, Distance: floor},
		Top:   actor.Plane{Normal: mgl64.Vec3{0, -1, 0}, Distance: -top},
		Left:  actor.Plane{Normal: mgl64.Vec3{-1, 0, 0}, Distance: -side},
		Right: actor.Plane{Normal: mgl64.Vec3{1, 0, 0}, Distance: -side},
	}
}

// Contains reports whether every corner of the box lies on the inner side of
// every plane, up to boundsTolerance
func (b Bounds) Contains(box actor.Box) bool {
	corners := box.Corners()
	for _, plane := range b.All() {
		for _, corner := range corners {
			if plane.SignedDistance(corner) < -boundsTolerance {
				return false
			}
		}
	}

	return true
}
