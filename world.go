package breach

import (
	"fmt"

	"github.com/akmonengine/breach/actor"
	"github.com/akmonengine/breach/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

// DT is the fixed timestep of the game, in seconds
const DT = 1.0 / 60.0

const (
	// Rest detection for the player, see RigidBody.TryRest
	restTimeThreshold     = 0.1
	restVelocityThreshold = actor.MinVelocity
)

// Contacts holds the contact lists of one frame, one per relation.
// A is always the first group of the relation name, B the second: index 0 of
// the player "group" is the player.
// The World reuses the buffers: the lists are valid until the next Step.
type Contacts struct {
	PlayerWall   []constraint.Contact[int]
	PlayerFloor  []constraint.Contact[int]
	PlayerBounds []constraint.Contact[int]
	PlayerTarget []constraint.Contact[int]
	WallFloor    []constraint.Contact[int]
	WallWall     []constraint.Contact[int]
}

func (c *Contacts) reset() {
	c.PlayerWall = c.PlayerWall[:0]
	c.PlayerFloor = c.PlayerFloor[:0]
	c.PlayerBounds = c.PlayerBounds[:0]
	c.PlayerTarget = c.PlayerTarget[:0]
	c.WallFloor = c.WallFloor[:0]
	c.WallWall = c.WallWall[:0]
}

// World is the physics of one game: a single dynamic player, a wall of boxes
// moving as a group, the floor plane and static target boxes (menu items).
type World struct {
	Player *actor.RigidBody

	Wall           []actor.Box
	WallVelocities []mgl64.Vec3

	Floor actor.Plane
	// Bounds are extra planes confining the player only (ceiling, side walls)
	Bounds  []actor.Plane
	Targets []actor.Box

	// Gravity acceleration of the player (m/s²)
	Gravity mgl64.Vec3
	// WallGravity makes the wall elements fall too, once they are debris
	WallGravity bool
	// Friction damps the player tangential velocity on the floor
	Friction bool
	// WallSelfCollision resolves wall elements against one another
	WallSelfCollision bool
	// ResolvePlayerWall pushes the player and the wall elements apart instead of only reporting the contacts
	ResolvePlayerWall bool
	// SpatialGrid is the broad phase of wall self collisions, all pairs when nil
	SpatialGrid *SpatialGrid

	Events Events

	contacts  Contacts
	player    [1]actor.Box
	playerVel [1]mgl64.Vec3
	floor     [1]actor.Plane
}

// SetWall replaces the wall elements and their velocities
func (w *World) SetWall(boxes []actor.Box, velocities []mgl64.Vec3) error {
	if len(boxes) != len(velocities) {
		return fmt.Errorf("%w: %d boxes, %d velocities", actor.ErrLengthMismatch, len(boxes), len(velocities))
	}
	for i, box := range boxes {
		if err := box.Validate(); err != nil {
			return fmt.Errorf("wall element %d: %w", i, err)
		}
	}

	w.Wall = boxes
	w.WallVelocities = velocities
	w.Events.forget(RelationPlayerWall)
	w.Events.forget(RelationWallFloor)
	w.Events.forget(RelationWallWall)

	return nil
}

// Validate checks every shape of the world
func (w *World) Validate() error {
	if w.Player == nil {
		return fmt.Errorf("world: no player")
	}
	if err := w.Player.Box.Validate(); err != nil {
		return fmt.Errorf("player: %w", err)
	}
	if err := w.Floor.Validate(); err != nil {
		return fmt.Errorf("floor: %w", err)
	}
	if len(w.Wall) != len(w.WallVelocities) {
		return fmt.Errorf("%w: %d wall elements, %d velocities", actor.ErrLengthMismatch, len(w.Wall), len(w.WallVelocities))
	}
	for i, box := range w.Wall {
		if err := box.Validate(); err != nil {
			return fmt.Errorf("wall element %d: %w", i, err)
		}
	}
	for i, plane := range w.Bounds {
		if err := plane.Validate(); err != nil {
			return fmt.Errorf("bound %d: %w", i, err)
		}
	}
	for i, box := range w.Targets {
		if err := box.Validate(); err != nil {
			return fmt.Errorf("target %d: %w", i, err)
		}
	}

	return nil
}

// Step advances the world by one fixed timestep:
// forces -> contact gathering -> resolution -> integration -> events.
// The returned contacts describe the frame before integration.
func (w *World) Step(dt float64) (*Contacts, error) {
	// Checked before anything moves, a failed Step leaves the world untouched
	if len(w.Wall) != len(w.WallVelocities) {
		return nil, fmt.Errorf("%w: %d wall elements, %d velocities", actor.ErrLengthMismatch, len(w.Wall), len(w.WallVelocities))
	}

	w.applyForces(dt)

	w.player[0] = w.Player.Box
	w.playerVel[0] = w.Player.Velocity
	w.floor[0] = w.Floor

	w.detectCollision()

	if err := w.resolve(); err != nil {
		return nil, err
	}

	w.Player.Box = w.player[0]
	w.Player.Velocity = w.playerVel[0]

	if err := w.integrate(dt); err != nil {
		return nil, err
	}

	w.Events.recordContacts(RelationPlayerWall, w.contacts.PlayerWall)
	w.Events.recordContacts(RelationPlayerFloor, w.contacts.PlayerFloor)
	w.Events.recordContacts(RelationPlayerBounds, w.contacts.PlayerBounds)
	w.Events.recordContacts(RelationPlayerTarget, w.contacts.PlayerTarget)
	w.Events.recordContacts(RelationWallFloor, w.contacts.WallFloor)
	w.Events.recordContacts(RelationWallWall, w.contacts.WallWall)

	w.Player.TryRest(dt, restTimeThreshold, restVelocityThreshold)
	w.Events.processRestEvents(w.Player)
	w.Events.flush()

	return &w.contacts, nil
}

func (w *World) applyForces(dt float64) {
	w.Player.ApplyForces(dt, w.Gravity)

	if w.WallGravity {
		for i := range w.WallVelocities {
			w.WallVelocities[i] = w.WallVelocities[i].Add(w.Gravity.Mul(dt))
		}
	}
}

func (w *World) detectCollision() {
	w.contacts.reset()

	w.contacts.PlayerWall = GatherContactsAB(w.player[:], w.Wall, w.contacts.PlayerWall)
	w.contacts.PlayerFloor = GatherContactsAB(w.player[:], w.floor[:], w.contacts.PlayerFloor)
	w.contacts.PlayerBounds = GatherContactsAB(w.player[:], w.Bounds, w.contacts.PlayerBounds)
	w.contacts.PlayerTarget = GatherContactsAB(w.player[:], w.Targets, w.contacts.PlayerTarget)
	w.contacts.WallFloor = GatherContactsAB(w.Wall, w.floor[:], w.contacts.WallFloor)

	if w.WallSelfCollision {
		if w.SpatialGrid != nil {
			w.contacts.WallWall = GatherContactsGrid(w.SpatialGrid, w.Wall, w.contacts.WallWall)
		} else {
			w.contacts.WallWall = GatherContactsAA(w.Wall, w.contacts.WallWall)
		}
	}
}

func (w *World) resolve() error {
	if err := constraint.RestituteDynStat(w.player[:], w.playerVel[:], w.floor[:], w.contacts.PlayerFloor, w.Friction); err != nil {
		return fmt.Errorf("player-floor: %w", err)
	}
	if err := constraint.RestituteDynStat(w.player[:], w.playerVel[:], w.Bounds, w.contacts.PlayerBounds, false); err != nil {
		return fmt.Errorf("player-bounds: %w", err)
	}
	if err := constraint.RestituteDynStat(w.Wall, w.WallVelocities, w.floor[:], w.contacts.WallFloor, false); err != nil {
		return fmt.Errorf("wall-floor: %w", err)
	}
	if w.WallSelfCollision {
		if err := constraint.RestituteDyns(w.Wall, w.WallVelocities, w.contacts.WallWall); err != nil {
			return fmt.Errorf("wall-wall: %w", err)
		}
	}
	if w.ResolvePlayerWall {
		if err := constraint.RestituteDynDyn(w.player[:], w.playerVel[:], w.Wall, w.WallVelocities, w.contacts.PlayerWall); err != nil {
			return fmt.Errorf("player-wall: %w", err)
		}
	}

	return nil
}

func (w *World) integrate(dt float64) error {
	w.Player.Integrate(dt)

	return actor.IntegrateBoxes(w.Wall, w.WallVelocities, dt)
}
