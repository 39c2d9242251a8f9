package breach

import (
	"errors"
	"math"
	"testing"

	"github.com/akmonengine/breach/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func newTestWorld(playerCenter mgl64.Vec3) *World {
	return &World{
		Player:  actor.NewRigidBody(actor.NewBox(playerCenter, mgl64.Vec3{0.5, 0.5, 0.5}), 0),
		Floor:   actor.Plane{Normal: mgl64.Vec3{0, 1, 0}, Distance: 0},
		Gravity: mgl64.Vec3{0, -9.81, 0},
		Events:  NewEvents(),
	}
}

func stepN(t *testing.T, world *World, n int) *Contacts {
	t.Helper()
	var contacts *Contacts
	for i := 0; i < n; i++ {
		var err error
		if contacts, err = world.Step(DT); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	return contacts
}

// ==================== Validation ====================

func TestWorldValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(w *World)
		wantErr error
	}{
		{"valid", func(w *World) {}, nil},
		{"tilted floor normal", func(w *World) { w.Floor.Normal = mgl64.Vec3{0, 2, 0} }, actor.ErrNonUnitNormal},
		{"bad bound", func(w *World) { w.Bounds = []actor.Plane{{Normal: mgl64.Vec3{}}} }, actor.ErrNonUnitNormal},
		{"negative target", func(w *World) {
			w.Targets = []actor.Box{actor.NewBox(mgl64.Vec3{}, mgl64.Vec3{-1, 1, 1})}
		}, actor.ErrNegativeExtent},
		{"wall length mismatch", func(w *World) { w.Wall = []actor.Box{unitBox(mgl64.Vec3{})} }, actor.ErrLengthMismatch},
		{"skewed wall element", func(w *World) {
			box := unitBox(mgl64.Vec3{})
			box.Axes = mgl64.Mat3{1, 0, 0, 1, 1, 0, 0, 0, 1}
			w.Wall = []actor.Box{box}
			w.WallVelocities = []mgl64.Vec3{{}}
		}, actor.ErrNonOrthonormalFrame},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world := newTestWorld(mgl64.Vec3{0, 0.5, 0})
			tt.mutate(world)

			err := world.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := (&World{}).Validate(); err == nil {
		t.Error("a world without player should not validate")
	}
}

func TestWorldSetWall(t *testing.T) {
	world := newTestWorld(mgl64.Vec3{0, 0.5, 0})

	err := world.SetWall([]actor.Box{unitBox(mgl64.Vec3{})}, nil)
	if !errors.Is(err, actor.ErrLengthMismatch) {
		t.Errorf("SetWall() = %v, want %v", err, actor.ErrLengthMismatch)
	}

	err = world.SetWall([]actor.Box{actor.NewBox(mgl64.Vec3{}, mgl64.Vec3{1, -1, 1})}, []mgl64.Vec3{{}})
	if !errors.Is(err, actor.ErrNegativeExtent) {
		t.Errorf("SetWall() = %v, want %v", err, actor.ErrNegativeExtent)
	}
	if len(world.Wall) != 0 {
		t.Error("a rejected wall should not be kept")
	}

	if err := world.SetWall([]actor.Box{unitBox(mgl64.Vec3{0, 1, 5})}, []mgl64.Vec3{{0, 0, -1}}); err != nil {
		t.Fatalf("SetWall() = %v", err)
	}
	if len(world.Wall) != 1 || len(world.WallVelocities) != 1 {
		t.Errorf("wall has %d boxes and %d velocities", len(world.Wall), len(world.WallVelocities))
	}
}

func TestWorldStepLengthMismatch(t *testing.T) {
	world := newTestWorld(mgl64.Vec3{0, 0.5, 0})
	world.Player.Velocity = mgl64.Vec3{1, 0, 0}
	world.WallGravity = true
	world.Wall = []actor.Box{unitBox(mgl64.Vec3{0, 1, 5}), unitBox(mgl64.Vec3{0, 1, 8})}
	world.WallVelocities = []mgl64.Vec3{{0, 0, -1}}

	if _, err := world.Step(DT); !errors.Is(err, actor.ErrLengthMismatch) {
		t.Fatalf("Step() = %v, want %v", err, actor.ErrLengthMismatch)
	}

	// Nothing of the frame was applied
	if world.Player.Velocity != (mgl64.Vec3{1, 0, 0}) || world.Player.Box.Center != (mgl64.Vec3{0, 0.5, 0}) {
		t.Errorf("player changed: center %v velocity %v", world.Player.Box.Center, world.Player.Velocity)
	}
	if world.WallVelocities[0] != (mgl64.Vec3{0, 0, -1}) || world.Wall[0].Center != (mgl64.Vec3{0, 1, 5}) {
		t.Errorf("wall changed: center %v velocity %v", world.Wall[0].Center, world.WallVelocities[0])
	}
}

// ==================== Player ====================

func TestWorldRestingPlayerStaysStill(t *testing.T) {
	world := newTestWorld(mgl64.Vec3{1, 0.5, -2})
	world.Friction = true
	rested := 0
	world.Events.Subscribe(ON_REST, func(Event) { rested++ })

	for i := 0; i < 120; i++ {
		contacts, err := world.Step(DT)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if len(contacts.PlayerFloor) != 1 {
			t.Fatalf("step %d: %d floor contacts, want 1", i, len(contacts.PlayerFloor))
		}
		if world.Player.Box.Center != (mgl64.Vec3{1, 0.5, -2}) {
			t.Fatalf("step %d: player moved to %v", i, world.Player.Box.Center)
		}
		if world.Player.Velocity != (mgl64.Vec3{}) {
			t.Fatalf("step %d: velocity %v", i, world.Player.Velocity)
		}
	}

	if !world.Player.IsResting || rested != 1 {
		t.Errorf("IsResting = %v, %d rest events, want true and 1", world.Player.IsResting, rested)
	}
}

func TestWorldPlayerLands(t *testing.T) {
	world := newTestWorld(mgl64.Vec3{0, 3, 0})
	world.Player.AngularVelocity = mgl64.Vec3{0, 1, 0}
	entered := 0
	world.Events.Subscribe(CONTACT_ENTER, func(event Event) {
		if event.(ContactEnterEvent).Relation == RelationPlayerFloor {
			entered++
		}
	})

	stepN(t, world, 120)

	if y := world.Player.Box.Center.Y(); math.Abs(y-0.5) > 1e-9 {
		t.Errorf("player rests at y=%v, want 0.5", y)
	}
	if entered != 1 {
		t.Errorf("%d floor enter events, want 1", entered)
	}
	if q := world.Player.Rotation.Len(); math.Abs(q-1) > 1e-9 {
		t.Errorf("|rotation| = %v", q)
	}
}

func TestWorldPlayerBounds(t *testing.T) {
	world := newTestWorld(mgl64.Vec3{4, 0.5, 0})
	world.Gravity = mgl64.Vec3{}
	world.Bounds = []actor.Plane{{Normal: mgl64.Vec3{-1, 0, 0}, Distance: -6}} // x <= 6
	world.Player.Velocity = mgl64.Vec3{3, 0, 1}

	contacts := stepN(t, world, 60)

	if x := world.Player.Box.Center.X(); x > 5.5+1e-9 {
		t.Errorf("player went through the bound: x=%v", x)
	}
	if len(contacts.PlayerBounds) != 1 {
		t.Errorf("%d bound contacts, want 1", len(contacts.PlayerBounds))
	}
	if v := world.Player.Velocity; v.X() != 0 || v.Z() != 1 {
		t.Errorf("velocity %v, want the bound component removed only", v)
	}
}

func TestWorldTargetsAreOnlyReported(t *testing.T) {
	world := newTestWorld(mgl64.Vec3{3, 0.5, 0})
	world.Targets = []actor.Box{
		actor.NewBox(mgl64.Vec3{-3, 0.5, 0}, mgl64.Vec3{0.5, 0.5, 0.5}),
		actor.NewBox(mgl64.Vec3{3, 0.5, 0}, mgl64.Vec3{0.5, 0.5, 0.5}),
	}

	contacts := stepN(t, world, 1)

	if len(contacts.PlayerTarget) != 1 || contacts.PlayerTarget[0].B != 1 {
		t.Fatalf("target contacts %v, want the second target", contacts.PlayerTarget)
	}
	if world.Player.Box.Center != (mgl64.Vec3{3, 0.5, 0}) {
		t.Errorf("player pushed by a target to %v", world.Player.Box.Center)
	}
}

// ==================== Wall ====================

func TestWorldWallMovesOnFloor(t *testing.T) {
	world := newTestWorld(mgl64.Vec3{0, 0.5, 0})
	if err := world.SetWall([]actor.Box{unitBox(mgl64.Vec3{0, 1, 20})}, []mgl64.Vec3{{0, 0, -1.5}}); err != nil {
		t.Fatal(err)
	}

	contacts := stepN(t, world, 60)

	center := world.Wall[0].Center
	if center.Y() != 1 || !floatEqual(center.Z(), 18.5, 1e-9) {
		t.Errorf("wall at %v, want (0, 1, 18.5)", center)
	}
	if len(contacts.WallFloor) != 1 || len(contacts.PlayerWall) != 0 {
		t.Errorf("%d wall-floor and %d player-wall contacts, want 1 and 0", len(contacts.WallFloor), len(contacts.PlayerWall))
	}
}

func TestWorldWallGravity(t *testing.T) {
	world := newTestWorld(mgl64.Vec3{0, 0.5, 0})
	world.WallGravity = true
	if err := world.SetWall([]actor.Box{unitBox(mgl64.Vec3{5, 4, 0})}, []mgl64.Vec3{{}}); err != nil {
		t.Fatal(err)
	}

	stepN(t, world, 120)

	if y := world.Wall[0].Center.Y(); math.Abs(y-1) > 1e-9 {
		t.Errorf("wall element rests at y=%v, want 1", y)
	}
	if world.WallVelocities[0].Y() > 0 {
		t.Errorf("wall element bounced: %v", world.WallVelocities[0])
	}
}

func throwWallBoxes(t *testing.T, grid *SpatialGrid, selfCollision bool) (*World, int) {
	t.Helper()
	world := newTestWorld(mgl64.Vec3{0, 0.5, 20})
	world.WallSelfCollision = selfCollision
	world.SpatialGrid = grid
	boxes := []actor.Box{unitBox(mgl64.Vec3{-2.5, 1, 0}), unitBox(mgl64.Vec3{2.5, 1, 0})}
	if err := world.SetWall(boxes, []mgl64.Vec3{{3, 0, 0}, {-3, 0, 0}}); err != nil {
		t.Fatal(err)
	}

	touched := 0
	for i := 0; i < 60; i++ {
		contacts, err := world.Step(DT)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		touched += len(contacts.WallWall)
	}
	return world, touched
}

func TestWorldWallSelfCollision(t *testing.T) {
	world, touched := throwWallBoxes(t, nil, true)

	if touched == 0 {
		t.Fatal("the boxes never collided")
	}
	a, b := world.Wall[0].Center, world.Wall[1].Center
	if b.X()-a.X() < 2-1e-9 {
		t.Errorf("boxes overlap: %v %v", a, b)
	}
	if a.X() != -b.X() {
		t.Errorf("asymmetric resolution: %v %v", a, b)
	}
	for i, v := range world.WallVelocities {
		if v != (mgl64.Vec3{}) {
			t.Errorf("velocity %d = %v, want zero after an inelastic hit", i, v)
		}
	}
}

func TestWorldWallSelfCollisionGrid(t *testing.T) {
	bruteForce, _ := throwWallBoxes(t, nil, true)
	grid, _ := throwWallBoxes(t, NewSpatialGrid(4, 64), true)

	for i := range bruteForce.Wall {
		if bruteForce.Wall[i].Center != grid.Wall[i].Center {
			t.Errorf("box %d: all pairs %v, grid %v", i, bruteForce.Wall[i].Center, grid.Wall[i].Center)
		}
	}
}

func TestWorldWallWithoutSelfCollision(t *testing.T) {
	world, touched := throwWallBoxes(t, nil, false)

	if touched != 0 {
		t.Errorf("%d wall-wall contacts gathered with self collision off", touched)
	}
	// 60 frames at 3 m/s: they went through each other
	if a := world.Wall[0].Center.X(); !floatEqual(a, 0.5, 1e-9) {
		t.Errorf("box 0 at x=%v, want 0.5", a)
	}
}

func TestWorldPlayerWall(t *testing.T) {
	setup := func(resolve bool) (*World, *Contacts) {
		world := newTestWorld(mgl64.Vec3{0, 0.5, 0})
		world.ResolvePlayerWall = resolve
		if err := world.SetWall([]actor.Box{unitBox(mgl64.Vec3{0, 1, 1.2})}, []mgl64.Vec3{{0, 0, -1.5}}); err != nil {
			t.Fatal(err)
		}
		return world, stepN(t, world, 1)
	}

	t.Run("reported only", func(t *testing.T) {
		world, contacts := setup(false)

		if len(contacts.PlayerWall) != 1 {
			t.Fatalf("%d player-wall contacts, want 1", len(contacts.PlayerWall))
		}
		if world.Player.Box.Center != (mgl64.Vec3{0, 0.5, 0}) {
			t.Errorf("player moved to %v", world.Player.Box.Center)
		}
		if world.WallVelocities[0] != (mgl64.Vec3{0, 0, -1.5}) {
			t.Errorf("wall velocity changed to %v", world.WallVelocities[0])
		}
	})

	t.Run("resolved", func(t *testing.T) {
		world, contacts := setup(true)

		if len(contacts.PlayerWall) != 1 {
			t.Fatalf("%d player-wall contacts, want 1", len(contacts.PlayerWall))
		}
		if z := world.Player.Box.Center.Z(); !floatEqual(z, -0.15, 1e-9) {
			t.Errorf("player z=%v, want -0.15", z)
		}
		if z := world.Wall[0].Center.Z(); !floatEqual(z, 1.35, 1e-9) {
			t.Errorf("wall z=%v, want 1.35", z)
		}
		if world.WallVelocities[0] != (mgl64.Vec3{}) {
			t.Errorf("wall velocity %v, want zero", world.WallVelocities[0])
		}
	})
}

func TestWorldNewWallForgetsContacts(t *testing.T) {
	world := newTestWorld(mgl64.Vec3{0, 0.5, 0})
	exits := 0
	world.Events.Subscribe(CONTACT_EXIT, func(event Event) {
		if event.(ContactExitEvent).Relation == RelationWallFloor {
			exits++
		}
	})

	if err := world.SetWall([]actor.Box{unitBox(mgl64.Vec3{0, 1, 10})}, []mgl64.Vec3{{}}); err != nil {
		t.Fatal(err)
	}
	stepN(t, world, 2)

	if err := world.SetWall(nil, nil); err != nil {
		t.Fatal(err)
	}
	stepN(t, world, 2)

	if exits != 0 {
		t.Errorf("%d exits reported for a replaced wall", exits)
	}
}
