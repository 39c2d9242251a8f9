package main

import (
	"fmt"

	"github.com/akmonengine/breach"
	"github.com/akmonengine/breach/actor"
	"github.com/akmonengine/breach/constraint"
	"github.com/akmonengine/breach/sat"
	"github.com/go-gl/mathgl/mgl64"
)

// CollisionDebugger instruments the collisions of the scene
type CollisionDebugger interface {
	DebugManifold(box actor.Box, other actor.Shape, manifold sat.Manifold)
	DebugContacts(relation breach.Relation, contacts []constraint.Contact[int])
}

// SimpleDebugger prints everything it sees
type SimpleDebugger struct{}

func (d *SimpleDebugger) DebugManifold(box actor.Box, other actor.Shape, manifold sat.Manifold) {
	fmt.Printf("🎯 Manifold Debug:\n")
	fmt.Printf("   Box center: %v\n", box.Center)
	fmt.Printf("   Other: %T\n", other)
	fmt.Printf("   Normal: %v\n", manifold.Normal)
	fmt.Printf("   Depth: %.6f\n", manifold.Depth)
	fmt.Printf("   Point: %v\n", manifold.Point)
}

func (d *SimpleDebugger) DebugContacts(relation breach.Relation, contacts []constraint.Contact[int]) {
	if len(contacts) == 0 {
		return
	}
	fmt.Printf("⚙️  %s contacts: %d\n", relation, len(contacts))
	for _, c := range contacts {
		fmt.Printf("   (%d,%d) normal=%v depth=%.6f\n", c.A, c.B, c.Normal, c.Depth)
	}
}

// SetupScene creates a tilted player cube above the floor, and two wall boxes
// thrown into each other
func SetupScene() (*breach.World, CollisionDebugger) {
	debugger := &SimpleDebugger{}

	player := actor.NewRigidBody(actor.NewBox(mgl64.Vec3{0, 3, 0}, mgl64.Vec3{0.5, 0.5, 0.5}), 3.0)
	player.SetRotation(mgl64.QuatRotate(mgl64.DegToRad(30), mgl64.Vec3{0, 0, 1}))
	player.AngularVelocity = mgl64.Vec3{0, 1, 0}

	world := &breach.World{
		Player:            player,
		Floor:             actor.Plane{Normal: mgl64.Vec3{0, 1, 0}, Distance: 0},
		Gravity:           mgl64.Vec3{0, -9.81, 0},
		WallGravity:       true,
		WallSelfCollision: true,
		Events:            breach.NewEvents(),
	}

	wall := []actor.Box{
		actor.NewBox(mgl64.Vec3{-3, 2, 5}, mgl64.Vec3{1, 1, 1}),
		actor.NewBox(mgl64.Vec3{3, 2, 5}, mgl64.Vec3{1, 1, 1}),
	}
	velocities := []mgl64.Vec3{{3, 0, 0}, {-3, 0, 0}}
	if err := world.SetWall(wall, velocities); err != nil {
		panic(err)
	}

	world.Events.Subscribe(breach.CONTACT_ENTER, func(event breach.Event) {
		e := event.(breach.ContactEnterEvent)
		fmt.Printf("📥 Enter %s (%d,%d)\n", e.Relation, e.A, e.B)
	})
	world.Events.Subscribe(breach.CONTACT_EXIT, func(event breach.Event) {
		e := event.(breach.ContactExitEvent)
		fmt.Printf("📤 Exit %s (%d,%d)\n", e.Relation, e.A, e.B)
	})
	world.Events.Subscribe(breach.ON_REST, func(event breach.Event) {
		fmt.Printf("💤 Player resting at %v\n", event.(breach.RestEvent).Body.Box.Center)
	})

	return world, debugger
}

// FallingCube drops the cube on the floor, step by step
func FallingCube() {
	fmt.Println("🧪 Falling cube and colliding wall boxes")
	fmt.Println("=======================================")

	world, debugger := SetupScene()
	if err := world.Validate(); err != nil {
		panic(err)
	}

	fmt.Printf("Initial state:\n")
	fmt.Printf("  Floor: %+v\n", world.Floor)
	fmt.Printf("  Cube: position %v, rotation %v\n", world.Player.Box.Center, world.Player.Rotation)
	fmt.Printf("  Gravity: %v\n", world.Gravity)
	fmt.Println()

	const maxSteps int = 120

	for step := 0; step < maxSteps; step++ {
		fmt.Printf("--- STEP %d ---\n", step+1)

		if manifold, ok := sat.Collide(world.Player.Box, world.Floor); ok {
			debugger.DebugManifold(world.Player.Box, world.Floor, manifold)
		}

		contacts, err := world.Step(breach.DT)
		if err != nil {
			panic(err)
		}
		debugger.DebugContacts(breach.RelationPlayerFloor, contacts.PlayerFloor)
		debugger.DebugContacts(breach.RelationWallFloor, contacts.WallFloor)
		debugger.DebugContacts(breach.RelationWallWall, contacts.WallWall)

		fmt.Printf("Cube after:\n")
		fmt.Printf("  Position: %v\n", world.Player.Box.Center)
		fmt.Printf("  Velocity: %v\n", world.Player.Velocity)
		fmt.Printf("  Rotation: %v (|q|=%.9f)\n", world.Player.Rotation, world.Player.Rotation.Len())
		fmt.Printf("Wall after: %v %v\n", world.Wall[0].Center, world.Wall[1].Center)
		fmt.Println()
	}

	fmt.Println("Done!")
}

func main() {
	FallingCube()
}
