package actor

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// MinVelocity is the speed under which a body does not move during
// integration. The dead-zone keeps resting bodies bit for bit still instead
// of drifting with floating point noise.
const MinVelocity = 1e-4

var ErrLengthMismatch = errors.New("actor: slices length mismatch")

// RigidBody is a dynamic body driven by the game: the player, or any actor
// controlled through an acceleration.
type RigidBody struct {
	// Collision shape, its center is the body position
	Box Box

	// Linear motion
	Velocity     mgl64.Vec3 // m/s
	Acceleration mgl64.Vec3 // control acceleration, in body space

	// Angular motion
	Rotation        mgl64.Quat
	AngularVelocity mgl64.Vec3 // rad/s

	// MaxSpeed clamps the velocity after forces are applied, 0 disables it
	MaxSpeed float64

	RestTimer float64
	IsResting bool
}

// NewRigidBody creates a body at rest with an identity rotation
func NewRigidBody(box Box, maxSpeed float64) *RigidBody {
	rb := &RigidBody{
		Box:      box,
		Rotation: mgl64.QuatIdent(),
		MaxSpeed: maxSpeed,
	}
	rb.syncFrame()

	return rb
}

// ApplyForces updates the velocity from the control acceleration and the gravity
// (semi-implicit Euler: velocity first, position later in Integrate)
func (rb *RigidBody) ApplyForces(dt float64, gravity mgl64.Vec3) {
	acceleration := rb.Rotation.Rotate(rb.Acceleration).Add(gravity)
	rb.Velocity = rb.Velocity.Add(acceleration.Mul(dt))

	if rb.MaxSpeed > 0 {
		if speed := rb.Velocity.Len(); speed > rb.MaxSpeed {
			rb.Velocity = rb.Velocity.Mul(rb.MaxSpeed / speed)
		}
	}
}

// AddImpulse changes the velocity directly, the way player controls do
func (rb *RigidBody) AddImpulse(deltaV mgl64.Vec3) {
	rb.Velocity = rb.Velocity.Add(deltaV)
	rb.Awake()
}

// Integrate advances the position and the orientation from the current
// (already corrected) velocities. Velocity is left untouched.
func (rb *RigidBody) Integrate(dt float64) {
	rb.Box.Center = IntegratePosition(rb.Box.Center, rb.Velocity, dt)
	rb.Rotation = IntegrateRotation(rb.Rotation, rb.AngularVelocity, dt)
	rb.syncFrame()
}

// TryRest flags the body as resting once its speed stays under the threshold for a given duration
func (rb *RigidBody) TryRest(dt float64, timeThreshold float64, velocityThreshold float64) {
	if rb.Velocity.Len() < velocityThreshold && rb.AngularVelocity.Len() < velocityThreshold {
		rb.RestTimer += dt
		if rb.RestTimer >= timeThreshold {
			rb.IsResting = true
		}
	} else {
		rb.Awake()
	}
}

func (rb *RigidBody) Awake() {
	rb.IsResting = false
	rb.RestTimer = 0.0
}

// Reset teleports the body and clears its motion
func (rb *RigidBody) Reset(center mgl64.Vec3) {
	rb.Box.Center = center
	rb.Velocity = mgl64.Vec3{}
	rb.Acceleration = mgl64.Vec3{}
	rb.AngularVelocity = mgl64.Vec3{}
	rb.Rotation = mgl64.QuatIdent()
	rb.syncFrame()
	rb.Awake()
}

// SetRotation orients the body, and its collision box with it
func (rb *RigidBody) SetRotation(rotation mgl64.Quat) {
	rb.Rotation = rotation.Normalize()
	rb.syncFrame()
}

// syncFrame keeps the collision box oriented like the body
func (rb *RigidBody) syncFrame() {
	rb.Box.Axes = rb.Rotation.Mat4().Mat3()
}

// IntegratePosition returns c + v*dt, or c unchanged when |v| < MinVelocity
func IntegratePosition(center mgl64.Vec3, velocity mgl64.Vec3, dt float64) mgl64.Vec3 {
	if velocity.Len() < MinVelocity {
		return center
	}

	return center.Add(velocity.Mul(dt))
}

// IntegrateRotation applies the first order update q += 0.5*dt*(0,ω)*q.
// The raw update drifts away from unit length, so the result is renormalized.
func IntegrateRotation(rotation mgl64.Quat, angularVelocity mgl64.Vec3, dt float64) mgl64.Quat {
	if angularVelocity == (mgl64.Vec3{}) {
		return rotation
	}

	omegaQuat := mgl64.Quat{W: 0, V: angularVelocity}
	qDot := omegaQuat.Mul(rotation).Scale(0.5)

	return rotation.Add(qDot.Scale(dt)).Normalize()
}

// IntegrateBoxes moves every box center by its velocity
func IntegrateBoxes(boxes []Box, velocities []mgl64.Vec3, dt float64) error {
	if len(boxes) != len(velocities) {
		return fmt.Errorf("%w: %d boxes, %d velocities", ErrLengthMismatch, len(boxes), len(velocities))
	}

	for i := range boxes {
		boxes[i].Center = IntegratePosition(boxes[i].Center, velocities[i], dt)
	}

	return nil
}
