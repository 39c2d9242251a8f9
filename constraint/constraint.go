package constraint

import (
	"errors"
	"fmt"

	"github.com/akmonengine/breach/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// FrictionDamping scales the tangential velocity of a body resting on a
// static surface, once per resolution. It emulates ground friction.
const FrictionDamping = 0.98

var (
	ErrLengthMismatch  = actor.ErrLengthMismatch
	ErrIndexOutOfRange = errors.New("constraint: contact index out of range")
	// ErrUnsupportedShape is returned for a static shape the narrow phase cannot test
	ErrUnsupportedShape = errors.New("constraint: unsupported shape")
)

// Contact is a pairwise overlap found during one frame.
//
// A and B identify the two colliding entities, as indices into one slice or
// into two different slices depending on the call site. Normal is unit length
// and points from A toward B, Depth is the penetration along Normal. Point is
// a representative location for effects only.
// Contacts live for one frame: callers truncate and refill their buffers.
type Contact[ID any] struct {
	A      ID
	B      ID
	Normal mgl64.Vec3
	Depth  float64
	Point  mgl64.Vec3
}

func checkLengths(bodies []actor.Box, velocities []mgl64.Vec3) error {
	if len(bodies) != len(velocities) {
		return fmt.Errorf("%w: %d bodies, %d velocities", ErrLengthMismatch, len(bodies), len(velocities))
	}

	return nil
}

func checkIndex(index int, length int, side string) error {
	if index < 0 || index >= length {
		return fmt.Errorf("%w: %s=%d, length %d", ErrIndexOutOfRange, side, index, length)
	}

	return nil
}

// removeApproach removes the component of velocity going against the
// surface normal n (v·n < 0). Separating velocities are kept.
func removeApproach(velocity mgl64.Vec3, n mgl64.Vec3) mgl64.Vec3 {
	if vn := velocity.Dot(n); vn < 0 {
		return velocity.Sub(n.Mul(vn))
	}

	return velocity
}

// dampTangent scales the velocity component orthogonal to n
func dampTangent(velocity mgl64.Vec3, n mgl64.Vec3, damping float64) mgl64.Vec3 {
	normalPart := n.Mul(velocity.Dot(n))
	tangentPart := velocity.Sub(normalPart)

	return normalPart.Add(tangentPart.Mul(damping))
}
