package constraint

import (
	"errors"
	"fmt"

	"github.com/akmonengine/breach/actor"
	"github.com/akmonengine/breach/sat"
	"github.com/go-gl/mathgl/mgl64"
)

var ErrSelfContact = errors.New("constraint: contact pairs a body with itself")

// RestituteDynStat resolves contacts between dynamic boxes (A indices) and
// static shapes (B indices), such as the player against the floor.
//
// For each contact, in list order, the dynamic box is pushed out of the
// surface by the penetration depth, then the velocity component going into
// the surface is removed: the response is inelastic, bodies do not bounce.
// The pair is tested again before the push, since an earlier contact of the
// same body may already have separated it; an isolated contact moves the body
// by exactly its Depth. With applyFriction, the tangential velocity is scaled
// by FrictionDamping.
//
// Nothing is mutated when a contact references an index out of range or a
// static shape the narrow phase cannot test (a nil pointer, a foreign Shape).
func RestituteDynStat[S actor.Shape](bodies []actor.Box, velocities []mgl64.Vec3, statics []S, contacts []Contact[int], applyFriction bool) error {
	if err := checkLengths(bodies, velocities); err != nil {
		return err
	}
	for _, c := range contacts {
		if err := checkIndex(c.A, len(bodies), "a"); err != nil {
			return err
		}
		if err := checkIndex(c.B, len(statics), "b"); err != nil {
			return err
		}
		if !sat.Supports(bodies[c.A], statics[c.B]) {
			return fmt.Errorf("%w: %T", ErrUnsupportedShape, statics[c.B])
		}
	}

	for _, c := range contacts {
		// Surface normal, pointing from the static shape toward the dynamic box
		n := c.Normal.Mul(-1)
		depth := 0.0
		if m, ok := sat.Collide(bodies[c.A], statics[c.B]); ok {
			n = m.Normal.Mul(-1)
			depth = m.Depth
		}

		bodies[c.A].Translate(n.Mul(depth))
		velocities[c.A] = removeApproach(velocities[c.A], n)
		if applyFriction {
			velocities[c.A] = dampTangent(velocities[c.A], n, FrictionDamping)
		}
	}

	return nil
}

// RestituteDynDyn resolves contacts between two disjoint groups of dynamic
// boxes. Both bodies of a contact move apart by half of the depth, A along
// -Normal and B along +Normal, and each loses its own velocity component
// toward the other. Every body counts as the same mass.
func RestituteDynDyn(bodiesA []actor.Box, velocitiesA []mgl64.Vec3, bodiesB []actor.Box, velocitiesB []mgl64.Vec3, contacts []Contact[int]) error {
	if err := checkLengths(bodiesA, velocitiesA); err != nil {
		return err
	}
	if err := checkLengths(bodiesB, velocitiesB); err != nil {
		return err
	}
	for _, c := range contacts {
		if err := checkIndex(c.A, len(bodiesA), "a"); err != nil {
			return err
		}
		if err := checkIndex(c.B, len(bodiesB), "b"); err != nil {
			return err
		}
	}

	for _, c := range contacts {
		resolvePair(&bodiesA[c.A], &velocitiesA[c.A], &bodiesB[c.B], &velocitiesB[c.B], c)
	}

	return nil
}

// RestituteDyns resolves contacts between dynamic boxes of the same group,
// e.g. wall fragments tumbling into one another.
//
// Contacts are processed once each, in list order, with the same split as
// RestituteDynDyn. A body present in several contacts sees the corrections of
// the earlier ones before the later ones are measured, so nothing is applied
// twice. This single pass is Gauss-Seidel like: the result depends on the
// contact order and there is no convergence guarantee.
func RestituteDyns(bodies []actor.Box, velocities []mgl64.Vec3, contacts []Contact[int]) error {
	if err := checkLengths(bodies, velocities); err != nil {
		return err
	}
	for _, c := range contacts {
		if err := checkIndex(c.A, len(bodies), "a"); err != nil {
			return err
		}
		if err := checkIndex(c.B, len(bodies), "b"); err != nil {
			return err
		}
		if c.A == c.B {
			return fmt.Errorf("%w: %d", ErrSelfContact, c.A)
		}
	}

	for _, c := range contacts {
		resolvePair(&bodies[c.A], &velocities[c.A], &bodies[c.B], &velocities[c.B], c)
	}

	return nil
}

func resolvePair(boxA *actor.Box, velocityA *mgl64.Vec3, boxB *actor.Box, velocityB *mgl64.Vec3, c Contact[int]) {
	n := c.Normal
	depth := 0.0
	if m, ok := sat.CollideBoxes(*boxA, *boxB); ok {
		n = m.Normal
		depth = m.Depth
	}

	half := n.Mul(depth * 0.5)
	boxA.Translate(half.Mul(-1))
	boxB.Translate(half)

	// A closes in when moving along n, B when moving against it
	*velocityA = removeApproach(*velocityA, n.Mul(-1))
	*velocityB = removeApproach(*velocityB, n)
}
