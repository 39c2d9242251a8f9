// Package sat implements the narrow phase of the game with the Separating Axis Theorem.
//
// Two convex shapes are disjoint if and only if there is an axis on which
// their projections do not overlap. For two oriented boxes, testing 15 axes is
// enough: the 3 face normals of each box, and the 9 cross products of their
// edges. When every axis overlaps, the axis with the smallest overlap gives the
// contact normal and the penetration depth (minimum translation).
//
// References:
//   - Gottschalk, Lin, Manocha: "OBBTree: A Hierarchical Structure for Rapid
//     Interference Detection" (1996)
//   - Ericson: "Real-Time Collision Detection" (2004), chapter 4.4
package sat

import (
	"math"

	"github.com/akmonengine/breach/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// DegenerateAxisEpsilon is the minimal squared length of an edge cross
// product. Below it the edges are parallel and the axis is skipped: the face
// axes already cover that direction, and normalizing it would produce NaN.
const DegenerateAxisEpsilon = 1e-8

// ContactSlop is how far a box may float above a plane and still be touching
// it. Positional correction lands exactly on the surface give or take a
// rounding error, the slop keeps such a resting contact alive.
const ContactSlop = 1e-9

// Manifold is the single point contact between two shapes.
// Normal is unit length and points from the first shape toward the second.
type Manifold struct {
	Normal mgl64.Vec3
	Depth  float64
	Point  mgl64.Vec3
}

// Supports reports whether Collide can test the pair. Plane against plane is
// supported and never collides: both are static.
func Supports(a, b actor.Shape) bool {
	return isKnown(deref(a)) && isKnown(deref(b))
}

// Collide dispatches to the test matching the concrete shapes, pointers
// included. Unsupported shapes report no contact, see Supports.
// Plane against plane never collides: both are static.
func Collide(a, b actor.Shape) (Manifold, bool) {
	a, b = deref(a), deref(b)

	switch shapeA := a.(type) {
	case actor.Box:
		switch shapeB := b.(type) {
		case actor.Box:
			return CollideBoxes(shapeA, shapeB)
		case actor.Plane:
			m, ok := CollideBoxPlane(shapeA, shapeB)
			// The plane normal points toward the box, flip it to go from A (box) to B (plane)
			m.Normal = m.Normal.Mul(-1)
			return m, ok
		}
	case actor.Plane:
		if shapeB, ok := b.(actor.Box); ok {
			return CollideBoxPlane(shapeB, shapeA)
		}
	}

	return Manifold{}, false
}

// deref turns *Box and *Plane into values, a nil pointer stays unsupported
func deref(s actor.Shape) actor.Shape {
	switch shape := s.(type) {
	case *actor.Box:
		if shape != nil {
			return *shape
		}
	case *actor.Plane:
		if shape != nil {
			return *shape
		}
	}

	return s
}

func isKnown(s actor.Shape) bool {
	switch s.(type) {
	case actor.Box, actor.Plane:
		return true
	}

	return false
}

// CollideBoxes runs the SAT on two oriented boxes.
//
// Exact ties between candidate axes keep the first one in test order (faces
// of a, faces of b, then edges). Callers must not rely on which axis wins a tie.
func CollideBoxes(a, b actor.Box) (Manifold, bool) {
	// Vector from A's center to B's center
	t := b.Center.Sub(a.Center)

	best := math.MaxFloat64
	var bestAxis mgl64.Vec3

	// testAxis returns false as soon as the axis separates the boxes
	testAxis := func(axis mgl64.Vec3) bool {
		overlap := a.ProjectedRadius(axis) + b.ProjectedRadius(axis) - math.Abs(t.Dot(axis))
		if overlap <= 0 {
			return false
		}
		if overlap < best {
			best = overlap
			bestAxis = axis
		}
		return true
	}

	// Face normals of A and B are unit length already
	for i := 0; i < 3; i++ {
		if !testAxis(a.Axis(i)) {
			return Manifold{}, false
		}
	}
	for i := 0; i < 3; i++ {
		if !testAxis(b.Axis(i)) {
			return Manifold{}, false
		}
	}

	// Edge cross products, skipping parallel edges
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			axis := a.Axis(i).Cross(b.Axis(j))
			lengthSq := axis.Dot(axis)
			if lengthSq < DegenerateAxisEpsilon {
				continue
			}
			if !testAxis(axis.Mul(1.0 / math.Sqrt(lengthSq))) {
				return Manifold{}, false
			}
		}
	}

	// Orient the normal from A to B
	if t.Dot(bestAxis) < 0 {
		bestAxis = bestAxis.Mul(-1)
	}

	return Manifold{
		Normal: bestAxis,
		Depth:  best,
		Point:  contactPoint(a, b, bestAxis),
	}, true
}

// contactPoint returns the midpoint of both centers, moved along the normal
// onto the middle of the overlapping interval. It is only used for feedback.
func contactPoint(a, b actor.Box, normal mgl64.Vec3) mgl64.Vec3 {
	midpoint := a.Center.Add(b.Center).Mul(0.5)

	endA := a.ProjectCenter(normal) + a.ProjectedRadius(normal)
	startB := b.ProjectCenter(normal) - b.ProjectedRadius(normal)
	middle := (endA + startB) * 0.5

	return midpoint.Add(normal.Mul(middle - midpoint.Dot(normal)))
}

// CollideBoxPlane tests a box against the solid side of a plane.
// The overlap is the box radius along the plane normal minus the signed
// distance of its center. A box exactly touching the plane reports a contact
// with a zero depth, so a resting box keeps its contact frame after frame.
// The normal is the plane normal, the direction that pushes the box out.
func CollideBoxPlane(box actor.Box, plane actor.Plane) (Manifold, bool) {
	distance := plane.SignedDistance(box.Center)
	overlap := box.ProjectedRadius(plane.Normal) - distance
	if overlap < -ContactSlop {
		return Manifold{}, false
	}

	return Manifold{
		Normal: plane.Normal,
		Depth:  math.Max(overlap, 0),
		Point:  plane.ClosestPoint(box.Center),
	}, true
}
