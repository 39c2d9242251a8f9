package breach

import (
	"github.com/akmonengine/breach/actor"
	"github.com/akmonengine/breach/constraint"
	"github.com/akmonengine/breach/sat"
)

// GatherContactsAA tests every unordered pair (i, j), i < j, of one group of
// boxes and appends a contact for each overlapping pair to dst.
// A body is never paired with itself. The broad phase is a brute force AABB
// check, suitable for the few dozen bodies of a wall.
//
// dst is caller owned scratch storage: pass dst[:0] every frame to reuse it.
func GatherContactsAA(bodies []actor.Box, dst []constraint.Contact[int]) []constraint.Contact[int] {
	for i := 0; i < len(bodies); i++ {
		aabbA := bodies[i].ComputeAABB()
		for j := i + 1; j < len(bodies); j++ {
			if !aabbA.Overlaps(bodies[j].ComputeAABB()) {
				continue
			}
			if m, ok := sat.CollideBoxes(bodies[i], bodies[j]); ok {
				dst = append(dst, newContact(i, j, m))
			}
		}
	}

	return dst
}

// GatherContactsAB tests every pair (i ∈ as, j ∈ bs) across two groups and
// appends a contact for each overlap. The same slice may be given for both
// groups when they play different roles. Contact normals point from the
// shape of as toward the shape of bs, so a box against a plane reports the
// opposite of the plane normal. Pointer shapes are tested like values.
func GatherContactsAB[A, B actor.Shape](as []A, bs []B, dst []constraint.Contact[int]) []constraint.Contact[int] {
	for i := range as {
		for j := range bs {
			if !mayOverlap(as[i], bs[j]) {
				continue
			}
			if m, ok := sat.Collide(as[i], bs[j]); ok {
				dst = append(dst, newContact(i, j, m))
			}
		}
	}

	return dst
}

// GatherContactsGrid returns the same contacts as GatherContactsAA, in the
// same order, with the candidate pairs coming from the spatial grid. It pays
// off once a wall has exploded and its fragments are spread out.
func GatherContactsGrid(grid *SpatialGrid, bodies []actor.Box, dst []constraint.Contact[int]) []constraint.Contact[int] {
	for _, pair := range grid.Build(bodies) {
		if m, ok := sat.CollideBoxes(bodies[pair.A], bodies[pair.B]); ok {
			dst = append(dst, newContact(pair.A, pair.B, m))
		}
	}

	return dst
}

// mayOverlap is the broad phase check of a single pair.
// Planes are infinite and always go to the narrow phase.
func mayOverlap(a, b actor.Shape) bool {
	if isPlane(a) || isPlane(b) {
		return true
	}

	return a.ComputeAABB().Overlaps(b.ComputeAABB())
}

func isPlane(s actor.Shape) bool {
	switch s.(type) {
	case actor.Plane, *actor.Plane:
		return true
	}

	return false
}

func newContact(a, b int, m sat.Manifold) constraint.Contact[int] {
	return constraint.Contact[int]{
		A:      a,
		B:      b,
		Normal: m.Normal,
		Depth:  m.Depth,
		Point:  m.Point,
	}
}
