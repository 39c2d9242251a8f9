package actor

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Tolerances used by Validate. They are loose on purpose: frames built from
// float quaternions drift a little and are still usable.
const (
	OrthonormalTolerance = 1e-6
	UnitNormalTolerance  = 1e-6
)

var (
	ErrNonOrthonormalFrame = errors.New("actor: orientation frame is not orthonormal")
	ErrNegativeExtent      = errors.New("actor: negative half extent")
	ErrNonUnitNormal       = errors.New("actor: plane normal is not unit length")
)

// Shape is implemented by every collision primitive of the game: oriented
// boxes for the player, the menu targets and the wall elements, and planes
// for the floor and the play area bounds.
type Shape interface {
	// ComputeAABB calculates the axis-aligned bounding box of the shape in world space
	ComputeAABB() AABB
	// Validate reports a caller error when the shape breaks its invariants
	Validate() error
}

// Box represents an oriented box collision shape.
//
// Axes holds the box local X, Y and Z axes as columns, they must be mutually
// orthonormal. The zero matrix is accepted and means "no rotation": it reads
// as the identity frame, so a Box literal without Axes is axis aligned.
type Box struct {
	Center      mgl64.Vec3
	Axes        mgl64.Mat3
	HalfExtents mgl64.Vec3
}

// NewBox creates an axis aligned box
func NewBox(center mgl64.Vec3, halfExtents mgl64.Vec3) Box {
	return Box{
		Center:      center,
		Axes:        mgl64.Ident3(),
		HalfExtents: halfExtents,
	}
}

// NewOrientedBox creates a box whose frame is the given rotation
func NewOrientedBox(center mgl64.Vec3, halfExtents mgl64.Vec3, rotation mgl64.Quat) Box {
	return Box{
		Center:      center,
		Axes:        rotation.Normalize().Mat4().Mat3(),
		HalfExtents: halfExtents,
	}
}

// Frame returns the orientation matrix, the identity when Axes is unset
func (b Box) Frame() mgl64.Mat3 {
	if b.Axes == (mgl64.Mat3{}) {
		return mgl64.Ident3()
	}

	return b.Axes
}

// Axis returns the i-th local axis of the box in world space
func (b Box) Axis(i int) mgl64.Vec3 {
	return b.Frame().Col(i)
}

// ProjectedRadius returns the half length of the box projection on axis:
// r = Σ halfExtent_i * |axis·axis_i|
func (b Box) ProjectedRadius(axis mgl64.Vec3) float64 {
	frame := b.Frame()

	return b.HalfExtents.X()*math.Abs(axis.Dot(frame.Col(0))) +
		b.HalfExtents.Y()*math.Abs(axis.Dot(frame.Col(1))) +
		b.HalfExtents.Z()*math.Abs(axis.Dot(frame.Col(2)))
}

// ProjectCenter returns the projection of the box center on axis
func (b Box) ProjectCenter(axis mgl64.Vec3) float64 {
	return b.Center.Dot(axis)
}

// Translate moves the box center by delta
func (b *Box) Translate(delta mgl64.Vec3) {
	b.Center = b.Center.Add(delta)
}

func (b Box) ComputeAABB() AABB {
	// Along a world axis the projected radius of an oriented box is
	// Σ h_i * |frame[axis][i]|, which spans the same bounds as its 8 corners.
	frame := b.Frame()

	var extent mgl64.Vec3
	for row := 0; row < 3; row++ {
		extent[row] = b.HalfExtents.X()*math.Abs(frame.At(row, 0)) +
			b.HalfExtents.Y()*math.Abs(frame.At(row, 1)) +
			b.HalfExtents.Z()*math.Abs(frame.At(row, 2))
	}

	return AABB{Min: b.Center.Sub(extent), Max: b.Center.Add(extent)}
}

// Corners returns the 8 vertices of the box in world space
func (b Box) Corners() [8]mgl64.Vec3 {
	frame := b.Frame()
	hx := frame.Col(0).Mul(b.HalfExtents.X())
	hy := frame.Col(1).Mul(b.HalfExtents.Y())
	hz := frame.Col(2).Mul(b.HalfExtents.Z())

	var corners [8]mgl64.Vec3
	for i := range corners {
		corner := b.Center
		if i&1 == 0 {
			corner = corner.Sub(hx)
		} else {
			corner = corner.Add(hx)
		}
		if i&2 == 0 {
			corner = corner.Sub(hy)
		} else {
			corner = corner.Add(hy)
		}
		if i&4 == 0 {
			corner = corner.Sub(hz)
		} else {
			corner = corner.Add(hz)
		}
		corners[i] = corner
	}

	return corners
}

// Validate checks the orthonormal frame and the half extents
func (b Box) Validate() error {
	if b.HalfExtents.X() < 0 || b.HalfExtents.Y() < 0 || b.HalfExtents.Z() < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeExtent, b.HalfExtents)
	}

	frame := b.Frame()
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if dot := frame.Col(i).Dot(frame.Col(j)); math.Abs(dot-want) > OrthonormalTolerance {
				return fmt.Errorf("%w: columns %d·%d = %v", ErrNonOrthonormalFrame, i, j, dot)
			}
		}
	}

	return nil
}

// Plane represents an infinite static boundary.
// The plane is defined by the equation: Normal · p - Distance = 0
// where Normal is the plane's unit normal and Distance the signed distance
// from the origin along the normal. The solid side is below the normal.
type Plane struct {
	Normal   mgl64.Vec3
	Distance float64
}

// SignedDistance returns the distance from point to the plane, positive on the normal side
func (p Plane) SignedDistance(point mgl64.Vec3) float64 {
	return point.Dot(p.Normal) - p.Distance
}

// ClosestPoint projects point on the plane
func (p Plane) ClosestPoint(point mgl64.Vec3) mgl64.Vec3 {
	return point.Sub(p.Normal.Mul(p.SignedDistance(point)))
}

func (p Plane) ComputeAABB() AABB {
	const thickness = 1.0 // detection depth below the surface
	const infinity = 1e10

	planePoint := p.Normal.Mul(p.Distance)
	min := planePoint.Sub(p.Normal.Mul(thickness))
	max := planePoint
	for i := 0; i < 3; i++ {
		if min[i] > max[i] {
			min[i], max[i] = max[i], min[i]
		}
	}

	// Every axis not aligned with the normal extends to infinity
	for i := 0; i < 3; i++ {
		if math.Abs(p.Normal[i]) < 1.0 {
			min[i] = -infinity
			max[i] = infinity
		}
	}

	return AABB{Min: min, Max: max}
}

// Validate checks that the normal is unit length
func (p Plane) Validate() error {
	if length := p.Normal.Len(); math.Abs(length-1) > UnitNormalTolerance {
		return fmt.Errorf("%w: |%v| = %v", ErrNonUnitNormal, p.Normal, length)
	}

	return nil
}
