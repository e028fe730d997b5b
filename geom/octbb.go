package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// OctAxis indexes the five extents of an OctBB.
type OctAxis int8

const (
	OctX OctAxis = iota
	OctY
	OctZ
	OctXY // x + y
	OctYX // y - x
	OctCount

	NoAxis OctAxis = -1
)

func (a OctAxis) String() string {
	switch a {
	case OctX:
		return "x"
	case OctY:
		return "y"
	case OctZ:
		return "z"
	case OctXY:
		return "xy"
	case OctYX:
		return "yx"
	case NoAxis:
		return "none"
	}
	return "invalid"
}

// Normal returns the unit world direction of the axis.
func (a OctAxis) Normal() mgl32.Vec3 {
	switch a {
	case OctX:
		return mgl32.Vec3{1, 0, 0}
	case OctY:
		return mgl32.Vec3{0, 1, 0}
	case OctZ:
		return mgl32.Vec3{0, 0, 1}
	case OctXY:
		return mgl32.Vec3{InvSqrt2, InvSqrt2, 0}
	case OctYX:
		return mgl32.Vec3{-InvSqrt2, InvSqrt2, 0}
	}
	return mgl32.Vec3{}
}

// Diagonal reports whether the axis is one of the unnormalized diagonals.
func (a OctAxis) Diagonal() bool {
	return a == OctXY || a == OctYX
}

// OctVec is a point or velocity projected onto the five oct axes.
type OctVec [OctCount]float32

func OctVecFromVec3(v mgl32.Vec3) OctVec {
	return OctVec{v.X(), v.Y(), v.Z(), v.X() + v.Y(), v.Y() - v.X()}
}

// OctBB is an octagonal prism bound: an AABB with its corners clipped by the two
// vertical diagonal planes.
type OctBB struct {
	Mins  OctVec
	Maxs  OctVec
	Empty bool
}

// EmptyOctBB is the identity for Union.
func EmptyOctBB() OctBB {
	var o OctBB
	for i := range o.Mins {
		o.Mins[i] = math32.Inf(1)
		o.Maxs[i] = math32.Inf(-1)
	}
	o.Empty = true
	return o
}

// OctBBFromBumper builds the volume of a bumper relative to its owner's origin. Z runs
// from the feet at 0 to Height.
func OctBBFromBumper(b Bumper) OctBB {
	if b.IsZero() {
		return EmptyOctBB()
	}
	// SizeBig is a world distance along the diagonal; the stored diagonals are unnormalized.
	big := b.BigSize() * math32.Sqrt2
	o := OctBB{
		Mins: OctVec{-b.Size, -b.Size, 0, -big, -big},
		Maxs: OctVec{b.Size, b.Size, b.Height, big, big},
	}
	o.Validate()
	return o
}

func OctBBFromPoint(p mgl32.Vec3) OctBB {
	v := OctVecFromVec3(p)
	return OctBB{Mins: v, Maxs: v}
}

// OctBBFromAABB returns the oct volume whose diagonals are implied by the box corners.
func OctBBFromAABB(a AABB) OctBB {
	if !a.Valid() {
		return EmptyOctBB()
	}
	o := OctBB{
		Mins: OctVec{a.Min.X(), a.Min.Y(), a.Min.Z(), math32.Inf(-1), math32.Inf(-1)},
		Maxs: OctVec{a.Max.X(), a.Max.Y(), a.Max.Z(), math32.Inf(1), math32.Inf(1)},
	}
	o.Validate()
	return o
}

// Validate clamps the diagonal extents to what the box corners can reach and
// recomputes Empty.
func (o *OctBB) Validate() {
	o.Mins[OctXY] = math32.Max(o.Mins[OctXY], o.Mins[OctX]+o.Mins[OctY])
	o.Maxs[OctXY] = math32.Min(o.Maxs[OctXY], o.Maxs[OctX]+o.Maxs[OctY])
	o.Mins[OctYX] = math32.Max(o.Mins[OctYX], o.Mins[OctY]-o.Maxs[OctX])
	o.Maxs[OctYX] = math32.Min(o.Maxs[OctYX], o.Maxs[OctY]-o.Mins[OctX])

	o.Empty = false
	for i := OctAxis(0); i < OctCount; i++ {
		if !(o.Mins[i] <= o.Maxs[i]) {
			o.Empty = true
			return
		}
	}
}

// Translate moves the volume by a world offset.
func (o OctBB) Translate(p mgl32.Vec3) OctBB {
	if o.Empty {
		return o
	}
	d := OctVecFromVec3(p)
	for i := range d {
		o.Mins[i] += d[i]
		o.Maxs[i] += d[i]
	}
	return o
}

func (o OctBB) Union(b OctBB) OctBB {
	if b.Empty {
		return o
	}
	if o.Empty {
		return b
	}
	for i := range o.Mins {
		o.Mins[i] = math32.Min(o.Mins[i], b.Mins[i])
		o.Maxs[i] = math32.Max(o.Maxs[i], b.Maxs[i])
	}
	return o
}

func (o OctBB) Intersection(b OctBB) OctBB {
	if o.Empty || b.Empty {
		return EmptyOctBB()
	}
	for i := range o.Mins {
		o.Mins[i] = math32.Max(o.Mins[i], b.Mins[i])
		o.Maxs[i] = math32.Min(o.Maxs[i], b.Maxs[i])
	}
	o.Validate()
	return o
}

func (o OctBB) ContainsPoint(p mgl32.Vec3) bool {
	if o.Empty {
		return false
	}
	v := OctVecFromVec3(p)
	for i := range v {
		if v[i] < o.Mins[i] || v[i] > o.Maxs[i] {
			return false
		}
	}
	return true
}

// Overlaps reports whether the volumes share a point on every axis; touching overlaps.
func (o OctBB) Overlaps(b OctBB) bool {
	if o.Empty || b.Empty {
		return false
	}
	for i := range o.Mins {
		if o.Maxs[i] < b.Mins[i] || b.Maxs[i] < o.Mins[i] {
			return false
		}
	}
	return true
}

// Grow expands every extent by d. Diagonals grow by d·√2 so the clipped corners
// stay d away from the original surface.
func (o OctBB) Grow(d float32) OctBB {
	if o.Empty {
		return o
	}
	for i := OctAxis(0); i < OctCount; i++ {
		g := d
		if i.Diagonal() {
			g = d * math32.Sqrt2
		}
		o.Mins[i] -= g
		o.Maxs[i] += g
	}
	o.Validate()
	return o
}

// Interpolate returns the volume translated by vel·t.
func (o OctBB) Interpolate(vel mgl32.Vec3, t float32) OctBB {
	return o.Translate(vel.Mul(t))
}

// Sweep returns the union of the volume at t=0 and t=1 along vel.
func (o OctBB) Sweep(vel mgl32.Vec3) OctBB {
	return o.Union(o.Translate(vel))
}

// Depth returns the extent along an axis, scaled to world units for diagonals.
func (o OctBB) Depth(axis OctAxis) float32 {
	if o.Empty {
		return 0
	}
	d := o.Maxs[axis] - o.Mins[axis]
	if axis.Diagonal() {
		d *= InvSqrt2
	}
	return d
}

func (o OctBB) Center() mgl32.Vec3 {
	return o.ToAABB().Center()
}

// ToAABB drops the diagonal extents.
func (o OctBB) ToAABB() AABB {
	if o.Empty {
		return EmptyAABB()
	}
	return AABB{
		Min: mgl32.Vec3{o.Mins[OctX], o.Mins[OctY], o.Mins[OctZ]},
		Max: mgl32.Vec3{o.Maxs[OctX], o.Maxs[OctY], o.Maxs[OctZ]},
	}
}

// OctBBIntersectsOctBB classifies a at posA against b at posB over all five axes.
// Inside means a lies within b.
func OctBBIntersectsOctBB(a OctBB, posA mgl32.Vec3, b OctBB, posB mgl32.Vec3) Relation {
	if a.Empty || b.Empty {
		return Error
	}
	wa := a.Translate(posA)
	wb := b.Translate(posB)
	inside := true
	for i := range wa.Mins {
		if wa.Maxs[i] < wb.Mins[i] || wb.Maxs[i] < wa.Mins[i] {
			return Outside
		}
		if wa.Mins[i] < wb.Mins[i] || wa.Maxs[i] > wb.Maxs[i] {
			inside = false
		}
	}
	if inside {
		return Inside
	}
	return Intersect
}
