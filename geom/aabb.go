package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type AABB struct {
	Min mgl32.Vec3 `yaml:"min"`
	Max mgl32.Vec3 `yaml:"max"`
}

func NewAABB(min, max mgl32.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns an inverted box that acts as the identity for Union.
func EmptyAABB() AABB {
	inf := math32.Inf(1)
	return AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// AABBFromCenter builds a box from a center point and half extents.
func AABBFromCenter(center, halfExtents mgl32.Vec3) AABB {
	return AABB{Min: center.Sub(halfExtents), Max: center.Add(halfExtents)}
}

// Valid reports whether the box is finite and not inverted on any axis.
func (a AABB) Valid() bool {
	if !Finite3(a.Min) || !Finite3(a.Max) {
		return false
	}
	return a.Min.X() <= a.Max.X() && a.Min.Y() <= a.Max.Y() && a.Min.Z() <= a.Max.Z()
}

func (a AABB) Center() mgl32.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

func (a AABB) HalfExtents() mgl32.Vec3 {
	return a.Max.Sub(a.Min).Mul(0.5)
}

func (a AABB) Size() mgl32.Vec3 {
	return a.Max.Sub(a.Min)
}

func (a AABB) Translate(v mgl32.Vec3) AABB {
	return AABB{Min: a.Min.Add(v), Max: a.Max.Add(v)}
}

func (a AABB) Grow(d float32) AABB {
	g := mgl32.Vec3{d, d, d}
	return AABB{Min: a.Min.Sub(g), Max: a.Max.Add(g)}
}

// Union returns the smallest box containing both boxes. Invalid operands are ignored.
func (a AABB) Union(b AABB) AABB {
	if !b.Valid() {
		return a
	}
	if !a.Valid() {
		return b
	}
	return AABB{
		Min: mgl32.Vec3{math32.Min(a.Min.X(), b.Min.X()), math32.Min(a.Min.Y(), b.Min.Y()), math32.Min(a.Min.Z(), b.Min.Z())},
		Max: mgl32.Vec3{math32.Max(a.Max.X(), b.Max.X()), math32.Max(a.Max.Y(), b.Max.Y()), math32.Max(a.Max.Z(), b.Max.Z())},
	}
}

// Overlaps reports whether the boxes share any point; touching faces overlap.
func (a AABB) Overlaps(b AABB) bool {
	for i := 0; i < 3; i++ {
		if a.Max[i] < b.Min[i] || b.Max[i] < a.Min[i] {
			return false
		}
	}
	return true
}

// Contains reports whether b lies entirely within a.
func (a AABB) Contains(b AABB) bool {
	for i := 0; i < 3; i++ {
		if b.Min[i] < a.Min[i] || b.Max[i] > a.Max[i] {
			return false
		}
	}
	return true
}

func (a AABB) ContainsPoint(p mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < a.Min[i] || p[i] > a.Max[i] {
			return false
		}
	}
	return true
}

// Corners returns the eight corner points of the box.
func (a AABB) Corners() [8]mgl32.Vec3 {
	var c [8]mgl32.Vec3
	for i := 0; i < 8; i++ {
		p := a.Min
		if i&1 != 0 {
			p[0] = a.Max[0]
		}
		if i&2 != 0 {
			p[1] = a.Max[1]
		}
		if i&4 != 0 {
			p[2] = a.Max[2]
		}
		c[i] = p
	}
	return c
}

// AABBIntersectsAABB classifies a against b. Inside means a lies entirely within b.
func AABBIntersectsAABB(a, b AABB) Relation {
	if !a.Valid() || !b.Valid() {
		return Error
	}
	if !a.Overlaps(b) {
		return Outside
	}
	if b.Contains(a) {
		return Inside
	}
	return Intersect
}
