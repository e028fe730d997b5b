package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// BV pairs a box with an enclosing sphere for a cheap first rejection.
type BV struct {
	AABB   AABB
	Sphere Sphere
}

// NewBV returns a validated volume for box.
func NewBV(box AABB) BV {
	b := BV{AABB: box}
	b.Validate()
	return b
}

func BVFromOctBB(o OctBB) BV {
	return NewBV(o.ToAABB())
}

// Validate recomputes the sphere from the box. An invalid box leaves the sphere
// uninitialized.
func (b *BV) Validate() {
	if !b.AABB.Valid() {
		b.Sphere = Sphere{Radius: -1}
		return
	}
	c := b.AABB.Center()
	var far mgl32.Vec3
	for i := 0; i < 3; i++ {
		far[i] = math32.Max(b.AABB.Max[i]-c[i], c[i]-b.AABB.Min[i])
	}
	b.Sphere = Sphere{Center: c, Radius: far.Len()}
}

func (b BV) Valid() bool {
	return b.AABB.Valid() && b.Sphere.Valid()
}

// Overlaps rejects on the spheres first, then tests the boxes.
func (b BV) Overlaps(o BV) bool {
	if !b.Valid() || !o.Valid() {
		return false
	}
	if SphereIntersectsSphere(b.Sphere, o.Sphere) == Outside {
		return false
	}
	return b.AABB.Overlaps(o.AABB)
}

func (b BV) Union(o BV) BV {
	return NewBV(b.AABB.Union(o.AABB))
}
