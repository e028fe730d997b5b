package geom

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Plane holds the points p with Normal·p + D = 0. Normal is unit length and the
// positive half-space is the "inside".
type Plane struct {
	Normal mgl32.Vec3
	D      float32
}

// NewPlane builds a plane through point facing normal.
func NewPlane(normal, point mgl32.Vec3) (Plane, bool) {
	n, ok := Normalize3(normal)
	if !ok {
		return Plane{}, false
	}
	return Plane{Normal: n, D: -n.Dot(point)}, true
}

// PlaneFromCoefficients normalizes ax+by+cz+d.
func PlaneFromCoefficients(a, b, c, d float32) (Plane, bool) {
	v := mgl32.Vec3{a, b, c}
	l := v.Len()
	if l <= Epsilon {
		return Plane{}, false
	}
	return Plane{Normal: v.Mul(1 / l), D: d / l}, true
}

func (p Plane) Distance(pt mgl32.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

func (p Plane) ClassifyPoint(pt mgl32.Vec3) Relation {
	d := p.Distance(pt)
	if d < 0 {
		return Outside
	}
	if d == 0 {
		return Intersect
	}
	return Inside
}

func (p Plane) ClassifySphere(s Sphere) Relation {
	if !s.Valid() {
		return Error
	}
	d := p.Distance(s.Center)
	if d < -s.Radius {
		return Outside
	}
	if d <= s.Radius {
		return Intersect
	}
	return Inside
}

// ClassifyAABB tests the box's nearest and farthest corners along the normal.
func (p Plane) ClassifyAABB(a AABB) Relation {
	if !a.Valid() {
		return Error
	}
	var pos, neg mgl32.Vec3
	for i := 0; i < 3; i++ {
		if p.Normal[i] >= 0 {
			pos[i], neg[i] = a.Max[i], a.Min[i]
		} else {
			pos[i], neg[i] = a.Min[i], a.Max[i]
		}
	}
	if p.Distance(pos) < 0 {
		return Outside
	}
	if p.Distance(neg) < 0 {
		return Intersect
	}
	return Inside
}
