package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Sphere with a negative radius is uninitialized.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

func (s Sphere) Valid() bool {
	return s.Radius >= 0 && Finite3(s.Center) && !math32.IsInf(s.Radius, 0)
}

// ContainsPoint counts points on the surface as contained.
func (s Sphere) ContainsPoint(p mgl32.Vec3) bool {
	return p.Sub(s.Center).LenSqr() <= s.Radius*s.Radius
}

// SphereIntersectsSphere classifies a against b. Touching surfaces intersect; Inside
// requires a to be strictly contained in b.
func SphereIntersectsSphere(a, b Sphere) Relation {
	if !a.Valid() || !b.Valid() {
		return Error
	}
	d2 := a.Center.Sub(b.Center).LenSqr()
	sum := a.Radius + b.Radius
	if d2 > sum*sum {
		return Outside
	}
	diff := b.Radius - a.Radius
	if diff > 0 && d2 < diff*diff {
		return Inside
	}
	return Intersect
}
