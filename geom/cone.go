package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Cone is an infinite cone with its apex at Origin opening along Axis.
type Cone struct {
	Origin    mgl32.Vec3
	Axis      mgl32.Vec3
	HalfAngle float32
}

// NewCone normalizes axis. ok is false for a zero axis or a half angle outside (0, pi).
func NewCone(origin, axis mgl32.Vec3, halfAngle float32) (Cone, bool) {
	n, ok := Normalize3(axis)
	if !ok || halfAngle <= 0 || halfAngle >= math32.Pi {
		return Cone{}, false
	}
	return Cone{Origin: origin, Axis: n, HalfAngle: halfAngle}, true
}

// ContainsPoint reports whether p lies inside the cone or on its surface.
func (c Cone) ContainsPoint(p mgl32.Vec3) bool {
	rel := p.Sub(c.Origin)
	l := rel.Len()
	if l <= Epsilon {
		return true
	}
	return rel.Dot(c.Axis)/l >= math32.Cos(c.HalfAngle)
}

// ConeIntersectsSphere classifies sphere s against cone c using the signed distance
// from the sphere center to the cone surface.
func ConeIntersectsSphere(c Cone, s Sphere) Relation {
	if !s.Valid() || c.HalfAngle <= 0 || c.HalfAngle >= math32.Pi {
		return Error
	}
	if math32.Abs(c.Axis.Len()-1) > 1e-3 {
		return Error
	}
	rel := s.Center.Sub(c.Origin)
	along := rel.Dot(c.Axis)
	perp := rel.Sub(c.Axis.Mul(along)).Len()
	sinA, cosA := math32.Sincos(c.HalfAngle)

	// Behind the apex the nearest feature is the apex itself.
	if along*cosA+perp*sinA < 0 {
		d2 := rel.LenSqr()
		if d2 > s.Radius*s.Radius {
			return Outside
		}
		return Intersect
	}
	dist := perp*cosA - along*sinA
	if dist > s.Radius {
		return Outside
	}
	if dist < -s.Radius {
		return Inside
	}
	return Intersect
}
