package geom

import "github.com/go-gl/mathgl/mgl32"

// Frustum planes in order left, right, bottom, top, near, far. Count is 4 when the
// frustum was built without near/far clipping.
type Frustum struct {
	Planes [6]Plane
	Count  int
}

// NewFrustum extracts the clip planes from a view-projection matrix. ok is false if
// any plane degenerates.
func NewFrustum(viewProj mgl32.Mat4, clipNearFar bool) (Frustum, bool) {
	r0, r1, r2, r3 := viewProj.Row(0), viewProj.Row(1), viewProj.Row(2), viewProj.Row(3)
	rows := [6]mgl32.Vec4{
		r3.Add(r0),
		r3.Sub(r0),
		r3.Add(r1),
		r3.Sub(r1),
		r3.Add(r2),
		r3.Sub(r2),
	}
	f := Frustum{Count: 4}
	if clipNearFar {
		f.Count = 6
	}
	for i := 0; i < f.Count; i++ {
		p, ok := PlaneFromCoefficients(rows[i][0], rows[i][1], rows[i][2], rows[i][3])
		if !ok {
			return Frustum{}, false
		}
		f.Planes[i] = p
	}
	return f, true
}

func (f Frustum) PointInside(p mgl32.Vec3) Relation {
	if f.Count == 0 {
		return Error
	}
	res := Inside
	for i := 0; i < f.Count; i++ {
		switch f.Planes[i].ClassifyPoint(p) {
		case Outside:
			return Outside
		case Intersect:
			res = Intersect
		}
	}
	return res
}

func (f Frustum) SphereIntersects(s Sphere) Relation {
	if f.Count == 0 || !s.Valid() {
		return Error
	}
	res := Inside
	for i := 0; i < f.Count; i++ {
		switch f.Planes[i].ClassifySphere(s) {
		case Outside:
			return Outside
		case Intersect:
			res = Intersect
		}
	}
	return res
}

func (f Frustum) AABBIntersects(a AABB) Relation {
	if f.Count == 0 || !a.Valid() {
		return Error
	}
	res := Inside
	for i := 0; i < f.Count; i++ {
		switch f.Planes[i].ClassifyAABB(a) {
		case Outside:
			return Outside
		case Intersect:
			res = Intersect
		}
	}
	return res
}
