package geom

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestOctBBFromBumper(t *testing.T) {
	o := OctBBFromBumper(Bumper{Size: 1, Height: 2})

	assert.False(t, o.Empty)
	assert.Equal(t, float32(-1), o.Mins[OctX])
	assert.Equal(t, float32(2), o.Maxs[OctZ])
	assert.Equal(t, float32(0), o.Mins[OctZ])
	assert.InDelta(t, 2, o.Maxs[OctXY], 1e-5)
	assert.InDelta(t, -2, o.Mins[OctYX], 1e-5)

	assert.True(t, OctBBFromBumper(Bumper{}).Empty)
}

func TestOctBB_ClippedCorners(t *testing.T) {
	o := OctBBFromBumper(Bumper{Size: 1, SizeBig: 1, Height: 1})

	assert.True(t, o.ContainsPoint(mgl32.Vec3{0.9, 0, 0.5}))
	assert.False(t, o.ContainsPoint(mgl32.Vec3{0.95, 0.95, 0.5}), "corner is clipped by the diagonal")
}

func TestOctBB_ValidateClampsDiagonals(t *testing.T) {
	o := OctBB{
		Mins: OctVec{0, 0, 0, -100, -100},
		Maxs: OctVec{1, 1, 1, 100, 100},
	}
	o.Validate()

	assert.False(t, o.Empty)
	assert.Equal(t, float32(0), o.Mins[OctXY])
	assert.Equal(t, float32(2), o.Maxs[OctXY])
	assert.Equal(t, float32(-1), o.Mins[OctYX])
	assert.Equal(t, float32(1), o.Maxs[OctYX])
}

func TestOctBB_ValidateMarksEmpty(t *testing.T) {
	o := OctBB{
		Mins: OctVec{0, 0, 0, 5, -1},
		Maxs: OctVec{1, 1, 1, 6, 1},
	}
	o.Validate()
	assert.True(t, o.Empty)
}

func TestOctBBIntersectsOctBB(t *testing.T) {
	box := OctBBFromBumper(Bumper{Size: 0.5, Height: 1})

	assert.Equal(t, Outside, OctBBIntersectsOctBB(box, mgl32.Vec3{}, box, mgl32.Vec3{2, 0, 0}))
	assert.Equal(t, Intersect, OctBBIntersectsOctBB(box, mgl32.Vec3{}, box, mgl32.Vec3{0.5, 0, 0}))
	assert.Equal(t, Intersect, OctBBIntersectsOctBB(box, mgl32.Vec3{}, box, mgl32.Vec3{1, 0, 0}))
	assert.Equal(t, Inside, OctBBIntersectsOctBB(box, mgl32.Vec3{}, box, mgl32.Vec3{}))

	// Boxes touching at a corner are separated by the clipped diagonal.
	clipped := OctBBFromBumper(Bumper{Size: 0.5, SizeBig: 0.5, Height: 1})
	assert.Equal(t, Outside, OctBBIntersectsOctBB(clipped, mgl32.Vec3{}, clipped, mgl32.Vec3{0.9, 0.9, 0}))

	assert.Equal(t, Error, OctBBIntersectsOctBB(EmptyOctBB(), mgl32.Vec3{}, box, mgl32.Vec3{}))
}

func TestOctBB_Symmetric(t *testing.T) {
	a := OctBBFromBumper(Bumper{Size: 0.5, Height: 1})
	b := OctBBFromBumper(Bumper{Size: 1, SizeBig: 1.1, Height: 2})

	for _, p := range []mgl32.Vec3{{0, 0, 0}, {1.2, 0.3, 0}, {1.4, 1.4, 0}, {0, 0, 2.5}, {-1, 1, 0.5}} {
		ab := OctBBIntersectsOctBB(a, mgl32.Vec3{}, b, p).Hit()
		ba := OctBBIntersectsOctBB(b, p, a, mgl32.Vec3{}).Hit()
		assert.Equal(t, ab, ba, "offset %v", p)
	}
}

func TestOctBB_UnionAndIntersection(t *testing.T) {
	a := OctBBFromBumper(Bumper{Size: 1, Height: 1})
	b := a.Translate(mgl32.Vec3{1, 0, 0})

	u := a.Union(b)
	assert.Equal(t, float32(-1), u.Mins[OctX])
	assert.Equal(t, float32(2), u.Maxs[OctX])

	i := a.Intersection(b)
	assert.False(t, i.Empty)
	assert.Equal(t, float32(0), i.Mins[OctX])
	assert.Equal(t, float32(1), i.Maxs[OctX])

	far := a.Translate(mgl32.Vec3{5, 0, 0})
	assert.True(t, a.Intersection(far).Empty)
	assert.Equal(t, a, EmptyOctBB().Union(a))
}

func TestOctBB_Depth(t *testing.T) {
	o := OctBBFromBumper(Bumper{Size: 1, Height: 3})

	assert.Equal(t, float32(2), o.Depth(OctX))
	assert.Equal(t, float32(3), o.Depth(OctZ))
	assert.InDelta(t, 2*1.41421356, o.Depth(OctXY), 1e-4)
}
