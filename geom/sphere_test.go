package geom

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestSphereIntersectsSphere(t *testing.T) {
	unit := Sphere{Center: mgl32.Vec3{}, Radius: 1}

	tests := []struct {
		name string
		a, b Sphere
		want Relation
	}{
		{"apart", unit, Sphere{Center: mgl32.Vec3{3, 0, 0}, Radius: 1}, Outside},
		{"touching", unit, Sphere{Center: mgl32.Vec3{2, 0, 0}, Radius: 1}, Intersect},
		{"overlap", unit, Sphere{Center: mgl32.Vec3{1, 0, 0}, Radius: 1}, Intersect},
		{"contained", Sphere{Center: mgl32.Vec3{0.1, 0, 0}, Radius: 0.5}, unit, Inside},
		{"internally tangent", Sphere{Center: mgl32.Vec3{0.5, 0, 0}, Radius: 0.5}, unit, Intersect},
		{"container", unit, Sphere{Center: mgl32.Vec3{}, Radius: 0.5}, Intersect},
		{"negative radius", Sphere{Radius: -1}, unit, Error},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SphereIntersectsSphere(tt.a, tt.b))
		})
	}
}

func TestConeIntersectsSphere(t *testing.T) {
	cone, ok := NewCone(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, math32.Pi/4)
	if !ok {
		t.Fatal("cone should be valid")
	}

	assert.Equal(t, Inside, ConeIntersectsSphere(cone, Sphere{Center: mgl32.Vec3{5, 0, 0}, Radius: 1}))
	assert.Equal(t, Intersect, ConeIntersectsSphere(cone, Sphere{Center: mgl32.Vec3{5, 5, 0}, Radius: 1}))
	assert.Equal(t, Outside, ConeIntersectsSphere(cone, Sphere{Center: mgl32.Vec3{0, 5, 0}, Radius: 1}))
	assert.Equal(t, Outside, ConeIntersectsSphere(cone, Sphere{Center: mgl32.Vec3{-5, 0, 0}, Radius: 1}))
	assert.Equal(t, Intersect, ConeIntersectsSphere(cone, Sphere{Center: mgl32.Vec3{-0.5, 0, 0}, Radius: 1}))
	assert.Equal(t, Error, ConeIntersectsSphere(cone, Sphere{Radius: -1}))
}

func TestNewCone_Degenerate(t *testing.T) {
	_, ok := NewCone(mgl32.Vec3{}, mgl32.Vec3{}, 0.5)
	assert.False(t, ok)

	_, ok = NewCone(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, 0)
	assert.False(t, ok)
}

func TestNormalize3_Zero(t *testing.T) {
	_, ok := Normalize3(mgl32.Vec3{})
	assert.False(t, ok)

	n, ok := Normalize3(mgl32.Vec3{0, 3, 4})
	assert.True(t, ok)
	assert.InDelta(t, 1, n.Len(), 1e-6)
}
