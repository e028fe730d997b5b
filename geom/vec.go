package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the length below which a vector is treated as zero.
const Epsilon = 1e-6

// InvSqrt2 scales the unnormalized diagonal oct axes back to world units.
const InvSqrt2 = 0.70710678118

// Normalize3 returns v scaled to unit length. ok is false for zero-length or NaN input.
func Normalize3(v mgl32.Vec3) (n mgl32.Vec3, ok bool) {
	l := v.Len()
	if l <= Epsilon || math32.IsNaN(l) || math32.IsInf(l, 0) {
		return mgl32.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// ClampLen limits the length of v to max.
func ClampLen(v mgl32.Vec3, max float32) mgl32.Vec3 {
	if max <= 0 {
		return mgl32.Vec3{}
	}
	l2 := v.LenSqr()
	if l2 <= max*max {
		return v
	}
	return v.Mul(max / math32.Sqrt(l2))
}

// Finite3 reports whether every component of v is a finite number.
func Finite3(v mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if math32.IsNaN(v[i]) || math32.IsInf(v[i], 0) {
			return false
		}
	}
	return true
}
