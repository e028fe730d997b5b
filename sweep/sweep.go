// Package sweep computes when two moving oct volumes overlap during one tick.
package sweep

import (
	"github.com/chewxy/math32"
	"github.com/gekko3d/bump/geom"
	"github.com/go-gl/mathgl/mgl32"
)

// Sentinel bounds the interval on axes with no relative motion.
const Sentinel float32 = 1e6

// Flags select platform handling for the pair.
type Flags uint8

const (
	// PlatformA extends the top of a by the platform tolerance.
	PlatformA Flags = 1 << iota
	// PlatformB extends the top of b by the platform tolerance.
	PlatformB
)

// Body is a volume anchored at Pos and moving by Vel over one tick.
type Body struct {
	Pos    mgl32.Vec3
	Vel    mgl32.Vec3
	Volume geom.OctBB
}

// World returns the volume at t=0 in world space.
func (b Body) World() geom.OctBB {
	return b.Volume.Translate(b.Pos)
}

// Result is the interval of overlap in tick time. TMin may be negative when the
// bodies already overlap at t=0.
type Result struct {
	TMin    float32
	TMax    float32
	Axis    geom.OctAxis
	Overlap geom.OctBB
}

// Overlapping reports whether the bodies were already in contact at tick start.
func (r Result) Overlapping() bool {
	return r.TMin <= 0
}

// Intersect runs a slab test over the five oct axes. ok is false when any axis never
// overlaps inside [0,1].
func Intersect(a, b Body, flags Flags, tolerance float32) (res Result, ok bool) {
	if a.Volume.Empty || b.Volume.Empty {
		return Result{Axis: geom.NoAxis}, false
	}
	wa, wb := a.World(), b.World()
	if flags&PlatformA != 0 {
		wa.Maxs[geom.OctZ] += tolerance
	}
	if flags&PlatformB != 0 {
		wb.Maxs[geom.OctZ] += tolerance
	}

	// b relative to a
	rel := geom.OctVecFromVec3(b.Vel.Sub(a.Vel))

	res = Result{TMin: -Sentinel, TMax: Sentinel, Axis: geom.NoAxis}
	for i := geom.OctAxis(0); i < geom.OctCount; i++ {
		v := rel[i]
		if v == 0 {
			if wb.Mins[i] > wa.Maxs[i] || wa.Mins[i] > wb.Maxs[i] {
				return Result{Axis: geom.NoAxis}, false
			}
			continue
		}
		enter := (wa.Mins[i] - wb.Maxs[i]) / v
		exit := (wa.Maxs[i] - wb.Mins[i]) / v
		if enter > exit {
			enter, exit = exit, enter
		}
		enter = math32.Max(enter, -Sentinel)
		exit = math32.Min(exit, Sentinel)
		if enter > res.TMin {
			res.TMin = enter
			res.Axis = i
		}
		if exit < res.TMax {
			res.TMax = exit
		}
		if res.TMin > res.TMax {
			return Result{Axis: geom.NoAxis}, false
		}
	}
	if res.TMax < 0 || res.TMin > 1 {
		return Result{Axis: geom.NoAxis}, false
	}

	t0 := math32.Max(res.TMin, 0)
	t1 := math32.Min(res.TMax, 1)
	sa := wa.Interpolate(a.Vel, t0).Union(wa.Interpolate(a.Vel, t1))
	sb := wb.Interpolate(b.Vel, t0).Union(wb.Interpolate(b.Vel, t1))
	res.Overlap = sa.Intersection(sb)
	return res, true
}

// Collides is Intersect without the details.
func Collides(a, b Body, flags Flags, tolerance float32) bool {
	_, ok := Intersect(a, b, flags, tolerance)
	return ok
}
