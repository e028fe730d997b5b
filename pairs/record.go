// Package pairs deduplicates the collision pairs found during one tick.
package pairs

import (
	"cmp"

	"github.com/gekko3d/bump/geom"
	"github.com/gekko3d/bump/ref"
)

// Handled marks which resolution passes consumed a record.
type Handled uint8

const (
	HandledMount Handled = 1 << iota
	HandledPlatform
	HandledCollision
)

// Record is one interaction between two participants during the tick.
type Record struct {
	A, B    ref.Ref
	TMin    float32
	TMax    float32
	Axis    geom.OctAxis
	Overlap geom.OctBB
	Handled Handled
}

// Reverse swaps the participants.
func (r Record) Reverse() Record {
	r.A, r.B = r.B, r.A
	return r
}

// Same reports whether both records name the same unordered pair.
func (r Record) Same(o Record) bool {
	return (r.A == o.A && r.B == o.B) || (r.A == o.B && r.B == o.A)
}

func (r Record) Involves(x ref.Ref) bool {
	return r.A == x || r.B == x
}

// Other returns the participant opposite x.
func (r Record) Other(x ref.Ref) (ref.Ref, bool) {
	switch x {
	case r.A:
		return r.B, true
	case r.B:
		return r.A, true
	}
	return ref.Ref{}, false
}

// ordered returns the participants lowest key first.
func (r Record) ordered() (ref.Ref, ref.Ref) {
	if ref.Compare(r.A, r.B) <= 0 {
		return r.A, r.B
	}
	return r.B, r.A
}

// Compare orders records by entry time, then exit time, then participants.
func Compare(a, b Record) int {
	if c := cmp.Compare(a.TMin, b.TMin); c != 0 {
		return c
	}
	if c := cmp.Compare(a.TMax, b.TMax); c != 0 {
		return c
	}
	a0, a1 := a.ordered()
	b0, b1 := b.ordered()
	if c := ref.Compare(a0, b0); c != 0 {
		return c
	}
	return ref.Compare(a1, b1)
}
