// Package geom holds the bounding volumes and intersection predicates shared by
// the spatial index, the swept test and the resolution stage.
package geom

// Relation classifies how one region relates to another.
type Relation int8

const (
	// Error marks degenerate input (negative radius, zero-length axis, inverted box).
	Error Relation = iota - 1
	Outside
	Intersect
	Inside
)

func (r Relation) String() string {
	switch r {
	case Error:
		return "error"
	case Outside:
		return "outside"
	case Intersect:
		return "intersect"
	case Inside:
		return "inside"
	}
	return "unknown"
}

// Hit reports whether the relation is a positive overlap.
func (r Relation) Hit() bool {
	return r == Intersect || r == Inside
}
