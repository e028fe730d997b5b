package geom

// Sides is a bitfield of blocked directions reported by a terrain query.
type Sides uint8

const (
	SideNegX Sides = 1 << iota
	SidePosX
	SideNegY
	SidePosY
	SideNegZ
	SidePosZ

	SidesNone Sides = 0
	SidesAll        = SideNegX | SidePosX | SideNegY | SidePosY | SideNegZ | SidePosZ
)

// SideOf returns the side a move of sign delta along axis (0..2) would push into.
func SideOf(axis int, delta float32) Sides {
	if delta == 0 || axis < 0 || axis > 2 {
		return SidesNone
	}
	s := Sides(1) << (axis * 2)
	if delta > 0 {
		s <<= 1
	}
	return s
}

// Blocks reports whether a move along axis with sign delta is blocked.
func (s Sides) Blocks(axis int, delta float32) bool {
	return s&SideOf(axis, delta) != 0
}

func (s Sides) Any() bool { return s != 0 }
