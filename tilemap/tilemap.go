// Package tilemap is a grid of solid cells answering wall queries for moving volumes.
package tilemap

import (
	"iter"

	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/gekko3d/bump/geom"
	"github.com/go-gl/mathgl/mgl32"
)

// Map holds solid cells of CellSize edge length. The zero cell spans [0, CellSize).
type Map struct {
	CellSize float32
	solid    map[cube.Pos]struct{}
}

func New(cellSize float32) *Map {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Map{CellSize: cellSize, solid: make(map[cube.Pos]struct{})}
}

func (m *Map) Set(p cube.Pos, solid bool) {
	if solid {
		m.solid[p] = struct{}{}
	} else {
		delete(m.solid, p)
	}
}

// Fill marks every cell between a and b inclusive.
func (m *Map) Fill(a, b cube.Pos, solid bool) {
	for x := min(a[0], b[0]); x <= max(a[0], b[0]); x++ {
		for y := min(a[1], b[1]); y <= max(a[1], b[1]); y++ {
			for z := min(a[2], b[2]); z <= max(a[2], b[2]); z++ {
				m.Set(cube.Pos{x, y, z}, solid)
			}
		}
	}
}

func (m *Map) Solid(p cube.Pos) bool {
	_, ok := m.solid[p]
	return ok
}

func (m *Map) Len() int { return len(m.solid) }

// CellAt returns the cell holding world point v.
func (m *Map) CellAt(v mgl32.Vec3) cube.Pos {
	return cube.PosFromVec3(v.Mul(1 / m.CellSize))
}

func (m *Map) CellBox(p cube.Pos) cube.BBox {
	s := m.CellSize
	x, y, z := float32(p[0])*s, float32(p[1])*s, float32(p[2])*s
	return cube.Box(x, y, z, x+s, y+s, z+s)
}

func (m *Map) CellAABB(p cube.Pos) geom.AABB {
	b := m.CellBox(p)
	return geom.NewAABB(b.Min(), b.Max())
}

// Cells yields the solid cells touching box.
func (m *Map) Cells(box geom.AABB) iter.Seq[cube.Pos] {
	return func(yield func(cube.Pos) bool) {
		if !box.Valid() {
			return
		}
		lo, hi := m.CellAt(box.Min), m.CellAt(box.Max)
		for x := lo[0]; x <= hi[0]; x++ {
			for y := lo[1]; y <= hi[1]; y++ {
				for z := lo[2]; z <= hi[2]; z++ {
					p := cube.Pos{x, y, z}
					if m.Solid(p) && !yield(p) {
						return
					}
				}
			}
		}
	}
}

// Boxes returns the boxes of every solid cell.
func (m *Map) Boxes() []geom.AABB {
	out := make([]geom.AABB, 0, len(m.solid))
	for p := range m.solid {
		out = append(out, m.CellAABB(p))
	}
	return out
}

func toBox(a geom.AABB) cube.BBox {
	return cube.Box(a.Min.X(), a.Min.Y(), a.Min.Z(), a.Max.X(), a.Max.Y(), a.Max.Z())
}

// HitWall reports the sides on which vol placed at pos penetrates solid cells. The
// blocked side of each cell is its axis of least penetration.
func (m *Map) HitWall(vol geom.OctBB, pos mgl32.Vec3) geom.Sides {
	if vol.Empty {
		return geom.SidesNone
	}
	box := vol.Translate(pos).ToAABB()
	bb := toBox(box)
	var sides geom.Sides
	for p := range m.Cells(box) {
		cell := m.CellBox(p)
		if !bb.IntersectsWith(cell) {
			continue
		}
		sides |= penetrationSide(box, geom.NewAABB(cell.Min(), cell.Max()))
	}
	return sides
}

// TestWall reports the sides on which vol at pos touches or penetrates solid cells.
func (m *Map) TestWall(vol geom.OctBB, pos mgl32.Vec3) geom.Sides {
	if vol.Empty {
		return geom.SidesNone
	}
	box := vol.Translate(pos).ToAABB()
	var sides geom.Sides
	for p := range m.Cells(box.Grow(geom.Epsilon)) {
		cell := m.CellAABB(p)
		if !box.Overlaps(cell) {
			continue
		}
		sides |= penetrationSide(box, cell)
	}
	return sides
}

func penetrationSide(box, cell geom.AABB) geom.Sides {
	best := float32(math32.MaxFloat32)
	axis := 0
	for i := 0; i < 3; i++ {
		depth := math32.Min(box.Max[i]-cell.Min[i], cell.Max[i]-box.Min[i])
		if depth < best {
			best, axis = depth, i
		}
	}
	delta := cell.Center()[axis] - box.Center()[axis]
	if delta == 0 {
		return geom.SideOf(axis, -1) | geom.SideOf(axis, 1)
	}
	return geom.SideOf(axis, delta)
}
