package bump

import (
	"github.com/gekko3d/bump/geom"
	"github.com/go-gl/mathgl/mgl32"
)

// Terrain answers wall queries against static world geometry. tilemap.Map is the
// grid implementation.
type Terrain interface {
	// HitWall reports the sides on which vol placed at pos penetrates the world.
	HitWall(vol geom.OctBB, pos mgl32.Vec3) geom.Sides
	// TestWall reports the sides on which vol at pos touches the world.
	TestWall(vol geom.OctBB, pos mgl32.Vec3) geom.Sides
}

type openTerrain struct{}

func (openTerrain) HitWall(geom.OctBB, mgl32.Vec3) geom.Sides  { return geom.SidesNone }
func (openTerrain) TestWall(geom.OctBB, mgl32.Vec3) geom.Sides { return geom.SidesNone }
