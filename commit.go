package bump

import (
	"github.com/gekko3d/bump/geom"
	"github.com/gekko3d/bump/ref"
	"github.com/go-gl/mathgl/mgl32"
)

// pinned reports bodies whose position is dictated by another entity.
func (s *System) pinned(r ref.Ref) bool {
	switch r.Kind {
	case ref.KindCharacter:
		c := s.Characters.Get(r.ID)
		return c != nil && c.Mount.Valid()
	case ref.KindParticle:
		p := s.Particles.Get(r.ID)
		return p != nil && p.AttachedTo.Valid()
	}
	return false
}

// stepAxes moves b by d one axis at a time, skipping any axis whose move would put
// the body into a wall. It returns the blocked sides.
func (s *System) stepAxes(b *Body, d mgl32.Vec3) geom.Sides {
	vol := b.Volume()
	if vol.Empty {
		b.Pos = b.Pos.Add(d)
		return geom.SidesNone
	}
	pos := b.Pos
	var blocked geom.Sides
	for axis := 0; axis < 3; axis++ {
		if d[axis] == 0 {
			continue
		}
		cand := pos
		cand[axis] += d[axis]
		if s.terrain.HitWall(vol, cand).Blocks(axis, d[axis]) {
			blocked |= geom.SideOf(axis, d[axis])
			continue
		}
		pos = cand
	}
	b.Pos = pos
	return blocked
}

// commit applies every accumulator exactly once. Positional corrections are
// clamped to one grid cell. The accumulators stay readable until the next tick.
func (s *System) commit() {
	grid := s.cfg.GridSize
	s.forEachBody(func(r ref.Ref, b *Body) {
		if s.pinned(r) {
			b.Accum.Reset()
			return
		}
		acc := b.Accum
		b.Vel = b.Vel.Add(acc.CollisionVel).Add(acc.PlatformVel)

		d := acc.CollisionPos.Add(acc.PlatformPos)
		if d.LenSqr() == 0 {
			return
		}
		if d.LenSqr() > grid*grid {
			d = geom.ClampLen(d, grid)
			s.stats.Clamped++
		}
		if blocked := s.stepAxes(b, d); blocked != geom.SidesNone {
			b.Alerts |= AlertHitWall
			s.stats.WallHits++
			if r.IsParticle() {
				if p := s.Particles.Get(r.ID); p.EndWall {
					s.terminate(p)
				}
			}
		}
	})
}
