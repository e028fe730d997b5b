package bump

import (
	"github.com/gekko3d/bump/geom"
	"github.com/gekko3d/bump/ref"
	"github.com/go-gl/mathgl/mgl32"
)

// MoveAllObjects integrates velocities against the terrain, carries riders with
// their platforms and snaps mounted riders and attached particles to their holders.
func (s *System) MoveAllObjects() {
	chars := s.Characters.Lock()
	defer chars.Release()
	prts := s.Particles.Lock()
	defer prts.Release()

	s.forEachBody(func(_ ref.Ref, b *Body) { b.prevPos = b.Pos })

	s.forEachBody(func(r ref.Ref, b *Body) {
		if s.pinned(r) {
			return
		}
		blocked := s.stepAxes(b, b.Vel)
		if blocked == geom.SidesNone {
			return
		}
		b.Alerts |= AlertHitWall
		var p *Particle
		if r.IsParticle() {
			p = s.Particles.Get(r.ID)
			if p.EndWall {
				s.terminate(p)
				return
			}
		}
		for axis := 0; axis < 3; axis++ {
			if blocked&(geom.SideOf(axis, -1)|geom.SideOf(axis, 1)) == 0 {
				continue
			}
			if p != nil {
				b.Vel[axis] = -b.Vel[axis] * s.cfg.Restitution
			} else {
				b.Vel[axis] = 0
			}
		}
	})

	s.forEachBody(func(r ref.Ref, b *Body) {
		if !b.OnPlatform.Valid() || s.pinned(r) {
			return
		}
		s.carry(b)
	})

	s.forEachBody(func(_ ref.Ref, b *Body) {
		vol := b.Volume()
		b.Grounded = b.OnPlatform.Valid() ||
			(!vol.Empty && s.terrain.TestWall(vol, b.Pos).Blocks(2, -1))
	})

	for _, id := range s.Characters.IDs() {
		c := s.Characters.Get(id)
		if c.DamageTimer > 0 {
			c.DamageTimer--
		}
		if !c.Mount.Valid() {
			continue
		}
		mount := s.Characters.Get(c.Mount.ID)
		if mount == nil || mount.Dead || mount.Rider != c.Ref() {
			s.dismount(c)
			continue
		}
		c.Pos = mount.SeatPos()
		c.Vel = mount.Vel
	}

	s.reaffirmAttachedParticles()
}

// carry moves b by its platform's displacement and keeps it on top.
func (s *System) carry(b *Body) {
	top, _, platVel, ok := s.platformTop(b.OnPlatform)
	if !ok {
		detachPlatform(b)
		return
	}
	if b.OnPlatform.IsCharacter() {
		plat := s.Characters.Get(b.OnPlatform.ID)
		if delta := plat.Pos.Sub(plat.prevPos); delta != (mgl32.Vec3{}) {
			s.stepAxes(b, delta)
		}
	}
	if b.Pos.Z() < top {
		b.Pos[2] = top
		if b.Vel.Z() < platVel.Z() {
			b.Vel[2] = platVel.Z()
		}
	}
}
