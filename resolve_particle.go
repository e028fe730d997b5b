package bump

import (
	"github.com/gekko3d/bump/geom"
	"github.com/gekko3d/bump/pairs"
	"github.com/gekko3d/bump/ref"
	"github.com/go-gl/mathgl/mgl32"
)

// resolveCharParticle runs the generic impulse when push is set, then lets
// shields, damage and particle flags override it.
func (s *System) resolveCharParticle(rec *pairs.Record, cp, pp participant, push bool) {
	c := s.Characters.Get(cp.ref.ID)
	p := s.Particles.Get(pp.ref.ID)
	if c == nil || p == nil || p.Terminated {
		s.stats.InvalidRefs++
		return
	}

	var imp impulse
	if push {
		ct := s.estimateContact(rec, cp, pp)
		if !ct.ok || ct.degenerate {
			s.stats.Degenerate++
		}
		imp = s.computeImpulse(ct, cp, pp)
	}

	c.Alerts |= AlertHitByParticle
	c.HitBy = p.Ref()

	if s.deflect(c, p) {
		s.stats.Deflected++
		return
	}

	if push && p.Pushes {
		s.apply(cp, imp.velA, imp.posA)
	}
	if push && !p.AttachOnHit {
		s.apply(pp, imp.velB, imp.posB)
	}
	s.damage(c, p)

	switch {
	case p.AttachOnHit && !p.AttachedTo.Valid():
		p.AttachedTo = c.Ref()
		p.attachOffset = p.Pos.Sub(c.Pos)
		p.Accum.Reset()
	case p.EndBump:
		s.terminate(p)
	}
}

func (s *System) resolveParticleTile(rec *pairs.Record, pp, tp participant) {
	p := s.Particles.Get(pp.ref.ID)
	if p == nil || p.Terminated {
		s.stats.InvalidRefs++
		return
	}
	if p.EndWall {
		s.terminate(p)
		return
	}
	s.collide(rec, pp, tp)
}

// deflect bounces p off an active shield facing it. The particle's velocity change
// goes through its accumulator.
func (s *System) deflect(c *Character, p *Particle) bool {
	if !p.Deflectable || !c.Shield.Active {
		return false
	}
	center := c.Pos.Add(mgl32.Vec3{0, 0, c.Bumper.Height * 0.5})
	cone, ok := geom.NewCone(center, c.Shield.Facing, c.Shield.Arc)
	if !ok {
		return false
	}
	sphere := geom.Sphere{Center: p.Pos.Add(mgl32.Vec3{0, 0, p.Bumper.Height * 0.5}), Radius: p.Bumper.Size}
	if !geom.ConeIntersectsSphere(cone, sphere).Hit() {
		return false
	}
	if p.Vel.Sub(c.Vel).Dot(center.Sub(sphere.Center)) <= 0 {
		return false
	}

	newVel := p.Vel.Mul(-1)
	if c.Shield.Reflect {
		oldOwner := p.Owner
		p.Target = oldOwner
		p.Owner = c.Ref()
		p.Team = c.Team
		if oldOwner.IsCharacter() {
			if o := s.Characters.Get(oldOwner.ID); o != nil && !o.Dead {
				aim := o.Pos.Add(mgl32.Vec3{0, 0, o.Bumper.Height * 0.5}).Sub(sphere.Center)
				if dir, ok := geom.Normalize3(aim); ok {
					newVel = dir.Mul(p.Vel.Len())
				}
			}
		}
	}
	p.Accum.CollisionVel = p.Accum.CollisionVel.Add(newVel.Sub(p.Vel))
	c.Alerts |= AlertDeflected
	return true
}

// canDamage applies the team and immunity rules.
func (s *System) canDamage(c *Character, p *Particle) bool {
	if p.Damage <= 0 || c.Dead || c.Invictus || c.DamageTimer > 0 {
		return false
	}
	if p.Owner == c.Ref() {
		return false
	}
	hostile := s.Hostile(p.Team, c.Team)
	if p.OnlyDamageFriendly {
		return !hostile
	}
	return hostile || p.FriendlyFire
}

func (s *System) damage(c *Character, p *Particle) {
	if !s.canDamage(c, p) {
		return
	}
	c.Life -= p.Damage
	c.DamageTimer = s.cfg.DamageInvulnerability
	c.AttackedBy = p.Owner
	if !c.AttackedBy.Valid() {
		c.AttackedBy = p.Ref()
	}
	c.Alerts |= AlertAttacked
	s.stats.Damaged++

	if c.Life <= 0 {
		c.Dead = true
		c.Alerts |= AlertKilled
		s.log.Debugf("%v killed by %v", c.Ref(), c.AttackedBy)
		if c.Mount.Valid() {
			s.dismount(c)
		}
		if c.Rider.IsCharacter() {
			if rider := s.Characters.Get(c.Rider.ID); rider != nil {
				s.dismount(rider)
			}
			c.Rider = ref.Ref{}
		}
	}
}

// terminate marks p dead for the rest of the tick and queues its removal.
func (s *System) terminate(p *Particle) {
	if p.Terminated {
		return
	}
	p.Terminated = true
	p.Accum.Reset()
	s.Particles.Remove(p.ID)
	s.stats.Terminated++
}

// reaffirmAttachedParticles snaps attached particles back onto their holders and
// drops attachments to characters that are gone.
func (s *System) reaffirmAttachedParticles() {
	s.Particles.Range(func(_ uint32, p *Particle) bool {
		if !p.AttachedTo.Valid() || p.Terminated {
			return true
		}
		holder := s.Characters.Get(p.AttachedTo.ID)
		if holder == nil || holder.Dead {
			p.AttachedTo = ref.Ref{}
			return true
		}
		p.Pos = holder.Pos.Add(p.attachOffset)
		p.Vel = holder.Vel
		p.Accum.Reset()
		return true
	})
}
