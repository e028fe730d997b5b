package bump

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/gekko3d/bump/geom"
	"github.com/gekko3d/bump/pairs"
	"github.com/gekko3d/bump/ref"
	"github.com/go-gl/mathgl/mgl32"
)

// participant is one side of a pair as seen by the impulse solver. body is nil for
// tiles.
type participant struct {
	ref     ref.Ref
	body    *Body
	vol     geom.OctBB
	pos     mgl32.Vec3
	vel     mgl32.Vec3
	invMass float32
}

func (p participant) world() geom.OctBB {
	return p.vol.Translate(p.pos)
}

func (s *System) participant(r ref.Ref) (participant, bool) {
	switch r.Kind {
	case ref.KindCharacter, ref.KindParticle:
		b := s.body(r)
		if b == nil {
			return participant{}, false
		}
		return participant{
			ref:     r,
			body:    b,
			vol:     b.Volume(),
			pos:     b.Pos,
			vel:     b.Vel,
			invMass: b.invMass(s.cfg.DefaultMass),
		}, true
	case ref.KindTile:
		t := s.Tiles.Get(r.ID)
		if t == nil {
			return participant{}, false
		}
		return participant{ref: r, vol: t.Volume()}, true
	}
	return participant{}, false
}

// contact is the outcome of normal estimation for one pair. normal points from a
// to b.
type contact struct {
	normal     mgl32.Vec3
	depth      float32
	pressure   bool
	degenerate bool
	ok         bool
}

// resolveCollisions blanks every accumulator, then resolves each pair the earlier
// passes left alone.
func (s *System) resolveCollisions(recs []pairs.Record) {
	s.forEachBody(func(_ ref.Ref, b *Body) { b.Accum.Reset() })

	for i := range recs {
		s.resolvePair(&recs[i])
	}
}

func (s *System) resolvePair(rec *pairs.Record) {
	defer func() {
		if r := recover(); r != nil {
			if s.cfg.Strict {
				panic(r)
			}
			s.stats.PairFailures++
			s.log.Errorf("resolve %v/%v: %v", rec.A, rec.B, r)
		}
	}()

	if rec.Handled&pairs.HandledMount != 0 {
		return
	}
	a, okA := s.participant(rec.A)
	b, okB := s.participant(rec.B)
	if !okA || !okB {
		s.stats.InvalidRefs++
		return
	}
	if rec.Handled&pairs.HandledPlatform != 0 {
		s.applyPlatform(rec)
		// Particle effects still apply to a particle riding a character.
		if cp, pp, ok := charParticle(a, b); ok {
			s.resolveCharParticle(rec, cp, pp, false)
		}
		return
	}
	rec.Handled |= pairs.HandledCollision

	if cp, pp, ok := charParticle(a, b); ok {
		s.resolveCharParticle(rec, cp, pp, true)
		s.stats.Resolved++
		return
	}
	switch {
	case a.ref.IsParticle() && b.ref.IsTile():
		s.resolveParticleTile(rec, a, b)
	case a.ref.IsTile() && b.ref.IsParticle():
		s.resolveParticleTile(rec, b, a)
	default:
		s.collide(rec, a, b)
		s.markBumped(a, b)
	}
	s.stats.Resolved++
}

// charParticle orders a character-particle pair as (character, particle).
func charParticle(a, b participant) (participant, participant, bool) {
	switch {
	case a.ref.IsCharacter() && b.ref.IsParticle():
		return a, b, true
	case a.ref.IsParticle() && b.ref.IsCharacter():
		return b, a, true
	}
	return participant{}, participant{}, false
}

// estimateContact picks the pressure normal for resting overlaps and the swept
// normal for contacts that begin during the tick.
func (s *System) estimateContact(rec *pairs.Record, a, b participant) contact {
	pressure := rec.TMin <= 0 || math32.Abs(rec.TMin) >= s.cfg.PressureSentinel
	if pressure || rec.Axis == geom.NoAxis {
		return s.pressureContact(a, b)
	}

	axis := rec.Axis.Normal()
	rel := b.vel.Sub(a.vel)
	vn := rel.Dot(axis)
	if vn == 0 {
		return s.pressureContact(a, b)
	}
	n := axis
	if vn > 0 {
		n = n.Mul(-1)
	}
	return contact{normal: n, ok: true}
}

// pressureContact uses the axis of least overlap between the current volumes.
func (s *System) pressureContact(a, b participant) contact {
	overlap := a.world().Intersection(b.world())
	if overlap.Empty {
		return contact{pressure: true}
	}
	best := geom.NoAxis
	depth := math32.Inf(1)
	for i := geom.OctAxis(0); i < geom.OctCount; i++ {
		if d := overlap.Depth(i); d < depth {
			best, depth = i, d
		}
	}
	n := best.Normal()
	side := b.world().Center().Sub(a.world().Center()).Dot(n)
	if side == 0 {
		// Coincident centers separate along the positive axis.
		return contact{normal: n, depth: depth, pressure: true, degenerate: true, ok: true}
	}
	if side < 0 {
		n = n.Mul(-1)
	}
	return contact{normal: n, depth: depth, pressure: true, ok: true}
}

// impulse is the velocity and position change the solver wants for each side.
type impulse struct {
	velA, velB mgl32.Vec3
	posA, posB mgl32.Vec3
}

// computeImpulse applies the inverse mass split of a contact. A degenerate normal
// yields no velocity change and pressure along nothing.
func (s *System) computeImpulse(ct contact, a, b participant) impulse {
	var out impulse
	sum := a.invMass + b.invMass
	if !ct.ok || sum == 0 {
		return out
	}
	wa, wb := a.invMass/sum, b.invMass/sum

	rel := b.vel.Sub(a.vel)
	vn := rel.Dot(ct.normal)
	if vn < 0 {
		j := -(1 + s.cfg.Restitution) * vn
		out.velA = ct.normal.Mul(-j * wa)
		out.velB = ct.normal.Mul(j * wb)

		tangent := rel.Sub(ct.normal.Mul(vn))
		f := s.cfg.Friction
		out.velA = out.velA.Add(tangent.Mul(f * wa))
		out.velB = out.velB.Sub(tangent.Mul(f * wb))
	}
	if ct.pressure && ct.depth > 0 {
		push := ct.normal.Mul(ct.depth * s.cfg.PressureStrength)
		out.posA = push.Mul(-wa)
		out.posB = push.Mul(wb)
	}
	return out
}

func (s *System) apply(p participant, vel, pos mgl32.Vec3) {
	if p.body == nil || p.invMass == 0 {
		return
	}
	if !geom.Finite3(vel) || !geom.Finite3(pos) {
		panic(fmt.Sprintf("non-finite impulse for %v", p.ref))
	}
	p.body.Accum.CollisionVel = p.body.Accum.CollisionVel.Add(vel)
	p.body.Accum.CollisionPos = p.body.Accum.CollisionPos.Add(pos)
}

// collide resolves a generic pair with an inverse mass weighted impulse.
func (s *System) collide(rec *pairs.Record, a, b participant) {
	ct := s.estimateContact(rec, a, b)
	if !ct.ok || ct.degenerate {
		s.stats.Degenerate++
	}
	imp := s.computeImpulse(ct, a, b)
	s.apply(a, imp.velA, imp.posA)
	s.apply(b, imp.velB, imp.posB)
}

func (s *System) markBumped(a, b participant) {
	mark := func(self, other participant) {
		if !self.ref.IsCharacter() {
			return
		}
		c := s.Characters.Get(self.ref.ID)
		c.Alerts |= AlertBumped
		c.BumpedBy = other.ref
	}
	mark(a, b)
	mark(b, a)
}
