package bump

import (
	"github.com/gekko3d/bump/geom"
	"github.com/gekko3d/bump/pairs"
	"github.com/gekko3d/bump/ref"
	"github.com/go-gl/mathgl/mgl32"
)

// platformTop returns the support level and world footprint of a platform.
func (s *System) platformTop(r ref.Ref) (float32, geom.OctBB, mgl32.Vec3, bool) {
	switch r.Kind {
	case ref.KindCharacter:
		c := s.Characters.Get(r.ID)
		if c == nil || !c.IsPlatform || c.Dead {
			return 0, geom.OctBB{}, mgl32.Vec3{}, false
		}
		w := c.World()
		return w.Maxs[geom.OctZ], w, c.Vel, true
	case ref.KindTile:
		t := s.Tiles.Get(r.ID)
		if t == nil || !t.IsPlatform {
			return 0, geom.OctBB{}, mgl32.Vec3{}, false
		}
		return t.Box.Max.Z(), t.Volume(), mgl32.Vec3{}, true
	}
	return 0, geom.OctBB{}, mgl32.Vec3{}, false
}

// resolvePlatforms finds the highest platform under every rider, then attaches each
// rider to exactly that one and detaches riders whose platform is gone.
func (s *System) resolvePlatforms(recs []pairs.Record) {
	s.forEachBody(func(_ ref.Ref, b *Body) { b.target.reset() })

	for i := range recs {
		rec := &recs[i]
		if rec.Handled&pairs.HandledMount != 0 {
			continue
		}
		s.platformCandidate(rec.A, rec.B, i)
		s.platformCandidate(rec.B, rec.A, i)
	}

	s.forEachBody(func(r ref.Ref, b *Body) {
		t := b.target
		if !t.platform.Valid() {
			if b.OnPlatform.Valid() && (!s.exists(b.OnPlatform) || !s.stillSupported(b)) {
				detachPlatform(b)
			}
			return
		}
		recs[t.record].Handled |= pairs.HandledPlatform
		if b.OnPlatform != t.platform {
			b.OnPlatform = t.platform
			b.Alerts |= AlertLanded
		}
		s.stats.Platformed++
	})
}

// stillSupported reports whether a body whose platform produced no pair this tick
// is still standing on it.
func (s *System) stillSupported(b *Body) bool {
	top, foot, _, ok := s.platformTop(b.OnPlatform)
	if !ok {
		return false
	}
	tol := s.cfg.PlatformTolerance
	if b.Pos.Z() > top+tol || b.Pos.Z() < top-tol {
		return false
	}
	return foot.ContainsPoint(mgl32.Vec3{b.Pos.X(), b.Pos.Y(), top})
}

func (s *System) platformCandidate(plat, rider ref.Ref, record int) {
	if rider.IsTile() {
		return
	}
	b := s.body(rider)
	if b == nil || !b.CanUsePlatforms {
		return
	}
	if rider.IsCharacter() {
		c := s.Characters.Get(rider.ID)
		if c.Mount.Valid() || c.Rider == plat {
			return
		}
	}
	if rider.IsParticle() && s.Particles.Get(rider.ID).AttachedTo.Valid() {
		return
	}
	top, foot, platVel, ok := s.platformTop(plat)
	if !ok {
		return
	}

	tol := s.cfg.PlatformTolerance
	zStart := b.Pos.Z()
	zEnd := zStart + b.Vel.Z() - platVel.Z()
	if zStart < top-tol || zEnd > top+tol {
		return
	}
	if !foot.ContainsPoint(mgl32.Vec3{b.Pos.X(), b.Pos.Y(), top}) {
		return
	}
	if top > b.target.level {
		b.target = platformTarget{platform: plat, level: top, record: record}
	}
}

// applyPlatform keeps a rider on top of its platform.
func (s *System) applyPlatform(rec *pairs.Record) {
	for _, r := range []ref.Ref{rec.A, rec.B} {
		b := s.body(r)
		if b == nil || !b.OnPlatform.Valid() {
			continue
		}
		other, _ := rec.Other(r)
		if b.OnPlatform != other {
			continue
		}
		top, _, platVel, ok := s.platformTop(other)
		if !ok {
			continue
		}
		if dz := top - b.Pos.Z(); dz > 0 {
			b.Accum.PlatformPos[2] += dz
		}
		if dv := platVel.Z() - b.Vel.Z(); dv > 0 {
			b.Accum.PlatformVel[2] += dv
		}
		s.stats.Resolved++
	}
}

// forEachBody visits every movable body in id order, characters first.
func (s *System) forEachBody(fn func(r ref.Ref, b *Body)) {
	for _, id := range s.Characters.IDs() {
		c := s.Characters.Get(id)
		fn(c.Ref(), &c.Body)
	}
	for _, id := range s.Particles.IDs() {
		p := s.Particles.Get(id)
		if p.Terminated {
			continue
		}
		fn(p.Ref(), &p.Body)
	}
}
