package bump

import (
	"errors"

	"github.com/gekko3d/bump/bsp"
	"github.com/gekko3d/bump/geom"
	"github.com/gekko3d/bump/pairs"
	"github.com/gekko3d/bump/ref"
	"github.com/gekko3d/bump/sweep"
	"github.com/go-gl/mathgl/mgl32"
)

// sweptBV covers a volume over the whole tick, grown so platforms within tolerance
// are found.
func (s *System) sweptBV(vol geom.OctBB, pos, vel mgl32.Vec3) geom.BV {
	box := vol.Sweep(vel).Translate(pos).ToAABB()
	return geom.NewBV(box.Grow(s.cfg.PlatformTolerance))
}

// rebuildIndex refills the tree from current entity state.
func (s *System) rebuildIndex() {
	s.tree.Clear()
	s.tree.Pool().Reset()

	full := false
	add := func(r ref.Ref, bv geom.BV) {
		if full {
			s.stats.Lost++
			return
		}
		_, err := s.tree.Add(r, bv)
		switch {
		case err == nil:
		case errors.Is(err, bsp.ErrTooManyLost):
			s.log.Errorf("%v, skipping the rest of the rebuild", err)
			full = true
			s.stats.Lost++
		case errors.Is(err, bsp.ErrPoolExhausted):
			s.stats.Lost++
		default:
			s.stats.Lost++
			s.log.Debugf("index %v: %v", r, err)
		}
	}

	for _, id := range s.Characters.IDs() {
		c := s.Characters.Get(id)
		if c.Bumper.IsZero() {
			continue
		}
		add(c.Ref(), s.sweptBV(c.Volume(), c.Pos, c.Vel))
	}
	for _, id := range s.Particles.IDs() {
		p := s.Particles.Get(id)
		if !p.interacts() {
			continue
		}
		add(p.Ref(), s.sweptBV(p.Volume(), p.Pos, p.Vel))
	}
	for _, id := range s.Tiles.IDs() {
		t := s.Tiles.Get(id)
		add(t.Ref(), geom.NewBV(t.Box.Grow(s.cfg.PlatformTolerance)))
	}

	s.stats.Leaves = s.tree.Pool().Len()
	s.stats.Infinite = s.tree.Infinite()
	s.stats.Overflow = s.tree.Overflow()
	if s.tick%s.cfg.pruneInterval() == 0 {
		s.stats.Pruned = s.tree.Prune()
	}
}

// detect queries the index for every mover and records the pairs that sweep into
// each other.
func (s *System) detect() {
	s.registry.Reset()

	onlyTiles := func(l *bsp.Leaf) bool { return l.Ref.IsTile() }

	for _, id := range s.Characters.IDs() {
		c := s.Characters.Get(id)
		if c.Bumper.IsZero() {
			continue
		}
		s.detectFrom(c.Ref(), s.sweptBV(c.Volume(), c.Pos, c.Vel).AABB, nil)
	}
	for _, id := range s.Particles.IDs() {
		p := s.Particles.Get(id)
		if !p.interacts() {
			continue
		}
		// particle-character pairs were found from the character side
		s.detectFrom(p.Ref(), s.sweptBV(p.Volume(), p.Pos, p.Vel).AABB, onlyTiles)
	}
}

func (s *System) detectFrom(self ref.Ref, query geom.AABB, filter bsp.Filter) {
	s.candidates = s.tree.Collide(query, filter, s.candidates[:0])
	for _, id := range s.candidates {
		leaf := s.tree.Leaf(id)
		if leaf == nil || leaf.Ref == self {
			continue
		}
		s.stats.Candidates++
		s.testPair(self, leaf.Ref)
	}
}

// sweepBody returns the sweep description of r.
func (s *System) sweepBody(r ref.Ref) (sweep.Body, bool) {
	switch r.Kind {
	case ref.KindCharacter:
		if c := s.Characters.Get(r.ID); c != nil {
			return sweep.Body{Pos: c.Pos, Vel: c.Vel, Volume: c.Volume()}, true
		}
	case ref.KindParticle:
		if p := s.Particles.Get(r.ID); p != nil {
			return sweep.Body{Pos: p.Pos, Vel: p.Vel, Volume: p.Volume()}, true
		}
	case ref.KindTile:
		if t := s.Tiles.Get(r.ID); t != nil {
			return sweep.Body{Volume: t.Volume()}, true
		}
	}
	return sweep.Body{}, false
}

func (s *System) testPair(a, b ref.Ref) {
	if !s.canCollide(a, b) {
		return
	}
	ba, okA := s.sweepBody(a)
	bb, okB := s.sweepBody(b)
	if !okA || !okB {
		s.stats.InvalidRefs++
		return
	}
	var flags sweep.Flags
	if s.isPlatform(a) && s.usesPlatforms(b) {
		flags |= sweep.PlatformA
	}
	if s.isPlatform(b) && s.usesPlatforms(a) {
		flags |= sweep.PlatformB
	}
	res, ok := sweep.Intersect(ba, bb, flags, s.cfg.PlatformTolerance)
	if !ok {
		return
	}
	s.registry.InsertUnique(pairs.Record{
		A:       a,
		B:       b,
		TMin:    res.TMin,
		TMax:    res.TMax,
		Axis:    res.Axis,
		Overlap: res.Overlap,
	})
}

func (s *System) isPlatform(r ref.Ref) bool {
	switch r.Kind {
	case ref.KindCharacter:
		c := s.Characters.Get(r.ID)
		return c != nil && c.IsPlatform && !c.Dead
	case ref.KindTile:
		t := s.Tiles.Get(r.ID)
		return t != nil && t.IsPlatform
	}
	return false
}

func (s *System) usesPlatforms(r ref.Ref) bool {
	b := s.body(r)
	return b != nil && b.CanUsePlatforms
}

// canCollide gates a pair before the swept test. The rules are symmetric.
func (s *System) canCollide(a, b ref.Ref) bool {
	if a == b || !a.Valid() || !b.Valid() {
		return false
	}
	if ref.Compare(a, b) > 0 {
		a, b = b, a
	}
	switch {
	case a.IsCharacter() && b.IsCharacter():
		return s.canCollideChrChr(s.Characters.Get(a.ID), s.Characters.Get(b.ID))
	case a.IsCharacter() && b.IsParticle():
		return s.canCollideChrPrt(s.Characters.Get(a.ID), s.Particles.Get(b.ID))
	case a.IsCharacter() && b.IsTile():
		c := s.Characters.Get(a.ID)
		return c != nil && !c.Bumper.IsZero() && !c.Mount.Valid()
	case a.IsParticle() && b.IsTile():
		p := s.Particles.Get(a.ID)
		return p != nil && p.interacts() && !p.AttachedTo.Valid() && (p.EndWall || p.CanUsePlatforms || p.Pushes)
	}
	// particle-particle and tile-tile never interact
	return false
}

func (s *System) canCollideChrChr(a, b *Character) bool {
	if a == nil || b == nil || a.Bumper.IsZero() || b.Bumper.IsZero() {
		return false
	}
	if a.Dead && b.Dead {
		return false
	}
	// riders do not collide with their own mount
	if a.Mount == b.Ref() || b.Mount == a.Ref() {
		return false
	}
	return true
}

func (s *System) canCollideChrPrt(c *Character, p *Particle) bool {
	if c == nil || p == nil || c.Bumper.IsZero() || !p.interacts() {
		return false
	}
	if p.AttachedTo == c.Ref() || p.Owner == c.Ref() {
		return false
	}
	return !c.Dead
}
