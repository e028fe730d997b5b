package bump

import (
	"github.com/gekko3d/bump/pairs"
)

// resolveMounts attaches riders that move into a free saddle. Pairs that mount are
// not resolved any further this tick.
func (s *System) resolveMounts(recs []pairs.Record) {
	for i := range recs {
		rec := &recs[i]
		if !rec.A.IsCharacter() || !rec.B.IsCharacter() {
			continue
		}
		a, b := s.Characters.Get(rec.A.ID), s.Characters.Get(rec.B.ID)
		if a == nil || b == nil {
			continue
		}
		if s.tryMount(a, b) || s.tryMount(b, a) {
			rec.Handled |= pairs.HandledMount
			s.stats.Mounted++
		}
	}
}

func (s *System) canMount(mount, rider *Character) bool {
	if !mount.IsMount || mount.Dead || rider.Dead || !rider.CanRide {
		return false
	}
	if mount.Rider.Valid() && s.exists(mount.Rider) {
		return false
	}
	if rider.Mount.Valid() || rider.Rider.Valid() {
		return false
	}
	return mount.Mount != rider.Ref()
}

func (s *System) tryMount(mount, rider *Character) bool {
	if !s.canMount(mount, rider) {
		return false
	}
	saddle := mount.SaddleVolume()
	if saddle.Empty {
		return false
	}
	start := saddle.Translate(mount.Pos)
	end := saddle.Translate(mount.Pos.Add(mount.Vel))
	riderEnd := rider.Pos.Add(rider.Vel)
	if !start.ContainsPoint(rider.Pos) && !end.ContainsPoint(riderEnd) {
		return false
	}

	// The rider has to be moving into the saddle, not out of it.
	relVel := rider.Vel.Sub(mount.Vel)
	toSaddle := start.Center().Sub(rider.Pos)
	if relVel.Dot(toSaddle) < 0 {
		return false
	}

	mount.Rider = rider.Ref()
	rider.Mount = mount.Ref()
	detachPlatform(&rider.Body)
	rider.Pos = mount.SeatPos()
	rider.Vel = mount.Vel
	rider.Alerts |= AlertMounted
	s.log.Debugf("%v mounted %v", rider.Ref(), mount.Ref())
	return true
}
