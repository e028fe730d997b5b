package bump

import (
	"github.com/chewxy/math32"
	"github.com/gekko3d/bump/geom"
	"github.com/gekko3d/bump/ref"
	"github.com/go-gl/mathgl/mgl32"
)

// Alert bits are set during a tick for the gameplay layer to read afterwards.
type Alert uint16

const (
	AlertBumped Alert = 1 << iota
	AlertHitByParticle
	AlertDeflected
	AlertAttacked
	AlertKilled
	AlertMounted
	AlertDismounted
	AlertLanded
	AlertLeftPlatform
	AlertHitWall
)

func (a Alert) Has(bit Alert) bool { return a&bit != 0 }

// Accum collects the deltas resolution computes for one entity. It is blanked at the
// start of the collision pass and applied once at commit.
type Accum struct {
	PlatformPos  mgl32.Vec3
	PlatformVel  mgl32.Vec3
	CollisionPos mgl32.Vec3
	CollisionVel mgl32.Vec3
}

func (a *Accum) Reset() { *a = Accum{} }

// Infinite is the mass of immovable bodies.
var Infinite = math32.Inf(1)

type platformTarget struct {
	platform ref.Ref
	level    float32
	record   int
}

func (p *platformTarget) reset() {
	*p = platformTarget{level: math32.Inf(-1), record: -1}
}

// Body is the physical state shared by characters and particles. Pos is the
// center of the footprint at foot level.
type Body struct {
	Pos    mgl32.Vec3
	Vel    mgl32.Vec3
	Bumper geom.Bumper
	// Mass of zero or less uses the configured default; Infinite never moves from
	// collisions.
	Mass float32

	Accum  Accum
	Alerts Alert
	// OnPlatform is the platform carrying this body, if any.
	OnPlatform ref.Ref
	// CanUsePlatforms lets the body land on platforms.
	CanUsePlatforms bool
	// Grounded is set by MoveAllObjects when the body rests on terrain or a platform.
	Grounded bool

	target  platformTarget
	prevPos mgl32.Vec3
}

// Volume returns the bumper volume relative to Pos.
func (b *Body) Volume() geom.OctBB {
	return geom.OctBBFromBumper(b.Bumper)
}

// World returns the bumper volume at Pos.
func (b *Body) World() geom.OctBB {
	return b.Volume().Translate(b.Pos)
}

func (b *Body) invMass(def float32) float32 {
	m := b.Mass
	if m <= 0 || math32.IsNaN(m) {
		m = def
	}
	if math32.IsInf(m, 1) {
		return 0
	}
	return 1 / m
}

// Shield deflects particles arriving inside a cone around Facing.
type Shield struct {
	Active bool
	Facing mgl32.Vec3
	// Arc is the half angle of the cone in radians.
	Arc float32
	// Reflect sends the particle back at its owner instead of just reversing it.
	Reflect bool
}

type Character struct {
	ID uint32
	Body

	Team        int
	Life        float32
	Dead        bool
	Invictus    bool
	DamageTimer int

	IsPlatform bool
	IsMount    bool
	CanRide    bool
	// Saddle is the mount volume relative to Pos. The zero value means a slab one
	// height tall centered on the top of the character.
	Saddle geom.OctBB
	Shield Shield

	Mount    ref.Ref
	Rider    ref.Ref
	BumpedBy ref.Ref
	// HitBy is the last particle to touch the character this tick.
	HitBy ref.Ref
	// AttackedBy is the owner of the last particle that damaged the character.
	AttackedBy ref.Ref
}

func (c *Character) Ref() ref.Ref { return ref.Character(c.ID) }

// SaddleVolume returns the saddle relative to Pos.
func (c *Character) SaddleVolume() geom.OctBB {
	if c.Saddle != (geom.OctBB{}) {
		return c.Saddle
	}
	b := c.Bumper
	return geom.OctBBFromBumper(b).Translate(mgl32.Vec3{0, 0, b.Height * 0.5})
}

// SeatPos returns where a rider stands while mounted: the saddle center.
func (c *Character) SeatPos() mgl32.Vec3 {
	s := c.SaddleVolume()
	if s.Empty {
		return c.Pos.Add(mgl32.Vec3{0, 0, c.Bumper.Height})
	}
	return c.Pos.Add(s.Center())
}

type Particle struct {
	ID uint32
	Body

	Team   int
	Owner  ref.Ref
	Target ref.Ref
	Damage float32

	// EndBump terminates the particle when it touches a character.
	EndBump bool
	// EndWall terminates the particle when it hits a wall or tile.
	EndWall bool
	// Pushes applies collision impulses to characters it touches.
	Pushes             bool
	Deflectable        bool
	FriendlyFire       bool
	OnlyDamageFriendly bool
	AttachOnHit        bool

	AttachedTo   ref.Ref
	attachOffset mgl32.Vec3
	Terminated   bool
}

func (p *Particle) Ref() ref.Ref { return ref.Particle(p.ID) }

// interacts reports whether the particle can register collisions at all.
func (p *Particle) interacts() bool {
	if p.Terminated || p.Bumper.IsZero() {
		return false
	}
	return p.Damage > 0 || p.EndBump || p.Pushes || p.CanUsePlatforms || p.AttachOnHit
}

// Tile is a static box of terrain. Tiles never move and have infinite mass.
type Tile struct {
	ID         uint32
	Box        geom.AABB
	IsPlatform bool
}

func (t *Tile) Ref() ref.Ref { return ref.Tile(t.ID) }

func (t *Tile) Volume() geom.OctBB {
	return geom.OctBBFromAABB(t.Box)
}
