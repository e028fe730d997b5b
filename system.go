package bump

import (
	"fmt"
	"slices"

	"github.com/gekko3d/bump/bsp"
	"github.com/gekko3d/bump/geom"
	"github.com/gekko3d/bump/pairs"
	"github.com/gekko3d/bump/ref"
	"github.com/google/uuid"
)

// Stats describes one BumpAllObjects call.
type Stats struct {
	Tick uint64

	Leaves   int
	Infinite int
	Lost     int
	Overflow int
	Pruned   int

	Candidates int
	Records    int
	Dropped    int

	Mounted      int
	Platformed   int
	Resolved     int
	Deflected    int
	Damaged      int
	Terminated   int
	InvalidRefs  int
	Degenerate   int
	PairFailures int
	Clamped      int
	WallHits     int
}

type teamPair [2]int

func makeTeamPair(a, b int) teamPair {
	if a > b {
		a, b = b, a
	}
	return teamPair{a, b}
}

// System owns the entity lists, spatial index and pair registry of one simulation.
type System struct {
	id      uuid.UUID
	cfg     Config
	log     Logger
	terrain Terrain

	Characters *List[Character]
	Particles  *List[Particle]
	Tiles      *List[Tile]

	tree     *bsp.Tree
	registry *pairs.Registry
	hostile  map[teamPair]bool

	tick       uint64
	stats      Stats
	candidates []bsp.LeafID
}

type Option func(*System)

func WithLogger(l Logger) Option {
	return func(s *System) {
		if l != nil {
			s.log = l
		}
	}
}

// WithTerrain sets the world geometry used for wall tests. The default has no walls.
func WithTerrain(t Terrain) Option {
	return func(s *System) {
		if t != nil {
			s.terrain = t
		}
	}
}

func NewSystem(cfg Config, opts ...Option) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	id := uuid.New()
	s := &System{
		id:         id,
		cfg:        cfg,
		terrain:    openTerrain{},
		Characters: NewList[Character](cfg.MaxCharacters),
		Particles:  NewList[Particle](cfg.MaxParticles),
		Tiles:      NewList[Tile](cfg.MaxTiles),
		registry:   pairs.NewRegistry(cfg.Registry.Buckets, cfg.Registry.BucketCap),
		hostile:    make(map[teamPair]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = NewDefaultLogger("bump "+id.String()[:8], cfg.Debug)
	}
	if c, ok := s.log.(interface{ SetClock(func() uint64) }); ok {
		c.SetClock(s.Tick)
	}

	indexCfg := cfg.Index
	indexCfg.Strict = indexCfg.Strict || cfg.Strict
	pool := bsp.NewLeafPool(cfg.MaxCharacters + cfg.MaxParticles + cfg.MaxTiles)
	tree, err := bsp.NewTree(indexCfg, pool)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	s.tree = tree
	s.log.Debugf("collision system ready: %d chr, %d prt, %d tiles", cfg.MaxCharacters, cfg.MaxParticles, cfg.MaxTiles)
	return s, nil
}

func (s *System) ID() uuid.UUID  { return s.id }
func (s *System) Config() Config { return s.cfg }
func (s *System) Tick() uint64   { return s.tick }

// Stats returns the counters of the last BumpAllObjects call.
func (s *System) Stats() Stats { return s.stats }

// Records returns the pairs found during the last tick, sorted by time. The slice
// is reused by the next tick.
func (s *System) Records() []pairs.Record {
	return s.registry.Records()
}

// Reset drops every entity and all per-tick state.
func (s *System) Reset() {
	s.Characters.Clear()
	s.Particles.Clear()
	s.Tiles.Clear()
	s.tree.Clear()
	s.tree.Pool().Reset()
	s.tree.Prune()
	s.registry.Reset()
	s.tick = 0
	s.stats = Stats{}
}

// SetHostile marks whether two teams damage each other. Unset pairs of different
// teams are hostile.
func (s *System) SetHostile(a, b int, hostile bool) {
	s.hostile[makeTeamPair(a, b)] = hostile
}

func (s *System) Hostile(a, b int) bool {
	if h, ok := s.hostile[makeTeamPair(a, b)]; ok {
		return h
	}
	return a != b
}

func (s *System) SpawnCharacter(c Character) (uint32, error) {
	p := &c
	id, err := s.Characters.Add(p)
	if err != nil {
		return 0, err
	}
	p.ID = id
	p.target.reset()
	return id, nil
}

func (s *System) SpawnParticle(pt Particle) (uint32, error) {
	p := &pt
	id, err := s.Particles.Add(p)
	if err != nil {
		return 0, err
	}
	p.ID = id
	p.target.reset()
	return id, nil
}

func (s *System) AddTile(t Tile) (uint32, error) {
	if !t.Box.Valid() {
		return 0, fmt.Errorf("add tile %v: %w", t.Box, ErrInvalidRef)
	}
	p := &t
	id, err := s.Tiles.Add(p)
	if err != nil {
		return 0, err
	}
	p.ID = id
	return id, nil
}

func (s *System) RemoveCharacter(id uint32) bool { return s.Characters.Remove(id) }
func (s *System) RemoveParticle(id uint32) bool  { return s.Particles.Remove(id) }
func (s *System) RemoveTile(id uint32) bool      { return s.Tiles.Remove(id) }

func (s *System) Character(id uint32) *Character { return s.Characters.Get(id) }
func (s *System) Particle(id uint32) *Particle   { return s.Particles.Get(id) }
func (s *System) Tile(id uint32) *Tile           { return s.Tiles.Get(id) }

// body returns the movable body behind r. Tiles have none.
func (s *System) body(r ref.Ref) *Body {
	switch r.Kind {
	case ref.KindCharacter:
		if c := s.Characters.Get(r.ID); c != nil {
			return &c.Body
		}
	case ref.KindParticle:
		if p := s.Particles.Get(r.ID); p != nil && !p.Terminated {
			return &p.Body
		}
	}
	return nil
}

// exists reports whether r names a live entity.
func (s *System) exists(r ref.Ref) bool {
	switch r.Kind {
	case ref.KindCharacter:
		return s.Characters.Get(r.ID) != nil
	case ref.KindParticle:
		p := s.Particles.Get(r.ID)
		return p != nil && !p.Terminated
	case ref.KindTile:
		return s.Tiles.Get(r.ID) != nil
	}
	return false
}

// Dismount detaches a rider from its mount.
func (s *System) Dismount(riderID uint32) error {
	rider := s.Characters.Get(riderID)
	if rider == nil {
		return fmt.Errorf("dismount chr %d: %w", riderID, ErrInvalidRef)
	}
	if !rider.Mount.Valid() {
		return fmt.Errorf("dismount chr %d: %w", riderID, ErrNotMounted)
	}
	s.dismount(rider)
	return nil
}

func (s *System) dismount(rider *Character) {
	if mount := s.Characters.Get(rider.Mount.ID); mount != nil && mount.Rider == rider.Ref() {
		mount.Rider = ref.Ref{}
	}
	rider.Mount = ref.Ref{}
	rider.Alerts |= AlertDismounted
}

// DetachFromPlatform clears the platform carrying r.
func (s *System) DetachFromPlatform(r ref.Ref) error {
	b := s.body(r)
	if b == nil {
		return fmt.Errorf("detach %v: %w", r, ErrInvalidRef)
	}
	detachPlatform(b)
	return nil
}

func detachPlatform(b *Body) {
	if b.OnPlatform.Valid() {
		b.OnPlatform = ref.Ref{}
		b.Alerts |= AlertLeftPlatform
	}
}

func kindFilter(kinds []ref.Kind) bsp.Filter {
	if len(kinds) == 0 {
		return nil
	}
	return func(l *bsp.Leaf) bool {
		return slices.Contains(kinds, l.Ref.Kind)
	}
}

// QueryAABB returns the entities whose swept volume in the last tick overlaps box.
func (s *System) QueryAABB(box geom.AABB, kinds ...ref.Kind) []ref.Ref {
	return s.leafRefs(s.tree.Collide(box, kindFilter(kinds), nil))
}

// QueryFrustum returns the entities from the last tick not fully outside f.
func (s *System) QueryFrustum(f geom.Frustum, kinds ...ref.Kind) []ref.Ref {
	return s.leafRefs(s.tree.CollideFrustum(f, kindFilter(kinds), nil))
}

func (s *System) leafRefs(ids []bsp.LeafID) []ref.Ref {
	out := make([]ref.Ref, 0, len(ids))
	for _, id := range ids {
		if l := s.tree.Leaf(id); l != nil {
			out = append(out, l.Ref)
		}
	}
	return out
}

// Update runs one full tick: detection and resolution, then integration.
func (s *System) Update() Stats {
	st := s.BumpAllObjects()
	s.MoveAllObjects()
	return st
}

// BumpAllObjects rebuilds the index, finds every interacting pair and resolves them.
func (s *System) BumpAllObjects() Stats {
	s.tick++
	s.stats = Stats{Tick: s.tick}

	chars := s.Characters.Lock()
	defer chars.Release()
	prts := s.Particles.Lock()
	defer prts.Release()
	tiles := s.Tiles.Lock()
	defer tiles.Release()

	s.clearAlerts()
	s.rebuildIndex()
	s.detect()

	recs := s.registry.Sorted()
	s.stats.Records = len(recs)
	s.stats.Dropped = s.registry.Dropped()

	s.resolveMounts(recs)
	s.resolvePlatforms(recs)
	s.resolveCollisions(recs)
	s.reaffirmAttachedParticles()
	s.commit()

	s.reportCapacity()
	return s.stats
}

func (s *System) clearAlerts() {
	s.Characters.Range(func(_ uint32, c *Character) bool {
		c.Alerts = 0
		c.BumpedBy = ref.Ref{}
		c.HitBy = ref.Ref{}
		return true
	})
	s.Particles.Range(func(_ uint32, p *Particle) bool {
		p.Alerts = 0
		return true
	})
}

func (s *System) reportCapacity() {
	st := s.stats
	if st.Dropped > 0 {
		s.log.Warnf("pair registry dropped %d pairs", st.Dropped)
	}
	if st.Lost > 0 {
		s.log.Warnf("index lost %d leaves", st.Lost)
	}
	if st.Overflow > 0 {
		s.log.Debugf("%d leaves overflowed the branch pool", st.Overflow)
	}
	if st.PairFailures > 0 {
		s.log.Warnf("%d pairs failed to resolve", st.PairFailures)
	}
	s.log.Debugf("%d leaves, %d candidates, %d records", st.Leaves, st.Candidates, st.Records)
}
