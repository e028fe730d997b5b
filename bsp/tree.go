// Package bsp is a binary space partition over axis aligned volumes. Leaves live in a
// LeafPool; the tree only links leaf ids into per-branch lists.
package bsp

import (
	"fmt"
	"slices"

	"github.com/gekko3d/bump/geom"
	"github.com/gekko3d/bump/internal/assert"
	"github.com/gekko3d/bump/ref"
	"github.com/go-gl/mathgl/mgl32"
)

type BranchID int32

const (
	NoBranch BranchID = -1
	// infiniteOwner marks leaves held in the overflow list.
	infiniteOwner BranchID = -2
)

// Filter selects which leaves a query returns. A nil filter accepts everything.
type Filter func(l *Leaf) bool

type Config struct {
	// Dimensions is 2 (split on x,y) or 3 (split on x,y,z).
	Dimensions int `yaml:"dimensions"`
	MaxDepth   int `yaml:"max_depth"`
	// Region is the partitioned volume. Leaves outside it go to the infinite list.
	Region geom.AABB `yaml:"region"`
	// MaxBranches caps the branch pool.
	MaxBranches int `yaml:"max_branches"`
	// SplitThreshold is how many unsorted leaves a branch holds before it splits.
	SplitThreshold int `yaml:"split_threshold"`
	// LostCap is how many leaves may be lost per rebuild before Add fails hard.
	LostCap int `yaml:"lost_cap"`
	// Strict turns capacity and double insertion problems into panics.
	Strict bool `yaml:"strict"`
}

func DefaultConfig() Config {
	return Config{
		Dimensions:     2,
		MaxDepth:       8,
		Region:         geom.NewAABB(mgl32.Vec3{-1024, -1024, -1024}, mgl32.Vec3{1024, 1024, 1024}),
		MaxBranches:    4096,
		SplitThreshold: 8,
		LostCap:        64,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Dimensions != 2 && c.Dimensions != 3:
		return fmt.Errorf("%w: dimensions %d, want 2 or 3", ErrInvalidConfig, c.Dimensions)
	case c.MaxDepth < 1:
		return fmt.Errorf("%w: max depth %d", ErrInvalidConfig, c.MaxDepth)
	case !c.Region.Valid():
		return fmt.Errorf("%w: region %v", ErrInvalidConfig, c.Region)
	case c.MaxBranches < 1:
		return fmt.Errorf("%w: max branches %d", ErrInvalidConfig, c.MaxBranches)
	case c.SplitThreshold < 1:
		return fmt.Errorf("%w: split threshold %d", ErrInvalidConfig, c.SplitThreshold)
	case c.LostCap < 0:
		return fmt.Errorf("%w: lost cap %d", ErrInvalidConfig, c.LostCap)
	}
	return nil
}

type branch struct {
	parent   BranchID
	children []BranchID
	// nodes holds leaves straddling the split planes.
	nodes []LeafID
	// unsorted holds leaves waiting for the branch to split.
	unsorted []LeafID
	region   geom.AABB
	// bounds is the union of every leaf in the subtree.
	bounds geom.AABB
	depth  int
	split  bool
	used   bool
}

func (b *branch) empty() bool {
	if len(b.nodes) > 0 || len(b.unsorted) > 0 {
		return false
	}
	for _, c := range b.children {
		if c != NoBranch {
			return false
		}
	}
	return true
}

type Tree struct {
	cfg      Config
	pool     *LeafPool
	branches []branch
	free     []BranchID
	root     BranchID

	infinite       []LeafID
	infiniteBounds geom.AABB

	lost     int
	overflow int
	visits   int
	visited  []BranchID
}

func NewTree(cfg Config, pool *LeafPool) (*Tree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, fmt.Errorf("%w: nil leaf pool", ErrInvalidConfig)
	}
	t := &Tree{
		cfg:            cfg,
		pool:           pool,
		branches:       make([]branch, 0, cfg.MaxBranches),
		infiniteBounds: geom.EmptyAABB(),
	}
	t.root = t.allocBranch(NoBranch, cfg.Region, 0)
	return t, nil
}

func (t *Tree) Config() Config { return t.cfg }
func (t *Tree) Pool() *LeafPool { return t.pool }

func (t *Tree) allocBranch(parent BranchID, region geom.AABB, depth int) BranchID {
	var id BranchID
	if n := len(t.free); n > 0 {
		id = t.free[n-1]
		t.free = t.free[:n-1]
	} else if len(t.branches) < t.cfg.MaxBranches {
		t.branches = append(t.branches, branch{})
		id = BranchID(len(t.branches) - 1)
	} else {
		return NoBranch
	}
	b := &t.branches[id]
	children := b.children[:0]
	for i := 0; i < 1<<t.cfg.Dimensions; i++ {
		children = append(children, NoBranch)
	}
	*b = branch{
		parent:   parent,
		children: children,
		nodes:    b.nodes[:0],
		unsorted: b.unsorted[:0],
		region:   region,
		bounds:   geom.EmptyAABB(),
		depth:    depth,
		used:     true,
	}
	return id
}

func (t *Tree) freeBranch(id BranchID) {
	b := &t.branches[id]
	b.used = false
	b.nodes = b.nodes[:0]
	b.unsorted = b.unsorted[:0]
	t.free = append(t.free, id)
}

// ensureBranch returns the child of parent at index, allocating it if needed.
func (t *Tree) ensureBranch(parent BranchID, index int) BranchID {
	if c := t.branches[parent].children[index]; c != NoBranch {
		return c
	}
	p := t.branches[parent]
	c := t.allocBranch(parent, t.childRegion(p.region, index), p.depth+1)
	if c == NoBranch {
		return NoBranch
	}
	t.branches[parent].children[index] = c
	return c
}

func (t *Tree) childRegion(r geom.AABB, index int) geom.AABB {
	mid := r.Center()
	out := r
	for axis := 0; axis < t.cfg.Dimensions; axis++ {
		if index&(1<<axis) != 0 {
			out.Min[axis] = mid[axis]
		} else {
			out.Max[axis] = mid[axis]
		}
	}
	return out
}

// childIndex returns the child that fully holds box, or -1 if box straddles a split plane.
func (t *Tree) childIndex(region, box geom.AABB) int {
	mid := region.Center()
	index := 0
	for axis := 0; axis < t.cfg.Dimensions; axis++ {
		switch {
		case box.Max[axis] <= mid[axis]:
		case box.Min[axis] >= mid[axis]:
			index |= 1 << axis
		default:
			return -1
		}
	}
	return index
}

// Add acquires a leaf for r and inserts it.
func (t *Tree) Add(r ref.Ref, bv geom.BV) (LeafID, error) {
	id, err := t.pool.Acquire(r, bv)
	if err != nil {
		assert.IsTrue(!t.cfg.Strict, "leaf pool of %d exhausted adding %v", t.pool.Cap(), r)
		t.lost++
		if t.lost > t.cfg.LostCap {
			return NoLeaf, fmt.Errorf("%d lost this rebuild: %w", t.lost, ErrTooManyLost)
		}
		return NoLeaf, err
	}
	if err := t.Insert(id); err != nil {
		_ = t.pool.Release(id)
		return NoLeaf, err
	}
	return id, nil
}

// Insert links a pooled leaf into the tree.
func (t *Tree) Insert(id LeafID) error {
	leaf := t.pool.Get(id)
	if leaf == nil || !leaf.BV.Valid() {
		return fmt.Errorf("insert %d: %w", id, ErrInvalidLeaf)
	}
	if leaf.inserted {
		assert.IsTrue(!t.cfg.Strict, "leaf %d (%v) inserted twice", id, leaf.Ref)
		return fmt.Errorf("insert %d: %w", id, ErrLeafInserted)
	}
	box := leaf.BV.AABB
	if !t.cfg.Region.Contains(box) || t.tooLarge(box) {
		t.pushInfinite(id, leaf)
		return nil
	}
	t.insertAt(t.root, id, leaf)
	return nil
}

func (t *Tree) tooLarge(box geom.AABB) bool {
	half := t.cfg.Region.HalfExtents()
	size := box.Size()
	for axis := 0; axis < t.cfg.Dimensions; axis++ {
		if size[axis] > half[axis] {
			return true
		}
	}
	return false
}

func (t *Tree) pushInfinite(id LeafID, leaf *Leaf) {
	leaf.inserted = true
	leaf.owner = infiniteOwner
	t.infinite = append(t.infinite, id)
	t.infiniteBounds = t.infiniteBounds.Union(leaf.BV.AABB)
}

func (t *Tree) link(b BranchID, id LeafID, leaf *Leaf, unsorted bool) {
	br := &t.branches[b]
	if unsorted {
		br.unsorted = append(br.unsorted, id)
	} else {
		br.nodes = append(br.nodes, id)
	}
	leaf.inserted = true
	leaf.owner = b
}

func (t *Tree) insertAt(b BranchID, id LeafID, leaf *Leaf) {
	box := leaf.BV.AABB
	for {
		br := &t.branches[b]
		br.bounds = br.bounds.Union(box)

		if !br.split {
			if len(br.unsorted) < t.cfg.SplitThreshold || br.depth >= t.cfg.MaxDepth {
				t.link(b, id, leaf, true)
				return
			}
			t.link(b, id, leaf, true)
			t.split(b)
			return
		}

		ci := t.childIndex(br.region, box)
		if ci < 0 {
			t.link(b, id, leaf, false)
			return
		}
		child := t.ensureBranch(b, ci)
		if child == NoBranch {
			assert.IsTrue(!t.cfg.Strict, "branch pool of %d exhausted", t.cfg.MaxBranches)
			t.overflow++
			t.pushInfinite(id, leaf)
			return
		}
		b = child
	}
}

// split moves the unsorted leaves of b into its children or its node list.
func (t *Tree) split(b BranchID) {
	br := &t.branches[b]
	br.split = true
	pending := slices.Clone(br.unsorted)
	br.unsorted = br.unsorted[:0]
	for _, id := range pending {
		leaf := &t.pool.leaves[id]
		leaf.inserted = false
		t.insertAt(b, id, leaf)
	}
}

// Remove unlinks a leaf without releasing it from the pool.
func (t *Tree) Remove(id LeafID) error {
	leaf := t.pool.Get(id)
	if leaf == nil {
		return fmt.Errorf("remove %d: %w", id, ErrInvalidLeaf)
	}
	if !leaf.inserted {
		return fmt.Errorf("remove %d: %w", id, ErrLeafNotInserted)
	}
	drop := func(list []LeafID) ([]LeafID, bool) {
		if i := slices.Index(list, id); i >= 0 {
			return slices.Delete(list, i, i+1), true
		}
		return list, false
	}
	var ok bool
	if leaf.owner == infiniteOwner {
		t.infinite, ok = drop(t.infinite)
	} else if leaf.owner >= 0 && int(leaf.owner) < len(t.branches) {
		br := &t.branches[leaf.owner]
		if br.nodes, ok = drop(br.nodes); !ok {
			br.unsorted, ok = drop(br.unsorted)
		}
	}
	assert.IsTrue(ok, "leaf %d not found in owner %d", id, leaf.owner)
	leaf.inserted = false
	leaf.owner = NoBranch
	return nil
}

// Clear unlinks every leaf and empties every list. Branch structure is kept for
// the next rebuild; Prune reclaims what stays empty.
func (t *Tree) Clear() {
	unlink := func(list []LeafID) {
		for _, id := range list {
			if l := t.pool.Get(id); l != nil {
				l.inserted = false
				l.owner = NoBranch
			}
		}
	}
	for i := range t.branches {
		br := &t.branches[i]
		if !br.used {
			continue
		}
		unlink(br.nodes)
		unlink(br.unsorted)
		br.nodes = br.nodes[:0]
		br.unsorted = br.unsorted[:0]
		br.bounds = geom.EmptyAABB()
	}
	unlink(t.infinite)
	t.infinite = t.infinite[:0]
	t.infiniteBounds = geom.EmptyAABB()
	t.lost = 0
	t.overflow = 0
}

// Prune frees empty branches bottom-up and returns how many were freed. The root
// is never freed.
func (t *Tree) Prune() int {
	return t.prune(t.root)
}

func (t *Tree) prune(b BranchID) int {
	freed := 0
	br := &t.branches[b]
	for i, c := range br.children {
		if c == NoBranch {
			continue
		}
		freed += t.prune(c)
		if t.branches[c].empty() {
			t.freeBranch(c)
			t.branches[b].children[i] = NoBranch
			freed++
		}
	}
	br = &t.branches[b]
	if br.empty() {
		br.split = false
	}
	return freed
}

// Collide appends to out every leaf whose volume overlaps query and passes filter.
func (t *Tree) Collide(query geom.AABB, filter Filter, out []LeafID) []LeafID {
	t.visits = 0
	t.visited = t.visited[:0]
	q := geom.NewBV(query)
	if !q.Valid() {
		return out
	}
	if t.infiniteBounds.Overlaps(query) {
		out = t.appendMatches(t.infinite, q, filter, out)
	}
	return t.collideBranch(t.root, q, filter, out)
}

func (t *Tree) collideBranch(b BranchID, q geom.BV, filter Filter, out []LeafID) []LeafID {
	br := &t.branches[b]
	if !br.bounds.Valid() || !br.bounds.Overlaps(q.AABB) {
		return out
	}
	t.visits++
	t.visited = append(t.visited, b)
	out = t.appendMatches(br.nodes, q, filter, out)
	out = t.appendMatches(br.unsorted, q, filter, out)
	for _, c := range br.children {
		if c != NoBranch {
			out = t.collideBranch(c, q, filter, out)
		}
	}
	return out
}

func (t *Tree) appendMatches(list []LeafID, q geom.BV, filter Filter, out []LeafID) []LeafID {
	for _, id := range list {
		leaf := &t.pool.leaves[id]
		if !leaf.BV.Overlaps(q) {
			continue
		}
		if filter != nil && !filter(leaf) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// CollideFrustum appends every leaf not fully outside f.
func (t *Tree) CollideFrustum(f geom.Frustum, filter Filter, out []LeafID) []LeafID {
	t.visits = 0
	t.visited = t.visited[:0]
	if f.Count == 0 {
		return out
	}
	if t.infiniteBounds.Valid() && f.AABBIntersects(t.infiniteBounds) != geom.Outside {
		out = t.appendFrustum(t.infinite, f, filter, out)
	}
	return t.frustumBranch(t.root, f, filter, out)
}

func (t *Tree) frustumBranch(b BranchID, f geom.Frustum, filter Filter, out []LeafID) []LeafID {
	br := &t.branches[b]
	if !br.bounds.Valid() || f.AABBIntersects(br.bounds) == geom.Outside {
		return out
	}
	t.visits++
	t.visited = append(t.visited, b)
	out = t.appendFrustum(br.nodes, f, filter, out)
	out = t.appendFrustum(br.unsorted, f, filter, out)
	for _, c := range br.children {
		if c != NoBranch {
			out = t.frustumBranch(c, f, filter, out)
		}
	}
	return out
}

func (t *Tree) appendFrustum(list []LeafID, f geom.Frustum, filter Filter, out []LeafID) []LeafID {
	for _, id := range list {
		leaf := &t.pool.leaves[id]
		if f.SphereIntersects(leaf.BV.Sphere) == geom.Outside {
			continue
		}
		if f.AABBIntersects(leaf.BV.AABB) == geom.Outside {
			continue
		}
		if filter != nil && !filter(leaf) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Leaf returns the pooled leaf for id.
func (t *Tree) Leaf(id LeafID) *Leaf {
	return t.pool.Get(id)
}

// Visits returns how many branches the last query entered.
func (t *Tree) Visits() int { return t.visits }

// Lost returns how many leaves were dropped since the last Clear.
func (t *Tree) Lost() int { return t.lost }

// Overflow returns how many leaves went to the infinite list because the branch
// pool was exhausted since the last Clear.
func (t *Tree) Overflow() int { return t.overflow }

func (t *Tree) Infinite() int { return len(t.infinite) }

// Branches returns the number of allocated branches.
func (t *Tree) Branches() int {
	return len(t.branches) - len(t.free)
}
