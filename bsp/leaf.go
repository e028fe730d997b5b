package bsp

import (
	"fmt"

	"github.com/gekko3d/bump/geom"
	"github.com/gekko3d/bump/ref"
)

type LeafID int32

const NoLeaf LeafID = -1

// Leaf binds an entity ref to its bounding volume. A leaf is linked into at most
// one list of one tree at a time.
type Leaf struct {
	Ref ref.Ref
	BV  geom.BV

	inserted bool
	owner    BranchID
}

func (l *Leaf) Inserted() bool {
	return l.inserted
}

// LeafPool is a fixed-capacity arena of leaves. Ids are stable until Release or Reset.
type LeafPool struct {
	leaves []Leaf
	free   []LeafID
	cap    int
}

func NewLeafPool(capacity int) *LeafPool {
	return &LeafPool{
		leaves: make([]Leaf, 0, capacity),
		cap:    capacity,
	}
}

// Acquire stores a new leaf and returns its id.
func (p *LeafPool) Acquire(r ref.Ref, bv geom.BV) (LeafID, error) {
	leaf := Leaf{Ref: r, BV: bv, owner: NoBranch}
	if n := len(p.free); n > 0 {
		id := p.free[n-1]
		p.free = p.free[:n-1]
		p.leaves[id] = leaf
		return id, nil
	}
	if len(p.leaves) >= p.cap {
		return NoLeaf, fmt.Errorf("acquire %v: %w", r, ErrPoolExhausted)
	}
	p.leaves = append(p.leaves, leaf)
	return LeafID(len(p.leaves) - 1), nil
}

// Release returns a leaf to the pool. Releasing an inserted leaf is an error.
func (p *LeafPool) Release(id LeafID) error {
	l := p.Get(id)
	if l == nil {
		return fmt.Errorf("release %d: %w", id, ErrInvalidLeaf)
	}
	if l.inserted {
		return fmt.Errorf("release %d: %w", id, ErrLeafInserted)
	}
	*l = Leaf{owner: NoBranch}
	p.free = append(p.free, id)
	return nil
}

// Get returns nil for out-of-range or released ids.
func (p *LeafPool) Get(id LeafID) *Leaf {
	if id < 0 || int(id) >= len(p.leaves) {
		return nil
	}
	l := &p.leaves[id]
	if !l.Ref.Valid() {
		return nil
	}
	return l
}

// Reset forgets every leaf. Callers must clear any tree using the pool first.
func (p *LeafPool) Reset() {
	p.leaves = p.leaves[:0]
	p.free = p.free[:0]
}

// Len returns the number of live leaves.
func (p *LeafPool) Len() int {
	return len(p.leaves) - len(p.free)
}

func (p *LeafPool) Cap() int {
	return p.cap
}
