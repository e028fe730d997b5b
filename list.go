package bump

import (
	"fmt"
	"slices"

	"github.com/elliotchance/orderedmap/v2"
)

type slot[T any] struct {
	val  *T
	live bool
}

// List stores entities by id. While locked, Add and Remove are queued and applied
// when the last Guard is released, removals first. Ids are handed out immediately.
type List[T any] struct {
	slots []slot[T]
	free  []uint32
	cap   int
	live  int

	locks         int
	pendingAdd    *orderedmap.OrderedMap[uint32, *T]
	pendingRemove []uint32
}

func NewList[T any](capacity int) *List[T] {
	return &List[T]{
		slots:      make([]slot[T], 0, capacity),
		cap:        capacity,
		pendingAdd: orderedmap.NewOrderedMap[uint32, *T](),
	}
}

// Guard holds a List lock until released.
type Guard[T any] struct {
	list     *List[T]
	released bool
}

// Release drops the lock. Only the first call has an effect.
func (g *Guard[T]) Release() {
	if g == nil || g.released {
		return
	}
	g.released = true
	g.list.unlock()
}

func (l *List[T]) Lock() *Guard[T] {
	l.locks++
	return &Guard[T]{list: l}
}

func (l *List[T]) Locked() bool { return l.locks > 0 }

func (l *List[T]) unlock() {
	if l.locks == 0 {
		return
	}
	l.locks--
	if l.locks == 0 {
		l.flush()
	}
}

func (l *List[T]) flush() {
	for _, id := range l.pendingRemove {
		l.drop(id)
	}
	l.pendingRemove = l.pendingRemove[:0]

	for _, id := range l.pendingAdd.Keys() {
		v, _ := l.pendingAdd.Get(id)
		l.slots[id] = slot[T]{val: v, live: true}
		l.live++
	}
	l.pendingAdd = orderedmap.NewOrderedMap[uint32, *T]()
}

func (l *List[T]) reserve() (uint32, bool) {
	if n := len(l.free); n > 0 {
		id := l.free[n-1]
		l.free = l.free[:n-1]
		return id, true
	}
	if len(l.slots) >= l.cap {
		return 0, false
	}
	l.slots = append(l.slots, slot[T]{})
	return uint32(len(l.slots) - 1), true
}

// Add stores v and returns its id. While locked v becomes visible on flush.
func (l *List[T]) Add(v *T) (uint32, error) {
	if l.live+l.pendingAdd.Len() >= l.cap {
		return 0, fmt.Errorf("add to list of %d: %w", l.cap, ErrListFull)
	}
	id, ok := l.reserve()
	if !ok {
		return 0, fmt.Errorf("add to list of %d: %w", l.cap, ErrListFull)
	}
	if l.locks > 0 {
		l.pendingAdd.Set(id, v)
		return id, nil
	}
	l.slots[id] = slot[T]{val: v, live: true}
	l.live++
	return id, nil
}

// Remove deletes id. An add still pending in the same locked window is cancelled.
func (l *List[T]) Remove(id uint32) bool {
	if l.locks > 0 {
		if _, ok := l.pendingAdd.Get(id); ok {
			l.pendingAdd.Delete(id)
			l.free = append(l.free, id)
			return true
		}
		if l.Get(id) == nil || slices.Contains(l.pendingRemove, id) {
			return false
		}
		l.pendingRemove = append(l.pendingRemove, id)
		return true
	}
	return l.drop(id)
}

func (l *List[T]) drop(id uint32) bool {
	if int(id) >= len(l.slots) || !l.slots[id].live {
		return false
	}
	l.slots[id] = slot[T]{}
	l.free = append(l.free, id)
	l.live--
	return true
}

// Get returns the live entity for id or nil.
func (l *List[T]) Get(id uint32) *T {
	if int(id) >= len(l.slots) || !l.slots[id].live {
		return nil
	}
	return l.slots[id].val
}

// Pending reports whether id is queued for removal.
func (l *List[T]) Pending(id uint32) bool {
	return slices.Contains(l.pendingRemove, id)
}

func (l *List[T]) Len() int { return l.live }

func (l *List[T]) Cap() int { return l.cap }

// IDs returns the live ids in ascending order.
func (l *List[T]) IDs() []uint32 {
	out := make([]uint32, 0, l.live)
	for i := range l.slots {
		if l.slots[i].live {
			out = append(out, uint32(i))
		}
	}
	return out
}

// Range calls fn for each live entity in id order while holding a lock, so fn
// may add or remove entities.
func (l *List[T]) Range(fn func(id uint32, v *T) bool) {
	g := l.Lock()
	defer g.Release()
	for i := 0; i < len(l.slots); i++ {
		if !l.slots[i].live {
			continue
		}
		if !fn(uint32(i), l.slots[i].val) {
			return
		}
	}
}

// Clear drops every entity and pending change.
func (l *List[T]) Clear() {
	l.slots = l.slots[:0]
	l.free = l.free[:0]
	l.live = 0
	l.pendingRemove = l.pendingRemove[:0]
	l.pendingAdd = orderedmap.NewOrderedMap[uint32, *T]()
}
