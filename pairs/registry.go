package pairs

import (
	"encoding/binary"
	"slices"

	"github.com/zeebo/xxh3"
)

// Registry stores at most one record per unordered pair. Buckets have a fixed
// capacity; inserts into a full bucket are dropped and counted.
type Registry struct {
	buckets   [][]int32
	bucketCap int
	records   []Record
	dropped   int
}

func NewRegistry(buckets, bucketCap int) *Registry {
	if buckets < 1 {
		buckets = 1
	}
	if bucketCap < 1 {
		bucketCap = 1
	}
	r := &Registry{
		buckets:   make([][]int32, buckets),
		bucketCap: bucketCap,
	}
	for i := range r.buckets {
		r.buckets[i] = make([]int32, 0, bucketCap)
	}
	return r
}

// Hash is symmetric in a and b.
func Hash(rec Record) uint64 {
	lo, hi := rec.ordered()
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], lo.Key())
	binary.LittleEndian.PutUint64(buf[8:], hi.Key())
	return xxh3.Hash(buf[:])
}

func (r *Registry) bucket(rec Record) int {
	return int(Hash(rec) % uint64(len(r.buckets)))
}

// InsertUnique adds rec unless the pair is already present. It returns false for
// duplicates, self pairs, invalid refs and full buckets.
func (r *Registry) InsertUnique(rec Record) bool {
	if !rec.A.Valid() || !rec.B.Valid() || rec.A == rec.B {
		return false
	}
	b := r.bucket(rec)
	for _, idx := range r.buckets[b] {
		if r.records[idx].Same(rec) {
			return false
		}
	}
	if len(r.buckets[b]) >= r.bucketCap {
		r.dropped++
		return false
	}
	r.buckets[b] = append(r.buckets[b], int32(len(r.records)))
	r.records = append(r.records, rec)
	return true
}

func (r *Registry) Contains(rec Record) bool {
	if !rec.A.Valid() || !rec.B.Valid() {
		return false
	}
	for _, idx := range r.buckets[r.bucket(rec)] {
		if r.records[idx].Same(rec) {
			return true
		}
	}
	return false
}

// Count returns how many stored records match the unordered pair of rec.
func (r *Registry) Count(rec Record) int {
	n := 0
	for _, stored := range r.records {
		if stored.Same(rec) {
			n++
		}
	}
	return n
}

func (r *Registry) Len() int { return len(r.records) }

// Dropped returns how many inserts were lost to full buckets since Reset.
func (r *Registry) Dropped() int { return r.dropped }

// Records returns the records in insertion order. The slice is owned by the registry.
func (r *Registry) Records() []Record { return r.records }

// Sorted orders the stored records in place, reindexes the buckets and returns
// the records.
func (r *Registry) Sorted() []Record {
	slices.SortStableFunc(r.records, Compare)
	for i := range r.buckets {
		r.buckets[i] = r.buckets[i][:0]
	}
	for i := range r.records {
		b := r.bucket(r.records[i])
		r.buckets[b] = append(r.buckets[b], int32(i))
	}
	return r.records
}

// Reset empties the registry for the next tick.
func (r *Registry) Reset() {
	for i := range r.buckets {
		r.buckets[i] = r.buckets[i][:0]
	}
	r.records = r.records[:0]
	r.dropped = 0
}
