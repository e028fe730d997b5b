package pairs

import (
	"math/rand"
	"testing"

	"github.com/gekko3d/bump/ref"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_Symmetric(t *testing.T) {
	a := Record{A: ref.Character(3), B: ref.Particle(9)}
	assert.Equal(t, Hash(a), Hash(a.Reverse()))
	assert.NotEqual(t, Hash(a), Hash(Record{A: ref.Character(9), B: ref.Particle(3)}))
}

func TestRegistry_InsertUnique(t *testing.T) {
	r := NewRegistry(16, 4)

	rec := Record{A: ref.Character(1), B: ref.Character(2), TMin: 0.5}
	assert.True(t, r.InsertUnique(rec))
	assert.False(t, r.InsertUnique(rec))
	assert.False(t, r.InsertUnique(rec.Reverse()))
	assert.Equal(t, 1, r.Len())
	assert.True(t, r.Contains(rec.Reverse()))

	assert.False(t, r.InsertUnique(Record{A: ref.Character(1), B: ref.Character(1)}), "self pair")
	assert.False(t, r.InsertUnique(Record{A: ref.Character(1)}), "missing participant")
}

func TestRegistry_NoDuplicatePairs(t *testing.T) {
	r := NewRegistry(64, 64)
	rng := rand.New(rand.NewSource(5))

	for i := 0; i < 2000; i++ {
		a := ref.Ref{Kind: ref.Kind(1 + rng.Intn(3)), ID: uint32(rng.Intn(10))}
		b := ref.Ref{Kind: ref.Kind(1 + rng.Intn(3)), ID: uint32(rng.Intn(10))}
		r.InsertUnique(Record{A: a, B: b, TMin: rng.Float32()})
	}
	require.Zero(t, r.Dropped())
	for _, rec := range r.Records() {
		assert.Equal(t, 1, r.Count(rec), "pair %v/%v", rec.A, rec.B)
	}
}

func TestRegistry_FullBucketDrops(t *testing.T) {
	r := NewRegistry(1, 2)

	assert.True(t, r.InsertUnique(Record{A: ref.Character(1), B: ref.Character(2)}))
	assert.True(t, r.InsertUnique(Record{A: ref.Character(1), B: ref.Character(3)}))
	assert.False(t, r.InsertUnique(Record{A: ref.Character(1), B: ref.Character(4)}))
	assert.Equal(t, 1, r.Dropped())
	assert.Equal(t, 2, r.Len())

	// A duplicate of a stored pair is not a drop.
	assert.False(t, r.InsertUnique(Record{A: ref.Character(2), B: ref.Character(1)}))
	assert.Equal(t, 1, r.Dropped())
}

func TestRegistry_SortedAndReset(t *testing.T) {
	r := NewRegistry(4, 8)
	r.InsertUnique(Record{A: ref.Character(5), B: ref.Character(6), TMin: 0.7, TMax: 1})
	r.InsertUnique(Record{A: ref.Character(1), B: ref.Tile(2), TMin: -1, TMax: 1})
	r.InsertUnique(Record{A: ref.Particle(4), B: ref.Character(3), TMin: 0.2, TMax: 0.9})
	r.InsertUnique(Record{A: ref.Character(2), B: ref.Character(3), TMin: 0.2, TMax: 0.9})

	sorted := r.Sorted()
	require.Len(t, sorted, 4)
	assert.Equal(t, float32(-1), sorted[0].TMin)
	assert.Equal(t, ref.Character(2), sorted[1].A, "ties break on participant keys")
	assert.Equal(t, ref.Particle(4), sorted[2].A)
	assert.Equal(t, float32(0.7), sorted[3].TMin)

	// Buckets still dedup after sorting.
	assert.False(t, r.InsertUnique(Record{A: ref.Character(6), B: ref.Character(5)}))

	r.Reset()
	assert.Zero(t, r.Len())
	assert.False(t, r.Contains(Record{A: ref.Character(5), B: ref.Character(6)}))
	assert.True(t, r.InsertUnique(Record{A: ref.Character(5), B: ref.Character(6)}))
}

func TestRecord_Other(t *testing.T) {
	rec := Record{A: ref.Character(1), B: ref.Particle(2)}

	o, ok := rec.Other(ref.Character(1))
	assert.True(t, ok)
	assert.Equal(t, ref.Particle(2), o)

	_, ok = rec.Other(ref.Tile(1))
	assert.False(t, ok)
}
