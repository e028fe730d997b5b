package bsp

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/gekko3d/bump/geom"
	"github.com/gekko3d/bump/ref"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTree(t *testing.T, mutate func(*Config)) *Tree {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Region = geom.NewAABB(mgl32.Vec3{-64, -64, -64}, mgl32.Vec3{64, 64, 64})
	cfg.SplitThreshold = 2
	if mutate != nil {
		mutate(&cfg)
	}
	tree, err := NewTree(cfg, NewLeafPool(256))
	require.NoError(t, err)
	return tree
}

func boxAt(x, y, z, half float32) geom.BV {
	return geom.NewBV(geom.AABBFromCenter(mgl32.Vec3{x, y, z}, mgl32.Vec3{half, half, half}))
}

func refsOf(tree *Tree, ids []LeafID) []ref.Ref {
	out := make([]ref.Ref, 0, len(ids))
	for _, id := range ids {
		out = append(out, tree.Leaf(id).Ref)
	}
	return out
}

func TestTree_InsertTwiceIsRejected(t *testing.T) {
	tree := newTestTree(t, nil)

	id, err := tree.Add(ref.Character(1), boxAt(0, 0, 0, 1))
	require.NoError(t, err)

	err = tree.Insert(id)
	assert.True(t, errors.Is(err, ErrLeafInserted), "got %v", err)

	hits := tree.Collide(geom.AABBFromCenter(mgl32.Vec3{}, mgl32.Vec3{2, 2, 2}), nil, nil)
	assert.Len(t, hits, 1, "the leaf must be listed exactly once")
}

func TestTree_InsertTwicePanicsWhenStrict(t *testing.T) {
	tree := newTestTree(t, func(c *Config) { c.Strict = true })

	id, err := tree.Add(ref.Character(1), boxAt(0, 0, 0, 1))
	require.NoError(t, err)
	assert.Panics(t, func() { _ = tree.Insert(id) })
}

func TestTree_CollideFindsOverlaps(t *testing.T) {
	tree := newTestTree(t, nil)

	_, _ = tree.Add(ref.Character(1), boxAt(-30, -30, 0, 1))
	_, _ = tree.Add(ref.Character(2), boxAt(30, 30, 0, 1))
	_, _ = tree.Add(ref.Particle(3), boxAt(31, 30, 0, 1))
	_, _ = tree.Add(ref.Character(4), boxAt(-30, 30, 0, 1))
	_, _ = tree.Add(ref.Tile(5), boxAt(0, 0, 0, 1))

	hits := refsOf(tree, tree.Collide(geom.AABBFromCenter(mgl32.Vec3{30, 30, 0}, mgl32.Vec3{2, 2, 2}), nil, nil))
	assert.ElementsMatch(t, []ref.Ref{ref.Character(2), ref.Particle(3)}, hits)

	onlyParticles := func(l *Leaf) bool { return l.Ref.IsParticle() }
	hits = refsOf(tree, tree.Collide(geom.AABBFromCenter(mgl32.Vec3{30, 30, 0}, mgl32.Vec3{2, 2, 2}), onlyParticles, nil))
	assert.Equal(t, []ref.Ref{ref.Particle(3)}, hits)

	hits = refsOf(tree, tree.Collide(geom.AABBFromCenter(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1.5, 1.5, 1.5}), nil, nil))
	assert.Equal(t, []ref.Ref{ref.Tile(5)}, hits)
}

func TestTree_BoundsRejection(t *testing.T) {
	tree := newTestTree(t, nil)
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 120; i++ {
		x := rng.Float32()*100 - 50
		y := rng.Float32()*100 - 50
		_, err := tree.Add(ref.Character(uint32(i)), boxAt(x, y, 0, 0.5))
		require.NoError(t, err)
	}
	require.Greater(t, tree.Branches(), 1)

	for q := 0; q < 50; q++ {
		center := mgl32.Vec3{rng.Float32()*120 - 60, rng.Float32()*120 - 60, 0}
		query := geom.AABBFromCenter(center, mgl32.Vec3{3, 3, 3})
		hits := tree.Collide(query, nil, nil)

		for _, b := range tree.visited {
			assert.True(t, tree.branches[b].bounds.Overlaps(query), "visited branch %d with disjoint bounds", b)
		}
		for _, id := range hits {
			assert.True(t, tree.Leaf(id).BV.AABB.Overlaps(query))
		}
	}

	// A query away from every leaf enters no branch at all.
	tree.Collide(geom.AABBFromCenter(mgl32.Vec3{0, 0, 40}, mgl32.Vec3{1, 1, 1}), nil, nil)
	assert.Equal(t, 0, tree.Visits())
}

func TestTree_BruteForceAgreement(t *testing.T) {
	tree := newTestTree(t, func(c *Config) { c.Dimensions = 3 })
	rng := rand.New(rand.NewSource(3))
	boxes := make(map[ref.Ref]geom.BV)
	for i := 0; i < 200; i++ {
		bv := boxAt(rng.Float32()*120-60, rng.Float32()*120-60, rng.Float32()*120-60, rng.Float32()*3)
		r := ref.Particle(uint32(i))
		boxes[r] = bv
		_, err := tree.Add(r, bv)
		require.NoError(t, err)
	}

	for q := 0; q < 30; q++ {
		query := geom.AABBFromCenter(mgl32.Vec3{rng.Float32()*120 - 60, rng.Float32()*120 - 60, rng.Float32()*120 - 60}, mgl32.Vec3{10, 10, 10})
		var want []ref.Ref
		for r, bv := range boxes {
			if bv.Overlaps(geom.NewBV(query)) {
				want = append(want, r)
			}
		}
		assert.ElementsMatch(t, want, refsOf(tree, tree.Collide(query, nil, nil)))
	}
}

func TestTree_InfiniteList(t *testing.T) {
	tree := newTestTree(t, nil)

	_, err := tree.Add(ref.Tile(1), boxAt(500, 0, 0, 1))
	require.NoError(t, err)
	_, err = tree.Add(ref.Tile(2), geom.NewBV(geom.NewAABB(mgl32.Vec3{-63, -63, 0}, mgl32.Vec3{63, 63, 1})))
	require.NoError(t, err)
	assert.Equal(t, 2, tree.Infinite())

	hits := refsOf(tree, tree.Collide(geom.AABBFromCenter(mgl32.Vec3{500, 0, 0}, mgl32.Vec3{1, 1, 1}), nil, nil))
	assert.Equal(t, []ref.Ref{ref.Tile(1)}, hits)
}

func TestTree_BranchPoolExhaustedOverflows(t *testing.T) {
	tree := newTestTree(t, func(c *Config) { c.MaxBranches = 1; c.SplitThreshold = 1 })

	for i := 0; i < 4; i++ {
		_, err := tree.Add(ref.Character(uint32(i)), boxAt(float32(i*10)+5, 5, 0, 1))
		require.NoError(t, err)
	}
	assert.Equal(t, 1, tree.Branches())
	assert.Positive(t, tree.Overflow())

	hits := tree.Collide(geom.AABBFromCenter(mgl32.Vec3{20, 5, 0}, mgl32.Vec3{40, 5, 5}), nil, nil)
	assert.Len(t, hits, 4, "overflowed leaves stay queryable")
}

func TestTree_LeafPoolExhaustion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LostCap = 1
	tree, err := NewTree(cfg, NewLeafPool(1))
	require.NoError(t, err)

	_, err = tree.Add(ref.Character(1), boxAt(0, 0, 0, 1))
	require.NoError(t, err)

	_, err = tree.Add(ref.Character(2), boxAt(0, 0, 0, 1))
	assert.ErrorIs(t, err, ErrPoolExhausted)
	_, err = tree.Add(ref.Character(3), boxAt(0, 0, 0, 1))
	assert.ErrorIs(t, err, ErrTooManyLost)
	assert.Equal(t, 2, tree.Lost())

	tree.Clear()
	assert.Equal(t, 0, tree.Lost())
}

func TestTree_ClearAndPrune(t *testing.T) {
	tree := newTestTree(t, nil)
	var ids []LeafID
	for i := 0; i < 20; i++ {
		id, err := tree.Add(ref.Character(uint32(i)), boxAt(float32(i*5)-50, float32(i*5)-50, 0, 0.5))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	require.Greater(t, tree.Branches(), 1)

	tree.Clear()
	for _, id := range ids {
		assert.False(t, tree.Leaf(id).Inserted())
	}
	assert.Empty(t, tree.Collide(tree.Config().Region, nil, nil))

	freed := tree.Prune()
	assert.Positive(t, freed)
	assert.Equal(t, 1, tree.Branches())

	// Leaves can be reinserted after a clear.
	for _, id := range ids {
		require.NoError(t, tree.Insert(id))
	}
	assert.Len(t, tree.Collide(tree.Config().Region, nil, nil), 20)
}

func TestTree_Remove(t *testing.T) {
	tree := newTestTree(t, nil)
	a, _ := tree.Add(ref.Character(1), boxAt(0, 0, 0, 1))
	b, _ := tree.Add(ref.Character(2), boxAt(0, 0, 0, 1))

	require.NoError(t, tree.Remove(a))
	assert.ErrorIs(t, tree.Remove(a), ErrLeafNotInserted)

	hits := tree.Collide(geom.AABBFromCenter(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}), nil, nil)
	assert.Equal(t, []LeafID{b}, hits)
	assert.NoError(t, tree.Pool().Release(a))
	assert.ErrorIs(t, tree.Pool().Release(b), ErrLeafInserted)
}

func TestTree_CollideFrustum(t *testing.T) {
	tree := newTestTree(t, func(c *Config) { c.Dimensions = 3 })
	_, _ = tree.Add(ref.Character(1), boxAt(0, 0, -10, 1))
	_, _ = tree.Add(ref.Character(2), boxAt(0, 0, 10, 1))
	_, _ = tree.Add(ref.Character(3), boxAt(40, 0, -10, 1))

	proj := mgl32.Perspective(mgl32.DegToRad(90), 1, 0.1, 50)
	f, ok := geom.NewFrustum(proj, true)
	require.True(t, ok)

	hits := refsOf(tree, tree.CollideFrustum(f, nil, nil))
	assert.Equal(t, []ref.Ref{ref.Character(1)}, hits)
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Dimensions = 4
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	_, err := NewTree(cfg, NewLeafPool(1))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
