package bump

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct{ n int }

func TestListAddRemove(t *testing.T) {
	l := NewList[item](4)

	a, err := l.Add(&item{1})
	require.NoError(t, err)
	b, err := l.Add(&item{2})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, 1, l.Get(a).n)

	assert.True(t, l.Remove(a))
	assert.False(t, l.Remove(a))
	assert.Nil(t, l.Get(a))
	assert.Equal(t, []uint32{b}, l.IDs())

	c, err := l.Add(&item{3})
	require.NoError(t, err)
	assert.Equal(t, a, c, "freed ids are reused")
}

func TestListDefersWhileLocked(t *testing.T) {
	l := NewList[item](8)
	keep, _ := l.Add(&item{1})
	gone, _ := l.Add(&item{2})

	g := l.Lock()
	added, err := l.Add(&item{3})
	require.NoError(t, err)
	assert.Nil(t, l.Get(added), "adds are hidden until release")

	assert.True(t, l.Remove(gone))
	assert.True(t, l.Pending(gone))
	assert.NotNil(t, l.Get(gone), "removals are applied on release")
	assert.False(t, l.Remove(gone), "already queued")

	g.Release()
	assert.False(t, l.Locked())
	assert.Nil(t, l.Get(gone))
	assert.Equal(t, 3, l.Get(added).n)
	assert.Equal(t, []uint32{keep, added}, l.IDs())
}

func TestListCancelsPendingAdd(t *testing.T) {
	l := NewList[item](2)

	g := l.Lock()
	id, err := l.Add(&item{1})
	require.NoError(t, err)
	assert.True(t, l.Remove(id))
	g.Release()

	assert.Zero(t, l.Len())
	assert.Nil(t, l.Get(id))
}

func TestListNestedLocks(t *testing.T) {
	l := NewList[item](4)

	outer := l.Lock()
	inner := l.Lock()
	id, _ := l.Add(&item{1})
	inner.Release()
	inner.Release()
	assert.True(t, l.Locked())
	assert.Nil(t, l.Get(id))

	outer.Release()
	assert.False(t, l.Locked())
	assert.NotNil(t, l.Get(id))
}

func TestListRangeMayRemove(t *testing.T) {
	l := NewList[item](4)
	for i := 0; i < 4; i++ {
		_, err := l.Add(&item{i})
		require.NoError(t, err)
	}

	var seen []int
	l.Range(func(id uint32, v *item) bool {
		seen = append(seen, v.n)
		l.Remove(id)
		return true
	})
	assert.Equal(t, []int{0, 1, 2, 3}, seen)
	assert.Zero(t, l.Len())
}

func TestListFull(t *testing.T) {
	l := NewList[item](1)
	_, err := l.Add(&item{})
	require.NoError(t, err)
	_, err = l.Add(&item{})
	assert.ErrorIs(t, err, ErrListFull)

	g := l.Lock()
	_, err = l.Add(&item{})
	assert.ErrorIs(t, err, ErrListFull)
	g.Release()

	l.Clear()
	assert.Zero(t, l.Len())
	_, err = l.Add(&item{})
	assert.NoError(t, err)
}
