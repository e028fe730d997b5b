package ref

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefKeyOrdering(t *testing.T) {
	assert.Less(t, Character(100).Key(), Particle(0).Key())
	assert.Less(t, Particle(100).Key(), Tile(0).Key())
	assert.Equal(t, -1, Compare(Character(1), Character(2)))
	assert.Equal(t, 0, Compare(Tile(3), Tile(3)))
}

func TestRefZeroValue(t *testing.T) {
	var r Ref
	assert.False(t, r.Valid())
	assert.Equal(t, "none#0", r.String())
	assert.Equal(t, "chr#4", Character(4).String())
}
