package geom

import "github.com/chewxy/math32"

// Bumper is the collision footprint of a character or particle: a square of half
// size Size, corners clipped at SizeBig along the diagonals, Height tall.
type Bumper struct {
	Size    float32 `yaml:"size"`
	SizeBig float32 `yaml:"size_big"`
	Height  float32 `yaml:"height"`
}

// IsZero reports a non-interacting bumper.
func (b Bumper) IsZero() bool {
	return b.Size <= 0
}

// BigSize returns SizeBig, defaulting to Size·√2 (no corner clipping).
func (b Bumper) BigSize() float32 {
	if b.SizeBig <= 0 {
		return b.Size * math32.Sqrt2
	}
	return b.SizeBig
}
