// Package ref identifies the participants of a collision: characters, particles and
// terrain tiles.
package ref

import (
	"cmp"
	"fmt"
)

type Kind uint8

const (
	KindNone Kind = iota
	KindCharacter
	KindParticle
	KindTile
)

func (k Kind) String() string {
	switch k {
	case KindCharacter:
		return "chr"
	case KindParticle:
		return "prt"
	case KindTile:
		return "tile"
	}
	return "none"
}

// Ref is a tagged entity id. The zero value refers to nothing.
type Ref struct {
	Kind Kind
	ID   uint32
}

func Character(id uint32) Ref { return Ref{Kind: KindCharacter, ID: id} }
func Particle(id uint32) Ref  { return Ref{Kind: KindParticle, ID: id} }
func Tile(id uint32) Ref      { return Ref{Kind: KindTile, ID: id} }

func (r Ref) Valid() bool {
	return r.Kind != KindNone
}

func (r Ref) IsCharacter() bool { return r.Kind == KindCharacter }
func (r Ref) IsParticle() bool  { return r.Kind == KindParticle }
func (r Ref) IsTile() bool      { return r.Kind == KindTile }

// Key packs the ref into a single ordered integer.
func (r Ref) Key() uint64 {
	return uint64(r.Kind)<<32 | uint64(r.ID)
}

func (r Ref) String() string {
	return fmt.Sprintf("%s#%d", r.Kind, r.ID)
}

func Compare(a, b Ref) int {
	return cmp.Compare(a.Key(), b.Key())
}
