// Package gid implements the TMX global tile identifier wire encoding and a
// registry that compacts raw identifiers into dense local ones.
//
// A raw GID is the 32-bit value stored in a map document: the three highest
// bits carry orientation flags, the rest is the tile id offset by the owning
// tileset's firstgid. A local GID is a registry-assigned, flag-free identifier
// used to index materialized images and tile properties.
package gid

// Orientation flag bits of a raw 32-bit GID value, in descending bit order.
const (
	FlippedHorizontally uint32 = 0x80000000
	FlippedVertically   uint32 = 0x40000000
	FlippedDiagonally   uint32 = 0x20000000

	flagMask = FlippedHorizontally | FlippedVertically | FlippedDiagonally
)

// MaxRaw is the largest identifier expressible once the flag bits are removed.
const MaxRaw Raw = Raw(FlippedDiagonally - 1)

// Raw is an on-disk tile identifier with the orientation flags stripped.
type Raw uint32

// Local is a registry-assigned compact tile identifier. Zero means "no tile".
type Local uint32

// Flags is the decoded 3-bit flip state of a tile reference.
type Flags struct {
	FlipH bool
	FlipV bool
	FlipD bool
}

// EmptyFlags is the zero flip state.
var EmptyFlags = Flags{}

// RotationClass reduces the flip bits to a quarter-turn in {0, 90, 180, 270}.
// The diagonal flip combined with the horizontal/vertical flip selects the
// turn; a plain diagonal flip is treated as a 90 degree turn.
func (f Flags) RotationClass() int {
	if f.FlipD {
		if f.FlipV {
			return 270
		}
		return 90
	}
	if f.FlipH && f.FlipV {
		return 180
	}
	return 0
}

// Decode splits a raw 32-bit GID value into its base identifier and flags.
// Values below the smallest flag bit are already flag-free and skip decoding.
func Decode(value uint32) (Raw, Flags) {
	if value < FlippedDiagonally {
		return Raw(value), Flags{}
	}
	return Raw(value &^ flagMask), Flags{
		FlipH: value&FlippedHorizontally != 0,
		FlipV: value&FlippedVertically != 0,
		FlipD: value&FlippedDiagonally != 0,
	}
}

// Encode combines a base identifier and flags back into the wire value.
func Encode(raw Raw, f Flags) uint32 {
	value := uint32(raw)
	if f.FlipH {
		value |= FlippedHorizontally
	}
	if f.FlipV {
		value |= FlippedVertically
	}
	if f.FlipD {
		value |= FlippedDiagonally
	}
	return value
}
