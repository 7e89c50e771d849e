// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package implicit

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	flatbuffers "github.com/google/flatbuffers/go"
)

// Availability records which of a fixed number of tiles, contents, or
// child subtrees exist. It is either constant, with every index
// available or none, or backed by a bitstream with one bit per index,
// least significant bit first.
//
// An Availability is immutable and safe for concurrent use.
type Availability struct {
	length   uint
	constant bool
	bits     *bitset.BitSet
}

// ConstantAvailability returns an availability of length indices that
// are either all available or all unavailable.
func ConstantAvailability(available bool, length uint) *Availability {
	return &Availability{length: length, constant: available}
}

// BitstreamAvailability returns an availability of length indices read
// from a bitstream. Bits at and beyond length are ignored. It returns
// an error if b holds fewer than length bits.
func BitstreamAvailability(b []byte, length uint) (*Availability, error) {
	if uint(len(b)) < (length+7)/8 {
		return nil, fmtErr("bitstream of %d bytes too short for %d bits", len(b), length)
	}
	n := (length + 7) / 8
	words := make([]uint64, (n+7)/8)
	padded := make([]byte, len(words)*8)
	copy(padded, b[:n])
	for i := range words {
		words[i] = flatbuffers.GetUint64(padded[i*8:])
	}
	bits := bitset.From(words)
	for i := length; i < uint(len(words))*64; i++ {
		bits.Clear(i)
	}
	return &Availability{length: length, bits: bits}, nil
}

// Len returns the number of indices the availability covers.
func (a *Availability) Len() uint {
	return a.length
}

// IsConstant reports whether the availability is constant, and if so,
// whether every index is available.
func (a *Availability) IsConstant() (constant, available bool) {
	return a.bits == nil, a.bits == nil && a.constant
}

// IsAvailable reports whether index i is available. Indices at or
// beyond Len are never available.
func (a *Availability) IsAvailable(i uint64) bool {
	if i >= uint64(a.length) {
		return false
	}
	if a.bits == nil {
		return a.constant
	}
	return a.bits.Test(uint(i))
}

// AvailableCount returns the number of available indices.
func (a *Availability) AvailableCount() uint {
	if a.bits == nil {
		if a.constant {
			return a.length
		}
		return 0
	}
	return a.bits.Count()
}

// AvailableBefore returns the number of available indices less than
// i. For tile and content availability this is the row of index i in
// the corresponding metadata property table.
func (a *Availability) AvailableBefore(i uint64) uint {
	if i > uint64(a.length) {
		i = uint64(a.length)
	}
	if i == 0 {
		return 0
	}
	if a.bits == nil {
		if a.constant {
			return uint(i)
		}
		return 0
	}
	return a.bits.Rank(uint(i - 1))
}

func (a *Availability) String() string {
	kind := "Bitstream"
	if a.bits == nil {
		kind = "Constant"
	}
	return fmt.Sprintf("Availability{%s,Available:%d/%d}", kind, a.AvailableCount(), a.length)
}
