// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package subtree

import (
	"github.com/gogama/tiles3d"
	"github.com/gogama/tiles3d/implicit"
)

// Document is the JSON content of a subtree: the JSON chunk of a
// binary subtree, or the whole of a JSON subtree.
type Document struct {
	tiles3d.BinaryBufferStructure
	PropertyTables           []*tiles3d.PropertyTable `json:"propertyTables,omitempty"`
	TileAvailability         AvailabilityJSON         `json:"tileAvailability"`
	ContentAvailability      []AvailabilityJSON       `json:"contentAvailability,omitempty"`
	ChildSubtreeAvailability AvailabilityJSON         `json:"childSubtreeAvailability"`
	// TileMetadata is the index of the property table holding one row
	// per available tile.
	TileMetadata *int `json:"tileMetadata,omitempty"`
	// ContentMetadata holds, for each content, the index of the
	// property table holding one row per available content.
	ContentMetadata []int `json:"contentMetadata,omitempty"`
}

// AvailabilityJSON describes availability either as a constant or as
// a bitstream stored in a buffer view. Exactly one of Constant and
// Bitstream must be set.
type AvailabilityJSON struct {
	// Bitstream is the index of the buffer view holding the bits.
	Bitstream *int `json:"bitstream,omitempty"`
	// AvailableCount optionally records the number of set bits.
	AvailableCount *int `json:"availableCount,omitempty"`
	// Constant is 0 if nothing is available, 1 if everything is.
	Constant *int `json:"constant,omitempty"`
}

// ConstantJSON returns the JSON description of a constant
// availability.
func ConstantJSON(available bool) AvailabilityJSON {
	c := 0
	if available {
		c = 1
	}
	return AvailabilityJSON{Constant: &c}
}

// BitstreamJSON returns the JSON description of an availability stored
// in buffer view bufferView with count bits set.
func BitstreamJSON(bufferView, count int) AvailabilityJSON {
	return AvailabilityJSON{Bitstream: &bufferView, AvailableCount: &count}
}

// Tiling is the implicitTiling object of a tile: the parameters a
// subtree must be read against.
type Tiling struct {
	SubdivisionScheme implicit.SubdivisionScheme `json:"subdivisionScheme"`
	SubtreeLevels     int                        `json:"subtreeLevels"`
	AvailableLevels   int                        `json:"availableLevels"`
	Subtrees          TemplateURI                `json:"subtrees"`
}

// TemplateURI holds a URI containing {level}, {x}, {y}, and {z}
// template variables.
type TemplateURI struct {
	URI string `json:"uri"`
}

// Validate returns an error wrapping ErrInvalidSubtree unless the
// subdivision scheme is valid and the level counts are in range.
func (t *Tiling) Validate() error {
	if !t.SubdivisionScheme.Valid() {
		return fmtErr("subdivision scheme %q: %w", t.SubdivisionScheme, ErrInvalidSubtree)
	}
	if t.SubtreeLevels < 1 || t.SubtreeLevels > t.SubdivisionScheme.MaxLevel() {
		return fmtErr("subtree levels %d not in [1, %d]: %w", t.SubtreeLevels, t.SubdivisionScheme.MaxLevel(), ErrInvalidSubtree)
	}
	if t.AvailableLevels < 0 {
		return fmtErr("available levels %d is negative: %w", t.AvailableLevels, ErrInvalidSubtree)
	}
	return nil
}

// TileCount returns the number of tiles in one subtree, which is the
// length of tile and content availability.
func (t *Tiling) TileCount() uint64 {
	return implicit.Coordinates{Scheme: t.SubdivisionScheme, Level: t.SubtreeLevels}.Index()
}

// ChildSubtreeCount returns the number of possible child subtrees of
// one subtree, which is the length of child subtree availability.
func (t *Tiling) ChildSubtreeCount() uint64 {
	n := uint64(1)
	for i := 0; i < t.SubtreeLevels; i++ {
		n *= uint64(t.SubdivisionScheme.Branching())
	}
	return n
}

// SubtreeURI returns the URI of the subtree rooted at c.
func (t *Tiling) SubtreeURI(c implicit.Coordinates) string {
	return c.SubstituteTemplate(t.Subtrees.URI)
}
