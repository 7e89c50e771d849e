// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package implicit

import (
	"fmt"

	"github.com/golang/geo/s2"
)

// MaxS2Level is the deepest level of an S2 cell, and hence of an
// implicit tileset whose root is an S2 cell.
const MaxS2Level = s2.MaxLevel

// s2PosBits is the number of bits below the face bits of an S2 cell ID.
const s2PosBits = 2*s2.MaxLevel + 1

// S2Cell is the bounding volume of the 3DTILES_bounding_volume_S2
// extension: an S2 cell, given by its token, extruded between two
// heights in meters above the WGS84 ellipsoid.
type S2Cell struct {
	Token         string  `json:"token"`
	MinimumHeight float64 `json:"minimumHeight"`
	MaximumHeight float64 `json:"maximumHeight"`
}

// CellID returns the S2 cell ID the token encodes.
func (c *S2Cell) CellID() (s2.CellID, error) {
	id := s2.CellIDFromToken(c.Token)
	if !id.IsValid() {
		return 0, fmtErr("S2 token %q: %w", c.Token, ErrInvalidVolume)
	}
	return id, nil
}

func (c S2Cell) String() string {
	return fmt.Sprintf("S2Cell{Token:%s,MinimumHeight:%g,MaximumHeight:%g}", c.Token, c.MinimumHeight, c.MaximumHeight)
}

// deriveS2 computes the S2 cell volume of the tile at c from the root
// face cell.
//
// The tile's cell is found on the root face by its position on the
// face's Hilbert curve. S2 rotates the curve on odd faces, so the X-
// and Y-coordinates are swapped there. When c has a Z coordinate, the
// root's height range is split at its midpoint: the tile takes the lower
// half when Z is even and the upper half when Z is odd.
func deriveS2(root S2Cell, c Coordinates) (S2Cell, error) {
	if c.Level == 0 {
		return root, nil
	}
	id, err := root.CellID()
	if err != nil {
		return S2Cell{}, err
	}
	if id.Level() != 0 {
		return S2Cell{}, fmtErr("S2 root %q is level %d, not a face cell: %w", root.Token, id.Level(), ErrInvalidVolume)
	}
	if c.Level > MaxS2Level {
		return S2Cell{}, fmtErr("level %d deeper than S2 level %d: %w", c.Level, MaxS2Level, ErrInvalidCoordinates)
	}

	face := id.Face()
	x, y := c.X, c.Y
	if face%2 == 1 {
		x, y = y, x
	}
	pos, err := HilbertEncode2D(c.Level, x, y)
	if err != nil {
		return S2Cell{}, err
	}
	child := s2.CellIDFromFacePosLevel(face, pos<<(s2PosBits-2*c.Level), c.Level)

	out := S2Cell{
		Token:         child.ToToken(),
		MinimumHeight: root.MinimumHeight,
		MaximumHeight: root.MaximumHeight,
	}
	if c.HasZ() {
		mid := (root.MinimumHeight + root.MaximumHeight) / 2
		if c.Z%2 == 0 {
			out.MaximumHeight = mid
		} else {
			out.MinimumHeight = mid
		}
	}
	return out, nil
}
