// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package implicit

import (
	json "github.com/goccy/go-json"
)

// BoundingVolume is the JSON bounding volume of a tile. Exactly one of
// Box, Region, Sphere, or the S2 extension is expected to be set; when
// several are, the S2 extension takes precedence, then Box, then
// Region.
type BoundingVolume struct {
	Box        []float64   `json:"box,omitempty"`
	Region     []float64   `json:"region,omitempty"`
	Sphere     []float64   `json:"sphere,omitempty"`
	Extensions *Extensions `json:"extensions,omitempty"`
}

// Extensions holds the bounding volume extensions this package
// understands.
type Extensions struct {
	S2 *S2Cell `json:"3DTILES_bounding_volume_S2,omitempty"`
}

// ParseBoundingVolume parses a JSON bounding volume.
func ParseBoundingVolume(data []byte) (BoundingVolume, error) {
	var v BoundingVolume
	if err := json.Unmarshal(data, &v); err != nil {
		return BoundingVolume{}, wrapErr("failed to parse bounding volume", err)
	}
	return v, nil
}

// BoxVolume wraps a box as a bounding volume.
func BoxVolume(b Box) BoundingVolume {
	return BoundingVolume{Box: append([]float64(nil), b[:]...)}
}

// RegionVolume wraps a region as a bounding volume.
func RegionVolume(r Region) BoundingVolume {
	return BoundingVolume{Region: append([]float64(nil), r[:]...)}
}

// S2Volume wraps an S2 cell as a bounding volume.
func S2Volume(c S2Cell) BoundingVolume {
	return BoundingVolume{Extensions: &Extensions{S2: &c}}
}

func (v *BoundingVolume) s2() *S2Cell {
	if v.Extensions == nil {
		return nil
	}
	return v.Extensions.S2
}

// Derive computes the bounding volume of the tile at c directly from
// the bounding volume of the implicit tileset's root tile. The result
// has the same kind as root. At level 0 it equals root.
//
// Bounding spheres do not subdivide into tiles, so for a sphere Derive
// returns false and no error. Derive returns an error wrapping
// ErrInvalidCoordinates if c is not valid, or ErrInvalidVolume if root
// has no recognizable volume.
//
// Every descendant is computed from the root, never from its parent.
func Derive(root BoundingVolume, c Coordinates) (BoundingVolume, bool, error) {
	if err := c.Validate(); err != nil {
		return BoundingVolume{}, false, err
	}
	switch {
	case root.s2() != nil:
		cell, err := deriveS2(*root.s2(), c)
		if err != nil {
			return BoundingVolume{}, false, err
		}
		return S2Volume(cell), true, nil
	case root.Box != nil:
		if len(root.Box) != len(Box{}) {
			return BoundingVolume{}, false, fmtErr("box has %d numbers, want 12: %w", len(root.Box), ErrInvalidVolume)
		}
		var b Box
		copy(b[:], root.Box)
		return BoxVolume(deriveBox(b, c)), true, nil
	case root.Region != nil:
		if len(root.Region) != len(Region{}) {
			return BoundingVolume{}, false, fmtErr("region has %d numbers, want 6: %w", len(root.Region), ErrInvalidVolume)
		}
		var r Region
		copy(r[:], root.Region)
		return RegionVolume(deriveRegion(r, c)), true, nil
	case root.Sphere != nil:
		return BoundingVolume{}, false, nil
	default:
		return BoundingVolume{}, false, wrapErr("empty bounding volume", ErrInvalidVolume)
	}
}
