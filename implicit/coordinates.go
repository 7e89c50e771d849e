// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package implicit

import (
	"strconv"
	"strings"
)

// SubdivisionScheme is the way each tile of an implicit tileset is
// subdivided into children.
type SubdivisionScheme string

const (
	// Quadtree subdivision splits each tile into four children along
	// the X- and Y-axes.
	Quadtree SubdivisionScheme = "QUADTREE"
	// Octree subdivision splits each tile into eight children along
	// the X-, Y-, and Z-axes.
	Octree SubdivisionScheme = "OCTREE"
)

// Valid reports whether s is Quadtree or Octree.
func (s SubdivisionScheme) Valid() bool {
	return s == Quadtree || s == Octree
}

// Branching returns the number of children of each tile: four for a
// quadtree, eight for an octree.
func (s SubdivisionScheme) Branching() int {
	if s == Octree {
		return 8
	}
	return 4
}

// bitsPerLevel is the number of Morton index bits each level adds.
func (s SubdivisionScheme) bitsPerLevel() int {
	if s == Octree {
		return 3
	}
	return 2
}

// MaxLevel returns the deepest level whose tile indices fit in a
// uint64 under the scheme.
func (s SubdivisionScheme) MaxLevel() int {
	if s == Octree {
		return 20
	}
	return 31
}

// Coordinates identify a tile of an implicit tileset by its level and
// its position within the level. Z is meaningful only under Octree
// subdivision; under Quadtree subdivision it is always zero.
type Coordinates struct {
	Scheme  SubdivisionScheme
	Level   int
	X, Y, Z uint32
}

// QuadtreeCoordinates returns the coordinates of a quadtree tile.
func QuadtreeCoordinates(level int, x, y uint32) Coordinates {
	return Coordinates{Scheme: Quadtree, Level: level, X: x, Y: y}
}

// OctreeCoordinates returns the coordinates of an octree tile.
func OctreeCoordinates(level int, x, y, z uint32) Coordinates {
	return Coordinates{Scheme: Octree, Level: level, X: x, Y: y, Z: z}
}

// HasZ reports whether the coordinates have a Z-coordinate, which is
// the case for octree coordinates.
func (c Coordinates) HasZ() bool {
	return c.Scheme == Octree
}

// Validate returns an error wrapping ErrInvalidCoordinates unless the
// scheme is valid, the level is in [0, Scheme.MaxLevel()], and every
// coordinate is less than 2^Level.
func (c Coordinates) Validate() error {
	if !c.Scheme.Valid() {
		return fmtErr("subdivision scheme %q: %w", c.Scheme, ErrInvalidCoordinates)
	}
	if c.Level < 0 || c.Level > c.Scheme.MaxLevel() {
		return fmtErr("level %d not in [0, %d]: %w", c.Level, c.Scheme.MaxLevel(), ErrInvalidCoordinates)
	}
	n := uint64(1) << c.Level
	if uint64(c.X) >= n || uint64(c.Y) >= n || uint64(c.Z) >= n || !c.HasZ() && c.Z != 0 {
		return fmtErr("%s outside level %d: %w", c, c.Level, ErrInvalidCoordinates)
	}
	return nil
}

// Parent returns the coordinates of the tile's parent. The root tile
// has no parent.
func (c Coordinates) Parent() (Coordinates, bool) {
	if c.Level <= 0 {
		return Coordinates{}, false
	}
	return Coordinates{Scheme: c.Scheme, Level: c.Level - 1, X: c.X >> 1, Y: c.Y >> 1, Z: c.Z >> 1}, true
}

// Children returns the coordinates of the tile's children in Morton
// order, so that child i has IndexInLevel equal to Branching*parent
// index + i.
func (c Coordinates) Children() []Coordinates {
	children := make([]Coordinates, c.Scheme.Branching())
	for i := range children {
		child := Coordinates{
			Scheme: c.Scheme,
			Level:  c.Level + 1,
			X:      c.X<<1 | uint32(i&1),
			Y:      c.Y<<1 | uint32(i>>1&1),
		}
		if c.HasZ() {
			child.Z = c.Z<<1 | uint32(i>>2&1)
		}
		children[i] = child
	}
	return children
}

// IsAncestorOf reports whether c is a strict ancestor of d.
func (c Coordinates) IsAncestorOf(d Coordinates) bool {
	if c.Scheme != d.Scheme || c.Level >= d.Level {
		return false
	}
	shift := d.Level - c.Level
	return d.X>>shift == c.X && d.Y>>shift == c.Y && d.Z>>shift == c.Z
}

// RelativeTo returns the coordinates of c within the subtree rooted at
// ancestor, whose own coordinates become level 0. It returns false if
// ancestor is neither c nor an ancestor of c.
func (c Coordinates) RelativeTo(ancestor Coordinates) (Coordinates, bool) {
	if c != ancestor && !ancestor.IsAncestorOf(c) {
		return Coordinates{}, false
	}
	level := c.Level - ancestor.Level
	mask := uint32(1)<<level - 1
	return Coordinates{Scheme: c.Scheme, Level: level, X: c.X & mask, Y: c.Y & mask, Z: c.Z & mask}, true
}

// Descendant is the inverse of RelativeTo: it returns the absolute
// coordinates of the tile at rel within the subtree rooted at c.
func (c Coordinates) Descendant(rel Coordinates) Coordinates {
	return Coordinates{
		Scheme: c.Scheme,
		Level:  c.Level + rel.Level,
		X:      c.X<<rel.Level | rel.X,
		Y:      c.Y<<rel.Level | rel.Y,
		Z:      c.Z<<rel.Level | rel.Z,
	}
}

// IndexInLevel returns the Morton index of the tile within its level:
// the bits of X, Y, and, for octrees, Z interleaved, with X in the
// least significant position.
func (c Coordinates) IndexInLevel() uint64 {
	var index uint64
	stride := c.Scheme.bitsPerLevel()
	for bit := 0; bit < c.Level; bit++ {
		index |= uint64(c.X>>bit&1) << (stride * bit)
		index |= uint64(c.Y>>bit&1) << (stride*bit + 1)
		if c.HasZ() {
			index |= uint64(c.Z>>bit&1) << (stride*bit + 2)
		}
	}
	return index
}

// CoordinatesAt is the inverse of IndexInLevel: it returns the
// coordinates of the tile with the given Morton index within a level.
func CoordinatesAt(s SubdivisionScheme, level int, indexInLevel uint64) Coordinates {
	c := Coordinates{Scheme: s, Level: level}
	stride := s.bitsPerLevel()
	for bit := 0; bit < level; bit++ {
		c.X |= uint32(indexInLevel>>(stride*bit)&1) << bit
		c.Y |= uint32(indexInLevel>>(stride*bit+1)&1) << bit
		if c.HasZ() {
			c.Z |= uint32(indexInLevel>>(stride*bit+2)&1) << bit
		}
	}
	return c
}

// Index returns the index of the tile in breadth-first order over the
// whole tree: the number of tiles in all shallower levels plus
// IndexInLevel. This is the bit index of the tile in a tile
// availability bitstream.
func (c Coordinates) Index() uint64 {
	return levelOffset(c.Scheme, c.Level) + c.IndexInLevel()
}

// levelOffset returns the number of tiles in levels [0, level).
func levelOffset(s SubdivisionScheme, level int) uint64 {
	b := uint64(s.Branching())
	return ((uint64(1) << (s.bitsPerLevel() * level)) - 1) / (b - 1)
}

// String returns the coordinates as "level/x/y" for a quadtree tile or
// "level/x/y/z" for an octree tile.
func (c Coordinates) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(c.Level))
	for _, v := range c.components() {
		b.WriteByte('/')
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	}
	return b.String()
}

func (c Coordinates) components() []uint32 {
	if c.HasZ() {
		return []uint32{c.X, c.Y, c.Z}
	}
	return []uint32{c.X, c.Y}
}

// SubstituteTemplate replaces the {level}, {x}, {y}, and {z} variables
// of an implicit tiling template URI with the coordinates of the tile.
func (c Coordinates) SubstituteTemplate(uri string) string {
	pairs := []string{
		"{level}", strconv.Itoa(c.Level),
		"{x}", strconv.FormatUint(uint64(c.X), 10),
		"{y}", strconv.FormatUint(uint64(c.Y), 10),
	}
	if c.HasZ() {
		pairs = append(pairs, "{z}", strconv.FormatUint(uint64(c.Z), 10))
	}
	return strings.NewReplacer(pairs...).Replace(uri)
}
