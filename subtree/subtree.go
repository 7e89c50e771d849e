// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package subtree

import (
	"bufio"
	"bytes"
	"context"
	"io"

	json "github.com/goccy/go-json"
	"github.com/gogama/tiles3d"
	"github.com/gogama/tiles3d/buffers"
	"github.com/gogama/tiles3d/implicit"
)

// Subtree is a parsed subtree with every buffer resolved.
//
// Coordinates passed to the availability methods are relative to the
// subtree's root tile, which has level 0. Use Coordinates.RelativeTo
// to convert the absolute coordinates of a tile.
//
// A Subtree is immutable once constructed and safe for concurrent use.
type Subtree struct {
	// Tiling is the implicit tiling the subtree was read against.
	Tiling Tiling
	// Document is the parsed JSON of the subtree.
	Document Document
	// BuffersData holds the bytes of each buffer, indexed like
	// Document.Buffers.
	BuffersData [][]byte
	// BufferViewsData holds the bytes of each buffer view, indexed like
	// Document.BufferViews.
	BufferViewsData [][]byte
	// TileAvailability has one index per tile of the subtree, in the
	// order of Coordinates.Index.
	TileAvailability *implicit.Availability
	// ContentAvailability holds one availability per content, each
	// indexed like TileAvailability.
	ContentAvailability []*implicit.Availability
	// ChildSubtreeAvailability has one index per tile of the level
	// just below the subtree, in the order of Coordinates.IndexInLevel.
	ChildSubtreeAvailability *implicit.Availability
}

// Parse parses a binary or JSON subtree held in memory.
//
// Buffers without a URI refer to the binary chunk of a binary subtree.
// Buffers with a URI are fetched with the resolver given by
// WithResolver.
func Parse(ctx context.Context, data []byte, tiling Tiling, opts ...Option) (*Subtree, error) {
	if !IsBinary(data) {
		return load(ctx, data, nil, tiling, applyOptions(opts))
	}
	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	rest := data[HeaderLen:]
	if uint64(len(rest)) < h.JSONByteLength || uint64(len(rest))-h.JSONByteLength < h.BinaryByteLength {
		return nil, fmtErr("%d bytes after header, chunks need %d: %w", len(rest), h.JSONByteLength+h.BinaryByteLength, io.ErrUnexpectedEOF)
	}
	jsonChunk := rest[:h.JSONByteLength]
	binChunk := rest[h.JSONByteLength : h.JSONByteLength+h.BinaryByteLength]
	return load(ctx, jsonChunk, binChunk, tiling, applyOptions(opts))
}

// Read reads a binary or JSON subtree from a stream.
func Read(ctx context.Context, r io.Reader, tiling Tiling, opts ...Option) (*Subtree, error) {
	if r == nil {
		textPanic("nil reader")
	}
	br := bufio.NewReader(r)
	m, err := br.Peek(magicLen)
	if err != nil && err != io.EOF {
		return nil, wrapErr("failed to read", err)
	}
	if !IsBinary(m) {
		data, err := io.ReadAll(io.LimitReader(br, chunkMaxLen+1))
		if err != nil {
			return nil, wrapErr("failed to read JSON", err)
		}
		if len(data) > chunkMaxLen {
			return nil, fmtErr("JSON subtree exceeds %d bytes: %w", chunkMaxLen, ErrInvalidSubtree)
		}
		return load(ctx, data, nil, tiling, applyOptions(opts))
	}
	h, err := ReadHeader(br)
	if err != nil {
		return nil, err
	}
	chunks := make([]byte, h.JSONByteLength+h.BinaryByteLength)
	if _, err = io.ReadFull(br, chunks); err != nil {
		return nil, wrapErr("failed to read chunks", err)
	}
	return load(ctx, chunks[:h.JSONByteLength], chunks[h.JSONByteLength:], tiling, applyOptions(opts))
}

func load(ctx context.Context, jsonChunk, binChunk []byte, tiling Tiling, o options) (*Subtree, error) {
	if err := tiling.Validate(); err != nil {
		return nil, err
	}
	s := &Subtree{Tiling: tiling}
	if err := json.Unmarshal(bytes.TrimRight(jsonChunk, " \x00"), &s.Document); err != nil {
		return nil, fmtErr("failed to parse JSON: %w: %w", ErrInvalidSubtree, err)
	}

	var err error
	if s.BuffersData, err = resolveBuffers(ctx, s.Document.Buffers, binChunk, o); err != nil {
		return nil, err
	}
	if s.BufferViewsData, err = s.Document.ResolveViews(s.BuffersData); err != nil {
		return nil, fmtErr("%w: %w", ErrInvalidSubtree, err)
	}

	tileCount := tiling.TileCount()
	if s.TileAvailability, err = s.availability("tile availability", s.Document.TileAvailability, tileCount); err != nil {
		return nil, err
	}
	s.ContentAvailability = make([]*implicit.Availability, len(s.Document.ContentAvailability))
	for i, aj := range s.Document.ContentAvailability {
		if s.ContentAvailability[i], err = s.availability("content availability", aj, tileCount); err != nil {
			return nil, wrapErr("content %d", err, i)
		}
	}
	if s.ChildSubtreeAvailability, err = s.availability("child subtree availability", s.Document.ChildSubtreeAvailability, tiling.ChildSubtreeCount()); err != nil {
		return nil, err
	}
	if err = s.validateMetadata(); err != nil {
		return nil, err
	}

	o.logger.Debug("loaded subtree",
		"buffers", len(s.BuffersData),
		"tiles", s.TileAvailability.AvailableCount(),
		"childSubtrees", s.ChildSubtreeAvailability.AvailableCount(),
		"propertyTables", len(s.Document.PropertyTables))
	return s, nil
}

// resolveBuffers returns the bytes of every buffer, each trimmed to its
// declared length.
func resolveBuffers(ctx context.Context, descs []tiles3d.Buffer, binChunk []byte, o options) ([][]byte, error) {
	data := make([][]byte, len(descs))
	var uris []string
	var external []int
	for i, desc := range descs {
		if desc.ByteLength < 0 {
			return nil, fmtErr("buffer %d has negative length %d: %w", i, desc.ByteLength, ErrInvalidSubtree)
		}
		if desc.URI == "" {
			if binChunk == nil {
				return nil, fmtErr("buffer %d refers to a binary chunk, but there is none: %w", i, ErrInvalidSubtree)
			}
			data[i] = binChunk
			continue
		}
		uris = append(uris, desc.URI)
		external = append(external, i)
	}

	if len(uris) > 0 {
		r := o.resolver
		if r == nil {
			for j, uri := range uris {
				if !buffers.IsDataURI(uri) {
					return nil, fmtErr("buffer %d has URI %q, but there is no resolver: %w", external[j], uri, ErrInvalidSubtree)
				}
			}
			r = buffers.NewMemoryResolver()
		}
		fetched, err := buffers.ResolveAll(ctx, r, uris, o.resolveOpts...)
		if err != nil {
			return nil, wrapErr("failed to resolve buffers", err)
		}
		for j, i := range external {
			data[i] = fetched[j]
		}
	}

	for i, desc := range descs {
		if len(data[i]) < desc.ByteLength {
			return nil, fmtErr("buffer %d has %d bytes, needs %d: %w", i, len(data[i]), desc.ByteLength, ErrInvalidSubtree)
		}
		data[i] = data[i][:desc.ByteLength:desc.ByteLength]
	}
	return data, nil
}

func (s *Subtree) availability(what string, aj AvailabilityJSON, length uint64) (*implicit.Availability, error) {
	switch {
	case aj.Constant != nil && aj.Bitstream != nil:
		return nil, fmtErr("%s has both constant and bitstream: %w", what, ErrInvalidSubtree)
	case aj.Constant != nil:
		if *aj.Constant != 0 && *aj.Constant != 1 {
			return nil, fmtErr("%s constant %d not 0 or 1: %w", what, *aj.Constant, ErrInvalidSubtree)
		}
		return implicit.ConstantAvailability(*aj.Constant == 1, uint(length)), nil
	case aj.Bitstream != nil:
		v := *aj.Bitstream
		if v < 0 || v >= len(s.BufferViewsData) {
			return nil, fmtErr("%s bitstream refers to missing buffer view %d: %w", what, v, ErrInvalidSubtree)
		}
		a, err := implicit.BitstreamAvailability(s.BufferViewsData[v], uint(length))
		if err != nil {
			return nil, fmtErr("%s: %w: %w", what, ErrInvalidSubtree, err)
		}
		if aj.AvailableCount != nil && uint(*aj.AvailableCount) != a.AvailableCount() {
			return nil, fmtErr("%s declares %d available, bitstream has %d: %w", what, *aj.AvailableCount, a.AvailableCount(), ErrInvalidSubtree)
		}
		return a, nil
	default:
		return nil, fmtErr("%s has neither constant nor bitstream: %w", what, ErrInvalidSubtree)
	}
}

// validateMetadata checks that the metadata property table indices
// exist and that each table has one row per available tile or content.
func (s *Subtree) validateMetadata() error {
	check := func(what string, index int, a *implicit.Availability) error {
		if index < 0 || index >= len(s.Document.PropertyTables) || s.Document.PropertyTables[index] == nil {
			return fmtErr("%s refers to missing property table %d: %w", what, index, ErrInvalidSubtree)
		}
		if n := s.Document.PropertyTables[index].Count; uint(n) != a.AvailableCount() {
			return fmtErr("%s property table %d has %d rows, %d available: %w", what, index, n, a.AvailableCount(), ErrInvalidSubtree)
		}
		return nil
	}
	if s.Document.TileMetadata != nil {
		if err := check("tile metadata", *s.Document.TileMetadata, s.TileAvailability); err != nil {
			return err
		}
	}
	if len(s.Document.ContentMetadata) > len(s.ContentAvailability) {
		return fmtErr("%d content metadata tables for %d contents: %w", len(s.Document.ContentMetadata), len(s.ContentAvailability), ErrInvalidSubtree)
	}
	for i, index := range s.Document.ContentMetadata {
		if err := check("content metadata", index, s.ContentAvailability[i]); err != nil {
			return wrapErr("content %d", err, i)
		}
	}
	return nil
}

// inside reports whether c is a tile of the subtree's scheme whose
// level is below maxLevel and whose position lies within its level.
func (s *Subtree) inside(c implicit.Coordinates, maxLevel int) bool {
	return c.Scheme == s.Tiling.SubdivisionScheme && c.Level <= maxLevel && c.Validate() == nil
}

// TileAvailable reports whether the tile at c exists. It returns false
// if c lies outside the subtree.
func (s *Subtree) TileAvailable(c implicit.Coordinates) bool {
	return s.inside(c, s.Tiling.SubtreeLevels-1) && s.TileAvailability.IsAvailable(c.Index())
}

// ContentAvailable reports whether the tile at c has content with the
// given index. It returns false if c lies outside the subtree or the
// subtree records no such content.
func (s *Subtree) ContentAvailable(c implicit.Coordinates, content int) bool {
	if content < 0 || content >= len(s.ContentAvailability) {
		return false
	}
	return s.inside(c, s.Tiling.SubtreeLevels-1) && s.ContentAvailability[content].IsAvailable(c.Index())
}

// ChildSubtreeAvailable reports whether a child subtree is rooted at c,
// which must be at level Tiling.SubtreeLevels.
func (s *Subtree) ChildSubtreeAvailable(c implicit.Coordinates) bool {
	return c.Level == s.Tiling.SubtreeLevels && s.inside(c, c.Level) && s.ChildSubtreeAvailability.IsAvailable(c.IndexInLevel())
}

// AvailableTiles returns the coordinates of every available tile in
// breadth-first order. A tile whose parent is unavailable is not
// visited.
func (s *Subtree) AvailableTiles() []implicit.Coordinates {
	var out []implicit.Coordinates
	root := implicit.Coordinates{Scheme: s.Tiling.SubdivisionScheme}
	if !s.TileAvailable(root) {
		return nil
	}
	queue := []implicit.Coordinates{root}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		out = append(out, c)
		if c.Level+1 >= s.Tiling.SubtreeLevels {
			continue
		}
		for _, child := range c.Children() {
			if s.TileAvailable(child) {
				queue = append(queue, child)
			}
		}
	}
	return out
}

// ChildSubtrees returns the absolute coordinates of the roots of every
// available child subtree, given the absolute coordinates of this
// subtree's root.
func (s *Subtree) ChildSubtrees(root implicit.Coordinates) []implicit.Coordinates {
	var out []implicit.Coordinates
	n := s.ChildSubtreeAvailability.Len()
	if constant, available := s.ChildSubtreeAvailability.IsConstant(); constant && !available {
		return nil
	}
	for i := uint64(0); i < uint64(n); i++ {
		if s.ChildSubtreeAvailability.IsAvailable(i) {
			rel := implicit.CoordinatesAt(s.Tiling.SubdivisionScheme, s.Tiling.SubtreeLevels, i)
			out = append(out, root.Descendant(rel))
		}
	}
	return out
}

// TileMetadataRow returns the row of the tile at c in the tile metadata
// property table. It returns false if the tile is unavailable or the
// subtree has no tile metadata.
func (s *Subtree) TileMetadataRow(c implicit.Coordinates) (int, bool) {
	if s.Document.TileMetadata == nil || !s.TileAvailable(c) {
		return 0, false
	}
	return int(s.TileAvailability.AvailableBefore(c.Index())), true
}

// ContentMetadataRow returns the row of the content of the tile at c in
// the content's metadata property table. It returns false if the
// content is unavailable or has no metadata.
func (s *Subtree) ContentMetadataRow(c implicit.Coordinates, content int) (int, bool) {
	if content >= len(s.Document.ContentMetadata) || !s.ContentAvailable(c, content) {
		return 0, false
	}
	return int(s.ContentAvailability[content].AvailableBefore(c.Index())), true
}

// PropertyTables resolves every property table of the subtree against
// a schema.
func (s *Subtree) PropertyTables(schema *tiles3d.Schema) ([]*tiles3d.BinaryPropertyTable, error) {
	out := make([]*tiles3d.BinaryPropertyTable, len(s.Document.PropertyTables))
	for i, pt := range s.Document.PropertyTables {
		if pt == nil {
			return nil, fmtErr("property table %d is null: %w", i, ErrInvalidSubtree)
		}
		t, err := tiles3d.NewBinaryPropertyTable(schema, pt, s.Document.BinaryBufferStructure, s.BuffersData)
		if err != nil {
			return nil, wrapErr("property table %d", err, i)
		}
		out[i] = t
	}
	return out, nil
}

// TileMetadata returns a table model over the tile metadata property
// table. It returns false if the subtree has no tile metadata.
func (s *Subtree) TileMetadata(schema *tiles3d.Schema) (*tiles3d.TableModel, bool, error) {
	if s.Document.TileMetadata == nil {
		return nil, false, nil
	}
	pt := s.Document.PropertyTables[*s.Document.TileMetadata]
	t, err := tiles3d.NewBinaryPropertyTable(schema, pt, s.Document.BinaryBufferStructure, s.BuffersData)
	if err != nil {
		return nil, true, wrapErr("tile metadata", err)
	}
	tm, err := tiles3d.NewTableModel(t)
	if err != nil {
		return nil, true, wrapErr("tile metadata", err)
	}
	return tm, true, nil
}

// TileEntity returns the metadata entity of the tile at c. It returns
// false if the tile is unavailable or the subtree has no tile metadata.
func (s *Subtree) TileEntity(tm *tiles3d.TableModel, c implicit.Coordinates) (*tiles3d.EntityModel, bool, error) {
	row, ok := s.TileMetadataRow(c)
	if !ok {
		return nil, false, nil
	}
	e, err := tm.Entity(row)
	if err != nil {
		return nil, true, wrapErr("tile %s", err, c)
	}
	return e, true, nil
}
