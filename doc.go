// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package tiles3d reads and writes the binary property tables used to
// attach metadata to 3D Tiles geometry.
//
// A property table is a columnar table of typed properties whose
// values are packed into raw byte buffers according to a metadata
// schema. NewBinaryPropertyTable resolves a table descriptor against
// its schema and buffers, NewTableModel creates a PropertyModel for each
// column, and TableModel.Entity returns a row view whose values are
// decoded and post-processed on demand. TableBuilder performs the
// inverse operation, packing row-major values into the binary layout.
//
// The implicit sub-package derives the bounding volumes of implicitly
// tiled descendants, and the subtree sub-package reads the subtree
// files that carry implicit tiling availability and metadata.
package tiles3d
