// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package subtree reads and writes the subtree files of 3D Tiles
// implicit tiling.
//
// A subtree file records which tiles, contents, and child subtrees of
// a fixed number of levels of an implicit tileset exist, and may carry
// property tables of tile and content metadata. The binary form is a
// 24-byte header followed by a JSON chunk and a binary chunk; the JSON
// form is the JSON chunk alone, with every buffer external.
//
// Parse and Read resolve every buffer, returning a Subtree whose
// availability is exposed as implicit.Availability values and whose
// property tables are handed to the tiles3d codec.
package subtree
