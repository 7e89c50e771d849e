// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package implicit provides the tree arithmetic of 3D Tiles implicit
// tiling: the bounding volume of any descendant tile derived directly
// from the root volume, Hilbert and Morton ordering of tile
// coordinates, and availability bitstreams.
//
// Every function in this package is a pure computation and is safe for
// concurrent use.
package implicit
