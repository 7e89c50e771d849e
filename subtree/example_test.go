// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package subtree_test

import (
	"context"
	"fmt"

	"github.com/gogama/tiles3d/implicit"
	"github.com/gogama/tiles3d/subtree"
)

func ExampleParse() {
	data := []byte(`{
		"buffers": [{"uri": "data:application/octet-stream;base64,EQ==", "byteLength": 1}],
		"bufferViews": [{"buffer": 0, "byteLength": 1}],
		"tileAvailability": {"bitstream": 0, "availableCount": 2},
		"childSubtreeAvailability": {"constant": 0}
	}`)
	tiling := subtree.Tiling{SubdivisionScheme: implicit.Quadtree, SubtreeLevels: 2}

	s, err := subtree.Parse(context.Background(), data, tiling, subtree.WithResolver(nil))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(s.TileAvailability)
	fmt.Println(s.AvailableTiles())
	// Output:
	// Availability{Bitstream,Available:2/5}
	// [0/0/0 1/1/1]
}
