// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package implicit_test

import (
	"fmt"

	"github.com/gogama/tiles3d/implicit"
)

func ExampleDerive() {
	root := implicit.BoxVolume(implicit.Box{0, 0, 0, 10, 0, 0, 0, 10, 0, 0, 0, 10})

	for _, c := range implicit.OctreeCoordinates(0, 0, 0, 0).Children()[:2] {
		child, _, _ := implicit.Derive(root, c) // Ignore ok and error ONLY to keep example simple.
		fmt.Println(c, child.Box)
	}
	// Output:
	// 1/0/0/0 [-5 -5 -5 5 0 0 0 5 0 0 0 5]
	// 1/1/0/0 [5 -5 -5 5 0 0 0 5 0 0 0 5]
}

func ExampleDerive_s2() {
	root := implicit.S2Volume(implicit.S2Cell{Token: "1", MinimumHeight: 0, MaximumHeight: 100})

	child, ok, err := implicit.Derive(root, implicit.QuadtreeCoordinates(1, 1, 0))

	fmt.Println(child.Extensions.S2, ok, err)
	// Output: S2Cell{Token:1c,MinimumHeight:0,MaximumHeight:100} true <nil>
}

func ExampleHilbertEncode2D() {
	for _, p := range [][2]uint32{{0, 0}, {0, 1}, {1, 1}, {1, 0}} {
		index, _ := implicit.HilbertEncode2D(1, p[0], p[1])
		fmt.Print(index, " ")
	}
	fmt.Println()
	// Output: 0 1 2 3
}

func ExampleCoordinates_SubstituteTemplate() {
	c := implicit.QuadtreeCoordinates(3, 5, 2)

	fmt.Println(c.SubstituteTemplate("content/{level}/{x}/{y}.glb"), c.Index())
	// Output: content/3/5/2.glb 46
}
