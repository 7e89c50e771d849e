// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package implicit

import (
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
)

// Box is an oriented bounding box: the center, followed by the three
// half-axis vectors, which are the columns of the box's half-axes
// matrix.
type Box [12]float64

// Center returns the center of the box.
func (b *Box) Center() r3.Vector {
	return r3.Vector{X: b[0], Y: b[1], Z: b[2]}
}

// HalfAxis returns half-axis i, which must be 0, 1, or 2.
func (b *Box) HalfAxis(i int) r3.Vector {
	if i < 0 || i > 2 {
		fmtPanic("half-axis %d not in [0, 2]", i)
	}
	j := 3 + 3*i
	return r3.Vector{X: b[j], Y: b[j+1], Z: b[j+2]}
}

func (b *Box) setCenter(v r3.Vector) {
	b[0], b[1], b[2] = v.X, v.Y, v.Z
}

func (b *Box) setHalfAxis(i int, v r3.Vector) {
	j := 3 + 3*i
	b[j], b[j+1], b[j+2] = v.X, v.Y, v.Z
}

// String returns the twelve numbers of the box in the same compact
// form as the tiles3d command line prints them.
func (b Box) String() string {
	return formatNumbers(b[:])
}

// deriveBox computes the box of the tile at c directly from the root
// box. The child's center is the model-space center of the tile in the
// root's [-1, 1] cube, transformed through the root's half-axes, and
// its half-axes are the root's scaled by the size of the tile. For a
// quadtree the Z-axis keeps the root's full extent.
func deriveBox(root Box, c Coordinates) Box {
	if c.Level == 0 {
		return root
	}
	tileScale := math.Ldexp(1, -c.Level)
	mx := -1 + (2*float64(c.X)+1)*tileScale
	my := -1 + (2*float64(c.Y)+1)*tileScale
	mz, sz := 0.0, 1.0
	if c.HasZ() {
		mz = -1 + (2*float64(c.Z)+1)*tileScale
		sz = tileScale
	}

	axes := [3]r3.Vector{root.HalfAxis(0), root.HalfAxis(1), root.HalfAxis(2)}
	offset := axes[0].Mul(mx).Add(axes[1].Mul(my)).Add(axes[2].Mul(mz))

	var child Box
	child.setCenter(root.Center().Add(offset))
	for i, s := range [3]float64{tileScale, tileScale, sz} {
		child.setHalfAxis(i, axes[i].Mul(s))
	}
	return child
}

func formatNumbers(v []float64) string {
	var b strings.Builder
	b.WriteByte('[')
	for i := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(v[i], 'g', -1, 64))
	}
	b.WriteByte(']')
	return b.String()
}
