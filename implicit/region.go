// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package implicit

import "math"

// Region is a geographic bounding region: west, south, east, and north
// in radians, then minimum and maximum height in meters above the
// WGS84 ellipsoid. A region whose east is less than its west crosses
// the antimeridian.
type Region [6]float64

func (r *Region) West() float64          { return r[0] }
func (r *Region) South() float64         { return r[1] }
func (r *Region) East() float64          { return r[2] }
func (r *Region) North() float64         { return r[3] }
func (r *Region) MinimumHeight() float64 { return r[4] }
func (r *Region) MaximumHeight() float64 { return r[5] }

// Width returns the angular width of the region in radians, taking the
// antimeridian into account.
func (r *Region) Width() float64 {
	east := r.East()
	if east < r.West() {
		east += 2 * math.Pi
	}
	return east - r.West()
}

// Height returns the angular height of the region in radians.
func (r *Region) Height() float64 {
	return r.North() - r.South()
}

// Thickness returns the difference between the maximum and minimum
// heights of the region.
func (r *Region) Thickness() float64 {
	return r.MaximumHeight() - r.MinimumHeight()
}

func (r Region) String() string {
	return formatNumbers(r[:])
}

// deriveRegion computes the region of the tile at c directly from the
// root region. Longitudes and latitudes are renormalized into
// [-π, π]. Heights are split only when c has a Z coordinate.
func deriveRegion(root Region, c Coordinates) Region {
	if c.Level == 0 {
		return root
	}
	tileScale := math.Ldexp(1, -c.Level)
	childWidth := tileScale * root.Width()
	childHeight := tileScale * root.Height()

	var child Region
	child[0] = negativePiToPi(root.West() + float64(c.X)*childWidth)
	child[2] = negativePiToPi(child[0] + childWidth)
	child[1] = negativePiToPi(root.South() + float64(c.Y)*childHeight)
	child[3] = negativePiToPi(child[1] + childHeight)
	child[4], child[5] = root.MinimumHeight(), root.MaximumHeight()
	if c.HasZ() {
		childThickness := tileScale * root.Thickness()
		child[4] += float64(c.Z) * childThickness
		child[5] = child[4] + childThickness
	}
	return child
}

const epsilon14 = 1e-14

// negativePiToPi maps an angle in radians into [-π, π].
func negativePiToPi(a float64) float64 {
	if a >= -math.Pi && a <= math.Pi {
		return a
	}
	return zeroToTwoPi(a+math.Pi) - math.Pi
}

// zeroToTwoPi maps an angle in radians into [0, 2π]. An angle that is
// a nonzero multiple of 2π maps to 2π rather than zero.
func zeroToTwoPi(a float64) float64 {
	if a >= 0 && a <= 2*math.Pi {
		return a
	}
	m := mod(a, 2*math.Pi)
	if math.Abs(m) < epsilon14 && math.Abs(a) > epsilon14 {
		return 2 * math.Pi
	}
	return m
}

// mod is the modulo operation whose result has the sign of n.
func mod(m, n float64) float64 {
	if sign(m) == sign(n) && math.Abs(m) < math.Abs(n) {
		return m
	}
	return math.Mod(math.Mod(m, n)+n, n)
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
