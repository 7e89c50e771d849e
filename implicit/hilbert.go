// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package implicit

// MaxHilbertLevel is the deepest level of a Hilbert curve that
// HilbertEncode2D and HilbertDecode2D accept. At level N, X- and Y-
// coordinates range from zero to 2^N-1 and positions from zero to
// 4^N-1.
const MaxHilbertLevel = 31

// HilbertEncode2D returns the position of the point (x, y) along the
// Hilbert curve of the given level.
//
// The curve starts at (0, 0) and ends at (2^level-1, 0), so at level
// one the points (0, 0), (0, 1), (1, 1), and (1, 0) have positions
// zero to three. This is the orientation S2 uses on its even faces.
func HilbertEncode2D(level int, x, y uint32) (uint64, error) {
	if err := checkHilbertLevel(level); err != nil {
		return 0, err
	}
	n := uint64(1) << level
	px, py := uint64(x), uint64(y)
	if px >= n || py >= n {
		return 0, fmtErr("point (%d, %d) outside Hilbert curve of level %d: %w", x, y, level, ErrInvalidCoordinates)
	}
	var index uint64
	for s := n / 2; s > 0; s /= 2 {
		var rx, ry uint64
		if px&s > 0 {
			rx = 1
		}
		if py&s > 0 {
			ry = 1
		}
		index += ((3 * rx) ^ ry) * s * s
		px, py = hilbertRotate(n, px, py, rx, ry)
	}
	return index, nil
}

// HilbertDecode2D returns the point at a position along the Hilbert
// curve of the given level. It is the inverse of HilbertEncode2D.
func HilbertDecode2D(level int, index uint64) (x, y uint32, err error) {
	if err = checkHilbertLevel(level); err != nil {
		return
	}
	n := uint64(1) << level
	if index >= uint64(1)<<(2*level) {
		err = fmtErr("position %d outside Hilbert curve of level %d: %w", index, level, ErrInvalidCoordinates)
		return
	}
	var px, py uint64
	t := index
	for s := uint64(1); s < n; s *= 2 {
		rx := 1 & (t / 2)
		ry := 1 & (t ^ rx)
		px, py = hilbertRotate(s, px, py, rx, ry)
		px += s * rx
		py += s * ry
		t /= 4
	}
	return uint32(px), uint32(py), nil
}

// hilbertRotate rotates and flips a quadrant of a Hilbert curve of
// side n.
func hilbertRotate(n, x, y, rx, ry uint64) (uint64, uint64) {
	if ry != 0 {
		return x, y
	}
	if rx == 1 {
		x = n - 1 - x
		y = n - 1 - y
	}
	return y, x
}

func checkHilbertLevel(level int) error {
	if level < 0 || level > MaxHilbertLevel {
		return fmtErr("Hilbert curve level %d not in [0, %d]: %w", level, MaxHilbertLevel, ErrInvalidCoordinates)
	}
	return nil
}
