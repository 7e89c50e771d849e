// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tiles3d

// A span is a closed/open range [start, start+length) of elements in a
// flattened backing sequence.
type span struct {
	start, length int
}

// slice computes the element range of logical unit index within a
// flattened backing sequence.
//
// If offsets is non-nil, the range is delimited by the offsets at
// index and index+1, both decoded as offsetType. Otherwise the range
// is the fixed-size block [index*count, index*count+count). Callers
// must guarantee that exactly one of offsets and a positive count is
// supplied.
func slice(index int, offsets []byte, offsetType ComponentType, count int) (span, error) {
	if index < 0 {
		return span{}, fmtErr("negative index %d: %w", index, ErrIndexOutOfRange)
	}
	if offsets == nil {
		if count < 1 {
			fmtPanic("logic error: no offsets and fixed count %d", count)
		}
		if index > maxInt/count {
			return span{}, fmtErr("index %d overflows fixed count %d: %w", index, count, ErrIndexOutOfRange)
		}
		return span{start: index * count, length: count}, nil
	}
	start, err := readOffset(offsets, offsetType, index)
	if err != nil {
		return span{}, err
	}
	end, err := readOffset(offsets, offsetType, index+1)
	if err != nil {
		return span{}, err
	}
	if end < start {
		return span{}, fmtErr("decreasing offsets %d > %d at index %d: %w", start, end, index, ErrIndexOutOfRange)
	}
	return span{start: start, length: end - start}, nil
}
