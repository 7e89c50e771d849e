// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tiles3d

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// number is the set of Go types numeric components decode to: signed
// integer kinds decode to int64, unsigned to uint64, and floating-point
// kinds to float64. 64-bit integers are therefore exact.
type number interface {
	int64 | uint64 | float64
}

// checkElements returns an error unless the n elements of type ct
// starting at element index first lie within b.
func checkElements(b []byte, ct ComponentType, first, n int) error {
	size := ct.Size()
	if size == 0 {
		fmtPanic("logic error: invalid component type %q", ct)
	}
	if first < 0 || n < 0 || first > len(b)/size || n > len(b)/size-first {
		return fmtErr("%s elements [%d, %d) outside buffer of %d bytes: %w", ct, first, first+n, len(b), ErrIndexOutOfRange)
	}
	return nil
}

func getSigned(b []byte, ct ComponentType) int64 {
	switch ct {
	case Int8:
		return int64(flatbuffers.GetInt8(b))
	case Int16:
		return int64(flatbuffers.GetInt16(b))
	case Int32:
		return int64(flatbuffers.GetInt32(b))
	case Int64:
		return flatbuffers.GetInt64(b)
	default:
		fmtPanic("logic error: %s is not signed", ct)
		return 0
	}
}

func getUnsigned(b []byte, ct ComponentType) uint64 {
	switch ct {
	case Uint8:
		return uint64(flatbuffers.GetUint8(b))
	case Uint16:
		return uint64(flatbuffers.GetUint16(b))
	case Uint32:
		return uint64(flatbuffers.GetUint32(b))
	case Uint64:
		return flatbuffers.GetUint64(b)
	default:
		fmtPanic("logic error: %s is not unsigned", ct)
		return 0
	}
}

func getFloat(b []byte, ct ComponentType) float64 {
	switch ct {
	case Float32:
		return float64(flatbuffers.GetFloat32(b))
	case Float64:
		return flatbuffers.GetFloat64(b)
	default:
		fmtPanic("logic error: %s is not floating-point", ct)
		return 0
	}
}

// readSlice decodes n consecutive elements of type ct starting at
// element index first.
func readSlice[T number](b []byte, ct ComponentType, first, n int, get func([]byte, ComponentType) T) ([]T, error) {
	if err := checkElements(b, ct, first, n); err != nil {
		return nil, err
	}
	size := ct.Size()
	out := make([]T, n)
	for i := range out {
		out[i] = get(b[(first+i)*size:], ct)
	}
	return out, nil
}

// ReadNumber decodes the element of type ct at element index (not
// byte offset) index from a little-endian buffer. The result is an
// int64, uint64, or float64 depending on the kind of ct.
func ReadNumber(b []byte, ct ComponentType, index int) (interface{}, error) {
	if err := checkElements(b, ct, index, 1); err != nil {
		return nil, err
	}
	p := b[index*ct.Size():]
	switch {
	case ct.IsSigned():
		return getSigned(p, ct), nil
	case ct.IsUnsigned():
		return getUnsigned(p, ct), nil
	default:
		return getFloat(p, ct), nil
	}
}

// ReadComponents decodes the n contiguous components of the value at
// value index, i.e. element indices [index*n, index*n+n). Matrix
// components are returned in the stored order. The result is an
// []int64, []uint64, or []float64 depending on the kind of ct.
func ReadComponents(b []byte, ct ComponentType, index, n int) (interface{}, error) {
	if index < 0 || n < 1 {
		return nil, fmtErr("value index %d, %d components: %w", index, n, ErrIndexOutOfRange)
	}
	if index > len(b)/n {
		return nil, fmtErr("value index %d outside buffer of %d bytes: %w", index, len(b), ErrIndexOutOfRange)
	}
	return readRange(b, ct, index*n, n)
}

// readRange decodes elements [first, first+n) as a typed slice.
func readRange(b []byte, ct ComponentType, first, n int) (interface{}, error) {
	switch {
	case ct.IsSigned():
		return readSlice(b, ct, first, n, getSigned)
	case ct.IsUnsigned():
		return readSlice(b, ct, first, n, getUnsigned)
	case ct.IsFloat():
		return readSlice(b, ct, first, n, getFloat)
	default:
		fmtPanic("logic error: invalid component type %q", ct)
		return nil, nil
	}
}

// readOffset decodes an array or string offset and converts it to int.
func readOffset(b []byte, ct ComponentType, index int) (int, error) {
	if err := checkElements(b, ct, index, 1); err != nil {
		return 0, err
	}
	v := getUnsigned(b[index*ct.Size():], ct)
	if v > uint64(maxInt) {
		return 0, fmtErr("offset %d overflows int: %w", v, ErrIndexOutOfRange)
	}
	return int(v), nil
}

const maxInt = int(^uint(0) >> 1)

// readBit returns bit index of a bit-packed buffer. Bits are packed
// least-significant-bit first within each byte.
func readBit(b []byte, index int) (bool, error) {
	if index < 0 || index>>3 >= len(b) {
		return false, fmtErr("bit %d outside buffer of %d bytes: %w", index, len(b), ErrIndexOutOfRange)
	}
	return b[index>>3]>>(uint(index)&7)&1 == 1, nil
}
