// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tiles3d

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// PropertyModel reads the raw values of one property table column.
//
// The set of implementations is closed: a model is chosen once per
// property, from the class property's declared type, when a TableModel
// is created. Models hold only read-only views of the table's buffers,
// so any number of goroutines may call ValueAt concurrently.
//
// ValueAt returns the raw, unprocessed value of the column at a row:
//   - SCALAR and ENUM: int64, uint64, or float64
//   - VECn and MATn: []int64, []uint64, or []float64
//   - arrays of SCALAR or ENUM: []int64, []uint64, or []float64
//   - arrays of VECn or MATn: [][]int64, [][]uint64, or [][]float64
//   - STRING: string, and arrays of STRING: []string
//   - BOOLEAN: bool, and arrays of BOOLEAN: []bool
type PropertyModel interface {
	ValueAt(row int) (interface{}, error)

	propertyModel()
}

// numericModel reads non-array SCALAR, VECn, MATn, and ENUM values.
type numericModel struct {
	values        []byte
	componentType ComponentType
	n             int
}

func (m *numericModel) propertyModel() {}

func (m *numericModel) ValueAt(row int) (interface{}, error) {
	if m.n == 1 {
		return ReadNumber(m.values, m.componentType, row)
	}
	return ReadComponents(m.values, m.componentType, row, m.n)
}

// numericArrayModel reads fixed- and variable-length arrays of SCALAR,
// VECn, MATn, and ENUM values.
type numericArrayModel struct {
	values          []byte
	componentType   ComponentType
	n               int
	arrayOffsets    []byte
	arrayOffsetType ComponentType
	count           int
}

func (m *numericArrayModel) propertyModel() {}

func (m *numericArrayModel) ValueAt(row int) (interface{}, error) {
	s, err := slice(row, m.arrayOffsets, m.arrayOffsetType, m.count)
	if err != nil {
		return nil, err
	}
	if m.n == 1 {
		return readRange(m.values, m.componentType, s.start, s.length)
	}
	switch ct := m.componentType; {
	case ct.IsSigned():
		return readTuples(m.values, ct, s, m.n, getSigned)
	case ct.IsUnsigned():
		return readTuples(m.values, ct, s, m.n, getUnsigned)
	default:
		return readTuples(m.values, ct, s, m.n, getFloat)
	}
}

// readTuples decodes the n-component values in the value range s.
func readTuples[T number](b []byte, ct ComponentType, s span, n int, get func([]byte, ComponentType) T) ([][]T, error) {
	if s.start > len(b)/n || s.length > len(b)/n {
		return nil, fmtErr("values [%d, %d) outside buffer of %d bytes: %w", s.start, s.start+s.length, len(b), ErrIndexOutOfRange)
	}
	flat, err := readSlice(b, ct, s.start*n, s.length*n, get)
	if err != nil {
		return nil, err
	}
	out := make([][]T, s.length)
	for i := range out {
		out[i] = flat[i*n : (i+1)*n : (i+1)*n]
	}
	return out, nil
}

// stringModel reads non-array STRING values.
type stringModel struct {
	values           []byte
	stringOffsets    []byte
	stringOffsetType ComponentType
}

func (m *stringModel) propertyModel() {}

func (m *stringModel) ValueAt(row int) (interface{}, error) {
	s, err := slice(row, m.stringOffsets, m.stringOffsetType, 0)
	if err != nil {
		return nil, err
	}
	return decodeString(m.values, s)
}

// stringArrayModel reads fixed- and variable-length arrays of STRING
// values. The outer range, from the array offsets or fixed count, is a
// range of string indices into the string offsets.
type stringArrayModel struct {
	values           []byte
	arrayOffsets     []byte
	arrayOffsetType  ComponentType
	count            int
	stringOffsets    []byte
	stringOffsetType ComponentType
}

func (m *stringArrayModel) propertyModel() {}

func (m *stringArrayModel) ValueAt(row int) (interface{}, error) {
	outer, err := slice(row, m.arrayOffsets, m.arrayOffsetType, m.count)
	if err != nil {
		return nil, err
	}
	if n := len(m.stringOffsets) / m.stringOffsetType.Size(); outer.start >= n || outer.length > n-1-outer.start {
		return nil, fmtErr("strings [%d, %d) outside %d string offsets: %w", outer.start, outer.start+outer.length, n, ErrIndexOutOfRange)
	}
	out := make([]string, outer.length)
	for i := range out {
		inner, err := slice(outer.start+i, m.stringOffsets, m.stringOffsetType, 0)
		if err != nil {
			return nil, err
		}
		if out[i], err = decodeString(m.values, inner); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// decodeString decodes the byte range s of b as UTF-8 text. Invalid
// bytes decode to the Unicode replacement character U+FFFD.
func decodeString(b []byte, s span) (string, error) {
	if s.start > len(b) || s.length > len(b)-s.start {
		return "", fmtErr("string bytes [%d, %d) outside buffer of %d bytes: %w", s.start, s.start+s.length, len(b), ErrIndexOutOfRange)
	}
	p := b[s.start : s.start+s.length]
	if utf8.Valid(p) {
		return string(p), nil
	}
	q, err := unicode.UTF8.NewDecoder().Bytes(p)
	if err != nil {
		return "", wrapErr("failed to decode string", err)
	}
	return string(q), nil
}

// booleanModel reads non-array BOOLEAN values.
type booleanModel struct {
	values []byte
}

func (m *booleanModel) propertyModel() {}

func (m *booleanModel) ValueAt(row int) (interface{}, error) {
	return readBit(m.values, row)
}

// booleanArrayModel reads fixed- and variable-length arrays of BOOLEAN
// values. Array offsets count bits, not bytes.
type booleanArrayModel struct {
	values          []byte
	arrayOffsets    []byte
	arrayOffsetType ComponentType
	count           int
}

func (m *booleanArrayModel) propertyModel() {}

func (m *booleanArrayModel) ValueAt(row int) (interface{}, error) {
	s, err := slice(row, m.arrayOffsets, m.arrayOffsetType, m.count)
	if err != nil {
		return nil, err
	}
	if n := len(m.values) * 8; s.start > n || s.length > n-s.start {
		return nil, fmtErr("bits [%d, %d) outside buffer of %d bytes: %w", s.start, s.start+s.length, len(m.values), ErrIndexOutOfRange)
	}
	out := make([]bool, s.length)
	for i := range out {
		if out[i], err = readBit(m.values, s.start+i); err != nil {
			return nil, err
		}
	}
	return out, nil
}
