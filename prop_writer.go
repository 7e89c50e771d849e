// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tiles3d

import (
	"math"
	"reflect"

	flatbuffers "github.com/google/flatbuffers/go"
)

const (
	// GeneratedClassName is the name of the class in the schema of a
	// table created by NewSinglePropertyTable.
	GeneratedClassName = "generatedClass"
	// GeneratedEnumName is the name given to the enum of a table
	// created by NewSinglePropertyTable if the class property does not
	// name one.
	GeneratedEnumName = "generatedEnum"
)

type builderOptions struct {
	arrayOffsetType  ComponentType
	stringOffsetType ComponentType
}

// BuilderOption configures a TableBuilder.
type BuilderOption func(*builderOptions)

// WithArrayOffsetType sets the type of the array offsets written for
// variable-length array properties. The default is UINT32.
func WithArrayOffsetType(ct ComponentType) BuilderOption {
	return func(o *builderOptions) {
		o.arrayOffsetType = ct
	}
}

// WithStringOffsetType sets the type of the string offsets written for
// STRING properties. The default is UINT32.
func WithStringOffsetType(ct ComponentType) BuilderOption {
	return func(o *builderOptions) {
		o.stringOffsetType = ct
	}
}

// TableBuilder packs row-major values of the properties of one class
// into the binary layout of a property table.
//
// Values are JSON-like: each row of a non-array property is a single
// element, and each row of an array property is a slice of elements.
// An element of a VECn or MATn property is a slice of numbers, of a
// STRING property a string, of a BOOLEAN property a bool, and of an
// ENUM property the name of an enum value. Numbers may be of any Go
// numeric type, or json.Number.
//
// A TableBuilder is not safe for concurrent use. Each property added
// appends its values buffer, then its array offsets buffer if it is a
// variable-length array, then its string offsets buffer if it is a
// STRING, each with a buffer view covering the whole buffer.
type TableBuilder struct {
	schema  *Schema
	class   *MetadataClass
	table   *PropertyTable
	opts    builderOptions
	buffers [][]byte
	built   bool
}

// NewTableBuilder creates a builder for a table of count rows of the
// named class.
func NewTableBuilder(schema *Schema, className string, count int, opts ...BuilderOption) (*TableBuilder, error) {
	if schema == nil {
		textPanic("nil schema")
	}
	class, err := schema.Class(className)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmtErr("negative row count %d", count)
	}
	o := builderOptions{arrayOffsetType: DefaultOffsetType, stringOffsetType: DefaultOffsetType}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.arrayOffsetType.ValidOffsetType() {
		return nil, wrapErr("invalid array offset type %q", ErrSchemaInconsistency, o.arrayOffsetType)
	} else if !o.stringOffsetType.ValidOffsetType() {
		return nil, wrapErr("invalid string offset type %q", ErrSchemaInconsistency, o.stringOffsetType)
	}
	return &TableBuilder{
		schema: schema,
		class:  class,
		table: &PropertyTable{
			Class:      className,
			Count:      count,
			Properties: make(map[string]*PropertyTableProperty),
		},
		opts: o,
	}, nil
}

// NewSinglePropertyTable builds a table with a single property from
// its values, one per row. The table's schema has one class, named
// GeneratedClassName, and, for ENUM properties, the given enum.
func NewSinglePropertyTable(propertyID string, cp *ClassProperty, values []interface{}, enum *MetadataEnum, opts ...BuilderOption) (*BinaryPropertyTable, error) {
	if cp == nil {
		textPanic("nil class property")
	}
	property := *cp
	schema := &Schema{
		Classes: map[string]*MetadataClass{
			GeneratedClassName: {
				Properties: map[string]*ClassProperty{propertyID: &property},
			},
		},
	}
	if cp.Type == Enum {
		if enum == nil {
			return nil, wrapErr("enum property %q requires an enum", ErrSchemaInconsistency, propertyID)
		}
		if property.EnumType == "" {
			property.EnumType = GeneratedEnumName
		}
		schema.Enums = map[string]*MetadataEnum{property.EnumType: enum}
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	b, err := NewTableBuilder(schema, GeneratedClassName, len(values), opts...)
	if err != nil {
		return nil, err
	}
	if err = b.AddProperty(propertyID, values); err != nil {
		return nil, err
	}
	return b.Build()
}

// AddProperty packs the values of one property, one per row.
func (b *TableBuilder) AddProperty(propertyID string, values []interface{}) error {
	if b.built {
		return textErr("table already built")
	}
	cp, ok := b.class.Properties[propertyID]
	if !ok || cp == nil {
		return wrapErr("property %q", ErrUnknownProperty, propertyID)
	}
	if _, ok = b.table.Properties[propertyID]; ok {
		return fmtErr("property %q already added", propertyID)
	}
	if len(values) != b.table.Count {
		return fmtErr("property %q has %d values for %d rows", propertyID, len(values), b.table.Count)
	}

	elements, counts, err := flatten(cp, values)
	if err != nil {
		return wrapErr("property %q", err, propertyID)
	}

	var valuesBuffer, stringOffsets []byte
	switch cp.Type {
	case String:
		valuesBuffer, stringOffsets, err = packStrings(elements, b.opts.stringOffsetType)
	case Boolean:
		valuesBuffer, err = packBooleans(elements)
	case Enum:
		valuesBuffer, err = b.packEnums(cp, elements)
	default:
		valuesBuffer, err = packNumbers(elements, cp.ComponentType, cp.Type.ComponentCount())
	}
	if err != nil {
		return wrapErr("property %q", err, propertyID)
	}

	ptp := &PropertyTableProperty{Values: b.add(valuesBuffer)}
	if cp.IsVariableLengthArray() {
		offsets, err := packOffsets(counts, b.opts.arrayOffsetType)
		if err != nil {
			return wrapErr("property %q array offsets", err, propertyID)
		}
		index := b.add(offsets)
		ptp.ArrayOffsets = &index
		ptp.ArrayOffsetType = b.opts.arrayOffsetType
	}
	if stringOffsets != nil {
		index := b.add(stringOffsets)
		ptp.StringOffsets = &index
		ptp.StringOffsetType = b.opts.stringOffsetType
	}
	b.table.Properties[propertyID] = ptp
	return nil
}

// add appends a buffer and returns the index of its buffer view.
func (b *TableBuilder) add(buffer []byte) int {
	b.buffers = append(b.buffers, buffer)
	return len(b.buffers) - 1
}

// Build assembles the buffers packed so far into a binary property
// table. The builder may not be used afterward.
func (b *TableBuilder) Build() (*BinaryPropertyTable, error) {
	if b.built {
		return nil, textErr("table already built")
	}
	b.built = true
	structure := BinaryBufferStructure{
		Buffers:     make([]Buffer, len(b.buffers)),
		BufferViews: make([]BufferView, len(b.buffers)),
	}
	for i := range b.buffers {
		structure.Buffers[i] = Buffer{ByteLength: len(b.buffers[i])}
		structure.BufferViews[i] = BufferView{Buffer: i, ByteLength: len(b.buffers[i])}
	}
	return NewBinaryPropertyTable(b.schema, b.table, structure, b.buffers)
}

// flatten returns the elements of all rows in row-then-array order,
// along with the number of elements in each row.
func flatten(cp *ClassProperty, values []interface{}) (elements []interface{}, counts []int, err error) {
	counts = make([]int, len(values))
	for row, v := range values {
		if !cp.Array {
			elements = append(elements, v)
			counts[row] = 1
			continue
		}
		rv := reflect.ValueOf(v)
		if v == nil || rv.Kind() != reflect.Slice {
			return nil, nil, fmtErr("row %d: array value has type %T: %w", row, v, ErrSchemaInconsistency)
		}
		if cp.Count > 0 && rv.Len() != cp.Count {
			return nil, nil, fmtErr("row %d: array has %d elements, want %d: %w", row, rv.Len(), cp.Count, ErrSchemaInconsistency)
		}
		for i := 0; i < rv.Len(); i++ {
			elements = append(elements, rv.Index(i).Interface())
		}
		counts[row] = rv.Len()
	}
	return elements, counts, nil
}

// packStrings concatenates the UTF-8 bytes of all strings and builds
// the string offsets delimiting them.
func packStrings(elements []interface{}, offsetType ComponentType) (values, offsets []byte, err error) {
	lengths := make([]int, len(elements))
	for i, e := range elements {
		s, ok := e.(string)
		if !ok {
			return nil, nil, fmtErr("element %d has type %T, want string: %w", i, e, ErrSchemaInconsistency)
		}
		values = append(values, s...)
		lengths[i] = len(s)
	}
	if values == nil {
		values = []byte{}
	}
	offsets, err = packOffsets(lengths, offsetType)
	return
}

// packBooleans packs one bit per element, least-significant bit first.
func packBooleans(elements []interface{}) ([]byte, error) {
	values := make([]byte, (len(elements)+7)/8)
	for i, e := range elements {
		v, ok := e.(bool)
		if !ok {
			return nil, fmtErr("element %d has type %T, want bool: %w", i, e, ErrSchemaInconsistency)
		}
		if v {
			values[i>>3] |= 1 << (uint(i) & 7)
		}
	}
	return values, nil
}

// packEnums maps enum value names to their codes and packs the codes
// at the enum's storage width.
func (b *TableBuilder) packEnums(cp *ClassProperty, elements []interface{}) ([]byte, error) {
	enum, err := b.schema.Enum(cp.EnumType)
	if err != nil {
		return nil, err
	}
	codes := make([]interface{}, len(elements))
	for i, e := range elements {
		name, ok := e.(string)
		if !ok {
			return nil, fmtErr("element %d has type %T, want enum name: %w", i, e, ErrSchemaInconsistency)
		}
		code, ok := enum.CodeOf(name)
		if !ok {
			return nil, fmtErr("element %d: %q not in enum %q: %w", i, name, cp.EnumType, ErrUnknownEnumValue)
		}
		codes[i] = code
	}
	return packNumbers(codes, enum.StorageType(), 1)
}

// packNumbers packs elements of n components each at the width of ct.
// If n is 1 each element is a number, otherwise a slice of n numbers.
func packNumbers(elements []interface{}, ct ComponentType, n int) ([]byte, error) {
	size := ct.Size()
	values := make([]byte, len(elements)*n*size)
	for i, e := range elements {
		if n == 1 {
			if err := putNumber(values[i*size:], ct, e); err != nil {
				return nil, fmtErr("element %d: %w", i, err)
			}
			continue
		}
		rv := reflect.ValueOf(e)
		if e == nil || rv.Kind() != reflect.Slice || rv.Len() != n {
			return nil, fmtErr("element %d is not %d components: %w", i, n, ErrSchemaInconsistency)
		}
		for j := 0; j < n; j++ {
			if err := putNumber(values[(i*n+j)*size:], ct, rv.Index(j).Interface()); err != nil {
				return nil, fmtErr("element %d component %d: %w", i, j, err)
			}
		}
	}
	return values, nil
}

// packOffsets builds an offsets buffer of len(lengths)+1 entries: zero,
// then the cumulative sums of lengths.
func packOffsets(lengths []int, ct ComponentType) ([]byte, error) {
	size := ct.Size()
	offsets := make([]byte, (len(lengths)+1)*size)
	var total uint64
	for i, n := range lengths {
		total += uint64(n)
		if ct != Uint64 && total > uint64(ct.maxInt()) {
			return nil, fmtErr("offset %d overflows %s: %w", total, ct, ErrIndexOutOfRange)
		}
		putUnsigned(offsets[(i+1)*size:], ct, total)
	}
	return offsets, nil
}

// putNumber writes a number at the width of ct, returning an error if
// it is not a number or is not representable by ct.
func putNumber(b []byte, ct ComponentType, v interface{}) error {
	switch {
	case ct.IsSigned():
		x, ok := toInt64(v)
		if !ok || float64(x) < -ct.maxInt()-1 || float64(x) > ct.maxInt() {
			return fmtErr("%v is not a %s: %w", v, ct, ErrSchemaInconsistency)
		}
		putSigned(b, ct, x)
	case ct.IsUnsigned():
		x, ok := toUint64(v)
		if !ok || ct != Uint64 && x > uint64(ct.maxInt()) {
			return fmtErr("%v is not a %s: %w", v, ct, ErrSchemaInconsistency)
		}
		putUnsigned(b, ct, x)
	default:
		x, ok := toFloat64(v)
		if !ok {
			return fmtErr("%v is not a %s: %w", v, ct, ErrSchemaInconsistency)
		}
		if ct == Float32 {
			flatbuffers.WriteFloat32(b, float32(x))
		} else {
			flatbuffers.WriteFloat64(b, x)
		}
	}
	return nil
}

func putSigned(b []byte, ct ComponentType, x int64) {
	switch ct {
	case Int8:
		flatbuffers.WriteInt8(b, int8(x))
	case Int16:
		flatbuffers.WriteInt16(b, int16(x))
	case Int32:
		flatbuffers.WriteInt32(b, int32(x))
	case Int64:
		flatbuffers.WriteInt64(b, x)
	}
}

func putUnsigned(b []byte, ct ComponentType, x uint64) {
	switch ct {
	case Uint8:
		flatbuffers.WriteUint8(b, uint8(x))
	case Uint16:
		flatbuffers.WriteUint16(b, uint16(x))
	case Uint32:
		flatbuffers.WriteUint32(b, uint32(x))
	case Uint64:
		flatbuffers.WriteUint64(b, x)
	}
}

// integerish is satisfied by json.Number.
type integerish interface {
	Int64() (int64, error)
}

// toInt64 converts an integral Go number to int64.
func toInt64(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint64:
		return int64(x), x <= math.MaxInt64
	case integerish:
		if i, err := x.Int64(); err == nil {
			return i, true
		}
	}
	if x, ok := toUint64(v); ok && x <= math.MaxInt64 {
		return int64(x), true
	}
	if f, ok := toFloat64(v); ok && f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return int64(f), true
	}
	return 0, false
}

// toUint64 converts a non-negative integral Go number to uint64.
func toUint64(v interface{}) (uint64, bool) {
	switch x := v.(type) {
	case uint:
		return uint64(x), true
	case uint8:
		return uint64(x), true
	case uint16:
		return uint64(x), true
	case uint32:
		return uint64(x), true
	case uint64:
		return x, true
	case int, int8, int16, int32, int64:
		i, _ := toInt64(x)
		return uint64(i), i >= 0
	case numberish:
		if s, ok := v.(interface{ String() string }); ok {
			var u uint64
			var digits int
			for _, c := range s.String() {
				if c < '0' || c > '9' || u > (math.MaxUint64-uint64(c-'0'))/10 {
					digits = 0
					break
				}
				u = u*10 + uint64(c-'0')
				digits++
			}
			if digits > 0 {
				return u, true
			}
		}
	}
	if f, ok := toFloat64(v); ok && f == math.Trunc(f) && f >= 0 && f < math.MaxUint64 {
		return uint64(f), true
	}
	return 0, false
}
