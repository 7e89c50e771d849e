// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tiles3d

import "math"

// ComponentType is the fixed-width numeric kind of a property
// component, array offset, or string offset. Values are little-endian
// in binary storage.
type ComponentType string

const (
	Int8    ComponentType = "INT8"
	Uint8   ComponentType = "UINT8"
	Int16   ComponentType = "INT16"
	Uint16  ComponentType = "UINT16"
	Int32   ComponentType = "INT32"
	Uint32  ComponentType = "UINT32"
	Int64   ComponentType = "INT64"
	Uint64  ComponentType = "UINT64"
	Float32 ComponentType = "FLOAT32"
	Float64 ComponentType = "FLOAT64"
)

const (
	// DefaultOffsetType is the offset type used for array and string
	// offsets when a property table does not specify one.
	DefaultOffsetType = Uint32
	// DefaultEnumValueType is the storage type of enum codes when an
	// enum definition does not specify one.
	DefaultEnumValueType = Uint16
)

// Size returns the width of the component type in bytes, or zero if
// the component type is not one of the ten known kinds.
func (ct ComponentType) Size() int {
	switch ct {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	default:
		return 0
	}
}

// Valid reports whether ct is one of the ten known component types.
func (ct ComponentType) Valid() bool {
	return ct.Size() > 0
}

// IsSigned reports whether ct is a signed integer type.
func (ct ComponentType) IsSigned() bool {
	return ct == Int8 || ct == Int16 || ct == Int32 || ct == Int64
}

// IsUnsigned reports whether ct is an unsigned integer type.
func (ct ComponentType) IsUnsigned() bool {
	return ct == Uint8 || ct == Uint16 || ct == Uint32 || ct == Uint64
}

// IsFloat reports whether ct is a floating-point type.
func (ct ComponentType) IsFloat() bool {
	return ct == Float32 || ct == Float64
}

// ValidOffsetType reports whether ct may be used as an array offset or
// string offset type. Only the unsigned integer types qualify.
func (ct ComponentType) ValidOffsetType() bool {
	return ct.IsUnsigned()
}

// maxInt returns the largest value representable by an integer
// component type, as a float64. It is used for normalization.
func (ct ComponentType) maxInt() float64 {
	switch ct {
	case Int8:
		return math.MaxInt8
	case Uint8:
		return math.MaxUint8
	case Int16:
		return math.MaxInt16
	case Uint16:
		return math.MaxUint16
	case Int32:
		return math.MaxInt32
	case Uint32:
		return math.MaxUint32
	case Int64:
		return math.MaxInt64
	case Uint64:
		return math.MaxUint64
	default:
		return 1
	}
}

func (ct ComponentType) String() string {
	return string(ct)
}

// offsetTypeOrDefault returns ct, or DefaultOffsetType if ct is empty.
func offsetTypeOrDefault(ct ComponentType) ComponentType {
	if ct == "" {
		return DefaultOffsetType
	}
	return ct
}

// PropertyType is the element type of a class property.
type PropertyType string

const (
	Scalar  PropertyType = "SCALAR"
	Vec2    PropertyType = "VEC2"
	Vec3    PropertyType = "VEC3"
	Vec4    PropertyType = "VEC4"
	Mat2    PropertyType = "MAT2"
	Mat3    PropertyType = "MAT3"
	Mat4    PropertyType = "MAT4"
	String  PropertyType = "STRING"
	Boolean PropertyType = "BOOLEAN"
	Enum    PropertyType = "ENUM"
)

// ComponentCount returns the number of numeric components of a single
// value of the property type: 1 for SCALAR and ENUM, 2 to 4 for the
// vector types, and 4, 9, or 16 for the matrix types. It returns zero
// for STRING, BOOLEAN, and unknown types.
func (pt PropertyType) ComponentCount() int {
	switch pt {
	case Scalar, Enum:
		return 1
	case Vec2:
		return 2
	case Vec3:
		return 3
	case Vec4, Mat2:
		return 4
	case Mat3:
		return 9
	case Mat4:
		return 16
	default:
		return 0
	}
}

// IsNumeric reports whether values of the property type are stored as
// numeric components. ENUM is numeric in storage.
func (pt PropertyType) IsNumeric() bool {
	return pt.ComponentCount() > 0
}

// Valid reports whether pt is one of the ten known property types.
func (pt PropertyType) Valid() bool {
	return pt.IsNumeric() || pt == String || pt == Boolean
}

func (pt PropertyType) String() string {
	return string(pt)
}
