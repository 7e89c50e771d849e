// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tiles3d

import (
	"math"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnum = &MetadataEnum{
	Name: "kind",
	Values: []EnumValue{
		{Name: "A", Value: 0},
		{Name: "B", Value: 1},
		{Name: "C", Value: 5},
	},
}

// decodeAll reads back every row of a single property table through
// an entity model.
func decodeAll(t *testing.T, bpt *BinaryPropertyTable, propertyID string) []interface{} {
	tm, err := NewTableModel(bpt)
	require.NoError(t, err)
	out := make([]interface{}, tm.Count())
	for row := range out {
		e, err := tm.Entity(row)
		require.NoError(t, err)
		out[row], err = e.Value(propertyID)
		require.NoError(t, err)
	}
	return out
}

func TestNewSinglePropertyTable_RoundTrip(t *testing.T) {
	testCases := []struct {
		name     string
		cp       ClassProperty
		enum     *MetadataEnum
		input    []interface{}
		expected []interface{}
	}{
		{
			name:     "Scalar.Int8",
			cp:       ClassProperty{Type: Scalar, ComponentType: Int8},
			input:    []interface{}{-1, 127, -128},
			expected: []interface{}{int64(-1), int64(127), int64(-128)},
		},
		{
			name:     "Scalar.Uint64",
			cp:       ClassProperty{Type: Scalar, ComponentType: Uint64},
			input:    []interface{}{uint64(math.MaxUint64), 0},
			expected: []interface{}{uint64(math.MaxUint64), uint64(0)},
		},
		{
			name:     "Scalar.Int64",
			cp:       ClassProperty{Type: Scalar, ComponentType: Int64},
			input:    []interface{}{int64(math.MinInt64), int64(math.MaxInt64)},
			expected: []interface{}{int64(math.MinInt64), int64(math.MaxInt64)},
		},
		{
			name:     "Scalar.Float64",
			cp:       ClassProperty{Type: Scalar, ComponentType: Float64},
			input:    []interface{}{0.5, -3.25, float32(2)},
			expected: []interface{}{0.5, -3.25, 2.0},
		},
		{
			name:     "Scalar.JSONNumber",
			cp:       ClassProperty{Type: Scalar, ComponentType: Uint32},
			input:    []interface{}{json.Number("42"), json.Number("4294967295")},
			expected: []interface{}{uint64(42), uint64(math.MaxUint32)},
		},
		{
			name:     "Vec3.Uint16",
			cp:       ClassProperty{Type: Vec3, ComponentType: Uint16},
			input:    []interface{}{[]int{1, 2, 3}, []interface{}{4, 5, 6}},
			expected: []interface{}{[]uint64{1, 2, 3}, []uint64{4, 5, 6}},
		},
		{
			name:     "Mat2.Float32",
			cp:       ClassProperty{Type: Mat2, ComponentType: Float32},
			input:    []interface{}{[]float64{1, 2, 3, 4}},
			expected: []interface{}{[]float64{1, 2, 3, 4}},
		},
		{
			name:     "ScalarArray.Variable",
			cp:       ClassProperty{Type: Scalar, ComponentType: Int32, Array: true},
			input:    []interface{}{[]int{1, 2}, []int{}, []int{3}},
			expected: []interface{}{[]int64{1, 2}, []int64{}, []int64{3}},
		},
		{
			name:     "ScalarArray.Fixed",
			cp:       ClassProperty{Type: Scalar, ComponentType: Uint8, Array: true, Count: 3},
			input:    []interface{}{[]int{1, 2, 3}, []int{4, 5, 6}},
			expected: []interface{}{[]uint64{1, 2, 3}, []uint64{4, 5, 6}},
		},
		{
			name:     "Vec2Array.Fixed",
			cp:       ClassProperty{Type: Vec2, ComponentType: Float32, Array: true, Count: 2},
			input:    []interface{}{[][]float64{{1, 2}, {3, 4}}},
			expected: []interface{}{[][]float64{{1, 2}, {3, 4}}},
		},
		{
			name:     "Vec2Array.Variable",
			cp:       ClassProperty{Type: Vec2, ComponentType: Int16, Array: true},
			input:    []interface{}{[][]int{{1, 2}}, [][]int{{3, 4}, {-5, 6}}},
			expected: []interface{}{[][]int64{{1, 2}}, [][]int64{{3, 4}, {-5, 6}}},
		},
		{
			name:     "String",
			cp:       ClassProperty{Type: String},
			input:    []interface{}{"ab", "cde", "", "héllo"},
			expected: []interface{}{"ab", "cde", "", "héllo"},
		},
		{
			name:     "StringArray.Variable",
			cp:       ClassProperty{Type: String, Array: true},
			input:    []interface{}{[]string{"a", "bc"}, []string{"de"}, []string{}},
			expected: []interface{}{[]string{"a", "bc"}, []string{"de"}, []string{}},
		},
		{
			name:     "StringArray.Fixed",
			cp:       ClassProperty{Type: String, Array: true, Count: 2},
			input:    []interface{}{[]string{"a", "b"}, []interface{}{"c", "d"}},
			expected: []interface{}{[]string{"a", "b"}, []string{"c", "d"}},
		},
		{
			name:     "Boolean",
			cp:       ClassProperty{Type: Boolean},
			input:    []interface{}{true, false, true, true, false, false, false, false, true},
			expected: []interface{}{true, false, true, true, false, false, false, false, true},
		},
		{
			name:     "BooleanArray.Variable",
			cp:       ClassProperty{Type: Boolean, Array: true},
			input:    []interface{}{[]bool{true}, []bool{false, true}, []bool{}},
			expected: []interface{}{[]bool{true}, []bool{false, true}, []bool{}},
		},
		{
			name:     "BooleanArray.Fixed",
			cp:       ClassProperty{Type: Boolean, Array: true, Count: 3},
			input:    []interface{}{[]bool{true, false, true}, []bool{false, false, true}},
			expected: []interface{}{[]bool{true, false, true}, []bool{false, false, true}},
		},
		{
			name:     "Enum",
			cp:       ClassProperty{Type: Enum},
			enum:     testEnum,
			input:    []interface{}{"A", "C", "B"},
			expected: []interface{}{"A", "C", "B"},
		},
		{
			name: "EnumArray.Variable",
			cp:   ClassProperty{Type: Enum, EnumType: "small", Array: true},
			enum: &MetadataEnum{
				ValueType: Int8,
				Values:    []EnumValue{{Name: "X", Value: -1}, {Name: "Y", Value: 1}},
			},
			input:    []interface{}{[]string{"X", "Y"}, []string{"Y"}},
			expected: []interface{}{[]string{"X", "Y"}, []string{"Y"}},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			bpt, err := NewSinglePropertyTable("p", &testCase.cp, testCase.input, testCase.enum)
			require.NoError(t, err)

			actual := decodeAll(t, bpt, "p")

			assert.Equal(t, testCase.expected, actual)
		})
	}
}

func TestNewSinglePropertyTable_Layout(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		bpt, err := NewSinglePropertyTable("p", &ClassProperty{Type: String}, []interface{}{"ab", "cde"}, nil)
		require.NoError(t, err)

		ptp := bpt.PropertyTable.Properties["p"]
		require.NotNil(t, ptp)
		require.NotNil(t, ptp.StringOffsets)
		assert.Nil(t, ptp.ArrayOffsets)
		assert.Equal(t, Uint32, ptp.StringOffsetType)
		assert.Equal(t, []byte("abcde"), bpt.BufferViewsData[ptp.Values])
		assert.Equal(t, []byte{0, 0, 0, 0, 2, 0, 0, 0, 5, 0, 0, 0}, bpt.BufferViewsData[*ptp.StringOffsets])
		assert.Equal(t, []interface{}{"ab", "cde"}, decodeAll(t, bpt, "p"))
	})

	t.Run("Vec2Array.Fixed", func(t *testing.T) {
		cp := ClassProperty{Type: Vec2, ComponentType: Float32, Array: true, Count: 2}
		bpt, err := NewSinglePropertyTable("p", &cp, []interface{}{[][]float64{{1, 2}, {3, 4}}}, nil)
		require.NoError(t, err)

		ptp := bpt.PropertyTable.Properties["p"]
		assert.Nil(t, ptp.ArrayOffsets)
		assert.Nil(t, ptp.StringOffsets)
		assert.Len(t, bpt.BufferViewsData, 1)
		assert.Len(t, bpt.BufferViewsData[ptp.Values], 16)
	})

	t.Run("BufferOrder", func(t *testing.T) {
		bpt, err := NewSinglePropertyTable("p", &ClassProperty{Type: String, Array: true}, []interface{}{[]string{"x"}}, nil)
		require.NoError(t, err)

		ptp := bpt.PropertyTable.Properties["p"]
		require.NotNil(t, ptp.ArrayOffsets)
		require.NotNil(t, ptp.StringOffsets)
		assert.Equal(t, 0, ptp.Values)
		assert.Equal(t, 1, *ptp.ArrayOffsets)
		assert.Equal(t, 2, *ptp.StringOffsets)
	})

	t.Run("Booleans", func(t *testing.T) {
		input := []interface{}{true, false, true, true, false, false, false, false, true}
		bpt, err := NewSinglePropertyTable("p", &ClassProperty{Type: Boolean}, input, nil)
		require.NoError(t, err)

		assert.Equal(t, []byte{0x0d, 0x01}, bpt.BufferViewsData[0])
	})

	t.Run("EnumStorage", func(t *testing.T) {
		bpt, err := NewSinglePropertyTable("p", &ClassProperty{Type: Enum}, []interface{}{"C", "B"}, testEnum)
		require.NoError(t, err)

		assert.Equal(t, []byte{5, 0, 1, 0}, bpt.BufferViewsData[0])
		assert.Equal(t, GeneratedEnumName, bpt.MetadataClass.Properties["p"].EnumType)
	})

	t.Run("OffsetTypes", func(t *testing.T) {
		input := []interface{}{[]string{"ab"}, []string{"c", "d"}}
		bpt, err := NewSinglePropertyTable("p", &ClassProperty{Type: String, Array: true}, input, nil,
			WithArrayOffsetType(Uint16), WithStringOffsetType(Uint8))
		require.NoError(t, err)

		ptp := bpt.PropertyTable.Properties["p"]
		assert.Equal(t, Uint16, ptp.ArrayOffsetType)
		assert.Equal(t, Uint8, ptp.StringOffsetType)
		assert.Equal(t, []byte{0, 0, 1, 0, 3, 0}, bpt.BufferViewsData[*ptp.ArrayOffsets])
		assert.Equal(t, []byte{0, 2, 3, 4}, bpt.BufferViewsData[*ptp.StringOffsets])
		assert.Equal(t, input, decodeAll(t, bpt, "p"))
	})
}

func TestNewSinglePropertyTable_ArrayOffsets(t *testing.T) {
	lengths := []int{3, 0, 1, 7, 0, 0, 2}
	input := make([]interface{}, len(lengths))
	var total int
	for i, n := range lengths {
		row := make([]int, n)
		for j := range row {
			row[j] = i + j
		}
		input[i] = row
		total += n
	}

	for _, ct := range []ComponentType{Uint8, Uint16, Uint32, Uint64} {
		t.Run(string(ct), func(t *testing.T) {
			cp := ClassProperty{Type: Scalar, ComponentType: Int16, Array: true}
			bpt, err := NewSinglePropertyTable("p", &cp, input, nil, WithArrayOffsetType(ct))
			require.NoError(t, err)

			offsets := bpt.BufferViewsData[*bpt.PropertyTable.Properties["p"].ArrayOffsets]
			require.Len(t, offsets, (len(lengths)+1)*ct.Size())
			prev := -1
			for i := 0; i <= len(lengths); i++ {
				o, err := readOffset(offsets, ct, i)
				require.NoError(t, err)
				if i == 0 {
					assert.Equal(t, 0, o)
				}
				assert.GreaterOrEqual(t, o, prev)
				prev = o
			}
			assert.Equal(t, total, prev)
		})
	}
}

func TestNewSinglePropertyTable_Error(t *testing.T) {
	testCases := []struct {
		name     string
		cp       ClassProperty
		enum     *MetadataEnum
		input    []interface{}
		opts     []BuilderOption
		expected error
	}{
		{
			name:     "NotNumber",
			cp:       ClassProperty{Type: Scalar, ComponentType: Uint8},
			input:    []interface{}{"x"},
			expected: ErrSchemaInconsistency,
		},
		{
			name:     "Overflow",
			cp:       ClassProperty{Type: Scalar, ComponentType: Int8},
			input:    []interface{}{300},
			expected: ErrSchemaInconsistency,
		},
		{
			name:     "NegativeUnsigned",
			cp:       ClassProperty{Type: Scalar, ComponentType: Uint8},
			input:    []interface{}{-1},
			expected: ErrSchemaInconsistency,
		},
		{
			name:     "Fractional",
			cp:       ClassProperty{Type: Scalar, ComponentType: Int32},
			input:    []interface{}{1.5},
			expected: ErrSchemaInconsistency,
		},
		{
			name:     "ComponentCount",
			cp:       ClassProperty{Type: Vec3, ComponentType: Float32},
			input:    []interface{}{[]float64{1, 2}},
			expected: ErrSchemaInconsistency,
		},
		{
			name:     "FixedCount",
			cp:       ClassProperty{Type: Scalar, ComponentType: Uint8, Array: true, Count: 2},
			input:    []interface{}{[]int{1, 2, 3}},
			expected: ErrSchemaInconsistency,
		},
		{
			name:     "NotArray",
			cp:       ClassProperty{Type: Scalar, ComponentType: Uint8, Array: true},
			input:    []interface{}{1},
			expected: ErrSchemaInconsistency,
		},
		{
			name:     "NotString",
			cp:       ClassProperty{Type: String},
			input:    []interface{}{1},
			expected: ErrSchemaInconsistency,
		},
		{
			name:     "NotBool",
			cp:       ClassProperty{Type: Boolean},
			input:    []interface{}{"true"},
			expected: ErrSchemaInconsistency,
		},
		{
			name:     "UnknownEnumName",
			cp:       ClassProperty{Type: Enum},
			enum:     testEnum,
			input:    []interface{}{"Z"},
			expected: ErrUnknownEnumValue,
		},
		{
			name:     "MissingEnum",
			cp:       ClassProperty{Type: Enum},
			input:    []interface{}{"A"},
			expected: ErrSchemaInconsistency,
		},
		{
			name:     "InvalidType",
			cp:       ClassProperty{Type: "VEC5", ComponentType: Uint8},
			input:    []interface{}{1},
			expected: ErrSchemaInconsistency,
		},
		{
			name:     "StringOffsetOverflow",
			cp:       ClassProperty{Type: String},
			input:    []interface{}{strings.Repeat("x", 300)},
			opts:     []BuilderOption{WithStringOffsetType(Uint8)},
			expected: ErrIndexOutOfRange,
		},
		{
			name:     "InvalidOffsetType",
			cp:       ClassProperty{Type: Scalar, ComponentType: Uint8, Array: true},
			input:    []interface{}{[]int{1}},
			opts:     []BuilderOption{WithArrayOffsetType(Int32)},
			expected: ErrSchemaInconsistency,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := NewSinglePropertyTable("p", &testCase.cp, testCase.input, testCase.enum, testCase.opts...)

			assert.ErrorIs(t, err, testCase.expected)
		})
	}
}

func TestTableBuilder(t *testing.T) {
	schema := &Schema{
		Classes: map[string]*MetadataClass{
			"c": {
				Properties: map[string]*ClassProperty{
					"a": {Type: Scalar, ComponentType: Uint8},
					"b": {Type: Boolean},
				},
			},
		},
	}

	t.Run("UnknownClass", func(t *testing.T) {
		_, err := NewTableBuilder(schema, "nope", 1)

		assert.ErrorIs(t, err, ErrSchemaInconsistency)
	})

	t.Run("NegativeCount", func(t *testing.T) {
		_, err := NewTableBuilder(schema, "c", -1)

		assert.Error(t, err)
	})

	t.Run("NilSchema", func(t *testing.T) {
		assert.PanicsWithValue(t, "tiles3d: nil schema", func() {
			_, _ = NewTableBuilder(nil, "c", 1)
		})
	})

	t.Run("Lifecycle", func(t *testing.T) {
		b, err := NewTableBuilder(schema, "c", 2)
		require.NoError(t, err)

		assert.ErrorIs(t, b.AddProperty("nope", []interface{}{1, 2}), ErrUnknownProperty)
		assert.Error(t, b.AddProperty("a", []interface{}{1}))
		require.NoError(t, b.AddProperty("a", []interface{}{1, 2}))
		assert.Error(t, b.AddProperty("a", []interface{}{1, 2}))
		require.NoError(t, b.AddProperty("b", []interface{}{false, true}))

		bpt, err := b.Build()
		require.NoError(t, err)
		assert.Equal(t, 2, bpt.PropertyTable.Count)
		assert.Len(t, bpt.BufferViewsData, 2)
		assert.Equal(t, []interface{}{uint64(1), uint64(2)}, decodeAll(t, bpt, "a"))
		assert.Equal(t, []interface{}{false, true}, decodeAll(t, bpt, "b"))

		_, err = b.Build()
		assert.Error(t, err)
		assert.Error(t, b.AddProperty("b", []interface{}{true, true}))
	})
}
