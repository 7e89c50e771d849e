// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tiles3d

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComponentType(t *testing.T) {
	testCases := []struct {
		ct         ComponentType
		size       int
		signed     bool
		unsigned   bool
		float      bool
		offsetType bool
	}{
		{Int8, 1, true, false, false, false},
		{Uint8, 1, false, true, false, true},
		{Int16, 2, true, false, false, false},
		{Uint16, 2, false, true, false, true},
		{Int32, 4, true, false, false, false},
		{Uint32, 4, false, true, false, true},
		{Int64, 8, true, false, false, false},
		{Uint64, 8, false, true, false, true},
		{Float32, 4, false, false, true, false},
		{Float64, 8, false, false, true, false},
		{"", 0, false, false, false, false},
		{"INT128", 0, false, false, false, false},
	}

	for _, testCase := range testCases {
		t.Run(string(testCase.ct), func(t *testing.T) {
			assert.Equal(t, testCase.size, testCase.ct.Size())
			assert.Equal(t, testCase.size > 0, testCase.ct.Valid())
			assert.Equal(t, testCase.signed, testCase.ct.IsSigned())
			assert.Equal(t, testCase.unsigned, testCase.ct.IsUnsigned())
			assert.Equal(t, testCase.float, testCase.ct.IsFloat())
			assert.Equal(t, testCase.offsetType, testCase.ct.ValidOffsetType())
			assert.Equal(t, string(testCase.ct), testCase.ct.String())
		})
	}
}

func TestOffsetTypeOrDefault(t *testing.T) {
	assert.Equal(t, Uint32, offsetTypeOrDefault(""))
	assert.Equal(t, Uint8, offsetTypeOrDefault(Uint8))
}

func TestPropertyType(t *testing.T) {
	testCases := []struct {
		pt      PropertyType
		n       int
		numeric bool
		valid   bool
	}{
		{Scalar, 1, true, true},
		{Vec2, 2, true, true},
		{Vec3, 3, true, true},
		{Vec4, 4, true, true},
		{Mat2, 4, true, true},
		{Mat3, 9, true, true},
		{Mat4, 16, true, true},
		{Enum, 1, true, true},
		{String, 0, false, true},
		{Boolean, 0, false, true},
		{"VEC5", 0, false, false},
	}

	for _, testCase := range testCases {
		t.Run(string(testCase.pt), func(t *testing.T) {
			assert.Equal(t, testCase.n, testCase.pt.ComponentCount())
			assert.Equal(t, testCase.numeric, testCase.pt.IsNumeric())
			assert.Equal(t, testCase.valid, testCase.pt.Valid())
		})
	}
}
