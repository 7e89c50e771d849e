// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package implicit

import (
	"testing"

	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// faceTokens holds the token of the level 0 cell of each S2 face.
var faceTokens = [6]string{"1", "3", "5", "7", "9", "b"}

func TestS2Cell_CellID(t *testing.T) {
	for face, token := range faceTokens {
		id, err := (&S2Cell{Token: token}).CellID()

		require.NoError(t, err)
		assert.Equal(t, 0, id.Level())
		assert.Equal(t, face, id.Face())
	}

	_, err := (&S2Cell{Token: "zz"}).CellID()
	assert.ErrorIs(t, err, ErrInvalidVolume)

	_, err = (&S2Cell{Token: "X"}).CellID()
	assert.ErrorIs(t, err, ErrInvalidVolume)
}

func TestDeriveS2(t *testing.T) {
	testCases := []struct {
		name     string
		root     S2Cell
		c        Coordinates
		expected S2Cell
	}{
		{"Identity", S2Cell{"3", 0, 10}, QuadtreeCoordinates(0, 0, 0), S2Cell{"3", 0, 10}},
		{"Identity.Octree", S2Cell{"3", 0, 10}, OctreeCoordinates(0, 0, 0, 0), S2Cell{"3", 0, 10}},
		{"Face0.X", S2Cell{"1", 0, 10}, QuadtreeCoordinates(1, 1, 0), S2Cell{"1c", 0, 10}},
		{"Face0.Y", S2Cell{"1", 0, 10}, QuadtreeCoordinates(1, 0, 1), S2Cell{"0c", 0, 10}},
		{"Face1.X", S2Cell{"3", 0, 10}, QuadtreeCoordinates(1, 1, 0), S2Cell{"2c", 0, 10}},
		{"Face1.Y", S2Cell{"3", 0, 10}, QuadtreeCoordinates(1, 0, 1), S2Cell{"3c", 0, 10}},
		{"Face0.Level2", S2Cell{"1", 0, 10}, QuadtreeCoordinates(2, 0, 0), S2Cell{"01", 0, 10}},
		{"Face2.Level2", S2Cell{"5", 0, 10}, QuadtreeCoordinates(2, 3, 1), S2Cell{"59", 0, 10}},
		{"Face5.Level3", S2Cell{"b", 0, 10}, QuadtreeCoordinates(3, 2, 6), S2Cell{"b94", 0, 10}},
		{"Octree.Lower", S2Cell{"5", 0, 100}, OctreeCoordinates(2, 3, 1, 2), S2Cell{"59", 0, 50}},
		{"Octree.Lowest", S2Cell{"5", -8, 8}, OctreeCoordinates(3, 0, 0, 0), S2Cell{"404", -8, 0}},
		{"Octree.Upper", S2Cell{"5", 0, 100}, OctreeCoordinates(2, 3, 1, 3), S2Cell{"59", 50, 100}},
		{"Octree.OddZ", S2Cell{"1", 0, 100}, OctreeCoordinates(2, 0, 0, 1), S2Cell{"01", 50, 100}},
		{"Octree.EvenZ", S2Cell{"1", 0, 100}, OctreeCoordinates(2, 0, 0, 2), S2Cell{"01", 0, 50}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			actual, err := deriveS2(testCase.root, testCase.c)

			require.NoError(t, err)
			assert.Equal(t, testCase.expected, actual)
		})
	}
}

func TestDeriveS2_FaceParity(t *testing.T) {
	for face := 0; face < 6; face += 2 {
		even := S2Cell{Token: faceTokens[face]}
		odd := S2Cell{Token: faceTokens[face+1]}

		for _, c := range []Coordinates{QuadtreeCoordinates(1, 1, 0), QuadtreeCoordinates(1, 0, 1)} {
			swapped := QuadtreeCoordinates(c.Level, c.Y, c.X)

			e, err := deriveS2(even, c)
			require.NoError(t, err)
			o, err := deriveS2(odd, swapped)
			require.NoError(t, err)

			eid, err := e.CellID()
			require.NoError(t, err)
			oid, err := o.CellID()
			require.NoError(t, err)
			assert.Equal(t, eid.Pos(), oid.Pos(), "face %d %s", face, c)
			assert.Equal(t, face, eid.Face())
			assert.Equal(t, face+1, oid.Face())
		}
	}
}

func TestDeriveS2_Containment(t *testing.T) {
	root := S2Cell{Token: "5", MinimumHeight: -10, MaximumHeight: 10}
	rootID, err := root.CellID()
	require.NoError(t, err)

	for _, c := range []Coordinates{
		QuadtreeCoordinates(4, 9, 13),
		QuadtreeCoordinates(MaxS2Level, 1<<29, 12345),
	} {
		actual, err := deriveS2(root, c)
		require.NoError(t, err)

		id := s2.CellIDFromToken(actual.Token)
		assert.True(t, id.IsValid())
		assert.Equal(t, c.Level, id.Level())
		assert.True(t, rootID.Contains(id))
	}
}

func TestDeriveS2_Error(t *testing.T) {
	t.Run("NotFace", func(t *testing.T) {
		_, err := deriveS2(S2Cell{Token: "1c"}, QuadtreeCoordinates(1, 0, 0))

		assert.ErrorIs(t, err, ErrInvalidVolume)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		_, err := deriveS2(S2Cell{Token: "?"}, QuadtreeCoordinates(1, 0, 0))

		assert.ErrorIs(t, err, ErrInvalidVolume)
	})

	t.Run("TooDeep", func(t *testing.T) {
		_, err := deriveS2(S2Cell{Token: "1"}, QuadtreeCoordinates(MaxS2Level+1, 0, 0))

		assert.ErrorIs(t, err, ErrInvalidCoordinates)
	})
}
