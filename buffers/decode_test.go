// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package buffers

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipped(t *testing.T, data []byte) []byte {
	var b bytes.Buffer
	w := gzip.NewWriter(&b)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return b.Bytes()
}

func zstded(t *testing.T, data []byte) []byte {
	e, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer e.Close()
	return e.EncodeAll(data, nil)
}

func TestDecode(t *testing.T) {
	payload := bytes.Repeat([]byte{1, 2, 3, 4, 5}, 100)

	testCases := []struct {
		name   string
		data   []byte
		gzip   bool
		zstd   bool
		expect []byte
	}{
		{"Nil", nil, false, false, nil},
		{"Plain", payload, false, false, payload},
		{"AlmostGzip", []byte{0x1f}, false, false, []byte{0x1f}},
		{"Gzip", gzipped(t, payload), true, false, payload},
		{"Zstd", zstded(t, payload), false, true, payload},
		{"GzipEmpty", gzipped(t, nil), true, false, []byte{}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.gzip, IsGzipped(testCase.data))
			assert.Equal(t, testCase.zstd, IsZstd(testCase.data))

			actual, err := Decode(testCase.data)

			require.NoError(t, err)
			assert.Equal(t, testCase.expect, actual)
		})
	}
}

func TestDecode_Error(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{"GzipTruncated", []byte{0x1f, 0x8b, 0x08}},
		{"ZstdGarbage", []byte{0x28, 0xb5, 0x2f, 0xfd, 0xff, 0xff, 0xff, 0xff}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := Decode(testCase.data)

			assert.Error(t, err)
		})
	}
}
