// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package subtree

import (
	"io"

	json "github.com/goccy/go-json"
)

// chunkAlignment is the alignment of the JSON and binary chunks of a
// binary subtree.
const chunkAlignment = 8

// Encode writes a binary subtree holding doc as the JSON chunk and bin
// as the binary chunk. The JSON chunk is padded with spaces and the
// binary chunk with zeros to multiples of 8 bytes. Buffers of doc
// without a URI refer to bin.
func Encode(w io.Writer, doc *Document, bin []byte) (n int, err error) {
	if doc == nil {
		textPanic("nil document")
	}
	var j []byte
	if j, err = json.Marshal(doc); err != nil {
		return 0, wrapErr("failed to encode JSON", err)
	}
	jsonLen := padded(len(j))
	binLen := padded(len(bin))

	b := make([]byte, HeaderLen+jsonLen+binLen)
	Header{
		Version:          Version,
		JSONByteLength:   uint64(jsonLen),
		BinaryByteLength: uint64(binLen),
	}.write(b)
	copy(b[HeaderLen:], j)
	for i := HeaderLen + len(j); i < HeaderLen+jsonLen; i++ {
		b[i] = ' '
	}
	copy(b[HeaderLen+jsonLen:], bin)

	return w.Write(b)
}

func padded(n int) int {
	return (n + chunkAlignment - 1) / chunkAlignment * chunkAlignment
}

// PackBits packs one bit per element of available into an LSB-first
// availability bitstream.
func PackBits(available []bool) []byte {
	b := make([]byte, (len(available)+7)/8)
	for i, ok := range available {
		if ok {
			b[i/8] |= 1 << (i % 8)
		}
	}
	return b
}
