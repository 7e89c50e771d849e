// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package buffers

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// IsGzipped reports whether data begins with the gzip magic number.
func IsGzipped(data []byte) bool {
	return bytes.HasPrefix(data, gzipMagic)
}

// IsZstd reports whether data begins with the zstd frame magic number.
func IsZstd(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

// Decode decompresses data if it is a gzip or zstd payload, and
// otherwise returns data unchanged.
func Decode(data []byte) ([]byte, error) {
	switch {
	case IsGzipped(data):
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, wrapErr("gzip header", err)
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, wrapErr("gzip payload", err)
		}
		return out, nil
	case IsZstd(data):
		d, err := zstd.NewReader(nil)
		if err != nil {
			return nil, wrapErr("zstd decoder", err)
		}
		defer d.Close()
		out, err := d.DecodeAll(data, nil)
		if err != nil {
			return nil, wrapErr("zstd payload", err)
		}
		return out, nil
	default:
		return data, nil
	}
}
