// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package subtree

import (
	"bytes"
	"io"

	flatbuffers "github.com/google/flatbuffers/go"
)

const (
	// magicLen is the length of the subtree magic number in bytes.
	magicLen = 4
	// HeaderLen is the length of a binary subtree header in bytes.
	HeaderLen = magicLen + flatbuffers.SizeUint32 + 2*flatbuffers.SizeUint64
	// Version is the only binary subtree version this package reads
	// and writes.
	Version = 1
	// chunkMaxLen is a limit, not imposed by the file format, on the
	// length of either chunk this package will read, so that a corrupt
	// header cannot cause a huge allocation.
	chunkMaxLen = 1 << 30
)

// magic contains the binary subtree magic number.
var magic = [magicLen]byte{'s', 'u', 'b', 't'}

// Header is the fixed-length header of a binary subtree.
type Header struct {
	// Version is the binary subtree format version.
	Version uint32
	// JSONByteLength is the length of the JSON chunk, including
	// trailing padding.
	JSONByteLength uint64
	// BinaryByteLength is the length of the binary chunk, including
	// trailing padding. It is zero if there is no binary chunk.
	BinaryByteLength uint64
}

// IsBinary reports whether data starts with the binary subtree magic
// number. It does not check anything beyond the magic number.
func IsBinary(data []byte) bool {
	return bytes.HasPrefix(data, magic[:])
}

// ReadHeader reads a binary subtree header from a stream and returns
// it if the magic number and version are valid.
//
// Calling this function results in HeaderLen bytes being read from
// the stream (unless fewer bytes were available, in which case all
// available bytes are consumed).
func ReadHeader(r io.Reader) (Header, error) {
	b := make([]byte, HeaderLen)
	if _, err := io.ReadFull(r, b); err != nil {
		return Header{}, wrapErr("failed to read header", err)
	}
	return parseHeader(b)
}

func parseHeader(b []byte) (Header, error) {
	if len(b) < HeaderLen {
		return Header{}, fmtErr("header needs %d bytes, have %d: %w", HeaderLen, len(b), io.ErrUnexpectedEOF)
	}
	if !IsBinary(b) {
		return Header{}, fmtErr("%q: %w", b[:magicLen], ErrInvalidMagic)
	}
	h := Header{
		Version:          flatbuffers.GetUint32(b[magicLen:]),
		JSONByteLength:   flatbuffers.GetUint64(b[magicLen+flatbuffers.SizeUint32:]),
		BinaryByteLength: flatbuffers.GetUint64(b[magicLen+flatbuffers.SizeUint32+flatbuffers.SizeUint64:]),
	}
	if h.Version != Version {
		return Header{}, fmtErr("version %d: %w", h.Version, ErrUnsupportedVersion)
	}
	if h.JSONByteLength > chunkMaxLen || h.BinaryByteLength > chunkMaxLen {
		return Header{}, fmtErr("chunk lengths %d and %d exceed limit %d: %w", h.JSONByteLength, h.BinaryByteLength, chunkMaxLen, ErrInvalidSubtree)
	}
	return h, nil
}

// write writes the header to a byte slice of at least HeaderLen bytes.
func (h Header) write(b []byte) {
	copy(b, magic[:])
	flatbuffers.WriteUint32(b[magicLen:], h.Version)
	flatbuffers.WriteUint64(b[magicLen+flatbuffers.SizeUint32:], h.JSONByteLength)
	flatbuffers.WriteUint64(b[magicLen+flatbuffers.SizeUint32+flatbuffers.SizeUint64:], h.BinaryByteLength)
}
