// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package buffers resolves the URIs of external binary buffers
// referenced by 3D Tiles property tables and subtree files.
//
// A Resolver turns a buffer URI into bytes. DirResolver reads buffers
// relative to a local directory and MemoryResolver serves them from
// memory. Both understand base64 and percent-encoded data URIs, and
// both transparently decompress gzip and zstd payloads. ResolveAll
// fetches many URIs concurrently with bounded parallelism.
package buffers
