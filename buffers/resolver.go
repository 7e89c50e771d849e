// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package buffers

import (
	"context"
	"encoding/base64"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Resolver turns the URI of a buffer into the buffer's bytes.
//
// Implementations must be safe for concurrent use. The returned error
// should satisfy errors.Is(err, ErrNotFound) when the URI names no
// buffer.
type Resolver interface {
	Resolve(ctx context.Context, uri string) ([]byte, error)
}

// DirResolver resolves relative URIs against a local directory.
type DirResolver struct {
	root   string
	logger *Logger
}

// NewDirResolver returns a DirResolver rooted at dir.
func NewDirResolver(dir string, opts ...Option) *DirResolver {
	o := applyOptions(opts)
	return &DirResolver{
		root:   dir,
		logger: o.logger,
	}
}

// Root returns the directory relative URIs are resolved against.
func (r *DirResolver) Root() string {
	return r.root
}

// Resolve reads the buffer at uri. A data URI is decoded in place. Any
// other URI must be a relative path that stays inside the root
// directory; percent-escapes in it are decoded.
func (r *DirResolver) Resolve(ctx context.Context, uri string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if IsDataURI(uri) {
		return resolveDataURI(uri)
	}
	p, err := url.PathUnescape(uri)
	if err != nil {
		return nil, fmtErr("uri %q: %w", uri, ErrInvalidURI)
	}
	p = filepath.FromSlash(p)
	if !filepath.IsLocal(p) {
		return nil, fmtErr("uri %q is not inside %s: %w", uri, r.root, ErrInvalidURI)
	}
	path := filepath.Join(r.root, p)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapErr("uri %q", err, uri)
	}
	r.logger.WithURI(uri).Debug("read buffer file", "path", path, "bytes", len(data))
	return Decode(data)
}

// MemoryResolver serves buffers stored in memory. It is safe for
// concurrent use.
type MemoryResolver struct {
	mu      sync.RWMutex
	buffers map[string][]byte
}

// NewMemoryResolver returns an empty MemoryResolver.
func NewMemoryResolver() *MemoryResolver {
	return &MemoryResolver{
		buffers: make(map[string][]byte),
	}
}

// Put stores a copy of data under uri, replacing any buffer already
// stored there.
func (r *MemoryResolver) Put(uri string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buffers[uri] = append([]byte(nil), data...)
}

// Resolve returns a copy of the buffer stored under uri, or the
// decoded payload of a data URI.
func (r *MemoryResolver) Resolve(ctx context.Context, uri string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if IsDataURI(uri) {
		return resolveDataURI(uri)
	}

	r.mu.RLock()
	data, ok := r.buffers[uri]
	r.mu.RUnlock()

	if !ok {
		return nil, wrapErr("uri %q", ErrNotFound, uri)
	}
	return Decode(append([]byte(nil), data...))
}

const dataScheme = "data:"

// IsDataURI reports whether uri is an RFC 2397 data URI, which every
// Resolver in this package decodes in place.
func IsDataURI(uri string) bool {
	return len(uri) >= len(dataScheme) && strings.EqualFold(uri[:len(dataScheme)], dataScheme)
}

// resolveDataURI decodes an RFC 2397 data URI. The media type is
// ignored.
func resolveDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(uri[len(dataScheme):], ",")
	if !ok {
		return nil, fmtErr("data uri without comma: %w", ErrInvalidURI)
	}
	var data []byte
	if strings.HasSuffix(strings.ToLower(header), ";base64") {
		var err error
		if data, err = base64.StdEncoding.DecodeString(payload); err != nil {
			if data, err = base64.RawStdEncoding.DecodeString(payload); err != nil {
				return nil, fmtErr("data uri payload: %v: %w", err, ErrInvalidURI)
			}
		}
	} else {
		s, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmtErr("data uri payload: %v: %w", err, ErrInvalidURI)
		}
		data = []byte(s)
	}
	return Decode(data)
}
