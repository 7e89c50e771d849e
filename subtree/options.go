// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package subtree

import (
	"github.com/gogama/tiles3d/buffers"
)

type options struct {
	resolver    buffers.Resolver
	logger      *buffers.Logger
	resolveOpts []buffers.Option
}

// Option configures Parse and Read.
type Option func(*options)

// WithResolver sets the resolver used to fetch external buffers. Without
// one, only buffers given as data URIs can be read.
func WithResolver(r buffers.Resolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *buffers.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = buffers.NoopLogger()
		}
		o.logger = l
	}
}

// WithConcurrency sets the maximum number of external buffers fetched
// at once. It panics if n is less than 1.
func WithConcurrency(n int) Option {
	opt := buffers.WithConcurrency(n)
	return func(o *options) {
		o.resolveOpts = append(o.resolveOpts, opt)
	}
}

func applyOptions(opts []Option) options {
	o := options{
		logger: buffers.NoopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.resolveOpts = append(o.resolveOpts, buffers.WithLogger(o.logger))
	return o
}
