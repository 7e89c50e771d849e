// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package buffers

// DefaultConcurrency is the number of URIs ResolveAll fetches at once
// unless WithConcurrency says otherwise.
const DefaultConcurrency = 8

type options struct {
	logger      *Logger
	concurrency int
}

// Option configures resolvers and ResolveAll.
type Option func(*options)

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithConcurrency sets the maximum number of URIs ResolveAll fetches
// at once. It panics if n is less than 1.
func WithConcurrency(n int) Option {
	if n < 1 {
		fmtPanic("concurrency must be at least 1, got %d", n)
	}
	return func(o *options) {
		o.concurrency = n
	}
}

func applyOptions(opts []Option) options {
	o := options{
		logger:      NoopLogger(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
