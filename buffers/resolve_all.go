// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package buffers

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// ResolveAll resolves every URI with r, fetching at most
// DefaultConcurrency URIs at once unless WithConcurrency says
// otherwise. The i-th result holds the bytes of uris[i].
//
// The first error cancels the context passed to the remaining
// resolutions and is returned. Duplicate URIs are resolved once and
// share one result slice.
func ResolveAll(ctx context.Context, r Resolver, uris []string, opts ...Option) ([][]byte, error) {
	if r == nil {
		fmtPanic("nil resolver")
	}
	o := applyOptions(opts)

	unique := make(map[string]int, len(uris))
	var distinct []string
	for _, uri := range uris {
		if _, ok := unique[uri]; !ok {
			unique[uri] = len(distinct)
			distinct = append(distinct, uri)
		}
	}

	start := time.Now()
	fetched := make([][]byte, len(distinct))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, uri := range distinct {
		g.Go(func() error {
			data, err := r.Resolve(gctx, uri)
			if err != nil {
				o.logger.WithURI(uri).Warn("resolve failed", "error", err)
				return err
			}
			fetched[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([][]byte, len(uris))
	var total int
	for i, uri := range uris {
		out[i] = fetched[unique[uri]]
		total += len(out[i])
	}
	o.logger.Debug("resolved buffers",
		"uris", len(distinct),
		"bytes", total,
		"elapsed", time.Since(start))
	return out, nil
}
