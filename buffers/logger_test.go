// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package buffers

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	t.Run("WithURI", func(t *testing.T) {
		var b bytes.Buffer
		l := NewLogger(slog.NewTextHandler(&b, nil))

		l.WithURI("a.bin").Info("hello")

		assert.Contains(t, b.String(), "msg=hello uri=a.bin")
	})

	t.Run("Default", func(t *testing.T) {
		l := NewLogger(nil)

		assert.True(t, l.Enabled(context.Background(), slog.LevelInfo))
		assert.False(t, l.Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("Noop", func(t *testing.T) {
		l := NoopLogger()

		assert.False(t, l.Enabled(context.Background(), slog.LevelError))
	})
}
