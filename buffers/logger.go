// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package buffers

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with the field names used when resolving
// buffers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger writing to the given handler. If handler
// is nil, a text handler writing to standard error at the Info level
// is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithURI returns a Logger that tags every record with a buffer URI.
func (l *Logger) WithURI(uri string) *Logger {
	return &Logger{
		Logger: l.Logger.With("uri", redactURI(uri)),
	}
}

// redactURI shortens data URIs, which can be arbitrarily long, to
// their header.
func redactURI(uri string) string {
	const maxLen = 48
	if IsDataURI(uri) && len(uri) > maxLen {
		return uri[:maxLen] + "..."
	}
	return uri
}
