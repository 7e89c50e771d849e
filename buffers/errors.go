// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package buffers

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNotFound is returned when a buffer URI does not name an
	// existing buffer. It is the same value as os.ErrNotExist, so
	// file system errors from DirResolver match it too.
	ErrNotFound = os.ErrNotExist
	// ErrInvalidURI is returned when a URI is malformed or refers to a
	// location outside the resolver's root.
	ErrInvalidURI = errors.New("invalid buffer URI")
)

const packageName = "buffers: "

func fmtErr(format string, a ...interface{}) error {
	return fmt.Errorf(packageName+format, a...)
}

func wrapErr(text string, err error, a ...interface{}) error {
	return fmt.Errorf(packageName+text+": %w", append(a, err)...)
}

func fmtPanic(format string, a ...interface{}) {
	panic(fmt.Sprintf(packageName+format, a...))
}
