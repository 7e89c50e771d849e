// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package subtree

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMagic is returned when binary subtree data does not
	// start with the "subt" magic number.
	ErrInvalidMagic = errors.New("invalid magic number")
	// ErrUnsupportedVersion is returned when a binary subtree has a
	// version other than Version.
	ErrUnsupportedVersion = errors.New("unsupported version")
	// ErrInvalidSubtree is returned when the subtree JSON is malformed,
	// refers to buffers or buffer views that do not exist, or disagrees
	// with the implicit tiling it is read against.
	ErrInvalidSubtree = errors.New("invalid subtree")
)

const packageName = "subtree: "

func fmtErr(format string, a ...interface{}) error {
	return fmt.Errorf(packageName+format, a...)
}

func wrapErr(text string, err error, a ...interface{}) error {
	return fmt.Errorf(packageName+text+": %w", append(a, err)...)
}

func textPanic(text string) {
	panic(packageName + text)
}
