// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package implicit

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidVolume is returned when a bounding volume does not
	// have the shape its kind requires, or cannot be the root of an
	// implicit tileset.
	ErrInvalidVolume = errors.New("invalid bounding volume")
	// ErrInvalidCoordinates is returned when tile coordinates lie
	// outside their level, or the level is too deep.
	ErrInvalidCoordinates = errors.New("invalid tile coordinates")
)

const packageName = "implicit: "

func fmtErr(format string, a ...interface{}) error {
	return fmt.Errorf(packageName+format, a...)
}

func wrapErr(text string, err error, a ...interface{}) error {
	return fmt.Errorf(packageName+text+": %w", append(a, err)...)
}

func fmtPanic(format string, a ...interface{}) {
	panic(fmt.Sprintf(packageName+format, a...))
}
