// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tiles3d

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaInconsistency is returned when a class, property, enum,
	// or buffer view referenced by a schema or property table is missing
	// or has the wrong type. Use errors.Is to test for it: the more
	// specific errors below all wrap it.
	ErrSchemaInconsistency = errors.New("schema inconsistency")
	// ErrUnknownProperty is returned when a property ID is not defined
	// by the metadata class.
	ErrUnknownProperty = fmt.Errorf("%w: unknown property", ErrSchemaInconsistency)
	// ErrMissingColumn is returned when a property is defined by the
	// metadata class but the property table has no column for it.
	ErrMissingColumn = fmt.Errorf("%w: missing column", ErrSchemaInconsistency)
	// ErrMissingPropertyModel is returned when no property model was
	// constructed for a property.
	ErrMissingPropertyModel = fmt.Errorf("%w: missing property model", ErrSchemaInconsistency)
	// ErrIndexOutOfRange is returned when a row index, element index,
	// or offset read from an offsets buffer falls outside the bounds of
	// a buffer or table.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrUnknownEnumValue is returned when an enum name has no matching
	// entry in its enum definition while encoding, or an enum code has
	// no matching entry while decoding.
	ErrUnknownEnumValue = errors.New("unknown enum value")
)

const packageName = "tiles3d: "

func textErr(text string) error {
	return errors.New(packageName + text)
}

func fmtErr(format string, a ...interface{}) error {
	return fmt.Errorf(packageName+format, a...)
}

func wrapErr(text string, err error, a ...interface{}) error {
	return fmt.Errorf(packageName+text+": %w", append(a, err)...)
}

func textPanic(text string) {
	panic(packageName + text)
}

func fmtPanic(format string, a ...interface{}) {
	panic(fmt.Sprintf(packageName+format, a...))
}
