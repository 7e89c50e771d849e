// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tiles3d

import (
	"fmt"
	"strings"
)

// String returns a summary of the binary property table. The returned
// value is a summary and not meant to be exhaustive.
func (t *BinaryPropertyTable) String() string {
	var b strings.Builder
	b.WriteString("BinaryPropertyTable{")
	stringKey(&b, "Class")
	b.WriteString(t.PropertyTable.Class)
	stringKey(&b, ",Count")
	fmt.Fprint(&b, t.PropertyTable.Count)
	stringKey(&b, ",Properties")
	b.WriteByte('[')
	for i, id := range sortedKeys(t.PropertyTable.Properties) {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(id)
		if cp, ok := t.MetadataClass.Properties[id]; ok && cp != nil {
			b.WriteByte(':')
			b.WriteString(propertyTypeString(cp))
		}
	}
	b.WriteByte(']')
	stringKey(&b, ",BufferViews")
	b.WriteByte('[')
	for i, v := range t.BufferViewsData {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d bytes", len(v))
	}
	b.WriteString("]}")
	return b.String()
}

func stringKey(b *strings.Builder, key string) {
	b.WriteString(key)
	b.WriteByte(':')
}

// propertyTypeString describes a class property's type compactly, for
// example "VEC3<FLOAT32>[2]" for a fixed-length array of two FLOAT32
// vectors, or "STRING[]" for a variable-length string array.
func propertyTypeString(cp *ClassProperty) string {
	var b strings.Builder
	b.WriteString(cp.Type.String())
	switch {
	case cp.Type == Enum:
		fmt.Fprintf(&b, "<%s>", cp.EnumType)
	case cp.Type.IsNumeric():
		fmt.Fprintf(&b, "<%s>", cp.ComponentType)
	}
	if cp.Array {
		b.WriteByte('[')
		if cp.Count > 0 {
			fmt.Fprint(&b, cp.Count)
		}
		b.WriteByte(']')
	}
	return b.String()
}
