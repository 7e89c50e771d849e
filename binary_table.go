// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tiles3d

// BinaryEnumInfo carries the enum definitions a property table's
// class refers to, keyed by enum name.
type BinaryEnumInfo struct {
	Enums map[string]*MetadataEnum
}

// enumValueType returns the storage type of the named enum.
func (info *BinaryEnumInfo) enumValueType(name string) (ComponentType, error) {
	e, ok := info.Enums[name]
	if !ok || e == nil {
		return "", wrapErr("enum %q not found", ErrSchemaInconsistency, name)
	}
	return e.StorageType(), nil
}

// BinaryBufferStructure is the set of buffer and buffer view
// descriptors referenced by index from property table properties.
type BinaryBufferStructure struct {
	Buffers     []Buffer     `json:"buffers,omitempty"`
	BufferViews []BufferView `json:"bufferViews,omitempty"`
}

// BinaryPropertyTable resolves one property table to concrete bytes.
//
// A BinaryPropertyTable is immutable once constructed: BufferViewsData
// holds read-only sub-slices of the buffers it was constructed from,
// and neither those buffers nor the descriptors may be modified
// afterward. Under that condition it is safe for concurrent use.
type BinaryPropertyTable struct {
	MetadataClass  *MetadataClass
	PropertyTable  *PropertyTable
	BinaryEnumInfo BinaryEnumInfo
	BinaryBufferStructure
	// BuffersData holds the raw bytes of each buffer, indexed like
	// Buffers.
	BuffersData [][]byte
	// BufferViewsData holds the bytes of each buffer view, indexed like
	// BufferViews.
	BufferViewsData [][]byte
}

// NewBinaryPropertyTable resolves a property table against a schema
// and a set of raw buffers, returning ErrSchemaInconsistency if the
// table's class is not in the schema or any buffer view lies outside
// its buffer.
func NewBinaryPropertyTable(schema *Schema, table *PropertyTable, structure BinaryBufferStructure, buffers [][]byte) (*BinaryPropertyTable, error) {
	if schema == nil {
		textPanic("nil schema")
	} else if table == nil {
		textPanic("nil property table")
	}

	class, err := schema.Class(table.Class)
	if err != nil {
		return nil, err
	}

	viewsData, err := resolveBufferViews(structure, buffers)
	if err != nil {
		return nil, err
	}

	return &BinaryPropertyTable{
		MetadataClass:         class,
		PropertyTable:         table,
		BinaryEnumInfo:        BinaryEnumInfo{Enums: schema.Enums},
		BinaryBufferStructure: structure,
		BuffersData:           buffers,
		BufferViewsData:       viewsData,
	}, nil
}

// ResolveViews slices each buffer view out of its buffer without
// copying. It returns an error wrapping ErrSchemaInconsistency if a
// buffer view refers to a missing buffer or lies outside its buffer.
func (s BinaryBufferStructure) ResolveViews(buffers [][]byte) ([][]byte, error) {
	return resolveBufferViews(s, buffers)
}

// resolveBufferViews slices each buffer view out of its buffer without
// copying.
func resolveBufferViews(structure BinaryBufferStructure, buffers [][]byte) ([][]byte, error) {
	views := make([][]byte, len(structure.BufferViews))
	for i, bv := range structure.BufferViews {
		if bv.Buffer < 0 || bv.Buffer >= len(buffers) {
			return nil, wrapErr("buffer view %d refers to missing buffer %d", ErrSchemaInconsistency, i, bv.Buffer)
		}
		b := buffers[bv.Buffer]
		if bv.ByteOffset < 0 || bv.ByteLength < 0 || bv.ByteOffset > len(b) || bv.ByteLength > len(b)-bv.ByteOffset {
			return nil, wrapErr("buffer view %d [%d, %d) outside buffer %d of %d bytes", ErrSchemaInconsistency, i, bv.ByteOffset, bv.ByteOffset+bv.ByteLength, bv.Buffer, len(b))
		}
		end := bv.ByteOffset + bv.ByteLength
		views[i] = b[bv.ByteOffset:end:end]
	}
	return views, nil
}

// bufferView returns the bytes of the buffer view with the given index.
func (t *BinaryPropertyTable) bufferView(propertyID, role string, index int) ([]byte, error) {
	if index < 0 || index >= len(t.BufferViewsData) {
		return nil, wrapErr("property %q %s refer to missing buffer view %d", ErrSchemaInconsistency, propertyID, role, index)
	}
	return t.BufferViewsData[index], nil
}

// alignment is the byte alignment of buffer views in a compacted
// binary property table.
const alignment = 8

// Compact returns a copy of the table whose buffer views are packed
// into a single buffer, each view starting at an 8-byte aligned offset
// and the buffer padded to a multiple of 8 bytes. This is the layout of
// the binary chunk of a 3D Tiles binary file.
func (t *BinaryPropertyTable) Compact() *BinaryPropertyTable {
	var size int
	for _, v := range t.BufferViewsData {
		size += padded(len(v))
	}
	buffer := make([]byte, 0, size)
	views := make([]BufferView, len(t.BufferViewsData))
	viewsData := make([][]byte, len(t.BufferViewsData))
	for i, v := range t.BufferViewsData {
		offset := len(buffer)
		buffer = append(buffer, v...)
		buffer = append(buffer, make([]byte, padded(len(v))-len(v))...)
		views[i] = BufferView{
			Name:       t.BufferViews[i].Name,
			ByteOffset: offset,
			ByteLength: len(v),
		}
		viewsData[i] = buffer[offset : offset+len(v) : offset+len(v)]
	}
	return &BinaryPropertyTable{
		MetadataClass:  t.MetadataClass,
		PropertyTable:  t.PropertyTable,
		BinaryEnumInfo: t.BinaryEnumInfo,
		BinaryBufferStructure: BinaryBufferStructure{
			Buffers:     []Buffer{{ByteLength: len(buffer)}},
			BufferViews: views,
		},
		BuffersData:     [][]byte{buffer},
		BufferViewsData: viewsData,
	}
}

func padded(n int) int {
	return (n + alignment - 1) / alignment * alignment
}
