// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tiles3d

import (
	"bytes"
	"sort"

	json "github.com/goccy/go-json"
)

// Schema is a metadata schema: a set of classes of typed properties,
// plus the enums those properties may refer to.
type Schema struct {
	ID          string                    `json:"id,omitempty"`
	Name        string                    `json:"name,omitempty"`
	Description string                    `json:"description,omitempty"`
	Version     string                    `json:"version,omitempty"`
	Classes     map[string]*MetadataClass `json:"classes,omitempty"`
	Enums       map[string]*MetadataEnum  `json:"enums,omitempty"`
}

// MetadataClass is a named set of property definitions.
type MetadataClass struct {
	Name        string                    `json:"name,omitempty"`
	Description string                    `json:"description,omitempty"`
	Properties  map[string]*ClassProperty `json:"properties,omitempty"`
}

// ClassProperty is the schema definition of one column of a property
// table.
//
// Count is the number of elements per row of a fixed-length array
// property. A zero Count on an array property means the array is
// variable-length and its element ranges come from an array offsets
// buffer.
//
// Offset, Scale, Min, Max, NoData, and Default hold JSON-like values:
// float64, string, bool, or []interface{} nesting of those.
type ClassProperty struct {
	Name          string        `json:"name,omitempty"`
	Description   string        `json:"description,omitempty"`
	Type          PropertyType  `json:"type"`
	ComponentType ComponentType `json:"componentType,omitempty"`
	EnumType      string        `json:"enumType,omitempty"`
	Array         bool          `json:"array,omitempty"`
	Count         int           `json:"count,omitempty"`
	Normalized    bool          `json:"normalized,omitempty"`
	Offset        interface{}   `json:"offset,omitempty"`
	Scale         interface{}   `json:"scale,omitempty"`
	Min           interface{}   `json:"min,omitempty"`
	Max           interface{}   `json:"max,omitempty"`
	Required      bool          `json:"required,omitempty"`
	NoData        interface{}   `json:"noData,omitempty"`
	Default       interface{}   `json:"default,omitempty"`
	Semantic      string        `json:"semantic,omitempty"`
}

// IsVariableLengthArray reports whether the property is an array whose
// per-row length is given by an array offsets buffer.
func (cp *ClassProperty) IsVariableLengthArray() bool {
	return cp.Array && cp.Count == 0
}

// MetadataEnum is an enum definition: an ordered list of named integer
// codes stored with a fixed-width integer type.
type MetadataEnum struct {
	Name        string        `json:"name,omitempty"`
	Description string        `json:"description,omitempty"`
	ValueType   ComponentType `json:"valueType,omitempty"`
	Values      []EnumValue   `json:"values"`
}

// EnumValue is one named code of an enum.
type EnumValue struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Value       int64  `json:"value"`
}

// StorageType returns the component type enum codes are stored with,
// which is ValueType or DefaultEnumValueType if ValueType is empty.
func (e *MetadataEnum) StorageType() ComponentType {
	if e.ValueType == "" {
		return DefaultEnumValueType
	}
	return e.ValueType
}

// NameOf returns the name of the enum value having the given code.
func (e *MetadataEnum) NameOf(code int64) (string, bool) {
	for i := range e.Values {
		if e.Values[i].Value == code {
			return e.Values[i].Name, true
		}
	}
	return "", false
}

// CodeOf returns the code of the enum value having the given name.
func (e *MetadataEnum) CodeOf(name string) (int64, bool) {
	for i := range e.Values {
		if e.Values[i].Name == name {
			return e.Values[i].Value, true
		}
	}
	return 0, false
}

// PropertyTable describes a columnar table of Count rows whose columns
// are properties of Class.
type PropertyTable struct {
	Name       string                            `json:"name,omitempty"`
	Class      string                            `json:"class"`
	Count      int                               `json:"count"`
	Properties map[string]*PropertyTableProperty `json:"properties,omitempty"`
}

// PropertyTableProperty locates the binary data of one property table
// column. Values, ArrayOffsets and StringOffsets are buffer view
// indices. The Offset, Scale, Min and Max overrides take precedence
// over the class property's values.
type PropertyTableProperty struct {
	Values           int           `json:"values"`
	ArrayOffsets     *int          `json:"arrayOffsets,omitempty"`
	StringOffsets    *int          `json:"stringOffsets,omitempty"`
	ArrayOffsetType  ComponentType `json:"arrayOffsetType,omitempty"`
	StringOffsetType ComponentType `json:"stringOffsetType,omitempty"`
	Offset           interface{}   `json:"offset,omitempty"`
	Scale            interface{}   `json:"scale,omitempty"`
	Min              interface{}   `json:"min,omitempty"`
	Max              interface{}   `json:"max,omitempty"`
}

// Buffer describes a raw byte buffer. A Buffer with an empty URI
// refers to the binary chunk of the containing file.
type Buffer struct {
	Name       string `json:"name,omitempty"`
	URI        string `json:"uri,omitempty"`
	ByteLength int    `json:"byteLength"`
}

// BufferView is a byte range within a buffer.
type BufferView struct {
	Name       string `json:"name,omitempty"`
	Buffer     int    `json:"buffer"`
	ByteOffset int    `json:"byteOffset,omitempty"`
	ByteLength int    `json:"byteLength"`
}

// ParseSchema parses a JSON metadata schema and validates it. Numbers
// in JSON-like fields such as NoData and Default are kept as
// json.Number so that 64-bit integers survive exactly.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&s); err != nil {
		return nil, wrapErr("failed to parse schema", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParsePropertyTable parses a JSON property table descriptor.
func ParsePropertyTable(data []byte) (*PropertyTable, error) {
	var t PropertyTable
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, wrapErr("failed to parse property table", err)
	}
	if t.Count < 0 {
		return nil, wrapErr("property table count %d", ErrSchemaInconsistency, t.Count)
	}
	return &t, nil
}

// Class returns the class with the given name.
func (s *Schema) Class(name string) (*MetadataClass, error) {
	c, ok := s.Classes[name]
	if !ok || c == nil {
		return nil, wrapErr("class %q not in schema", ErrSchemaInconsistency, name)
	}
	return c, nil
}

// Enum returns the enum with the given name.
func (s *Schema) Enum(name string) (*MetadataEnum, error) {
	e, ok := s.Enums[name]
	if !ok || e == nil {
		return nil, wrapErr("enum %q not in schema", ErrSchemaInconsistency, name)
	}
	return e, nil
}

// Validate checks that every class property has a known type, that
// numeric properties have a valid component type, and that every enum
// property refers to an enum defined in the schema.
func (s *Schema) Validate() error {
	for _, name := range sortedKeys(s.Enums) {
		e := s.Enums[name]
		if e == nil || !e.StorageType().IsSigned() && !e.StorageType().IsUnsigned() {
			return wrapErr("enum %q has invalid value type", ErrSchemaInconsistency, name)
		}
	}
	for _, className := range sortedKeys(s.Classes) {
		c := s.Classes[className]
		if c == nil {
			return wrapErr("class %q is null", ErrSchemaInconsistency, className)
		}
		for _, propertyID := range sortedKeys(c.Properties) {
			if err := s.validateProperty(c.Properties[propertyID]); err != nil {
				return wrapErr("class %q property %q", err, className, propertyID)
			}
		}
	}
	return nil
}

func (s *Schema) validateProperty(cp *ClassProperty) error {
	switch {
	case cp == nil:
		return wrapErr("null property", ErrSchemaInconsistency)
	case !cp.Type.Valid():
		return wrapErr("invalid type %q", ErrSchemaInconsistency, cp.Type)
	case cp.Type == Enum:
		if _, err := s.Enum(cp.EnumType); err != nil {
			return err
		}
	case cp.Type.IsNumeric() && !cp.ComponentType.Valid():
		return wrapErr("invalid component type %q", ErrSchemaInconsistency, cp.ComponentType)
	}
	if cp.Count < 0 || !cp.Array && cp.Count != 0 {
		return wrapErr("invalid count %d", ErrSchemaInconsistency, cp.Count)
	}
	if cp.Normalized && !cp.ComponentType.IsSigned() && !cp.ComponentType.IsUnsigned() {
		return wrapErr("normalized requires an integer component type", ErrSchemaInconsistency)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
