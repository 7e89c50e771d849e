// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tiles3d

import "fmt"

// TableModel provides row-indexed access to the properties of a
// BinaryPropertyTable.
//
// A TableModel creates one PropertyModel for every property the table
// defines when it is constructed, and never modifies them afterward.
// It is safe for concurrent use.
type TableModel struct {
	table              *BinaryPropertyTable
	models             map[string]PropertyModel
	semanticToProperty map[string]string
}

// NewTableModel creates the property models for every column of a
// binary property table. It returns an error wrapping
// ErrSchemaInconsistency if any column does not match its class
// property, or refers to a missing buffer view.
func NewTableModel(table *BinaryPropertyTable) (*TableModel, error) {
	if table == nil {
		textPanic("nil binary property table")
	}
	tm := &TableModel{
		table:              table,
		models:             make(map[string]PropertyModel, len(table.PropertyTable.Properties)),
		semanticToProperty: make(map[string]string),
	}
	for _, id := range sortedKeys(table.PropertyTable.Properties) {
		cp, ok := table.MetadataClass.Properties[id]
		if !ok || cp == nil {
			return nil, wrapErr("property %q", ErrUnknownProperty, id)
		}
		m, err := newPropertyModel(table, id, cp, table.PropertyTable.Properties[id])
		if err != nil {
			return nil, err
		}
		tm.models[id] = m
	}
	for _, id := range sortedKeys(table.MetadataClass.Properties) {
		if cp := table.MetadataClass.Properties[id]; cp != nil && cp.Semantic != "" {
			tm.semanticToProperty[cp.Semantic] = id
		}
	}
	return tm, nil
}

// newPropertyModel selects and constructs the PropertyModel variant for
// one column from the class property's declared type.
func newPropertyModel(t *BinaryPropertyTable, id string, cp *ClassProperty, ptp *PropertyTableProperty) (PropertyModel, error) {
	if ptp == nil {
		return nil, wrapErr("property %q", ErrMissingColumn, id)
	}
	if !cp.Type.Valid() {
		return nil, wrapErr("property %q has invalid type %q", ErrSchemaInconsistency, id, cp.Type)
	}

	values, err := t.bufferView(id, "values", ptp.Values)
	if err != nil {
		return nil, err
	}

	var arrayOffsets []byte
	arrayOffsetType := offsetTypeOrDefault(ptp.ArrayOffsetType)
	if cp.Array {
		if ptp.ArrayOffsets != nil {
			if arrayOffsets, err = t.bufferView(id, "array offsets", *ptp.ArrayOffsets); err != nil {
				return nil, err
			}
		} else if cp.Count < 1 {
			return nil, wrapErr("array property %q has neither array offsets nor a count", ErrSchemaInconsistency, id)
		}
		if !arrayOffsetType.ValidOffsetType() {
			return nil, wrapErr("property %q has invalid array offset type %q", ErrSchemaInconsistency, id, arrayOffsetType)
		}
	}

	var stringOffsets []byte
	stringOffsetType := offsetTypeOrDefault(ptp.StringOffsetType)
	if cp.Type == String {
		if ptp.StringOffsets == nil {
			return nil, wrapErr("string property %q has no string offsets", ErrSchemaInconsistency, id)
		}
		if stringOffsets, err = t.bufferView(id, "string offsets", *ptp.StringOffsets); err != nil {
			return nil, err
		}
		if !stringOffsetType.ValidOffsetType() {
			return nil, wrapErr("property %q has invalid string offset type %q", ErrSchemaInconsistency, id, stringOffsetType)
		}
	}

	switch cp.Type {
	case String:
		if cp.Array {
			return &stringArrayModel{
				values:           values,
				arrayOffsets:     arrayOffsets,
				arrayOffsetType:  arrayOffsetType,
				count:            cp.Count,
				stringOffsets:    stringOffsets,
				stringOffsetType: stringOffsetType,
			}, nil
		}
		return &stringModel{values: values, stringOffsets: stringOffsets, stringOffsetType: stringOffsetType}, nil
	case Boolean:
		if cp.Array {
			return &booleanArrayModel{
				values:          values,
				arrayOffsets:    arrayOffsets,
				arrayOffsetType: arrayOffsetType,
				count:           cp.Count,
			}, nil
		}
		return &booleanModel{values: values}, nil
	}

	componentType := cp.ComponentType
	if cp.Type == Enum {
		if componentType, err = t.BinaryEnumInfo.enumValueType(cp.EnumType); err != nil {
			return nil, wrapErr("property %q", err, id)
		}
	}
	if !componentType.Valid() {
		return nil, wrapErr("property %q has invalid component type %q", ErrSchemaInconsistency, id, componentType)
	}
	n := cp.Type.ComponentCount()
	if cp.Array {
		return &numericArrayModel{
			values:          values,
			componentType:   componentType,
			n:               n,
			arrayOffsets:    arrayOffsets,
			arrayOffsetType: arrayOffsetType,
			count:           cp.Count,
		}, nil
	}
	return &numericModel{values: values, componentType: componentType, n: n}, nil
}

// Table returns the binary property table the model reads.
func (tm *TableModel) Table() *BinaryPropertyTable {
	return tm.table
}

// Count returns the number of rows in the table.
func (tm *TableModel) Count() int {
	return tm.table.PropertyTable.Count
}

// PropertyIDs returns the sorted IDs of the properties the table
// defines.
func (tm *TableModel) PropertyIDs() []string {
	return sortedKeys(tm.models)
}

// PropertyModel returns the property model for a property.
func (tm *TableModel) PropertyModel(propertyID string) (PropertyModel, bool) {
	m, ok := tm.models[propertyID]
	return m, ok
}

// ClassProperty returns the class property for a property.
func (tm *TableModel) ClassProperty(propertyID string) (*ClassProperty, bool) {
	cp, ok := tm.table.MetadataClass.Properties[propertyID]
	return cp, ok && cp != nil
}

// PropertyTableProperty returns the property table column for a
// property.
func (tm *TableModel) PropertyTableProperty(propertyID string) (*PropertyTableProperty, bool) {
	ptp, ok := tm.table.PropertyTable.Properties[propertyID]
	return ptp, ok && ptp != nil
}

// PropertyIDBySemantic returns the ID of the class property having the
// given semantic.
func (tm *TableModel) PropertyIDBySemantic(semantic string) (string, bool) {
	id, ok := tm.semanticToProperty[semantic]
	return id, ok
}

// Entity returns the entity model for one row of the table.
func (tm *TableModel) Entity(row int) (*EntityModel, error) {
	if row < 0 || row >= tm.Count() {
		return nil, fmtErr("row %d not in table of %d rows: %w", row, tm.Count(), ErrIndexOutOfRange)
	}
	return &EntityModel{table: tm, row: row, semanticToProperty: tm.semanticToProperty}, nil
}

func (tm *TableModel) String() string {
	return fmt.Sprintf("TableModel{Class:%s,Count:%d,Properties:%v}", tm.table.PropertyTable.Class, tm.Count(), tm.PropertyIDs())
}
