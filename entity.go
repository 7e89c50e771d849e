// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tiles3d

// EntityModel is a view of one row of a property table. It holds no
// copies of the table's buffers: each call to Value decodes and
// post-processes the value on demand.
type EntityModel struct {
	table              *TableModel
	row                int
	semanticToProperty map[string]string
}

// EntityWithSemantics returns the entity model for one row of the
// table, resolving semantics through the given semantic to property ID
// mapping instead of the one derived from the class.
func (tm *TableModel) EntityWithSemantics(row int, semanticToProperty map[string]string) (*EntityModel, error) {
	e, err := tm.Entity(row)
	if err != nil {
		return nil, err
	}
	e.semanticToProperty = semanticToProperty
	return e, nil
}

// Row returns the row index of the entity.
func (e *EntityModel) Row() int {
	return e.row
}

// Value returns the post-processed value of a property for the entity.
//
// The returned error wraps ErrUnknownProperty if the class does not
// define the property, ErrMissingColumn if the property table has no
// column for it, and ErrMissingPropertyModel if no model was created
// for it. Errors from decoding the value wrap ErrIndexOutOfRange or
// ErrSchemaInconsistency, and enum codes without a name wrap
// ErrUnknownEnumValue.
func (e *EntityModel) Value(propertyID string) (interface{}, error) {
	cp, ok := e.table.ClassProperty(propertyID)
	if !ok {
		return nil, wrapErr("property %q", ErrUnknownProperty, propertyID)
	}
	ptp, ok := e.table.PropertyTableProperty(propertyID)
	if !ok {
		return nil, wrapErr("property %q", ErrMissingColumn, propertyID)
	}
	m, ok := e.table.PropertyModel(propertyID)
	if !ok {
		return nil, wrapErr("property %q", ErrMissingPropertyModel, propertyID)
	}
	raw, err := m.ValueAt(e.row)
	if err != nil {
		return nil, wrapErr("property %q, row %d", err, propertyID, e.row)
	}
	var enum *MetadataEnum
	if cp.Type == Enum {
		if enum = e.table.table.BinaryEnumInfo.Enums[cp.EnumType]; enum == nil {
			return nil, wrapErr("property %q enum %q not found", ErrSchemaInconsistency, propertyID, cp.EnumType)
		}
	}
	v, err := processValue(cp, ptp, enum, raw)
	if err != nil {
		return nil, wrapErr("property %q, row %d", err, propertyID, e.row)
	}
	return v, nil
}

// ValueBySemantic returns the post-processed value of the property
// having the given semantic. If no property has the semantic, the
// result is nil, false, nil.
func (e *EntityModel) ValueBySemantic(semantic string) (interface{}, bool, error) {
	id, ok := e.semanticToProperty[semantic]
	if !ok {
		return nil, false, nil
	}
	v, err := e.Value(id)
	if err != nil {
		return nil, true, err
	}
	return v, true, nil
}

// Values returns the post-processed value of every property the table
// defines, keyed by property ID.
func (e *EntityModel) Values() (map[string]interface{}, error) {
	ids := e.table.PropertyIDs()
	out := make(map[string]interface{}, len(ids))
	for _, id := range ids {
		v, err := e.Value(id)
		if err != nil {
			return nil, err
		}
		out[id] = v
	}
	return out, nil
}
