// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tiles3d

import (
	"math"
	"reflect"
)

// processValue turns a raw value read by a PropertyModel into the
// value seen by users of an EntityModel.
//
// The steps, in order, are: resolve enum codes to enum names; replace
// a value equal to the no-data value with the default value; normalize
// integers of normalized properties; multiply by the scale; and add the
// offset. The scale and offset of the property table column take
// precedence over those of the class property. A numeric value that
// is neither normalized, scaled, nor offset is returned as decoded.
func processValue(cp *ClassProperty, ptp *PropertyTableProperty, enum *MetadataEnum, raw interface{}) (interface{}, error) {
	if cp.Type == Enum {
		names, err := enumNames(enum, raw)
		if err != nil {
			return nil, err
		}
		raw = names
	}

	offset, scale := ptp.Offset, ptp.Scale
	if offset == nil {
		offset = cp.Offset
	}
	if scale == nil {
		scale = cp.Scale
	}
	transformed := cp.Type != Enum && cp.Type.IsNumeric() && (cp.Normalized || offset != nil || scale != nil)

	if cp.NoData != nil && equalsNoData(raw, cp.NoData) {
		if transformed {
			return convertLike(floats(raw), cp.Default), nil
		}
		return convertLike(raw, cp.Default), nil
	}
	if !transformed {
		return raw, nil
	}

	v := floats(raw)
	var err error
	if cp.Normalized {
		ct := cp.ComponentType
		v, _ = deepApply(v, nil, func(x, _ float64) float64 {
			return normalize(x, ct)
		})
	}
	if scale != nil {
		if v, err = deepApply(v, scale, func(x, s float64) float64 { return x * s }); err != nil {
			return nil, wrapErr("scale", err)
		}
	}
	if offset != nil {
		if v, err = deepApply(v, offset, func(x, o float64) float64 { return x + o }); err != nil {
			return nil, wrapErr("offset", err)
		}
	}
	return v, nil
}

// equalsNoData reports whether a raw value equals a no-data value.
// Integers are compared exactly as int64 or uint64.
func equalsNoData(raw, noData interface{}) bool {
	switch r := raw.(type) {
	case int64:
		n, ok := toInt64(noData)
		return ok && n == r
	case uint64:
		n, ok := toUint64(noData)
		return ok && n == r
	case []int64, []uint64, [][]int64, [][]uint64:
		rv, nv := reflect.ValueOf(raw), reflect.ValueOf(noData)
		if noData == nil || nv.Kind() != reflect.Slice || nv.Len() != rv.Len() {
			return false
		}
		for i := 0; i < rv.Len(); i++ {
			if !equalsNoData(rv.Index(i).Interface(), nv.Index(i).Interface()) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(jsonLike(raw), jsonLike(noData))
	}
}

// convertLike converts a JSON-like value to the type of like, so that a
// default value has the type of the values it stands in for. If v does
// not fit that type it is returned as jsonLike(v).
func convertLike(like, v interface{}) interface{} {
	if v == nil {
		return nil
	}
	var out interface{}
	var ok bool
	switch like.(type) {
	case int64:
		out, ok = toInt64(v)
	case uint64:
		out, ok = toUint64(v)
	case float64:
		out, ok = toFloat64(v)
	case string:
		out, ok = v.(string)
	case bool:
		out, ok = v.(bool)
	case []int64:
		out, ok = convertEach(v, toInt64)
	case []uint64:
		out, ok = convertEach(v, toUint64)
	case []float64:
		out, ok = convertEach(v, toFloat64)
	case []string:
		out, ok = convertEach(v, asString)
	case []bool:
		out, ok = convertEach(v, asBool)
	case [][]int64:
		out, ok = convertEach(v, func(x interface{}) ([]int64, bool) { return convertEach(x, toInt64) })
	case [][]uint64:
		out, ok = convertEach(v, func(x interface{}) ([]uint64, bool) { return convertEach(x, toUint64) })
	case [][]float64:
		out, ok = convertEach(v, func(x interface{}) ([]float64, bool) { return convertEach(x, toFloat64) })
	}
	if !ok {
		return jsonLike(v)
	}
	return out
}

func convertEach[T any](v interface{}, conv func(interface{}) (T, bool)) ([]T, bool) {
	rv := reflect.ValueOf(v)
	if v == nil || rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]T, rv.Len())
	for i := range out {
		x, ok := conv(rv.Index(i).Interface())
		if !ok {
			return nil, false
		}
		out[i] = x
	}
	return out, true
}

func asString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asBool(v interface{}) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// normalize maps an integer of component type ct to [0, 1] if ct is
// unsigned or [-1, 1] if ct is signed.
func normalize(x float64, ct ComponentType) float64 {
	v := x / ct.maxInt()
	if ct.IsSigned() && v < -1 {
		return -1
	}
	return v
}

// enumNames resolves a raw enum code, or an array of enum codes, to
// enum value names.
func enumNames(enum *MetadataEnum, raw interface{}) (interface{}, error) {
	name := func(code int64) (string, error) {
		if s, ok := enum.NameOf(code); ok {
			return s, nil
		}
		return "", fmtErr("code %d in enum %q: %w", code, enum.Name, ErrUnknownEnumValue)
	}
	switch v := raw.(type) {
	case int64:
		return name(v)
	case uint64:
		if v > math.MaxInt64 {
			return nil, fmtErr("code %d in enum %q: %w", v, enum.Name, ErrUnknownEnumValue)
		}
		return name(int64(v))
	case []int64:
		out := make([]string, len(v))
		for i := range v {
			var err error
			if out[i], err = name(v[i]); err != nil {
				return nil, err
			}
		}
		return out, nil
	case []uint64:
		out := make([]string, len(v))
		for i := range v {
			if v[i] > math.MaxInt64 {
				return nil, fmtErr("code %d in enum %q: %w", v[i], enum.Name, ErrUnknownEnumValue)
			}
			var err error
			if out[i], err = name(int64(v[i])); err != nil {
				return nil, err
			}
		}
		return out, nil
	default:
		return nil, fmtErr("enum value has type %T: %w", raw, ErrSchemaInconsistency)
	}
}

// floats converts a decoded numeric value to the equivalent float64,
// []float64, or [][]float64.
func floats(raw interface{}) interface{} {
	switch v := raw.(type) {
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case float64:
		return v
	case []int64:
		return convertSlice(v)
	case []uint64:
		return convertSlice(v)
	case []float64:
		return convertSlice(v)
	case [][]int64:
		return convertSlices(v)
	case [][]uint64:
		return convertSlices(v)
	case [][]float64:
		return convertSlices(v)
	default:
		fmtPanic("logic error: not a numeric value: %T", raw)
		return nil
	}
}

func convertSlice[T number](v []T) []float64 {
	out := make([]float64, len(v))
	for i := range v {
		out[i] = float64(v[i])
	}
	return out
}

func convertSlices[T number](v [][]T) [][]float64 {
	out := make([][]float64, len(v))
	for i := range v {
		out[i] = convertSlice(v[i])
	}
	return out
}

// deepApply combines a float64, []float64, or [][]float64 value with
// an operand of the same shape, element by element. A nil operand is
// passed to op as zero.
func deepApply(v interface{}, operand interface{}, op func(x, y float64) float64) (interface{}, error) {
	switch x := v.(type) {
	case float64:
		if operand == nil {
			return op(x, 0), nil
		}
		y, ok := toFloat64(operand)
		if !ok {
			return nil, fmtErr("operand %v is not a number: %w", operand, ErrSchemaInconsistency)
		}
		return op(x, y), nil
	case []float64:
		ys, err := operandSlice(operand, len(x))
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(x))
		for i := range x {
			r, err := deepApply(x[i], ys[i], op)
			if err != nil {
				return nil, err
			}
			out[i] = r.(float64)
		}
		return out, nil
	case [][]float64:
		ys, err := operandSlice(operand, len(x))
		if err != nil {
			return nil, err
		}
		out := make([][]float64, len(x))
		for i := range x {
			r, err := deepApply(x[i], ys[i], op)
			if err != nil {
				return nil, err
			}
			out[i] = r.([]float64)
		}
		return out, nil
	default:
		fmtPanic("logic error: deepApply on %T", v)
		return nil, nil
	}
}

// operandSlice returns the n elements of a slice operand, or n nils if
// operand is nil.
func operandSlice(operand interface{}, n int) ([]interface{}, error) {
	if operand == nil {
		return make([]interface{}, n), nil
	}
	rv := reflect.ValueOf(operand)
	if rv.Kind() != reflect.Slice || rv.Len() != n {
		return nil, fmtErr("operand %v does not have %d elements: %w", operand, n, ErrSchemaInconsistency)
	}
	out := make([]interface{}, n)
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

// numberish is satisfied by json.Number and similar decimal literal
// types.
type numberish interface {
	Float64() (float64, error)
}

// toFloat64 converts any Go numeric value to float64.
func toFloat64(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case numberish:
		f, err := x.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// jsonLike converts a value to the shapes produced by decoding JSON
// into an interface{}: float64 for numbers, string, bool, and
// []interface{} for every kind of slice. The result never aliases v.
func jsonLike(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	if f, ok := toFloat64(v); ok {
		return f
	}
	switch x := v.(type) {
	case string, bool:
		return x
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		out := make([]interface{}, rv.Len())
		for i := range out {
			out[i] = jsonLike(rv.Index(i).Interface())
		}
		return out
	}
	return v
}
