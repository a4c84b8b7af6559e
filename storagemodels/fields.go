/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"
	"reflect"
	"sort"

	"google.golang.org/protobuf/types/known/structpb"
)

// Fields holds the field values of a variant entry. Values are always in
// canonical form: nil, bool, float64, string, []any or map[string]any.
type Fields map[string]any

// Normalize converts arbitrary Go values into canonical form.
// Integers become float64 and []byte becomes a base64 string, mirroring
// how the values come back from a decoded blob.
func Normalize(in map[string]any) (Fields, error) {
	out := make(Fields, len(in))
	for k, v := range in {
		nv, err := NormalizeValue(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		out[k] = nv
	}
	return out, nil
}

// NormalizeValue converts a single value into canonical form.
func NormalizeValue(v any) (any, error) {
	switch tv := v.(type) {
	case []string:
		list := make([]any, len(tv))
		for i, s := range tv {
			list[i] = s
		}
		v = list
	case map[string]string:
		m := make(map[string]any, len(tv))
		for k, s := range tv {
			m[k] = s
		}
		v = m
	case Fields:
		v = map[string]any(tv)
	}

	pv, err := structpb.NewValue(v)
	if err != nil {
		return nil, err
	}
	return pv.AsInterface(), nil
}

// Clone returns a deep copy of f.
func (f Fields) Clone() Fields {
	if f == nil {
		return Fields{}
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = cloneValue(v)
	}
	return out
}

// Equal reports whether two canonical field maps hold the same values.
func (f Fields) Equal(other Fields) bool {
	if len(f) != len(other) {
		return false
	}
	if len(f) == 0 {
		return true
	}
	return reflect.DeepEqual(map[string]any(f), map[string]any(other))
}

// Keys returns the field names in sorted order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(tv))
		for k, inner := range tv {
			m[k] = cloneValue(inner)
		}
		return m
	case []any:
		list := make([]any, len(tv))
		for i, inner := range tv {
			list[i] = cloneValue(inner)
		}
		return list
	default:
		return v
	}
}
