// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// ErrNonScalarProperty is returned when a property value is not one of the
// supported scalar kinds (string, number, boolean, null). Remote payloads
// carrying nested objects or arrays are rejected instead of being stored as
// untyped values.
var ErrNonScalarProperty = fmt.Errorf("property value is not a scalar")

// Properties is an ordered name→scalar mapping attached to a feature.
//
// Iteration order is deterministic. Because JSON object member order is not
// preserved by decoding, properties parsed from the wire are stored in
// canonical key-sorted order; the same order is used when hashing feature
// content, so equal content always hashes equally.
type Properties struct {
	keys   []string
	values map[string]any
}

// NewProperties returns an empty property map.
func NewProperties() Properties {
	return Properties{values: make(map[string]any)}
}

// PropertiesFromMap builds a Properties value from a plain map, ordering keys
// canonically. Numeric values are normalized to float64. Returns
// ErrNonScalarProperty (wrapped with the offending key) for values outside
// the closed scalar set.
func PropertiesFromMap(m map[string]any) (Properties, error) {
	p := NewProperties()

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := p.Set(k, m[k]); err != nil {
			return Properties{}, fmt.Errorf("property %q: %w", k, err)
		}
	}
	return p, nil
}

// Set stores a scalar value under name, appending the name to the iteration
// order if it is new. Integer and float inputs are normalized to float64.
func (p *Properties) Set(name string, value any) error {
	v, ok := normalizeScalar(value)
	if !ok {
		return ErrNonScalarProperty
	}

	if p.values == nil {
		p.values = make(map[string]any)
	}
	if _, exists := p.values[name]; !exists {
		p.keys = append(p.keys, name)
	}
	p.values[name] = v
	return nil
}

// Get returns the value stored under name and whether it is present.
func (p Properties) Get(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Keys returns the property names in iteration order. The returned slice is
// shared; callers must not modify it.
func (p Properties) Keys() []string { return p.keys }

// Len returns the number of properties.
func (p Properties) Len() int { return len(p.keys) }

// Clone returns an independent copy preserving order.
func (p Properties) Clone() Properties {
	out := Properties{
		keys:   append([]string(nil), p.keys...),
		values: make(map[string]any, len(p.values)),
	}
	for k, v := range p.values {
		out.values[k] = v
	}
	return out
}

// Equal reports whether both property maps hold the same names and values in
// the same order.
func (p Properties) Equal(other Properties) bool {
	if len(p.keys) != len(other.keys) {
		return false
	}
	for i, k := range p.keys {
		if other.keys[i] != k {
			return false
		}
		if p.values[k] != other.values[k] {
			return false
		}
	}
	return true
}

// Map returns the properties as a plain map. Order is lost; intended for
// handing feature attributes to hosts that want a map view.
func (p Properties) Map() map[string]any {
	out := make(map[string]any, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// MarshalJSON writes the properties as a JSON object in iteration order.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(p.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into canonical key-sorted order.
func (p *Properties) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	props, err := PropertiesFromMap(m)
	if err != nil {
		return err
	}
	*p = props
	return nil
}

func normalizeScalar(value any) (any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case string:
		return v, true
	case bool:
		return v, true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, false
		}
		return f, true
	default:
		return nil, false
	}
}
