// Package jsonval implements the tagged JSON value model (spec §3, component
// C1): null, bool, number, string, array and object, with object keys kept
// in insertion order so response bodies serialize deterministically.
package jsonval

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind tags the variant a Value currently holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Object is an insertion-ordered string-keyed map of Value.
type Object = orderedmap.OrderedMap[string, Value]

// Value is a tagged JSON value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	arr  *[]Value
	obj  *Object
}

// Null returns the JSON null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a float64.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array wraps a slice of Values; the slice is owned by the returned Value.
func Array(items []Value) Value {
	cp := append([]Value(nil), items...)
	return Value{kind: KindArray, arr: &cp}
}

// NewObject returns an empty, ordered object.
func NewObject() Value {
	return Value{kind: KindObject, obj: orderedmap.New[string, Value]()}
}

func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsNull() bool  { return v.kind == KindNull }
func (v Value) AsBool() bool  { return v.b }
func (v Value) AsNumber() float64 { return v.n }
func (v Value) AsString() string  { return v.s }

// AsArray returns the backing slice; callers must not retain it beyond the
// lifetime of a single request without copying, since Append mutates in place.
func (v Value) AsArray() []Value {
	if v.arr == nil {
		return nil
	}
	return *v.arr
}

// AsObject returns the backing ordered map, or nil if v is not an object.
func (v Value) AsObject() *Object {
	return v.obj
}

// Append appends to the array in place and returns the same Value (arrays
// are reference types through their backing pointer, mirroring §9's object
// mutability note extended to arrays).
func (v Value) Append(item Value) Value {
	if v.arr == nil {
		empty := []Value{}
		v.arr = &empty
	}
	*v.arr = append(*v.arr, item)
	return v
}

// Get looks up a field on an object value.
func (v Value) Get(key string) (Value, bool) {
	if v.obj == nil {
		return Value{}, false
	}
	return v.obj.Get(key)
}

// Set assigns a field on an object value, preserving insertion order of
// first-seen keys.
func (v Value) Set(key string, val Value) {
	if v.obj == nil {
		return
	}
	v.obj.Set(key, val)
}

// Delete removes a field from an object value.
func (v Value) Delete(key string) bool {
	if v.obj == nil {
		return false
	}
	_, present := v.obj.Delete(key)
	return present
}

// Keys returns object keys in insertion order.
func (v Value) Keys() []string {
	if v.obj == nil {
		return nil
	}
	keys := make([]string, 0, v.obj.Len())
	for pair := v.obj.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len reports the number of elements of an array or object, 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		if v.arr == nil {
			return 0
		}
		return len(*v.arr)
	case KindObject:
		if v.obj == nil {
			return 0
		}
		return v.obj.Len()
	default:
		return 0
	}
}

// DeepEqual performs structural equality, ignoring object key order.
func DeepEqual(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n == b.n
	case KindString:
		return a.s == b.s
	case KindArray:
		aa, ba := a.AsArray(), b.AsArray()
		if len(aa) != len(ba) {
			return false
		}
		for i := range aa {
			if !DeepEqual(aa[i], ba[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if a.Len() != b.Len() {
			return false
		}
		for pair := a.obj.Oldest(); pair != nil; pair = pair.Next() {
			bv, ok := b.Get(pair.Key)
			if !ok || !DeepEqual(pair.Value, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Clone performs a deep structural copy.
func Clone(v Value) Value {
	switch v.kind {
	case KindArray:
		items := v.AsArray()
		out := make([]Value, len(items))
		for i, it := range items {
			out[i] = Clone(it)
		}
		return Array(out)
	case KindObject:
		out := NewObject()
		if v.obj != nil {
			for pair := v.obj.Oldest(); pair != nil; pair = pair.Next() {
				out.Set(pair.Key, Clone(pair.Value))
			}
		}
		return out
	default:
		return v
	}
}
