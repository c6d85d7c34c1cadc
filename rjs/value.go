package rjs

import (
	"fmt"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/rustyjsonserver/rjs/jsonval"
)

// Kind is the runtime tag of a Value (spec §3).
type Kind int

const (
	KUndefined Kind = iota
	KNum
	KBool
	KStr
	KObj
	KVec
)

// Value is an RJS runtime value. obj/vec are pointer-backed so aliases
// (e.g. a vec passed into a function) observe in-place mutation, matching
// the host jsonval.Value convention.
type Value struct {
	kind Kind
	n    float64
	b    bool
	s    string
	vec  *[]Value
	obj  *orderedmap.OrderedMap[string, Value]
}

func Undefined() Value        { return Value{kind: KUndefined} }
func NumVal(n float64) Value  { return Value{kind: KNum, n: n} }
func BoolVal(b bool) Value    { return Value{kind: KBool, b: b} }
func StrVal(s string) Value   { return Value{kind: KStr, s: s} }

func VecVal(items []Value) Value {
	v := make([]Value, len(items))
	copy(v, items)
	return Value{kind: KVec, vec: &v}
}

func ObjVal() Value {
	return Value{kind: KObj, obj: orderedmap.New[string, Value]()}
}

func (v Value) Kind() Kind       { return v.kind }
func (v Value) IsUndefined() bool { return v.kind == KUndefined }
func (v Value) AsNum() float64   { return v.n }
func (v Value) AsBool() bool     { return v.b }
func (v Value) AsStr() string    { return v.s }

func (v Value) AsVec() []Value {
	if v.vec == nil {
		return nil
	}
	return *v.vec
}

func (v Value) VecLen() int {
	if v.vec == nil {
		return 0
	}
	return len(*v.vec)
}

func (v Value) VecGet(i int) (Value, bool) {
	if v.vec == nil || i < 0 || i >= len(*v.vec) {
		return Undefined(), false
	}
	return (*v.vec)[i], true
}

func (v Value) VecSet(i int, val Value) bool {
	if v.vec == nil || i < 0 || i >= len(*v.vec) {
		return false
	}
	(*v.vec)[i] = val
	return true
}

// VecPush appends in place; the receiver and every alias observe the push.
func (v Value) VecPush(val Value) {
	*v.vec = append(*v.vec, val)
}

func (v Value) ObjGet(key string) (Value, bool) {
	if v.obj == nil {
		return Undefined(), false
	}
	return v.obj.Get(key)
}

func (v Value) ObjSet(key string, val Value) {
	v.obj.Set(key, val)
}

func (v Value) ObjKeys() []string {
	if v.obj == nil {
		return nil
	}
	keys := make([]string, 0, v.obj.Len())
	for pair := v.obj.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

func (v Value) ObjLen() int {
	if v.obj == nil {
		return 0
	}
	return v.obj.Len()
}

// TypeOf returns the static Type corresponding to this runtime value's
// dynamic shape (used for `any`-typed slots and diagnostics).
func (v Value) TypeOf() Type {
	switch v.kind {
	case KNum:
		return Num()
	case KBool:
		return BoolT()
	case KStr:
		return Str()
	case KObj:
		return Obj()
	case KVec:
		return Vec(Any())
	default:
		return Undef()
	}
}

// ToString implements the spec's value-to-string coercion used by template
// interpolation and the built-in toString().
func ToString(v Value) string {
	switch v.kind {
	case KUndefined:
		return "undefined"
	case KNum:
		return formatNumber(v.n)
	case KBool:
		if v.b {
			return "true"
		}
		return "false"
	case KStr:
		return v.s
	case KObj, KVec:
		return jsonval.Encode(ToJSONVal(v))
	default:
		return ""
	}
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ToJSONVal converts a runtime Value into the host jsonval.Value model, used
// when producing an HTTP response body or passing a value to a DB/cache
// built-in.
func ToJSONVal(v Value) jsonval.Value {
	switch v.kind {
	case KUndefined:
		return jsonval.Null()
	case KNum:
		return jsonval.Number(v.n)
	case KBool:
		return jsonval.Bool(v.b)
	case KStr:
		return jsonval.String(v.s)
	case KVec:
		items := make([]jsonval.Value, 0, v.VecLen())
		for _, item := range v.AsVec() {
			items = append(items, ToJSONVal(item))
		}
		return jsonval.Array(items)
	case KObj:
		out := jsonval.NewObject()
		for _, k := range v.ObjKeys() {
			item, _ := v.ObjGet(k)
			out.Set(k, ToJSONVal(item))
		}
		return out
	default:
		return jsonval.Null()
	}
}

// FromJSONVal converts a host jsonval.Value (decoded request body, DB row,
// cache entry) into an RJS runtime Value. JSON null becomes Undefined.
func FromJSONVal(v jsonval.Value) Value {
	switch v.Kind() {
	case jsonval.KindNull:
		return Undefined()
	case jsonval.KindBool:
		return BoolVal(v.AsBool())
	case jsonval.KindNumber:
		return NumVal(v.AsNumber())
	case jsonval.KindString:
		return StrVal(v.AsString())
	case jsonval.KindArray:
		src := v.AsArray()
		items := make([]Value, len(src))
		for i, item := range src {
			items[i] = FromJSONVal(item)
		}
		return VecVal(items)
	case jsonval.KindObject:
		out := ObjVal()
		for _, k := range v.Keys() {
			item, _ := v.Get(k)
			out.ObjSet(k, FromJSONVal(item))
		}
		return out
	default:
		return Undefined()
	}
}

// DeepEqual reports structural equality, ignoring object key order — used by
// `==`/`!=` on obj and vec operands.
func DeepEqual(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KUndefined:
		return true
	case KNum:
		return a.n == b.n
	case KBool:
		return a.b == b.b
	case KStr:
		return a.s == b.s
	case KVec:
		av, bv := a.AsVec(), b.AsVec()
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !DeepEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case KObj:
		if a.ObjLen() != b.ObjLen() {
			return false
		}
		for _, k := range a.ObjKeys() {
			av, _ := a.ObjGet(k)
			bv, ok := b.ObjGet(k)
			if !ok || !DeepEqual(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (v Value) GoString() string {
	return fmt.Sprintf("Value{kind=%v, str=%q}", v.kind, ToString(v))
}
