// Package models defines the in-memory representation of an editable JSON
// document: ordered objects, opaque arrays, the type tags remembered for leaf
// values and the paths that address them.
package models

import (
	"fmt"
	"math"
)

// Kind is the type tag captured for a value when it is projected into a form.
type Kind int

const (
	KindString Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindString: "string",
	KindNull:   "null",
	KindBool:   "boolean",
	KindInt:    "integer",
	KindFloat:  "float",
	KindArray:  "array",
	KindObject: "object",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Array is a JSON array. The editor never descends into arrays; an array is
// always an opaque leaf.
type Array []any

// KindOf reports the type tag of v. Values are expected to be one of the
// types produced by the parser: nil, bool, int64, float64, string, Array or
// *Object. Unrecognized types are tagged as strings.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case int64, int:
		return KindInt
	case float64:
		return KindFloat
	case Array, []any:
		return KindArray
	case *Object:
		return KindObject
	default:
		return KindString
	}
}

// Clone returns a deep copy of v. The result shares no objects or arrays with
// the original.
func Clone(v any) any {
	switch t := v.(type) {
	case *Object:
		return t.Clone()
	case Array:
		out := make(Array, len(t))
		for i, elt := range t {
			out[i] = Clone(elt)
		}
		return out
	case []any:
		return Clone(Array(t))
	case int:
		return int64(t)
	default:
		return v
	}
}

// Equal reports whether a and b hold the same JSON value. Member order is
// significant for objects.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case *Object:
		y, ok := b.(*Object)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for i, m := range x.members {
			n := y.members[i]
			if m.Key != n.Key || !Equal(m.Value, n.Value) {
				return false
			}
		}
		return true
	case Array, []any:
		xs, ys := asArray(a), asArray(b)
		if !isArray(b) || len(xs) != len(ys) {
			return false
		}
		for i := range xs {
			if !Equal(xs[i], ys[i]) {
				return false
			}
		}
		return true
	case float64:
		y, ok := b.(float64)
		return ok && (x == y || (math.IsNaN(x) && math.IsNaN(y)))
	default:
		return a == b
	}
}

func isArray(v any) bool {
	switch v.(type) {
	case Array, []any:
		return true
	}
	return false
}

func asArray(v any) Array {
	switch t := v.(type) {
	case Array:
		return t
	case []any:
		return Array(t)
	}
	return nil
}
