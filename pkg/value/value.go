// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package value provides the tagged value representation that flows through
// the evaluation pipeline, together with the JSON bridge, the CLI literal
// parser, and the truthiness policy.
//
// Every value that enters or leaves the expression engine is one of the
// kinds enumerated here. Adding a kind requires updating the switches in
// Native, Encode and Truthy.
package value

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindList
	KindMap
)

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the kinds a JSON document or an engine
// result can take. Only the field matching Kind is meaningful.
//
// Values are treated as immutable once built; the base variable set and
// the record bound to each task are never written after construction.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Uint  uint64
	Float float64
	Str   string
	List  []Value
	Map   map[string]Value
}

// Null returns the null value.
func Null() Value {
	return Value{Kind: KindNull}
}

// NewBool returns a boolean value.
func NewBool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// NewInt returns a signed integer value.
func NewInt(i int64) Value {
	return Value{Kind: KindInt, Int: i}
}

// NewUint returns an unsigned integer value.
func NewUint(u uint64) Value {
	return Value{Kind: KindUint, Uint: u}
}

// NewFloat returns a floating point value.
func NewFloat(f float64) Value {
	return Value{Kind: KindFloat, Float: f}
}

// NewString returns a string value.
func NewString(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// NewList returns a list value over the given elements.
func NewList(elems ...Value) Value {
	return Value{Kind: KindList, List: elems}
}

// NewMap returns a map value over the given entries.
func NewMap(entries map[string]Value) Value {
	return Value{Kind: KindMap, Map: entries}
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// Truthy maps a value to a boolean verdict, used for exit-code signaling.
//
// Numbers are truthy when non-zero (NaN is falsy), strings and containers
// when non-empty, null is falsy. Kinds this package does not know about
// yet default to true.
func Truthy(v Value) bool {
	switch v.Kind {
	case KindNull:
		return false
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int != 0
	case KindUint:
		return v.Uint != 0
	case KindFloat:
		return v.Float != 0.0 && v.Float == v.Float
	case KindString:
		return v.Str != ""
	case KindList:
		return len(v.List) > 0
	case KindMap:
		return len(v.Map) > 0
	default:
		return true
	}
}
