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

package value

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/tombee/exq/pkg/errors"
)

// Parse decodes one JSON document into a Value.
//
// Numbers classify as int64 first, then uint64, then float64. The order is
// a fixed policy: integers between MaxInt64 and MaxUint64 land on the uint
// variant, and anything beyond that (or fractional) lands on float, with
// whatever precision float64 gives. Changing the order changes observable
// output for large integers.
//
// Duplicate object keys follow encoding/json: the last write wins.
// Trailing non-whitespace after the document is an error.
func Parse(text string) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Null(), &errors.InputError{Cause: err}
	}
	if dec.More() {
		return Null(), &errors.InputError{Cause: fmt.Errorf("unexpected trailing data after JSON document")}
	}
	return fromDecoded(raw)
}

func fromDecoded(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return NewBool(t), nil
	case string:
		return NewString(t), nil
	case json.Number:
		return classifyNumber(t)
	case []any:
		elems := make([]Value, len(t))
		for i, e := range t {
			v, err := fromDecoded(e)
			if err != nil {
				return Null(), err
			}
			elems[i] = v
		}
		return NewList(elems...), nil
	case map[string]any:
		entries := make(map[string]Value, len(t))
		for k, e := range t {
			v, err := fromDecoded(e)
			if err != nil {
				return Null(), err
			}
			entries[k] = v
		}
		return NewMap(entries), nil
	default:
		return Null(), &errors.InputError{Cause: fmt.Errorf("unexpected decoded type %T", raw)}
	}
}

// classifyNumber applies the int64 -> uint64 -> float64 fallback order.
func classifyNumber(n json.Number) (Value, error) {
	s := n.String()
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return NewInt(i), nil
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return NewUint(u), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Null(), &errors.InputError{Cause: fmt.Errorf("cannot represent number %q: %w", s, err)}
	}
	return NewFloat(f), nil
}

// Encode renders a Value as JSON text.
//
// It is the structural inverse of Parse for everything but maps, whose key
// order is not preserved. Floats that JSON cannot carry (NaN, infinities)
// yield a SerializationError.
func (v Value) Encode() (string, error) {
	out, err := json.Marshal(v.Native())
	if err != nil {
		return "", &errors.SerializationError{Cause: err}
	}
	return string(out), nil
}

// Native converts a Value to the plain Go representation the expression
// engine consumes: nil, bool, int64, uint64, float64, string, []any and
// map[string]any.
func (v Value) Native() any {
	switch v.Kind {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindUint:
		return v.Uint
	case KindFloat:
		return v.Float
	case KindString:
		return v.Str
	case KindList:
		elems := make([]any, len(v.List))
		for i, e := range v.List {
			elems[i] = e.Native()
		}
		return elems
	case KindMap:
		entries := make(map[string]any, len(v.Map))
		for k, e := range v.Map {
			entries[k] = e.Native()
		}
		return entries
	default:
		return nil
	}
}

// FromNative converts an engine result back into a Value. It is total:
// engine-specific kinds with no direct counterpart fall back to their
// string rendering rather than leaking a foreign runtime type into the
// pipeline.
func FromNative(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case bool:
		return NewBool(t)
	case string:
		return NewString(t)
	case int:
		return NewInt(int64(t))
	case int8:
		return NewInt(int64(t))
	case int16:
		return NewInt(int64(t))
	case int32:
		return NewInt(int64(t))
	case int64:
		return NewInt(t)
	case uint:
		return fromUint64(uint64(t))
	case uint8:
		return NewInt(int64(t))
	case uint16:
		return NewInt(int64(t))
	case uint32:
		return NewInt(int64(t))
	case uint64:
		return fromUint64(t)
	case float32:
		return NewFloat(float64(t))
	case float64:
		return NewFloat(t)
	case json.Number:
		v, err := classifyNumber(t)
		if err != nil {
			return NewString(t.String())
		}
		return v
	case []any:
		elems := make([]Value, len(t))
		for i, e := range t {
			elems[i] = FromNative(e)
		}
		return NewList(elems...)
	case map[string]any:
		entries := make(map[string]Value, len(t))
		for k, e := range t {
			entries[k] = FromNative(e)
		}
		return NewMap(entries)
	default:
		return fromReflected(raw)
	}
}

// fromUint64 keeps small unsigned results on the signed variant so that
// engine arithmetic on ordinary numbers stays int-kinded; only magnitudes
// beyond MaxInt64 need the unsigned variant.
func fromUint64(u uint64) Value {
	if u <= math.MaxInt64 {
		return NewInt(int64(u))
	}
	return NewUint(u)
}

// fromReflected handles typed slices, maps and named types the engine's
// builtin functions may return (e.g. []string from split).
func fromReflected(raw any) Value {
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		return FromNative(rv.Elem().Interface())
	case reflect.Bool:
		return NewBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fromUint64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return NewFloat(rv.Float())
	case reflect.String:
		return NewString(rv.String())
	case reflect.Slice, reflect.Array:
		elems := make([]Value, rv.Len())
		for i := range elems {
			elems[i] = FromNative(rv.Index(i).Interface())
		}
		return NewList(elems...)
	case reflect.Map:
		entries := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			entries[fmt.Sprint(iter.Key().Interface())] = FromNative(iter.Value().Interface())
		}
		return NewMap(entries)
	default:
		return NewString(fmt.Sprint(raw))
	}
}
