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

package engine

import (
	"math"
	"math/big"
	"sort"

	"github.com/itchyny/gojq"

	"github.com/tombee/exq/pkg/errors"
	"github.com/tombee/exq/pkg/value"
)

// RootVariable is the reserved name the record is bound under. The jq
// engine feeds it to the query as the input `.`; the expr engine sees it
// as an ordinary variable.
const RootVariable = "this"

// jqEngine evaluates jq filters. gojq requires variable names at compile
// time, so only command-line variables are visible as $name; record
// fields are reached through the input, e.g. `.x`.
type jqEngine struct{}

func (jqEngine) Compile(source string, varNames []string) (Program, error) {
	query, err := gojq.Parse(source)
	if err != nil {
		return nil, &errors.CompileError{Source: source, Diagnostics: []string{err.Error()}}
	}

	names := make([]string, 0, len(varNames))
	for _, n := range varNames {
		names = append(names, "$"+n)
	}
	sort.Strings(names)

	code, err := gojq.Compile(query, gojq.WithVariables(names))
	if err != nil {
		return nil, &errors.CompileError{Source: source, Diagnostics: []string{err.Error()}}
	}
	return jqProgram{code: code, names: names}, nil
}

type jqProgram struct {
	code *gojq.Code

	// names are the declared $-prefixed variables, in the order the
	// compiled code expects their values.
	names []string
}

func (p jqProgram) Run(vars map[string]value.Value) (value.Value, error) {
	var input any
	if root, ok := vars[RootVariable]; ok {
		input = jqNative(root)
	}

	args := make([]any, len(p.names))
	for i, n := range p.names {
		if v, ok := vars[n[1:]]; ok {
			args[i] = jqNative(v)
		}
	}

	iter := p.code.Run(input, args...)

	var results []value.Value
	for {
		out, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := out.(error); isErr {
			return value.Null(), &errors.ExecutionError{Cause: err}
		}
		results = append(results, fromJQ(out))
	}

	// jq filters may emit zero, one or many outputs per input; fold the
	// multi-output case into a list so one record yields one result.
	switch len(results) {
	case 0:
		return value.Null(), nil
	case 1:
		return results[0], nil
	default:
		return value.NewList(results...), nil
	}
}

// jqNative converts a Value into the restricted set of types gojq accepts
// as input: nil, bool, int, float64, *big.Int, string, []any and
// map[string]any.
func jqNative(v value.Value) any {
	switch v.Kind {
	case value.KindNull:
		return nil
	case value.KindBool:
		return v.Bool
	case value.KindInt:
		return int(v.Int)
	case value.KindUint:
		if v.Uint <= math.MaxInt64 {
			return int(v.Uint)
		}
		return new(big.Int).SetUint64(v.Uint)
	case value.KindFloat:
		return v.Float
	case value.KindString:
		return v.Str
	case value.KindList:
		elems := make([]any, len(v.List))
		for i, e := range v.List {
			elems[i] = jqNative(e)
		}
		return elems
	case value.KindMap:
		entries := make(map[string]any, len(v.Map))
		for k, e := range v.Map {
			entries[k] = jqNative(e)
		}
		return entries
	default:
		return nil
	}
}

// fromJQ converts a gojq output back into a Value, covering the *big.Int
// results gojq produces for magnitudes beyond int.
func fromJQ(out any) value.Value {
	if bi, ok := out.(*big.Int); ok {
		if bi.IsInt64() {
			return value.NewInt(bi.Int64())
		}
		if bi.IsUint64() {
			return value.NewUint(bi.Uint64())
		}
		f, _ := new(big.Float).SetInt(bi).Float64()
		return value.NewFloat(f)
	}
	return value.FromNative(out)
}
