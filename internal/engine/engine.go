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

// Package engine defines the boundary to the expression engine. The rest
// of the pipeline only sees the two operations here; the engine's grammar
// and execution semantics stay opaque behind them.
package engine

import (
	"fmt"

	"github.com/tombee/exq/pkg/value"
)

// Program is a compiled expression, safe to share read-only across
// concurrent record evaluations.
type Program interface {
	// Run evaluates the program against one variable set.
	Run(vars map[string]value.Value) (value.Value, error)
}

// Engine compiles expression source into a Program. varNames lists the
// command-line variable names, known before any input is read; engines
// that require variables declared at compile time use it.
type Engine interface {
	Compile(source string, varNames []string) (Program, error)
}

// New returns the named engine. Supported names are "expr" (default
// expression language) and "jq".
func New(name string) (Engine, error) {
	switch name {
	case "", "expr":
		return exprEngine{}, nil
	case "jq":
		return jqEngine{}, nil
	default:
		return nil, fmt.Errorf("unknown engine %q: supported engines are expr, jq", name)
	}
}
