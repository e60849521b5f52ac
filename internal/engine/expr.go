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
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/tombee/exq/pkg/errors"
	"github.com/tombee/exq/pkg/value"
)

// exprEngine evaluates expr-lang expressions. Variables are fetched from
// the environment map at run time, so an identifier that is bound by
// neither the command line nor the record fails the evaluation.
type exprEngine struct{}

func (exprEngine) Compile(source string, varNames []string) (Program, error) {
	prog, err := expr.Compile(source)
	if err != nil {
		return nil, &errors.CompileError{Source: source, Diagnostics: []string{err.Error()}}
	}
	return exprProgram{prog: prog}, nil
}

type exprProgram struct {
	prog *vm.Program
}

func (p exprProgram) Run(vars map[string]value.Value) (value.Value, error) {
	env := make(map[string]any, len(vars))
	for name, v := range vars {
		env[name] = v.Native()
	}

	out, err := expr.Run(p.prog, env)
	if err != nil {
		return value.Null(), &errors.ExecutionError{Cause: err}
	}
	return value.FromNative(out), nil
}
