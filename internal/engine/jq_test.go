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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/exq/pkg/errors"
	"github.com/tombee/exq/pkg/value"
)

func compileJQ(t *testing.T, source string, varNames []string) Program {
	t.Helper()
	eng, err := New("jq")
	require.NoError(t, err)
	prog, err := eng.Compile(source, varNames)
	require.NoError(t, err)
	return prog
}

func TestJQFieldAccess(t *testing.T) {
	record := value.NewMap(map[string]value.Value{"x": value.NewInt(42)})
	prog := compileJQ(t, ".x", nil)
	out, err := prog.Run(map[string]value.Value{RootVariable: record})
	require.NoError(t, err)
	assert.Equal(t, value.NewInt(42), out)
}

func TestJQVariables(t *testing.T) {
	prog := compileJQ(t, "$x + $y", []string{"x", "y"})
	out, err := prog.Run(map[string]value.Value{
		"x": value.NewInt(10),
		"y": value.NewInt(7),
	})
	require.NoError(t, err)
	assert.Equal(t, value.NewInt(17), out)
}

func TestJQNullInput(t *testing.T) {
	prog := compileJQ(t, "2 + 3", nil)
	out, err := prog.Run(map[string]value.Value{})
	require.NoError(t, err)
	assert.Equal(t, value.NewInt(5), out)
}

func TestJQMultipleOutputsFoldIntoList(t *testing.T) {
	record := value.NewList(value.NewInt(1), value.NewInt(2), value.NewInt(3))
	prog := compileJQ(t, ".[]", nil)
	out, err := prog.Run(map[string]value.Value{RootVariable: record})
	require.NoError(t, err)
	assert.Equal(t, value.NewList(value.NewInt(1), value.NewInt(2), value.NewInt(3)), out)
}

func TestJQEmptyOutputIsNull(t *testing.T) {
	prog := compileJQ(t, "empty", nil)
	out, err := prog.Run(map[string]value.Value{})
	require.NoError(t, err)
	assert.True(t, out.IsNull())
}

func TestJQCompileError(t *testing.T) {
	eng, err := New("jq")
	require.NoError(t, err)
	_, err = eng.Compile(".x | ???", nil)
	var compileErr *errors.CompileError
	require.ErrorAs(t, err, &compileErr)
}

func TestJQRuntimeError(t *testing.T) {
	record := value.NewInt(1)
	prog := compileJQ(t, ".x", nil)
	_, err := prog.Run(map[string]value.Value{RootVariable: record})
	var execErr *errors.ExecutionError
	require.ErrorAs(t, err, &execErr)
}
