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

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCommand executes the root command with the given stdin and arguments,
// returning stdout and the command error.
func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func TestNullInputExpression(t *testing.T) {
	out, err := runCommand(t, "", "-n", "2 + 3")
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)
}

func TestDeclaredArguments(t *testing.T) {
	out, err := runCommand(t, "", "-n", "-a", "x:int=5", "-a", "y:int=7", "x + y")
	require.NoError(t, err)
	assert.Equal(t, "12\n", out)
}

func TestLinePipeline(t *testing.T) {
	stdin := "{\"x\": 1}\n{\"x\": 2}\n{\"x\": 3}\n"
	out, err := runCommand(t, stdin, "-j", "4", "this.x")
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestSlurpPipeline(t *testing.T) {
	stdin := "{\"x\": 10,\n\"y\": 20}\n"
	out, err := runCommand(t, stdin, "-s", "this.x + this.y")
	require.NoError(t, err)
	assert.Equal(t, "30\n", out)
}

func TestJQEngine(t *testing.T) {
	stdin := "{\"x\": 1}\n{\"x\": 2}\n"
	out, err := runCommand(t, stdin, "-e", "jq", ".x")
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", out)
}

func TestBooleanFalseResult(t *testing.T) {
	_, err := runCommand(t, "", "-n", "-b", "2 > 5")
	require.ErrorIs(t, err, errFalse)
}

func TestBooleanTrueResult(t *testing.T) {
	out, err := runCommand(t, "", "-n", "-b", "5 > 2")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestMalformedRecordEmitsNothing(t *testing.T) {
	stdin := "{\"x\": 1}\nNOT_JSON\n{\"x\": 3}\n"
	out, err := runCommand(t, stdin, "this.x")
	require.Error(t, err)
	assert.Empty(t, out)
}

func TestBadArgumentSpec(t *testing.T) {
	_, err := runCommand(t, "", "-n", "-a", "novalue", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid argument")
}

func TestZeroJobsRejectedBeforeCompile(t *testing.T) {
	// A broken expression must not be reached: the jobs check comes first.
	_, err := runCommand(t, "", "-n", "-j", "0", "2 +")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parallelism")
}

func TestExecuteExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "success", args: []string{"-n", "1 + 1"}, want: 0},
		{name: "boolean true", args: []string{"-n", "-b", "true"}, want: 0},
		{name: "boolean false", args: []string{"-n", "-b", "false"}, want: 1},
		{name: "compile error", args: []string{"-n", "2 +"}, want: 2},
		{name: "zero jobs", args: []string{"-n", "-j", "0", "1"}, want: 2},
		{name: "bad argument", args: []string{"-n", "-a", "x:int=oops", "x"}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := Execute(tt.args, &stdout, &stderr)
			assert.Equal(t, tt.want, code)
			if tt.want == 2 {
				assert.NotEmpty(t, stderr.String())
			}
		})
	}
}
