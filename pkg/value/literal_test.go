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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/exq/pkg/errors"
)

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		name    string
		typeTag string
		raw     string
		want    Value
	}{
		{name: "int", typeTag: "int", raw: "42", want: NewInt(42)},
		{name: "i64 alias", typeTag: "i64", raw: "-1", want: NewInt(-1)},
		{name: "tag is case-insensitive", typeTag: "INT", raw: "7", want: NewInt(7)},
		{name: "uint", typeTag: "uint", raw: "42", want: NewUint(42)},
		{name: "u64 alias", typeTag: "u64", raw: "18446744073709551615", want: NewUint(math.MaxUint64)},
		{name: "float", typeTag: "float", raw: "3.14", want: NewFloat(3.14)},
		{name: "f64 alias", typeTag: "f64", raw: "-0.5", want: NewFloat(-0.5)},
		{name: "double alias", typeTag: "double", raw: "1e3", want: NewFloat(1000.0)},
		{name: "string", typeTag: "string", raw: "hello", want: NewString("hello")},
		{name: "string is passthrough", typeTag: "str", raw: "42", want: NewString("42")},
		{name: "bool true", typeTag: "bool", raw: "true", want: NewBool(true)},
		{name: "boolean alias", typeTag: "boolean", raw: "false", want: NewBool(false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLiteral("x", tt.typeTag, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLiteralErrors(t *testing.T) {
	t.Run("unsupported type", func(t *testing.T) {
		_, err := ParseLiteral("x", "list", "[]")
		var typeErr *errors.UnsupportedTypeError
		require.ErrorAs(t, err, &typeErr)
		assert.Equal(t, "list", typeErr.TypeTag)
		assert.Contains(t, err.Error(), "int, uint, float, string, bool")
	})

	tests := []struct {
		name    string
		typeTag string
		raw     string
	}{
		{name: "int garbage", typeTag: "int", raw: "not_a_number"},
		{name: "int overflow", typeTag: "int", raw: "9223372036854775808"},
		{name: "uint negative", typeTag: "uint", raw: "-1"},
		{name: "float garbage", typeTag: "float", raw: "x"},
		{name: "bool garbage", typeTag: "bool", raw: "yes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLiteral("x", tt.typeTag, tt.raw)
			var parseErr *errors.LiteralParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, "x", parseErr.Name)
			assert.Equal(t, tt.raw, parseErr.Raw)
			assert.Contains(t, err.Error(), `failed to parse argument "x"`)
		})
	}
}
