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
	"strconv"
	"strings"

	"github.com/tombee/exq/pkg/errors"
)

// ParseLiteral converts a command-line literal into a Value according to
// its declared type tag. Tags match case-insensitively. Only scalar types
// are supported; structured values reach the pipeline through records.
func ParseLiteral(name, typeTag, raw string) (Value, error) {
	switch strings.ToLower(typeTag) {
	case "int", "i64":
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Null(), &errors.LiteralParseError{Name: name, TypeTag: typeTag, Raw: raw, Cause: err}
		}
		return NewInt(i), nil

	case "uint", "u64":
		u, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return Null(), &errors.LiteralParseError{Name: name, TypeTag: typeTag, Raw: raw, Cause: err}
		}
		return NewUint(u), nil

	case "float", "f64", "double":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Null(), &errors.LiteralParseError{Name: name, TypeTag: typeTag, Raw: raw, Cause: err}
		}
		return NewFloat(f), nil

	case "string", "str":
		return NewString(raw), nil

	case "bool", "boolean":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Null(), &errors.LiteralParseError{Name: name, TypeTag: typeTag, Raw: raw, Cause: err}
		}
		return NewBool(b), nil

	default:
		return Null(), &errors.UnsupportedTypeError{TypeTag: typeTag}
	}
}
