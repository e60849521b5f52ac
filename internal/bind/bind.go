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

// Package bind builds the variable sets an evaluation runs against: the
// base set declared on the command line, and the per-record set merging
// the base with the record's bindings.
package bind

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/tombee/exq/internal/engine"
	"github.com/tombee/exq/pkg/errors"
	"github.com/tombee/exq/pkg/value"
)

// ArgumentSpec is one --arg declaration. Raw is nil when the declaration
// carried no =value part.
type ArgumentSpec struct {
	Name    string
	TypeTag string
	Raw     *string
}

// ParseSpec parses a name:type[=value] argument string.
func ParseSpec(s string) (ArgumentSpec, error) {
	name, rest, ok := strings.Cut(s, ":")
	if !ok {
		return ArgumentSpec{}, &errors.ArgumentError{Spec: s, Reason: "expected name:type[=value]"}
	}
	if name == "" {
		return ArgumentSpec{}, &errors.ArgumentError{Spec: s, Reason: "variable name is empty"}
	}

	spec := ArgumentSpec{Name: name}
	if typeTag, raw, hasValue := strings.Cut(rest, "="); hasValue {
		spec.TypeTag = typeTag
		spec.Raw = &raw
	} else {
		spec.TypeTag = rest
	}
	if spec.TypeTag == "" {
		return ArgumentSpec{}, &errors.ArgumentError{Spec: s, Reason: "type name is empty"}
	}
	return spec, nil
}

// NewBaseSet builds the base variable set from the command-line argument
// specs. A spec without a value contributes nothing. Any literal parse
// failure aborts the whole run before input is read.
func NewBaseSet(specs []ArgumentSpec, logger *slog.Logger) (map[string]value.Value, error) {
	base := make(map[string]value.Value, len(specs))
	for _, spec := range specs {
		if spec.Name == engine.RootVariable {
			return nil, &errors.ArgumentError{
				Spec:   spec.Name + ":" + spec.TypeTag,
				Reason: fmt.Sprintf("%q is reserved for the record", engine.RootVariable),
			}
		}
		if spec.Raw == nil {
			logger.Debug("skipping argument with no value", "name", spec.Name, "type", spec.TypeTag)
			continue
		}
		v, err := value.ParseLiteral(spec.Name, spec.TypeTag, *spec.Raw)
		if err != nil {
			return nil, err
		}
		base[spec.Name] = v
	}
	return base, nil
}

// ForRecord merges the base set with one record's bindings. The whole
// record binds under the root name; if the record is a map, every
// top-level field also binds under its own name. A field name that is
// already taken by a base variable (or the root name itself) rejects the
// record.
//
// The base set is shared across concurrent records and is never written.
func ForRecord(base map[string]value.Value, record value.Value) (map[string]value.Value, error) {
	vars := make(map[string]value.Value, len(base)+1+len(record.Map))
	for name, v := range base {
		vars[name] = v
	}
	vars[engine.RootVariable] = record

	if record.Kind == value.KindMap {
		for name, v := range record.Map {
			if name == engine.RootVariable {
				return nil, &errors.DuplicateVariableError{Name: name}
			}
			if _, taken := base[name]; taken {
				return nil, &errors.DuplicateVariableError{Name: name}
			}
			vars[name] = v
		}
	}
	return vars, nil
}
