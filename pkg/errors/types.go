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

package errors

import (
	"fmt"
	"strings"
)

// CompileError represents an expression that the engine rejected.
// It is reported before any input is read.
type CompileError struct {
	// Source is the expression text that failed to compile
	Source string

	// Diagnostics holds the engine's compile messages
	Diagnostics []string
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if len(e.Diagnostics) == 0 {
		return "failed to compile expression"
	}
	return fmt.Sprintf("failed to compile expression: %s", strings.Join(e.Diagnostics, "; "))
}

// ArgumentError represents a malformed --arg declaration.
// Use this for specs that do not match the name:type[=value] shape.
type ArgumentError struct {
	// Spec is the raw argument string as given on the command line
	Spec string

	// Reason explains what is wrong with the spec
	Reason string
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Spec, e.Reason)
}

// UnsupportedTypeError represents an --arg declaration with a type tag
// outside the supported set.
type UnsupportedTypeError struct {
	// TypeTag is the unrecognized type name
	TypeTag string
}

// Error implements the error interface.
func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %q: supported types are int, uint, float, string, bool", e.TypeTag)
}

// LiteralParseError represents an --arg value that does not parse as its
// declared type.
type LiteralParseError struct {
	// Name is the variable name being declared
	Name string

	// TypeTag is the declared type
	TypeTag string

	// Raw is the literal text that failed to parse
	Raw string

	// Cause is the underlying strconv error
	Cause error
}

// Error implements the error interface.
func (e *LiteralParseError) Error() string {
	return fmt.Sprintf("failed to parse argument %q: cannot parse %q as %s", e.Name, e.Raw, e.TypeTag)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *LiteralParseError) Unwrap() error {
	return e.Cause
}

// InvalidParallelismError represents a --jobs value of zero.
// It is reported before any input is read.
type InvalidParallelismError struct {
	// Jobs is the rejected parallelism degree
	Jobs int
}

// Error implements the error interface.
func (e *InvalidParallelismError) Error() string {
	return fmt.Sprintf("parallelism level cannot be %d", e.Jobs)
}

// InputError represents a record that is not valid JSON.
// Any single malformed record fails the whole run.
type InputError struct {
	// Cause is the underlying JSON decode error
	Cause error
}

// Error implements the error interface.
func (e *InputError) Error() string {
	return fmt.Sprintf("invalid JSON input: %s", e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *InputError) Unwrap() error {
	return e.Cause
}

// DuplicateVariableError represents a collision between a CLI-declared
// variable and a record top-level field. The record is rejected rather
// than silently shadowing either binding.
type DuplicateVariableError struct {
	// Name is the colliding variable name
	Name string
}

// Error implements the error interface.
func (e *DuplicateVariableError) Error() string {
	return fmt.Sprintf("duplicate variable %q: declared on the command line and present in the record", e.Name)
}

// ExecutionError represents a runtime fault reported by the expression
// engine, such as an unbound identifier or a type mismatch.
type ExecutionError struct {
	// Cause is the engine's runtime error
	Cause error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("expression evaluation failed: %s", e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// SerializationError represents a result value that cannot be encoded
// back to JSON text, for example a NaN float.
type SerializationError struct {
	// Cause is the underlying encode error
	Cause error
}

// Error implements the error interface.
func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to encode result: %s", e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *SerializationError) Unwrap() error {
	return e.Cause
}
