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

// Package stream reads records from the input, evaluates each against the
// compiled program, and assembles results in input order.
package stream

import (
	"bufio"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/tombee/exq/internal/bind"
	"github.com/tombee/exq/internal/engine"
	"github.com/tombee/exq/pkg/errors"
	"github.com/tombee/exq/pkg/value"
)

// Mode selects how the input stream maps to records.
type Mode int

const (
	// ModeLine treats each non-blank input line as one record.
	ModeLine Mode = iota
	// ModeSlurp treats the whole input as one record.
	ModeSlurp
	// ModeNull evaluates once with no record bound.
	ModeNull
)

// maxLineBytes bounds a single input line in line mode.
const maxLineBytes = 16 * 1024 * 1024

// Options configures one run. Jobs > 0 is an explicit worker count,
// Jobs < 0 means one worker per available CPU, Jobs == 0 is rejected.
type Options struct {
	Mode Mode
	Jobs int
}

// Result is the outcome of evaluating one record.
type Result struct {
	// Output is the JSON-encoded result value.
	Output string
	// Truthy is the truthiness verdict for the result.
	Truthy bool
}

// Evaluator drives the record pipeline. The program and base variable set
// are shared read-only across workers; everything else is per record.
type Evaluator struct {
	prog   engine.Program
	base   map[string]value.Value
	opts   Options
	logger *slog.Logger
}

// New validates the options and returns an evaluator. A zero jobs degree
// is rejected here, before any input is touched.
func New(prog engine.Program, base map[string]value.Value, opts Options, logger *slog.Logger) (*Evaluator, error) {
	if opts.Jobs == 0 {
		return nil, &errors.InvalidParallelismError{Jobs: opts.Jobs}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Evaluator{prog: prog, base: base, opts: opts, logger: logger}, nil
}

// Run consumes the input according to the configured mode and returns one
// result per record, in input order. The first failing record fails the
// whole run; results computed for sibling records are discarded.
func (e *Evaluator) Run(r io.Reader) ([]Result, error) {
	switch e.opts.Mode {
	case ModeNull:
		res, err := e.evalRecord(nil)
		if err != nil {
			return nil, err
		}
		return []Result{res}, nil

	case ModeSlurp:
		buf, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read input")
		}
		text := string(buf)
		res, err := e.evalRecord(&text)
		if err != nil {
			return nil, err
		}
		return []Result{res}, nil

	default:
		return e.runLines(r)
	}
}

func (e *Evaluator) runLines(r io.Reader) ([]Result, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read input")
	}

	// Nothing but blank lines behaves like null input: evaluate once
	// rather than emitting nothing.
	if len(lines) == 0 {
		res, err := e.evalRecord(nil)
		if err != nil {
			return nil, err
		}
		return []Result{res}, nil
	}

	workers := e.opts.Jobs
	if workers < 0 {
		workers = runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
	}
	e.logger.Debug("dispatching records", "records", len(lines), "workers", workers)

	// Slot-indexed collection: worker i writes only slot i, so output
	// order matches input order no matter which worker finishes first.
	results := make([]Result, len(lines))
	errs := make([]error, len(lines))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, line := range lines {
		wg.Add(1)
		go func(slot int, text string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res, err := e.evalRecord(&text)
			if err != nil {
				errs[slot] = err
				return
			}
			results[slot] = res
		}(i, line)
	}
	wg.Wait()

	// Report the earliest failed record so reruns are reproducible even
	// though workers race.
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// evalRecord runs the full pipeline for one record: parse, bind, execute,
// encode. A nil text means no record is bound.
func (e *Evaluator) evalRecord(text *string) (Result, error) {
	vars := e.base
	if text != nil {
		record, err := value.Parse(*text)
		if err != nil {
			return Result{}, err
		}
		vars, err = bind.ForRecord(e.base, record)
		if err != nil {
			return Result{}, err
		}
	}

	out, err := e.prog.Run(vars)
	if err != nil {
		return Result{}, err
	}

	encoded, err := out.Encode()
	if err != nil {
		return Result{}, err
	}
	return Result{Output: encoded, Truthy: value.Truthy(out)}, nil
}
