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

// Package cli wires the command line onto the evaluation pipeline.
package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tombee/exq/internal/bind"
	"github.com/tombee/exq/internal/engine"
	"github.com/tombee/exq/internal/log"
	"github.com/tombee/exq/internal/stream"
	"github.com/tombee/exq/pkg/errors"
)

// Version information (injected via ldflags at build time).
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// SetVersion sets the version information (called from main).
func SetVersion(v, c, b string) {
	version, commit, buildDate = v, c, b
}

// errFalse marks a boolean-false result under --boolean. It is an exit
// status, not a failure; Execute maps it to code 1 without a diagnostic.
var errFalse = stderrors.New("result is false")

type options struct {
	argSpecs   []string
	boolean    bool
	nullInput  bool
	slurp      bool
	jobs       int
	engineName string
	logLevel   string
}

// NewRootCommand creates the root command for exq.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "exq [flags] <expression>",
		Short: "exq - evaluate expressions against JSON input",
		Long: `exq evaluates an expression against JSON records read from standard
input and writes one JSON result per record, in input order.

By default each non-blank input line is one record (NLJSON). With --slurp
the whole input is a single record; with --null-input no input is read.
The record is bound to the variable "this"; when the record is an object,
each top-level field is also bound under its own name.`,
		Example: `  # Select a field from each input line
  echo '{"x": 1}' | exq 'this.x'

  # Evaluate without input
  exq -n '2 + 3'

  # Declare typed variables
  exq -n -a low:int=10 -a high:int=100 'low + high'

  # Use the result as an exit status
  echo '{"healthy": false}' | exq -b 'healthy'

  # jq filter over the same pipeline
  echo '{"x": 1}' | exq -e jq '.x'`,
		Args:          cobra.ExactArgs(1),
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true, // Don't show usage on errors
		SilenceErrors: true, // We handle errors ourselves for proper exit codes
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.argSpecs, "arg", "a", nil,
		"Declare a variable as name:type[=value]; without =value the variable is not bound")
	cmd.Flags().BoolVarP(&opts.boolean, "boolean", "b", false,
		"Map the truthiness of the last result to the exit status (true=0, false=1)")
	cmd.Flags().BoolVarP(&opts.nullInput, "null-input", "n", false,
		"Do not read input; evaluate once with no record")
	cmd.Flags().BoolVarP(&opts.slurp, "slurp", "s", false,
		"Treat the entire input as a single JSON document")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", -1,
		"Records evaluated in parallel; negative means one per CPU")
	cmd.Flags().StringVarP(&opts.engineName, "engine", "e", "expr",
		"Expression engine (expr, jq)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "",
		"Log level for diagnostics on stderr (debug, info, warn, error)")

	return cmd
}

func run(cmd *cobra.Command, expression string, opts *options) error {
	logCfg := log.FromEnv()
	if opts.logLevel != "" {
		logCfg.Level = opts.logLevel
	}
	logger := log.New(logCfg)

	// Jobs is validated before anything else so a bad degree is rejected
	// no matter what the expression or input contain.
	if opts.jobs == 0 {
		return &errors.InvalidParallelismError{Jobs: opts.jobs}
	}

	specs := make([]bind.ArgumentSpec, 0, len(opts.argSpecs))
	for _, s := range opts.argSpecs {
		spec, err := bind.ParseSpec(s)
		if err != nil {
			return err
		}
		specs = append(specs, spec)
	}

	base, err := bind.NewBaseSet(specs, logger)
	if err != nil {
		return err
	}

	eng, err := engine.New(opts.engineName)
	if err != nil {
		return err
	}

	varNames := make([]string, 0, len(base))
	for name := range base {
		varNames = append(varNames, name)
	}
	sort.Strings(varNames)

	prog, err := eng.Compile(expression, varNames)
	if err != nil {
		return err
	}
	logger.Debug("expression compiled", "engine", opts.engineName, "variables", len(varNames))

	mode := stream.ModeLine
	switch {
	case opts.nullInput:
		mode = stream.ModeNull
	case opts.slurp:
		mode = stream.ModeSlurp
	}

	ev, err := stream.New(prog, base, stream.Options{Mode: mode, Jobs: opts.jobs}, logger)
	if err != nil {
		return err
	}

	results, err := ev.Run(cmd.InOrStdin())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, res := range results {
		if _, err := fmt.Fprintln(out, res.Output); err != nil {
			return errors.Wrap(err, "failed to write output")
		}
	}

	if opts.boolean && !results[len(results)-1].Truthy {
		return errFalse
	}
	return nil
}

// Execute runs the root command with the given arguments and returns the
// process exit code: 0 for success (or boolean-true under --boolean),
// 1 for boolean-false, 2 for any error.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)

	if err := cmd.Execute(); err != nil {
		if stderrors.Is(err, errFalse) {
			return 1
		}
		fmt.Fprintf(stderr, "exq: %s\n", err)
		return 2
	}
	return 0
}
