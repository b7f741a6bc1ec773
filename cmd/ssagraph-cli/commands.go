// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"ssagraph/grammar"
	"ssagraph/internal/builder"
	"ssagraph/internal/config"
	diag "ssagraph/internal/errors"
	"ssagraph/internal/ssa"
	"ssagraph/repl"
)

// errFailed signals a run that already reported its own diagnostics.
var errFailed = errors.New("compilation failed")

// runMain executes the root command with args and returns the exit code.
// Failures that have not already printed their diagnostics are reported on
// stderr.
func runMain(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			color.New(color.FgRed).Fprintf(stderr, "error: %v\n", err)
		}
		return 1
	}
	return 0
}

type cli struct {
	cfg *config.Config
	out io.Writer
	err io.Writer
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{out: stdout, err: stderr}

	root := &cobra.Command{
		Use:           "ssagraph",
		Short:         "Build and inspect SSA control-flow graphs from graph scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromFlags(cmd.Flags())
			if err != nil {
				return err
			}
			c.cfg = cfg
			commonlog.Configure(cfg.Log.Verbosity, cfg.LogFile())
			if cfg.Log.NoColor {
				color.NoColor = true
			}
			return nil
		},
	}
	config.BindFlags(root.PersistentFlags())

	root.AddCommand(
		&cobra.Command{
			Use:   "run FILE",
			Short: "Execute a graph script and print its query output",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.run(args[0], c.out, nil)
			},
		},
		newFmtCommand(c),
		&cobra.Command{
			Use:   "dot FILE",
			Short: "Execute a graph script and write the resulting CFG as Graphviz DOT",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.run(args[0], io.Discard, func(ctx *ssa.Context) error {
					return ssa.WriteDot(c.out, ctx)
				})
			},
		},
		&cobra.Command{
			Use:   "repl",
			Short: "Start an interactive session",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				repl.Start(os.Stdin, c.out, c.cfg)
			},
		},
	)

	root.SetOut(c.out)
	root.SetErr(c.err)
	return root
}

func newFmtCommand(c *cli) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "fmt FILE",
		Short: "Print a graph script in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			script, source, err := grammar.ParseFile(path)
			if err != nil {
				if source == "" {
					return errors.Wrapf(err, "fmt %s", path)
				}
				grammar.ReportParseError(c.err, source, err)
				return errFailed
			}
			if !write {
				_, err := fmt.Fprint(c.out, script.String())
				return err
			}
			return errors.Wrapf(os.WriteFile(path, []byte(script.String()), 0o644), "write %s", path)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to FILE")
	return cmd
}

// run executes the script at path, reports its diagnostics and, when the
// script is free of errors, hands the context to then.
func (c *cli) run(path string, out io.Writer, then func(*ssa.Context) error) error {
	startTime := time.Now()

	source, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read file")
	}

	b := builder.RunSource(path, string(source), out, c.cfg)

	reporter := diag.NewErrorReporter(path, string(source))
	fmt.Fprint(c.err, reporter.FormatAll(b.Errors()))

	formattedDuration := formatDuration(time.Since(startTime))
	if b.HasErrors() {
		color.New(color.FgRed).Fprintf(c.err, "Compilation failed after %s\n", formattedDuration)
		return errFailed
	}

	if then != nil {
		if err := then(b.Context()); err != nil {
			return errors.Wrap(err, "failed to write output")
		}
	}
	color.New(color.FgGreen).Fprintf(c.err, "Successfully processed %s in %s\n", path, formattedDuration)
	return nil
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
