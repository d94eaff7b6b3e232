// Package cli is the command-line front end shared by the cleaning commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/wdm0006/janitor-reports/pkg/config"
	"github.com/wdm0006/janitor-reports/pkg/datasets"
	j "github.com/wdm0006/janitor-reports/pkg/janitor"
)

var version = "0.1.0-dev"

const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Main parses args (without the program name), runs ds and returns the
// process exit code. The report goes to stdout; logs and diagnostics go to
// stderr.
func Main(ctx context.Context, ds datasets.Dataset, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(ds.Name+"clean", flag.ContinueOnError)
	fs.SetOutput(stderr)
	showVersion := fs.Bool("version", false, "Print version and exit")
	configPath := fs.String("config", "", "Path to run config (.json, .toml, .yaml)")
	input := fs.String("input", "", "Input CSV path (default "+ds.DefaultInput+")")
	output := fs.String("output", "", "Cleaned output path (default "+ds.DefaultOutput+")")
	outType := fs.String("type", "", "Output type: "+strings.Join(config.OutputTypes, "|"))
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return ExitUsage
	}
	if *showVersion {
		fmt.Fprintln(stdout, ds.Name+"clean", version)
		return ExitOK
	}

	cfg := config.Default(ds.DefaultInput, ds.DefaultOutput)
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath, cfg); err != nil {
			fmt.Fprintln(stderr, err)
			return ExitUsage
		}
	}
	if *input != "" {
		cfg.Input.Path = *input
	}
	if *output != "" {
		cfg.Output.Path = *output
	}
	if *outType != "" {
		cfg.Output.Type = *outType
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return ExitUsage
	}

	log := NewLogger(stderr, cfg.Log).With("dataset", ds.Name, "run_id", uuid.NewString())
	res, err := datasets.Run(ctx, ds, cfg, log, stdout)
	if err != nil {
		log.Error("run failed", "err", err)
		fmt.Fprintln(stderr, Diagnostic(err))
		return ExitFailure
	}
	fmt.Fprintf(stdout, "\nCleaned data saved to %s (%d rows)\n", res.Output, res.Written)
	return ExitOK
}

// Diagnostic is the one-line message shown to the user for err.
func Diagnostic(err error) string {
	var le *j.LoadError
	if errors.As(err, &le) && errors.Is(err, j.ErrNotFound) {
		return fmt.Sprintf("file %q not found", le.Path)
	}
	var we *j.WriteError
	if errors.As(err, &we) {
		return fmt.Sprintf("cannot write %q: %v", we.Path, we.Err)
	}
	return err.Error()
}

// NewLogger builds a slog.Logger writing to w with the configured level and
// format.
func NewLogger(w io.Writer, c config.Log) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level(c.Level)}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func level(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
