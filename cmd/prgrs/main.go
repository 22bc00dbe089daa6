package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/sigman78/prgrs/internal/config"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: prgrs [options]

Runs simulated work items on a worker pool and shows their progress on a
single self-overwriting line, with a log line printed every few items.

Options:
  -config string          Config file (default: ./prgrs.yaml or ~/.config/prgrs/prgrs.yaml)
  -n int                  Number of work items (default: 1000)
  -length string          Bar length: 40 (absolute), 0.5 or 50%% (of terminal width) (default: 0.33)
  -delay duration         Simulated time per item (default: 10ms)
  -workers int            Concurrent workers (default: 1)
  -rate float             Max items started per second, 0 = unlimited (default: 0)
  -every int              Print a log line every N items, 0 = never (default: 100)
  -cursor                 Redraw with cursor addressing instead of carriage returns
  -debug                  Enable verbose debug logging
  -version                Print version and exit
  -h / -help              Show this help and exit

Every option can also be set in the config file or as PRGRS_<NAME>
(PRGRS_COUNT, PRGRS_LENGTH, PRGRS_DELAY, PRGRS_WORKERS, PRGRS_RATE,
PRGRS_LOG_EVERY, PRGRS_CURSOR, PRGRS_DEBUG). Flags win over both.
`)
}

func main() {
	// Use ContinueOnError so we can intercept ErrHelp and unknown-flag errors
	// and control the exit code ourselves.
	fs := flag.NewFlagSet("prgrs", flag.ContinueOnError)
	fs.Usage = usage

	// Handle -version / -h / -help before the flag parser so we control the exit code.
	for _, a := range os.Args[1:] {
		if a == "-version" || a == "--version" {
			fmt.Printf("prgrs %s (commit %s, built %s)\n", version, commit, date)
			os.Exit(0)
		}
		if a == "-h" || a == "-help" || a == "--help" {
			usage()
			os.Exit(0)
		}
	}

	// Flag defaults come from the config, so the config file has to be known
	// before the flags are declared.
	cfg, err := config.Load(configPath(os.Args[1:]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var configFlag string
	fs.StringVar(&configFlag, "config", "", "Config file")
	fs.IntVar(&cfg.Count, "n", cfg.Count, "Number of work items")
	fs.StringVar(&cfg.Length, "length", cfg.Length, "Bar length")
	fs.DurationVar(&cfg.Delay, "delay", cfg.Delay, "Simulated time per item")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Concurrent workers")
	fs.Float64Var(&cfg.Rate, "rate", cfg.Rate, "Max items started per second")
	fs.IntVar(&cfg.LogEvery, "every", cfg.LogEvery, "Print a log line every N items")
	fs.BoolVar(&cfg.Cursor, "cursor", cfg.Cursor, "Redraw with cursor addressing")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable verbose debug logging")

	if err := fs.Parse(os.Args[1:]); err != nil {
		// Unknown/malformed flag: fs already printed the error message
		os.Exit(2)
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "error: unexpected argument %q\n", fs.Arg(0))
		usage()
		os.Exit(2)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Debug)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdout, logger); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "interrupted")
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

// configPath finds the value of -config in args without parsing the rest.
func configPath(args []string) string {
	for i, a := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(a, "-"), "=")
		if !strings.HasPrefix(a, "-") || name != "config" {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// newLogger logs to stderr; warnings only unless debug is set.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
