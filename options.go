package prgrs

import (
	"io"
	"log/slog"
	"os"

	"github.com/sigman78/prgrs/internal/term"
)

// Terminal is a cursor-addressable output. MoveTo, ClearLine and Write may
// batch; Flush sends the batch to the terminal.
type Terminal interface {
	// CursorRow returns the 0-based row the cursor is on.
	CursorRow() (int, error)
	MoveTo(col, row int) error
	ClearLine() error
	Write(p []byte) (int, error)
	Flush() error
}

// SizeFunc reports the terminal dimensions in cells.
type SizeFunc func() (width, height int, err error)

// Option configures a Bar.
type Option func(*options)

type options struct {
	writer    io.Writer
	length    Length
	terminal  Terminal
	useCursor bool
	size      SizeFunc
	logger    *slog.Logger
}

func defaultOptions() options {
	return options{
		writer: os.Stdout,
		length: DefaultLength,
		size:   stdSize,
		logger: slog.New(slog.DiscardHandler),
	}
}

// stdSize asks stdout first, then stderr, so the width is still known when
// only one of them is redirected.
func stdSize() (int, int, error) {
	return term.Size(os.Stdout, os.Stderr)
}

// OptionSetWriter sets the output of the carriage-return strategy and of
// WriteLine. Default: os.Stdout.
func OptionSetWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.writer = w
		}
	}
}

// OptionSetLength sets the initial length policy.
func OptionSetLength(l Length) Option {
	return func(o *options) {
		o.length = l
	}
}

// OptionSetTerminal makes the bar redraw with cursor addressing on t.
func OptionSetTerminal(t Terminal) Option {
	return func(o *options) {
		o.terminal = t
	}
}

// OptionUseCursor redraws with cursor addressing on the writer set by
// OptionSetWriter (default os.Stdout), reading cursor reports from stdin.
// Both must be TTYs; otherwise, or when the writer is not an *os.File, the
// carriage-return strategy is used. Ignored when OptionSetTerminal is also
// given.
func OptionUseCursor(enabled bool) Option {
	return func(o *options) {
		o.useCursor = enabled
	}
}

// OptionSetSizeFunc replaces the terminal size query.
func OptionSetSizeFunc(fn SizeFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.size = fn
		}
	}
}

// OptionSetLogger sets the logger for swallowed render failures.
// Default: discard.
func OptionSetLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
