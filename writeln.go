package prgrs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	sanitize "github.com/mrz1836/go-sanitize"
	"github.com/rivo/uniseg"
)

// ErrNoTerminalSize is returned by WriteLine and Writeln when the terminal
// width cannot be determined. Callers usually fall back to a plain print.
var ErrNoTerminalSize = errors.New("unable to determine terminal size")

// WriteLine prints text on the bar's line, blanking whatever is left of the
// bar to its right, and moves to a fresh line. The next frame is drawn below
// it. Line breaks in text are replaced with spaces.
func (b *Bar[T]) WriteLine(text string) error {
	return writeLine(b.out.w, b.size, text)
}

// Writeln is WriteLine for the default output, usable without a Bar value.
func Writeln(text string) error {
	return writeLine(os.Stdout, stdSize, text)
}

func writeLine(w io.Writer, size SizeFunc, text string) error {
	width, _, err := size()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoTerminalSize, err)
	}
	if width <= 0 {
		return ErrNoTerminalSize
	}

	text = sanitize.SingleLine(text)
	pad := width - uniseg.StringWidth(text)
	if pad < 0 {
		pad = 0
	}

	var sb strings.Builder
	sb.Grow(len(text) + pad + 2)
	sb.WriteByte('\r')
	sb.WriteString(text)
	sb.WriteString(strings.Repeat(" ", pad))
	sb.WriteByte('\n')

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	if err := flush(w); err != nil {
		return fmt.Errorf("flush line: %w", err)
	}
	return nil
}
