package prgrs

import (
	"fmt"
	"io"
	"strings"
)

// redrawer replaces the previously drawn frame with a new one.
type redrawer interface {
	// redraw draws frame over the current line. width is the terminal
	// width for this frame, 0 when unknown.
	redraw(frame string, width int) error
	// newline ends the bar's line.
	newline() error
}

// cursorRedraw moves to column 0 of the cursor's row, clears it and writes
// the frame there.
type cursorRedraw struct {
	t Terminal
}

func (c *cursorRedraw) redraw(frame string, _ int) error {
	row, err := c.t.CursorRow()
	if err != nil {
		return fmt.Errorf("cursor row: %w", err)
	}
	if err := c.t.MoveTo(0, row); err != nil {
		return fmt.Errorf("move cursor: %w", err)
	}
	if err := c.t.ClearLine(); err != nil {
		return fmt.Errorf("clear line: %w", err)
	}
	if _, err := io.WriteString(c.t, frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return c.t.Flush()
}

func (c *cursorRedraw) newline() error {
	if _, err := io.WriteString(c.t, "\n"); err != nil {
		return err
	}
	return c.t.Flush()
}

// returnRedraw blanks the line with spaces between carriage returns and
// writes the frame, leaving the cursor at column 0 so no line feed is used.
type returnRedraw struct {
	w io.Writer
}

func (r *returnRedraw) redraw(frame string, width int) error {
	var b strings.Builder
	b.Grow(width + len(frame) + 3)
	b.WriteByte('\r')
	if width > 0 {
		b.WriteString(strings.Repeat(" ", width))
		b.WriteByte('\r')
	}
	b.WriteString(frame)
	b.WriteByte('\r')
	if _, err := io.WriteString(r.w, b.String()); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return flush(r.w)
}

func (r *returnRedraw) newline() error {
	if _, err := io.WriteString(r.w, "\n"); err != nil {
		return err
	}
	return flush(r.w)
}

// flush pushes buffered output of w to the terminal. Files are unbuffered
// and need nothing.
func flush(w io.Writer) error {
	if f, ok := w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}
