// Package term is a small cursor-addressing handle over a terminal.
//
// Control sequences are batched in memory and written in one go on Flush, so
// a frame reaches the terminal as a single write. Cursor position is read
// with a DSR query (ESC[6n), which needs the input side in raw mode for the
// duration of the reply.
package term

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"
	xterm "golang.org/x/term"
)

var (
	// ErrNotTerminal is returned by Open when either side is not a TTY.
	ErrNotTerminal = errors.New("not a terminal")
	// ErrBadCursorReport is returned when the terminal's reply to a cursor
	// position query cannot be parsed.
	ErrBadCursorReport = errors.New("malformed cursor position report")
)

// maxReportLen bounds how many bytes are read while waiting for the
// terminating 'R' of a cursor report.
const maxReportLen = 64

// Terminal is a batched writer with cursor control for one TTY.
type Terminal struct {
	in    *os.File
	out   *os.File
	batch bytes.Buffer
}

// Open returns a Terminal reading replies from in and writing to out.
func Open(in, out *os.File) (*Terminal, error) {
	if in == nil || out == nil || !IsTerminal(in) || !IsTerminal(out) {
		return nil, ErrNotTerminal
	}
	return &Terminal{in: in, out: out}, nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd())
}

// Size returns the width and height of the first file in files that is a
// terminal.
func Size(files ...*os.File) (width, height int, err error) {
	err = ErrNotTerminal
	for _, f := range files {
		if f == nil {
			continue
		}
		width, height, err = xterm.GetSize(int(f.Fd()))
		if err == nil {
			return width, height, nil
		}
	}
	return 0, 0, err
}

// Size returns the current dimensions of the output terminal.
func (t *Terminal) Size() (width, height int, err error) {
	return xterm.GetSize(int(t.out.Fd()))
}

// CursorRow asks the terminal for the cursor position and returns its
// 0-based row. Any batched output is flushed first so the reply reflects it.
func (t *Terminal) CursorRow() (int, error) {
	if err := t.Flush(); err != nil {
		return 0, err
	}

	fd := int(t.in.Fd())
	state, err := xterm.MakeRaw(fd)
	if err != nil {
		return 0, fmt.Errorf("raw mode: %w", err)
	}
	defer func() { _ = xterm.Restore(fd, state) }()

	if _, err := io.WriteString(t.out, "\x1b[6n"); err != nil {
		return 0, fmt.Errorf("cursor query: %w", err)
	}
	reply, err := readReport(t.in)
	if err != nil {
		return 0, fmt.Errorf("cursor reply: %w", err)
	}
	row, _, err := ParseCursorReport(reply)
	return row, err
}

// readReport reads up to and including the 'R' that ends a cursor report.
func readReport(r io.Reader) ([]byte, error) {
	var reply []byte
	b := make([]byte, 1)
	for len(reply) < maxReportLen {
		n, err := r.Read(b)
		if n == 1 {
			reply = append(reply, b[0])
			if b[0] == 'R' {
				return reply, nil
			}
		}
		if err != nil {
			return reply, err
		}
	}
	return reply, ErrBadCursorReport
}

// ParseCursorReport extracts the position from a reply of the form
// ESC[row;colR. Bytes before the last ESC[ (typed-ahead input) are ignored.
// The returned row and column are 0-based.
func ParseCursorReport(reply []byte) (row, col int, err error) {
	start := bytes.LastIndex(reply, []byte("\x1b["))
	if start < 0 || len(reply) == 0 || reply[len(reply)-1] != 'R' {
		return 0, 0, ErrBadCursorReport
	}
	body := reply[start+2 : len(reply)-1]
	sep := bytes.IndexByte(body, ';')
	if sep < 0 {
		return 0, 0, ErrBadCursorReport
	}
	row, err = strconv.Atoi(string(body[:sep]))
	if err != nil || row < 1 {
		return 0, 0, ErrBadCursorReport
	}
	col, err = strconv.Atoi(string(body[sep+1:]))
	if err != nil || col < 1 {
		return 0, 0, ErrBadCursorReport
	}
	return row - 1, col - 1, nil
}

// MoveTo batches a move to the 0-based cell (col, row).
func (t *Terminal) MoveTo(col, row int) error {
	if col < 0 || row < 0 {
		return fmt.Errorf("move to (%d,%d): negative position", col, row)
	}
	fmt.Fprintf(&t.batch, "\x1b[%d;%dH", row+1, col+1)
	return nil
}

// ClearLine batches an erase of the whole current line.
func (t *Terminal) ClearLine() error {
	t.batch.WriteString("\x1b[2K")
	return nil
}

// Write batches p.
func (t *Terminal) Write(p []byte) (int, error) {
	return t.batch.Write(p)
}

// Flush writes everything batched so far. The batch is dropped even when
// the write fails so a broken terminal does not accumulate output.
func (t *Terminal) Flush() error {
	if t.batch.Len() == 0 {
		return nil
	}
	defer t.batch.Reset()
	if _, err := t.out.Write(t.batch.Bytes()); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}
