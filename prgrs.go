// Package prgrs draws a single-line progress bar in the terminal while a
// sequence of known length is consumed, similar to Python's tqdm.
//
//	for i := range prgrs.New(prgrs.Range(0, 1000), 1000).WithLength(prgrs.Proportional(0.5)).All() {
//		time.Sleep(10 * time.Millisecond)
//		if i%10 == 0 {
//			if err := prgrs.Writeln(strconv.Itoa(i)); err != nil {
//				fmt.Println(i)
//			}
//		}
//	}
//
// Every step redraws the whole line, re-reading the terminal width so the bar
// follows resizes. A Bar is not safe for concurrent use, and nothing else
// should write to the terminal while it is drawing except through WriteLine.
package prgrs

import (
	"io"
	"iter"
	"log/slog"
	"os"

	"github.com/sigman78/prgrs/internal/term"
)

// State is the lifecycle position of a Bar.
type State int

const (
	Idle    State = iota // nothing pulled yet
	Running              // at least one element produced
	Done                 // underlying sequence exhausted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Done:
		return "done"
	}
	return "unknown"
}

// Bar wraps a sequence and redraws a progress bar each time an element is
// taken from it.
type Bar[T any] struct {
	seq  iter.Seq[T]
	next func() (T, bool)
	stop func()

	current int
	total   int
	length  Length
	state   State

	size     SizeFunc
	out      *returnRedraw
	strategy redrawer
	log      *slog.Logger
}

// New wraps seq, which is expected to yield total elements.
func New[T any](seq iter.Seq[T], total int, opts ...Option) *Bar[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if seq == nil {
		seq = func(func(T) bool) {}
	}
	if total < 0 {
		total = 0
	}

	b := &Bar[T]{
		seq:    seq,
		total:  total,
		length: o.length,
		size:   o.size,
		out:    &returnRedraw{w: o.writer},
		log:    o.logger,
	}
	b.strategy = b.out

	t := o.terminal
	if t == nil && o.useCursor {
		if h, err := openTerminal(o.writer); err == nil {
			t = h
		} else {
			b.log.Debug("cursor control unavailable, using carriage return", "error", err)
		}
	}
	if t != nil {
		b.strategy = &cursorRedraw{t: t}
	}
	return b
}

// SetLength changes the length policy from the next frame on.
func (b *Bar[T]) SetLength(l Length) {
	b.length = l
}

// WithLength is SetLength returning the bar, for one-line construction.
func (b *Bar[T]) WithLength(l Length) *Bar[T] {
	b.length = l
	return b
}

// Current returns the number of elements produced so far.
func (b *Bar[T]) Current() int { return b.current }

// Total returns the expected number of elements.
func (b *Bar[T]) Total() int { return b.total }

// State returns the lifecycle state.
func (b *Bar[T]) State() State { return b.state }

// Next takes the next element from the wrapped sequence and redraws the bar.
// When the sequence is exhausted it draws a final frame at 100%, ends the
// line and returns false. Drawing problems are never reported here; a broken
// display must not stop the caller's work.
func (b *Bar[T]) Next() (T, bool) {
	var zero T
	if b.state == Done {
		return zero, false
	}
	if b.next == nil {
		b.next, b.stop = iter.Pull(b.seq)
	}

	v, ok := b.next()
	if !ok {
		b.finish()
		return zero, false
	}

	b.current++
	b.state = Running
	width := b.width()
	b.draw(b.frame(width), width)
	return v, true
}

// All returns the wrapped sequence with the bar attached, for use with
// range or other iter.Seq transforms. Stopping early leaves the last frame
// on screen without a line break.
func (b *Bar[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer b.Stop()
		for {
			v, ok := b.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Stop releases the wrapped sequence without drawing anything. It is safe to
// call more than once and after exhaustion.
func (b *Bar[T]) Stop() {
	if b.stop != nil {
		b.stop()
	}
}

// openTerminal opens cursor control on the bar's own output so frames and
// WriteLine land on the same stream. Only files can be terminals.
func openTerminal(w io.Writer) (*term.Terminal, error) {
	f, ok := w.(*os.File)
	if !ok {
		return nil, term.ErrNotTerminal
	}
	return term.Open(os.Stdin, f)
}

func (b *Bar[T]) finish() {
	b.state = Done
	b.Stop()

	width := b.width()
	f := b.frame(width)
	f.Percent = 100
	b.draw(f, width)

	if err := b.strategy.newline(); err != nil {
		b.log.Debug("progress newline failed", "error", err)
		if b.strategy != redrawer(b.out) {
			_ = b.out.newline()
		}
	}
}

func (b *Bar[T]) frame(width int) Frame {
	return Render(b.current, b.total, Resolve(b.length, width))
}

// width returns the terminal width, or 0 when it cannot be determined.
func (b *Bar[T]) width() int {
	w, _, err := b.size()
	if err != nil || w < 0 {
		return 0
	}
	return w
}

// draw writes f with the active strategy. A cursor failure switches the bar
// to carriage returns for this and all later frames.
func (b *Bar[T]) draw(f Frame, width int) {
	line := f.String()
	err := b.strategy.redraw(line, width)
	if err == nil {
		return
	}
	if b.strategy == redrawer(b.out) {
		b.log.Debug("progress redraw failed", "error", err)
		return
	}

	b.log.Debug("cursor redraw failed, falling back to carriage return", "error", err)
	b.strategy = b.out
	if err := b.out.redraw(line, width); err != nil {
		b.log.Debug("progress redraw failed", "error", err)
	}
}
