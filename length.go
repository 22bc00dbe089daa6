package prgrs

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// Overhead is the number of characters a frame spends on decoration:
	// both brackets, the space, the parentheses, three percentage digits
	// and the percent sign.
	Overhead = 9

	// DefaultWidth is the total frame width used for a Proportional length
	// when the terminal width cannot be determined.
	DefaultWidth = 30
)

// DefaultLength is the length policy a new Bar starts with.
var DefaultLength = Proportional(0.33)

// Length is the sizing policy of a bar: either an absolute number of
// characters or a fraction of the terminal width.
//
// Proportional values below 0 act as 0 and values above 1 act as 1. A value
// of 0 gives a bar with a single step, 1 makes the bar span the terminal.
//
// An Absolute value is the total width including the percentage and the
// brackets. Values too small to hold a single step (anything up to 10) give a
// bar with one step. Values wider than the terminal are not adjusted.
type Length struct {
	proportional bool
	abs          int
	prop         float64
}

// Absolute returns a fixed-width policy of n characters.
func Absolute(n int) Length {
	return Length{abs: n}
}

// Proportional returns a policy covering fraction p of the terminal width.
// p is clamped each time the length is resolved, not here.
func Proportional(p float64) Length {
	return Length{proportional: true, prop: p}
}

// IsProportional reports whether l depends on the terminal width.
func (l Length) IsProportional() bool {
	return l.proportional
}

func (l Length) String() string {
	if l.proportional {
		return "Proportional(" + strconv.FormatFloat(l.prop, 'g', -1, 64) + ")"
	}
	return "Absolute(" + strconv.Itoa(l.abs) + ")"
}

// Resolve converts l into a number of fill-steps. width is the current
// terminal width in cells; zero or negative means it is unavailable.
// The result is always at least 1.
func Resolve(l Length, width int) int {
	total := l.abs
	if l.proportional {
		total = DefaultWidth
		if width > 0 {
			total = int(float64(width) * clamp01(l.prop))
		}
	}
	if total > Overhead+1 {
		return total - Overhead
	}
	return 1
}

func clamp01(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// ParseLength parses a length policy from text.
//
//	"40"   -> Absolute(40)
//	"0.5"  -> Proportional(0.5)
//	"50%"  -> Proportional(0.5)
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Length{}, fmt.Errorf("empty length")
	}
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		if err != nil {
			return Length{}, fmt.Errorf("invalid length %q: %w", s, err)
		}
		return Proportional(v / 100), nil
	}
	if strings.ContainsAny(s, ".eE") {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Length{}, fmt.Errorf("invalid length %q: %w", s, err)
		}
		return Proportional(v), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Length{}, fmt.Errorf("invalid length %q: %w", s, err)
	}
	if n < 0 {
		return Length{}, fmt.Errorf("invalid length %q: must not be negative", s)
	}
	return Absolute(n), nil
}
