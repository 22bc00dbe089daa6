package prgrs

import (
	"fmt"
	"math"
	"strings"
)

// Frame is one rendered state of the progress bar.
type Frame struct {
	Bar     string // "[###   ]"
	Percent int    // 0..100
}

// String returns the full line written to the terminal, e.g. "[##  ] ( 50%)".
func (f Frame) String() string {
	return fmt.Sprintf("%s (%3d%%)", f.Bar, f.Percent)
}

// Render builds the frame for current out of total using steps fill-steps.
//
// An empty total is treated as complete: the bar is full and the percentage
// is 100. When current overtakes total the bar stays full and the percentage
// stays at 100.
func Render(current, total, steps int) Frame {
	if steps < 1 {
		steps = 1
	}
	if current < 0 {
		current = 0
	}

	ratio := 1.0
	if total > 0 {
		ratio = min(float64(current)/float64(total), 1)
	}

	filled := min(int(ratio*float64(steps)), steps)

	var b strings.Builder
	b.Grow(steps + 2)
	b.WriteByte('[')
	b.WriteString(strings.Repeat("#", filled))
	b.WriteString(strings.Repeat(" ", steps-filled))
	b.WriteByte(']')

	return Frame{Bar: b.String(), Percent: percent(ratio)}
}

func percent(ratio float64) int {
	pct := math.Round(ratio * 100)
	switch {
	case math.IsNaN(pct), pct > 100:
		return 100
	case pct < 0:
		return 0
	}
	return int(pct)
}
