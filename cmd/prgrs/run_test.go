package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/sigman78/prgrs"
	"github.com/sigman78/prgrs/internal/config"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Count = 20
	cfg.Delay = 0
	cfg.Workers = 4
	cfg.LogEvery = 5
	cfg.Length = "19"
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedWidth(w int) prgrs.Option {
	return prgrs.OptionSetSizeFunc(func() (int, int, error) { return w, 24, nil })
}

func TestRunDrawsBarAndLogLines(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), testConfig(), &out, discardLogger(), fixedWidth(40)); err != nil {
		t.Fatalf("run: %v", err)
	}

	s := out.String()
	if n := strings.Count(s, "finished item"); n != 4 {
		t.Errorf("expected 4 log lines, got %d in %q", n, s)
	}
	if !strings.Contains(s, "(20/20)") {
		t.Errorf("last log line missing: %q", s)
	}
	if !strings.HasSuffix(s, "[##########] (100%)\r\n") {
		t.Errorf("output does not end with the final frame: %q", s[max(0, len(s)-80):])
	}
}

// Without a terminal the log lines fall back to plain output.
func TestRunWithoutTerminal(t *testing.T) {
	var out bytes.Buffer
	noSize := prgrs.OptionSetSizeFunc(func() (int, int, error) { return 0, 0, errors.New("no tty") })
	if err := run(context.Background(), testConfig(), &out, discardLogger(), noSize); err != nil {
		t.Fatalf("run: %v", err)
	}
	if n := strings.Count(out.String(), "finished item"); n != 4 {
		t.Errorf("expected 4 fallback log lines, got %d", n)
	}
	if !strings.Contains(out.String(), "(20/20)\n") {
		t.Errorf("fallback lines should be plain prints: %q", out.String())
	}
}

func TestRunRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.Count = 5
	cfg.Rate = 500
	var out bytes.Buffer
	if err := run(context.Background(), cfg, &out, discardLogger(), fixedWidth(40)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Count(out.String(), "\n") != 2 {
		t.Errorf("expected one log line and the final line break: %q", out.String())
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := run(ctx, testConfig(), &out, discardLogger(), fixedWidth(40))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !strings.HasSuffix(out.String(), "\n") {
		t.Errorf("bar line not terminated after cancel: %q", out.String())
	}
}

// Cancelling while every item is already submitted must still fail the run.
func TestRunCancelledInFlight(t *testing.T) {
	cfg := testConfig()
	cfg.Count = 4
	cfg.Workers = 4
	cfg.Delay = 200 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(50*time.Millisecond, cancel)

	var out bytes.Buffer
	err := run(ctx, cfg, &out, discardLogger(), fixedWidth(40))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !strings.HasSuffix(out.String(), "\n") {
		t.Errorf("bar line not terminated after cancel: %q", out.String())
	}
}

func TestRunEmpty(t *testing.T) {
	cfg := testConfig()
	cfg.Count = 0
	var out bytes.Buffer
	if err := run(context.Background(), cfg, &out, discardLogger(), fixedWidth(40)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasSuffix(out.String(), "[##########] (100%)\r\n") {
		t.Errorf("empty run output: %q", out.String())
	}
}

func TestRunBadLength(t *testing.T) {
	cfg := testConfig()
	cfg.Length = "wide"
	if err := run(context.Background(), cfg, io.Discard, discardLogger()); err == nil {
		t.Error("expected error for invalid length")
	}
}
