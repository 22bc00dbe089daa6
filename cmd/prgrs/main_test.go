package main

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"testing"
)

// subprocessEnv is set in the re-executed subprocess so it knows to call main()
// directly instead of spawning another child.
const subprocessEnv = "PRGRS_TEST_SUBPROCESS"

// runSubprocess re-executes the test binary running only the named test,
// with subprocessEnv set so the test calls main() and lets os.Exit fire.
// Returns the *exec.ExitError (nil means exit 0).
func runSubprocess(t *testing.T, testName string) error {
	t.Helper()
	cmd := exec.Command(os.Args[0], "-test.run=^"+testName+"$")
	cmd.Dir = t.TempDir()
	cmd.Env = append(os.Environ(), subprocessEnv+"=1", "XDG_CONFIG_HOME="+cmd.Dir)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run()
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("subprocess did not run: %v", err)
	}
	return exitErr.ExitCode()
}

// TestHelpExitsZero verifies that -help prints usage and exits with code 0.
func TestHelpExitsZero(t *testing.T) {
	if os.Getenv(subprocessEnv) == "1" {
		os.Args = []string{"prgrs", "-help"}
		main()
		return // unreachable; main calls os.Exit
	}
	if code := exitCode(t, runSubprocess(t, "TestHelpExitsZero")); code != 0 {
		t.Fatalf("expected exit 0 for -help, got %d", code)
	}
}

func TestVersionExitsZero(t *testing.T) {
	if os.Getenv(subprocessEnv) == "1" {
		os.Args = []string{"prgrs", "-version"}
		main()
		return
	}
	if code := exitCode(t, runSubprocess(t, "TestVersionExitsZero")); code != 0 {
		t.Fatalf("expected exit 0 for -version, got %d", code)
	}
}

// TestUnknownFlagExitsTwo verifies that an unrecognised flag exits with code 2.
func TestUnknownFlagExitsTwo(t *testing.T) {
	if os.Getenv(subprocessEnv) == "1" {
		os.Args = []string{"prgrs", "-this-flag-does-not-exist"}
		main()
		return // unreachable; main calls os.Exit
	}
	if code := exitCode(t, runSubprocess(t, "TestUnknownFlagExitsTwo")); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}

func TestBadWorkersExitsOne(t *testing.T) {
	if os.Getenv(subprocessEnv) == "1" {
		os.Args = []string{"prgrs", "-workers", "0"}
		main()
		return
	}
	if code := exitCode(t, runSubprocess(t, "TestBadWorkersExitsOne")); code != 1 {
		t.Fatalf("expected exit code 1 for -workers 0, got %d", code)
	}
}

func TestBadLengthExitsOne(t *testing.T) {
	if os.Getenv(subprocessEnv) == "1" {
		os.Args = []string{"prgrs", "-length", "wide"}
		main()
		return
	}
	if code := exitCode(t, runSubprocess(t, "TestBadLengthExitsOne")); code != 1 {
		t.Fatalf("expected exit code 1 for bad -length, got %d", code)
	}
}

func TestMissingConfigExitsOne(t *testing.T) {
	if os.Getenv(subprocessEnv) == "1" {
		os.Args = []string{"prgrs", "-config", "does-not-exist.yaml"}
		main()
		return
	}
	if code := exitCode(t, runSubprocess(t, "TestMissingConfigExitsOne")); code != 1 {
		t.Fatalf("expected exit code 1 for missing config, got %d", code)
	}
}

// TestRunExitsZero runs a few items end to end.
func TestRunExitsZero(t *testing.T) {
	if os.Getenv(subprocessEnv) == "1" {
		os.Args = []string{"prgrs", "-n", "20", "-delay", "0s", "-workers", "3", "-every", "5"}
		main()
		os.Exit(0) // main returns normally on success
	}
	if code := exitCode(t, runSubprocess(t, "TestRunExitsZero")); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
}

func TestConfigPath(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{nil, ""},
		{[]string{"-n", "5"}, ""},
		{[]string{"-config", "a.yaml"}, "a.yaml"},
		{[]string{"--config", "b.yaml", "-n", "3"}, "b.yaml"},
		{[]string{"-debug", "-config=c.yaml"}, "c.yaml"},
		{[]string{"-config"}, ""},
		{[]string{"config", "d.yaml"}, ""},
	}
	for _, tc := range cases {
		if got := configPath(tc.args); got != tc.want {
			t.Errorf("configPath(%q)\n  got  %q\n  want %q", tc.args, got, tc.want)
		}
	}
}
