package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunWithoutArgsPrintsUsage(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := Run(nil, &out, &errOut); code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	for _, name := range []string{"init", "validate", "run", "journal"} {
		if !strings.Contains(out.String(), name) {
			t.Fatalf("usage missing %q: %q", name, out.String())
		}
	}
}

func TestRunHelp(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := Run([]string{"--help"}, &out, &errOut); code != ExitOK {
		t.Fatalf("expected exit %d, got %d", ExitOK, code)
	}
	if !strings.Contains(out.String(), "asynctask <command>") {
		t.Fatalf("unexpected help output: %q", out.String())
	}
}

func TestRunUnknownCommand(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := Run([]string{"bogus"}, &out, &errOut); code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if !strings.Contains(errOut.String(), "Unknown command: bogus") {
		t.Fatalf("unexpected stderr: %q", errOut.String())
	}
}

func TestCommandHelp(t *testing.T) {
	for _, name := range []string{"init", "validate", "run", "journal"} {
		t.Run(name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			if code := Run([]string{name, "--help"}, &out, &errOut); code != ExitOK {
				t.Fatalf("expected exit %d, got %d", ExitOK, code)
			}
			if !strings.Contains(out.String(), "asynctask "+name) {
				t.Fatalf("unexpected usage: %q", out.String())
			}
		})
	}
}
