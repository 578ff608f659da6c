package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	configPath := filepath.Join(dir, ".asynctask", "config.yml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("create config dir: %v", err)
	}
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

// TestValidateCommandSuccess verifies validate command success path.
func TestValidateCommandSuccess(t *testing.T) {
	configPath := writeConfig(t, t.TempDir(), `version: 1
units:
  - name: vet
    category: checks
    command: ["go", "vet", "./..."]
waits:
  - categories: [checks]
`)

	var out, err bytes.Buffer
	code := Run([]string{"validate", "--config", configPath}, &out, &err)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (%s)", ExitOK, code, err.String())
	}
	if err.Len() != 0 {
		t.Fatalf("expected no stderr output, got %q", err.String())
	}
	if !strings.Contains(out.String(), "Config OK (1 units, 1 wait steps)") {
		t.Fatalf("expected success message, got %q", out.String())
	}
}

// TestValidateCommandFailure verifies validate command error handling.
func TestValidateCommandFailure(t *testing.T) {
	configPath := writeConfig(t, t.TempDir(), `version: 1
units:
  - name: ""
    command: []
`)

	var out, err bytes.Buffer
	code := Run([]string{"validate", "--config", configPath}, &out, &err)
	if code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no stdout output, got %q", out.String())
	}
	for _, want := range []string{"Validation failed", "units[0].name", "units[0].command"} {
		if !strings.Contains(err.String(), want) {
			t.Fatalf("expected %q in stderr, got %q", want, err.String())
		}
	}
}

func TestValidateRejectsExtraArgs(t *testing.T) {
	var out, err bytes.Buffer
	if code := Run([]string{"validate", "extra"}, &out, &err); code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
}
