package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesConfigThatValidates(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".asynctask", "config.yml")

	var out, errOut bytes.Buffer
	if code := Run([]string{"init", "--config", configPath}, &out, &errOut); code != ExitOK {
		t.Fatalf("init exit %d: %s", code, errOut.String())
	}
	if !strings.Contains(out.String(), "Wrote "+configPath) {
		t.Fatalf("unexpected output %q", out.String())
	}

	out.Reset()
	if code := Run([]string{"validate", "--config", configPath}, &out, &errOut); code != ExitOK {
		t.Fatalf("validate exit %d: %s", code, errOut.String())
	}

	errOut.Reset()
	if code := Run([]string{"init", "--config", configPath}, &out, &errOut); code != ExitError {
		t.Fatalf("expected second init to fail, got %d", code)
	}
	if !strings.Contains(errOut.String(), "already exists") {
		t.Fatalf("unexpected stderr %q", errOut.String())
	}
}
