package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

var (
	uiModes     = []string{"auto", "live", "plain"}
	verbosities = []string{"quiet", "normal", "detailed", "debug"}
	drivers     = []string{"duckdb", "sqlite"}
)

// Validate checks a normalized config. Relative unit directories are
// resolved against baseDir.
func Validate(cfg *Config, baseDir string) error {
	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}
	if baseDir == "" {
		baseDir = "."
	}

	if cfg.Version == 0 {
		add("version", "is required")
	} else if cfg.Version != 1 {
		add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}

	if d, err := time.ParseDuration(cfg.Session.PollInterval); err != nil {
		add("session.poll_interval", fmt.Sprintf("invalid duration %q", cfg.Session.PollInterval))
	} else if d <= 0 {
		add("session.poll_interval", "must be > 0")
	}
	if cfg.Session.Jobs < 1 {
		add("session.jobs", "must be >= 1")
	}

	if !oneOf(cfg.Output.UI, uiModes) {
		add("output.ui", fmt.Sprintf("unsupported mode %q (expected %s)", cfg.Output.UI, strings.Join(uiModes, "|")))
	}
	if !oneOf(cfg.Output.Verbosity, verbosities) {
		add("output.verbosity", fmt.Sprintf("unsupported verbosity %q", cfg.Output.Verbosity))
	}
	if cfg.Journal.Driver != "" && !oneOf(cfg.Journal.Driver, drivers) {
		add("journal.driver", fmt.Sprintf("unsupported driver %q", cfg.Journal.Driver))
	}

	names := map[string]struct{}{}
	categories := map[string]struct{}{}
	for i, unit := range cfg.Units {
		fieldPrefix := fmt.Sprintf("units[%d]", i)
		if unit.Name == "" {
			add(fieldPrefix+".name", "is required")
		} else if _, exists := names[unit.Name]; exists {
			add("units.name", fmt.Sprintf("duplicate name %q", unit.Name))
		} else {
			names[unit.Name] = struct{}{}
		}
		categories[unit.Category] = struct{}{}

		if len(unit.Command) == 0 || strings.TrimSpace(unit.Command[0]) == "" {
			add(fieldPrefix+".command", "is required")
		}
		if unit.Timeout != "" {
			if d, err := time.ParseDuration(unit.Timeout); err != nil {
				add(fieldPrefix+".timeout", fmt.Sprintf("invalid duration %q", unit.Timeout))
			} else if d < 0 {
				add(fieldPrefix+".timeout", "must be >= 0")
			}
		}
		if unit.Dir != "" {
			dir := unit.Dir
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(baseDir, dir)
			}
			if info, err := os.Stat(dir); err != nil {
				add(fieldPrefix+".dir", fmt.Sprintf("directory %q not found", unit.Dir))
			} else if !info.IsDir() {
				add(fieldPrefix+".dir", fmt.Sprintf("%q is not a directory", unit.Dir))
			}
		}
	}

	for i, wait := range cfg.Waits {
		for _, category := range wait.Categories {
			if _, ok := categories[category]; !ok {
				add(fmt.Sprintf("waits[%d].categories", i), fmt.Sprintf("no unit has category %q", category))
			}
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

func oneOf(value string, allowed []string) bool {
	for _, candidate := range allowed {
		if value == candidate {
			return true
		}
	}
	return false
}
