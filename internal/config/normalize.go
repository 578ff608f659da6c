package config

import (
	"path/filepath"
	"runtime"
	"strings"
)

// Defaults applied by Normalize.
const (
	DefaultPollInterval = "10ms"
	DefaultUI           = "auto"
	DefaultVerbosity    = "normal"
	DefaultCategory     = "default"
)

// Normalize fills defaults in place.
func Normalize(cfg *Config) {
	if cfg.Session.PollInterval == "" {
		cfg.Session.PollInterval = DefaultPollInterval
	}
	if cfg.Session.Jobs == 0 {
		cfg.Session.Jobs = runtime.NumCPU()
	}
	if cfg.Output.UI == "" {
		cfg.Output.UI = DefaultUI
	}
	if cfg.Output.Verbosity == "" {
		cfg.Output.Verbosity = DefaultVerbosity
	}
	cfg.Output.UI = strings.ToLower(strings.TrimSpace(cfg.Output.UI))
	cfg.Output.Verbosity = strings.ToLower(strings.TrimSpace(cfg.Output.Verbosity))

	if cfg.Journal.Path != "" && cfg.Journal.Driver == "" {
		cfg.Journal.Driver = driverForPath(cfg.Journal.Path)
	}
	if cfg.Journal.Driver != "" && cfg.Journal.Path == "" {
		cfg.Journal.Path = DefaultJournalPath(cfg.Journal.Driver)
	}

	for i := range cfg.Units {
		cfg.Units[i].Name = strings.TrimSpace(cfg.Units[i].Name)
		if strings.TrimSpace(cfg.Units[i].Category) == "" {
			cfg.Units[i].Category = DefaultCategory
		}
	}
	for i := range cfg.Waits {
		if len(cfg.Waits[i].Categories) == 0 {
			cfg.Waits[i].Categories = []string{DefaultCategory}
		}
	}
}

func driverForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".duckdb", ".ddb":
		return "duckdb"
	default:
		return "sqlite"
	}
}
