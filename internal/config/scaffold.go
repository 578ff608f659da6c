package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfig = `version: 1
session:
  poll_interval: 10ms
  jobs: 2
  yield: true
output:
  ui: auto
  no_color: false
  verbosity: normal
units:
  - name: vet
    category: checks
    command: ["go", "vet", "./..."]
    timeout: 5m
    error_code: VET001
  - name: test
    category: checks
    command: ["go", "test", "./..."]
    timeout: 10m
    error_code: TEST001
waits:
  - categories: [checks]
    error_code: XAT0000
`

// DefaultConfig returns the scaffolded config text.
func DefaultConfig() string {
	return defaultConfig
}

// Scaffold writes a starter config to configPath, refusing to overwrite.
func Scaffold(configPath string) error {
	if configPath == "" {
		return fmt.Errorf("config path is required")
	}
	if info, err := os.Stat(configPath); err == nil {
		if info.IsDir() {
			return fmt.Errorf("config path %q is a directory", configPath)
		}
		return fmt.Errorf("config file already exists at %q", configPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
