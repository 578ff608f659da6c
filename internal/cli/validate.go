package cli

import (
	"fmt"
	"io"

	"asynctask/internal/config"
)

// runValidate builds the handler for the validate command.
func runValidate(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := newFlagSet(cmd, stderr)
		configPath := fs.String("config", "", "Path to config file (default: search for .asynctask/config.yml)")
		if code, done := parseFlags(cmd, fs, args, stdout, stderr); done {
			return code
		}
		if code, done := rejectArgs(cmd, fs, stderr); done {
			return code
		}

		resolvedConfig, err := resolveConfigPath(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Validation failed:\n%v\n", err)
			return ExitError
		}
		cfg, err := config.Load(resolvedConfig)
		if err != nil {
			fmt.Fprintf(stderr, "Validation failed:\n%s\n", err.Error())
			return ExitError
		}

		fmt.Fprintf(stdout, "Config OK (%d units, %d wait steps)\n", len(cfg.Units), len(cfg.Waits))
		return ExitOK
	}
}
