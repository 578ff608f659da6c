package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"asynctask/internal/config"
	"asynctask/internal/journal"
	"asynctask/internal/sink"
)

// runJournal builds the handler for the journal command.
func runJournal(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := newFlagSet(cmd, stderr)
		configPath := fs.String("config", "", "Path to config file (default: search for .asynctask/config.yml)")
		path := fs.String("path", "", "Journal file (default from config)")
		driver := fs.String("driver", "", "Journal driver: duckdb|sqlite (default from config or file extension)")
		limit := fs.Int("limit", 10, "Number of recent errors to show")
		if code, done := parseFlags(cmd, fs, args, stdout, stderr); done {
			return code
		}
		if code, done := rejectArgs(cmd, fs, stderr); done {
			return code
		}

		journalPath, journalDriver := *path, *driver
		if journalPath == "" {
			resolvedConfig, err := resolveConfigPath(*configPath)
			if err != nil {
				fmt.Fprintf(stderr, "Journal failed: %v\n", err)
				return ExitError
			}
			cfg, err := config.Load(resolvedConfig)
			if err != nil {
				fmt.Fprintf(stderr, "Journal failed: %v\n", err)
				return ExitError
			}
			if cfg.Journal.Path == "" {
				fmt.Fprintln(stderr, "Journal failed: no journal configured (set journal.path or pass --path)")
				return ExitError
			}
			journalPath = config.Resolve(config.RootFromConfigPath(resolvedConfig), cfg.Journal.Path)
			if journalDriver == "" {
				journalDriver = cfg.Journal.Driver
			}
		}
		if journalDriver == "" {
			journalDriver = inferDriver(journalPath)
		}

		j, err := journal.Open(journalDriver, journalPath)
		if err != nil {
			fmt.Fprintf(stderr, "Journal failed: %v\n", err)
			return ExitError
		}
		defer j.Close()

		if err := printJournal(context.Background(), j, *limit, stdout); err != nil {
			fmt.Fprintf(stderr, "Journal failed: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}

func printJournal(ctx context.Context, j *journal.Journal, limit int, stdout io.Writer) error {
	summaries, err := j.Summaries(ctx)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Fprintln(stdout, "No sessions recorded.")
		return nil
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tUNITS\tMESSAGES\tWARNINGS\tERRORS\tDURATION")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\n",
			s.SessionID, s.Units, s.Messages, s.Warnings, s.Errors,
			s.Last.Sub(s.First).Round(time.Millisecond))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	entries, err := j.RecentErrors(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	fmt.Fprintln(stdout, "\nRecent errors:")
	console := sink.NewConsole(stdout, sink.VerbosityQuiet, true)
	for _, entry := range entries {
		fmt.Fprintf(stdout, "%s ", entry.SessionID)
		console.Deliver(entry.Event)
	}
	return nil
}
