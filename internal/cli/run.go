package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"asynctask/internal/build"
	cmdexec "asynctask/internal/command"
	"asynctask/internal/config"
	"asynctask/internal/journal"
	"asynctask/internal/session"
	"asynctask/internal/sink"
	"asynctask/internal/ui/live"
	"asynctask/internal/waiter"
)

// startLiveUI is swapped in tests.
var startLiveUI = func(stdout io.Writer, noColor bool) liveView {
	return live.Start(stdout, live.Options{NoColor: noColor})
}

// liveView is the part of live.Controller the run command drives.
type liveView interface {
	sink.Sink
	sink.UnitObserver
	SessionStart(sessionID string)
	SessionEnd(success bool)
	Wait()
}

// runParams is a parsed run invocation.
type runParams struct {
	cfg          config.Config
	root         string
	categories   []string
	errorCode    string
	journalPath  string
	manifestPath string
	useLive      bool
	noColor      bool
	verbosity    sink.Verbosity
	verbose      sink.Verbose
}

// runResult summarizes a finished session.
type runResult struct {
	sessionID string
	success   bool
	counts    sink.Counts
}

func runRun(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := newFlagSet(cmd, stderr)
		configPath := fs.String("config", "", "Path to config file (default: search for .asynctask/config.yml)")
		uiMode := fs.String("ui", "", "Output mode: auto|live|plain (default from config)")
		noColor := fs.Bool("no-color", false, "Disable colored output")
		verbose := fs.Bool("verbose", false, "Print diagnostics to stderr")
		verbosity := fs.String("verbosity", "", "Message verbosity: quiet|normal|detailed (default from config)")
		journalPath := fs.String("journal", "", "Record events in this journal file")
		manifestPath := fs.String("manifest", "", "Write the unit manifest to this path")
		errorCode := fs.String("error-code", waiter.DefaultErrorCode, "Error code for failures raised while waiting")
		if code, done := parseFlags(cmd, fs, args, stdout, stderr); done {
			return code
		}

		resolvedConfig, err := resolveConfigPath(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}
		cfg, err := config.Load(resolvedConfig)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}

		params := runParams{
			cfg:          cfg,
			root:         config.RootFromConfigPath(resolvedConfig),
			categories:   fs.Args(),
			errorCode:    *errorCode,
			journalPath:  *journalPath,
			manifestPath: *manifestPath,
			noColor:      *noColor || cfg.Output.NoColor,
			verbose:      sink.NewVerbose(*verbose, stderr, *noColor || cfg.Output.NoColor),
		}
		params.verbose.Printf("config %s", resolvedConfig)

		level := cfg.Output.Verbosity
		if *verbosity != "" {
			level = *verbosity
		}
		if params.verbosity, err = sink.ParseVerbosity(level); err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitUsage
		}

		mode := cfg.Output.UI
		if *uiMode != "" {
			mode = *uiMode
		}
		decision, err := resolveUIMode(mode, *verbose, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}
		params.useLive = decision.useLive

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		result, err := runSession(ctx, params, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "Run failed: %v\n", err)
			return ExitError
		}
		status := "succeeded"
		if !result.success {
			status = "failed"
		}
		fmt.Fprintf(stdout, "Session %s %s: %d errors, %d warnings\n", result.sessionID, status, result.counts.Errors, result.counts.Warnings)
		if !result.success {
			return ExitError
		}
		return ExitOK
	}
}

// runSession starts every configured unit, runs the wait steps on the
// calling goroutine and closes the session.
func runSession(ctx context.Context, p runParams, stdout io.Writer) (result runResult, err error) {
	sessionID, err := session.NewID()
	if err != nil {
		return result, err
	}
	result.sessionID = sessionID

	var dests sink.Fanout
	var view liveView
	if p.useLive {
		view = startLiveUI(stdout, p.noColor)
		dests = append(dests, view)
	} else {
		dests = append(dests, sink.NewConsole(stdout, p.verbosity, p.noColor))
	}

	journalPath, driver := p.journalPath, p.cfg.Journal.Driver
	if journalPath == "" {
		journalPath = p.cfg.Journal.Path
	}
	var writer *journal.Writer
	if journalPath != "" {
		if driver == "" {
			driver = inferDriver(journalPath)
		}
		j, err := journal.Open(driver, config.Resolve(p.root, journalPath))
		if err != nil {
			return result, err
		}
		defer func() {
			if closeErr := j.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close journal: %w", closeErr)
			}
		}()
		writer = j.Writer(sessionID)
		dests = append(dests, writer)
		p.verbose.Printf("journal %s (%s)", journalPath, driver)
	}

	rep := sink.NewReporter(dests)
	bc, err := build.Begin(session.NewHost(), rep, build.Options{
		PollInterval: p.cfg.Session.PollIntervalDuration(),
		Jobs:         p.cfg.Session.Jobs,
		Yield:        p.cfg.Session.Yield,
		SessionID:    sessionID,
	})
	if err != nil {
		return result, err
	}
	if view != nil {
		view.SessionStart(sessionID)
	}
	p.verbose.Printf("session %s: %d units, %d slots, yield=%t", sessionID, len(p.cfg.Units), bc.Slots.Size(), p.cfg.Session.Yield)

	for _, u := range p.cfg.Units {
		spec := cmdexec.Spec{
			Name:      u.Name,
			Command:   u.Command,
			Dir:       config.Resolve(p.root, u.Dir),
			Env:       u.Env,
			Timeout:   u.TimeoutDuration(),
			ErrorCode: u.ErrorCode,
		}
		if spec.Dir == "" {
			spec.Dir = p.root
		}
		if _, err := bc.Start(u.Name, u.Category, cmdexec.Run(spec, bc.Slots)); err != nil {
			rep.Error("", "", 0, err.Error())
		}
		p.verbose.Printf("started %s [%s]: %s", u.Name, u.Category, spec.Display())
	}

	success := true
	for _, w := range waitSteps(p) {
		p.verbose.Printf("waiting on [%s]", strings.Join(w.Categories, ","))
		if !w.Execute(ctx, bc) {
			success = false
		}
	}

	closeErr := bc.Close(ctx)
	if p.manifestPath != "" {
		if err := bc.Registry.Save(config.Resolve(p.root, p.manifestPath)); err != nil {
			rep.Warning(fmt.Sprintf("write manifest: %v", err))
		}
	}
	reportJournalErr(rep, writer)

	result.success = success && !rep.HasLoggedErrors()
	result.counts = rep.Counts()
	if view != nil {
		view.SessionEnd(result.success)
		view.Wait()
	}
	if closeErr != nil {
		return result, fmt.Errorf("close session: %w", closeErr)
	}
	return result, nil
}

// waitSteps returns the positional categories as one step, or the
// configured steps.
func waitSteps(p runParams) []waiter.Waiter {
	if len(p.categories) > 0 {
		return []waiter.Waiter{{Categories: p.categories, ErrorCode: p.errorCode}}
	}
	steps := make([]waiter.Waiter, 0, len(p.cfg.Waits))
	for _, w := range p.cfg.Waits {
		code := w.ErrorCode
		if code == "" {
			code = p.errorCode
		}
		steps = append(steps, waiter.Waiter{Categories: w.Categories, ErrorCode: code})
	}
	return steps
}

func inferDriver(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".duckdb") {
		return journal.DriverDuckDB
	}
	return journal.DriverSQLite
}

// reportJournalErr surfaces the first journal write failure as a warning so
// it reaches the console or live view.
func reportJournalErr(rep *sink.Reporter, writer *journal.Writer) {
	if writer == nil || writer.Err() == nil {
		return
	}
	rep.Warning(fmt.Sprintf("journal write failed, recorded events are incomplete: %v", writer.Err()))
}
