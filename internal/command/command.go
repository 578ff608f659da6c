// Package command runs external processes as unit work.
package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"asynctask/internal/slots"
	"asynctask/internal/unit"
)

// ErrEmptyCommand is returned for a Spec without an executable.
var ErrEmptyCommand = errors.New("command: empty command")

const maxLineBytes = 1024 * 1024

// Spec describes one process.
type Spec struct {
	Name      string
	Command   []string
	Dir       string
	Env       map[string]string
	Timeout   time.Duration
	ErrorCode string
}

// Display returns the command line for messages.
func (s Spec) Display() string {
	return strings.Join(s.Command, " ")
}

// Run returns work that starts the process once a slot from pool is free.
// Stdout lines become messages and stderr lines warnings. A non-zero exit or
// a timeout is logged as an error tagged with ErrorCode. A nil pool runs
// without limits.
func Run(spec Spec, pool *slots.Pool) unit.Func {
	return func(ctx context.Context, log unit.Logger) error {
		if len(spec.Command) == 0 {
			return ErrEmptyCommand
		}
		if pool != nil {
			slot, err := pool.Acquire(ctx)
			if err != nil {
				return err
			}
			defer slot.Release()
		}

		runCtx := ctx
		if spec.Timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, spec.Timeout)
			defer cancel()
		}

		cmd := exec.CommandContext(runCtx, spec.Command[0], spec.Command[1:]...)
		cmd.Dir = spec.Dir
		cmd.Env = environ(spec.Env)
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return fmt.Errorf("stdout pipe: %w", err)
		}
		stderr, err := cmd.StderrPipe()
		if err != nil {
			return fmt.Errorf("stderr pipe: %w", err)
		}

		log.Debugf("exec %s", spec.Display())
		if spec.Dir != "" {
			log.Debugf("in %s", spec.Dir)
		}
		if err := cmd.Start(); err != nil {
			log.CodedError(spec.ErrorCode, fmt.Sprintf("start %s: %v", spec.Display(), err))
			return nil
		}

		var g errgroup.Group
		g.Go(func() error { return stream(stdout, log.Message, log.Warningf) })
		g.Go(func() error { return stream(stderr, log.Warning, log.Warningf) })
		streamErr := g.Wait()
		waitErr := cmd.Wait()

		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case runCtx.Err() != nil:
			log.CodedError(spec.ErrorCode, fmt.Sprintf("%s timed out after %s", spec.Display(), spec.Timeout))
			return nil
		}
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			log.CodedError(spec.ErrorCode, fmt.Sprintf("%s exited with code %d", spec.Display(), exitErr.ExitCode()))
			return nil
		}
		if waitErr != nil {
			return fmt.Errorf("wait %s: %w", spec.Display(), waitErr)
		}
		if streamErr != nil {
			log.ErrorFromErr(fmt.Errorf("read output of %s: %w", spec.Display(), streamErr))
		}
		return nil
	}
}

// stream emits r line by line. Lines longer than maxLineBytes are cut and
// the rest of the line is discarded with a warning. The reader is always
// consumed to EOF so the child never blocks on a full pipe.
func stream(r io.Reader, emit func(string), warnf func(string, ...any)) error {
	br := bufio.NewReaderSize(r, 64*1024)
	var line []byte
	dropped := 0
	flush := func() {
		emit(string(line))
		if dropped > 0 {
			warnf("line truncated to %d bytes, %d bytes dropped", maxLineBytes, dropped)
		}
		line, dropped = line[:0], 0
	}
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			if len(line) > 0 || dropped > 0 {
				flush()
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			_, _ = io.Copy(io.Discard, br)
			return err
		}
		if room := maxLineBytes - len(line); len(chunk) > room {
			dropped += len(chunk) - room
			chunk = chunk[:room]
		}
		line = append(line, chunk...)
		if !isPrefix {
			flush()
		}
	}
}

func environ(extra map[string]string) []string {
	env := os.Environ()
	keys := make([]string, 0, len(extra))
	for key := range extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		env = append(env, key+"="+extra[key])
	}
	return env
}
