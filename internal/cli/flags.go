package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

func newFlagSet(cmd *Command, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func isFlagHelp(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// rejectArgs reports unexpected positional arguments.
func rejectArgs(cmd *Command, fs *flag.FlagSet, stderr io.Writer) (int, bool) {
	if fs.NArg() == 0 {
		return ExitOK, false
	}
	fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
	printCommandUsage(cmd, stderr)
	return ExitUsage, true
}
