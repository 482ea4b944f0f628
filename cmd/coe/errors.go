package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/san-kum/coe/internal/config"
)

// Exit codes.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Bad state vector, undefined element in strict mode, failed check
	ExitCommandError = 2 // Missing file, unparsable input, bad flags
)

// ExitError carries the process exit code for an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func commandError(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: ExitCommandError, Err: err}
}

// exitCode maps an error to a process exit code. Input that never reached
// vector form (missing or unparsable files) is a command error.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	var parseErr *config.ParseError
	if errors.Is(err, fs.ErrNotExist) || errors.As(err, &parseErr) {
		return ExitCommandError
	}
	return ExitFailure
}

// friendly returns the first line of the error message.
func friendly(err error) string {
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return msg
}

// reportError prints one line, or the whole wrap chain when verbose.
func reportError(w io.Writer, err error, verbose bool) {
	if !verbose {
		fmt.Fprintf(w, "error: %s\n", friendly(err))
		return
	}
	fmt.Fprintf(w, "error: %s\n", err.Error())
	depth := 0
	for e := err; e != nil; e = errors.Unwrap(e) {
		fmt.Fprintf(w, "  %s%T: %v\n", strings.Repeat("  ", depth), e, e)
		depth++
	}
}
