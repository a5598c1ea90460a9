package compiler

import (
	"errors"
	"fmt"
)

// Compiler invocation errors.
// They are kept distinct from input and I/O errors so that callers can
// report a failed dictionary compilation by name.
var (
	// ErrSpawn is returned when the compiler process cannot be started,
	// e.g. because java is not installed.
	ErrSpawn = errors.New("failed to start dictionary compiler")

	// ErrCompileFailed is returned when the compiler ran but did not
	// succeed. Non-zero exits are reported as *ExitError, which matches
	// this error with errors.Is.
	ErrCompileFailed = errors.New("dictionary compiler failed")

	// ErrNoCommand is returned when the configured command is empty.
	ErrNoCommand = errors.New("dictionary compiler command is empty")
)

// ExitError reports a compiler process that exited with a non-zero status.
type ExitError struct {
	// Command is the program that was run.
	Command string

	// Code is the process exit status.
	Code int
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: %s exited with status %d", ErrCompileFailed, e.Command, e.Code)
}

// Is reports whether target is ErrCompileFailed.
func (e *ExitError) Is(target error) bool {
	return target == ErrCompileFailed
}
