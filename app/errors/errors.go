package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
)

// RuntimeError is a failure of a user-initiated action, with an optional hint
// on how to resolve it.
type RuntimeError struct {
	msg   string
	cause error
	hint  string
}

// NewRuntimeError creates a new RuntimeError.
func NewRuntimeError(msg string, cause error, hint string) RuntimeError {
	return RuntimeError{msg: msg, cause: cause, hint: hint}
}

// Error implements the error interface.
func (e RuntimeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.msg, e.cause)
	}
	return e.msg
}

// Unwrap returns the underlying error for error unwrapping.
func (e RuntimeError) Unwrap() error {
	return e.cause
}

// Hint returns the optional user hint.
func (e RuntimeError) Hint() string {
	return e.hint
}

// Errorf logs an error using the default slog logger, and prints the user
// hint, if any, to stderr.
func Errorf(err error) {
	Log(err)

	var rerr RuntimeError
	if errors.As(err, &rerr) && rerr.Hint() != "" {
		fmt.Fprintln(os.Stderr, rerr.Hint())
	}
}

// Log logs an error using the default slog logger, extracting metadata if it's
// a StructuredError.
func Log(err error) {
	var serr *StructuredError
	if !errors.As(err, &serr) {
		slog.Error(err.Error())
		return
	}

	args := make([]any, 0, len(serr.metadata)*2+2)

	cause := serr.metadata["cause"]
	if serr.cause != nil {
		cause = serr.cause
	}
	if cause != nil {
		args = append(args, "cause", cause)
	}

	keys := make([]string, 0, len(serr.metadata))
	for k := range serr.metadata {
		if k != "cause" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		args = append(args, k, serr.metadata[k])
	}

	slog.Error(serr.Error(), args...)
}
