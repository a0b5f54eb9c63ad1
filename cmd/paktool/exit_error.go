package main

import (
	"fmt"

	"github.com/meigma/pak/manifest"
)

// maxExitCode is the largest status a process can report.
const maxExitCode = 255

// ExitError signals a specific exit code without calling os.Exit in RunE
// handlers.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// manifestExit wraps a manifest failure so the process exits with the
// number of problems found, capped at maxExitCode.
func manifestExit(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: min(manifest.Count(err), maxExitCode), Err: err}
}
