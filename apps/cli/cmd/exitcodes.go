package cmd

import (
	"errors"

	"github.com/abdul-hamid-achik/pmplus/packages/collection"
	"github.com/abdul-hamid-achik/pmplus/packages/core/document"
	"github.com/abdul-hamid-achik/pmplus/packages/core/macro"
	"github.com/abdul-hamid-achik/pmplus/packages/curl"
)

// Exit codes for pmplus CLI
const (
	// ExitSuccess indicates every file was processed
	ExitSuccess = 0

	// ExitWarnings indicates validation warnings with --strict
	ExitWarnings = 1

	// ExitParseError indicates an unreadable document, collection or curl command
	ExitParseError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	var (
		formatErr *collection.FormatError
		shapeErr  *document.StepShapeError
		cycleErr  *macro.IncludeCycleError
		depthErr  *macro.IncludeDepthError
	)
	switch {
	case errors.As(err, &formatErr),
		errors.As(err, &shapeErr),
		errors.As(err, &cycleErr),
		errors.As(err, &depthErr),
		errors.Is(err, curl.ErrNoURL):
		return ExitParseError
	}
	return 1
}
