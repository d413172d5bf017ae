// Package apperr defines the error kinds surfaced by slngen and their exit codes.
package apperr

import "errors"

var (
	ErrInvalidArguments    = errors.New("invalid arguments")
	ErrSourceDirMissing    = errors.New("source directory missing")
	ErrMalformedIdentifier = errors.New("malformed identifier")
	ErrUnparseableArtifact = errors.New("unparseable artifact")
	ErrUnsupportedFeature  = errors.New("unsupported feature")
	ErrWriteFailure        = errors.New("write failure")
	ErrPromptClosed        = errors.New("prompt input closed")
)

// Process exit codes.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitInvalidUsage = 2
)

// ExitCode maps an error returned by the application to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrInvalidArguments):
		return ExitInvalidUsage
	default:
		return ExitFailure
	}
}
