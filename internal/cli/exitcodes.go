package cli

import (
	"context"
	"errors"
)

// Exit codes for mdfix.
const (
	// ExitSuccess indicates successful execution with no issues.
	ExitSuccess = 0

	// ExitIssues indicates the run completed but issues remain.
	ExitIssues = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates an unusable configuration.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74

	// ExitInterrupted indicates the run was cancelled by a signal.
	ExitInterrupted = 130
)

// Error classes returned by commands, mapped to exit codes by ExitCode.
var (
	// ErrLintIssuesFound is returned when lint or fix leaves issues behind.
	ErrLintIssuesFound = errors.New("lint issues found")

	// ErrInvalidUsage marks bad flags or arguments.
	ErrInvalidUsage = errors.New("invalid usage")

	// ErrConfig marks configuration that cannot be loaded.
	ErrConfig = errors.New("configuration error")

	// ErrIO marks missing or unreadable files.
	ErrIO = errors.New("file error")
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrLintIssuesFound):
		return ExitIssues
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, ErrIO):
		return ExitIOError
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		return ExitInternalError
	}
}
