package codex

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	ErrNotStarted   = errors.New("process not started")
	ErrStreamClosed = errors.New("event stream is closed")
)

// ProtocolError represents a protocol-level error: a line that failed to
// parse as JSON or carried an unrecognized type tag. Line holds the raw
// offending line.
type ProtocolError struct {
	Cause   error
	Message string
	Line    string
}

func (e *ProtocolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("protocol error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("protocol error: %s", e.Message)
}

func (e *ProtocolError) Unwrap() error {
	return e.Cause
}

// ProcessError represents a process-level error. For a non-zero exit it
// carries the exit code and the captured stderr output.
type ProcessError struct {
	Cause    error
	Message  string
	Stderr   string
	ExitCode int
}

func (e *ProcessError) Error() string {
	if e.ExitCode != 0 {
		return fmt.Sprintf("process error: %s (exit code %d)", e.Message, e.ExitCode)
	}
	return fmt.Sprintf("process error: %s", e.Message)
}

func (e *ProcessError) Unwrap() error {
	return e.Cause
}

// CLINotFoundError indicates the codex binary was not found or not spawnable.
type CLINotFoundError struct {
	Cause error
	Path  string
}

func (e *CLINotFoundError) Error() string {
	return fmt.Sprintf("CLI binary not found at %q: %v", e.Path, e.Cause)
}

func (e *CLINotFoundError) Unwrap() error {
	return e.Cause
}

// TurnFailedError carries the agent-supplied message of a well-formed
// turn.failed event.
type TurnFailedError struct {
	Message string
}

func (e *TurnFailedError) Error() string {
	return fmt.Sprintf("turn failed: %s", e.Message)
}

// ThreadStreamError carries the message of a top-level error event that
// terminated the stream without a terminal turn event.
type ThreadStreamError struct {
	Message string
}

func (e *ThreadStreamError) Error() string {
	return fmt.Sprintf("stream error: %s", e.Message)
}

// IsRecoverable returns true if a new turn may be attempted on the same
// thread after err.
func IsRecoverable(err error) bool {
	if err == nil {
		return true
	}

	var procErr *ProcessError
	if errors.As(err, &procErr) {
		return false
	}

	var cliErr *CLINotFoundError
	if errors.As(err, &cliErr) {
		return false
	}

	var protoErr *ProtocolError
	if errors.As(err, &protoErr) {
		return false
	}

	// A failed turn leaves the thread itself usable.
	return true
}
