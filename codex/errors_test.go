package codex

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtocolError(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := &ProtocolError{Message: "failed to parse event", Line: `{"type":`, Cause: cause}

	assert.Contains(t, err.Error(), "protocol error")
	assert.Contains(t, err.Error(), "failed to parse event")
	assert.ErrorIs(t, err, cause)
}

func TestProcessError_ExitCodeInMessage(t *testing.T) {
	err := &ProcessError{Message: "codex exec exited with an error", ExitCode: 3, Stderr: "bad credentials"}
	assert.Contains(t, err.Error(), "exit code 3")
}

func TestProcessError_Wrapped(t *testing.T) {
	inner := &ProcessError{Message: "exec failed", ExitCode: 1}
	wrapped := fmt.Errorf("run turn: %w", inner)

	var procErr *ProcessError
	require.True(t, errors.As(wrapped, &procErr))
	assert.Equal(t, 1, procErr.ExitCode)
}

func TestCLINotFoundError(t *testing.T) {
	cause := errors.New("executable file not found in $PATH")
	err := &CLINotFoundError{Path: "codex", Cause: cause}

	assert.Contains(t, err.Error(), `"codex"`)
	assert.ErrorIs(t, err, cause)
}

func TestTurnFailedError(t *testing.T) {
	err := &TurnFailedError{Message: "model refused"}
	assert.Equal(t, "turn failed: model refused", err.Error())
}

func TestThreadStreamError(t *testing.T) {
	err := &ThreadStreamError{Message: "upstream unavailable"}
	assert.Equal(t, "stream error: upstream unavailable", err.Error())
}

func TestIsRecoverable(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		recoverable bool
	}{
		{"nil", nil, true},
		{"turn failed", &TurnFailedError{Message: "boom"}, true},
		{"stream error", &ThreadStreamError{Message: "boom"}, true},
		{"process error", &ProcessError{Message: "died"}, false},
		{"cli not found", &CLINotFoundError{Path: "codex"}, false},
		{"protocol error", &ProtocolError{Message: "bad line"}, false},
		{"wrapped process error", fmt.Errorf("turn: %w", &ProcessError{Message: "died"}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.recoverable, IsRecoverable(tt.err))
		})
	}
}
