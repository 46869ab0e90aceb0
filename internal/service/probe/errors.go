package probe

import (
	"errors"
	"fmt"
	"strings"
)

// ErrToolNotFound is returned when the mtr executable cannot be located
var ErrToolNotFound = errors.New("mtr executable not found")

// ExecutionError reports a probe that exited with a non-zero status
type ExecutionError struct {
	ExitCode int
	Stderr   string
}

func (e *ExecutionError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("mtr exited with status %d", e.ExitCode)
	}
	return fmt.Sprintf("mtr exited with status %d: %s", e.ExitCode, msg)
}

// MalformedOutputError reports a successful run whose stdout is not a usable report.
// Output is kept verbatim so it can be shown to the user.
type MalformedOutputError struct {
	Output string
	Err    error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("unexpected mtr output: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Err
}
