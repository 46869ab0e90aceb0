package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

const waitDelay = 2 * time.Second

// CmdResult holds the captured output of a finished child process
type CmdResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Runner executes argv (program first) and waits for it to finish.
// A non-zero exit status is reported through CmdResult.ExitCode, not the error.
type Runner interface {
	Run(ctx context.Context, argv []string) (*CmdResult, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, argv []string) (*CmdResult, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// sudo may leave children holding the pipes after a kill
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()

	result := &CmdResult{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	// The context error takes precedence over the kill signal's exit status
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("%s did not finish: %w", argv[0], ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("failed to start %s: %w", argv[0], err)
	}
	return result, nil
}
