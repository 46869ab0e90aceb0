package probe

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/MladenSU/color-mtr/config"
	"github.com/MladenSU/color-mtr/internal/service/report"
	"github.com/MladenSU/color-mtr/internal/tools"
	"github.com/MladenSU/color-mtr/pkg/tools/logger"
)

// Invoker locates mtr, runs it with JSON output and parses the report
type Invoker struct {
	cfg      *config.Config
	runner   Runner
	lookPath func(string) (string, error)
	logger   *logger.Logger
}

// Option customizes an Invoker
type Option func(*Invoker)

// WithRunner replaces the process runner
func WithRunner(r Runner) Option {
	return func(i *Invoker) { i.runner = r }
}

// WithLookPath replaces the executable lookup, exec.LookPath by default
func WithLookPath(fn func(string) (string, error)) Option {
	return func(i *Invoker) { i.lookPath = fn }
}

func New(cfg *config.Config, opts ...Option) *Invoker {
	i := &Invoker{
		cfg:      cfg,
		runner:   ExecRunner{},
		lookPath: exec.LookPath,
		logger:   logger.WithComponent("probe"),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Locate returns the path of the configured mtr binary
func (i *Invoker) Locate() (string, error) {
	path, err := i.lookPath(i.cfg.Binary)
	if err != nil {
		i.logger.Debug("Lookup failed", "binary", i.cfg.Binary, "error", err)
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, i.cfg.Binary)
	}
	return path, nil
}

// BuildCommand returns the argv for path and the user's arguments, with -j appended once
func (i *Invoker) BuildCommand(path string, userArgs []string) []string {
	return tools.NewMtrCommand(path).
		Elevate(tools.ElevationFor(i.cfg.UseSudo())).
		Args(userArgs...).
		Argv()
}

// Invoke runs mtr with userArgs and returns the parsed report
func (i *Invoker) Invoke(ctx context.Context, userArgs []string) (*report.Report, error) {
	path, err := i.Locate()
	if err != nil {
		return nil, err
	}

	if i.cfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(i.cfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	argv := i.BuildCommand(path, userArgs)
	i.logger.Debug("Running mtr", "argv", argv)

	result, err := i.runner.Run(ctx, argv)
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		i.logger.Warn("mtr failed", "exit_code", result.ExitCode, "duration", result.Duration)
		return nil, &ExecutionError{ExitCode: result.ExitCode, Stderr: string(result.Stderr)}
	}

	rep, err := report.Parse(result.Stdout)
	if err != nil {
		i.logger.Info("mtr output is not a JSON report", "error", err)
		return nil, &MalformedOutputError{Output: string(result.Stdout), Err: err}
	}

	i.logger.Info("mtr finished", "hops", len(rep.Hubs), "duration", result.Duration)
	return rep, nil
}
