package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MladenSU/color-mtr/config"
	"github.com/MladenSU/color-mtr/internal/service/probe"
	"github.com/MladenSU/color-mtr/internal/service/report"
	"github.com/MladenSU/color-mtr/internal/tools"
	pkgtools "github.com/MladenSU/color-mtr/pkg/tools"
	"github.com/MladenSU/color-mtr/pkg/tools/logger"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	waitingText     = "Generating a report."
	toolNotFoundMsg = "[ERROR] mtr executable not found! Please install it."
)

// Prober runs mtr and returns the parsed report
type Prober interface {
	Invoke(ctx context.Context, userArgs []string) (*report.Report, error)
}

// newProber and now are replaced in tests
var (
	newProber = func(c *config.Config) Prober { return probe.New(c) }
	now       = time.Now
)

func runReport(cmd *cobra.Command, args []string) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	run := &reportRun{
		prober:   newProber(cfg),
		renderer: report.NewRenderer(stdout, report.NewClassifier(cfg), pkgtools.ColorEnabled(cfg.Color, stdout)),
		stderr:   stderr,
		spinner:  cfg.SpinnerEnabled() && pkgtools.IsTerminal(stderr),
	}
	return run.Run(cmd.Context(), args)
}

// reportRun is a single probe-and-print pass
type reportRun struct {
	prober   Prober
	renderer *report.Renderer
	stderr   io.Writer
	spinner  bool
}

func (r *reportRun) Run(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.WithFields(map[string]any{"run_id": uuid.NewString()})
	log.Debug("Starting report", "args", args)

	start := now().Format(report.StartTimeLayout)
	rep, err := r.invoke(ctx, args)
	if err != nil {
		log.Debug("Report failed", "error", err)
		return err
	}
	end := now().Format(report.EndTimeLayout)

	r.renderer.Render(rep, start, end)
	log.Debug("Report printed", "hops", len(rep.Hubs))
	return nil
}

// invoke runs the probe, animating a spinner on stderr while it works
func (r *reportRun) invoke(ctx context.Context, args []string) (*report.Report, error) {
	if !r.spinner {
		fmt.Fprintln(r.stderr, waitingText)
		return r.prober.Invoke(ctx, args)
	}

	var rep *report.Report
	g, gctx := errgroup.WithContext(ctx)
	spinCtx, stopSpinner := context.WithCancel(gctx)

	g.Go(func() error {
		defer stopSpinner()
		var err error
		rep, err = r.prober.Invoke(gctx, args)
		return err
	})
	g.Go(func() error {
		return tools.NewSpinner(r.stderr, waitingText).Run(spinCtx)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rep, nil
}

// exitCode prints the outcome of a failed run and maps it to the process exit code.
// Malformed mtr output is shown verbatim and is not a failure.
func exitCode(err error, stdout, stderr io.Writer, colors bool) int {
	if err == nil {
		return 0
	}

	var (
		execErr   *probe.ExecutionError
		malformed *probe.MalformedOutputError
	)
	switch {
	case errors.Is(err, probe.ErrToolNotFound):
		msg := toolNotFoundMsg
		if colors {
			msg = text.Colors{text.FgRed}.EscapeSeq() + msg + "\033[0m"
		}
		fmt.Fprintln(stderr, msg)
		return 1
	case errors.As(err, &execErr):
		if strings.TrimSpace(execErr.Stderr) == "" {
			fmt.Fprintf(stderr, "[ERROR] %v\n", err)
		} else {
			writeVerbatim(stderr, execErr.Stderr)
		}
		return 1
	case errors.As(err, &malformed):
		writeVerbatim(stdout, malformed.Output)
		return 0
	default:
		fmt.Fprintf(stderr, "[ERROR] %v\n", err)
		return 1
	}
}

func writeVerbatim(w io.Writer, s string) {
	fmt.Fprint(w, s)
	if !strings.HasSuffix(s, "\n") {
		fmt.Fprintln(w)
	}
}
