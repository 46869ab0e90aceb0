package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/MladenSU/color-mtr/config"
	"github.com/MladenSU/color-mtr/internal/service/probe"
	"github.com/MladenSU/color-mtr/internal/service/report"
)

type fakeProber struct {
	rep  *report.Report
	err  error
	args []string
}

func (f *fakeProber) Invoke(ctx context.Context, args []string) (*report.Report, error) {
	f.args = args
	return f.rep, f.err
}

// setup isolates the CLI from the host config and clock and turns colors off
func setup(t *testing.T, prober Prober) {
	t.Helper()
	t.Setenv("CMTR_CONFIG", "")
	t.Setenv("CMTR_COLOR", "never")

	oldProber, oldNow := newProber, now
	if prober != nil {
		newProber = func(*config.Config) Prober { return prober }
	}
	now = func() time.Time { return time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC) }
	t.Cleanup(func() {
		newProber, now = oldProber, oldNow
	})
}

func fixtureReport(t *testing.T) *report.Report {
	t.Helper()
	data, err := os.ReadFile("../internal/service/report/testdata/report.json")
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}
	rep, err := report.Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return rep
}

func TestExecuteReport(t *testing.T) {
	prober := &fakeProber{rep: fixtureReport(t)}
	setup(t, prober)

	var stdout, stderr bytes.Buffer
	code := execute([]string{"-c", "10", "example.com"}, &stdout, &stderr)

	if code != 0 {
		t.Fatalf("exit code = %d, want 0; stderr: %s", code, stderr.String())
	}
	if want := []string{"-c", "10", "example.com"}; !reflect.DeepEqual(prober.args, want) {
		t.Errorf("args passed to mtr = %q, want %q", prober.args, want)
	}

	output := stdout.String()
	for _, want := range []string{
		"Start: 2026-10-19 08:00:00",
		"Source: workstation",
		"Destination: example.com",
		"Count: 10",
		"End: 08:00:00",
		"_gateway",
		"core1.example.net",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
	if !strings.Contains(stderr.String(), waitingText) {
		t.Errorf("expected waiting text on stderr, got %q", stderr.String())
	}
}

func TestExecuteFailures(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		stdout       string
		stderr       string
	}{
		{
			name:         "tool not found",
			err:          fmt.Errorf("%w: mtr", probe.ErrToolNotFound),
			expectedCode: 1,
			stderr:       "mtr executable not found",
		},
		{
			name:         "tool failed",
			err:          &probe.ExecutionError{ExitCode: 1, Stderr: "mtr: Failure to open IPv4 sockets\n"},
			expectedCode: 1,
			stderr:       "mtr: Failure to open IPv4 sockets\n",
		},
		{
			name:         "tool failed without stderr",
			err:          &probe.ExecutionError{ExitCode: 2},
			expectedCode: 1,
			stderr:       "mtr exited with status 2",
		},
		{
			name:         "malformed output is shown verbatim",
			err:          &probe.MalformedOutputError{Output: "usage: mtr [-hv] HOSTNAME\n", Err: report.ErrMalformed},
			expectedCode: 0,
			stdout:       "usage: mtr [-hv] HOSTNAME\n",
		},
		{
			name:         "unexpected error",
			err:          errors.New("boom"),
			expectedCode: 1,
			stderr:       "[ERROR] boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup(t, &fakeProber{err: tt.err})

			var stdout, stderr bytes.Buffer
			code := execute([]string{"example.com"}, &stdout, &stderr)

			if code != tt.expectedCode {
				t.Errorf("exit code = %d, want %d", code, tt.expectedCode)
			}
			if tt.stdout != "" && stdout.String() != tt.stdout {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.stdout)
			}
			if tt.stdout == "" && stdout.Len() != 0 {
				t.Errorf("no table should be printed on failure, got %q", stdout.String())
			}
			if tt.stderr != "" && !strings.Contains(stderr.String(), tt.stderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tt.stderr)
			}
		})
	}
}

func TestExecuteEmptyReport(t *testing.T) {
	setup(t, &fakeProber{rep: &report.Report{Mtr: report.Metadata{Dst: "example.com"}}})

	var stdout, stderr bytes.Buffer
	code := execute([]string{"example.com"}, &stdout, &stderr)

	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), "No hops reported.") {
		t.Errorf("expected the no hops message, got:\n%s", stdout.String())
	}
}

func TestExecuteToolMissingOnHost(t *testing.T) {
	setup(t, nil)
	t.Setenv("CMTR_BINARY", "cmtr-test-no-such-mtr")

	var stdout, stderr bytes.Buffer
	code := execute([]string{"example.com"}, &stdout, &stderr)

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "not found") {
		t.Errorf("stderr = %q, want a not found message", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", stdout.String())
	}
}

func TestExecuteInvalidConfig(t *testing.T) {
	prober := &fakeProber{rep: fixtureReport(t)}
	setup(t, prober)
	t.Setenv("CMTR_LOSS_WARN", "10")
	t.Setenv("CMTR_LOSS_CRIT", "5")

	var stdout, stderr bytes.Buffer
	code := execute([]string{"example.com"}, &stdout, &stderr)

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if prober.args != nil {
		t.Errorf("mtr should not run with an invalid config")
	}
	if !strings.Contains(stderr.String(), "invalid configuration") {
		t.Errorf("stderr = %q, want a configuration error", stderr.String())
	}
}

func TestExecuteInvalidOverride(t *testing.T) {
	prober := &fakeProber{rep: fixtureReport(t)}
	setup(t, prober)
	t.Setenv("CMTR_LOSS_WARN", "abc")

	var stdout, stderr bytes.Buffer
	code := execute([]string{"example.com"}, &stdout, &stderr)

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if prober.args != nil {
		t.Errorf("mtr should not run with an unparsable override")
	}
	if !strings.Contains(stderr.String(), "CMTR_LOSS_WARN") {
		t.Errorf("stderr = %q, want the offending variable named", stderr.String())
	}
}

func TestExecuteExplicitConfigMissing(t *testing.T) {
	setup(t, &fakeProber{rep: fixtureReport(t)})
	t.Setenv("CMTR_CONFIG", "/nonexistent/cmtr.yaml")

	var stdout, stderr bytes.Buffer
	if code := execute([]string{"example.com"}, &stdout, &stderr); code != 1 {
		t.Errorf("exit code = %d, want 1 for a missing explicit config", code)
	}
}

func TestConfigCommand(t *testing.T) {
	setup(t, nil)
	t.Setenv("CMTR_LATENCY_WARN", "25")

	var stdout, stderr bytes.Buffer
	code := execute([]string{"config"}, &stdout, &stderr)

	if code != 0 {
		t.Fatalf("exit code = %d, want 0; stderr: %s", code, stderr.String())
	}
	output := stdout.String()
	for _, want := range []string{"binary: mtr", "warn: 25", "crit: 100", "warn: 0.1"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in config output:\n%s", want, output)
		}
	}
}

func TestConfigInitCommand(t *testing.T) {
	setup(t, nil)

	path := filepath.Join(t.TempDir(), "custom.yaml")

	var stdout, stderr bytes.Buffer
	code := execute([]string{"config", "init", path}, &stdout, &stderr)

	if code != 0 {
		t.Fatalf("exit code = %d, want 0; stderr: %s", code, stderr.String())
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file was not created: %v", err)
	}
}

func TestExitCodeColoredNotFound(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := exitCode(probe.ErrToolNotFound, &stdout, &stderr, true)

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.HasPrefix(stderr.String(), "\033[31m"+toolNotFoundMsg) {
		t.Errorf("expected a red error message, got %q", stderr.String())
	}
}

func TestReportRunWithSpinner(t *testing.T) {
	setup(t, nil)

	tests := []struct {
		name   string
		prober *fakeProber
	}{
		{"success", &fakeProber{rep: fixtureReport(t)}},
		{"failure", &fakeProber{err: probe.ErrToolNotFound}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			run := &reportRun{
				prober:   tt.prober,
				renderer: report.NewRenderer(&stdout, report.DefaultClassifier(), false),
				stderr:   &stderr,
				spinner:  true,
			}

			err := run.Run(context.Background(), []string{"example.com"})
			if !errors.Is(err, tt.prober.err) {
				t.Errorf("Run() error = %v, want %v", err, tt.prober.err)
			}
			if tt.prober.err == nil && !strings.Contains(stdout.String(), "_gateway") {
				t.Errorf("expected the hop table, got:\n%s", stdout.String())
			}
			if tt.prober.err != nil && stdout.Len() != 0 {
				t.Errorf("nothing should be rendered on failure, got:\n%s", stdout.String())
			}
			if !strings.HasSuffix(stderr.String(), "\r\033[K") {
				t.Errorf("spinner should clear its line, stderr = %q", stderr.String())
			}
		})
	}
}
