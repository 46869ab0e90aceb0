package probe

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"

	"github.com/MladenSU/color-mtr/config"
	"github.com/MladenSU/color-mtr/internal/service/report"
)

type fakeRunner struct {
	result *CmdResult
	err    error
	argv   []string
}

func (f *fakeRunner) Run(ctx context.Context, argv []string) (*CmdResult, error) {
	f.argv = argv
	return f.result, f.err
}

func found(path string) func(string) (string, error) {
	return func(string) (string, error) { return path, nil }
}

func notFound(string) (string, error) {
	return "", errors.New(`exec: "mtr": executable file not found in $PATH`)
}

func fixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("../report/testdata/report.json")
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}
	return data
}

func TestInvokeSuccess(t *testing.T) {
	runner := &fakeRunner{result: &CmdResult{Stdout: fixture(t)}}
	inv := New(config.NewDefaultConfig(), WithRunner(runner), WithLookPath(found("/usr/bin/mtr")))

	rep, err := inv.Invoke(context.Background(), []string{"-c", "10", "example.com"})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if len(rep.Hubs) != 3 {
		t.Errorf("len(Hubs) = %d, want 3", len(rep.Hubs))
	}

	want := []string{"sudo", "/usr/bin/mtr", "-c", "10", "example.com", "-j"}
	if !reflect.DeepEqual(runner.argv, want) {
		t.Errorf("argv = %q, want %q", runner.argv, want)
	}
}

func TestInvokeToolNotFound(t *testing.T) {
	runner := &fakeRunner{}
	inv := New(config.NewDefaultConfig(), WithRunner(runner), WithLookPath(notFound))

	_, err := inv.Invoke(context.Background(), []string{"example.com"})
	if !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("error = %v, want ErrToolNotFound", err)
	}
	if runner.argv != nil {
		t.Errorf("runner should not be called when mtr is missing")
	}
}

func TestInvokeExecutionFailed(t *testing.T) {
	runner := &fakeRunner{result: &CmdResult{
		ExitCode: 1,
		Stderr:   []byte("mtr: Failure to open IPv4 sockets: Operation not permitted\n"),
	}}
	inv := New(config.NewDefaultConfig(), WithRunner(runner), WithLookPath(found("mtr")))

	_, err := inv.Invoke(context.Background(), []string{"example.com"})
	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("error = %v, want *ExecutionError", err)
	}
	if execErr.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", execErr.ExitCode)
	}
	if execErr.Stderr != "mtr: Failure to open IPv4 sockets: Operation not permitted\n" {
		t.Errorf("Stderr should be kept verbatim, got %q", execErr.Stderr)
	}
}

func TestInvokeMalformedOutput(t *testing.T) {
	usage := "usage: mtr [-BfhjlpquvVrwctglxsbonimyzeaM46] [--help] HOSTNAME\n"
	runner := &fakeRunner{result: &CmdResult{Stdout: []byte(usage)}}
	inv := New(config.NewDefaultConfig(), WithRunner(runner), WithLookPath(found("mtr")))

	_, err := inv.Invoke(context.Background(), []string{"--help"})
	var malformed *MalformedOutputError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want *MalformedOutputError", err)
	}
	if malformed.Output != usage {
		t.Errorf("Output = %q, want verbatim usage text", malformed.Output)
	}
	if !errors.Is(err, report.ErrMalformed) {
		t.Errorf("error should wrap report.ErrMalformed")
	}
}

func TestInvokeRunnerError(t *testing.T) {
	runner := &fakeRunner{err: context.DeadlineExceeded}
	inv := New(config.NewDefaultConfig(), WithRunner(runner), WithLookPath(found("mtr")))

	_, err := inv.Invoke(context.Background(), []string{"example.com"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want the runner error", err)
	}
}

func TestBuildCommand(t *testing.T) {
	tests := []struct {
		name     string
		sudo     bool
		args     []string
		expected []string
	}{
		{"sudo with JSON appended", true, []string{"host"}, []string{"sudo", "/usr/bin/mtr", "host", "-j"}},
		{"JSON already requested", true, []string{"-j", "host"}, []string{"sudo", "/usr/bin/mtr", "-j", "host"}},
		{"without sudo", false, []string{"host"}, []string{"/usr/bin/mtr", "host", "-j"}},
		{"no user args", true, nil, []string{"sudo", "/usr/bin/mtr", "-j"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewDefaultConfig()
			cfg.Sudo = &tt.sudo
			got := New(cfg).BuildCommand("/usr/bin/mtr", tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("BuildCommand() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestLocateUsesConfiguredBinary(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Binary = "mtr-custom"

	var asked string
	inv := New(cfg, WithLookPath(func(name string) (string, error) {
		asked = name
		return "/opt/bin/" + name, nil
	}))

	path, err := inv.Locate()
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if asked != "mtr-custom" || path != "/opt/bin/mtr-custom" {
		t.Errorf("Locate() = %s (asked %s)", path, asked)
	}
}
