package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestInitLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: LevelWarn, Format: "text", Output: &buf})
	t.Cleanup(func() { defaultLogger = nil })

	Debug("hidden message")
	GetLogger().Warn("visible message", "hop", 3)

	output := buf.String()
	if strings.Contains(output, "hidden message") {
		t.Errorf("debug message should be filtered at warn level, got %q", output)
	}
	if !strings.Contains(output, "visible message") || !strings.Contains(output, "hop=3") {
		t.Errorf("warn message missing from output: %q", output)
	}
}

func TestWithComponentJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: LevelDebug, Format: "json", Output: &buf})
	t.Cleanup(func() { defaultLogger = nil })

	WithComponent("probe").Debug("running")

	output := buf.String()
	if !strings.Contains(output, `"component":"probe"`) {
		t.Errorf("expected component field in JSON output, got %q", output)
	}
	if !strings.Contains(output, `"msg":"running"`) {
		t.Errorf("expected msg field in JSON output, got %q", output)
	}
}
