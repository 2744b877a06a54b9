package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesConsoleAndFile(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer
	logger, err := New(Options{Dir: dir, Stderr: &console})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("created", EntityType("node"), Bundle("page"), Items(3))
	logger.Debug("hidden")
	if err := logger.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if !strings.Contains(console.String(), "entity_type=node") {
		t.Fatalf("console output missing fields: %q", console.String())
	}
	if strings.Contains(console.String(), "hidden") {
		t.Fatalf("debug record should be filtered at info level")
	}
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "items=3") {
		t.Fatalf("log file missing record: %q", data)
	}
}

func TestVerboseEnablesDebug(t *testing.T) {
	var console bytes.Buffer
	logger, err := New(Options{Verbose: true, Stderr: &console})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("details", Error(errors.New("boom")))
	if !strings.Contains(console.String(), "error=boom") {
		t.Fatalf("expected debug record, got %q", console.String())
	}
	if got := Error(nil).Value.String(); got != "" {
		t.Fatalf("nil error should render empty, got %q", got)
	}
}
