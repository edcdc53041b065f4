package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kingrea/elicit/internal/config"
)

func TestPrintfWritesTimestampedLines(t *testing.T) {
	projectDir := t.TempDir()
	clock := func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }
	logger, err := New(projectDir, WithClock(clock))
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Printf("Mode %s -> %s\n", "intake", "awaiting-description")
	logger.Printf("WARN publish failed: %v", "no clipboard")
	if err := logger.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(projectDir, config.ElicitDir, "logs", "elicit.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	want := "[2024-03-01T09:30:00Z] Mode intake -> awaiting-description\n" +
		"[2024-03-01T09:30:00Z] WARN publish failed: no clipboard\n"
	if string(data) != want {
		t.Fatalf("log = %q, want %q", string(data), want)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	logger.Printf("ignored")
	if err := logger.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}
