package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNopDefault(t *testing.T) {
	// Before Init, logging must be safe and silent.
	Debug("no-op debug")
	Info("no-op info")
	Sync()
}

func TestInitWritesFile(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "meshtool.log")

	cfg := FileConfig{
		Path:       logFile,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
	}
	if err := InitWithFileConfig("debug", cfg, false); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	Debug("decoded mesh")
	Info("archive opened")
	Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if len(data) == 0 {
		t.Error("log file is empty")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "debug"},
		{"warn", "warn"},
		{"error", "error"},
		{"info", "info"},
		{"bogus", "info"},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in).String(); got != tt.want {
			t.Errorf("parseLevel(%q) = %s, expected %s", tt.in, got, tt.want)
		}
	}
}
