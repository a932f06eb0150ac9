package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/backmassage/vidmaker/internal/config"
)

func TestNewLogger_NoFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.Quiet = true
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	l.Info("test message")
}

func TestNewLogger_WithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.Quiet = true
	cfg.LogFile = filepath.Join(dir, "logs", "vidmaker.log")
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	l.Info("to file")
	l.With("run 1234").Warn("prefixed")
	l.Debug("hidden without verbose")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(cfg.LogFile)
	if !bytes.Contains(b, []byte("[INFO] to file")) {
		t.Errorf("log file missing info line: %s", string(b))
	}
	if !bytes.Contains(b, []byte("[WARN] [run 1234] prefixed")) {
		t.Errorf("log file missing prefixed line: %s", string(b))
	}
	if bytes.Contains(b, []byte("hidden")) {
		t.Errorf("debug line written without verbose: %s", string(b))
	}
}

func TestLogger_DebugWhenVerbose(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.Quiet = true
	cfg.Verbose = true
	cfg.LogFile = filepath.Join(dir, "vidmaker.log")
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !l.Verbose() {
		t.Error("Verbose() should be true")
	}
	l.Debug("ffmpeg args: %s", "-y")
	l.Close()

	b, _ := os.ReadFile(cfg.LogFile)
	if !bytes.Contains(b, []byte("[DEBUG] ffmpeg args: -y")) {
		t.Errorf("log file content: %s", string(b))
	}
}
