package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/backmassage/vidmaker/internal/config"
	"github.com/backmassage/vidmaker/internal/term"
)

// sink is the shared output state of a logger and every child created by
// [Logger.With]. One mutex serializes writes to the console and file.
type sink struct {
	mu      sync.Mutex
	stdout  io.Writer
	stderr  io.Writer
	file    *os.File
	verbose bool
}

// Logger provides leveled, optionally colored logging with optional file sink.
type Logger struct {
	s      *sink
	prefix string
}

// NewLogger configures terminal colors from cfg and optionally opens
// cfg.LogFile. With cfg.Quiet the console is silenced and only the log
// file (if any) receives lines. Call Close() when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)

	s := &sink{stdout: os.Stdout, stderr: os.Stderr, verbose: cfg.Verbose}
	if cfg.Quiet {
		s.stdout, s.stderr = io.Discard, io.Discard
	}

	if cfg.LogFile != "" {
		dir := filepath.Dir(cfg.LogFile)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		s.file = f
	}
	return &Logger{s: s}, nil
}

// With returns a child logger whose lines carry prefix (e.g. a run ID).
// The child shares the parent's outputs; closing either closes both.
func (l *Logger) With(prefix string) *Logger {
	p := prefix
	if l.prefix != "" {
		p = l.prefix + " " + prefix
	}
	return &Logger{s: l.s, prefix: p}
}

// Verbose reports whether debug output is enabled.
func (l *Logger) Verbose() bool { return l.s.verbose }

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if l.s.file != nil {
		err := l.s.file.Close()
		l.s.file = nil
		return err
	}
	return nil
}

func (l *Logger) line(level, color, text string) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	if l.prefix != "" {
		text = "[" + l.prefix + "] " + text
	}
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	plain := ts + " [" + level + "] " + text + "\n"
	out := l.s.stdout
	if level == "ERROR" {
		out = l.s.stderr
	}
	if color != "" {
		_, _ = io.WriteString(out, ts+" "+color+"["+level+"]"+term.NC+" "+text+"\n")
	} else {
		_, _ = io.WriteString(out, plain)
	}
	if l.s.file != nil {
		_, _ = io.WriteString(l.s.file, plain)
	}
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.line("INFO", term.Blue, fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.line("SUCCESS", term.Green, fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line("WARN", term.Yellow, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red), to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.line("ERROR", term.Red, fmt.Sprintf(format, args...))
}

// Render logs at RENDER level (magenta). Used for ffmpeg stage starts.
func (l *Logger) Render(format string, args ...interface{}) {
	l.line("RENDER", term.Magenta, fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan) only when the logger was built with
// cfg.Verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.s.verbose {
		return
	}
	l.line("DEBUG", term.Cyan, fmt.Sprintf(format, args...))
}
